package service

import (
	"context"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/flyt/flyt/internal/api"
)

// AdminClient is the slice of the gateway the admin coordinator needs.
type AdminClient interface {
	ListScheduledFlights(ctx context.Context) ([]api.ScheduledFlight, error)
	CreateScheduledFlight(ctx context.Context, payload api.SchedulePayload) (api.ScheduledFlight, error)
	UpdateScheduledFlight(ctx context.Context, id int64, payload api.SchedulePayload) (api.ScheduledFlight, error)
	DeleteScheduledFlight(ctx context.Context, id int64) error
	CreateBaseFlight(ctx context.Context, payload api.BaseFlightPayload) (api.BaseFlight, error)
	UpdateBaseFlight(ctx context.Context, id int64, payload api.BaseFlightPayload) (api.BaseFlight, error)
	ListAirlines(ctx context.Context) ([]api.Airline, error)
	SearchAirports(ctx context.Context, query string) ([]api.Airport, error)
}

// AirlinesState is the reference-data side of the admin form. A failed load
// leaves Airlines empty; the form stays usable with an empty selector.
type AirlinesState struct {
	Airlines []api.Airline
	Loading  bool
}

// SaveStage tells which step of a write failed. The base-flight and schedule
// records are two backend resources written in sequence, so a schedule
// failure means the base flight may already be persisted.
type SaveStage int

const (
	StageValidation SaveStage = iota
	StageBaseFlight
	StageSchedule
	StageDelete
	StageNone
)

// OpResult reports the outcome of a save or delete to the presentation layer.
type OpResult struct {
	OK      bool
	Stage   SaveStage
	Message string
}

// FlightDraft is the admin edit form. Pointer fields are unset until the
// user fills them; unset numerics default to zero at payload build time.
type FlightDraft struct {
	FlightCode      string
	AirlineID       *int64
	OriginID        *int64
	OriginText      string
	DestinationID   *int64
	DestinationText string
	DepartureDate   string
	DepartureTime   string
	ArrivalDate     string
	ArrivalTime     string
	DurationMinutes *int
	Price           *float64
	SeatsAvailable  *int
	SeatsTotal      *int
	StopCount       *int
}

// AdminObservers receive admin state transitions. Any of them may be nil.
type AdminObservers struct {
	List        func(FlightListState)
	Airlines    func(AirlinesState)
	Result      func(OpResult)
	Suggestions func(LookupField, LookupState)
}

// FlightAdmin orchestrates the scheduled-flight list and the two-phase
// create/update flow.
type FlightAdmin struct {
	mu     sync.Mutex
	client AdminClient
	lookup *Lookup
	obs    AdminObservers
	log    zerolog.Logger

	list     FlightListState
	airlines AirlinesState
}

func NewFlightAdmin(client AdminClient, obs AdminObservers, debounce time.Duration, log zerolog.Logger) *FlightAdmin {
	if obs.List == nil {
		obs.List = func(FlightListState) {}
	}
	if obs.Airlines == nil {
		obs.Airlines = func(AirlinesState) {}
	}
	if obs.Result == nil {
		obs.Result = func(OpResult) {}
	}
	l := log.With().Str("component", "flight-admin").Logger()
	a := &FlightAdmin{
		client: client,
		obs:    obs,
		log:    l,
		list:   FlightListState{Phase: Loading},
	}
	a.lookup = NewLookup(client.SearchAirports, obs.Suggestions, debounce, l)
	return a
}

// LoadInitial fetches the flight list and the airline reference data. The two
// loads are independent resources and run concurrently; LoadInitial returns
// when both have settled.
func (a *FlightAdmin) LoadInitial(ctx context.Context) {
	var wg sync.WaitGroup
	wg.Add(2)
	go func() {
		defer wg.Done()
		a.LoadFlights(ctx)
	}()
	go func() {
		defer wg.Done()
		a.loadAirlines(ctx)
	}()
	wg.Wait()
}

// LoadFlights reloads the scheduled-flight list from scratch.
func (a *FlightAdmin) LoadFlights(ctx context.Context) {
	a.setList(FlightListState{Phase: Loading})
	flights, err := a.client.ListScheduledFlights(ctx)
	if err != nil {
		a.setList(FlightListState{Phase: Failed, Message: errText(err)})
		return
	}
	a.setList(FlightListState{Phase: Success, Flights: flights})
}

// loadAirlines fetches the airline selector contents. Failure is non-fatal:
// the selector stays empty and the error only reaches the log.
func (a *FlightAdmin) loadAirlines(ctx context.Context) {
	a.setAirlines(AirlinesState{Loading: true})
	airlines, err := a.client.ListAirlines(ctx)
	if err != nil {
		a.log.Error().Err(err).Msg("loading airlines failed")
		a.setAirlines(AirlinesState{})
		return
	}
	a.setAirlines(AirlinesState{Airlines: airlines})
}

// List returns the current list state.
func (a *FlightAdmin) List() FlightListState {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.list
}

// Airlines returns the current reference-data state.
func (a *FlightAdmin) Airlines() AirlinesState {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.airlines
}

// SearchAirports feeds the edit form's typeahead for one field.
func (a *FlightAdmin) SearchAirports(field LookupField, query string) {
	a.lookup.Input(field, query)
}

// ClearSuggestions drops a field's suggestions, e.g. after a selection.
func (a *FlightAdmin) ClearSuggestions(field LookupField) {
	a.lookup.Clear(field)
}

// Save runs the two-phase write: base flight first, then the schedule that
// references it. The phases are strictly sequential; a base-flight failure
// means the schedule is never attempted, and a schedule failure is reported
// as its own stage because the base flight may already be persisted — no
// compensating rollback exists. Only a fully successful save reloads the list.
func (a *FlightAdmin) Save(ctx context.Context, isEditing bool, existing *api.ScheduledFlight, draft FlightDraft) {
	if draft.AirlineID == nil || draft.OriginID == nil || draft.DestinationID == nil {
		a.obs.Result(OpResult{Stage: StageValidation, Message: "Aerolínea, Origen y Destino son obligatorios."})
		return
	}

	var baseID *int64
	if isEditing && existing != nil {
		id := existing.Flight.ID
		baseID = &id
	}
	basePayload := api.NewBaseFlightPayload(
		baseID,
		draft.FlightCode,
		*draft.AirlineID,
		*draft.OriginID,
		*draft.DestinationID,
		intOrZero(draft.DurationMinutes),
	)

	var base api.BaseFlight
	var err error
	if baseID != nil {
		base, err = a.client.UpdateBaseFlight(ctx, *baseID, basePayload)
	} else {
		base, err = a.client.CreateBaseFlight(ctx, basePayload)
	}
	if err != nil {
		a.obs.Result(OpResult{Stage: StageBaseFlight, Message: "Error al guardar el vuelo base: " + errText(err)})
		return
	}

	schedulePayload := api.SchedulePayload{
		DepartureDate:  draft.DepartureDate,
		DepartureTime:  draft.DepartureTime,
		ArrivalDate:    draft.ArrivalDate,
		ArrivalTime:    draft.ArrivalTime,
		Price:          floatOrZero(draft.Price),
		SeatsAvailable: intOrZero(draft.SeatsAvailable),
		SeatsTotal:     intOrZero(draft.SeatsTotal),
		StopCount:      intOrZero(draft.StopCount),
	}
	schedulePayload.SetFlightID(base.ID)

	if isEditing && existing != nil {
		_, err = a.client.UpdateScheduledFlight(ctx, existing.ID, schedulePayload)
	} else {
		_, err = a.client.CreateScheduledFlight(ctx, schedulePayload)
	}
	if err != nil {
		a.obs.Result(OpResult{Stage: StageSchedule, Message: "Error al guardar el vuelo programado: " + errText(err)})
		return
	}

	msg := "Vuelo creado"
	if isEditing {
		msg = "Vuelo actualizado"
	}
	a.obs.Result(OpResult{OK: true, Stage: StageNone, Message: msg})
	a.LoadFlights(ctx)
}

// Delete removes a scheduled flight. Success triggers exactly one full list
// reload; failure leaves the local list untouched.
func (a *FlightAdmin) Delete(ctx context.Context, id int64) {
	if err := a.client.DeleteScheduledFlight(ctx, id); err != nil {
		a.obs.Result(OpResult{Stage: StageDelete, Message: errText(err)})
		return
	}
	a.obs.Result(OpResult{OK: true, Stage: StageNone, Message: "Vuelo eliminado con éxito"})
	a.LoadFlights(ctx)
}

func (a *FlightAdmin) setList(s FlightListState) {
	a.mu.Lock()
	a.list = s
	a.mu.Unlock()
	a.obs.List(s)
}

func (a *FlightAdmin) setAirlines(s AirlinesState) {
	a.mu.Lock()
	a.airlines = s
	a.mu.Unlock()
	a.obs.Airlines(s)
}

func intOrZero(v *int) int {
	if v == nil {
		return 0
	}
	return *v
}

func floatOrZero(v *float64) float64 {
	if v == nil {
		return 0
	}
	return *v
}
