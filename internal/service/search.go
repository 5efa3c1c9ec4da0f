package service

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/flyt/flyt/internal/api"
	"github.com/flyt/flyt/internal/dates"
)

// SearchClient is the slice of the gateway the search coordinator needs.
type SearchClient interface {
	SearchFlights(ctx context.Context, origin, destination, departureDate string) ([]api.ScheduledFlight, error)
	SearchAirports(ctx context.Context, query string) ([]api.Airport, error)
}

// SearchForm is the public search draft. The origin/destination fields hold
// composed labels ("City, Country (CODE)") once a suggestion is selected.
type SearchForm struct {
	OriginText      string
	DestinationText string
	DepartureDate   string // dd/mm/yyyy
}

// SearchObservers receive search state transitions. Any of them may be nil.
type SearchObservers struct {
	Result      func(FlightListState)
	Suggestions func(LookupField, LookupState)
}

// FlightSearch turns the search form into a validated API query. The result
// state machine is re-entrant: a new search may start from any terminal state.
type FlightSearch struct {
	mu     sync.Mutex
	client SearchClient
	lookup *Lookup
	obs    SearchObservers
	log    zerolog.Logger

	form   SearchForm
	result FlightListState
}

func NewFlightSearch(client SearchClient, obs SearchObservers, debounce time.Duration, log zerolog.Logger) *FlightSearch {
	if obs.Result == nil {
		obs.Result = func(FlightListState) {}
	}
	l := log.With().Str("component", "flight-search").Logger()
	s := &FlightSearch{
		client: client,
		obs:    obs,
		log:    l,
		result: FlightListState{Phase: Idle},
	}
	s.lookup = NewLookup(client.SearchAirports, obs.Suggestions, debounce, l)
	return s
}

// Form returns the current draft.
func (s *FlightSearch) Form() SearchForm {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.form
}

// Result returns the current result state.
func (s *FlightSearch) Result() FlightListState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.result
}

// SetOrigin updates the origin text and feeds the typeahead.
func (s *FlightSearch) SetOrigin(text string) {
	s.mu.Lock()
	s.form.OriginText = text
	s.mu.Unlock()
	s.lookup.Input(FieldOrigin, text)
}

// SetDestination updates the destination text and feeds the typeahead.
func (s *FlightSearch) SetDestination(text string) {
	s.mu.Lock()
	s.form.DestinationText = text
	s.mu.Unlock()
	s.lookup.Input(FieldDestination, text)
}

// SetDate updates the departure date (display format).
func (s *FlightSearch) SetDate(date string) {
	s.mu.Lock()
	s.form.DepartureDate = date
	s.mu.Unlock()
}

// SelectSuggestion collapses a field to the picked airport's label and drops
// that field's suggestions without triggering a new lookup.
func (s *FlightSearch) SelectSuggestion(field LookupField, airport api.Airport) {
	s.mu.Lock()
	if field == FieldOrigin {
		s.form.OriginText = airport.Label()
	} else {
		s.form.DestinationText = airport.Label()
	}
	s.mu.Unlock()
	s.lookup.Clear(field)
}

// Search validates the draft and runs the public flight search. Zero results
// is surfaced as an error state, not an empty success — a deliberate UX
// policy, not a failure of the request.
func (s *FlightSearch) Search(ctx context.Context) {
	s.mu.Lock()
	form := s.form
	s.mu.Unlock()

	if strings.TrimSpace(form.OriginText) == "" {
		s.setResult(FlightListState{Phase: Failed, Message: "Debes introducir un origen."})
		return
	}
	departure, ok := dates.ToAPIFormat(form.DepartureDate)
	if !ok {
		s.setResult(FlightListState{Phase: Failed, Message: "Debes seleccionar una fecha de salida válida."})
		return
	}

	s.setResult(FlightListState{Phase: Loading})

	destination := ""
	if strings.TrimSpace(form.DestinationText) != "" {
		destination = leadingToken(form.DestinationText)
	}
	flights, err := s.client.SearchFlights(ctx, leadingToken(form.OriginText), destination, departure)
	if err != nil {
		s.setResult(FlightListState{Phase: Failed, Message: errText(err)})
		return
	}
	if len(flights) == 0 {
		s.setResult(FlightListState{Phase: Failed, Message: "No se encontraron vuelos para esta búsqueda."})
		return
	}
	s.setResult(FlightListState{Phase: Success, Flights: flights})
}

// Reset returns the coordinator to its initial state. Called when the active
// profile changes so results never leak across accounts.
func (s *FlightSearch) Reset() {
	s.mu.Lock()
	s.form = SearchForm{}
	s.mu.Unlock()
	s.lookup.Clear(FieldOrigin)
	s.lookup.Clear(FieldDestination)
	s.setResult(FlightListState{Phase: Idle})
}

// leadingToken extracts the city token from a composed label: only the text
// before the first comma means anything to the backend.
func leadingToken(text string) string {
	return strings.TrimSpace(strings.SplitN(text, ",", 2)[0])
}

func (s *FlightSearch) setResult(r FlightListState) {
	s.mu.Lock()
	s.result = r
	s.mu.Unlock()
	s.obs.Result(r)
}
