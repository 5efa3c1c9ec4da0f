package service

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"

	"github.com/flyt/flyt/internal/api"
)

// fakeAdminClient scripts every admin endpoint and counts calls so the tests
// can assert which phases ran.
type fakeAdminClient struct {
	mu sync.Mutex

	flights     []api.ScheduledFlight
	flightsErr  error
	airlines    []api.Airline
	airlinesErr error

	createBaseErr     error
	updateBaseErr     error
	createScheduleErr error
	updateScheduleErr error
	deleteErr         error

	listCalls           int
	createBaseCalls     int
	updateBaseCalls     int
	createScheduleCalls int
	updateScheduleCalls int
	deleteCalls         int

	lastBasePayload     api.BaseFlightPayload
	lastSchedulePayload api.SchedulePayload
}

func (f *fakeAdminClient) ListScheduledFlights(ctx context.Context) ([]api.ScheduledFlight, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.listCalls++
	return f.flights, f.flightsErr
}

func (f *fakeAdminClient) CreateScheduledFlight(ctx context.Context, payload api.SchedulePayload) (api.ScheduledFlight, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.createScheduleCalls++
	f.lastSchedulePayload = payload
	return api.ScheduledFlight{ID: 500}, f.createScheduleErr
}

func (f *fakeAdminClient) UpdateScheduledFlight(ctx context.Context, id int64, payload api.SchedulePayload) (api.ScheduledFlight, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.updateScheduleCalls++
	f.lastSchedulePayload = payload
	return api.ScheduledFlight{ID: id}, f.updateScheduleErr
}

func (f *fakeAdminClient) DeleteScheduledFlight(ctx context.Context, id int64) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.deleteCalls++
	return f.deleteErr
}

func (f *fakeAdminClient) CreateBaseFlight(ctx context.Context, payload api.BaseFlightPayload) (api.BaseFlight, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.createBaseCalls++
	f.lastBasePayload = payload
	return api.BaseFlight{ID: 100}, f.createBaseErr
}

func (f *fakeAdminClient) UpdateBaseFlight(ctx context.Context, id int64, payload api.BaseFlightPayload) (api.BaseFlight, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.updateBaseCalls++
	f.lastBasePayload = payload
	return api.BaseFlight{ID: id}, f.updateBaseErr
}

func (f *fakeAdminClient) ListAirlines(ctx context.Context) ([]api.Airline, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.airlines, f.airlinesErr
}

func (f *fakeAdminClient) SearchAirports(ctx context.Context, query string) ([]api.Airport, error) {
	return nil, nil
}

func newTestAdmin(client AdminClient, obs AdminObservers) *FlightAdmin {
	return NewFlightAdmin(client, obs, testDebounce, zerolog.Nop())
}

func i64(v int64) *int64      { return &v }
func iptr(v int) *int         { return &v }
func fptr(v float64) *float64 { return &v }

func validDraft() FlightDraft {
	return FlightDraft{
		FlightCode:      "IB123",
		AirlineID:       i64(3),
		OriginID:        i64(10),
		DestinationID:   i64(20),
		DepartureDate:   "2025-12-07",
		DepartureTime:   "08:30",
		ArrivalDate:     "2025-12-07",
		ArrivalTime:     "10:45",
		DurationMinutes: iptr(135),
		Price:           fptr(129.90),
		SeatsAvailable:  iptr(180),
		SeatsTotal:      iptr(180),
		StopCount:       iptr(0),
	}
}

func TestLoadInitialFetchesBothResources(t *testing.T) {
	t.Parallel()

	client := &fakeAdminClient{
		flights:  []api.ScheduledFlight{demoFlight(1)},
		airlines: []api.Airline{{ID: 3, Name: "Iberia", Code: "IB"}},
	}
	admin := newTestAdmin(client, AdminObservers{})

	admin.LoadInitial(context.Background())

	require.Equal(t, Success, admin.List().Phase)
	require.Len(t, admin.List().Flights, 1)
	require.Len(t, admin.Airlines().Airlines, 1)
	require.False(t, admin.Airlines().Loading)
}

func TestAirlineLoadFailureIsNonFatal(t *testing.T) {
	t.Parallel()

	client := &fakeAdminClient{
		flights:     []api.ScheduledFlight{demoFlight(1)},
		airlinesErr: errors.New("timeout"),
	}
	admin := newTestAdmin(client, AdminObservers{})

	admin.LoadInitial(context.Background())

	require.Equal(t, Success, admin.List().Phase, "the list must load even when airlines fail")
	require.Empty(t, admin.Airlines().Airlines)
	require.False(t, admin.Airlines().Loading)
}

func TestSaveValidationRunsNoNetworkCalls(t *testing.T) {
	t.Parallel()

	client := &fakeAdminClient{}
	var results []OpResult
	admin := newTestAdmin(client, AdminObservers{Result: func(r OpResult) { results = append(results, r) }})

	draft := validDraft()
	draft.OriginID = nil
	admin.Save(context.Background(), false, nil, draft)

	require.Len(t, results, 1)
	require.False(t, results[0].OK)
	require.Equal(t, StageValidation, results[0].Stage)
	require.Equal(t, "Aerolínea, Origen y Destino son obligatorios.", results[0].Message)
	require.Zero(t, client.createBaseCalls)
	require.Zero(t, client.createScheduleCalls)
	require.Zero(t, client.listCalls)
}

func TestSaveCreateHappyPath(t *testing.T) {
	t.Parallel()

	client := &fakeAdminClient{flights: []api.ScheduledFlight{demoFlight(1)}}
	var results []OpResult
	admin := newTestAdmin(client, AdminObservers{Result: func(r OpResult) { results = append(results, r) }})

	admin.Save(context.Background(), false, nil, validDraft())

	require.Equal(t, 1, client.createBaseCalls)
	require.Equal(t, 1, client.createScheduleCalls)
	require.Zero(t, client.updateBaseCalls)
	require.Zero(t, client.updateScheduleCalls)

	require.Nil(t, client.lastBasePayload.ID, "create must not carry a base-flight id")
	require.EqualValues(t, 100, client.lastSchedulePayload.Flight.ID, "schedule references the base flight the backend returned")

	require.Len(t, results, 1)
	require.True(t, results[0].OK)
	require.Equal(t, "Vuelo creado", results[0].Message)
	require.Equal(t, 1, client.listCalls, "a successful save reloads the list")
}

func TestSaveEditUpdatesBothRecords(t *testing.T) {
	t.Parallel()

	existing := demoFlight(7)
	existing.Flight.ID = 42

	client := &fakeAdminClient{}
	var results []OpResult
	admin := newTestAdmin(client, AdminObservers{Result: func(r OpResult) { results = append(results, r) }})

	admin.Save(context.Background(), true, &existing, validDraft())

	require.Equal(t, 1, client.updateBaseCalls)
	require.Equal(t, 1, client.updateScheduleCalls)
	require.Zero(t, client.createBaseCalls)
	require.Zero(t, client.createScheduleCalls)
	require.NotNil(t, client.lastBasePayload.ID)
	require.EqualValues(t, 42, *client.lastBasePayload.ID)
	require.EqualValues(t, 42, client.lastSchedulePayload.Flight.ID)
	require.Equal(t, "Vuelo actualizado", results[0].Message)
}

func TestSaveBaseFlightFailureNeverAttemptsSchedule(t *testing.T) {
	t.Parallel()

	client := &fakeAdminClient{createBaseErr: &api.ServerError{Status: 409, Message: "Código duplicado"}}
	var results []OpResult
	admin := newTestAdmin(client, AdminObservers{Result: func(r OpResult) { results = append(results, r) }})

	admin.Save(context.Background(), false, nil, validDraft())

	require.Equal(t, 1, client.createBaseCalls)
	require.Zero(t, client.createScheduleCalls, "a failed base flight must stop the save before the schedule phase")
	require.Zero(t, client.listCalls, "a failed save must not reload the list")

	require.Len(t, results, 1)
	require.False(t, results[0].OK)
	require.Equal(t, StageBaseFlight, results[0].Stage)
	require.Equal(t, "Error al guardar el vuelo base: Código duplicado", results[0].Message)
}

func TestSaveScheduleFailureReportsItsOwnStage(t *testing.T) {
	t.Parallel()

	client := &fakeAdminClient{createScheduleErr: &api.ServerError{Status: 500, Message: "Fallo interno"}}
	var results []OpResult
	admin := newTestAdmin(client, AdminObservers{Result: func(r OpResult) { results = append(results, r) }})

	admin.Save(context.Background(), false, nil, validDraft())

	require.Equal(t, 1, client.createBaseCalls, "the base flight was persisted before the failure")
	require.Equal(t, 1, client.createScheduleCalls)
	require.Zero(t, client.listCalls, "a half-finished save must not reload the list")

	require.Len(t, results, 1)
	require.False(t, results[0].OK)
	require.Equal(t, StageSchedule, results[0].Stage)
	require.True(t, strings.HasPrefix(results[0].Message, "Error al guardar el vuelo programado: "),
		"the schedule failure must be distinguishable from a base-flight failure")
}

func TestSaveUnsetNumericsDefaultToZero(t *testing.T) {
	t.Parallel()

	client := &fakeAdminClient{}
	admin := newTestAdmin(client, AdminObservers{})

	draft := FlightDraft{
		FlightCode:    "IB123",
		AirlineID:     i64(3),
		OriginID:      i64(10),
		DestinationID: i64(20),
	}
	admin.Save(context.Background(), false, nil, draft)

	require.Zero(t, client.lastBasePayload.DurationMinutes)
	require.Zero(t, client.lastSchedulePayload.Price)
	require.Zero(t, client.lastSchedulePayload.SeatsTotal)
}

func TestDeleteSuccessReloadsExactlyOnce(t *testing.T) {
	t.Parallel()

	client := &fakeAdminClient{flights: []api.ScheduledFlight{demoFlight(2)}}
	var results []OpResult
	admin := newTestAdmin(client, AdminObservers{Result: func(r OpResult) { results = append(results, r) }})

	admin.Delete(context.Background(), 7)

	require.Equal(t, 1, client.deleteCalls)
	require.Equal(t, 1, client.listCalls)
	require.True(t, results[0].OK)
	require.Equal(t, "Vuelo eliminado con éxito", results[0].Message)
}

func TestDeleteFailureReloadsNothing(t *testing.T) {
	t.Parallel()

	client := &fakeAdminClient{deleteErr: &api.ServerError{Status: 404, Message: "No existe"}}
	var results []OpResult
	admin := newTestAdmin(client, AdminObservers{Result: func(r OpResult) { results = append(results, r) }})

	admin.Delete(context.Background(), 7)

	require.Equal(t, 1, client.deleteCalls)
	require.Zero(t, client.listCalls, "a failed delete must leave the list untouched")
	require.False(t, results[0].OK)
	require.Equal(t, StageDelete, results[0].Stage)
	require.Equal(t, "No existe", results[0].Message)
}

func TestListLoadFailureSurfacesMessage(t *testing.T) {
	t.Parallel()

	client := &fakeAdminClient{flightsErr: &api.ConnectionError{}}
	admin := newTestAdmin(client, AdminObservers{})

	admin.LoadFlights(context.Background())

	require.Equal(t, Failed, admin.List().Phase)
	require.Equal(t, "Error de conexión", admin.List().Message)
}
