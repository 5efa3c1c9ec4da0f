// Package service holds the coordinators that mediate between user input,
// the booking API, and the persisted session. Coordinators expose their state
// as finite value types delivered through observer callbacks; the presentation
// layer never sees a raw error.
package service

import (
	"errors"

	"github.com/flyt/flyt/internal/api"
)

// Phase is the lifecycle of one asynchronous operation.
type Phase int

const (
	Idle Phase = iota
	Loading
	Success
	Failed
)

func (p Phase) String() string {
	switch p {
	case Idle:
		return "idle"
	case Loading:
		return "loading"
	case Success:
		return "success"
	case Failed:
		return "failed"
	}
	return "unknown"
}

// OpState is the observable outcome of a single operation (login, register).
// Message is only meaningful when Phase is Failed.
type OpState struct {
	Phase   Phase
	Message string
}

// FlightListState is the observable state of a flight collection, shared by
// the public search results and the admin list.
type FlightListState struct {
	Phase   Phase
	Flights []api.ScheduledFlight
	Message string
}

// ValidationError is a client-side rejection raised before any network call.
type ValidationError struct {
	Message string
}

func (e ValidationError) Error() string { return e.Message }

const connectionFallback = "Error de conexión"

// errText resolves the user-facing message for an operation failure,
// following the taxonomy: validation message, server envelope message,
// transport error text, generic fallback.
func errText(err error) string {
	if err == nil {
		return ""
	}
	var vErr ValidationError
	if errors.As(err, &vErr) {
		return vErr.Message
	}
	var srvErr *api.ServerError
	if errors.As(err, &srvErr) {
		return srvErr.Message
	}
	var connErr *api.ConnectionError
	if errors.As(err, &connErr) {
		if connErr.Err != nil {
			return connErr.Err.Error()
		}
		return connectionFallback
	}
	return err.Error()
}
