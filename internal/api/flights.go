package api

import (
	"context"
	"fmt"
	"net/http"
)

// SearchFlights runs the public scheduled-flight search. Destination is
// optional and omitted from the query entirely when empty.
func (c *Client) SearchFlights(ctx context.Context, origin, destination, departureDate string) ([]ScheduledFlight, error) {
	query := map[string]string{
		"origen":      origin,
		"fechaSalida": departureDate,
	}
	if destination != "" {
		query["destino"] = destination
	}
	var out []ScheduledFlight
	err := c.execute(ctx, http.MethodGet, "/api/vuelos-programados/search", nil, &out, query)
	return out, err
}

// ListScheduledFlights returns every scheduled flight for the admin list.
func (c *Client) ListScheduledFlights(ctx context.Context) ([]ScheduledFlight, error) {
	var out []ScheduledFlight
	err := c.execute(ctx, http.MethodGet, "/api/vuelos-programados", nil, &out, nil)
	return out, err
}

// CreateScheduledFlight creates a schedule for an existing base flight.
func (c *Client) CreateScheduledFlight(ctx context.Context, payload SchedulePayload) (ScheduledFlight, error) {
	var out ScheduledFlight
	err := c.execute(ctx, http.MethodPost, "/api/vuelos-programados", payload, &out, nil)
	return out, err
}

// UpdateScheduledFlight replaces an existing schedule.
func (c *Client) UpdateScheduledFlight(ctx context.Context, id int64, payload SchedulePayload) (ScheduledFlight, error) {
	var out ScheduledFlight
	err := c.execute(ctx, http.MethodPut, fmt.Sprintf("/api/vuelos-programados/%d", id), payload, &out, nil)
	return out, err
}

// DeleteScheduledFlight removes a schedule.
func (c *Client) DeleteScheduledFlight(ctx context.Context, id int64) error {
	return c.execute(ctx, http.MethodDelete, fmt.Sprintf("/api/vuelos-programados/%d", id), nil, nil, nil)
}

// GetBaseFlight fetches one base flight by id.
func (c *Client) GetBaseFlight(ctx context.Context, id int64) (BaseFlight, error) {
	var out BaseFlight
	err := c.execute(ctx, http.MethodGet, fmt.Sprintf("/api/vuelos/%d", id), nil, &out, nil)
	return out, err
}

// CreateBaseFlight creates a base flight and returns it with its new id.
func (c *Client) CreateBaseFlight(ctx context.Context, payload BaseFlightPayload) (BaseFlight, error) {
	var out BaseFlight
	err := c.execute(ctx, http.MethodPost, "/api/vuelos", payload, &out, nil)
	return out, err
}

// UpdateBaseFlight replaces an existing base flight.
func (c *Client) UpdateBaseFlight(ctx context.Context, id int64, payload BaseFlightPayload) (BaseFlight, error) {
	var out BaseFlight
	err := c.execute(ctx, http.MethodPut, fmt.Sprintf("/api/vuelos/%d", id), payload, &out, nil)
	return out, err
}

// ListAirlines returns the airline reference list for the admin form.
func (c *Client) ListAirlines(ctx context.Context) ([]Airline, error) {
	var out []Airline
	err := c.execute(ctx, http.MethodGet, "/api/aerolineas", nil, &out, nil)
	return out, err
}

// SearchAirports runs the airport typeahead lookup.
func (c *Client) SearchAirports(ctx context.Context, query string) ([]Airport, error) {
	var out []Airport
	err := c.execute(ctx, http.MethodGet, "/api/lugares/buscar", nil, &out, map[string]string{"q": query})
	return out, err
}
