// Package api is the authenticated gateway to the booking backend. Every
// coordinator call goes through one Client; the bearer token is read from the
// session store per request, never cached in the client.
package api

import (
	"context"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/flyt/flyt/internal/config"
	"github.com/flyt/flyt/internal/session"
)

// Client wraps the HTTP transport. Construct it once and inject it; there is
// no package-level singleton.
type Client struct {
	r   *resty.Client
	log zerolog.Logger
}

// NewClient builds the gateway. The store supplies the bearer token for each
// outbound request; requests sent before login simply carry no Authorization
// header.
func NewClient(cfg config.APIConfig, store *session.Store, log zerolog.Logger) *Client {
	l := log.With().Str("component", "api").Logger()

	r := resty.New().
		SetBaseURL(cfg.BaseURL).
		SetTimeout(time.Duration(cfg.TimeoutSeconds) * time.Second).
		SetHeader("Accept", "application/json")

	r.OnBeforeRequest(func(_ *resty.Client, req *resty.Request) error {
		req.SetHeader("X-Request-ID", uuid.NewString())
		if sess := store.Get(req.Context()); sess.Token != "" {
			req.SetHeader("Authorization", "Bearer "+sess.Token)
		}
		return nil
	})

	r.OnAfterResponse(func(_ *resty.Client, resp *resty.Response) error {
		l.Debug().
			Str("method", resp.Request.Method).
			Str("url", resp.Request.URL).
			Int("status", resp.StatusCode()).
			Dur("elapsed", resp.Time()).
			Msg("request")
		return nil
	})

	return &Client{r: r, log: l}
}

// execute performs one request and maps the outcome onto the error taxonomy:
// nil on 2xx (with out decoded when non-nil), *ServerError on any other
// status, *ConnectionError when no status was produced at all.
func (c *Client) execute(ctx context.Context, method, path string, body, out any, query map[string]string) error {
	req := c.r.R().SetContext(ctx)
	if body != nil {
		req.SetBody(body)
	}
	if out != nil {
		req.SetResult(out)
	}
	if len(query) > 0 {
		req.SetQueryParams(query)
	}

	resp, err := req.Execute(method, path)
	if err != nil {
		return &ConnectionError{Err: err}
	}
	if resp.IsError() {
		return serverError(resp.StatusCode(), resp.Body())
	}
	return nil
}
