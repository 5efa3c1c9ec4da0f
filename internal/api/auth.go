package api

import (
	"context"
	"net/http"
)

// Register creates a user account. Runs unauthenticated; the caller has no
// token yet.
func (c *Client) Register(ctx context.Context, req RegisterRequest) error {
	return c.execute(ctx, http.MethodPost, "/api/auth/register", req, nil, nil)
}

// Login exchanges credentials for a bearer token.
func (c *Client) Login(ctx context.Context, req LoginRequest) (AuthResponse, error) {
	var out AuthResponse
	err := c.execute(ctx, http.MethodPost, "/api/auth/login", req, &out, nil)
	return out, err
}

// Me resolves the full profile of the token's owner.
func (c *Client) Me(ctx context.Context) (UserProfile, error) {
	var out UserProfile
	err := c.execute(ctx, http.MethodGet, "/api/auth/me", nil, &out, nil)
	return out, err
}
