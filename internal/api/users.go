package api

import (
	"context"
	"net/http"

	"trolley/internal/logging"
)

// Me returns the identity of the current session, or ErrUnauthenticated.
func (c *Client) Me(ctx context.Context) (*Identity, error) {
	var id Identity
	if err := c.do(ctx, http.MethodGet, "/api/users/me", nil, &id); err != nil {
		return nil, err
	}
	return &id, nil
}

// Login authenticates with username/password. The session cookie lands in the
// client's jar; the returned identity mirrors what /api/users/me would report.
func (c *Client) Login(ctx context.Context, username, password string) (*Identity, error) {
	body := map[string]string{"username": username, "password": password}
	var id Identity
	if err := c.do(ctx, http.MethodPost, "/api/users/login", body, &id); err != nil {
		return nil, err
	}
	logging.Session("login succeeded for %s", id.Username)
	return &id, nil
}

// Register creates a new account. The caller still has to log in afterwards.
func (c *Client) Register(ctx context.Context, username, email, password string) error {
	body := map[string]string{"username": username, "email": email, "password": password}
	return c.do(ctx, http.MethodPost, "/api/users/register", body, nil)
}

// Logout invalidates the server session. Note the endpoint sits outside /api.
func (c *Client) Logout(ctx context.Context) error {
	return c.do(ctx, http.MethodPost, "/logout", nil, nil)
}
