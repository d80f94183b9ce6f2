package gateway

import (
	"context"
	"fmt"

	"github.com/campus-core/portal-client/internal/models"
)

// AuthAPI is the slice of the gateway the session manager depends on.
type AuthAPI interface {
	Login(ctx context.Context, username, password string) (*models.LoginResponse, error)
	Register(ctx context.Context, req models.RegisterRequest) (*models.RegisterResponse, error)
	Profile(ctx context.Context) (*models.ProfileResponse, error)
}

// Login calls POST /auth/login. The credentials precede token existence,
// so this request goes out without an Authorization header.
func (c *Client) Login(ctx context.Context, username, password string) (*models.LoginResponse, error) {
	var resp models.LoginResponse
	req := models.LoginRequest{Username: username, Password: password}
	if err := c.Post(ctx, "/auth/login", req, &resp); err != nil {
		return nil, err
	}

	// A 2xx with missing fields is a malformed success; treat it as a
	// failure so the session is never half-populated.
	if resp.AccessToken == "" || resp.User == nil {
		return nil, fmt.Errorf("gateway: login response missing token or user")
	}
	return &resp, nil
}

// Register calls POST /auth/register. Registration alone does not
// authenticate; the caller logs in afterwards.
func (c *Client) Register(ctx context.Context, req models.RegisterRequest) (*models.RegisterResponse, error) {
	var resp models.RegisterResponse
	if err := c.Post(ctx, "/auth/register", req, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// Profile calls GET /auth/profile with the current token.
func (c *Client) Profile(ctx context.Context) (*models.ProfileResponse, error) {
	var resp models.ProfileResponse
	if err := c.Get(ctx, "/auth/profile", nil, &resp); err != nil {
		return nil, err
	}
	if resp.UserDetails == nil {
		return nil, fmt.Errorf("gateway: profile response missing user details")
	}
	return &resp, nil
}
