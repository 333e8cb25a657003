package api

import (
	"context"
	"net/http"
	"time"
)

type credentials struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type pinBody struct {
	Pin string `json:"pin"`
}

type pinStatus struct {
	HasPin bool `json:"has_pin"`
}

// UnlockGrant is returned by a successful PIN verification.
type UnlockGrant struct {
	OK          bool      `json:"ok"`
	UnlockToken string    `json:"unlock_token"`
	ExpiresAt   time.Time `json:"expires_at"`
}

// Register creates an account and returns its id.
func (c *Client) Register(ctx context.Context, email, password string) (string, error) {
	var out struct {
		ID string `json:"id"`
	}
	err := c.do(ctx, http.MethodPost, "/auth/register", nil, credentials{email, password}, &out, http.StatusCreated)
	return out.ID, err
}

// Login authenticates and stores the returned token on the client.
func (c *Client) Login(ctx context.Context, email, password string) (string, error) {
	var out struct {
		AccessToken string `json:"access_token"`
	}
	if err := c.do(ctx, http.MethodPost, "/auth/login", nil, credentials{email, password}, &out, http.StatusOK); err != nil {
		return "", err
	}
	c.SetToken(out.AccessToken)
	return out.AccessToken, nil
}

func (c *Client) PinStatus(ctx context.Context) (bool, error) {
	var out pinStatus
	err := c.do(ctx, http.MethodGet, "/auth/status", nil, nil, &out, http.StatusOK)
	return out.HasPin, err
}

func (c *Client) SetPin(ctx context.Context, pin string) error {
	return c.do(ctx, http.MethodPost, "/auth/pin", nil, pinBody{pin}, nil, http.StatusOK)
}

func (c *Client) ClearPin(ctx context.Context, pin string) error {
	return c.do(ctx, http.MethodDelete, "/auth/pin", nil, pinBody{pin}, nil, http.StatusOK)
}

// VerifyPin checks the PIN and stores the unlock grant on the client.
func (c *Client) VerifyPin(ctx context.Context, pin string) (*UnlockGrant, error) {
	var out UnlockGrant
	if err := c.do(ctx, http.MethodPost, "/auth/verify-pin", nil, pinBody{pin}, &out, http.StatusOK); err != nil {
		return nil, err
	}
	c.SetUnlockToken(out.UnlockToken)
	return &out, nil
}

// Health reports whether the server answers.
func (c *Client) Health(ctx context.Context) error {
	return c.do(ctx, http.MethodGet, "/healthz", nil, nil, nil, http.StatusOK)
}
