// Package api is a typed client for the SmartNotes HTTP API.
//
// The session token is sent as a Bearer header; an unlock grant, once set,
// is sent with every request in the X-Unlock-Token header.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/dmitrijs2005/smartnotes/internal/common"
)

const defaultTimeout = 10 * time.Second

type Client struct {
	baseURL string
	http    *http.Client

	mu          sync.RWMutex
	token       string
	unlockToken string
}

func NewClient(baseURL string, hc *http.Client) *Client {
	if hc == nil {
		hc = &http.Client{Timeout: defaultTimeout}
	}
	return &Client{baseURL: strings.TrimRight(baseURL, "/"), http: hc}
}

func (c *Client) SetToken(token string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.token = token
}

func (c *Client) Token() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.token
}

// SetUnlockToken sets or, with "", drops the unlock grant.
func (c *Client) SetUnlockToken(token string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.unlockToken = token
}

func (c *Client) credentials() (string, string) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.token, c.unlockToken
}

// do sends in as JSON and decodes the answer into out. Any status other
// than want is returned as *Error; transport failures as ErrUnavailable.
func (c *Client) do(ctx context.Context, method, path string, q url.Values, in, out any, want int) error {
	u := c.baseURL + path
	if len(q) > 0 {
		u += "?" + q.Encode()
	}

	var body io.Reader
	if in != nil {
		b, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("encoding request: %w", err)
		}
		body = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, method, u, body)
	if err != nil {
		return err
	}
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	token, unlock := c.credentials()
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	if unlock != "" {
		req.Header.Set(common.UnlockTokenHeaderName, unlock)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		if errors.Is(err, context.Canceled) {
			return err
		}
		return fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != want {
		return decodeError(resp)
	}
	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decoding response: %w", err)
	}
	return nil
}

func decodeError(resp *http.Response) error {
	e := &Error{Status: resp.StatusCode}
	var p struct {
		Error   string `json:"error"`
		Message string `json:"message"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&p); err == nil {
		e.Kind, e.Message = p.Error, p.Message
	}
	if e.Kind == "" {
		e.Kind = strings.ToLower(strings.ReplaceAll(http.StatusText(resp.StatusCode), " ", "_"))
		e.Message = http.StatusText(resp.StatusCode)
	}
	return e
}
