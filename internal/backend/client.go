// Package backend is the HTTP client for the moonpull JSON API.
package backend

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/moonpull/moonpull-web/internal/model"
)

// SessionCookie is the cookie the API reads the session token from. It
// mirrors auth.CookieName so the client does not link in the server's
// session store; TestCookieNameMatchesServer keeps the two equal.
const SessionCookie = "MOONPULL_SESSION"

// ErrNoSessionCookie means a login or join answered without a session cookie
var ErrNoSessionCookie = errors.New("server did not issue a session cookie")

// Client talks to the API, sending its token as the session cookie
type Client struct {
	baseURL    string
	httpClient *http.Client

	mu    sync.RWMutex
	token string
}

// New creates a client for baseURL using token, which may be empty
func New(baseURL, token string) *Client {
	return &Client{
		baseURL: strings.TrimSuffix(baseURL, "/"),
		token:   token,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

// Token returns the current session token
func (c *Client) Token() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.token
}

// SetToken replaces the session token
func (c *Client) SetToken(token string) {
	c.mu.Lock()
	c.token = token
	c.mu.Unlock()
}

// APIError is an error answer from the API
type APIError struct {
	Status  int    `json:"-"`
	Code    string `json:"code"`
	Message string `json:"message"`
}

func (e *APIError) Error() string {
	if e.Code == "" {
		return fmt.Sprintf("HTTP %d: %s", e.Status, e.Message)
	}
	return fmt.Sprintf("%s (%s)", e.Message, e.Code)
}

// Me is the answer of GET /api/me
type Me struct {
	Authenticated bool     `json:"authenticated"`
	LoginID       string   `json:"loginId,omitempty"`
	UserID        string   `json:"userId,omitempty"`
	Roles         []string `json:"roles,omitempty"`
	Nickname      string   `json:"nickname,omitempty"`
}

// Profile maps the user onto the client-side profile
func (m Me) Profile() model.Profile {
	return model.ProfileFromUser(m.LoginID, m.Nickname, m.Roles)
}

// Health is the answer of GET /api/health
type Health struct {
	Status string `json:"status"`
}

// Me asks the server who the token belongs to
func (c *Client) Me(ctx context.Context) (Me, error) {
	var me Me
	_, err := c.do(ctx, http.MethodGet, "/api/me", nil, &me)
	return me, err
}

// Login exchanges credentials for a session. The new token is kept by the
// client and also returned so the caller can persist it.
func (c *Client) Login(ctx context.Context, loginID, password string) (Me, string, error) {
	body := map[string]string{"loginId": loginID, "password": password}
	return c.startSession(ctx, "/api/login", body)
}

// Join creates an account and signs it in
func (c *Client) Join(ctx context.Context, loginID, password, nickname string) (Me, string, error) {
	body := map[string]string{"loginId": loginID, "password": password, "nickname": nickname}
	return c.startSession(ctx, "/api/join", body)
}

// Logout asks the server to end the session. The request has no body and
// carries the session cookie.
func (c *Client) Logout(ctx context.Context) error {
	_, err := c.do(ctx, http.MethodPost, "/api/logout", nil, nil)
	return err
}

// Invalidate implements session.Invalidator
func (c *Client) Invalidate(ctx context.Context) error {
	return c.Logout(ctx)
}

// Health checks that the server is up
func (c *Client) Health(ctx context.Context) (Health, error) {
	var h Health
	_, err := c.do(ctx, http.MethodGet, "/api/health", nil, &h)
	return h, err
}

func (c *Client) startSession(ctx context.Context, path string, body any) (Me, string, error) {
	var me Me
	resp, err := c.do(ctx, http.MethodPost, path, body, &me)
	if err != nil {
		return Me{}, "", err
	}
	for _, cookie := range resp.Cookies() {
		if cookie.Name == SessionCookie && cookie.Value != "" {
			c.SetToken(cookie.Value)
			return me, cookie.Value, nil
		}
	}
	return Me{}, "", ErrNoSessionCookie
}

// do performs a request and decodes a JSON answer into result
func (c *Client) do(ctx context.Context, method, path string, body, result any) (*http.Response, error) {
	var bodyReader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal request: %w", err)
		}
		bodyReader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, bodyReader)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("Accept", "application/json")

	if token := c.Token(); token != "" {
		req.AddCookie(&http.Cookie{Name: SessionCookie, Value: token})
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode >= 400 {
		var errResp struct {
			Error APIError `json:"error"`
		}
		if err := json.Unmarshal(respBody, &errResp); err == nil && errResp.Error.Code != "" {
			errResp.Error.Status = resp.StatusCode
			return nil, &errResp.Error
		}
		return nil, &APIError{Status: resp.StatusCode, Message: strings.TrimSpace(string(respBody))}
	}

	if result != nil && len(respBody) > 0 {
		if err := json.Unmarshal(respBody, result); err != nil {
			return nil, fmt.Errorf("failed to parse response: %w", err)
		}
	}

	return resp, nil
}
