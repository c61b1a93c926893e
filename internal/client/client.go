package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"shortlist/internal/api"
)

// ErrAPIUnavailable reports that no API endpoint is configured.
var ErrAPIUnavailable = errors.New("task API unavailable")

// APIError is a non-2xx response surfaced with the server's message.
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	if e.Message != "" {
		return e.Message
	}
	return fmt.Sprintf("api returned status %d", e.StatusCode)
}

// Client talks to the daemon's HTTP API. Token may be empty for
// unauthenticated calls like login and status.
type Client struct {
	base  *url.URL
	token string
	http  *http.Client
}

// New builds a client from a bind address or URL.
func New(bind, token string) (*Client, error) {
	bind = strings.TrimSpace(bind)
	if bind == "" {
		return nil, ErrAPIUnavailable
	}
	if !strings.Contains(bind, "://") {
		bind = "http://" + bind
	}
	base, err := url.Parse(bind)
	if err != nil {
		return nil, err
	}
	base.Path = ""
	base.RawQuery = ""
	base.Fragment = ""

	return &Client{
		base:  base,
		token: token,
		// No timeout - feed follow mode blocks until the caller cancels.
		http: &http.Client{},
	}, nil
}

// SetToken replaces the bearer token used on subsequent calls.
func (c *Client) SetToken(token string) {
	c.token = token
}

// Login exchanges credentials for a session token and adopts it.
func (c *Client) Login(ctx context.Context, username, password string) (api.LoginResponse, error) {
	var resp api.LoginResponse
	err := c.call(ctx, http.MethodPost, "/api/login", nil, api.LoginRequest{Username: username, Password: password}, &resp)
	if err != nil {
		return api.LoginResponse{}, err
	}
	c.token = resp.Token
	return resp, nil
}

// Logout revokes the current session token.
func (c *Client) Logout(ctx context.Context) error {
	if c.token == "" {
		return nil
	}
	if err := c.call(ctx, http.MethodPost, "/api/logout", nil, nil, nil); err != nil {
		return err
	}
	c.token = ""
	return nil
}

// Tasks lists the caller's tasks, optionally hiding checked ones.
func (c *Client) Tasks(ctx context.Context, hideChecked bool) (api.TaskListResponse, error) {
	values := url.Values{}
	if hideChecked {
		values.Set("hide_checked", "1")
	}
	var resp api.TaskListResponse
	err := c.call(ctx, http.MethodGet, "/api/tasks", values, nil, &resp)
	return resp, err
}

// Insert creates a task.
func (c *Client) Insert(ctx context.Context, text string) (api.TaskRecord, error) {
	var resp api.TaskResponse
	err := c.call(ctx, http.MethodPost, "/api/tasks", nil, api.InsertRequest{Text: text}, &resp)
	return resp.Task, err
}

// Toggle flips a task's checked state.
func (c *Client) Toggle(ctx context.Context, id string) (api.ToggleResponse, error) {
	var resp api.ToggleResponse
	err := c.call(ctx, http.MethodPost, "/api/tasks/"+url.PathEscape(id)+"/toggle", nil, nil, &resp)
	return resp, err
}

// Delete removes a task.
func (c *Client) Delete(ctx context.Context, id string) error {
	return c.call(ctx, http.MethodDelete, "/api/tasks/"+url.PathEscape(id), nil, nil, nil)
}

// FeedQuery parameterizes a feed fetch.
type FeedQuery struct {
	Since uint64
	Limit int
	Wait  bool
}

// FeedFetch retrieves feed events after the cursor, long-polling when Wait
// is set.
func (c *Client) FeedFetch(ctx context.Context, q FeedQuery) (api.FeedResponse, error) {
	values := url.Values{}
	if q.Since > 0 {
		values.Set("since", strconv.FormatUint(q.Since, 10))
	}
	if q.Limit > 0 {
		values.Set("limit", strconv.Itoa(q.Limit))
	}
	if q.Wait {
		values.Set("wait", "1")
	}
	var resp api.FeedResponse
	err := c.call(ctx, http.MethodGet, "/api/feed", values, nil, &resp)
	return resp, err
}

// Status fetches daemon status.
func (c *Client) Status(ctx context.Context) (api.StatusResponse, error) {
	var resp api.StatusResponse
	err := c.call(ctx, http.MethodGet, "/api/status", nil, nil, &resp)
	return resp, err
}

func (c *Client) call(ctx context.Context, method, path string, query url.Values, payload, out any) error {
	if c == nil {
		return ErrAPIUnavailable
	}

	endpoint := c.base.ResolveReference(&url.URL{Path: path, RawQuery: query.Encode()})

	var body *bytes.Reader
	if payload != nil {
		data, err := json.Marshal(payload)
		if err != nil {
			return err
		}
		body = bytes.NewReader(data)
	} else {
		body = bytes.NewReader(nil)
	}

	req, err := http.NewRequestWithContext(ctx, method, endpoint.String(), body)
	if err != nil {
		return err
	}
	req.Header.Set("Accept", "application/json")
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		apiErr := &APIError{StatusCode: resp.StatusCode}
		var failure api.ErrorResponse
		if decodeErr := json.NewDecoder(resp.Body).Decode(&failure); decodeErr == nil {
			apiErr.Message = failure.Error
		}
		return apiErr
	}
	if out == nil {
		return nil
	}
	return json.NewDecoder(resp.Body).Decode(out)
}
