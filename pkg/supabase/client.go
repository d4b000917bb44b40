// Package supabase is a small client for the PostgREST and GoTrue endpoints
// of a Supabase project.
package supabase

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
	"time"
)

// Error is returned for any response with status >= 400
type Error struct {
	StatusCode int
	Body       string
}

func (e *Error) Error() string {
	return fmt.Sprintf("supabase error (status %d): %s", e.StatusCode, e.Body)
}

// IsStatus reports whether err is a supabase Error with the given status
func IsStatus(err error, status int) bool {
	var se *Error
	return errors.As(err, &se) && se.StatusCode == status
}

// Client talks to a Supabase project with the service role key
type Client struct {
	URL        string
	ServiceKey string
	HTTPClient *http.Client
}

// NewClient creates a client whose requests time out after timeout
func NewClient(baseURL, serviceKey string, timeout time.Duration) *Client {
	return &Client{
		URL:        strings.TrimRight(baseURL, "/"),
		ServiceKey: serviceKey,
		HTTPClient: &http.Client{Timeout: timeout},
	}
}

// User is the GoTrue view of an authenticated user
type User struct {
	ID    string `json:"id"`
	Email string `json:"email"`
}

// Query selects rows. Filters use PostgREST syntax, e.g.
// {"user_id": "eq.<id>", "order": "created_at.desc", "limit": 50}.
func (c *Client) Query(ctx context.Context, table string, query map[string]interface{}) ([]byte, error) {
	return c.do(ctx, http.MethodGet, c.restURL(table), query, nil, "")
}

// Insert creates rows and returns their representation
func (c *Client) Insert(ctx context.Context, table string, data interface{}) ([]byte, error) {
	return c.do(ctx, http.MethodPost, c.restURL(table), nil, data, "return=representation")
}

// Update patches the row with the given id
func (c *Client) Update(ctx context.Context, table, id string, data interface{}) ([]byte, error) {
	return c.UpdateWhere(ctx, table, map[string]interface{}{"id": "eq." + id}, data)
}

// UpdateWhere patches all rows matching query
func (c *Client) UpdateWhere(ctx context.Context, table string, query map[string]interface{}, data interface{}) ([]byte, error) {
	return c.do(ctx, http.MethodPatch, c.restURL(table), query, data, "return=representation")
}

// Delete removes the row with the given id
func (c *Client) Delete(ctx context.Context, table, id string) error {
	return c.DeleteWhere(ctx, table, map[string]interface{}{"id": "eq." + id})
}

// DeleteWhere removes all rows matching query
func (c *Client) DeleteWhere(ctx context.Context, table string, query map[string]interface{}) error {
	_, err := c.do(ctx, http.MethodDelete, c.restURL(table), query, nil, "")
	return err
}

// VerifyToken resolves a user access token through GoTrue
func (c *Client) VerifyToken(ctx context.Context, token string) (*User, error) {
	body, err := c.do(ctx, http.MethodGet, c.URL+"/auth/v1/user", nil, nil, "", withBearer(token))
	if err != nil {
		return nil, fmt.Errorf("token verification failed: %w", err)
	}

	var user User
	if err := json.Unmarshal(body, &user); err != nil {
		return nil, fmt.Errorf("failed to decode user: %w", err)
	}
	if user.ID == "" {
		return nil, fmt.Errorf("token verification failed: empty user id")
	}
	return &user, nil
}

func (c *Client) restURL(table string) string {
	return fmt.Sprintf("%s/rest/v1/%s", c.URL, table)
}

type requestOption func(*http.Request)

func withBearer(token string) requestOption {
	return func(r *http.Request) {
		r.Header.Set("Authorization", "Bearer "+token)
	}
}

func (c *Client) do(ctx context.Context, method, rawURL string, query map[string]interface{}, data interface{}, prefer string, opts ...requestOption) ([]byte, error) {
	var payload io.Reader
	if data != nil {
		buf, err := json.Marshal(data)
		if err != nil {
			return nil, fmt.Errorf("failed to encode request body: %w", err)
		}
		payload = bytes.NewReader(buf)
	}

	req, err := http.NewRequestWithContext(ctx, method, rawURL, payload)
	if err != nil {
		return nil, err
	}

	if len(query) > 0 {
		q := url.Values{}
		for key, value := range query {
			q.Add(key, fmt.Sprintf("%v", value))
		}
		req.URL.RawQuery = q.Encode()
	}

	req.Header.Set("apikey", c.ServiceKey)
	req.Header.Set("Authorization", "Bearer "+c.ServiceKey)
	if data != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if prefer != "" {
		req.Header.Set("Prefer", prefer)
	}
	for _, opt := range opts {
		opt(req)
	}

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode >= 400 {
		return nil, &Error{StatusCode: resp.StatusCode, Body: string(body)}
	}

	return body, nil
}
