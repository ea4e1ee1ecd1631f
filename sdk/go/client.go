// Package taskhubsdk is a minimal TaskHub HTTP API client.
package taskhubsdk

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

type Client struct {
	BaseURL    string
	HTTPClient *http.Client
	Timeout    time.Duration
}

// New creates a client with sane defaults.
func New(baseURL string) *Client {
	return &Client{BaseURL: baseURL, Timeout: 10 * time.Second}
}

// Task mirrors the API task model.
type Task struct {
	ID        int64  `json:"id"`
	Text      string `json:"text"`
	Completed bool   `json:"completed"`
	CreatedAt string `json:"created_at"`
	Priority  string `json:"priority"`
}

type TaskCounts struct {
	Total     int `json:"total"`
	Active    int `json:"active"`
	Completed int `json:"completed"`
}

type TaskList struct {
	Items  []Task     `json:"items"`
	Counts TaskCounts `json:"counts"`
}

// User mirrors the API browse user model (partial).
type User struct {
	ID       int64  `json:"id"`
	Name     string `json:"name"`
	Username string `json:"username"`
	Email    string `json:"email"`
}

// Post mirrors the API browse post model.
type Post struct {
	ID     int64  `json:"id"`
	UserID int64  `json:"userId"`
	Title  string `json:"title"`
	Body   string `json:"body"`
}

type BrowsePage struct {
	Kind       string `json:"kind"`
	Page       int    `json:"page"`
	TotalPages int    `json:"total_pages"`
	Total      int    `json:"total"`
	Matches    int    `json:"matches"`
	Users      []User `json:"users,omitempty"`
	Posts      []Post `json:"posts,omitempty"`
}

type RefreshResult struct {
	Kind  string `json:"kind"`
	Count int    `json:"count"`
}

// APIError wraps non-2xx responses.
type APIError struct {
	StatusCode int
	Body       string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("api error: status=%d body=%s", e.StatusCode, e.Body)
}

// ListTasks returns tasks for a filter mode (all, active, completed).
func (c *Client) ListTasks(ctx context.Context, filter string) (TaskList, error) {
	endpoint := "v0/tasks"
	if filter != "" {
		endpoint += "?filter=" + url.QueryEscape(filter)
	}
	var resp TaskList
	err := c.do(ctx, http.MethodGet, endpoint, nil, &resp)
	return resp, err
}

// CreateTask adds a task.
func (c *Client) CreateTask(ctx context.Context, text, priority string) (Task, error) {
	body := map[string]any{"text": text}
	if priority != "" {
		body["priority"] = priority
	}
	var resp struct {
		Task Task `json:"task"`
	}
	err := c.do(ctx, http.MethodPost, "v0/tasks", body, &resp)
	return resp.Task, err
}

// ToggleTask flips a task's completed flag.
func (c *Client) ToggleTask(ctx context.Context, id int64) (Task, error) {
	var resp struct {
		Task Task `json:"task"`
	}
	err := c.do(ctx, http.MethodPost, fmt.Sprintf("v0/tasks/%d/toggle", id), nil, &resp)
	return resp.Task, err
}

// DeleteTask removes a task.
func (c *Client) DeleteTask(ctx context.Context, id int64) error {
	return c.do(ctx, http.MethodDelete, fmt.Sprintf("v0/tasks/%d", id), nil, nil)
}

// Browse returns one page of remote records for kind (users or posts).
func (c *Client) Browse(ctx context.Context, kind, search string, page int) (BrowsePage, error) {
	endpoint := fmt.Sprintf("v0/browse/%s?page=%d", url.PathEscape(kind), page)
	if search != "" {
		endpoint += "&search=" + url.QueryEscape(search)
	}
	var resp BrowsePage
	err := c.do(ctx, http.MethodGet, endpoint, nil, &resp)
	return resp, err
}

// RefreshBrowse re-fetches a remote collection.
func (c *Client) RefreshBrowse(ctx context.Context, kind string) (RefreshResult, error) {
	var resp RefreshResult
	err := c.do(ctx, http.MethodPost, fmt.Sprintf("v0/browse/%s/refresh", url.PathEscape(kind)), nil, &resp)
	return resp, err
}

// Theme returns the current theme.
func (c *Client) Theme(ctx context.Context) (string, error) {
	var resp struct {
		Theme string `json:"theme"`
	}
	err := c.do(ctx, http.MethodGet, "v0/theme", nil, &resp)
	return resp.Theme, err
}

// ToggleTheme flips dark mode and returns the new theme.
func (c *Client) ToggleTheme(ctx context.Context) (string, error) {
	var resp struct {
		Theme string `json:"theme"`
	}
	err := c.do(ctx, http.MethodPost, "v0/theme/toggle", nil, &resp)
	return resp.Theme, err
}

func (c *Client) do(ctx context.Context, method, endpoint string, body any, out any) error {
	if c.HTTPClient == nil {
		c.HTTPClient = &http.Client{Timeout: c.Timeout}
	}
	u := strings.TrimRight(c.BaseURL, "/") + "/" + strings.TrimLeft(endpoint, "/")
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			return err
		}
	}
	req, err := http.NewRequestWithContext(ctx, method, u, &buf)
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode >= 300 {
		b, _ := io.ReadAll(resp.Body)
		return &APIError{StatusCode: resp.StatusCode, Body: string(b)}
	}
	if out != nil {
		return json.NewDecoder(resp.Body).Decode(out)
	}
	return nil
}
