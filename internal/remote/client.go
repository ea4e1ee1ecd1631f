package remote

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"taskhub/internal/domain"
)

// DefaultBaseURL is the public upstream the browser reads from.
const DefaultBaseURL = "https://jsonplaceholder.typicode.com"

// Kind names a remote resource collection.
type Kind string

const (
	KindUsers Kind = "users"
	KindPosts Kind = "posts"
)

func ValidKind(k Kind) bool {
	return k == KindUsers || k == KindPosts
}

// Client fetches whole collections from the upstream API. The endpoints take
// no query parameters; all filtering and paging happens client-side.
type Client struct {
	BaseURL    string
	HTTPClient *http.Client
	Timeout    time.Duration
}

func NewClient(baseURL string, timeout time.Duration) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	if timeout == 0 {
		timeout = 10 * time.Second
	}
	return &Client{BaseURL: baseURL, Timeout: timeout}
}

// APIError wraps non-2xx responses.
type APIError struct {
	StatusCode int
	Body       string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("api error: status=%d body=%s", e.StatusCode, e.Body)
}

// Users fetches the full user collection.
func (c *Client) Users(ctx context.Context) ([]domain.User, error) {
	var users []domain.User
	if err := c.get(ctx, "users", &users); err != nil {
		return nil, err
	}
	return users, nil
}

// Posts fetches the full post collection.
func (c *Client) Posts(ctx context.Context) ([]domain.Post, error) {
	var posts []domain.Post
	if err := c.get(ctx, "posts", &posts); err != nil {
		return nil, err
	}
	return posts, nil
}

func (c *Client) get(ctx context.Context, endpoint string, out any) error {
	if c.HTTPClient == nil {
		c.HTTPClient = &http.Client{Timeout: c.Timeout}
	}
	url := strings.TrimRight(c.BaseURL, "/") + "/" + strings.TrimLeft(endpoint, "/")
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return err
	}
	req.Header.Set("Accept", "application/json")
	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode >= 300 {
		b, _ := io.ReadAll(resp.Body)
		return &APIError{StatusCode: resp.StatusCode, Body: string(b)}
	}
	return json.NewDecoder(resp.Body).Decode(out)
}
