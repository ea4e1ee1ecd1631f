package remote

import (
	"context"
	"fmt"
	"sync"

	"taskhub/internal/domain"
	"taskhub/internal/notify"
)

// State of a per-kind cache.
type State string

const (
	StateEmpty   State = "empty"
	StateLoading State = "loading"
	StateReady   State = "ready"
	StateError   State = "error"
)

// Cache holds one in-memory collection per resource kind, populated by
// one-shot fetches and replaced wholesale on refresh. A failed fetch keeps
// whatever was cached before and surfaces a single notification.
//
// Concurrent fetches for the same kind are not guarded against: the last
// response to land wins, matching the upstream-agnostic fetch loop this
// design comes from.
type Cache struct {
	Client   *Client
	Notifier notify.Notifier

	mu    sync.Mutex
	users []domain.User
	posts []domain.Post
	state map[Kind]State
}

func NewCache(client *Client, notifier notify.Notifier) *Cache {
	if notifier == nil {
		notifier = notify.Discard{}
	}
	return &Cache{
		Client:   client,
		Notifier: notifier,
		state:    map[Kind]State{KindUsers: StateEmpty, KindPosts: StateEmpty},
	}
}

// Fetch re-populates the collection for kind. On failure the previous
// collection is untouched, the state moves to error, and one notification is
// emitted; the loading state always clears.
func (c *Cache) Fetch(ctx context.Context, kind Kind) error {
	if !ValidKind(kind) {
		return fmt.Errorf("unknown resource kind %q", kind)
	}
	c.setState(kind, StateLoading)

	switch kind {
	case KindUsers:
		users, err := c.Client.Users(ctx)
		if err != nil {
			return c.fetchFailed(kind, err)
		}
		c.mu.Lock()
		c.users = users
		c.state[kind] = StateReady
		c.mu.Unlock()
		c.Notifier.Notify(notify.New("Users Loaded",
			fmt.Sprintf("Successfully loaded %d users.", len(users)), notify.SeveritySuccess))
	case KindPosts:
		posts, err := c.Client.Posts(ctx)
		if err != nil {
			return c.fetchFailed(kind, err)
		}
		c.mu.Lock()
		c.posts = posts
		c.state[kind] = StateReady
		c.mu.Unlock()
		c.Notifier.Notify(notify.New("Posts Loaded",
			fmt.Sprintf("Successfully loaded %d posts.", len(posts)), notify.SeveritySuccess))
	}
	return nil
}

// Refresh is Fetch without a short-circuit: it always re-issues the request,
// whatever the current state.
func (c *Cache) Refresh(ctx context.Context, kind Kind) error {
	return c.Fetch(ctx, kind)
}

// EnsureLoaded fetches only when the kind has never been populated. Selecting
// an already-populated kind never re-fetches.
func (c *Cache) EnsureLoaded(ctx context.Context, kind Kind) error {
	if !ValidKind(kind) {
		return fmt.Errorf("unknown resource kind %q", kind)
	}
	if c.Len(kind) > 0 {
		return nil
	}
	return c.Fetch(ctx, kind)
}

func (c *Cache) fetchFailed(kind Kind, err error) error {
	c.mu.Lock()
	c.state[kind] = StateError
	c.mu.Unlock()
	c.Notifier.Notify(notify.New("Error",
		fmt.Sprintf("Failed to fetch %s. Please try again.", kind), notify.SeverityError))
	return fmt.Errorf("fetch %s: %w", kind, err)
}

func (c *Cache) setState(kind Kind, s State) {
	c.mu.Lock()
	c.state[kind] = s
	c.mu.Unlock()
}

// State returns the cache state for kind.
func (c *Cache) State(kind Kind) State {
	c.mu.Lock()
	defer c.mu.Unlock()
	if s, ok := c.state[kind]; ok {
		return s
	}
	return StateEmpty
}

// Loading reports whether a fetch for kind is outstanding.
func (c *Cache) Loading(kind Kind) bool {
	return c.State(kind) == StateLoading
}

// Len returns the cached collection size for kind.
func (c *Cache) Len(kind Kind) int {
	c.mu.Lock()
	defer c.mu.Unlock()
	switch kind {
	case KindUsers:
		return len(c.users)
	case KindPosts:
		return len(c.posts)
	}
	return 0
}

// Users returns the cached user collection in upstream order.
func (c *Cache) Users() []domain.User {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]domain.User, len(c.users))
	copy(out, c.users)
	return out
}

// Posts returns the cached post collection in upstream order.
func (c *Cache) Posts() []domain.Post {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]domain.Post, len(c.posts))
	copy(out, c.posts)
	return out
}
