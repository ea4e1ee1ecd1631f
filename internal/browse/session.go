// Package browse holds the ephemeral view state for the remote data browser:
// selected kind, search term, and 1-based page, with the reset rules the UI
// depends on.
package browse

import (
	"context"
	"fmt"

	"taskhub/internal/domain"
	"taskhub/internal/remote"
)

// Session is not persisted and is owned by a single caller; derived views are
// recomputed from the cache on every View call.
type Session struct {
	Cache    *remote.Cache
	PageSize int

	kind remote.Kind
	page int
	term string
}

func NewSession(cache *remote.Cache) *Session {
	return &Session{
		Cache:    cache,
		PageSize: remote.PageSize,
		kind:     remote.KindUsers,
		page:     1,
	}
}

// Select switches the resource kind, resets the page to 1, clears the search
// term, and triggers the initial fetch if that kind was never loaded.
func (s *Session) Select(ctx context.Context, kind remote.Kind) error {
	if !remote.ValidKind(kind) {
		return fmt.Errorf("unknown resource kind %q", kind)
	}
	s.kind = kind
	s.page = 1
	s.term = ""
	return s.Cache.EnsureLoaded(ctx, kind)
}

// Search replaces the term and resets the page to 1.
func (s *Session) Search(term string) {
	s.term = term
	s.page = 1
}

// Refresh resets page and term, then re-fetches the current kind
// unconditionally.
func (s *Session) Refresh(ctx context.Context) error {
	s.page = 1
	s.term = ""
	return s.Cache.Refresh(ctx, s.kind)
}

// Next advances one page, saturating at the last page.
func (s *Session) Next() {
	if s.page < s.totalPages() {
		s.page++
	}
}

// Prev goes back one page, saturating at 1.
func (s *Session) Prev() {
	if s.page > 1 {
		s.page--
	}
}

func (s *Session) Kind() remote.Kind { return s.kind }
func (s *Session) Page() int         { return s.page }
func (s *Session) Term() string      { return s.term }

func (s *Session) totalPages() int {
	return remote.TotalPages(s.matchCount(), s.PageSize)
}

func (s *Session) matchCount() int {
	switch s.kind {
	case remote.KindUsers:
		return len(remote.FilterUsers(s.Cache.Users(), s.term))
	case remote.KindPosts:
		return len(remote.FilterPosts(s.Cache.Posts(), s.term))
	}
	return 0
}

// View is the derived page for rendering.
type View struct {
	Kind       remote.Kind   `json:"kind"`
	Page       int           `json:"page"`
	TotalPages int           `json:"total_pages"`
	Term       string        `json:"term,omitempty"`
	Total      int           `json:"total"`
	Matches    int           `json:"matches"`
	Users      []domain.User `json:"users,omitempty"`
	Posts      []domain.Post `json:"posts,omitempty"`
}

// View recomputes the filter/paginate pipeline from the current cache
// snapshot and view state.
func (s *Session) View() View {
	v := View{
		Kind:  s.kind,
		Page:  s.page,
		Term:  s.term,
		Total: s.Cache.Len(s.kind),
	}
	switch s.kind {
	case remote.KindUsers:
		filtered := remote.FilterUsers(s.Cache.Users(), s.term)
		v.Matches = len(filtered)
		v.TotalPages = remote.TotalPages(len(filtered), s.PageSize)
		v.Users = remote.Page(filtered, s.page, s.PageSize)
	case remote.KindPosts:
		filtered := remote.FilterPosts(s.Cache.Posts(), s.term)
		v.Matches = len(filtered)
		v.TotalPages = remote.TotalPages(len(filtered), s.PageSize)
		v.Posts = remote.Page(filtered, s.page, s.PageSize)
	}
	return v
}
