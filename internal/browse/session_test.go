package browse_test

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"taskhub/internal/browse"
	"taskhub/internal/domain"
	"taskhub/internal/notify"
	"taskhub/internal/remote"
)

// ten users, three of which mention "ACME" in their company name, plus eight
// posts: enough to exercise both the filter and the page math without hitting
// the real upstream.
func newSession(t *testing.T) *browse.Session {
	t.Helper()
	users := make([]domain.User, 10)
	for i := range users {
		company := fmt.Sprintf("Company %02d", i+1)
		if i%3 == 0 {
			company = fmt.Sprintf("ACME Division %d", i+1)
		}
		users[i] = domain.User{
			ID:      int64(i + 1),
			Name:    fmt.Sprintf("User %02d", i+1),
			Email:   fmt.Sprintf("user%02d@example.com", i+1),
			Company: domain.Company{Name: company},
		}
	}
	posts := make([]domain.Post, 8)
	for i := range posts {
		posts[i] = domain.Post{
			ID:     int64(i + 1),
			UserID: 1,
			Title:  fmt.Sprintf("Post %02d", i+1),
			Body:   fmt.Sprintf("body of post %02d", i+1),
		}
	}

	mux := http.NewServeMux()
	mux.HandleFunc("/users", func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(users)
	})
	mux.HandleFunc("/posts", func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(posts)
	})
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)

	cache := remote.NewCache(remote.NewClient(srv.URL, 0), notify.Discard{})
	return browse.NewSession(cache)
}

func TestSelectLoadsAndResetsState(t *testing.T) {
	s := newSession(t)
	ctx := context.Background()

	if err := s.Select(ctx, remote.KindUsers); err != nil {
		t.Fatalf("select: %v", err)
	}
	s.Search("acme")
	s.Next()

	if err := s.Select(ctx, remote.KindPosts); err != nil {
		t.Fatalf("select posts: %v", err)
	}
	if s.Page() != 1 || s.Term() != "" {
		t.Fatalf("select must reset page and term, got page=%d term=%q", s.Page(), s.Term())
	}
	v := s.View()
	if v.Kind != remote.KindPosts || v.Total != 8 {
		t.Fatalf("unexpected view %+v", v)
	}
}

func TestSelectRejectsUnknownKind(t *testing.T) {
	s := newSession(t)
	if err := s.Select(context.Background(), remote.Kind("todos")); err == nil {
		t.Fatalf("expected error for unknown kind")
	}
}

func TestSearchFiltersAndResetsPage(t *testing.T) {
	s := newSession(t)
	ctx := context.Background()
	if err := s.Select(ctx, remote.KindUsers); err != nil {
		t.Fatal(err)
	}
	s.Next()
	s.Search("acme")
	if s.Page() != 1 {
		t.Fatalf("search must reset to page 1, got %d", s.Page())
	}

	v := s.View()
	if v.Matches != 4 {
		t.Fatalf("expected 4 matching users, got %d", v.Matches)
	}
	if v.Total != 10 {
		t.Fatalf("total must count the full collection, got %d", v.Total)
	}
	if v.TotalPages != 1 {
		t.Fatalf("4 matches fit on one page, got %d pages", v.TotalPages)
	}
	if len(v.Users) != 4 {
		t.Fatalf("expected 4 users on the page, got %d", len(v.Users))
	}
}

func TestPaginationSaturates(t *testing.T) {
	s := newSession(t)
	ctx := context.Background()
	if err := s.Select(ctx, remote.KindUsers); err != nil {
		t.Fatal(err)
	}

	// 10 users at 6 per page is 2 pages
	s.Prev()
	if s.Page() != 1 {
		t.Fatalf("prev on page 1 must stay on 1, got %d", s.Page())
	}
	s.Next()
	if s.Page() != 2 {
		t.Fatalf("expected page 2, got %d", s.Page())
	}
	s.Next()
	s.Next()
	if s.Page() != 2 {
		t.Fatalf("next on last page must saturate, got %d", s.Page())
	}

	v := s.View()
	if v.TotalPages != 2 || len(v.Users) != 4 {
		t.Fatalf("expected 4 users on page 2 of 2, got %d on %d pages", len(v.Users), v.TotalPages)
	}
}

func TestRefreshResetsPageAndTerm(t *testing.T) {
	s := newSession(t)
	ctx := context.Background()
	if err := s.Select(ctx, remote.KindUsers); err != nil {
		t.Fatal(err)
	}
	s.Search("user")
	s.Next()
	if err := s.Refresh(ctx); err != nil {
		t.Fatalf("refresh: %v", err)
	}
	if s.Page() != 1 || s.Term() != "" {
		t.Fatalf("refresh must reset page and term, got page=%d term=%q", s.Page(), s.Term())
	}
}

func TestViewOnEmptyCache(t *testing.T) {
	s := newSession(t)
	v := s.View()
	if v.Total != 0 || v.Matches != 0 || v.TotalPages != 0 {
		t.Fatalf("empty cache must produce an empty view, got %+v", v)
	}
	if len(v.Users) != 0 {
		t.Fatalf("expected no users, got %d", len(v.Users))
	}
}
