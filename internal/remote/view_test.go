package remote_test

import (
	"fmt"
	"testing"

	"taskhub/internal/domain"
	"taskhub/internal/remote"
)

func makeUsers(n int) []domain.User {
	users := make([]domain.User, n)
	for i := range users {
		users[i] = domain.User{
			ID:      int64(i + 1),
			Name:    fmt.Sprintf("User %02d", i+1),
			Email:   fmt.Sprintf("user%02d@example.com", i+1),
			Company: domain.Company{Name: fmt.Sprintf("Company %02d", i+1)},
		}
	}
	return users
}

func TestFilterUsersEmptyTermMatchesEverything(t *testing.T) {
	users := makeUsers(10)
	got := remote.FilterUsers(users, "")
	if len(got) != 10 {
		t.Fatalf("expected all users, got %d", len(got))
	}
	for i := range users {
		if got[i].ID != users[i].ID {
			t.Fatalf("order changed at %d", i)
		}
	}
}

func TestFilterUsersIsCaseInsensitiveAcrossFields(t *testing.T) {
	users := []domain.User{
		{ID: 1, Name: "Leanne Graham", Email: "sincere@april.biz", Company: domain.Company{Name: "Romaguera-Crona"}},
		{ID: 2, Name: "Ervin Howell", Email: "shanna@melissa.tv", Company: domain.Company{Name: "Deckow-Crist"}},
		{ID: 3, Name: "Clementine Bauch", Email: "nathan@yesenia.net", Company: domain.Company{Name: "Romaguera-Jacobson"}},
	}
	if got := remote.FilterUsers(users, "LEANNE"); len(got) != 1 || got[0].ID != 1 {
		t.Fatalf("name match failed: %v", got)
	}
	if got := remote.FilterUsers(users, "melissa"); len(got) != 1 || got[0].ID != 2 {
		t.Fatalf("email match failed: %v", got)
	}
	if got := remote.FilterUsers(users, "romaguera"); len(got) != 2 {
		t.Fatalf("company match failed: %v", got)
	}
	if got := remote.FilterUsers(users, "zzz"); len(got) != 0 {
		t.Fatalf("expected no matches, got %v", got)
	}
}

func TestFilterPosts(t *testing.T) {
	posts := []domain.Post{
		{ID: 1, Title: "sunt aut facere", Body: "quia et suscipit"},
		{ID: 2, Title: "qui est esse", Body: "est rerum tempore"},
	}
	if got := remote.FilterPosts(posts, "RERUM"); len(got) != 1 || got[0].ID != 2 {
		t.Fatalf("body match failed: %v", got)
	}
	if got := remote.FilterPosts(posts, "sunt"); len(got) != 1 || got[0].ID != 1 {
		t.Fatalf("title match failed: %v", got)
	}
}

func TestTotalPages(t *testing.T) {
	cases := []struct{ n, want int }{
		{0, 0}, {1, 1}, {5, 1}, {6, 1}, {7, 2}, {12, 2}, {13, 3},
	}
	for _, tc := range cases {
		if got := remote.TotalPages(tc.n, remote.PageSize); got != tc.want {
			t.Fatalf("TotalPages(%d)=%d, want %d", tc.n, got, tc.want)
		}
	}
}

func TestPageSlicing(t *testing.T) {
	users := makeUsers(13)
	tp := remote.TotalPages(len(users), remote.PageSize)
	total := 0
	for page := 1; page <= tp; page++ {
		chunk := remote.Page(users, page, remote.PageSize)
		if page < tp && len(chunk) != remote.PageSize {
			t.Fatalf("page %d: expected full page, got %d", page, len(chunk))
		}
		if page == tp {
			want := len(users) - remote.PageSize*(tp-1)
			if len(chunk) != want {
				t.Fatalf("last page: expected %d, got %d", want, len(chunk))
			}
		}
		total += len(chunk)
	}
	if total != len(users) {
		t.Fatalf("pages do not cover the collection: %d != %d", total, len(users))
	}
	if chunk := remote.Page(users, tp+1, remote.PageSize); len(chunk) != 0 {
		t.Fatalf("out-of-range page should be empty, got %d", len(chunk))
	}
	if chunk := remote.Page(users, 0, remote.PageSize); chunk != nil {
		t.Fatalf("page 0 should be empty")
	}
}
