package remote

import (
	"strings"

	"taskhub/internal/domain"
)

// PageSize is the fixed number of records shown per page.
const PageSize = 6

// FilterUsers keeps users whose name, email, or company name contains term,
// case-insensitively. An empty term matches everything; order is preserved.
func FilterUsers(users []domain.User, term string) []domain.User {
	if term == "" {
		return users
	}
	needle := strings.ToLower(term)
	var out []domain.User
	for _, u := range users {
		if containsFold(u.Name, needle) ||
			containsFold(u.Email, needle) ||
			containsFold(u.Company.Name, needle) {
			out = append(out, u)
		}
	}
	return out
}

// FilterPosts keeps posts whose title or body contains term,
// case-insensitively.
func FilterPosts(posts []domain.Post, term string) []domain.Post {
	if term == "" {
		return posts
	}
	needle := strings.ToLower(term)
	var out []domain.Post
	for _, p := range posts {
		if containsFold(p.Title, needle) || containsFold(p.Body, needle) {
			out = append(out, p)
		}
	}
	return out
}

// containsFold expects needle already lowercased.
func containsFold(haystack, needle string) bool {
	return strings.Contains(strings.ToLower(haystack), needle)
}

// TotalPages is ceil(n/pageSize); an empty filtered set yields zero pages.
func TotalPages(n, pageSize int) int {
	if n <= 0 || pageSize <= 0 {
		return 0
	}
	return (n + pageSize - 1) / pageSize
}

// Page slices out the 1-based page. Pages outside [1, TotalPages] yield an
// empty slice.
func Page[T any](items []T, page, pageSize int) []T {
	if page < 1 || pageSize < 1 {
		return nil
	}
	start := (page - 1) * pageSize
	if start >= len(items) {
		return nil
	}
	end := start + pageSize
	if end > len(items) {
		end = len(items)
	}
	return items[start:end]
}
