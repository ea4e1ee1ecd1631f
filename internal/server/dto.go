package server

import (
	"taskhub/internal/domain"
	"taskhub/internal/tasks"
)

// Request payloads

type CreateTaskRequest struct {
	Text     string `json:"text"`
	Priority string `json:"priority,omitempty" enum:"low,medium,high"`
}

// Response payloads

type taskBody struct {
	Task domain.Task `json:"task"`
}

type TaskListResponse struct {
	Items  []domain.Task    `json:"items"`
	Counts tasks.TaskCounts `json:"counts"`
}

type BrowsePage struct {
	Kind       string        `json:"kind" enum:"users,posts"`
	Page       int           `json:"page"`
	TotalPages int           `json:"total_pages"`
	Total      int           `json:"total"`
	Matches    int           `json:"matches"`
	Users      []domain.User `json:"users,omitempty"`
	Posts      []domain.Post `json:"posts,omitempty"`
}

type RefreshResponse struct {
	Kind  string `json:"kind"`
	Count int    `json:"count"`
}

type ThemeResponse struct {
	Theme string `json:"theme" enum:"light,dark"`
}
