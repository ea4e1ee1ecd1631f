package tasks

import "taskhub/internal/domain"

type FilterMode string

const (
	FilterAll       FilterMode = "all"
	FilterActive    FilterMode = "active"
	FilterCompleted FilterMode = "completed"
)

// ValidFilter reports whether mode is a known filter.
func ValidFilter(mode FilterMode) bool {
	return mode == FilterAll || mode == FilterActive || mode == FilterCompleted
}

// Filter derives the visible subset for a filter mode, preserving order.
func Filter(tasks []domain.Task, mode FilterMode) []domain.Task {
	if mode == FilterAll {
		return tasks
	}
	var out []domain.Task
	for _, t := range tasks {
		switch mode {
		case FilterActive:
			if !t.Completed {
				out = append(out, t)
			}
		case FilterCompleted:
			if t.Completed {
				out = append(out, t)
			}
		}
	}
	return out
}

type TaskCounts struct {
	Total     int `json:"total"`
	Active    int `json:"active"`
	Completed int `json:"completed"`
}

// Counts tallies the collection. Recomputed on every call; nothing is cached.
func Counts(tasks []domain.Task) TaskCounts {
	c := TaskCounts{Total: len(tasks)}
	for _, t := range tasks {
		if t.Completed {
			c.Completed++
		} else {
			c.Active++
		}
	}
	return c
}
