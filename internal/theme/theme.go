// Package theme persists the dark-mode flag. Task and browse logic never
// read it.
package theme

import (
	"context"
	"fmt"

	"taskhub/internal/storage"
)

const storageKey = "taskhub-theme"

const (
	Light = "light"
	Dark  = "dark"
)

type Manager struct {
	KV      storage.Store
	Default string
}

// Current returns the persisted theme, failing open to the default on a
// missing or malformed value.
func (m Manager) Current(ctx context.Context) string {
	fallback := m.Default
	if fallback == "" {
		fallback = Light
	}
	var v string
	ok, err := m.KV.GetJSON(ctx, storageKey, &v)
	if err != nil || !ok || (v != Light && v != Dark) {
		return fallback
	}
	return v
}

// Toggle flips the theme, persists it, and returns the new value.
func (m Manager) Toggle(ctx context.Context) (string, error) {
	next := Dark
	if m.Current(ctx) == Dark {
		next = Light
	}
	if err := m.Set(ctx, next); err != nil {
		return "", err
	}
	return next, nil
}

func (m Manager) Set(ctx context.Context, v string) error {
	if v != Light && v != Dark {
		return fmt.Errorf("unknown theme %q", v)
	}
	return m.KV.PutJSON(ctx, storageKey, v)
}
