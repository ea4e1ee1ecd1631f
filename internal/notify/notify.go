// Package notify is the user-facing notification surface. Calls are fire and
// forget; nothing in the core depends on a return value.
package notify

import (
	"fmt"
	"io"
	"sync"

	"github.com/google/uuid"
)

type Severity string

const (
	SeverityInfo    Severity = "info"
	SeveritySuccess Severity = "success"
	SeverityError   Severity = "error"
)

type Notification struct {
	ID          string   `json:"id"`
	Title       string   `json:"title"`
	Description string   `json:"description"`
	Severity    Severity `json:"severity"`
}

// New builds a notification with a fresh id.
func New(title, description string, severity Severity) Notification {
	return Notification{
		ID:          uuid.New().String(),
		Title:       title,
		Description: description,
		Severity:    severity,
	}
}

type Notifier interface {
	Notify(n Notification)
}

// Console writes notifications as single lines, toast-style.
type Console struct {
	Out io.Writer
}

func (c Console) Notify(n Notification) {
	if c.Out == nil {
		return
	}
	fmt.Fprintf(c.Out, "[%s] %s: %s\n", n.Severity, n.Title, n.Description)
}

// Recorder collects notifications for inspection in tests.
type Recorder struct {
	mu    sync.Mutex
	items []Notification
}

func (r *Recorder) Notify(n Notification) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.items = append(r.items, n)
}

func (r *Recorder) Items() []Notification {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]Notification, len(r.items))
	copy(out, r.items)
	return out
}

func (r *Recorder) Reset() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.items = nil
}

// Discard drops everything.
type Discard struct{}

func (Discard) Notify(Notification) {}
