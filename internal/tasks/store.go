package tasks

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"taskhub/internal/domain"
	"taskhub/internal/notify"
	"taskhub/internal/storage"
)

const storageKey = "taskhub-tasks"

// Store owns the ordered task collection. Every mutation writes the whole
// collection back to storage before returning.
type Store struct {
	KV       storage.Store
	Notifier notify.Notifier
	Now      func() time.Time
	NewID    func() int64

	mu     sync.Mutex
	tasks  []domain.Task
	lastID int64
}

func New(kv storage.Store, notifier notify.Notifier) *Store {
	if notifier == nil {
		notifier = notify.Discard{}
	}
	return &Store{
		KV:       kv,
		Notifier: notifier,
		Now:      time.Now,
	}
}

// Load reads the persisted collection. A missing or malformed value
// initializes an empty collection; Load never fails.
func (s *Store) Load(ctx context.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var loaded []domain.Task
	if _, err := s.KV.GetJSON(ctx, storageKey, &loaded); err != nil {
		loaded = nil
	}
	s.tasks = loaded
	s.lastID = 0
	for _, t := range loaded {
		if t.ID > s.lastID {
			s.lastID = t.ID
		}
	}
}

// Add appends a new task. Whitespace-only text is a silent no-op: no task is
// created, nothing is written, and ok is false.
func (s *Store) Add(ctx context.Context, text, priority string) (domain.Task, bool, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return domain.Task{}, false, nil
	}
	if priority == "" {
		priority = domain.PriorityMedium
	}
	if !domain.ValidPriority(priority) {
		return domain.Task{}, false, fmt.Errorf("invalid priority %q", priority)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	t := domain.Task{
		ID:        s.nextID(),
		Text:      text,
		Completed: false,
		CreatedAt: s.Now().UTC().Format(time.RFC3339),
		Priority:  priority,
	}
	s.tasks = append(s.tasks, t)
	if err := s.persist(ctx); err != nil {
		return t, true, err
	}
	s.Notifier.Notify(notify.New("Task Added",
		fmt.Sprintf("%q has been added to your tasks.", t.Text), notify.SeverityInfo))
	return t, true, nil
}

// Toggle flips the completed flag of the task with the given id. An absent id
// is a no-op with ok false.
func (s *Store) Toggle(ctx context.Context, id int64) (domain.Task, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.tasks {
		if s.tasks[i].ID != id {
			continue
		}
		s.tasks[i].Completed = !s.tasks[i].Completed
		t := s.tasks[i]
		if err := s.persist(ctx); err != nil {
			return t, true, err
		}
		title, verb := "Task Completed", "completed"
		if !t.Completed {
			title, verb = "Task Reopened", "reopened"
		}
		s.Notifier.Notify(notify.New(title,
			fmt.Sprintf("%q has been %s.", t.Text, verb), notify.SeverityInfo))
		return t, true, nil
	}
	return domain.Task{}, false, nil
}

// Delete removes the task with the given id. An absent id is a no-op with ok
// false.
func (s *Store) Delete(ctx context.Context, id int64) (domain.Task, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.tasks {
		if s.tasks[i].ID != id {
			continue
		}
		t := s.tasks[i]
		s.tasks = append(s.tasks[:i], s.tasks[i+1:]...)
		if err := s.persist(ctx); err != nil {
			return t, true, err
		}
		s.Notifier.Notify(notify.New("Task Deleted",
			fmt.Sprintf("%q has been removed from your tasks.", t.Text), notify.SeverityError))
		return t, true, nil
	}
	return domain.Task{}, false, nil
}

// All returns the collection in insertion order.
func (s *Store) All() []domain.Task {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]domain.Task, len(s.tasks))
	copy(out, s.tasks)
	return out
}

// nextID returns wall-clock milliseconds, bumped past the previous id so two
// adds in the same millisecond cannot collide. Callers must hold s.mu.
func (s *Store) nextID() int64 {
	id := s.Now().UnixMilli()
	if s.NewID != nil {
		id = s.NewID()
	}
	if id <= s.lastID {
		id = s.lastID + 1
	}
	s.lastID = id
	return id
}

func (s *Store) persist(ctx context.Context) error {
	snapshot := s.tasks
	if snapshot == nil {
		snapshot = []domain.Task{}
	}
	if err := s.KV.PutJSON(ctx, storageKey, snapshot); err != nil {
		return fmt.Errorf("persist tasks: %w", err)
	}
	return nil
}
