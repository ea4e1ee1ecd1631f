package tasks_test

import (
	"context"
	"testing"
	"time"

	"taskhub/internal/db"
	"taskhub/internal/migrate"
	"taskhub/internal/notify"
	"taskhub/internal/storage"
	"taskhub/internal/tasks"

	"taskhub/internal/domain"
)

type testEnv struct {
	Store    *tasks.Store
	KV       storage.Store
	Recorder *notify.Recorder
	Ctx      context.Context
}

func newTestEnv(t *testing.T) testEnv {
	t.Helper()
	dir := t.TempDir()
	conn, err := db.Open(db.Config{Workspace: dir})
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	t.Cleanup(func() { conn.Close() })
	if err := migrate.Migrate(conn); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	kv := storage.Store{DB: conn}
	rec := &notify.Recorder{}
	s := tasks.New(kv, rec)
	s.Now = func() time.Time { return time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC) }
	ctx := context.Background()
	s.Load(ctx)
	return testEnv{Store: s, KV: kv, Recorder: rec, Ctx: ctx}
}

func TestAddTrimsAndPersists(t *testing.T) {
	env := newTestEnv(t)
	task, ok, err := env.Store.Add(env.Ctx, "  Buy milk  ", domain.PriorityHigh)
	if err != nil || !ok {
		t.Fatalf("add: ok=%v err=%v", ok, err)
	}
	if task.Text != "Buy milk" {
		t.Fatalf("expected trimmed text, got %q", task.Text)
	}
	if task.Completed {
		t.Fatalf("new task must start active")
	}
	if task.Priority != domain.PriorityHigh {
		t.Fatalf("priority not kept: %q", task.Priority)
	}

	// the persisted value round-trips into an equivalent collection
	reloaded := tasks.New(env.KV, nil)
	reloaded.Load(env.Ctx)
	got := reloaded.All()
	if len(got) != 1 || got[0] != task {
		t.Fatalf("reload mismatch: %+v", got)
	}
}

func TestAddEmptyTextIsNoOp(t *testing.T) {
	env := newTestEnv(t)
	for _, text := range []string{"", "   ", "\t\n"} {
		_, ok, err := env.Store.Add(env.Ctx, text, "")
		if err != nil {
			t.Fatalf("add %q: %v", text, err)
		}
		if ok {
			t.Fatalf("add %q: expected no-op", text)
		}
	}
	if n := len(env.Store.All()); n != 0 {
		t.Fatalf("collection changed: %d", n)
	}
	// no-op adds must not write
	if _, found, _ := env.KV.Get(env.Ctx, "taskhub-tasks"); found {
		t.Fatalf("unexpected persistence write")
	}
	if n := len(env.Recorder.Items()); n != 0 {
		t.Fatalf("unexpected notifications: %d", n)
	}
}

func TestAddDefaultsAndInvalidPriority(t *testing.T) {
	env := newTestEnv(t)
	task, ok, err := env.Store.Add(env.Ctx, "defaulted", "")
	if err != nil || !ok {
		t.Fatalf("add: %v", err)
	}
	if task.Priority != domain.PriorityMedium {
		t.Fatalf("expected medium default, got %q", task.Priority)
	}
	if _, _, err := env.Store.Add(env.Ctx, "bad", "urgent"); err == nil {
		t.Fatalf("expected invalid priority error")
	}
}

func TestIDsUniqueAndOrderPreserved(t *testing.T) {
	env := newTestEnv(t)
	// fixed clock forces the collision bump on every add
	for i := 0; i < 20; i++ {
		if _, ok, err := env.Store.Add(env.Ctx, "task", ""); err != nil || !ok {
			t.Fatalf("add %d: %v", i, err)
		}
	}
	all := env.Store.All()
	if len(all) != 20 {
		t.Fatalf("expected 20 tasks, got %d", len(all))
	}
	seen := map[int64]bool{}
	var prev int64
	for _, task := range all {
		if seen[task.ID] {
			t.Fatalf("duplicate id %d", task.ID)
		}
		seen[task.ID] = true
		if task.ID <= prev {
			t.Fatalf("ids not increasing: %d after %d", task.ID, prev)
		}
		prev = task.ID
	}
}

func TestSizeAfterAddsAndDeletes(t *testing.T) {
	env := newTestEnv(t)
	var ids []int64
	for i := 0; i < 8; i++ {
		task, _, err := env.Store.Add(env.Ctx, "t", "")
		if err != nil {
			t.Fatal(err)
		}
		ids = append(ids, task.ID)
	}
	for _, id := range ids[:3] {
		if _, ok, err := env.Store.Delete(env.Ctx, id); err != nil || !ok {
			t.Fatalf("delete %d: %v", id, err)
		}
	}
	if n := len(env.Store.All()); n != 5 {
		t.Fatalf("expected 8-3=5 tasks, got %d", n)
	}
}

func TestToggleInvolution(t *testing.T) {
	env := newTestEnv(t)
	task, _, err := env.Store.Add(env.Ctx, "flip me", "")
	if err != nil {
		t.Fatal(err)
	}
	first, ok, err := env.Store.Toggle(env.Ctx, task.ID)
	if err != nil || !ok || !first.Completed {
		t.Fatalf("first toggle: ok=%v completed=%v err=%v", ok, first.Completed, err)
	}
	second, ok, err := env.Store.Toggle(env.Ctx, task.ID)
	if err != nil || !ok || second.Completed {
		t.Fatalf("second toggle must restore: completed=%v err=%v", second.Completed, err)
	}
}

func TestToggleAndDeleteAbsentID(t *testing.T) {
	env := newTestEnv(t)
	if _, ok, err := env.Store.Toggle(env.Ctx, 404); ok || err != nil {
		t.Fatalf("toggle absent: ok=%v err=%v", ok, err)
	}
	if _, ok, err := env.Store.Delete(env.Ctx, 404); ok || err != nil {
		t.Fatalf("delete absent: ok=%v err=%v", ok, err)
	}
}

func TestMalformedStoredValueFailsOpen(t *testing.T) {
	env := newTestEnv(t)
	if err := env.KV.Put(env.Ctx, "taskhub-tasks", "{not json"); err != nil {
		t.Fatalf("seed: %v", err)
	}
	s := tasks.New(env.KV, nil)
	s.Load(env.Ctx)
	if n := len(s.All()); n != 0 {
		t.Fatalf("expected empty collection, got %d", n)
	}
	// the store is still usable after failing open
	if _, ok, err := s.Add(env.Ctx, "recovered", ""); err != nil || !ok {
		t.Fatalf("add after fail-open: %v", err)
	}
}

func TestNotifications(t *testing.T) {
	env := newTestEnv(t)
	task, _, _ := env.Store.Add(env.Ctx, "note", "")
	env.Store.Toggle(env.Ctx, task.ID)
	env.Store.Toggle(env.Ctx, task.ID)
	env.Store.Delete(env.Ctx, task.ID)
	items := env.Recorder.Items()
	titles := make([]string, len(items))
	for i, n := range items {
		titles[i] = n.Title
		if n.ID == "" {
			t.Fatalf("notification without id")
		}
	}
	want := []string{"Task Added", "Task Completed", "Task Reopened", "Task Deleted"}
	if len(titles) != len(want) {
		t.Fatalf("expected %v, got %v", want, titles)
	}
	for i := range want {
		if titles[i] != want[i] {
			t.Fatalf("expected %v, got %v", want, titles)
		}
	}
	if items[3].Severity != notify.SeverityError {
		t.Fatalf("delete should be destructive, got %s", items[3].Severity)
	}
}
