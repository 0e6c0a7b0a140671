package watcher

import (
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"
)

func waitFor(t *testing.T, ch <-chan Event) Event {
	t.Helper()
	select {
	case ev := <-ch:
		return ev
	case <-time.After(3 * time.Second):
		t.Fatal("timed out waiting for event")
		return Event{}
	}
}

func TestWatcher_DetectsWrite(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "settings.toml")
	if err := os.WriteFile(path, []byte("a = 1\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	w, err := New(WithDebounce(20 * time.Millisecond))
	if err != nil {
		t.Fatalf("New() error: %v", err)
	}
	defer w.Stop()

	events := make(chan Event, 8)
	w.OnChange(func(ev Event) { events <- ev })
	if err := w.Watch(path); err != nil {
		t.Fatalf("Watch() error: %v", err)
	}
	w.Start()

	if err := os.WriteFile(path, []byte("a = 2\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	ev := waitFor(t, events)
	if filepath.Base(ev.Path) != "settings.toml" {
		t.Errorf("event path = %q", ev.Path)
	}
}

func TestWatcher_IgnoresSiblings(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "settings.toml")

	w, err := New(WithDebounce(20 * time.Millisecond))
	if err != nil {
		t.Fatal(err)
	}
	defer w.Stop()

	events := make(chan Event, 8)
	w.OnChange(func(ev Event) { events <- ev })
	if err := w.Watch(path); err != nil {
		t.Fatal(err)
	}
	w.Start()

	if err := os.WriteFile(filepath.Join(dir, "other.txt"), []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}
	select {
	case ev := <-events:
		t.Errorf("unexpected event for %s", ev.Path)
	case <-time.After(200 * time.Millisecond):
	}

	// The settings file may be created after Watch.
	if err := os.WriteFile(path, []byte("x = 1"), 0o644); err != nil {
		t.Fatal(err)
	}
	if ev := waitFor(t, events); ev.Op != OpCreate && ev.Op != OpWrite {
		t.Errorf("op = %v, want create or write", ev.Op)
	}
}

func TestWatcher_Coalesce(t *testing.T) {
	w, err := New()
	if err != nil {
		t.Fatal(err)
	}
	defer w.Stop()

	var mu sync.Mutex
	var got []Event
	w.OnChange(func(ev Event) {
		mu.Lock()
		got = append(got, ev)
		mu.Unlock()
	})

	now := time.Now().Add(-time.Second)
	w.queue(Event{Path: "/a", Op: OpCreate, Time: now})
	w.queue(Event{Path: "/a", Op: OpWrite, Time: now})
	w.queue(Event{Path: "/b", Op: OpRemove, Time: now})
	w.queue(Event{Path: "/b", Op: OpWrite, Time: now})
	w.queue(Event{Path: "/c", Op: OpWrite, Time: time.Now().Add(time.Hour)})
	w.flush(time.Now())

	mu.Lock()
	defer mu.Unlock()
	if len(got) != 2 {
		t.Fatalf("flushed %d events, want 2", len(got))
	}
	ops := map[string]Operation{}
	for _, ev := range got {
		ops[ev.Path] = ev.Op
	}
	if ops["/a"] != OpCreate || ops["/b"] != OpRemove {
		t.Errorf("coalesced ops = %v", ops)
	}
}

func TestWatcher_PanickingHandler(t *testing.T) {
	w, err := New()
	if err != nil {
		t.Fatal(err)
	}
	defer w.Stop()

	called := false
	w.OnChange(func(Event) { panic("boom") })
	w.OnChange(func(Event) { called = true })
	w.queue(Event{Path: "/x", Op: OpWrite, Time: time.Now().Add(-time.Second)})
	w.flush(time.Now())

	if !called {
		t.Error("second handler should still run")
	}
}

func TestWatcher_StopTwice(t *testing.T) {
	w, err := New()
	if err != nil {
		t.Fatal(err)
	}
	w.Start()
	if !w.IsRunning() {
		t.Error("should be running")
	}
	if err := w.Stop(); err != nil {
		t.Errorf("Stop() error: %v", err)
	}
	if err := w.Stop(); err != nil {
		t.Errorf("second Stop() error: %v", err)
	}
	if err := w.Watch(filepath.Join(t.TempDir(), "x")); err != ErrNotRunning {
		t.Errorf("Watch after Stop = %v, want ErrNotRunning", err)
	}
}

func TestWatcher_Unwatch(t *testing.T) {
	dir := t.TempDir()
	w, err := New()
	if err != nil {
		t.Fatal(err)
	}
	defer w.Stop()

	a, b := filepath.Join(dir, "a.toml"), filepath.Join(dir, "b.toml")
	_ = w.Watch(a)
	_ = w.Watch(b)
	if len(w.Watched()) != 2 {
		t.Fatalf("Watched() = %v", w.Watched())
	}
	if err := w.Unwatch(a); err != nil {
		t.Errorf("Unwatch() error: %v", err)
	}
	if err := w.Unwatch(b); err != nil {
		t.Errorf("Unwatch() error: %v", err)
	}
	if len(w.Watched()) != 0 {
		t.Errorf("Watched() = %v, want empty", w.Watched())
	}
}
