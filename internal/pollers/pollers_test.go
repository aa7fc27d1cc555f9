package pollers

import (
	"context"
	"image"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"

	"github.com/rmitchellscott/ditherbox/internal/editor"
	"github.com/rmitchellscott/ditherbox/internal/storage"
)

func waitFor(t *testing.T, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatal("condition not met before deadline")
}

func TestBasePollerRunsImmediatelyAndStops(t *testing.T) {
	var calls atomic.Int32
	p := NewBasePoller(DefaultConfig("counter", time.Hour), func(ctx context.Context) error {
		calls.Add(1)
		return nil
	})

	if err := p.Start(context.Background()); err != nil {
		t.Fatal(err)
	}
	waitFor(t, func() bool { return calls.Load() == 1 })
	if !p.IsRunning() {
		t.Error("poller should be running")
	}

	if err := p.Stop(); err != nil {
		t.Fatal(err)
	}
	if p.IsRunning() {
		t.Error("poller should be stopped")
	}
	if err := p.Stop(); err != nil {
		t.Errorf("second stop: %v", err)
	}
}

func TestDisabledPollerDoesNotStart(t *testing.T) {
	p := NewBasePoller(DefaultConfig("off", 0), func(ctx context.Context) error {
		t.Error("disabled poller ran")
		return nil
	})
	if err := p.Start(context.Background()); err != nil {
		t.Fatal(err)
	}
	if p.IsRunning() {
		t.Error("disabled poller reports running")
	}
}

func TestManagerStartStop(t *testing.T) {
	var a, b atomic.Int32
	m := NewManager()
	m.Register(NewBasePoller(DefaultConfig("b", time.Hour), func(context.Context) error { b.Add(1); return nil }))
	m.Register(NewBasePoller(DefaultConfig("a", time.Hour), func(context.Context) error { a.Add(1); return nil }))

	if names := m.ListPollers(); len(names) != 2 || names[0] != "a" || names[1] != "b" {
		t.Errorf("pollers = %v", names)
	}

	if err := m.Start(context.Background()); err != nil {
		t.Fatal(err)
	}
	waitFor(t, func() bool { return a.Load() == 1 && b.Load() == 1 })

	if err := m.Stop(); err != nil {
		t.Fatal(err)
	}
	if m.IsRunning() {
		t.Error("manager still running")
	}
	if p, ok := m.GetPoller("a"); !ok || p.IsRunning() {
		t.Error("poller a should be registered and stopped")
	}
}

func TestSessionSweeper(t *testing.T) {
	sessions := editor.NewManager(time.Millisecond)
	if _, err := sessions.Create(image.NewGray(image.Rect(0, 0, 4, 4)), "a.png"); err != nil {
		t.Fatal(err)
	}
	time.Sleep(5 * time.Millisecond)

	p := NewSessionSweeper(sessions, time.Hour)
	if err := p.Start(context.Background()); err != nil {
		t.Fatal(err)
	}
	defer p.Stop()

	waitFor(t, func() bool { return sessions.Len() == 0 })
}

func TestExportCleaner(t *testing.T) {
	dir := t.TempDir()
	exports := storage.NewExportStorage(dir, "/exports")

	oldFile := filepath.Join(dir, "old.png")
	newFile := filepath.Join(dir, "new.png")
	for _, f := range []string{oldFile, newFile} {
		if err := os.WriteFile(f, []byte("x"), 0644); err != nil {
			t.Fatal(err)
		}
	}
	old := time.Now().Add(-48 * time.Hour)
	if err := os.Chtimes(oldFile, old, old); err != nil {
		t.Fatal(err)
	}

	p := NewExportCleaner(exports, time.Hour, 24*time.Hour)
	if err := p.Start(context.Background()); err != nil {
		t.Fatal(err)
	}
	defer p.Stop()

	waitFor(t, func() bool {
		_, err := os.Stat(oldFile)
		return os.IsNotExist(err)
	})
	if _, err := os.Stat(newFile); err != nil {
		t.Errorf("recent export removed: %v", err)
	}
}

func TestExportCleanerDisabledWithoutMaxAge(t *testing.T) {
	p := NewExportCleaner(storage.NewExportStorage(t.TempDir(), "/exports"), time.Hour, 0)
	if err := p.Start(context.Background()); err != nil {
		t.Fatal(err)
	}
	if p.IsRunning() {
		t.Error("cleaner without max age should not run")
	}
}
