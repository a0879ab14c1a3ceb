package lifecycle_test

import (
	"sync/atomic"
	"testing"
	"time"

	"github.com/JaimeStill/ecoscore/pkg/lifecycle"
)

type checker struct {
	ready atomic.Bool
}

func (c *checker) Ready() bool { return c.ready.Load() }

func TestReadiness(t *testing.T) {
	lc := lifecycle.New()
	if lc.Ready() {
		t.Error("should not be ready before WaitForStartup")
	}

	lc.WaitForStartup()
	if !lc.Ready() {
		t.Error("should be ready after WaitForStartup")
	}
}

func TestRequiredCheckerGatesReadiness(t *testing.T) {
	lc := lifecycle.New()
	db := &checker{}
	cache := &checker{}
	cache.ready.Store(true)
	lc.Require("database", db)
	lc.Require("cache", cache)

	lc.WaitForStartup()
	if lc.Ready() {
		t.Error("should not be ready while a required checker is not ready")
	}
	if got := lc.Pending(); len(got) != 1 || got[0] != "database" {
		t.Errorf("pending: got %v, want [database]", got)
	}

	db.ready.Store(true)
	if !lc.Ready() {
		t.Error("should be ready once every required checker is ready")
	}
	if got := lc.Pending(); len(got) != 0 {
		t.Errorf("pending: got %v, want none", got)
	}
}

func TestStartupHooksExecute(t *testing.T) {
	lc := lifecycle.New()

	var count atomic.Int32
	for range 3 {
		lc.OnStartup(func() {
			count.Add(1)
		})
	}

	lc.WaitForStartup()

	if got := count.Load(); got != 3 {
		t.Errorf("startup hooks: got %d, want 3", got)
	}
}

func TestShutdownHooksExecute(t *testing.T) {
	lc := lifecycle.New()

	var cleaned atomic.Bool
	lc.OnShutdown(func() {
		<-lc.Context().Done()
		cleaned.Store(true)
	})

	lc.WaitForStartup()

	if err := lc.Shutdown(5 * time.Second); err != nil {
		t.Fatalf("shutdown failed: %v", err)
	}
	if !cleaned.Load() {
		t.Error("shutdown hook did not execute")
	}
	if lc.Ready() {
		t.Error("should not report ready after shutdown")
	}

	select {
	case <-lc.Context().Done():
	default:
		t.Error("context should be cancelled after shutdown")
	}
}

func TestShutdownTimeout(t *testing.T) {
	lc := lifecycle.New()

	lc.OnShutdown(func() {
		<-lc.Context().Done()
		time.Sleep(500 * time.Millisecond)
	})

	lc.WaitForStartup()

	if err := lc.Shutdown(50 * time.Millisecond); err == nil {
		t.Error("expected timeout error, got nil")
	}
}
