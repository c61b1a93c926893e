package daemon_test

import (
	"context"
	"testing"
	"time"

	"shortlist/internal/daemon"
	"shortlist/internal/logging"
	"shortlist/internal/task"
	"shortlist/internal/testsupport"
)

func TestDaemonStartStop(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	store := testsupport.MustOpenStore(t, cfg)

	d, err := daemon.New(cfg, store, logging.NewNop())
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	t.Cleanup(func() { _ = d.Close() })

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := d.Start(ctx); err != nil {
		t.Fatalf("Start failed: %v", err)
	}
	if addr := d.APIAddr(); addr == "" {
		t.Fatal("expected a bound API address after Start")
	}

	status := d.Status(ctx)
	if !status.Running {
		t.Fatal("expected running status")
	}
	total := 0
	for _, count := range status.TaskCounts {
		total += count
	}
	if total != 7 {
		t.Fatalf("expected 7 seeded tasks, got %d", total)
	}

	if err := d.Start(ctx); err == nil {
		t.Fatal("second Start on a running daemon must fail")
	}

	d.Stop()
	if d.Status(ctx).Running {
		t.Fatal("expected stopped status after Stop")
	}
}

func TestDaemonLockPreventsSecondInstance(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	store := testsupport.MustOpenStore(t, cfg)

	first, err := daemon.New(cfg, store, logging.NewNop())
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	t.Cleanup(func() { _ = first.Close() })

	ctx := context.Background()
	if err := first.Start(ctx); err != nil {
		t.Fatalf("Start failed: %v", err)
	}

	otherStore, err := task.OpenPath(t.TempDir() + "/other.db")
	if err != nil {
		t.Fatalf("open second store: %v", err)
	}
	t.Cleanup(func() { _ = otherStore.Close() })

	second, err := daemon.New(cfg, otherStore, logging.NewNop())
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	if err := second.Start(ctx); err == nil {
		second.Stop()
		t.Fatal("second daemon on the same lock must fail to start")
	}

	first.Stop()

	// The lock is free again once the holder stops.
	if err := second.Start(ctx); err != nil {
		t.Fatalf("Start after lock release failed: %v", err)
	}
	second.Stop()
}
