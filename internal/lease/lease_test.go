package lease_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"

	"easel/internal/lease"
	"easel/internal/queue"
	"easel/internal/testsupport"
)

func TestAcquireIssuesUniqueTokens(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	store := testsupport.MustOpenStore(t, cfg)
	manager := lease.NewManager(store, 5*time.Minute)

	testsupport.SeedItem(t, store, "a.png")
	testsupport.SeedItem(t, store, "b.png")

	ctx := context.Background()
	first, err := manager.Acquire(ctx)
	if err != nil {
		t.Fatalf("Acquire: %v", err)
	}
	second, err := manager.Acquire(ctx)
	if err != nil {
		t.Fatalf("Acquire: %v", err)
	}
	if first == nil || second == nil {
		t.Fatal("expected two leases")
	}
	if first.Token == second.Token {
		t.Fatalf("tokens must differ, both %q", first.Token)
	}
	if _, err := uuid.Parse(first.Token); err != nil {
		t.Fatalf("token is not a UUID: %v", err)
	}
	if first.Item.ID == second.Item.ID {
		t.Fatalf("both leases cover item %d", first.Item.ID)
	}
	if !first.ExpiresAt.After(time.Now()) {
		t.Fatalf("expected future expiry, got %v", first.ExpiresAt)
	}
}

func TestAcquireReturnsNilWhenDrained(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	store := testsupport.MustOpenStore(t, cfg)
	manager := lease.NewManager(store, 5*time.Minute)

	got, err := manager.Acquire(context.Background())
	if err != nil {
		t.Fatalf("Acquire: %v", err)
	}
	if got != nil {
		t.Fatalf("expected nil lease on empty queue, got %#v", got)
	}
}

func TestFinishWithLabels(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	store := testsupport.MustOpenStore(t, cfg)
	manager := lease.NewManager(store, 5*time.Minute)

	testsupport.SeedItem(t, store, "a.png")

	ctx := context.Background()
	held, err := manager.Acquire(ctx)
	if err != nil || held == nil {
		t.Fatalf("Acquire: lease=%v err=%v", held, err)
	}

	labels := queue.Labels{"pose": {"seated"}}
	if err := manager.Finish(ctx, held.Item.ID, held.Token, labels, false); err != nil {
		t.Fatalf("Finish: %v", err)
	}

	item, err := store.GetByID(ctx, held.Item.ID)
	if err != nil {
		t.Fatalf("GetByID: %v", err)
	}
	if item.Status != queue.StatusDone || item.Skipped {
		t.Fatalf("unexpected state: %#v", item)
	}
}

func TestFinishRejectsForeignToken(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	store := testsupport.MustOpenStore(t, cfg)
	manager := lease.NewManager(store, 5*time.Minute)

	testsupport.SeedItem(t, store, "a.png")

	ctx := context.Background()
	held, err := manager.Acquire(ctx)
	if err != nil || held == nil {
		t.Fatalf("Acquire: lease=%v err=%v", held, err)
	}

	err = manager.Finish(ctx, held.Item.ID, uuid.NewString(), nil, true)
	if !errors.Is(err, queue.ErrReservationInvalid) {
		t.Fatalf("expected ErrReservationInvalid, got %v", err)
	}
}

func TestReleaseMakesItemAcquirableAgain(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	store := testsupport.MustOpenStore(t, cfg)
	manager := lease.NewManager(store, 5*time.Minute)

	seeded := testsupport.SeedItem(t, store, "a.png")

	ctx := context.Background()
	held, err := manager.Acquire(ctx)
	if err != nil || held == nil {
		t.Fatalf("Acquire: lease=%v err=%v", held, err)
	}
	if err := manager.Release(ctx, held.Item.ID, held.Token); err != nil {
		t.Fatalf("Release: %v", err)
	}

	again, err := manager.Acquire(ctx)
	if err != nil {
		t.Fatalf("Acquire after release: %v", err)
	}
	if again == nil || again.Item.ID != seeded.ID {
		t.Fatalf("expected released item back, got %#v", again)
	}
	if again.Token == held.Token {
		t.Fatal("expected a fresh token after release")
	}
}
