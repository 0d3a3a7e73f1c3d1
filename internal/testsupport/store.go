package testsupport

import (
	"context"
	"testing"

	"easel/internal/config"
	"easel/internal/queue"
)

// MustOpenStore opens a queue.Store for tests and registers cleanup.
func MustOpenStore(t testing.TB, cfg *config.Config) *queue.Store {
	t.Helper()

	store, err := queue.Open(cfg)
	if err != nil {
		t.Fatalf("queue.Open: %v", err)
	}
	t.Cleanup(func() {
		store.Close()
	})
	return store
}

// SeedItem inserts a pending item for tests using the provided store.
func SeedItem(t testing.TB, store *queue.Store, name string) *queue.Item {
	t.Helper()

	item, err := store.UpsertIfAbsent(context.Background(), name, 0, 0)
	if err != nil {
		t.Fatalf("store.UpsertIfAbsent: %v", err)
	}
	return item
}
