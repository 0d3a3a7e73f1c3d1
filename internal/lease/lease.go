// Package lease issues time-bounded claims on queue items. Every claim
// carries a random token; the token is the only proof of ownership and
// the store rejects writes presented with a stale or foreign token.
package lease

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"easel/internal/queue"
)

// Lease pairs a reserved item with the token that controls it.
type Lease struct {
	Item      *queue.Item
	Token     string
	ExpiresAt time.Time
}

// Manager hands out leases backed by the queue store.
type Manager struct {
	store    *queue.Store
	duration time.Duration
	now      func() time.Time
}

// NewManager returns a manager issuing leases of the given duration.
func NewManager(store *queue.Store, duration time.Duration) *Manager {
	return &Manager{
		store:    store,
		duration: duration,
		now:      time.Now,
	}
}

// Duration reports the configured lease length.
func (m *Manager) Duration() time.Duration {
	return m.duration
}

// Acquire claims the next eligible item. It returns nil when nothing is
// eligible, which callers should treat as an empty queue rather than an
// error.
func (m *Manager) Acquire(ctx context.Context) (*Lease, error) {
	token := uuid.NewString()
	now := m.now()
	until := now.Add(m.duration)

	item, err := m.store.TryReserve(ctx, token, now, until)
	if err != nil {
		return nil, fmt.Errorf("acquire lease: %w", err)
	}
	if item == nil {
		return nil, nil
	}
	return &Lease{Item: item, Token: token, ExpiresAt: until}, nil
}

// Finish moves a leased item to its terminal state. A skip records no
// labels regardless of what was passed.
func (m *Manager) Finish(ctx context.Context, itemID int64, token string, labels queue.Labels, skipped bool) error {
	if err := m.store.CommitTerminal(ctx, itemID, token, labels, skipped, m.now()); err != nil {
		return fmt.Errorf("finish lease: %w", err)
	}
	return nil
}

// Release returns a leased item to the pending pool without finishing it.
func (m *Manager) Release(ctx context.Context, itemID int64, token string) error {
	if err := m.store.Release(ctx, itemID, token); err != nil {
		return fmt.Errorf("release lease: %w", err)
	}
	return nil
}
