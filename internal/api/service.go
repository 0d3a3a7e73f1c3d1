// Package api implements the labeling operations exposed over HTTP:
// handing out work, accepting submissions and skips, and reporting
// progress.
package api

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/url"
	"sort"
	"time"

	"easel/internal/lease"
	"easel/internal/logging"
	"easel/internal/queue"
	"easel/internal/taxonomy"
)

// ErrValidation marks submissions rejected before touching the store,
// such as empty label sets or selections outside a strict vocabulary.
var ErrValidation = errors.New("invalid submission")

// Syncer registers newly discovered images before work is handed out.
type Syncer interface {
	Sync(ctx context.Context) (int, error)
}

// ItemView is the client-facing shape of a queue item.
type ItemView struct {
	ID     int64  `json:"id"`
	Name   string `json:"name"`
	URL    string `json:"url"`
	Width  int    `json:"width,omitempty"`
	Height int    `json:"height,omitempty"`
}

// Assignment is one unit of handed-out work.
type Assignment struct {
	Item      ItemView  `json:"item"`
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expires_at"`
}

// Record is a browsable view of a stored item.
type Record struct {
	ID      int64        `json:"id"`
	Name    string       `json:"name"`
	Status  queue.Status `json:"status"`
	Skipped bool         `json:"skipped"`
	Labels  queue.Labels `json:"labels,omitempty"`
	Updated time.Time    `json:"updated_at"`
}

// TaxonomyView describes the configured vocabulary.
type TaxonomyView struct {
	Strict     bool                `json:"strict"`
	Categories []taxonomy.Category `json:"categories"`
}

// QueueService coordinates the store, lease manager, and image library.
type QueueService struct {
	store  *queue.Store
	leases *lease.Manager
	syncer Syncer
	vocab  *taxonomy.Vocabulary
	logger *slog.Logger
}

// NewQueueService wires the service. syncer may be nil when discovery
// is handled elsewhere.
func NewQueueService(store *queue.Store, leases *lease.Manager, syncer Syncer, vocab *taxonomy.Vocabulary, logger *slog.Logger) *QueueService {
	if logger == nil {
		logger = logging.NewNop()
	}
	return &QueueService{
		store:  store,
		leases: leases,
		syncer: syncer,
		vocab:  vocab,
		logger: logging.WithComponent(logger, "api"),
	}
}

// Next reserves the next eligible item for the caller. It returns nil
// when the queue is drained.
func (s *QueueService) Next(ctx context.Context) (*Assignment, error) {
	if s.syncer != nil {
		if _, err := s.syncer.Sync(ctx); err != nil {
			return nil, fmt.Errorf("sync library: %w", err)
		}
	}

	held, err := s.leases.Acquire(ctx)
	if err != nil {
		return nil, err
	}
	if held == nil {
		return nil, nil
	}

	s.logger.Info("assigned item",
		logging.Int64("item_id", held.Item.ID),
		logging.String("file", held.Item.Name))
	return &Assignment{
		Item: ItemView{
			ID:     held.Item.ID,
			Name:   held.Item.Name,
			URL:    "/images/" + url.PathEscape(held.Item.Name),
			Width:  held.Item.Width,
			Height: held.Item.Height,
		},
		Token:     held.Token,
		ExpiresAt: held.ExpiresAt,
	}, nil
}

// Submit records labels for a leased item and marks it done.
func (s *QueueService) Submit(ctx context.Context, itemID int64, token string, labels queue.Labels) error {
	if itemID <= 0 || token == "" {
		return fmt.Errorf("%w: item id and token are required", ErrValidation)
	}
	if labels.Empty() {
		return fmt.Errorf("%w: at least one label is required", ErrValidation)
	}
	if err := s.vocab.Validate(labels); err != nil {
		return fmt.Errorf("%w: %s", ErrValidation, err)
	}
	if err := s.leases.Finish(ctx, itemID, token, labels, false); err != nil {
		return err
	}
	s.logger.Info("labels submitted", logging.Int64("item_id", itemID))
	return nil
}

// Skip marks a leased item done without labels.
func (s *QueueService) Skip(ctx context.Context, itemID int64, token string) error {
	if itemID <= 0 || token == "" {
		return fmt.Errorf("%w: item id and token are required", ErrValidation)
	}
	if err := s.leases.Finish(ctx, itemID, token, nil, true); err != nil {
		return err
	}
	s.logger.Info("item skipped", logging.Int64("item_id", itemID))
	return nil
}

// Release voluntarily returns a leased item to the pending pool.
func (s *QueueService) Release(ctx context.Context, itemID int64, token string) error {
	if itemID <= 0 || token == "" {
		return fmt.Errorf("%w: item id and token are required", ErrValidation)
	}
	if err := s.leases.Release(ctx, itemID, token); err != nil {
		return err
	}
	s.logger.Info("item released", logging.Int64("item_id", itemID))
	return nil
}

// Progress reports queue counts as of now.
func (s *QueueService) Progress(ctx context.Context) (queue.Counts, error) {
	return s.store.Counts(ctx, time.Now())
}

// Records lists stored items, optionally filtered by status. An empty
// status means all items; limit zero means no limit.
func (s *QueueService) Records(ctx context.Context, status string, limit int) ([]Record, error) {
	var filter queue.Status
	if status != "" {
		parsed, ok := queue.ParseStatus(status)
		if !ok {
			return nil, fmt.Errorf("%w: unknown status %q", ErrValidation, status)
		}
		filter = parsed
	}

	items, err := s.store.Records(ctx, filter, limit)
	if err != nil {
		return nil, err
	}
	records := make([]Record, 0, len(items))
	for _, item := range items {
		records = append(records, Record{
			ID:      item.ID,
			Name:    item.Name,
			Status:  item.Status,
			Skipped: item.Skipped,
			Labels:  item.Labels,
			Updated: item.UpdatedAt,
		})
	}
	return records, nil
}

// Taxonomy returns the configured vocabulary with categories in
// configuration order and labels sorted for stable output.
func (s *QueueService) Taxonomy() TaxonomyView {
	categories := s.vocab.Categories()
	for i := range categories {
		sort.Slice(categories[i].Labels, func(a, b int) bool {
			return categories[i].Labels[a].ID < categories[i].Labels[b].ID
		})
	}
	return TaxonomyView{Strict: s.vocab.Strict(), Categories: categories}
}

// LeaseDuration reports the configured lease length, used by status
// output.
func (s *QueueService) LeaseDuration() time.Duration {
	return s.leases.Duration()
}
