package queue

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"
)

// UpsertIfAbsent inserts a new pending item for name if it has never been
// seen, returning the stored row either way. Safe to call concurrently for
// the same name: exactly one insert wins, the rest observe the existing row.
func (s *Store) UpsertIfAbsent(ctx context.Context, name string, width, height int) (*Item, error) {
	if name == "" {
		return nil, errors.New("item name is empty")
	}
	timestamp := formatTime(time.Now())

	if _, err := s.execWithRetry(
		ctx,
		`INSERT OR IGNORE INTO items (name, status, skipped, width, height, created_at, updated_at)
         VALUES (?, ?, 0, ?, ?, ?, ?)`,
		name,
		StatusPending,
		width,
		height,
		timestamp,
		timestamp,
	); err != nil {
		return nil, fmt.Errorf("insert item: %w", err)
	}

	item, err := s.GetByName(ctx, name)
	if err != nil {
		return nil, err
	}
	if item == nil {
		return nil, fmt.Errorf("item %q missing after upsert", name)
	}
	return item, nil
}

// GetByID fetches a work item by identifier.
func (s *Store) GetByID(ctx context.Context, id int64) (*Item, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+itemColumns+` FROM items WHERE id = ?`, id)
	item, err := scanItem(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get item: %w", err)
	}
	return item, nil
}

// GetByName fetches a work item by its unique name.
func (s *Store) GetByName(ctx context.Context, name string) (*Item, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+itemColumns+` FROM items WHERE name = ?`, name)
	item, err := scanItem(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get item by name: %w", err)
	}
	return item, nil
}

// Records returns items ordered by id, optionally filtered by status and
// capped at limit (0 means unlimited). Used by the browse/report view.
func (s *Store) Records(ctx context.Context, status Status, limit int) ([]*Item, error) {
	query := `SELECT ` + itemColumns + ` FROM items`
	args := make([]any, 0, 2)
	if status != "" {
		query += ` WHERE status = ?`
		args = append(args, status)
	}
	query += ` ORDER BY id`
	if limit > 0 {
		query += ` LIMIT ?`
		args = append(args, limit)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list items: %w", err)
	}
	defer rows.Close()

	var items []*Item
	for rows.Next() {
		item, err := scanItem(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, item)
	}
	return items, rows.Err()
}

// Counts returns aggregate queue state as of now. Reservation liveness is
// evaluated against the supplied clock so callers and tests agree on expiry.
func (s *Store) Counts(ctx context.Context, now time.Time) (Counts, error) {
	nowStr := formatTime(now)
	row := s.db.QueryRowContext(
		ctx,
		`SELECT
            COALESCE(SUM(status = 'pending'), 0),
            COALESCE(SUM(status = 'reserved' AND reserved_until > ?), 0),
            COALESCE(SUM(status = 'reserved' AND reserved_until <= ?), 0),
            COALESCE(SUM(status = 'done'), 0),
            COALESCE(SUM(status = 'done' AND skipped = 1), 0),
            COUNT(*)
         FROM items`,
		nowStr,
		nowStr,
	)

	var counts Counts
	if err := row.Scan(
		&counts.Pending,
		&counts.ReservedLive,
		&counts.ReservedExpired,
		&counts.Done,
		&counts.Skipped,
		&counts.Total,
	); err != nil {
		return Counts{}, fmt.Errorf("count items: %w", err)
	}
	return counts, nil
}
