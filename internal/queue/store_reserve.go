package queue

import (
	"context"
	"encoding/json"
	"fmt"
	"time"
)

// TryReserve atomically claims the eligible item with the lowest id and
// stamps it with the caller's token and expiry. Eligible means pending, or
// reserved with a lapsed lease; lapsed reservations get no priority over
// pending items. Returns nil when nothing is eligible.
//
// The claim is a single conditional UPDATE, so two concurrent callers can
// never walk away with the same item: SQLite serializes the writes and the
// nested SELECT re-evaluates inside each one.
func (s *Store) TryReserve(ctx context.Context, token string, now, until time.Time) (*Item, error) {
	if token == "" {
		return nil, fmt.Errorf("reservation token is empty")
	}
	nowStr := formatTime(now)

	res, err := s.execWithRetry(
		ctx,
		`UPDATE items
         SET status = ?, reserved_token = ?, reserved_until = ?, updated_at = ?
         WHERE id = (
             SELECT id FROM items
             WHERE status = 'pending'
                OR (status = 'reserved' AND reserved_until <= ?)
             ORDER BY id
             LIMIT 1
         )`,
		StatusReserved,
		token,
		formatTime(until),
		nowStr,
		nowStr,
	)
	if err != nil {
		return nil, fmt.Errorf("reserve item: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return nil, fmt.Errorf("rows affected: %w", err)
	}
	if affected == 0 {
		return nil, nil
	}

	row := s.db.QueryRowContext(ctx, `SELECT `+itemColumns+` FROM items WHERE reserved_token = ?`, token)
	item, err := scanItem(row)
	if err != nil {
		return nil, fmt.Errorf("fetch reserved item: %w", err)
	}
	return item, nil
}

// CommitTerminal finalizes an item: the write succeeds only when the item is
// still reserved under token with an unexpired lease. On success the item is
// done, labels and the skipped flag are stored, and the reservation columns
// are cleared. No partial state is ever observable.
func (s *Store) CommitTerminal(ctx context.Context, id int64, token string, labels Labels, skipped bool, now time.Time) error {
	labelsJSON := ""
	if !skipped && len(labels) > 0 {
		encoded, err := json.Marshal(labels)
		if err != nil {
			return fmt.Errorf("marshal labels: %w", err)
		}
		labelsJSON = string(encoded)
	}

	res, err := s.execWithRetry(
		ctx,
		`UPDATE items
         SET status = ?, labels_json = ?, skipped = ?,
             reserved_token = NULL, reserved_until = NULL, updated_at = ?
         WHERE id = ? AND status = 'reserved' AND reserved_token = ? AND reserved_until > ?`,
		StatusDone,
		labelsJSON,
		boolToInt(skipped),
		formatTime(now),
		id,
		token,
		formatTime(now),
	)
	if err != nil {
		return fmt.Errorf("commit item: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if affected == 0 {
		return s.classifyRejection(ctx, id)
	}
	return nil
}

// Release reverts a reserved item back to pending when the supplied token
// still matches. Voluntary early release; lease expiry needs no call here.
func (s *Store) Release(ctx context.Context, id int64, token string) error {
	res, err := s.execWithRetry(
		ctx,
		`UPDATE items
         SET status = ?, reserved_token = NULL, reserved_until = NULL, updated_at = ?
         WHERE id = ? AND status = 'reserved' AND reserved_token = ?`,
		StatusPending,
		formatTime(time.Now()),
		id,
		token,
	)
	if err != nil {
		return fmt.Errorf("release item: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if affected == 0 {
		return s.classifyRejection(ctx, id)
	}
	return nil
}

// ReleaseAll reverts every reserved item to pending. Run at daemon startup:
// any reservation that survived a crash belongs to a client that can no
// longer complete it.
func (s *Store) ReleaseAll(ctx context.Context) (int64, error) {
	res, err := s.execWithRetry(
		ctx,
		`UPDATE items
         SET status = ?, reserved_token = NULL, reserved_until = NULL, updated_at = ?
         WHERE status = 'reserved'`,
		StatusPending,
		formatTime(time.Now()),
	)
	if err != nil {
		return 0, fmt.Errorf("release reservations: %w", err)
	}
	return res.RowsAffected()
}

// classifyRejection distinguishes a missing item from a reservation mismatch
// after a conditional write touched zero rows.
func (s *Store) classifyRejection(ctx context.Context, id int64) error {
	item, err := s.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if item == nil {
		return fmt.Errorf("item %d: %w", id, ErrNotFound)
	}
	return fmt.Errorf("item %d: %w", id, ErrReservationInvalid)
}
