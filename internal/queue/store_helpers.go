package queue

import (
	"database/sql"
	"encoding/json"
	"errors"
	"time"
)

const itemColumns = "id, name, status, labels_json, skipped, reserved_token, reserved_until, width, height, created_at, updated_at"

func scanItem(scanner interface{ Scan(dest ...any) error }) (*Item, error) {
	var (
		id               int64
		name             string
		statusStr        string
		labelsRaw        sql.NullString
		skipped          sql.NullInt64
		reservedToken    sql.NullString
		reservedUntilRaw sql.NullString
		width            sql.NullInt64
		height           sql.NullInt64
		createdRaw       sql.NullString
		updatedRaw       sql.NullString
	)

	if err := scanner.Scan(
		&id,
		&name,
		&statusStr,
		&labelsRaw,
		&skipped,
		&reservedToken,
		&reservedUntilRaw,
		&width,
		&height,
		&createdRaw,
		&updatedRaw,
	); err != nil {
		return nil, err
	}

	item := &Item{
		ID:            id,
		Name:          name,
		Status:        Status(statusStr),
		ReservedToken: reservedToken.String,
		Width:         int(width.Int64),
		Height:        int(height.Int64),
	}
	if skipped.Valid {
		item.Skipped = skipped.Int64 != 0
	}
	if labelsRaw.Valid && labelsRaw.String != "" {
		var labels Labels
		if err := json.Unmarshal([]byte(labelsRaw.String), &labels); err == nil {
			item.Labels = labels
		}
	}

	if reservedUntilRaw.Valid {
		if until, err := parseTimeString(reservedUntilRaw.String); err == nil {
			item.ReservedUntil = &until
		}
	}
	if created, err := parseTimeString(createdRaw.String); err == nil {
		item.CreatedAt = created
	}
	if updated, err := parseTimeString(updatedRaw.String); err == nil {
		item.UpdatedAt = updated
	}
	return item, nil
}

// timeFormat keeps a fixed-width fraction so stored timestamps compare
// correctly as strings inside SQL predicates.
const timeFormat = "2006-01-02T15:04:05.000000000Z07:00"

func formatTime(value time.Time) string {
	return value.UTC().Format(timeFormat)
}

func parseTimeString(value string) (time.Time, error) {
	if value == "" {
		return time.Time{}, errors.New("empty")
	}
	if t, err := time.Parse(timeFormat, value); err == nil {
		return t, nil
	}
	return time.Parse(time.RFC3339Nano, value)
}

func boolToInt(value bool) int {
	if value {
		return 1
	}
	return 0
}
