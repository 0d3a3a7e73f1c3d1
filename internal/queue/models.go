package queue

import (
	"strings"
	"time"
)

// Status represents the lifecycle of a work item.
type Status string

const (
	StatusPending  Status = "pending"
	StatusReserved Status = "reserved"
	StatusDone     Status = "done"
)

var allStatuses = []Status{
	StatusPending,
	StatusReserved,
	StatusDone,
}

var statusSet = func() map[Status]struct{} {
	set := make(map[Status]struct{}, len(allStatuses))
	for _, status := range allStatuses {
		set[status] = struct{}{}
	}
	return set
}()

// AllStatuses returns the ordered list of known statuses.
func AllStatuses() []Status {
	cp := make([]Status, len(allStatuses))
	copy(cp, allStatuses)
	return cp
}

// ParseStatus converts a string into a known Status.
func ParseStatus(value string) (Status, bool) {
	normalized := Status(strings.ToLower(strings.TrimSpace(value)))
	if normalized == "" {
		return "", false
	}
	_, ok := statusSet[normalized]
	return normalized, ok
}

// Labels maps a category identifier to the label identifiers selected for it.
type Labels map[string][]string

// Empty reports whether no category carries a selected label.
func (l Labels) Empty() bool {
	for _, selected := range l {
		if len(selected) > 0 {
			return false
		}
	}
	return true
}

// Item represents one image awaiting (or holding) labels.
//
// ReservedToken and ReservedUntil are populated only while the item is
// reserved; a terminal commit clears them. Labels is populated only for
// done items that were not skipped.
type Item struct {
	ID            int64
	Name          string
	Status        Status
	Labels        Labels
	Skipped       bool
	ReservedToken string
	ReservedUntil *time.Time
	Width         int
	Height        int
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// ReservationLive reports whether the item holds an unexpired reservation.
func (i Item) ReservationLive(now time.Time) bool {
	return i.Status == StatusReserved && i.ReservedUntil != nil && now.Before(*i.ReservedUntil)
}

// Counts aggregates queue state for progress reporting.
// ReservedLive excludes reservations whose lease has lapsed.
type Counts struct {
	Pending         int `json:"pending"`
	ReservedLive    int `json:"reserved_live"`
	ReservedExpired int `json:"reserved_expired"`
	Done            int `json:"done"`
	Skipped         int `json:"skipped"`
	Total           int `json:"total"`
}
