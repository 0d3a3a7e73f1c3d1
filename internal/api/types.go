package api

import "easel/internal/queue"

// NextResponse wraps an assignment. Assignment is null and Drained true
// when no work is available.
type NextResponse struct {
	Assignment *Assignment `json:"assignment"`
	Drained    bool        `json:"drained"`
}

// SubmitRequest carries a label submission for a leased item.
type SubmitRequest struct {
	ItemID int64        `json:"item_id"`
	Token  string       `json:"token"`
	Labels queue.Labels `json:"labels"`
}

// SkipRequest marks a leased item done without labels.
type SkipRequest struct {
	ItemID int64  `json:"item_id"`
	Token  string `json:"token"`
}

// ReleaseRequest voluntarily returns a leased item to the pool.
type ReleaseRequest struct {
	ItemID int64  `json:"item_id"`
	Token  string `json:"token"`
}

// AckResponse acknowledges a state-changing request.
type AckResponse struct {
	OK bool `json:"ok"`
}

// ProgressResponse reports queue counts.
type ProgressResponse struct {
	Counts queue.Counts `json:"counts"`
}

// RecordsResponse lists stored items.
type RecordsResponse struct {
	Records []Record `json:"records"`
}

// StatusResponse reports daemon runtime information.
type StatusResponse struct {
	Running      bool   `json:"running"`
	QueueDBPath  string `json:"queue_db_path"`
	ImageDir     string `json:"image_dir"`
	LockFilePath string `json:"lock_file_path"`
	LeaseSeconds int    `json:"lease_seconds"`
}
