package repository

import (
	"context"

	"opaque/internal/model"
)

// ScanEventRepository defines persistence for sanitizer scan events.
// SQL only, no business logic.
type ScanEventRepository interface {
	// Create inserts a new scan event record and returns the stored row.
	Create(ctx context.Context, ev *model.ScanEvent) (*model.ScanEvent, error)

	// List returns a page of scan events, newest first, plus the total count.
	List(ctx context.Context, pq PageQuery) (*PageResult[model.ScanEvent], error)
}
