package repository

import (
	"context"

	"opaque/internal/model"
)

// AuditReportRepository defines persistence for audit report metadata.
type AuditReportRepository interface {
	// Create inserts a new report record and returns the stored row.
	Create(ctx context.Context, rep *model.AuditReport) (*model.AuditReport, error)

	// FindByID returns a report by its ID.
	FindByID(ctx context.Context, id string) (*model.AuditReport, error)

	// List returns a page of reports, newest first, plus the total count.
	List(ctx context.Context, pq PageQuery) (*PageResult[model.AuditReport], error)
}
