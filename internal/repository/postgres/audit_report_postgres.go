package postgres

import (
	"context"
	"database/sql"

	"opaque/internal/model"
	"opaque/internal/repository"
)

// AuditReportPostgres is a PostgreSQL implementation of
// repository.AuditReportRepository.
type AuditReportPostgres struct {
	db *sql.DB
}

// NewAuditReportPostgres creates a new AuditReportPostgres repository.
func NewAuditReportPostgres(db *sql.DB) *AuditReportPostgres {
	return &AuditReportPostgres{db: db}
}

var _ repository.AuditReportRepository = (*AuditReportPostgres)(nil)

// Create inserts a new audit report row and returns the stored record.
func (r *AuditReportPostgres) Create(ctx context.Context, rep *model.AuditReport) (*model.AuditReport, error) {
	const q = `
		INSERT INTO audit_reports (id, object_key, score, files_scanned, files_flagged, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, object_key, score, files_scanned, files_flagged, created_at
	`
	row := r.db.QueryRowContext(ctx, q,
		rep.ID,
		rep.ObjectKey,
		rep.Score,
		rep.FilesScanned,
		rep.FilesFlagged,
		rep.CreatedAt,
	)
	var out model.AuditReport
	if err := row.Scan(
		&out.ID,
		&out.ObjectKey,
		&out.Score,
		&out.FilesScanned,
		&out.FilesFlagged,
		&out.CreatedAt,
	); err != nil {
		return nil, err
	}
	return &out, nil
}

// FindByID fetches a single audit report by its ID.
func (r *AuditReportPostgres) FindByID(ctx context.Context, id string) (*model.AuditReport, error) {
	const q = `
		SELECT id, object_key, score, files_scanned, files_flagged, created_at
		FROM audit_reports
		WHERE id = $1
	`
	row := r.db.QueryRowContext(ctx, q, id)
	var rep model.AuditReport
	if err := row.Scan(
		&rep.ID,
		&rep.ObjectKey,
		&rep.Score,
		&rep.FilesScanned,
		&rep.FilesFlagged,
		&rep.CreatedAt,
	); err != nil {
		return nil, err
	}
	return &rep, nil
}

// List returns audit reports using LIMIT/OFFSET pagination and a total count.
func (r *AuditReportPostgres) List(ctx context.Context, pq repository.PageQuery) (*repository.PageResult[model.AuditReport], error) {
	const qCount = `SELECT COUNT(*) FROM audit_reports`
	var total int
	if err := r.db.QueryRowContext(ctx, qCount).Scan(&total); err != nil {
		return nil, err
	}

	const qList = `
		SELECT id, object_key, score, files_scanned, files_flagged, created_at
		FROM audit_reports
		ORDER BY created_at DESC, id DESC
		LIMIT $1 OFFSET $2
	`
	rows, err := r.db.QueryContext(ctx, qList, pq.Limit, pq.Offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	items := make([]model.AuditReport, 0)
	for rows.Next() {
		var rep model.AuditReport
		if err := rows.Scan(
			&rep.ID,
			&rep.ObjectKey,
			&rep.Score,
			&rep.FilesScanned,
			&rep.FilesFlagged,
			&rep.CreatedAt,
		); err != nil {
			return nil, err
		}
		items = append(items, rep)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	return &repository.PageResult[model.AuditReport]{
		Items: items,
		Total: total,
	}, nil
}
