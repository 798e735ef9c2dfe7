package postgres

import (
	"context"
	"database/sql"

	"opaque/internal/model"
	"opaque/internal/repository"
)

// ScanEventPostgres is a PostgreSQL implementation of
// repository.ScanEventRepository. Parameterized queries only.
type ScanEventPostgres struct {
	db *sql.DB
}

// NewScanEventPostgres creates a new ScanEventPostgres repository.
func NewScanEventPostgres(db *sql.DB) *ScanEventPostgres {
	return &ScanEventPostgres{db: db}
}

var _ repository.ScanEventRepository = (*ScanEventPostgres)(nil)

// Create inserts a new scan event row and returns the stored record.
func (r *ScanEventPostgres) Create(ctx context.Context, ev *model.ScanEvent) (*model.ScanEvent, error) {
	const q = `
		INSERT INTO scan_events (id, request_id, kind, method, replacement, honeytoken, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id, request_id, kind, method, replacement, honeytoken, created_at
	`
	row := r.db.QueryRowContext(ctx, q,
		ev.ID,
		ev.RequestID,
		ev.Kind,
		ev.Method,
		ev.Replacement,
		ev.Honeytoken,
		ev.CreatedAt,
	)
	var out model.ScanEvent
	if err := row.Scan(
		&out.ID,
		&out.RequestID,
		&out.Kind,
		&out.Method,
		&out.Replacement,
		&out.Honeytoken,
		&out.CreatedAt,
	); err != nil {
		return nil, err
	}
	return &out, nil
}

// List returns scan events using LIMIT/OFFSET pagination and a total count.
func (r *ScanEventPostgres) List(ctx context.Context, pq repository.PageQuery) (*repository.PageResult[model.ScanEvent], error) {
	const qCount = `SELECT COUNT(*) FROM scan_events`
	var total int
	if err := r.db.QueryRowContext(ctx, qCount).Scan(&total); err != nil {
		return nil, err
	}

	const qList = `
		SELECT id, request_id, kind, method, replacement, honeytoken, created_at
		FROM scan_events
		ORDER BY created_at DESC, id DESC
		LIMIT $1 OFFSET $2
	`
	rows, err := r.db.QueryContext(ctx, qList, pq.Limit, pq.Offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	items := make([]model.ScanEvent, 0)
	for rows.Next() {
		var ev model.ScanEvent
		if err := rows.Scan(
			&ev.ID,
			&ev.RequestID,
			&ev.Kind,
			&ev.Method,
			&ev.Replacement,
			&ev.Honeytoken,
			&ev.CreatedAt,
		); err != nil {
			return nil, err
		}
		items = append(items, ev)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	return &repository.PageResult[model.ScanEvent]{
		Items: items,
		Total: total,
	}, nil
}
