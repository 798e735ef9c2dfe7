package postgres

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"

	"opaque/internal/model"
	"opaque/internal/repository"
)

func TestScanEventPostgres_Create(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("an error '%s' was not expected when opening a stub database connection", err)
	}
	defer db.Close()

	repo := NewScanEventPostgres(db)
	ctx := context.Background()

	now := time.Now().UTC()
	ev := &model.ScanEvent{
		ID:          "test-uuid",
		RequestID:   "req-1",
		Kind:        "br_cpf",
		Method:      "HASH",
		Replacement: "[HASH-3A4C]",
		Honeytoken:  false,
		CreatedAt:   now,
	}

	rows := sqlmock.NewRows([]string{"id", "request_id", "kind", "method", "replacement", "honeytoken", "created_at"}).
		AddRow(ev.ID, ev.RequestID, ev.Kind, ev.Method, ev.Replacement, ev.Honeytoken, ev.CreatedAt)

	mock.ExpectQuery("INSERT INTO scan_events").
		WithArgs(ev.ID, ev.RequestID, ev.Kind, ev.Method, ev.Replacement, ev.Honeytoken, ev.CreatedAt).
		WillReturnRows(rows)

	result, err := repo.Create(ctx, ev)

	assert.NoError(t, err)
	assert.NotNil(t, result)
	assert.Equal(t, ev.ID, result.ID)
	assert.Equal(t, ev.Replacement, result.Replacement)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestScanEventPostgres_List(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("an error '%s' was not expected when opening a stub database connection", err)
	}
	defer db.Close()

	repo := NewScanEventPostgres(db)
	ctx := context.Background()

	t.Run("success", func(t *testing.T) {
		mock.ExpectQuery("SELECT COUNT").
			WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(2))

		rows := sqlmock.NewRows([]string{"id", "request_id", "kind", "method", "replacement", "honeytoken", "created_at"}).
			AddRow("id-2", "req-2", "credit_card", "MASK", "***", false, time.Now()).
			AddRow("id-1", "req-1", "br_cpf", "HASH", "[HASH-3A4C]", true, time.Now())

		mock.ExpectQuery("SELECT (.+) FROM scan_events").
			WithArgs(10, 0).
			WillReturnRows(rows)

		res, err := repo.List(ctx, repository.PageQuery{Limit: 10, Offset: 0})

		assert.NoError(t, err)
		assert.Equal(t, 2, res.Total)
		assert.Len(t, res.Items, 2)
		assert.Equal(t, "id-2", res.Items[0].ID)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("count error", func(t *testing.T) {
		mock.ExpectQuery("SELECT COUNT").
			WillReturnError(errors.New("db down"))

		_, err := repo.List(ctx, repository.PageQuery{Limit: 10, Offset: 0})
		assert.Error(t, err)
	})
}
