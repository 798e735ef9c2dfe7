package postgres

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"

	"opaque/internal/model"
)

func TestAuditReportPostgres_Create(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("an error '%s' was not expected when opening a stub database connection", err)
	}
	defer db.Close()

	repo := NewAuditReportPostgres(db)
	ctx := context.Background()

	rep := &model.AuditReport{
		ID:           "rep-1",
		ObjectKey:    "reports/rep-1.html",
		Score:        87,
		FilesScanned: 40,
		FilesFlagged: 5,
		CreatedAt:    time.Now().UTC(),
	}

	rows := sqlmock.NewRows([]string{"id", "object_key", "score", "files_scanned", "files_flagged", "created_at"}).
		AddRow(rep.ID, rep.ObjectKey, rep.Score, rep.FilesScanned, rep.FilesFlagged, rep.CreatedAt)

	mock.ExpectQuery("INSERT INTO audit_reports").
		WithArgs(rep.ID, rep.ObjectKey, rep.Score, rep.FilesScanned, rep.FilesFlagged, rep.CreatedAt).
		WillReturnRows(rows)

	result, err := repo.Create(ctx, rep)

	assert.NoError(t, err)
	assert.Equal(t, 87, result.Score)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAuditReportPostgres_FindByID(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("an error '%s' was not expected when opening a stub database connection", err)
	}
	defer db.Close()

	repo := NewAuditReportPostgres(db)
	ctx := context.Background()

	t.Run("found", func(t *testing.T) {
		rows := sqlmock.NewRows([]string{"id", "object_key", "score", "files_scanned", "files_flagged", "created_at"}).
			AddRow("rep-1", "reports/rep-1.html", 90, 10, 1, time.Now())

		mock.ExpectQuery("SELECT (.+) FROM audit_reports WHERE id = ?").
			WithArgs("rep-1").
			WillReturnRows(rows)

		rep, err := repo.FindByID(ctx, "rep-1")

		assert.NoError(t, err)
		assert.NotNil(t, rep)
		assert.Equal(t, "rep-1", rep.ID)
	})

	t.Run("not found", func(t *testing.T) {
		mock.ExpectQuery("SELECT (.+) FROM audit_reports WHERE id = ?").
			WithArgs("missing").
			WillReturnError(sql.ErrNoRows)

		rep, err := repo.FindByID(ctx, "missing")

		assert.ErrorIs(t, err, sql.ErrNoRows)
		assert.Nil(t, rep)
	})
}
