package service

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"testing"

	"opaque/internal/audit"
	"opaque/internal/model"
	"opaque/internal/repository"
	repoMocks "opaque/internal/repository/mocks"
	"opaque/internal/storage"
	storeMocks "opaque/internal/storage/mocks"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

func TestAuditService_Run(t *testing.T) {
	ctx := context.Background()

	riskyFile := func() AuditFile {
		return AuditFile{
			Name:    "handlers.go",
			Content: strings.NewReader("package main\n\nfunc f() {\n\tfmt.Println(\"debug\")\n}\n"),
		}
	}
	cleanFile := func() AuditFile {
		return AuditFile{
			Name:    "clean.go",
			Content: strings.NewReader("package main\n\nfunc g() int { return 1 }\n"),
		}
	}

	tests := []struct {
		name       string
		files      func() []AuditFile
		setupMocks func(mStore *storeMocks.MockStorage, mRepo *repoMocks.MockAuditReportRepository)
		wantErr    error
		wantErrMsg string
		checkRes   func(t *testing.T, res *AuditRunResult)
	}{
		{
			name:  "happy path",
			files: func() []AuditFile { return []AuditFile{riskyFile(), cleanFile()} },
			setupMocks: func(mStore *storeMocks.MockStorage, mRepo *repoMocks.MockAuditReportRepository) {
				mStore.On("Put", ctx, mock.MatchedBy(func(key string) bool {
					return strings.HasPrefix(key, "reports/") && strings.HasSuffix(key, ".html")
				}), mock.Anything, mock.MatchedBy(func(opt storage.PutObjectOptions) bool {
					return opt.ContentType == "text/html; charset=utf-8" && opt.Size > 0
				})).Return(storage.ObjectInfo{Key: "reports/uuid.html"}, nil)

				mRepo.On("Create", ctx, mock.MatchedBy(func(rep *model.AuditReport) bool {
					return rep.ObjectKey == "reports/uuid.html" &&
						rep.FilesScanned == 2 && rep.FilesFlagged == 1 && rep.Score == 50
				})).Return(&model.AuditReport{ID: "gen-id", Score: 50}, nil)
			},
			checkRes: func(t *testing.T, res *AuditRunResult) {
				assert.Equal(t, "gen-id", res.Report.ID)
				assert.Equal(t, 50, res.Summary.Score)
				assert.Len(t, res.Summary.Files, 1)
			},
		},
		{
			name:       "validation error - no files",
			files:      func() []AuditFile { return nil },
			setupMocks: func(mStore *storeMocks.MockStorage, mRepo *repoMocks.MockAuditReportRepository) {},
			wantErr:    ErrNoFiles,
		},
		{
			name:  "storage error",
			files: func() []AuditFile { return []AuditFile{cleanFile()} },
			setupMocks: func(mStore *storeMocks.MockStorage, mRepo *repoMocks.MockAuditReportRepository) {
				mStore.On("Put", ctx, mock.Anything, mock.Anything, mock.Anything).
					Return(storage.ObjectInfo{}, errors.New("storage fail"))
			},
			wantErrMsg: "upload to storage: storage fail",
		},
		{
			name:  "repository error with successful rollback",
			files: func() []AuditFile { return []AuditFile{cleanFile()} },
			setupMocks: func(mStore *storeMocks.MockStorage, mRepo *repoMocks.MockAuditReportRepository) {
				mStore.On("Put", ctx, mock.Anything, mock.Anything, mock.Anything).
					Return(storage.ObjectInfo{Key: "reports/uuid.html"}, nil)
				mRepo.On("Create", ctx, mock.Anything).Return(nil, errors.New("db fail"))
				mStore.On("Delete", ctx, mock.Anything).Return(nil)
			},
			wantErrMsg: "db save failed: db fail",
		},
		{
			name:  "repository error with failed rollback",
			files: func() []AuditFile { return []AuditFile{cleanFile()} },
			setupMocks: func(mStore *storeMocks.MockStorage, mRepo *repoMocks.MockAuditReportRepository) {
				mStore.On("Put", ctx, mock.Anything, mock.Anything, mock.Anything).
					Return(storage.ObjectInfo{Key: "reports/uuid.html"}, nil)
				mRepo.On("Create", ctx, mock.Anything).Return(nil, errors.New("db fail"))
				mStore.On("Delete", ctx, mock.Anything).Return(errors.New("delete fail"))
			},
			wantErrMsg: "rollback delete failed: delete fail",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mStore := new(storeMocks.MockStorage)
			mRepo := new(repoMocks.MockAuditReportRepository)
			svc := NewAuditService(audit.NewScanner(), mStore, mRepo)

			tt.setupMocks(mStore, mRepo)

			res, err := svc.Run(ctx, tt.files())

			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
			} else if tt.wantErrMsg != "" {
				assert.Error(t, err)
				assert.Contains(t, err.Error(), tt.wantErrMsg)
			} else {
				assert.NoError(t, err)
				if tt.checkRes != nil {
					tt.checkRes(t, res)
				}
			}

			mStore.AssertExpectations(t)
			mRepo.AssertExpectations(t)
		})
	}
}

func TestAuditService_Get(t *testing.T) {
	ctx := context.Background()

	t.Run("happy path", func(t *testing.T) {
		mStore := new(storeMocks.MockStorage)
		mRepo := new(repoMocks.MockAuditReportRepository)
		mRepo.On("FindByID", ctx, "valid-id").
			Return(&model.AuditReport{ID: "valid-id", ObjectKey: "reports/x.html"}, nil)
		mStore.On("PresignGet", ctx, "reports/x.html", reportLinkExpiry).
			Return("https://minio/presigned", nil)

		svc := NewAuditService(audit.NewScanner(), mStore, mRepo)
		rep, link, err := svc.Get(ctx, "valid-id")

		assert.NoError(t, err)
		assert.Equal(t, "valid-id", rep.ID)
		assert.Equal(t, "https://minio/presigned", link)
		mStore.AssertExpectations(t)
		mRepo.AssertExpectations(t)
	})

	t.Run("validation - empty id", func(t *testing.T) {
		svc := NewAuditService(audit.NewScanner(), nil, nil)
		_, _, err := svc.Get(ctx, "")
		assert.ErrorIs(t, err, ErrIDRequired)
	})

	t.Run("not found - mapping sql.ErrNoRows", func(t *testing.T) {
		mRepo := new(repoMocks.MockAuditReportRepository)
		mRepo.On("FindByID", ctx, "missing-id").Return(nil, sql.ErrNoRows)

		svc := NewAuditService(audit.NewScanner(), nil, mRepo)
		_, _, err := svc.Get(ctx, "missing-id")
		assert.ErrorIs(t, err, ErrNotFound)
		mRepo.AssertExpectations(t)
	})

	t.Run("presign error", func(t *testing.T) {
		mStore := new(storeMocks.MockStorage)
		mRepo := new(repoMocks.MockAuditReportRepository)
		mRepo.On("FindByID", ctx, "valid-id").
			Return(&model.AuditReport{ID: "valid-id", ObjectKey: "reports/x.html"}, nil)
		mStore.On("PresignGet", ctx, "reports/x.html", reportLinkExpiry).
			Return("", errors.New("presign fail"))

		svc := NewAuditService(audit.NewScanner(), mStore, mRepo)
		_, _, err := svc.Get(ctx, "valid-id")
		assert.Error(t, err)
		assert.Contains(t, err.Error(), "presign report: presign fail")
	})
}

func TestAuditService_List(t *testing.T) {
	ctx := context.Background()

	t.Run("happy path", func(t *testing.T) {
		mRepo := new(repoMocks.MockAuditReportRepository)
		mRepo.On("List", ctx, repository.PageQuery{Limit: 10, Offset: 0}).
			Return(&repository.PageResult[model.AuditReport]{
				Items: []model.AuditReport{{ID: "1"}, {ID: "2"}},
				Total: 2,
			}, nil)

		svc := NewAuditService(audit.NewScanner(), nil, mRepo)
		res, err := svc.List(ctx, 10, 0)
		assert.NoError(t, err)
		assert.Len(t, res.Items, 2)
		assert.Equal(t, 2, res.Total)
		mRepo.AssertExpectations(t)
	})

	t.Run("pagination boundary - zero limit uses default", func(t *testing.T) {
		mRepo := new(repoMocks.MockAuditReportRepository)
		mRepo.On("List", ctx, repository.PageQuery{Limit: 10, Offset: 0}).
			Return(&repository.PageResult[model.AuditReport]{Items: []model.AuditReport{}, Total: 0}, nil)

		svc := NewAuditService(audit.NewScanner(), nil, mRepo)
		_, err := svc.List(ctx, 0, -1)
		assert.NoError(t, err)
		mRepo.AssertExpectations(t)
	})

	t.Run("repository error", func(t *testing.T) {
		mRepo := new(repoMocks.MockAuditReportRepository)
		mRepo.On("List", ctx, mock.Anything).Return(nil, errors.New("db fail"))

		svc := NewAuditService(audit.NewScanner(), nil, mRepo)
		_, err := svc.List(ctx, 10, 0)
		assert.Error(t, err)
		mRepo.AssertExpectations(t)
	})
}
