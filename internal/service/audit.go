package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"

	"opaque/internal/audit"
	"opaque/internal/model"
	"opaque/internal/repository"
	"opaque/internal/storage"
)

var (
	ErrIDRequired = errors.New("id is required")
	ErrNotFound   = errors.New("audit report not found")
	ErrNoFiles    = errors.New("at least one file is required")
)

// Presigned report links are short-lived; reports stay in object storage.
const reportLinkExpiry = 15 * time.Minute

// AuditFile is one uploaded source file to scan.
type AuditFile struct {
	Name    string
	Content io.Reader
}

// AuditRunResult bundles the stored metadata with the full scan outcome.
type AuditRunResult struct {
	Report  *model.AuditReport `json:"report"`
	Summary audit.Summary      `json:"summary"`
}

// AuditReportListResult is the service-level DTO for paginated reports.
type AuditReportListResult struct {
	Items []model.AuditReport `json:"data"`
	Total int                 `json:"total"`
}

// AuditService defines the use cases for compliance scans.
type AuditService interface {
	// Run scans the uploaded files, stores the rendered HTML report in
	// object storage, saves metadata to DB, and rolls back storage if the
	// DB save fails.
	Run(ctx context.Context, files []AuditFile) (*AuditRunResult, error)

	// Get returns a report's metadata plus a pre-signed URL for the HTML.
	Get(ctx context.Context, id string) (*model.AuditReport, string, error)

	// List returns reports using limit/offset and a total count.
	List(ctx context.Context, limit, offset int) (*AuditReportListResult, error)
}

// auditService is a concrete implementation of AuditService.
type auditService struct {
	scanner *audit.Scanner
	store   storage.Storage
	repo    repository.AuditReportRepository
}

// NewAuditService constructs a new AuditService.
func NewAuditService(scanner *audit.Scanner, store storage.Storage, repo repository.AuditReportRepository) AuditService {
	return &auditService{scanner: scanner, store: store, repo: repo}
}

func (s *auditService) Run(ctx context.Context, files []AuditFile) (*AuditRunResult, error) {
	if len(files) == 0 {
		return nil, ErrNoFiles
	}

	sum := audit.Summary{}
	for _, f := range files {
		if f.Content == nil {
			return nil, fmt.Errorf("file %s: %w", f.Name, ErrNoFiles)
		}
		report, err := s.scanner.ScanReader(f.Name, f.Content)
		if err != nil {
			return nil, fmt.Errorf("scan file: %w", err)
		}
		sum.FilesScanned++
		if len(report.Issues) > 0 {
			sum.FilesFlagged++
			sum.Files = append(sum.Files, report)
		}
	}
	sum.Score = audit.Score(sum.FilesScanned, sum.FilesFlagged)

	page := audit.RenderHTML(sum)
	key := filepath.ToSlash(filepath.Join("reports", uuid.New().String()+".html"))

	objInfo, err := s.store.Put(ctx, key, strings.NewReader(page), storage.PutObjectOptions{
		Size:        int64(len(page)),
		ContentType: "text/html; charset=utf-8",
	})
	if err != nil {
		return nil, fmt.Errorf("upload to storage: %w", err)
	}

	rep := &model.AuditReport{
		ID:           uuid.New().String(),
		ObjectKey:    objInfo.Key,
		Score:        sum.Score,
		FilesScanned: sum.FilesScanned,
		FilesFlagged: sum.FilesFlagged,
		CreatedAt:    time.Now().UTC(),
	}
	stored, err := s.repo.Create(ctx, rep)
	if err != nil {
		// Rollback: delete the report from storage
		if delErr := s.store.Delete(ctx, key); delErr != nil {
			return nil, fmt.Errorf("db save failed: %v; rollback delete failed: %v", err, delErr)
		}
		return nil, fmt.Errorf("db save failed: %w", err)
	}
	return &AuditRunResult{Report: stored, Summary: sum}, nil
}

// Get returns a report by ID together with a pre-signed link to the HTML.
func (s *auditService) Get(ctx context.Context, id string) (*model.AuditReport, string, error) {
	if id == "" {
		return nil, "", ErrIDRequired
	}
	rep, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, "", ErrNotFound
		}
		return nil, "", err
	}
	link, err := s.store.PresignGet(ctx, rep.ObjectKey, reportLinkExpiry)
	if err != nil {
		return nil, "", fmt.Errorf("presign report: %w", err)
	}
	return rep, link, nil
}

// List returns paginated reports without exposing repository types.
func (s *auditService) List(ctx context.Context, limit, offset int) (*AuditReportListResult, error) {
	if limit <= 0 {
		limit = 10
	}
	if offset < 0 {
		offset = 0
	}

	res, err := s.repo.List(ctx, repository.PageQuery{Limit: limit, Offset: offset})
	if err != nil {
		return nil, err
	}
	return &AuditReportListResult{Items: res.Items, Total: res.Total}, nil
}
