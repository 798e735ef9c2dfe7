package service

import (
	"context"
	"errors"
	"log"
	"time"

	"github.com/google/uuid"

	"opaque/internal/metrics"
	"opaque/internal/model"
	"opaque/internal/repository"
	"opaque/internal/sanitizer"
	"opaque/internal/vault"
)

var (
	ErrTokenRequired      = errors.New("token is required")
	ErrVaultNotConfigured = errors.New("vault master key is not configured")
)

// ScanEventListResult is the service-level DTO for paginated scan events.
type ScanEventListResult struct {
	Items []model.ScanEvent `json:"data"`
	Total int               `json:"total"`
}

// SanitizeService defines the use cases around the sanitizer engine.
type SanitizeService interface {
	// Sanitize redacts text and records one scan event per redaction.
	// Persistence is best-effort: a failed insert never blocks the caller.
	Sanitize(ctx context.Context, requestID, text string) sanitizer.Result

	// SanitizeStructure walks a decoded JSON value and redacts every string
	// leaf, recording events the same way Sanitize does.
	SanitizeStructure(ctx context.Context, requestID string, payload any) (any, sanitizer.Result)

	// Reveal decrypts a token produced by the VAULT obfuscation method.
	Reveal(ctx context.Context, token string) (string, error)

	// ListEvents returns scan events using limit/offset and a total count.
	ListEvents(ctx context.Context, limit, offset int) (*ScanEventListResult, error)
}

// sanitizeService is a concrete implementation of SanitizeService.
type sanitizeService struct {
	scanner *sanitizer.Scanner
	vault   *vault.Vault
	repo    repository.ScanEventRepository
	metrics *metrics.ScannerMetrics
}

// NewSanitizeService constructs a new SanitizeService. repo and m may be nil
// when no database or metrics registry is available (CLI usage); events are
// then not recorded.
func NewSanitizeService(scanner *sanitizer.Scanner, v *vault.Vault, repo repository.ScanEventRepository, m *metrics.ScannerMetrics) SanitizeService {
	return &sanitizeService{scanner: scanner, vault: v, repo: repo, metrics: m}
}

func (s *sanitizeService) Sanitize(ctx context.Context, requestID, text string) sanitizer.Result {
	res := s.scanner.Sanitize(ctx, text)
	s.metrics.Observe(res)
	s.recordEvents(ctx, requestID, res)
	return res
}

func (s *sanitizeService) SanitizeStructure(ctx context.Context, requestID string, payload any) (any, sanitizer.Result) {
	out, res := s.scanner.SanitizeStructure(ctx, payload)
	s.metrics.Observe(res)
	s.recordEvents(ctx, requestID, res)
	return out, res
}

// Reveal decrypts a vault token. The caller must present the exact token
// emitted by the VAULT method, wrapped or bare.
func (s *sanitizeService) Reveal(ctx context.Context, token string) (string, error) {
	if token == "" {
		return "", ErrTokenRequired
	}
	if s.vault == nil || !s.vault.Configured() {
		return "", ErrVaultNotConfigured
	}
	return s.vault.Decrypt(token)
}

// ListEvents returns paginated scan events without exposing repository types.
func (s *sanitizeService) ListEvents(ctx context.Context, limit, offset int) (*ScanEventListResult, error) {
	if limit <= 0 {
		limit = 10
	}
	if offset < 0 {
		offset = 0
	}
	if s.repo == nil {
		return &ScanEventListResult{Items: []model.ScanEvent{}}, nil
	}

	res, err := s.repo.List(ctx, repository.PageQuery{Limit: limit, Offset: offset})
	if err != nil {
		return nil, err
	}
	return &ScanEventListResult{Items: res.Items, Total: res.Total}, nil
}

// recordEvents persists one row per redaction. Only replacement tokens are
// stored, never the matched plaintext. Failures are logged and swallowed so
// an unavailable database cannot stop sanitization.
func (s *sanitizeService) recordEvents(ctx context.Context, requestID string, res sanitizer.Result) {
	if s.repo == nil {
		return
	}
	method := s.scanner.Method()
	now := time.Now().UTC()

	events := make([]*model.ScanEvent, 0, len(res.Detections)+res.HoneytokenHits)
	for _, d := range res.Detections {
		events = append(events, &model.ScanEvent{
			ID:          uuid.New().String(),
			RequestID:   requestID,
			Kind:        d.Kind,
			Method:      method,
			Replacement: d.Replacement,
			CreatedAt:   now,
		})
	}
	for i := 0; i < res.HoneytokenHits; i++ {
		events = append(events, &model.ScanEvent{
			ID:          uuid.New().String(),
			RequestID:   requestID,
			Kind:        "honeytoken",
			Method:      method,
			Replacement: sanitizer.HoneytokenReplacement,
			Honeytoken:  true,
			CreatedAt:   now,
		})
	}

	for _, ev := range events {
		if _, err := s.repo.Create(ctx, ev); err != nil {
			log.Printf("scan event persist failed: %v", err)
			return
		}
	}
}
