package handler

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"strconv"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"opaque/internal/sanitizer"
	"opaque/internal/service"
	"opaque/internal/vault"
)

// sanitizeRequest is the body of POST /v1/sanitize.
type sanitizeRequest struct {
	Text string `json:"text"`
}

// sanitizeResponse reports the redacted text and what was found. Suspected
// fakes are surfaced by kind only; their candidate values stay out of API
// responses.
type sanitizeResponse struct {
	RequestID      string                `json:"request_id"`
	Text           string                `json:"text"`
	Detections     []sanitizer.Detection `json:"detections"`
	HoneytokenHits int                   `json:"honeytoken_hits"`
	SuspectedKinds []string              `json:"suspected_kinds,omitempty"`
	Discarded      bool                  `json:"discarded"`
}

// structureResponse is the body of POST /v1/sanitize/structure.
type structureResponse struct {
	RequestID      string                `json:"request_id"`
	Data           any                   `json:"data"`
	Detections     []sanitizer.Detection `json:"detections"`
	HoneytokenHits int                   `json:"honeytoken_hits"`
	Discarded      bool                  `json:"discarded"`
}

type revealRequest struct {
	Token string `json:"token"`
}

type revealResponse struct {
	Data string `json:"data"`
}

func suspectedKinds(fakes []sanitizer.SuspectedFake) []string {
	if len(fakes) == 0 {
		return nil
	}
	out := make([]string, 0, len(fakes))
	for _, f := range fakes {
		out = append(out, f.Kind)
	}
	return out
}

// HealthCheck checks DB connectivity only.
func HealthCheck(db *sql.DB) fiber.Handler {
	return func(c *fiber.Ctx) error {
		ctx, cancel := context.WithTimeout(c.UserContext(), 2*time.Second)
		defer cancel()
		if err := db.PingContext(ctx); err != nil {
			return writeError(c, fiber.StatusServiceUnavailable, "SERVICE_UNAVAILABLE", "dependency unavailable")
		}
		return c.Status(fiber.StatusOK).JSON(fiber.Map{"status": "healthy"})
	}
}

// LivenessProbe is a simple liveness probe.
func LivenessProbe() fiber.Handler {
	return func(c *fiber.Ctx) error {
		return c.SendStatus(fiber.StatusOK)
	}
}

// SanitizeText redacts sensitive data from a text payload.
func SanitizeText(svc service.SanitizeService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var req sanitizeRequest
		if err := c.BodyParser(&req); err != nil {
			return writeError(c, fiber.StatusBadRequest, "INVALID_BODY", "body must be JSON with a text field")
		}

		res := svc.Sanitize(c.UserContext(), requestIDFromCtx(c), req.Text)
		return c.JSON(sanitizeResponse{
			RequestID:      requestIDFromCtx(c),
			Text:           res.Text,
			Detections:     res.Detections,
			HoneytokenHits: res.HoneytokenHits,
			SuspectedKinds: suspectedKinds(res.SuspectedFakes),
			Discarded:      res.Discarded,
		})
	}
}

// SanitizeStructure redacts every string leaf of an arbitrary JSON value.
func SanitizeStructure(svc service.SanitizeService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var payload any
		if err := json.Unmarshal(c.Body(), &payload); err != nil {
			return writeError(c, fiber.StatusBadRequest, "INVALID_BODY", "body must be valid JSON")
		}

		data, res := svc.SanitizeStructure(c.UserContext(), requestIDFromCtx(c), payload)
		return c.JSON(structureResponse{
			RequestID:      requestIDFromCtx(c),
			Data:           data,
			Detections:     res.Detections,
			HoneytokenHits: res.HoneytokenHits,
			Discarded:      res.Discarded,
		})
	}
}

// Reveal decrypts a vault token back into its original value.
func Reveal(svc service.SanitizeService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var req revealRequest
		if err := c.BodyParser(&req); err != nil {
			return writeError(c, fiber.StatusBadRequest, "INVALID_BODY", "body must be JSON with a token field")
		}

		data, err := svc.Reveal(c.UserContext(), req.Token)
		if err != nil {
			switch {
			case errors.Is(err, service.ErrTokenRequired):
				return writeError(c, fiber.StatusBadRequest, "TOKEN_REQUIRED", "token is required")
			case errors.Is(err, service.ErrVaultNotConfigured), errors.Is(err, vault.ErrNoKey):
				return writeError(c, fiber.StatusServiceUnavailable, "VAULT_NOT_CONFIGURED", "vault master key is not configured")
			case errors.Is(err, vault.ErrMalformedToken):
				return writeError(c, fiber.StatusBadRequest, "INVALID_TOKEN", "token is malformed")
			case errors.Is(err, vault.ErrDecryptFailed):
				return writeError(c, fiber.StatusUnauthorized, "INVALID_TOKEN", "token cannot be decrypted with the configured key")
			default:
				return writeError(c, fiber.StatusInternalServerError, "INTERNAL_ERROR", "internal server error")
			}
		}
		return c.JSON(revealResponse{Data: data})
	}
}

// ListScanEvents returns the redaction event log with limit & offset.
func ListScanEvents(svc service.SanitizeService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		limit, err := strconv.Atoi(c.Query("limit", "10"))
		if err != nil {
			return writeError(c, fiber.StatusBadRequest, "INVALID_LIMIT", "invalid limit")
		}
		offset, err := strconv.Atoi(c.Query("offset", "0"))
		if err != nil {
			return writeError(c, fiber.StatusBadRequest, "INVALID_OFFSET", "invalid offset")
		}

		res, err := svc.ListEvents(c.UserContext(), limit, offset)
		if err != nil {
			return writeError(c, fiber.StatusInternalServerError, "INTERNAL_ERROR", "internal server error")
		}
		return c.JSON(res)
	}
}

// RunAudit scans uploaded Go source files (multipart/form-data, field name:
// files) and stores the rendered compliance report.
func RunAudit(svc service.AuditService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		form, err := c.MultipartForm()
		if err != nil || len(form.File["files"]) == 0 {
			return writeError(c, fiber.StatusBadRequest, "FILE_REQUIRED", "at least one file is required")
		}

		files := make([]service.AuditFile, 0, len(form.File["files"]))
		var closers []interface{ Close() error }
		defer func() {
			for _, cl := range closers {
				cl.Close()
			}
		}()
		for _, fh := range form.File["files"] {
			f, err := fh.Open()
			if err != nil {
				return writeError(c, fiber.StatusBadRequest, "FILE_OPEN_ERROR", "cannot open uploaded file")
			}
			closers = append(closers, f)
			files = append(files, service.AuditFile{Name: fh.Filename, Content: f})
		}

		res, err := svc.Run(c.UserContext(), files)
		if err != nil {
			if errors.Is(err, service.ErrNoFiles) {
				return writeError(c, fiber.StatusBadRequest, "FILE_REQUIRED", "at least one file is required")
			}
			return writeError(c, fiber.StatusInternalServerError, "INTERNAL_ERROR", "internal server error")
		}
		return c.Status(fiber.StatusCreated).JSON(res)
	}
}

// GetAuditReport returns a report's metadata and a pre-signed report link.
func GetAuditReport(svc service.AuditService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id := c.Params("id")
		if _, err := uuid.Parse(id); err != nil {
			return writeError(c, fiber.StatusBadRequest, "INVALID_ID", "invalid id format")
		}
		rep, link, err := svc.Get(c.UserContext(), id)
		if err != nil {
			if errors.Is(err, service.ErrNotFound) {
				return writeError(c, fiber.StatusNotFound, "NOT_FOUND", "audit report not found")
			}
			return writeError(c, fiber.StatusInternalServerError, "INTERNAL_ERROR", "internal server error")
		}
		return c.JSON(fiber.Map{"report": rep, "report_url": link})
	}
}

// ListAuditReports returns stored reports with limit & offset.
func ListAuditReports(svc service.AuditService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		limit, err := strconv.Atoi(c.Query("limit", "10"))
		if err != nil {
			return writeError(c, fiber.StatusBadRequest, "INVALID_LIMIT", "invalid limit")
		}
		offset, err := strconv.Atoi(c.Query("offset", "0"))
		if err != nil {
			return writeError(c, fiber.StatusBadRequest, "INVALID_OFFSET", "invalid offset")
		}

		res, err := svc.List(c.UserContext(), limit, offset)
		if err != nil {
			return writeError(c, fiber.StatusInternalServerError, "INTERNAL_ERROR", "internal server error")
		}
		return c.JSON(res)
	}
}
