package main

import (
	"context"
	"encoding/json"
	"log"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	_ "github.com/joho/godotenv/autoload"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"opaque/internal/audit"
	"opaque/internal/config"
	"opaque/internal/database"
	"opaque/internal/database/migration"
	handlers "opaque/internal/http/handler"
	"opaque/internal/http/middleware"
	"opaque/internal/metrics"
	"opaque/internal/otel"
	"opaque/internal/repository/postgres"
	"opaque/internal/sanitizer"
	"opaque/internal/service"
	"opaque/internal/storage"
	"opaque/internal/validator"
	"opaque/internal/vault"
)

func main() {
	// Load configuration from environment variables (.env auto-loaded if present)
	cfg := config.Load()
	loc := time.UTC
	ctx := context.Background()

	// Initialize tracing (no-op when OTEL_SDK_DISABLED=true)
	shutdownTracing, err := otel.Init(ctx, loc)
	if err != nil {
		log.Fatalf("failed to initialize tracing: %v", err)
	}
	defer shutdownTracing(ctx)

	// Initialize PostgreSQL connection (with pooling via database/sql)
	db, err := database.NewPostgres(cfg.Database)
	if err != nil {
		log.Fatalf("failed to connect to database: %v", err)
	}
	defer db.Close()

	if err := migration.EnsureMigrated(ctx, db, loc, cfg.Database.Host); err != nil {
		log.Fatalf("failed to migrate database: %v", err)
	}

	// Initialize reusable S3-compatible object storage client (MinIO-supported)
	objStore, err := storage.NewMinIO(cfg.MinIO)
	if err != nil {
		log.Fatalf("failed to initialize object storage: %v", err)
	}

	// Assemble the sanitizer engine: vault, obfuscator, rules, honeytokens.
	vlt, err := vault.New(cfg.Scanner.MasterKey)
	if err != nil {
		log.Fatalf("failed to initialize vault: %v", err)
	}
	obf, err := sanitizer.NewObfuscator(cfg.Scanner.Method, cfg.Scanner.Salt, cfg.Scanner.SecretKey, vlt)
	if err != nil {
		log.Fatalf("failed to initialize obfuscator: %v", err)
	}
	// No configured rules means the scanner passes text through unchanged.
	rules, err := validator.FromKinds(cfg.Scanner.Rules)
	if err != nil {
		log.Fatalf("failed to load detection rules: %v", err)
	}
	honeytokens := sanitizer.NewMemoryHoneytokens(cfg.Scanner.Honeytokens, honeytokenAlert(loc))
	scanner := sanitizer.New(sanitizer.Config{
		Rules:                rules,
		Obfuscator:           obf,
		Honeytokens:          honeytokens.Tokens(),
		Handler:              honeytokens,
		CircuitThreshold:     cfg.Scanner.CircuitThreshold,
		CircuitResetAfter:    time.Duration(cfg.Scanner.CircuitResetAfterSec) * time.Second,
		SuspiciousMatchCount: cfg.Scanner.SuspiciousMatchCount,
	})

	// Metrics registry shared by HTTP middleware and scanner counters
	reg := prometheus.NewRegistry()
	promMw, err := middleware.NewPrometheusMiddleware(reg)
	if err != nil {
		log.Fatalf("failed to initialize prometheus middleware: %v", err)
	}
	scanMetrics, err := metrics.NewScannerMetrics(reg)
	if err != nil {
		log.Fatalf("failed to initialize scanner metrics: %v", err)
	}

	// Initialize repositories and services
	eventRepo := postgres.NewScanEventPostgres(db)
	reportRepo := postgres.NewAuditReportPostgres(db)
	sanSvc := service.NewSanitizeService(scanner, vlt, eventRepo, scanMetrics)
	audSvc := service.NewAuditService(audit.NewScanner(), objStore, reportRepo)

	app := fiber.New(fiber.Config{
		ErrorHandler: handlers.ErrorHandler(),
	})

	// Register global middleware
	// RequestID middleware adds/propagates X-Request-ID and stores it in context
	app.Use(middleware.RequestID())
	// Recover panics; panic values are scrubbed by the scanner before logging
	app.Use(middleware.Recover(scanner, loc))
	// JSON Logger middleware for structured request logs; logged paths are
	// scrubbed so PII embedded in URLs never reaches the logs
	app.Use(middleware.LoggerWithConfig(middleware.LoggerConfig{Location: loc, Scanner: scanner}))
	app.Use(promMw.Handler())

	// Register HTTP routes with injected services
	handlers.RegisterRoutes(app, db, sanSvc, audSvc)

	// Prometheus metrics endpoint
	app.Get("/metrics", adaptor.HTTPHandler(promhttp.HandlerFor(reg, promhttp.HandlerOpts{})))

	addr := ":" + cfg.Port

	if err := app.Listen(addr); err != nil {
		log.Fatalf("failed to start server: %v", err)
	}
}

// honeytokenAlert logs every honeytoken trigger as a structured event. The
// triggering value is a planted decoy, so logging it is safe and useful.
func honeytokenAlert(loc *time.Location) func(ctx context.Context, data string) {
	return func(_ context.Context, data string) {
		entry := map[string]any{
			"ts":    time.Now().In(loc).Format(time.RFC3339Nano),
			"level": "warn",
			"msg":   "honeytoken_triggered",
			"token": data,
		}
		if b, err := json.Marshal(entry); err == nil {
			log.SetFlags(0)
			log.Println(string(b))
		}
	}
}
