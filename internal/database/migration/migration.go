package migration

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"log"
	"time"
)

type migrationStep struct {
	Name string
	SQL  string
}

var steps = []migrationStep{
	{
		Name: "create_extension_uuid_ossp",
		SQL:  `CREATE EXTENSION IF NOT EXISTS "uuid-ossp";`,
	},
	{
		Name: "create_table_scan_events",
		SQL: `CREATE TABLE IF NOT EXISTS scan_events (
  id          UUID        PRIMARY KEY DEFAULT uuid_generate_v4(),
  request_id  TEXT        NOT NULL,
  kind        TEXT        NOT NULL,
  method      TEXT        NOT NULL,
  replacement TEXT        NOT NULL,
  honeytoken  BOOLEAN     NOT NULL DEFAULT FALSE,
  created_at  TIMESTAMPTZ NOT NULL DEFAULT now()
);`,
	},
	{
		Name: "create_index_scan_events_kind",
		SQL:  `CREATE INDEX IF NOT EXISTS idx_scan_events_kind ON scan_events (kind);`,
	},
	{
		Name: "create_index_scan_events_created_at",
		SQL:  `CREATE INDEX IF NOT EXISTS idx_scan_events_created_at ON scan_events (created_at);`,
	},
	{
		Name: "create_index_scan_events_honeytoken",
		SQL:  `CREATE INDEX IF NOT EXISTS idx_scan_events_honeytoken ON scan_events (honeytoken) WHERE honeytoken;`,
	},
	{
		Name: "create_table_audit_reports",
		SQL: `CREATE TABLE IF NOT EXISTS audit_reports (
  id            UUID        PRIMARY KEY DEFAULT uuid_generate_v4(),
  object_key    TEXT        NOT NULL UNIQUE,
  score         INT         NOT NULL CHECK (score BETWEEN 0 AND 100),
  files_scanned INT         NOT NULL CHECK (files_scanned >= 0),
  files_flagged INT         NOT NULL CHECK (files_flagged >= 0),
  created_at    TIMESTAMPTZ NOT NULL DEFAULT now()
);`,
	},
	{
		Name: "create_index_audit_reports_created_at",
		SQL:  `CREATE INDEX IF NOT EXISTS idx_audit_reports_created_at ON audit_reports (created_at);`,
	},
}

// EnsureMigrated checks whether the 'scan_events' table exists and runs the
// migration steps if it doesn't.
func EnsureMigrated(ctx context.Context, db *sql.DB, loc *time.Location, dbHost string) error {
	start := time.Now()

	logJSON(loc, map[string]any{
		"component": "database",
		"event":     "db_migration_check",
		"status":    "starting",
		"db_host":   dbHost,
	})

	var exists bool
	query := "SELECT to_regclass('public.scan_events') IS NOT NULL"
	err := db.QueryRowContext(ctx, query).Scan(&exists)
	if err != nil {
		logJSON(loc, map[string]any{
			"component":     "database",
			"event":         "db_migration_failed",
			"status":        "error",
			"error_message": fmt.Sprintf("failed to check sentinel table: %v", err),
			"db_host":       dbHost,
			"duration_ms":   time.Since(start).Milliseconds(),
		})
		return fmt.Errorf("failed to check sentinel table: %w", err)
	}

	if exists {
		logJSON(loc, map[string]any{
			"component":   "database",
			"event":       "db_migration_skip",
			"status":      "success",
			"msg":         "schema already exists, skipping migration",
			"db_host":     dbHost,
			"duration_ms": time.Since(start).Milliseconds(),
		})
		return nil
	}

	logJSON(loc, map[string]any{
		"component": "database",
		"event":     "db_migration_start",
		"status":    "in_progress",
		"db_host":   dbHost,
	})

	for _, step := range steps {
		stepStart := time.Now()
		_, err := db.ExecContext(ctx, step.SQL)
		if err != nil {
			logJSON(loc, map[string]any{
				"component":        "database",
				"event":            "db_migration_failed",
				"status":           "error",
				"migration_step":   step.Name,
				"error_message":    err.Error(),
				"db_host":          dbHost,
				"duration_ms":      time.Since(start).Milliseconds(),
				"step_duration_ms": time.Since(stepStart).Milliseconds(),
			})
			return fmt.Errorf("migration step %s failed: %w", step.Name, err)
		}

		logJSON(loc, map[string]any{
			"component":        "database",
			"event":            "db_migration_step",
			"status":           "success",
			"migration_step":   step.Name,
			"db_host":          dbHost,
			"step_duration_ms": time.Since(stepStart).Milliseconds(),
		})
	}

	logJSON(loc, map[string]any{
		"component":   "database",
		"event":       "db_migration_success",
		"status":      "success",
		"db_host":     dbHost,
		"duration_ms": time.Since(start).Milliseconds(),
	})

	return nil
}

func logJSON(loc *time.Location, data map[string]any) {
	data["ts"] = time.Now().In(loc).Format(time.RFC3339Nano)
	if _, ok := data["level"]; !ok {
		if data["status"] == "error" {
			data["level"] = "error"
		} else {
			data["level"] = "info"
		}
	}

	b, err := json.Marshal(data)
	if err != nil {
		log.Printf("failed to marshal migration log: %v", err)
		return
	}
	log.SetFlags(0)
	log.Println(string(b))
}
