package middleware

import (
	"encoding/json"
	"io"
	"os"
	"time"

	"github.com/gofiber/fiber/v2"

	"opaque/internal/sanitizer"
)

// LoggerConfig configures the JSON request logger.
type LoggerConfig struct {
	// Writer receives one JSON object per line. Defaults to stdout.
	Writer io.Writer
	// Location formats the ts field. Defaults to UTC.
	Location *time.Location
	// Scanner, when set, scrubs the logged path so sensitive data embedded
	// in URLs never reaches the logs.
	Scanner *sanitizer.Scanner
}

// Logger logs each HTTP request in JSON format to stdout.
// Fields: request_id, method, path, status, latency (ms, float), ts.
func Logger(loc *time.Location) fiber.Handler {
	return LoggerWithConfig(LoggerConfig{Location: loc})
}

// LoggerWithWriter is Logger with a custom output writer.
func LoggerWithWriter(w io.Writer, loc *time.Location) fiber.Handler {
	return LoggerWithConfig(LoggerConfig{Writer: w, Location: loc})
}

// LoggerWithConfig builds the request logger from cfg.
func LoggerWithConfig(cfg LoggerConfig) fiber.Handler {
	w := cfg.Writer
	if w == nil {
		w = os.Stdout
	}
	loc := cfg.Location
	if loc == nil {
		loc = time.UTC
	}
	enc := json.NewEncoder(w)

	return func(c *fiber.Ctx) error {
		start := time.Now()

		// Process request
		err := c.Next()

		// Collect fields after handler executed to capture final status
		rid, _ := c.Locals(RequestIDLocalKey).(string)
		path := c.Path()
		if cfg.Scanner != nil {
			path = cfg.Scanner.Sanitize(c.UserContext(), path).Text
		}
		status := c.Response().StatusCode()
		latency := float64(time.Since(start).Milliseconds())

		_ = enc.Encode(map[string]any{
			"request_id": rid,
			"method":     c.Method(),
			"path":       path,
			"status":     status,
			"latency":    latency,
			"ts":         time.Now().In(loc).Format(time.RFC3339Nano),
		})

		return err
	}
}
