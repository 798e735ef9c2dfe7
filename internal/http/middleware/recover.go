package middleware

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/gofiber/fiber/v2"

	"opaque/internal/sanitizer"
)

// Recover turns panics into 500 responses. The panic value is run through
// the scanner before logging, so a panic that carries request data cannot
// leak it into the logs.
func Recover(sc *sanitizer.Scanner, loc *time.Location) fiber.Handler {
	return RecoverWithWriter(os.Stderr, sc, loc)
}

// RecoverWithWriter is Recover with a custom log writer.
func RecoverWithWriter(w io.Writer, sc *sanitizer.Scanner, loc *time.Location) fiber.Handler {
	if loc == nil {
		loc = time.UTC
	}
	enc := json.NewEncoder(w)

	return func(c *fiber.Ctx) (err error) {
		defer func() {
			r := recover()
			if r == nil {
				return
			}
			msg := fmt.Sprintf("%v", r)
			if sc != nil {
				msg = sc.Sanitize(c.UserContext(), msg).Text
			}
			rid, _ := c.Locals(RequestIDLocalKey).(string)
			_ = enc.Encode(map[string]any{
				"level":      "error",
				"event":      "panic_recovered",
				"request_id": rid,
				"method":     c.Method(),
				"path":       c.Path(),
				"panic":      msg,
				"ts":         time.Now().In(loc).Format(time.RFC3339Nano),
			})
			err = c.Status(fiber.StatusInternalServerError).
				JSON(fiber.Map{"error": fiber.Map{"code": "INTERNAL_ERROR", "message": "internal server error"}})
		}()
		return c.Next()
	}
}
