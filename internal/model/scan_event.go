package model

import "time"

// ScanEvent records one redaction performed by the sanitizer. Only the
// replacement token is stored, never the matched plaintext, so the event
// log itself cannot leak what the scanner redacted.
type ScanEvent struct {
	ID          string    `json:"id"`
	RequestID   string    `json:"request_id"`
	Kind        string    `json:"kind"`
	Method      string    `json:"method"`
	Replacement string    `json:"replacement"`
	Honeytoken  bool      `json:"honeytoken"`
	CreatedAt   time.Time `json:"created_at"`
}
