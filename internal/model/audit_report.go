package model

import "time"

// AuditReport is the stored metadata of a compliance scan. The rendered
// HTML report lives in object storage under ObjectKey.
type AuditReport struct {
	ID           string    `json:"id"`
	ObjectKey    string    `json:"object_key"`
	Score        int       `json:"score"`
	FilesScanned int       `json:"files_scanned"`
	FilesFlagged int       `json:"files_flagged"`
	CreatedAt    time.Time `json:"created_at"`
}
