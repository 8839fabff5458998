package domain

import "time"

// Attachment describes a file uploaded against a bug. The content lives in
// the attachment store, not in Postgres.
type Attachment struct {
	ID          string    `json:"id"`
	BugID       string    `json:"bug_id"`
	FileName    string    `json:"file_name"`
	ContentType string    `json:"content_type"`
	Size        int64     `json:"size"`
	CreatedAt   time.Time `json:"created_at"`
}
