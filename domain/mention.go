package domain

import (
	"strings"
	"time"
)

// Mention notifies a recipient that they were referenced on a bug or feature request.
type Mention struct {
	ID               string    `json:"id"`
	RecipientID      string    `json:"recipient_id"`
	AuthorID         string    `json:"author_id"`
	BugID            *string   `json:"bug_id,omitempty"`
	FeatureRequestID *string   `json:"feature_request_id,omitempty"`
	Body             string    `json:"body"`
	IsRead           bool      `json:"is_read"`
	CreatedAt        time.Time `json:"created_at"`
}

func (m *Mention) Validate() error {
	if m == nil || m.RecipientID == "" || m.AuthorID == "" {
		return ErrInvalidPayload
	}
	if strings.TrimSpace(m.Body) == "" {
		return Invalidf("mention body cannot be empty")
	}
	if m.BugID == nil && m.FeatureRequestID == nil {
		return Invalidf("mention must reference a bug or a feature request")
	}
	return nil
}

// MentionEvent is published on the recipient's realtime channel whenever
// their mentions change.
type MentionEvent struct {
	Type        string    `json:"type"`
	RecipientID string    `json:"recipient_id"`
	MentionIDs  []string  `json:"mention_ids,omitempty"`
	At          time.Time `json:"at"`
}

const (
	MentionEventInsert = "INSERT"
	MentionEventUpdate = "UPDATE"
)
