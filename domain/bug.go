package domain

import (
	"strings"
	"time"
)

type BugStatus string

const (
	BugOpen       BugStatus = "open"
	BugInProgress BugStatus = "in_progress"
	BugResolved   BugStatus = "resolved"
	BugClosed     BugStatus = "closed"
)

func (s BugStatus) Valid() bool {
	switch s {
	case BugOpen, BugInProgress, BugResolved, BugClosed:
		return true
	}
	return false
}

type Priority string

const (
	PriorityLow      Priority = "low"
	PriorityMedium   Priority = "medium"
	PriorityHigh     Priority = "high"
	PriorityCritical Priority = "critical"
)

func (p Priority) Valid() bool {
	switch p {
	case PriorityLow, PriorityMedium, PriorityHigh, PriorityCritical:
		return true
	}
	return false
}

const MaxTitleLength = 200

// Bug is a reported defect.
type Bug struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description,omitempty"`
	Status      BugStatus `json:"status"`
	Priority    Priority  `json:"priority"`
	ReporterID  string    `json:"reporter_id"`
	AssigneeID  *string   `json:"assignee_id,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// Normalize fills defaults for a freshly submitted bug.
func (b *Bug) Normalize() {
	b.Title = strings.TrimSpace(b.Title)
	if b.Status == "" {
		b.Status = BugOpen
	}
	if b.Priority == "" {
		b.Priority = PriorityMedium
	}
	if b.AssigneeID != nil && *b.AssigneeID == "" {
		b.AssigneeID = nil
	}
}

func (b *Bug) Validate() error {
	if b == nil {
		return ErrInvalidPayload
	}
	if err := validateTitle(b.Title); err != nil {
		return err
	}
	if !b.Status.Valid() {
		return Invalidf("unknown bug status %q", b.Status)
	}
	if !b.Priority.Valid() {
		return Invalidf("unknown priority %q", b.Priority)
	}
	return nil
}

func validateTitle(title string) error {
	title = strings.TrimSpace(title)
	if title == "" {
		return Invalidf("title cannot be empty")
	}
	if len(title) > MaxTitleLength {
		return Invalidf("title cannot exceed %d characters", MaxTitleLength)
	}
	return nil
}
