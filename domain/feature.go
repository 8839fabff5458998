package domain

import (
	"strings"
	"time"
)

type FeatureStatus string

const (
	FeatureSubmitted   FeatureStatus = "submitted"
	FeatureUnderReview FeatureStatus = "under_review"
	FeaturePlanned     FeatureStatus = "planned"
	FeatureInProgress  FeatureStatus = "in_progress"
	FeatureCompleted   FeatureStatus = "completed"
	FeatureRejected    FeatureStatus = "rejected"
)

func (s FeatureStatus) Valid() bool {
	switch s {
	case FeatureSubmitted, FeatureUnderReview, FeaturePlanned, FeatureInProgress, FeatureCompleted, FeatureRejected:
		return true
	}
	return false
}

// FeatureRequest is a user-submitted product suggestion.
type FeatureRequest struct {
	ID          string        `json:"id"`
	Title       string        `json:"title"`
	Description string        `json:"description,omitempty"`
	Status      FeatureStatus `json:"status"`
	Votes       int           `json:"votes"`
	RequesterID string        `json:"requester_id"`
	CreatedAt   time.Time     `json:"created_at"`
	UpdatedAt   time.Time     `json:"updated_at"`
}

func (f *FeatureRequest) Normalize() {
	f.Title = strings.TrimSpace(f.Title)
	if f.Status == "" {
		f.Status = FeatureSubmitted
	}
}

func (f *FeatureRequest) Validate() error {
	if f == nil {
		return ErrInvalidPayload
	}
	if err := validateTitle(f.Title); err != nil {
		return err
	}
	if !f.Status.Valid() {
		return Invalidf("unknown feature status %q", f.Status)
	}
	if f.Votes < 0 {
		return Invalidf("votes cannot be negative")
	}
	return nil
}
