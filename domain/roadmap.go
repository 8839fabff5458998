package domain

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"
)

type RoadmapStatus string

const (
	RoadmapPlanned    RoadmapStatus = "planned"
	RoadmapInProgress RoadmapStatus = "in_progress"
	RoadmapDone       RoadmapStatus = "done"
)

func (s RoadmapStatus) Valid() bool {
	switch s {
	case RoadmapPlanned, RoadmapInProgress, RoadmapDone:
		return true
	}
	return false
}

// RoadmapItem places a piece of work into a calendar quarter.
type RoadmapItem struct {
	ID               string        `json:"id"`
	Title            string        `json:"title"`
	Description      string        `json:"description,omitempty"`
	Quarter          string        `json:"quarter"`
	Status           RoadmapStatus `json:"status"`
	FeatureRequestID *string       `json:"feature_request_id,omitempty"`
	Position         int           `json:"position"`
	CreatedAt        time.Time     `json:"created_at"`
	UpdatedAt        time.Time     `json:"updated_at"`
}

func (r *RoadmapItem) Normalize() {
	r.Title = strings.TrimSpace(r.Title)
	r.Quarter = strings.TrimSpace(r.Quarter)
	if r.Status == "" {
		r.Status = RoadmapPlanned
	}
	if r.FeatureRequestID != nil && *r.FeatureRequestID == "" {
		r.FeatureRequestID = nil
	}
}

func (r *RoadmapItem) Validate() error {
	if r == nil {
		return ErrInvalidPayload
	}
	if err := validateTitle(r.Title); err != nil {
		return err
	}
	if _, err := ParseQuarter(r.Quarter); err != nil {
		return err
	}
	if !r.Status.Valid() {
		return Invalidf("unknown roadmap status %q", r.Status)
	}
	return nil
}

// Quarter is a calendar quarter such as Q3 2026.
type Quarter struct {
	Year   int `json:"year"`
	Number int `json:"number"`
}

var quarterPattern = regexp.MustCompile(`^Q([1-4]) (\d{4})$`)

// QuarterOf returns the quarter containing t.
func QuarterOf(t time.Time) Quarter {
	return Quarter{Year: t.Year(), Number: (int(t.Month())-1)/3 + 1}
}

// ParseQuarter parses labels of the form "Q1 2027".
func ParseQuarter(label string) (Quarter, error) {
	m := quarterPattern.FindStringSubmatch(label)
	if m == nil {
		return Quarter{}, Invalidf("quarter %q must look like \"Q1 2027\"", label)
	}
	n, _ := strconv.Atoi(m[1])
	y, _ := strconv.Atoi(m[2])
	return Quarter{Year: y, Number: n}, nil
}

func (q Quarter) Next() Quarter {
	if q.Number >= 4 {
		return Quarter{Year: q.Year + 1, Number: 1}
	}
	return Quarter{Year: q.Year, Number: q.Number + 1}
}

// Before reports whether q is earlier than other.
func (q Quarter) Before(other Quarter) bool {
	if q.Year != other.Year {
		return q.Year < other.Year
	}
	return q.Number < other.Number
}

func (q Quarter) String() string {
	return fmt.Sprintf("Q%d %d", q.Number, q.Year)
}

// UpcomingQuarters returns n labels starting with the quarter containing now.
func UpcomingQuarters(now time.Time, n int) []string {
	if n <= 0 {
		return nil
	}
	labels := make([]string, 0, n)
	q := QuarterOf(now)
	for i := 0; i < n; i++ {
		labels = append(labels, q.String())
		q = q.Next()
	}
	return labels
}
