package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseQuarter(t *testing.T) {
	q, err := ParseQuarter("Q3 2026")
	require.NoError(t, err)
	assert.Equal(t, Quarter{Year: 2026, Number: 3}, q)
	assert.Equal(t, "Q3 2026", q.String())

	for _, bad := range []string{"", "Q5 2026", "Q0 2026", "q3 2026", "Q3 26", "Q3  2026", "2026 Q3"} {
		_, err := ParseQuarter(bad)
		assert.True(t, IsDomainError(err, ErrCodeInvalid), bad)
	}
}

func TestQuarterNextAndBefore(t *testing.T) {
	assert.Equal(t, Quarter{Year: 2027, Number: 1}, Quarter{Year: 2026, Number: 4}.Next())
	assert.Equal(t, Quarter{Year: 2026, Number: 2}, Quarter{Year: 2026, Number: 1}.Next())
	assert.True(t, Quarter{Year: 2026, Number: 4}.Before(Quarter{Year: 2027, Number: 1}))
	assert.False(t, Quarter{Year: 2026, Number: 2}.Before(Quarter{Year: 2026, Number: 2}))
}

func TestUpcomingQuarters(t *testing.T) {
	now := time.Date(2026, 8, 14, 0, 0, 0, 0, time.UTC)
	assert.Equal(t, []string{"Q3 2026", "Q4 2026", "Q1 2027", "Q2 2027"}, UpcomingQuarters(now, 4))
	assert.Len(t, UpcomingQuarters(now, 8), 8)
	assert.Nil(t, UpcomingQuarters(now, 0))

	assert.Equal(t, []string{"Q1 2026"}, UpcomingQuarters(time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC), 1))
	assert.Equal(t, []string{"Q4 2026"}, UpcomingQuarters(time.Date(2026, 12, 31, 23, 0, 0, 0, time.UTC), 1))
}

func TestRoadmapItemValidate(t *testing.T) {
	empty := ""
	item := &RoadmapItem{Title: " SSO ", Quarter: " Q1 2027 ", FeatureRequestID: &empty}
	item.Normalize()
	require.NoError(t, item.Validate())
	assert.Equal(t, "SSO", item.Title)
	assert.Equal(t, RoadmapPlanned, item.Status)
	assert.Nil(t, item.FeatureRequestID)

	item.Quarter = "next year"
	assert.True(t, IsDomainError(item.Validate(), ErrCodeInvalid))

	item.Quarter = "Q1 2027"
	item.Status = "someday"
	assert.True(t, IsDomainError(item.Validate(), ErrCodeInvalid))
}
