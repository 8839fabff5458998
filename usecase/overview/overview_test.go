package overview

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fastygo/trackdesk/domain"
	"github.com/fastygo/trackdesk/internal/testutil"
)

func TestSummary(t *testing.T) {
	users := testutil.NewUsers(domain.User{ID: "a"}, domain.User{ID: "b"})
	bugs := testutil.NewBugs(domain.Bug{ID: "b1"})
	features := testutil.NewFeatures()
	roadmap := testutil.NewRoadmap(domain.RoadmapItem{ID: "r1"}, domain.RoadmapItem{ID: "r2"}, domain.RoadmapItem{ID: "r3"})

	s, err := New(users, bugs, features, roadmap, nil).Summary(context.Background())
	require.NoError(t, err)
	assert.Equal(t, Summary{Users: 2, Bugs: 1, Features: 0, RoadmapItems: 3}, s)
}

func TestSummaryFailure(t *testing.T) {
	bugs := testutil.NewBugs()
	bugs.Fail = true

	s, err := New(testutil.NewUsers(), bugs, testutil.NewFeatures(), testutil.NewRoadmap(), nil).Summary(context.Background())
	assert.ErrorIs(t, err, testutil.ErrUnavailable)
	assert.Equal(t, Summary{}, s)
}
