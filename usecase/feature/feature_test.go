package feature

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fastygo/trackdesk/domain"
	"github.com/fastygo/trackdesk/internal/testutil"
)

func seed() []domain.FeatureRequest {
	at := time.Date(2026, 4, 1, 0, 0, 0, 0, time.UTC)
	return []domain.FeatureRequest{
		{ID: "f1", Title: "Dark mode", Status: domain.FeatureSubmitted, Votes: 4, RequesterID: "u1", CreatedAt: at},
		{ID: "f2", Title: "CSV export", Status: domain.FeaturePlanned, Votes: 9, RequesterID: "u2", CreatedAt: at.Add(time.Hour)},
		{ID: "f3", Title: "Slack integration", Description: "export mentions", Status: domain.FeatureSubmitted, Votes: 4, RequesterID: "u1", CreatedAt: at.Add(2 * time.Hour)},
	}
}

func ids(in []domain.FeatureRequest) []string {
	out := make([]string, 0, len(in))
	for _, f := range in {
		out = append(out, f.ID)
	}
	return out
}

func TestList(t *testing.T) {
	uc := New(testutil.NewFeatures(seed()...), nil)
	ctx := context.Background()

	all, err := uc.List(ctx, Filter{})
	require.NoError(t, err)
	assert.Equal(t, []string{"f3", "f2", "f1"}, ids(all))

	byVotes, err := uc.List(ctx, Filter{Sort: SortVotes})
	require.NoError(t, err)
	assert.Equal(t, []string{"f2", "f3", "f1"}, ids(byVotes), "ties keep newest-first order")

	submitted, err := uc.List(ctx, Filter{Status: domain.FeatureSubmitted, RequesterID: "u1"})
	require.NoError(t, err)
	assert.Equal(t, []string{"f3", "f1"}, ids(submitted))

	search, err := uc.List(ctx, Filter{Search: "EXPORT"})
	require.NoError(t, err)
	assert.Equal(t, []string{"f3", "f2"}, ids(search))
}

func TestCreateResetsVotes(t *testing.T) {
	uc := New(testutil.NewFeatures(), nil)

	created, err := uc.Create(context.Background(), &domain.FeatureRequest{Title: "SSO", Votes: 100, RequesterID: "u1"})
	require.NoError(t, err)
	assert.Zero(t, created.Votes)
	assert.Equal(t, domain.FeatureSubmitted, created.Status)
	assert.NotEmpty(t, created.ID)

	_, err = uc.Create(context.Background(), &domain.FeatureRequest{Title: "SSO"})
	assert.True(t, domain.IsDomainError(err, domain.ErrCodeInvalid))
}

func TestUpdateKeepsVotes(t *testing.T) {
	uc := New(testutil.NewFeatures(seed()...), nil)

	updated, err := uc.Update(context.Background(), &domain.FeatureRequest{ID: "f2", Title: "CSV and XLSX export", Status: domain.FeatureInProgress, Votes: 0})
	require.NoError(t, err)
	assert.Equal(t, 9, updated.Votes)
	assert.Equal(t, domain.FeatureInProgress, updated.Status)
	assert.Equal(t, "u2", updated.RequesterID)

	_, err = uc.Update(context.Background(), &domain.FeatureRequest{ID: "f2", Title: "x", Status: "shipped"})
	assert.True(t, domain.IsDomainError(err, domain.ErrCodeInvalid))
}

func TestSetStatus(t *testing.T) {
	uc := New(testutil.NewFeatures(seed()...), nil)
	ctx := context.Background()

	fr, err := uc.SetStatus(ctx, "f1", domain.FeatureRejected)
	require.NoError(t, err)
	assert.Equal(t, domain.FeatureRejected, fr.Status)

	_, err = uc.SetStatus(ctx, "f1", "maybe")
	assert.True(t, domain.IsDomainError(err, domain.ErrCodeInvalid))

	_, err = uc.SetStatus(ctx, "nope", domain.FeaturePlanned)
	assert.ErrorIs(t, err, domain.ErrFeatureNotFound)
}

func TestVote(t *testing.T) {
	uc := New(testutil.NewFeatures(seed()...), nil)
	ctx := context.Background()

	n, err := uc.Vote(ctx, "f1")
	require.NoError(t, err)
	assert.Equal(t, 5, n)

	n, err = uc.Vote(ctx, "f1")
	require.NoError(t, err)
	assert.Equal(t, 6, n)

	_, err = uc.Vote(ctx, "nope")
	assert.ErrorIs(t, err, domain.ErrFeatureNotFound)
}

func TestDelete(t *testing.T) {
	uc := New(testutil.NewFeatures(seed()...), nil)
	require.NoError(t, uc.Delete(context.Background(), "f1"))
	assert.ErrorIs(t, uc.Delete(context.Background(), "f1"), domain.ErrFeatureNotFound)
}
