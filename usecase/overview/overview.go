package overview

import (
	"context"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// Counter is satisfied by every repository that can count its rows.
type Counter interface {
	Count(ctx context.Context) (int, error)
}

// Summary is the dashboard headline.
type Summary struct {
	Users        int `json:"users"`
	Bugs         int `json:"bugs"`
	Features     int `json:"features"`
	RoadmapItems int `json:"roadmap_items"`
}

type UseCase struct {
	users, bugs, features, roadmap Counter
	logger                         *zap.Logger
}

func New(users, bugs, features, roadmap Counter, logger *zap.Logger) *UseCase {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &UseCase{users: users, bugs: bugs, features: features, roadmap: roadmap, logger: logger}
}

// Summary counts all tables concurrently. The first failure cancels the rest.
func (uc *UseCase) Summary(ctx context.Context) (Summary, error) {
	var s Summary
	g, gctx := errgroup.WithContext(ctx)

	count := func(name string, c Counter, dst *int) {
		g.Go(func() error {
			n, err := c.Count(gctx)
			if err != nil {
				uc.logger.Error("count failed", zap.String("table", name), zap.Error(err))
				return err
			}
			*dst = n
			return nil
		})
	}
	count("users", uc.users, &s.Users)
	count("bugs", uc.bugs, &s.Bugs)
	count("feature_requests", uc.features, &s.Features)
	count("roadmap_items", uc.roadmap, &s.RoadmapItems)

	if err := g.Wait(); err != nil {
		return Summary{}, err
	}
	return s, nil
}
