package feature

import (
	"context"
	"sort"

	"go.uber.org/zap"

	"github.com/fastygo/trackdesk/domain"
	"github.com/fastygo/trackdesk/repository"
	"github.com/fastygo/trackdesk/usecase"
)

// SortKey orders the feature list.
type SortKey string

const (
	SortNewest SortKey = "date"
	SortVotes  SortKey = "votes"
)

// Filter narrows the feature request list. Zero values mean "any".
type Filter struct {
	Status      domain.FeatureStatus
	RequesterID string
	Search      string
	Sort        SortKey
}

type UseCase struct {
	features repository.FeatureRepository
	logger   *zap.Logger
}

func New(features repository.FeatureRepository, logger *zap.Logger) *UseCase {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &UseCase{features: features, logger: logger}
}

func (uc *UseCase) List(ctx context.Context, f Filter) ([]domain.FeatureRequest, error) {
	all, err := uc.features.List(ctx)
	if err != nil {
		uc.logger.Error("list feature requests failed", zap.Error(err))
		return nil, err
	}

	out := make([]domain.FeatureRequest, 0, len(all))
	for _, fr := range all {
		if f.Status != "" && fr.Status != f.Status {
			continue
		}
		if f.RequesterID != "" && fr.RequesterID != f.RequesterID {
			continue
		}
		if !usecase.ContainsFold(f.Search, fr.Title, fr.Description) {
			continue
		}
		out = append(out, fr)
	}

	if f.Sort == SortVotes {
		sort.SliceStable(out, func(i, j int) bool { return out[i].Votes > out[j].Votes })
	}
	return out, nil
}

func (uc *UseCase) Get(ctx context.Context, id string) (*domain.FeatureRequest, error) {
	return uc.features.GetByID(ctx, id)
}

func (uc *UseCase) Create(ctx context.Context, fr *domain.FeatureRequest) (*domain.FeatureRequest, error) {
	if fr == nil {
		return nil, domain.ErrInvalidPayload
	}
	fr.ID = ""
	fr.Votes = 0
	fr.Normalize()
	if err := fr.Validate(); err != nil {
		return nil, err
	}
	if fr.RequesterID == "" {
		return nil, domain.Invalidf("requester is required")
	}

	created, err := uc.features.Create(ctx, fr)
	if err != nil {
		uc.logger.Error("create feature request failed", zap.Error(err))
		return nil, err
	}
	uc.logger.Info("feature request created", zap.String("feature_id", created.ID))
	return created, nil
}

// Update rewrites title, description and status. Votes are only changed
// through Vote.
func (uc *UseCase) Update(ctx context.Context, fr *domain.FeatureRequest) (*domain.FeatureRequest, error) {
	if fr == nil || fr.ID == "" {
		return nil, domain.ErrInvalidPayload
	}
	fr.Normalize()
	if err := fr.Validate(); err != nil {
		return nil, err
	}
	if err := uc.features.Update(ctx, fr); err != nil {
		uc.logger.Error("update feature request failed", zap.String("feature_id", fr.ID), zap.Error(err))
		return nil, err
	}
	return uc.features.GetByID(ctx, fr.ID)
}

// SetStatus moves a request through its workflow without touching other fields.
func (uc *UseCase) SetStatus(ctx context.Context, id string, status domain.FeatureStatus) (*domain.FeatureRequest, error) {
	if !status.Valid() {
		return nil, domain.Invalidf("unknown feature status %q", status)
	}
	fr, err := uc.features.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if fr.Status == status {
		return fr, nil
	}
	fr.Status = status
	if err := uc.features.Update(ctx, fr); err != nil {
		uc.logger.Error("update feature status failed", zap.String("feature_id", id), zap.Error(err))
		return nil, err
	}
	return fr, nil
}

func (uc *UseCase) Delete(ctx context.Context, id string) error {
	if err := uc.features.Delete(ctx, id); err != nil {
		uc.logger.Error("delete feature request failed", zap.String("feature_id", id), zap.Error(err))
		return err
	}
	return nil
}

// Vote adds one vote and returns the new total.
func (uc *UseCase) Vote(ctx context.Context, id string) (int, error) {
	votes, err := uc.features.Vote(ctx, id)
	if err != nil {
		if !domain.IsDomainError(err, domain.ErrCodeNotFound) {
			uc.logger.Error("vote failed", zap.String("feature_id", id), zap.Error(err))
		}
		return 0, err
	}
	return votes, nil
}
