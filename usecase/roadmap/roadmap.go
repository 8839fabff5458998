package roadmap

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/fastygo/trackdesk/domain"
	"github.com/fastygo/trackdesk/repository"
	"github.com/fastygo/trackdesk/usecase"
)

const DefaultQuarterCount = 8

// Filter narrows the roadmap list. Zero values mean "any".
type Filter struct {
	Quarter string
	Status  domain.RoadmapStatus
	Search  string
}

// Column is one quarter of the roadmap board.
type Column struct {
	Quarter string               `json:"quarter"`
	Items   []domain.RoadmapItem `json:"items"`
}

type UseCase struct {
	items        repository.RoadmapRepository
	features     repository.FeatureRepository
	quarterCount int
	now          func() time.Time
	logger       *zap.Logger
}

func New(items repository.RoadmapRepository, features repository.FeatureRepository, quarterCount int, logger *zap.Logger) *UseCase {
	if logger == nil {
		logger = zap.NewNop()
	}
	if quarterCount <= 0 {
		quarterCount = DefaultQuarterCount
	}
	return &UseCase{
		items:        items,
		features:     features,
		quarterCount: quarterCount,
		now:          time.Now,
		logger:       logger,
	}
}

// Quarters returns the selectable quarter labels, starting with the current one.
func (uc *UseCase) Quarters(now time.Time) []string {
	return domain.UpcomingQuarters(now, uc.quarterCount)
}

func (uc *UseCase) List(ctx context.Context, f Filter) ([]domain.RoadmapItem, error) {
	all, err := uc.items.List(ctx)
	if err != nil {
		uc.logger.Error("list roadmap failed", zap.Error(err))
		return nil, err
	}

	out := make([]domain.RoadmapItem, 0, len(all))
	for _, it := range all {
		if f.Quarter != "" && it.Quarter != f.Quarter {
			continue
		}
		if f.Status != "" && it.Status != f.Status {
			continue
		}
		if !usecase.ContainsFold(f.Search, it.Title, it.Description) {
			continue
		}
		out = append(out, it)
	}
	return out, nil
}

// Board groups items by quarter. Every upcoming quarter gets a column even
// when empty; items scheduled in other quarters follow in repository order.
func (uc *UseCase) Board(ctx context.Context) ([]Column, error) {
	items, err := uc.List(ctx, Filter{})
	if err != nil {
		return nil, err
	}

	labels := uc.Quarters(uc.now())
	index := make(map[string]int, len(labels))
	columns := make([]Column, 0, len(labels))
	for _, l := range labels {
		index[l] = len(columns)
		columns = append(columns, Column{Quarter: l, Items: []domain.RoadmapItem{}})
	}

	for _, it := range items {
		i, ok := index[it.Quarter]
		if !ok {
			i = len(columns)
			index[it.Quarter] = i
			columns = append(columns, Column{Quarter: it.Quarter})
		}
		columns[i].Items = append(columns[i].Items, it)
	}
	return columns, nil
}

func (uc *UseCase) Get(ctx context.Context, id string) (*domain.RoadmapItem, error) {
	return uc.items.GetByID(ctx, id)
}

func (uc *UseCase) Create(ctx context.Context, item *domain.RoadmapItem) (*domain.RoadmapItem, error) {
	if item == nil {
		return nil, domain.ErrInvalidPayload
	}
	item.ID = ""
	item.Normalize()
	if err := item.Validate(); err != nil {
		return nil, err
	}
	if item.FeatureRequestID != nil {
		if _, err := uc.features.GetByID(ctx, *item.FeatureRequestID); err != nil {
			return nil, err
		}
	}

	created, err := uc.items.Create(ctx, item)
	if err != nil {
		uc.logger.Error("create roadmap item failed", zap.Error(err))
		return nil, err
	}
	uc.logger.Info("roadmap item created", zap.String("item_id", created.ID), zap.String("quarter", created.Quarter))
	return created, nil
}

func (uc *UseCase) Update(ctx context.Context, item *domain.RoadmapItem) (*domain.RoadmapItem, error) {
	if item == nil || item.ID == "" {
		return nil, domain.ErrInvalidPayload
	}
	item.Normalize()
	if err := item.Validate(); err != nil {
		return nil, err
	}
	if err := uc.items.Update(ctx, item); err != nil {
		uc.logger.Error("update roadmap item failed", zap.String("item_id", item.ID), zap.Error(err))
		return nil, err
	}
	return item, nil
}

func (uc *UseCase) Delete(ctx context.Context, id string) error {
	if err := uc.items.Delete(ctx, id); err != nil {
		uc.logger.Error("delete roadmap item failed", zap.String("item_id", id), zap.Error(err))
		return err
	}
	return nil
}

// Promote schedules a feature request into quarter and marks the request
// planned. A feature request is promoted at most once. The request is
// marked before the item is written, so a failed write can be repeated
// without leaving a duplicate item behind.
func (uc *UseCase) Promote(ctx context.Context, featureID, quarter string) (*domain.RoadmapItem, error) {
	fr, err := uc.features.GetByID(ctx, featureID)
	if err != nil {
		return nil, err
	}
	switch fr.Status {
	case domain.FeatureRejected, domain.FeatureCompleted:
		return nil, domain.NewError(domain.ErrCodeConflict, "feature request is already "+string(fr.Status))
	}

	item := &domain.RoadmapItem{
		Title:            fr.Title,
		Description:      fr.Description,
		Quarter:          quarter,
		FeatureRequestID: &fr.ID,
	}
	item.Normalize()
	if err := item.Validate(); err != nil {
		return nil, err
	}

	existing, err := uc.items.List(ctx)
	if err != nil {
		uc.logger.Error("list roadmap failed", zap.Error(err))
		return nil, err
	}
	for _, it := range existing {
		if it.FeatureRequestID != nil && *it.FeatureRequestID == fr.ID {
			return nil, domain.NewError(domain.ErrCodeConflict, "feature request is already on the roadmap for "+it.Quarter)
		}
	}

	if fr.Status != domain.FeaturePlanned && fr.Status != domain.FeatureInProgress {
		fr.Status = domain.FeaturePlanned
		if err := uc.features.Update(ctx, fr); err != nil {
			uc.logger.Error("mark feature planned failed", zap.String("feature_id", featureID), zap.Error(err))
			return nil, err
		}
	}

	created, err := uc.items.Create(ctx, item)
	if err != nil {
		uc.logger.Error("promote feature failed", zap.String("feature_id", featureID), zap.Error(err))
		return nil, err
	}
	uc.logger.Info("feature promoted", zap.String("feature_id", featureID), zap.String("quarter", created.Quarter))
	return created, nil
}
