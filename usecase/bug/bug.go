package bug

import (
	"context"

	"go.uber.org/zap"

	"github.com/fastygo/trackdesk/domain"
	"github.com/fastygo/trackdesk/repository"
	"github.com/fastygo/trackdesk/usecase"
)

// Filter narrows the bug list. Zero values mean "any".
type Filter struct {
	Status     domain.BugStatus
	Priority   domain.Priority
	AssigneeID string
	ReporterID string
	Search     string
}

type UseCase struct {
	bugs        repository.BugRepository
	attachments repository.AttachmentStore
	logger      *zap.Logger
}

func New(bugs repository.BugRepository, attachments repository.AttachmentStore, logger *zap.Logger) *UseCase {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &UseCase{
		bugs:        bugs,
		attachments: attachments,
		logger:      logger,
	}
}

func (uc *UseCase) List(ctx context.Context, f Filter) ([]domain.Bug, error) {
	all, err := uc.bugs.List(ctx)
	if err != nil {
		uc.logger.Error("list bugs failed", zap.Error(err))
		return nil, err
	}

	out := make([]domain.Bug, 0, len(all))
	for _, b := range all {
		if f.Status != "" && b.Status != f.Status {
			continue
		}
		if f.Priority != "" && b.Priority != f.Priority {
			continue
		}
		if f.ReporterID != "" && b.ReporterID != f.ReporterID {
			continue
		}
		if f.AssigneeID != "" && (b.AssigneeID == nil || *b.AssigneeID != f.AssigneeID) {
			continue
		}
		if !usecase.ContainsFold(f.Search, b.Title, b.Description) {
			continue
		}
		out = append(out, b)
	}
	return out, nil
}

func (uc *UseCase) Get(ctx context.Context, id string) (*domain.Bug, error) {
	return uc.bugs.GetByID(ctx, id)
}

func (uc *UseCase) Create(ctx context.Context, bug *domain.Bug) (*domain.Bug, error) {
	if bug == nil {
		return nil, domain.ErrInvalidPayload
	}
	bug.ID = ""
	bug.Normalize()
	if err := bug.Validate(); err != nil {
		return nil, err
	}
	if bug.ReporterID == "" {
		return nil, domain.Invalidf("reporter is required")
	}

	created, err := uc.bugs.Create(ctx, bug)
	if err != nil {
		uc.logger.Error("create bug failed", zap.Error(err))
		return nil, err
	}
	uc.logger.Info("bug created", zap.String("bug_id", created.ID), zap.String("priority", string(created.Priority)))
	return created, nil
}

func (uc *UseCase) Update(ctx context.Context, bug *domain.Bug) (*domain.Bug, error) {
	if bug == nil || bug.ID == "" {
		return nil, domain.ErrInvalidPayload
	}
	bug.Normalize()
	if err := bug.Validate(); err != nil {
		return nil, err
	}
	if err := uc.bugs.Update(ctx, bug); err != nil {
		uc.logger.Error("update bug failed", zap.String("bug_id", bug.ID), zap.Error(err))
		return nil, err
	}
	return bug, nil
}

// Delete removes the bug and any attachments stored for it.
func (uc *UseCase) Delete(ctx context.Context, id string) error {
	if err := uc.bugs.Delete(ctx, id); err != nil {
		uc.logger.Error("delete bug failed", zap.String("bug_id", id), zap.Error(err))
		return err
	}
	if uc.attachments != nil {
		// leftovers are collected by the janitor
		if n, err := uc.attachments.DeleteForBug(id); err != nil {
			uc.logger.Warn("removing bug attachments failed", zap.String("bug_id", id), zap.Error(err))
		} else if n > 0 {
			uc.logger.Info("bug attachments removed", zap.String("bug_id", id), zap.Int("count", n))
		}
	}
	return nil
}
