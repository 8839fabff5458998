package mention

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/fastygo/trackdesk/domain"
	"github.com/fastygo/trackdesk/repository"
	"github.com/fastygo/trackdesk/usecase"
)

type UseCase struct {
	mentions  repository.MentionRepository
	users     repository.UserRepository
	publisher usecase.MentionPublisher
	logger    *zap.Logger
}

func New(mentions repository.MentionRepository, users repository.UserRepository, publisher usecase.MentionPublisher, logger *zap.Logger) *UseCase {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &UseCase{
		mentions:  mentions,
		users:     users,
		publisher: publisher,
		logger:    logger,
	}
}

// Create stores a mention and announces it on the recipient's channel.
// The mention is kept even if the announcement fails.
func (uc *UseCase) Create(ctx context.Context, m *domain.Mention) (*domain.Mention, error) {
	if err := m.Validate(); err != nil {
		return nil, err
	}
	recipient, err := uc.users.GetByID(ctx, m.RecipientID)
	if err != nil {
		return nil, err
	}
	if !recipient.IsActive {
		return nil, domain.Invalidf("cannot mention an inactive user")
	}

	created, err := uc.mentions.Create(ctx, m)
	if err != nil {
		uc.logger.Error("create mention failed", zap.String("recipient_id", m.RecipientID), zap.Error(err))
		return nil, err
	}
	uc.publish(ctx, domain.MentionEventInsert, created.RecipientID, []string{created.ID})
	return created, nil
}

func (uc *UseCase) List(ctx context.Context, recipientID string, unreadOnly bool) ([]domain.Mention, error) {
	list, err := uc.mentions.ListForRecipient(ctx, recipientID, unreadOnly)
	if err != nil {
		uc.logger.Error("list mentions failed", zap.String("recipient_id", recipientID), zap.Error(err))
		return nil, err
	}
	if list == nil {
		list = []domain.Mention{}
	}
	return list, nil
}

// MarkRead flags mentions as read; an empty ids slice marks everything.
// It returns the ids that actually changed.
func (uc *UseCase) MarkRead(ctx context.Context, recipientID string, ids []string) ([]string, error) {
	updated, err := uc.mentions.MarkRead(ctx, recipientID, ids)
	if err != nil {
		uc.logger.Error("mark mentions read failed", zap.String("recipient_id", recipientID), zap.Error(err))
		return nil, err
	}
	if len(updated) > 0 {
		uc.publish(ctx, domain.MentionEventUpdate, recipientID, updated)
	}
	if updated == nil {
		updated = []string{}
	}
	return updated, nil
}

func (uc *UseCase) UnreadCount(ctx context.Context, recipientID string) (int, error) {
	return uc.mentions.CountUnread(ctx, recipientID)
}

func (uc *UseCase) publish(ctx context.Context, kind, recipientID string, ids []string) {
	if uc.publisher == nil {
		return
	}
	event := domain.MentionEvent{
		Type:        kind,
		RecipientID: recipientID,
		MentionIDs:  ids,
		At:          time.Now().UTC(),
	}
	if err := uc.publisher.PublishMention(ctx, event); err != nil {
		uc.logger.Warn("publish mention event failed",
			zap.String("recipient_id", recipientID),
			zap.String("type", kind),
			zap.Error(err),
		)
	}
}
