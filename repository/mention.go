package repository

import (
	"context"

	"github.com/fastygo/trackdesk/domain"
)

type MentionRepository interface {
	Create(ctx context.Context, mention *domain.Mention) (*domain.Mention, error)
	ListForRecipient(ctx context.Context, recipientID string, unreadOnly bool) ([]domain.Mention, error)
	// MarkRead flags the given mentions of recipientID as read. An empty id
	// list marks all of them.
	MarkRead(ctx context.Context, recipientID string, ids []string) ([]string, error)
	CountUnread(ctx context.Context, recipientID string) (int, error)
}
