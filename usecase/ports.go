package usecase

import (
	"context"
	"strings"

	"golang.org/x/text/cases"

	"github.com/fastygo/trackdesk/domain"
)

// MentionPublisher pushes change events onto a recipient's realtime channel.
type MentionPublisher interface {
	PublishMention(ctx context.Context, event domain.MentionEvent) error
}

// ContainsFold reports whether any of fields contains needle under Unicode
// case folding. An empty needle matches everything.
func ContainsFold(needle string, fields ...string) bool {
	needle = strings.TrimSpace(needle)
	if needle == "" {
		return true
	}
	fold := cases.Fold()
	needle = fold.String(needle)
	for _, f := range fields {
		if f != "" && strings.Contains(fold.String(f), needle) {
			return true
		}
	}
	return false
}
