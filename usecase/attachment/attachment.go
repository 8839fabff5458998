package attachment

import (
	"context"
	"net/http"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/fastygo/trackdesk/domain"
	"github.com/fastygo/trackdesk/repository"
)

const DefaultMaxSize int64 = 10 << 20

type UseCase struct {
	bugs    repository.BugRepository
	store   repository.AttachmentStore
	maxSize int64
	logger  *zap.Logger
}

func New(bugs repository.BugRepository, store repository.AttachmentStore, maxSize int64, logger *zap.Logger) *UseCase {
	if logger == nil {
		logger = zap.NewNop()
	}
	if maxSize <= 0 {
		maxSize = DefaultMaxSize
	}
	return &UseCase{bugs: bugs, store: store, maxSize: maxSize, logger: logger}
}

// Upload stores data against an existing bug. An empty contentType is
// sniffed from the content.
func (uc *UseCase) Upload(ctx context.Context, bugID, name, contentType string, data []byte) (*domain.Attachment, error) {
	if len(data) == 0 {
		return nil, domain.Invalidf("attachment is empty")
	}
	if int64(len(data)) > uc.maxSize {
		return nil, domain.ErrAttachmentTooLarge
	}
	if _, err := uc.bugs.GetByID(ctx, bugID); err != nil {
		return nil, err
	}

	name = sanitizeName(name)
	if name == "" {
		return nil, domain.Invalidf("file name is required")
	}
	contentType = strings.TrimSpace(contentType)
	if contentType == "" || contentType == "application/octet-stream" {
		contentType = http.DetectContentType(data)
	}

	meta := domain.Attachment{
		ID:          uuid.NewString(),
		BugID:       bugID,
		FileName:    name,
		ContentType: contentType,
		Size:        int64(len(data)),
		CreatedAt:   time.Now().UTC(),
	}
	if err := uc.store.Save(meta, data); err != nil {
		uc.logger.Error("store attachment failed", zap.String("bug_id", bugID), zap.Error(err))
		return nil, err
	}
	uc.logger.Info("attachment stored",
		zap.String("bug_id", bugID),
		zap.String("attachment_id", meta.ID),
		zap.Int64("size", meta.Size),
	)
	return &meta, nil
}

func (uc *UseCase) List(ctx context.Context, bugID string) ([]domain.Attachment, error) {
	if _, err := uc.bugs.GetByID(ctx, bugID); err != nil {
		return nil, err
	}
	list, err := uc.store.List(bugID)
	if err != nil {
		uc.logger.Error("list attachments failed", zap.String("bug_id", bugID), zap.Error(err))
		return nil, err
	}
	if list == nil {
		list = []domain.Attachment{}
	}
	return list, nil
}

func (uc *UseCase) Download(_ context.Context, id string) (*domain.Attachment, []byte, error) {
	return uc.store.Get(id)
}

func (uc *UseCase) Delete(_ context.Context, id string) error {
	if err := uc.store.Delete(id); err != nil {
		if !domain.IsDomainError(err, domain.ErrCodeNotFound) {
			uc.logger.Error("delete attachment failed", zap.String("attachment_id", id), zap.Error(err))
		}
		return err
	}
	return nil
}

func sanitizeName(name string) string {
	name = strings.TrimSpace(strings.ReplaceAll(name, "\\", "/"))
	if name == "" {
		return ""
	}
	name = filepath.Base(name)
	if name == "." || name == "/" || name == ".." {
		return ""
	}
	return name
}
