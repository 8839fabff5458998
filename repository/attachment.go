package repository

import "github.com/fastygo/trackdesk/domain"

// AttachmentStore persists uploaded files and their metadata.
type AttachmentStore interface {
	Save(meta domain.Attachment, data []byte) error
	List(bugID string) ([]domain.Attachment, error)
	Get(id string) (*domain.Attachment, []byte, error)
	Delete(id string) error
	// BugIDs returns every bug id that owns at least one attachment.
	BugIDs() ([]string, error)
	DeleteForBug(bugID string) (int, error)
}
