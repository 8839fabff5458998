package testutil

import (
	"sort"
	"sync"

	"github.com/fastygo/trackdesk/domain"
	"github.com/fastygo/trackdesk/repository"
)

// Attachments is an in-memory repository.AttachmentStore.
type Attachments struct {
	mu   sync.Mutex
	meta map[string]domain.Attachment
	data map[string][]byte
	Fail bool
}

func NewAttachments() *Attachments {
	return &Attachments{
		meta: make(map[string]domain.Attachment),
		data: make(map[string][]byte),
	}
}

func (s *Attachments) Save(meta domain.Attachment, data []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Fail {
		return ErrUnavailable
	}
	s.meta[meta.ID] = meta
	s.data[meta.ID] = append([]byte(nil), data...)
	return nil
}

func (s *Attachments) List(bugID string) ([]domain.Attachment, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Fail {
		return nil, ErrUnavailable
	}
	var out []domain.Attachment
	for _, m := range s.meta {
		if m.BugID == bugID {
			out = append(out, m)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (s *Attachments) Get(id string) (*domain.Attachment, []byte, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Fail {
		return nil, nil, ErrUnavailable
	}
	m, ok := s.meta[id]
	if !ok {
		return nil, nil, domain.ErrAttachmentNotFound
	}
	return &m, append([]byte(nil), s.data[id]...), nil
}

func (s *Attachments) Delete(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Fail {
		return ErrUnavailable
	}
	if _, ok := s.meta[id]; !ok {
		return domain.ErrAttachmentNotFound
	}
	delete(s.meta, id)
	delete(s.data, id)
	return nil
}

func (s *Attachments) BugIDs() ([]string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Fail {
		return nil, ErrUnavailable
	}
	seen := make(map[string]bool)
	var out []string
	for _, m := range s.meta {
		if !seen[m.BugID] {
			seen[m.BugID] = true
			out = append(out, m.BugID)
		}
	}
	sort.Strings(out)
	return out, nil
}

func (s *Attachments) DeleteForBug(bugID string) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Fail {
		return 0, ErrUnavailable
	}
	n := 0
	for id, m := range s.meta {
		if m.BugID == bugID {
			delete(s.meta, id)
			delete(s.data, id)
			n++
		}
	}
	return n, nil
}

var _ repository.AttachmentStore = (*Attachments)(nil)
