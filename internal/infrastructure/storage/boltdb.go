package storage

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	bolt "go.etcd.io/bbolt"

	"github.com/fastygo/trackdesk/domain"
	"github.com/fastygo/trackdesk/repository"
)

var (
	metaBucket  = []byte("attachment_meta")
	dataBucket  = []byte("attachment_data")
	indexBucket = []byte("attachment_index")
)

// Store keeps bug attachments in a single BoltDB file. Metadata is keyed
// "<bug_id>/<attachment_id>" so a bug's files are one cursor range.
type Store struct {
	db *bolt.DB
}

// Open initializes the BoltDB file and ensures the buckets exist.
func Open(path string) (*Store, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, err
	}
	db, err := bolt.Open(path, 0o600, &bolt.Options{Timeout: time.Second})
	if err != nil {
		return nil, err
	}

	if err := db.Update(func(tx *bolt.Tx) error {
		for _, name := range [][]byte{metaBucket, dataBucket, indexBucket} {
			if _, err := tx.CreateBucketIfNotExists(name); err != nil {
				return err
			}
		}
		return nil
	}); err != nil {
		db.Close()
		return nil, err
	}

	return &Store{db: db}, nil
}

// Save writes the metadata and content of one attachment.
func (s *Store) Save(meta domain.Attachment, data []byte) error {
	if s == nil || s.db == nil {
		return bolt.ErrDatabaseNotOpen
	}
	if meta.BugID == "" || strings.Contains(meta.BugID, "/") {
		return domain.ErrInvalidPayload
	}
	if meta.ID == "" {
		meta.ID = uuid.NewString()
	}
	if meta.CreatedAt.IsZero() {
		meta.CreatedAt = time.Now().UTC()
	}
	meta.Size = int64(len(data))

	payload, err := json.Marshal(meta)
	if err != nil {
		return err
	}
	key := metaKey(meta.BugID, meta.ID)

	return s.db.Update(func(tx *bolt.Tx) error {
		if err := tx.Bucket(metaBucket).Put(key, payload); err != nil {
			return err
		}
		if err := tx.Bucket(dataBucket).Put([]byte(meta.ID), data); err != nil {
			return err
		}
		return tx.Bucket(indexBucket).Put([]byte(meta.ID), key)
	})
}

// List returns the attachments of one bug in key order.
func (s *Store) List(bugID string) ([]domain.Attachment, error) {
	if s == nil || s.db == nil {
		return nil, bolt.ErrDatabaseNotOpen
	}
	prefix := []byte(bugID + "/")

	var items []domain.Attachment
	err := s.db.View(func(tx *bolt.Tx) error {
		c := tx.Bucket(metaBucket).Cursor()
		for k, v := c.Seek(prefix); k != nil && bytes.HasPrefix(k, prefix); k, v = c.Next() {
			var meta domain.Attachment
			if err := json.Unmarshal(v, &meta); err != nil {
				continue
			}
			items = append(items, meta)
		}
		return nil
	})
	return items, err
}

// Get returns the metadata and a copy of the content.
func (s *Store) Get(id string) (*domain.Attachment, []byte, error) {
	if s == nil || s.db == nil {
		return nil, nil, bolt.ErrDatabaseNotOpen
	}

	var (
		meta domain.Attachment
		data []byte
	)
	err := s.db.View(func(tx *bolt.Tx) error {
		key := tx.Bucket(indexBucket).Get([]byte(id))
		if key == nil {
			return domain.ErrAttachmentNotFound
		}
		raw := tx.Bucket(metaBucket).Get(key)
		if raw == nil {
			return domain.ErrAttachmentNotFound
		}
		if err := json.Unmarshal(raw, &meta); err != nil {
			return err
		}
		// bolt values are only valid inside the transaction
		data = append([]byte(nil), tx.Bucket(dataBucket).Get([]byte(id))...)
		return nil
	})
	if err != nil {
		return nil, nil, err
	}
	return &meta, data, nil
}

// Delete removes one attachment.
func (s *Store) Delete(id string) error {
	if s == nil || s.db == nil {
		return bolt.ErrDatabaseNotOpen
	}
	return s.db.Update(func(tx *bolt.Tx) error {
		index := tx.Bucket(indexBucket)
		key := index.Get([]byte(id))
		if key == nil {
			return domain.ErrAttachmentNotFound
		}
		if err := tx.Bucket(metaBucket).Delete(key); err != nil {
			return err
		}
		if err := tx.Bucket(dataBucket).Delete([]byte(id)); err != nil {
			return err
		}
		return index.Delete([]byte(id))
	})
}

// BugIDs lists every bug that owns at least one attachment.
func (s *Store) BugIDs() ([]string, error) {
	if s == nil || s.db == nil {
		return nil, bolt.ErrDatabaseNotOpen
	}

	var ids []string
	err := s.db.View(func(tx *bolt.Tx) error {
		c := tx.Bucket(metaBucket).Cursor()
		for k, _ := c.First(); k != nil; k, _ = c.Next() {
			bugID, _, ok := strings.Cut(string(k), "/")
			if !ok {
				continue
			}
			// keys are sorted, so duplicates are adjacent
			if n := len(ids); n > 0 && ids[n-1] == bugID {
				continue
			}
			ids = append(ids, bugID)
		}
		return nil
	})
	return ids, err
}

// DeleteForBug removes every attachment of bugID and reports how many went.
func (s *Store) DeleteForBug(bugID string) (int, error) {
	if s == nil || s.db == nil {
		return 0, bolt.ErrDatabaseNotOpen
	}
	prefix := []byte(bugID + "/")

	var removed int
	err := s.db.Update(func(tx *bolt.Tx) error {
		meta := tx.Bucket(metaBucket)
		data := tx.Bucket(dataBucket)
		index := tx.Bucket(indexBucket)

		var keys [][]byte
		c := meta.Cursor()
		for k, _ := c.Seek(prefix); k != nil && bytes.HasPrefix(k, prefix); k, _ = c.Next() {
			keys = append(keys, append([]byte(nil), k...))
		}
		for _, k := range keys {
			id := k[len(prefix):]
			if err := meta.Delete(k); err != nil {
				return err
			}
			if err := data.Delete(id); err != nil {
				return err
			}
			if err := index.Delete(id); err != nil {
				return err
			}
			removed++
		}
		return nil
	})
	return removed, err
}

// Size returns the number of stored attachments.
func (s *Store) Size() (int, error) {
	if s == nil || s.db == nil {
		return 0, bolt.ErrDatabaseNotOpen
	}
	var count int
	err := s.db.View(func(tx *bolt.Tx) error {
		count = tx.Bucket(indexBucket).Stats().KeyN
		return nil
	})
	return count, err
}

// Close closes the Bolt database.
func (s *Store) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

// Stats exposes Bolt statistics for monitoring endpoints.
func (s *Store) Stats() bolt.Stats {
	if s == nil || s.db == nil {
		return bolt.Stats{}
	}
	return s.db.Stats()
}

func metaKey(bugID, id string) []byte {
	return []byte(bugID + "/" + id)
}

var _ repository.AttachmentStore = (*Store)(nil)
