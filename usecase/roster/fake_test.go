package roster

import (
	"context"
	"errors"
	"strings"
	"sync"
	"time"

	"github.com/fastygo/trackdesk/domain"
)

var errBackend = errors.New("backend unavailable")

// fakeStore is an in-memory users table that records every dispatched call.
type fakeStore struct {
	mu      sync.Mutex
	users   []domain.User
	failAll bool
	calls   []string
}

func newFakeStore(users ...domain.User) *fakeStore {
	return &fakeStore{users: users}
}

func (f *fakeStore) record(call string) error {
	f.calls = append(f.calls, call)
	if f.failAll {
		return errBackend
	}
	return nil
}

func (f *fakeStore) List(_ context.Context) ([]domain.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.record("list"); err != nil {
		return nil, err
	}
	return append([]domain.User(nil), f.users...), nil
}

func (f *fakeStore) Update(_ context.Context, user *domain.User) (*domain.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.record("update"); err != nil {
		return nil, err
	}
	for i := range f.users {
		if f.users[i].ID != user.ID && strings.EqualFold(f.users[i].Email, user.Email) {
			return nil, domain.ErrEmailTaken
		}
	}
	for i := range f.users {
		if f.users[i].ID == user.ID {
			stored := *user
			stored.UpdatedAt = f.users[i].UpdatedAt.Add(time.Minute)
			f.users[i] = stored
			return &stored, nil
		}
	}
	return nil, domain.ErrUserNotFound
}

func (f *fakeStore) UpdateRoles(_ context.Context, ids []string, role domain.Role) ([]domain.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.record("update_roles"); err != nil {
		return nil, err
	}
	var out []domain.User
	for _, id := range ids {
		for i := range f.users {
			if f.users[i].ID == id {
				f.users[i].Role = role
				out = append(out, f.users[i])
			}
		}
	}
	return out, nil
}

func (f *fakeStore) SetActive(_ context.Context, id string, active bool) (*domain.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.record("set_active"); err != nil {
		return nil, err
	}
	for i := range f.users {
		if f.users[i].ID == id {
			f.users[i].IsActive = active
			u := f.users[i]
			return &u, nil
		}
	}
	return nil, domain.ErrUserNotFound
}

func (f *fakeStore) dispatched() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.calls...)
}

var base = time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)

// sampleUsers returns the three-user roster in fetch order (newest first).
func sampleUsers() []domain.User {
	return []domain.User{
		{ID: "a", Email: "alice@example.com", FullName: "alice", Role: domain.RoleAdmin, IsActive: true, CreatedAt: base.Add(3 * time.Hour)},
		{ID: "b", Email: "bob@example.com", FullName: "bob", Nickname: "bobby", Role: domain.RoleDeveloper, IsActive: false, CreatedAt: base.Add(2 * time.Hour)},
		{ID: "c", Email: "carol@example.com", FullName: "carol", Role: domain.RoleUser, IsActive: true, CreatedAt: base.Add(1 * time.Hour)},
	}
}

func names(users []domain.User) []string {
	out := make([]string, 0, len(users))
	for _, u := range users {
		out = append(out, u.FullName)
	}
	return out
}
