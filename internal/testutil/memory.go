// Package testutil provides in-memory repositories for use-case and handler tests.
package testutil

import (
	"context"
	"encoding/json"
	"errors"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/fastygo/trackdesk/domain"
	"github.com/fastygo/trackdesk/repository"
)

// ErrUnavailable is returned by every repository method while Fail is set.
var ErrUnavailable = errors.New("backend unavailable")

var (
	clockMu sync.Mutex
	clock   = time.Date(2026, 7, 1, 9, 0, 0, 0, time.UTC)
)

// tick returns a strictly increasing timestamp so ordering by created_at is
// deterministic.
func tick() time.Time {
	clockMu.Lock()
	defer clockMu.Unlock()
	clock = clock.Add(time.Second)
	return clock
}

// Users is an in-memory repository.UserRepository.
type Users struct {
	mu   sync.Mutex
	rows []domain.User
	Fail bool
}

func NewUsers(users ...domain.User) *Users {
	return &Users{rows: users}
}

func (r *Users) List(_ context.Context) ([]domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.Fail {
		return nil, ErrUnavailable
	}
	out := append([]domain.User(nil), r.rows...)
	sort.SliceStable(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (r *Users) GetByID(_ context.Context, id string) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.Fail {
		return nil, ErrUnavailable
	}
	for _, u := range r.rows {
		if u.ID == id {
			return &u, nil
		}
	}
	return nil, domain.ErrUserNotFound
}

func (r *Users) GetByEmail(_ context.Context, email string) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.Fail {
		return nil, ErrUnavailable
	}
	for _, u := range r.rows {
		if strings.EqualFold(u.Email, strings.TrimSpace(email)) {
			return &u, nil
		}
	}
	return nil, domain.ErrUserNotFound
}

func (r *Users) Update(_ context.Context, user *domain.User) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.Fail {
		return nil, ErrUnavailable
	}
	if err := user.Validate(); err != nil {
		return nil, err
	}
	for i := range r.rows {
		if r.rows[i].ID != user.ID && strings.EqualFold(r.rows[i].Email, user.Email) {
			return nil, domain.ErrEmailTaken
		}
	}
	for i := range r.rows {
		if r.rows[i].ID == user.ID {
			stored := *user
			stored.PasswordHash = r.rows[i].PasswordHash
			stored.CreatedAt = r.rows[i].CreatedAt
			stored.UpdatedAt = tick()
			r.rows[i] = stored
			return &stored, nil
		}
	}
	return nil, domain.ErrUserNotFound
}

func (r *Users) UpdateRoles(_ context.Context, ids []string, role domain.Role) ([]domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.Fail {
		return nil, ErrUnavailable
	}
	var out []domain.User
	for i := range r.rows {
		for _, id := range ids {
			if r.rows[i].ID == id {
				r.rows[i].Role = role
				r.rows[i].UpdatedAt = tick()
				out = append(out, r.rows[i])
			}
		}
	}
	return out, nil
}

func (r *Users) SetActive(_ context.Context, id string, active bool) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.Fail {
		return nil, ErrUnavailable
	}
	for i := range r.rows {
		if r.rows[i].ID == id {
			r.rows[i].IsActive = active
			r.rows[i].UpdatedAt = tick()
			u := r.rows[i]
			return &u, nil
		}
	}
	return nil, domain.ErrUserNotFound
}

func (r *Users) Count(_ context.Context) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.Fail {
		return 0, ErrUnavailable
	}
	return len(r.rows), nil
}

// Bugs is an in-memory repository.BugRepository.
type Bugs struct {
	mu   sync.Mutex
	rows map[string]domain.Bug
	Fail bool
}

func NewBugs(bugs ...domain.Bug) *Bugs {
	r := &Bugs{rows: make(map[string]domain.Bug)}
	for _, b := range bugs {
		r.rows[b.ID] = b
	}
	return r
}

func (r *Bugs) List(_ context.Context) ([]domain.Bug, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.Fail {
		return nil, ErrUnavailable
	}
	out := make([]domain.Bug, 0, len(r.rows))
	for _, b := range r.rows {
		out = append(out, b)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (r *Bugs) GetByID(_ context.Context, id string) (*domain.Bug, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.Fail {
		return nil, ErrUnavailable
	}
	b, ok := r.rows[id]
	if !ok {
		return nil, domain.ErrBugNotFound
	}
	return &b, nil
}

func (r *Bugs) Create(_ context.Context, bug *domain.Bug) (*domain.Bug, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.Fail {
		return nil, ErrUnavailable
	}
	if bug.ID == "" {
		bug.ID = uuid.NewString()
	}
	bug.CreatedAt = tick()
	bug.UpdatedAt = bug.CreatedAt
	r.rows[bug.ID] = *bug
	return bug, nil
}

func (r *Bugs) Update(_ context.Context, bug *domain.Bug) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.Fail {
		return ErrUnavailable
	}
	prev, ok := r.rows[bug.ID]
	if !ok {
		return domain.ErrBugNotFound
	}
	bug.ReporterID = prev.ReporterID
	bug.CreatedAt = prev.CreatedAt
	bug.UpdatedAt = tick()
	r.rows[bug.ID] = *bug
	return nil
}

func (r *Bugs) Delete(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.Fail {
		return ErrUnavailable
	}
	if _, ok := r.rows[id]; !ok {
		return domain.ErrBugNotFound
	}
	delete(r.rows, id)
	return nil
}

func (r *Bugs) Count(_ context.Context) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.Fail {
		return 0, ErrUnavailable
	}
	return len(r.rows), nil
}

// Features is an in-memory repository.FeatureRepository.
type Features struct {
	mu   sync.Mutex
	rows map[string]domain.FeatureRequest
	Fail bool
}

func NewFeatures(features ...domain.FeatureRequest) *Features {
	r := &Features{rows: make(map[string]domain.FeatureRequest)}
	for _, f := range features {
		r.rows[f.ID] = f
	}
	return r
}

func (r *Features) List(_ context.Context) ([]domain.FeatureRequest, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.Fail {
		return nil, ErrUnavailable
	}
	out := make([]domain.FeatureRequest, 0, len(r.rows))
	for _, f := range r.rows {
		out = append(out, f)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (r *Features) GetByID(_ context.Context, id string) (*domain.FeatureRequest, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.Fail {
		return nil, ErrUnavailable
	}
	f, ok := r.rows[id]
	if !ok {
		return nil, domain.ErrFeatureNotFound
	}
	return &f, nil
}

func (r *Features) Create(_ context.Context, feature *domain.FeatureRequest) (*domain.FeatureRequest, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.Fail {
		return nil, ErrUnavailable
	}
	if feature.ID == "" {
		feature.ID = uuid.NewString()
	}
	feature.CreatedAt = tick()
	feature.UpdatedAt = feature.CreatedAt
	r.rows[feature.ID] = *feature
	return feature, nil
}

func (r *Features) Update(_ context.Context, feature *domain.FeatureRequest) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.Fail {
		return ErrUnavailable
	}
	prev, ok := r.rows[feature.ID]
	if !ok {
		return domain.ErrFeatureNotFound
	}
	feature.Votes = prev.Votes
	feature.RequesterID = prev.RequesterID
	feature.CreatedAt = prev.CreatedAt
	feature.UpdatedAt = tick()
	r.rows[feature.ID] = *feature
	return nil
}

func (r *Features) Delete(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.Fail {
		return ErrUnavailable
	}
	if _, ok := r.rows[id]; !ok {
		return domain.ErrFeatureNotFound
	}
	delete(r.rows, id)
	return nil
}

func (r *Features) Vote(_ context.Context, id string) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.Fail {
		return 0, ErrUnavailable
	}
	f, ok := r.rows[id]
	if !ok {
		return 0, domain.ErrFeatureNotFound
	}
	f.Votes++
	r.rows[id] = f
	return f.Votes, nil
}

func (r *Features) Count(_ context.Context) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.Fail {
		return 0, ErrUnavailable
	}
	return len(r.rows), nil
}

// Roadmap is an in-memory repository.RoadmapRepository.
type Roadmap struct {
	mu   sync.Mutex
	rows map[string]domain.RoadmapItem
	Fail bool
}

func NewRoadmap(items ...domain.RoadmapItem) *Roadmap {
	r := &Roadmap{rows: make(map[string]domain.RoadmapItem)}
	for _, it := range items {
		r.rows[it.ID] = it
	}
	return r
}

func (r *Roadmap) List(_ context.Context) ([]domain.RoadmapItem, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.Fail {
		return nil, ErrUnavailable
	}
	out := make([]domain.RoadmapItem, 0, len(r.rows))
	for _, it := range r.rows {
		out = append(out, it)
	}
	sort.Slice(out, func(i, j int) bool {
		qi, _ := domain.ParseQuarter(out[i].Quarter)
		qj, _ := domain.ParseQuarter(out[j].Quarter)
		if qi != qj {
			return qi.Before(qj)
		}
		if out[i].Position != out[j].Position {
			return out[i].Position < out[j].Position
		}
		return out[i].ID < out[j].ID
	})
	return out, nil
}

func (r *Roadmap) GetByID(_ context.Context, id string) (*domain.RoadmapItem, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.Fail {
		return nil, ErrUnavailable
	}
	it, ok := r.rows[id]
	if !ok {
		return nil, domain.ErrRoadmapItemNotFound
	}
	return &it, nil
}

func (r *Roadmap) Create(_ context.Context, item *domain.RoadmapItem) (*domain.RoadmapItem, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.Fail {
		return nil, ErrUnavailable
	}
	if item.ID == "" {
		item.ID = uuid.NewString()
	}
	item.CreatedAt = tick()
	item.UpdatedAt = item.CreatedAt
	r.rows[item.ID] = *item
	return item, nil
}

func (r *Roadmap) Update(_ context.Context, item *domain.RoadmapItem) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.Fail {
		return ErrUnavailable
	}
	prev, ok := r.rows[item.ID]
	if !ok {
		return domain.ErrRoadmapItemNotFound
	}
	item.CreatedAt = prev.CreatedAt
	item.UpdatedAt = tick()
	r.rows[item.ID] = *item
	return nil
}

func (r *Roadmap) Delete(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.Fail {
		return ErrUnavailable
	}
	if _, ok := r.rows[id]; !ok {
		return domain.ErrRoadmapItemNotFound
	}
	delete(r.rows, id)
	return nil
}

func (r *Roadmap) Count(_ context.Context) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.Fail {
		return 0, ErrUnavailable
	}
	return len(r.rows), nil
}

// Settings is an in-memory repository.SettingsRepository.
type Settings struct {
	mu   sync.Mutex
	docs map[string][]byte
	at   map[string]time.Time
	Fail bool
}

func NewSettings() *Settings {
	return &Settings{docs: make(map[string][]byte), at: make(map[string]time.Time)}
}

func (r *Settings) Get(_ context.Context, key string, dest interface{}) (bool, time.Time, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.Fail {
		return false, time.Time{}, ErrUnavailable
	}
	doc, ok := r.docs[key]
	if !ok {
		return false, time.Time{}, nil
	}
	if err := json.Unmarshal(doc, dest); err != nil {
		return false, time.Time{}, err
	}
	return true, r.at[key], nil
}

func (r *Settings) Put(_ context.Context, key string, value interface{}) (time.Time, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.Fail {
		return time.Time{}, ErrUnavailable
	}
	doc, err := json.Marshal(value)
	if err != nil {
		return time.Time{}, err
	}
	r.docs[key] = doc
	r.at[key] = tick()
	return r.at[key], nil
}

// Mentions is an in-memory repository.MentionRepository.
type Mentions struct {
	mu   sync.Mutex
	rows []domain.Mention
	Fail bool
}

func NewMentions(mentions ...domain.Mention) *Mentions {
	return &Mentions{rows: mentions}
}

func (r *Mentions) Create(_ context.Context, m *domain.Mention) (*domain.Mention, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.Fail {
		return nil, ErrUnavailable
	}
	if m.ID == "" {
		m.ID = uuid.NewString()
	}
	m.IsRead = false
	m.CreatedAt = tick()
	r.rows = append(r.rows, *m)
	return m, nil
}

func (r *Mentions) ListForRecipient(_ context.Context, recipientID string, unreadOnly bool) ([]domain.Mention, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.Fail {
		return nil, ErrUnavailable
	}
	var out []domain.Mention
	for i := len(r.rows) - 1; i >= 0; i-- {
		m := r.rows[i]
		if m.RecipientID != recipientID || (unreadOnly && m.IsRead) {
			continue
		}
		out = append(out, m)
	}
	return out, nil
}

func (r *Mentions) MarkRead(_ context.Context, recipientID string, ids []string) ([]string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.Fail {
		return nil, ErrUnavailable
	}
	wanted := make(map[string]bool, len(ids))
	for _, id := range ids {
		wanted[id] = true
	}
	var updated []string
	for i := range r.rows {
		m := &r.rows[i]
		if m.RecipientID != recipientID || m.IsRead {
			continue
		}
		if len(ids) > 0 && !wanted[m.ID] {
			continue
		}
		m.IsRead = true
		updated = append(updated, m.ID)
	}
	return updated, nil
}

func (r *Mentions) CountUnread(_ context.Context, recipientID string) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.Fail {
		return 0, ErrUnavailable
	}
	n := 0
	for _, m := range r.rows {
		if m.RecipientID == recipientID && !m.IsRead {
			n++
		}
	}
	return n, nil
}

// Sessions is an in-memory repository.SessionRepository.
type Sessions struct {
	mu   sync.Mutex
	rows map[string]domain.Session
}

func NewSessions() *Sessions {
	return &Sessions{rows: make(map[string]domain.Session)}
}

func (r *Sessions) Get(_ context.Context, id string) (*domain.Session, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	s, ok := r.rows[id]
	if !ok {
		return nil, domain.ErrSessionNotFound
	}
	return &s, nil
}

func (r *Sessions) Save(_ context.Context, s *domain.Session) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if s == nil || s.ID == "" {
		return domain.ErrInvalidPayload
	}
	r.rows[s.ID] = *s
	return nil
}

func (r *Sessions) Delete(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.rows, id)
	return nil
}

func (r *Sessions) Extend(_ context.Context, id string, ttlSeconds int) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	s, ok := r.rows[id]
	if !ok {
		return domain.ErrSessionNotFound
	}
	s.ExpiresAt = time.Now().Add(time.Duration(ttlSeconds) * time.Second)
	r.rows[id] = s
	return nil
}

// Publisher records published mention events.
type Publisher struct {
	mu     sync.Mutex
	Events []domain.MentionEvent
	Fail   bool
}

func (p *Publisher) PublishMention(_ context.Context, event domain.MentionEvent) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.Fail {
		return ErrUnavailable
	}
	p.Events = append(p.Events, event)
	return nil
}

// Published returns a copy of the recorded events.
func (p *Publisher) Published() []domain.MentionEvent {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]domain.MentionEvent(nil), p.Events...)
}

var (
	_ repository.UserRepository     = (*Users)(nil)
	_ repository.BugRepository      = (*Bugs)(nil)
	_ repository.FeatureRepository  = (*Features)(nil)
	_ repository.RoadmapRepository  = (*Roadmap)(nil)
	_ repository.SettingsRepository = (*Settings)(nil)
	_ repository.MentionRepository  = (*Mentions)(nil)
	_ repository.SessionRepository  = (*Sessions)(nil)
)
