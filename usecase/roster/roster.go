package roster

import (
	"context"
	"errors"
	"net/mail"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/fastygo/trackdesk/domain"
)

// Store is the part of the users table the roster talks to.
type Store interface {
	List(ctx context.Context) ([]domain.User, error)
	Update(ctx context.Context, user *domain.User) (*domain.User, error)
	UpdateRoles(ctx context.Context, ids []string, role domain.Role) ([]domain.User, error)
	SetActive(ctx context.Context, id string, active bool) (*domain.User, error)
}

// Mode is the edit-buffer state of a roster.
type Mode string

const (
	ModeViewing Mode = "viewing"
	ModeEditing Mode = "editing"
)

// Patch carries the draft fields an operator changed. Nil fields are left alone.
type Patch struct {
	Email    *string `json:"email,omitempty"`
	FullName *string `json:"full_name,omitempty"`
	Nickname *string `json:"nickname,omitempty"`
	Role     *string `json:"role,omitempty"`
	IsActive *bool   `json:"is_active,omitempty"`
}

// Draft is the scratch copy of the row under edit.
type Draft struct {
	Original domain.User `json:"original"`
	Current  domain.User `json:"current"`
}

// Dirty reports whether any field differs from the row that was copied.
func (d Draft) Dirty() bool {
	a, b := d.Original, d.Current
	return a.Email != b.Email || a.FullName != b.FullName || a.Nickname != b.Nickname ||
		a.Role != b.Role || a.IsActive != b.IsActive
}

// Roster is one operator's in-memory view of the user table together with
// its edit buffer. All methods are safe for concurrent use; mutations are
// serialised so at most one request per roster is in flight.
type Roster struct {
	store      Store
	operatorID string
	logger     *zap.Logger

	mu       sync.Mutex
	records  []domain.User
	loaded   bool
	loadedAt time.Time
	draft    *Draft
}

func New(store Store, operatorID string, logger *zap.Logger) *Roster {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Roster{
		store:      store,
		operatorID: operatorID,
		logger:     logger.With(zap.String("operator_id", operatorID)),
	}
}

// Load fetches every row. On failure the previously loaded records stay as they were.
func (r *Roster) Load(ctx context.Context) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.load(ctx)
}

// Ensure loads the roster when it has never been loaded or refresh is set.
func (r *Roster) Ensure(ctx context.Context, refresh bool) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.loaded && !refresh {
		return nil
	}
	return r.load(ctx)
}

func (r *Roster) load(ctx context.Context) error {
	users, err := r.store.List(ctx)
	if err != nil {
		r.logger.Error("roster load failed", zap.Error(err))
		return domain.WrapError(domain.ErrCodeInternal, "failed to load users", err)
	}
	r.records = users
	r.loaded = true
	r.loadedAt = time.Now()
	return nil
}

// LoadedAt returns when the roster was last fetched; zero if never.
func (r *Roster) LoadedAt() time.Time {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.loadedAt
}

// View applies q to a snapshot of the loaded records.
func (r *Roster) View(q Query) []domain.User {
	r.mu.Lock()
	snapshot := append([]domain.User(nil), r.records...)
	r.mu.Unlock()
	return Apply(snapshot, q)
}

// Records returns a copy of the loaded rows in fetch order.
func (r *Roster) Records() []domain.User {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]domain.User(nil), r.records...)
}

func (r *Roster) Mode() Mode {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.draft != nil {
		return ModeEditing
	}
	return ModeViewing
}

// Draft returns the current edit buffer, if any.
func (r *Roster) Draft() (Draft, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.draft == nil {
		return Draft{}, false
	}
	return *r.draft, true
}

// BeginEdit copies row id into the edit buffer. Re-entering the row already
// under edit returns the existing draft.
func (r *Roster) BeginEdit(id string) (Draft, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.draft != nil {
		if r.draft.Original.ID == id {
			return *r.draft, nil
		}
		return Draft{}, domain.ErrAlreadyEditing
	}

	idx := r.indexOf(id)
	if idx < 0 {
		return Draft{}, domain.ErrUserNotFound
	}
	row := r.records[idx]
	r.draft = &Draft{Original: row, Current: row}
	return *r.draft, nil
}

// Edit applies p to the draft. Nothing is validated or sent until Save.
func (r *Roster) Edit(p Patch) (Draft, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.draft == nil {
		return Draft{}, domain.ErrNotEditing
	}
	p.apply(&r.draft.Current)
	return *r.draft, nil
}

func (p Patch) apply(u *domain.User) {
	if p.Email != nil {
		u.Email = strings.TrimSpace(*p.Email)
	}
	if p.FullName != nil {
		u.FullName = strings.TrimSpace(*p.FullName)
	}
	if p.Nickname != nil {
		u.Nickname = strings.TrimSpace(*p.Nickname)
	}
	if p.Role != nil {
		u.Role = domain.Role(strings.TrimSpace(*p.Role))
	}
	if p.IsActive != nil {
		u.IsActive = *p.IsActive
	}
}

// Cancel discards the edit buffer.
func (r *Roster) Cancel() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.draft == nil {
		return domain.ErrNotEditing
	}
	r.draft = nil
	return nil
}

// Save validates the draft, sends it as an update-by-id and merges the
// stored row. Validation failures leave both the records and the draft as
// they were; a failed update keeps the roster in editing mode.
func (r *Roster) Save(ctx context.Context) (domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.draft == nil {
		return domain.User{}, domain.ErrNotEditing
	}
	candidate := r.draft.Current
	if err := r.validate(r.draft.Original, candidate); err != nil {
		return domain.User{}, err
	}

	stored, err := r.store.Update(ctx, &candidate)
	if err != nil {
		r.logger.Error("user update failed", zap.String("user_id", candidate.ID), zap.Error(err))
		return domain.User{}, wrapStoreError("failed to save user", err)
	}

	r.merge(*stored)
	r.draft = nil
	r.logger.Info("user updated", zap.String("user_id", stored.ID), zap.String("role", string(stored.Role)))
	return *stored, nil
}

// Update applies p to row id and saves it in one step, bypassing the edit
// buffer. It is refused while a draft is open; the draft is left untouched.
func (r *Roster) Update(ctx context.Context, id string, p Patch) (domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.draft != nil {
		return domain.User{}, domain.ErrAlreadyEditing
	}
	idx := r.indexOf(id)
	if idx < 0 {
		return domain.User{}, domain.ErrUserNotFound
	}
	original := r.records[idx]
	candidate := original
	p.apply(&candidate)
	if err := r.validate(original, candidate); err != nil {
		return domain.User{}, err
	}

	stored, err := r.store.Update(ctx, &candidate)
	if err != nil {
		r.logger.Error("user update failed", zap.String("user_id", candidate.ID), zap.Error(err))
		return domain.User{}, wrapStoreError("failed to save user", err)
	}
	r.merge(*stored)
	r.logger.Info("user updated", zap.String("user_id", stored.ID), zap.String("role", string(stored.Role)))
	return *stored, nil
}

func (r *Roster) validate(original, u domain.User) error {
	if !u.Role.Valid() {
		return domain.ErrInvalidRole
	}
	if _, err := mail.ParseAddress(u.Email); err != nil {
		return domain.Invalidf("email %q is not a valid address", u.Email)
	}
	if u.ID == r.operatorID {
		if u.Role != domain.RoleAdmin && original.Role == domain.RoleAdmin {
			return domain.ErrSelfDemotion
		}
		if !u.IsActive {
			return domain.ErrSelfDeactivation
		}
	}
	return nil
}

// BulkSetRole assigns role to every id in one batched request. Including the
// operator's own id with a non-admin role is refused before dispatch.
func (r *Roster) BulkSetRole(ctx context.Context, ids []string, role string) ([]domain.User, error) {
	target, err := domain.ParseRole(strings.TrimSpace(role))
	if err != nil {
		return nil, err
	}
	ids = dedupe(ids)
	if len(ids) == 0 {
		return nil, domain.Invalidf("no users selected")
	}
	if target != domain.RoleAdmin {
		for _, id := range ids {
			if id == r.operatorID {
				return nil, domain.ErrSelfDemotion
			}
		}
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	updated, err := r.store.UpdateRoles(ctx, ids, target)
	if err != nil {
		r.logger.Error("bulk role update failed", zap.Int("count", len(ids)), zap.Error(err))
		return nil, wrapStoreError("failed to update roles", err)
	}
	for _, u := range updated {
		r.merge(u)
	}
	r.logger.Info("bulk role update", zap.Int("count", len(updated)), zap.String("role", string(target)))
	return updated, nil
}

// SetActive flips the soft-delete flag of one user. Operators cannot
// deactivate themselves.
func (r *Roster) SetActive(ctx context.Context, id string, active bool) (domain.User, error) {
	if id == "" {
		return domain.User{}, domain.ErrInvalidPayload
	}
	if !active && id == r.operatorID {
		return domain.User{}, domain.ErrSelfDeactivation
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	stored, err := r.store.SetActive(ctx, id, active)
	if err != nil {
		r.logger.Error("user activation change failed", zap.String("user_id", id), zap.Bool("active", active), zap.Error(err))
		return domain.User{}, wrapStoreError("failed to change user status", err)
	}
	r.merge(*stored)
	return *stored, nil
}

func (r *Roster) indexOf(id string) int {
	for i := range r.records {
		if r.records[i].ID == id {
			return i
		}
	}
	return -1
}

// merge replaces the row with the authoritative copy, or prepends it when
// the row is new to this roster.
func (r *Roster) merge(u domain.User) {
	if idx := r.indexOf(u.ID); idx >= 0 {
		r.records[idx] = u
		return
	}
	r.records = append([]domain.User{u}, r.records...)
}

func dedupe(ids []string) []string {
	seen := make(map[string]struct{}, len(ids))
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		id = strings.TrimSpace(id)
		if id == "" {
			continue
		}
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}

// wrapStoreError keeps domain errors from the store intact and classifies
// everything else as internal.
func wrapStoreError(message string, err error) error {
	var dErr *domain.Error
	if errors.As(err, &dErr) {
		return err
	}
	return domain.WrapError(domain.ErrCodeInternal, message, err)
}
