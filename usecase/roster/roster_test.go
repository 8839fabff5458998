package roster

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fastygo/trackdesk/domain"
)

func strPtr(s string) *string { return &s }
func boolPtr(b bool) *bool    { return &b }

func loadedRoster(t *testing.T, operatorID string) (*Roster, *fakeStore) {
	t.Helper()
	store := newFakeStore(sampleUsers()...)
	r := New(store, operatorID, nil)
	require.NoError(t, r.Load(context.Background()))
	return r, store
}

func TestLoadFailureKeepsPriorState(t *testing.T) {
	r, store := loadedRoster(t, "a")
	before := r.Records()

	store.failAll = true
	err := r.Load(context.Background())

	require.Error(t, err)
	assert.True(t, domain.IsDomainError(err, domain.ErrCodeInternal))
	assert.Equal(t, before, r.Records())
}

func TestEnsureLoadsOnce(t *testing.T) {
	store := newFakeStore(sampleUsers()...)
	r := New(store, "a", nil)
	ctx := context.Background()

	require.NoError(t, r.Ensure(ctx, false))
	require.NoError(t, r.Ensure(ctx, false))
	require.NoError(t, r.Ensure(ctx, true))

	assert.Equal(t, []string{"list", "list"}, store.dispatched())
	assert.False(t, r.LoadedAt().IsZero())
}

func TestEditBufferLifecycle(t *testing.T) {
	r, store := loadedRoster(t, "a")
	ctx := context.Background()
	assert.Equal(t, ModeViewing, r.Mode())

	draft, err := r.BeginEdit("c")
	require.NoError(t, err)
	assert.Equal(t, ModeEditing, r.Mode())
	assert.False(t, draft.Dirty())

	draft, err = r.Edit(Patch{FullName: strPtr("  Carol King "), Role: strPtr("developer")})
	require.NoError(t, err)
	assert.True(t, draft.Dirty())
	assert.Equal(t, "Carol King", draft.Current.FullName)

	// buffered edits are not visible until saved
	assert.Equal(t, "carol", r.View(Query{Search: "carol@"})[0].FullName)

	saved, err := r.Save(ctx)
	require.NoError(t, err)
	assert.Equal(t, domain.RoleDeveloper, saved.Role)
	assert.Equal(t, ModeViewing, r.Mode())

	view := r.View(Query{Search: "carol@"})
	require.Len(t, view, 1)
	assert.Equal(t, "Carol King", view[0].FullName)
	assert.Equal(t, saved.UpdatedAt, view[0].UpdatedAt)
	assert.Contains(t, store.dispatched(), "update")
}

func TestCancelDiscardsDraft(t *testing.T) {
	r, store := loadedRoster(t, "a")

	_, err := r.BeginEdit("b")
	require.NoError(t, err)
	_, err = r.Edit(Patch{Email: strPtr("new@example.com")})
	require.NoError(t, err)

	require.NoError(t, r.Cancel())
	assert.Equal(t, ModeViewing, r.Mode())
	assert.Equal(t, "bob@example.com", r.View(Query{Search: "bob"})[0].Email)
	assert.NotContains(t, store.dispatched(), "update")

	assert.ErrorIs(t, r.Cancel(), domain.ErrNotEditing)
}

func TestOnlyOneRowEditing(t *testing.T) {
	r, _ := loadedRoster(t, "a")

	_, err := r.BeginEdit("b")
	require.NoError(t, err)

	_, err = r.BeginEdit("c")
	assert.ErrorIs(t, err, domain.ErrAlreadyEditing)

	again, err := r.BeginEdit("b")
	require.NoError(t, err)
	assert.Equal(t, "b", again.Original.ID)
}

func TestBeginEditUnknownRow(t *testing.T) {
	r, _ := loadedRoster(t, "a")
	_, err := r.BeginEdit("zzz")
	assert.ErrorIs(t, err, domain.ErrUserNotFound)
	assert.Equal(t, ModeViewing, r.Mode())
}

func TestEditAndSaveRequireDraft(t *testing.T) {
	r, _ := loadedRoster(t, "a")

	_, err := r.Edit(Patch{})
	assert.ErrorIs(t, err, domain.ErrNotEditing)

	_, err = r.Save(context.Background())
	assert.ErrorIs(t, err, domain.ErrNotEditing)
}

func TestSaveInvalidRoleRejectedBeforeDispatch(t *testing.T) {
	r, store := loadedRoster(t, "a")
	before := r.Records()

	_, err := r.BeginEdit("c")
	require.NoError(t, err)
	_, err = r.Edit(Patch{Role: strPtr("superuser")})
	require.NoError(t, err)
	draftBefore, _ := r.Draft()

	_, err = r.Save(context.Background())

	assert.ErrorIs(t, err, domain.ErrInvalidRole)
	assert.NotContains(t, store.dispatched(), "update")
	assert.Equal(t, before, r.Records())
	draftAfter, ok := r.Draft()
	assert.True(t, ok)
	assert.Equal(t, draftBefore, draftAfter)
}

func TestSaveInvalidEmailRejected(t *testing.T) {
	r, store := loadedRoster(t, "a")
	_, _ = r.BeginEdit("c")
	_, _ = r.Edit(Patch{Email: strPtr("not-an-email")})

	_, err := r.Save(context.Background())

	assert.True(t, domain.IsDomainError(err, domain.ErrCodeInvalid))
	assert.NotContains(t, store.dispatched(), "update")
}

func TestSaveFailureKeepsEditing(t *testing.T) {
	r, store := loadedRoster(t, "a")
	before := r.Records()
	_, _ = r.BeginEdit("c")
	_, _ = r.Edit(Patch{FullName: strPtr("Caroline")})

	store.failAll = true
	_, err := r.Save(context.Background())

	require.Error(t, err)
	assert.Equal(t, ModeEditing, r.Mode())
	assert.Equal(t, before, r.Records())
	draft, _ := r.Draft()
	assert.Equal(t, "Caroline", draft.Current.FullName)
}

func TestSaveOwnRowGuards(t *testing.T) {
	r, store := loadedRoster(t, "a")
	ctx := context.Background()

	_, _ = r.BeginEdit("a")
	_, _ = r.Edit(Patch{Role: strPtr("user")})
	_, err := r.Save(ctx)
	assert.ErrorIs(t, err, domain.ErrSelfDemotion)

	_, _ = r.Edit(Patch{Role: strPtr("admin"), IsActive: boolPtr(false)})
	_, err = r.Save(ctx)
	assert.ErrorIs(t, err, domain.ErrSelfDeactivation)

	assert.NotContains(t, store.dispatched(), "update")
}

func TestUpdateOneShot(t *testing.T) {
	r, store := loadedRoster(t, "a")
	ctx := context.Background()

	saved, err := r.Update(ctx, "c", Patch{FullName: strPtr(" Carol King ")})
	require.NoError(t, err)
	assert.Equal(t, "Carol King", saved.FullName)
	assert.Equal(t, ModeViewing, r.Mode())
	assert.Equal(t, "Carol King", r.View(Query{Search: "carol@"})[0].FullName)

	before := r.Records()
	_, err = r.Update(ctx, "c", Patch{Role: strPtr("owner")})
	assert.ErrorIs(t, err, domain.ErrInvalidRole)
	_, err = r.Update(ctx, "a", Patch{Role: strPtr("user")})
	assert.ErrorIs(t, err, domain.ErrSelfDemotion)
	_, err = r.Update(ctx, "missing", Patch{})
	assert.ErrorIs(t, err, domain.ErrUserNotFound)
	assert.Equal(t, before, r.Records())
	assert.Equal(t, 1, countCalls(store.dispatched(), "update"))
}

func TestSaveDuplicateEmailKeepsDraft(t *testing.T) {
	r, _ := loadedRoster(t, "a")
	ctx := context.Background()

	_, err := r.BeginEdit("c")
	require.NoError(t, err)
	_, err = r.Edit(Patch{Email: strPtr("ALICE@example.com")})
	require.NoError(t, err)

	_, err = r.Save(ctx)
	assert.ErrorIs(t, err, domain.ErrEmailTaken)
	assert.True(t, domain.IsDomainError(err, domain.ErrCodeConflict))
	assert.Equal(t, ModeEditing, r.Mode())

	_, err = r.Update(ctx, "b", Patch{Email: strPtr("carol@example.com")})
	assert.ErrorIs(t, err, domain.ErrAlreadyEditing)
	require.NoError(t, r.Cancel())

	_, err = r.Update(ctx, "b", Patch{Email: strPtr("carol@example.com")})
	assert.ErrorIs(t, err, domain.ErrEmailTaken)
}

func TestUpdateOneShotRefusedWhileEditing(t *testing.T) {
	r, store := loadedRoster(t, "a")
	ctx := context.Background()

	_, err := r.BeginEdit("c")
	require.NoError(t, err)
	_, err = r.Edit(Patch{Nickname: strPtr("buffered")})
	require.NoError(t, err)

	_, err = r.Update(ctx, "c", Patch{FullName: strPtr("Carol King")})
	assert.ErrorIs(t, err, domain.ErrAlreadyEditing)
	_, err = r.Update(ctx, "b", Patch{FullName: strPtr("Robert")})
	assert.ErrorIs(t, err, domain.ErrAlreadyEditing)

	d, editing := r.Draft()
	require.True(t, editing)
	assert.Equal(t, "buffered", d.Current.Nickname)
	assert.Equal(t, "carol", d.Current.FullName)
	assert.NotContains(t, store.dispatched(), "update")
}

func TestBulkSetRole(t *testing.T) {
	r, store := loadedRoster(t, "a")

	updated, err := r.BulkSetRole(context.Background(), []string{"b", "c", "b", ""}, "developer")

	require.NoError(t, err)
	assert.Len(t, updated, 2)
	assert.Equal(t, []string{"bob", "carol"}, names(r.View(Query{Role: domain.RoleDeveloper, Sort: SortName})))
	assert.Equal(t, 1, countCalls(store.dispatched(), "update_roles"))
}

func TestBulkSelfDemotionRejectedBeforeDispatch(t *testing.T) {
	r, store := loadedRoster(t, "a")
	before := r.Records()

	for _, role := range []string{"user", "developer"} {
		_, err := r.BulkSetRole(context.Background(), []string{"b", "a"}, role)
		assert.ErrorIs(t, err, domain.ErrSelfDemotion)
	}
	assert.NotContains(t, store.dispatched(), "update_roles")
	assert.Equal(t, before, r.Records())

	_, err := r.BulkSetRole(context.Background(), []string{"b", "a"}, "admin")
	require.NoError(t, err)
}

func TestBulkValidation(t *testing.T) {
	r, store := loadedRoster(t, "a")

	_, err := r.BulkSetRole(context.Background(), []string{"b"}, "owner")
	assert.ErrorIs(t, err, domain.ErrInvalidRole)

	_, err = r.BulkSetRole(context.Background(), []string{" ", ""}, "user")
	assert.True(t, domain.IsDomainError(err, domain.ErrCodeInvalid))

	assert.NotContains(t, store.dispatched(), "update_roles")
}

func TestBulkFailureMergesNothing(t *testing.T) {
	r, store := loadedRoster(t, "a")
	before := r.Records()

	store.failAll = true
	_, err := r.BulkSetRole(context.Background(), []string{"b", "c"}, "admin")

	require.Error(t, err)
	assert.Equal(t, before, r.Records())
}

func TestSetActive(t *testing.T) {
	r, _ := loadedRoster(t, "a")
	ctx := context.Background()

	u, err := r.SetActive(ctx, "b", true)
	require.NoError(t, err)
	assert.True(t, u.IsActive)
	assert.Equal(t, []string{"alice", "bob", "carol"}, names(r.View(Query{Status: StatusActive})))

	u, err = r.SetActive(ctx, "c", false)
	require.NoError(t, err)
	assert.False(t, u.IsActive)

	_, err = r.SetActive(ctx, "a", false)
	assert.ErrorIs(t, err, domain.ErrSelfDeactivation)

	_, err = r.SetActive(ctx, "missing", true)
	assert.ErrorIs(t, err, domain.ErrUserNotFound)
}

func TestWorkspacesIsolateOperators(t *testing.T) {
	store := newFakeStore(sampleUsers()...)
	ws := NewWorkspaces(store, nil)

	ra := ws.For("a")
	assert.Same(t, ra, ws.For("a"))
	rb := ws.For("b")
	assert.NotSame(t, ra, rb)

	require.NoError(t, ra.Load(context.Background()))
	_, err := ra.BeginEdit("c")
	require.NoError(t, err)
	assert.Equal(t, ModeViewing, rb.Mode())

	ws.Drop("a")
	assert.Equal(t, 1, ws.Len())
	assert.Equal(t, ModeViewing, ws.For("a").Mode())
}

func countCalls(calls []string, name string) int {
	n := 0
	for _, c := range calls {
		if c == name {
			n++
		}
	}
	return n
}
