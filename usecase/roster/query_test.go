package roster

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/fastygo/trackdesk/domain"
)

func TestApplyScenario(t *testing.T) {
	users := sampleUsers()

	assert.Equal(t, []string{"bob"}, names(Apply(users, NewQuery("", "developer", "", ""))))
	assert.Equal(t, []string{"alice", "carol"}, names(Apply(users, NewQuery("", "", "Active", ""))))
	assert.Equal(t, []string{"alice", "bob", "carol"}, names(Apply(users, NewQuery("", "", "", "name"))))
	assert.Equal(t, []string{"bob"}, names(Apply(users, NewQuery("", "", "inactive", ""))))
}

func TestApplyDoesNotMutateInput(t *testing.T) {
	users := sampleUsers()
	before := names(users)

	_ = Apply(users, Query{Sort: SortName})

	assert.Equal(t, before, names(users))
}

func TestFilterSearch(t *testing.T) {
	users := sampleUsers()

	tests := []struct {
		name   string
		search string
		want   []string
	}{
		{"empty search is a no-op", "", []string{"alice", "bob", "carol"}},
		{"whitespace only", "   ", []string{"alice", "bob", "carol"}},
		{"matches full name case-insensitively", "ALI", []string{"alice"}},
		{"matches email", "carol@", []string{"carol"}},
		{"matches nickname", "bobby", []string{"bob"}},
		{"matches common domain", "example.com", []string{"alice", "bob", "carol"}},
		{"no match", "zed", []string{}},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got := Filter(users, Query{Search: tc.search})
			assert.Equal(t, tc.want, names(got))
		})
	}
}

func TestFilterUnicodeFolding(t *testing.T) {
	users := []domain.User{{ID: "e", FullName: "Émile Zola", Email: "e@example.com", Role: domain.RoleUser}}

	assert.Len(t, Filter(users, Query{Search: "ÉMILE"}), 1)
}

func TestFilterIsIdempotent(t *testing.T) {
	users := sampleUsers()
	queries := []Query{
		NewQuery("o", "", "", ""),
		NewQuery("", "admin", "active", ""),
		NewQuery("example", "", "inactive", "email"),
	}
	for _, q := range queries {
		once := Filter(users, q)
		twice := Filter(once, q)
		assert.Equal(t, once, twice)
	}
}

func TestSortIsStable(t *testing.T) {
	users := []domain.User{
		{ID: "1", FullName: "same", Email: "z@x", Role: domain.RoleUser, CreatedAt: base},
		{ID: "2", FullName: "same", Email: "y@x", Role: domain.RoleUser, CreatedAt: base},
		{ID: "3", FullName: "same", Email: "x@x", Role: domain.RoleUser, CreatedAt: base},
	}

	for _, key := range []SortKey{SortDate, SortName, SortRole} {
		out := append([]domain.User(nil), users...)
		SortUsers(out, key)
		got := []string{out[0].ID, out[1].ID, out[2].ID}
		assert.Equal(t, []string{"1", "2", "3"}, got, "key %s", key)
	}

	out := append([]domain.User(nil), users...)
	SortUsers(out, SortEmail)
	assert.Equal(t, "3", out[0].ID)
}

func TestSortKeys(t *testing.T) {
	users := sampleUsers()

	byEmail := Apply(users, Query{Sort: SortEmail})
	assert.Equal(t, []string{"alice", "bob", "carol"}, names(byEmail))

	byRole := Apply(users, Query{Sort: SortRole})
	assert.Equal(t, []string{"alice", "bob", "carol"}, names(byRole))

	byDate := Apply(users, Query{Sort: SortDate})
	assert.Equal(t, []string{"alice", "bob", "carol"}, names(byDate))

	shuffled := []domain.User{users[2], users[0], users[1]}
	assert.Equal(t, []string{"alice", "bob", "carol"}, names(Apply(shuffled, Query{})))
}

func TestSortDateOrdersNewestFirst(t *testing.T) {
	users := []domain.User{
		{ID: "old", CreatedAt: base},
		{ID: "new", CreatedAt: base.Add(time.Hour)},
	}
	SortUsers(users, SortDate)
	assert.Equal(t, "new", users[0].ID)
}

func TestNewQueryDefaults(t *testing.T) {
	q := NewQuery("", "all", "whatever", "bogus")

	assert.Equal(t, domain.Role(""), q.Role)
	assert.Equal(t, StatusAll, q.Status)
	assert.Equal(t, SortDate, q.Sort)

	q = NewQuery("x", "Admin", "INACTIVE", "Email")
	assert.Equal(t, domain.RoleAdmin, q.Role)
	assert.Equal(t, StatusInactive, q.Status)
	assert.Equal(t, SortEmail, q.Sort)
}
