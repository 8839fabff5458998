package roster

import (
	"sort"
	"strings"

	"golang.org/x/text/cases"

	"github.com/fastygo/trackdesk/domain"
)

// StatusFilter selects users by their active flag.
type StatusFilter string

const (
	StatusAll      StatusFilter = "all"
	StatusActive   StatusFilter = "active"
	StatusInactive StatusFilter = "inactive"
)

// ParseStatus maps a raw filter value; anything unrecognised means all.
func ParseStatus(raw string) StatusFilter {
	switch StatusFilter(strings.ToLower(strings.TrimSpace(raw))) {
	case StatusActive:
		return StatusActive
	case StatusInactive:
		return StatusInactive
	}
	return StatusAll
}

// SortKey names one of the roster comparators.
type SortKey string

const (
	SortDate  SortKey = "date"
	SortName  SortKey = "name"
	SortEmail SortKey = "email"
	SortRole  SortKey = "role"
)

// ParseSortKey maps a raw sort value; anything unrecognised sorts by date.
func ParseSortKey(raw string) SortKey {
	switch SortKey(strings.ToLower(strings.TrimSpace(raw))) {
	case SortName:
		return SortName
	case SortEmail:
		return SortEmail
	case SortRole:
		return SortRole
	}
	return SortDate
}

// Query is the full set of roster view predicates. The zero value lists
// everybody newest first.
type Query struct {
	Search string
	Role   domain.Role
	Status StatusFilter
	Sort   SortKey
}

// NewQuery builds a Query from raw request values.
func NewQuery(search, role, status, sortKey string) Query {
	q := Query{
		Search: search,
		Status: ParseStatus(status),
		Sort:   ParseSortKey(sortKey),
	}
	if r := domain.Role(strings.ToLower(strings.TrimSpace(role))); r.Valid() {
		q.Role = r
	}
	return q
}

// Apply filters records by search text, role and status, then sorts the
// result. The input slice is not modified.
func Apply(records []domain.User, q Query) []domain.User {
	out := Filter(records, q)
	SortUsers(out, q.Sort)
	return out
}

// Filter returns the records matching q, preserving input order.
func Filter(records []domain.User, q Query) []domain.User {
	fold := cases.Fold()
	needle := fold.String(strings.TrimSpace(q.Search))

	out := make([]domain.User, 0, len(records))
	for _, u := range records {
		if needle != "" && !matchesSearch(fold, u, needle) {
			continue
		}
		if q.Role != "" && u.Role != q.Role {
			continue
		}
		switch q.Status {
		case StatusActive:
			if !u.IsActive {
				continue
			}
		case StatusInactive:
			if u.IsActive {
				continue
			}
		}
		out = append(out, u)
	}
	return out
}

func matchesSearch(fold cases.Caser, u domain.User, needle string) bool {
	for _, field := range [...]string{u.FullName, u.Email, u.Nickname} {
		if field != "" && strings.Contains(fold.String(field), needle) {
			return true
		}
	}
	return false
}

// SortUsers orders records in place. Ties keep their relative order.
func SortUsers(records []domain.User, key SortKey) {
	switch key {
	case SortName, SortEmail:
		fold := cases.Fold()
		keys := make(map[string]string, len(records))
		for _, u := range records {
			if key == SortName {
				keys[u.ID] = fold.String(u.FullName)
			} else {
				keys[u.ID] = fold.String(u.Email)
			}
		}
		sort.SliceStable(records, func(i, j int) bool {
			return keys[records[i].ID] < keys[records[j].ID]
		})
	case SortRole:
		sort.SliceStable(records, func(i, j int) bool {
			return records[i].Role < records[j].Role
		})
	default:
		sort.SliceStable(records, func(i, j int) bool {
			return records[i].CreatedAt.After(records[j].CreatedAt)
		})
	}
}
