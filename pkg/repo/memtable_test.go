package repo_test

import (
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/hanamiya/console/pkg/listkit"
	"github.com/hanamiya/console/pkg/repo"
)

type member struct {
	ID     uuid.UUID
	Name   string
	Status string
}

func newMemberTable() *repo.MemTable[member] {
	return repo.NewMemTable(
		func(m member) uuid.UUID { return m.ID },
		func(m member, params listkit.SearchParams) bool {
			if q, ok := params[listkit.KeyQuery]; ok && !strings.Contains(m.Name, q) {
				return false
			}
			if st, ok := params[listkit.KeyStatus]; ok && m.Status != st {
				return false
			}
			return true
		},
		func(a, b member, sortBy string) int {
			return strings.Compare(a.Name, b.Name)
		},
	)
}

func TestMemTable_ListFiltersAndSorts(t *testing.T) {
	t.Parallel()

	table := newMemberTable()
	table.Put(member{ID: uuid.New(), Name: "chihiro", Status: "active"})
	table.Put(member{ID: uuid.New(), Name: "akane", Status: "active"})
	table.Put(member{ID: uuid.New(), Name: "botan", Status: "inactive"})

	all := table.List(listkit.SearchParams{})
	require.Equal(t, []string{"akane", "botan", "chihiro"}, names(all))

	active := table.List(listkit.SearchParams{listkit.KeyStatus: "active"})
	require.Equal(t, []string{"akane", "chihiro"}, names(active))

	desc := table.List(listkit.SearchParams{listkit.KeySortOrder: "desc"})
	require.Equal(t, []string{"chihiro", "botan", "akane"}, names(desc))

	limited := table.List(listkit.SearchParams{"limit": "1"})
	require.Equal(t, []string{"akane"}, names(limited))

	// Non-positive limits do not filter, same as the SQL builder.
	unlimited := table.List(listkit.SearchParams{"limit": "0"})
	require.Len(t, unlimited, 3)
}

func TestMemTable_PutReplacesByID(t *testing.T) {
	t.Parallel()

	table := newMemberTable()
	id := uuid.New()
	table.Put(member{ID: id, Name: "akane", Status: "active"})
	table.Put(member{ID: id, Name: "akane", Status: "inactive"})

	require.Equal(t, 1, table.Len())
	row, ok := table.Get(id)
	require.True(t, ok)
	require.Equal(t, "inactive", row.Status)
}

func TestMemTable_CountWhere(t *testing.T) {
	t.Parallel()

	table := newMemberTable()
	table.Put(member{ID: uuid.New(), Name: "akane", Status: "active"})
	table.Put(member{ID: uuid.New(), Name: "botan", Status: "active"})
	table.Put(member{ID: uuid.New(), Name: "chihiro", Status: "inactive"})

	n := table.CountWhere(func(m member) bool { return m.Status == "active" })
	require.EqualValues(t, 2, n)
	require.EqualValues(t, 3, table.Count(listkit.SearchParams{}))
}

func TestMemTable_Delete(t *testing.T) {
	t.Parallel()

	table := newMemberTable()
	id := uuid.New()
	table.Put(member{ID: id, Name: "akane"})

	require.True(t, table.Delete(id))
	require.False(t, table.Delete(id))
	require.Equal(t, 0, table.Len())
}

func names(rows []member) []string {
	out := make([]string, 0, len(rows))
	for _, m := range rows {
		out = append(out, m.Name)
	}
	return out
}
