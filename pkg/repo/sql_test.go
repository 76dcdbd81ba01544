package repo_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/hanamiya/console/pkg/listkit"
	"github.com/hanamiya/console/pkg/repo"
)

func TestBuildFilters_Empty(t *testing.T) {
	t.Parallel()

	where, args := repo.BuildFilters(listkit.SearchParams{}, []string{"name"}, nil)
	require.Equal(t, []string{"1 = 1"}, where)
	require.Empty(t, args)
}

func TestBuildFilters_QueryAndStatus(t *testing.T) {
	t.Parallel()

	params := listkit.SearchParams{
		listkit.KeyQuery:  "sakura",
		listkit.KeyStatus: "active",
	}
	where, args := repo.BuildFilters(params, []string{"name", "email"}, nil)

	require.Equal(t, []string{
		"1 = 1",
		"(name ILIKE $1 OR email ILIKE $1)",
		"status = $2",
	}, where)
	require.Equal(t, []any{"%sakura%", "active"}, args)
}

func TestBuildFilters_ForeignKey(t *testing.T) {
	t.Parallel()

	params := listkit.SearchParams{"groupId": "g-1"}
	where, args := repo.BuildFilters(params, []string{"name"}, map[string]string{"groupId": "group_id"})

	require.Equal(t, []string{"1 = 1", "group_id = $1"}, where)
	require.Equal(t, []any{"g-1"}, args)
}

func TestOrderClause(t *testing.T) {
	t.Parallel()

	fields := map[string]string{"name": "name", "createdAt": "created_at"}

	require.Equal(t, " ORDER BY name ASC",
		repo.OrderClause(listkit.SearchParams{listkit.KeySortBy: "name"}, fields))
	require.Equal(t, " ORDER BY created_at DESC",
		repo.OrderClause(listkit.SearchParams{listkit.KeySortBy: "createdAt", listkit.KeySortOrder: "desc"}, fields))

	// Unknown sort keys never reach the SQL text.
	require.Equal(t, " ORDER BY created_at ASC",
		repo.OrderClause(listkit.SearchParams{listkit.KeySortBy: "password"}, fields))
}

func TestLimitClause(t *testing.T) {
	t.Parallel()

	require.Equal(t, "", repo.LimitClause(listkit.SearchParams{}))
	require.Equal(t, "", repo.LimitClause(listkit.SearchParams{"limit": "abc"}))
	require.Equal(t, "", repo.LimitClause(listkit.SearchParams{"limit": "0"}))
	require.Equal(t, " LIMIT 25", repo.LimitClause(listkit.SearchParams{"limit": "25"}))
}
