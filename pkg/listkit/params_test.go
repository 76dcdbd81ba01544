package listkit

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestNormalize_DropsEmptyAndSentinelValues(t *testing.T) {
	t.Parallel()

	n := NewNormalizer()
	draft := SearchParams{
		KeyQuery:     "  ",
		KeyStatus:    "all",
		KeySortBy:    "createdAt",
		KeySortOrder: "desc",
	}

	got := n.Normalize(draft)
	require.Equal(t, SearchParams{
		KeySortBy:    "createdAt",
		KeySortOrder: "desc",
	}, got)
}

func TestNormalize_TrimsStringValues(t *testing.T) {
	t.Parallel()

	n := NewNormalizer()
	got := n.Normalize(SearchParams{KeyQuery: "  taro  "})
	require.Equal(t, SearchParams{KeyQuery: "taro"}, got)
}

func TestNormalize_KeepsLiteralAllForNonEnumKeys(t *testing.T) {
	t.Parallel()

	// "all" is only a sentinel for enum filters; a free-text query for
	// the word "all" is a real filter.
	n := NewNormalizer()
	got := n.Normalize(SearchParams{KeyQuery: "all", KeyStatus: "all"})
	require.Equal(t, SearchParams{KeyQuery: "all"}, got)
}

func TestNormalize_DropsSentinelForRegisteredEnumKeys(t *testing.T) {
	t.Parallel()

	n := NewNormalizer("rank")
	got := n.Normalize(SearchParams{"rank": "all", "groupId": "g-1"})
	require.Equal(t, SearchParams{"groupId": "g-1"}, got)
}

func TestNormalize_Idempotent(t *testing.T) {
	t.Parallel()

	n := NewNormalizer()
	drafts := []SearchParams{
		{},
		{KeyQuery: " a ", KeyStatus: "active"},
		{KeyQuery: "", KeyStatus: "all", "groupId": "", KeySortBy: "name"},
		{KeyQuery: "all", "teamId": "t-9", KeySortOrder: "asc"},
	}
	for _, draft := range drafts {
		once := n.Normalize(draft)
		twice := n.Normalize(once)
		require.True(t, once.Equal(twice), "normalize must be idempotent for %v", draft)
	}
}

func TestNormalize_DoesNotInjectSortDefaults(t *testing.T) {
	t.Parallel()

	n := NewNormalizer()
	got := n.Normalize(SearchParams{KeyQuery: "x"})
	require.NotContains(t, got, KeySortBy)
	require.NotContains(t, got, KeySortOrder)
}

func TestSearchParams_Equal(t *testing.T) {
	t.Parallel()

	a := SearchParams{"a": "1", "b": "2"}
	require.True(t, a.Equal(SearchParams{"b": "2", "a": "1"}))
	require.False(t, a.Equal(SearchParams{"a": "1"}))
	require.False(t, a.Equal(SearchParams{"a": "1", "b": "3"}))
}
