package listkit

import (
	"context"
	"testing"

	"github.com/go-faster/errors"
	"github.com/stretchr/testify/require"
)

type fakeGroup struct {
	ID     string
	Status string
}

type groupGuardFixture struct {
	groups      map[string]fakeGroup
	teamCounts  map[string]int64
	userCounts  map[string]int64
	teamQueried bool
	lookupErr   error
	depErr      error
}

func (f *groupGuardFixture) guard() *DeleteGuard[fakeGroup] {
	return &DeleteGuard[fakeGroup]{
		Entity: "group",
		Lookup: func(ctx context.Context, id string) (fakeGroup, bool, error) {
			if f.lookupErr != nil {
				return fakeGroup{}, false, f.lookupErr
			}
			g, ok := f.groups[id]
			return g, ok, nil
		},
		PreState: func(g fakeGroup) string {
			if g.Status == "active" {
				return "the group must first be deactivated before it can be deleted"
			}
			return ""
		},
		Dependencies: []Dependency{
			{
				Name:   "teams",
				Reason: "the group still has active teams; remove or deactivate its teams first",
				CountActive: func(ctx context.Context, id string) (int64, error) {
					f.teamQueried = true
					if f.depErr != nil {
						return 0, f.depErr
					}
					return f.teamCounts[id], nil
				},
			},
			{
				Name:   "users",
				Reason: "the group still has active users; move them to another group first",
				CountActive: func(ctx context.Context, id string) (int64, error) {
					return f.userCounts[id], nil
				},
			},
		},
	}
}

func TestEvaluate_MissingEntityDenied(t *testing.T) {
	t.Parallel()

	f := &groupGuardFixture{groups: map[string]fakeGroup{}}
	perm := f.guard().Evaluate(context.Background(), "g-1")
	require.False(t, perm.CanDelete)
	require.Equal(t, ReasonNotFound, perm.Reason)
}

func TestEvaluate_PreStateShortCircuitsDependencyQueries(t *testing.T) {
	t.Parallel()

	f := &groupGuardFixture{
		groups:     map[string]fakeGroup{"g-1": {ID: "g-1", Status: "active"}},
		teamCounts: map[string]int64{"g-1": 3},
	}
	perm := f.guard().Evaluate(context.Background(), "g-1")
	require.False(t, perm.CanDelete)
	require.Contains(t, perm.Reason, "deactivated")
	require.False(t, f.teamQueried, "dependency queries must not run when pre-state fails")
}

func TestEvaluate_FirstViolatedDependencyWins(t *testing.T) {
	t.Parallel()

	f := &groupGuardFixture{
		groups:     map[string]fakeGroup{"g-1": {ID: "g-1", Status: "inactive"}},
		teamCounts: map[string]int64{"g-1": 1},
		userCounts: map[string]int64{"g-1": 5},
	}
	perm := f.guard().Evaluate(context.Background(), "g-1")
	require.False(t, perm.CanDelete)
	require.Contains(t, perm.Reason, "teams")
}

func TestEvaluate_AllChecksPassAllows(t *testing.T) {
	t.Parallel()

	f := &groupGuardFixture{
		groups: map[string]fakeGroup{"g-1": {ID: "g-1", Status: "inactive"}},
	}
	perm := f.guard().Evaluate(context.Background(), "g-1")
	require.True(t, perm.CanDelete)
	require.Empty(t, perm.Reason)
}

func TestEvaluate_LookupFailureDenies(t *testing.T) {
	t.Parallel()

	f := &groupGuardFixture{lookupErr: errors.New("connection refused")}
	perm := f.guard().Evaluate(context.Background(), "g-1")
	require.False(t, perm.CanDelete)
	require.Equal(t, ReasonCheckFailed, perm.Reason)
}

func TestEvaluate_DependencyFailureDenies(t *testing.T) {
	t.Parallel()

	f := &groupGuardFixture{
		groups: map[string]fakeGroup{"g-1": {ID: "g-1", Status: "inactive"}},
		depErr: errors.New("timeout"),
	}
	perm := f.guard().Evaluate(context.Background(), "g-1")
	require.False(t, perm.CanDelete)
	require.Equal(t, ReasonCheckFailed, perm.Reason)
}

func TestEvaluate_PanicInDependencyDenies(t *testing.T) {
	t.Parallel()

	g := &DeleteGuard[fakeGroup]{
		Entity: "group",
		Lookup: func(ctx context.Context, id string) (fakeGroup, bool, error) {
			return fakeGroup{ID: id, Status: "inactive"}, true, nil
		},
		Dependencies: []Dependency{{
			Name:   "teams",
			Reason: "teams exist",
			CountActive: func(ctx context.Context, id string) (int64, error) {
				panic("unexpected")
			},
		}},
	}

	var perm DeletePermission
	require.NotPanics(t, func() {
		perm = g.Evaluate(context.Background(), "g-1")
	})
	require.False(t, perm.CanDelete)
	require.Equal(t, ReasonCheckFailed, perm.Reason)
}
