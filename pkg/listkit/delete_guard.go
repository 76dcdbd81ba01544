package listkit

import (
	"context"
	"fmt"

	"github.com/sirupsen/logrus"
)

// DeletePermission is the verdict of a delete-precondition check. It is
// computed fresh per request and never cached; the answer depends on
// live relational state.
type DeletePermission struct {
	CanDelete bool   `json:"canDelete"`
	Reason    string `json:"reason,omitempty"`
}

const (
	ReasonNotFound    = "entity not found"
	ReasonCheckFailed = "deletion check could not be completed"
)

// DeleteBlockedError is returned by services that revalidate delete
// preconditions at mutation time and find them violated.
type DeleteBlockedError struct {
	Reason string
}

func (e *DeleteBlockedError) Error() string {
	return e.Reason
}

// Dependency declares one sibling collection that blocks deletion while
// it holds active rows referencing the entity.
type Dependency struct {
	// Name identifies the dependency in logs.
	Name string
	// Reason is shown verbatim to the user when the dependency blocks
	// deletion.
	Reason string
	// CountActive returns how many active sibling rows reference id.
	CountActive func(ctx context.Context, id string) (int64, error)
}

// GuardEvaluator decides whether a row may be deleted.
type GuardEvaluator interface {
	Evaluate(ctx context.Context, id string) DeletePermission
}

// DeleteGuard evaluates delete preconditions for one entity type:
// existence, an optional required pre-state, then each declared
// relational dependency in order. The first violated precondition
// supplies the user-facing reason. Any lookup or query failure denies;
// the guard never allows on an error path.
type DeleteGuard[T any] struct {
	// Entity names the guarded entity for logs.
	Entity string
	// Lookup fetches the row; found=false denies with ReasonNotFound.
	Lookup func(ctx context.Context, id string) (T, bool, error)
	// PreState returns a denial reason when the row is not yet in the
	// state deletion requires, or "" when the check passes. Optional.
	PreState func(row T) string
	// Dependencies are checked in declaration order after PreState.
	Dependencies []Dependency

	Log *logrus.Entry
}

func (g *DeleteGuard[T]) Evaluate(ctx context.Context, id string) (perm DeletePermission) {
	defer func() {
		if r := recover(); r != nil {
			if g.Log != nil {
				g.Log.Errorf("delete guard for %s panicked on id=%s: %v", g.Entity, id, r)
			}
			perm = DeletePermission{CanDelete: false, Reason: ReasonCheckFailed}
		}
	}()

	verdict, err := g.evaluate(ctx, id)
	if err != nil {
		if g.Log != nil {
			g.Log.WithError(err).Errorf("delete guard for %s failed on id=%s", g.Entity, id)
		}
		return DeletePermission{CanDelete: false, Reason: ReasonCheckFailed}
	}
	return verdict
}

func (g *DeleteGuard[T]) evaluate(ctx context.Context, id string) (DeletePermission, error) {
	if g.Lookup == nil {
		return DeletePermission{}, fmt.Errorf("delete guard for %s has no lookup", g.Entity)
	}

	row, found, err := g.Lookup(ctx, id)
	if err != nil {
		return DeletePermission{}, err
	}
	if !found {
		return DeletePermission{CanDelete: false, Reason: ReasonNotFound}, nil
	}

	// Pre-state violations short-circuit before any dependency query.
	if g.PreState != nil {
		if reason := g.PreState(row); reason != "" {
			return DeletePermission{CanDelete: false, Reason: reason}, nil
		}
	}

	for _, dep := range g.Dependencies {
		n, err := dep.CountActive(ctx, id)
		if err != nil {
			return DeletePermission{}, fmt.Errorf("dependency %q: %w", dep.Name, err)
		}
		if n > 0 {
			return DeletePermission{CanDelete: false, Reason: dep.Reason}, nil
		}
	}
	return DeletePermission{CanDelete: true}, nil
}
