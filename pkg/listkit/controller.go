package listkit

import (
	"context"
	"sync"

	"github.com/go-faster/errors"
	"github.com/sirupsen/logrus"

	"github.com/hanamiya/console/pkg/metrics"
)

// Snapshot is a consistent view of a controller's state triple.
type Snapshot[T any] struct {
	Data    []T
	Params  SearchParams
	Loading bool
	Err     error
}

// Controller owns the list state for one entity screen: current search
// params, fetched rows, and the last fetch error. One instance per
// screen; instances never share state.
//
// Fetch discipline is last-params-wins: every param change bumps a
// generation counter and the fetch it starts carries a snapshot of that
// generation. A fetch that resolves after the controller moved on is
// discarded, so rapid successive filter changes cannot interleave
// stale results into the view. In-flight calls are not cancelled.
//
// Mutations never splice the local list. After a successful
// create/update/delete the controller refetches with current params so
// the visible list always reflects server truth.
type Controller[T any] struct {
	entity string
	svc    Service[T]
	norm   *Normalizer
	guard  GuardEvaluator
	log    *logrus.Entry

	mu       sync.Mutex
	params   SearchParams
	data     []T
	err      error
	inflight int
	gen      uint64
}

// Option configures a Controller.
type Option[T any] func(*Controller[T])

// WithNormalizer replaces the default normalizer, e.g. to register
// additional enum filter keys.
func WithNormalizer[T any](n *Normalizer) Option[T] {
	return func(c *Controller[T]) { c.norm = n }
}

// WithDeleteGuard installs the delete-precondition evaluator.
func WithDeleteGuard[T any](g GuardEvaluator) Option[T] {
	return func(c *Controller[T]) { c.guard = g }
}

// WithInitialParams seeds the controller's params (sort defaults live
// here, not in the normalizer).
func WithInitialParams[T any](params SearchParams) Option[T] {
	return func(c *Controller[T]) { c.params = params.Clone() }
}

func WithLogger[T any](log *logrus.Entry) Option[T] {
	return func(c *Controller[T]) { c.log = log }
}

func NewController[T any](entity string, svc Service[T], opts ...Option[T]) *Controller[T] {
	c := &Controller[T]{
		entity: entity,
		svc:    svc,
		norm:   NewNormalizer(),
		params: SearchParams{},
		data:   []T{},
	}
	for _, opt := range opts {
		opt(c)
	}
	c.params = c.norm.Normalize(c.params)
	return c
}

func (c *Controller[T]) Entity() string {
	return c.entity
}

// Snapshot returns a copy of the current state triple.
func (c *Controller[T]) Snapshot() Snapshot[T] {
	c.mu.Lock()
	defer c.mu.Unlock()
	data := make([]T, len(c.data))
	copy(data, c.data)
	return Snapshot[T]{
		Data:    data,
		Params:  c.params.Clone(),
		Loading: c.inflight > 0,
		Err:     c.err,
	}
}

// Params returns the current normalized params.
func (c *Controller[T]) Params() SearchParams {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.params.Clone()
}

// UpdateParams merges patch into the current params, normalizes, and
// fetches. Setting a key to "" or the "all" sentinel clears that
// filter. Returns the fetch error, if any; a superseded fetch returns
// nil because its result was discarded.
func (c *Controller[T]) UpdateParams(ctx context.Context, patch SearchParams) error {
	c.mu.Lock()
	merged := c.params.Clone()
	for k, v := range patch {
		merged[k] = v
	}
	c.params = c.norm.Normalize(merged)
	c.gen++
	gen := c.gen
	snapshot := c.params.Clone()
	c.inflight++
	c.mu.Unlock()

	return c.fetch(ctx, gen, snapshot)
}

// Search merges a free-text query and fetches.
func (c *Controller[T]) Search(ctx context.Context, query string) error {
	return c.UpdateParams(ctx, SearchParams{KeyQuery: query})
}

// FilterByStatus merges a status filter and fetches. Passing "all"
// clears the filter.
func (c *Controller[T]) FilterByStatus(ctx context.Context, status string) error {
	return c.UpdateParams(ctx, SearchParams{KeyStatus: status})
}

// FilterBy merges one arbitrary filter dimension and fetches.
func (c *Controller[T]) FilterBy(ctx context.Context, key, value string) error {
	return c.UpdateParams(ctx, SearchParams{key: value})
}

// Sort merges sort field and order and fetches.
func (c *Controller[T]) Sort(ctx context.Context, field, order string) error {
	return c.UpdateParams(ctx, SearchParams{KeySortBy: field, KeySortOrder: order})
}

// Refresh refetches with the current params unchanged.
func (c *Controller[T]) Refresh(ctx context.Context) error {
	return c.UpdateParams(ctx, nil)
}

func (c *Controller[T]) fetch(ctx context.Context, gen uint64, params SearchParams) error {
	metrics.ListFetches.WithLabelValues(c.entity).Inc()
	rows, err := c.svc.List(ctx, params)

	c.mu.Lock()
	defer c.mu.Unlock()
	c.inflight--

	if gen != c.gen {
		// Superseded while in flight; a newer fetch owns the state now.
		metrics.ListFetchesDiscarded.WithLabelValues(c.entity).Inc()
		if c.log != nil {
			c.log.Debugf("discarded stale %s fetch (gen %d != %d)", c.entity, gen, c.gen)
		}
		return nil
	}

	if err != nil {
		// Never show stale rows beside an error banner.
		c.err = errors.Wrapf(err, "failed to list %s", c.entity)
		c.data = []T{}
		return c.err
	}
	if rows == nil {
		rows = []T{}
	}
	c.err = nil
	c.data = rows
	return nil
}

// Add creates a row through the collaborator service, then refetches.
// On mutation failure the list state is left untouched.
func (c *Controller[T]) Add(ctx context.Context, input T) (T, error) {
	created, err := c.svc.Create(ctx, input)
	if err != nil {
		metrics.Mutations.WithLabelValues(c.entity, "create", "error").Inc()
		var zero T
		return zero, errors.Wrapf(err, "failed to create %s", c.entity)
	}
	metrics.Mutations.WithLabelValues(c.entity, "create", "ok").Inc()
	_ = c.Refresh(ctx)
	return created, nil
}

// Update patches a row through the collaborator service, then
// refetches.
func (c *Controller[T]) Update(ctx context.Context, id string, patch T) (T, error) {
	updated, err := c.svc.Update(ctx, id, patch)
	if err != nil {
		metrics.Mutations.WithLabelValues(c.entity, "update", "error").Inc()
		var zero T
		return zero, errors.Wrapf(err, "failed to update %s %s", c.entity, id)
	}
	metrics.Mutations.WithLabelValues(c.entity, "update", "ok").Inc()
	_ = c.Refresh(ctx)
	return updated, nil
}

// Delete removes a row through the collaborator service, then
// refetches. Callers are expected to consult CanDelete first; services
// revalidate preconditions on their own.
func (c *Controller[T]) Delete(ctx context.Context, id string) error {
	if err := c.svc.Remove(ctx, id); err != nil {
		metrics.Mutations.WithLabelValues(c.entity, "delete", "error").Inc()
		return errors.Wrapf(err, "failed to delete %s %s", c.entity, id)
	}
	metrics.Mutations.WithLabelValues(c.entity, "delete", "ok").Inc()
	_ = c.Refresh(ctx)
	return nil
}

// CanDelete evaluates the delete preconditions for id. It never
// returns an error: any evaluator failure maps to a denial so an error
// path can never default-allow a destructive action. Verdicts are
// computed fresh on every call.
func (c *Controller[T]) CanDelete(ctx context.Context, id string) (perm DeletePermission) {
	defer func() {
		if r := recover(); r != nil {
			if c.log != nil {
				c.log.Errorf("can-delete check for %s panicked on id=%s: %v", c.entity, id, r)
			}
			perm = DeletePermission{CanDelete: false, Reason: ReasonCheckFailed}
		}
		if !perm.CanDelete {
			metrics.DeleteDenials.WithLabelValues(c.entity).Inc()
		}
	}()

	if c.guard == nil {
		// No preconditions declared for this entity.
		return DeletePermission{CanDelete: true}
	}
	return c.guard.Evaluate(ctx, id)
}
