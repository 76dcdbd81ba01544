package listkit

import "context"

// Service is the collaborator a Controller drives. An empty params set
// means no filtering; implementations return all rows subject to their
// default ordering.
type Service[T any] interface {
	List(ctx context.Context, params SearchParams) ([]T, error)
	Create(ctx context.Context, input T) (T, error)
	Update(ctx context.Context, id string, patch T) (T, error)
	Remove(ctx context.Context, id string) error
}

// EntityStats carries read-only aggregate counts for dashboard cards.
type EntityStats map[string]int64

// StatsProvider is implemented by services that expose aggregates.
type StatsProvider interface {
	Stats(ctx context.Context) (EntityStats, error)
}
