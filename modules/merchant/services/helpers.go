package services

import (
	"context"

	"github.com/go-faster/errors"
	"github.com/google/uuid"

	"github.com/hanamiya/console/modules/merchant/domain"
)

// lookupByID adapts a repository getter into a guard lookup. A
// malformed id or a missing row reads as not-found rather than an
// error, so the guard denies with the not-found reason.
func lookupByID[T any](get func(ctx context.Context, id uuid.UUID) (T, error)) func(ctx context.Context, id string) (T, bool, error) {
	return func(ctx context.Context, id string) (T, bool, error) {
		var zero T
		entityID, err := uuid.Parse(id)
		if err != nil {
			return zero, false, nil
		}
		row, err := get(ctx, entityID)
		if err != nil {
			if errors.Is(err, domain.ErrNotFound) {
				return zero, false, nil
			}
			return zero, false, err
		}
		return row, true, nil
	}
}

func countByID(count func(ctx context.Context, id uuid.UUID) (int64, error)) func(ctx context.Context, id string) (int64, error) {
	return func(ctx context.Context, id string) (int64, error) {
		entityID, err := uuid.Parse(id)
		if err != nil {
			return 0, errors.Wrap(err, "invalid id")
		}
		return count(ctx, entityID)
	}
}
