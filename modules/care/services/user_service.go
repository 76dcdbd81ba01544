package services

import (
	"context"
	"time"

	"github.com/go-faster/errors"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/hanamiya/console/modules/care/domain"
	"github.com/hanamiya/console/pkg/authz"
	"github.com/hanamiya/console/pkg/eventbus"
	"github.com/hanamiya/console/pkg/listkit"
)

const reasonUserNotInactive = "user must be inactive before deletion"

type UserService struct {
	repo  domain.UserRepository
	authz *authz.Service
	bus   eventbus.EventBus
	guard listkit.GuardEvaluator
}

func NewUserService(
	repo domain.UserRepository,
	authzSvc *authz.Service,
	bus eventbus.EventBus,
	log *logrus.Logger,
) *UserService {
	s := &UserService{
		repo:  repo,
		authz: authzSvc,
		bus:   bus,
	}
	s.guard = &listkit.DeleteGuard[domain.User]{
		Entity: "user",
		Lookup: lookupByID(repo.GetByID),
		PreState: func(u domain.User) string {
			if u.Status != domain.StatusInactive {
				return reasonUserNotInactive
			}
			return ""
		},
		Log: log.WithField("service", "user"),
	}
	return s
}

func (s *UserService) DeleteGuard() listkit.GuardEvaluator {
	return s.guard
}

func (s *UserService) List(ctx context.Context, params listkit.SearchParams) ([]domain.User, error) {
	if err := s.authz.Authorize(ctx, authz.ObjectName("care", "user"), authz.ActionRead); err != nil {
		return nil, err
	}
	return s.repo.List(ctx, params)
}

func (s *UserService) Count(ctx context.Context, params listkit.SearchParams) (int64, error) {
	if err := s.authz.Authorize(ctx, authz.ObjectName("care", "user"), authz.ActionRead); err != nil {
		return 0, err
	}
	return s.repo.Count(ctx, params)
}

func (s *UserService) Create(ctx context.Context, input domain.User) (domain.User, error) {
	if err := s.authz.Authorize(ctx, authz.ObjectName("care", "user"), authz.ActionCreate); err != nil {
		return domain.User{}, err
	}
	now := time.Now()
	input.ID = uuid.New()
	input.CreatedAt = now
	input.UpdatedAt = now
	if input.Status == "" {
		input.Status = domain.StatusActive
	}
	created, err := s.repo.Create(ctx, input)
	if err != nil {
		return domain.User{}, err
	}
	s.bus.Publish(domain.UserCreatedEvent{Result: created})
	return created, nil
}

func (s *UserService) Update(ctx context.Context, id string, patch domain.User) (domain.User, error) {
	if err := s.authz.Authorize(ctx, authz.ObjectName("care", "user"), authz.ActionUpdate); err != nil {
		return domain.User{}, err
	}
	entityID, err := uuid.Parse(id)
	if err != nil {
		return domain.User{}, errors.Wrap(domain.ErrNotFound, "invalid user id")
	}
	old, err := s.repo.GetByID(ctx, entityID)
	if err != nil {
		return domain.User{}, err
	}
	patch.ID = old.ID
	patch.CreatedAt = old.CreatedAt
	patch.UpdatedAt = time.Now()
	updated, err := s.repo.Update(ctx, patch)
	if err != nil {
		return domain.User{}, err
	}
	s.bus.Publish(domain.UserUpdatedEvent{Old: old, Result: updated})
	return updated, nil
}

func (s *UserService) Remove(ctx context.Context, id string) error {
	if err := s.authz.Authorize(ctx, authz.ObjectName("care", "user"), authz.ActionDelete); err != nil {
		return err
	}
	if perm := s.guard.Evaluate(ctx, id); !perm.CanDelete {
		return &listkit.DeleteBlockedError{Reason: perm.Reason}
	}
	entityID, err := uuid.Parse(id)
	if err != nil {
		return errors.Wrap(domain.ErrNotFound, "invalid user id")
	}
	old, err := s.repo.GetByID(ctx, entityID)
	if err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, entityID); err != nil {
		return err
	}
	s.bus.Publish(domain.UserDeletedEvent{Result: old})
	return nil
}
