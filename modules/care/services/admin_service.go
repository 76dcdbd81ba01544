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

type AdminService struct {
	repo  domain.AdminRepository
	authz *authz.Service
	bus   eventbus.EventBus
	guard listkit.GuardEvaluator
}

func NewAdminService(
	repo domain.AdminRepository,
	authzSvc *authz.Service,
	bus eventbus.EventBus,
	log *logrus.Logger,
) *AdminService {
	s := &AdminService{
		repo:  repo,
		authz: authzSvc,
		bus:   bus,
	}
	s.guard = &listkit.DeleteGuard[domain.Admin]{
		Entity: "admin",
		Lookup: lookupByID(repo.GetByID),
		Log:    log.WithField("service", "admin"),
	}
	return s
}

func (s *AdminService) DeleteGuard() listkit.GuardEvaluator {
	return s.guard
}

func (s *AdminService) List(ctx context.Context, params listkit.SearchParams) ([]domain.Admin, error) {
	if err := s.authz.Authorize(ctx, authz.ObjectName("care", "admin"), authz.ActionRead); err != nil {
		return nil, err
	}
	return s.repo.List(ctx, params)
}

func (s *AdminService) Count(ctx context.Context, params listkit.SearchParams) (int64, error) {
	if err := s.authz.Authorize(ctx, authz.ObjectName("care", "admin"), authz.ActionRead); err != nil {
		return 0, err
	}
	return s.repo.Count(ctx, params)
}

func (s *AdminService) Create(ctx context.Context, input domain.Admin) (domain.Admin, error) {
	if err := s.authz.Authorize(ctx, authz.ObjectName("care", "admin"), authz.ActionCreate); err != nil {
		return domain.Admin{}, err
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
		return domain.Admin{}, err
	}
	s.bus.Publish(domain.AdminCreatedEvent{Result: created})
	return created, nil
}

func (s *AdminService) Update(ctx context.Context, id string, patch domain.Admin) (domain.Admin, error) {
	if err := s.authz.Authorize(ctx, authz.ObjectName("care", "admin"), authz.ActionUpdate); err != nil {
		return domain.Admin{}, err
	}
	entityID, err := uuid.Parse(id)
	if err != nil {
		return domain.Admin{}, errors.Wrap(domain.ErrNotFound, "invalid admin id")
	}
	old, err := s.repo.GetByID(ctx, entityID)
	if err != nil {
		return domain.Admin{}, err
	}
	patch.ID = old.ID
	patch.CreatedAt = old.CreatedAt
	patch.UpdatedAt = time.Now()
	updated, err := s.repo.Update(ctx, patch)
	if err != nil {
		return domain.Admin{}, err
	}
	s.bus.Publish(domain.AdminUpdatedEvent{Old: old, Result: updated})
	return updated, nil
}

func (s *AdminService) Remove(ctx context.Context, id string) error {
	if err := s.authz.Authorize(ctx, authz.ObjectName("care", "admin"), authz.ActionDelete); err != nil {
		return err
	}
	if perm := s.guard.Evaluate(ctx, id); !perm.CanDelete {
		return &listkit.DeleteBlockedError{Reason: perm.Reason}
	}
	entityID, err := uuid.Parse(id)
	if err != nil {
		return errors.Wrap(domain.ErrNotFound, "invalid admin id")
	}
	old, err := s.repo.GetByID(ctx, entityID)
	if err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, entityID); err != nil {
		return err
	}
	s.bus.Publish(domain.AdminDeletedEvent{Result: old})
	return nil
}
