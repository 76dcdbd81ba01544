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

type StaffService struct {
	repo  domain.StaffRepository
	authz *authz.Service
	bus   eventbus.EventBus
	guard listkit.GuardEvaluator
}

func NewStaffService(
	repo domain.StaffRepository,
	authzSvc *authz.Service,
	bus eventbus.EventBus,
	log *logrus.Logger,
) *StaffService {
	s := &StaffService{
		repo:  repo,
		authz: authzSvc,
		bus:   bus,
	}
	// Staff rows have no relational dependencies; the guard only
	// verifies existence.
	s.guard = &listkit.DeleteGuard[domain.Staff]{
		Entity: "staff",
		Lookup: lookupByID(repo.GetByID),
		Log:    log.WithField("service", "staff"),
	}
	return s
}

func (s *StaffService) DeleteGuard() listkit.GuardEvaluator {
	return s.guard
}

func (s *StaffService) List(ctx context.Context, params listkit.SearchParams) ([]domain.Staff, error) {
	if err := s.authz.Authorize(ctx, authz.ObjectName("care", "staff"), authz.ActionRead); err != nil {
		return nil, err
	}
	return s.repo.List(ctx, params)
}

func (s *StaffService) Count(ctx context.Context, params listkit.SearchParams) (int64, error) {
	if err := s.authz.Authorize(ctx, authz.ObjectName("care", "staff"), authz.ActionRead); err != nil {
		return 0, err
	}
	return s.repo.Count(ctx, params)
}

func (s *StaffService) Create(ctx context.Context, input domain.Staff) (domain.Staff, error) {
	if err := s.authz.Authorize(ctx, authz.ObjectName("care", "staff"), authz.ActionCreate); err != nil {
		return domain.Staff{}, err
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
		return domain.Staff{}, err
	}
	s.bus.Publish(domain.StaffCreatedEvent{Result: created})
	return created, nil
}

func (s *StaffService) Update(ctx context.Context, id string, patch domain.Staff) (domain.Staff, error) {
	if err := s.authz.Authorize(ctx, authz.ObjectName("care", "staff"), authz.ActionUpdate); err != nil {
		return domain.Staff{}, err
	}
	entityID, err := uuid.Parse(id)
	if err != nil {
		return domain.Staff{}, errors.Wrap(domain.ErrNotFound, "invalid staff id")
	}
	old, err := s.repo.GetByID(ctx, entityID)
	if err != nil {
		return domain.Staff{}, err
	}
	patch.ID = old.ID
	patch.CreatedAt = old.CreatedAt
	patch.UpdatedAt = time.Now()
	updated, err := s.repo.Update(ctx, patch)
	if err != nil {
		return domain.Staff{}, err
	}
	s.bus.Publish(domain.StaffUpdatedEvent{Old: old, Result: updated})
	return updated, nil
}

func (s *StaffService) Remove(ctx context.Context, id string) error {
	if err := s.authz.Authorize(ctx, authz.ObjectName("care", "staff"), authz.ActionDelete); err != nil {
		return err
	}
	if perm := s.guard.Evaluate(ctx, id); !perm.CanDelete {
		return &listkit.DeleteBlockedError{Reason: perm.Reason}
	}
	entityID, err := uuid.Parse(id)
	if err != nil {
		return errors.Wrap(domain.ErrNotFound, "invalid staff id")
	}
	old, err := s.repo.GetByID(ctx, entityID)
	if err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, entityID); err != nil {
		return err
	}
	s.bus.Publish(domain.StaffDeletedEvent{Result: old})
	return nil
}
