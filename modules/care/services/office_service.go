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

const (
	reasonOfficeNotDisabled = "office must be disabled before deletion"
	reasonOfficeActiveUsers = "office still has active users"
	reasonOfficeActiveStaff = "office still has active staff"
)

type OfficeService struct {
	repo  domain.OfficeRepository
	users domain.UserRepository
	staff domain.StaffRepository
	authz *authz.Service
	bus   eventbus.EventBus
	guard listkit.GuardEvaluator
}

func NewOfficeService(
	repo domain.OfficeRepository,
	users domain.UserRepository,
	staff domain.StaffRepository,
	authzSvc *authz.Service,
	bus eventbus.EventBus,
	log *logrus.Logger,
) *OfficeService {
	s := &OfficeService{
		repo:  repo,
		users: users,
		staff: staff,
		authz: authzSvc,
		bus:   bus,
	}
	s.guard = &listkit.DeleteGuard[domain.Office]{
		Entity: "office",
		Lookup: lookupByID(repo.GetByID),
		PreState: func(o domain.Office) string {
			if o.Status != domain.StatusDisabled {
				return reasonOfficeNotDisabled
			}
			return ""
		},
		Dependencies: []listkit.Dependency{
			{
				Name:        "users",
				Reason:      reasonOfficeActiveUsers,
				CountActive: countByID(users.CountActiveByOffice),
			},
			{
				Name:        "staff",
				Reason:      reasonOfficeActiveStaff,
				CountActive: countByID(staff.CountActiveByOffice),
			},
		},
		Log: log.WithField("service", "office"),
	}
	return s
}

func (s *OfficeService) DeleteGuard() listkit.GuardEvaluator {
	return s.guard
}

func (s *OfficeService) List(ctx context.Context, params listkit.SearchParams) ([]domain.Office, error) {
	if err := s.authz.Authorize(ctx, authz.ObjectName("care", "office"), authz.ActionRead); err != nil {
		return nil, err
	}
	return s.repo.List(ctx, params)
}

func (s *OfficeService) Count(ctx context.Context, params listkit.SearchParams) (int64, error) {
	if err := s.authz.Authorize(ctx, authz.ObjectName("care", "office"), authz.ActionRead); err != nil {
		return 0, err
	}
	return s.repo.Count(ctx, params)
}

func (s *OfficeService) Create(ctx context.Context, input domain.Office) (domain.Office, error) {
	if err := s.authz.Authorize(ctx, authz.ObjectName("care", "office"), authz.ActionCreate); err != nil {
		return domain.Office{}, err
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
		return domain.Office{}, err
	}
	s.bus.Publish(domain.OfficeCreatedEvent{Result: created})
	return created, nil
}

func (s *OfficeService) Update(ctx context.Context, id string, patch domain.Office) (domain.Office, error) {
	if err := s.authz.Authorize(ctx, authz.ObjectName("care", "office"), authz.ActionUpdate); err != nil {
		return domain.Office{}, err
	}
	entityID, err := uuid.Parse(id)
	if err != nil {
		return domain.Office{}, errors.Wrap(domain.ErrNotFound, "invalid office id")
	}
	old, err := s.repo.GetByID(ctx, entityID)
	if err != nil {
		return domain.Office{}, err
	}
	patch.ID = old.ID
	patch.CreatedAt = old.CreatedAt
	patch.UpdatedAt = time.Now()
	updated, err := s.repo.Update(ctx, patch)
	if err != nil {
		return domain.Office{}, err
	}
	s.bus.Publish(domain.OfficeUpdatedEvent{Old: old, Result: updated})
	return updated, nil
}

func (s *OfficeService) Remove(ctx context.Context, id string) error {
	if err := s.authz.Authorize(ctx, authz.ObjectName("care", "office"), authz.ActionDelete); err != nil {
		return err
	}
	if perm := s.guard.Evaluate(ctx, id); !perm.CanDelete {
		return &listkit.DeleteBlockedError{Reason: perm.Reason}
	}
	entityID, err := uuid.Parse(id)
	if err != nil {
		return errors.Wrap(domain.ErrNotFound, "invalid office id")
	}
	old, err := s.repo.GetByID(ctx, entityID)
	if err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, entityID); err != nil {
		return err
	}
	s.bus.Publish(domain.OfficeDeletedEvent{Result: old})
	return nil
}
