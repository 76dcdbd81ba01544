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
	reasonGroupNotInactive = "group must be inactive before deletion"
	reasonGroupActiveTeams = "group still has active teams"
	reasonGroupActiveUsers = "group still has active users"
)

type GroupService struct {
	repo  domain.GroupRepository
	teams domain.TeamRepository
	users domain.UserRepository
	authz *authz.Service
	bus   eventbus.EventBus
	guard listkit.GuardEvaluator
}

func NewGroupService(
	repo domain.GroupRepository,
	teams domain.TeamRepository,
	users domain.UserRepository,
	authzSvc *authz.Service,
	bus eventbus.EventBus,
	log *logrus.Logger,
) *GroupService {
	s := &GroupService{
		repo:  repo,
		teams: teams,
		users: users,
		authz: authzSvc,
		bus:   bus,
	}
	s.guard = &listkit.DeleteGuard[domain.Group]{
		Entity: "group",
		Lookup: lookupByID(repo.GetByID),
		PreState: func(g domain.Group) string {
			if g.Status != domain.StatusInactive {
				return reasonGroupNotInactive
			}
			return ""
		},
		Dependencies: []listkit.Dependency{
			{
				Name:        "teams",
				Reason:      reasonGroupActiveTeams,
				CountActive: countByID(teams.CountActiveByGroup),
			},
			{
				Name:        "users",
				Reason:      reasonGroupActiveUsers,
				CountActive: countByID(users.CountActiveByGroup),
			},
		},
		Log: log.WithField("service", "group"),
	}
	return s
}

// DeleteGuard exposes the evaluator for can-delete endpoints.
func (s *GroupService) DeleteGuard() listkit.GuardEvaluator {
	return s.guard
}

func (s *GroupService) List(ctx context.Context, params listkit.SearchParams) ([]domain.Group, error) {
	if err := s.authz.Authorize(ctx, authz.ObjectName("care", "group"), authz.ActionRead); err != nil {
		return nil, err
	}
	return s.repo.List(ctx, params)
}

func (s *GroupService) Count(ctx context.Context, params listkit.SearchParams) (int64, error) {
	if err := s.authz.Authorize(ctx, authz.ObjectName("care", "group"), authz.ActionRead); err != nil {
		return 0, err
	}
	return s.repo.Count(ctx, params)
}

func (s *GroupService) Create(ctx context.Context, input domain.Group) (domain.Group, error) {
	if err := s.authz.Authorize(ctx, authz.ObjectName("care", "group"), authz.ActionCreate); err != nil {
		return domain.Group{}, err
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
		return domain.Group{}, err
	}
	s.bus.Publish(domain.GroupCreatedEvent{Result: created})
	return created, nil
}

func (s *GroupService) Update(ctx context.Context, id string, patch domain.Group) (domain.Group, error) {
	if err := s.authz.Authorize(ctx, authz.ObjectName("care", "group"), authz.ActionUpdate); err != nil {
		return domain.Group{}, err
	}
	entityID, err := uuid.Parse(id)
	if err != nil {
		return domain.Group{}, errors.Wrap(domain.ErrNotFound, "invalid group id")
	}
	old, err := s.repo.GetByID(ctx, entityID)
	if err != nil {
		return domain.Group{}, err
	}
	patch.ID = old.ID
	patch.CreatedAt = old.CreatedAt
	patch.UpdatedAt = time.Now()
	updated, err := s.repo.Update(ctx, patch)
	if err != nil {
		return domain.Group{}, err
	}
	s.bus.Publish(domain.GroupUpdatedEvent{Old: old, Result: updated})
	return updated, nil
}

// Remove revalidates delete preconditions even when the caller already
// consulted the guard; the relational state may have changed since.
func (s *GroupService) Remove(ctx context.Context, id string) error {
	if err := s.authz.Authorize(ctx, authz.ObjectName("care", "group"), authz.ActionDelete); err != nil {
		return err
	}
	if perm := s.guard.Evaluate(ctx, id); !perm.CanDelete {
		return &listkit.DeleteBlockedError{Reason: perm.Reason}
	}
	entityID, err := uuid.Parse(id)
	if err != nil {
		return errors.Wrap(domain.ErrNotFound, "invalid group id")
	}
	old, err := s.repo.GetByID(ctx, entityID)
	if err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, entityID); err != nil {
		return err
	}
	s.bus.Publish(domain.GroupDeletedEvent{Result: old})
	return nil
}
