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

const reasonTeamActiveMembers = "team still has active members"

type TeamService struct {
	repo  domain.TeamRepository
	users domain.UserRepository
	authz *authz.Service
	bus   eventbus.EventBus
	guard listkit.GuardEvaluator
}

func NewTeamService(
	repo domain.TeamRepository,
	users domain.UserRepository,
	authzSvc *authz.Service,
	bus eventbus.EventBus,
	log *logrus.Logger,
) *TeamService {
	s := &TeamService{
		repo:  repo,
		users: users,
		authz: authzSvc,
		bus:   bus,
	}
	s.guard = &listkit.DeleteGuard[domain.Team]{
		Entity: "team",
		Lookup: lookupByID(repo.GetByID),
		Dependencies: []listkit.Dependency{
			{
				Name:        "members",
				Reason:      reasonTeamActiveMembers,
				CountActive: countByID(users.CountActiveByTeam),
			},
		},
		Log: log.WithField("service", "team"),
	}
	return s
}

func (s *TeamService) DeleteGuard() listkit.GuardEvaluator {
	return s.guard
}

func (s *TeamService) List(ctx context.Context, params listkit.SearchParams) ([]domain.Team, error) {
	if err := s.authz.Authorize(ctx, authz.ObjectName("care", "team"), authz.ActionRead); err != nil {
		return nil, err
	}
	return s.repo.List(ctx, params)
}

func (s *TeamService) Count(ctx context.Context, params listkit.SearchParams) (int64, error) {
	if err := s.authz.Authorize(ctx, authz.ObjectName("care", "team"), authz.ActionRead); err != nil {
		return 0, err
	}
	return s.repo.Count(ctx, params)
}

func (s *TeamService) Create(ctx context.Context, input domain.Team) (domain.Team, error) {
	if err := s.authz.Authorize(ctx, authz.ObjectName("care", "team"), authz.ActionCreate); err != nil {
		return domain.Team{}, err
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
		return domain.Team{}, err
	}
	s.bus.Publish(domain.TeamCreatedEvent{Result: created})
	return created, nil
}

func (s *TeamService) Update(ctx context.Context, id string, patch domain.Team) (domain.Team, error) {
	if err := s.authz.Authorize(ctx, authz.ObjectName("care", "team"), authz.ActionUpdate); err != nil {
		return domain.Team{}, err
	}
	entityID, err := uuid.Parse(id)
	if err != nil {
		return domain.Team{}, errors.Wrap(domain.ErrNotFound, "invalid team id")
	}
	old, err := s.repo.GetByID(ctx, entityID)
	if err != nil {
		return domain.Team{}, err
	}
	patch.ID = old.ID
	patch.CreatedAt = old.CreatedAt
	patch.UpdatedAt = time.Now()
	updated, err := s.repo.Update(ctx, patch)
	if err != nil {
		return domain.Team{}, err
	}
	s.bus.Publish(domain.TeamUpdatedEvent{Old: old, Result: updated})
	return updated, nil
}

func (s *TeamService) Remove(ctx context.Context, id string) error {
	if err := s.authz.Authorize(ctx, authz.ObjectName("care", "team"), authz.ActionDelete); err != nil {
		return err
	}
	if perm := s.guard.Evaluate(ctx, id); !perm.CanDelete {
		return &listkit.DeleteBlockedError{Reason: perm.Reason}
	}
	entityID, err := uuid.Parse(id)
	if err != nil {
		return errors.Wrap(domain.ErrNotFound, "invalid team id")
	}
	old, err := s.repo.GetByID(ctx, entityID)
	if err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, entityID); err != nil {
		return err
	}
	s.bus.Publish(domain.TeamDeletedEvent{Result: old})
	return nil
}
