package services

import (
	"context"
	"time"

	"github.com/go-faster/errors"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/hanamiya/console/modules/merchant/domain"
	"github.com/hanamiya/console/pkg/authz"
	"github.com/hanamiya/console/pkg/eventbus"
	"github.com/hanamiya/console/pkg/listkit"
)

const (
	reasonMerchantNotInactive = "merchant must be inactive before deletion"
	reasonMerchantActiveShops = "merchant still has active shops"
)

type MerchantService struct {
	repo  domain.MerchantRepository
	shops domain.ShopRepository
	authz *authz.Service
	bus   eventbus.EventBus
	guard listkit.GuardEvaluator
}

func NewMerchantService(
	repo domain.MerchantRepository,
	shops domain.ShopRepository,
	authzSvc *authz.Service,
	bus eventbus.EventBus,
	log *logrus.Logger,
) *MerchantService {
	s := &MerchantService{
		repo:  repo,
		shops: shops,
		authz: authzSvc,
		bus:   bus,
	}
	s.guard = &listkit.DeleteGuard[domain.Merchant]{
		Entity: "merchant",
		Lookup: lookupByID(repo.GetByID),
		PreState: func(m domain.Merchant) string {
			if m.Status != domain.StatusInactive {
				return reasonMerchantNotInactive
			}
			return ""
		},
		Dependencies: []listkit.Dependency{
			{
				Name:        "shops",
				Reason:      reasonMerchantActiveShops,
				CountActive: countByID(shops.CountActiveByMerchant),
			},
		},
		Log: log.WithField("service", "merchant"),
	}
	return s
}

func (s *MerchantService) DeleteGuard() listkit.GuardEvaluator {
	return s.guard
}

func (s *MerchantService) List(ctx context.Context, params listkit.SearchParams) ([]domain.Merchant, error) {
	if err := s.authz.Authorize(ctx, authz.ObjectName("merchant", "merchant"), authz.ActionRead); err != nil {
		return nil, err
	}
	return s.repo.List(ctx, params)
}

func (s *MerchantService) Count(ctx context.Context, params listkit.SearchParams) (int64, error) {
	if err := s.authz.Authorize(ctx, authz.ObjectName("merchant", "merchant"), authz.ActionRead); err != nil {
		return 0, err
	}
	return s.repo.Count(ctx, params)
}

func (s *MerchantService) Create(ctx context.Context, input domain.Merchant) (domain.Merchant, error) {
	if err := s.authz.Authorize(ctx, authz.ObjectName("merchant", "merchant"), authz.ActionCreate); err != nil {
		return domain.Merchant{}, err
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
		return domain.Merchant{}, err
	}
	s.bus.Publish(domain.MerchantCreatedEvent{Result: created})
	return created, nil
}

func (s *MerchantService) Update(ctx context.Context, id string, patch domain.Merchant) (domain.Merchant, error) {
	if err := s.authz.Authorize(ctx, authz.ObjectName("merchant", "merchant"), authz.ActionUpdate); err != nil {
		return domain.Merchant{}, err
	}
	entityID, err := uuid.Parse(id)
	if err != nil {
		return domain.Merchant{}, errors.Wrap(domain.ErrNotFound, "invalid merchant id")
	}
	old, err := s.repo.GetByID(ctx, entityID)
	if err != nil {
		return domain.Merchant{}, err
	}
	patch.ID = old.ID
	patch.CreatedAt = old.CreatedAt
	patch.UpdatedAt = time.Now()
	updated, err := s.repo.Update(ctx, patch)
	if err != nil {
		return domain.Merchant{}, err
	}
	s.bus.Publish(domain.MerchantUpdatedEvent{Old: old, Result: updated})
	return updated, nil
}

func (s *MerchantService) Remove(ctx context.Context, id string) error {
	if err := s.authz.Authorize(ctx, authz.ObjectName("merchant", "merchant"), authz.ActionDelete); err != nil {
		return err
	}
	if perm := s.guard.Evaluate(ctx, id); !perm.CanDelete {
		return &listkit.DeleteBlockedError{Reason: perm.Reason}
	}
	entityID, err := uuid.Parse(id)
	if err != nil {
		return errors.Wrap(domain.ErrNotFound, "invalid merchant id")
	}
	old, err := s.repo.GetByID(ctx, entityID)
	if err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, entityID); err != nil {
		return err
	}
	s.bus.Publish(domain.MerchantDeletedEvent{Result: old})
	return nil
}
