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

const reasonShopActiveCoupons = "shop still has active coupons"

type ShopService struct {
	repo    domain.ShopRepository
	coupons domain.CouponPlatform
	authz   *authz.Service
	bus     eventbus.EventBus
	guard   listkit.GuardEvaluator
}

func NewShopService(
	repo domain.ShopRepository,
	coupons domain.CouponPlatform,
	authzSvc *authz.Service,
	bus eventbus.EventBus,
	log *logrus.Logger,
) *ShopService {
	s := &ShopService{
		repo:    repo,
		coupons: coupons,
		authz:   authzSvc,
		bus:     bus,
	}
	// The coupon dependency crosses a network boundary; the guard's
	// fail-closed error handling covers platform outages.
	s.guard = &listkit.DeleteGuard[domain.Shop]{
		Entity: "shop",
		Lookup: lookupByID(repo.GetByID),
		Dependencies: []listkit.Dependency{
			{
				Name:        "coupons",
				Reason:      reasonShopActiveCoupons,
				CountActive: countByID(coupons.CountActiveByShop),
			},
		},
		Log: log.WithField("service", "shop"),
	}
	return s
}

func (s *ShopService) DeleteGuard() listkit.GuardEvaluator {
	return s.guard
}

func (s *ShopService) List(ctx context.Context, params listkit.SearchParams) ([]domain.Shop, error) {
	if err := s.authz.Authorize(ctx, authz.ObjectName("merchant", "shop"), authz.ActionRead); err != nil {
		return nil, err
	}
	return s.repo.List(ctx, params)
}

func (s *ShopService) Count(ctx context.Context, params listkit.SearchParams) (int64, error) {
	if err := s.authz.Authorize(ctx, authz.ObjectName("merchant", "shop"), authz.ActionRead); err != nil {
		return 0, err
	}
	return s.repo.Count(ctx, params)
}

func (s *ShopService) Create(ctx context.Context, input domain.Shop) (domain.Shop, error) {
	if err := s.authz.Authorize(ctx, authz.ObjectName("merchant", "shop"), authz.ActionCreate); err != nil {
		return domain.Shop{}, err
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
		return domain.Shop{}, err
	}
	s.bus.Publish(domain.ShopCreatedEvent{Result: created})
	return created, nil
}

func (s *ShopService) Update(ctx context.Context, id string, patch domain.Shop) (domain.Shop, error) {
	if err := s.authz.Authorize(ctx, authz.ObjectName("merchant", "shop"), authz.ActionUpdate); err != nil {
		return domain.Shop{}, err
	}
	entityID, err := uuid.Parse(id)
	if err != nil {
		return domain.Shop{}, errors.Wrap(domain.ErrNotFound, "invalid shop id")
	}
	old, err := s.repo.GetByID(ctx, entityID)
	if err != nil {
		return domain.Shop{}, err
	}
	patch.ID = old.ID
	patch.CreatedAt = old.CreatedAt
	patch.UpdatedAt = time.Now()
	updated, err := s.repo.Update(ctx, patch)
	if err != nil {
		return domain.Shop{}, err
	}
	s.bus.Publish(domain.ShopUpdatedEvent{Old: old, Result: updated})
	return updated, nil
}

func (s *ShopService) Remove(ctx context.Context, id string) error {
	if err := s.authz.Authorize(ctx, authz.ObjectName("merchant", "shop"), authz.ActionDelete); err != nil {
		return err
	}
	if perm := s.guard.Evaluate(ctx, id); !perm.CanDelete {
		return &listkit.DeleteBlockedError{Reason: perm.Reason}
	}
	entityID, err := uuid.Parse(id)
	if err != nil {
		return errors.Wrap(domain.ErrNotFound, "invalid shop id")
	}
	old, err := s.repo.GetByID(ctx, entityID)
	if err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, entityID); err != nil {
		return err
	}
	s.bus.Publish(domain.ShopDeletedEvent{Result: old})
	return nil
}
