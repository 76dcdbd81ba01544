package services

import (
	"context"

	"github.com/go-faster/errors"
	"github.com/sirupsen/logrus"

	"github.com/hanamiya/console/modules/merchant/domain"
	"github.com/hanamiya/console/pkg/authz"
	"github.com/hanamiya/console/pkg/eventbus"
	"github.com/hanamiya/console/pkg/listkit"
)

const reasonCouponStillActive = "coupon is still active"

// CouponService proxies the external coupon platform. All reads and
// writes go straight to the platform; nothing is cached locally, so a
// refetch after a mutation always reflects platform truth.
type CouponService struct {
	platform domain.CouponPlatform
	authz    *authz.Service
	bus      eventbus.EventBus
	guard    listkit.GuardEvaluator
}

func NewCouponService(
	platform domain.CouponPlatform,
	authzSvc *authz.Service,
	bus eventbus.EventBus,
	log *logrus.Logger,
) *CouponService {
	s := &CouponService{
		platform: platform,
		authz:    authzSvc,
		bus:      bus,
	}
	s.guard = &listkit.DeleteGuard[domain.Coupon]{
		Entity: "coupon",
		Lookup: func(ctx context.Context, code string) (domain.Coupon, bool, error) {
			c, err := platform.GetByCode(ctx, code)
			if err != nil {
				if errors.Is(err, domain.ErrNotFound) {
					return domain.Coupon{}, false, nil
				}
				return domain.Coupon{}, false, err
			}
			return c, true, nil
		},
		PreState: func(c domain.Coupon) string {
			if c.Status.IsActive() {
				return reasonCouponStillActive
			}
			return ""
		},
		Log: log.WithField("service", "coupon"),
	}
	return s
}

func (s *CouponService) DeleteGuard() listkit.GuardEvaluator {
	return s.guard
}

func (s *CouponService) List(ctx context.Context, params listkit.SearchParams) ([]domain.Coupon, error) {
	if err := s.authz.Authorize(ctx, authz.ObjectName("merchant", "coupon"), authz.ActionRead); err != nil {
		return nil, err
	}
	return s.platform.List(ctx, params)
}

func (s *CouponService) Create(ctx context.Context, input domain.Coupon) (domain.Coupon, error) {
	if err := s.authz.Authorize(ctx, authz.ObjectName("merchant", "coupon"), authz.ActionCreate); err != nil {
		return domain.Coupon{}, err
	}
	if input.Status == "" {
		input.Status = domain.StatusActive
	}
	created, err := s.platform.Create(ctx, input)
	if err != nil {
		return domain.Coupon{}, err
	}
	s.bus.Publish(domain.CouponCreatedEvent{Result: created})
	return created, nil
}

func (s *CouponService) Update(ctx context.Context, code string, patch domain.Coupon) (domain.Coupon, error) {
	if err := s.authz.Authorize(ctx, authz.ObjectName("merchant", "coupon"), authz.ActionUpdate); err != nil {
		return domain.Coupon{}, err
	}
	old, err := s.platform.GetByCode(ctx, code)
	if err != nil {
		return domain.Coupon{}, err
	}
	updated, err := s.platform.Update(ctx, code, patch)
	if err != nil {
		return domain.Coupon{}, err
	}
	s.bus.Publish(domain.CouponUpdatedEvent{Old: old, Result: updated})
	return updated, nil
}

func (s *CouponService) Remove(ctx context.Context, code string) error {
	if err := s.authz.Authorize(ctx, authz.ObjectName("merchant", "coupon"), authz.ActionDelete); err != nil {
		return err
	}
	if perm := s.guard.Evaluate(ctx, code); !perm.CanDelete {
		return &listkit.DeleteBlockedError{Reason: perm.Reason}
	}
	old, err := s.platform.GetByCode(ctx, code)
	if err != nil {
		return err
	}
	if err := s.platform.Delete(ctx, code); err != nil {
		return err
	}
	s.bus.Publish(domain.CouponDeletedEvent{Result: old})
	return nil
}
