package services_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/require"

	"github.com/hanamiya/console/modules/merchant/domain"
	"github.com/hanamiya/console/modules/merchant/infrastructure/persistence"
	"github.com/hanamiya/console/modules/merchant/services"
	"github.com/hanamiya/console/pkg/authz/authztest"
	"github.com/hanamiya/console/pkg/eventbus"
	"github.com/hanamiya/console/pkg/listkit"
)

type merchantFixture struct {
	merchants *persistence.MemoryMerchantRepository
	shops     *persistence.MemoryShopRepository
	platform  *persistence.MemoryCouponPlatform

	merchantSvc *services.MerchantService
	shopSvc     *services.ShopService
	couponSvc   *services.CouponService
}

func newMerchantFixture(t *testing.T) *merchantFixture {
	t.Helper()

	logger := logrus.New()
	logger.SetLevel(logrus.PanicLevel)

	f := &merchantFixture{
		merchants: persistence.NewMemoryMerchantRepository(),
		shops:     persistence.NewMemoryShopRepository(),
		platform:  persistence.NewMemoryCouponPlatform(),
	}
	authzSvc := authztest.NewDisabled(t)
	bus := eventbus.NewEventPublisher(logger)
	f.merchantSvc = services.NewMerchantService(f.merchants, f.shops, authzSvc, bus, logger)
	f.shopSvc = services.NewShopService(f.shops, f.platform, authzSvc, bus, logger)
	f.couponSvc = services.NewCouponService(f.platform, authzSvc, bus, logger)
	return f
}

func TestMerchantService_RemoveDeniedOnActiveShops(t *testing.T) {
	t.Parallel()
	f := newMerchantFixture(t)

	m, err := f.merchantSvc.Create(context.Background(), domain.Merchant{Name: "Yamada", Status: domain.StatusInactive})
	require.NoError(t, err)
	_, err = f.shopSvc.Create(context.Background(), domain.Shop{MerchantID: m.ID, Name: "Yamada Ebisu"})
	require.NoError(t, err)

	err = f.merchantSvc.Remove(context.Background(), m.ID.String())

	var blocked *listkit.DeleteBlockedError
	require.ErrorAs(t, err, &blocked)
	require.Equal(t, "merchant still has active shops", blocked.Reason)
}

func TestShopService_RemoveDeniedOnActiveCoupons(t *testing.T) {
	t.Parallel()
	f := newMerchantFixture(t)

	m, err := f.merchantSvc.Create(context.Background(), domain.Merchant{Name: "Yamada"})
	require.NoError(t, err)
	shop, err := f.shopSvc.Create(context.Background(), domain.Shop{MerchantID: m.ID, Name: "Yamada Ebisu"})
	require.NoError(t, err)

	_, err = f.couponSvc.Create(context.Background(), domain.Coupon{
		Code:      "CPN-1001",
		ShopID:    shop.ID,
		Title:     "10% off",
		Discount:  10,
		Status:    domain.StatusActive,
		ExpiresAt: time.Now().Add(24 * time.Hour),
	})
	require.NoError(t, err)

	err = f.shopSvc.Remove(context.Background(), shop.ID.String())

	var blocked *listkit.DeleteBlockedError
	require.ErrorAs(t, err, &blocked)
	require.Equal(t, "shop still has active coupons", blocked.Reason)
}

func TestCouponService_RemoveDeniedWhileActive(t *testing.T) {
	t.Parallel()
	f := newMerchantFixture(t)

	_, err := f.couponSvc.Create(context.Background(), domain.Coupon{
		Code:   "CPN-2002",
		ShopID: uuid.New(),
		Title:  "500 yen off",
		Status: domain.StatusActive,
	})
	require.NoError(t, err)

	err = f.couponSvc.Remove(context.Background(), "CPN-2002")

	var blocked *listkit.DeleteBlockedError
	require.ErrorAs(t, err, &blocked)
	require.Equal(t, "coupon is still active", blocked.Reason)
}

func TestCouponService_RemoveInactiveCoupon(t *testing.T) {
	t.Parallel()
	f := newMerchantFixture(t)

	_, err := f.couponSvc.Create(context.Background(), domain.Coupon{
		Code:   "CPN-3003",
		ShopID: uuid.New(),
		Title:  "expired promo",
		Status: domain.StatusInactive,
	})
	require.NoError(t, err)

	require.NoError(t, f.couponSvc.Remove(context.Background(), "CPN-3003"))

	list, err := f.couponSvc.List(context.Background(), listkit.SearchParams{})
	require.NoError(t, err)
	require.Empty(t, list)
}

func TestCouponService_GuardNotFound(t *testing.T) {
	t.Parallel()
	f := newMerchantFixture(t)

	perm := f.couponSvc.DeleteGuard().Evaluate(context.Background(), "CPN-MISSING")
	require.False(t, perm.CanDelete)
	require.Equal(t, listkit.ReasonNotFound, perm.Reason)
}

func TestShopService_RemoveAfterCouponsExpire(t *testing.T) {
	t.Parallel()
	f := newMerchantFixture(t)

	m, err := f.merchantSvc.Create(context.Background(), domain.Merchant{Name: "Yamada"})
	require.NoError(t, err)
	shop, err := f.shopSvc.Create(context.Background(), domain.Shop{MerchantID: m.ID, Name: "Yamada Ebisu"})
	require.NoError(t, err)

	coupon, err := f.couponSvc.Create(context.Background(), domain.Coupon{
		Code:   "CPN-4004",
		ShopID: shop.ID,
		Status: domain.StatusActive,
	})
	require.NoError(t, err)

	coupon.Status = domain.StatusInactive
	_, err = f.couponSvc.Update(context.Background(), coupon.Code, coupon)
	require.NoError(t, err)

	require.NoError(t, f.shopSvc.Remove(context.Background(), shop.ID.String()))
}
