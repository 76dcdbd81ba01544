package domain

import (
	"context"

	"github.com/google/uuid"

	"github.com/hanamiya/console/pkg/listkit"
)

type MerchantRepository interface {
	List(ctx context.Context, params listkit.SearchParams) ([]Merchant, error)
	Count(ctx context.Context, params listkit.SearchParams) (int64, error)
	GetByID(ctx context.Context, id uuid.UUID) (Merchant, error)
	Create(ctx context.Context, m Merchant) (Merchant, error)
	Update(ctx context.Context, m Merchant) (Merchant, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

type ShopRepository interface {
	List(ctx context.Context, params listkit.SearchParams) ([]Shop, error)
	Count(ctx context.Context, params listkit.SearchParams) (int64, error)
	GetByID(ctx context.Context, id uuid.UUID) (Shop, error)
	Create(ctx context.Context, s Shop) (Shop, error)
	Update(ctx context.Context, s Shop) (Shop, error)
	Delete(ctx context.Context, id uuid.UUID) error
	CountActiveByMerchant(ctx context.Context, merchantID uuid.UUID) (int64, error)
}

// CouponPlatform is the console's view of the external coupon API.
type CouponPlatform interface {
	List(ctx context.Context, params listkit.SearchParams) ([]Coupon, error)
	GetByCode(ctx context.Context, code string) (Coupon, error)
	Create(ctx context.Context, c Coupon) (Coupon, error)
	Update(ctx context.Context, code string, c Coupon) (Coupon, error)
	Delete(ctx context.Context, code string) error
	CountActiveByShop(ctx context.Context, shopID uuid.UUID) (int64, error)
}
