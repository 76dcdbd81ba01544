package domain

import (
	"time"

	"github.com/google/uuid"
)

// Merchant is a business account. It must be inactive and free of
// active shops before it can be deleted.
type Merchant struct {
	ID        uuid.UUID `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Phone     string    `json:"phone"`
	Status    Status    `json:"status"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// Shop is a storefront owned by a merchant.
type Shop struct {
	ID         uuid.UUID `json:"id"`
	MerchantID uuid.UUID `json:"merchantId"`
	Name       string    `json:"name"`
	Address    string    `json:"address"`
	Status     Status    `json:"status"`
	CreatedAt  time.Time `json:"createdAt"`
	UpdatedAt  time.Time `json:"updatedAt"`
}

// Coupon lives on the external coupon platform; the console mirrors it
// through the platform API. The platform issues its own string codes.
type Coupon struct {
	Code      string    `json:"code"`
	ShopID    uuid.UUID `json:"shopId"`
	Title     string    `json:"title"`
	Discount  int       `json:"discount"`
	Status    Status    `json:"status"`
	ExpiresAt time.Time `json:"expiresAt"`
	CreatedAt time.Time `json:"createdAt"`
}
