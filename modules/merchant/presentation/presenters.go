package presentation

import (
	"time"

	"github.com/hanamiya/console/modules/merchant/domain"
	"github.com/hanamiya/console/pkg/listkit"
)

func stamp(t time.Time) string {
	return t.Format(time.RFC3339)
}

// --- Merchant ---

func MerchantColumns() []listkit.Column {
	return []listkit.Column{
		{Key: "id", Label: "ID"},
		{Key: "name", Label: "Name", Sortable: true},
		{Key: "email", Label: "Email", Sortable: true},
		{Key: "phone", Label: "Phone"},
		{Key: "status", Label: "Status", Sortable: true},
		{Key: "createdAt", Label: "Created", Sortable: true},
	}
}

// MerchantPolicy keeps contact details away from shop staff; they only
// need to recognize the merchant by name.
func MerchantPolicy() *listkit.VisibilityPolicy {
	return listkit.NewVisibilityPolicy().
		Allow(listkit.RoleSystemAdmin, "id", "name", "email", "phone", "status", "createdAt").
		Allow(listkit.RoleMerchantAdmin, "id", "name", "email", "phone", "status", "createdAt").
		Allow(listkit.RoleShopStaff, "id", "name", "status")
}

func PresentMerchant(m domain.Merchant) listkit.Row {
	return listkit.Row{
		"id":        m.ID.String(),
		"name":      m.Name,
		"email":     m.Email,
		"phone":     m.Phone,
		"status":    string(m.Status),
		"createdAt": stamp(m.CreatedAt),
	}
}

// --- Shop ---

func ShopColumns() []listkit.Column {
	return []listkit.Column{
		{Key: "id", Label: "ID"},
		{Key: "merchantId", Label: "Merchant"},
		{Key: "name", Label: "Name", Sortable: true},
		{Key: "address", Label: "Address"},
		{Key: "status", Label: "Status", Sortable: true},
		{Key: "createdAt", Label: "Created", Sortable: true},
	}
}

func ShopPolicy() *listkit.VisibilityPolicy {
	return listkit.NewVisibilityPolicy().
		Allow(listkit.RoleSystemAdmin, "id", "merchantId", "name", "address", "status", "createdAt").
		Allow(listkit.RoleMerchantAdmin, "id", "merchantId", "name", "address", "status", "createdAt").
		Allow(listkit.RoleShopStaff, "id", "name", "address", "status")
}

func PresentShop(s domain.Shop) listkit.Row {
	return listkit.Row{
		"id":         s.ID.String(),
		"merchantId": s.MerchantID.String(),
		"name":       s.Name,
		"address":    s.Address,
		"status":     string(s.Status),
		"createdAt":  stamp(s.CreatedAt),
	}
}

// --- Coupon ---

func CouponColumns() []listkit.Column {
	return []listkit.Column{
		{Key: "code", Label: "Code"},
		{Key: "shopId", Label: "Shop"},
		{Key: "title", Label: "Title", Sortable: true},
		{Key: "discount", Label: "Discount"},
		{Key: "status", Label: "Status", Sortable: true},
		{Key: "expiresAt", Label: "Expires"},
	}
}

func CouponPolicy() *listkit.VisibilityPolicy {
	return listkit.NewVisibilityPolicy().
		Allow(listkit.RoleSystemAdmin, "code", "shopId", "title", "discount", "status", "expiresAt").
		Allow(listkit.RoleMerchantAdmin, "code", "shopId", "title", "discount", "status", "expiresAt").
		Allow(listkit.RoleShopStaff, "code", "title", "status", "expiresAt")
}

func PresentCoupon(c domain.Coupon) listkit.Row {
	return listkit.Row{
		"code":      c.Code,
		"shopId":    c.ShopID.String(),
		"title":     c.Title,
		"discount":  c.Discount,
		"status":    string(c.Status),
		"expiresAt": stamp(c.ExpiresAt),
	}
}
