package persistence

import (
	"context"
	"sort"
	"strings"
	"sync"

	"github.com/google/uuid"

	"github.com/hanamiya/console/modules/merchant/domain"
	"github.com/hanamiya/console/pkg/listkit"
	"github.com/hanamiya/console/pkg/repo"
)

func containsFold(haystack, needle string) bool {
	return strings.Contains(strings.ToLower(haystack), strings.ToLower(needle))
}

func statusMatches(params listkit.SearchParams, status domain.Status) bool {
	want, ok := params[listkit.KeyStatus]
	return !ok || string(status) == want
}

// --- Merchant ---

type MemoryMerchantRepository struct {
	table *repo.MemTable[domain.Merchant]
}

func NewMemoryMerchantRepository() *MemoryMerchantRepository {
	return &MemoryMerchantRepository{
		table: repo.NewMemTable(
			func(m domain.Merchant) uuid.UUID { return m.ID },
			func(m domain.Merchant, params listkit.SearchParams) bool {
				if q, ok := params[listkit.KeyQuery]; ok && !containsFold(m.Name, q) && !containsFold(m.Email, q) {
					return false
				}
				return statusMatches(params, m.Status)
			},
			func(a, b domain.Merchant, sortBy string) int {
				if sortBy == "name" {
					return strings.Compare(a.Name, b.Name)
				}
				return a.CreatedAt.Compare(b.CreatedAt)
			},
		),
	}
}

func (r *MemoryMerchantRepository) List(ctx context.Context, params listkit.SearchParams) ([]domain.Merchant, error) {
	return r.table.List(params), nil
}

func (r *MemoryMerchantRepository) Count(ctx context.Context, params listkit.SearchParams) (int64, error) {
	return r.table.Count(params), nil
}

func (r *MemoryMerchantRepository) GetByID(ctx context.Context, id uuid.UUID) (domain.Merchant, error) {
	m, ok := r.table.Get(id)
	if !ok {
		return domain.Merchant{}, domain.ErrNotFound
	}
	return m, nil
}

func (r *MemoryMerchantRepository) Create(ctx context.Context, m domain.Merchant) (domain.Merchant, error) {
	r.table.Put(m)
	return m, nil
}

func (r *MemoryMerchantRepository) Update(ctx context.Context, m domain.Merchant) (domain.Merchant, error) {
	if _, ok := r.table.Get(m.ID); !ok {
		return domain.Merchant{}, domain.ErrNotFound
	}
	r.table.Put(m)
	return m, nil
}

func (r *MemoryMerchantRepository) Delete(ctx context.Context, id uuid.UUID) error {
	if !r.table.Delete(id) {
		return domain.ErrNotFound
	}
	return nil
}

// --- Shop ---

type MemoryShopRepository struct {
	table *repo.MemTable[domain.Shop]
}

func NewMemoryShopRepository() *MemoryShopRepository {
	return &MemoryShopRepository{
		table: repo.NewMemTable(
			func(s domain.Shop) uuid.UUID { return s.ID },
			func(s domain.Shop, params listkit.SearchParams) bool {
				if q, ok := params[listkit.KeyQuery]; ok && !containsFold(s.Name, q) && !containsFold(s.Address, q) {
					return false
				}
				if want, ok := params["merchantId"]; ok && s.MerchantID.String() != want {
					return false
				}
				return statusMatches(params, s.Status)
			},
			func(a, b domain.Shop, sortBy string) int {
				if sortBy == "name" {
					return strings.Compare(a.Name, b.Name)
				}
				return a.CreatedAt.Compare(b.CreatedAt)
			},
		),
	}
}

func (r *MemoryShopRepository) List(ctx context.Context, params listkit.SearchParams) ([]domain.Shop, error) {
	return r.table.List(params), nil
}

func (r *MemoryShopRepository) Count(ctx context.Context, params listkit.SearchParams) (int64, error) {
	return r.table.Count(params), nil
}

func (r *MemoryShopRepository) GetByID(ctx context.Context, id uuid.UUID) (domain.Shop, error) {
	s, ok := r.table.Get(id)
	if !ok {
		return domain.Shop{}, domain.ErrNotFound
	}
	return s, nil
}

func (r *MemoryShopRepository) Create(ctx context.Context, s domain.Shop) (domain.Shop, error) {
	r.table.Put(s)
	return s, nil
}

func (r *MemoryShopRepository) Update(ctx context.Context, s domain.Shop) (domain.Shop, error) {
	if _, ok := r.table.Get(s.ID); !ok {
		return domain.Shop{}, domain.ErrNotFound
	}
	r.table.Put(s)
	return s, nil
}

func (r *MemoryShopRepository) Delete(ctx context.Context, id uuid.UUID) error {
	if !r.table.Delete(id) {
		return domain.ErrNotFound
	}
	return nil
}

func (r *MemoryShopRepository) CountActiveByMerchant(ctx context.Context, merchantID uuid.UUID) (int64, error) {
	return r.table.CountWhere(func(s domain.Shop) bool {
		return s.MerchantID == merchantID && s.Status.IsActive()
	}), nil
}

// --- Coupon platform stub ---

// MemoryCouponPlatform stands in for the remote coupon API in local
// runs and tests. Coupons are keyed by their platform code.
type MemoryCouponPlatform struct {
	mu      sync.RWMutex
	coupons map[string]domain.Coupon
}

func NewMemoryCouponPlatform() *MemoryCouponPlatform {
	return &MemoryCouponPlatform{coupons: make(map[string]domain.Coupon)}
}

func (p *MemoryCouponPlatform) List(ctx context.Context, params listkit.SearchParams) ([]domain.Coupon, error) {
	p.mu.RLock()
	defer p.mu.RUnlock()

	out := make([]domain.Coupon, 0, len(p.coupons))
	for _, c := range p.coupons {
		if q, ok := params[listkit.KeyQuery]; ok && !containsFold(c.Title, q) && !containsFold(c.Code, q) {
			continue
		}
		if want, ok := params["shopId"]; ok && c.ShopID.String() != want {
			continue
		}
		if !statusMatches(params, c.Status) {
			continue
		}
		out = append(out, c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Code < out[j].Code })
	return out, nil
}

func (p *MemoryCouponPlatform) GetByCode(ctx context.Context, code string) (domain.Coupon, error) {
	p.mu.RLock()
	defer p.mu.RUnlock()
	c, ok := p.coupons[code]
	if !ok {
		return domain.Coupon{}, domain.ErrNotFound
	}
	return c, nil
}

func (p *MemoryCouponPlatform) Create(ctx context.Context, c domain.Coupon) (domain.Coupon, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.coupons[c.Code] = c
	return c, nil
}

func (p *MemoryCouponPlatform) Update(ctx context.Context, code string, c domain.Coupon) (domain.Coupon, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if _, ok := p.coupons[code]; !ok {
		return domain.Coupon{}, domain.ErrNotFound
	}
	c.Code = code
	p.coupons[code] = c
	return c, nil
}

func (p *MemoryCouponPlatform) Delete(ctx context.Context, code string) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if _, ok := p.coupons[code]; !ok {
		return domain.ErrNotFound
	}
	delete(p.coupons, code)
	return nil
}

func (p *MemoryCouponPlatform) CountActiveByShop(ctx context.Context, shopID uuid.UUID) (int64, error) {
	p.mu.RLock()
	defer p.mu.RUnlock()
	var n int64
	for _, c := range p.coupons {
		if c.ShopID == shopID && c.Status.IsActive() {
			n++
		}
	}
	return n, nil
}
