package merchant

import (
	"fmt"
	"strings"
	"time"

	"github.com/go-faster/errors"
	"github.com/sirupsen/logrus"

	"github.com/hanamiya/console/modules/merchant/domain"
	"github.com/hanamiya/console/modules/merchant/infrastructure/persistence"
	"github.com/hanamiya/console/modules/merchant/presentation"
	"github.com/hanamiya/console/modules/merchant/services"
	"github.com/hanamiya/console/pkg/authz"
	"github.com/hanamiya/console/pkg/crudhttp"
	"github.com/hanamiya/console/pkg/eventbus"
	"github.com/hanamiya/console/pkg/listkit"
	"github.com/hanamiya/console/pkg/server"
)

// Options wires the merchant module into the application's shared
// infrastructure. When CouponBaseURL is empty the module falls back to
// an in-memory coupon store, which local runs and tests rely on.
type Options struct {
	DBEnabled     bool
	Authz         *authz.Service
	Bus           eventbus.EventBus
	Logger        *logrus.Logger
	CouponBaseURL string
	CouponAPIKey  string
	CouponTimeout time.Duration
	PageSize      int
	MaxPageSize   int
}

type Module struct {
	Merchants *services.MerchantService
	Shops     *services.ShopService
	Coupons   *services.CouponService

	controllers []server.Controller
}

func NewModule(opts Options) *Module {
	var (
		merchantRepo domain.MerchantRepository
		shopRepo     domain.ShopRepository
	)
	if opts.DBEnabled {
		merchantRepo = persistence.NewPgMerchantRepository()
		shopRepo = persistence.NewPgShopRepository()
	} else {
		merchantRepo = persistence.NewMemoryMerchantRepository()
		shopRepo = persistence.NewMemoryShopRepository()
	}

	var platform domain.CouponPlatform
	if opts.CouponBaseURL != "" {
		platform = persistence.NewCouponClient(opts.CouponBaseURL, opts.CouponAPIKey, opts.CouponTimeout, opts.Logger)
	} else {
		platform = persistence.NewMemoryCouponPlatform()
	}

	m := &Module{
		Merchants: services.NewMerchantService(merchantRepo, shopRepo, opts.Authz, opts.Bus, opts.Logger),
		Shops:     services.NewShopService(shopRepo, platform, opts.Authz, opts.Bus, opts.Logger),
		Coupons:   services.NewCouponService(platform, opts.Authz, opts.Bus, opts.Logger),
	}

	log := opts.Logger

	// Merchant-console writes touch partner-facing data; keep an audit
	// trail of every mutation event.
	opts.Bus.Subscribe(func(e domain.MutationEvent) {
		log.WithField("event", fmt.Sprintf("%T", e)).Info("merchant mutation")
	})

	m.controllers = []server.Controller{
		crudhttp.NewEntityController(
			"/merchant/merchants",
			listkit.NewController("merchant", m.Merchants,
				listkit.WithDeleteGuard[domain.Merchant](m.Merchants.DeleteGuard()),
				listkit.WithLogger[domain.Merchant](log.WithField("controller", "merchant")),
			),
			presentation.MerchantColumns(),
			presentation.MerchantPolicy(),
			presentation.PresentMerchant,
			crudhttp.WithPageLimits[domain.Merchant](opts.PageSize, opts.MaxPageSize),
		),
		crudhttp.NewEntityController(
			"/merchant/shops",
			listkit.NewController("shop", m.Shops,
				listkit.WithDeleteGuard[domain.Shop](m.Shops.DeleteGuard()),
				listkit.WithLogger[domain.Shop](log.WithField("controller", "shop")),
			),
			presentation.ShopColumns(),
			presentation.ShopPolicy(),
			presentation.PresentShop,
			crudhttp.WithPageLimits[domain.Shop](opts.PageSize, opts.MaxPageSize),
		),
		crudhttp.NewEntityController(
			"/merchant/coupons",
			listkit.NewController("coupon", m.Coupons,
				listkit.WithDeleteGuard[domain.Coupon](m.Coupons.DeleteGuard()),
				listkit.WithLogger[domain.Coupon](log.WithField("controller", "coupon")),
			),
			presentation.CouponColumns(),
			presentation.CouponPolicy(),
			presentation.PresentCoupon,
			crudhttp.WithPageLimits[domain.Coupon](opts.PageSize, opts.MaxPageSize),
			crudhttp.WithIDValidator[domain.Coupon](validateCouponCode),
		),
	}
	return m
}

func (m *Module) Controllers() []server.Controller {
	return m.controllers
}

// validateCouponCode accepts the platform's code format: non-empty,
// no path separators.
func validateCouponCode(code string) error {
	if strings.TrimSpace(code) == "" {
		return errors.New("empty coupon code")
	}
	if strings.ContainsAny(code, "/ ") {
		return errors.New("malformed coupon code")
	}
	return nil
}
