package persistence

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/go-faster/errors"
	"github.com/go-resty/resty/v2"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/hanamiya/console/modules/merchant/domain"
	"github.com/hanamiya/console/pkg/listkit"
)

// couponEnvelope is the platform's uniform response shape. A non-zero
// Status carries an error message in Msg.
type couponEnvelope[T any] struct {
	Status int    `json:"status"`
	Msg    string `json:"msg"`
	Data   T      `json:"data"`
}

type couponCountPayload struct {
	Count int64 `json:"count"`
}

// CouponClient talks to the external coupon platform. It implements
// domain.CouponPlatform so the coupon service is oblivious to whether
// coupons live locally or remotely.
type CouponClient struct {
	http *resty.Client
	log  *logrus.Entry
}

func NewCouponClient(baseURL, apiKey string, timeout time.Duration, log *logrus.Logger) *CouponClient {
	client := resty.New().
		SetBaseURL(baseURL).
		SetTimeout(timeout).
		SetRetryCount(3).
		SetRetryWaitTime(500*time.Millisecond).
		SetRetryMaxWaitTime(3*time.Second).
		SetHeader("Content-Type", "application/json").
		SetHeader("Accept", "application/json").
		SetAuthToken(apiKey)

	return &CouponClient{
		http: client,
		log:  log.WithField("client", "coupon-platform"),
	}
}

func decode[T any](resp *resty.Response, env *couponEnvelope[T], err error, op string) (T, error) {
	var zero T
	if err != nil {
		return zero, errors.Wrapf(err, "coupon platform: %s failed", op)
	}
	if resp.StatusCode() == http.StatusNotFound {
		return zero, domain.ErrNotFound
	}
	if resp.IsError() {
		return zero, errors.Errorf("coupon platform: %s returned HTTP %d", op, resp.StatusCode())
	}
	if env.Status != 0 {
		return zero, errors.Errorf("coupon platform: %s rejected: %s", op, env.Msg)
	}
	return env.Data, nil
}

func (c *CouponClient) List(ctx context.Context, params listkit.SearchParams) ([]domain.Coupon, error) {
	var env couponEnvelope[[]domain.Coupon]
	req := c.http.R().SetContext(ctx).SetResult(&env)
	for key, value := range params {
		req.SetQueryParam(key, value)
	}
	resp, err := req.Get("/v1/coupons")
	coupons, err := decode(resp, &env, err, "list")
	if err != nil {
		return nil, err
	}
	if coupons == nil {
		coupons = []domain.Coupon{}
	}
	return coupons, nil
}

func (c *CouponClient) GetByCode(ctx context.Context, code string) (domain.Coupon, error) {
	var env couponEnvelope[domain.Coupon]
	resp, err := c.http.R().
		SetContext(ctx).
		SetResult(&env).
		Get("/v1/coupons/" + code)
	return decode(resp, &env, err, fmt.Sprintf("get %s", code))
}

func (c *CouponClient) Create(ctx context.Context, coupon domain.Coupon) (domain.Coupon, error) {
	var env couponEnvelope[domain.Coupon]
	resp, err := c.http.R().
		SetContext(ctx).
		SetBody(coupon).
		SetResult(&env).
		Post("/v1/coupons")
	return decode(resp, &env, err, "create")
}

func (c *CouponClient) Update(ctx context.Context, code string, coupon domain.Coupon) (domain.Coupon, error) {
	var env couponEnvelope[domain.Coupon]
	resp, err := c.http.R().
		SetContext(ctx).
		SetBody(coupon).
		SetResult(&env).
		Put("/v1/coupons/" + code)
	return decode(resp, &env, err, fmt.Sprintf("update %s", code))
}

func (c *CouponClient) Delete(ctx context.Context, code string) error {
	var env couponEnvelope[struct{}]
	resp, err := c.http.R().
		SetContext(ctx).
		SetResult(&env).
		Delete("/v1/coupons/" + code)
	_, err = decode(resp, &env, err, fmt.Sprintf("delete %s", code))
	return err
}

func (c *CouponClient) CountActiveByShop(ctx context.Context, shopID uuid.UUID) (int64, error) {
	var env couponEnvelope[couponCountPayload]
	resp, err := c.http.R().
		SetContext(ctx).
		SetQueryParam("shopId", shopID.String()).
		SetQueryParam("status", string(domain.StatusActive)).
		SetResult(&env).
		Get("/v1/coupons/count")
	payload, err := decode(resp, &env, err, "count")
	if err != nil {
		return 0, err
	}
	return payload.Count, nil
}
