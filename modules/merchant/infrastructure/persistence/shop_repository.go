package persistence

import (
	"context"
	"strings"

	"github.com/go-faster/errors"
	"github.com/google/uuid"

	"github.com/hanamiya/console/modules/merchant/domain"
	"github.com/hanamiya/console/pkg/composables"
	"github.com/hanamiya/console/pkg/listkit"
	"github.com/hanamiya/console/pkg/repo"
)

const (
	selectShopsQuery = `SELECT id, merchant_id, name, address, status, created_at, updated_at FROM shops`
	countShopsQuery  = `SELECT COUNT(*) FROM shops`
	insertShopQuery  = `
		INSERT INTO shops (id, merchant_id, name, address, status, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`
	updateShopQuery = `
		UPDATE shops
		SET merchant_id = $2, name = $3, address = $4, status = $5, updated_at = $6
		WHERE id = $1`
	deleteShopQuery               = `DELETE FROM shops WHERE id = $1`
	countActiveShopsByMerchantSQL = `SELECT COUNT(*) FROM shops WHERE merchant_id = $1 AND status = 'active'`
)

var shopSortFields = map[string]string{
	"name":      "name",
	"status":    "status",
	"createdAt": "created_at",
}

type PgShopRepository struct{}

func NewPgShopRepository() domain.ShopRepository {
	return &PgShopRepository{}
}

func (r *PgShopRepository) queryShops(ctx context.Context, query string, args ...any) ([]domain.Shop, error) {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return nil, err
	}
	rows, err := tx.Query(ctx, query, args...)
	if err != nil {
		return nil, errors.Wrap(err, "failed to query shops")
	}
	defer rows.Close()

	shops := make([]domain.Shop, 0)
	for rows.Next() {
		var (
			s      domain.Shop
			status string
		)
		if err := rows.Scan(&s.ID, &s.MerchantID, &s.Name, &s.Address, &status, &s.CreatedAt, &s.UpdatedAt); err != nil {
			return nil, errors.Wrap(err, "failed to scan shop row")
		}
		s.Status = domain.Status(status)
		shops = append(shops, s)
	}
	return shops, rows.Err()
}

func (r *PgShopRepository) List(ctx context.Context, params listkit.SearchParams) ([]domain.Shop, error) {
	where, args := repo.BuildFilters(params, []string{"name", "address"}, map[string]string{"merchantId": "merchant_id"})
	query := selectShopsQuery + " WHERE " + strings.Join(where, " AND ") +
		repo.OrderClause(params, shopSortFields) + repo.LimitClause(params)
	return r.queryShops(ctx, query, args...)
}

func (r *PgShopRepository) Count(ctx context.Context, params listkit.SearchParams) (int64, error) {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return 0, err
	}
	where, args := repo.BuildFilters(params, []string{"name", "address"}, map[string]string{"merchantId": "merchant_id"})
	var count int64
	if err := tx.QueryRow(ctx, countShopsQuery+" WHERE "+strings.Join(where, " AND "), args...).Scan(&count); err != nil {
		return 0, errors.Wrap(err, "failed to count shops")
	}
	return count, nil
}

func (r *PgShopRepository) GetByID(ctx context.Context, id uuid.UUID) (domain.Shop, error) {
	shops, err := r.queryShops(ctx, selectShopsQuery+" WHERE id = $1", id)
	if err != nil {
		return domain.Shop{}, err
	}
	if len(shops) == 0 {
		return domain.Shop{}, domain.ErrNotFound
	}
	return shops[0], nil
}

func (r *PgShopRepository) Create(ctx context.Context, s domain.Shop) (domain.Shop, error) {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return domain.Shop{}, err
	}
	if _, err := tx.Exec(ctx, insertShopQuery,
		s.ID, s.MerchantID, s.Name, s.Address, string(s.Status), s.CreatedAt, s.UpdatedAt,
	); err != nil {
		return domain.Shop{}, errors.Wrap(err, "failed to insert shop")
	}
	return s, nil
}

func (r *PgShopRepository) Update(ctx context.Context, s domain.Shop) (domain.Shop, error) {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return domain.Shop{}, err
	}
	tag, err := tx.Exec(ctx, updateShopQuery,
		s.ID, s.MerchantID, s.Name, s.Address, string(s.Status), s.UpdatedAt,
	)
	if err != nil {
		return domain.Shop{}, errors.Wrap(err, "failed to update shop")
	}
	if tag.RowsAffected() == 0 {
		return domain.Shop{}, domain.ErrNotFound
	}
	return s, nil
}

func (r *PgShopRepository) Delete(ctx context.Context, id uuid.UUID) error {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return err
	}
	tag, err := tx.Exec(ctx, deleteShopQuery, id)
	if err != nil {
		return errors.Wrap(err, "failed to delete shop")
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *PgShopRepository) CountActiveByMerchant(ctx context.Context, merchantID uuid.UUID) (int64, error) {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return 0, err
	}
	var count int64
	if err := tx.QueryRow(ctx, countActiveShopsByMerchantSQL, merchantID).Scan(&count); err != nil {
		return 0, errors.Wrap(err, "failed to count active shops by merchant")
	}
	return count, nil
}
