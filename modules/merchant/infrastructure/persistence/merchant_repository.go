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
	selectMerchantsQuery = `SELECT id, name, email, phone, status, created_at, updated_at FROM merchants`
	countMerchantsQuery  = `SELECT COUNT(*) FROM merchants`
	insertMerchantQuery  = `
		INSERT INTO merchants (id, name, email, phone, status, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`
	updateMerchantQuery = `
		UPDATE merchants
		SET name = $2, email = $3, phone = $4, status = $5, updated_at = $6
		WHERE id = $1`
	deleteMerchantQuery = `DELETE FROM merchants WHERE id = $1`
)

var merchantSortFields = map[string]string{
	"name":      "name",
	"email":     "email",
	"status":    "status",
	"createdAt": "created_at",
}

type PgMerchantRepository struct{}

func NewPgMerchantRepository() domain.MerchantRepository {
	return &PgMerchantRepository{}
}

func (r *PgMerchantRepository) queryMerchants(ctx context.Context, query string, args ...any) ([]domain.Merchant, error) {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return nil, err
	}
	rows, err := tx.Query(ctx, query, args...)
	if err != nil {
		return nil, errors.Wrap(err, "failed to query merchants")
	}
	defer rows.Close()

	merchants := make([]domain.Merchant, 0)
	for rows.Next() {
		var (
			m      domain.Merchant
			status string
		)
		if err := rows.Scan(&m.ID, &m.Name, &m.Email, &m.Phone, &status, &m.CreatedAt, &m.UpdatedAt); err != nil {
			return nil, errors.Wrap(err, "failed to scan merchant row")
		}
		m.Status = domain.Status(status)
		merchants = append(merchants, m)
	}
	return merchants, rows.Err()
}

func (r *PgMerchantRepository) List(ctx context.Context, params listkit.SearchParams) ([]domain.Merchant, error) {
	where, args := repo.BuildFilters(params, []string{"name", "email"}, nil)
	query := selectMerchantsQuery + " WHERE " + strings.Join(where, " AND ") +
		repo.OrderClause(params, merchantSortFields) + repo.LimitClause(params)
	return r.queryMerchants(ctx, query, args...)
}

func (r *PgMerchantRepository) Count(ctx context.Context, params listkit.SearchParams) (int64, error) {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return 0, err
	}
	where, args := repo.BuildFilters(params, []string{"name", "email"}, nil)
	var count int64
	if err := tx.QueryRow(ctx, countMerchantsQuery+" WHERE "+strings.Join(where, " AND "), args...).Scan(&count); err != nil {
		return 0, errors.Wrap(err, "failed to count merchants")
	}
	return count, nil
}

func (r *PgMerchantRepository) GetByID(ctx context.Context, id uuid.UUID) (domain.Merchant, error) {
	merchants, err := r.queryMerchants(ctx, selectMerchantsQuery+" WHERE id = $1", id)
	if err != nil {
		return domain.Merchant{}, err
	}
	if len(merchants) == 0 {
		return domain.Merchant{}, domain.ErrNotFound
	}
	return merchants[0], nil
}

func (r *PgMerchantRepository) Create(ctx context.Context, m domain.Merchant) (domain.Merchant, error) {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return domain.Merchant{}, err
	}
	if _, err := tx.Exec(ctx, insertMerchantQuery,
		m.ID, m.Name, m.Email, m.Phone, string(m.Status), m.CreatedAt, m.UpdatedAt,
	); err != nil {
		return domain.Merchant{}, errors.Wrap(err, "failed to insert merchant")
	}
	return m, nil
}

func (r *PgMerchantRepository) Update(ctx context.Context, m domain.Merchant) (domain.Merchant, error) {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return domain.Merchant{}, err
	}
	tag, err := tx.Exec(ctx, updateMerchantQuery,
		m.ID, m.Name, m.Email, m.Phone, string(m.Status), m.UpdatedAt,
	)
	if err != nil {
		return domain.Merchant{}, errors.Wrap(err, "failed to update merchant")
	}
	if tag.RowsAffected() == 0 {
		return domain.Merchant{}, domain.ErrNotFound
	}
	return m, nil
}

func (r *PgMerchantRepository) Delete(ctx context.Context, id uuid.UUID) error {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return err
	}
	tag, err := tx.Exec(ctx, deleteMerchantQuery, id)
	if err != nil {
		return errors.Wrap(err, "failed to delete merchant")
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}
