package persistence

import (
	"context"
	"strings"

	"github.com/go-faster/errors"
	"github.com/google/uuid"

	"github.com/hanamiya/console/modules/care/domain"
	"github.com/hanamiya/console/pkg/composables"
	"github.com/hanamiya/console/pkg/listkit"
	"github.com/hanamiya/console/pkg/repo"
)

const (
	selectOfficesQuery = `
		SELECT id, name, postal_code, address, phone, status, created_at, updated_at
		FROM care_offices`
	countOfficesQuery = `SELECT COUNT(*) FROM care_offices`
	insertOfficeQuery = `
		INSERT INTO care_offices (id, name, postal_code, address, phone, status, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`
	updateOfficeQuery = `
		UPDATE care_offices
		SET name = $2, postal_code = $3, address = $4, phone = $5, status = $6, updated_at = $7
		WHERE id = $1`
	deleteOfficeQuery = `DELETE FROM care_offices WHERE id = $1`
)

var officeSortFields = map[string]string{
	"name":      "name",
	"status":    "status",
	"createdAt": "created_at",
}

type PgOfficeRepository struct{}

func NewPgOfficeRepository() domain.OfficeRepository {
	return &PgOfficeRepository{}
}

func (r *PgOfficeRepository) queryOffices(ctx context.Context, query string, args ...any) ([]domain.Office, error) {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return nil, err
	}
	rows, err := tx.Query(ctx, query, args...)
	if err != nil {
		return nil, errors.Wrap(err, "failed to query care_offices")
	}
	defer rows.Close()

	offices := make([]domain.Office, 0)
	for rows.Next() {
		var (
			o      domain.Office
			status string
		)
		if err := rows.Scan(&o.ID, &o.Name, &o.PostalCode, &o.Address, &o.Phone, &status, &o.CreatedAt, &o.UpdatedAt); err != nil {
			return nil, errors.Wrap(err, "failed to scan office row")
		}
		o.Status = domain.Status(status)
		offices = append(offices, o)
	}
	return offices, rows.Err()
}

func (r *PgOfficeRepository) List(ctx context.Context, params listkit.SearchParams) ([]domain.Office, error) {
	where, args := repo.BuildFilters(params, []string{"name", "address"}, nil)
	query := selectOfficesQuery + " WHERE " + strings.Join(where, " AND ") +
		repo.OrderClause(params, officeSortFields) + repo.LimitClause(params)
	return r.queryOffices(ctx, query, args...)
}

func (r *PgOfficeRepository) Count(ctx context.Context, params listkit.SearchParams) (int64, error) {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return 0, err
	}
	where, args := repo.BuildFilters(params, []string{"name", "address"}, nil)
	var count int64
	if err := tx.QueryRow(ctx, countOfficesQuery+" WHERE "+strings.Join(where, " AND "), args...).Scan(&count); err != nil {
		return 0, errors.Wrap(err, "failed to count care_offices")
	}
	return count, nil
}

func (r *PgOfficeRepository) GetByID(ctx context.Context, id uuid.UUID) (domain.Office, error) {
	offices, err := r.queryOffices(ctx, selectOfficesQuery+" WHERE id = $1", id)
	if err != nil {
		return domain.Office{}, err
	}
	if len(offices) == 0 {
		return domain.Office{}, domain.ErrNotFound
	}
	return offices[0], nil
}

func (r *PgOfficeRepository) Create(ctx context.Context, o domain.Office) (domain.Office, error) {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return domain.Office{}, err
	}
	if _, err := tx.Exec(ctx, insertOfficeQuery,
		o.ID, o.Name, o.PostalCode, o.Address, o.Phone, string(o.Status), o.CreatedAt, o.UpdatedAt,
	); err != nil {
		return domain.Office{}, errors.Wrap(err, "failed to insert office")
	}
	return o, nil
}

func (r *PgOfficeRepository) Update(ctx context.Context, o domain.Office) (domain.Office, error) {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return domain.Office{}, err
	}
	tag, err := tx.Exec(ctx, updateOfficeQuery,
		o.ID, o.Name, o.PostalCode, o.Address, o.Phone, string(o.Status), o.UpdatedAt,
	)
	if err != nil {
		return domain.Office{}, errors.Wrap(err, "failed to update office")
	}
	if tag.RowsAffected() == 0 {
		return domain.Office{}, domain.ErrNotFound
	}
	return o, nil
}

func (r *PgOfficeRepository) Delete(ctx context.Context, id uuid.UUID) error {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return err
	}
	tag, err := tx.Exec(ctx, deleteOfficeQuery, id)
	if err != nil {
		return errors.Wrap(err, "failed to delete office")
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}
