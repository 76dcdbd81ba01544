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
	selectStaffQuery = `
		SELECT id, office_id, name, email, phone, status, created_at, updated_at
		FROM care_staff`
	countStaffQuery  = `SELECT COUNT(*) FROM care_staff`
	insertStaffQuery = `
		INSERT INTO care_staff (id, office_id, name, email, phone, status, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`
	updateStaffQuery = `
		UPDATE care_staff
		SET office_id = $2, name = $3, email = $4, phone = $5, status = $6, updated_at = $7
		WHERE id = $1`
	deleteStaffQuery            = `DELETE FROM care_staff WHERE id = $1`
	countActiveStaffByOfficeSQL = `SELECT COUNT(*) FROM care_staff WHERE office_id = $1 AND status = 'active'`
)

var staffSortFields = map[string]string{
	"name":      "name",
	"email":     "email",
	"status":    "status",
	"createdAt": "created_at",
}

type PgStaffRepository struct{}

func NewPgStaffRepository() domain.StaffRepository {
	return &PgStaffRepository{}
}

func (r *PgStaffRepository) queryStaff(ctx context.Context, query string, args ...any) ([]domain.Staff, error) {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return nil, err
	}
	rows, err := tx.Query(ctx, query, args...)
	if err != nil {
		return nil, errors.Wrap(err, "failed to query care_staff")
	}
	defer rows.Close()

	staff := make([]domain.Staff, 0)
	for rows.Next() {
		var (
			s      domain.Staff
			status string
		)
		if err := rows.Scan(&s.ID, &s.OfficeID, &s.Name, &s.Email, &s.Phone, &status, &s.CreatedAt, &s.UpdatedAt); err != nil {
			return nil, errors.Wrap(err, "failed to scan staff row")
		}
		s.Status = domain.Status(status)
		staff = append(staff, s)
	}
	return staff, rows.Err()
}

func (r *PgStaffRepository) List(ctx context.Context, params listkit.SearchParams) ([]domain.Staff, error) {
	where, args := repo.BuildFilters(params, []string{"name", "email"}, map[string]string{"officeId": "office_id"})
	query := selectStaffQuery + " WHERE " + strings.Join(where, " AND ") +
		repo.OrderClause(params, staffSortFields) + repo.LimitClause(params)
	return r.queryStaff(ctx, query, args...)
}

func (r *PgStaffRepository) Count(ctx context.Context, params listkit.SearchParams) (int64, error) {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return 0, err
	}
	where, args := repo.BuildFilters(params, []string{"name", "email"}, map[string]string{"officeId": "office_id"})
	var count int64
	if err := tx.QueryRow(ctx, countStaffQuery+" WHERE "+strings.Join(where, " AND "), args...).Scan(&count); err != nil {
		return 0, errors.Wrap(err, "failed to count care_staff")
	}
	return count, nil
}

func (r *PgStaffRepository) GetByID(ctx context.Context, id uuid.UUID) (domain.Staff, error) {
	staff, err := r.queryStaff(ctx, selectStaffQuery+" WHERE id = $1", id)
	if err != nil {
		return domain.Staff{}, err
	}
	if len(staff) == 0 {
		return domain.Staff{}, domain.ErrNotFound
	}
	return staff[0], nil
}

func (r *PgStaffRepository) Create(ctx context.Context, s domain.Staff) (domain.Staff, error) {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return domain.Staff{}, err
	}
	if _, err := tx.Exec(ctx, insertStaffQuery,
		s.ID, s.OfficeID, s.Name, s.Email, s.Phone, string(s.Status), s.CreatedAt, s.UpdatedAt,
	); err != nil {
		return domain.Staff{}, errors.Wrap(err, "failed to insert staff")
	}
	return s, nil
}

func (r *PgStaffRepository) Update(ctx context.Context, s domain.Staff) (domain.Staff, error) {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return domain.Staff{}, err
	}
	tag, err := tx.Exec(ctx, updateStaffQuery,
		s.ID, s.OfficeID, s.Name, s.Email, s.Phone, string(s.Status), s.UpdatedAt,
	)
	if err != nil {
		return domain.Staff{}, errors.Wrap(err, "failed to update staff")
	}
	if tag.RowsAffected() == 0 {
		return domain.Staff{}, domain.ErrNotFound
	}
	return s, nil
}

func (r *PgStaffRepository) Delete(ctx context.Context, id uuid.UUID) error {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return err
	}
	tag, err := tx.Exec(ctx, deleteStaffQuery, id)
	if err != nil {
		return errors.Wrap(err, "failed to delete staff")
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *PgStaffRepository) CountActiveByOffice(ctx context.Context, officeID uuid.UUID) (int64, error) {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return 0, err
	}
	var count int64
	if err := tx.QueryRow(ctx, countActiveStaffByOfficeSQL, officeID).Scan(&count); err != nil {
		return 0, errors.Wrap(err, "failed to count active staff by office")
	}
	return count, nil
}
