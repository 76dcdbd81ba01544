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
	selectUsersQuery = `
		SELECT id, office_id, group_id, team_id, nickname, postal_code, address,
		       birth_date, gender, rank, status, created_at, updated_at
		FROM care_users`
	countUsersQuery = `SELECT COUNT(*) FROM care_users`
	insertUserQuery = `
		INSERT INTO care_users (id, office_id, group_id, team_id, nickname, postal_code,
		                        address, birth_date, gender, rank, status, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)`
	updateUserQuery = `
		UPDATE care_users
		SET office_id = $2, group_id = $3, team_id = $4, nickname = $5, postal_code = $6,
		    address = $7, birth_date = $8, gender = $9, rank = $10, status = $11, updated_at = $12
		WHERE id = $1`
	deleteUserQuery             = `DELETE FROM care_users WHERE id = $1`
	countActiveUsersByGroupSQL  = `SELECT COUNT(*) FROM care_users WHERE group_id = $1 AND status = 'active'`
	countActiveUsersByTeamSQL   = `SELECT COUNT(*) FROM care_users WHERE team_id = $1 AND status = 'active'`
	countActiveUsersByOfficeSQL = `SELECT COUNT(*) FROM care_users WHERE office_id = $1 AND status = 'active'`
)

var userSortFields = map[string]string{
	"nickname":  "nickname",
	"rank":      "rank",
	"status":    "status",
	"createdAt": "created_at",
}

var userFKColumns = map[string]string{
	"officeId": "office_id",
	"groupId":  "group_id",
	"teamId":   "team_id",
}

type PgUserRepository struct{}

func NewPgUserRepository() domain.UserRepository {
	return &PgUserRepository{}
}

func (r *PgUserRepository) queryUsers(ctx context.Context, query string, args ...any) ([]domain.User, error) {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return nil, err
	}
	rows, err := tx.Query(ctx, query, args...)
	if err != nil {
		return nil, errors.Wrap(err, "failed to query care_users")
	}
	defer rows.Close()

	users := make([]domain.User, 0)
	for rows.Next() {
		var (
			u      domain.User
			status string
		)
		if err := rows.Scan(
			&u.ID, &u.OfficeID, &u.GroupID, &u.TeamID, &u.Nickname, &u.PostalCode,
			&u.Address, &u.BirthDate, &u.Gender, &u.Rank, &status, &u.CreatedAt, &u.UpdatedAt,
		); err != nil {
			return nil, errors.Wrap(err, "failed to scan user row")
		}
		u.Status = domain.Status(status)
		users = append(users, u)
	}
	return users, rows.Err()
}

func (r *PgUserRepository) List(ctx context.Context, params listkit.SearchParams) ([]domain.User, error) {
	where, args := repo.BuildFilters(params, []string{"nickname"}, userFKColumns)
	query := selectUsersQuery + " WHERE " + strings.Join(where, " AND ") +
		repo.OrderClause(params, userSortFields) + repo.LimitClause(params)
	return r.queryUsers(ctx, query, args...)
}

func (r *PgUserRepository) Count(ctx context.Context, params listkit.SearchParams) (int64, error) {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return 0, err
	}
	where, args := repo.BuildFilters(params, []string{"nickname"}, userFKColumns)
	var count int64
	if err := tx.QueryRow(ctx, countUsersQuery+" WHERE "+strings.Join(where, " AND "), args...).Scan(&count); err != nil {
		return 0, errors.Wrap(err, "failed to count care_users")
	}
	return count, nil
}

func (r *PgUserRepository) GetByID(ctx context.Context, id uuid.UUID) (domain.User, error) {
	users, err := r.queryUsers(ctx, selectUsersQuery+" WHERE id = $1", id)
	if err != nil {
		return domain.User{}, err
	}
	if len(users) == 0 {
		return domain.User{}, domain.ErrNotFound
	}
	return users[0], nil
}

func (r *PgUserRepository) Create(ctx context.Context, u domain.User) (domain.User, error) {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return domain.User{}, err
	}
	if _, err := tx.Exec(ctx, insertUserQuery,
		u.ID, u.OfficeID, u.GroupID, u.TeamID, u.Nickname, u.PostalCode,
		u.Address, u.BirthDate, u.Gender, u.Rank, string(u.Status), u.CreatedAt, u.UpdatedAt,
	); err != nil {
		return domain.User{}, errors.Wrap(err, "failed to insert user")
	}
	return u, nil
}

func (r *PgUserRepository) Update(ctx context.Context, u domain.User) (domain.User, error) {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return domain.User{}, err
	}
	tag, err := tx.Exec(ctx, updateUserQuery,
		u.ID, u.OfficeID, u.GroupID, u.TeamID, u.Nickname, u.PostalCode,
		u.Address, u.BirthDate, u.Gender, u.Rank, string(u.Status), u.UpdatedAt,
	)
	if err != nil {
		return domain.User{}, errors.Wrap(err, "failed to update user")
	}
	if tag.RowsAffected() == 0 {
		return domain.User{}, domain.ErrNotFound
	}
	return u, nil
}

func (r *PgUserRepository) Delete(ctx context.Context, id uuid.UUID) error {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return err
	}
	tag, err := tx.Exec(ctx, deleteUserQuery, id)
	if err != nil {
		return errors.Wrap(err, "failed to delete user")
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *PgUserRepository) countBy(ctx context.Context, query string, id uuid.UUID) (int64, error) {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return 0, err
	}
	var count int64
	if err := tx.QueryRow(ctx, query, id).Scan(&count); err != nil {
		return 0, errors.Wrap(err, "failed to count active users")
	}
	return count, nil
}

func (r *PgUserRepository) CountActiveByGroup(ctx context.Context, groupID uuid.UUID) (int64, error) {
	return r.countBy(ctx, countActiveUsersByGroupSQL, groupID)
}

func (r *PgUserRepository) CountActiveByTeam(ctx context.Context, teamID uuid.UUID) (int64, error) {
	return r.countBy(ctx, countActiveUsersByTeamSQL, teamID)
}

func (r *PgUserRepository) CountActiveByOffice(ctx context.Context, officeID uuid.UUID) (int64, error) {
	return r.countBy(ctx, countActiveUsersByOfficeSQL, officeID)
}
