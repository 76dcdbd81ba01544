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
	selectGroupsQuery = `SELECT id, office_id, name, description, status, created_at, updated_at FROM care_groups`
	countGroupsQuery  = `SELECT COUNT(*) FROM care_groups`
	insertGroupQuery  = `
		INSERT INTO care_groups (id, office_id, name, description, status, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`
	updateGroupQuery = `
		UPDATE care_groups
		SET office_id = $2, name = $3, description = $4, status = $5, updated_at = $6
		WHERE id = $1`
	deleteGroupQuery = `DELETE FROM care_groups WHERE id = $1`
)

var groupSortFields = map[string]string{
	"name":      "name",
	"status":    "status",
	"createdAt": "created_at",
}

type PgGroupRepository struct{}

func NewPgGroupRepository() domain.GroupRepository {
	return &PgGroupRepository{}
}

func (r *PgGroupRepository) queryGroups(ctx context.Context, query string, args ...any) ([]domain.Group, error) {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return nil, err
	}
	rows, err := tx.Query(ctx, query, args...)
	if err != nil {
		return nil, errors.Wrap(err, "failed to query care_groups")
	}
	defer rows.Close()

	groups := make([]domain.Group, 0)
	for rows.Next() {
		var (
			g      domain.Group
			status string
		)
		if err := rows.Scan(&g.ID, &g.OfficeID, &g.Name, &g.Description, &status, &g.CreatedAt, &g.UpdatedAt); err != nil {
			return nil, errors.Wrap(err, "failed to scan group row")
		}
		g.Status = domain.Status(status)
		groups = append(groups, g)
	}
	return groups, rows.Err()
}

func (r *PgGroupRepository) List(ctx context.Context, params listkit.SearchParams) ([]domain.Group, error) {
	where, args := repo.BuildFilters(params, []string{"name", "description"}, map[string]string{"officeId": "office_id"})
	query := selectGroupsQuery + " WHERE " + strings.Join(where, " AND ") +
		repo.OrderClause(params, groupSortFields) + repo.LimitClause(params)
	return r.queryGroups(ctx, query, args...)
}

func (r *PgGroupRepository) Count(ctx context.Context, params listkit.SearchParams) (int64, error) {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return 0, err
	}
	where, args := repo.BuildFilters(params, []string{"name", "description"}, map[string]string{"officeId": "office_id"})
	var count int64
	if err := tx.QueryRow(ctx, countGroupsQuery+" WHERE "+strings.Join(where, " AND "), args...).Scan(&count); err != nil {
		return 0, errors.Wrap(err, "failed to count care_groups")
	}
	return count, nil
}

func (r *PgGroupRepository) GetByID(ctx context.Context, id uuid.UUID) (domain.Group, error) {
	groups, err := r.queryGroups(ctx, selectGroupsQuery+" WHERE id = $1", id)
	if err != nil {
		return domain.Group{}, err
	}
	if len(groups) == 0 {
		return domain.Group{}, domain.ErrNotFound
	}
	return groups[0], nil
}

func (r *PgGroupRepository) Create(ctx context.Context, g domain.Group) (domain.Group, error) {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return domain.Group{}, err
	}
	if _, err := tx.Exec(ctx, insertGroupQuery,
		g.ID, g.OfficeID, g.Name, g.Description, string(g.Status), g.CreatedAt, g.UpdatedAt,
	); err != nil {
		return domain.Group{}, errors.Wrap(err, "failed to insert group")
	}
	return g, nil
}

func (r *PgGroupRepository) Update(ctx context.Context, g domain.Group) (domain.Group, error) {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return domain.Group{}, err
	}
	tag, err := tx.Exec(ctx, updateGroupQuery,
		g.ID, g.OfficeID, g.Name, g.Description, string(g.Status), g.UpdatedAt,
	)
	if err != nil {
		return domain.Group{}, errors.Wrap(err, "failed to update group")
	}
	if tag.RowsAffected() == 0 {
		return domain.Group{}, domain.ErrNotFound
	}
	return g, nil
}

func (r *PgGroupRepository) Delete(ctx context.Context, id uuid.UUID) error {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return err
	}
	tag, err := tx.Exec(ctx, deleteGroupQuery, id)
	if err != nil {
		return errors.Wrap(err, "failed to delete group")
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}
