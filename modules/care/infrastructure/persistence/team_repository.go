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
	selectTeamsQuery = `SELECT id, group_id, name, status, created_at, updated_at FROM care_teams`
	countTeamsQuery  = `SELECT COUNT(*) FROM care_teams`
	insertTeamQuery  = `
		INSERT INTO care_teams (id, group_id, name, status, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6)`
	updateTeamQuery = `
		UPDATE care_teams
		SET group_id = $2, name = $3, status = $4, updated_at = $5
		WHERE id = $1`
	deleteTeamQuery            = `DELETE FROM care_teams WHERE id = $1`
	countActiveTeamsByGroupSQL = `SELECT COUNT(*) FROM care_teams WHERE group_id = $1 AND status = 'active'`
)

var teamSortFields = map[string]string{
	"name":      "name",
	"status":    "status",
	"createdAt": "created_at",
}

type PgTeamRepository struct{}

func NewPgTeamRepository() domain.TeamRepository {
	return &PgTeamRepository{}
}

func (r *PgTeamRepository) queryTeams(ctx context.Context, query string, args ...any) ([]domain.Team, error) {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return nil, err
	}
	rows, err := tx.Query(ctx, query, args...)
	if err != nil {
		return nil, errors.Wrap(err, "failed to query care_teams")
	}
	defer rows.Close()

	teams := make([]domain.Team, 0)
	for rows.Next() {
		var (
			t      domain.Team
			status string
		)
		if err := rows.Scan(&t.ID, &t.GroupID, &t.Name, &status, &t.CreatedAt, &t.UpdatedAt); err != nil {
			return nil, errors.Wrap(err, "failed to scan team row")
		}
		t.Status = domain.Status(status)
		teams = append(teams, t)
	}
	return teams, rows.Err()
}

func (r *PgTeamRepository) List(ctx context.Context, params listkit.SearchParams) ([]domain.Team, error) {
	where, args := repo.BuildFilters(params, []string{"name"}, map[string]string{"groupId": "group_id"})
	query := selectTeamsQuery + " WHERE " + strings.Join(where, " AND ") +
		repo.OrderClause(params, teamSortFields) + repo.LimitClause(params)
	return r.queryTeams(ctx, query, args...)
}

func (r *PgTeamRepository) Count(ctx context.Context, params listkit.SearchParams) (int64, error) {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return 0, err
	}
	where, args := repo.BuildFilters(params, []string{"name"}, map[string]string{"groupId": "group_id"})
	var count int64
	if err := tx.QueryRow(ctx, countTeamsQuery+" WHERE "+strings.Join(where, " AND "), args...).Scan(&count); err != nil {
		return 0, errors.Wrap(err, "failed to count care_teams")
	}
	return count, nil
}

func (r *PgTeamRepository) GetByID(ctx context.Context, id uuid.UUID) (domain.Team, error) {
	teams, err := r.queryTeams(ctx, selectTeamsQuery+" WHERE id = $1", id)
	if err != nil {
		return domain.Team{}, err
	}
	if len(teams) == 0 {
		return domain.Team{}, domain.ErrNotFound
	}
	return teams[0], nil
}

func (r *PgTeamRepository) Create(ctx context.Context, t domain.Team) (domain.Team, error) {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return domain.Team{}, err
	}
	if _, err := tx.Exec(ctx, insertTeamQuery,
		t.ID, t.GroupID, t.Name, string(t.Status), t.CreatedAt, t.UpdatedAt,
	); err != nil {
		return domain.Team{}, errors.Wrap(err, "failed to insert team")
	}
	return t, nil
}

func (r *PgTeamRepository) Update(ctx context.Context, t domain.Team) (domain.Team, error) {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return domain.Team{}, err
	}
	tag, err := tx.Exec(ctx, updateTeamQuery,
		t.ID, t.GroupID, t.Name, string(t.Status), t.UpdatedAt,
	)
	if err != nil {
		return domain.Team{}, errors.Wrap(err, "failed to update team")
	}
	if tag.RowsAffected() == 0 {
		return domain.Team{}, domain.ErrNotFound
	}
	return t, nil
}

func (r *PgTeamRepository) Delete(ctx context.Context, id uuid.UUID) error {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return err
	}
	tag, err := tx.Exec(ctx, deleteTeamQuery, id)
	if err != nil {
		return errors.Wrap(err, "failed to delete team")
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *PgTeamRepository) CountActiveByGroup(ctx context.Context, groupID uuid.UUID) (int64, error) {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return 0, err
	}
	var count int64
	if err := tx.QueryRow(ctx, countActiveTeamsByGroupSQL, groupID).Scan(&count); err != nil {
		return 0, errors.Wrap(err, "failed to count active teams by group")
	}
	return count, nil
}
