package persistence

import (
	"context"
	"strings"

	"github.com/google/uuid"

	"github.com/hanamiya/console/modules/care/domain"
	"github.com/hanamiya/console/pkg/listkit"
	"github.com/hanamiya/console/pkg/repo"
)

// In-memory repositories for the care console. Used when DB_ENABLED is
// off and throughout the test suite.

func containsFold(haystack, needle string) bool {
	return strings.Contains(strings.ToLower(haystack), strings.ToLower(needle))
}

func statusMatches(params listkit.SearchParams, status domain.Status) bool {
	want, ok := params[listkit.KeyStatus]
	return !ok || string(status) == want
}

func fkMatches(params listkit.SearchParams, key string, id uuid.UUID) bool {
	want, ok := params[key]
	return !ok || id.String() == want
}

func compareTimesAndName(sortBy string, aName, bName string, aCreated, bCreated int64) int {
	switch sortBy {
	case "name":
		return strings.Compare(aName, bName)
	default:
		// Default ordering matches the postgres repositories: createdAt.
		switch {
		case aCreated < bCreated:
			return -1
		case aCreated > bCreated:
			return 1
		default:
			return strings.Compare(aName, bName)
		}
	}
}

// --- Group ---

type MemoryGroupRepository struct {
	table *repo.MemTable[domain.Group]
}

func NewMemoryGroupRepository() *MemoryGroupRepository {
	return &MemoryGroupRepository{
		table: repo.NewMemTable(
			func(g domain.Group) uuid.UUID { return g.ID },
			func(g domain.Group, params listkit.SearchParams) bool {
				if q, ok := params[listkit.KeyQuery]; ok && !containsFold(g.Name, q) {
					return false
				}
				return statusMatches(params, g.Status) && fkMatches(params, "officeId", g.OfficeID)
			},
			func(a, b domain.Group, sortBy string) int {
				return compareTimesAndName(sortBy, a.Name, b.Name, a.CreatedAt.UnixNano(), b.CreatedAt.UnixNano())
			},
		),
	}
}

func (r *MemoryGroupRepository) List(ctx context.Context, params listkit.SearchParams) ([]domain.Group, error) {
	return r.table.List(params), nil
}

func (r *MemoryGroupRepository) Count(ctx context.Context, params listkit.SearchParams) (int64, error) {
	return r.table.Count(params), nil
}

func (r *MemoryGroupRepository) GetByID(ctx context.Context, id uuid.UUID) (domain.Group, error) {
	g, ok := r.table.Get(id)
	if !ok {
		return domain.Group{}, domain.ErrNotFound
	}
	return g, nil
}

func (r *MemoryGroupRepository) Create(ctx context.Context, g domain.Group) (domain.Group, error) {
	r.table.Put(g)
	return g, nil
}

func (r *MemoryGroupRepository) Update(ctx context.Context, g domain.Group) (domain.Group, error) {
	if _, ok := r.table.Get(g.ID); !ok {
		return domain.Group{}, domain.ErrNotFound
	}
	r.table.Put(g)
	return g, nil
}

func (r *MemoryGroupRepository) Delete(ctx context.Context, id uuid.UUID) error {
	if !r.table.Delete(id) {
		return domain.ErrNotFound
	}
	return nil
}

// --- Team ---

type MemoryTeamRepository struct {
	table *repo.MemTable[domain.Team]
}

func NewMemoryTeamRepository() *MemoryTeamRepository {
	return &MemoryTeamRepository{
		table: repo.NewMemTable(
			func(t domain.Team) uuid.UUID { return t.ID },
			func(t domain.Team, params listkit.SearchParams) bool {
				if q, ok := params[listkit.KeyQuery]; ok && !containsFold(t.Name, q) {
					return false
				}
				return statusMatches(params, t.Status) && fkMatches(params, "groupId", t.GroupID)
			},
			func(a, b domain.Team, sortBy string) int {
				return compareTimesAndName(sortBy, a.Name, b.Name, a.CreatedAt.UnixNano(), b.CreatedAt.UnixNano())
			},
		),
	}
}

func (r *MemoryTeamRepository) List(ctx context.Context, params listkit.SearchParams) ([]domain.Team, error) {
	return r.table.List(params), nil
}

func (r *MemoryTeamRepository) Count(ctx context.Context, params listkit.SearchParams) (int64, error) {
	return r.table.Count(params), nil
}

func (r *MemoryTeamRepository) GetByID(ctx context.Context, id uuid.UUID) (domain.Team, error) {
	t, ok := r.table.Get(id)
	if !ok {
		return domain.Team{}, domain.ErrNotFound
	}
	return t, nil
}

func (r *MemoryTeamRepository) Create(ctx context.Context, t domain.Team) (domain.Team, error) {
	r.table.Put(t)
	return t, nil
}

func (r *MemoryTeamRepository) Update(ctx context.Context, t domain.Team) (domain.Team, error) {
	if _, ok := r.table.Get(t.ID); !ok {
		return domain.Team{}, domain.ErrNotFound
	}
	r.table.Put(t)
	return t, nil
}

func (r *MemoryTeamRepository) Delete(ctx context.Context, id uuid.UUID) error {
	if !r.table.Delete(id) {
		return domain.ErrNotFound
	}
	return nil
}

func (r *MemoryTeamRepository) CountActiveByGroup(ctx context.Context, groupID uuid.UUID) (int64, error) {
	return r.table.CountWhere(func(t domain.Team) bool {
		return t.GroupID == groupID && t.Status.IsActive()
	}), nil
}

// --- Office ---

type MemoryOfficeRepository struct {
	table *repo.MemTable[domain.Office]
}

func NewMemoryOfficeRepository() *MemoryOfficeRepository {
	return &MemoryOfficeRepository{
		table: repo.NewMemTable(
			func(o domain.Office) uuid.UUID { return o.ID },
			func(o domain.Office, params listkit.SearchParams) bool {
				if q, ok := params[listkit.KeyQuery]; ok && !containsFold(o.Name, q) {
					return false
				}
				return statusMatches(params, o.Status)
			},
			func(a, b domain.Office, sortBy string) int {
				return compareTimesAndName(sortBy, a.Name, b.Name, a.CreatedAt.UnixNano(), b.CreatedAt.UnixNano())
			},
		),
	}
}

func (r *MemoryOfficeRepository) List(ctx context.Context, params listkit.SearchParams) ([]domain.Office, error) {
	return r.table.List(params), nil
}

func (r *MemoryOfficeRepository) Count(ctx context.Context, params listkit.SearchParams) (int64, error) {
	return r.table.Count(params), nil
}

func (r *MemoryOfficeRepository) GetByID(ctx context.Context, id uuid.UUID) (domain.Office, error) {
	o, ok := r.table.Get(id)
	if !ok {
		return domain.Office{}, domain.ErrNotFound
	}
	return o, nil
}

func (r *MemoryOfficeRepository) Create(ctx context.Context, o domain.Office) (domain.Office, error) {
	r.table.Put(o)
	return o, nil
}

func (r *MemoryOfficeRepository) Update(ctx context.Context, o domain.Office) (domain.Office, error) {
	if _, ok := r.table.Get(o.ID); !ok {
		return domain.Office{}, domain.ErrNotFound
	}
	r.table.Put(o)
	return o, nil
}

func (r *MemoryOfficeRepository) Delete(ctx context.Context, id uuid.UUID) error {
	if !r.table.Delete(id) {
		return domain.ErrNotFound
	}
	return nil
}

// --- Staff ---

type MemoryStaffRepository struct {
	table *repo.MemTable[domain.Staff]
}

func NewMemoryStaffRepository() *MemoryStaffRepository {
	return &MemoryStaffRepository{
		table: repo.NewMemTable(
			func(s domain.Staff) uuid.UUID { return s.ID },
			func(s domain.Staff, params listkit.SearchParams) bool {
				if q, ok := params[listkit.KeyQuery]; ok && !containsFold(s.Name, q) && !containsFold(s.Email, q) {
					return false
				}
				return statusMatches(params, s.Status) && fkMatches(params, "officeId", s.OfficeID)
			},
			func(a, b domain.Staff, sortBy string) int {
				return compareTimesAndName(sortBy, a.Name, b.Name, a.CreatedAt.UnixNano(), b.CreatedAt.UnixNano())
			},
		),
	}
}

func (r *MemoryStaffRepository) List(ctx context.Context, params listkit.SearchParams) ([]domain.Staff, error) {
	return r.table.List(params), nil
}

func (r *MemoryStaffRepository) Count(ctx context.Context, params listkit.SearchParams) (int64, error) {
	return r.table.Count(params), nil
}

func (r *MemoryStaffRepository) GetByID(ctx context.Context, id uuid.UUID) (domain.Staff, error) {
	s, ok := r.table.Get(id)
	if !ok {
		return domain.Staff{}, domain.ErrNotFound
	}
	return s, nil
}

func (r *MemoryStaffRepository) Create(ctx context.Context, s domain.Staff) (domain.Staff, error) {
	r.table.Put(s)
	return s, nil
}

func (r *MemoryStaffRepository) Update(ctx context.Context, s domain.Staff) (domain.Staff, error) {
	if _, ok := r.table.Get(s.ID); !ok {
		return domain.Staff{}, domain.ErrNotFound
	}
	r.table.Put(s)
	return s, nil
}

func (r *MemoryStaffRepository) Delete(ctx context.Context, id uuid.UUID) error {
	if !r.table.Delete(id) {
		return domain.ErrNotFound
	}
	return nil
}

func (r *MemoryStaffRepository) CountActiveByOffice(ctx context.Context, officeID uuid.UUID) (int64, error) {
	return r.table.CountWhere(func(s domain.Staff) bool {
		return s.OfficeID == officeID && s.Status.IsActive()
	}), nil
}

// --- User ---

type MemoryUserRepository struct {
	table *repo.MemTable[domain.User]
}

func NewMemoryUserRepository() *MemoryUserRepository {
	return &MemoryUserRepository{
		table: repo.NewMemTable(
			func(u domain.User) uuid.UUID { return u.ID },
			func(u domain.User, params listkit.SearchParams) bool {
				if q, ok := params[listkit.KeyQuery]; ok && !containsFold(u.Nickname, q) {
					return false
				}
				return statusMatches(params, u.Status) &&
					fkMatches(params, "groupId", u.GroupID) &&
					fkMatches(params, "teamId", u.TeamID) &&
					fkMatches(params, "officeId", u.OfficeID)
			},
			func(a, b domain.User, sortBy string) int {
				switch sortBy {
				case "rank":
					return a.Rank - b.Rank
				default:
					return compareTimesAndName(sortBy, a.Nickname, b.Nickname, a.CreatedAt.UnixNano(), b.CreatedAt.UnixNano())
				}
			},
		),
	}
}

func (r *MemoryUserRepository) List(ctx context.Context, params listkit.SearchParams) ([]domain.User, error) {
	return r.table.List(params), nil
}

func (r *MemoryUserRepository) Count(ctx context.Context, params listkit.SearchParams) (int64, error) {
	return r.table.Count(params), nil
}

func (r *MemoryUserRepository) GetByID(ctx context.Context, id uuid.UUID) (domain.User, error) {
	u, ok := r.table.Get(id)
	if !ok {
		return domain.User{}, domain.ErrNotFound
	}
	return u, nil
}

func (r *MemoryUserRepository) Create(ctx context.Context, u domain.User) (domain.User, error) {
	r.table.Put(u)
	return u, nil
}

func (r *MemoryUserRepository) Update(ctx context.Context, u domain.User) (domain.User, error) {
	if _, ok := r.table.Get(u.ID); !ok {
		return domain.User{}, domain.ErrNotFound
	}
	r.table.Put(u)
	return u, nil
}

func (r *MemoryUserRepository) Delete(ctx context.Context, id uuid.UUID) error {
	if !r.table.Delete(id) {
		return domain.ErrNotFound
	}
	return nil
}

func (r *MemoryUserRepository) CountActiveByGroup(ctx context.Context, groupID uuid.UUID) (int64, error) {
	return r.table.CountWhere(func(u domain.User) bool {
		return u.GroupID == groupID && u.Status.IsActive()
	}), nil
}

func (r *MemoryUserRepository) CountActiveByTeam(ctx context.Context, teamID uuid.UUID) (int64, error) {
	return r.table.CountWhere(func(u domain.User) bool {
		return u.TeamID == teamID && u.Status.IsActive()
	}), nil
}

func (r *MemoryUserRepository) CountActiveByOffice(ctx context.Context, officeID uuid.UUID) (int64, error) {
	return r.table.CountWhere(func(u domain.User) bool {
		return u.OfficeID == officeID && u.Status.IsActive()
	}), nil
}

// --- Admin ---

type MemoryAdminRepository struct {
	table *repo.MemTable[domain.Admin]
}

func NewMemoryAdminRepository() *MemoryAdminRepository {
	return &MemoryAdminRepository{
		table: repo.NewMemTable(
			func(a domain.Admin) uuid.UUID { return a.ID },
			func(a domain.Admin, params listkit.SearchParams) bool {
				if q, ok := params[listkit.KeyQuery]; ok && !containsFold(a.Name, q) && !containsFold(a.Email, q) {
					return false
				}
				return statusMatches(params, a.Status)
			},
			func(a, b domain.Admin, sortBy string) int {
				return compareTimesAndName(sortBy, a.Name, b.Name, a.CreatedAt.UnixNano(), b.CreatedAt.UnixNano())
			},
		),
	}
}

func (r *MemoryAdminRepository) List(ctx context.Context, params listkit.SearchParams) ([]domain.Admin, error) {
	return r.table.List(params), nil
}

func (r *MemoryAdminRepository) Count(ctx context.Context, params listkit.SearchParams) (int64, error) {
	return r.table.Count(params), nil
}

func (r *MemoryAdminRepository) GetByID(ctx context.Context, id uuid.UUID) (domain.Admin, error) {
	a, ok := r.table.Get(id)
	if !ok {
		return domain.Admin{}, domain.ErrNotFound
	}
	return a, nil
}

func (r *MemoryAdminRepository) Create(ctx context.Context, a domain.Admin) (domain.Admin, error) {
	r.table.Put(a)
	return a, nil
}

func (r *MemoryAdminRepository) Update(ctx context.Context, a domain.Admin) (domain.Admin, error) {
	if _, ok := r.table.Get(a.ID); !ok {
		return domain.Admin{}, domain.ErrNotFound
	}
	r.table.Put(a)
	return a, nil
}

func (r *MemoryAdminRepository) Delete(ctx context.Context, id uuid.UUID) error {
	if !r.table.Delete(id) {
		return domain.ErrNotFound
	}
	return nil
}
