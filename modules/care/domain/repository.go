package domain

import (
	"context"

	"github.com/google/uuid"

	"github.com/hanamiya/console/pkg/listkit"
)

type OfficeRepository interface {
	List(ctx context.Context, params listkit.SearchParams) ([]Office, error)
	Count(ctx context.Context, params listkit.SearchParams) (int64, error)
	GetByID(ctx context.Context, id uuid.UUID) (Office, error)
	Create(ctx context.Context, o Office) (Office, error)
	Update(ctx context.Context, o Office) (Office, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

type GroupRepository interface {
	List(ctx context.Context, params listkit.SearchParams) ([]Group, error)
	Count(ctx context.Context, params listkit.SearchParams) (int64, error)
	GetByID(ctx context.Context, id uuid.UUID) (Group, error)
	Create(ctx context.Context, g Group) (Group, error)
	Update(ctx context.Context, g Group) (Group, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

type TeamRepository interface {
	List(ctx context.Context, params listkit.SearchParams) ([]Team, error)
	Count(ctx context.Context, params listkit.SearchParams) (int64, error)
	GetByID(ctx context.Context, id uuid.UUID) (Team, error)
	Create(ctx context.Context, t Team) (Team, error)
	Update(ctx context.Context, t Team) (Team, error)
	Delete(ctx context.Context, id uuid.UUID) error
	// CountActiveByGroup counts active teams referencing the group.
	CountActiveByGroup(ctx context.Context, groupID uuid.UUID) (int64, error)
}

type StaffRepository interface {
	List(ctx context.Context, params listkit.SearchParams) ([]Staff, error)
	Count(ctx context.Context, params listkit.SearchParams) (int64, error)
	GetByID(ctx context.Context, id uuid.UUID) (Staff, error)
	Create(ctx context.Context, s Staff) (Staff, error)
	Update(ctx context.Context, s Staff) (Staff, error)
	Delete(ctx context.Context, id uuid.UUID) error
	CountActiveByOffice(ctx context.Context, officeID uuid.UUID) (int64, error)
}

type UserRepository interface {
	List(ctx context.Context, params listkit.SearchParams) ([]User, error)
	Count(ctx context.Context, params listkit.SearchParams) (int64, error)
	GetByID(ctx context.Context, id uuid.UUID) (User, error)
	Create(ctx context.Context, u User) (User, error)
	Update(ctx context.Context, u User) (User, error)
	Delete(ctx context.Context, id uuid.UUID) error
	CountActiveByGroup(ctx context.Context, groupID uuid.UUID) (int64, error)
	CountActiveByTeam(ctx context.Context, teamID uuid.UUID) (int64, error)
	CountActiveByOffice(ctx context.Context, officeID uuid.UUID) (int64, error)
}

type AdminRepository interface {
	List(ctx context.Context, params listkit.SearchParams) ([]Admin, error)
	Count(ctx context.Context, params listkit.SearchParams) (int64, error)
	GetByID(ctx context.Context, id uuid.UUID) (Admin, error)
	Create(ctx context.Context, a Admin) (Admin, error)
	Update(ctx context.Context, a Admin) (Admin, error)
	Delete(ctx context.Context, id uuid.UUID) error
}
