package services_test

import (
	"context"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/require"

	"github.com/hanamiya/console/modules/care/domain"
	"github.com/hanamiya/console/modules/care/infrastructure/persistence"
	"github.com/hanamiya/console/modules/care/services"
	"github.com/hanamiya/console/pkg/authz/authztest"
	"github.com/hanamiya/console/pkg/composables"
	"github.com/hanamiya/console/pkg/eventbus"
	"github.com/hanamiya/console/pkg/listkit"
)

type careFixture struct {
	offices *persistence.MemoryOfficeRepository
	groups  *persistence.MemoryGroupRepository
	teams   *persistence.MemoryTeamRepository
	staff   *persistence.MemoryStaffRepository
	users   *persistence.MemoryUserRepository
	bus     eventbus.EventBus

	groupSvc *services.GroupService
	teamSvc  *services.TeamService
	userSvc  *services.UserService
}

func newCareFixture(t *testing.T) *careFixture {
	t.Helper()

	logger := logrus.New()
	logger.SetLevel(logrus.PanicLevel)

	f := &careFixture{
		offices: persistence.NewMemoryOfficeRepository(),
		groups:  persistence.NewMemoryGroupRepository(),
		teams:   persistence.NewMemoryTeamRepository(),
		staff:   persistence.NewMemoryStaffRepository(),
		users:   persistence.NewMemoryUserRepository(),
		bus:     eventbus.NewEventPublisher(logger),
	}
	authzSvc := authztest.NewDisabled(t)
	f.groupSvc = services.NewGroupService(f.groups, f.teams, f.users, authzSvc, f.bus, logger)
	f.teamSvc = services.NewTeamService(f.teams, f.users, authzSvc, f.bus, logger)
	f.userSvc = services.NewUserService(f.users, authzSvc, f.bus, logger)
	return f
}

func (f *careFixture) seedGroup(t *testing.T, status domain.Status) domain.Group {
	t.Helper()
	g, err := f.groupSvc.Create(context.Background(), domain.Group{Name: "Daycare A", Status: status})
	require.NoError(t, err)
	return g
}

func TestGroupService_RemoveDeniedWhileActive(t *testing.T) {
	t.Parallel()
	f := newCareFixture(t)
	g := f.seedGroup(t, domain.StatusActive)

	err := f.groupSvc.Remove(context.Background(), g.ID.String())

	var blocked *listkit.DeleteBlockedError
	require.ErrorAs(t, err, &blocked)
	require.Equal(t, "group must be inactive before deletion", blocked.Reason)
}

func TestGroupService_RemoveDeniedOnActiveTeams(t *testing.T) {
	t.Parallel()
	f := newCareFixture(t)
	g := f.seedGroup(t, domain.StatusInactive)

	_, err := f.teamSvc.Create(context.Background(), domain.Team{GroupID: g.ID, Name: "Team Momiji"})
	require.NoError(t, err)

	err = f.groupSvc.Remove(context.Background(), g.ID.String())

	var blocked *listkit.DeleteBlockedError
	require.ErrorAs(t, err, &blocked)
	require.Equal(t, "group still has active teams", blocked.Reason)
}

func TestGroupService_RemoveDeniedOnActiveUsers(t *testing.T) {
	t.Parallel()
	f := newCareFixture(t)
	g := f.seedGroup(t, domain.StatusInactive)

	_, err := f.userSvc.Create(context.Background(), domain.User{GroupID: g.ID, Nickname: "hinata"})
	require.NoError(t, err)

	err = f.groupSvc.Remove(context.Background(), g.ID.String())

	var blocked *listkit.DeleteBlockedError
	require.ErrorAs(t, err, &blocked)
	require.Equal(t, "group still has active users", blocked.Reason)
}

func TestGroupService_RemoveSucceedsWhenInactiveAndEmpty(t *testing.T) {
	t.Parallel()
	f := newCareFixture(t)
	g := f.seedGroup(t, domain.StatusInactive)

	var deleted []domain.GroupDeletedEvent
	f.bus.Subscribe(func(ev domain.GroupDeletedEvent) {
		deleted = append(deleted, ev)
	})

	require.NoError(t, f.groupSvc.Remove(context.Background(), g.ID.String()))

	list, err := f.groupSvc.List(context.Background(), listkit.SearchParams{})
	require.NoError(t, err)
	require.Empty(t, list)
	require.Len(t, deleted, 1)
	require.Equal(t, g.ID, deleted[0].Result.ID)
}

func TestGroupService_RemoveAllowsInactiveDependents(t *testing.T) {
	t.Parallel()
	f := newCareFixture(t)
	g := f.seedGroup(t, domain.StatusInactive)

	team, err := f.teamSvc.Create(context.Background(), domain.Team{GroupID: g.ID, Name: "Team Momiji"})
	require.NoError(t, err)
	team.Status = domain.StatusInactive
	_, err = f.teamSvc.Update(context.Background(), team.ID.String(), team)
	require.NoError(t, err)

	require.NoError(t, f.groupSvc.Remove(context.Background(), g.ID.String()))
}

func TestGroupService_GuardNotFound(t *testing.T) {
	t.Parallel()
	f := newCareFixture(t)

	perm := f.groupSvc.DeleteGuard().Evaluate(context.Background(), "8f9b2a04-91c1-4e7d-8a57-000000000000")
	require.False(t, perm.CanDelete)
	require.Equal(t, listkit.ReasonNotFound, perm.Reason)
}

func TestGroupService_ListForbiddenWithoutRole(t *testing.T) {
	t.Parallel()

	logger := logrus.New()
	logger.SetLevel(logrus.PanicLevel)

	groups := persistence.NewMemoryGroupRepository()
	teams := persistence.NewMemoryTeamRepository()
	users := persistence.NewMemoryUserRepository()
	enforcing := authztest.NewEnforce(t, "p, role:operator, care.group, read\n")
	svc := services.NewGroupService(groups, teams, users, enforcing, eventbus.NewEventPublisher(logger), logger)

	_, err := svc.List(context.Background(), listkit.SearchParams{})
	require.Error(t, err)

	ctx := composables.WithRole(context.Background(), listkit.RoleOperator)
	_, err = svc.List(ctx, listkit.SearchParams{})
	require.NoError(t, err)

	_, err = svc.Create(ctx, domain.Group{Name: "Daycare B"})
	require.Error(t, err)
}

func TestGroupService_UpdatePreservesCreatedAt(t *testing.T) {
	t.Parallel()
	f := newCareFixture(t)
	g := f.seedGroup(t, domain.StatusActive)

	patch := g
	patch.Name = "Daycare A renamed"
	patch.CreatedAt = time.Time{}

	updated, err := f.groupSvc.Update(context.Background(), g.ID.String(), patch)
	require.NoError(t, err)
	require.Equal(t, g.CreatedAt, updated.CreatedAt)
	require.Equal(t, "Daycare A renamed", updated.Name)
}
