package services_test

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/require"

	"github.com/hanamiya/console/modules/care/domain"
	"github.com/hanamiya/console/modules/care/services"
	"github.com/hanamiya/console/pkg/authz/authztest"
	"github.com/hanamiya/console/pkg/eventbus"
	"github.com/hanamiya/console/pkg/listkit"
)

func newOfficeFixture(t *testing.T) (*careFixture, *services.OfficeService) {
	t.Helper()
	f := newCareFixture(t)
	logger := logrus.New()
	logger.SetLevel(logrus.PanicLevel)
	svc := services.NewOfficeService(f.offices, f.users, f.staff, authztest.NewDisabled(t), eventbus.NewEventPublisher(logger), logger)
	return f, svc
}

func seedOffice(t *testing.T, svc *services.OfficeService, status domain.Status) domain.Office {
	t.Helper()
	o, err := svc.Create(context.Background(), domain.Office{Name: "Sakura Office", Status: status})
	require.NoError(t, err)
	return o
}

func TestOfficeService_RemoveRequiresDisabled(t *testing.T) {
	t.Parallel()
	_, svc := newOfficeFixture(t)
	o := seedOffice(t, svc, domain.StatusActive)

	perm := svc.DeleteGuard().Evaluate(context.Background(), o.ID.String())
	require.False(t, perm.CanDelete)
	require.Equal(t, "office must be disabled before deletion", perm.Reason)
}

func TestOfficeService_FirstViolatedDependencyNamesReason(t *testing.T) {
	t.Parallel()
	f, svc := newOfficeFixture(t)
	o := seedOffice(t, svc, domain.StatusDisabled)

	_, err := f.users.Create(context.Background(), mustUser(o))
	require.NoError(t, err)
	_, err = f.staff.Create(context.Background(), mustStaff(o))
	require.NoError(t, err)

	// Users are declared ahead of staff, so they supply the reason
	// even though both dependencies are violated.
	perm := svc.DeleteGuard().Evaluate(context.Background(), o.ID.String())
	require.False(t, perm.CanDelete)
	require.Equal(t, "office still has active users", perm.Reason)
}

func TestOfficeService_StaffDependencyCheckedAfterUsers(t *testing.T) {
	t.Parallel()
	f, svc := newOfficeFixture(t)
	o := seedOffice(t, svc, domain.StatusDisabled)

	_, err := f.staff.Create(context.Background(), mustStaff(o))
	require.NoError(t, err)

	perm := svc.DeleteGuard().Evaluate(context.Background(), o.ID.String())
	require.False(t, perm.CanDelete)
	require.Equal(t, "office still has active staff", perm.Reason)
}

func TestOfficeService_RemoveSucceedsWhenClear(t *testing.T) {
	t.Parallel()
	_, svc := newOfficeFixture(t)
	o := seedOffice(t, svc, domain.StatusDisabled)

	require.NoError(t, svc.Remove(context.Background(), o.ID.String()))

	list, err := svc.List(context.Background(), listkit.SearchParams{})
	require.NoError(t, err)
	require.Empty(t, list)
}

func newID() uuid.UUID {
	return uuid.New()
}

func mustUser(o domain.Office) domain.User {
	return domain.User{
		ID:       newID(),
		OfficeID: o.ID,
		Nickname: "hinata",
		Status:   domain.StatusActive,
	}
}

func mustStaff(o domain.Office) domain.Staff {
	return domain.Staff{
		ID:       newID(),
		OfficeID: o.ID,
		Name:     "Aoi Tanaka",
		Status:   domain.StatusActive,
	}
}
