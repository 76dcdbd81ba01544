package services_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/require"

	"github.com/hanamiya/console/modules/care/domain"
	"github.com/hanamiya/console/modules/care/infrastructure/persistence"
	"github.com/hanamiya/console/modules/care/services"
	"github.com/hanamiya/console/pkg/composables"
)

type statsFixture struct {
	users *persistence.MemoryUserRepository
	stats *services.CareStatsService
}

func newStatsFixture(t *testing.T) *statsFixture {
	t.Helper()

	logger := logrus.New()
	logger.SetLevel(logrus.PanicLevel)

	users := persistence.NewMemoryUserRepository()
	stats := services.NewCareStatsService(
		persistence.NewMemoryOfficeRepository(),
		persistence.NewMemoryGroupRepository(),
		persistence.NewMemoryTeamRepository(),
		persistence.NewMemoryStaffRepository(),
		users,
		persistence.NewMemoryAdminRepository(),
		nil, time.Hour, logger,
	)
	return &statsFixture{users: users, stats: stats}
}

func seedStatsUser(t *testing.T, f *statsFixture, status domain.Status) {
	t.Helper()
	_, err := f.users.Create(context.Background(), domain.User{
		ID:       uuid.New(),
		Nickname: "hinata",
		Status:   status,
	})
	require.NoError(t, err)
}

func TestCareStats_CountsActiveUsersSeparately(t *testing.T) {
	t.Parallel()

	f := newStatsFixture(t)
	seedStatsUser(t, f, domain.StatusActive)
	seedStatsUser(t, f, domain.StatusInactive)

	stats, err := f.stats.Stats(context.Background())
	require.NoError(t, err)
	require.EqualValues(t, 2, stats["users"])
	require.EqualValues(t, 1, stats["activeUsers"])
	require.EqualValues(t, 0, stats["offices"])
}

func TestCareStats_ServesCachedUntilInvalidated(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	f := newStatsFixture(t)
	seedStatsUser(t, f, domain.StatusActive)

	first, err := f.stats.Stats(ctx)
	require.NoError(t, err)
	require.EqualValues(t, 1, first["users"])

	seedStatsUser(t, f, domain.StatusActive)

	cached, err := f.stats.Stats(ctx)
	require.NoError(t, err)
	require.EqualValues(t, 1, cached["users"])

	f.stats.Invalidate(ctx)

	fresh, err := f.stats.Stats(ctx)
	require.NoError(t, err)
	require.EqualValues(t, 2, fresh["users"])
}

func TestCareStats_RefreshOnPgReposNeedsPoolInContext(t *testing.T) {
	t.Parallel()

	logger := logrus.New()
	logger.SetLevel(logrus.PanicLevel)

	stats := services.NewCareStatsService(
		persistence.NewPgOfficeRepository(),
		persistence.NewPgGroupRepository(),
		persistence.NewPgTeamRepository(),
		persistence.NewPgStaffRepository(),
		persistence.NewPgUserRepository(),
		persistence.NewMemoryAdminRepository(),
		nil, time.Hour, logger,
	)

	// A bare context carries no pool; the refresh must surface that
	// instead of silently returning empty aggregates.
	_, err := stats.Refresh(context.Background())
	require.ErrorIs(t, err, composables.ErrNoPool)
}
