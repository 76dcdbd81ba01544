package care_test

import (
	"context"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/require"

	"github.com/hanamiya/console/modules/care"
	"github.com/hanamiya/console/modules/care/domain"
	"github.com/hanamiya/console/pkg/authz/authztest"
	"github.com/hanamiya/console/pkg/eventbus"
)

func newCareModule(t *testing.T) (*care.Module, eventbus.EventBus) {
	t.Helper()

	logger := logrus.New()
	logger.SetLevel(logrus.PanicLevel)
	bus := eventbus.NewEventPublisher(logger)

	m := care.NewModule(care.Options{
		DBEnabled: false,
		Authz:     authztest.NewDisabled(t),
		Bus:       bus,
		Logger:    logger,
		StatsTTL:  time.Hour,
	})
	return m, bus
}

func TestModule_RegistersControllersAndSubscribers(t *testing.T) {
	t.Parallel()

	m, bus := newCareModule(t)
	require.Len(t, m.Controllers(), 6)
	require.Equal(t, 1, bus.SubscribersCount())
}

func TestModule_MutationEventsInvalidateStatsCache(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	m, _ := newCareModule(t)

	before, err := m.Stats.Stats(ctx)
	require.NoError(t, err)
	require.EqualValues(t, 0, before["groups"])

	_, err = m.Groups.Create(ctx, domain.Group{Name: "Daycare A"})
	require.NoError(t, err)

	// The creation event must bust the cached aggregates even though
	// the TTL has not expired.
	after, err := m.Stats.Stats(ctx)
	require.NoError(t, err)
	require.EqualValues(t, 1, after["groups"])
}
