package merchant_test

import (
	"bytes"
	"context"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/require"

	"github.com/hanamiya/console/modules/merchant"
	"github.com/hanamiya/console/modules/merchant/domain"
	"github.com/hanamiya/console/pkg/authz/authztest"
	"github.com/hanamiya/console/pkg/eventbus"
)

func TestModule_MutationsAreAuditLogged(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	logger := logrus.New()
	logger.SetLevel(logrus.InfoLevel)
	logger.SetOutput(&buf)

	bus := eventbus.NewEventPublisher(logger)
	m := merchant.NewModule(merchant.Options{
		DBEnabled: false,
		Authz:     authztest.NewDisabled(t),
		Bus:       bus,
		Logger:    logger,
	})
	require.Len(t, m.Controllers(), 3)
	require.Equal(t, 1, bus.SubscribersCount())

	_, err := m.Merchants.Create(context.Background(), domain.Merchant{Name: "Yamada Trading"})
	require.NoError(t, err)

	require.Contains(t, buf.String(), "merchant mutation")
	require.Contains(t, buf.String(), "MerchantCreatedEvent")
}
