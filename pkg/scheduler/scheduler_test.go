package scheduler

import (
	"context"
	"io"
	"testing"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/require"

	"github.com/hanamiya/console/pkg/composables"
)

func newTestLogger() *logrus.Logger {
	log := logrus.New()
	log.SetOutput(io.Discard)
	return log
}

// runEntry fires the registered cron job synchronously, including its
// recovery chain, without waiting for a tick.
func runEntry(t *testing.T, s *Scheduler) {
	t.Helper()
	entries := s.cron.Entries()
	require.Len(t, entries, 1)
	entries[0].WrappedJob.Run()
}

func TestScheduler_JobsRunWithBaseContext(t *testing.T) {
	t.Parallel()

	pool := &pgxpool.Pool{}
	base := composables.WithPool(context.Background(), pool)
	s := New(base, newTestLogger())

	var got *pgxpool.Pool
	err := s.Add("*/5 * * * *", "stats-refresh", func(ctx context.Context) error {
		p, err := composables.UsePool(ctx)
		if err != nil {
			return err
		}
		got = p
		return nil
	})
	require.NoError(t, err)

	runEntry(t, s)
	require.Same(t, pool, got)
}

func TestScheduler_JobErrorDoesNotPropagate(t *testing.T) {
	t.Parallel()

	s := New(context.Background(), newTestLogger())
	ran := false
	require.NoError(t, s.Add("@hourly", "failing", func(ctx context.Context) error {
		ran = true
		return context.DeadlineExceeded
	}))

	runEntry(t, s)
	require.True(t, ran)
}

func TestScheduler_JobPanicIsRecovered(t *testing.T) {
	t.Parallel()

	s := New(context.Background(), newTestLogger())
	require.NoError(t, s.Add("@hourly", "panicking", func(ctx context.Context) error {
		panic("boom")
	}))

	require.NotPanics(t, func() { runEntry(t, s) })
}

func TestScheduler_RejectsMalformedSpec(t *testing.T) {
	t.Parallel()

	s := New(context.Background(), newTestLogger())
	err := s.Add("not a cron spec", "broken", func(ctx context.Context) error { return nil })
	require.Error(t, err)
}
