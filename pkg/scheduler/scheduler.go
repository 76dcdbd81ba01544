package scheduler

import (
	"context"

	"github.com/robfig/cron/v3"
	"github.com/sirupsen/logrus"
)

// Scheduler runs recurring background jobs. Job panics are recovered
// and logged so one misbehaving job cannot take the process down.
type Scheduler struct {
	base context.Context
	cron *cron.Cron
	log  *logrus.Entry
}

// New builds a scheduler whose jobs run with base as their context.
// Process-wide resources jobs depend on, such as the database pool,
// must be installed on base; there is no request to inherit them from.
func New(base context.Context, log *logrus.Logger) *Scheduler {
	entry := log.WithField("component", "scheduler")
	return &Scheduler{
		base: base,
		cron: cron.New(cron.WithChain(
			cron.Recover(cron.PrintfLogger(entry)),
		)),
		log: entry,
	}
}

// Add registers job under the given cron spec. The job receives the
// scheduler's base context; it must not outlive a single tick.
func (s *Scheduler) Add(spec, name string, job func(ctx context.Context) error) error {
	_, err := s.cron.AddFunc(spec, func() {
		if err := job(s.base); err != nil {
			s.log.WithError(err).Warnf("job %s failed", name)
		}
	})
	if err != nil {
		return err
	}
	s.log.Infof("job %s scheduled: %s", name, spec)
	return nil
}

func (s *Scheduler) Start() {
	s.cron.Start()
}

// Stop halts scheduling and waits for running jobs to finish.
func (s *Scheduler) Stop() {
	<-s.cron.Stop().Done()
}
