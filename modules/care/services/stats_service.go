package services

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"

	"github.com/hanamiya/console/modules/care/domain"
	"github.com/hanamiya/console/pkg/listkit"
)

const statsCacheKey = "console:care:stats"

// CareStatsService aggregates row counts for the care dashboard.
// Counts are cached in-process for the configured TTL and, when a
// redis client is configured, shared across instances through redis.
// Mutation events published by the care services invalidate the cache
// so the dashboard never serves counts older than the last write.
type CareStatsService struct {
	offices domain.OfficeRepository
	groups  domain.GroupRepository
	teams   domain.TeamRepository
	staff   domain.StaffRepository
	users   domain.UserRepository
	admins  domain.AdminRepository

	rdb *redis.Client
	ttl time.Duration
	log *logrus.Entry

	mu       sync.Mutex
	cached   listkit.EntityStats
	cachedAt time.Time
}

func NewCareStatsService(
	offices domain.OfficeRepository,
	groups domain.GroupRepository,
	teams domain.TeamRepository,
	staff domain.StaffRepository,
	users domain.UserRepository,
	admins domain.AdminRepository,
	rdb *redis.Client,
	ttl time.Duration,
	log *logrus.Logger,
) *CareStatsService {
	return &CareStatsService{
		offices: offices,
		groups:  groups,
		teams:   teams,
		staff:   staff,
		users:   users,
		admins:  admins,
		rdb:     rdb,
		ttl:     ttl,
		log:     log.WithField("service", "care-stats"),
	}
}

func (s *CareStatsService) Stats(ctx context.Context) (listkit.EntityStats, error) {
	s.mu.Lock()
	if s.cached != nil && (s.ttl <= 0 || time.Since(s.cachedAt) < s.ttl) {
		stats := s.cached
		s.mu.Unlock()
		return stats, nil
	}
	s.mu.Unlock()

	if s.rdb != nil {
		raw, err := s.rdb.Get(ctx, statsCacheKey).Bytes()
		if err == nil {
			var stats listkit.EntityStats
			if jsonErr := json.Unmarshal(raw, &stats); jsonErr == nil {
				s.remember(stats)
				return stats, nil
			}
		} else if err != redis.Nil {
			s.log.WithError(err).Warn("stats cache read failed, recomputing")
		}
	}
	return s.Refresh(ctx)
}

// Invalidate drops the cached aggregates so the next read recomputes.
// Wired to the care mutation events on the shared bus.
func (s *CareStatsService) Invalidate(ctx context.Context) {
	s.mu.Lock()
	s.cached = nil
	s.mu.Unlock()

	if s.rdb != nil {
		if err := s.rdb.Del(ctx, statsCacheKey).Err(); err != nil {
			s.log.WithError(err).Warn("stats cache invalidation failed")
		}
	}
}

func (s *CareStatsService) remember(stats listkit.EntityStats) {
	s.mu.Lock()
	s.cached = stats
	s.cachedAt = time.Now()
	s.mu.Unlock()
}

// Refresh recomputes the aggregates and repopulates the cache. The
// cron scheduler calls this on its own interval.
func (s *CareStatsService) Refresh(ctx context.Context) (listkit.EntityStats, error) {
	none := listkit.SearchParams{}
	active := listkit.SearchParams{listkit.KeyStatus: string(domain.StatusActive)}

	stats := listkit.EntityStats{}
	counters := []struct {
		key    string
		params listkit.SearchParams
		count  func(ctx context.Context, params listkit.SearchParams) (int64, error)
	}{
		{"offices", none, s.offices.Count},
		{"groups", none, s.groups.Count},
		{"teams", none, s.teams.Count},
		{"staff", none, s.staff.Count},
		{"users", none, s.users.Count},
		{"activeUsers", active, s.users.Count},
		{"admins", none, s.admins.Count},
	}
	for _, c := range counters {
		n, err := c.count(ctx, c.params)
		if err != nil {
			return nil, err
		}
		stats[c.key] = n
	}

	s.remember(stats)
	if s.rdb != nil {
		raw, err := json.Marshal(stats)
		if err == nil {
			if err := s.rdb.Set(ctx, statsCacheKey, raw, s.ttl).Err(); err != nil {
				s.log.WithError(err).Warn("stats cache write failed")
			}
		}
	}
	return stats, nil
}
