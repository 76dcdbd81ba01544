package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gorilla/mux"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"

	"github.com/hanamiya/console/modules/care"
	"github.com/hanamiya/console/modules/merchant"
	"github.com/hanamiya/console/pkg/authz"
	"github.com/hanamiya/console/pkg/composables"
	"github.com/hanamiya/console/pkg/configuration"
	"github.com/hanamiya/console/pkg/eventbus"
	"github.com/hanamiya/console/pkg/metrics"
	"github.com/hanamiya/console/pkg/middleware"
	"github.com/hanamiya/console/pkg/scheduler"
	"github.com/hanamiya/console/pkg/server"
)

func main() {
	conf := configuration.Use()
	logger := conf.Logger()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	authzSvc, err := authz.NewService(authz.Config{
		ModelPath:  conf.Authz.ModelPath,
		PolicyPath: conf.Authz.PolicyPath,
		Mode:       conf.Authz.Mode,
		Logger:     logger,
	})
	if err != nil {
		logger.WithError(err).Fatal("failed to initialize authorization")
	}

	bus := eventbus.NewEventPublisher(logger)

	var pool *pgxpool.Pool
	if conf.Database.Enabled {
		pool, err = pgxpool.New(ctx, conf.Database.Opts)
		if err != nil {
			logger.WithError(err).Fatal("failed to create database pool")
		}
		defer pool.Close()
		if err := pool.Ping(ctx); err != nil {
			logger.WithError(err).Fatal("database is unreachable")
		}
	}

	var rdb *redis.Client
	if conf.RedisEnabled {
		redisOpts, err := redis.ParseURL(conf.RedisURL)
		if err != nil {
			logger.WithError(err).Fatal("invalid REDIS_URL")
		}
		rdb = redis.NewClient(redisOpts)
		defer func() { _ = rdb.Close() }()
	}

	careModule := care.NewModule(care.Options{
		DBEnabled:   conf.Database.Enabled,
		Authz:       authzSvc,
		Bus:         bus,
		Logger:      logger,
		Redis:       rdb,
		StatsTTL:    conf.Stats.CacheTTL,
		PageSize:    conf.PageSize,
		MaxPageSize: conf.MaxPageSize,
	})
	merchantModule := merchant.NewModule(merchant.Options{
		DBEnabled:     conf.Database.Enabled,
		Authz:         authzSvc,
		Bus:           bus,
		Logger:        logger,
		CouponBaseURL: conf.CouponPlatform.BaseURL,
		CouponAPIKey:  conf.CouponPlatform.APIKey,
		CouponTimeout: conf.CouponPlatform.Timeout,
		PageSize:      conf.PageSize,
		MaxPageSize:   conf.MaxPageSize,
	})

	controllers := append(careModule.Controllers(), merchantModule.Controllers()...)
	if conf.Prometheus.Enabled {
		controllers = append(controllers, metrics.NewPrometheusController(conf.Prometheus.Path))
	}

	middlewares := []mux.MiddlewareFunc{
		middleware.Recover(logger),
		middleware.RequestID(conf.RequestIDHeader),
		middleware.ProvideRole(conf.RoleHeader),
		middleware.RequestLogger(logger),
	}
	if pool != nil {
		middlewares = append(middlewares, middleware.ProvidePool(pool))
	}

	// Cron jobs have no incoming request to carry the pool, so it is
	// installed on the scheduler's base context directly.
	jobCtx := ctx
	if pool != nil {
		jobCtx = composables.WithPool(jobCtx, pool)
	}
	sched := scheduler.New(jobCtx, logger)
	if err := sched.Add(conf.Stats.CronSchedule, "care-stats-refresh", func(ctx context.Context) error {
		_, err := careModule.Stats.Refresh(ctx)
		return err
	}); err != nil {
		logger.WithError(err).Fatal("failed to schedule stats refresh")
	}
	sched.Start()
	defer sched.Stop()

	srv := server.NewHTTPServer(controllers, middlewares)
	httpServer := &http.Server{
		Addr:              conf.SocketAddress,
		Handler:           srv.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		logger.Infof("listening on %s", conf.SocketAddress)
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.WithError(err).Fatal("server stopped")
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		logger.WithError(err).Error("graceful shutdown failed")
	}
}
