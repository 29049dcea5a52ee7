package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"donezo_backend/internal/auth"
	apphttp "donezo_backend/internal/http"
	"donezo_backend/internal/http/router"
	"donezo_backend/internal/jobs"
	jobsvc "donezo_backend/internal/jobs/service"
	"donezo_backend/internal/parcels"
	"donezo_backend/internal/payments"
	"donezo_backend/internal/quotes"
	"donezo_backend/internal/scheduler"
	"donezo_backend/platform/config"
	"donezo_backend/platform/db"
	"donezo_backend/platform/logger"

	"github.com/jackc/pgx/v5/pgxpool"

	jobsrepo "donezo_backend/internal/jobs/repository"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("failed to load config: " + err.Error())
	}

	log := logger.New(cfg.Env)
	log.Info("starting server", "env", cfg.Env, "addr", cfg.HTTPAddr)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// ========================================================================
	// Infrastructure Layer
	// ========================================================================

	if err := withRetry(ctx, log, "database migrations", 5, 2*time.Second, func() error {
		return db.RunMigrations(ctx, cfg, "migrations")
	}); err != nil {
		log.Error("failed to run database migrations", "error", err)
		panic("failed to run database migrations: " + err.Error())
	}
	log.Info("database migrations complete")

	var pool *pgxpool.Pool
	if err := withRetry(ctx, log, "database connection", 5, 2*time.Second, func() error {
		p, err := db.NewPool(ctx, cfg)
		if err != nil {
			return err
		}
		pool = p
		return nil
	}); err != nil {
		log.Error("failed to connect to database", "error", err)
		panic("failed to connect to database: " + err.Error())
	}
	defer pool.Close()
	log.Info("database connection established")

	backfill, closeBackfill := initBackfillScheduler(cfg, log)
	if closeBackfill != nil {
		defer closeBackfill()
	}

	// ========================================================================
	// Domain Modules (Composition Root)
	// ========================================================================

	parcelsModule := parcels.NewModule(cfg, log)

	var parcelLookup jobsvc.ParcelLookup
	if parcelsModule != nil {
		parcelLookup = parcelsModule.Service()
	}

	jobsModule := jobs.NewModule(pool, parcelLookup, backfill, log)
	authModule := auth.NewModule(pool, cfg, log)
	paymentsModule := payments.NewModule(cfg, jobsrepo.New(pool), log)
	quotesModule := quotes.NewModule(pool)

	modules := []apphttp.Module{
		authModule,
		jobsModule,
		paymentsModule,
		quotesModule,
	}
	if parcelsModule != nil {
		modules = append(modules, parcelsModule)
	}

	// ========================================================================
	// HTTP Layer
	// ========================================================================

	app := &apphttp.App{
		Config:  cfg,
		Logger:  log,
		Health:  db.NewPoolAdapter(pool),
		Modules: modules,
	}

	engine := router.New(app)

	srvErr := make(chan error, 1)
	go func() {
		log.Info("server listening", "addr", cfg.HTTPAddr)
		srvErr <- engine.Run(cfg.HTTPAddr)
	}()

	select {
	case <-ctx.Done():
		log.Info("shutdown signal received, gracefully shutting down")
	case err := <-srvErr:
		if err != nil {
			log.Error("server error", "error", err)
			panic("server error: " + err.Error())
		}
	}
}

func initBackfillScheduler(cfg config.SchedulerConfig, log *logger.Logger) (jobsvc.BackfillScheduler, func()) {
	if cfg.GetRedisURL() == "" {
		log.Warn("REDIS_URL not configured; parcel backfill queue disabled")
		return nil, nil
	}

	client, err := scheduler.NewClient(cfg)
	if err != nil {
		log.Error("failed to initialize backfill scheduler client", "error", err)
		return nil, nil
	}

	return client, func() {
		_ = client.Close()
	}
}

func withRetry(ctx context.Context, log *logger.Logger, name string, attempts int, baseDelay time.Duration, fn func() error) error {
	if attempts < 1 {
		return fmt.Errorf("%s: invalid retry attempts", name)
	}

	var lastErr error
	for attempt := 1; attempt <= attempts; attempt++ {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		if err := fn(); err == nil {
			return nil
		} else {
			lastErr = err
			log.Warn("retryable operation failed", "operation", name, "attempt", attempt, "error", err)
		}

		if attempt < attempts {
			delay := time.Duration(attempt*attempt) * baseDelay
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(delay):
			}
		}
	}

	return errors.New(name + ": " + lastErr.Error())
}
