package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"golang.org/x/sync/errgroup"

	jobsrepo "donezo_backend/internal/jobs/repository"
	"donezo_backend/internal/parcels"
	"donezo_backend/internal/scheduler"
	"donezo_backend/platform/config"
	"donezo_backend/platform/db"
	"donezo_backend/platform/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("failed to load config: " + err.Error())
	}

	log := logger.New(cfg.Env)
	log.Info("starting worker", "env", cfg.Env)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	connectCtx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()
	pool, err := db.NewPool(connectCtx, cfg)
	if err != nil {
		log.Error("failed to connect to database", "error", err)
		panic("failed to connect to database: " + err.Error())
	}
	defer pool.Close()

	parcelsModule := parcels.NewModule(cfg, log)
	if parcelsModule == nil {
		log.Error("worker requires LINZ_API_KEY; nothing to process without it")
		panic("worker requires LINZ_API_KEY")
	}

	worker, err := scheduler.NewWorker(cfg, jobsrepo.New(pool), parcelsModule.Service(), log)
	if err != nil {
		log.Error("failed to initialize worker", "error", err)
		panic("failed to initialize worker: " + err.Error())
	}

	group, groupCtx := errgroup.WithContext(ctx)
	group.Go(func() error {
		worker.Run(groupCtx)
		return nil
	})

	if err := group.Wait(); err != nil {
		log.Error("worker stopped", "error", err)
	}
	log.Info("worker shut down")
}
