// Command parcel-backfill is a one-shot sweep that re-attempts parcel
// enrichment for every job created without a snapshot.
package main

import (
	"context"
	"time"

	jobsrepo "donezo_backend/internal/jobs/repository"
	jobsvc "donezo_backend/internal/jobs/service"
	"donezo_backend/internal/parcels"
	"donezo_backend/platform/config"
	"donezo_backend/platform/db"
	"donezo_backend/platform/logger"
)

const (
	batchSize         = 50
	delayBetweenCalls = 300 * time.Millisecond
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("failed to load config: " + err.Error())
	}

	log := logger.New(cfg.Env)
	log.Info("starting parcel backfill")

	ctx := context.Background()
	pool, err := db.NewPool(ctx, cfg)
	if err != nil {
		log.Error("failed to connect to database", "error", err)
		panic("failed to connect to database: " + err.Error())
	}
	defer pool.Close()

	parcelsModule := parcels.NewModule(cfg, log)
	if parcelsModule == nil {
		log.Warn("LINZ_API_KEY not configured, skipping backfill")
		return
	}

	svc := jobsvc.New(jobsrepo.New(pool), parcelsModule.Service(), nil, log)

	processed, updated, err := svc.SweepUnenriched(ctx, batchSize, delayBetweenCalls)
	if err != nil {
		log.Error("parcel backfill sweep failed", "error", err)
	}

	log.Info("parcel backfill complete", "processed", processed, "updated", updated)
}
