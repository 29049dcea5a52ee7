package scheduler

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/hibiken/asynq"

	"donezo_backend/internal/jobs/repository"
	jobsvc "donezo_backend/internal/jobs/service"
	"donezo_backend/platform/config"
	"donezo_backend/platform/logger"
)

// Worker runs the asynq server and handles parcel backfill tasks.
type Worker struct {
	server  *asynq.Server
	mux     *asynq.ServeMux
	repo    repository.Repository
	parcels jobsvc.ParcelLookup
	log     *logger.Logger
}

// NewWorker creates the task worker. parcels must be non-nil; a worker
// without a parcel client has nothing to do.
func NewWorker(cfg config.SchedulerConfig, repo repository.Repository, parcels jobsvc.ParcelLookup, log *logger.Logger) (*Worker, error) {
	redisURL := cfg.GetRedisURL()
	if redisURL == "" {
		return nil, fmt.Errorf("redis url not configured")
	}
	if parcels == nil {
		return nil, fmt.Errorf("parcel lookup not configured")
	}

	opt, err := redisClientOpt(redisURL, cfg.GetRedisTLSInsecure())
	if err != nil {
		return nil, err
	}

	queue := cfg.GetAsynqQueueName()
	if queue == "" {
		queue = "default"
	}

	concurrency := cfg.GetAsynqConcurrency()
	if concurrency < 1 {
		concurrency = 10
	}

	server := asynq.NewServer(opt, asynq.Config{
		Concurrency: concurrency,
		Queues: map[string]int{
			queue: 1,
		},
	})

	mux := asynq.NewServeMux()
	w := &Worker{
		server:  server,
		mux:     mux,
		repo:    repo,
		parcels: parcels,
		log:     log,
	}

	mux.HandleFunc(TaskParcelBackfill, w.handleParcelBackfill)

	return w, nil
}

// Run blocks until ctx is cancelled, then shuts the server down.
func (w *Worker) Run(ctx context.Context) {
	if w == nil || w.server == nil {
		return
	}

	go func() {
		<-ctx.Done()
		w.server.Shutdown()
	}()

	if err := w.server.Run(w.mux); err != nil {
		w.log.Error("scheduler worker stopped", "error", err)
	}
}

// handleParcelBackfill re-attempts the parcel lookup for one job. Returning
// an error makes asynq retry with backoff; a job that already gained a
// snapshot in the meantime is a silent success.
func (w *Worker) handleParcelBackfill(ctx context.Context, task *asynq.Task) error {
	payload, err := ParseParcelBackfillPayload(task)
	if err != nil {
		return err
	}

	jobID, err := uuid.Parse(payload.JobID)
	if err != nil {
		return fmt.Errorf("malformed job id %q: %w", payload.JobID, err)
	}

	job, err := w.repo.GetJob(ctx, jobID)
	if err != nil {
		return err
	}
	if job.ParcelID != nil {
		return nil
	}
	if job.Lat == nil || job.Lng == nil {
		w.log.Warn("backfill task for job without coordinates", "job_id", jobID)
		return nil
	}

	parcel, err := w.parcels.Lookup(ctx, *job.Lat, *job.Lng)
	if err != nil {
		return fmt.Errorf("parcel lookup for job %s: %w", jobID, err)
	}
	if parcel == nil {
		w.log.Info("no parcel found for job", "job_id", jobID)
		return nil
	}

	written, err := w.repo.SetParcelSnapshot(ctx, jobID, jobsvc.BuildParcelSnapshot(parcel))
	if err != nil {
		return err
	}
	if written {
		w.log.Info("parcel snapshot backfilled", "job_id", jobID)
	}

	return nil
}
