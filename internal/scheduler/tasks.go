package scheduler

import (
	"encoding/json"

	"github.com/hibiken/asynq"
)

// TaskParcelBackfill re-attempts parcel enrichment for a job whose snapshot
// is still empty.
const TaskParcelBackfill = "jobs.parcel_backfill"

type ParcelBackfillPayload struct {
	JobID string `json:"jobId"`
}

func NewParcelBackfillTask(payload ParcelBackfillPayload) (*asynq.Task, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TaskParcelBackfill, data), nil
}

func ParseParcelBackfillPayload(task *asynq.Task) (ParcelBackfillPayload, error) {
	var payload ParcelBackfillPayload
	if err := json.Unmarshal(task.Payload(), &payload); err != nil {
		return ParcelBackfillPayload{}, err
	}
	return payload, nil
}
