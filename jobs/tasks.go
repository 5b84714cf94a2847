// Package jobs hosts the asynq worker: the periodic alert scan and the
// finance cache warmup.
package jobs

import (
	"encoding/json"
	"time"

	"github.com/hibiken/asynq"
)

const (
	// QueueDefault is the default queue name for background jobs.
	QueueDefault = "default"
	// TaskAlertScan is the periodic notification scan.
	TaskAlertScan = "alerts:scan"
	// TaskFinanceWarmup precomputes the dashboard summary so the first
	// morning request does not pay the aggregation cost.
	TaskFinanceWarmup = "finance:warmup"
)

// FinanceWarmupPayload bounds the summary period to precompute. A zero
// payload means the current month to date.
type FinanceWarmupPayload struct {
	From time.Time `json:"from,omitempty"`
	To   time.Time `json:"to,omitempty"`
}

// NewAlertScanTask constructs the scan task. It carries no payload.
func NewAlertScanTask() *asynq.Task {
	return asynq.NewTask(TaskAlertScan, nil)
}

// NewFinanceWarmupTask constructs a warmup task.
func NewFinanceWarmupTask(payload FinanceWarmupPayload) (*asynq.Task, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TaskFinanceWarmup, data), nil
}
