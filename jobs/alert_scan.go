package jobs

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"time"

	"github.com/hibiken/asynq"

	"github.com/tajirhq/tajir/internal/alerts"
	"github.com/tajirhq/tajir/internal/finance"
)

// AlertScanJob runs the notification scan on the worker schedule.
type AlertScanJob struct {
	Alerts *alerts.Service
	Logger *slog.Logger
}

func NewAlertScanJob(alertService *alerts.Service, logger *slog.Logger) *AlertScanJob {
	return &AlertScanJob{Alerts: alertService, Logger: logger}
}

// Handle executes one scan.
func (j *AlertScanJob) Handle(ctx context.Context, _ *asynq.Task) error {
	if j == nil || j.Alerts == nil {
		return errors.New("alert scan: handler not configured")
	}
	start := time.Now()
	created, err := j.Alerts.RunScan(ctx)
	if err != nil {
		j.Logger.Error("alert scan failed", slog.Any("error", err))
		return err
	}
	j.Logger.Info("alert scan completed",
		slog.Int("new_notifications", created),
		slog.Duration("took", time.Since(start)))
	return nil
}

// FinanceWarmupJob precomputes the cached summary for the requested period.
type FinanceWarmupJob struct {
	Finance *finance.Service
	Logger  *slog.Logger
}

func NewFinanceWarmupJob(financeService *finance.Service, logger *slog.Logger) *FinanceWarmupJob {
	return &FinanceWarmupJob{Finance: financeService, Logger: logger}
}

// Handle computes and caches the summary.
func (j *FinanceWarmupJob) Handle(ctx context.Context, t *asynq.Task) error {
	if j == nil || j.Finance == nil {
		return errors.New("finance warmup: handler not configured")
	}
	var payload FinanceWarmupPayload
	if len(t.Payload()) > 0 {
		if err := json.Unmarshal(t.Payload(), &payload); err != nil {
			return asynq.SkipRetry
		}
	}
	from, to := payload.From, payload.To
	if from.IsZero() || to.IsZero() {
		now := time.Now()
		from = time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())
		to = now
	}

	summary, err := j.Finance.Summary(ctx, from, to)
	if err != nil {
		j.Logger.Error("finance warmup failed", slog.Any("error", err))
		return err
	}
	j.Logger.Info("finance warmup completed",
		slog.String("revenue", summary.Revenue.String()),
		slog.Int("orders", summary.TotalOrders))
	return nil
}
