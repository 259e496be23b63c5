package jobs

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	"github.com/hibiken/asynq"

	"github.com/shopkhata/shopkhata/internal/profit"
)

// ProfitSnapshotJob runs the nightly daily-profit persistence.
type ProfitSnapshotJob struct {
	svc    *profit.Service
	logger *slog.Logger
}

func NewProfitSnapshotJob(svc *profit.Service, logger *slog.Logger) *ProfitSnapshotJob {
	return &ProfitSnapshotJob{svc: svc, logger: logger}
}

// Handle processes TaskProfitDailySnapshot tasks.
func (j *ProfitSnapshotJob) Handle(ctx context.Context, t *asynq.Task) error {
	var payload ProfitSnapshotPayload
	if err := json.Unmarshal(t.Payload(), &payload); err != nil {
		return asynq.SkipRetry
	}

	date := time.Now().UTC().AddDate(0, 0, -1)
	if payload.Date != "" {
		parsed, err := time.Parse("2006-01-02", payload.Date)
		if err != nil {
			j.logger.Warn("profit snapshot task has bad date", "date", payload.Date)
			return asynq.SkipRetry
		}
		date = parsed
	}

	rec, err := j.svc.SnapshotDaily(ctx, date)
	if err != nil {
		j.logger.Error("profit snapshot failed", "date", date.Format("2006-01-02"), slog.Any("error", err))
		return err
	}
	j.logger.Info("profit snapshot stored",
		"date", rec.Date.Format("2006-01-02"), "profit", rec.ProfitAmount)
	return nil
}
