package jobs

import (
	"encoding/json"

	"github.com/hibiken/asynq"
)

const (
	// QueueDefault is the default queue name for background jobs.
	QueueDefault = "default"
	// TaskProfitDailySnapshot persists yesterday's profit snapshot and
	// per-side total-price rows.
	TaskProfitDailySnapshot = "profit:daily_snapshot"
)

// ProfitSnapshotPayload names the day to snapshot. Date is YYYY-MM-DD;
// empty means the previous calendar day at run time.
type ProfitSnapshotPayload struct {
	Date string `json:"date"`
}

// NewProfitSnapshotTask constructs an Asynq task.
func NewProfitSnapshotTask(payload ProfitSnapshotPayload) (*asynq.Task, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TaskProfitDailySnapshot, data), nil
}
