// Package jobs runs background work over Asynq: the midnight day rollover and
// summary cache warmups.
package jobs

import (
	"encoding/json"

	"github.com/hibiken/asynq"
)

const (
	// QueueDefault is the default queue name for background jobs.
	QueueDefault = "default"
	// TaskDailyRollover carries closed inventory snapshots into the new day.
	TaskDailyRollover = "daily:rollover"
	// TaskSummaryWarmup precomputes the daily account summary for one day.
	TaskSummaryWarmup = "summary:warmup"
)

// SummaryWarmupPayload names the day to warm, as YYYY-MM-DD.
type SummaryWarmupPayload struct {
	Day string `json:"day"`
}

// NewDailyRolloverTask constructs the rollover task. It carries no payload;
// the worker resolves "today" at execution time.
func NewDailyRolloverTask() *asynq.Task {
	return asynq.NewTask(TaskDailyRollover, nil)
}

// NewSummaryWarmupTask constructs a warmup task for the given day.
func NewSummaryWarmupTask(payload SummaryWarmupPayload) (*asynq.Task, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TaskSummaryWarmup, data), nil
}
