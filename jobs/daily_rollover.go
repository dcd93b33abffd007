package jobs

import (
	"context"
	"encoding/json"
	"log/slog"

	"github.com/hibiken/asynq"

	"github.com/lodgebooks/lodgebooks/internal/dailybook"
)

// Rollover bundles the handlers that need the dailybook service.
type Rollover struct {
	service *dailybook.Service
	logger  *slog.Logger
}

// NewRollover wires the rollover handlers.
func NewRollover(service *dailybook.Service, logger *slog.Logger) *Rollover {
	return &Rollover{service: service, logger: logger}
}

// HandleDailyRollover opens the new day: yesterday's closed snapshots become
// today's opening snapshots, then the fresh summary is cached.
func (j *Rollover) HandleDailyRollover(ctx context.Context, _ *asynq.Task) error {
	carried, err := j.service.Rollover(ctx)
	if err != nil {
		j.logger.Error("daily rollover failed", slog.Any("error", err))
		return err
	}
	j.logger.Info("daily rollover complete", slog.Int64("snapshots_carried", carried))
	if err := j.service.WarmSummary(ctx, ""); err != nil {
		// Warmup is best effort; the next read rebuilds the cache anyway.
		j.logger.Warn("summary warmup after rollover failed", slog.Any("error", err))
	}
	return nil
}

// HandleSummaryWarmup recomputes and caches one day's summary.
func (j *Rollover) HandleSummaryWarmup(ctx context.Context, t *asynq.Task) error {
	var payload SummaryWarmupPayload
	if err := json.Unmarshal(t.Payload(), &payload); err != nil {
		return asynq.SkipRetry
	}
	if err := j.service.WarmSummary(ctx, payload.Day); err != nil {
		j.logger.Warn("summary warmup failed", slog.String("day", payload.Day), slog.Any("error", err))
		return err
	}
	return nil
}

// TaskHandlers returns the registrations for the worker mux.
func (j *Rollover) TaskHandlers() []TaskHandler {
	return []TaskHandler{
		{Type: TaskDailyRollover, Handler: j.HandleDailyRollover},
		{Type: TaskSummaryWarmup, Handler: j.HandleSummaryWarmup},
	}
}
