package services

import (
	"context"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"

	"github.com/fitgoals/backend/repository"
)

// StatsReporter periodically logs aggregate goal counts per status so
// operators can watch collection growth without querying the store.
type StatsReporter struct {
	goals    repository.GoalRepository
	logger   *zap.Logger
	cron     *cron.Cron
	interval time.Duration
}

func NewStatsReporter(goals repository.GoalRepository, interval time.Duration, logger *zap.Logger) *StatsReporter {
	if interval <= 0 {
		interval = 5 * time.Minute
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	sr := &StatsReporter{
		goals:    goals,
		logger:   logger,
		interval: interval,
		cron:     cron.New(cron.WithSeconds()),
	}

	schedule := fmt.Sprintf("@every %ds", int(interval.Seconds()))
	_, _ = sr.cron.AddFunc(schedule, func() {
		ctx, cancel := context.WithTimeout(context.Background(), interval)
		defer cancel()
		sr.report(ctx)
	})

	return sr
}

// Start launches the cron scheduler.
func (sr *StatsReporter) Start() {
	if sr == nil || sr.cron == nil {
		return
	}
	sr.cron.Start()
	sr.logger.Info("stats reporter started", zap.Duration("interval", sr.interval))
}

// Stop gracefully stops the scheduler.
func (sr *StatsReporter) Stop(ctx context.Context) {
	if sr == nil || sr.cron == nil {
		return
	}
	stopCtx := sr.cron.Stop()
	select {
	case <-stopCtx.Done():
	case <-ctx.Done():
	}
	sr.logger.Info("stats reporter stopped")
}

func (sr *StatsReporter) report(ctx context.Context) {
	counts := map[string]int{}
	total := 0

	const pageSize = 100
	for offset := 0; ; offset += pageSize {
		goals, err := sr.goals.ListByOwner(ctx, repository.GoalFilter{Limit: pageSize, Offset: offset})
		if err != nil {
			sr.logger.Error("goal stats collection failed", zap.Error(err))
			return
		}
		for _, g := range goals {
			counts[string(g.Status)]++
			total++
		}
		if len(goals) < pageSize {
			break
		}
	}

	sr.logger.Info("goal stats snapshot",
		zap.Int("total", total),
		zap.Int("active", counts["active"]),
		zap.Int("completed", counts["completed"]),
		zap.Int("abandoned", counts["abandoned"]))
}
