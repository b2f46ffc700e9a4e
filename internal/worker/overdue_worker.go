package worker

import (
	"context"
	"time"
	"todoList/internal/logger"
	"todoList/internal/models/task"

	"go.uber.org/zap"
)

const (
	DefaultInterval  = 5 * time.Minute
	DefaultBatchSize = 100
)

type TaskService interface {
	OverdueTasks(ctx context.Context) []task.Task
	UpcomingTasks(ctx context.Context) []task.Task
}

// Report is the outcome of one check.
type Report struct {
	Overdue  []task.Task
	Upcoming []task.Task
}

// OverdueWorker periodically reports pending dated tasks that are past due
// or coming up. It never mutates tasks.
type OverdueWorker struct {
	tasks     TaskService
	interval  time.Duration
	batchSize int
}

func NewOverdueWorker(tasks TaskService, interval time.Duration, batchSize int) *OverdueWorker {
	if interval <= 0 {
		interval = DefaultInterval
	}
	if batchSize <= 0 {
		batchSize = DefaultBatchSize
	}
	return &OverdueWorker{
		tasks:     tasks,
		interval:  interval,
		batchSize: batchSize,
	}
}

// Start runs a check every interval until ctx is done.
func (w *OverdueWorker) Start(ctx context.Context) error {
	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	logger.Info("Worker: overdue check scheduled", zap.Duration("interval", w.interval))
	for {
		select {
		case <-ticker.C:
			logger.Debug("Worker: overdue check started", zap.Time("started_at", time.Now()))
			w.Check(ctx)
		case <-ctx.Done():
			logger.Info("Worker: overdue check stopping")
			return nil
		}
	}
}

func (w *OverdueWorker) Check(ctx context.Context) Report {
	start := time.Now()

	report := Report{
		Overdue:  w.tasks.OverdueTasks(ctx),
		Upcoming: w.tasks.UpcomingTasks(ctx),
	}

	for i, t := range report.Overdue {
		if i >= w.batchSize {
			logger.Warn("Worker: overdue list truncated",
				zap.Int("shown", w.batchSize),
				zap.Int("total", len(report.Overdue)))
			break
		}
		logger.Warn("Worker: task overdue",
			zap.String("task_id", t.ID.String()),
			zap.String("title", t.Title),
			zap.String("due_date", t.DueDate.String()),
			zap.String("created_by", t.CreatedBy.String()))
	}

	logger.Info(
		"Worker: overdue check finished",
		zap.Duration("ms", time.Since(start)),
		zap.Int("overdue", len(report.Overdue)),
		zap.Int("upcoming", len(report.Upcoming)),
	)
	return report
}
