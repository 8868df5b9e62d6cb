package services

import (
	"context"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"

	"github.com/prioplan/backend/domain"
)

// ReminderSource is the slice of the scheduling engine the scanner needs.
type ReminderSource interface {
	ListTasks(ctx context.Context, activeOnly bool) ([]*domain.Task, error)
	MarkReminded(ctx context.Context, id string) error
}

// Notifier delivers a deadline reminder. The scanner marks the task reminded
// only after delivery succeeds, so a failed delivery retries next scan.
type Notifier interface {
	Notify(ctx context.Context, task *domain.Task) error
}

// LogNotifier writes reminders to the log. It stands in for a real delivery
// channel.
type LogNotifier struct {
	Logger *zap.Logger
}

func (n LogNotifier) Notify(ctx context.Context, task *domain.Task) error {
	logger := n.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	logger.Info("task deadline reminder",
		zap.String("task_id", task.ID),
		zap.String("title", task.Title),
		zap.Timep("deadline", task.Deadline))
	return nil
}

// ReminderConfig controls the scan cadence and notification window.
type ReminderConfig struct {
	Interval time.Duration
	// Window is how far ahead of its deadline a task becomes reminder-worthy.
	Window time.Duration
	// Grace bounds how long past a deadline a missed reminder still fires.
	Grace time.Duration
}

// ReminderScanner periodically walks the active tasks and delivers one
// reminder per task deadline. The engine's reminded flag is the only
// dedup state; there is no redelivery once it is set.
type ReminderScanner struct {
	source   ReminderSource
	notifier Notifier
	logger   *zap.Logger
	cron     *cron.Cron
	cfg      ReminderConfig
	now      func() time.Time
}

func NewReminderScanner(source ReminderSource, notifier Notifier, logger *zap.Logger, cfg ReminderConfig) *ReminderScanner {
	if cfg.Interval <= 0 {
		cfg.Interval = time.Minute
	}
	if cfg.Window <= 0 {
		cfg.Window = time.Hour
	}
	if cfg.Grace < 0 {
		cfg.Grace = 0
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	if notifier == nil {
		notifier = LogNotifier{Logger: logger}
	}

	rs := &ReminderScanner{
		source:   source,
		notifier: notifier,
		logger:   logger,
		cfg:      cfg,
		now:      time.Now,
		cron:     cron.New(cron.WithSeconds()),
	}

	schedule := fmt.Sprintf("@every %ds", int(cfg.Interval.Seconds()))
	_, _ = rs.cron.AddFunc(schedule, func() {
		ctx, cancel := context.WithTimeout(context.Background(), cfg.Interval)
		defer cancel()
		if err := rs.Scan(ctx); err != nil {
			rs.logger.Error("reminder scan failed", zap.Error(err))
		}
	})

	return rs
}

// Start launches the cron scheduler.
func (rs *ReminderScanner) Start() {
	if rs == nil || rs.cron == nil {
		return
	}
	rs.cron.Start()
	rs.logger.Info("reminder scanner started",
		zap.Duration("interval", rs.cfg.Interval),
		zap.Duration("window", rs.cfg.Window))
}

// Stop gracefully stops the scheduler.
func (rs *ReminderScanner) Stop(ctx context.Context) {
	if rs == nil || rs.cron == nil {
		return
	}
	stopCtx := rs.cron.Stop()
	select {
	case <-stopCtx.Done():
	case <-ctx.Done():
	}
	rs.logger.Info("reminder scanner stopped")
}

// Scan delivers reminders for active tasks whose deadline falls inside the
// window and marks them so they are not reminded twice.
func (rs *ReminderScanner) Scan(ctx context.Context) error {
	tasks, err := rs.source.ListTasks(ctx, true)
	if err != nil {
		return err
	}

	now := rs.now()
	delivered := 0
	for _, t := range tasks {
		if t.Reminded || !t.HasDeadline() {
			continue
		}
		until := t.Deadline.Sub(now)
		if until > rs.cfg.Window || until < -rs.cfg.Grace {
			continue
		}
		if err := rs.notifier.Notify(ctx, t); err != nil {
			rs.logger.Warn("reminder delivery failed",
				zap.String("task_id", t.ID), zap.Error(err))
			continue
		}
		if err := rs.source.MarkReminded(ctx, t.ID); err != nil {
			rs.logger.Warn("failed to mark task reminded",
				zap.String("task_id", t.ID), zap.Error(err))
			continue
		}
		delivered++
	}

	if delivered > 0 {
		rs.logger.Info("reminders delivered", zap.Int("count", delivered))
	}
	return nil
}
