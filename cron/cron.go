package cron

import (
	"context"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/meinhoongagan/home-services/config"
	"github.com/meinhoongagan/home-services/logger"
	"github.com/meinhoongagan/home-services/services"
)

const jobTimeout = 2 * time.Minute

// StartCronJobs registers the reminder, expiry and rating jobs and starts
// the scheduler. The caller stops it with Stop.
func StartCronJobs(cfg config.Config, svc services.IServiceManager, log logger.ILogger) (*cron.Cron, error) {
	c := cron.New()

	jobs := []struct {
		name string
		spec string
		run  func(ctx context.Context) (int, error)
	}{
		{"booking reminders", cfg.ReminderCron, func(ctx context.Context) (int, error) {
			return svc.Booking().SendReminders(ctx, time.Now())
		}},
		{"booking expiry", cfg.ExpiryCron, func(ctx context.Context) (int, error) {
			return svc.Booking().ExpireStale(ctx, time.Now())
		}},
		{"rating recompute", cfg.RatingCron, svc.Review().RecomputeRatings},
	}

	for _, job := range jobs {
		job := job
		if _, err := c.AddFunc(job.spec, func() { runJob(log, job.name, job.run) }); err != nil {
			return nil, fmt.Errorf("schedule %s %q: %w", job.name, job.spec, err)
		}
	}

	c.Start()
	log.Info("cron scheduler started", logger.Int("jobs", len(jobs)))
	return c, nil
}

func runJob(log logger.ILogger, name string, run func(ctx context.Context) (int, error)) {
	ctx, cancel := context.WithTimeout(context.Background(), jobTimeout)
	defer cancel()

	start := time.Now()
	n, err := run(ctx)
	if err != nil {
		log.Error("cron job failed", logger.String("job", name), logger.Error(err))
		return
	}
	if n > 0 {
		log.Info("cron job done", logger.String("job", name), logger.Int("processed", n), logger.Duration("took", time.Since(start)))
	}
}
