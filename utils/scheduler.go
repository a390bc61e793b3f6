package utils

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/go-co-op/gocron"
)

const nightlyJobTimeout = 2 * time.Minute

// ScheduleNightly runs job once a day at the given "HH:MM" in loc. The
// scheduler is returned started; callers stop it on shutdown.
func ScheduleNightly(loc *time.Location, at string, name string, job func(ctx context.Context)) (*gocron.Scheduler, error) {
	s := gocron.NewScheduler(loc)
	s.SingletonModeAll()
	_, err := s.Every(1).Day().At(at).Do(func() {
		ctx, cancel := context.WithTimeout(context.Background(), nightlyJobTimeout)
		defer cancel()
		start := time.Now()
		slog.Info("nightly job started", "job", name)
		job(ctx)
		slog.Info("nightly job finished", "job", name, "took", time.Since(start))
	})
	if err != nil {
		return nil, fmt.Errorf("schedule %s at %q: %w", name, at, err)
	}
	s.StartAsync()
	return s, nil
}
