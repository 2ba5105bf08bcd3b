package usecase

import (
	"context"
	"log/slog"
	"time"

	"DevBlogProxy/internal/ports"
)

// Scheduler wires the ticking driver with the mapping generator.
type Scheduler struct {
	driver    ports.Scheduler
	generator *MappingGenerator
	logger    *slog.Logger
}

// NewScheduler returns a helper to start/stop the periodic mapping refresh.
func NewScheduler(driver ports.Scheduler, generator *MappingGenerator, logger *slog.Logger) *Scheduler {
	return &Scheduler{driver: driver, generator: generator, logger: logger}
}

// Start registers the generator with the provided driver.
func (s *Scheduler) Start(ctx context.Context) error {
	if s.driver == nil || s.generator == nil {
		return nil
	}

	job := func(trigger time.Time) {
		report, err := s.generator.Generate(ctx)
		if s.logger == nil {
			return
		}
		if err != nil {
			s.logger.Error("mapping refresh failed", "trigger", trigger.Format(time.RFC3339), "error", err)
			return
		}
		s.logger.Info("mapping refreshed", "pages", report.Pages, "total_articles", report.TotalArticles)
	}

	return s.driver.Start(ctx, job)
}

// Stop gracefully tears down the underlying driver.
func (s *Scheduler) Stop(ctx context.Context) error {
	if s.driver == nil {
		return nil
	}

	return s.driver.Stop(ctx)
}
