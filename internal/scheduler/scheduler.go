// Package scheduler runs the recurring market jobs: a premarket warmup, an
// hourly news refresh, and a post-close screener pass.
package scheduler

import (
	"context"
	"fmt"

	"github.com/robfig/cron/v3"

	"github.com/ordonezjosue/stock-screener/internal/config"
	"github.com/ordonezjosue/stock-screener/internal/logger"
	"github.com/ordonezjosue/stock-screener/internal/news"
	"github.com/ordonezjosue/stock-screener/internal/options"
	"github.com/ordonezjosue/stock-screener/internal/quotes"
	"github.com/ordonezjosue/stock-screener/internal/types"
)

// Services are the components the jobs drive.
type Services struct {
	Quotes  *quotes.Service
	News    *news.Aggregator
	Options *options.Service
}

// Scheduler owns the cron runner.
type Scheduler struct {
	cron     *cron.Cron
	schedule config.ScheduleConfig
	services Services
	criteria types.ScreeningCriteria
	universe []string
}

// New creates a scheduler for the given schedule and services.
func New(cfg *config.Config, services Services) *Scheduler {
	return &Scheduler{
		cron:     cron.New(),
		schedule: cfg.Schedule,
		services: services,
		criteria: cfg.Screener.Criteria,
		universe: cfg.Universe,
	}
}

// Start registers the jobs and starts the cron runner.
func (s *Scheduler) Start() error {
	jobs := []struct {
		name string
		spec string
		run  func(context.Context)
	}{
		{"premarket", s.schedule.Premarket, s.premarket},
		{"hourly", s.schedule.Hourly, s.hourly},
		{"postclose", s.schedule.Postclose, s.postclose},
	}

	for _, job := range jobs {
		job := job
		_, err := s.cron.AddFunc(job.spec, func() {
			ctx, span := logger.StartSpan(context.Background(), "job."+job.name)
			defer span.End()
			job.run(ctx)
		})
		if err != nil {
			return fmt.Errorf("register %s job (%q): %w", job.name, job.spec, err)
		}
	}

	s.cron.Start()
	logger.Info(context.Background(), "Scheduler started",
		"premarket", s.schedule.Premarket,
		"hourly", s.schedule.Hourly,
		"postclose", s.schedule.Postclose)
	return nil
}

// Stop halts the cron runner and waits for running jobs to finish.
func (s *Scheduler) Stop() {
	ctx := s.cron.Stop()
	<-ctx.Done()
	logger.Info(context.Background(), "Scheduler stopped")
}

// premarket warms the caches: market snapshot plus a full news pass.
func (s *Scheduler) premarket(ctx context.Context) {
	snapshot := s.services.Quotes.GetMarketSnapshot(ctx)
	logger.Info(ctx, "Premarket snapshot",
		"spy", snapshot.SPY.Price,
		"vix", snapshot.VIX.Price,
		"advancing", snapshot.AdvanceDecline.Advancing,
		"declining", snapshot.AdvanceDecline.Declining)

	s.refreshNews(ctx)
}

// hourly refreshes news during market hours.
func (s *Scheduler) hourly(ctx context.Context) {
	s.refreshNews(ctx)
}

// postclose runs the screener over the configured universe.
func (s *Scheduler) postclose(ctx context.Context) {
	results, err := s.services.Options.RunScreener(ctx, s.criteria, s.universe)
	if err != nil {
		logger.ErrorWithErr(ctx, "Post-close screener failed", err)
		return
	}
	logger.Info(ctx, "Post-close screener complete", "results", len(results))
}

func (s *Scheduler) refreshNews(ctx context.Context) {
	items, err := s.services.News.FetchAll(ctx)
	if err != nil {
		logger.Warn(ctx, "News refresh finished with source failures", "error", err)
	}
	logger.Info(ctx, "News refreshed", "items", len(items))
}
