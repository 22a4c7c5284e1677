package app

import (
	"context"
	"time"

	"github.com/robfig/cron/v3"
)

// refreshSchedule runs the market cache refresh daily after US close (UTC).
const refreshSchedule = "30 21 * * *"

// scheduler owns the application's background cron jobs
type scheduler struct {
	app  *App
	cron *cron.Cron
}

func newScheduler(a *App) *scheduler {
	return &scheduler{
		app:  a,
		cron: cron.New(),
	}
}

// start registers and launches the background jobs
func (s *scheduler) start() {
	s.cron.AddFunc(refreshSchedule, s.refreshMarketData)
	s.cron.Start()
	s.app.Logger.Info().Str("schedule", refreshSchedule).Msg("Scheduler started")
}

// stop halts the cron runner and waits for running jobs to finish
func (s *scheduler) stop() {
	ctx := s.cron.Stop()
	select {
	case <-ctx.Done():
	case <-time.After(30 * time.Second):
		s.app.Logger.Warn().Msg("Timed out waiting for scheduled jobs to finish")
	}
}

// refreshMarketData re-fetches all cached price histories
func (s *scheduler) refreshMarketData() {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Minute)
	defer cancel()

	s.app.Logger.Info().Msg("Starting scheduled market data refresh")
	if err := s.app.Market.RefreshCached(ctx); err != nil {
		s.app.Logger.Error().Err(err).Msg("Scheduled market data refresh failed")
		return
	}
	s.app.Logger.Info().Msg("Scheduled market data refresh complete")
}
