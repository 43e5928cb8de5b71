// Package scheduler runs the nightly badge sweep.
package scheduler

import (
	"context"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/skillforge-app/skillforge-backend/internal/config"
	"github.com/skillforge-app/skillforge-backend/internal/service/gamification"
	"github.com/skillforge-app/skillforge-backend/pkg/logger"
)

// Service schedules periodic badge re-evaluation. The sweep is a
// safety net: badges are normally granted synchronously on XP awards,
// and re-running evaluation is idempotent.
type Service struct {
	config *config.SchedulerConfig
	engine *gamification.Service
	log    *logger.Logger
	cron   *cron.Cron
}

// NewService creates a scheduler service.
func NewService(cfg *config.SchedulerConfig, engine *gamification.Service, log *logger.Logger) *Service {
	return &Service{config: cfg, engine: engine, log: log}
}

// Start registers and starts the cron jobs. A disabled scheduler is a
// no-op.
func (s *Service) Start() error {
	if !s.config.Enabled {
		s.log.Info().Msg("Scheduler is disabled in configuration")
		return nil
	}

	location, err := time.LoadLocation(s.config.Timezone)
	if err != nil {
		return fmt.Errorf("invalid timezone %q: %w", s.config.Timezone, err)
	}

	s.cron = cron.New(cron.WithLocation(location))
	_, err = s.cron.AddFunc(s.config.BadgeSweepCron, func() {
		s.runBadgeSweep(context.Background())
	})
	if err != nil {
		return fmt.Errorf("failed to register badge sweep job: %w", err)
	}

	s.cron.Start()
	s.log.Info().
		Str("schedule", s.config.BadgeSweepCron).
		Str("timezone", s.config.Timezone).
		Msg("Badge sweep scheduled")
	return nil
}

// Stop stops the cron scheduler, waiting for a running job to finish.
func (s *Service) Stop() {
	if s.cron != nil {
		<-s.cron.Stop().Done()
	}
}

func (s *Service) runBadgeSweep(ctx context.Context) {
	start := time.Now()
	awarded, err := s.engine.EvaluateAllBadges(ctx)
	if err != nil {
		s.log.Error().Err(err).Msg("Badge sweep failed")
		return
	}
	s.log.Info().
		Int("badges_awarded", awarded).
		Dur("duration", time.Since(start)).
		Msg("Badge sweep finished")
}
