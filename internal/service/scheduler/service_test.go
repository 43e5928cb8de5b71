package scheduler

import (
	"testing"

	"github.com/skillforge-app/skillforge-backend/internal/config"
	"github.com/skillforge-app/skillforge-backend/pkg/logger"
)

func TestStart_Disabled(t *testing.T) {
	cfg := &config.SchedulerConfig{Enabled: false}
	service := NewService(cfg, nil, logger.Nop())

	if err := service.Start(); err != nil {
		t.Fatalf("Start() with disabled scheduler failed: %v", err)
	}
	if service.cron != nil {
		t.Error("Expected no cron instance when disabled")
	}

	// Stop on a never-started scheduler is a no-op.
	service.Stop()
}

func TestStart_InvalidTimezone(t *testing.T) {
	cfg := &config.SchedulerConfig{
		Enabled:        true,
		BadgeSweepCron: "0 3 * * *",
		Timezone:       "Atlantis/Sunken",
	}
	service := NewService(cfg, nil, logger.Nop())

	if err := service.Start(); err == nil {
		t.Error("Expected error for invalid timezone")
	}
}

func TestStart_InvalidCronSpec(t *testing.T) {
	cfg := &config.SchedulerConfig{
		Enabled:        true,
		BadgeSweepCron: "not a cron spec",
		Timezone:       "UTC",
	}
	service := NewService(cfg, nil, logger.Nop())

	if err := service.Start(); err == nil {
		t.Error("Expected error for invalid cron spec")
	}
}

func TestStartStop(t *testing.T) {
	cfg := &config.SchedulerConfig{
		Enabled:        true,
		BadgeSweepCron: "0 3 * * *",
		Timezone:       "UTC",
	}
	service := NewService(cfg, nil, logger.Nop())

	if err := service.Start(); err != nil {
		t.Fatalf("Start() failed: %v", err)
	}
	service.Stop()
}
