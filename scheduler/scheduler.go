package scheduler

import (
	"context"
	"fmt"

	"packbot/service"

	"github.com/robfig/cron/v3"
	log "github.com/sirupsen/logrus"
)

// Scheduler drives the periodic presence reward sweep.
type Scheduler struct {
	cron    *cron.Cron
	rewards service.RewardService
}

// New creates a scheduler around the reward service.
func New(rewards service.RewardService) *Scheduler {
	return &Scheduler{
		cron:    cron.New(cron.WithSeconds()),
		rewards: rewards,
	}
}

// Start registers the sweep at the top of every minute and begins
// running. The sweep itself decides which members have matured.
func (s *Scheduler) Start(ctx context.Context) error {
	_, err := s.cron.AddFunc("0 * * * * *", func() {
		if err := s.rewards.RunOnce(ctx); err != nil {
			log.WithError(err).Error("Presence reward sweep failed")
		}
	})
	if err != nil {
		return fmt.Errorf("failed to schedule reward sweep: %w", err)
	}

	s.cron.Start()
	log.Info("Reward scheduler started")
	return nil
}

// Stop halts the cron loop and waits for a running sweep to finish.
func (s *Scheduler) Stop() {
	stopCtx := s.cron.Stop()
	<-stopCtx.Done()
	log.Info("Reward scheduler stopped")
}
