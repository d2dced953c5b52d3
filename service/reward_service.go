package service

import (
	"context"
	"fmt"
	"time"

	"packbot/events"

	log "github.com/sirupsen/logrus"
)

type rewardService struct {
	uowFactory UnitOfWorkFactory
	roster     GuildRoster
	now        func() time.Time
}

// NewRewardService creates a new presence reward service
func NewRewardService(uowFactory UnitOfWorkFactory, roster GuildRoster) RewardService {
	return &rewardService{
		uowFactory: uowFactory,
		roster:     roster,
		now:        time.Now,
	}
}

// RunOnce pays every tracked member whose presence clock has matured.
// Each record is settled in its own transaction so one bad row never
// blocks the rest of the sweep.
func (s *rewardService) RunOnce(ctx context.Context) error {
	now := s.now()
	cutoff := now.Add(-PresenceThreshold)

	uow := s.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	due, err := uow.PresenceRepository().GetDueBefore(ctx, cutoff)
	if err != nil {
		uow.Rollback()
		return fmt.Errorf("failed to get due presence records: %w", err)
	}
	if err := uow.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	for _, record := range due {
		if err := s.settle(ctx, record.GuildID, record.DiscordID, now); err != nil {
			log.WithFields(log.Fields{
				"guildID":   record.GuildID,
				"discordID": record.DiscordID,
				"error":     err,
			}).Error("Failed to settle presence reward")
		}
	}

	return nil
}

func (s *rewardService) settle(ctx context.Context, guildID, discordID int64, now time.Time) error {
	uow := s.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer uow.Rollback() // No-op if already committed

	if !s.roster.GuildExists(guildID) {
		// The guild is gone; drop everything we were tracking for it.
		if err := uow.PresenceRepository().RemoveGuild(ctx, guildID); err != nil {
			return err
		}
		return uow.Commit()
	}

	member, err := s.roster.IsMember(guildID, discordID)
	if err != nil {
		return fmt.Errorf("failed to check membership: %w", err)
	}
	if !member {
		if err := uow.PresenceRepository().Remove(ctx, guildID, discordID); err != nil {
			return err
		}
		return uow.Commit()
	}

	newBalance, err := uow.AccountRepository().AddBalance(ctx, discordID, PresenceReward)
	if err != nil {
		return fmt.Errorf("failed to credit presence reward: %w", err)
	}

	if err := uow.PresenceRepository().ResetClock(ctx, guildID, discordID, now); err != nil {
		return fmt.Errorf("failed to reset presence clock: %w", err)
	}

	uow.EventBus().Publish(events.BalanceChangeEvent{
		DiscordID:    discordID,
		ChangeAmount: PresenceReward,
		NewBalance:   newBalance,
		Reason:       "presence_reward",
	})
	uow.EventBus().Publish(events.CoinsAwardedEvent{
		DiscordID: discordID,
		GuildID:   guildID,
		Amount:    PresenceReward,
	})

	if err := uow.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	return nil
}

func (s *rewardService) BackfillGuild(ctx context.Context, guildID int64, memberIDs []int64) error {
	uow := s.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer uow.Rollback() // No-op if already committed

	now := s.now()
	for _, discordID := range memberIDs {
		if err := uow.PresenceRepository().EnsureTracked(ctx, guildID, discordID, now); err != nil {
			return fmt.Errorf("failed to backfill member %d: %w", discordID, err)
		}
	}

	if err := uow.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	return nil
}

func (s *rewardService) TrackJoin(ctx context.Context, guildID, discordID int64) error {
	uow := s.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer uow.Rollback() // No-op if already committed

	if err := uow.PresenceRepository().Track(ctx, guildID, discordID, s.now()); err != nil {
		return err
	}

	return uow.Commit()
}

func (s *rewardService) TrackLeave(ctx context.Context, guildID, discordID int64) error {
	uow := s.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer uow.Rollback() // No-op if already committed

	if err := uow.PresenceRepository().Remove(ctx, guildID, discordID); err != nil {
		return err
	}

	return uow.Commit()
}

func (s *rewardService) UntrackGuild(ctx context.Context, guildID int64) error {
	uow := s.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer uow.Rollback() // No-op if already committed

	if err := uow.PresenceRepository().RemoveGuild(ctx, guildID); err != nil {
		return err
	}

	return uow.Commit()
}
