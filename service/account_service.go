package service

import (
	"context"
	"fmt"
	"time"

	"packbot/events"
	"packbot/models"
)

type accountService struct {
	uowFactory UnitOfWorkFactory
	now        func() time.Time
}

// NewAccountService creates a new account service
func NewAccountService(uowFactory UnitOfWorkFactory) AccountService {
	return &accountService{
		uowFactory: uowFactory,
		now:        time.Now,
	}
}

func (s *accountService) GetAccount(ctx context.Context, discordID int64) (*models.Account, error) {
	uow := s.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer uow.Rollback() // No-op if already committed

	account, err := uow.AccountRepository().GetByDiscordID(ctx, discordID)
	if err != nil {
		return nil, fmt.Errorf("failed to get account: %w", err)
	}

	if err := uow.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit transaction: %w", err)
	}

	return account, nil
}

func (s *accountService) ClaimDaily(ctx context.Context, discordID int64) (int64, error) {
	uow := s.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return 0, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer uow.Rollback() // No-op if already committed

	account, err := uow.AccountRepository().GetByDiscordID(ctx, discordID)
	if err != nil {
		return 0, fmt.Errorf("failed to get account: %w", err)
	}

	now := s.now()
	if account.LastDailyClaim != nil {
		elapsed := now.Sub(*account.LastDailyClaim)
		if elapsed < DailyCooldown {
			return 0, &CooldownError{Remaining: DailyCooldown - elapsed}
		}
	}

	newBalance, err := uow.AccountRepository().AddBalance(ctx, discordID, DailyReward)
	if err != nil {
		return 0, fmt.Errorf("failed to grant daily reward: %w", err)
	}

	if err := uow.AccountRepository().SetLastDailyClaim(ctx, discordID, now); err != nil {
		return 0, fmt.Errorf("failed to stamp daily claim: %w", err)
	}

	uow.EventBus().Publish(events.BalanceChangeEvent{
		DiscordID:    discordID,
		ChangeAmount: DailyReward,
		NewBalance:   newBalance,
		Reason:       "daily_claim",
	})

	if err := uow.Commit(); err != nil {
		return 0, fmt.Errorf("failed to commit transaction: %w", err)
	}

	return newBalance, nil
}

func (s *accountService) GrantCoins(ctx context.Context, discordID int64, amount int64, reason string) (int64, error) {
	if amount <= 0 {
		return 0, fmt.Errorf("amount must be positive")
	}

	uow := s.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return 0, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer uow.Rollback() // No-op if already committed

	newBalance, err := uow.AccountRepository().AddBalance(ctx, discordID, amount)
	if err != nil {
		return 0, fmt.Errorf("failed to grant coins: %w", err)
	}

	uow.EventBus().Publish(events.BalanceChangeEvent{
		DiscordID:    discordID,
		ChangeAmount: amount,
		NewBalance:   newBalance,
		Reason:       reason,
	})

	if err := uow.Commit(); err != nil {
		return 0, fmt.Errorf("failed to commit transaction: %w", err)
	}

	return newBalance, nil
}
