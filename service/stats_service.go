package service

import (
	"context"
	"fmt"

	"packbot/models"
)

// statsService implements the StatsService interface
type statsService struct {
	uowFactory UnitOfWorkFactory
}

// NewStatsService creates a new stats service
func NewStatsService(uowFactory UnitOfWorkFactory) StatsService {
	return &statsService{
		uowFactory: uowFactory,
	}
}

// GetCollection returns a member's cards in acquisition order along with
// per-name copy counts.
func (s *statsService) GetCollection(ctx context.Context, discordID int64) (*models.Collection, error) {
	uow := s.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer uow.Rollback() // No-op if already committed

	cards, err := uow.CardRepository().GetByOwner(ctx, discordID)
	if err != nil {
		return nil, fmt.Errorf("failed to get collection: %w", err)
	}

	if err := uow.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit transaction: %w", err)
	}

	counts := make(map[string]int, len(cards))
	for _, card := range cards {
		counts[card.Name]++
	}

	return &models.Collection{Cards: cards, Counts: counts}, nil
}

// GetWins returns a member's duel win count.
func (s *statsService) GetWins(ctx context.Context, discordID int64) (int64, error) {
	uow := s.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return 0, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer uow.Rollback() // No-op if already committed

	account, err := uow.AccountRepository().GetByDiscordID(ctx, discordID)
	if err != nil {
		return 0, fmt.Errorf("failed to get account: %w", err)
	}

	if err := uow.Commit(); err != nil {
		return 0, fmt.Errorf("failed to commit transaction: %w", err)
	}

	return account.Wins, nil
}

// GetRanking returns the balance leaderboard, richest first.
func (s *statsService) GetRanking(ctx context.Context, limit int) ([]*models.RankingEntry, error) {
	if limit <= 0 {
		return nil, fmt.Errorf("limit must be positive")
	}

	uow := s.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer uow.Rollback() // No-op if already committed

	accounts, err := uow.AccountRepository().TopByBalance(ctx, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to get top accounts: %w", err)
	}

	if err := uow.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit transaction: %w", err)
	}

	entries := make([]*models.RankingEntry, 0, len(accounts))
	for i, account := range accounts {
		entries = append(entries, &models.RankingEntry{
			Rank:      i + 1,
			DiscordID: account.DiscordID,
			Balance:   account.Balance,
			Wins:      account.Wins,
		})
	}

	return entries, nil
}
