package repository

import (
	"context"
	"fmt"
	"time"

	"packbot/database"
	"packbot/models"

	"github.com/jackc/pgx/v5"
)

// AccountRepository implements the AccountRepository interface
type AccountRepository struct {
	q queryable
}

// NewAccountRepository creates a new account repository
func NewAccountRepository(db *database.DB) *AccountRepository {
	return &AccountRepository{q: db.Pool}
}

// newAccountRepositoryWithTx creates a new account repository with a transaction
func newAccountRepositoryWithTx(tx queryable) *AccountRepository {
	return &AccountRepository{q: tx}
}

// GetByDiscordID retrieves an account by Discord ID. An account that has
// never been written returns as a zero-valued account rather than an
// error, so read paths never create rows.
func (r *AccountRepository) GetByDiscordID(ctx context.Context, discordID int64) (*models.Account, error) {
	query := `
		SELECT discord_id, balance, total_spent, wins, last_daily_claim, created_at, updated_at
		FROM accounts
		WHERE discord_id = $1
	`

	var account models.Account
	err := r.q.QueryRow(ctx, query, discordID).Scan(
		&account.DiscordID,
		&account.Balance,
		&account.TotalSpent,
		&account.Wins,
		&account.LastDailyClaim,
		&account.CreatedAt,
		&account.UpdatedAt,
	)

	if err == pgx.ErrNoRows {
		return &models.Account{DiscordID: discordID}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get account for discord ID %d: %w", discordID, err)
	}

	return &account, nil
}

// AddBalance credits an account atomically, creating the row on first
// write. Returns the new balance.
func (r *AccountRepository) AddBalance(ctx context.Context, discordID int64, amount int64) (int64, error) {
	if amount <= 0 {
		return 0, fmt.Errorf("amount must be positive")
	}

	query := `
		INSERT INTO accounts (discord_id, balance)
		VALUES ($1, $2)
		ON CONFLICT (discord_id) DO UPDATE
		SET balance = accounts.balance + EXCLUDED.balance, updated_at = NOW()
		RETURNING balance
	`

	var newBalance int64
	err := r.q.QueryRow(ctx, query, discordID, amount).Scan(&newBalance)
	if err != nil {
		return 0, fmt.Errorf("failed to add balance for account %d: %w", discordID, err)
	}

	return newBalance, nil
}

// TryDeduct debits an account atomically. Returns false without error
// when the balance is insufficient or the account has never been funded.
func (r *AccountRepository) TryDeduct(ctx context.Context, discordID int64, amount int64) (bool, error) {
	if amount <= 0 {
		return false, fmt.Errorf("amount must be positive")
	}

	query := `
		UPDATE accounts
		SET balance = balance - $1, updated_at = NOW()
		WHERE discord_id = $2 AND balance >= $1
	`

	result, err := r.q.Exec(ctx, query, amount, discordID)
	if err != nil {
		return false, fmt.Errorf("failed to deduct balance for account %d: %w", discordID, err)
	}

	return result.RowsAffected() > 0, nil
}

// RecordSpend adds to an account's lifetime spend counter.
func (r *AccountRepository) RecordSpend(ctx context.Context, discordID int64, amount int64) error {
	if amount <= 0 {
		return fmt.Errorf("amount must be positive")
	}

	query := `
		INSERT INTO accounts (discord_id, total_spent)
		VALUES ($1, $2)
		ON CONFLICT (discord_id) DO UPDATE
		SET total_spent = accounts.total_spent + EXCLUDED.total_spent, updated_at = NOW()
	`

	if _, err := r.q.Exec(ctx, query, discordID, amount); err != nil {
		return fmt.Errorf("failed to record spend for account %d: %w", discordID, err)
	}

	return nil
}

// SetLastDailyClaim stamps the account's daily claim time.
func (r *AccountRepository) SetLastDailyClaim(ctx context.Context, discordID int64, claimedAt time.Time) error {
	query := `
		INSERT INTO accounts (discord_id, last_daily_claim)
		VALUES ($1, $2)
		ON CONFLICT (discord_id) DO UPDATE
		SET last_daily_claim = EXCLUDED.last_daily_claim, updated_at = NOW()
	`

	if _, err := r.q.Exec(ctx, query, discordID, claimedAt); err != nil {
		return fmt.Errorf("failed to set daily claim for account %d: %w", discordID, err)
	}

	return nil
}

// IncrementWins adds one to the account's duel win counter.
func (r *AccountRepository) IncrementWins(ctx context.Context, discordID int64) error {
	query := `
		INSERT INTO accounts (discord_id, wins)
		VALUES ($1, 1)
		ON CONFLICT (discord_id) DO UPDATE
		SET wins = accounts.wins + 1, updated_at = NOW()
	`

	if _, err := r.q.Exec(ctx, query, discordID); err != nil {
		return fmt.Errorf("failed to increment wins for account %d: %w", discordID, err)
	}

	return nil
}

// TopByBalance returns the richest accounts, highest balance first.
// Ties break on Discord ID so the ordering is stable.
func (r *AccountRepository) TopByBalance(ctx context.Context, limit int) ([]*models.Account, error) {
	query := `
		SELECT discord_id, balance, total_spent, wins, last_daily_claim, created_at, updated_at
		FROM accounts
		ORDER BY balance DESC, discord_id ASC
		LIMIT $1
	`

	rows, err := r.q.Query(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to get top accounts: %w", err)
	}
	defer rows.Close()

	var accounts []*models.Account
	for rows.Next() {
		var account models.Account
		err := rows.Scan(
			&account.DiscordID,
			&account.Balance,
			&account.TotalSpent,
			&account.Wins,
			&account.LastDailyClaim,
			&account.CreatedAt,
			&account.UpdatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan account: %w", err)
		}
		accounts = append(accounts, &account)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate accounts: %w", err)
	}

	return accounts, nil
}
