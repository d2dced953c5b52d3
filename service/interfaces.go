package service

import (
	"context"
	"time"

	"packbot/events"
	"packbot/models"
)

// AccountRepository defines the interface for account data access
type AccountRepository interface {
	// GetByDiscordID retrieves an account, returning a zero-valued
	// account (never nil) for Discord IDs that have no row yet
	GetByDiscordID(ctx context.Context, discordID int64) (*models.Account, error)

	// AddBalance credits an account atomically and returns the new balance
	AddBalance(ctx context.Context, discordID int64, amount int64) (int64, error)

	// TryDeduct debits an account atomically; returns false when the
	// balance is insufficient
	TryDeduct(ctx context.Context, discordID int64, amount int64) (bool, error)

	// RecordSpend adds to an account's lifetime spend counter
	RecordSpend(ctx context.Context, discordID int64, amount int64) error

	// SetLastDailyClaim stamps the account's daily claim time
	SetLastDailyClaim(ctx context.Context, discordID int64, claimedAt time.Time) error

	// IncrementWins adds one to the account's duel win counter
	IncrementWins(ctx context.Context, discordID int64) error

	// TopByBalance returns the richest accounts, highest first
	TopByBalance(ctx context.Context, limit int) ([]*models.Account, error)
}

// CardRepository defines the interface for owned card data access
type CardRepository interface {
	// GetByOwner returns all of an owner's cards in acquisition order
	GetByOwner(ctx context.Context, discordID int64) ([]*models.OwnedCard, error)

	// GetByOwnerAndRarity returns an owner's cards of one rarity in
	// acquisition order
	GetByOwnerAndRarity(ctx context.Context, discordID int64, rarity models.Rarity) ([]*models.OwnedCard, error)

	// Append inserts a card at the end of the owner's collection
	Append(ctx context.Context, card *models.OwnedCard) error

	// RemoveOne deletes a single copy matching the card's full value
	// tuple, oldest first; returns false when no copy exists
	RemoveOne(ctx context.Context, card *models.OwnedCard) (bool, error)

	// RemoveByID deletes a specific card instance
	RemoveByID(ctx context.Context, discordID int64, cardID int64) (bool, error)

	// HasExact reports whether the owner holds a card matching the full
	// value tuple
	HasExact(ctx context.Context, card *models.OwnedCard) (bool, error)

	// HasNameRarity reports whether the owner holds any card with the
	// given name and rarity
	HasNameRarity(ctx context.Context, discordID int64, name string, rarity models.Rarity) (bool, error)
}

// PresenceRepository defines the interface for guild presence tracking
type PresenceRepository interface {
	// Track records a member joining a guild, restarting the accrual clock
	Track(ctx context.Context, guildID, discordID int64, joinedAt time.Time) error

	// EnsureTracked records a member without touching an existing clock
	EnsureTracked(ctx context.Context, guildID, discordID int64, joinedAt time.Time) error

	// GetDueBefore returns members whose clock started at or before cutoff
	GetDueBefore(ctx context.Context, cutoff time.Time) ([]*models.PresenceRecord, error)

	// ResetClock restarts a member's accrual clock
	ResetClock(ctx context.Context, guildID, discordID int64, at time.Time) error

	// Remove stops tracking a member
	Remove(ctx context.Context, guildID, discordID int64) error

	// RemoveGuild stops tracking every member of a guild
	RemoveGuild(ctx context.Context, guildID int64) error
}

// AccountService defines the interface for account operations
type AccountService interface {
	// GetAccount returns an account snapshot; unknown IDs come back zero-valued
	GetAccount(ctx context.Context, discordID int64) (*models.Account, error)

	// ClaimDaily grants the daily reward, enforcing the cooldown
	ClaimDaily(ctx context.Context, discordID int64) (newBalance int64, err error)

	// GrantCoins credits an account outside of any purchase flow
	GrantCoins(ctx context.Context, discordID int64, amount int64, reason string) (int64, error)
}

// PackService defines the interface for pack opening
type PackService interface {
	// OpenPack charges the pack price, draws one card and resolves
	// duplicates into the consolation bonus
	OpenPack(ctx context.Context, discordID int64) (*models.PackResult, error)
}

// FusionService defines the interface for card fusion
type FusionService interface {
	// Fuse consumes two cards of the given rarity and attempts to
	// produce one card of the next rarity up
	Fuse(ctx context.Context, discordID int64, rarity models.Rarity) (*models.FusionResult, error)
}

// DuelService defines the interface for duel operations
type DuelService interface {
	// Challenge registers a pending duel from challenger to challenged,
	// replacing any prior unaccepted challenge aimed at the same member
	Challenge(ctx context.Context, challengerID, challengedID int64, challengedIsBot bool) error

	// Accept resolves the pending duel against the accepter, verifying
	// the claimed challenger matches the pending entry
	Accept(ctx context.Context, accepterID, claimedChallengerID int64) (*models.DuelResult, error)

	// PendingChallenger returns the challenger waiting on this member,
	// if any
	PendingChallenger(accepterID int64) (int64, bool)
}

// RewardService defines the interface for passive presence rewards
type RewardService interface {
	// RunOnce pays every member whose presence has matured and restarts
	// their clocks
	RunOnce(ctx context.Context) error

	// BackfillGuild starts tracking members already present in a guild
	BackfillGuild(ctx context.Context, guildID int64, memberIDs []int64) error

	// TrackJoin starts tracking a member who just joined
	TrackJoin(ctx context.Context, guildID, discordID int64) error

	// TrackLeave stops tracking a member who left
	TrackLeave(ctx context.Context, guildID, discordID int64) error

	// UntrackGuild stops tracking a guild the bot left
	UntrackGuild(ctx context.Context, guildID int64) error
}

// StatsService defines the interface for statistics and collection queries
type StatsService interface {
	// GetCollection returns a member's cards with per-name copy counts
	GetCollection(ctx context.Context, discordID int64) (*models.Collection, error)

	// GetWins returns a member's duel win count
	GetWins(ctx context.Context, discordID int64) (int64, error)

	// GetRanking returns the balance leaderboard
	GetRanking(ctx context.Context, limit int) ([]*models.RankingEntry, error)
}

// GuildRoster answers membership questions against the live guild state.
// The bot layer implements this over the Discord session.
type GuildRoster interface {
	// IsMember reports whether the member is currently in the guild
	IsMember(guildID, discordID int64) (bool, error)

	// GuildExists reports whether the guild is still resolvable
	GuildExists(guildID int64) bool
}

// EventPublisher defines the interface for publishing events
type EventPublisher interface {
	Publish(event events.Event)
}

// UnitOfWork defines the interface for transactional repository operations
type UnitOfWork interface {
	// Begin starts a new transaction
	Begin(ctx context.Context) error

	// Commit commits the transaction
	Commit() error

	// Rollback rolls back the transaction
	Rollback() error

	// Repository getters
	AccountRepository() AccountRepository
	CardRepository() CardRepository
	PresenceRepository() PresenceRepository
	EventBus() EventPublisher
}

// UnitOfWorkFactory defines the interface for creating UnitOfWork instances
type UnitOfWorkFactory interface {
	// Create creates a new UnitOfWork instance
	Create() UnitOfWork
}
