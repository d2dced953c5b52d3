package repository

import (
	"context"
	"fmt"
	"time"

	"packbot/database"
	"packbot/models"
)

// PresenceRepository implements the PresenceRepository interface
type PresenceRepository struct {
	q queryable
}

// NewPresenceRepository creates a new presence repository
func NewPresenceRepository(db *database.DB) *PresenceRepository {
	return &PresenceRepository{q: db.Pool}
}

// newPresenceRepositoryWithTx creates a new presence repository with a transaction
func newPresenceRepositoryWithTx(tx queryable) *PresenceRepository {
	return &PresenceRepository{q: tx}
}

// Track records a member joining a guild. A re-join restarts the accrual
// clock.
func (r *PresenceRepository) Track(ctx context.Context, guildID, discordID int64, joinedAt time.Time) error {
	query := `
		INSERT INTO guild_presence (guild_id, discord_id, joined_at)
		VALUES ($1, $2, $3)
		ON CONFLICT (guild_id, discord_id) DO UPDATE
		SET joined_at = EXCLUDED.joined_at
	`

	if _, err := r.q.Exec(ctx, query, guildID, discordID, joinedAt); err != nil {
		return fmt.Errorf("failed to track presence for member %d in guild %d: %w", discordID, guildID, err)
	}

	return nil
}

// EnsureTracked records a member without touching an existing accrual
// clock. Used when backfilling members already present at startup.
func (r *PresenceRepository) EnsureTracked(ctx context.Context, guildID, discordID int64, joinedAt time.Time) error {
	query := `
		INSERT INTO guild_presence (guild_id, discord_id, joined_at)
		VALUES ($1, $2, $3)
		ON CONFLICT (guild_id, discord_id) DO NOTHING
	`

	if _, err := r.q.Exec(ctx, query, guildID, discordID, joinedAt); err != nil {
		return fmt.Errorf("failed to ensure presence for member %d in guild %d: %w", discordID, guildID, err)
	}

	return nil
}

// GetDueBefore returns every tracked member whose accrual clock started
// at or before the cutoff.
func (r *PresenceRepository) GetDueBefore(ctx context.Context, cutoff time.Time) ([]*models.PresenceRecord, error) {
	query := `
		SELECT guild_id, discord_id, joined_at
		FROM guild_presence
		WHERE joined_at <= $1
		ORDER BY guild_id, discord_id
	`

	rows, err := r.q.Query(ctx, query, cutoff)
	if err != nil {
		return nil, fmt.Errorf("failed to get due presence records: %w", err)
	}
	defer rows.Close()

	var records []*models.PresenceRecord
	for rows.Next() {
		var record models.PresenceRecord
		if err := rows.Scan(&record.GuildID, &record.DiscordID, &record.JoinedAt); err != nil {
			return nil, fmt.Errorf("failed to scan presence record: %w", err)
		}
		records = append(records, &record)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate presence records: %w", err)
	}

	return records, nil
}

// ResetClock restarts a member's accrual clock after a reward is paid.
func (r *PresenceRepository) ResetClock(ctx context.Context, guildID, discordID int64, at time.Time) error {
	query := `
		UPDATE guild_presence
		SET joined_at = $3
		WHERE guild_id = $1 AND discord_id = $2
	`

	if _, err := r.q.Exec(ctx, query, guildID, discordID, at); err != nil {
		return fmt.Errorf("failed to reset presence clock for member %d in guild %d: %w", discordID, guildID, err)
	}

	return nil
}

// Remove stops tracking a member who left the guild.
func (r *PresenceRepository) Remove(ctx context.Context, guildID, discordID int64) error {
	query := `DELETE FROM guild_presence WHERE guild_id = $1 AND discord_id = $2`

	if _, err := r.q.Exec(ctx, query, guildID, discordID); err != nil {
		return fmt.Errorf("failed to remove presence for member %d in guild %d: %w", discordID, guildID, err)
	}

	return nil
}

// RemoveGuild stops tracking every member of a guild the bot left.
func (r *PresenceRepository) RemoveGuild(ctx context.Context, guildID int64) error {
	query := `DELETE FROM guild_presence WHERE guild_id = $1`

	if _, err := r.q.Exec(ctx, query, guildID); err != nil {
		return fmt.Errorf("failed to remove presence records for guild %d: %w", guildID, err)
	}

	return nil
}
