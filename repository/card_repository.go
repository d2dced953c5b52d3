package repository

import (
	"context"
	"fmt"

	"packbot/database"
	"packbot/models"

	"github.com/jackc/pgx/v5"
)

// CardRepository implements the CardRepository interface
type CardRepository struct {
	q queryable
}

// NewCardRepository creates a new card repository
func NewCardRepository(db *database.DB) *CardRepository {
	return &CardRepository{q: db.Pool}
}

// newCardRepositoryWithTx creates a new card repository with a transaction
func newCardRepositoryWithTx(tx queryable) *CardRepository {
	return &CardRepository{q: tx}
}

// GetByOwner returns all cards held by an owner in acquisition order.
func (r *CardRepository) GetByOwner(ctx context.Context, discordID int64) ([]*models.OwnedCard, error) {
	query := `
		SELECT id, discord_id, name, image_ref, attack, life, rarity, created_at
		FROM owned_cards
		WHERE discord_id = $1
		ORDER BY id
	`

	rows, err := r.q.Query(ctx, query, discordID)
	if err != nil {
		return nil, fmt.Errorf("failed to get cards for owner %d: %w", discordID, err)
	}
	defer rows.Close()

	return scanCards(rows)
}

// GetByOwnerAndRarity returns an owner's cards of one rarity in
// acquisition order.
func (r *CardRepository) GetByOwnerAndRarity(ctx context.Context, discordID int64, rarity models.Rarity) ([]*models.OwnedCard, error) {
	query := `
		SELECT id, discord_id, name, image_ref, attack, life, rarity, created_at
		FROM owned_cards
		WHERE discord_id = $1 AND rarity = $2
		ORDER BY id
	`

	rows, err := r.q.Query(ctx, query, discordID, rarity)
	if err != nil {
		return nil, fmt.Errorf("failed to get %s cards for owner %d: %w", rarity, discordID, err)
	}
	defer rows.Close()

	return scanCards(rows)
}

// Append inserts a card at the end of the owner's collection and fills
// in the generated ID and creation time.
func (r *CardRepository) Append(ctx context.Context, card *models.OwnedCard) error {
	query := `
		INSERT INTO owned_cards (discord_id, name, image_ref, attack, life, rarity)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, created_at
	`

	err := r.q.QueryRow(ctx, query,
		card.DiscordID,
		card.Name,
		card.ImageRef,
		card.Attack,
		card.Life,
		card.Rarity,
	).Scan(&card.ID, &card.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to append card %q for owner %d: %w", card.Name, card.DiscordID, err)
	}

	return nil
}

// RemoveOne deletes a single copy matching the card's full value tuple,
// oldest copy first. Returns false when the owner holds no such card.
func (r *CardRepository) RemoveOne(ctx context.Context, card *models.OwnedCard) (bool, error) {
	query := `
		DELETE FROM owned_cards
		WHERE id = (
			SELECT id FROM owned_cards
			WHERE discord_id = $1 AND name = $2 AND image_ref = $3
			  AND attack = $4 AND life = $5 AND rarity = $6
			ORDER BY id
			LIMIT 1
		)
	`

	result, err := r.q.Exec(ctx, query,
		card.DiscordID,
		card.Name,
		card.ImageRef,
		card.Attack,
		card.Life,
		card.Rarity,
	)
	if err != nil {
		return false, fmt.Errorf("failed to remove card %q for owner %d: %w", card.Name, card.DiscordID, err)
	}

	return result.RowsAffected() > 0, nil
}

// RemoveByID deletes a specific card instance owned by the given owner.
// Returns false when the instance no longer exists.
func (r *CardRepository) RemoveByID(ctx context.Context, discordID int64, cardID int64) (bool, error) {
	query := `DELETE FROM owned_cards WHERE id = $1 AND discord_id = $2`

	result, err := r.q.Exec(ctx, query, cardID, discordID)
	if err != nil {
		return false, fmt.Errorf("failed to remove card %d for owner %d: %w", cardID, discordID, err)
	}

	return result.RowsAffected() > 0, nil
}

// HasExact reports whether the owner already holds a card matching the
// full value tuple. Used for pack duplicate detection.
func (r *CardRepository) HasExact(ctx context.Context, card *models.OwnedCard) (bool, error) {
	query := `
		SELECT EXISTS (
			SELECT 1 FROM owned_cards
			WHERE discord_id = $1 AND name = $2 AND image_ref = $3
			  AND attack = $4 AND life = $5 AND rarity = $6
		)
	`

	var exists bool
	err := r.q.QueryRow(ctx, query,
		card.DiscordID,
		card.Name,
		card.ImageRef,
		card.Attack,
		card.Life,
		card.Rarity,
	).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("failed to check card %q for owner %d: %w", card.Name, card.DiscordID, err)
	}

	return exists, nil
}

// HasNameRarity reports whether the owner holds any card with the given
// name and rarity. Used for fusion duplicate detection, which ignores
// the stat columns.
func (r *CardRepository) HasNameRarity(ctx context.Context, discordID int64, name string, rarity models.Rarity) (bool, error) {
	query := `
		SELECT EXISTS (
			SELECT 1 FROM owned_cards
			WHERE discord_id = $1 AND name = $2 AND rarity = $3
		)
	`

	var exists bool
	err := r.q.QueryRow(ctx, query, discordID, name, rarity).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("failed to check card %q for owner %d: %w", name, discordID, err)
	}

	return exists, nil
}

func scanCards(rows pgx.Rows) ([]*models.OwnedCard, error) {
	var cards []*models.OwnedCard
	for rows.Next() {
		var card models.OwnedCard
		err := rows.Scan(
			&card.ID,
			&card.DiscordID,
			&card.Name,
			&card.ImageRef,
			&card.Attack,
			&card.Life,
			&card.Rarity,
			&card.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan card: %w", err)
		}
		cards = append(cards, &card)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate cards: %w", err)
	}

	return cards, nil
}
