package models

import (
	"time"
)

// Rarity is the tier assigned to a card instance at draw time.
type Rarity string

const (
	RarityCommon    Rarity = "common"
	RarityRare      Rarity = "rare"
	RarityEpic      Rarity = "epic"
	RarityLegendary Rarity = "legendary"
)

// Rarities lists all tiers in ascending order. The order matters: draw
// weights are walked in this order and fusion promotes to the next entry.
var Rarities = []Rarity{RarityCommon, RarityRare, RarityEpic, RarityLegendary}

// Valid reports whether r is one of the four known tiers.
func (r Rarity) Valid() bool {
	for _, known := range Rarities {
		if r == known {
			return true
		}
	}
	return false
}

// Next returns the next-higher tier. Legendary has none.
func (r Rarity) Next() (Rarity, bool) {
	for i, known := range Rarities {
		if r == known && i+1 < len(Rarities) {
			return Rarities[i+1], true
		}
	}
	return "", false
}

// OwnedCard is a card instance in a user's collection. The definition
// fields are snapshotted at draw time so later catalog edits do not touch
// existing collections. Duplicates are allowed and meaningful.
type OwnedCard struct {
	ID        int64     `db:"id"`
	DiscordID int64     `db:"discord_id"`
	Name      string    `db:"name"`
	ImageRef  string    `db:"image_ref"`
	Attack    float64   `db:"attack"`
	Life      float64   `db:"life"`
	Rarity    Rarity    `db:"rarity"`
	CreatedAt time.Time `db:"created_at"`
}

// SameInstance reports full-tuple equality, the identity used by the
// pack duplicate check.
func (c OwnedCard) SameInstance(other OwnedCard) bool {
	return c.Name == other.Name &&
		c.Attack == other.Attack &&
		c.Life == other.Life &&
		c.Rarity == other.Rarity
}

// Score is the card's contribution to a duel hand. Negative life lowers
// the score; at least one catalog card has negative life by design.
func (c OwnedCard) Score() float64 {
	return c.Attack + c.Life
}
