package catalog

import (
	"fmt"
	"math/rand"

	"packbot/models"
)

// CardDefinition is an immutable catalog entry. Rarity is not part of the
// definition; it is assigned from the tier a draw lands on.
type CardDefinition struct {
	Name     string  `json:"name"`
	ImageRef string  `json:"image"`
	Attack   float64 `json:"attack"`
	Life     float64 `json:"life"`
}

// TotalWeight is the normalizing total for the tier draw weights.
const TotalWeight = 100

// tierWeights maps each tier to its draw weight, walked in declared order.
// The weights must sum to TotalWeight.
var tierWeights = []struct {
	Rarity models.Rarity
	Weight int
}{
	{models.RarityCommon, 60},
	{models.RarityRare, 30},
	{models.RarityEpic, 9},
	{models.RarityLegendary, 1},
}

// Weight returns the draw weight for a tier.
func Weight(r models.Rarity) int {
	for _, t := range tierWeights {
		if t.Rarity == r {
			return t.Weight
		}
	}
	return 0
}

// Catalog holds the card definitions registered per tier and implements
// the selection algorithm. It does not own card content; callers supply
// the deck (the default one is embedded as static configuration).
type Catalog struct {
	tiers map[models.Rarity][]CardDefinition
}

// New builds a catalog from per-tier definitions. Every tier must have at
// least one card, otherwise fusion promotions and draws could dead-end.
func New(tiers map[models.Rarity][]CardDefinition) (*Catalog, error) {
	sum := 0
	for _, t := range tierWeights {
		sum += t.Weight
	}
	if sum != TotalWeight {
		return nil, fmt.Errorf("tier weights sum to %d, want %d", sum, TotalWeight)
	}

	for _, r := range models.Rarities {
		if len(tiers[r]) == 0 {
			return nil, fmt.Errorf("tier %q has no cards", r)
		}
	}

	copied := make(map[models.Rarity][]CardDefinition, len(tiers))
	for r, defs := range tiers {
		copied[r] = append([]CardDefinition(nil), defs...)
	}
	return &Catalog{tiers: copied}, nil
}

// DrawRarity selects a tier with a uniform roll in [0, TotalWeight),
// walking the tiers in declared order and accumulating weights.
func (c *Catalog) DrawRarity(rng *rand.Rand) models.Rarity {
	roll := rng.Intn(TotalWeight)
	cumulative := 0
	for _, t := range tierWeights {
		cumulative += t.Weight
		if roll < cumulative {
			return t.Rarity
		}
	}
	// Unreachable: the weights sum to TotalWeight.
	return models.RarityCommon
}

// DrawCard picks uniformly among the definitions registered for a tier.
func (c *Catalog) DrawCard(rng *rand.Rand, r models.Rarity) (CardDefinition, error) {
	defs := c.tiers[r]
	if len(defs) == 0 {
		return CardDefinition{}, fmt.Errorf("tier %q has no cards", r)
	}
	return defs[rng.Intn(len(defs))], nil
}

// Cards returns the definitions registered for a tier.
func (c *Catalog) Cards(r models.Rarity) []CardDefinition {
	return append([]CardDefinition(nil), c.tiers[r]...)
}
