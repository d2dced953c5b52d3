package service

import (
	"time"

	"packbot/models"
)

// Economy tuning. All amounts are in coins.
const (
	// PackCost is the price of opening one pack.
	PackCost int64 = 50

	// PackDuplicateBonus is the consolation credit when a pack draw
	// duplicates a card the buyer already holds.
	PackDuplicateBonus int64 = 32

	// DailyReward is the amount granted by a daily claim.
	DailyReward int64 = 125

	// DailyCooldown is the minimum wait between daily claims.
	DailyCooldown = 24 * time.Hour

	// FusionCost is the price of one fusion attempt.
	FusionCost int64 = 100

	// FusionMaterials is how many cards of the input rarity a fusion
	// consumes.
	FusionMaterials = 2

	// FusionDuplicateBonus is the consolation credit when a successful
	// fusion produces a card the owner already holds by name and rarity.
	FusionDuplicateBonus int64 = 50

	// DuelStake is deducted from each participant when a duel starts.
	DuelStake int64 = 25

	// DuelReward is paid to the duel winner. A tie pays nobody and the
	// stakes are not refunded.
	DuelReward int64 = 100

	// DuelHandSize caps how many cards from the top of a collection form
	// a duel hand.
	DuelHandSize = 5

	// PresenceThreshold is how long a member must be present before the
	// passive reward pays out.
	PresenceThreshold = 30 * time.Minute

	// PresenceReward is the passive reward amount per matured interval.
	PresenceReward int64 = 100

	// PresenceInterval is how often the reward sweep runs.
	PresenceInterval = time.Minute
)

// DefaultFusionOdds is the success probability of fusing two cards of
// the keyed rarity into one of the next rarity up.
var DefaultFusionOdds = map[models.Rarity]float64{
	models.RarityCommon: 0.45,
	models.RarityRare:   0.35,
	models.RarityEpic:   0.15,
}
