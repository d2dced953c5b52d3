package models

// PackResult is the outcome of opening a pack.
type PackResult struct {
	Card       OwnedCard
	Duplicate  bool
	Bonus      int64
	NewBalance int64
}

// FusionResult is the outcome of fusing two same-rarity cards.
type FusionResult struct {
	Success    bool
	Duplicate  bool
	Produced   *OwnedCard
	Consumed   []OwnedCard
	Bonus      int64
	NewBalance int64
}

// DuelSide holds one contestant's sampled hand and score.
type DuelSide struct {
	DiscordID int64
	Hand      []OwnedCard
	Score     float64
}

// DuelResult reports both sides, the stake taken from each, and the
// winner. On a tie WinnerID is nil and the stakes stay deducted.
type DuelResult struct {
	Challenger DuelSide
	Accepter   DuelSide
	Stake      int64
	Reward     int64
	WinnerID   *int64
	Tie        bool
}

// Collection is an owner's full card list in acquisition order, with
// per-name copy counts for display.
type Collection struct {
	Cards  []*OwnedCard
	Counts map[string]int
}

// RankingEntry is one row of the coin scoreboard.
type RankingEntry struct {
	Rank      int
	DiscordID int64
	Balance   int64
	Wins      int64
}
