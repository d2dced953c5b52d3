package models

import (
	"time"
)

// Account represents a Discord user's economy state. Accounts are never
// deleted; an account that has no row yet behaves as the zero value.
type Account struct {
	DiscordID      int64      `db:"discord_id"`
	Balance        int64      `db:"balance"`
	TotalSpent     int64      `db:"total_spent"`
	Wins           int64      `db:"wins"`
	LastDailyClaim *time.Time `db:"last_daily_claim"`
	CreatedAt      time.Time  `db:"created_at"`
	UpdatedAt      time.Time  `db:"updated_at"`
}
