package models

import (
	"time"
)

// PresenceRecord tracks how long a user has been in a guild. JoinedAt is
// reset each time the passive reward fires, so the award recurs on the
// same cadence rather than being a one-time bonus.
type PresenceRecord struct {
	GuildID   int64     `db:"guild_id"`
	DiscordID int64     `db:"discord_id"`
	JoinedAt  time.Time `db:"joined_at"`
}
