package common

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"packbot/models"
)

// FormatBalance formats a coin amount with thousand separators
func FormatBalance(balance int64) string {
	// Convert to string
	str := fmt.Sprintf("%d", balance)

	// Add commas for thousands
	n := len(str)
	if n <= 3 {
		return str
	}

	var result strings.Builder
	for i, digit := range str {
		if i > 0 && (n-i)%3 == 0 {
			result.WriteRune(',')
		}
		result.WriteRune(digit)
	}

	return result.String()
}

// RarityEmoji returns the emoji badge shown next to a card's rarity.
func RarityEmoji(r models.Rarity) string {
	switch r {
	case models.RarityCommon:
		return "⚪"
	case models.RarityRare:
		return "🔵"
	case models.RarityEpic:
		return "🟣"
	case models.RarityLegendary:
		return "🟡"
	default:
		return "❔"
	}
}

// RarityColor returns the embed accent color for a rarity.
func RarityColor(r models.Rarity) int {
	switch r {
	case models.RarityCommon:
		return 0x95a5a6
	case models.RarityRare:
		return 0x3498db
	case models.RarityEpic:
		return 0x9b59b6
	case models.RarityLegendary:
		return 0xf1c40f
	default:
		return 0x2c3e50
	}
}

// FormatCardLine renders one collection row: badge, name, stats.
func FormatCardLine(card *models.OwnedCard) string {
	return fmt.Sprintf("%s **%s** — ATK %s / LIFE %s",
		RarityEmoji(card.Rarity), card.Name, FormatStat(card.Attack), FormatStat(card.Life))
}

// FormatStat renders card stats without trailing zeros; the deck has
// fractional and negative values and both must display as authored.
func FormatStat(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

// FormatDiscordTimestamp formats a time as a Discord timestamp that displays in user's local timezone
// Format types: "t" = short time, "T" = long time, "d" = short date, "D" = long date,
// "f" = short date/time, "F" = long date/time, "R" = relative time
func FormatDiscordTimestamp(t time.Time, format string) string {
	return fmt.Sprintf("<t:%d:%s>", t.Unix(), format)
}
