package bot

import (
	"context"
	"fmt"
	"strings"

	log "github.com/sirupsen/logrus"

	"packbot/bot/common"

	"github.com/bwmarrin/discordgo"
)

// rankingLimit caps the leaderboard at one embed page.
const rankingLimit = 10

func (b *Bot) handleWins(s *discordgo.Session, i *discordgo.InteractionCreate) {
	user := interactionUser(i)
	for _, opt := range i.ApplicationCommandData().Options {
		if opt.Name == "user" {
			user = opt.UserValue(s)
		}
	}

	discordID, err := parseDiscordID(user.ID)
	if err != nil {
		log.Printf("Error parsing discord ID: %v", err)
		b.respondWithError(s, i, "Invalid user ID.")
		return
	}

	wins, err := b.statsService.GetWins(context.Background(), discordID)
	if err != nil {
		log.Printf("Error getting win count: %v", err)
		b.respondWithError(s, i, "Failed to retrieve win stats. Please try again later.")
		return
	}

	label := "duels"
	if wins == 1 {
		label = "duel"
	}
	b.respondWithContent(s, i, fmt.Sprintf("🏆 **%s** has won **%s** %s.",
		GetDisplayName(s, i.GuildID, user.ID), common.FormatBalance(wins), label))
}

func (b *Bot) handleRanking(s *discordgo.Session, i *discordgo.InteractionCreate) {
	entries, err := b.statsService.GetRanking(context.Background(), rankingLimit)
	if err != nil {
		log.Printf("Error getting ranking: %v", err)
		b.respondWithError(s, i, "Failed to retrieve the leaderboard. Please try again later.")
		return
	}

	if len(entries) == 0 {
		b.respondWithContent(s, i, "Nobody has any coins yet. Claim your first with `/daily`!")
		return
	}

	medals := []string{"🥇", "🥈", "🥉"}
	var lines []string
	for _, entry := range entries {
		marker := fmt.Sprintf("`#%d`", entry.Rank)
		if entry.Rank <= len(medals) {
			marker = medals[entry.Rank-1]
		}
		lines = append(lines, fmt.Sprintf("%s **%s** — %s coins (%s wins)",
			marker,
			GetDisplayName(s, i.GuildID, formatDiscordID(entry.DiscordID)),
			common.FormatBalance(entry.Balance),
			common.FormatBalance(entry.Wins)))
	}

	embed := &discordgo.MessageEmbed{
		Title:       "📊 Coin Leaderboard",
		Color:       0xf1c40f,
		Description: strings.Join(lines, "\n"),
	}

	if err := common.RespondWithEmbed(s, i, embed, false); err != nil {
		log.Printf("Error sending ranking response: %v", err)
	}
}
