package bot

import (
	"context"
	"errors"
	"fmt"
	"strings"

	log "github.com/sirupsen/logrus"

	"packbot/bot/common"
	"packbot/models"
	"packbot/service"

	"github.com/bwmarrin/discordgo"
)

func (b *Bot) handlePack(s *discordgo.Session, i *discordgo.InteractionCreate) {
	user := interactionUser(i)
	discordID, err := parseDiscordID(user.ID)
	if err != nil {
		log.Printf("Error parsing discord ID: %v", err)
		b.respondWithError(s, i, "Invalid user ID.")
		return
	}

	result, err := b.packService.OpenPack(context.Background(), discordID)
	if err != nil {
		var funds *service.InsufficientFundsError
		if errors.As(err, &funds) {
			b.respondWithError(s, i, fmt.Sprintf("A pack costs **%s coins** but you only have **%s**.",
				common.FormatBalance(funds.Need), common.FormatBalance(funds.Have)))
			return
		}
		log.Printf("Error opening pack: %v", err)
		b.respondWithError(s, i, "Failed to open the pack. Please try again later.")
		return
	}

	card := result.Card
	embed := &discordgo.MessageEmbed{
		Title: fmt.Sprintf("%s %s", common.RarityEmoji(card.Rarity), card.Name),
		Color: common.RarityColor(card.Rarity),
		Description: fmt.Sprintf("**%s** pulled a **%s** card!",
			GetDisplayName(s, i.GuildID, user.ID), card.Rarity),
		Fields: []*discordgo.MessageEmbedField{
			{Name: "Attack", Value: common.FormatStat(card.Attack), Inline: true},
			{Name: "Life", Value: common.FormatStat(card.Life), Inline: true},
		},
		Footer: &discordgo.MessageEmbedFooter{
			Text: fmt.Sprintf("Balance: %s coins", common.FormatBalance(result.NewBalance)),
		},
	}

	if card.ImageRef != "" {
		embed.Thumbnail = &discordgo.MessageEmbedThumbnail{URL: card.ImageRef}
	}

	if result.Duplicate {
		embed.Description += fmt.Sprintf("\n♻️ Duplicate! Converted into **%s coins**.",
			common.FormatBalance(result.Bonus))
	}

	if err := common.RespondWithEmbed(s, i, embed, false); err != nil {
		log.Printf("Error sending pack response: %v", err)
	}
}

func (b *Bot) handleCollection(s *discordgo.Session, i *discordgo.InteractionCreate) {
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

	collection, err := b.statsService.GetCollection(context.Background(), discordID)
	if err != nil {
		log.Printf("Error getting collection: %v", err)
		b.respondWithError(s, i, "Failed to retrieve the collection. Please try again later.")
		return
	}

	displayName := GetDisplayName(s, i.GuildID, user.ID)
	if len(collection.Cards) == 0 {
		b.respondWithContent(s, i, fmt.Sprintf("**%s** has no cards yet. Open a pack with `/pack`!", displayName))
		return
	}

	embed := &discordgo.MessageEmbed{
		Title:       fmt.Sprintf("🗂️ %s's Collection", displayName),
		Color:       0x3498db,
		Description: formatCollection(collection),
		Footer: &discordgo.MessageEmbedFooter{
			Text: fmt.Sprintf("%d cards total", len(collection.Cards)),
		},
	}

	if err := common.RespondWithEmbed(s, i, embed, false); err != nil {
		log.Printf("Error sending collection response: %v", err)
	}
}

// formatCollection lists cards in acquisition order, folding repeat names
// into a single line with a copy count. Discord embeds cap descriptions
// at 4096 characters, so the list is truncated when it would overflow.
func formatCollection(collection *models.Collection) string {
	const maxLength = 3900

	var lines []string
	seen := make(map[string]bool)
	truncated := 0

	for _, card := range collection.Cards {
		if seen[card.Name] {
			continue
		}
		seen[card.Name] = true

		line := common.FormatCardLine(card)
		if count := collection.Counts[card.Name]; count > 1 {
			line += fmt.Sprintf(" ×%d", count)
		}
		lines = append(lines, line)
	}

	var builder strings.Builder
	for idx, line := range lines {
		if builder.Len()+len(line)+1 > maxLength {
			truncated = len(lines) - idx
			break
		}
		if idx > 0 {
			builder.WriteString("\n")
		}
		builder.WriteString(line)
	}

	if truncated > 0 {
		builder.WriteString(fmt.Sprintf("\n… and %d more", truncated))
	}

	return builder.String()
}
