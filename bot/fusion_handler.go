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

func (b *Bot) handleFuse(s *discordgo.Session, i *discordgo.InteractionCreate) {
	user := interactionUser(i)
	discordID, err := parseDiscordID(user.ID)
	if err != nil {
		log.Printf("Error parsing discord ID: %v", err)
		b.respondWithError(s, i, "Invalid user ID.")
		return
	}

	var rarity models.Rarity
	for _, opt := range i.ApplicationCommandData().Options {
		if opt.Name == "rarity" {
			rarity = models.Rarity(opt.StringValue())
		}
	}

	result, err := b.fusionService.Fuse(context.Background(), discordID, rarity)
	if err != nil {
		var funds *service.InsufficientFundsError
		switch {
		case errors.As(err, &funds):
			b.respondWithError(s, i, fmt.Sprintf("A fusion costs **%s coins** but you only have **%s**.",
				common.FormatBalance(funds.Need), common.FormatBalance(funds.Have)))
		case errors.Is(err, service.ErrInsufficientMaterials):
			b.respondWithError(s, i, fmt.Sprintf("You need **%d %s cards** to fuse.",
				service.FusionMaterials, rarity))
		case errors.Is(err, service.ErrInvalidRarity):
			b.respondWithError(s, i, "That rarity cannot be fused. Pick common, rare or epic.")
		default:
			log.Printf("Error fusing cards: %v", err)
			b.respondWithError(s, i, "Failed to fuse the cards. Please try again later.")
		}
		return
	}

	if !result.Success {
		embed := &discordgo.MessageEmbed{
			Title:       "💥 Fusion Failed",
			Color:       0xe74c3c,
			Description: fmt.Sprintf("%s burned away and nothing emerged.", formatConsumed(result.Consumed)),
			Footer: &discordgo.MessageEmbedFooter{
				Text: fmt.Sprintf("Balance: %s coins", common.FormatBalance(result.NewBalance)),
			},
		}
		if err := common.RespondWithEmbed(s, i, embed, false); err != nil {
			log.Printf("Error sending fusion response: %v", err)
		}
		return
	}

	embed := &discordgo.MessageEmbed{
		Color: 0x2ecc71,
		Footer: &discordgo.MessageEmbedFooter{
			Text: fmt.Sprintf("Balance: %s coins", common.FormatBalance(result.NewBalance)),
		},
	}

	if result.Duplicate {
		embed.Title = "♻️ Fusion Succeeded — Duplicate"
		embed.Description = fmt.Sprintf("The fusion produced a card you already own. Your source cards were kept and converted into **%s coins**.",
			common.FormatBalance(result.Bonus))
	} else {
		produced := result.Produced
		embed.Title = fmt.Sprintf("✨ Fusion Succeeded: %s %s", common.RarityEmoji(produced.Rarity), produced.Name)
		embed.Color = common.RarityColor(produced.Rarity)
		embed.Description = fmt.Sprintf("%s fused into a new **%s** card!", formatConsumed(result.Consumed), produced.Rarity)
		embed.Fields = []*discordgo.MessageEmbedField{
			{Name: "Attack", Value: common.FormatStat(produced.Attack), Inline: true},
			{Name: "Life", Value: common.FormatStat(produced.Life), Inline: true},
		}
	}

	if err := common.RespondWithEmbed(s, i, embed, false); err != nil {
		log.Printf("Error sending fusion response: %v", err)
	}
}

func formatConsumed(consumed []models.OwnedCard) string {
	parts := make([]string, 0, len(consumed))
	for _, card := range consumed {
		parts = append(parts, fmt.Sprintf("%s **%s**", common.RarityEmoji(card.Rarity), card.Name))
	}
	return strings.Join(parts, " + ")
}
