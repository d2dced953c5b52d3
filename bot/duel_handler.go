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

func (b *Bot) handleDuelCommand(s *discordgo.Session, i *discordgo.InteractionCreate) {
	options := i.ApplicationCommandData().Options
	if len(options) == 0 {
		b.respondWithError(s, i, "Unknown duel subcommand.")
		return
	}

	switch options[0].Name {
	case "challenge":
		b.handleDuelChallenge(s, i, options[0])
	case "accept":
		b.handleDuelAccept(s, i, options[0])
	default:
		b.respondWithError(s, i, "Unknown duel subcommand.")
	}
}

func (b *Bot) handleDuelChallenge(s *discordgo.Session, i *discordgo.InteractionCreate, sub *discordgo.ApplicationCommandInteractionDataOption) {
	user := interactionUser(i)
	challengerID, err := parseDiscordID(user.ID)
	if err != nil {
		log.Printf("Error parsing discord ID: %v", err)
		b.respondWithError(s, i, "Invalid user ID.")
		return
	}

	var target *discordgo.User
	for _, opt := range sub.Options {
		if opt.Name == "user" {
			target = opt.UserValue(s)
		}
	}
	if target == nil {
		b.respondWithError(s, i, "You must pick someone to challenge.")
		return
	}

	challengedID, err := parseDiscordID(target.ID)
	if err != nil {
		log.Printf("Error parsing discord ID: %v", err)
		b.respondWithError(s, i, "Invalid user ID.")
		return
	}

	err = b.duelService.Challenge(context.Background(), challengerID, challengedID, target.Bot)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrSelfChallenge):
			b.respondWithError(s, i, "You cannot duel yourself.")
		case errors.Is(err, service.ErrInvalidTarget):
			b.respondWithError(s, i, "Bots do not duel.")
		default:
			log.Printf("Error creating duel challenge: %v", err)
			b.respondWithError(s, i, "Failed to create the challenge. Please try again later.")
		}
		return
	}

	b.respondWithContent(s, i, fmt.Sprintf("⚔️ %s challenges %s to a duel for **%s coins** each! Accept with `/duel accept`.",
		user.Mention(), target.Mention(), common.FormatBalance(service.DuelStake)))
}

func (b *Bot) handleDuelAccept(s *discordgo.Session, i *discordgo.InteractionCreate, sub *discordgo.ApplicationCommandInteractionDataOption) {
	user := interactionUser(i)
	accepterID, err := parseDiscordID(user.ID)
	if err != nil {
		log.Printf("Error parsing discord ID: %v", err)
		b.respondWithError(s, i, "Invalid user ID.")
		return
	}

	// The challenger option is a safeguard against accepting the wrong
	// duel; omitted, whoever is pending is accepted.
	challengerID, ok := b.duelService.PendingChallenger(accepterID)
	for _, opt := range sub.Options {
		if opt.Name == "challenger" {
			claimed, err := parseDiscordID(opt.UserValue(s).ID)
			if err != nil {
				b.respondWithError(s, i, "Invalid user ID.")
				return
			}
			challengerID, ok = claimed, true
		}
	}
	if !ok {
		b.respondWithError(s, i, "Nobody has challenged you.")
		return
	}

	result, err := b.duelService.Accept(context.Background(), accepterID, challengerID)
	if err != nil {
		var funds *service.InsufficientFundsError
		var noCards *service.NoCardsError
		switch {
		case errors.Is(err, service.ErrNoPendingChallenge):
			b.respondWithError(s, i, "Nobody has challenged you.")
		case errors.Is(err, service.ErrChallengerMismatch):
			b.respondWithError(s, i, "That's not who challenged you.")
		case errors.As(err, &funds):
			b.respondWithError(s, i, fmt.Sprintf("<@%d> cannot cover the **%s coin** stake.",
				funds.DiscordID, common.FormatBalance(service.DuelStake)))
		case errors.As(err, &noCards):
			b.respondWithError(s, i, fmt.Sprintf("<@%d> has no cards to duel with. The stakes were refunded.", noCards.DiscordID))
		default:
			log.Printf("Error resolving duel: %v", err)
			b.respondWithError(s, i, "Failed to resolve the duel. Please try again later.")
		}
		return
	}

	embed := &discordgo.MessageEmbed{
		Title: "⚔️ Duel Results",
		Color: 0xe67e22,
		Fields: []*discordgo.MessageEmbedField{
			duelSideField(s, i.GuildID, result.Challenger),
			duelSideField(s, i.GuildID, result.Accepter),
		},
	}

	if result.Tie {
		embed.Description = fmt.Sprintf("It's a tie! The **%s coin** stakes are forfeit.",
			common.FormatBalance(result.Stake))
	} else {
		embed.Description = fmt.Sprintf("<@%d> wins **%s coins**!",
			*result.WinnerID, common.FormatBalance(result.Reward))
		embed.Color = 0x2ecc71
	}

	if err := common.RespondWithEmbed(s, i, embed, false); err != nil {
		log.Printf("Error sending duel response: %v", err)
	}
}

func duelSideField(s *discordgo.Session, guildID string, side models.DuelSide) *discordgo.MessageEmbedField {
	var lines []string
	for _, card := range side.Hand {
		lines = append(lines, common.FormatCardLine(&card))
	}
	lines = append(lines, fmt.Sprintf("**Score: %s**", common.FormatStat(side.Score)))

	return &discordgo.MessageEmbedField{
		Name:   GetDisplayName(s, guildID, formatDiscordID(side.DiscordID)),
		Value:  strings.Join(lines, "\n"),
		Inline: true,
	}
}
