package bot

import (
	"context"
	"errors"
	"fmt"
	"time"

	log "github.com/sirupsen/logrus"

	"packbot/bot/common"
	"packbot/service"

	"github.com/bwmarrin/discordgo"
)

func (b *Bot) handleBalance(s *discordgo.Session, i *discordgo.InteractionCreate) {
	user := interactionUser(i)
	discordID, err := parseDiscordID(user.ID)
	if err != nil {
		log.Printf("Error parsing discord ID: %v", err)
		b.respondWithError(s, i, "Invalid user ID.")
		return
	}

	account, err := b.accountService.GetAccount(context.Background(), discordID)
	if err != nil {
		log.Printf("Error getting account: %v", err)
		b.respondWithError(s, i, "Failed to retrieve your balance. Please try again later.")
		return
	}

	embed := &discordgo.MessageEmbed{
		Title: fmt.Sprintf("💰 %s's Wallet", GetDisplayName(s, i.GuildID, user.ID)),
		Color: 0xf1c40f,
		Fields: []*discordgo.MessageEmbedField{
			{
				Name:   "Balance",
				Value:  fmt.Sprintf("%s coins", common.FormatBalance(account.Balance)),
				Inline: true,
			},
			{
				Name:   "Lifetime Spent",
				Value:  fmt.Sprintf("%s coins", common.FormatBalance(account.TotalSpent)),
				Inline: true,
			},
			{
				Name:   "Duel Wins",
				Value:  common.FormatBalance(account.Wins),
				Inline: true,
			},
		},
	}

	if err := common.RespondWithEmbed(s, i, embed, false); err != nil {
		log.Printf("Error sending balance response: %v", err)
	}
}

func (b *Bot) handleDaily(s *discordgo.Session, i *discordgo.InteractionCreate) {
	user := interactionUser(i)
	discordID, err := parseDiscordID(user.ID)
	if err != nil {
		log.Printf("Error parsing discord ID: %v", err)
		b.respondWithError(s, i, "Invalid user ID.")
		return
	}

	newBalance, err := b.accountService.ClaimDaily(context.Background(), discordID)
	if err != nil {
		var cooldown *service.CooldownError
		if errors.As(err, &cooldown) {
			b.respondWithError(s, i, fmt.Sprintf("You already claimed your daily coins. Come back %s.",
				common.FormatDiscordTimestamp(time.Now().Add(cooldown.Remaining), "R")))
			return
		}
		log.Printf("Error claiming daily reward: %v", err)
		b.respondWithError(s, i, "Failed to claim your daily coins. Please try again later.")
		return
	}

	b.respondWithContent(s, i, fmt.Sprintf("🪙 You claimed **%s coins**! New balance: **%s coins**.",
		common.FormatBalance(service.DailyReward), common.FormatBalance(newBalance)))
}
