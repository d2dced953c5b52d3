package bot

import (
	"context"
	"fmt"

	log "github.com/sirupsen/logrus"

	"packbot/bot/common"
	"packbot/events"
	"packbot/service"

	"github.com/bwmarrin/discordgo"
)

// Config holds bot configuration
type Config struct {
	Token   string
	GuildID string
}

type Bot struct {
	config         Config
	session        *discordgo.Session
	accountService service.AccountService
	packService    service.PackService
	fusionService  service.FusionService
	duelService    service.DuelService
	rewardService  service.RewardService
	statsService   service.StatsService
	eventBus       *events.Bus
}

func New(config Config, roster *Roster, accountService service.AccountService, packService service.PackService, fusionService service.FusionService, duelService service.DuelService, rewardService service.RewardService, statsService service.StatsService, eventBus *events.Bus) (*Bot, error) {
	dg, err := discordgo.New("Bot " + config.Token)
	if err != nil {
		return nil, fmt.Errorf("error creating discord session: %w", err)
	}
	dg.Identify.Intents = discordgo.IntentsAllWithoutPrivileged |
		discordgo.IntentsGuildMembers

	bot := &Bot{
		config:         config,
		session:        dg,
		accountService: accountService,
		packService:    packService,
		fusionService:  fusionService,
		duelService:    duelService,
		rewardService:  rewardService,
		statsService:   statsService,
		eventBus:       eventBus,
	}

	roster.bind(dg)

	// Register slash command handlers
	dg.AddHandler(bot.handleCommands)

	// Presence tracking for the passive reward loop
	dg.AddHandler(bot.handleReady)
	dg.AddHandler(bot.handleGuildMemberAdd)
	dg.AddHandler(bot.handleGuildMemberRemove)
	dg.AddHandler(bot.handleGuildDelete)

	// Open websocket connection
	if err := dg.Open(); err != nil {
		return nil, fmt.Errorf("error opening connection: %w", err)
	}

	// Register slash commands with Discord
	if err := bot.registerCommands(); err != nil {
		dg.Close()
		return nil, fmt.Errorf("error registering commands: %w", err)
	}

	// Passive rewards land as a best-effort DM; the credit itself has
	// already been committed by the time this fires.
	eventBus.Subscribe(events.EventTypeCoinsAwarded, func(ctx context.Context, event events.Event) {
		if awarded, ok := event.(events.CoinsAwardedEvent); ok {
			bot.notifyCoinsAwarded(awarded)
		}
	})

	return bot, nil
}

func (b *Bot) Close() error {
	return b.session.Close()
}

func (b *Bot) registerCommands() error {
	commands := []*discordgo.ApplicationCommand{
		{
			Name:        "balance",
			Description: "Check your coin balance and spending",
		},
		{
			Name:        "daily",
			Description: "Claim your daily coins",
		},
		{
			Name:        "pack",
			Description: "Buy and open a card pack",
		},
		{
			Name:        "collection",
			Description: "Show a card collection",
			Options: []*discordgo.ApplicationCommandOption{
				{
					Type:        discordgo.ApplicationCommandOptionUser,
					Name:        "user",
					Description: "User to inspect (defaults to you)",
					Required:    false,
				},
			},
		},
		{
			Name:        "fuse",
			Description: "Fuse two cards of a rarity into one of the next rarity",
			Options: []*discordgo.ApplicationCommandOption{
				{
					Type:        discordgo.ApplicationCommandOptionString,
					Name:        "rarity",
					Description: "Rarity of the two cards to fuse",
					Required:    true,
					Choices: []*discordgo.ApplicationCommandOptionChoice{
						{Name: "Common", Value: "common"},
						{Name: "Rare", Value: "rare"},
						{Name: "Epic", Value: "epic"},
					},
				},
			},
		},
		{
			Name:        "duel",
			Description: "Challenge other collectors to card duels",
			Options: []*discordgo.ApplicationCommandOption{
				{
					Type:        discordgo.ApplicationCommandOptionSubCommand,
					Name:        "challenge",
					Description: "Challenge another collector",
					Options: []*discordgo.ApplicationCommandOption{
						{
							Type:        discordgo.ApplicationCommandOptionUser,
							Name:        "user",
							Description: "Collector to challenge",
							Required:    true,
						},
					},
				},
				{
					Type:        discordgo.ApplicationCommandOptionSubCommand,
					Name:        "accept",
					Description: "Accept a pending challenge",
					Options: []*discordgo.ApplicationCommandOption{
						{
							Type:        discordgo.ApplicationCommandOptionUser,
							Name:        "challenger",
							Description: "Who challenged you (defaults to whoever is pending)",
							Required:    false,
						},
					},
				},
			},
		},
		{
			Name:        "wins",
			Description: "Show duel win counts",
			Options: []*discordgo.ApplicationCommandOption{
				{
					Type:        discordgo.ApplicationCommandOptionUser,
					Name:        "user",
					Description: "User to inspect (defaults to you)",
					Required:    false,
				},
			},
		},
		{
			Name:        "ranking",
			Description: "Show the coin leaderboard",
		},
	}

	for _, cmd := range commands {
		_, err := b.session.ApplicationCommandCreate(b.session.State.User.ID, b.config.GuildID, cmd)
		if err != nil {
			return fmt.Errorf("cannot create '%s' command: %w", cmd.Name, err)
		}
	}

	return nil
}

func (b *Bot) handleCommands(s *discordgo.Session, i *discordgo.InteractionCreate) {
	if i.Type != discordgo.InteractionApplicationCommand {
		return
	}

	switch i.ApplicationCommandData().Name {
	case "balance":
		b.handleBalance(s, i)
	case "daily":
		b.handleDaily(s, i)
	case "pack":
		b.handlePack(s, i)
	case "collection":
		b.handleCollection(s, i)
	case "fuse":
		b.handleFuse(s, i)
	case "duel":
		b.handleDuelCommand(s, i)
	case "wins":
		b.handleWins(s, i)
	case "ranking":
		b.handleRanking(s, i)
	}
}

// notifyCoinsAwarded DMs a member about a passive reward. DM failures
// are logged and dropped.
func (b *Bot) notifyCoinsAwarded(event events.CoinsAwardedEvent) {
	userID := formatDiscordID(event.DiscordID)

	channel, err := b.session.UserChannelCreate(userID)
	if err != nil {
		log.WithFields(log.Fields{
			"discordID": event.DiscordID,
			"error":     err,
		}).Warn("Could not open DM channel for reward notice")
		return
	}

	message := fmt.Sprintf("You earned **%s coins** for hanging out. The next award unlocks in %s.",
		common.FormatBalance(event.Amount), service.PresenceThreshold)
	if _, err := b.session.ChannelMessageSend(channel.ID, message); err != nil {
		log.WithFields(log.Fields{
			"discordID": event.DiscordID,
			"error":     err,
		}).Warn("Could not deliver reward notice")
	}
}
