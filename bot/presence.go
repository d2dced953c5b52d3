package bot

import (
	"context"

	log "github.com/sirupsen/logrus"

	"github.com/bwmarrin/discordgo"
)

// handleReady backfills presence tracking for members already in the
// bot's guilds, so restarts do not lose accrual for people who never
// rejoin. Existing clocks are left untouched.
func (b *Bot) handleReady(s *discordgo.Session, r *discordgo.Ready) {
	log.WithField("guilds", len(r.Guilds)).Info("Connected, backfilling guild presence")

	for _, guild := range r.Guilds {
		guildID, err := parseDiscordID(guild.ID)
		if err != nil {
			log.WithField("guild", guild.ID).Warn("Skipping guild with unparseable ID")
			continue
		}

		memberIDs, err := b.fetchMemberIDs(s, guild.ID)
		if err != nil {
			log.WithFields(log.Fields{
				"guild": guild.ID,
				"error": err,
			}).Error("Failed to list guild members for presence backfill")
			continue
		}

		if err := b.rewardService.BackfillGuild(context.Background(), guildID, memberIDs); err != nil {
			log.WithFields(log.Fields{
				"guild": guild.ID,
				"error": err,
			}).Error("Failed to backfill guild presence")
		}
	}
}

// fetchMemberIDs pages through a guild's member list, excluding bots.
func (b *Bot) fetchMemberIDs(s *discordgo.Session, guildID string) ([]int64, error) {
	var memberIDs []int64
	after := ""

	for {
		members, err := s.GuildMembers(guildID, after, 1000)
		if err != nil {
			return nil, err
		}
		if len(members) == 0 {
			break
		}

		for _, member := range members {
			after = member.User.ID
			if member.User.Bot {
				continue
			}
			id, err := parseDiscordID(member.User.ID)
			if err != nil {
				continue
			}
			memberIDs = append(memberIDs, id)
		}

		if len(members) < 1000 {
			break
		}
	}

	return memberIDs, nil
}

func (b *Bot) handleGuildMemberAdd(s *discordgo.Session, m *discordgo.GuildMemberAdd) {
	if m.User.Bot {
		return
	}

	guildID, err := parseDiscordID(m.GuildID)
	if err != nil {
		return
	}
	discordID, err := parseDiscordID(m.User.ID)
	if err != nil {
		return
	}

	if err := b.rewardService.TrackJoin(context.Background(), guildID, discordID); err != nil {
		log.WithFields(log.Fields{
			"guild":     m.GuildID,
			"discordID": m.User.ID,
			"error":     err,
		}).Error("Failed to track member join")
	}
}

func (b *Bot) handleGuildMemberRemove(s *discordgo.Session, m *discordgo.GuildMemberRemove) {
	guildID, err := parseDiscordID(m.GuildID)
	if err != nil {
		return
	}
	discordID, err := parseDiscordID(m.User.ID)
	if err != nil {
		return
	}

	if err := b.rewardService.TrackLeave(context.Background(), guildID, discordID); err != nil {
		log.WithFields(log.Fields{
			"guild":     m.GuildID,
			"discordID": m.User.ID,
			"error":     err,
		}).Error("Failed to track member leave")
	}
}

func (b *Bot) handleGuildDelete(s *discordgo.Session, g *discordgo.GuildDelete) {
	// Gateway outages also deliver GuildDelete with Unavailable set;
	// only a real removal should drop the guild's clocks.
	if g.Unavailable {
		return
	}

	guildID, err := parseDiscordID(g.ID)
	if err != nil {
		return
	}

	if err := b.rewardService.UntrackGuild(context.Background(), guildID); err != nil {
		log.WithFields(log.Fields{
			"guild": g.ID,
			"error": err,
		}).Error("Failed to untrack deleted guild")
	}
}
