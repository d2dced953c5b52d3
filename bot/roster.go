package bot

import (
	"fmt"
	"sync"

	"github.com/bwmarrin/discordgo"
)

// Roster answers guild membership questions for the reward sweep. It is
// created unbound so services can be wired before the session exists;
// New binds it when the bot comes up.
type Roster struct {
	mu      sync.RWMutex
	session *discordgo.Session
}

func NewRoster() *Roster {
	return &Roster{}
}

func (r *Roster) bind(session *discordgo.Session) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.session = session
}

func (r *Roster) get() *discordgo.Session {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.session
}

// IsMember reports whether the member is currently in the guild,
// checking the state cache before hitting the API.
func (r *Roster) IsMember(guildID, discordID int64) (bool, error) {
	session := r.get()
	if session == nil {
		return false, fmt.Errorf("roster not bound to a session")
	}

	guild := formatDiscordID(guildID)
	user := formatDiscordID(discordID)

	if member, err := session.State.Member(guild, user); err == nil && member != nil {
		return true, nil
	}

	member, err := session.GuildMember(guild, user)
	if err != nil {
		if restErr, ok := err.(*discordgo.RESTError); ok && restErr.Response != nil && restErr.Response.StatusCode == 404 {
			return false, nil
		}
		return false, fmt.Errorf("failed to look up member %d in guild %d: %w", discordID, guildID, err)
	}

	return member != nil, nil
}

// GuildExists reports whether the guild is still reachable.
func (r *Roster) GuildExists(guildID int64) bool {
	session := r.get()
	if session == nil {
		return false
	}

	guild := formatDiscordID(guildID)
	if g, err := session.State.Guild(guild); err == nil && g != nil {
		return true
	}

	g, err := session.Guild(guild)
	return err == nil && g != nil
}
