package bot

import (
	"github.com/bwmarrin/discordgo"

	"github.com/onevibe0405/Ferry/internal/logging"
)

// Handlers receives the events the bot reacts to. Nil fields are skipped.
type Handlers struct {
	Message       func(m *discordgo.MessageCreate)
	MessageDelete func(m *discordgo.MessageDelete)
	Interaction   func(i *discordgo.InteractionCreate)
	MemberAdd     func(m *discordgo.GuildMemberAdd)
}

// SetupEventHandlers routes gateway events to h.
func (s *Session) SetupEventHandlers(h Handlers) {
	logging.Info("Setting up Discord event handlers...")

	s.discord.AddHandler(func(sess *discordgo.Session, r *discordgo.Ready) {
		logging.Info("Bot ready! Connected as %s, %d guilds", r.User.Username, len(r.Guilds))
	})

	s.discord.AddHandler(func(sess *discordgo.Session, g *discordgo.GuildCreate) {
		logging.Info("Loaded guild: %s (ID: %s, %d members)", g.Name, g.ID, g.MemberCount)
	})

	s.discord.AddHandler(func(sess *discordgo.Session, g *discordgo.GuildDelete) {
		logging.Info("Removed from guild %s", g.ID)
	})

	if h.Message != nil {
		s.discord.AddHandler(func(sess *discordgo.Session, m *discordgo.MessageCreate) {
			h.Message(m)
		})
	}

	if h.MessageDelete != nil {
		s.discord.AddHandler(func(sess *discordgo.Session, m *discordgo.MessageDelete) {
			h.MessageDelete(m)
		})
	}

	if h.Interaction != nil {
		s.discord.AddHandler(func(sess *discordgo.Session, i *discordgo.InteractionCreate) {
			if i.Type != discordgo.InteractionApplicationCommand {
				return
			}
			h.Interaction(i)
		})
	}

	if h.MemberAdd != nil {
		s.discord.AddHandler(func(sess *discordgo.Session, m *discordgo.GuildMemberAdd) {
			if m.GuildID == "" || m.Member == nil || m.User == nil {
				return
			}
			h.MemberAdd(m)
		})
	}
}
