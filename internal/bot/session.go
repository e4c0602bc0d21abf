package bot

import (
	"context"
	"fmt"

	"github.com/bwmarrin/discordgo"

	"github.com/onevibe0405/Ferry/internal/config"
	"github.com/onevibe0405/Ferry/internal/logging"
)

type Session struct {
	discord *discordgo.Session
	cfg     config.BotConfig
	client  Client
}

// Initialize creates the discordgo session without connecting it.
func Initialize(cfg config.BotConfig) (*Session, error) {
	if cfg.Token == "" {
		return nil, fmt.Errorf("bot token is not set")
	}

	dg, err := discordgo.New("Bot " + cfg.Token)
	if err != nil {
		return nil, fmt.Errorf("failed to create Discord session: %w", err)
	}

	dg.Identify.Intents = discordgo.IntentsGuilds |
		discordgo.IntentsGuildMembers |
		discordgo.IntentsGuildMessages |
		discordgo.IntentsDirectMessages |
		discordgo.IntentsMessageContent
	dg.State.MaxMessageCount = cfg.MessageCacheSize
	dg.Client.Timeout = cfg.RequestTimeout()

	return &Session{
		discord: dg,
		cfg:     cfg,
		client:  NewClient(dg, cfg.RequestTimeout()),
	}, nil
}

func (s *Session) Client() Client {
	return s.client
}

// Connect opens the gateway, retrying transient failures with backoff.
func (s *Session) Connect(ctx context.Context) error {
	b := newBackoff(s.cfg.ConnectBaseDelay(), s.cfg.ConnectMaxDelay())
	if err := retryConnect(ctx, s.cfg.ConnectAttempts, b, s.discord.Open); err != nil {
		return fmt.Errorf("failed to open Discord connection: %w", err)
	}

	if s.discord.State.User != nil {
		logging.Info("Connected as %s (%s)", s.discord.State.User.Username, s.discord.State.User.ID)
	}
	return nil
}

// Close closes the Discord connection
func (s *Session) Close() error {
	if s.discord != nil {
		return s.discord.Close()
	}
	return nil
}

// RegisterCommands overwrites the global slash command set.
func (s *Session) RegisterCommands(commands []*discordgo.ApplicationCommand) error {
	if s.discord.State.User == nil {
		return fmt.Errorf("session is not connected")
	}
	logging.Info("Registering %d slash commands...", len(commands))

	if _, err := s.discord.ApplicationCommandBulkOverwrite(s.discord.State.User.ID, "", commands); err != nil {
		return fmt.Errorf("failed to register slash commands: %w", err)
	}
	return nil
}

// Counts reports the number of guilds and the summed member count.
func (s *Session) Counts() (guilds, users int) {
	s.discord.State.RLock()
	defer s.discord.State.RUnlock()

	for _, g := range s.discord.State.Guilds {
		guilds++
		users += g.MemberCount
	}
	return guilds, users
}
