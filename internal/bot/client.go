package bot

import (
	"context"
	"fmt"
	"time"

	"github.com/bwmarrin/discordgo"
)

// Client is the set of platform operations the command core depends on.
// The session-backed implementation serves reads from the gateway state
// cache first and falls back to REST.
type Client interface {
	BotUser() *discordgo.User
	HeartbeatLatency() time.Duration

	Guild(guildID string) (*discordgo.Guild, error)
	Member(guildID, userID string) (*discordgo.Member, error)
	Members(guildID string) ([]*discordgo.Member, error)
	Channel(channelID string) (*discordgo.Channel, error)
	ChannelPermissions(userID, channelID string) (int64, error)

	SendEmbed(channelID string, embed *discordgo.MessageEmbed) (*discordgo.Message, error)
	SendMessage(channelID string, msg *discordgo.MessageSend) (*discordgo.Message, error)
	RespondInteraction(i *discordgo.Interaction, embed *discordgo.MessageEmbed) error

	AddRole(guildID, userID, roleID, reason string) error
	RemoveRole(guildID, userID, roleID, reason string) error
	CreateRole(guildID string, params *discordgo.RoleParams, reason string) (*discordgo.Role, error)
	DeleteRole(guildID, roleID, reason string) error
}

type sessionClient struct {
	s       *discordgo.Session
	timeout time.Duration
}

// NewClient wraps a discordgo session. Every REST call is bounded by timeout.
func NewClient(s *discordgo.Session, timeout time.Duration) Client {
	return &sessionClient{s: s, timeout: timeout}
}

func (c *sessionClient) opts(reason string) ([]discordgo.RequestOption, context.CancelFunc) {
	ctx, cancel := context.WithTimeout(context.Background(), c.timeout)
	opts := []discordgo.RequestOption{discordgo.WithContext(ctx)}
	if reason != "" {
		opts = append(opts, discordgo.WithAuditLogReason(reason))
	}
	return opts, cancel
}

func (c *sessionClient) BotUser() *discordgo.User {
	if c.s.State == nil || c.s.State.User == nil {
		return nil
	}
	return c.s.State.User
}

func (c *sessionClient) HeartbeatLatency() time.Duration {
	return c.s.HeartbeatLatency()
}

func (c *sessionClient) Guild(guildID string) (*discordgo.Guild, error) {
	if guild, err := c.s.State.Guild(guildID); err == nil {
		return guild, nil
	}
	opts, cancel := c.opts("")
	defer cancel()
	guild, err := c.s.Guild(guildID, opts...)
	if err != nil {
		return nil, fmt.Errorf("fetch guild %s: %w", guildID, err)
	}
	return guild, nil
}

func (c *sessionClient) Member(guildID, userID string) (*discordgo.Member, error) {
	if member, err := c.s.State.Member(guildID, userID); err == nil {
		return member, nil
	}
	opts, cancel := c.opts("")
	defer cancel()
	member, err := c.s.GuildMember(guildID, userID, opts...)
	if err != nil {
		return nil, fmt.Errorf("fetch member %s: %w", userID, err)
	}
	return member, nil
}

func (c *sessionClient) Members(guildID string) ([]*discordgo.Member, error) {
	var (
		all   []*discordgo.Member
		after string
	)
	for {
		opts, cancel := c.opts("")
		page, err := c.s.GuildMembers(guildID, after, 1000, opts...)
		cancel()
		if err != nil {
			return all, fmt.Errorf("list members of %s: %w", guildID, err)
		}
		all = append(all, page...)
		if len(page) < 1000 {
			return all, nil
		}
		after = page[len(page)-1].User.ID
	}
}

func (c *sessionClient) Channel(channelID string) (*discordgo.Channel, error) {
	if ch, err := c.s.State.Channel(channelID); err == nil {
		return ch, nil
	}
	opts, cancel := c.opts("")
	defer cancel()
	ch, err := c.s.Channel(channelID, opts...)
	if err != nil {
		return nil, fmt.Errorf("fetch channel %s: %w", channelID, err)
	}
	return ch, nil
}

func (c *sessionClient) ChannelPermissions(userID, channelID string) (int64, error) {
	if perms, err := c.s.State.UserChannelPermissions(userID, channelID); err == nil {
		return perms, nil
	}
	opts, cancel := c.opts("")
	defer cancel()
	return c.s.UserChannelPermissions(userID, channelID, opts...)
}

func (c *sessionClient) SendEmbed(channelID string, embed *discordgo.MessageEmbed) (*discordgo.Message, error) {
	opts, cancel := c.opts("")
	defer cancel()
	return c.s.ChannelMessageSendEmbed(channelID, embed, opts...)
}

func (c *sessionClient) SendMessage(channelID string, msg *discordgo.MessageSend) (*discordgo.Message, error) {
	opts, cancel := c.opts("")
	defer cancel()
	return c.s.ChannelMessageSendComplex(channelID, msg, opts...)
}

func (c *sessionClient) RespondInteraction(i *discordgo.Interaction, embed *discordgo.MessageEmbed) error {
	opts, cancel := c.opts("")
	defer cancel()
	return c.s.InteractionRespond(i, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseChannelMessageWithSource,
		Data: &discordgo.InteractionResponseData{
			Embeds: []*discordgo.MessageEmbed{embed},
		},
	}, opts...)
}

func (c *sessionClient) AddRole(guildID, userID, roleID, reason string) error {
	opts, cancel := c.opts(reason)
	defer cancel()
	return c.s.GuildMemberRoleAdd(guildID, userID, roleID, opts...)
}

func (c *sessionClient) RemoveRole(guildID, userID, roleID, reason string) error {
	opts, cancel := c.opts(reason)
	defer cancel()
	return c.s.GuildMemberRoleRemove(guildID, userID, roleID, opts...)
}

func (c *sessionClient) CreateRole(guildID string, params *discordgo.RoleParams, reason string) (*discordgo.Role, error) {
	opts, cancel := c.opts(reason)
	defer cancel()
	return c.s.GuildRoleCreate(guildID, params, opts...)
}

func (c *sessionClient) DeleteRole(guildID, roleID, reason string) error {
	opts, cancel := c.opts(reason)
	defer cancel()
	return c.s.GuildRoleDelete(guildID, roleID, opts...)
}
