package commands

import (
	"fmt"
	"strings"
	"time"

	"github.com/bwmarrin/discordgo"

	"github.com/onevibe0405/Ferry/internal/bot"
	"github.com/onevibe0405/Ferry/internal/config"
	"github.com/onevibe0405/Ferry/internal/database"
	"github.com/onevibe0405/Ferry/internal/logging"
	"github.com/onevibe0405/Ferry/internal/metrics"
	"github.com/onevibe0405/Ferry/internal/notifier"
	"github.com/onevibe0405/Ferry/internal/state"
	"github.com/onevibe0405/Ferry/internal/welcome"
	"github.com/onevibe0405/Ferry/pkg/util"
)

// Counter reports how many guilds and users the bot can see.
type Counter interface {
	Counts() (guilds, users int)
}

// Deps are the collaborators shared by the router and every handler.
type Deps struct {
	Client        bot.Client
	Counter       Counter
	Store         *config.Store
	Registry      *Registry
	State         *state.Runtime
	Metrics       *metrics.MetricsRegistry
	DB            *database.Database
	Reactor       *welcome.Reactor
	DefaultPrefix string
	OwnerID       string
	Now           func() time.Time
}

func (d *Deps) now() time.Time {
	if d.Now != nil {
		return d.Now()
	}
	return time.Now()
}

// Context is one command invocation, from a message or an interaction.
type Context struct {
	*Deps

	GuildID     string
	ChannelID   string
	Author      *discordgo.User
	Member      *discordgo.Member
	Message     *discordgo.Message
	Interaction *discordgo.Interaction
	Prefix      string
	Name        string
	Args        []string
	Command     *Command

	replied bool
}

// Reply sends embed to the invoking channel, or answers the interaction
// the first time it is called.
func (c *Context) Reply(embed *discordgo.MessageEmbed) error {
	if c.Interaction != nil && !c.replied {
		c.replied = true
		return c.Client.RespondInteraction(c.Interaction, embed)
	}
	_, err := c.Client.SendEmbed(c.ChannelID, embed)
	return err
}

// Mentions returns the users mentioned in the message, or for
// interactions the user ids found among the arguments.
func (c *Context) Mentions() []*discordgo.User {
	if c.Message != nil && len(c.Message.Mentions) > 0 {
		return c.Message.Mentions
	}
	var users []*discordgo.User
	for _, arg := range c.Args {
		if !strings.HasPrefix(arg, "<@") || strings.HasPrefix(arg, "<@&") {
			continue
		}
		if id, ok := util.ParseUserMention(arg); ok {
			users = append(users, &discordgo.User{ID: id})
		}
	}
	return users
}

// Arg returns the i-th argument or "".
func (c *Context) Arg(i int) string {
	if i < 0 || i >= len(c.Args) {
		return ""
	}
	return c.Args[i]
}

// Rest joins the arguments from i on.
func (c *Context) Rest(i int) string {
	if i >= len(c.Args) {
		return ""
	}
	return strings.Join(c.Args[i:], " ")
}

// Usage is the validation error for a wrong invocation shape.
func (c *Context) Usage() error {
	return validationError("Usage: `%s%s`", c.Prefix, c.Command.Usage)
}

func (c *Context) Guild() (*discordgo.Guild, error) {
	if c.GuildID == "" {
		return nil, validationError("This command can only be used in a server.")
	}
	return c.Client.Guild(c.GuildID)
}

// LogAction records a moderation action in the audit trail and posts it to
// the guild's log channel. Both sinks are optional.
func (c *Context) LogAction(action, targetID, detail string, failed bool) {
	if c.DB != nil {
		entry := &database.ActionLog{
			GuildID:  c.GuildID,
			Action:   action,
			ActorID:  c.Author.ID,
			TargetID: targetID,
			Detail:   detail,
			Success:  !failed,
		}
		if err := c.DB.LogAction(entry); err != nil {
			logging.Error("record %s in %s: %v", action, c.GuildID, err)
		}
	}
	entry := notifier.ActionLog{Action: action, ActorID: c.Author.ID, TargetID: targetID, Detail: detail, Failed: failed}
	if err := notifier.SendActionLog(c.Client, c.Store.LogChannel(c.GuildID), entry); err != nil {
		logging.Warn("log channel for %s: %v", c.GuildID, err)
	}
}

// resolveRole finds a role by mention, id or case-insensitive name.
func resolveRole(guild *discordgo.Guild, ref string) (*discordgo.Role, error) {
	if ref == "" {
		return nil, validationError("Please specify a role.")
	}
	if id, ok := util.ParseRoleMention(ref); ok {
		if role := bot.FindRole(guild, id); role != nil {
			return role, nil
		}
		return nil, notFoundError("Role Not Found", "No role with id `%s` exists.", id)
	}
	for _, role := range guild.Roles {
		if strings.EqualFold(role.Name, ref) {
			return role, nil
		}
	}
	return nil, notFoundError("Role Not Found", "No role named **%s** exists.", ref)
}

func auditReason(format string, args ...interface{}) string {
	return fmt.Sprintf(format, args...)
}
