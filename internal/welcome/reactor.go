// Package welcome applies autoroles and sends the welcome message when a
// member joins a guild.
package welcome

import (
	"fmt"

	"github.com/bwmarrin/discordgo"
	"github.com/hashicorp/go-multierror"

	"github.com/onevibe0405/Ferry/internal/bot"
	"github.com/onevibe0405/Ferry/internal/config"
	"github.com/onevibe0405/Ferry/internal/database"
	"github.com/onevibe0405/Ferry/internal/logging"
	"github.com/onevibe0405/Ferry/internal/notifier"
)

const autoroleReason = "Autorole assignment"

// AutoroleResult summarises one autorole run.
type AutoroleResult struct {
	Configured int
	Assigned   int
	Skipped    []string
	Err        error
}

func (r AutoroleResult) String() string {
	return fmt.Sprintf("%d of %d assigned", r.Assigned, r.Configured)
}

type Reactor struct {
	client bot.Client
	store  *config.Store
	db     *database.Database
}

// NewReactor builds a reactor. db may be nil.
func NewReactor(client bot.Client, store *config.Store, db *database.Database) *Reactor {
	return &Reactor{client: client, store: store, db: db}
}

// HandleMemberAdd runs autoroles for every joiner and the welcome message
// for humans. Nothing here returns an error to the caller.
func (r *Reactor) HandleMemberAdd(m *discordgo.GuildMemberAdd) {
	result := r.ApplyAutoroles(m.GuildID, m.Member)
	if result.Configured > 0 {
		logging.Info("autorole in %s for %s: %s", m.GuildID, m.User.ID, result)
		if result.Err != nil {
			logging.Warn("autorole failures in %s: %v", m.GuildID, result.Err)
		}
		r.record(m.GuildID, m.User.ID, result)
	}

	if m.User.Bot {
		return
	}
	if err := r.SendWelcome(m.GuildID, m.Member); err != nil {
		logging.Warn("welcome skipped in %s: %v", m.GuildID, err)
	}
}

// ApplyAutoroles grants the configured roles one at a time. Missing roles,
// missing permission and hierarchy problems skip a role without stopping
// the rest.
func (r *Reactor) ApplyAutoroles(guildID string, member *discordgo.Member) AutoroleResult {
	roleIDs := r.store.Autoroles(guildID, member.User.Bot)
	result := AutoroleResult{Configured: len(roleIDs)}
	if len(roleIDs) == 0 {
		return result
	}

	guild, err := r.client.Guild(guildID)
	if err != nil {
		result.Err = err
		return result
	}

	self := r.client.BotUser()
	if self == nil {
		result.Err = fmt.Errorf("bot user unknown")
		return result
	}
	botMember, err := r.client.Member(guildID, self.ID)
	if err != nil {
		result.Err = err
		return result
	}
	botPerms := bot.MemberPermissions(guild, botMember)
	botTop := bot.RolePosition(bot.HighestRole(guild, botMember.Roles))

	var errs *multierror.Error
	for _, roleID := range roleIDs {
		role := bot.FindRole(guild, roleID)
		switch {
		case role == nil:
			result.Skipped = append(result.Skipped, roleID)
			logging.Warn("autorole %s no longer exists in %s", roleID, guildID)
			continue
		case !bot.HasPermission(botPerms, discordgo.PermissionManageRoles):
			result.Skipped = append(result.Skipped, roleID)
			logging.Warn("autorole %s skipped in %s: missing Manage Roles", role.Name, guildID)
			continue
		case role.Position >= botTop:
			result.Skipped = append(result.Skipped, roleID)
			logging.Warn("autorole %s skipped in %s: above my highest role", role.Name, guildID)
			continue
		}

		if err := r.client.AddRole(guildID, member.User.ID, role.ID, autoroleReason); err != nil {
			errs = multierror.Append(errs, fmt.Errorf("role %s: %w", role.Name, err))
			continue
		}
		result.Assigned++
	}

	result.Err = errs.ErrorOrNil()
	return result
}

// SendWelcome renders and sends the configured welcome embed.
func (r *Reactor) SendWelcome(guildID string, member *discordgo.Member) error {
	cfg, ok := r.store.Welcome(guildID)
	if !ok || !cfg.Enabled {
		return nil
	}
	if cfg.ChannelID == "" || cfg.EmbedName == "" {
		return fmt.Errorf("welcome is enabled but channel or embed is not set")
	}

	channel, err := r.client.Channel(string(cfg.ChannelID))
	if err != nil {
		return fmt.Errorf("welcome channel %s: %w", cfg.ChannelID, err)
	}

	tpl, ok := r.store.EmbedTemplate(guildID, cfg.EmbedName)
	if !ok {
		return fmt.Errorf("embed template %q not found", cfg.EmbedName)
	}

	self := r.client.BotUser()
	if self != nil {
		perms, err := r.client.ChannelPermissions(self.ID, channel.ID)
		if err != nil {
			return fmt.Errorf("permissions in %s: %w", channel.ID, err)
		}
		if !bot.HasPermission(perms, discordgo.PermissionSendMessages|discordgo.PermissionEmbedLinks) {
			return fmt.Errorf("missing send permission in #%s", channel.Name)
		}
	}

	guild, err := r.client.Guild(guildID)
	if err != nil {
		return err
	}

	p := notifier.NewPlaceholders(member, guild, self, channel)
	msg := &discordgo.MessageSend{
		Content: p.Replace(cfg.Message),
		Embeds:  []*discordgo.MessageEmbed{notifier.RenderTemplate(tpl, p)},
	}
	if _, err := r.client.SendMessage(channel.ID, msg); err != nil {
		return fmt.Errorf("send welcome: %w", err)
	}
	return nil
}

func (r *Reactor) record(guildID, userID string, result AutoroleResult) {
	if r.db == nil {
		return
	}
	entry := &database.ActionLog{
		GuildID:  guildID,
		Action:   "autorole",
		TargetID: userID,
		Detail:   result.String(),
		Success:  result.Err == nil && result.Assigned == result.Configured,
	}
	if err := r.db.LogAction(entry); err != nil {
		logging.Error("record autorole: %v", err)
	}
}
