package commands

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/bwmarrin/discordgo"

	"github.com/onevibe0405/Ferry/internal/database"
	"github.com/onevibe0405/Ferry/internal/notifier"
	"github.com/onevibe0405/Ferry/pkg/util"
)

const (
	defaultModlogCount = 10
	maxModlogCount     = 25
)

func modlogCommands() []*Command {
	return []*Command{
		{
			Name:        "setlogs",
			Category:    categoryModlog,
			Description: "Set or turn off the moderation log channel",
			Usage:       "setlogs <#channel|off>",
			Permission:  discordgo.PermissionManageServer,
			Run:         runSetLogs,
		},
		{
			Name:        "modlogs",
			Category:    categoryModlog,
			Description: "Show recent moderation actions",
			Usage:       "modlogs [count]",
			Permission:  discordgo.PermissionManageServer,
			Run:         runModlogs,
		},
		{
			Name:        "warn",
			Category:    categoryModlog,
			Description: "Warn a member",
			Usage:       "warn @user <reason>",
			Permission:  discordgo.PermissionModerateMembers,
			Run:         runWarn,
		},
		{
			Name:        "warnings",
			Category:    categoryModlog,
			Description: "List a member's warnings",
			Usage:       "warnings @user",
			Permission:  discordgo.PermissionModerateMembers,
			Run:         runWarnings,
		},
		{
			Name:        "clearwarns",
			Category:    categoryModlog,
			Description: "Clear a member's warnings",
			Usage:       "clearwarns @user",
			Permission:  discordgo.PermissionModerateMembers,
			Run:         runClearWarnings,
		},
	}
}

func (c *Context) requireDB() (*database.Database, error) {
	if c.DB == nil {
		return nil, notFoundError("Database Unavailable", "The moderation database is not available right now.")
	}
	return c.DB, nil
}

func (c *Context) firstMentionedID() string {
	if mentions := c.Mentions(); len(mentions) > 0 {
		return mentions[0].ID
	}
	if id, ok := util.ParseUserMention(c.Arg(0)); ok {
		return id
	}
	return ""
}

func runSetLogs(c *Context) error {
	if err := c.Require(discordgo.PermissionManageServer); err != nil {
		return err
	}
	arg := c.Arg(0)
	if arg == "" {
		return c.Usage()
	}
	if strings.EqualFold(arg, "off") {
		c.Store.SetLogChannel(c.GuildID, "")
		return c.Reply(notifier.Success("Logs Disabled", "Moderation actions will no longer be posted."))
	}

	channelID, ok := util.ParseChannelMention(arg)
	if !ok {
		return c.Usage()
	}
	channel, err := c.Client.Channel(channelID)
	if err != nil || channel.GuildID != c.GuildID {
		return notFoundError("Channel Not Found", "<#%s> is not a channel in this server.", channelID)
	}
	c.Store.SetLogChannel(c.GuildID, channel.ID)
	return c.Reply(notifier.Success("Logs Enabled", fmt.Sprintf("Moderation actions will be posted in <#%s>.", channel.ID)))
}

func runModlogs(c *Context) error {
	if err := c.Require(discordgo.PermissionManageServer); err != nil {
		return err
	}
	db, err := c.requireDB()
	if err != nil {
		return err
	}
	count := defaultModlogCount
	if arg := c.Arg(0); arg != "" {
		n, err := strconv.Atoi(arg)
		if err != nil || n < 1 || n > maxModlogCount {
			return validationError("Pick a count between 1 and %d.", maxModlogCount)
		}
		count = n
	}

	actions, err := db.GetRecentActions(c.GuildID, count)
	if err != nil {
		return fmt.Errorf("load modlogs: %w", err)
	}
	if len(actions) == 0 {
		return c.Reply(notifier.Info("Moderation Log", "Nothing has been recorded yet."))
	}

	lines := make([]string, 0, len(actions))
	for _, a := range actions {
		mark := "✅"
		if !a.Success {
			mark = "❌"
		}
		line := fmt.Sprintf("%s <t:%d:R> **%s**", mark, a.Timestamp, a.Action)
		if a.ActorID != "" {
			line += fmt.Sprintf(" by <@%s>", a.ActorID)
		}
		if a.TargetID != "" {
			line += fmt.Sprintf(" on <@%s>", a.TargetID)
		}
		if a.Detail != "" {
			line += ": " + a.Detail
		}
		lines = append(lines, line)
	}
	return c.Reply(notifier.Info(fmt.Sprintf("Moderation Log (%d)", len(actions)), truncate(strings.Join(lines, "\n"), 4000)))
}

func runWarn(c *Context) error {
	if err := c.Require(discordgo.PermissionModerateMembers); err != nil {
		return err
	}
	db, err := c.requireDB()
	if err != nil {
		return err
	}
	target := c.firstMentionedID()
	args := c.Args
	if len(args) > 0 && util.IsSnowflake(args[0]) {
		args = args[1:]
	}
	reason := roleArgs(args)
	if target == "" || reason == "" {
		return c.Usage()
	}
	if target == c.Author.ID {
		return validationError("You cannot warn yourself.")
	}

	w := &database.Warning{GuildID: c.GuildID, UserID: target, ModeratorID: c.Author.ID, Reason: reason}
	if err := db.AddWarning(w); err != nil {
		return err
	}
	all, err := db.GetWarnings(c.GuildID, target)
	if err != nil {
		return err
	}
	c.LogAction("Member Warned", target, reason, false)
	return c.Reply(notifier.Warning("Member Warned", fmt.Sprintf("<@%s> was warned: %s\nThey now have %d warning(s).", target, reason, len(all))))
}

func runWarnings(c *Context) error {
	if err := c.Require(discordgo.PermissionModerateMembers); err != nil {
		return err
	}
	db, err := c.requireDB()
	if err != nil {
		return err
	}
	target := c.firstMentionedID()
	if target == "" {
		return c.Usage()
	}
	warnings, err := db.GetWarnings(c.GuildID, target)
	if err != nil {
		return err
	}
	if len(warnings) == 0 {
		return c.Reply(notifier.Info("Warnings", fmt.Sprintf("<@%s> has no warnings.", target)))
	}
	lines := make([]string, 0, len(warnings))
	for i, w := range warnings {
		lines = append(lines, fmt.Sprintf("%d. <t:%d:d> by <@%s>: %s", i+1, w.CreatedAt, w.ModeratorID, w.Reason))
	}
	return c.Reply(notifier.Info(fmt.Sprintf("Warnings (%d)", len(warnings)), truncate(strings.Join(lines, "\n"), 4000)))
}

func runClearWarnings(c *Context) error {
	if err := c.Require(discordgo.PermissionModerateMembers); err != nil {
		return err
	}
	db, err := c.requireDB()
	if err != nil {
		return err
	}
	target := c.firstMentionedID()
	if target == "" {
		return c.Usage()
	}
	n, err := db.ClearWarnings(c.GuildID, target)
	if err != nil {
		return err
	}
	c.LogAction("Warnings Cleared", target, fmt.Sprintf("%d removed", n), false)
	return c.Reply(notifier.Success("Warnings Cleared", fmt.Sprintf("Removed %d warning(s) from <@%s>.", n, target)))
}
