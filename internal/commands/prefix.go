package commands

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/bwmarrin/discordgo"

	"github.com/onevibe0405/Ferry/internal/notifier"
	"github.com/onevibe0405/Ferry/pkg/util"
)

const maxPrefixLen = 5

func prefixCommands() []*Command {
	return []*Command{
		{
			Name:        "setprefix",
			Aliases:     []string{"prefix"},
			Category:    categoryPrefix,
			Description: "Show or change the command prefix for this server",
			Usage:       "setprefix [new prefix]",
			Permission:  discordgo.PermissionManageServer,
			Run:         runSetPrefix,
		},
		{
			Name:        "noprefix",
			Aliases:     []string{"np"},
			Category:    categoryPrefix,
			Description: "Toggle whether a user can run commands without a prefix",
			Usage:       "noprefix @user",
			OwnerOnly:   true,
			Run:         runNoPrefix,
		},
		{
			Name:        "npusers",
			Category:    categoryPrefix,
			Description: "List users who can run commands without a prefix",
			Usage:       "npusers",
			OwnerOnly:   true,
			Run:         runNoPrefixUsers,
		},
	}
}

func runSetPrefix(c *Context) error {
	if c.GuildID == "" {
		return validationError("This command can only be used in a server.")
	}
	current := c.Store.Prefix(c.GuildID, c.DefaultPrefix)
	prefix := c.Arg(0)
	if prefix == "" {
		return c.Reply(notifier.Info("Prefix", fmt.Sprintf("The prefix here is `%s`.", current)))
	}
	if err := c.Require(discordgo.PermissionManageServer); err != nil {
		return err
	}
	if n := utf8.RuneCountInString(prefix); n > maxPrefixLen || len(c.Args) > 1 {
		return validationError("A prefix is 1 to %d characters without spaces.", maxPrefixLen)
	}

	if prefix == c.DefaultPrefix {
		c.Store.DeletePrefix(c.GuildID)
	} else {
		c.Store.SetPrefix(c.GuildID, prefix)
	}
	c.LogAction("Prefix Changed", "", fmt.Sprintf("`%s` → `%s`", current, prefix), false)
	return c.Reply(notifier.Success("Prefix Updated", fmt.Sprintf("The prefix is now `%s`.", prefix)))
}

func runNoPrefix(c *Context) error {
	if err := c.RequireOwner(); err != nil {
		return err
	}
	target := ""
	if mentions := c.Mentions(); len(mentions) > 0 {
		target = mentions[0].ID
	} else if id, ok := util.ParseUserMention(c.Arg(0)); ok {
		target = id
	}
	if target == "" {
		return c.Usage()
	}

	if c.Store.ToggleNoPrefix(target) {
		return c.Reply(notifier.Success("No-Prefix Enabled", fmt.Sprintf("<@%s> can now use commands without a prefix.", target)))
	}
	return c.Reply(notifier.Success("No-Prefix Disabled", fmt.Sprintf("<@%s> needs the prefix again.", target)))
}

func runNoPrefixUsers(c *Context) error {
	if err := c.RequireOwner(); err != nil {
		return err
	}
	users := c.Store.NoPrefixUsers()
	if len(users) == 0 {
		return c.Reply(notifier.Info("No-Prefix Users", "Nobody is on the list."))
	}
	lines := make([]string, 0, len(users))
	for i, id := range users {
		lines = append(lines, fmt.Sprintf("%d. <@%s> (`%s`)", i+1, id, id))
	}
	return c.Reply(notifier.Info("No-Prefix Users", strings.Join(lines, "\n")))
}
