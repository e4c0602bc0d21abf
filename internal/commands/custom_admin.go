package commands

import (
	"fmt"
	"regexp"
	"sort"
	"strings"

	"github.com/bwmarrin/discordgo"

	"github.com/onevibe0405/Ferry/internal/bot"
	"github.com/onevibe0405/Ferry/internal/config"
	"github.com/onevibe0405/Ferry/internal/notifier"
)

var commandNamePattern = regexp.MustCompile(`^[a-z0-9_-]{1,32}$`)

func customCommandAdmin() []*Command {
	return []*Command{
		{
			Name:        "addcmd",
			Category:    categoryCustom,
			Description: "Create a command that toggles a role on the mentioned user",
			Usage:       "addcmd <name> <role>",
			Permission:  discordgo.PermissionManageRoles,
			Run:         runAddCustom,
		},
		{
			Name:        "delcmd",
			Aliases:     []string{"removecmd"},
			Category:    categoryCustom,
			Description: "Delete a custom command",
			Usage:       "delcmd <name>",
			Permission:  discordgo.PermissionManageRoles,
			Run:         runDeleteCustom,
		},
		{
			Name:        "listcmds",
			Aliases:     []string{"cmds"},
			Category:    categoryCustom,
			Description: "List the custom commands of this server",
			Usage:       "listcmds",
			Run:         runListCustom,
		},
	}
}

func aliasCommands() []*Command {
	return []*Command{
		{
			Name:        "addalias",
			Category:    categoryAliases,
			Description: "Add a short name for a command in this server",
			Usage:       "addalias <alias> <command>",
			Permission:  discordgo.PermissionManageServer,
			Run:         runAddAlias,
		},
		{
			Name:        "delalias",
			Aliases:     []string{"removealias"},
			Category:    categoryAliases,
			Description: "Remove a command alias",
			Usage:       "delalias <alias>",
			Permission:  discordgo.PermissionManageServer,
			Run:         runDeleteAlias,
		},
		{
			Name:        "listalias",
			Aliases:     []string{"aliases"},
			Category:    categoryAliases,
			Description: "List the command aliases of this server",
			Usage:       "listalias",
			Run:         runListAliases,
		},
	}
}

func runAddCustom(c *Context) error {
	if err := c.Require(discordgo.PermissionManageRoles); err != nil {
		return err
	}
	name := strings.ToLower(c.Arg(0))
	if name == "" || len(c.Args) < 2 {
		return c.Usage()
	}
	if !commandNamePattern.MatchString(name) {
		return validationError("Command names use 1 to 32 lowercase letters, digits, `-` or `_`.")
	}
	if c.Registry.Has(name) {
		return validationError("`%s` is a built-in command and cannot be replaced.", name)
	}
	if _, ok := c.Store.Alias(c.GuildID, name); ok {
		return validationError("`%s` is already an alias. Remove it with `%sdelalias %s` first.", name, c.Prefix, name)
	}

	guild, err := c.Guild()
	if err != nil {
		return err
	}
	role, err := resolveRole(guild, c.Rest(1))
	if err != nil {
		return err
	}
	if role.ID == guild.ID || role.Managed {
		return validationError("**%s** cannot be assigned by a command.", role.Name)
	}
	if err := c.checkRoleManageable(guild, role); err != nil {
		return err
	}

	_, existed := c.Store.CustomCommand(c.GuildID, name)
	c.Store.SetCustomCommand(c.GuildID, name, config.CustomCommand{
		RoleID:   config.Snowflake(role.ID),
		RoleName: role.Name,
	})
	c.LogAction("Custom Command Added", "", fmt.Sprintf("`%s` → **%s**", name, role.Name), false)

	title := "Command Created"
	if existed {
		title = "Command Updated"
	}
	return c.Reply(notifier.Success(title, fmt.Sprintf("`%s%s @user` now toggles **%s**.", c.Prefix, name, role.Name)))
}

func runDeleteCustom(c *Context) error {
	if err := c.Require(discordgo.PermissionManageRoles); err != nil {
		return err
	}
	name := strings.ToLower(c.Arg(0))
	if name == "" {
		return c.Usage()
	}
	if !c.Store.DeleteCustomCommand(c.GuildID, name) {
		return notFoundError("Command Not Found", "There is no custom command named `%s`.", name)
	}
	c.LogAction("Custom Command Deleted", "", fmt.Sprintf("`%s`", name), false)
	return c.Reply(notifier.Success("Command Deleted", fmt.Sprintf("Removed `%s`.", name)))
}

func runListCustom(c *Context) error {
	if c.GuildID == "" {
		return validationError("This command can only be used in a server.")
	}
	cmds := c.Store.CustomCommands(c.GuildID)
	if len(cmds) == 0 {
		return c.Reply(notifier.Info("Custom Commands", fmt.Sprintf("None yet. Create one with `%saddcmd <name> <role>`.", c.Prefix)))
	}

	guild, err := c.Guild()
	if err != nil {
		return err
	}
	names := make([]string, 0, len(cmds))
	for name := range cmds {
		names = append(names, name)
	}
	sort.Strings(names)

	lines := make([]string, 0, len(names))
	for _, name := range names {
		cmd := cmds[name]
		if role := bot.FindRole(guild, string(cmd.RoleID)); role != nil {
			lines = append(lines, fmt.Sprintf("`%s` → <@&%s>", name, role.ID))
		} else {
			lines = append(lines, fmt.Sprintf("`%s` → ~~%s~~ (role deleted)", name, cmd.RoleName))
		}
	}
	return c.Reply(notifier.Info(fmt.Sprintf("Custom Commands (%d)", len(names)), strings.Join(lines, "\n")))
}

func runAddAlias(c *Context) error {
	if err := c.Require(discordgo.PermissionManageServer); err != nil {
		return err
	}
	alias, target := strings.ToLower(c.Arg(0)), strings.ToLower(c.Arg(1))
	if alias == "" || target == "" {
		return c.Usage()
	}
	if !commandNamePattern.MatchString(alias) {
		return validationError("Aliases use 1 to 32 lowercase letters, digits, `-` or `_`.")
	}
	if c.Registry.Has(alias) {
		return validationError("`%s` is already a built-in command.", alias)
	}
	if alias == target {
		return validationError("An alias cannot point to itself.")
	}

	if cmd := c.Registry.Lookup(target); cmd != nil {
		target = cmd.Name
	} else if _, ok := c.Store.CustomCommand(c.GuildID, target); !ok {
		return notFoundError("Command Not Found", "`%s` is neither a built-in nor a custom command.", target)
	}

	c.Store.SetAlias(c.GuildID, alias, target)
	c.LogAction("Alias Added", "", fmt.Sprintf("`%s` → `%s`", alias, target), false)
	return c.Reply(notifier.Success("Alias Added", fmt.Sprintf("`%s%s` now runs `%s`.", c.Prefix, alias, target)))
}

func runDeleteAlias(c *Context) error {
	if err := c.Require(discordgo.PermissionManageServer); err != nil {
		return err
	}
	alias := strings.ToLower(c.Arg(0))
	if alias == "" {
		return c.Usage()
	}
	if !c.Store.DeleteAlias(c.GuildID, alias) {
		return notFoundError("Alias Not Found", "There is no alias named `%s`.", alias)
	}
	c.LogAction("Alias Removed", "", fmt.Sprintf("`%s`", alias), false)
	return c.Reply(notifier.Success("Alias Removed", fmt.Sprintf("Removed `%s`.", alias)))
}

func runListAliases(c *Context) error {
	if c.GuildID == "" {
		return validationError("This command can only be used in a server.")
	}
	aliases := c.Store.Aliases(c.GuildID)
	if len(aliases) == 0 {
		return c.Reply(notifier.Info("Aliases", "No aliases are set in this server."))
	}
	names := make([]string, 0, len(aliases))
	for alias := range aliases {
		names = append(names, alias)
	}
	sort.Strings(names)
	lines := make([]string, 0, len(names))
	for _, alias := range names {
		lines = append(lines, fmt.Sprintf("`%s` → `%s`", alias, aliases[alias]))
	}
	return c.Reply(notifier.Info(fmt.Sprintf("Aliases (%d)", len(names)), strings.Join(lines, "\n")))
}
