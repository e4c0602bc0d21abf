package commands

import (
	"fmt"
	"strings"

	"github.com/bwmarrin/discordgo"
	"github.com/hashicorp/go-multierror"

	"github.com/onevibe0405/Ferry/internal/bot"
	"github.com/onevibe0405/Ferry/internal/config"
	"github.com/onevibe0405/Ferry/internal/logging"
	"github.com/onevibe0405/Ferry/internal/notifier"
	"github.com/onevibe0405/Ferry/pkg/util"
)

const maxAutoroles = 10

func roleCommands() []*Command {
	return []*Command{
		{
			Name:        "addrole",
			Aliases:     []string{"ar"},
			Category:    categoryRoles,
			Description: "Give a role to a member",
			Usage:       "addrole @user <role>",
			Permission:  discordgo.PermissionManageRoles,
			Run:         runAddRole,
		},
		{
			Name:        "removerole",
			Aliases:     []string{"rr"},
			Category:    categoryRoles,
			Description: "Take a role from a member",
			Usage:       "removerole @user <role>",
			Permission:  discordgo.PermissionManageRoles,
			Run:         runRemoveRole,
		},
		{
			Name:        "createrole",
			Category:    categoryRoles,
			Description: "Create a role with an optional hex color",
			Usage:       "createrole <name> [#hex]",
			Permission:  discordgo.PermissionManageRoles,
			Run:         runCreateRole,
		},
		{
			Name:        "deleterole",
			Category:    categoryRoles,
			Description: "Delete a role",
			Usage:       "deleterole <role>",
			Permission:  discordgo.PermissionManageRoles,
			Run:         runDeleteRole,
		},
		{
			Name:        "massrole",
			Category:    categoryRoles,
			Description: "Give a role to the mentioned users, or to every human member",
			Usage:       "massrole <role> [@users...]",
			Permission:  discordgo.PermissionManageRoles,
			Run:         runMassRole,
		},
		{
			Name:        "autorole",
			Category:    categoryRoles,
			Description: "Manage roles given to new human members",
			Usage:       "autorole [add|remove <role> | clear]",
			Permission:  discordgo.PermissionAdministrator,
			Run:         func(c *Context) error { return runAutorole(c, false) },
		},
		{
			Name:        "autorolebot",
			Category:    categoryRoles,
			Description: "Manage roles given to new bots",
			Usage:       "autorolebot [add|remove <role> | clear]",
			Permission:  discordgo.PermissionAdministrator,
			Run:         func(c *Context) error { return runAutorole(c, true) },
		},
	}
}

// roleArgs drops user mentions so the remaining words name a role.
func roleArgs(args []string) string {
	out := make([]string, 0, len(args))
	for _, arg := range args {
		if strings.HasPrefix(arg, "<@") && !strings.HasPrefix(arg, "<@&") {
			continue
		}
		out = append(out, arg)
	}
	return strings.Join(out, " ")
}

// memberRoleTarget parses "@user <role>" and runs the role guards.
func memberRoleTarget(c *Context) (*discordgo.Member, *discordgo.Role, error) {
	if err := c.Require(discordgo.PermissionManageRoles); err != nil {
		return nil, nil, err
	}
	mentions := c.Mentions()
	ref := roleArgs(c.Args)
	if len(mentions) == 0 || ref == "" {
		return nil, nil, c.Usage()
	}

	guild, err := c.Guild()
	if err != nil {
		return nil, nil, err
	}
	role, err := resolveRole(guild, ref)
	if err != nil {
		return nil, nil, err
	}
	if err := c.checkRoleManageable(guild, role); err != nil {
		return nil, nil, err
	}
	member, err := c.Client.Member(c.GuildID, mentions[0].ID)
	if err != nil {
		if bot.IsNotFound(err) {
			return nil, nil, notFoundError("Member Not Found", "<@%s> is not a member of this server.", mentions[0].ID)
		}
		return nil, nil, err
	}
	return member, role, nil
}

func runAddRole(c *Context) error {
	member, role, err := memberRoleTarget(c)
	if err != nil {
		return err
	}
	if hasRole(member, role.ID) {
		return validationError("<@%s> already has **%s**.", member.User.ID, role.Name)
	}
	if err := c.Client.AddRole(c.GuildID, member.User.ID, role.ID, auditReason("Role added by %s", c.Author.Username)); err != nil {
		if bot.IsForbidden(err) {
			return forbiddenError("I don't have permission to manage **%s**.", role.Name)
		}
		return err
	}
	c.LogAction("Role Added", member.User.ID, fmt.Sprintf("**%s**", role.Name), false)
	return c.Reply(notifier.Success("Role Added", fmt.Sprintf("Added **%s** to <@%s>.", role.Name, member.User.ID)))
}

func runRemoveRole(c *Context) error {
	member, role, err := memberRoleTarget(c)
	if err != nil {
		return err
	}
	if !hasRole(member, role.ID) {
		return validationError("<@%s> does not have **%s**.", member.User.ID, role.Name)
	}
	if err := c.Client.RemoveRole(c.GuildID, member.User.ID, role.ID, auditReason("Role removed by %s", c.Author.Username)); err != nil {
		if bot.IsForbidden(err) {
			return forbiddenError("I don't have permission to manage **%s**.", role.Name)
		}
		return err
	}
	c.LogAction("Role Removed", member.User.ID, fmt.Sprintf("**%s**", role.Name), false)
	return c.Reply(notifier.Success("Role Removed", fmt.Sprintf("Removed **%s** from <@%s>.", role.Name, member.User.ID)))
}

func runCreateRole(c *Context) error {
	if err := c.Require(discordgo.PermissionManageRoles); err != nil {
		return err
	}
	if len(c.Args) == 0 {
		return c.Usage()
	}

	args := c.Args
	params := &discordgo.RoleParams{}
	if last := args[len(args)-1]; len(args) > 1 && strings.HasPrefix(last, "#") {
		color, err := config.ParseHexColor(last)
		if err != nil {
			return validationError("`%s` is not a valid hex color. Use a code like `#5865F2`.", last)
		}
		params.Color = &color
		args = args[:len(args)-1]
	}
	params.Name = strings.Join(args, " ")
	if len(params.Name) > 100 {
		return validationError("Role names are at most 100 characters.")
	}

	role, err := c.Client.CreateRole(c.GuildID, params, auditReason("Role created by %s", c.Author.Username))
	if err != nil {
		if bot.IsForbidden(err) {
			return forbiddenError("I don't have permission to create roles.")
		}
		return err
	}
	c.LogAction("Role Created", "", fmt.Sprintf("**%s**", role.Name), false)
	return c.Reply(notifier.Success("Role Created", fmt.Sprintf("Created <@&%s>.", role.ID)))
}

func runDeleteRole(c *Context) error {
	if err := c.Require(discordgo.PermissionManageRoles); err != nil {
		return err
	}
	ref := c.Rest(0)
	if ref == "" {
		return c.Usage()
	}
	guild, err := c.Guild()
	if err != nil {
		return err
	}
	role, err := resolveRole(guild, ref)
	if err != nil {
		return err
	}
	if role.ID == guild.ID || role.Managed {
		return validationError("**%s** cannot be deleted.", role.Name)
	}
	if err := c.checkRoleManageable(guild, role); err != nil {
		return err
	}
	if err := c.Client.DeleteRole(c.GuildID, role.ID, auditReason("Role deleted by %s", c.Author.Username)); err != nil {
		if bot.IsForbidden(err) {
			return forbiddenError("I don't have permission to delete **%s**.", role.Name)
		}
		return err
	}
	c.LogAction("Role Deleted", "", fmt.Sprintf("**%s**", role.Name), false)
	return c.Reply(notifier.Success("Role Deleted", fmt.Sprintf("Deleted **%s**.", role.Name)))
}

// runMassRole grants a role one member at a time so a failure on one
// member leaves the count of the others intact.
func runMassRole(c *Context) error {
	if err := c.Require(discordgo.PermissionManageRoles); err != nil {
		return err
	}
	ref := roleArgs(c.Args)
	if ref == "" {
		return c.Usage()
	}
	guild, err := c.Guild()
	if err != nil {
		return err
	}
	role, err := resolveRole(guild, ref)
	if err != nil {
		return err
	}
	if err := c.checkRoleManageable(guild, role); err != nil {
		return err
	}

	var targets []*discordgo.Member
	if mentions := c.Mentions(); len(mentions) > 0 {
		for _, u := range mentions {
			m, err := c.Client.Member(c.GuildID, u.ID)
			if err != nil {
				continue
			}
			targets = append(targets, m)
		}
	} else {
		members, err := c.Client.Members(c.GuildID)
		if err != nil {
			return err
		}
		for _, m := range members {
			if m.User != nil && !m.User.Bot {
				targets = append(targets, m)
			}
		}
	}
	if len(targets) == 0 {
		return notFoundError("No Members", "There is nobody to give **%s** to.", role.Name)
	}

	reason := auditReason("Mass role assignment by %s", c.Author.Username)
	assigned := 0
	var errs *multierror.Error
	for _, m := range targets {
		if hasRole(m, role.ID) {
			assigned++
			continue
		}
		if err := c.Client.AddRole(c.GuildID, m.User.ID, role.ID, reason); err != nil {
			errs = multierror.Append(errs, fmt.Errorf("%s: %w", m.User.Username, err))
			continue
		}
		assigned++
	}

	summary := fmt.Sprintf("Added **%s** to %d of %d members.", role.Name, assigned, len(targets))
	c.LogAction("Mass Role", "", summary, errs != nil)
	if err := errs.ErrorOrNil(); err != nil {
		logging.Warn("massrole %s in %s: %v", role.ID, c.GuildID, err)
		embed := notifier.Warning("Mass Role Finished", summary)
		embed.Fields = []*discordgo.MessageEmbedField{{
			Name:  "Failed",
			Value: truncate(failedList(errs), 1000),
		}}
		return c.Reply(embed)
	}
	return c.Reply(notifier.Success("Mass Role Finished", summary))
}

func failedList(errs *multierror.Error) string {
	lines := make([]string, 0, len(errs.Errors))
	for _, err := range errs.Errors {
		lines = append(lines, err.Error())
	}
	return strings.Join(lines, "\n")
}

func runAutorole(c *Context, bots bool) error {
	if err := c.Require(discordgo.PermissionAdministrator); err != nil {
		return err
	}
	kind := "new members"
	if bots {
		kind = "new bots"
	}

	sub := strings.ToLower(c.Arg(0))
	switch sub {
	case "":
		return showAutoroles(c, bots, kind)
	case "clear", "none", "disable":
		c.Store.SetAutoroles(c.GuildID, bots, nil)
		c.LogAction("Autoroles Cleared", "", kind, false)
		return c.Reply(notifier.Success("Autoroles Cleared", fmt.Sprintf("No roles will be given to %s.", kind)))
	}

	ref := c.Rest(1)
	if sub != "add" && sub != "remove" {
		sub, ref = "add", c.Rest(0)
	}
	if ref == "" {
		return c.Usage()
	}
	guild, err := c.Guild()
	if err != nil {
		return err
	}
	current := c.Store.Autoroles(c.GuildID, bots)

	if sub == "remove" {
		return removeAutorole(c, guild, current, ref, bots, kind)
	}

	role, err := resolveRole(guild, ref)
	if err != nil {
		return err
	}
	if role.ID == guild.ID || role.Managed {
		return validationError("**%s** cannot be given automatically.", role.Name)
	}
	if err := c.checkRoleManageable(guild, role); err != nil {
		return err
	}
	if containsID(current, role.ID) {
		return validationError("**%s** is already given to %s.", role.Name, kind)
	}
	if len(current) >= maxAutoroles {
		return validationError("At most %d autoroles can be set.", maxAutoroles)
	}
	c.Store.SetAutoroles(c.GuildID, bots, append(current, role.ID))
	c.LogAction("Autorole Added", "", fmt.Sprintf("**%s** for %s", role.Name, kind), false)
	return c.Reply(notifier.Success("Autorole Added", fmt.Sprintf("%s will get **%s**.", capitalize(kind), role.Name)))
}

// removeAutorole matches a raw id against the stored list first so roles
// deleted since they were configured can still be removed.
func removeAutorole(c *Context, guild *discordgo.Guild, current []string, ref string, bots bool, kind string) error {
	var id, label string
	if raw, ok := util.ParseRoleMention(ref); ok && containsID(current, raw) {
		id, label = raw, "`"+raw+"`"
		if role := bot.FindRole(guild, raw); role != nil {
			label = role.Name
		}
	} else {
		role, err := resolveRole(guild, ref)
		if err != nil {
			return err
		}
		id, label = role.ID, role.Name
	}

	kept := current[:0:0]
	for _, existing := range current {
		if existing != id {
			kept = append(kept, existing)
		}
	}
	if len(kept) == len(current) {
		return notFoundError("Not an Autorole", "**%s** is not given to %s.", label, kind)
	}
	c.Store.SetAutoroles(c.GuildID, bots, kept)
	c.LogAction("Autorole Removed", "", fmt.Sprintf("**%s** for %s", label, kind), false)
	return c.Reply(notifier.Success("Autorole Removed", fmt.Sprintf("**%s** will no longer be given to %s.", label, kind)))
}

func containsID(ids []string, id string) bool {
	for _, existing := range ids {
		if existing == id {
			return true
		}
	}
	return false
}

func showAutoroles(c *Context, bots bool, kind string) error {
	ids := c.Store.Autoroles(c.GuildID, bots)
	if len(ids) == 0 {
		return c.Reply(notifier.Info("Autoroles", fmt.Sprintf("No roles are given to %s.", kind)))
	}
	guild, err := c.Guild()
	if err != nil {
		return err
	}
	lines := make([]string, 0, len(ids))
	for _, id := range ids {
		if bot.FindRole(guild, id) != nil {
			lines = append(lines, fmt.Sprintf("<@&%s>", id))
		} else {
			lines = append(lines, fmt.Sprintf("`%s` (deleted)", id))
		}
	}
	return c.Reply(notifier.Info("Autoroles for "+kind, strings.Join(lines, "\n")))
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}
