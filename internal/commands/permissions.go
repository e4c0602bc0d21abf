package commands

import (
	"github.com/bwmarrin/discordgo"

	"github.com/onevibe0405/Ferry/internal/bot"
)

// Require fails unless the invoker holds perm in the guild. The guild
// owner and administrators hold every permission.
func (c *Context) Require(perm int64) error {
	guild, err := c.Guild()
	if err != nil {
		return err
	}
	member := c.Member
	if member == nil {
		if member, err = c.Client.Member(c.GuildID, c.Author.ID); err != nil {
			return err
		}
	}
	if !bot.HasPermission(bot.MemberPermissions(guild, member), perm) {
		return permissionError("You need the **%s** permission to use this command.", permissionName(perm))
	}
	return nil
}

// RequireOwner restricts a command to the bot owner.
func (c *Context) RequireOwner() error {
	if c.OwnerID != "" && c.Author.ID == c.OwnerID {
		return nil
	}
	return permissionError("Only the bot owner can use this command.")
}

// checkRoleManageable applies the hierarchy guard for the bot and the
// author guard for the invoker. Guild state is re-read by the caller
// right before this check.
func (c *Context) checkRoleManageable(guild *discordgo.Guild, role *discordgo.Role) error {
	self := c.Client.BotUser()
	if self == nil {
		return hierarchyError("I could not determine my own roles.")
	}
	botMember, err := c.Client.Member(guild.ID, self.ID)
	if err != nil {
		return err
	}
	if role.Position >= bot.RolePosition(bot.HighestRole(guild, botMember.Roles)) {
		return hierarchyError("I cannot manage **%s** because it is equal to or higher than my highest role.", role.Name)
	}

	if c.Author.ID == guild.OwnerID {
		return nil
	}
	author, err := c.Client.Member(guild.ID, c.Author.ID)
	if err != nil {
		return err
	}
	if role.Position >= bot.RolePosition(bot.HighestRole(guild, author.Roles)) {
		return permissionError("You cannot manage **%s** because it is equal to or higher than your highest role.", role.Name)
	}
	return nil
}

func permissionName(perm int64) string {
	switch perm {
	case discordgo.PermissionManageRoles:
		return "Manage Roles"
	case discordgo.PermissionManageServer:
		return "Manage Server"
	case discordgo.PermissionAdministrator:
		return "Administrator"
	case discordgo.PermissionModerateMembers:
		return "Moderate Members"
	case discordgo.PermissionManageMessages:
		return "Manage Messages"
	default:
		return "required"
	}
}
