package commands

import (
	"fmt"

	"github.com/bwmarrin/discordgo"

	"github.com/onevibe0405/Ferry/internal/bot"
	"github.com/onevibe0405/Ferry/internal/config"
	"github.com/onevibe0405/Ferry/internal/logging"
	"github.com/onevibe0405/Ferry/internal/notifier"
)

// ExecuteCustom toggles the role bound to a custom command on the first
// mentioned user. At most one role mutation and one reply happen.
func ExecuteCustom(c *Context, name string, cmd config.CustomCommand) error {
	mentions := c.Mentions()
	if len(mentions) == 0 {
		return validationError("Usage: `%s%s @username`", c.Prefix, name)
	}
	target := mentions[0]

	guild, err := c.Guild()
	if err != nil {
		return err
	}
	role := bot.FindRole(guild, string(cmd.RoleID))
	if role == nil {
		display := cmd.RoleName
		if display == "" {
			display = string(cmd.RoleID)
		}
		return notFoundError("Role Missing",
			"The role **%s** for `%s` no longer exists. Recreate the command with `%saddcmd %s <role>`.",
			display, name, c.Prefix, name)
	}

	if err := c.checkRoleManageable(guild, role); err != nil {
		return err
	}

	member, err := c.Client.Member(c.GuildID, target.ID)
	if err != nil {
		if bot.IsNotFound(err) {
			return notFoundError("Member Not Found", "<@%s> is not a member of this server.", target.ID)
		}
		return err
	}

	reason := auditReason("Custom command: %s by %s", name, c.Author.Username)
	has := hasRole(member, role.ID)
	if has {
		err = c.Client.RemoveRole(c.GuildID, target.ID, role.ID, reason)
	} else {
		err = c.Client.AddRole(c.GuildID, target.ID, role.ID, reason)
	}
	if err != nil {
		if bot.IsForbidden(err) {
			return forbiddenError("I don't have permission to manage **%s**.", role.Name)
		}
		return fmt.Errorf("toggle role %s: %w", role.ID, err)
	}

	var embed *discordgo.MessageEmbed
	action := "Role Added"
	if has {
		action = "Role Removed"
		embed = notifier.Success(action, fmt.Sprintf("Removed **%s** from <@%s>.", role.Name, target.ID))
	} else {
		embed = notifier.Success(action, fmt.Sprintf("Gave **%s** to <@%s>.", role.Name, target.ID))
	}
	logging.Info("custom command %s in %s: %s %s on %s by %s", name, c.GuildID, action, role.ID, target.ID, c.Author.ID)
	c.LogAction(action, target.ID, fmt.Sprintf("`%s` toggled **%s**", name, role.Name), false)
	return c.Reply(embed)
}

func hasRole(member *discordgo.Member, roleID string) bool {
	for _, id := range member.Roles {
		if id == roleID {
			return true
		}
	}
	return false
}
