package bot

import (
	"github.com/bwmarrin/discordgo"
)

// HighestRole returns the highest-positioned role among roleIDs, or nil.
func HighestRole(guild *discordgo.Guild, roleIDs []string) *discordgo.Role {
	var highest *discordgo.Role
	for _, roleID := range roleIDs {
		role := FindRole(guild, roleID)
		if role == nil {
			continue
		}
		if highest == nil || role.Position > highest.Position {
			highest = role
		}
	}
	return highest
}

// RolePosition treats a member without roles as holding @everyone.
func RolePosition(role *discordgo.Role) int {
	if role == nil {
		return 0
	}
	return role.Position
}

func FindRole(guild *discordgo.Guild, roleID string) *discordgo.Role {
	for _, role := range guild.Roles {
		if role.ID == roleID {
			return role
		}
	}
	return nil
}

// MemberPermissions computes guild-level permissions from the member's
// roles. The owner and administrators hold every permission.
func MemberPermissions(guild *discordgo.Guild, member *discordgo.Member) int64 {
	if member.User != nil && member.User.ID == guild.OwnerID {
		return discordgo.PermissionAll
	}

	var perms int64
	if everyone := FindRole(guild, guild.ID); everyone != nil {
		perms |= everyone.Permissions
	}
	for _, roleID := range member.Roles {
		if role := FindRole(guild, roleID); role != nil {
			perms |= role.Permissions
		}
	}

	if perms&discordgo.PermissionAdministrator != 0 {
		return discordgo.PermissionAll
	}
	return perms
}

func HasPermission(perms, want int64) bool {
	return perms&discordgo.PermissionAdministrator != 0 || perms&want == want
}
