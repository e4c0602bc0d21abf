package bot

import (
	"testing"

	"github.com/bwmarrin/discordgo"
	"github.com/stretchr/testify/assert"
)

func testGuild() *discordgo.Guild {
	return &discordgo.Guild{
		ID:      "g",
		OwnerID: "owner",
		Roles: []*discordgo.Role{
			{ID: "g", Position: 0, Permissions: discordgo.PermissionSendMessages},
			{ID: "mod", Position: 5, Permissions: discordgo.PermissionManageRoles},
			{ID: "admin", Position: 9, Permissions: discordgo.PermissionAdministrator},
			{ID: "member", Position: 2},
		},
	}
}

func TestHighestRole(t *testing.T) {
	g := testGuild()
	assert.Equal(t, "mod", HighestRole(g, []string{"member", "mod", "gone"}).ID)
	assert.Nil(t, HighestRole(g, nil))
	assert.Equal(t, 0, RolePosition(nil))
}

func TestMemberPermissions(t *testing.T) {
	g := testGuild()

	plain := MemberPermissions(g, &discordgo.Member{User: &discordgo.User{ID: "u"}, Roles: []string{"member"}})
	assert.True(t, HasPermission(plain, discordgo.PermissionSendMessages))
	assert.False(t, HasPermission(plain, discordgo.PermissionManageRoles))

	mod := MemberPermissions(g, &discordgo.Member{User: &discordgo.User{ID: "u"}, Roles: []string{"mod"}})
	assert.True(t, HasPermission(mod, discordgo.PermissionManageRoles))

	admin := MemberPermissions(g, &discordgo.Member{User: &discordgo.User{ID: "u"}, Roles: []string{"admin"}})
	assert.Equal(t, int64(discordgo.PermissionAll), admin)

	owner := MemberPermissions(g, &discordgo.Member{User: &discordgo.User{ID: "owner"}})
	assert.True(t, HasPermission(owner, discordgo.PermissionBanMembers))
}
