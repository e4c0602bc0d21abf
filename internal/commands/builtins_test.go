package commands

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/onevibe0405/Ferry/internal/config"
	"github.com/onevibe0405/Ferry/internal/database"
)

func TestAddCustomCommand(t *testing.T) {
	f := newFixture(t)

	f.route(ownerID, "!addcmd VIP <@&"+memberRoleID+">")

	cmd, ok := f.store.CustomCommand(guildID, "vip")
	require.True(t, ok)
	assert.Equal(t, config.Snowflake(memberRoleID), cmd.RoleID)
	assert.Equal(t, "Member", cmd.RoleName)
	assert.Equal(t, "✅ Command Created", f.client.LastEmbed().Title)
}

func TestAddCustomCommandRefusesBuiltinNames(t *testing.T) {
	f := newFixture(t)

	f.route(ownerID, "!addcmd ar Member")
	_, ok := f.store.CustomCommand(guildID, "ar")
	assert.False(t, ok)
	assert.Equal(t, "❌ Invalid Input", f.client.LastEmbed().Title)
}

func TestAddCustomCommandRequiresManageRoles(t *testing.T) {
	f := newFixture(t)

	f.route(userID, "!addcmd vip Member")
	_, ok := f.store.CustomCommand(guildID, "vip")
	assert.False(t, ok)
	assert.Equal(t, "❌ Permission Error", f.client.LastEmbed().Title)
}

func TestDeleteCustomCommand(t *testing.T) {
	f := newFixture(t)
	f.addCustom("vip", memberRoleID, "Member")

	f.route(modID, "!removecmd vip")
	_, ok := f.store.CustomCommand(guildID, "vip")
	assert.False(t, ok)

	f.route(modID, "!delcmd vip")
	assert.Equal(t, "❌ Command Not Found", f.client.LastEmbed().Title)
}

func TestAddAlias(t *testing.T) {
	f := newFixture(t)

	f.route(ownerID, "!addalias p ping")
	target, ok := f.store.Alias(guildID, "p")
	require.True(t, ok)
	assert.Equal(t, "ping", target)

	f.route(ownerID, "!addalias lat latency")
	target, _ = f.store.Alias(guildID, "lat")
	assert.Equal(t, "ping", target)

	f.route(ownerID, "!addalias help ping")
	_, ok = f.store.Alias(guildID, "help")
	assert.False(t, ok)
	assert.Equal(t, "❌ Invalid Input", f.client.LastEmbed().Title)

	f.route(ownerID, "!addalias q nothing")
	_, ok = f.store.Alias(guildID, "q")
	assert.False(t, ok)
	assert.Equal(t, "❌ Command Not Found", f.client.LastEmbed().Title)
}

func TestAddRoleAndRemoveRole(t *testing.T) {
	f := newFixture(t)

	f.route(modID, "!addrole <@"+userID+"> Member", userID)
	assert.Contains(t, f.client.MemberRoles(guildID, userID), memberRoleID)
	assert.Equal(t, "✅ Role Added", f.client.LastEmbed().Title)

	f.route(modID, "!rr <@"+userID+"> <@&"+memberRoleID+">", userID)
	assert.NotContains(t, f.client.MemberRoles(guildID, userID), memberRoleID)
	assert.Equal(t, "✅ Role Removed", f.client.LastEmbed().Title)
}

func TestAddRoleHierarchy(t *testing.T) {
	f := newFixture(t)

	f.route(ownerID, "!addrole <@"+userID+"> Admin", userID)
	assert.Empty(t, f.client.RoleCalls)
	assert.Equal(t, "❌ Hierarchy Error", f.client.LastEmbed().Title)
}

func TestCreateRoleValidatesColor(t *testing.T) {
	f := newFixture(t)

	f.route(ownerID, "!createrole Cool #zzzzzz")
	assert.Equal(t, "❌ Invalid Input", f.client.LastEmbed().Title)

	f.route(ownerID, "!createrole Cool People #5865F2")
	assert.Equal(t, "✅ Role Created", f.client.LastEmbed().Title)
	g, err := f.client.Guild(guildID)
	require.NoError(t, err)
	var found bool
	for _, r := range g.Roles {
		if r.Name == "Cool People" {
			found = true
			assert.Equal(t, 0x5865F2, r.Color)
		}
	}
	assert.True(t, found)
}

func TestMassRole(t *testing.T) {
	f := newFixture(t)

	f.route(ownerID, "!massrole Member")

	embed := f.client.LastEmbed()
	assert.Equal(t, "✅ Mass Role Finished", embed.Title)
	assert.Equal(t, "Added **Member** to 3 of 3 members.", embed.Description)
	assert.NotContains(t, f.client.MemberRoles(guildID, botID), memberRoleID)
	for _, id := range []string{ownerID, modID, userID} {
		assert.Contains(t, f.client.MemberRoles(guildID, id), memberRoleID)
	}
}

func TestMassRolePartialFailure(t *testing.T) {
	f := newFixture(t)
	f.client.RoleErr[memberRoleID] = assert.AnError

	f.route(ownerID, "!massrole Member <@"+userID+">", userID)

	embed := f.client.LastEmbed()
	assert.Equal(t, "⚠️ Mass Role Finished", embed.Title)
	assert.Equal(t, "Added **Member** to 0 of 1 members.", embed.Description)
}

func TestAutoroleCommands(t *testing.T) {
	f := newFixture(t)

	f.route(ownerID, "!autorole add Member")
	f.route(ownerID, "!autorolebot <@&"+midRoleID+">")
	assert.Equal(t, []string{memberRoleID}, f.store.Autoroles(guildID, false))
	assert.Equal(t, []string{midRoleID}, f.store.Autoroles(guildID, true))

	f.route(ownerID, "!autorole add Admin")
	assert.Equal(t, "❌ Hierarchy Error", f.client.LastEmbed().Title)

	f.route(ownerID, "!autorole remove Member")
	assert.Empty(t, f.store.Autoroles(guildID, false))

	f.route(modID, "!autorolebot clear")
	assert.Equal(t, "❌ Permission Error", f.client.LastEmbed().Title)
	f.route(ownerID, "!autorolebot clear")
	assert.Empty(t, f.store.Autoroles(guildID, true))
}

func TestAutoroleRemoveDeletedRole(t *testing.T) {
	f := newFixture(t)
	const goneRoleID = "200000000000000099"
	f.store.SetAutoroles(guildID, false, []string{memberRoleID, goneRoleID})

	f.route(ownerID, "!autorole remove "+goneRoleID)

	assert.Equal(t, "✅ Autorole Removed", f.client.LastEmbed().Title)
	assert.Contains(t, f.client.LastEmbed().Description, goneRoleID)
	assert.Equal(t, []string{memberRoleID}, f.store.Autoroles(guildID, false))

	f.route(ownerID, "!autorole remove "+goneRoleID)
	assert.Equal(t, "❌ Role Not Found", f.client.LastEmbed().Title)
}

func TestSetPrefix(t *testing.T) {
	f := newFixture(t)

	f.route(ownerID, "!setprefix toolong")
	assert.Equal(t, "❌ Invalid Input", f.client.LastEmbed().Title)

	f.route(ownerID, "!setprefix $")
	assert.Equal(t, "$", f.store.Prefix(guildID, "!"))
	assert.Equal(t, RoutePrefixBuiltin, f.route(userID, "$ping"))

	f.route(userID, "$setprefix ?")
	assert.Equal(t, "❌ Permission Error", f.client.LastEmbed().Title)
}

func TestNoPrefixIsOwnerOnly(t *testing.T) {
	f := newFixture(t)

	f.route(modID, "!noprefix <@"+userID+">", userID)
	assert.False(t, f.store.IsNoPrefixUser(userID))

	f.route(ownerID, "!np <@"+userID+">", userID)
	assert.True(t, f.store.IsNoPrefixUser(userID))
	assert.Equal(t, RouteNoPrefixBuiltin, f.route(userID, "ping"))
}

func TestWelcomeSetup(t *testing.T) {
	f := newFixture(t)

	f.route(ownerID, "!embedadd hello Welcome {username} | You are member {member_count} | #57F287")
	tpl, ok := f.store.EmbedTemplate(guildID, "hello")
	require.True(t, ok)
	assert.Equal(t, "Welcome {username}", tpl.Title)
	assert.Equal(t, config.EmbedColor(0x57F287), tpl.Color)

	f.route(ownerID, "!setwelcome <#"+channelID+"> hello Hi {user}!")
	w, ok := f.store.Welcome(guildID)
	require.True(t, ok)
	assert.True(t, w.Enabled)
	assert.Equal(t, "Hi {user}!", w.Message)

	f.client.Reset()
	f.route(ownerID, "!testwelcome")
	require.Len(t, f.client.Sent, 2)
	assert.Equal(t, "Hi <@"+ownerID+">!", f.client.Sent[0].Content)
	assert.Equal(t, "Welcome user"+ownerID, f.client.Sent[0].Embed.Title)
	assert.Equal(t, "✅ Test Sent", f.client.Sent[1].Embed.Title)

	f.route(ownerID, "!togglewelcome")
	w, _ = f.store.Welcome(guildID)
	assert.False(t, w.Enabled)
}

func TestWarnings(t *testing.T) {
	f := newFixture(t)
	db, err := database.Open(filepath.Join(t.TempDir(), "ferry.db"))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	f.deps.DB = db

	f.route(modID, "!warn <@"+userID+"> spamming", userID)
	assert.Equal(t, "❌ Permission Error", f.client.LastEmbed().Title)

	f.route(ownerID, "!warn <@"+userID+"> spamming links", userID)
	assert.Equal(t, "⚠️ Member Warned", f.client.LastEmbed().Title)
	assert.Contains(t, f.client.LastEmbed().Description, "spamming links")

	warnings, err := db.GetWarnings(guildID, userID)
	require.NoError(t, err)
	require.Len(t, warnings, 1)
	assert.Equal(t, ownerID, warnings[0].ModeratorID)

	actions, err := db.GetRecentActions(guildID, 5)
	require.NoError(t, err)
	require.NotEmpty(t, actions)
	assert.Equal(t, "Member Warned", actions[0].Action)

	f.route(ownerID, "!clearwarns <@"+userID+">", userID)
	warnings, err = db.GetWarnings(guildID, userID)
	require.NoError(t, err)
	assert.Empty(t, warnings)
}

func TestCustomCommandLogsToChannel(t *testing.T) {
	f := newFixture(t)
	f.client.NewChannel(guildID, "600000000000000002", "mod-log", 0)
	f.route(ownerID, "!setlogs <#600000000000000002>")
	require.Equal(t, "600000000000000002", f.store.LogChannel(guildID))
	f.addCustom("vip", memberRoleID, "Member")
	f.client.Reset()

	f.route(ownerID, "!vip <@"+userID+">", userID)

	require.Len(t, f.client.Sent, 2)
	assert.Equal(t, "600000000000000002", f.client.Sent[0].ChannelID)
	assert.Equal(t, "📋 Role Added", f.client.Sent[0].Embed.Title)
	assert.Equal(t, channelID, f.client.Sent[1].ChannelID)
}
