package commands

import (
	"testing"

	"github.com/bwmarrin/discordgo"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func noop(*Context) error { return nil }

func TestRegistryLookup(t *testing.T) {
	r := NewRegistry(
		&Command{Name: "ping", Aliases: []string{"latency"}, Run: noop},
		&Command{Name: "help", Run: noop},
	)

	assert.Equal(t, "ping", r.Lookup("PING").Name)
	assert.Equal(t, "ping", r.Lookup("Latency").Name)
	assert.Nil(t, r.Lookup("pong"))
	assert.True(t, r.Has("help"))

	names := []string{}
	for _, cmd := range r.Commands() {
		names = append(names, cmd.Name)
	}
	assert.Equal(t, []string{"ping", "help"}, names)
}

func TestRegistryCollisionPanics(t *testing.T) {
	assert.Panics(t, func() {
		NewRegistry(
			&Command{Name: "ping", Aliases: []string{"p"}, Run: noop},
			&Command{Name: "purge", Aliases: []string{"P"}, Run: noop},
		)
	})
	assert.Panics(t, func() {
		NewRegistry(&Command{Name: "empty"})
	})
}

func TestBuiltinRegistry(t *testing.T) {
	var r *Registry
	require.NotPanics(t, func() { r = NewBuiltinRegistry() })

	for _, name := range []string{"help", "ping", "stats", "afk", "snipe", "setprefix", "noprefix", "addcmd", "delcmd",
		"addalias", "addrole", "removerole", "createrole", "deleterole", "massrole", "autorole", "autorolebot",
		"embedadd", "setwelcome", "testwelcome", "setlogs", "warn", "clearwarns"} {
		assert.NotNil(t, r.Lookup(name), name)
	}
	for _, cmd := range r.Commands() {
		assert.NotEmpty(t, cmd.Description, cmd.Name)
		assert.NotEmpty(t, cmd.Usage, cmd.Name)
	}
}

func TestSlashCommands(t *testing.T) {
	r := NewBuiltinRegistry()
	slash := SlashCommands(r)

	require.Len(t, slash, len(r.Commands()))
	for _, ac := range slash {
		require.Len(t, ac.Options, 1, ac.Name)
		assert.Equal(t, "args", ac.Options[0].Name)
		assert.LessOrEqual(t, len(ac.Description), slashDescriptionLimit)
		assert.LessOrEqual(t, len(ac.Options[0].Description), slashDescriptionLimit)
	}

	byName := map[string]*discordgo.ApplicationCommand{}
	for _, ac := range slash {
		byName[ac.Name] = ac
	}
	require.NotNil(t, byName["addrole"].DefaultMemberPermissions)
	assert.Equal(t, int64(discordgo.PermissionManageRoles), *byName["addrole"].DefaultMemberPermissions)
	assert.Nil(t, byName["ping"].DefaultMemberPermissions)
}

func TestRouteString(t *testing.T) {
	assert.Equal(t, "custom_command", RouteCustomCommand.String())
	assert.Equal(t, "unknown", Route(42).String())
}
