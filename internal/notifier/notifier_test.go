package notifier

import (
	"testing"

	"github.com/bwmarrin/discordgo"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/onevibe0405/Ferry/internal/bot/bottest"
	"github.com/onevibe0405/Ferry/internal/config"
)

func TestPlaceholdersReplace(t *testing.T) {
	member := &discordgo.Member{
		Nick: "Nicky",
		User: &discordgo.User{ID: "7", Username: "nick"},
	}
	guild := &discordgo.Guild{ID: "1", Name: "Harbor", MemberCount: 12}
	channel := &discordgo.Channel{ID: "9", Name: "welcome"}

	p := NewPlaceholders(member, guild, nil, channel)
	out := p.Replace("{user} ({username}/{user_name}) joined {server}, member #{member_count} in {channel} {unknown}")

	assert.Equal(t, "<@7> (Nicky/nick) joined Harbor, member #12 in <#9> {unknown}", out)
}

func TestPlaceholdersUsernameFallback(t *testing.T) {
	plain := &discordgo.Member{User: &discordgo.User{ID: "7", Username: "alice"}}
	assert.Equal(t, "Welcome alice", NewPlaceholders(plain, nil, nil, nil).Replace("Welcome {username}"))

	global := &discordgo.Member{User: &discordgo.User{ID: "8", Username: "bob", GlobalName: "Bobby"}}
	assert.Equal(t, "Welcome Bobby", NewPlaceholders(global, nil, nil, nil).Replace("Welcome {username}"))
}

func TestRenderTemplate(t *testing.T) {
	tpl := config.EmbedTemplate{
		Title:       "Welcome {username}",
		Description: "to {server}",
		Color:       0x112233,
		Thumbnail:   "{user_avatar}",
		Footer:      "id {user_id}",
		AuthorName:  "{server}",
		Timestamp:   true,
	}
	p := Placeholders{"username": "ann", "server": "Harbor", "user_avatar": "https://a/x.png", "user_id": "3"}

	embed := RenderTemplate(tpl, p)

	assert.Equal(t, "Welcome ann", embed.Title)
	assert.Equal(t, "to Harbor", embed.Description)
	assert.Equal(t, 0x112233, embed.Color)
	require.NotNil(t, embed.Thumbnail)
	assert.Equal(t, "https://a/x.png", embed.Thumbnail.URL)
	assert.Equal(t, "id 3", embed.Footer.Text)
	assert.Equal(t, "Harbor", embed.Author.Name)
	assert.NotEmpty(t, embed.Timestamp)
}

func TestRenderTemplateAuthorRecordWinsAndDefaultColor(t *testing.T) {
	tpl := config.EmbedTemplate{
		Author:     &config.EmbedAuthor{Name: "record"},
		AuthorName: "flat",
	}
	embed := RenderTemplate(tpl, nil)
	assert.Equal(t, "record", embed.Author.Name)
	assert.Equal(t, ColorDefault, embed.Color)
	assert.Nil(t, embed.Image)
}

func TestSendActionLog(t *testing.T) {
	client := bottest.NewFakeClient("100")

	require.NoError(t, SendActionLog(client, "", ActionLog{Action: "ignored"}))
	assert.Empty(t, client.Sent)

	require.NoError(t, SendActionLog(client, "55", ActionLog{Action: "Role Added", ActorID: "1", TargetID: "2", Detail: "VIP"}))
	require.Len(t, client.Sent, 1)
	assert.Equal(t, "55", client.Sent[0].ChannelID)
	assert.Equal(t, "📋 Role Added", client.Sent[0].Embed.Title)
	assert.Equal(t, ColorSuccess, client.Sent[0].Embed.Color)
	assert.Len(t, client.Sent[0].Embed.Fields, 3)
}
