// Package bottest provides an in-memory bot.Client for tests.
package bottest

import (
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/bwmarrin/discordgo"

	"github.com/onevibe0405/Ferry/internal/bot"
)

var _ bot.Client = (*FakeClient)(nil)

type SentMessage struct {
	ChannelID string
	Content   string
	Embed     *discordgo.MessageEmbed
}

type RoleCall struct {
	Op      string
	GuildID string
	UserID  string
	RoleID  string
	Reason  string
}

// FakeClient keeps guilds, members and channels in memory and records
// every mutation and message.
type FakeClient struct {
	mu sync.Mutex

	Self     *discordgo.User
	Latency  time.Duration
	guilds   map[string]*discordgo.Guild
	members  map[string]map[string]*discordgo.Member
	channels map[string]*discordgo.Channel
	perms    map[string]int64

	Sent      []SentMessage
	Responses []*discordgo.MessageEmbed
	RoleCalls []RoleCall
	RoleErr   map[string]error
	SendErr   error
}

func NewFakeClient(botID string) *FakeClient {
	return &FakeClient{
		Self:     &discordgo.User{ID: botID, Username: "ferry", Bot: true},
		Latency:  42 * time.Millisecond,
		guilds:   make(map[string]*discordgo.Guild),
		members:  make(map[string]map[string]*discordgo.Member),
		channels: make(map[string]*discordgo.Channel),
		perms:    make(map[string]int64),
		RoleErr:  make(map[string]error),
	}
}

// Forbidden returns the error the platform produces for a 403.
func Forbidden() error {
	return &discordgo.RESTError{
		Response: &http.Response{StatusCode: http.StatusForbidden, Header: http.Header{}},
		Message:  &discordgo.APIErrorMessage{Code: 50013, Message: "Missing Permissions"},
	}
}

func notFound(what, id string) error {
	return &discordgo.RESTError{
		Response: &http.Response{StatusCode: http.StatusNotFound, Header: http.Header{}},
		Message:  &discordgo.APIErrorMessage{Code: 10000, Message: fmt.Sprintf("Unknown %s %s", what, id)},
	}
}

// NewGuild adds a guild with its @everyone role at position 0.
func (f *FakeClient) NewGuild(guildID, ownerID string) *discordgo.Guild {
	f.mu.Lock()
	defer f.mu.Unlock()
	g := &discordgo.Guild{
		ID:      guildID,
		Name:    "Guild " + guildID,
		OwnerID: ownerID,
		Roles:   []*discordgo.Role{{ID: guildID, Name: "@everyone", Position: 0}},
	}
	f.guilds[guildID] = g
	f.members[guildID] = make(map[string]*discordgo.Member)
	return g
}

func (f *FakeClient) NewRole(guildID, roleID, name string, position int, perms int64) *discordgo.Role {
	f.mu.Lock()
	defer f.mu.Unlock()
	r := &discordgo.Role{ID: roleID, Name: name, Position: position, Permissions: perms}
	g := f.guilds[guildID]
	g.Roles = append(g.Roles, r)
	return r
}

func (f *FakeClient) DeleteGuildRole(guildID, roleID string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	g := f.guilds[guildID]
	for i, r := range g.Roles {
		if r.ID == roleID {
			g.Roles = append(g.Roles[:i], g.Roles[i+1:]...)
			return
		}
	}
}

func (f *FakeClient) NewMember(guildID, userID string, isBot bool, roles ...string) *discordgo.Member {
	f.mu.Lock()
	defer f.mu.Unlock()
	m := &discordgo.Member{
		GuildID: guildID,
		User:    &discordgo.User{ID: userID, Username: "user" + userID, Bot: isBot},
		Roles:   append([]string(nil), roles...),
	}
	f.members[guildID][userID] = m
	f.guilds[guildID].MemberCount++
	return m
}

func (f *FakeClient) NewChannel(guildID, channelID, name string, botPerms int64) *discordgo.Channel {
	f.mu.Lock()
	defer f.mu.Unlock()
	ch := &discordgo.Channel{ID: channelID, GuildID: guildID, Name: name}
	f.channels[channelID] = ch
	f.perms[channelID] = botPerms
	return ch
}

// MemberRoles returns a copy of the member's current role ids.
func (f *FakeClient) MemberRoles(guildID, userID string) []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	m := f.members[guildID][userID]
	if m == nil {
		return nil
	}
	return append([]string(nil), m.Roles...)
}

func (f *FakeClient) SentEmbeds() []*discordgo.MessageEmbed {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]*discordgo.MessageEmbed, 0, len(f.Sent))
	for _, s := range f.Sent {
		if s.Embed != nil {
			out = append(out, s.Embed)
		}
	}
	return out
}

// LastEmbed returns the most recently sent embed or nil.
func (f *FakeClient) LastEmbed() *discordgo.MessageEmbed {
	embeds := f.SentEmbeds()
	if len(embeds) == 0 {
		return nil
	}
	return embeds[len(embeds)-1]
}

func (f *FakeClient) Reset() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.Sent = nil
	f.Responses = nil
	f.RoleCalls = nil
}

func (f *FakeClient) BotUser() *discordgo.User { return f.Self }

func (f *FakeClient) HeartbeatLatency() time.Duration { return f.Latency }

func (f *FakeClient) Guild(guildID string) (*discordgo.Guild, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	g, ok := f.guilds[guildID]
	if !ok {
		return nil, notFound("guild", guildID)
	}
	return g, nil
}

func (f *FakeClient) Member(guildID, userID string) (*discordgo.Member, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	m, ok := f.members[guildID][userID]
	if !ok {
		return nil, notFound("member", userID)
	}
	return m, nil
}

func (f *FakeClient) Members(guildID string) ([]*discordgo.Member, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]*discordgo.Member, 0, len(f.members[guildID]))
	for _, m := range f.members[guildID] {
		out = append(out, m)
	}
	return out, nil
}

func (f *FakeClient) Channel(channelID string) (*discordgo.Channel, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	ch, ok := f.channels[channelID]
	if !ok {
		return nil, notFound("channel", channelID)
	}
	return ch, nil
}

func (f *FakeClient) ChannelPermissions(userID, channelID string) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	perms, ok := f.perms[channelID]
	if !ok {
		return 0, notFound("channel", channelID)
	}
	return perms, nil
}

func (f *FakeClient) SendEmbed(channelID string, embed *discordgo.MessageEmbed) (*discordgo.Message, error) {
	return f.SendMessage(channelID, &discordgo.MessageSend{Embeds: []*discordgo.MessageEmbed{embed}})
}

func (f *FakeClient) SendMessage(channelID string, msg *discordgo.MessageSend) (*discordgo.Message, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.SendErr != nil {
		return nil, f.SendErr
	}
	sent := SentMessage{ChannelID: channelID, Content: msg.Content}
	if len(msg.Embeds) > 0 {
		sent.Embed = msg.Embeds[0]
	}
	f.Sent = append(f.Sent, sent)
	return &discordgo.Message{ChannelID: channelID, Content: msg.Content, Embeds: msg.Embeds}, nil
}

func (f *FakeClient) RespondInteraction(i *discordgo.Interaction, embed *discordgo.MessageEmbed) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.Responses = append(f.Responses, embed)
	return nil
}

func (f *FakeClient) AddRole(guildID, userID, roleID, reason string) error {
	return f.mutateRole("add", guildID, userID, roleID, reason)
}

func (f *FakeClient) RemoveRole(guildID, userID, roleID, reason string) error {
	return f.mutateRole("remove", guildID, userID, roleID, reason)
}

func (f *FakeClient) mutateRole(op, guildID, userID, roleID, reason string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.RoleCalls = append(f.RoleCalls, RoleCall{Op: op, GuildID: guildID, UserID: userID, RoleID: roleID, Reason: reason})
	if err := f.RoleErr[roleID]; err != nil {
		return err
	}
	m, ok := f.members[guildID][userID]
	if !ok {
		return notFound("member", userID)
	}
	if op == "add" {
		for _, r := range m.Roles {
			if r == roleID {
				return nil
			}
		}
		m.Roles = append(m.Roles, roleID)
		return nil
	}
	for i, r := range m.Roles {
		if r == roleID {
			m.Roles = append(m.Roles[:i], m.Roles[i+1:]...)
			break
		}
	}
	return nil
}

func (f *FakeClient) CreateRole(guildID string, params *discordgo.RoleParams, reason string) (*discordgo.Role, error) {
	f.mu.Lock()
	g, ok := f.guilds[guildID]
	f.mu.Unlock()
	if !ok {
		return nil, notFound("guild", guildID)
	}
	color := 0
	if params.Color != nil {
		color = *params.Color
	}
	r := f.NewRole(guildID, fmt.Sprintf("%s%d", guildID, len(g.Roles)+100), params.Name, 1, 0)
	r.Color = color
	return r, nil
}

func (f *FakeClient) DeleteRole(guildID, roleID, reason string) error {
	f.mu.Lock()
	if err := f.RoleErr[roleID]; err != nil {
		f.mu.Unlock()
		return err
	}
	f.mu.Unlock()
	f.DeleteGuildRole(guildID, roleID)
	return nil
}
