package commands

import (
	"errors"
	"fmt"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/bwmarrin/discordgo"
	"github.com/google/uuid"

	"github.com/onevibe0405/Ferry/internal/bot"
	"github.com/onevibe0405/Ferry/internal/logging"
	"github.com/onevibe0405/Ferry/internal/metrics"
	"github.com/onevibe0405/Ferry/internal/notifier"
	"github.com/onevibe0405/Ferry/internal/state"
)

// Route is the execution path chosen for one inbound message.
type Route int

const (
	RouteIgnored Route = iota
	RouteMentionGreeting
	RouteCustomCommand
	RouteAliasedBuiltin
	RouteNoPrefixBuiltin
	RoutePrefixBuiltin
	RouteNotACommand
)

var routeNames = [...]string{
	RouteIgnored:         "ignored",
	RouteMentionGreeting: "mention_greeting",
	RouteCustomCommand:   "custom_command",
	RouteAliasedBuiltin:  "aliased_builtin",
	RouteNoPrefixBuiltin: "no_prefix_builtin",
	RoutePrefixBuiltin:   "prefix_builtin",
	RouteNotACommand:     "not_a_command",
}

func (r Route) String() string {
	if r < 0 || int(r) >= len(routeNames) {
		return "unknown"
	}
	return routeNames[r]
}

// Handler routes messages and interactions to commands.
type Handler struct {
	deps *Deps
}

func NewHandler(deps *Deps) *Handler {
	return &Handler{deps: deps}
}

func (h *Handler) HandleMessage(m *discordgo.MessageCreate) {
	route := h.Route(m.Message)
	if route != RouteIgnored && route != RouteNotACommand {
		logging.Debug("message %s in %s routed as %s", m.ID, m.GuildID, route)
	}
}

// Route decides the execution path for m and runs it. The first matching
// rule wins; AFK notices are sent on the side and never stop routing.
func (h *Handler) Route(m *discordgo.Message) Route {
	if m.Author == nil || m.Author.Bot {
		return RouteIgnored
	}
	if h.deps.Metrics != nil {
		h.deps.Metrics.GetIngressRate().Increment()
	}
	if !h.deps.State.Throughput.Allow() {
		return RouteIgnored
	}

	h.afkNotices(m)

	if h.isBareMention(m.Content) && h.deps.State.MentionCooldown.TryAcquire(m.Author.ID) {
		h.greet(m)
		return RouteMentionGreeting
	}

	if m.GuildID == "" {
		return RouteNotACommand
	}

	prefix := h.deps.Store.Prefix(m.GuildID, h.deps.DefaultPrefix)
	token, args, viaPrefix, ok := h.tokenize(m, prefix)
	if !ok {
		return RouteNotACommand
	}
	name, aliased := ResolveAlias(h.deps.Store, m.GuildID, token)

	if custom, found := h.deps.Store.CustomCommand(m.GuildID, name); found {
		if !h.deps.State.UserCommands.Allow(m.Author.ID) {
			return RouteIgnored
		}
		c := h.messageContext(m, prefix, name, args)
		h.invoke(c, func() error { return ExecuteCustom(c, name, custom) })
		return RouteCustomCommand
	}

	cmd := h.deps.Registry.Lookup(name)
	if cmd == nil {
		return RouteNotACommand
	}
	route := RoutePrefixBuiltin
	switch {
	case aliased:
		route = RouteAliasedBuiltin
	case !viaPrefix:
		route = RouteNoPrefixBuiltin
	}

	if !h.deps.State.UserCommands.Allow(m.Author.ID) {
		return RouteIgnored
	}
	c := h.messageContext(m, prefix, cmd.Name, args)
	c.Command = cmd
	h.invoke(c, func() error { return cmd.Run(c) })
	return route
}

// tokenize extracts the lower-cased command token. A message counts as a
// command when it starts with the prefix directly followed by a token, or
// when its author is a no-prefix user.
func (h *Handler) tokenize(m *discordgo.Message, prefix string) (token string, args []string, viaPrefix bool, ok bool) {
	content := strings.TrimSpace(m.Content)
	if prefix != "" && strings.HasPrefix(content, prefix) {
		body := content[len(prefix):]
		r, _ := utf8.DecodeRuneInString(body)
		if body == "" || unicode.IsSpace(r) {
			return "", nil, false, false
		}
		fields := strings.Fields(body)
		return strings.ToLower(fields[0]), fields[1:], true, true
	}

	if !h.deps.Store.IsNoPrefixUser(m.Author.ID) {
		return "", nil, false, false
	}
	fields := strings.Fields(content)
	if len(fields) == 0 {
		return "", nil, false, false
	}
	return strings.ToLower(fields[0]), fields[1:], false, true
}

func (h *Handler) isBareMention(content string) bool {
	self := h.deps.Client.BotUser()
	if self == nil {
		return false
	}
	content = strings.TrimSpace(content)
	return content == "<@"+self.ID+">" || content == "<@!"+self.ID+">"
}

func (h *Handler) greet(m *discordgo.Message) {
	prefix := h.deps.DefaultPrefix
	if m.GuildID != "" {
		prefix = h.deps.Store.Prefix(m.GuildID, prefix)
	}
	embed := notifier.Info("👋 Hello!", fmt.Sprintf("My prefix here is `%s`. Try `%shelp`.", prefix, prefix))
	if _, err := h.deps.Client.SendEmbed(m.ChannelID, embed); err != nil {
		logging.Warn("mention greeting in %s: %v", m.ChannelID, err)
	}
}

func (h *Handler) afkNotices(m *discordgo.Message) {
	afk := h.deps.State.AFK
	if entry, ok := afk.Clear(m.Author.ID); ok {
		away := metrics.FormatUptime(h.deps.now().Sub(entry.Since))
		embed := notifier.Info("👋 Welcome Back", fmt.Sprintf("%s, I removed your AFK. You were away for %s.", m.Author.Mention(), away))
		if _, err := h.deps.Client.SendEmbed(m.ChannelID, embed); err != nil {
			logging.Warn("afk notice in %s: %v", m.ChannelID, err)
		}
	}

	for _, u := range m.Mentions {
		if u.ID == m.Author.ID {
			continue
		}
		entry, ok := afk.Get(u.ID)
		if !ok {
			continue
		}
		embed := notifier.Info("💤 AFK", fmt.Sprintf("%s is AFK: %s (since <t:%d:R>)", u.Mention(), entry.Reason, entry.Since.Unix()))
		if _, err := h.deps.Client.SendEmbed(m.ChannelID, embed); err != nil {
			logging.Warn("afk notice in %s: %v", m.ChannelID, err)
		}
		return
	}
}

func (h *Handler) messageContext(m *discordgo.Message, prefix, name string, args []string) *Context {
	var member *discordgo.Member
	if m.Member != nil {
		cp := *m.Member
		cp.User = m.Author
		cp.GuildID = m.GuildID
		member = &cp
	}
	return &Context{
		Deps:      h.deps,
		GuildID:   m.GuildID,
		ChannelID: m.ChannelID,
		Author:    m.Author,
		Member:    member,
		Message:   m,
		Prefix:    prefix,
		Name:      name,
		Args:      args,
	}
}

// HandleInteraction runs a slash command. Every slash command takes one
// free-text "args" option that is split like message arguments.
func (h *Handler) HandleInteraction(i *discordgo.InteractionCreate) {
	data := i.ApplicationCommandData()
	author := i.User
	if i.Member != nil && i.Member.User != nil {
		author = i.Member.User
	}
	if author == nil {
		return
	}

	cmd := h.deps.Registry.Lookup(data.Name)
	if cmd == nil {
		embed := notifier.Failure("Unknown Command", fmt.Sprintf("`/%s` is not a command I know.", data.Name))
		if err := h.deps.Client.RespondInteraction(i.Interaction, embed); err != nil {
			logging.Warn("respond to unknown command %s: %v", data.Name, err)
		}
		return
	}
	if !h.deps.State.UserCommands.Allow(author.ID) {
		embed := notifier.Warning("Slow Down", "You are using commands too quickly.")
		if err := h.deps.Client.RespondInteraction(i.Interaction, embed); err != nil {
			logging.Warn("respond to rate limited %s: %v", data.Name, err)
		}
		return
	}

	var args []string
	for _, opt := range data.Options {
		if opt.Name == "args" && opt.Type == discordgo.ApplicationCommandOptionString {
			args = strings.Fields(opt.StringValue())
		}
	}

	prefix := h.deps.DefaultPrefix
	if i.GuildID != "" {
		prefix = h.deps.Store.Prefix(i.GuildID, prefix)
	}
	c := &Context{
		Deps:        h.deps,
		GuildID:     i.GuildID,
		ChannelID:   i.ChannelID,
		Author:      author,
		Member:      i.Member,
		Interaction: i.Interaction,
		Prefix:      prefix,
		Name:        cmd.Name,
		Args:        args,
		Command:     cmd,
	}
	h.invoke(c, func() error { return cmd.Run(c) })
}

// HandleMessageDelete remembers deleted messages for snipe.
func (h *Handler) HandleMessageDelete(m *discordgo.MessageDelete) {
	before := m.BeforeDelete
	if before == nil || before.Author == nil || before.Author.Bot || m.GuildID == "" {
		return
	}
	if before.Content == "" {
		return
	}
	h.deps.State.Snipes.Push(m.GuildID, state.DeletedMessage{
		AuthorID:   before.Author.ID,
		AuthorName: before.Author.Username,
		AvatarURL:  before.Author.AvatarURL("64"),
		ChannelID:  before.ChannelID,
		Content:    before.Content,
		DeletedAt:  h.deps.now(),
	})
}

// invoke runs a handler behind the dispatch boundary: errors and panics
// are reported to the channel and logged, never propagated.
func (h *Handler) invoke(c *Context, run func() error) {
	if h.deps.Metrics != nil {
		h.deps.Metrics.IncrementCommands()
	}
	defer func() {
		if r := recover(); r != nil {
			h.reportError(c, fmt.Errorf("panic: %v", r))
		}
	}()
	if err := run(); err != nil {
		h.reportError(c, err)
	}
}

func (h *Handler) reportError(c *Context, err error) {
	var embed *discordgo.MessageEmbed
	var uerr *UserError

	switch {
	case errors.As(err, &uerr):
		logging.Debug("command %s by %s in %s refused (%s): %s", c.Name, c.Author.ID, c.GuildID, uerr.Kind, uerr.Message)
		embed = uerr.Embed()
	case bot.IsForbidden(err):
		logging.Warn("command %s by %s in %s forbidden: %v", c.Name, c.Author.ID, c.GuildID, err)
		embed = notifier.Failure("Missing Permissions", "I don't have permission to do that. Check my role position and permissions.")
	case bot.IsNotFound(err):
		logging.Warn("command %s by %s in %s: %v", c.Name, c.Author.ID, c.GuildID, err)
		embed = notifier.Failure("Not Found", "Something this command needs no longer exists.")
	default:
		ref := uuid.NewString()
		logging.Error("command %s by %s in %s failed [%s]: %v", c.Name, c.Author.ID, c.GuildID, ref, err)
		embed = notifier.Failure("Error", fmt.Sprintf("Something went wrong while running this command.\nReference: `%s`", ref))
	}

	if err := c.Reply(embed); err != nil {
		logging.Warn("report error for %s in %s: %v", c.Name, c.ChannelID, err)
	}
}
