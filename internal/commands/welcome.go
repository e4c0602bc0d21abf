package commands

import (
	"fmt"
	"strings"

	"github.com/bwmarrin/discordgo"

	"github.com/onevibe0405/Ferry/internal/config"
	"github.com/onevibe0405/Ferry/internal/notifier"
	"github.com/onevibe0405/Ferry/pkg/util"
)

func welcomeCommands() []*Command {
	return []*Command{
		{
			Name:        "embedadd",
			Category:    categoryWelcome,
			Description: "Save an embed template: title | description | [#hex] | [image url]",
			Usage:       "embedadd <name> <title> | <description> | [#hex] | [image url]",
			Permission:  discordgo.PermissionManageServer,
			Run:         runEmbedAdd,
		},
		{
			Name:        "embedlist",
			Category:    categoryWelcome,
			Description: "List the saved embed templates",
			Usage:       "embedlist",
			Run:         runEmbedList,
		},
		{
			Name:        "embeddel",
			Category:    categoryWelcome,
			Description: "Delete an embed template",
			Usage:       "embeddel <name>",
			Permission:  discordgo.PermissionManageServer,
			Run:         runEmbedDelete,
		},
		{
			Name:        "setwelcome",
			Category:    categoryWelcome,
			Description: "Send a welcome embed in a channel when members join",
			Usage:       "setwelcome <#channel> <embed> [message]",
			Permission:  discordgo.PermissionManageServer,
			Run:         runSetWelcome,
		},
		{
			Name:        "togglewelcome",
			Category:    categoryWelcome,
			Description: "Turn welcome messages on or off",
			Usage:       "togglewelcome",
			Permission:  discordgo.PermissionManageServer,
			Run:         runToggleWelcome,
		},
		{
			Name:        "testwelcome",
			Category:    categoryWelcome,
			Description: "Send the welcome message as if you just joined",
			Usage:       "testwelcome",
			Permission:  discordgo.PermissionManageServer,
			Run:         runTestWelcome,
		},
	}
}

func runEmbedAdd(c *Context) error {
	if err := c.Require(discordgo.PermissionManageServer); err != nil {
		return err
	}
	name := strings.ToLower(c.Arg(0))
	body := c.Rest(1)
	if name == "" || body == "" {
		return c.Usage()
	}
	if !commandNamePattern.MatchString(name) {
		return validationError("Template names use 1 to 32 lowercase letters, digits, `-` or `_`.")
	}

	parts := strings.Split(body, "|")
	for i := range parts {
		parts[i] = strings.TrimSpace(parts[i])
	}
	tpl := config.EmbedTemplate{Title: parts[0], Timestamp: true}
	if len(parts) > 1 {
		tpl.Description = strings.ReplaceAll(parts[1], `\n`, "\n")
	}
	if len(parts) > 2 && parts[2] != "" {
		color, err := config.ParseHexColor(parts[2])
		if err != nil {
			return validationError("`%s` is not a valid hex color. Use a code like `#5865F2`.", parts[2])
		}
		tpl.Color = config.EmbedColor(color)
	}
	if len(parts) > 3 && parts[3] != "" {
		if !strings.HasPrefix(parts[3], "https://") && !strings.HasPrefix(parts[3], "{") {
			return validationError("Image links must start with `https://`.")
		}
		tpl.Image = parts[3]
	}
	if tpl.Title == "" && tpl.Description == "" {
		return validationError("An embed needs a title or a description.")
	}

	c.Store.SetEmbedTemplate(c.GuildID, name, tpl)
	c.LogAction("Embed Saved", "", fmt.Sprintf("`%s`", name), false)

	preview := notifier.RenderTemplate(tpl, c.placeholders())
	if err := c.Reply(notifier.Success("Embed Saved", fmt.Sprintf("Saved `%s`. Preview below.", name))); err != nil {
		return err
	}
	return c.Reply(preview)
}

func runEmbedList(c *Context) error {
	if c.GuildID == "" {
		return validationError("This command can only be used in a server.")
	}
	names := c.Store.EmbedTemplateNames(c.GuildID)
	if len(names) == 0 {
		return c.Reply(notifier.Info("Embeds", fmt.Sprintf("No templates yet. Create one with `%sembedadd`.", c.Prefix)))
	}
	inUse := ""
	if w, ok := c.Store.Welcome(c.GuildID); ok {
		inUse = w.EmbedName
	}
	lines := make([]string, 0, len(names))
	for _, name := range names {
		line := "`" + name + "`"
		if name == inUse {
			line += " (welcome)"
		}
		lines = append(lines, line)
	}
	return c.Reply(notifier.Info(fmt.Sprintf("Embeds (%d)", len(names)), strings.Join(lines, "\n")))
}

func runEmbedDelete(c *Context) error {
	if err := c.Require(discordgo.PermissionManageServer); err != nil {
		return err
	}
	name := strings.ToLower(c.Arg(0))
	if name == "" {
		return c.Usage()
	}
	if !c.Store.DeleteEmbedTemplate(c.GuildID, name) {
		return notFoundError("Embed Not Found", "There is no template named `%s`.", name)
	}
	c.LogAction("Embed Deleted", "", fmt.Sprintf("`%s`", name), false)

	desc := fmt.Sprintf("Deleted `%s`.", name)
	if w, ok := c.Store.Welcome(c.GuildID); ok && w.Enabled && w.EmbedName == name {
		desc += " The welcome message used it and will be skipped until you set a new one."
	}
	return c.Reply(notifier.Success("Embed Deleted", desc))
}

func runSetWelcome(c *Context) error {
	if err := c.Require(discordgo.PermissionManageServer); err != nil {
		return err
	}
	channelID, ok := util.ParseChannelMention(c.Arg(0))
	name := strings.ToLower(c.Arg(1))
	if !ok || name == "" {
		return c.Usage()
	}
	channel, err := c.Client.Channel(channelID)
	if err != nil || channel.GuildID != c.GuildID {
		return notFoundError("Channel Not Found", "<#%s> is not a channel in this server.", channelID)
	}
	if _, ok := c.Store.EmbedTemplate(c.GuildID, name); !ok {
		return notFoundError("Embed Not Found", "There is no template named `%s`. See `%sembedlist`.", name, c.Prefix)
	}

	c.Store.SetWelcome(c.GuildID, config.WelcomeConfig{
		Enabled:   true,
		ChannelID: config.Snowflake(channel.ID),
		EmbedName: name,
		Message:   c.Rest(2),
	})
	c.LogAction("Welcome Set", "", fmt.Sprintf("<#%s> with `%s`", channel.ID, name), false)
	return c.Reply(notifier.Success("Welcome Enabled", fmt.Sprintf("New members will be welcomed in <#%s> with `%s`.", channel.ID, name)))
}

func runToggleWelcome(c *Context) error {
	if err := c.Require(discordgo.PermissionManageServer); err != nil {
		return err
	}
	w, ok := c.Store.Welcome(c.GuildID)
	if !ok || w.ChannelID == "" {
		return notFoundError("Welcome Not Set", "Set it up first with `%ssetwelcome <#channel> <embed>`.", c.Prefix)
	}
	w.Enabled = !w.Enabled
	c.Store.SetWelcome(c.GuildID, w)

	state := "disabled"
	if w.Enabled {
		state = "enabled"
	}
	c.LogAction("Welcome Toggled", "", state, false)
	return c.Reply(notifier.Success("Welcome "+capitalize(state), fmt.Sprintf("Welcome messages are now %s.", state)))
}

func runTestWelcome(c *Context) error {
	if err := c.Require(discordgo.PermissionManageServer); err != nil {
		return err
	}
	w, ok := c.Store.Welcome(c.GuildID)
	if !ok || !w.Enabled {
		return validationError("Welcome messages are disabled here. Enable them with `%stogglewelcome`.", c.Prefix)
	}
	member, err := c.Client.Member(c.GuildID, c.Author.ID)
	if err != nil {
		return err
	}
	if err := c.Reactor.SendWelcome(c.GuildID, member); err != nil {
		return notFoundError("Welcome Failed", "%v", err)
	}
	return c.Reply(notifier.Success("Test Sent", fmt.Sprintf("Sent the welcome message to <#%s>.", w.ChannelID)))
}

// placeholders uses the invoker as the member for template previews.
func (c *Context) placeholders() notifier.Placeholders {
	guild, _ := c.Client.Guild(c.GuildID)
	channel, _ := c.Client.Channel(c.ChannelID)
	member := c.Member
	if member == nil || member.User == nil {
		member = &discordgo.Member{User: c.Author}
	}
	return notifier.NewPlaceholders(member, guild, c.Client.BotUser(), channel)
}
