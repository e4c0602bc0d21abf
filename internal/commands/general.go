package commands

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/bwmarrin/discordgo"

	"github.com/onevibe0405/Ferry/internal/metrics"
	"github.com/onevibe0405/Ferry/internal/notifier"
	"github.com/onevibe0405/Ferry/internal/state"
)

func generalCommands() []*Command {
	return []*Command{
		{
			Name:        "help",
			Aliases:     []string{"h", "commands"},
			Category:    categoryGeneral,
			Description: "List commands or show details for one command",
			Usage:       "help [command]",
			Run:         runHelp,
		},
		{
			Name:        "ping",
			Aliases:     []string{"latency"},
			Category:    categoryGeneral,
			Description: "Show gateway and API latency",
			Usage:       "ping",
			Run:         runPing,
		},
		{
			Name:        "stats",
			Aliases:     []string{"botinfo"},
			Category:    categoryGeneral,
			Description: "Show bot and host statistics",
			Usage:       "stats",
			Run:         runStats,
		},
		{
			Name:        "uptime",
			Category:    categoryGeneral,
			Description: "Show how long the bot has been running",
			Usage:       "uptime",
			Run:         runUptime,
		},
		{
			Name:        "afk",
			Category:    categoryGeneral,
			Description: "Mark yourself as away until your next message",
			Usage:       "afk [reason]",
			Run:         runAFK,
		},
		{
			Name:        "snipe",
			Aliases:     []string{"s"},
			Category:    categoryGeneral,
			Description: "Show a recently deleted message",
			Usage:       "snipe [1-10]",
			Run:         runSnipe,
		},
	}
}

func runHelp(c *Context) error {
	if name := c.Arg(0); name != "" {
		cmd := c.Registry.Lookup(strings.TrimPrefix(name, c.Prefix))
		if cmd == nil {
			return notFoundError("Unknown Command", "There is no command named `%s`. Try `%shelp`.", name, c.Prefix)
		}
		embed := notifier.Info("📖 "+cmd.Name, cmd.Description)
		embed.Fields = append(embed.Fields, &discordgo.MessageEmbedField{
			Name:  "Usage",
			Value: fmt.Sprintf("`%s%s`", c.Prefix, cmd.Usage),
		})
		if len(cmd.Aliases) > 0 {
			embed.Fields = append(embed.Fields, &discordgo.MessageEmbedField{
				Name:  "Aliases",
				Value: "`" + strings.Join(cmd.Aliases, "`, `") + "`",
			})
		}
		switch {
		case cmd.OwnerOnly:
			embed.Fields = append(embed.Fields, &discordgo.MessageEmbedField{Name: "Requires", Value: "Bot owner"})
		case cmd.Permission != 0:
			embed.Fields = append(embed.Fields, &discordgo.MessageEmbedField{Name: "Requires", Value: permissionName(cmd.Permission)})
		}
		return c.Reply(embed)
	}

	embed := notifier.Info("📖 Commands", fmt.Sprintf("Prefix: `%s`. Use `%shelp <command>` for details.", c.Prefix, c.Prefix))
	order, groups := c.Registry.Categories()
	for _, category := range order {
		names := make([]string, 0, len(groups[category]))
		for _, cmd := range groups[category] {
			names = append(names, "`"+cmd.Name+"`")
		}
		embed.Fields = append(embed.Fields, &discordgo.MessageEmbedField{
			Name:  category,
			Value: strings.Join(names, " "),
		})
	}
	return c.Reply(embed)
}

func runPing(c *Context) error {
	apiStart := time.Now()
	_, err := c.Client.Channel(c.ChannelID)
	apiLatency := time.Since(apiStart)
	if err != nil {
		return err
	}

	ws := c.Client.HeartbeatLatency()
	embed := notifier.Info("🏓 Pong!", "")
	embed.Color = latencyColor(ws)
	embed.Fields = []*discordgo.MessageEmbedField{
		{Name: "⚡ WebSocket", Value: fmt.Sprintf("`%dms`", ws.Milliseconds()), Inline: true},
		{Name: "📡 API", Value: fmt.Sprintf("`%dms`", apiLatency.Milliseconds()), Inline: true},
	}
	if c.Metrics != nil {
		if s := c.Metrics.GetLatencySamples().GetStats(); s.Count > 0 {
			embed.Fields = append(embed.Fields, &discordgo.MessageEmbedField{
				Name:   "📊 Average",
				Value:  fmt.Sprintf("`%dms` over %d samples", s.Avg.Milliseconds(), s.Count),
				Inline: true,
			})
		}
	}
	return c.Reply(embed)
}

func latencyColor(d time.Duration) int {
	switch ms := d.Milliseconds(); {
	case ms < 100:
		return notifier.ColorSuccess
	case ms < 250:
		return notifier.ColorWarning
	default:
		return notifier.ColorError
	}
}

func runUptime(c *Context) error {
	if c.Metrics == nil {
		return c.Reply(notifier.Info("⏱️ Uptime", "unknown"))
	}
	desc := fmt.Sprintf("Up for **%s** (since <t:%d:F>)", metrics.FormatUptime(c.Metrics.Uptime()), c.Metrics.StartTime().Unix())
	return c.Reply(notifier.Info("⏱️ Uptime", desc))
}

func runAFK(c *Context) error {
	reason := c.Rest(0)
	if reason == "" {
		reason = "AFK"
	}
	if len(reason) > 200 {
		return validationError("Keep your AFK reason under 200 characters.")
	}
	c.State.AFK.Set(c.Author.ID, reason, c.now())
	return c.Reply(notifier.Success("AFK Set", fmt.Sprintf("%s is now AFK: %s", c.Author.Mention(), reason)))
}

func runSnipe(c *Context) error {
	if c.GuildID == "" {
		return validationError("This command can only be used in a server.")
	}
	n := 1
	if arg := c.Arg(0); arg != "" {
		v, err := strconv.Atoi(arg)
		if err != nil || v < 1 || v > state.SnipeDepth {
			return validationError("Pick a message between 1 and %d.", state.SnipeDepth)
		}
		n = v
	}
	msg, ok := c.State.Snipes.Get(c.GuildID, n)
	if !ok {
		return notFoundError("Nothing to Snipe", "There is no deleted message #%d to show.", n)
	}

	embed := notifier.Info("", msg.Content)
	embed.Author = &discordgo.MessageEmbedAuthor{Name: msg.AuthorName, IconURL: msg.AvatarURL}
	embed.Fields = []*discordgo.MessageEmbedField{
		{Name: "Channel", Value: fmt.Sprintf("<#%s>", msg.ChannelID), Inline: true},
	}
	embed.Footer = &discordgo.MessageEmbedFooter{
		Text: fmt.Sprintf("Deleted message %d of %d", n, c.State.Snipes.Len(c.GuildID)),
	}
	embed.Timestamp = msg.DeletedAt.Format(time.RFC3339)
	return c.Reply(embed)
}
