package notifier

import (
	"fmt"
	"time"

	"github.com/bwmarrin/discordgo"

	"github.com/onevibe0405/Ferry/internal/bot"
)

// ActionLog describes one moderation action for a guild's log channel.
type ActionLog struct {
	Action   string
	ActorID  string
	TargetID string
	Detail   string
	Failed   bool
}

func actionEmbed(entry ActionLog) *discordgo.MessageEmbed {
	color := ColorSuccess
	if entry.Failed {
		color = ColorError
	}

	fields := make([]*discordgo.MessageEmbedField, 0, 3)
	if entry.ActorID != "" {
		fields = append(fields, &discordgo.MessageEmbedField{
			Name:   "👤 Actor",
			Value:  fmt.Sprintf("<@%s> (`%s`)", entry.ActorID, entry.ActorID),
			Inline: true,
		})
	}
	if entry.TargetID != "" {
		fields = append(fields, &discordgo.MessageEmbedField{
			Name:   "🎯 Target",
			Value:  fmt.Sprintf("<@%s> (`%s`)", entry.TargetID, entry.TargetID),
			Inline: true,
		})
	}
	fields = append(fields, &discordgo.MessageEmbedField{
		Name:   "🕐 Timestamp",
		Value:  fmt.Sprintf("<t:%d:F>", time.Now().Unix()),
		Inline: false,
	})

	embed := newEmbed(color, "📋 "+entry.Action, entry.Detail)
	embed.Fields = fields
	return embed
}

// SendActionLog posts entry to channelID. An empty channel is a no-op.
func SendActionLog(client bot.Client, channelID string, entry ActionLog) error {
	if client == nil || channelID == "" {
		return nil
	}
	if _, err := client.SendEmbed(channelID, actionEmbed(entry)); err != nil {
		return fmt.Errorf("send action log to %s: %w", channelID, err)
	}
	return nil
}
