package notifier

import (
	"strconv"
	"strings"
	"time"

	"github.com/bwmarrin/discordgo"

	"github.com/onevibe0405/Ferry/internal/config"
)

const (
	ColorDefault = 0x2B2D31
	ColorSuccess = 0x57F287
	ColorError   = 0xED4245
	ColorWarning = 0xFEE75C

	footerText = "Ferry"
)

func newEmbed(color int, title, description string) *discordgo.MessageEmbed {
	return &discordgo.MessageEmbed{
		Title:       title,
		Description: description,
		Color:       color,
		Footer:      &discordgo.MessageEmbedFooter{Text: footerText},
		Timestamp:   time.Now().Format(time.RFC3339),
	}
}

func Info(title, description string) *discordgo.MessageEmbed {
	return newEmbed(ColorDefault, title, description)
}

func Success(title, description string) *discordgo.MessageEmbed {
	return newEmbed(ColorSuccess, "✅ "+title, description)
}

func Failure(title, description string) *discordgo.MessageEmbed {
	return newEmbed(ColorError, "❌ "+title, description)
}

func Warning(title, description string) *discordgo.MessageEmbed {
	return newEmbed(ColorWarning, "⚠️ "+title, description)
}

// displayName is the nickname, then the global name, then the username.
func displayName(member *discordgo.Member) string {
	if name := member.DisplayName(); name != "" {
		return name
	}
	if member.User.GlobalName != "" {
		return member.User.GlobalName
	}
	return member.User.Username
}

// Placeholders maps {token} names to values for welcome rendering.
type Placeholders map[string]string

// NewPlaceholders collects the values available for a joining member.
// Any argument may be nil.
func NewPlaceholders(member *discordgo.Member, guild *discordgo.Guild, self *discordgo.User, channel *discordgo.Channel) Placeholders {
	p := Placeholders{}
	if member != nil && member.User != nil {
		u := member.User
		p["user"] = u.Mention()
		p["username"] = displayName(member)
		p["user_name"] = u.Username
		p["user_id"] = u.ID
		p["user_avatar"] = u.AvatarURL("256")
	}
	if self != nil {
		p["bot"] = self.Mention()
		p["bot_name"] = self.Username
		p["bot_avatar"] = self.AvatarURL("256")
	}
	if guild != nil {
		p["server"] = guild.Name
		p["server_name"] = guild.Name
		p["server_id"] = guild.ID
		p["server_icon"] = guild.IconURL("256")
		p["member_count"] = strconv.Itoa(guild.MemberCount)
	}
	if channel != nil {
		p["channel"] = channel.Mention()
		p["channel_name"] = channel.Name
		p["channel_id"] = channel.ID
	}
	return p
}

func (p Placeholders) Replace(text string) string {
	if text == "" || len(p) == 0 {
		return text
	}
	pairs := make([]string, 0, len(p)*2)
	for k, v := range p {
		pairs = append(pairs, "{"+k+"}", v)
	}
	return strings.NewReplacer(pairs...).Replace(text)
}

// RenderTemplate builds an embed from a stored template.
func RenderTemplate(tpl config.EmbedTemplate, p Placeholders) *discordgo.MessageEmbed {
	embed := &discordgo.MessageEmbed{
		Title:       p.Replace(tpl.Title),
		Description: p.Replace(tpl.Description),
		Color:       int(tpl.Color),
	}
	if embed.Color == 0 {
		embed.Color = ColorDefault
	}
	if tpl.Thumbnail != "" {
		embed.Thumbnail = &discordgo.MessageEmbedThumbnail{URL: p.Replace(tpl.Thumbnail)}
	}
	if tpl.Image != "" {
		embed.Image = &discordgo.MessageEmbedImage{URL: p.Replace(tpl.Image)}
	}
	if tpl.Footer != "" {
		embed.Footer = &discordgo.MessageEmbedFooter{Text: p.Replace(tpl.Footer)}
	}

	name, icon := tpl.AuthorName, tpl.AuthorIcon
	if tpl.Author != nil {
		name, icon = tpl.Author.Name, tpl.Author.IconURL
	}
	if name != "" {
		embed.Author = &discordgo.MessageEmbedAuthor{Name: p.Replace(name), IconURL: p.Replace(icon)}
	}
	if tpl.Timestamp {
		embed.Timestamp = time.Now().Format(time.RFC3339)
	}
	return embed
}
