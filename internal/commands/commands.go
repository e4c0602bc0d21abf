package commands

import (
	"github.com/bwmarrin/discordgo"
)

const slashDescriptionLimit = 100

// SlashCommands builds the application command set from the registry. Each
// command takes a single optional free-text "args" option.
func SlashCommands(r *Registry) []*discordgo.ApplicationCommand {
	dmAllowed := false
	out := make([]*discordgo.ApplicationCommand, 0, len(r.Commands()))
	for _, cmd := range r.Commands() {
		ac := &discordgo.ApplicationCommand{
			Name:         cmd.Name,
			Description:  truncate(cmd.Description, slashDescriptionLimit),
			DMPermission: &dmAllowed,
			Options: []*discordgo.ApplicationCommandOption{
				{
					Name:        "args",
					Description: "Arguments: " + truncate(cmd.Usage, slashDescriptionLimit-11),
					Type:        discordgo.ApplicationCommandOptionString,
					Required:    false,
				},
			},
		}
		if cmd.Permission != 0 {
			perm := cmd.Permission
			ac.DefaultMemberPermissions = &perm
		}
		out = append(out, ac)
	}
	return out
}

func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	return s[:max-3] + "..."
}
