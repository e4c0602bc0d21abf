package commands

import (
	"strings"
)

// AliasSource is the per-guild alias table.
type AliasSource interface {
	Alias(guildID, token string) (string, bool)
}

// ResolveAlias maps token through the guild's alias table once. The result
// is never looked up again, so aliases do not chain.
func ResolveAlias(src AliasSource, guildID, token string) (string, bool) {
	token = strings.ToLower(token)
	if target, ok := src.Alias(guildID, token); ok && target != "" {
		return target, true
	}
	return token, false
}
