package config

import (
	"sort"
	"strings"

	mapset "github.com/deckarep/golang-set/v2"
)

// Per-guild sections of the document. A guild without entries reads as
// all defaults.

func (s *Store) Prefix(guildID, fallback string) string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if p, ok := s.doc.GuildPrefixes[guildID]; ok && p != "" {
		return p
	}
	return fallback
}

func (s *Store) SetPrefix(guildID, prefix string) {
	s.update(func(doc *Document) {
		doc.GuildPrefixes[guildID] = prefix
	})
}

func (s *Store) DeletePrefix(guildID string) {
	s.update(func(doc *Document) {
		delete(doc.GuildPrefixes, guildID)
	})
}

func (s *Store) IsNoPrefixUser(userID string) bool {
	return s.noPrefixSet().Contains(userID)
}

// ToggleNoPrefix flips membership and reports the new state.
func (s *Store) ToggleNoPrefix(userID string) bool {
	var enabled bool
	s.update(func(*Document) {
		if s.noPrefix.Contains(userID) {
			s.noPrefix.Remove(userID)
			return
		}
		s.noPrefix.Add(userID)
		enabled = true
	})
	return enabled
}

func (s *Store) NoPrefixUsers() []string {
	ids := s.noPrefixSet().ToSlice()
	sort.Strings(ids)
	return ids
}

func (s *Store) noPrefixSet() mapset.Set[string] {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.noPrefix
}

func (s *Store) Alias(guildID, token string) (string, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	target, ok := s.doc.Aliases[guildID][strings.ToLower(token)]
	return target, ok
}

func (s *Store) Aliases(guildID string) map[string]string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make(map[string]string, len(s.doc.Aliases[guildID]))
	for k, v := range s.doc.Aliases[guildID] {
		out[k] = v
	}
	return out
}

func (s *Store) SetAlias(guildID, alias, target string) {
	s.update(func(doc *Document) {
		if doc.Aliases[guildID] == nil {
			doc.Aliases[guildID] = make(map[string]string)
		}
		doc.Aliases[guildID][strings.ToLower(alias)] = strings.ToLower(target)
	})
}

func (s *Store) DeleteAlias(guildID, alias string) bool {
	var found bool
	s.update(func(doc *Document) {
		alias = strings.ToLower(alias)
		if _, found = doc.Aliases[guildID][alias]; found {
			delete(doc.Aliases[guildID], alias)
		}
	})
	return found
}

func (s *Store) CustomCommand(guildID, name string) (CustomCommand, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	cmd, ok := s.doc.CustomCommands[guildID][strings.ToLower(name)]
	return cmd, ok
}

func (s *Store) CustomCommands(guildID string) map[string]CustomCommand {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make(map[string]CustomCommand, len(s.doc.CustomCommands[guildID]))
	for k, v := range s.doc.CustomCommands[guildID] {
		out[k] = v
	}
	return out
}

func (s *Store) SetCustomCommand(guildID, name string, cmd CustomCommand) {
	s.update(func(doc *Document) {
		if doc.CustomCommands[guildID] == nil {
			doc.CustomCommands[guildID] = make(map[string]CustomCommand)
		}
		doc.CustomCommands[guildID][strings.ToLower(name)] = cmd
	})
}

func (s *Store) DeleteCustomCommand(guildID, name string) bool {
	var found bool
	s.update(func(doc *Document) {
		name = strings.ToLower(name)
		if _, found = doc.CustomCommands[guildID][name]; found {
			delete(doc.CustomCommands[guildID], name)
		}
	})
	return found
}

// Autoroles returns the role ids granted on join to bots or humans.
func (s *Store) Autoroles(guildID string, bots bool) []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	section := s.doc.Autoroles
	if bots {
		section = s.doc.AutorolesBot
	}
	ids := make([]string, 0, len(section[guildID]))
	for _, id := range section[guildID] {
		ids = append(ids, string(id))
	}
	return ids
}

func (s *Store) SetAutoroles(guildID string, bots bool, roleIDs []string) {
	list := make(RoleList, 0, len(roleIDs))
	for _, id := range roleIDs {
		list = append(list, Snowflake(id))
	}
	s.update(func(doc *Document) {
		section := doc.Autoroles
		if bots {
			section = doc.AutorolesBot
		}
		if len(list) == 0 {
			delete(section, guildID)
			return
		}
		section[guildID] = list
	})
}

func (s *Store) Welcome(guildID string) (WelcomeConfig, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	w, ok := s.doc.Welcome[guildID]
	return w, ok
}

func (s *Store) SetWelcome(guildID string, w WelcomeConfig) {
	s.update(func(doc *Document) {
		doc.Welcome[guildID] = w
	})
}

func (s *Store) EmbedTemplate(guildID, name string) (EmbedTemplate, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	tpl, ok := s.doc.Embeds[guildID][strings.ToLower(name)]
	return tpl, ok
}

func (s *Store) EmbedTemplateNames(guildID string) []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	names := make([]string, 0, len(s.doc.Embeds[guildID]))
	for name := range s.doc.Embeds[guildID] {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func (s *Store) SetEmbedTemplate(guildID, name string, tpl EmbedTemplate) {
	s.update(func(doc *Document) {
		if doc.Embeds[guildID] == nil {
			doc.Embeds[guildID] = make(map[string]EmbedTemplate)
		}
		doc.Embeds[guildID][strings.ToLower(name)] = tpl
	})
}

func (s *Store) DeleteEmbedTemplate(guildID, name string) bool {
	var found bool
	s.update(func(doc *Document) {
		name = strings.ToLower(name)
		if _, found = doc.Embeds[guildID][name]; found {
			delete(doc.Embeds[guildID], name)
		}
	})
	return found
}

func (s *Store) LogChannel(guildID string) string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return string(s.doc.LogChannels[guildID])
}

func (s *Store) SetLogChannel(guildID, channelID string) {
	s.update(func(doc *Document) {
		if channelID == "" {
			delete(doc.LogChannels, guildID)
			return
		}
		doc.LogChannels[guildID] = Snowflake(channelID)
	})
}
