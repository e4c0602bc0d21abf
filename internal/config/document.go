package config

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

// Snowflake is a platform id. The original data file stored ids as JSON
// numbers, which do not survive a float64 round trip, so both numbers and
// strings are accepted and the value is always kept as a decimal string.
type Snowflake string

func (s *Snowflake) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if bytes.Equal(b, []byte("null")) {
		*s = ""
		return nil
	}
	if len(b) > 0 && b[0] == '"' {
		var str string
		if err := json.Unmarshal(b, &str); err != nil {
			return err
		}
		*s = Snowflake(strings.TrimSpace(str))
		return nil
	}
	if _, err := strconv.ParseUint(string(b), 10, 64); err != nil {
		return fmt.Errorf("invalid snowflake %s", b)
	}
	*s = Snowflake(b)
	return nil
}

func (s Snowflake) String() string { return string(s) }

// RoleList is the canonical form of a role reference list. Legacy data
// may hold a single number, a single string or an object with role_id.
type RoleList []Snowflake

func (r *RoleList) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	switch {
	case len(b) == 0 || bytes.Equal(b, []byte("null")):
		*r = RoleList{}
		return nil
	case b[0] == '[':
		var raw []json.RawMessage
		if err := json.Unmarshal(b, &raw); err != nil {
			return err
		}
		out := make(RoleList, 0, len(raw))
		for _, item := range raw {
			id, err := decodeRoleRef(item)
			if err != nil {
				return err
			}
			if id != "" {
				out = append(out, id)
			}
		}
		*r = out
		return nil
	default:
		id, err := decodeRoleRef(b)
		if err != nil {
			return err
		}
		if id == "" {
			*r = RoleList{}
		} else {
			*r = RoleList{id}
		}
		return nil
	}
}

func decodeRoleRef(b []byte) (Snowflake, error) {
	b = bytes.TrimSpace(b)
	if len(b) > 0 && b[0] == '{' {
		var rec struct {
			RoleID Snowflake `json:"role_id"`
			Role   Snowflake `json:"role"`
		}
		if err := json.Unmarshal(b, &rec); err != nil {
			return "", err
		}
		if rec.RoleID != "" {
			return rec.RoleID, nil
		}
		return rec.Role, nil
	}
	var id Snowflake
	err := json.Unmarshal(b, &id)
	return id, err
}

// CustomCommand binds a per-guild command name to a role toggle.
type CustomCommand struct {
	RoleID   Snowflake `json:"role_id"`
	RoleName string    `json:"role_name,omitempty"`
}

func (c *CustomCommand) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if len(b) > 0 && b[0] == '{' {
		type plain CustomCommand
		var p plain
		if err := json.Unmarshal(b, &p); err != nil {
			return err
		}
		*c = CustomCommand(p)
		return nil
	}
	var id Snowflake
	if err := json.Unmarshal(b, &id); err != nil {
		return err
	}
	*c = CustomCommand{RoleID: id}
	return nil
}

type WelcomeConfig struct {
	Enabled   bool      `json:"enabled"`
	ChannelID Snowflake `json:"channel_id,omitempty"`
	EmbedName string    `json:"embed_name,omitempty"`
	Message   string    `json:"message,omitempty"`
}

type EmbedAuthor struct {
	Name    string `json:"name,omitempty"`
	IconURL string `json:"icon_url,omitempty"`
}

type EmbedTemplate struct {
	Title       string       `json:"title,omitempty"`
	Description string       `json:"description,omitempty"`
	Color       EmbedColor   `json:"color,omitempty"`
	Thumbnail   string       `json:"thumbnail,omitempty"`
	Image       string       `json:"image,omitempty"`
	Footer      string       `json:"footer,omitempty"`
	Author      *EmbedAuthor `json:"author,omitempty"`
	AuthorName  string       `json:"author_name,omitempty"`
	AuthorIcon  string       `json:"author_icon,omitempty"`
	Timestamp   bool         `json:"timestamp,omitempty"`
}

// EmbedColor accepts an integer or a "#rrggbb" / "0xrrggbb" string.
type EmbedColor int

func (c *EmbedColor) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if bytes.Equal(b, []byte("null")) {
		*c = 0
		return nil
	}
	if len(b) > 0 && b[0] == '"' {
		var str string
		if err := json.Unmarshal(b, &str); err != nil {
			return err
		}
		v, err := ParseHexColor(str)
		if err != nil {
			return err
		}
		*c = EmbedColor(v)
		return nil
	}
	var v int
	if err := json.Unmarshal(b, &v); err != nil {
		return err
	}
	*c = EmbedColor(v)
	return nil
}

// ParseHexColor parses "#rrggbb", "0xrrggbb" or "rrggbb".
func ParseHexColor(s string) (int, error) {
	s = strings.TrimSpace(s)
	s = strings.TrimPrefix(s, "#")
	s = strings.TrimPrefix(strings.TrimPrefix(s, "0x"), "0X")
	if len(s) != 6 {
		return 0, fmt.Errorf("invalid color %q", s)
	}
	v, err := strconv.ParseUint(s, 16, 32)
	if err != nil {
		return 0, fmt.Errorf("invalid color %q", s)
	}
	return int(v), nil
}

// Document is the whole persisted data file.
type Document struct {
	NoPrefixUsers  []Snowflake                         `json:"no_prefix_users"`
	CustomCommands map[string]map[string]CustomCommand `json:"custom_commands"`
	GuildPrefixes  map[string]string                   `json:"guild_prefixes"`
	Embeds         map[string]map[string]EmbedTemplate `json:"embeds"`
	Welcome        map[string]WelcomeConfig            `json:"welcome"`
	Autoroles      map[string]RoleList                 `json:"autoroles"`
	AutorolesBot   map[string]RoleList                 `json:"autoroles_bot"`
	Aliases        map[string]map[string]string        `json:"aliases"`
	LogChannels    map[string]Snowflake                `json:"log_channels"`
}

var documentKeys = []string{
	"no_prefix_users",
	"custom_commands",
	"guild_prefixes",
	"embeds",
	"welcome",
	"autoroles",
	"autoroles_bot",
	"aliases",
	"log_channels",
}

// DefaultDocument returns an empty document whose no-prefix set holds seed.
func DefaultDocument(seed ...string) *Document {
	doc := &Document{}
	for _, id := range seed {
		if id != "" {
			doc.NoPrefixUsers = append(doc.NoPrefixUsers, Snowflake(id))
		}
	}
	doc.fillNil()
	return doc
}

func (d *Document) fillNil() {
	if d.NoPrefixUsers == nil {
		d.NoPrefixUsers = []Snowflake{}
	}
	if d.CustomCommands == nil {
		d.CustomCommands = make(map[string]map[string]CustomCommand)
	}
	if d.GuildPrefixes == nil {
		d.GuildPrefixes = make(map[string]string)
	}
	if d.Embeds == nil {
		d.Embeds = make(map[string]map[string]EmbedTemplate)
	}
	if d.Welcome == nil {
		d.Welcome = make(map[string]WelcomeConfig)
	}
	if d.Autoroles == nil {
		d.Autoroles = make(map[string]RoleList)
	}
	if d.AutorolesBot == nil {
		d.AutorolesBot = make(map[string]RoleList)
	}
	if d.Aliases == nil {
		d.Aliases = make(map[string]map[string]string)
	}
	if d.LogChannels == nil {
		d.LogChannels = make(map[string]Snowflake)
	}
}

// decodeDocument parses raw file content. missing reports whether any
// top-level key had to be defaulted.
func decodeDocument(data []byte, seed ...string) (doc *Document, missing bool, err error) {
	var keys map[string]json.RawMessage
	if err := json.Unmarshal(data, &keys); err != nil {
		return nil, false, err
	}
	if keys == nil {
		return nil, false, fmt.Errorf("document is not an object")
	}

	doc = &Document{}
	if err := json.Unmarshal(data, doc); err != nil {
		return nil, false, err
	}

	for _, k := range documentKeys {
		if _, ok := keys[k]; !ok {
			missing = true
		}
	}
	if _, ok := keys["no_prefix_users"]; !ok {
		for _, id := range seed {
			if id != "" {
				doc.NoPrefixUsers = append(doc.NoPrefixUsers, Snowflake(id))
			}
		}
	}
	doc.fillNil()
	return doc, missing, nil
}
