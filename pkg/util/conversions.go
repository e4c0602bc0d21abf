package util

import (
	"fmt"
	"strconv"
	"strings"
)

// StringToUint64 converts string to uint64
func StringToUint64(s string) (uint64, error) {
	n, err := strconv.ParseUint(s, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("failed to parse uint64: %w", err)
	}
	return n, nil
}

// IsSnowflake reports whether s is a decimal platform id.
func IsSnowflake(s string) bool {
	if len(s) < 15 || len(s) > 20 {
		return false
	}
	_, err := StringToUint64(s)
	return err == nil
}

func unwrap(s, open string) (string, bool) {
	if !strings.HasPrefix(s, open) || !strings.HasSuffix(s, ">") {
		return "", false
	}
	id := s[len(open) : len(s)-1]
	return id, IsSnowflake(id)
}

// ParseUserMention accepts <@id>, <@!id> or a bare id.
func ParseUserMention(s string) (string, bool) {
	s = strings.TrimSpace(s)
	if id, ok := unwrap(s, "<@!"); ok {
		return id, true
	}
	if id, ok := unwrap(s, "<@"); ok {
		return id, true
	}
	if IsSnowflake(s) {
		return s, true
	}
	return "", false
}

// ParseRoleMention accepts <@&id> or a bare id.
func ParseRoleMention(s string) (string, bool) {
	s = strings.TrimSpace(s)
	if id, ok := unwrap(s, "<@&"); ok {
		return id, true
	}
	if IsSnowflake(s) {
		return s, true
	}
	return "", false
}

// ParseChannelMention accepts <#id> or a bare id.
func ParseChannelMention(s string) (string, bool) {
	s = strings.TrimSpace(s)
	if id, ok := unwrap(s, "<#"); ok {
		return id, true
	}
	if IsSnowflake(s) {
		return s, true
	}
	return "", false
}
