package util

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

const id = "123456789012345678"

func TestParseUserMention(t *testing.T) {
	for _, in := range []string{"<@" + id + ">", "<@!" + id + ">", id, " " + id + " "} {
		got, ok := ParseUserMention(in)
		assert.True(t, ok, in)
		assert.Equal(t, id, got, in)
	}
	for _, in := range []string{"<@&" + id + ">", "<#" + id + ">", "bob", "<@12>", ""} {
		_, ok := ParseUserMention(in)
		assert.False(t, ok, in)
	}
}

func TestParseRoleMention(t *testing.T) {
	got, ok := ParseRoleMention("<@&" + id + ">")
	assert.True(t, ok)
	assert.Equal(t, id, got)

	_, ok = ParseRoleMention("<@" + id + ">")
	assert.False(t, ok)
	_, ok = ParseRoleMention("Moderators")
	assert.False(t, ok)
}

func TestParseChannelMention(t *testing.T) {
	got, ok := ParseChannelMention("<#" + id + ">")
	assert.True(t, ok)
	assert.Equal(t, id, got)

	_, ok = ParseChannelMention("#general")
	assert.False(t, ok)
}
