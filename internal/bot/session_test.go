package bot

import (
	"testing"

	"github.com/bwmarrin/discordgo"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/onevibe0405/Ferry/internal/config"
)

func TestInitializeConfiguresMessageCache(t *testing.T) {
	cfg := config.DefaultConfig().Bot
	cfg.Token = "test-token"
	cfg.MessageCacheSize = 250

	s, err := Initialize(cfg)
	require.NoError(t, err)

	assert.Equal(t, 250, s.discord.State.MaxMessageCount)
	assert.NotZero(t, s.discord.Identify.Intents&discordgo.IntentsMessageContent)
	assert.NotNil(t, s.Client())
}

func TestInitializeRequiresToken(t *testing.T) {
	_, err := Initialize(config.DefaultConfig().Bot)
	assert.Error(t, err)
}
