package state

import (
	"sync"
	"time"
)

const SnipeDepth = 10

type DeletedMessage struct {
	AuthorID   string
	AuthorName string
	AvatarURL  string
	ChannelID  string
	Content    string
	DeletedAt  time.Time
}

// SnipeBuffer keeps the last SnipeDepth deleted messages of each guild.
type SnipeBuffer struct {
	mu     sync.RWMutex
	guilds map[string]*snipeRing
}

type snipeRing struct {
	items [SnipeDepth]DeletedMessage
	head  int
	count int
}

func NewSnipeBuffer() *SnipeBuffer {
	return &SnipeBuffer{guilds: make(map[string]*snipeRing)}
}

func (sb *SnipeBuffer) Push(guildID string, msg DeletedMessage) {
	sb.mu.Lock()
	defer sb.mu.Unlock()

	ring, ok := sb.guilds[guildID]
	if !ok {
		ring = &snipeRing{}
		sb.guilds[guildID] = ring
	}
	ring.items[ring.head] = msg
	ring.head = (ring.head + 1) % SnipeDepth
	if ring.count < SnipeDepth {
		ring.count++
	}
}

// Get returns the nth most recent deleted message, starting at 1.
func (sb *SnipeBuffer) Get(guildID string, n int) (DeletedMessage, bool) {
	sb.mu.RLock()
	defer sb.mu.RUnlock()

	ring, ok := sb.guilds[guildID]
	if !ok || n < 1 || n > ring.count {
		return DeletedMessage{}, false
	}
	idx := (ring.head - n + SnipeDepth) % SnipeDepth
	return ring.items[idx], true
}

func (sb *SnipeBuffer) Len(guildID string) int {
	sb.mu.RLock()
	defer sb.mu.RUnlock()
	if ring, ok := sb.guilds[guildID]; ok {
		return ring.count
	}
	return 0
}
