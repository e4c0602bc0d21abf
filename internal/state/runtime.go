package state

import (
	"github.com/onevibe0405/Ferry/internal/config"
)

// Runtime is the non-persisted state owned by the message router and
// handed to command handlers.
type Runtime struct {
	AFK             *AFKTracker
	Snipes          *SnipeBuffer
	MentionCooldown *CooldownManager
	Throughput      *RateWindow
	UserCommands    *UserRateLimiter
}

func NewRuntime(limits config.LimitsConfig) *Runtime {
	return &Runtime{
		AFK:             NewAFKTracker(),
		Snipes:          NewSnipeBuffer(),
		MentionCooldown: NewCooldownManager(limits.MentionCooldown()),
		Throughput:      NewRateWindow(limits.GlobalMessages, limits.GlobalWindow()),
		UserCommands:    NewUserRateLimiter(limits.UserCommands, limits.UserWindow()),
	}
}

// Sweep drops expired cooldowns and idle rate windows.
func (r *Runtime) Sweep() {
	r.MentionCooldown.DeleteExpired()
	r.UserCommands.Sweep()
}
