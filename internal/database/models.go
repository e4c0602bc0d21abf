package database

// ActionLog is one recorded moderation action.
type ActionLog struct {
	ID        int64
	GuildID   string
	Action    string
	ActorID   string
	TargetID  string
	Detail    string
	Success   bool
	Timestamp int64
}

// Warning is a moderator-issued warning against a member.
type Warning struct {
	ID          int64
	GuildID     string
	UserID      string
	ModeratorID string
	Reason      string
	CreatedAt   int64
}
