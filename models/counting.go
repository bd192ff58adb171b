package models

// CountingState is the process-wide state of the counting game.
type CountingState struct {
	// ChannelID is empty while the game is disabled.
	ChannelID     string         `json:"channelId"`
	CurrentNumber int64          `json:"currentNumber"`
	LastUserID    string         `json:"lastUserId"`
	Scoreboard    map[string]int `json:"scoreboard"`
}

// NewCountingState returns the state used when no document exists yet.
func NewCountingState() CountingState {
	return CountingState{Scoreboard: make(map[string]int)}
}

// Clone returns a deep copy so callers cannot reach into the engine's map.
func (s CountingState) Clone() CountingState {
	board := make(map[string]int, len(s.Scoreboard))
	for id, score := range s.Scoreboard {
		board[id] = score
	}
	s.Scoreboard = board
	return s
}

// Enabled reports whether a counting channel is configured.
func (s CountingState) Enabled() bool {
	return s.ChannelID != ""
}
