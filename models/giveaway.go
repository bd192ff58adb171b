package models

import "time"

// Giveaway is an in-memory raffle. It is never persisted.
type Giveaway struct {
	ID              string
	ChannelID       string
	MessageID       string
	HostID          string
	Prize           string
	Description     string
	Winners         int
	Blacklist       []string
	WhitelistRoleID string
	Participants    []string
	WinnerIDs       []string
	CreatedAt       time.Time
	EndsAt          time.Time
	IsEnded         bool
}

// HasParticipant reports whether userID already joined.
func (g *Giveaway) HasParticipant(userID string) bool {
	for _, id := range g.Participants {
		if id == userID {
			return true
		}
	}
	return false
}

// IsBlacklisted reports whether userID was excluded by the host.
func (g *Giveaway) IsBlacklisted(userID string) bool {
	for _, id := range g.Blacklist {
		if id == userID {
			return true
		}
	}
	return false
}
