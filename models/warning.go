package models

import "time"

// Warning is a moderator warning issued to a member.
type Warning struct {
	ID          string    `json:"id"`
	UserID      string    `json:"userId"`
	ModeratorID string    `json:"moderatorId"`
	Reason      string    `json:"reason"`
	Timestamp   time.Time `json:"timestamp"`
}
