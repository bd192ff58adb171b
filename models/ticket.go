package models

import "time"

// TicketStatus is the lifecycle state of a ticket record.
type TicketStatus string

const (
	TicketOpen   TicketStatus = "open"
	TicketClosed TicketStatus = "closed"
)

// Ticket is one support request backed by a private channel. Closed tickets
// stay in the document as history.
type Ticket struct {
	ID        string       `json:"id"`
	UserID    string       `json:"userId"`
	ChannelID string       `json:"channelId"`
	Status    TicketStatus `json:"status"`
	Category  string       `json:"category"`
	CreatedAt time.Time    `json:"createdAt"`
	ClosedAt  *time.Time   `json:"closedAt,omitempty"`
	// DeleteAt is set while the channel deletion is pending so a restart can
	// still honor it.
	DeleteAt       *time.Time `json:"deleteAt,omitempty"`
	ChannelDeleted bool       `json:"channelDeleted,omitempty"`
}

// IsOpen reports whether the ticket still counts against the one-open-ticket rule.
func (t *Ticket) IsOpen() bool {
	return t.Status == TicketOpen
}

// PendingDeletion reports whether a channel deletion is scheduled but not done.
func (t *Ticket) PendingDeletion() bool {
	return t.DeleteAt != nil && !t.ChannelDeleted
}
