package models

// GuildSnapshot is the "ids" document written on startup: every channel, role
// and member id of the home guild, for looking ids up by hand.
type GuildSnapshot struct {
	Guild    SnapshotEntry    `json:"guild"`
	Channels []SnapshotEntry  `json:"channels"`
	Roles    []SnapshotEntry  `json:"roles"`
	Members  []SnapshotMember `json:"members"`
}

type SnapshotEntry struct {
	ID   string `json:"id"`
	Name string `json:"name"`
	Type int    `json:"type,omitempty"`
}

type SnapshotMember struct {
	ID       string `json:"id"`
	Username string `json:"username"`
}
