// Package auth decides who may run which command and guards the dashboard
// with a password and bearer sessions.
package auth

import (
	"kekse-bot/utils"
)

// Level is the permission a command requires.
type Level int

const (
	Everyone Level = iota
	Moderator
	Owner
)

func (l Level) String() string {
	switch l {
	case Moderator:
		return "moderator"
	case Owner:
		return "owner"
	default:
		return "everyone"
	}
}

// Caller is the invoking member as seen in an interaction.
type Caller struct {
	UserID      string
	RoleIDs     []string
	Permissions int64
}

// Decision is the outcome of a permission check.
type Decision struct {
	Allowed bool
	Reason  string
}

// Policy evaluates command permissions for one guild.
type Policy struct {
	OwnerID   string
	ModRoleID string
}

// Evaluate checks caller against the required level.
func (p Policy) Evaluate(c Caller, required Level) Decision {
	switch required {
	case Everyone:
		return Decision{Allowed: true}
	case Owner:
		if p.IsOwner(c) {
			return Decision{Allowed: true}
		}
		return Decision{Reason: "Nur der Owner darf diesen Befehl nutzen."}
	default:
		if p.IsModerator(c) {
			return Decision{Allowed: true}
		}
		return Decision{Reason: "Nur Moderatoren dürfen diesen Befehl nutzen."}
	}
}

func (p Policy) IsOwner(c Caller) bool {
	return p.OwnerID != "" && c.UserID == p.OwnerID
}

// IsModerator is true for the owner, holders of the moderator role and
// members with the administrator permission bit.
func (p Policy) IsModerator(c Caller) bool {
	if p.IsOwner(c) {
		return true
	}
	if c.Permissions&utils.PermissionAdministrator == utils.PermissionAdministrator {
		return true
	}
	if p.ModRoleID == "" {
		return false
	}
	for _, r := range c.RoleIDs {
		if r == p.ModRoleID {
			return true
		}
	}
	return false
}
