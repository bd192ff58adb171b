package auth

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"kekse-bot/clock"
	"kekse-bot/models"
	"kekse-bot/storage"
)

func TestPolicyEvaluate(t *testing.T) {
	p := Policy{OwnerID: "owner", ModRoleID: "mods"}

	owner := Caller{UserID: "owner"}
	mod := Caller{UserID: "m", RoleIDs: []string{"x", "mods"}}
	admin := Caller{UserID: "a", Permissions: 0x8 | 0x10}
	member := Caller{UserID: "u", RoleIDs: []string{"x"}, Permissions: 0x10}

	cases := []struct {
		name    string
		caller  Caller
		level   Level
		allowed bool
	}{
		{"everyone member", member, Everyone, true},
		{"moderator owner", owner, Moderator, true},
		{"moderator role", mod, Moderator, true},
		{"moderator admin bit", admin, Moderator, true},
		{"moderator member", member, Moderator, false},
		{"owner owner", owner, Owner, true},
		{"owner moderator", mod, Owner, false},
		{"owner admin", admin, Owner, false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			d := p.Evaluate(tc.caller, tc.level)
			assert.Equal(t, tc.allowed, d.Allowed)
			if !d.Allowed {
				assert.NotEmpty(t, d.Reason)
			}
		})
	}
}

func TestPolicyWithoutModRole(t *testing.T) {
	p := Policy{OwnerID: "owner"}
	assert.False(t, p.IsModerator(Caller{UserID: "u", RoleIDs: []string{""}}))
}

func newDashboard(t *testing.T) (*Dashboard, *storage.MemoryStore, *clock.Fake) {
	t.Helper()
	store := storage.NewMemoryStore()
	clk := clock.NewFake(time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC))
	d, err := NewDashboard(context.Background(), store, clk, "owner")
	require.NoError(t, err)
	return d, store, clk
}

func TestLoginWithoutPassword(t *testing.T) {
	d, _, _ := newDashboard(t)
	_, err := d.Login("anything", false)
	assert.ErrorIs(t, err, ErrNoPassword)
}

func TestSetPasswordPersistsHash(t *testing.T) {
	d, store, clk := newDashboard(t)
	ctx := context.Background()

	assert.ErrorIs(t, d.SetPassword(ctx, "short"), ErrWeakPassword)
	require.NoError(t, d.SetPassword(ctx, "kekse-geheim"))

	var saved models.AuthData
	found, err := store.Load(ctx, storage.Auth, &saved)
	require.NoError(t, err)
	require.True(t, found)
	assert.Equal(t, "owner", saved.OwnerID)
	assert.NotContains(t, saved.DashboardPasswordHash, "kekse-geheim")

	reloaded, err := NewDashboard(ctx, store, clk, "someone-else")
	require.NoError(t, err)
	_, err = reloaded.Login("kekse-geheim", false)
	assert.NoError(t, err)
}

func TestLoginSessions(t *testing.T) {
	d, _, clk := newDashboard(t)
	require.NoError(t, d.SetPassword(context.Background(), "kekse-geheim"))

	_, err := d.Login("wrong-password", false)
	assert.ErrorIs(t, err, ErrBadPassword)

	short, err := d.Login("kekse-geheim", false)
	require.NoError(t, err)
	long, err := d.Login("kekse-geheim", true)
	require.NoError(t, err)
	assert.Equal(t, clk.Now().Add(SessionTTL), short.ExpiresAt)
	assert.Equal(t, clk.Now().Add(StayLoggedInTTL), long.ExpiresAt)
	assert.True(t, d.Valid(short.Token))
	assert.False(t, d.Valid("forged"))

	clk.Advance(SessionTTL)
	assert.False(t, d.Valid(short.Token))
	assert.True(t, d.Valid(long.Token))
	assert.Equal(t, 1, d.ActiveSessions())

	d.Logout(long.Token)
	assert.False(t, d.Valid(long.Token))
}

func TestSetPasswordEndsSessions(t *testing.T) {
	d, _, _ := newDashboard(t)
	ctx := context.Background()
	require.NoError(t, d.SetPassword(ctx, "kekse-geheim"))
	s, err := d.Login("kekse-geheim", true)
	require.NoError(t, err)

	require.NoError(t, d.SetPassword(ctx, "neues-passwort"))
	assert.False(t, d.Valid(s.Token))
}
