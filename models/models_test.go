package models

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCountingStateCloneIsDeep(t *testing.T) {
	s := NewCountingState()
	s.Scoreboard["a"] = 1

	c := s.Clone()
	c.Scoreboard["a"] = 5

	assert.Equal(t, 1, s.Scoreboard["a"])
}

func TestCountingStateReadsNullChannel(t *testing.T) {
	var s CountingState
	require.NoError(t, json.Unmarshal([]byte(`{"channelId":null,"currentNumber":3,"lastUserId":null,"scoreboard":{"u":2}}`), &s))
	assert.False(t, s.Enabled())
	assert.Equal(t, int64(3), s.CurrentNumber)
	assert.Equal(t, 2, s.Scoreboard["u"])
}

func TestTicketPendingDeletion(t *testing.T) {
	at := time.Now()
	ticket := Ticket{Status: TicketClosed, DeleteAt: &at}
	assert.False(t, ticket.IsOpen())
	assert.True(t, ticket.PendingDeletion())

	ticket.ChannelDeleted = true
	assert.False(t, ticket.PendingDeletion())
}

func TestGiveawayMembership(t *testing.T) {
	g := Giveaway{Participants: []string{"a"}, Blacklist: []string{"b"}}
	assert.True(t, g.HasParticipant("a"))
	assert.False(t, g.HasParticipant("b"))
	assert.True(t, g.IsBlacklisted("b"))
}
