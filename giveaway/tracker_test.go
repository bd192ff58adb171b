package giveaway

import (
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"kekse-bot/clock"
)

func validParams() Params {
	return Params{
		ChannelID: "c1",
		HostID:    "host",
		Prize:     "Nitro",
		Duration:  10 * time.Minute,
		Winners:   1,
	}
}

func newTracker(t *testing.T) (*Tracker, string) {
	t.Helper()
	tr := NewTracker(clock.NewFake(time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)))
	g, err := tr.Create(validParams())
	require.NoError(t, err)
	return tr, g.ID
}

func TestCreate(t *testing.T) {
	tr, id := newTracker(t)

	g, ok := tr.Get(id)
	require.True(t, ok)
	assert.Equal(t, "Nitro", g.Prize)
	assert.Equal(t, g.CreatedAt.Add(10*time.Minute), g.EndsAt)
	assert.False(t, g.IsEnded)
	assert.Equal(t, 1, tr.ActiveCount())
}

func TestCreateRejectsInvalidParams(t *testing.T) {
	tr := NewTracker(clock.Real())
	cases := map[string]func(*Params){
		"no prize":        func(p *Params) { p.Prize = "" },
		"zero winners":    func(p *Params) { p.Winners = 0 },
		"too many":        func(p *Params) { p.Winners = 51 },
		"too short":       func(p *Params) { p.Duration = time.Second },
		"too long":        func(p *Params) { p.Duration = 31 * 24 * time.Hour },
		"empty blacklist": func(p *Params) { p.Blacklist = []string{""} },
	}
	for name, mutate := range cases {
		t.Run(name, func(t *testing.T) {
			p := validParams()
			mutate(&p)
			_, err := tr.Create(p)
			assert.ErrorIs(t, err, ErrInvalidParams)
		})
	}
	assert.Equal(t, 0, tr.ActiveCount())
}

func TestJoinTwice(t *testing.T) {
	tr, id := newTracker(t)

	n, err := tr.Join(id, Entrant{UserID: "u1"})
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	n, err = tr.Join(id, Entrant{UserID: "u1"})
	assert.ErrorIs(t, err, ErrAlreadyJoined)
	assert.Equal(t, 1, n)

	g, _ := tr.Get(id)
	assert.Equal(t, []string{"u1"}, g.Participants)
}

func TestJoinUnknownOrEnded(t *testing.T) {
	tr, id := newTracker(t)

	_, err := tr.Join("missing", Entrant{UserID: "u1"})
	assert.ErrorIs(t, err, ErrNotFound)

	_, err = tr.End(id)
	require.NoError(t, err)
	_, err = tr.Join(id, Entrant{UserID: "u1"})
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestJoinEligibility(t *testing.T) {
	tr := NewTracker(clock.Real())
	p := validParams()
	p.Blacklist = []string{"bad"}
	p.WhitelistRoleID = "vip"
	g, err := tr.Create(p)
	require.NoError(t, err)

	_, err = tr.Join(g.ID, Entrant{UserID: "bad", RoleIDs: []string{"vip"}})
	assert.ErrorIs(t, err, ErrNotEligible)

	_, err = tr.Join(g.ID, Entrant{UserID: "u1", RoleIDs: []string{"other"}})
	assert.ErrorIs(t, err, ErrNotEligible)

	n, err := tr.Join(g.ID, Entrant{UserID: "u1", RoleIDs: []string{"other", "vip"}})
	require.NoError(t, err)
	assert.Equal(t, 1, n)
}

func TestConcurrentJoinsAreUnique(t *testing.T) {
	tr, id := newTracker(t)

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, _ = tr.Join(id, Entrant{UserID: fmt.Sprint(i % 10)})
		}(i)
	}
	wg.Wait()

	g, _ := tr.Get(id)
	assert.Len(t, g.Participants, 10)
}

func TestEndDrawsDistinctWinners(t *testing.T) {
	tr := NewTracker(clock.Real())
	p := validParams()
	p.Winners = 3
	g, err := tr.Create(p)
	require.NoError(t, err)
	for i := 0; i < 8; i++ {
		_, err := tr.Join(g.ID, Entrant{UserID: fmt.Sprint("u", i)})
		require.NoError(t, err)
	}

	ended, err := tr.End(g.ID)
	require.NoError(t, err)
	assert.True(t, ended.IsEnded)
	require.Len(t, ended.WinnerIDs, 3)

	seen := map[string]bool{}
	for _, w := range ended.WinnerIDs {
		assert.False(t, seen[w], "winner drawn twice")
		seen[w] = true
		assert.Contains(t, ended.Participants, w)
	}

	_, err = tr.End(g.ID)
	assert.ErrorIs(t, err, ErrNotFound)
	assert.Equal(t, 0, tr.ActiveCount())
}

func TestEndWithFewerParticipantsThanWinners(t *testing.T) {
	tr, id := newTracker(t)
	ended, err := tr.End(id)
	require.NoError(t, err)
	assert.Empty(t, ended.WinnerIDs)
}

func TestDraw(t *testing.T) {
	pool := []string{"a", "b", "c", "d", "e", "f"}

	winners, err := draw(pool, 3)
	require.NoError(t, err)
	require.Len(t, winners, 3)
	assert.Subset(t, pool, winners)
	assert.Equal(t, []string{"a", "b", "c", "d", "e", "f"}, pool, "pool is not reordered")

	all, err := draw(pool, 10)
	require.NoError(t, err)
	assert.ElementsMatch(t, pool, all)

	none, err := draw(nil, 2)
	require.NoError(t, err)
	assert.Empty(t, none)
}
