package warnings

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

func newService(t *testing.T) (*Service, *storage.MemoryStore, *clock.Fake) {
	t.Helper()
	store := storage.NewMemoryStore()
	clk := clock.NewFake(time.Date(2025, 2, 1, 10, 0, 0, 0, time.UTC))
	s, err := New(context.Background(), store, clk)
	require.NoError(t, err)
	return s, store, clk
}

func reasons(ws []models.Warning) []string {
	out := make([]string, len(ws))
	for i, w := range ws {
		out[i] = w.Reason
	}
	return out
}

func TestAddAndList(t *testing.T) {
	s, store, clk := newService(t)
	ctx := context.Background()

	w, total := s.Add(ctx, "u1", "mod", "spam")
	assert.Equal(t, 1, total)
	assert.NotEmpty(t, w.ID)
	assert.Equal(t, clk.Now(), w.Timestamp)

	clk.Advance(time.Minute)
	s.Add(ctx, "u2", "mod", "caps")
	_, total = s.Add(ctx, "u1", "mod", "insults")
	assert.Equal(t, 2, total)

	assert.Equal(t, []string{"spam", "insults"}, reasons(s.List("u1")))
	assert.Empty(t, s.List("nobody"))
	assert.Equal(t, 3, s.Count())
	assert.Equal(t, 3, store.SaveCount(storage.Warnings))

	reloaded, err := New(ctx, store, clk)
	require.NoError(t, err)
	assert.Equal(t, s.List("u1"), reloaded.List("u1"))
}

func TestRemoveByNumber(t *testing.T) {
	s, _, _ := newService(t)
	ctx := context.Background()
	s.Add(ctx, "u1", "mod", "a")
	s.Add(ctx, "u2", "mod", "other")
	s.Add(ctx, "u1", "mod", "b")
	s.Add(ctx, "u1", "mod", "c")

	removed, err := s.Remove(ctx, "u1", 2)
	require.NoError(t, err)
	assert.Equal(t, "b", removed.Reason)
	assert.Equal(t, []string{"a", "c"}, reasons(s.List("u1")))
	assert.Equal(t, []string{"other"}, reasons(s.List("u2")))
}

func TestRemoveLatestByDefault(t *testing.T) {
	s, _, _ := newService(t)
	ctx := context.Background()
	s.Add(ctx, "u1", "mod", "a")
	s.Add(ctx, "u1", "mod", "b")

	removed, err := s.Remove(ctx, "u1", 0)
	require.NoError(t, err)
	assert.Equal(t, "b", removed.Reason)
}

func TestRemoveOutOfRange(t *testing.T) {
	s, store, _ := newService(t)
	ctx := context.Background()
	s.Add(ctx, "u1", "mod", "a")
	saves := store.SaveCount(storage.Warnings)

	for _, n := range []int{-1, 2} {
		_, err := s.Remove(ctx, "u1", n)
		assert.ErrorIs(t, err, ErrNotFound)
	}
	_, err := s.Remove(ctx, "u2", 0)
	assert.ErrorIs(t, err, ErrNotFound)
	assert.Equal(t, saves, store.SaveCount(storage.Warnings))
}

func TestPersistFailureIsCounted(t *testing.T) {
	s, store, _ := newService(t)
	store.FailSaves(true)

	s.Add(context.Background(), "u1", "mod", "a")
	assert.Equal(t, 1, s.Count())
	assert.Equal(t, int64(1), s.PersistErrors())
}
