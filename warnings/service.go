// Package warnings stores moderator warnings per member.
package warnings

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"kekse-bot/clock"
	"kekse-bot/logger"
	"kekse-bot/models"
	"kekse-bot/storage"
)

var ErrNotFound = errors.New("warning not found")

// Service is the append-only warning list. Every mutation rewrites the
// warnings document.
type Service struct {
	mu       sync.Mutex
	warnings []models.Warning
	store    storage.Store
	clock    clock.Clock
	log      zerolog.Logger

	persistErrors atomic.Int64
}

func New(ctx context.Context, store storage.Store, clk clock.Clock) (*Service, error) {
	var list []models.Warning
	if _, err := store.Load(ctx, storage.Warnings, &list); err != nil {
		return nil, fmt.Errorf("loading warnings: %w", err)
	}
	return &Service{
		warnings: list,
		store:    store,
		clock:    clk,
		log:      logger.Module("warnings"),
	}, nil
}

// Add records a warning and returns it together with the target's new total.
func (s *Service) Add(ctx context.Context, targetID, moderatorID, reason string) (models.Warning, int) {
	w := models.Warning{
		ID:          uuid.NewString(),
		UserID:      targetID,
		ModeratorID: moderatorID,
		Reason:      reason,
		Timestamp:   s.clock.Now().UTC(),
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.warnings = append(s.warnings, w)
	s.persistLocked(ctx)

	s.log.Info().Str("user", targetID).Str("moderator", moderatorID).Msg("warning added")
	return w, len(s.forUserLocked(targetID))
}

// List returns the warnings of targetID, oldest first.
func (s *Service) List(targetID string) []models.Warning {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.forUserLocked(targetID)
}

// Remove deletes the number-th warning (1-based, as shown by /warns) of
// targetID. Zero removes the most recent one.
func (s *Service) Remove(ctx context.Context, targetID string, number int) (models.Warning, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var positions []int
	for i, w := range s.warnings {
		if w.UserID == targetID {
			positions = append(positions, i)
		}
	}
	if number == 0 {
		number = len(positions)
	}
	if number < 1 || number > len(positions) {
		return models.Warning{}, ErrNotFound
	}

	idx := positions[number-1]
	removed := s.warnings[idx]
	s.warnings = append(s.warnings[:idx], s.warnings[idx+1:]...)
	s.persistLocked(ctx)

	s.log.Info().Str("user", targetID).Str("warning", removed.ID).Msg("warning removed")
	return removed, nil
}

// Count returns the number of warnings across all members.
func (s *Service) Count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.warnings)
}

func (s *Service) PersistErrors() int64 {
	return s.persistErrors.Load()
}

func (s *Service) forUserLocked(targetID string) []models.Warning {
	var out []models.Warning
	for _, w := range s.warnings {
		if w.UserID == targetID {
			out = append(out, w)
		}
	}
	return out
}

func (s *Service) persistLocked(ctx context.Context) {
	list := s.warnings
	if list == nil {
		list = []models.Warning{}
	}
	if err := s.store.Save(ctx, storage.Warnings, list); err != nil {
		s.persistErrors.Add(1)
		s.log.Error().Err(err).Msg("failed to persist warnings")
	}
}
