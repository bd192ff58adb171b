// Package tickets manages support tickets: one private channel per request,
// at most one open ticket per member, and a delayed channel deletion after
// close that survives restarts.
package tickets

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog"

	"kekse-bot/clock"
	"kekse-bot/logger"
	"kekse-bot/models"
	"kekse-bot/storage"
	"kekse-bot/utils"
)

var (
	ErrDuplicateTicket = errors.New("user already has an open ticket")
	ErrNotFound        = errors.New("ticket not found")
)

// deleteTimeout bounds a single channel deletion fired by the scheduler.
const deleteTimeout = 30 * time.Second

// ChannelRequest describes the private channel backing a new ticket.
type ChannelRequest struct {
	// GuildID is the guild the request came from.
	GuildID  string
	Name     string
	ParentID string
	// OwnerID is the requester; the platform grants them access.
	OwnerID string
}

// Platform is the chat platform side of the ticket lifecycle.
type Platform interface {
	CreateChannel(ctx context.Context, req ChannelRequest) (string, error)
	PostWelcome(ctx context.Context, ticket models.Ticket, category Category) error
	PostClosingNotice(ctx context.Context, channelID, content string) error
	DeleteChannel(ctx context.Context, channelID string) error
}

// Requester identifies the member asking for a ticket.
type Requester struct {
	UserID   string
	Username string
	GuildID  string
}

// Options configures a Manager.
type Options struct {
	SupportParentID     string
	ApplicationParentID string
	DeleteDelay         time.Duration
}

// Manager owns the ticket list and the pending channel deletions.
type Manager struct {
	mu      sync.Mutex
	tickets []models.Ticket
	timers  map[string]clock.Timer

	userLocks *utils.KeyedMutex
	store     storage.Store
	platform  Platform
	clock     clock.Clock
	opts      Options
	log       zerolog.Logger

	persistErrors atomic.Int64
}

// New loads the ticket document. Pending deletions are not scheduled until
// Resume is called.
func New(ctx context.Context, store storage.Store, platform Platform, clk clock.Clock, opts Options) (*Manager, error) {
	var list []models.Ticket
	if _, err := store.Load(ctx, storage.Tickets, &list); err != nil {
		return nil, fmt.Errorf("loading tickets: %w", err)
	}
	if opts.DeleteDelay <= 0 {
		opts.DeleteDelay = 5 * time.Second
	}
	return &Manager{
		tickets:   list,
		timers:    make(map[string]clock.Timer),
		userLocks: utils.NewKeyedMutex(),
		store:     store,
		platform:  platform,
		clock:     clk,
		opts:      opts,
		log:       logger.Module("tickets"),
	}, nil
}

// DeleteDelay is the time between close and channel deletion.
func (m *Manager) DeleteDelay() time.Duration {
	return m.opts.DeleteDelay
}

// RequestTicket opens a ticket for the requester in the given category.
// Requests of the same user are serialized so the one-open-ticket rule
// holds under concurrent clicks.
func (m *Manager) RequestTicket(ctx context.Context, who Requester, categoryValue string) (models.Ticket, error) {
	unlock := m.userLocks.Lock(who.UserID)
	defer unlock()

	if _, ok := m.OpenTicketFor(who.UserID); ok {
		return models.Ticket{}, ErrDuplicateTicket
	}

	category := LookupCategory(categoryValue)
	now := m.clock.Now()
	millis := strconv.FormatInt(now.UnixMilli(), 10)
	id := millis[len(millis)-4:]

	parent := m.opts.SupportParentID
	if category.Application {
		parent = m.opts.ApplicationParentID
	}
	channelID, err := m.platform.CreateChannel(ctx, ChannelRequest{
		GuildID:  who.GuildID,
		Name:     fmt.Sprintf("%s-%s-%s", category.Emoji, strings.ToLower(who.Username), id),
		ParentID: parent,
		OwnerID:  who.UserID,
	})
	if err != nil {
		return models.Ticket{}, fmt.Errorf("creating ticket channel: %w", err)
	}

	ticket := models.Ticket{
		ID:        id,
		UserID:    who.UserID,
		ChannelID: channelID,
		Status:    models.TicketOpen,
		Category:  categoryValue,
		CreatedAt: now.UTC(),
	}

	m.mu.Lock()
	m.tickets = append(m.tickets, ticket)
	m.persistLocked(ctx)
	m.mu.Unlock()

	m.log.Info().
		Str("ticket", id).
		Str("user", who.UserID).
		Str("channel", channelID).
		Str("category", category.Key).
		Msg("ticket opened")

	if err := m.platform.PostWelcome(ctx, ticket, category); err != nil {
		m.log.Error().Err(err).Str("channel", channelID).Msg("failed to post ticket welcome")
	}
	return ticket, nil
}

// CloseTicket closes the ticket behind channelID and schedules the channel
// deletion. ErrNotFound means the channel is no ticket; callers treat that
// as a no-op. Closing a closed ticket returns it unchanged.
func (m *Manager) CloseTicket(ctx context.Context, channelID string) (models.Ticket, error) {
	m.mu.Lock()
	idx := m.indexByChannelLocked(channelID)
	if idx < 0 {
		m.mu.Unlock()
		return models.Ticket{}, ErrNotFound
	}
	ticket := &m.tickets[idx]
	if !ticket.IsOpen() {
		closed := *ticket
		m.mu.Unlock()
		return closed, nil
	}

	now := m.clock.Now().UTC()
	deleteAt := now.Add(m.opts.DeleteDelay)
	ticket.Status = models.TicketClosed
	ticket.ClosedAt = &now
	ticket.DeleteAt = &deleteAt
	closed := *ticket
	m.persistLocked(ctx)
	m.mu.Unlock()

	m.log.Info().Str("ticket", closed.ID).Str("channel", channelID).Time("delete_at", deleteAt).Msg("ticket closed")

	notice := fmt.Sprintf(utils.TicketClosingMessage, int(m.opts.DeleteDelay/time.Second))
	if err := m.platform.PostClosingNotice(ctx, channelID, notice); err != nil {
		m.log.Error().Err(err).Str("channel", channelID).Msg("failed to post closing notice")
	}

	m.schedule(channelID, deleteAt)
	return closed, nil
}

// Resume schedules every deletion recorded before a restart. Deletions that
// are already due fire right away. It returns how many were scheduled.
func (m *Manager) Resume(ctx context.Context) int {
	m.mu.Lock()
	pending := make(map[string]time.Time)
	for _, t := range m.tickets {
		if t.PendingDeletion() {
			pending[t.ChannelID] = *t.DeleteAt
		}
	}
	m.mu.Unlock()

	for channelID, at := range pending {
		m.schedule(channelID, at)
	}
	if len(pending) > 0 {
		m.log.Info().Int("count", len(pending)).Msg("resumed pending channel deletions")
	}
	return len(pending)
}

// CancelDeletion abandons the pending deletion of channelID and clears its
// durable record. The ticket stays closed.
func (m *Manager) CancelDeletion(ctx context.Context, channelID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	idx := m.indexByChannelLocked(channelID)
	if idx < 0 || !m.tickets[idx].PendingDeletion() {
		return ErrNotFound
	}
	if timer, ok := m.timers[channelID]; ok {
		timer.Stop()
		delete(m.timers, channelID)
	}
	m.tickets[idx].DeleteAt = nil
	m.persistLocked(ctx)
	m.log.Info().Str("channel", channelID).Msg("channel deletion cancelled")
	return nil
}

// Stop cancels all timers. Durable records are kept so Resume can pick them
// up on the next start.
func (m *Manager) Stop() {
	m.mu.Lock()
	defer m.mu.Unlock()
	for channelID, timer := range m.timers {
		timer.Stop()
		delete(m.timers, channelID)
	}
}

func (m *Manager) schedule(channelID string, at time.Time) {
	delay := at.Sub(m.clock.Now())
	if delay < 0 {
		delay = 0
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	if previous, ok := m.timers[channelID]; ok {
		previous.Stop()
	}
	m.timers[channelID] = m.clock.AfterFunc(delay, func() {
		m.deleteChannel(channelID)
	})
}

// deleteChannel runs when a deletion timer fires. A failed deletion is
// logged and not retried.
func (m *Manager) deleteChannel(channelID string) {
	m.mu.Lock()
	delete(m.timers, channelID)
	idx := m.indexByChannelLocked(channelID)
	if idx < 0 || !m.tickets[idx].PendingDeletion() {
		m.mu.Unlock()
		return
	}
	m.mu.Unlock()

	ctx, cancel := context.WithTimeout(context.Background(), deleteTimeout)
	defer cancel()

	err := m.platform.DeleteChannel(ctx, channelID)
	if err != nil {
		m.log.Error().Err(err).Str("channel", channelID).Msg("failed to delete ticket channel")
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	idx = m.indexByChannelLocked(channelID)
	if idx < 0 {
		return
	}
	m.tickets[idx].DeleteAt = nil
	m.tickets[idx].ChannelDeleted = err == nil
	m.persistLocked(ctx)
	if err == nil {
		m.log.Info().Str("channel", channelID).Msg("ticket channel deleted")
	}
}

// OpenTicketFor returns the open ticket of userID.
func (m *Manager) OpenTicketFor(userID string) (models.Ticket, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, t := range m.tickets {
		if t.UserID == userID && t.IsOpen() {
			return t, true
		}
	}
	return models.Ticket{}, false
}

// TicketByChannel returns the ticket backed by channelID.
func (m *Manager) TicketByChannel(channelID string) (models.Ticket, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	idx := m.indexByChannelLocked(channelID)
	if idx < 0 {
		return models.Ticket{}, false
	}
	return m.tickets[idx], true
}

// List returns a copy of all tickets, closed ones included.
func (m *Manager) List() []models.Ticket {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]models.Ticket, len(m.tickets))
	copy(out, m.tickets)
	return out
}

func (m *Manager) OpenCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	n := 0
	for _, t := range m.tickets {
		if t.IsOpen() {
			n++
		}
	}
	return n
}

// PendingDeletions reports how many deletion timers are armed.
func (m *Manager) PendingDeletions() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.timers)
}

func (m *Manager) PersistErrors() int64 {
	return m.persistErrors.Load()
}

// indexByChannelLocked finds the newest ticket of a channel.
func (m *Manager) indexByChannelLocked(channelID string) int {
	for i := len(m.tickets) - 1; i >= 0; i-- {
		if m.tickets[i].ChannelID == channelID {
			return i
		}
	}
	return -1
}

func (m *Manager) persistLocked(ctx context.Context) {
	if err := m.store.Save(ctx, storage.Tickets, m.tickets); err != nil {
		m.persistErrors.Add(1)
		m.log.Error().Err(err).Msg("failed to persist tickets")
	}
}
