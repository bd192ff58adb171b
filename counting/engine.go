// Package counting implements the counting game: members take turns posting
// the next integer in one designated channel.
package counting

import (
	"context"
	"regexp"
	"sort"
	"strconv"
	"strings"
	"sync"
	"sync/atomic"

	"github.com/rs/zerolog"

	"kekse-bot/logger"
	"kekse-bot/models"
	"kekse-bot/storage"
)

// Outcome is the effect a message had on the game.
type Outcome int

const (
	// Ignored messages cause no transition at all.
	Ignored Outcome = iota
	Accepted
	Rejected
)

func (o Outcome) String() string {
	switch o {
	case Accepted:
		return "accepted"
	case Rejected:
		return "rejected"
	default:
		return "ignored"
	}
}

// Rejection reasons.
const (
	ReasonSameUser    = "same_user"
	ReasonWrongNumber = "wrong_number"
)

var leadingNumber = regexp.MustCompile(`^\d+`)

// Message is the part of an inbound chat message the game looks at.
type Message struct {
	ChannelID string
	AuthorID  string
	AuthorBot bool
	Content   string
}

// Result describes what Process did.
type Result struct {
	Outcome  Outcome
	Number   int64
	Expected int64
	Reason   string
}

// Engine owns the live CountingState and writes it back after every change.
type Engine struct {
	mu            sync.Mutex
	state         models.CountingState
	store         storage.Store
	log           zerolog.Logger
	persistErrors atomic.Int64
}

// New loads the counting document, falling back to a disabled game at zero.
func New(ctx context.Context, store storage.Store) (*Engine, error) {
	state := models.NewCountingState()
	if _, err := store.Load(ctx, storage.Counting, &state); err != nil {
		return nil, err
	}
	if state.Scoreboard == nil {
		state.Scoreboard = make(map[string]int)
	}
	return &Engine{
		state: state,
		store: store,
		log:   logger.Module("counting"),
	}, nil
}

// Process applies one message to the game. The number must equal the current
// count plus one and the author must differ from the previous contributor;
// anything else resets the count to zero.
func (e *Engine) Process(ctx context.Context, msg Message) Result {
	if msg.AuthorBot {
		return Result{Outcome: Ignored}
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	if !e.state.Enabled() || msg.ChannelID != e.state.ChannelID {
		return Result{Outcome: Ignored}
	}
	match := leadingNumber.FindString(strings.TrimSpace(msg.Content))
	if match == "" {
		return Result{Outcome: Ignored}
	}
	number, err := strconv.ParseInt(match, 10, 64)
	if err != nil {
		// too many digits to be anyone's next number
		number = -1
	}

	expected := e.state.CurrentNumber + 1
	result := Result{Number: number, Expected: expected}

	switch {
	case msg.AuthorID == e.state.LastUserID:
		result.Outcome, result.Reason = Rejected, ReasonSameUser
	case number != expected:
		result.Outcome, result.Reason = Rejected, ReasonWrongNumber
	default:
		result.Outcome = Accepted
	}

	if result.Outcome == Accepted {
		e.state.CurrentNumber = number
		e.state.LastUserID = msg.AuthorID
		e.state.Scoreboard[msg.AuthorID]++
	} else {
		e.state.CurrentNumber = 0
		e.state.LastUserID = ""
	}
	e.persistLocked(ctx)

	e.log.Debug().
		Str("user", msg.AuthorID).
		Int64("number", number).
		Str("outcome", result.Outcome.String()).
		Str("reason", result.Reason).
		Msg("counting message processed")
	return result
}

// SetChannel designates the counting channel and restarts the game at zero.
func (e *Engine) SetChannel(ctx context.Context, channelID string) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.state.ChannelID = channelID
	e.state.CurrentNumber = 0
	e.state.LastUserID = ""
	e.persistLocked(ctx)
}

// Disable stops the game. Count and scoreboard are kept.
func (e *Engine) Disable(ctx context.Context) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.state.ChannelID = ""
	e.persistLocked(ctx)
}

// SetNumber overrides the current count. Anyone may post the next number.
func (e *Engine) SetNumber(ctx context.Context, number int64) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.state.CurrentNumber = number
	e.state.LastUserID = ""
	e.persistLocked(ctx)
}

// Reconcile rebuilds the count from recent channel history (newest first):
// the newest human message starting with a number becomes the current state.
// It reports false when the history holds no such message.
func (e *Engine) Reconcile(ctx context.Context, history []Message) (int64, bool) {
	for _, msg := range history {
		if msg.AuthorBot {
			continue
		}
		match := leadingNumber.FindString(strings.TrimSpace(msg.Content))
		if match == "" {
			continue
		}
		number, err := strconv.ParseInt(match, 10, 64)
		if err != nil {
			continue
		}

		e.mu.Lock()
		e.state.CurrentNumber = number
		e.state.LastUserID = msg.AuthorID
		e.persistLocked(ctx)
		e.mu.Unlock()
		return number, true
	}
	return 0, false
}

// Snapshot returns a copy of the state.
func (e *Engine) Snapshot() models.CountingState {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.state.Clone()
}

// ChannelID returns the designated channel or "" while disabled.
func (e *Engine) ChannelID() string {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.state.ChannelID
}

// Score returns how many numbers userID got accepted.
func (e *Engine) Score(userID string) int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.state.Scoreboard[userID]
}

// Entry is one scoreboard row.
type Entry struct {
	UserID string
	Score  int
}

// Leaderboard returns the best limit players, highest score first and ties
// by user id. A limit <= 0 returns everyone.
func (e *Engine) Leaderboard(limit int) []Entry {
	e.mu.Lock()
	entries := make([]Entry, 0, len(e.state.Scoreboard))
	for id, score := range e.state.Scoreboard {
		entries = append(entries, Entry{UserID: id, Score: score})
	}
	e.mu.Unlock()

	sort.Slice(entries, func(i, j int) bool {
		if entries[i].Score != entries[j].Score {
			return entries[i].Score > entries[j].Score
		}
		return entries[i].UserID < entries[j].UserID
	})
	if limit > 0 && len(entries) > limit {
		entries = entries[:limit]
	}
	return entries
}

// PersistErrors counts failed saves since start.
func (e *Engine) PersistErrors() int64 {
	return e.persistErrors.Load()
}

// persistLocked writes the state. A failed write keeps the in-memory state
// authoritative; the failure is logged and counted for the dashboard.
func (e *Engine) persistLocked(ctx context.Context) {
	if err := e.store.Save(ctx, storage.Counting, e.state); err != nil {
		e.persistErrors.Add(1)
		e.log.Error().Err(err).Msg("failed to persist counting state")
	}
}
