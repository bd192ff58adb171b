// Package giveaway keeps the running giveaways in memory. Giveaways do not
// survive a restart.
package giveaway

import (
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"kekse-bot/clock"
	"kekse-bot/logger"
	"kekse-bot/models"
)

var (
	ErrNotFound      = errors.New("giveaway not found or already ended")
	ErrAlreadyJoined = errors.New("already joined")
	ErrNotEligible   = errors.New("not eligible for this giveaway")
	ErrInvalidParams = errors.New("invalid giveaway parameters")
)

// Params are the options of /giveaway.
type Params struct {
	ChannelID       string        `validate:"required"`
	HostID          string        `validate:"required"`
	Prize           string        `validate:"required,max=256"`
	Description     string        `validate:"max=2048"`
	Duration        time.Duration `validate:"min=10s,max=720h"`
	Winners         int           `validate:"min=1,max=50"`
	Blacklist       []string      `validate:"dive,required"`
	WhitelistRoleID string
}

// Entrant is a member clicking the join button.
type Entrant struct {
	UserID  string
	RoleIDs []string
}

// Tracker is the registry of giveaways created since start.
type Tracker struct {
	mu        sync.Mutex
	giveaways map[string]*models.Giveaway
	clock     clock.Clock
	validate  *validator.Validate
	log       zerolog.Logger
}

func NewTracker(clk clock.Clock) *Tracker {
	return &Tracker{
		giveaways: make(map[string]*models.Giveaway),
		clock:     clk,
		validate:  validator.New(),
		log:       logger.Module("giveaway"),
	}
}

// Create validates p and registers a new running giveaway.
func (t *Tracker) Create(p Params) (models.Giveaway, error) {
	if err := t.validateParams(p); err != nil {
		return models.Giveaway{}, err
	}

	now := t.clock.Now()
	g := &models.Giveaway{
		ID:              strings.ReplaceAll(uuid.NewString(), "-", ""),
		ChannelID:       p.ChannelID,
		HostID:          p.HostID,
		Prize:           p.Prize,
		Description:     p.Description,
		Winners:         p.Winners,
		Blacklist:       append([]string(nil), p.Blacklist...),
		WhitelistRoleID: p.WhitelistRoleID,
		CreatedAt:       now,
		EndsAt:          now.Add(p.Duration),
	}

	t.mu.Lock()
	t.giveaways[g.ID] = g
	t.mu.Unlock()

	t.log.Info().Str("giveaway", g.ID).Str("prize", g.Prize).Time("ends_at", g.EndsAt).Msg("giveaway created")
	return clone(g), nil
}

func (t *Tracker) validateParams(p Params) error {
	err := t.validate.Struct(p)
	if err == nil {
		return nil
	}
	var fieldErrs validator.ValidationErrors
	if errors.As(err, &fieldErrs) {
		parts := make([]string, 0, len(fieldErrs))
		for _, fe := range fieldErrs {
			parts = append(parts, fmt.Sprintf("%s %s", fe.Field(), fe.Tag()))
		}
		return fmt.Errorf("%w: %s", ErrInvalidParams, strings.Join(parts, "; "))
	}
	return fmt.Errorf("%w: %v", ErrInvalidParams, err)
}

// SetMessageID remembers the announcement message so it can be edited later.
func (t *Tracker) SetMessageID(id, messageID string) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	g, ok := t.giveaways[id]
	if !ok {
		return ErrNotFound
	}
	g.MessageID = messageID
	return nil
}

// Join adds the entrant and returns the new participant count.
func (t *Tracker) Join(id string, e Entrant) (int, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	g, ok := t.giveaways[id]
	if !ok || g.IsEnded {
		return 0, ErrNotFound
	}
	if g.HasParticipant(e.UserID) {
		return len(g.Participants), ErrAlreadyJoined
	}
	if g.IsBlacklisted(e.UserID) {
		return len(g.Participants), fmt.Errorf("%w: blacklisted", ErrNotEligible)
	}
	if g.WhitelistRoleID != "" && !contains(e.RoleIDs, g.WhitelistRoleID) {
		return len(g.Participants), fmt.Errorf("%w: missing role", ErrNotEligible)
	}

	g.Participants = append(g.Participants, e.UserID)
	return len(g.Participants), nil
}

// End closes the giveaway and draws its winners. Ended giveaways are
// immutable, so a second End returns ErrNotFound.
func (t *Tracker) End(id string) (models.Giveaway, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	g, ok := t.giveaways[id]
	if !ok || g.IsEnded {
		return models.Giveaway{}, ErrNotFound
	}

	winners, err := draw(g.Participants, g.Winners)
	if err != nil {
		return models.Giveaway{}, err
	}
	g.WinnerIDs = winners
	g.IsEnded = true

	t.log.Info().Str("giveaway", id).Int("participants", len(g.Participants)).Strs("winners", winners).Msg("giveaway ended")
	return clone(g), nil
}

func (t *Tracker) Get(id string) (models.Giveaway, bool) {
	t.mu.Lock()
	defer t.mu.Unlock()
	g, ok := t.giveaways[id]
	if !ok {
		return models.Giveaway{}, false
	}
	return clone(g), true
}

// ActiveCount reports how many giveaways are still running.
func (t *Tracker) ActiveCount() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	n := 0
	for _, g := range t.giveaways {
		if !g.IsEnded {
			n++
		}
	}
	return n
}

func clone(g *models.Giveaway) models.Giveaway {
	c := *g
	c.Blacklist = append([]string(nil), g.Blacklist...)
	c.Participants = append([]string(nil), g.Participants...)
	c.WinnerIDs = append([]string(nil), g.WinnerIDs...)
	return c
}

func contains(list []string, v string) bool {
	for _, item := range list {
		if item == v {
			return true
		}
	}
	return false
}
