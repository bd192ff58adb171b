package auth

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"

	"kekse-bot/clock"
	"kekse-bot/logger"
	"kekse-bot/models"
	"kekse-bot/storage"
)

var (
	ErrNoPassword   = errors.New("no dashboard password configured")
	ErrBadPassword  = errors.New("wrong password")
	ErrWeakPassword = errors.New("password too short")
)

const (
	MinPasswordLength = 8
	// StayLoggedInTTL applies when the login form asks to stay logged in.
	StayLoggedInTTL = 30 * 24 * time.Hour
	SessionTTL      = 12 * time.Hour
)

// Session is an issued bearer token.
type Session struct {
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expiresAt"`
}

// Dashboard holds the dashboard credential and the live sessions. Sessions
// are kept in memory only; a restart logs everybody out.
type Dashboard struct {
	mu       sync.Mutex
	data     models.AuthData
	sessions map[string]time.Time
	store    storage.Store
	clock    clock.Clock
	log      zerolog.Logger
}

// NewDashboard loads the auth document. ownerID is recorded in it when the
// document does not name an owner yet.
func NewDashboard(ctx context.Context, store storage.Store, clk clock.Clock, ownerID string) (*Dashboard, error) {
	data := models.AuthData{OwnerID: ownerID}
	if _, err := store.Load(ctx, storage.Auth, &data); err != nil {
		return nil, fmt.Errorf("loading auth: %w", err)
	}
	if data.OwnerID == "" {
		data.OwnerID = ownerID
	}
	return &Dashboard{
		data:     data,
		sessions: make(map[string]time.Time),
		store:    store,
		clock:    clk,
		log:      logger.Module("auth"),
	}, nil
}

func (d *Dashboard) HasPassword() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.data.HasPassword()
}

// SetPassword replaces the dashboard password and ends every session.
func (d *Dashboard) SetPassword(ctx context.Context, password string) error {
	if len(password) < MinPasswordLength {
		return ErrWeakPassword
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("hashing password: %w", err)
	}

	d.mu.Lock()
	defer d.mu.Unlock()
	d.data.DashboardPasswordHash = string(hash)
	d.sessions = make(map[string]time.Time)
	if err := d.store.Save(ctx, storage.Auth, d.data); err != nil {
		d.log.Error().Err(err).Msg("failed to persist dashboard password")
		return fmt.Errorf("saving auth: %w", err)
	}
	d.log.Info().Msg("dashboard password updated")
	return nil
}

// Login checks password and issues a session.
func (d *Dashboard) Login(password string, stayLoggedIn bool) (Session, error) {
	d.mu.Lock()
	hash := d.data.DashboardPasswordHash
	d.mu.Unlock()

	if hash == "" {
		return Session{}, ErrNoPassword
	}
	if err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)); err != nil {
		d.log.Warn().Msg("dashboard login with wrong password")
		return Session{}, ErrBadPassword
	}

	ttl := SessionTTL
	if stayLoggedIn {
		ttl = StayLoggedInTTL
	}
	s := Session{Token: uuid.NewString(), ExpiresAt: d.clock.Now().Add(ttl)}

	d.mu.Lock()
	d.sessions[s.Token] = s.ExpiresAt
	d.mu.Unlock()
	return s, nil
}

// Valid reports whether token belongs to a live session. Expired sessions
// are dropped on the way.
func (d *Dashboard) Valid(token string) bool {
	if token == "" {
		return false
	}
	d.mu.Lock()
	defer d.mu.Unlock()
	expires, ok := d.sessions[token]
	if !ok {
		return false
	}
	if !d.clock.Now().Before(expires) {
		delete(d.sessions, token)
		return false
	}
	return true
}

func (d *Dashboard) Logout(token string) {
	d.mu.Lock()
	delete(d.sessions, token)
	d.mu.Unlock()
}

// ActiveSessions counts unexpired sessions.
func (d *Dashboard) ActiveSessions() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	now := d.clock.Now()
	n := 0
	for _, expires := range d.sessions {
		if now.Before(expires) {
			n++
		}
	}
	return n
}
