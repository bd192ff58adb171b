// Package server exposes the interactions webhook and the dashboard API.
package server

import (
	"context"
	"crypto/ed25519"
	"encoding/hex"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/bwmarrin/discordgo"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"kekse-bot/auth"
	"kekse-bot/cogs"
	"kekse-bot/logger"
)

// ErrInvalidSignature is reported for webhook requests that are not signed
// by Discord.
var ErrInvalidSignature = errors.New("invalid interaction signature")

const (
	// DefaultResponseTimeout leaves headroom below Discord's three second
	// limit for the initial interaction response.
	DefaultResponseTimeout = 2500 * time.Millisecond
	backgroundTimeout      = 30 * time.Second
)

// Bot is what the server needs from the Discord side.
type Bot interface {
	Dispatch(ctx context.Context, i *discordgo.Interaction, r cogs.Responder)
	NewWebhookResponder() *cogs.WebhookResponder
	Stats(ctx context.Context) cogs.Stats
}

type Options struct {
	Port int
	// PublicKey is the hex encoded application key. Without it every
	// webhook request is rejected.
	PublicKey       string
	CORSOrigin      string
	Debug           bool
	ResponseTimeout time.Duration
}

type Server struct {
	bot       Bot
	dashboard *auth.Dashboard
	publicKey ed25519.PublicKey
	timeout   time.Duration
	router    *gin.Engine
	http      *http.Server
	log       zerolog.Logger
}

// New builds the router.
func New(bot Bot, dashboard *auth.Dashboard, opts Options) (*Server, error) {
	var key ed25519.PublicKey
	if opts.PublicKey != "" {
		raw, err := hex.DecodeString(opts.PublicKey)
		if err != nil || len(raw) != ed25519.PublicKeySize {
			return nil, fmt.Errorf("public key must be %d hex encoded bytes", ed25519.PublicKeySize)
		}
		key = raw
	}
	if opts.ResponseTimeout <= 0 {
		opts.ResponseTimeout = DefaultResponseTimeout
	}

	if opts.Debug {
		gin.SetMode(gin.DebugMode)
	} else {
		gin.SetMode(gin.ReleaseMode)
	}

	s := &Server{
		bot:       bot,
		dashboard: dashboard,
		publicKey: key,
		timeout:   opts.ResponseTimeout,
		log:       logger.Module("server"),
	}

	router := gin.New()
	router.Use(gin.Recovery(), RequestID(), RequestLogger(s.log))

	corsConfig := cors.DefaultConfig()
	if opts.CORSOrigin == "" || opts.CORSOrigin == "*" {
		corsConfig.AllowAllOrigins = true
	} else {
		corsConfig.AllowOrigins = []string{opts.CORSOrigin}
	}
	corsConfig.AllowMethods = []string{"GET", "POST", "OPTIONS"}
	corsConfig.AllowHeaders = []string{"Content-Type", "Authorization", "Accept"}
	router.Use(cors.New(corsConfig))

	router.GET("/health", s.handleHealth)
	router.POST("/interactions", s.handleInteraction)

	api := router.Group("/api")
	api.POST("/login", s.handleLogin)
	api.POST("/logout", s.handleLogout)
	api.GET("/check-auth", s.handleCheckAuth)

	protected := api.Group("", RequireSession(dashboard))
	protected.GET("/stats", s.handleStats)

	s.router = router
	s.http = &http.Server{
		Addr:              fmt.Sprintf(":%d", opts.Port),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}
	return s, nil
}

// Handler returns the router, for tests and embedding.
func (s *Server) Handler() http.Handler {
	return s.router
}

// Start serves until Shutdown is called.
func (s *Server) Start() error {
	s.log.Info().Str("addr", s.http.Addr).Msg("🌐 HTTP server listening")
	if err := s.http.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("http server: %w", err)
	}
	return nil
}

func (s *Server) Shutdown(ctx context.Context) error {
	return s.http.Shutdown(ctx)
}

func (s *Server) handleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}
