package server

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"kekse-bot/auth"
)

type loginRequest struct {
	Password     string `json:"password" binding:"required"`
	StayLoggedIn bool   `json:"stayLoggedIn"`
}

func (s *Server) handleLogin(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Passwort fehlt"})
		return
	}

	session, err := s.dashboard.Login(req.Password, req.StayLoggedIn)
	switch {
	case errors.Is(err, auth.ErrNoPassword):
		c.JSON(http.StatusBadRequest, gin.H{"error": "Kein Passwort gesetzt. Nutze /auth auf Discord."})
		return
	case errors.Is(err, auth.ErrBadPassword):
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Falsches Passwort"})
		return
	case err != nil:
		s.log.Error().Err(err).Msg("dashboard login failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Interner Fehler"})
		return
	}

	s.log.Info().Bool("stay_logged_in", req.StayLoggedIn).Msg("dashboard login")
	c.JSON(http.StatusOK, gin.H{
		"success":   true,
		"token":     session.Token,
		"expiresAt": session.ExpiresAt,
	})
}

func (s *Server) handleLogout(c *gin.Context) {
	s.dashboard.Logout(bearerToken(c))
	c.JSON(http.StatusOK, gin.H{"success": true})
}

func (s *Server) handleCheckAuth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"loggedIn": s.dashboard.Valid(bearerToken(c))})
}

func (s *Server) handleStats(c *gin.Context) {
	c.JSON(http.StatusOK, s.bot.Stats(c.Request.Context()))
}
