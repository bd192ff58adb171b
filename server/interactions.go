package server

import (
	"context"
	"net/http"
	"time"

	"github.com/bwmarrin/discordgo"
	"github.com/gin-gonic/gin"
)

// handleInteraction is the interactions endpoint. The signature is checked
// against the raw body before anything is parsed. The first response the
// bot produces becomes the HTTP body; when it takes too long, or finishes
// without answering, a deferred acknowledgement goes out instead and the
// rest of the work continues in the background.
func (s *Server) handleInteraction(c *gin.Context) {
	if c.GetHeader("X-Signature-Ed25519") == "" || c.GetHeader("X-Signature-Timestamp") == "" ||
		len(s.publicKey) == 0 || !discordgo.VerifyInteraction(c.Request, s.publicKey) {
		s.log.Warn().Err(ErrInvalidSignature).Str("client_ip", c.ClientIP()).Msg("rejected interaction")
		c.AbortWithStatus(http.StatusUnauthorized)
		return
	}

	var i discordgo.Interaction
	if err := c.ShouldBindJSON(&i); err != nil {
		s.log.Error().Err(err).Msg("malformed interaction")
		c.AbortWithStatus(http.StatusBadRequest)
		return
	}
	if i.Type == discordgo.InteractionPing {
		c.JSON(http.StatusOK, gin.H{"type": discordgo.InteractionResponsePong})
		return
	}

	responder := s.bot.NewWebhookResponder()
	done := make(chan struct{})
	go func() {
		defer close(done)
		ctx, cancel := context.WithTimeout(context.Background(), backgroundTimeout)
		defer cancel()
		s.bot.Dispatch(ctx, &i, responder)
	}()

	timer := time.NewTimer(s.timeout)
	defer timer.Stop()

	var resp *discordgo.InteractionResponse
	select {
	case resp = <-responder.Initial():
	case <-done:
	case <-timer.C:
		s.log.Debug().Str("interaction", i.ID).Msg("slow interaction, sending deferred ack")
	}
	if resp == nil {
		if resp = responder.Defer(&i); resp == nil {
			resp = <-responder.Initial()
		}
	}

	c.JSON(http.StatusOK, resp)
	c.Writer.Flush()
	responder.MarkSent()
}
