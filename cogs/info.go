package cogs

import (
	"errors"

	"kekse-bot/auth"
	"kekse-bot/utils"
)

func (b *Bot) handlePing(c *Call) error {
	if latency := b.api.HeartbeatLatency(); latency > 0 {
		return c.public("🏓 Pong! (%dms)", latency.Milliseconds())
	}
	return c.public("Pong!")
}

func (b *Bot) handleHelp(c *Call) error {
	return c.reply(utils.EphemeralEmbedResponse(utils.HelpEmbed()))
}

func (b *Bot) handleAdminHelp(c *Call) error {
	return c.reply(utils.EphemeralEmbedResponse(utils.AdminHelpEmbed()))
}

func (b *Bot) handleAuth(c *Call) error {
	err := b.svc.Dashboard.SetPassword(c.ctx, c.str("password"))
	switch {
	case errors.Is(err, auth.ErrWeakPassword):
		return c.ephemeral("❌ Das Passwort muss mindestens %d Zeichen lang sein.", auth.MinPasswordLength)
	case err != nil:
		_ = c.ephemeral(utils.GenericErrorMessage)
		return err
	}
	return c.ephemeral("✅ Dashboard-Passwort wurde gesetzt. Alle bestehenden Sitzungen wurden beendet.")
}
