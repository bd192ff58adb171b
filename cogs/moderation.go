package cogs

import (
	"errors"
	"strconv"
	"strings"
	"time"

	"github.com/bwmarrin/discordgo"

	"kekse-bot/utils"
	"kekse-bot/warnings"
)

const (
	// maxTimeoutMinutes is Discord's 28 day limit.
	maxTimeoutMinutes = 28 * 24 * 60
	banDeleteDays     = 7
	// bulkDeleteMaxAge is the age limit of Discord's bulk delete endpoint.
	bulkDeleteMaxAge = 14 * 24 * time.Hour
)

func reasonOrDefault(reason string) string {
	if strings.TrimSpace(reason) == "" {
		return "Kein Grund angegeben"
	}
	return reason
}

func (b *Bot) handleSend(c *Call) error {
	channelID := c.str("channel")
	err := track(b.metrics, "send message", func() error {
		_, err := b.api.ChannelMessageSend(channelID, c.str("text"), discordgo.WithContext(c.ctx))
		return err
	})
	if err != nil {
		_ = c.ephemeral("❌ Nachricht konnte nicht gesendet werden.")
		return err
	}
	return c.ephemeral("✅ Nachricht in %s gesendet.", utils.MentionChannel(channelID))
}

func (b *Bot) handleEmbed(c *Call) error {
	color := utils.BotColor
	if raw := strings.TrimPrefix(strings.TrimSpace(c.str("color")), "#"); raw != "" {
		parsed, err := strconv.ParseUint(raw, 16, 32)
		if err != nil || parsed > 0xffffff {
			return c.ephemeral("❌ Ungültige Farbe. Beispiel: #ff0000")
		}
		color = int(parsed)
	}

	channelID := c.str("channel")
	embed := utils.CreateBrandedEmbed(c.str("title"), strings.ReplaceAll(c.str("description"), `\n`, "\n"), color)
	err := track(b.metrics, "send embed", func() error {
		_, err := b.api.ChannelMessageSendComplex(channelID, &discordgo.MessageSend{
			Embeds: []*discordgo.MessageEmbed{embed},
		}, discordgo.WithContext(c.ctx))
		return err
	})
	if err != nil {
		_ = c.ephemeral("❌ Embed konnte nicht gesendet werden.")
		return err
	}
	return c.ephemeral("✅ Embed in %s gesendet.", utils.MentionChannel(channelID))
}

func (b *Bot) handleBan(c *Call) error {
	userID, reason := c.str("user"), reasonOrDefault(c.str("reason"))
	days := 0
	if c.boolean("delete_messages") {
		days = banDeleteDays
	}
	err := track(b.metrics, "ban", func() error {
		return b.api.GuildBanCreateWithReason(c.i.GuildID, userID, reason, days, discordgo.WithContext(c.ctx))
	})
	if err != nil {
		_ = c.ephemeral("❌ %s konnte nicht gebannt werden.", utils.MentionUser(userID))
		return err
	}
	return c.public("🔨 %s wurde gebannt. Grund: %s", utils.MentionUser(userID), reason)
}

func (b *Bot) handleUnban(c *Call) error {
	userID := strings.TrimSpace(c.str("user"))
	err := track(b.metrics, "unban", func() error {
		return b.api.GuildBanDelete(c.i.GuildID, userID, discordgo.WithContext(c.ctx))
	})
	if err != nil {
		_ = c.ephemeral("❌ Entbannen fehlgeschlagen. Ist die User-ID korrekt?")
		return err
	}
	return c.public("✅ %s wurde entbannt.", utils.MentionUser(userID))
}

func (b *Bot) handleKick(c *Call) error {
	userID, reason := c.str("user"), reasonOrDefault(c.str("reason"))
	err := track(b.metrics, "kick", func() error {
		return b.api.GuildMemberDeleteWithReason(c.i.GuildID, userID, reason, discordgo.WithContext(c.ctx))
	})
	if err != nil {
		_ = c.ephemeral("❌ %s konnte nicht gekickt werden.", utils.MentionUser(userID))
		return err
	}
	return c.public("👢 %s wurde gekickt. Grund: %s", utils.MentionUser(userID), reason)
}

func (b *Bot) handleTimeout(c *Call) error {
	userID := c.str("user")
	minutes, _ := c.integer("duration")
	if minutes < 1 || minutes > maxTimeoutMinutes {
		return c.ephemeral("❌ Die Dauer muss zwischen 1 und %d Minuten liegen.", maxTimeoutMinutes)
	}
	until := b.clock.Now().Add(time.Duration(minutes) * time.Minute)
	err := track(b.metrics, "timeout", func() error {
		return b.api.GuildMemberTimeout(c.i.GuildID, userID, &until, discordgo.WithContext(c.ctx))
	})
	if err != nil {
		_ = c.ephemeral("❌ Timeout für %s fehlgeschlagen.", utils.MentionUser(userID))
		return err
	}
	return c.public("⏳ %s ist für %d Minuten im Timeout. Grund: %s", utils.MentionUser(userID), minutes, reasonOrDefault(c.str("reason")))
}

func (b *Bot) handleUntimeout(c *Call) error {
	userID := c.str("user")
	err := track(b.metrics, "untimeout", func() error {
		return b.api.GuildMemberTimeout(c.i.GuildID, userID, nil, discordgo.WithContext(c.ctx))
	})
	if err != nil {
		_ = c.ephemeral("❌ Timeout von %s konnte nicht entfernt werden.", utils.MentionUser(userID))
		return err
	}
	return c.public("✅ Timeout von %s wurde entfernt.", utils.MentionUser(userID))
}

// handleClear bulk deletes recent messages, optionally only those of one
// user. Discord refuses messages older than two weeks in bulk.
func (b *Bot) handleClear(c *Call) error {
	amount, _ := c.integer("amount")
	if amount < 1 || amount > 100 {
		return c.ephemeral("❌ Die Anzahl muss zwischen 1 und 100 liegen.")
	}
	channelID := c.str("channel")
	onlyUser := strings.TrimSpace(c.str("user"))

	var messages []*discordgo.Message
	err := track(b.metrics, "clear fetch", func() error {
		var err error
		messages, err = b.api.ChannelMessages(channelID, 100, "", "", "", discordgo.WithContext(c.ctx))
		return err
	})
	if err != nil {
		_ = c.ephemeral("Fehler beim Löschen.")
		return err
	}

	cutoff := b.clock.Now().Add(-bulkDeleteMaxAge)
	var ids []string
	for _, m := range messages {
		if int64(len(ids)) == amount {
			break
		}
		if onlyUser != "" && (m.Author == nil || m.Author.ID != onlyUser) {
			continue
		}
		if m.Timestamp.Before(cutoff) {
			continue
		}
		ids = append(ids, m.ID)
	}

	switch len(ids) {
	case 0:
	case 1:
		err = track(b.metrics, "clear delete", func() error {
			return b.api.ChannelMessageDelete(channelID, ids[0], discordgo.WithContext(c.ctx))
		})
	default:
		err = track(b.metrics, "clear bulk delete", func() error {
			return b.api.ChannelMessagesBulkDelete(channelID, ids, discordgo.WithContext(c.ctx))
		})
	}
	if err != nil {
		_ = c.ephemeral("Fehler beim Löschen.")
		return err
	}
	return c.ephemeral("%d Nachrichten wurden gelöscht.", len(ids))
}

func (b *Bot) handleWarn(c *Call) error {
	userID, reason := c.str("user"), c.str("reason")
	_, total := b.svc.Warnings.Add(c.ctx, userID, c.caller.UserID, reason)
	return c.public("⚠️ %s wurde verwarnt. Grund: %s (Verwarnungen: %d)", utils.MentionUser(userID), reason, total)
}

func (b *Bot) handleWarns(c *Call) error {
	userID := c.str("user")
	return c.reply(utils.EphemeralEmbedResponse(utils.WarningsEmbed(userID, b.svc.Warnings.List(userID))))
}

func (b *Bot) handleWarnRemove(c *Call) error {
	userID := c.str("user")
	number, _ := c.integer("number")
	removed, err := b.svc.Warnings.Remove(c.ctx, userID, int(number))
	if errors.Is(err, warnings.ErrNotFound) {
		return c.ephemeral("❌ Diese Verwarnung existiert nicht.")
	}
	if err != nil {
		return err
	}
	return c.ephemeral("✅ Verwarnung von %s entfernt: %s", utils.MentionUser(userID), removed.Reason)
}
