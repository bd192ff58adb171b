package cogs

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/bwmarrin/discordgo"

	"kekse-bot/giveaway"
	"kekse-bot/models"
	"kekse-bot/utils"
)

func (b *Bot) handleGiveaway(c *Call) error {
	duration, err := utils.ParseDuration(c.str("duration"))
	if err != nil {
		return c.ephemeral("❌ Ungültige Dauer. Beispiele: 30s, 10m, 1h, 2d")
	}
	winners := int64(1)
	if n, ok := c.integer("winners"); ok {
		winners = n
	}

	var blacklist []string
	for _, id := range strings.Split(c.str("blacklist"), ",") {
		if id = strings.TrimSpace(id); id != "" {
			blacklist = append(blacklist, id)
		}
	}

	g, err := b.svc.Giveaways.Create(giveaway.Params{
		ChannelID:       c.str("channel"),
		HostID:          c.caller.UserID,
		Prize:           c.str("prize"),
		Description:     c.str("description"),
		Duration:        duration,
		Winners:         int(winners),
		Blacklist:       blacklist,
		WhitelistRoleID: c.str("whitelist_role"),
	})
	if err != nil {
		return c.ephemeral("❌ Giveaway konnte nicht erstellt werden: %v", err)
	}

	var msg *discordgo.Message
	err = track(b.metrics, "post giveaway", func() error {
		var err error
		msg, err = b.api.ChannelMessageSendComplex(g.ChannelID, &discordgo.MessageSend{
			Embeds:     []*discordgo.MessageEmbed{utils.GiveawayEmbed(&g)},
			Components: utils.GiveawayJoinView(g.ID, false),
		}, discordgo.WithContext(c.ctx))
		return err
	})
	if err != nil {
		// nobody can join a giveaway without its message
		_, _ = b.svc.Giveaways.End(g.ID)
		_ = c.ephemeral("❌ Giveaway-Nachricht konnte nicht gesendet werden.")
		return err
	}
	_ = b.svc.Giveaways.SetMessageID(g.ID, msg.ID)
	b.scheduleGiveawayEnd(g)

	return c.ephemeral("🎉 Giveaway für **%s** in %s gestartet! Endet in %s.", g.Prize, utils.MentionChannel(g.ChannelID), utils.FormatDuration(duration))
}

func (b *Bot) scheduleGiveawayEnd(g models.Giveaway) {
	delay := g.EndsAt.Sub(b.clock.Now())
	if delay < 0 {
		delay = 0
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	b.giveawayTimers[g.ID] = b.clock.AfterFunc(delay, func() {
		ctx, cancel := background()
		defer cancel()
		b.finishGiveaway(ctx, g.ID)
	})
}

// finishGiveaway draws the winners, disables the join button and announces
// the result in the giveaway channel.
func (b *Bot) finishGiveaway(ctx context.Context, id string) {
	b.mu.Lock()
	delete(b.giveawayTimers, id)
	b.mu.Unlock()

	g, err := b.svc.Giveaways.End(id)
	if err != nil {
		b.log.Debug().Err(err).Str("giveaway", id).Msg("giveaway already ended")
		return
	}

	if g.MessageID != "" {
		embeds := []*discordgo.MessageEmbed{utils.GiveawayEmbed(&g)}
		components := utils.GiveawayJoinView(g.ID, true)
		err := track(b.metrics, "edit giveaway", func() error {
			_, err := b.api.ChannelMessageEditComplex(&discordgo.MessageEdit{
				ID:         g.MessageID,
				Channel:    g.ChannelID,
				Embeds:     &embeds,
				Components: &components,
			}, discordgo.WithContext(ctx))
			return err
		})
		if err != nil {
			b.log.Error().Err(err).Str("giveaway", id).Msg("failed to update giveaway message")
		}
	}

	announcement := fmt.Sprintf("Das Giveaway um **%s** ist beendet. Keine gültigen Teilnehmer.", g.Prize)
	if len(g.WinnerIDs) > 0 {
		mentions := make([]string, len(g.WinnerIDs))
		for i, w := range g.WinnerIDs {
			mentions[i] = utils.MentionUser(w)
		}
		announcement = fmt.Sprintf("🎉 Glückwunsch %s! Ihr habt **%s** gewonnen! Öffnet ein Abholung-Ticket.", strings.Join(mentions, ", "), g.Prize)
	}
	err = track(b.metrics, "announce giveaway", func() error {
		_, err := b.api.ChannelMessageSend(g.ChannelID, announcement, discordgo.WithContext(ctx))
		return err
	})
	if err != nil {
		b.log.Error().Err(err).Str("giveaway", id).Msg("failed to announce giveaway winners")
	}
}

func (b *Bot) handleGiveawayJoin(ctx context.Context, i *discordgo.Interaction, r Responder, id string) error {
	caller, _ := callerOf(i)
	count, err := b.svc.Giveaways.Join(id, giveaway.Entrant{UserID: caller.UserID, RoleIDs: caller.RoleIDs})

	var content string
	switch {
	case err == nil:
		content = fmt.Sprintf("✅ Du nimmst teil! (%d Teilnehmer)", count)
	case errors.Is(err, giveaway.ErrNotFound):
		content = "Dieses Giveaway existiert nicht mehr oder ist beendet."
	case errors.Is(err, giveaway.ErrAlreadyJoined):
		content = "Du nimmst bereits teil!"
	case errors.Is(err, giveaway.ErrNotEligible):
		content = "❌ Du kannst an diesem Giveaway nicht teilnehmen."
	default:
		return err
	}
	return r.Respond(ctx, i, utils.EphemeralResponse(content))
}
