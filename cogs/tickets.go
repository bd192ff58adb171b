package cogs

import (
	"context"
	"errors"
	"fmt"

	"github.com/bwmarrin/discordgo"

	"kekse-bot/tickets"
	"kekse-bot/utils"
)

// handleTicketCategory opens a ticket from the panel's select menu. The
// channel creation is slow, so the requester first gets a placeholder that
// is edited once the channel exists.
func (b *Bot) handleTicketCategory(ctx context.Context, i *discordgo.Interaction, r Responder) error {
	caller, username := callerOf(i)
	values := i.MessageComponentData().Values
	if len(values) == 0 {
		return nil
	}

	if _, open := b.svc.Tickets.OpenTicketFor(caller.UserID); open {
		return r.Respond(ctx, i, utils.EphemeralResponse("❌ Du hast bereits ein offenes Ticket!"))
	}
	if err := r.Respond(ctx, i, utils.EphemeralResponse("⌛ Dein Ticket wird erstellt...")); err != nil {
		return err
	}

	category := tickets.LookupCategory(values[0])
	ticket, err := b.svc.Tickets.RequestTicket(ctx, tickets.Requester{UserID: caller.UserID, Username: username, GuildID: i.GuildID}, values[0])

	var content string
	switch {
	case errors.Is(err, tickets.ErrDuplicateTicket):
		content = "❌ Du hast bereits ein offenes Ticket!"
	case err != nil:
		b.log.Error().Err(err).Str("user", caller.UserID).Msg("failed to create ticket")
		content = "❌ Fehler beim Erstellen des Tickets."
	default:
		content = fmt.Sprintf("✅ Dein %s-Ticket wurde erfolgreich erstellt: %s", category.Display, utils.MentionChannel(ticket.ChannelID))
	}
	return r.EditResponse(ctx, i, &discordgo.WebhookEdit{Content: &content})
}

func (b *Bot) handleTicketCloseConfirm(ctx context.Context, i *discordgo.Interaction, r Responder) error {
	if err := r.Respond(ctx, i, utils.DeferredUpdateResponse()); err != nil {
		return err
	}
	_, err := b.svc.Tickets.CloseTicket(ctx, i.ChannelID)
	if errors.Is(err, tickets.ErrNotFound) {
		return nil
	}
	return err
}

// handleTicketKeepChannel stops a pending channel deletion. Only moderators
// may keep a closed ticket around.
func (b *Bot) handleTicketKeepChannel(ctx context.Context, i *discordgo.Interaction, r Responder) error {
	caller, _ := callerOf(i)
	if !b.policy.IsModerator(caller) {
		return r.Respond(ctx, i, utils.EphemeralResponse(utils.AccessDeniedMessage))
	}
	err := b.svc.Tickets.CancelDeletion(ctx, i.ChannelID)
	if errors.Is(err, tickets.ErrNotFound) {
		return r.Respond(ctx, i, utils.EphemeralResponse("❌ Für diesen Channel ist keine Löschung geplant."))
	}
	if err != nil {
		return err
	}
	return r.Respond(ctx, i, utils.UpdateMessageResponse(fmt.Sprintf(utils.TicketKeptMessage, utils.MentionUser(caller.UserID))))
}

func (b *Bot) handleTicketPanel(c *Call) error {
	err := track(b.metrics, "post ticket panel", func() error {
		_, err := b.api.ChannelMessageSendComplex(c.i.ChannelID, &discordgo.MessageSend{
			Embeds:     []*discordgo.MessageEmbed{utils.TicketPanelEmbed()},
			Components: utils.TicketCategoryView(),
		}, discordgo.WithContext(c.ctx))
		return err
	})
	if err != nil {
		_ = c.ephemeral("❌ Ticket-Panel konnte nicht erstellt werden.")
		return err
	}
	return c.ephemeral("✅ Ticket-Panel wurde erstellt!")
}

func (b *Bot) handleClose(c *Call) error {
	if _, ok := b.svc.Tickets.TicketByChannel(c.i.ChannelID); !ok {
		return c.ephemeral("❌ Dies ist kein Ticket-Channel.")
	}
	if err := c.ephemeral("🔒 Ticket wird geschlossen."); err != nil {
		return err
	}
	_, err := b.svc.Tickets.CloseTicket(c.ctx, c.i.ChannelID)
	if errors.Is(err, tickets.ErrNotFound) {
		return nil
	}
	return err
}

func (b *Bot) handleTicketAdd(c *Call) error {
	return b.setTicketMember(c, true)
}

func (b *Bot) handleTicketRemove(c *Call) error {
	return b.setTicketMember(c, false)
}

// setTicketMember grants or revokes a member's access to the current ticket channel.
func (b *Bot) setTicketMember(c *Call, add bool) error {
	ticket, ok := b.svc.Tickets.TicketByChannel(c.i.ChannelID)
	if !ok || !ticket.IsOpen() {
		return c.ephemeral("❌ Dies ist kein offenes Ticket.")
	}
	userID := c.str("user")

	var err error
	if add {
		err = track(b.metrics, "ticket add member", func() error {
			return b.api.ChannelPermissionSet(ticket.ChannelID, userID, discordgo.PermissionOverwriteTypeMember, ticketAccess, 0, discordgo.WithContext(c.ctx))
		})
	} else {
		err = track(b.metrics, "ticket remove member", func() error {
			return b.api.ChannelPermissionDelete(ticket.ChannelID, userID, discordgo.WithContext(c.ctx))
		})
	}
	if err != nil {
		_ = c.ephemeral(utils.GenericErrorMessage)
		return err
	}
	if add {
		return c.public("✅ %s wurde zum Ticket hinzugefügt.", utils.MentionUser(userID))
	}
	return c.public("✅ %s wurde aus dem Ticket entfernt.", utils.MentionUser(userID))
}
