package cogs

import (
	"context"

	"github.com/bwmarrin/discordgo"

	"kekse-bot/models"
	"kekse-bot/tickets"
	"kekse-bot/utils"
)

// ticketAccess is what the requester and the moderators may do in a ticket.
const ticketAccess = discordgo.PermissionViewChannel | discordgo.PermissionSendMessages | discordgo.PermissionReadMessageHistory

// TicketPlatform creates and removes ticket channels on Discord.
type TicketPlatform struct {
	api       DiscordAPI
	guildID   string
	modRoleID string
	metrics   *utils.PlatformMetrics
}

var _ tickets.Platform = (*TicketPlatform)(nil)

func NewTicketPlatform(api DiscordAPI, guildID, modRoleID string, metrics *utils.PlatformMetrics) *TicketPlatform {
	return &TicketPlatform{api: api, guildID: guildID, modRoleID: modRoleID, metrics: metrics}
}

// CreateChannel creates a text channel hidden from @everyone and visible to
// the requester and the moderator role. The channel goes to the guild of the
// request; the configured guild is only used when the request names none.
func (p *TicketPlatform) CreateChannel(ctx context.Context, req tickets.ChannelRequest) (string, error) {
	guildID := req.GuildID
	if guildID == "" {
		guildID = p.guildID
	}
	overwrites := []*discordgo.PermissionOverwrite{
		// the @everyone role shares the guild id
		{ID: guildID, Type: discordgo.PermissionOverwriteTypeRole, Deny: discordgo.PermissionViewChannel},
		{ID: req.OwnerID, Type: discordgo.PermissionOverwriteTypeMember, Allow: ticketAccess},
	}
	if p.modRoleID != "" {
		overwrites = append(overwrites, &discordgo.PermissionOverwrite{
			ID: p.modRoleID, Type: discordgo.PermissionOverwriteTypeRole, Allow: ticketAccess,
		})
	}

	var channel *discordgo.Channel
	err := track(p.metrics, "create ticket channel", func() error {
		var err error
		channel, err = p.api.GuildChannelCreateComplex(guildID, discordgo.GuildChannelCreateData{
			Name:                 req.Name,
			Type:                 discordgo.ChannelTypeGuildText,
			ParentID:             req.ParentID,
			PermissionOverwrites: overwrites,
		}, discordgo.WithContext(ctx))
		return err
	})
	if err != nil {
		return "", err
	}
	return channel.ID, nil
}

// PostWelcome mentions the requester and the moderators and offers the close button.
func (p *TicketPlatform) PostWelcome(ctx context.Context, ticket models.Ticket, category tickets.Category) error {
	content := utils.MentionUser(ticket.UserID)
	if p.modRoleID != "" {
		content += " | " + utils.MentionRole(p.modRoleID)
	}
	return track(p.metrics, "post ticket welcome", func() error {
		_, err := p.api.ChannelMessageSendComplex(ticket.ChannelID, &discordgo.MessageSend{
			Content:    content,
			Embeds:     []*discordgo.MessageEmbed{utils.TicketWelcomeEmbed(ticket.UserID, ticket.ID, category.Display)},
			Components: utils.TicketCloseView(),
		}, discordgo.WithContext(ctx))
		return err
	})
}

// PostClosingNotice announces the pending deletion. Moderators can stop it
// with the keep button until the channel is gone.
func (p *TicketPlatform) PostClosingNotice(ctx context.Context, channelID, content string) error {
	return track(p.metrics, "post ticket notice", func() error {
		_, err := p.api.ChannelMessageSendComplex(channelID, &discordgo.MessageSend{
			Content:    content,
			Components: utils.TicketKeepView(),
		}, discordgo.WithContext(ctx))
		return err
	})
}

func (p *TicketPlatform) DeleteChannel(ctx context.Context, channelID string) error {
	return track(p.metrics, "delete ticket channel", func() error {
		_, err := p.api.ChannelDelete(channelID, discordgo.WithContext(ctx))
		return err
	})
}
