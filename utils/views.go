package utils

import (
	"errors"
	"strings"

	"github.com/bwmarrin/discordgo"
)

// CreateActionRow creates an action row with buttons
func CreateActionRow(buttons ...discordgo.MessageComponent) discordgo.MessageComponent {
	return discordgo.ActionsRow{
		Components: buttons,
	}
}

// CreateButton creates a button component
func CreateButton(customID, label string, style discordgo.ButtonStyle, disabled bool, emoji *discordgo.ComponentEmoji) discordgo.MessageComponent {
	button := discordgo.Button{
		CustomID: customID,
		Label:    label,
		Style:    style,
		Disabled: disabled,
	}

	if emoji != nil {
		button.Emoji = emoji
	}

	return button
}

// CreateSelectMenu creates a string select menu component
func CreateSelectMenu(customID, placeholder string, options []discordgo.SelectMenuOption, minValues, maxValues *int) discordgo.MessageComponent {
	selectMenu := discordgo.SelectMenu{
		MenuType:    discordgo.StringSelectMenu,
		CustomID:    customID,
		Placeholder: placeholder,
		Options:     options,
	}

	if minValues != nil {
		selectMenu.MinValues = minValues
	}

	if maxValues != nil {
		selectMenu.MaxValues = *maxValues
	}

	return selectMenu
}

// TicketCategoryView is the select menu of the ticket panel.
func TicketCategoryView() []discordgo.MessageComponent {
	return []discordgo.MessageComponent{
		CreateActionRow(
			CreateSelectMenu(TicketCategorySelectID, "Wähle eine Ticket-Kategorie...", []discordgo.SelectMenuOption{
				{Label: "Support", Value: "support", Description: "Allgemeine Anliegen oder Meldungen", Emoji: &discordgo.ComponentEmoji{Name: "⚙️"}},
				{Label: "Abholung", Value: "giveaway", Description: "Abholung von gewonnenen Giveaways", Emoji: &discordgo.ComponentEmoji{Name: "🎉"}},
				{Label: "Bewerbung", Value: "bewerbung", Description: "Bewerbungen für den KEKSE Clan", Emoji: &discordgo.ComponentEmoji{Name: "✉️"}},
			}, nil, nil),
		),
	}
}

// TicketCloseView is the close button posted into every new ticket channel.
func TicketCloseView() []discordgo.MessageComponent {
	return []discordgo.MessageComponent{
		CreateActionRow(
			CreateButton(TicketCloseConfirmID, "Ticket schließen", discordgo.DangerButton, false, &discordgo.ComponentEmoji{Name: "🔒"}),
		),
	}
}

// TicketKeepView stops the deletion of a closed ticket's channel.
func TicketKeepView() []discordgo.MessageComponent {
	return []discordgo.MessageComponent{
		CreateActionRow(
			CreateButton(TicketKeepChannelID, "Channel behalten", discordgo.SecondaryButton, false, &discordgo.ComponentEmoji{Name: "🛑"}),
		),
	}
}

// GiveawayJoinView is the join button of a running giveaway. Disabled once it ended.
func GiveawayJoinView(giveawayID string, ended bool) []discordgo.MessageComponent {
	return []discordgo.MessageComponent{
		CreateActionRow(
			CreateButton(GiveawayJoinPrefix+giveawayID, "Teilnehmen", discordgo.SuccessButton, ended, &discordgo.ComponentEmoji{Name: "🎉"}),
		),
	}
}

// EphemeralResponse is a message only the invoking user can see.
func EphemeralResponse(content string) *discordgo.InteractionResponse {
	return &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseChannelMessageWithSource,
		Data: &discordgo.InteractionResponseData{
			Content: content,
			Flags:   discordgo.MessageFlagsEphemeral,
		},
	}
}

// MessageResponse is a public reply with optional embeds.
func MessageResponse(content string, embeds ...*discordgo.MessageEmbed) *discordgo.InteractionResponse {
	return &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseChannelMessageWithSource,
		Data: &discordgo.InteractionResponseData{
			Content: content,
			Embeds:  embeds,
		},
	}
}

// EphemeralEmbedResponse is an embed only the invoking user can see.
func EphemeralEmbedResponse(embeds ...*discordgo.MessageEmbed) *discordgo.InteractionResponse {
	return &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseChannelMessageWithSource,
		Data: &discordgo.InteractionResponseData{
			Embeds: embeds,
			Flags:  discordgo.MessageFlagsEphemeral,
		},
	}
}

// UpdateMessageResponse replaces the clicked message's text and drops its buttons.
func UpdateMessageResponse(content string) *discordgo.InteractionResponse {
	return &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseUpdateMessage,
		Data: &discordgo.InteractionResponseData{
			Content:    content,
			Components: []discordgo.MessageComponent{},
		},
	}
}

// DeferredUpdateResponse acknowledges a component click without changing the message.
func DeferredUpdateResponse() *discordgo.InteractionResponse {
	return &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseDeferredMessageUpdate,
	}
}

// PongResponse answers the webhook handshake.
func PongResponse() *discordgo.InteractionResponse {
	return &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponsePong,
	}
}

// OptimizeEmbedPayload ensures embed payload is minimal and efficiently structured
func OptimizeEmbedPayload(embed *discordgo.MessageEmbed) *discordgo.MessageEmbed {
	if embed == nil {
		return embed
	}

	optimized := &discordgo.MessageEmbed{
		Title:       strings.TrimSpace(embed.Title),
		Description: strings.TrimSpace(embed.Description),
		Color:       embed.Color,
		Timestamp:   embed.Timestamp,
	}

	// Only include footer if it has content
	if embed.Footer != nil && strings.TrimSpace(embed.Footer.Text) != "" {
		optimized.Footer = &discordgo.MessageEmbedFooter{
			Text:    strings.TrimSpace(embed.Footer.Text),
			IconURL: embed.Footer.IconURL,
		}
	}

	if embed.Thumbnail != nil && embed.Thumbnail.URL != "" {
		optimized.Thumbnail = embed.Thumbnail
	}

	// Drop empty fields, Discord rejects them
	for _, field := range embed.Fields {
		if field != nil && strings.TrimSpace(field.Name) != "" && strings.TrimSpace(field.Value) != "" {
			optimized.Fields = append(optimized.Fields, &discordgo.MessageEmbedField{
				Name:   strings.TrimSpace(field.Name),
				Value:  strings.TrimSpace(field.Value),
				Inline: field.Inline,
			})
		}
	}

	return optimized
}

// IsUnknownInteractionError reports whether Discord rejected a call because
// the interaction token is no longer valid.
func IsUnknownInteractionError(err error) bool {
	if err == nil {
		return false
	}
	var restErr *discordgo.RESTError
	if errors.As(err, &restErr) && restErr.Message != nil {
		switch restErr.Message.Code {
		case discordgo.ErrCodeUnknownInteraction, discordgo.ErrCodeUnknownWebhook:
			return true
		}
	}
	msg := err.Error()
	return strings.Contains(msg, "Unknown Webhook") ||
		strings.Contains(msg, "Unknown interaction") ||
		strings.Contains(msg, "10062")
}

// MentionUser, MentionRole and MentionChannel format Discord mentions.
func MentionUser(id string) string    { return "<@" + id + ">" }
func MentionRole(id string) string    { return "<@&" + id + ">" }
func MentionChannel(id string) string { return "<#" + id + ">" }
