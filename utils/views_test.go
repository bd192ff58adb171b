package utils

import (
	"fmt"
	"net/http"
	"strings"
	"testing"

	"github.com/bwmarrin/discordgo"
)

func TestOptimizeEmbedPayload(t *testing.T) {
	// Test with nil embed
	if result := OptimizeEmbedPayload(nil); result != nil {
		t.Errorf("Expected nil for nil input, got %v", result)
	}

	embed := &discordgo.MessageEmbed{
		Title:       "  Test Title  ",
		Description: "  Test Description  ",
		Color:       0xFF0000,
		Footer: &discordgo.MessageEmbedFooter{
			Text: "  Footer Text  ",
		},
		Fields: []*discordgo.MessageEmbedField{
			{Name: "  Field 1  ", Value: "  Value 1  ", Inline: true},
			{Name: "", Value: "Empty Name"},
			{Name: "Field 3", Value: ""},
		},
	}

	result := OptimizeEmbedPayload(embed)

	if result.Title != "Test Title" {
		t.Errorf("Expected 'Test Title', got '%s'", result.Title)
	}
	if result.Description != "Test Description" {
		t.Errorf("Expected 'Test Description', got '%s'", result.Description)
	}
	if result.Footer == nil || result.Footer.Text != "Footer Text" {
		t.Errorf("Expected trimmed footer text 'Footer Text', got %v", result.Footer)
	}
	if len(result.Fields) != 1 {
		t.Fatalf("Expected 1 field, got %d", len(result.Fields))
	}
	if result.Fields[0].Name != "Field 1" {
		t.Errorf("Expected field name 'Field 1', got '%s'", result.Fields[0].Name)
	}
}

func TestIsUnknownInteractionError(t *testing.T) {
	if IsUnknownInteractionError(nil) {
		t.Error("Expected false for nil error")
	}

	expired := []string{
		"Unknown Webhook",
		"Unknown interaction",
		"HTTP 404 Not Found, {\"message\": \"Unknown interaction\", \"code\": 10062}",
	}
	for _, msg := range expired {
		if !IsUnknownInteractionError(&MockError{Message: msg}) {
			t.Errorf("Expected error '%s' to be an unknown interaction", msg)
		}
	}

	rest := &discordgo.RESTError{Response: &http.Response{Status: "404 Not Found"}, Message: &discordgo.APIErrorMessage{Code: discordgo.ErrCodeUnknownWebhook}}
	if !IsUnknownInteractionError(fmt.Errorf("interaction edit: %w", rest)) {
		t.Error("Expected a wrapped unknown webhook REST error to be detected")
	}
	rest = &discordgo.RESTError{Response: &http.Response{Status: "403 Forbidden"}, Message: &discordgo.APIErrorMessage{Code: discordgo.ErrCodeMissingPermissions}}
	if IsUnknownInteractionError(fmt.Errorf("interaction edit: %w", rest)) {
		t.Error("Expected a missing permissions REST error not to be an unknown interaction")
	}

	normal := []string{"network timeout", "500 internal server error", "Missing Permissions"}
	for _, msg := range normal {
		if IsUnknownInteractionError(&MockError{Message: msg}) {
			t.Errorf("Expected error '%s' not to be an unknown interaction", msg)
		}
	}
}

func TestComponentViews(t *testing.T) {
	row, ok := TicketCloseView()[0].(discordgo.ActionsRow)
	if !ok {
		t.Fatal("Expected an action row")
	}
	button := row.Components[0].(discordgo.Button)
	if button.CustomID != TicketCloseConfirmID || button.Style != discordgo.DangerButton {
		t.Errorf("Unexpected close button %+v", button)
	}

	row = GiveawayJoinView("abc", true)[0].(discordgo.ActionsRow)
	button = row.Components[0].(discordgo.Button)
	if !strings.HasSuffix(button.CustomID, "abc") || !button.Disabled {
		t.Errorf("Expected disabled join button for abc, got %+v", button)
	}

	row = TicketCategoryView()[0].(discordgo.ActionsRow)
	menu := row.Components[0].(discordgo.SelectMenu)
	if menu.CustomID != TicketCategorySelectID || len(menu.Options) != 3 {
		t.Errorf("Unexpected category menu %+v", menu)
	}
}

func TestEphemeralResponse(t *testing.T) {
	resp := EphemeralResponse("hi")
	if resp.Type != discordgo.InteractionResponseChannelMessageWithSource {
		t.Errorf("Unexpected type %v", resp.Type)
	}
	if resp.Data.Flags&discordgo.MessageFlagsEphemeral == 0 {
		t.Error("Expected ephemeral flag")
	}
}

// MockError for testing
type MockError struct {
	Message string
}

func (e *MockError) Error() string {
	return e.Message
}
