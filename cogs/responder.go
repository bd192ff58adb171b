package cogs

import (
	"context"
	"sync"

	"github.com/bwmarrin/discordgo"

	"kekse-bot/utils"
)

// Responder delivers interaction responses. Gateway interactions answer
// through the REST callback, webhook interactions through the HTTP response
// of the request that carried them.
type Responder interface {
	Respond(ctx context.Context, i *discordgo.Interaction, resp *discordgo.InteractionResponse) error
	// EditResponse changes the original response after it was sent.
	EditResponse(ctx context.Context, i *discordgo.Interaction, edit *discordgo.WebhookEdit) error
}

// SessionResponder answers gateway interactions with the REST callback.
type SessionResponder struct {
	api     DiscordAPI
	metrics *utils.PlatformMetrics
}

func NewSessionResponder(api DiscordAPI, metrics *utils.PlatformMetrics) *SessionResponder {
	return &SessionResponder{api: api, metrics: metrics}
}

func (r *SessionResponder) Respond(ctx context.Context, i *discordgo.Interaction, resp *discordgo.InteractionResponse) error {
	return track(r.metrics, "interaction respond", func() error {
		return r.api.InteractionRespond(i, resp, discordgo.WithContext(ctx))
	})
}

func (r *SessionResponder) EditResponse(ctx context.Context, i *discordgo.Interaction, edit *discordgo.WebhookEdit) error {
	return track(r.metrics, "interaction edit", func() error {
		_, err := r.api.InteractionResponseEdit(i, edit, discordgo.WithContext(ctx))
		return err
	})
}

type webhookState int

const (
	webhookPending webhookState = iota
	webhookAnswered
	webhookDeferred
)

// WebhookResponder hands the first response to the HTTP handler that
// received the interaction. Once that handler has sent a deferred
// acknowledgement instead, later responses edit the original message
// through the REST API.
type WebhookResponder struct {
	api     DiscordAPI
	metrics *utils.PlatformMetrics
	mu      sync.Mutex
	state   webhookState
	initial chan *discordgo.InteractionResponse
	sent    chan struct{}
	once    sync.Once
}

func NewWebhookResponder(api DiscordAPI, metrics *utils.PlatformMetrics) *WebhookResponder {
	return &WebhookResponder{
		api:     api,
		metrics: metrics,
		initial: make(chan *discordgo.InteractionResponse, 1),
		sent:    make(chan struct{}),
	}
}

// MarkSent tells the responder the HTTP response went out, so edits and
// followups can refer to it.
func (w *WebhookResponder) MarkSent() {
	w.once.Do(func() { close(w.sent) })
}

func (w *WebhookResponder) waitSent(ctx context.Context) error {
	select {
	case <-w.sent:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Initial yields the first response produced by the handler.
func (w *WebhookResponder) Initial() <-chan *discordgo.InteractionResponse {
	return w.initial
}

func (w *WebhookResponder) Respond(ctx context.Context, i *discordgo.Interaction, resp *discordgo.InteractionResponse) error {
	w.mu.Lock()
	state := w.state
	if state == webhookPending {
		w.state = webhookAnswered
		w.initial <- resp
		w.mu.Unlock()
		return nil
	}
	w.mu.Unlock()

	if resp.Type == discordgo.InteractionResponseDeferredMessageUpdate ||
		resp.Type == discordgo.InteractionResponseDeferredChannelMessageWithSource {
		return nil
	}
	data := resp.Data
	if data == nil {
		return nil
	}
	if err := w.waitSent(ctx); err != nil {
		return err
	}
	// a deferred component update has no message of its own to edit
	if state == webhookDeferred && i.Type != discordgo.InteractionMessageComponent {
		return w.EditResponse(ctx, i, &discordgo.WebhookEdit{
			Content:    &data.Content,
			Embeds:     &data.Embeds,
			Components: &data.Components,
		})
	}
	return track(w.metrics, "interaction followup", func() error {
		_, err := w.api.FollowupMessageCreate(i, false, &discordgo.WebhookParams{
			Content:    data.Content,
			Embeds:     data.Embeds,
			Components: data.Components,
			Flags:      data.Flags,
		}, discordgo.WithContext(ctx))
		return err
	})
}

func (w *WebhookResponder) EditResponse(ctx context.Context, i *discordgo.Interaction, edit *discordgo.WebhookEdit) error {
	if err := w.waitSent(ctx); err != nil {
		return err
	}
	return track(w.metrics, "interaction edit", func() error {
		_, err := w.api.InteractionResponseEdit(i, edit, discordgo.WithContext(ctx))
		return err
	})
}

// Defer claims the HTTP response for a deferred acknowledgement. It returns
// nil when the handler already produced a response, which is then waiting
// on Initial.
func (w *WebhookResponder) Defer(i *discordgo.Interaction) *discordgo.InteractionResponse {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.state != webhookPending {
		return nil
	}
	w.state = webhookDeferred
	if i.Type == discordgo.InteractionMessageComponent {
		return &discordgo.InteractionResponse{Type: discordgo.InteractionResponseDeferredMessageUpdate}
	}
	return &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseDeferredChannelMessageWithSource,
		Data: &discordgo.InteractionResponseData{Flags: discordgo.MessageFlagsEphemeral},
	}
}
