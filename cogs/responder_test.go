package cogs

import (
	"bytes"
	"context"
	"errors"
	"net/http"
	"testing"
	"time"

	"github.com/bwmarrin/discordgo"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"kekse-bot/utils"
)

func TestWebhookResponder_FirstResponseGoesToHTTP(t *testing.T) {
	api := newFakeAPI()
	w := NewWebhookResponder(api, nil)
	i := &discordgo.Interaction{Type: discordgo.InteractionApplicationCommand}

	require.NoError(t, w.Respond(context.Background(), i, utils.EphemeralResponse("hallo")))
	resp := <-w.Initial()
	assert.Equal(t, "hallo", resp.Data.Content)
	assert.Nil(t, w.Defer(i), "a handled interaction cannot be deferred")

	w.MarkSent()
	content := "fertig"
	require.NoError(t, w.EditResponse(context.Background(), i, &discordgo.WebhookEdit{Content: &content}))
	require.Len(t, api.origEdits, 1)
	assert.Equal(t, "fertig", *api.origEdits[0].Content)

	// a second message becomes a followup
	require.NoError(t, w.Respond(context.Background(), i, utils.EphemeralResponse("noch was")))
	require.Len(t, api.followups, 1)
	assert.Equal(t, "noch was", api.followups[0].Content)
	assert.Equal(t, discordgo.MessageFlagsEphemeral, api.followups[0].Flags)
}

func TestWebhookResponder_DeferredCommandEditsOriginal(t *testing.T) {
	api := newFakeAPI()
	w := NewWebhookResponder(api, nil)
	i := &discordgo.Interaction{Type: discordgo.InteractionApplicationCommand}

	deferred := w.Defer(i)
	require.NotNil(t, deferred)
	assert.Equal(t, discordgo.InteractionResponseDeferredChannelMessageWithSource, deferred.Type)
	assert.Nil(t, w.Defer(i))

	done := make(chan error, 1)
	go func() {
		done <- w.Respond(context.Background(), i, utils.EphemeralResponse("spät"))
	}()

	select {
	case <-done:
		t.Fatal("respond must wait until the deferred ack went out")
	case <-time.After(20 * time.Millisecond):
	}
	w.MarkSent()
	require.NoError(t, <-done)

	require.Len(t, api.origEdits, 1)
	assert.Equal(t, "spät", *api.origEdits[0].Content)
	assert.Empty(t, api.followups)
}

func TestWebhookResponder_DeferredComponentUsesFollowup(t *testing.T) {
	api := newFakeAPI()
	w := NewWebhookResponder(api, nil)
	i := &discordgo.Interaction{Type: discordgo.InteractionMessageComponent}

	deferred := w.Defer(i)
	require.NotNil(t, deferred)
	assert.Equal(t, discordgo.InteractionResponseDeferredMessageUpdate, deferred.Type)
	w.MarkSent()

	require.NoError(t, w.Respond(context.Background(), i, utils.DeferredUpdateResponse()))
	require.NoError(t, w.Respond(context.Background(), i, utils.EphemeralResponse("Du nimmst bereits teil!")))
	assert.Empty(t, api.origEdits)
	require.Len(t, api.followups, 1)
	assert.Equal(t, "Du nimmst bereits teil!", api.followups[0].Content)
}

func TestWebhookResponder_EditHonoursContext(t *testing.T) {
	w := NewWebhookResponder(newFakeAPI(), nil)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	content := "x"
	err := w.EditResponse(ctx, &discordgo.Interaction{}, &discordgo.WebhookEdit{Content: &content})
	assert.ErrorIs(t, err, context.Canceled)
}

func TestTrackWrapsPlatformErrors(t *testing.T) {
	metrics := &utils.PlatformMetrics{}
	err := track(metrics, "send", func() error { return errFake })
	assert.ErrorIs(t, err, ErrPlatformRequestFailed)
	assert.ErrorIs(t, err, errFake)
	assert.NoError(t, track(metrics, "send", func() error { return nil }))

	stats := metrics.Snapshot()
	assert.Equal(t, int64(2), stats.TotalRequests)
	assert.Equal(t, int64(1), stats.FailedRequests)
}

func TestLogFailure_ExpiredInteractionIsNotAnError(t *testing.T) {
	var buf bytes.Buffer
	log := zerolog.New(&buf).Level(zerolog.DebugLevel)

	expired := &discordgo.RESTError{
		Response: &http.Response{Status: "404 Not Found"},
		Message:  &discordgo.APIErrorMessage{Code: discordgo.ErrCodeUnknownInteraction},
	}
	logFailure(log, track(nil, "interaction edit", func() error { return expired }), "command failed")
	assert.Contains(t, buf.String(), `"level":"debug"`)
	assert.Contains(t, buf.String(), "interaction expired")

	buf.Reset()
	logFailure(log, errors.New("boom"), "command failed")
	assert.Contains(t, buf.String(), `"level":"error"`)
	assert.Contains(t, buf.String(), "command failed")
}
