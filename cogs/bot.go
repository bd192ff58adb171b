// Package cogs turns Discord events into calls on the bot's services: slash
// commands, component clicks and counting messages.
package cogs

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/bwmarrin/discordgo"
	"github.com/rs/zerolog"

	"kekse-bot/auth"
	"kekse-bot/clock"
	"kekse-bot/counting"
	"kekse-bot/giveaway"
	"kekse-bot/logger"
	"kekse-bot/models"
	"kekse-bot/storage"
	"kekse-bot/tickets"
	"kekse-bot/utils"
	"kekse-bot/warnings"
)

// Options are the guild specific settings of the bot.
type Options struct {
	AppID            string
	GuildID          string
	RegisterCommands bool
}

// Services are the engines the bot dispatches to. They are built once in
// main and shared with the HTTP server.
type Services struct {
	Counting  *counting.Engine
	Tickets   *tickets.Manager
	Giveaways *giveaway.Tracker
	Warnings  *warnings.Service
	Dashboard *auth.Dashboard
	Store     storage.Store
}

// Bot routes interactions and gateway messages.
type Bot struct {
	api      DiscordAPI
	opts     Options
	policy   auth.Policy
	svc      Services
	clock    clock.Clock
	metrics  *utils.PlatformMetrics
	commands map[string]command
	started  time.Time
	log      zerolog.Logger

	mu             sync.Mutex
	snapshot       *models.GuildSnapshot
	giveawayTimers map[string]clock.Timer
}

func New(api DiscordAPI, opts Options, policy auth.Policy, svc Services, clk clock.Clock, metrics *utils.PlatformMetrics) *Bot {
	b := &Bot{
		api:            api,
		opts:           opts,
		policy:         policy,
		svc:            svc,
		clock:          clk,
		metrics:        metrics,
		commands:       make(map[string]command),
		started:        clk.Now(),
		log:            logger.Module("cogs"),
		giveawayTimers: make(map[string]clock.Timer),
	}
	for _, c := range catalog() {
		b.commands[c.def.Name] = c
	}
	return b
}

// Metrics exposes the outbound request counters.
func (b *Bot) Metrics() *utils.PlatformMetrics {
	return b.metrics
}

// NewWebhookResponder returns a responder for an interaction that arrived
// over HTTP.
func (b *Bot) NewWebhookResponder() *WebhookResponder {
	return NewWebhookResponder(b.api, b.metrics)
}

// Stop cancels the giveaway end timers.
func (b *Bot) Stop() {
	b.mu.Lock()
	defer b.mu.Unlock()
	for id, t := range b.giveawayTimers {
		t.Stop()
		delete(b.giveawayTimers, id)
	}
}

// Call is one slash command invocation.
type Call struct {
	ctx      context.Context
	i        *discordgo.Interaction
	r        Responder
	caller   auth.Caller
	username string
	options  map[string]*discordgo.ApplicationCommandInteractionDataOption
	subcmd   string
}

func (c *Call) reply(resp *discordgo.InteractionResponse) error {
	return c.r.Respond(c.ctx, c.i, resp)
}

func (c *Call) ephemeral(format string, args ...any) error {
	return c.reply(utils.EphemeralResponse(fmt.Sprintf(format, args...)))
}

func (c *Call) public(format string, args ...any) error {
	return c.reply(utils.MessageResponse(fmt.Sprintf(format, args...)))
}

func (c *Call) str(name string) string {
	if o, ok := c.options[name]; ok {
		if s, ok := o.Value.(string); ok {
			return s
		}
	}
	return ""
}

func (c *Call) integer(name string) (int64, bool) {
	if o, ok := c.options[name]; ok {
		switch v := o.Value.(type) {
		case float64:
			return int64(v), true
		case int64:
			return v, true
		case int:
			return int64(v), true
		}
	}
	return 0, false
}

func (c *Call) boolean(name string) bool {
	if o, ok := c.options[name]; ok {
		if v, ok := o.Value.(bool); ok {
			return v
		}
	}
	return false
}

// Dispatch handles one interaction. Engine errors end up as ephemeral
// replies; unknown component ids are ignored.
func (b *Bot) Dispatch(ctx context.Context, i *discordgo.Interaction, r Responder) {
	switch i.Type {
	case discordgo.InteractionPing:
		if err := r.Respond(ctx, i, utils.PongResponse()); err != nil {
			b.log.Error().Err(err).Msg("failed to answer ping")
		}
	case discordgo.InteractionApplicationCommand:
		b.dispatchCommand(ctx, i, r)
	case discordgo.InteractionMessageComponent:
		b.dispatchComponent(ctx, i, r)
	default:
		b.log.Debug().Int("type", int(i.Type)).Msg("ignoring interaction type")
	}
}

func (b *Bot) dispatchCommand(ctx context.Context, i *discordgo.Interaction, r Responder) {
	data := i.ApplicationCommandData()
	call := &Call{
		ctx:     ctx,
		i:       i,
		r:       r,
		options: make(map[string]*discordgo.ApplicationCommandInteractionDataOption),
	}
	call.caller, call.username = callerOf(i)

	opts := data.Options
	if len(opts) == 1 && opts[0].Type == discordgo.ApplicationCommandOptionSubCommand {
		call.subcmd = opts[0].Name
		opts = opts[0].Options
	}
	for _, o := range opts {
		call.options[o.Name] = o
	}

	log := b.log.With().Str("command", data.Name).Str("user", call.caller.UserID).Logger()

	cmd, ok := b.commands[data.Name]
	if !ok {
		log.Warn().Msg("unknown command")
		if err := call.ephemeral(utils.CommandDoneMessage); err != nil {
			log.Error().Err(err).Msg("failed to respond")
		}
		return
	}

	decision := b.policy.Evaluate(call.caller, cmd.level)
	if !decision.Allowed {
		log.Info().Str("required", cmd.level.String()).Msg("permission denied")
		if err := call.ephemeral("%s: %s", utils.AccessDeniedMessage, decision.Reason); err != nil {
			log.Error().Err(err).Msg("failed to respond")
		}
		return
	}

	if err := cmd.handle(b, call); err != nil {
		logFailure(log, err, "command failed")
	}
}

func (b *Bot) dispatchComponent(ctx context.Context, i *discordgo.Interaction, r Responder) {
	customID := i.MessageComponentData().CustomID
	var err error
	switch {
	case customID == utils.TicketCategorySelectID:
		err = b.handleTicketCategory(ctx, i, r)
	case customID == utils.TicketCloseConfirmID:
		err = b.handleTicketCloseConfirm(ctx, i, r)
	case customID == utils.TicketKeepChannelID:
		err = b.handleTicketKeepChannel(ctx, i, r)
	case strings.HasPrefix(customID, utils.GiveawayJoinPrefix):
		err = b.handleGiveawayJoin(ctx, i, r, strings.TrimPrefix(customID, utils.GiveawayJoinPrefix))
	default:
		b.log.Debug().Str("custom_id", customID).Msg("ignoring unknown component")
		return
	}
	if err != nil {
		logFailure(b.log.With().Str("custom_id", customID).Logger(), err, "component failed")
	}
}

// logFailure reports a failed handler. An expired interaction token only
// means the member waited too long, so it is not logged as an error.
func logFailure(log zerolog.Logger, err error, msg string) {
	if utils.IsUnknownInteractionError(err) {
		log.Debug().Err(err).Msg("interaction expired before the reply")
		return
	}
	log.Error().Err(err).Msg(msg)
}

// callerOf extracts the invoking member. Interactions from DMs only carry a
// user and no roles.
func callerOf(i *discordgo.Interaction) (auth.Caller, string) {
	if i.Member != nil && i.Member.User != nil {
		return auth.Caller{
			UserID:      i.Member.User.ID,
			RoleIDs:     i.Member.Roles,
			Permissions: i.Member.Permissions,
		}, i.Member.User.Username
	}
	if i.User != nil {
		return auth.Caller{UserID: i.User.ID}, i.User.Username
	}
	return auth.Caller{}, ""
}

// background bounds work that outlives the interaction that started it.
func background() (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), 30*time.Second)
}
