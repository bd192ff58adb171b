package cogs

import (
	"context"

	"github.com/bwmarrin/discordgo"

	"kekse-bot/counting"
	"kekse-bot/utils"
)

// historyDepth is how many messages /forcecount inspects.
const historyDepth = 50

// HandleMessage feeds a gateway message to the counting game and reacts to
// the outcome.
func (b *Bot) HandleMessage(ctx context.Context, m *discordgo.Message) {
	if m == nil || m.Author == nil {
		return
	}
	result := b.svc.Counting.Process(ctx, counting.Message{
		ChannelID: m.ChannelID,
		AuthorID:  m.Author.ID,
		AuthorBot: m.Author.Bot,
		Content:   m.Content,
	})

	switch result.Outcome {
	case counting.Accepted:
		b.react(ctx, m, utils.ReactionAccepted)
	case counting.Rejected:
		b.react(ctx, m, utils.ReactionRejected)
		err := track(b.metrics, "counting restart notice", func() error {
			_, err := b.api.ChannelMessageSend(m.ChannelID, utils.CountingFailedMessage, discordgo.WithContext(ctx))
			return err
		})
		if err != nil {
			b.log.Error().Err(err).Str("channel", m.ChannelID).Msg("failed to announce counting restart")
		}
	}
}

func (b *Bot) react(ctx context.Context, m *discordgo.Message, emoji string) {
	err := track(b.metrics, "counting reaction", func() error {
		return b.api.MessageReactionAdd(m.ChannelID, m.ID, emoji, discordgo.WithContext(ctx))
	})
	if err != nil {
		b.log.Error().Err(err).Str("message", m.ID).Msg("failed to react")
	}
}

func (b *Bot) handleSetCounting(c *Call) error {
	channelID := c.str("channel")
	b.svc.Counting.SetChannel(c.ctx, channelID)
	return c.ephemeral("✅ Counting-Channel wurde auf %s gesetzt. Startet bei 1!", utils.MentionChannel(channelID))
}

func (b *Bot) handleDelCounting(c *Call) error {
	if b.svc.Counting.ChannelID() == "" {
		return c.ephemeral("❌ Es ist kein Counting-Spiel aktiv.")
	}
	b.svc.Counting.Disable(c.ctx)
	return c.ephemeral("🛑 Das Counting-Spiel wurde beendet.")
}

func (b *Bot) handleCounting(c *Call) error {
	if c.subcmd != "set" {
		return c.ephemeral(utils.CommandDoneMessage)
	}
	number, ok := c.integer("number")
	if !ok || number < 0 {
		return c.ephemeral("❌ Die Zahl muss 0 oder größer sein.")
	}
	b.svc.Counting.SetNumber(c.ctx, number)
	return c.ephemeral("✅ Spielstand auf %d gesetzt. Die nächste Zahl ist %d.", number, number+1)
}

// handleForceCount rebuilds the count from the newest numbers in the
// counting channel.
func (b *Bot) handleForceCount(c *Call) error {
	channelID := b.svc.Counting.ChannelID()
	if channelID == "" {
		return c.ephemeral("❌ Es ist kein Counting-Channel gesetzt.")
	}

	var history []*discordgo.Message
	err := track(b.metrics, "counting history", func() error {
		var err error
		history, err = b.api.ChannelMessages(channelID, historyDepth, "", "", "", discordgo.WithContext(c.ctx))
		return err
	})
	if err != nil {
		_ = c.ephemeral(utils.GenericErrorMessage)
		return err
	}

	messages := make([]counting.Message, 0, len(history))
	for _, m := range history {
		if m.Author == nil {
			continue
		}
		messages = append(messages, counting.Message{
			ChannelID: m.ChannelID,
			AuthorID:  m.Author.ID,
			AuthorBot: m.Author.Bot,
			Content:   m.Content,
		})
	}
	number, ok := b.svc.Counting.Reconcile(c.ctx, messages)
	if !ok {
		return c.ephemeral("❌ In den letzten %d Nachrichten wurde keine Zahl gefunden.", historyDepth)
	}
	return c.ephemeral("✅ Spielstand korrigiert: Aktuelle Zahl ist %d, weiter geht's mit %d.", number, number+1)
}

func (b *Bot) handleScore(c *Call) error {
	userID := c.str("user")
	if userID == "" {
		userID = c.caller.UserID
	}
	return c.ephemeral("🍪 %s hat **%d** Punkte im Counting.", utils.MentionUser(userID), b.svc.Counting.Score(userID))
}

func (b *Bot) handleTop(c *Call) error {
	entries := b.leaderboard(10)
	return c.reply(utils.MessageResponse("", utils.LeaderboardEmbed(entries)))
}
