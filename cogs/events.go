package cogs

import (
	"context"

	"github.com/bwmarrin/discordgo"

	"kekse-bot/models"
	"kekse-bot/storage"
)

// memberPageSize is the maximum page size of the guild members endpoint.
const memberPageSize = 1000

// OnReady is the gateway Ready handler.
func (b *Bot) OnReady(s *discordgo.Session, r *discordgo.Ready) {
	ctx, cancel := background()
	defer cancel()
	appID := b.opts.AppID
	if appID == "" && r.User != nil {
		appID = r.User.ID
	}
	if r.User != nil {
		b.log.Info().Str("user", r.User.Username).Str("id", r.User.ID).Msg("✅ Discord bot logged in")
	}
	b.Ready(ctx, appID)
}

// OnMessageCreate is the gateway MessageCreate handler.
func (b *Bot) OnMessageCreate(s *discordgo.Session, m *discordgo.MessageCreate) {
	ctx, cancel := background()
	defer cancel()
	b.HandleMessage(ctx, m.Message)
}

// OnInteractionCreate is the gateway InteractionCreate handler.
func (b *Bot) OnInteractionCreate(s *discordgo.Session, i *discordgo.InteractionCreate) {
	ctx, cancel := background()
	defer cancel()
	b.Dispatch(ctx, i.Interaction, NewSessionResponder(b.api, b.metrics))
}

// Ready registers the command catalog, refreshes the id snapshot and picks up
// ticket deletions that were pending before the restart.
func (b *Bot) Ready(ctx context.Context, appID string) {
	if b.opts.RegisterCommands && appID != "" {
		if err := b.registerCommands(ctx, appID); err != nil {
			b.log.Error().Err(err).Msg("failed to register slash commands")
		}
	}
	if b.opts.GuildID != "" {
		if err := b.refreshSnapshot(ctx); err != nil {
			b.log.Error().Err(err).Msg("failed to update ids document")
		}
	}
	b.svc.Tickets.Resume(ctx)
}

func (b *Bot) registerCommands(ctx context.Context, appID string) error {
	cmds := Commands()
	err := track(b.metrics, "register commands", func() error {
		_, err := b.api.ApplicationCommandBulkOverwrite(appID, b.opts.GuildID, cmds, discordgo.WithContext(ctx))
		return err
	})
	if err != nil {
		return err
	}
	b.log.Info().Int("count", len(cmds)).Msg("registered slash commands")
	return nil
}

// refreshSnapshot writes the ids document: every channel, role and member of
// the home guild.
func (b *Bot) refreshSnapshot(ctx context.Context) error {
	guildID := b.opts.GuildID
	snap := &models.GuildSnapshot{}

	var guild *discordgo.Guild
	if err := track(b.metrics, "snapshot guild", func() error {
		var err error
		guild, err = b.api.GuildWithCounts(guildID, discordgo.WithContext(ctx))
		return err
	}); err != nil {
		return err
	}
	snap.Guild = models.SnapshotEntry{ID: guild.ID, Name: guild.Name}

	var channels []*discordgo.Channel
	if err := track(b.metrics, "snapshot channels", func() error {
		var err error
		channels, err = b.api.GuildChannels(guildID, discordgo.WithContext(ctx))
		return err
	}); err != nil {
		return err
	}
	for _, ch := range channels {
		snap.Channels = append(snap.Channels, models.SnapshotEntry{ID: ch.ID, Name: ch.Name, Type: int(ch.Type)})
	}

	var roles []*discordgo.Role
	if err := track(b.metrics, "snapshot roles", func() error {
		var err error
		roles, err = b.api.GuildRoles(guildID, discordgo.WithContext(ctx))
		return err
	}); err != nil {
		return err
	}
	for _, r := range roles {
		snap.Roles = append(snap.Roles, models.SnapshotEntry{ID: r.ID, Name: r.Name})
	}

	after := ""
	for {
		prev := after
		var page []*discordgo.Member
		if err := track(b.metrics, "snapshot members", func() error {
			var err error
			page, err = b.api.GuildMembers(guildID, after, memberPageSize, discordgo.WithContext(ctx))
			return err
		}); err != nil {
			return err
		}
		for _, m := range page {
			if m.User == nil {
				continue
			}
			snap.Members = append(snap.Members, models.SnapshotMember{ID: m.User.ID, Username: m.User.Username})
			after = m.User.ID
		}
		if len(page) < memberPageSize || after == prev {
			break
		}
	}

	b.mu.Lock()
	b.snapshot = snap
	b.mu.Unlock()

	if err := b.svc.Store.Save(ctx, storage.IDs, snap); err != nil {
		return err
	}
	b.log.Info().
		Int("channels", len(snap.Channels)).
		Int("roles", len(snap.Roles)).
		Int("members", len(snap.Members)).
		Msg("✅ ids document updated")
	return nil
}
