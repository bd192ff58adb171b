package cogs

import (
	"context"

	"github.com/bwmarrin/discordgo"

	"kekse-bot/models"
	"kekse-bot/storage"
	"kekse-bot/utils"
)

// GuildInfo is the guild header of the dashboard.
type GuildInfo struct {
	Name        string `json:"name"`
	MemberCount int    `json:"memberCount"`
	OnlineCount int    `json:"onlineCount"`
	Icon        string `json:"icon,omitempty"`
}

// Stats is the dashboard summary.
type Stats struct {
	GuildInfo        GuildInfo                `json:"guildInfo"`
	Commands         int                      `json:"commands"`
	Counting         models.CountingState     `json:"counting"`
	WarningsCount    int                      `json:"warningsCount"`
	OpenTickets      int                      `json:"openTickets"`
	PendingDeletions int                      `json:"pendingDeletions"`
	ActiveGiveaways  int                      `json:"activeGiveaways"`
	Uptime           float64                  `json:"uptime"`
	IDs              *models.GuildSnapshot    `json:"ids"`
	Leaderboard      []utils.LeaderboardEntry `json:"leaderboard"`
	Platform         utils.PlatformStats      `json:"platform"`
	PersistErrors    int64                    `json:"persistErrors"`
}

const unknownUser = "Unbekannter User"

// Stats collects the dashboard summary. Guild details are fetched live and
// left at their defaults when Discord is unreachable.
func (b *Bot) Stats(ctx context.Context) Stats {
	persistErrors := b.svc.Counting.PersistErrors() + b.svc.Tickets.PersistErrors() + b.svc.Warnings.PersistErrors()
	stats := Stats{
		GuildInfo:        GuildInfo{Name: "Unbekannt"},
		Commands:         len(b.commands),
		Counting:         b.svc.Counting.Snapshot(),
		WarningsCount:    b.svc.Warnings.Count(),
		OpenTickets:      b.svc.Tickets.OpenCount(),
		PendingDeletions: b.svc.Tickets.PendingDeletions(),
		ActiveGiveaways:  b.svc.Giveaways.ActiveCount(),
		Uptime:           b.clock.Now().Sub(b.started).Seconds(),
		IDs:              b.loadSnapshot(ctx),
		Leaderboard:      b.leaderboard(0),
		Platform:         b.metrics.Snapshot(),
		PersistErrors:    persistErrors,
	}

	if b.opts.GuildID != "" {
		var guild *discordgo.Guild
		err := track(b.metrics, "stats guild", func() error {
			var err error
			guild, err = b.api.GuildWithCounts(b.opts.GuildID, discordgo.WithContext(ctx))
			return err
		})
		if err != nil {
			b.log.Error().Err(err).Msg("failed to fetch guild info for stats")
		} else {
			stats.GuildInfo = GuildInfo{
				Name:        guild.Name,
				MemberCount: guild.ApproximateMemberCount,
				OnlineCount: guild.ApproximatePresenceCount,
				Icon:        guild.IconURL("256"),
			}
		}
	}
	return stats
}

func (b *Bot) loadSnapshot(ctx context.Context) *models.GuildSnapshot {
	b.mu.Lock()
	snap := b.snapshot
	b.mu.Unlock()
	if snap != nil {
		return snap
	}

	loaded := &models.GuildSnapshot{}
	found, err := b.svc.Store.Load(ctx, storage.IDs, loaded)
	if err != nil {
		b.log.Error().Err(err).Msg("failed to read ids document")
		return nil
	}
	if !found {
		return nil
	}
	b.mu.Lock()
	b.snapshot = loaded
	b.mu.Unlock()
	return loaded
}

// leaderboard resolves usernames from the id snapshot. A limit <= 0 returns
// every player.
func (b *Bot) leaderboard(limit int) []utils.LeaderboardEntry {
	names := make(map[string]string)
	b.mu.Lock()
	if b.snapshot != nil {
		for _, m := range b.snapshot.Members {
			names[m.ID] = m.Username
		}
	}
	b.mu.Unlock()

	entries := b.svc.Counting.Leaderboard(limit)
	out := make([]utils.LeaderboardEntry, len(entries))
	for i, e := range entries {
		name, ok := names[e.UserID]
		if !ok {
			name = unknownUser
		}
		out[i] = utils.LeaderboardEntry{UserID: e.UserID, Name: name, Score: e.Score}
	}
	return out
}
