package utils

import (
	"fmt"
	"strings"
	"time"

	"github.com/bwmarrin/discordgo"

	"kekse-bot/models"
)

// CreateBrandedEmbed creates a basic embed with the server footer
func CreateBrandedEmbed(title, description string, color int) *discordgo.MessageEmbed {
	return &discordgo.MessageEmbed{
		Title:       title,
		Description: description,
		Color:       color,
		Timestamp:   time.Now().Format(time.RFC3339),
		Footer: &discordgo.MessageEmbedFooter{
			Text: ServerName,
		},
	}
}

// TicketPanelEmbed is posted by /ticket above the category menu.
func TicketPanelEmbed() *discordgo.MessageEmbed {
	return &discordgo.MessageEmbed{
		Title: "Wähle den passenden Ticket-Button für dein Anliegen.\nFolge dann den weiteren Schritten im Ticket.",
		Description: "Ein Mitglied der Administration wird sich so schnell wie möglich um dein Anliegen kümmern. " +
			"Bitte habe etwas Geduld, schließlich sind wir nicht 24/7 online.\n\n" +
			"**Support:**\nAllgemeine Anliegen oder Meldungen\n\n" +
			"**Abholung:**\nAbholung von gewonnenen Giveaways\n\n" +
			"**Bewerbung:**\nBewerbungen für den KEKSE Clan",
		Color: BotColor,
	}
}

// TicketWelcomeEmbed greets the requester inside the new ticket channel.
func TicketWelcomeEmbed(userID, ticketID, categoryDisplay string) *discordgo.MessageEmbed {
	return &discordgo.MessageEmbed{
		Title: fmt.Sprintf("🎫 %s-Ticket", categoryDisplay),
		Description: fmt.Sprintf("Hallo %s, danke für dein Interesse im Bereich **%s**.\nDas Team wurde benachrichtigt.\n\n"+
			"**Deine Ticket-ID:** %s\n**Thema:** %s\n\nNutze `/close`, um dieses Ticket zu schließen.",
			MentionUser(userID), categoryDisplay, ticketID, categoryDisplay),
		Color: BotColor,
	}
}

// GiveawayEmbed shows a running or finished giveaway.
func GiveawayEmbed(g *models.Giveaway) *discordgo.MessageEmbed {
	embed := CreateBrandedEmbed("🎉 GIVEAWAY: "+g.Prize, g.Description, WarningColor)
	embed.Fields = []*discordgo.MessageEmbedField{
		{Name: "Gewinner", Value: fmt.Sprintf("%d", g.Winners), Inline: true},
		{Name: "Teilnehmer", Value: fmt.Sprintf("%d", len(g.Participants)), Inline: true},
		{Name: "Veranstalter", Value: MentionUser(g.HostID), Inline: true},
	}
	if g.WhitelistRoleID != "" {
		embed.Fields = append(embed.Fields, &discordgo.MessageEmbedField{
			Name: "Voraussetzung", Value: MentionRole(g.WhitelistRoleID), Inline: true,
		})
	}
	if g.IsEnded {
		embed.Color = SuccessColor
		winners := "Keine gültigen Teilnehmer."
		if len(g.WinnerIDs) > 0 {
			mentions := make([]string, len(g.WinnerIDs))
			for i, id := range g.WinnerIDs {
				mentions[i] = MentionUser(id)
			}
			winners = strings.Join(mentions, ", ")
		}
		embed.Fields = append(embed.Fields, &discordgo.MessageEmbedField{Name: "🏆 Gewonnen", Value: winners})
	} else {
		embed.Fields = append(embed.Fields, &discordgo.MessageEmbedField{
			Name: "Endet", Value: fmt.Sprintf("<t:%d:R>", g.EndsAt.Unix()),
		})
	}
	return OptimizeEmbedPayload(embed)
}

// WarningsEmbed lists a member's warnings, numbered the way /warn_remove expects.
func WarningsEmbed(userID string, warnings []models.Warning) *discordgo.MessageEmbed {
	if len(warnings) == 0 {
		return CreateBrandedEmbed("Verwarnungen", MentionUser(userID)+" hat keine Verwarnungen.", SuccessColor)
	}
	var b strings.Builder
	for i, w := range warnings {
		fmt.Fprintf(&b, "**%d.** %s — von %s, <t:%d:d>\n", i+1, w.Reason, MentionUser(w.ModeratorID), w.Timestamp.Unix())
	}
	return CreateBrandedEmbed(fmt.Sprintf("Verwarnungen (%d)", len(warnings)), MentionUser(userID)+"\n\n"+b.String(), WarningColor)
}

// LeaderboardEntry is one row of the counting leaderboard.
type LeaderboardEntry struct {
	UserID string `json:"id"`
	Name   string `json:"username"`
	Score  int    `json:"score"`
}

// LeaderboardEmbed renders the counting top list.
func LeaderboardEmbed(entries []LeaderboardEntry) *discordgo.MessageEmbed {
	if len(entries) == 0 {
		return CreateBrandedEmbed("🏆 Counting Rangliste", "Noch niemand hat gezählt.", BotColor)
	}
	medals := []string{"🥇", "🥈", "🥉"}
	var b strings.Builder
	for i, e := range entries {
		prefix := fmt.Sprintf("**%d.**", i+1)
		if i < len(medals) {
			prefix = medals[i]
		}
		fmt.Fprintf(&b, "%s %s — %d\n", prefix, MentionUser(e.UserID), e.Score)
	}
	return CreateBrandedEmbed("🏆 Counting Rangliste", b.String(), BotColor)
}

// HelpEmbed lists the commands every member can use.
func HelpEmbed() *discordgo.MessageEmbed {
	embed := CreateBrandedEmbed("ℹ️ "+ServerName, "Willkommen! Diese Befehle stehen allen zur Verfügung:", BotColor)
	embed.Fields = []*discordgo.MessageEmbedField{
		{Name: "/ping", Value: "Zeigt den aktuellen Ping des Bots an"},
		{Name: "/score [user]", Value: "Zeigt deinen Counting-Score oder den eines anderen Users"},
		{Name: "/top", Value: "Zeigt die Top 10 Counting Rangliste"},
		{Name: "/close", Value: "Schließt dein Ticket (im Ticket-Channel)"},
	}
	return embed
}

// AdminHelpEmbed lists the moderator and owner commands.
func AdminHelpEmbed() *discordgo.MessageEmbed {
	embed := CreateBrandedEmbed("🛡️ Admin/Moderator Commands", "", BotColor)
	embed.Fields = []*discordgo.MessageEmbedField{
		{Name: "Moderation", Value: "/ban, /unban, /kick, /timeout, /untimeout, /clear"},
		{Name: "Verwarnungen", Value: "/warn, /warns, /warn_remove"},
		{Name: "Nachrichten", Value: "/send, /embed"},
		{Name: "Tickets", Value: "/ticket, /add, /remove, /close"},
		{Name: "Counting", Value: "/setcounting, /delcounting, /forcecount, /counting set (Owner)"},
		{Name: "Giveaways", Value: "/giveaway"},
		{Name: "Dashboard", Value: "/auth (Owner)"},
	}
	return embed
}
