package cogs

import (
	"github.com/bwmarrin/discordgo"

	"kekse-bot/auth"
)

type commandHandler func(b *Bot, c *Call) error

// command binds a slash command definition to its permission level and handler.
type command struct {
	def    *discordgo.ApplicationCommand
	level  auth.Level
	handle commandHandler
}

func opt(t discordgo.ApplicationCommandOptionType, name, description string, required bool) *discordgo.ApplicationCommandOption {
	return &discordgo.ApplicationCommandOption{Type: t, Name: name, Description: description, Required: required}
}

const (
	optString  = discordgo.ApplicationCommandOptionString
	optInteger = discordgo.ApplicationCommandOptionInteger
	optBoolean = discordgo.ApplicationCommandOptionBoolean
	optUser    = discordgo.ApplicationCommandOptionUser
	optChannel = discordgo.ApplicationCommandOptionChannel
	optRole    = discordgo.ApplicationCommandOptionRole
)

// catalog is the full command set, in registration order.
func catalog() []command {
	return []command{
		{level: auth.Moderator, handle: (*Bot).handleSend, def: &discordgo.ApplicationCommand{
			Name: "send", Description: "Sendet eine Nachricht in den Channel",
			Options: []*discordgo.ApplicationCommandOption{
				opt(optChannel, "channel", "Zielchannel", true),
				opt(optString, "text", "Nachricht", true),
			},
		}},
		{level: auth.Moderator, handle: (*Bot).handleEmbed, def: &discordgo.ApplicationCommand{
			Name: "embed", Description: "Sendet ein Embed in den Channel (Admin-only)",
			Options: []*discordgo.ApplicationCommandOption{
				opt(optChannel, "channel", "Zielchannel", true),
				opt(optString, "title", "Titel", true),
				opt(optString, "description", "Beschreibung", true),
				opt(optString, "color", "Farbe (Hex)", false),
			},
		}},
		{level: auth.Moderator, handle: (*Bot).handleBan, def: &discordgo.ApplicationCommand{
			Name: "ban", Description: "Bannt einen User vom Server",
			Options: []*discordgo.ApplicationCommandOption{
				opt(optUser, "user", "User zum bannen", true),
				opt(optString, "reason", "Grund", false),
				opt(optBoolean, "delete_messages", "Sollen alle Nachrichten des Users gelöscht werden?", false),
			},
		}},
		{level: auth.Moderator, handle: (*Bot).handleKick, def: &discordgo.ApplicationCommand{
			Name: "kick", Description: "Kickt einen User vom Server",
			Options: []*discordgo.ApplicationCommandOption{
				opt(optUser, "user", "User zum kicken", true),
				opt(optString, "reason", "Grund", false),
			},
		}},
		{level: auth.Moderator, handle: (*Bot).handleTimeout, def: &discordgo.ApplicationCommand{
			Name: "timeout", Description: "Setzt einen User auf Timeout",
			Options: []*discordgo.ApplicationCommandOption{
				opt(optUser, "user", "User zum muten", true),
				opt(optInteger, "duration", "Dauer in Minuten", true),
				opt(optString, "reason", "Grund", false),
			},
		}},
		{level: auth.Moderator, handle: (*Bot).handleUntimeout, def: &discordgo.ApplicationCommand{
			Name: "untimeout", Description: "Entfernt einen Timeout von einem User",
			Options: []*discordgo.ApplicationCommandOption{
				opt(optUser, "user", "User", true),
			},
		}},
		{level: auth.Moderator, handle: (*Bot).handleUnban, def: &discordgo.ApplicationCommand{
			Name: "unban", Description: "Entsperrt einen User",
			Options: []*discordgo.ApplicationCommandOption{
				opt(optString, "user", "User-ID", true),
			},
		}},
		{level: auth.Moderator, handle: (*Bot).handleWarn, def: &discordgo.ApplicationCommand{
			Name: "warn", Description: "Verteilt eine Warnung an einen User",
			Options: []*discordgo.ApplicationCommandOption{
				opt(optUser, "user", "User", true),
				opt(optString, "reason", "Grund", true),
			},
		}},
		{level: auth.Moderator, handle: (*Bot).handleWarns, def: &discordgo.ApplicationCommand{
			Name: "warns", Description: "Zeigt alle Warnungen eines Users an",
			Options: []*discordgo.ApplicationCommandOption{
				opt(optUser, "user", "User", true),
			},
		}},
		{level: auth.Moderator, handle: (*Bot).handleWarnRemove, def: &discordgo.ApplicationCommand{
			Name: "warn_remove", Description: "Entfernt eine Verwarnung von einem User",
			Options: []*discordgo.ApplicationCommandOption{
				opt(optUser, "user", "User", true),
				opt(optInteger, "number", "Nummer der zu löschenden Verwarnung", false),
			},
		}},
		{level: auth.Moderator, handle: (*Bot).handleGiveaway, def: &discordgo.ApplicationCommand{
			Name: "giveaway", Description: "Erstellt ein Giveaway",
			Options: []*discordgo.ApplicationCommandOption{
				opt(optChannel, "channel", "Channel für das Giveaway", true),
				opt(optString, "duration", "Dauer (z.B. 10m, 1h)", true),
				opt(optString, "prize", "Gewinn", true),
				opt(optInteger, "winners", "Anzahl der Gewinner (default: 1)", false),
				opt(optString, "blacklist", "Blacklist User-IDs (komma-getrennt)", false),
				opt(optRole, "whitelist_role", "Nur User mit dieser Rolle dürfen mitmachen", false),
				opt(optString, "description", "Beschreibung", false),
			},
		}},
		{level: auth.Moderator, handle: (*Bot).handleClear, def: &discordgo.ApplicationCommand{
			Name: "clear", Description: "Löscht Nachrichten aus einem Channel",
			Options: []*discordgo.ApplicationCommandOption{
				opt(optInteger, "amount", "Anzahl der zu löschenden Nachrichten", true),
				opt(optChannel, "channel", "Channel, in dem gelöscht werden soll", true),
				opt(optString, "user", "Nur Nachrichten dieses Users löschen (User-ID)", false),
			},
		}},
		{level: auth.Everyone, handle: (*Bot).handlePing, def: &discordgo.ApplicationCommand{
			Name: "ping", Description: "Zeigt den aktuellen Ping des Bots an",
		}},
		{level: auth.Moderator, handle: (*Bot).handleDelCounting, def: &discordgo.ApplicationCommand{
			Name: "delcounting", Description: "Beendet das Counting-Spiel in diesem Channel",
		}},
		{level: auth.Moderator, handle: (*Bot).handleForceCount, def: &discordgo.ApplicationCommand{
			Name: "forcecount", Description: "Überprüft die letzten Zahlen und korrigiert den Spielstand",
		}},
		{level: auth.Moderator, handle: (*Bot).handleSetCounting, def: &discordgo.ApplicationCommand{
			Name: "setcounting", Description: "Legt den Channel für das Counting-Spiel fest",
			Options: []*discordgo.ApplicationCommandOption{
				opt(optChannel, "channel", "Channel für Counting", true),
			},
		}},
		{level: auth.Owner, handle: (*Bot).handleCounting, def: &discordgo.ApplicationCommand{
			Name: "counting", Description: "Verwaltet das Counting-Spiel",
			Options: []*discordgo.ApplicationCommandOption{{
				Type:        discordgo.ApplicationCommandOptionSubCommand,
				Name:        "set",
				Description: "Setzt den aktuellen Spielstand (Nur Owner)",
				Options: []*discordgo.ApplicationCommandOption{
					opt(optInteger, "number", "Die neue Zahl", true),
				},
			}},
		}},
		{level: auth.Moderator, handle: (*Bot).handleTicketPanel, def: &discordgo.ApplicationCommand{
			Name: "ticket", Description: "Erstellt eine Ticket-Nachricht mit Auswahlmenü",
		}},
		{level: auth.Everyone, handle: (*Bot).handleClose, def: &discordgo.ApplicationCommand{
			Name: "close", Description: "Schließt das aktuelle Ticket",
		}},
		{level: auth.Moderator, handle: (*Bot).handleTicketAdd, def: &discordgo.ApplicationCommand{
			Name: "add", Description: "Fügt einen User zum Ticket hinzu",
			Options: []*discordgo.ApplicationCommandOption{
				opt(optUser, "user", "User zum Hinzufügen", true),
			},
		}},
		{level: auth.Moderator, handle: (*Bot).handleTicketRemove, def: &discordgo.ApplicationCommand{
			Name: "remove", Description: "Entfernt einen User aus dem Ticket",
			Options: []*discordgo.ApplicationCommandOption{
				opt(optUser, "user", "User zum Entfernen", true),
			},
		}},
		{level: auth.Moderator, handle: (*Bot).handleAdminHelp, def: &discordgo.ApplicationCommand{
			Name: "admin_help", Description: "Zeigt alle Admin/Moderator Commands an",
		}},
		{level: auth.Everyone, handle: (*Bot).handleHelp, def: &discordgo.ApplicationCommand{
			Name: "help", Description: "Zeigt allgemeine Informationen über den Server an",
		}},
		{level: auth.Everyone, handle: (*Bot).handleScore, def: &discordgo.ApplicationCommand{
			Name: "score", Description: "Zeigt dein oder das Scoreboard eines anderen Users an",
			Options: []*discordgo.ApplicationCommandOption{
				opt(optUser, "user", "Der User, dessen Score du sehen willst", false),
			},
		}},
		{level: auth.Everyone, handle: (*Bot).handleTop, def: &discordgo.ApplicationCommand{
			Name: "top", Description: "Zeigt die Top 10 Counting Rangliste an",
		}},
		{level: auth.Owner, handle: (*Bot).handleAuth, def: &discordgo.ApplicationCommand{
			Name: "auth", Description: "Generiert dein Dashboard-Passwort (einmalig)",
			Options: []*discordgo.ApplicationCommandOption{
				opt(optString, "password", "Dein neues Passwort", true),
			},
		}},
	}
}

// Commands returns the definitions registered with Discord.
func Commands() []*discordgo.ApplicationCommand {
	cmds := catalog()
	defs := make([]*discordgo.ApplicationCommand, len(cmds))
	for i, c := range cmds {
		defs[i] = c.def
	}
	return defs
}
