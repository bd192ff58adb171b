package utils

// Colors
const (
	BotColor     = 0xffffff
	SuccessColor = 0x2ecc71
	ErrorColor   = 0xe74c3c
	WarningColor = 0xf1c40f
)

// Component custom ids shared by the panels and the dispatcher.
const (
	TicketCategorySelectID = "ticket_category_select"
	TicketCloseConfirmID   = "ticket_close_confirm"
	TicketKeepChannelID    = "ticket_keep_channel"
	GiveawayJoinPrefix     = "giveaway_join_"
)

// PermissionAdministrator is the administrator bit of a member's permissions.
const PermissionAdministrator int64 = 0x8

// User facing texts
const (
	AccessDeniedMessage   = "❌ Keine Berechtigung"
	GenericErrorMessage   = "❌ Es ist ein Fehler aufgetreten. Bitte versuche es später erneut."
	CommandDoneMessage    = "Befehl ausgeführt."
	CountingFailedMessage = "❌ Fehler beim Zählen! Neustart bei 1."
	TicketClosingMessage  = "🔒 Ticket wird in %d Sekunden geschlossen..."
	TicketKeptMessage     = "🛑 Löschung abgebrochen von %s. Das Ticket bleibt geschlossen."
	ServerName            = "KEKSE Clan"
)

// Reaction emojis
const (
	ReactionAccepted = "✅"
	ReactionRejected = "❌"
)
