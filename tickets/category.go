package tickets

// Category is one of the ticket topics offered by the panel.
type Category struct {
	Key     string
	Emoji   string
	Display string
	// Application tickets live under their own channel grouping.
	Application bool
}

var categories = map[string]Category{
	"support":   {Key: "support", Emoji: "⚙️", Display: "Support"},
	"giveaway":  {Key: "giveaway", Emoji: "🎉", Display: "Abholung"},
	"bewerbung": {Key: "bewerbung", Emoji: "✉️", Display: "Bewerbung", Application: true},
}

// LookupCategory returns the category for a panel value. Unknown values get
// the support presentation.
func LookupCategory(value string) Category {
	if c, ok := categories[value]; ok {
		return c
	}
	return categories["support"]
}
