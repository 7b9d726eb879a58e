package domain

// Mood is a fixed categorical tag describing the emotional tone of a whisper.
// Label, Emoji and Color are presentation metadata carried through to clients;
// only ID participates in feed logic.
type Mood struct {
	ID    string `json:"id"`
	Label string `json:"label"`
	Emoji string `json:"emoji"`
	Color string `json:"color"`
}

// MoodUnknown is the bucket for tags outside the fixed set.
const MoodUnknown = "unknown"

// Moods is the fixed, ordered list of known moods. Aggregation tie-breaks
// preserve this order.
var Moods = []Mood{
	{ID: "calm", Label: "Calm", Emoji: "🌊", Color: "#4A90D9"},
	{ID: "love", Label: "Love", Emoji: "💗", Color: "#E91E63"},
	{ID: "dear", Label: "Thoughtful", Emoji: "💭", Color: "#9C27B0"},
	{ID: "greed", Label: "Ambitious", Emoji: "🔥", Color: "#FF9800"},
}

// KnownMood reports whether id belongs to the fixed mood set.
func KnownMood(id string) bool {
	for _, m := range Moods {
		if m.ID == id {
			return true
		}
	}
	return false
}

// NormalizeMood maps an arbitrary tag to a member of the fixed set,
// folding everything else into MoodUnknown.
func NormalizeMood(id string) string {
	if KnownMood(id) {
		return id
	}
	return MoodUnknown
}
