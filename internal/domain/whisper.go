package domain

import (
	"time"

	"github.com/google/uuid"
)

// Whisper is an anonymous, mood-tagged short text post.
//
// Default substitution rules for records with missing data:
//   - a zero Timestamp is treated as "now" by time-based feed rules
//   - a missing distance is carried as 0 meters (the whisper sorts closest
//     and qualifies as nearby)
type Whisper struct {
	ID        uuid.UUID `json:"id"`
	Text      string    `json:"text"`
	Mood      string    `json:"mood"`
	Likes     int       `json:"likes"`
	Timestamp time.Time `json:"timestamp"`
	// Distance is meters from the viewer's location, computed per query
	// snapshot. Not a stored attribute of the whisper itself.
	Distance float64   `json:"distance"`
	UserID   uuid.UUID `json:"user_id"`
}

// Location is a viewer or whisper position in degrees.
type Location struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

// CreateWhisper carries the attributes of a new whisper into the repository.
type CreateWhisper struct {
	Text     string
	Mood     string
	UserID   uuid.UUID
	Location *Location
}
