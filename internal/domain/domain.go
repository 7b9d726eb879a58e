package domain

import (
	"context"

	"github.com/google/uuid"
)

// --- Interfaces ---

// WhisperRepository abstracts whisper persistence.
type WhisperRepository interface {
	Insert(ctx context.Context, params CreateWhisper) (*Whisper, error)
	Like(ctx context.Context, whisperID uuid.UUID) (int, error)
	List(ctx context.Context, viewer *Location) ([]Whisper, error)
	ListByUser(ctx context.Context, userID uuid.UUID) ([]Whisper, error)
}

// LikeDebouncer suppresses repeat likes from the same anonymous session,
// backed by Redis.
type LikeDebouncer interface {
	CheckDebounce(ctx context.Context, whisperID, sessionID uuid.UUID) (bool, error)
}

// WhisperBroadcaster pushes freshly created whispers to live feed clients.
type WhisperBroadcaster interface {
	BroadcastWhisper(w Whisper)
}

// AppService is the application layer contract. Handlers route every
// operation through here.
type AppService interface {
	CreateWhisper(ctx context.Context, sessionID uuid.UUID, text, mood string, loc *Location) (*Whisper, error)
	LikeWhisper(ctx context.Context, sessionID, whisperID uuid.UUID) (int, error)
	Feed(ctx context.Context, q FeedQuery) (*FeedPage, error)
	MoodStats(ctx context.Context) ([]MoodStat, error)
	UserStats(ctx context.Context, sessionID uuid.UUID) (*UserStats, error)
}
