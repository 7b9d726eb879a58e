package app

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/Simran251393/whisperwalls/internal/domain"
	"github.com/Simran251393/whisperwalls/internal/feed"
	"github.com/Simran251393/whisperwalls/internal/metrics"
	"github.com/Simran251393/whisperwalls/internal/moderation"
	"github.com/google/uuid"
	"github.com/jonboulle/clockwork"
	"golang.org/x/sync/singleflight"
)

// Service orchestrates the whisper use cases: create, like, feed queries and
// the aggregations behind analytics and profile views.
type Service struct {
	whispers      domain.WhisperRepository
	debouncer     domain.LikeDebouncer
	broadcaster   domain.WhisperBroadcaster
	validator     *moderation.Validator
	postLimiter   *PostLimiter
	clock         clockwork.Clock
	snapshotGroup singleflight.Group
}

// NewService creates the application layer service.
// broadcaster may be nil when the live feed is disabled.
func NewService(
	whispers domain.WhisperRepository,
	debouncer domain.LikeDebouncer,
	broadcaster domain.WhisperBroadcaster,
	validator *moderation.Validator,
	postLimiter *PostLimiter,
	clock clockwork.Clock,
) *Service {
	return &Service{
		whispers:    whispers,
		debouncer:   debouncer,
		broadcaster: broadcaster,
		validator:   validator,
		postLimiter: postLimiter,
		clock:       clock,
	}
}

// CreateWhisper validates, rate limits and stores a new whisper, then pushes
// it to live feed clients.
func (s *Service) CreateWhisper(ctx context.Context, sessionID uuid.UUID, text, mood string, loc *domain.Location) (*domain.Whisper, error) {
	if err := s.validator.ValidateWhisperText(text); err != nil {
		metrics.WhispersRejectedTotal.WithLabelValues("moderation").Inc()
		return nil, err
	}

	if !s.postLimiter.Allow(sessionID) {
		metrics.WhispersRejectedTotal.WithLabelValues("rate_limit").Inc()
		return nil, domain.ErrRateLimited
	}

	w, err := s.whispers.Insert(ctx, domain.CreateWhisper{
		Text:     text,
		Mood:     domain.NormalizeMood(mood),
		UserID:   sessionID,
		Location: loc,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create whisper: %w", err)
	}

	metrics.WhispersCreatedTotal.WithLabelValues(w.Mood).Inc()
	if s.broadcaster != nil {
		s.broadcaster.BroadcastWhisper(*w)
	}
	return w, nil
}

// LikeWhisper increments a whisper's like count, at most once per session per
// debounce interval. A failing debouncer degrades to best-effort: the like
// proceeds rather than failing the request.
func (s *Service) LikeWhisper(ctx context.Context, sessionID, whisperID uuid.UUID) (int, error) {
	allowed, err := s.debouncer.CheckDebounce(ctx, whisperID, sessionID)
	if err != nil {
		slog.Warn("Like debounce check failed, proceeding without it",
			"whisper_id", whisperID.String(), "error", err)
		allowed = true
	}
	if !allowed {
		metrics.LikesTotal.WithLabelValues("debounced").Inc()
		return 0, domain.ErrLikeDebounced
	}

	likes, err := s.whispers.Like(ctx, whisperID)
	if err != nil {
		return 0, err
	}
	metrics.LikesTotal.WithLabelValues("applied").Inc()
	return likes, nil
}

// Feed loads a whisper snapshot and runs the query engine over it.
// Concurrent queries for the same viewer position collapse to one snapshot
// load via singleflight.
func (s *Service) Feed(ctx context.Context, q domain.FeedQuery) (*domain.FeedPage, error) {
	snapshot, err := s.loadSnapshot(ctx, q.Viewer)
	if err != nil {
		return nil, fmt.Errorf("failed to load whisper snapshot: %w", err)
	}

	page := feed.Query(s.clock.Now(), snapshot, q)

	metrics.FeedQueriesTotal.WithLabelValues(string(q.Category)).Inc()
	if page.Fallback {
		metrics.FeedFallbackTotal.Inc()
		slog.Warn("Feed query degraded to fallback ordering", "category", string(q.Category))
	}
	return &page, nil
}

// MoodStats aggregates mood counts and percentages over the whole wall.
func (s *Service) MoodStats(ctx context.Context) ([]domain.MoodStat, error) {
	snapshot, err := s.loadSnapshot(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to load whisper snapshot: %w", err)
	}
	return feed.MoodStats(snapshot), nil
}

// UserStats aggregates one anonymous session's whispers.
func (s *Service) UserStats(ctx context.Context, sessionID uuid.UUID) (*domain.UserStats, error) {
	whispers, err := s.whispers.ListByUser(ctx, sessionID)
	if err != nil {
		return nil, fmt.Errorf("failed to load user whispers: %w", err)
	}
	stats := feed.UserStats(whispers, sessionID)
	return &stats, nil
}

// Stop releases background resources.
func (s *Service) Stop() {
	s.postLimiter.Stop()
}

func (s *Service) loadSnapshot(ctx context.Context, viewer *domain.Location) ([]domain.Whisper, error) {
	result, err, _ := s.snapshotGroup.Do(snapshotKey(viewer), func() (any, error) {
		return s.whispers.List(ctx, viewer)
	})
	if err != nil {
		return nil, err
	}

	snapshot := result.([]domain.Whisper)
	metrics.FeedSnapshotSize.Observe(float64(len(snapshot)))
	return snapshot, nil
}

// snapshotKey buckets viewer positions to ~11m so adjacent queries share a
// singleflight slot without sharing meaningfully different distances.
func snapshotKey(viewer *domain.Location) string {
	if viewer == nil {
		return "global"
	}
	return fmt.Sprintf("%.4f:%.4f", viewer.Lat, viewer.Lng)
}
