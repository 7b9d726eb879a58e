package app

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/Simran251393/whisperwalls/internal/domain"
	"github.com/Simran251393/whisperwalls/internal/moderation"
	"github.com/google/uuid"
	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// --- Mocks ---

type mockWhisperRepo struct {
	mu        sync.Mutex
	whispers  []domain.Whisper
	insertErr error
	listErr   error
	likeErr   error
	listCalls int
}

func (m *mockWhisperRepo) Insert(_ context.Context, params domain.CreateWhisper) (*domain.Whisper, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.insertErr != nil {
		return nil, m.insertErr
	}
	w := domain.Whisper{
		ID:     uuid.New(),
		Text:   params.Text,
		Mood:   params.Mood,
		UserID: params.UserID,
	}
	m.whispers = append(m.whispers, w)
	return &w, nil
}

func (m *mockWhisperRepo) Like(_ context.Context, whisperID uuid.UUID) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.likeErr != nil {
		return 0, m.likeErr
	}
	for i := range m.whispers {
		if m.whispers[i].ID == whisperID {
			m.whispers[i].Likes++
			return m.whispers[i].Likes, nil
		}
	}
	return 0, domain.ErrWhisperNotFound
}

func (m *mockWhisperRepo) List(_ context.Context, _ *domain.Location) ([]domain.Whisper, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.listCalls++
	if m.listErr != nil {
		return nil, m.listErr
	}
	// Hands out the backing slice on purpose: the feed engine promises not
	// to mutate its input.
	return m.whispers, nil
}

func (m *mockWhisperRepo) ListByUser(_ context.Context, userID uuid.UUID) ([]domain.Whisper, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []domain.Whisper
	for _, w := range m.whispers {
		if w.UserID == userID {
			out = append(out, w)
		}
	}
	return out, nil
}

type mockDebouncer struct {
	allowed bool
	err     error
}

func (m *mockDebouncer) CheckDebounce(context.Context, uuid.UUID, uuid.UUID) (bool, error) {
	return m.allowed, m.err
}

type mockBroadcaster struct {
	mu        sync.Mutex
	broadcast []domain.Whisper
}

func (m *mockBroadcaster) BroadcastWhisper(w domain.Whisper) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.broadcast = append(m.broadcast, w)
}

func (m *mockBroadcaster) count() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.broadcast)
}

// --- Helpers ---

type testService struct {
	svc         *Service
	repo        *mockWhisperRepo
	debouncer   *mockDebouncer
	broadcaster *mockBroadcaster
	clock       *clockwork.FakeClock
}

func newTestService(t *testing.T) *testService {
	t.Helper()
	clock := clockwork.NewFakeClock()
	repo := &mockWhisperRepo{}
	debouncer := &mockDebouncer{allowed: true}
	broadcaster := &mockBroadcaster{}
	limiter := NewPostLimiter(60, 10, clock)
	svc := NewService(repo, debouncer, broadcaster, moderation.NewValidator(), limiter, clock)
	t.Cleanup(svc.Stop)
	return &testService{svc: svc, repo: repo, debouncer: debouncer, broadcaster: broadcaster, clock: clock}
}

// --- Tests ---

func TestCreateWhisper_StoresNormalizedMoodAndBroadcasts(t *testing.T) {
	ts := newTestService(t)
	session := uuid.New()

	w, err := ts.svc.CreateWhisper(context.Background(), session, "quiet evening", "calm", nil)

	require.NoError(t, err)
	assert.Equal(t, "calm", w.Mood)
	assert.Equal(t, session, w.UserID)
	assert.Equal(t, 1, ts.broadcaster.count())
}

func TestCreateWhisper_UnknownMoodFoldsToUnknown(t *testing.T) {
	ts := newTestService(t)

	w, err := ts.svc.CreateWhisper(context.Background(), uuid.New(), "hm", "melancholic", nil)

	require.NoError(t, err)
	assert.Equal(t, domain.MoodUnknown, w.Mood)
}

func TestCreateWhisper_RejectsEmptyText(t *testing.T) {
	ts := newTestService(t)

	_, err := ts.svc.CreateWhisper(context.Background(), uuid.New(), "   ", "calm", nil)

	assert.Error(t, err)
	assert.Empty(t, ts.repo.whispers)
	assert.Zero(t, ts.broadcaster.count())
}

func TestCreateWhisper_RateLimited(t *testing.T) {
	ts := newTestService(t)
	session := uuid.New()

	for i := 0; i < 10; i++ {
		_, err := ts.svc.CreateWhisper(context.Background(), session, "spam", "calm", nil)
		require.NoError(t, err)
	}

	_, err := ts.svc.CreateWhisper(context.Background(), session, "spam", "calm", nil)
	assert.ErrorIs(t, err, domain.ErrRateLimited)
}

func TestLikeWhisper_AppliesOnce(t *testing.T) {
	ts := newTestService(t)
	w, err := ts.svc.CreateWhisper(context.Background(), uuid.New(), "like me", "love", nil)
	require.NoError(t, err)

	likes, err := ts.svc.LikeWhisper(context.Background(), uuid.New(), w.ID)

	require.NoError(t, err)
	assert.Equal(t, 1, likes)
}

func TestLikeWhisper_Debounced(t *testing.T) {
	ts := newTestService(t)
	ts.debouncer.allowed = false
	w, err := ts.svc.CreateWhisper(context.Background(), uuid.New(), "like me", "love", nil)
	require.NoError(t, err)

	_, err = ts.svc.LikeWhisper(context.Background(), uuid.New(), w.ID)

	assert.ErrorIs(t, err, domain.ErrLikeDebounced)
}

func TestLikeWhisper_DebouncerFailureDegradesToBestEffort(t *testing.T) {
	ts := newTestService(t)
	ts.debouncer.allowed = false
	ts.debouncer.err = errors.New("redis down")
	w, err := ts.svc.CreateWhisper(context.Background(), uuid.New(), "like me", "love", nil)
	require.NoError(t, err)

	likes, err := ts.svc.LikeWhisper(context.Background(), uuid.New(), w.ID)

	require.NoError(t, err)
	assert.Equal(t, 1, likes)
}

func TestLikeWhisper_NotFound(t *testing.T) {
	ts := newTestService(t)

	_, err := ts.svc.LikeWhisper(context.Background(), uuid.New(), uuid.New())

	assert.ErrorIs(t, err, domain.ErrWhisperNotFound)
}

func TestFeed_OrdersByCategory(t *testing.T) {
	ts := newTestService(t)
	session := uuid.New()
	a, err := ts.svc.CreateWhisper(context.Background(), session, "first", "calm", nil)
	require.NoError(t, err)
	b, err := ts.svc.CreateWhisper(context.Background(), session, "second", "love", nil)
	require.NoError(t, err)

	_, err = ts.svc.LikeWhisper(context.Background(), uuid.New(), b.ID)
	require.NoError(t, err)

	page, err := ts.svc.Feed(context.Background(), domain.FeedQuery{
		Category: domain.CategoryPopular, Page: 1, PageSize: 10,
	})

	require.NoError(t, err)
	require.Len(t, page.Whispers, 2)
	assert.Equal(t, b.ID, page.Whispers[0].ID)
	assert.Equal(t, a.ID, page.Whispers[1].ID)
	assert.False(t, page.Fallback)
}

func TestFeed_FallbackIsObservable(t *testing.T) {
	ts := newTestService(t)
	_, err := ts.svc.CreateWhisper(context.Background(), uuid.New(), "hello", "calm", nil)
	require.NoError(t, err)

	page, err := ts.svc.Feed(context.Background(), domain.FeedQuery{
		Category: domain.Category("bogus"), Page: 1, PageSize: 10,
	})

	require.NoError(t, err)
	assert.True(t, page.Fallback)
	assert.Len(t, page.Whispers, 1)
}

func TestFeed_SnapshotLoadFailure(t *testing.T) {
	ts := newTestService(t)
	ts.repo.listErr = errors.New("connection refused")

	_, err := ts.svc.Feed(context.Background(), domain.FeedQuery{
		Category: domain.CategoryPopular, Page: 1, PageSize: 10,
	})

	assert.Error(t, err)
}

func TestMoodStats_UsesWholeWall(t *testing.T) {
	ts := newTestService(t)
	session := uuid.New()
	for _, mood := range []string{"calm", "calm", "love"} {
		_, err := ts.svc.CreateWhisper(context.Background(), session, "w", mood, nil)
		require.NoError(t, err)
	}

	stats, err := ts.svc.MoodStats(context.Background())

	require.NoError(t, err)
	require.NotEmpty(t, stats)
	assert.Equal(t, "calm", stats[0].Mood.ID)
	assert.Equal(t, 2, stats[0].Count)
}

func TestUserStats_RestrictedToSession(t *testing.T) {
	ts := newTestService(t)
	mine := uuid.New()
	other := uuid.New()
	_, err := ts.svc.CreateWhisper(context.Background(), mine, "mine", "calm", nil)
	require.NoError(t, err)
	_, err = ts.svc.CreateWhisper(context.Background(), other, "theirs", "love", nil)
	require.NoError(t, err)

	stats, err := ts.svc.UserStats(context.Background(), mine)

	require.NoError(t, err)
	require.Len(t, stats.Whispers, 1)
	assert.Equal(t, "mine", stats.Whispers[0].Text)
	assert.Equal(t, map[string]int{"calm": 1}, stats.MoodCounts)
}

func TestService_NeverMutatesSnapshotSource(t *testing.T) {
	ts := newTestService(t)
	session := uuid.New()
	var created []uuid.UUID
	for i := 0; i < 3; i++ {
		w, err := ts.svc.CreateWhisper(context.Background(), session, "w", "calm", nil)
		require.NoError(t, err)
		created = append(created, w.ID)
	}

	_, err := ts.svc.Feed(context.Background(), domain.FeedQuery{
		Category: domain.CategoryRecent, Page: 1, PageSize: 10,
	})
	require.NoError(t, err)

	// The repository's backing order is untouched by feed sorting.
	for i, w := range ts.repo.whispers {
		assert.Equal(t, created[i], w.ID)
	}
}
