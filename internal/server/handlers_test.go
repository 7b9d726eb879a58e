package server

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/Simran251393/whisperwalls/internal/config"
	"github.com/Simran251393/whisperwalls/internal/domain"
	apperrors "github.com/Simran251393/whisperwalls/internal/errors"
	"github.com/google/uuid"
	"github.com/gorilla/sessions"
	"github.com/labstack/echo/v4"
	goredis "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"
)

// --- Mock implementations ---

type mockAppService struct {
	createWhisperFn func(ctx context.Context, sessionID uuid.UUID, text, mood string, loc *domain.Location) (*domain.Whisper, error)
	likeWhisperFn   func(ctx context.Context, sessionID, whisperID uuid.UUID) (int, error)
	feedFn          func(ctx context.Context, q domain.FeedQuery) (*domain.FeedPage, error)
	moodStatsFn     func(ctx context.Context) ([]domain.MoodStat, error)
	userStatsFn     func(ctx context.Context, sessionID uuid.UUID) (*domain.UserStats, error)
}

func (m *mockAppService) CreateWhisper(ctx context.Context, sessionID uuid.UUID, text, mood string, loc *domain.Location) (*domain.Whisper, error) {
	if m.createWhisperFn != nil {
		return m.createWhisperFn(ctx, sessionID, text, mood, loc)
	}
	return nil, fmt.Errorf("not implemented")
}

func (m *mockAppService) LikeWhisper(ctx context.Context, sessionID, whisperID uuid.UUID) (int, error) {
	if m.likeWhisperFn != nil {
		return m.likeWhisperFn(ctx, sessionID, whisperID)
	}
	return 0, fmt.Errorf("not implemented")
}

func (m *mockAppService) Feed(ctx context.Context, q domain.FeedQuery) (*domain.FeedPage, error) {
	if m.feedFn != nil {
		return m.feedFn(ctx, q)
	}
	return &domain.FeedPage{Whispers: []domain.Whisper{}}, nil
}

func (m *mockAppService) MoodStats(ctx context.Context) ([]domain.MoodStat, error) {
	if m.moodStatsFn != nil {
		return m.moodStatsFn(ctx)
	}
	return nil, nil
}

func (m *mockAppService) UserStats(ctx context.Context, sessionID uuid.UUID) (*domain.UserStats, error) {
	if m.userStatsFn != nil {
		return m.userStatsFn(ctx, sessionID)
	}
	return &domain.UserStats{Whispers: []domain.Whisper{}, MoodCounts: map[string]int{}}, nil
}

// mockRedisClient provides a minimal mock for Redis health checks.
type mockRedisClient struct {
	pingErr error
}

func (m *mockRedisClient) Ping(ctx context.Context) *goredis.StatusCmd {
	cmd := goredis.NewStatusCmd(ctx)
	if m.pingErr != nil {
		cmd.SetErr(m.pingErr)
	} else {
		cmd.SetVal("PONG")
	}
	return cmd
}

// mockPgxPool provides a minimal mock for PostgreSQL health checks.
type mockPgxPool struct {
	pingErr error
}

func (m *mockPgxPool) Ping(ctx context.Context) error {
	return m.pingErr
}

// --- Test helpers ---

func newTestServer(t *testing.T, app domain.AppService, opts ...func(*Server)) *Server {
	t.Helper()

	store := sessions.NewCookieStore([]byte("test-secret-key-32-bytes-long!!!"))
	store.Options = &sessions.Options{
		Path:   "/",
		MaxAge: 3600,
	}

	e := echo.New()
	// Install error middleware for tests to match production behavior
	e.Use(apperrors.Middleware())

	srv := &Server{
		echo:         e,
		config:       &config.Config{AppEnv: "test", Port: "8080"},
		app:          app,
		sessionStore: store,
		db:           &mockPgxPool{},
		redis:        &mockRedisClient{},
	}

	for _, opt := range opts {
		opt(srv)
	}

	srv.registerRoutes()

	return srv
}

func withPostgresHealthCheck(pg postgresHealthChecker) func(*Server) {
	return func(s *Server) {
		s.db = pg
	}
}

func withRedisHealthCheck(redis redisHealthChecker) func(*Server) {
	return func(s *Server) {
		s.redis = redis
	}
}

// callHandler wraps a handler with error middleware, matching production behavior
func callHandler(handler echo.HandlerFunc, c echo.Context) error {
	return apperrors.Middleware()(handler)(c)
}

func setSessionCookie(t *testing.T, srv *Server, req *http.Request, sessionID uuid.UUID) {
	t.Helper()
	rec := httptest.NewRecorder()
	session, err := srv.sessionStore.Get(req, sessionCookieName)
	require.NoError(t, err)
	session.Values[sessionIDKey] = sessionID.String()
	require.NoError(t, session.Save(req, rec))
	req.Header.Set("Cookie", rec.Header().Get("Set-Cookie"))
}
