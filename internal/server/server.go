// Package server exposes the Whisper Walls HTTP and WebSocket API on echo.
package server

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/Simran251393/whisperwalls/internal/broadcast"
	"github.com/Simran251393/whisperwalls/internal/config"
	"github.com/Simran251393/whisperwalls/internal/domain"
	apperrors "github.com/Simran251393/whisperwalls/internal/errors"
	"github.com/gorilla/sessions"
	"github.com/gorilla/websocket"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	goredis "github.com/redis/go-redis/v9"
)

const sessionMaxAgeDays = 365

// postgresHealthChecker is a minimal interface for PostgreSQL health checks.
type postgresHealthChecker interface {
	Ping(ctx context.Context) error
}

// redisHealthChecker is a minimal interface for Redis health checks.
type redisHealthChecker interface {
	Ping(ctx context.Context) *goredis.StatusCmd
}

type Server struct {
	echo         *echo.Echo
	config       *config.Config
	app          domain.AppService
	hub          *broadcast.Hub
	sessionStore *sessions.CookieStore
	upgrader     websocket.Upgrader
	db           postgresHealthChecker
	redis        redisHealthChecker
	startTime    time.Time
}

func NewServer(cfg *config.Config, app domain.AppService, hub *broadcast.Hub, db postgresHealthChecker, redis redisHealthChecker) *Server {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	e.Use(middleware.RequestID())
	e.Use(middleware.Logger())
	e.Use(middleware.Recover())
	e.Use(apperrors.Middleware())

	sessionStore := sessions.NewCookieStore([]byte(cfg.SessionSecret))
	sessionStore.Options = &sessions.Options{
		Path:     "/",
		MaxAge:   86400 * sessionMaxAgeDays,
		HttpOnly: true,
		Secure:   cfg.AppEnv == "production",
		SameSite: http.SameSiteLaxMode,
	}

	srv := &Server{
		echo:         e,
		config:       cfg,
		app:          app,
		hub:          hub,
		sessionStore: sessionStore,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin: func(r *http.Request) bool {
				return true // public anonymous feed, any origin may subscribe
			},
		},
		db:        db,
		redis:     redis,
		startTime: time.Now(),
	}

	srv.registerRoutes()
	return srv
}

func (s *Server) Start() error {
	return s.echo.Start(fmt.Sprintf(":%s", s.config.Port))
}

func (s *Server) Shutdown(ctx context.Context) error {
	return s.echo.Shutdown(ctx)
}
