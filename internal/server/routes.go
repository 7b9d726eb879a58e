package server

import (
	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

func (s *Server) registerRoutes() {
	// Observability endpoints (no session required)
	s.echo.GET("/health/live", s.handleLiveness)
	s.echo.GET("/health/ready", s.handleReadiness)
	s.echo.GET("/metrics", echo.WrapHandler(promhttp.Handler()))
	s.echo.GET("/version", s.handleVersion)

	// Wall API (anonymous session cookie assigned on first contact)
	api := s.echo.Group("/api", s.withAnonSession)
	api.GET("/whispers", s.handleListWhispers)
	api.POST("/whispers", s.handleCreateWhisper)
	api.POST("/whispers/:id/like", s.handleLikeWhisper)
	api.GET("/moods/stats", s.handleMoodStats)
	api.GET("/me/stats", s.handleUserStats)

	// Live feed stream
	s.echo.GET("/ws/feed", s.handleFeedSocket)
}
