package server

import (
	"errors"
	"fmt"
	"strconv"

	"github.com/Simran251393/whisperwalls/internal/domain"
	apperrors "github.com/Simran251393/whisperwalls/internal/errors"
	"github.com/Simran251393/whisperwalls/internal/feed"
	"github.com/Simran251393/whisperwalls/internal/moderation"
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

func (s *Server) handleListWhispers(c echo.Context) error {
	q := domain.FeedQuery{
		Search:   c.QueryParam("search"),
		Category: domain.ParseCategory(c.QueryParam("category")),
		Page:     intParam(c, "page", 1),
		PageSize: intParam(c, "page_size", feed.DefaultPageSize),
	}

	viewer, err := viewerLocation(c)
	if err != nil {
		return err
	}
	q.Viewer = viewer

	page, err := s.app.Feed(c.Request().Context(), q)
	if err != nil {
		return apperrors.InternalError("failed to query feed", err).
			WithField("category", string(q.Category))
	}

	if err := c.JSON(200, page); err != nil {
		return fmt.Errorf("failed to send JSON response: %w", err)
	}
	return nil
}

type createWhisperRequest struct {
	Text string   `json:"text"`
	Mood string   `json:"mood"`
	Lat  *float64 `json:"lat"`
	Lng  *float64 `json:"lng"`
}

func (s *Server) handleCreateWhisper(c echo.Context) error {
	sid, err := sessionID(c)
	if err != nil {
		return err
	}

	var req createWhisperRequest
	if err := c.Bind(&req); err != nil {
		return apperrors.ValidationError("invalid request body")
	}

	var loc *domain.Location
	if req.Lat != nil && req.Lng != nil {
		loc = &domain.Location{Lat: *req.Lat, Lng: *req.Lng}
	}

	w, err := s.app.CreateWhisper(c.Request().Context(), sid, req.Text, req.Mood, loc)
	if errors.Is(err, domain.ErrRateLimited) {
		return apperrors.RateLimitedError("posting too fast, try again shortly")
	}
	if err != nil {
		// Moderation failures are validation errors; everything else is internal.
		var structured *apperrors.Error
		if errors.As(err, &structured) {
			return err
		}
		if errors.Is(err, moderation.ErrRejected) {
			return apperrors.ValidationError(err.Error())
		}
		return apperrors.InternalError("failed to create whisper", err)
	}

	if err := c.JSON(201, w); err != nil {
		return fmt.Errorf("failed to send JSON response: %w", err)
	}
	return nil
}

func (s *Server) handleLikeWhisper(c echo.Context) error {
	sid, err := sessionID(c)
	if err != nil {
		return err
	}

	whisperID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return apperrors.ValidationError("invalid whisper ID").WithField("id", c.Param("id"))
	}

	likes, err := s.app.LikeWhisper(c.Request().Context(), sid, whisperID)
	if errors.Is(err, domain.ErrLikeDebounced) {
		return apperrors.ConflictError("already liked").WithField("whisper_id", whisperID.String())
	}
	if errors.Is(err, domain.ErrWhisperNotFound) {
		return apperrors.NotFoundError("whisper not found").WithField("whisper_id", whisperID.String())
	}
	if err != nil {
		return apperrors.InternalError("failed to like whisper", err).
			WithField("whisper_id", whisperID.String())
	}

	if err := c.JSON(200, map[string]any{"status": "ok", "likes": likes}); err != nil {
		return fmt.Errorf("failed to send JSON response: %w", err)
	}
	return nil
}

func (s *Server) handleMoodStats(c echo.Context) error {
	stats, err := s.app.MoodStats(c.Request().Context())
	if err != nil {
		return apperrors.InternalError("failed to aggregate moods", err)
	}

	if err := c.JSON(200, map[string]any{"moods": stats}); err != nil {
		return fmt.Errorf("failed to send JSON response: %w", err)
	}
	return nil
}

func (s *Server) handleUserStats(c echo.Context) error {
	sid, err := sessionID(c)
	if err != nil {
		return err
	}

	stats, err := s.app.UserStats(c.Request().Context(), sid)
	if err != nil {
		return apperrors.InternalError("failed to aggregate user stats", err)
	}

	if err := c.JSON(200, stats); err != nil {
		return fmt.Errorf("failed to send JSON response: %w", err)
	}
	return nil
}

// --- Param helpers ---

func intParam(c echo.Context, name string, fallback int) int {
	raw := c.QueryParam(name)
	if raw == "" {
		return fallback
	}
	value, err := strconv.Atoi(raw)
	if err != nil {
		return fallback
	}
	return value
}

// viewerLocation parses optional lat/lng query params, requiring both or neither.
func viewerLocation(c echo.Context) (*domain.Location, error) {
	rawLat, rawLng := c.QueryParam("lat"), c.QueryParam("lng")
	if rawLat == "" && rawLng == "" {
		return nil, nil
	}
	if rawLat == "" || rawLng == "" {
		return nil, apperrors.ValidationError("lat and lng must be provided together")
	}

	lat, err := strconv.ParseFloat(rawLat, 64)
	if err != nil {
		return nil, apperrors.ValidationError("invalid lat").WithField("lat", rawLat)
	}
	lng, err := strconv.ParseFloat(rawLng, 64)
	if err != nil {
		return nil, apperrors.ValidationError("invalid lng").WithField("lng", rawLng)
	}
	return &domain.Location{Lat: lat, Lng: lng}, nil
}
