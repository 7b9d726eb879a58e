package server

import (
	"log/slog"

	apperrors "github.com/Simran251393/whisperwalls/internal/errors"
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

const (
	sessionCookieName = "ww_session"
	sessionIDKey      = "sid"
)

// withAnonSession assigns every caller a stable anonymous session ID via a
// signed cookie. The ID is the only identity Whisper Walls knows about; it
// scopes rate limits, like debouncing and profile stats.
func (s *Server) withAnonSession(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		sess, err := s.sessionStore.Get(c.Request(), sessionCookieName)
		if err != nil {
			// Tampered or stale cookie; fall through with a fresh session.
			slog.Debug("Discarding unreadable session cookie", "error", err)
		}

		sessionID, ok := parseSessionID(sess.Values[sessionIDKey])
		if !ok {
			sessionID = uuid.New()
			sess.Values[sessionIDKey] = sessionID.String()
			if err := sess.Save(c.Request(), c.Response()); err != nil {
				return apperrors.InternalError("failed to persist session", err)
			}
		}

		c.Set("sessionID", sessionID)
		return next(c)
	}
}

func parseSessionID(raw any) (uuid.UUID, bool) {
	str, ok := raw.(string)
	if !ok {
		return uuid.Nil, false
	}
	id, err := uuid.Parse(str)
	if err != nil || id == uuid.Nil {
		return uuid.Nil, false
	}
	return id, true
}

// sessionID pulls the anonymous session ID the middleware stored on the context.
func sessionID(c echo.Context) (uuid.UUID, error) {
	id, ok := c.Get("sessionID").(uuid.UUID)
	if !ok {
		return uuid.Nil, apperrors.InternalError("invalid session ID in context", nil)
	}
	return id, nil
}
