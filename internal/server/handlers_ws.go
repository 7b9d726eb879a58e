package server

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/Simran251393/whisperwalls/internal/broadcast"
	"github.com/labstack/echo/v4"
)

// handleFeedSocket upgrades the connection and streams new whispers until the
// client hangs up. Clients never send anything meaningful; the read pump only
// exists to notice the close.
func (s *Server) handleFeedSocket(c echo.Context) error {
	conn, err := s.upgrader.Upgrade(c.Response(), c.Request(), nil)
	if err != nil {
		return fmt.Errorf("failed to upgrade WebSocket: %w", err)
	}

	if err := s.hub.Register(conn); err != nil {
		if errors.Is(err, broadcast.ErrHubFull) {
			slog.Warn("Rejecting live feed client, hub full")
		} else if errors.Is(err, broadcast.ErrHubStopped) {
			slog.Warn("Rejecting live feed client, hub shutting down")
		} else {
			slog.Error("Failed to register live feed client", "error", err)
		}
		_ = conn.Close()
		return nil
	}

	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			break
		}
	}

	s.hub.Unregister(conn)

	return nil //nolint:nilerr // ReadMessage err is block-scoped; outer err is nil
}
