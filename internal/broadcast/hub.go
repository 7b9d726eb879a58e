// Package broadcast pushes newly created whispers to live feed WebSocket
// clients. A single actor goroutine owns all connection state; handlers talk
// to it through commands, never through shared memory.
package broadcast

import (
	"encoding/json"
	"log/slog"
	"time"

	"github.com/Simran251393/whisperwalls/internal/domain"
	"github.com/Simran251393/whisperwalls/internal/metrics"
	"github.com/gorilla/websocket"
)

const (
	maxClients   = 500
	writeTimeout = 5 * time.Second
	sendBuffer   = 16
)

// --- Command types ---

type hubCmd interface{ hubCmd() }

type cmdRegister struct {
	conn  *websocket.Conn
	errCh chan error
}

func (cmdRegister) hubCmd() {}

type cmdUnregister struct {
	conn *websocket.Conn
}

func (cmdUnregister) hubCmd() {}

type cmdBroadcast struct {
	data []byte
}

func (cmdBroadcast) hubCmd() {}

type cmdClientCount struct {
	replyCh chan int
}

func (cmdClientCount) hubCmd() {}

type cmdStop struct {
	doneCh chan struct{}
}

func (cmdStop) hubCmd() {}

// --- Per-connection writer ---

// clientWriter decouples the hub loop from slow clients: each connection gets
// a buffered send channel, and a full buffer drops the client rather than
// blocking the wall.
type clientWriter struct {
	conn   *websocket.Conn
	sendCh chan []byte
	done   chan struct{}
}

func newClientWriter(conn *websocket.Conn) *clientWriter {
	cw := &clientWriter{
		conn:   conn,
		sendCh: make(chan []byte, sendBuffer),
		done:   make(chan struct{}),
	}
	go cw.run()
	return cw
}

func (cw *clientWriter) run() {
	for {
		select {
		case msg, ok := <-cw.sendCh:
			if !ok {
				return
			}
			_ = cw.conn.SetWriteDeadline(time.Now().Add(writeTimeout))
			if err := cw.conn.WriteMessage(websocket.TextMessage, msg); err != nil {
				return
			}
		case <-cw.done:
			return
		}
	}
}

func (cw *clientWriter) stop() {
	close(cw.done)
	_ = cw.conn.Close()
}

// --- Hub ---

// Hub fans new whispers out to every connected live feed client.
type Hub struct {
	cmdCh   chan hubCmd
	stopped chan struct{}
	clients map[*websocket.Conn]*clientWriter
}

func NewHub() *Hub {
	hub := &Hub{
		cmdCh:   make(chan hubCmd, 256),
		stopped: make(chan struct{}),
		clients: make(map[*websocket.Conn]*clientWriter),
	}
	go hub.run()
	return hub
}

// wireWhisper is the live feed frame sent to clients.
type wireWhisper struct {
	Type    string         `json:"type"`
	Whisper domain.Whisper `json:"whisper"`
}

// BroadcastWhisper implements domain.WhisperBroadcaster.
func (h *Hub) BroadcastWhisper(w domain.Whisper) {
	data, err := json.Marshal(wireWhisper{Type: "whisper", Whisper: w})
	if err != nil {
		slog.Error("Failed to marshal whisper for broadcast", "error", err)
		return
	}
	select {
	case h.cmdCh <- cmdBroadcast{data: data}:
	case <-h.stopped:
	}
}

// Register attaches a connection to the live feed. After Stop it returns
// ErrHubStopped instead of blocking on the departed actor.
func (h *Hub) Register(conn *websocket.Conn) error {
	errCh := make(chan error, 1)
	select {
	case h.cmdCh <- cmdRegister{conn: conn, errCh: errCh}:
	case <-h.stopped:
		return ErrHubStopped
	}
	select {
	case err := <-errCh:
		return err
	case <-h.stopped:
		return ErrHubStopped
	}
}

// Unregister detaches a connection and closes it.
func (h *Hub) Unregister(conn *websocket.Conn) {
	select {
	case h.cmdCh <- cmdUnregister{conn: conn}:
	case <-h.stopped:
	}
}

// ClientCount reports the number of connected clients, 0 once stopped.
func (h *Hub) ClientCount() int {
	replyCh := make(chan int, 1)
	select {
	case h.cmdCh <- cmdClientCount{replyCh: replyCh}:
	case <-h.stopped:
		return 0
	}
	select {
	case n := <-replyCh:
		return n
	case <-h.stopped:
		return 0
	}
}

// Stop closes every connection and terminates the actor. Safe to call
// more than once.
func (h *Hub) Stop() {
	doneCh := make(chan struct{})
	select {
	case h.cmdCh <- cmdStop{doneCh: doneCh}:
	case <-h.stopped:
		return
	}
	select {
	case <-doneCh:
	case <-h.stopped:
	}
}

func (h *Hub) run() {
	for cmd := range h.cmdCh {
		switch c := cmd.(type) {
		case cmdRegister:
			if len(h.clients) >= maxClients {
				c.errCh <- ErrHubFull
				break
			}
			h.clients[c.conn] = newClientWriter(c.conn)
			metrics.FeedConnectedClients.Set(float64(len(h.clients)))
			c.errCh <- nil

		case cmdUnregister:
			if cw, ok := h.clients[c.conn]; ok {
				cw.stop()
				delete(h.clients, c.conn)
				metrics.FeedConnectedClients.Set(float64(len(h.clients)))
			}

		case cmdBroadcast:
			for conn, cw := range h.clients {
				select {
				case cw.sendCh <- c.data:
				default:
					// Slow client, drop it.
					cw.stop()
					delete(h.clients, conn)
				}
			}
			metrics.FeedConnectedClients.Set(float64(len(h.clients)))

		case cmdClientCount:
			c.replyCh <- len(h.clients)

		case cmdStop:
			for conn, cw := range h.clients {
				cw.stop()
				delete(h.clients, conn)
			}
			metrics.FeedConnectedClients.Set(0)
			// Unblocks every caller parked on a command the actor will
			// never drain.
			close(h.stopped)
			close(c.doneCh)
			return
		}
	}
}
