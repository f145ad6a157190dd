// Package livereload tells open browsers to refresh when the on-disk assets
// change. It is only wired in dev mode.
package livereload

import (
	"context"
	"net/http"
	"sync"
	"time"

	"github.com/rs/zerolog"
	"nhooyr.io/websocket"
)

// ReloadMessage is sent to every client after a successful reload
const ReloadMessage = "reload"

const writeWait = 5 * time.Second

// Hub tracks connected browsers
type Hub struct {
	mu      sync.Mutex
	clients map[*websocket.Conn]struct{}
	log     zerolog.Logger
}

// NewHub creates an empty hub
func NewHub(log zerolog.Logger) *Hub {
	return &Hub{
		clients: make(map[*websocket.Conn]struct{}),
		log:     log.With().Str("component", "livereload_hub").Logger(),
	}
}

// ServeHTTP upgrades the request and holds the connection until the browser
// goes away. Clients never send anything.
func (h *Hub) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	conn, err := websocket.Accept(w, r, nil)
	if err != nil {
		h.log.Warn().Err(err).Msg("WebSocket upgrade failed")
		return
	}

	h.mu.Lock()
	h.clients[conn] = struct{}{}
	h.mu.Unlock()
	h.log.Debug().Msg("Live reload client connected")

	ctx := conn.CloseRead(r.Context())
	<-ctx.Done()

	h.remove(conn)
	conn.Close(websocket.StatusNormalClosure, "")
	h.log.Debug().Msg("Live reload client disconnected")
}

func (h *Hub) remove(conn *websocket.Conn) {
	h.mu.Lock()
	delete(h.clients, conn)
	h.mu.Unlock()
}

func (h *Hub) snapshot() []*websocket.Conn {
	h.mu.Lock()
	defer h.mu.Unlock()
	conns := make([]*websocket.Conn, 0, len(h.clients))
	for c := range h.clients {
		conns = append(conns, c)
	}
	return conns
}

// Broadcast sends msg to every client and returns how many received it.
// Clients that fail the write are dropped.
func (h *Hub) Broadcast(ctx context.Context, msg string) int {
	delivered := 0
	for _, conn := range h.snapshot() {
		writeCtx, cancel := context.WithTimeout(ctx, writeWait)
		err := conn.Write(writeCtx, websocket.MessageText, []byte(msg))
		cancel()
		if err != nil {
			h.log.Debug().Err(err).Msg("Dropping live reload client")
			h.remove(conn)
			conn.Close(websocket.StatusGoingAway, "write failed")
			continue
		}
		delivered++
	}
	return delivered
}

// Clients returns the number of connected browsers
func (h *Hub) Clients() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.clients)
}

// Close disconnects every client
func (h *Hub) Close() {
	for _, conn := range h.snapshot() {
		h.remove(conn)
		conn.Close(websocket.StatusGoingAway, "server shutting down")
	}
}
