// Package hub is the real-time core of the web server: a registry of live
// WebSocket connections and the channel-based publish/subscribe router
// between them. Every other subsystem talks to the hub; nothing else touches
// the sockets.
package hub

import (
	"sync"

	"github.com/CardinalApps/cardinal-web-server/src/profile"
	"github.com/CardinalApps/cardinal-web-server/src/types"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// Hub owns the live set of Connections and mediates all publish/subscribe
// traffic, applying role-based publish permissions and the addressing
// strategies of Publish.
type Hub struct {
	mu    sync.RWMutex
	conns map[string]*Connection

	// lifecycleMu serializes the registration sequence (add, id unicast,
	// new-connection broadcast) and the close sequence, so two connections
	// arriving at once cannot interleave their announcements.
	lifecycleMu sync.Mutex

	logger zerolog.Logger
}

// New creates an empty Hub.
func New(logger zerolog.Logger) *Hub {
	return &Hub{
		conns:  make(map[string]*Connection),
		logger: logger.With().Str("component", "hub").Logger(),
	}
}

// OnNewSocket wraps a freshly upgraded socket in a Connection, resolves its
// DeviceProfile, registers it, sends it its connection ID, and announces the
// newcomer to every already-connected peer. The caller runs ReadPump.
func (h *Hub) OnNewSocket(conn types.Conn, meta types.ConnMeta) *Connection {
	c := newConnection(uuid.New().String(), conn, profile.Resolve(meta), h)

	h.lifecycleMu.Lock()
	defer h.lifecycleMu.Unlock()

	h.mu.Lock()
	h.conns[c.id] = c
	h.mu.Unlock()

	h.logger.Info().
		Str("connection_id", c.id).
		Str("app", c.profile.AppName).
		Str("role", string(c.profile.Role)).
		Str("user_agent", meta.UserAgent).
		Msg("connection registered")

	// The one message every connection is guaranteed, regardless of
	// subscriptions: its own ID.
	if err := c.Send(types.ChannelConnectionID, c.id); err != nil {
		h.logger.Error().Err(err).
			Str("connection_id", c.id).
			Msg("connection-id send failed")
	}

	h.deliver(c.id, types.ChannelNewConnection, Everyone(), true)

	return c
}

// connectionClosed removes a connection from the registry and announces the
// departure. The lookup is by ID, not by reference. Reached exactly once per
// connection via the Connection's one-shot close.
func (h *Hub) connectionClosed(c *Connection) {
	h.lifecycleMu.Lock()
	defer h.lifecycleMu.Unlock()

	h.mu.Lock()
	if _, ok := h.conns[c.id]; !ok {
		h.mu.Unlock()
		return
	}
	delete(h.conns, c.id)
	h.mu.Unlock()

	h.logger.Info().Str("connection_id", c.id).Msg("connection closed")

	h.deliver(c.id, types.ChannelConnectionClosed, Everyone(), true)
}
