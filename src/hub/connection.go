package hub

import (
	"encoding/json"
	"sync"
	"time"

	"github.com/CardinalApps/cardinal-web-server/src/types"
	"github.com/rs/zerolog"
)

// Connection wraps one live WebSocket and manages its message flow. Every
// socket that completes registration is represented by exactly one
// Connection, held by the Hub until the socket closes.
type Connection struct {
	id          string
	profile     types.DeviceProfile
	conn        types.Conn
	hub         *Hub
	logger      zerolog.Logger
	connectedAt time.Time

	mu        sync.RWMutex // guards channels and lastState
	channels  map[string]bool
	lastState any

	writeMu   sync.Mutex // serializes socket writes
	closeOnce sync.Once
}

func newConnection(id string, conn types.Conn, p types.DeviceProfile, h *Hub) *Connection {
	return &Connection{
		id:          id,
		profile:     p,
		conn:        conn,
		hub:         h,
		logger:      h.logger.With().Str("connection_id", id).Logger(),
		connectedAt: time.Now(),
		channels:    make(map[string]bool),
	}
}

// ID returns the connection's unique token, stable for its lifetime.
func (c *Connection) ID() string { return c.id }

// Profile returns the DeviceProfile resolved at registration.
func (c *Connection) Profile() types.DeviceProfile { return c.profile }

// Send serializes {channel, message} and writes it to the socket as a single
// frame. Errors are returned to the caller so a broadcast loop can detect a
// bad recipient instead of silently dropping it.
func (c *Connection) Send(channel string, message any) error {
	c.writeMu.Lock()
	defer c.writeMu.Unlock()
	return c.conn.WriteJSON(types.Envelope{Channel: channel, Message: message})
}

// Subscribed reports whether the client registered a listener for channel.
func (c *Connection) Subscribed(channel string) bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.channels[channel]
}

// Channels returns the channels the client has subscribed to.
func (c *Connection) Channels() []string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	out := make([]string, 0, len(c.channels))
	for ch := range c.channels {
		out = append(out, ch)
	}
	return out
}

// LastReportedState returns the most recent payload this connection
// published on the state-report channel, or nil.
func (c *Connection) LastReportedState() any {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.lastState
}

func (c *Connection) addChannel(channel string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.channels[channel] = true
}

func (c *Connection) setLastState(state any) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.lastState = state
}

// ReadPump reads frames from the socket until it closes. Call in a
// goroutine; it owns the connection's teardown.
func (c *Connection) ReadPump() {
	defer c.close()

	for {
		data, err := c.conn.ReadMessage()
		if err != nil {
			return
		}
		c.handleFrame(data)
	}
}

// handleFrame decodes one inbound frame and routes it. A frame that is not a
// well-formed envelope gets an empty envelope back so the far end observes
// something rather than a hang; the connection stays open.
func (c *Connection) handleFrame(data []byte) {
	var env types.Envelope
	if err := json.Unmarshal(data, &env); err != nil {
		c.logger.Debug().Err(err).Msg("client sent invalid envelope")
		if err := c.Send("", nil); err != nil {
			c.logger.Error().Err(err).Msg("empty envelope reply failed")
		}
		return
	}

	// Subscription control frame: the message names a channel to listen on.
	// Re-adding a channel is a no-op.
	if env.Channel == types.ChannelAddChannel {
		name, ok := env.Message.(string)
		if !ok {
			c.logger.Debug().Msg("add-channel message is not a channel name")
			return
		}
		c.addChannel(name)
		c.logger.Debug().
			Str("app", c.profile.AppName).
			Str("channel", name).
			Msg("subscribed to channel")
		return
	}

	c.hub.route(env.Channel, env.Message, c)
}

// close runs the teardown exactly once, no matter how many times the
// transport reports the socket gone.
func (c *Connection) close() {
	c.closeOnce.Do(func() {
		_ = c.conn.Close()
		c.hub.connectionClosed(c)
	})
}
