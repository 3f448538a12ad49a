package types

import "time"

// Reserved channel names. The wire format keeps channels as plain strings;
// these constants exist so a typo cannot silently break routing.
const (
	// ChannelAddChannel is the control channel a client uses to subscribe
	// itself to another channel.
	ChannelAddChannel = "add-channel"

	// ChannelConnectionID carries the one message every connection receives
	// regardless of subscriptions: its own connection ID, sent at open.
	ChannelConnectionID = "connection-id"

	// ChannelNewConnection and ChannelConnectionClosed are the hub's
	// lifecycle announcements, always delivered forced.
	ChannelNewConnection    = "new-connection"
	ChannelConnectionClosed = "connection-closed"

	// ChannelStateReport is the only channel a media client may publish on.
	ChannelStateReport = "client-to-server-state-update"

	// ChannelRemoteControl is the only channel the server UI may publish on.
	ChannelRemoteControl = "server-to-client-instruction"

	// ChannelFavoriteAdded and ChannelFavoriteRemoved announce favorites
	// changes to media clients.
	ChannelFavoriteAdded   = "announcements:favorite-added"
	ChannelFavoriteRemoved = "announcements:favorite-removed"
)

// Known application identifiers, matched against the User-Agent string a
// client declares during the WebSocket handshake.
const (
	AppNameServer = "cardinalserver"
	AppNameMusic  = "cardinalmusic"
	AppNamePhotos = "cardinalphotos"
	AppNameCinema = "cardinalcinema"
	AppNameBooks  = "cardinalbooks"
)

// Role is the coarse permission class of a connection. All content-playing
// apps (music, photos, cinema, books) share the mediaClient role.
type Role string

const (
	RoleServer      Role = "server"
	RoleMediaClient Role = "mediaClient"
	RoleUnknown     Role = "unknown"
)

// Envelope is the wire unit exchanged on every WebSocket frame, in both
// directions. It is serialized and sent atomically per connection.
type Envelope struct {
	Channel string `json:"channel"`
	Message any    `json:"message"`
}

// DeviceProfile describes the application on the far end of a connection.
// Resolved once at registration and immutable afterward.
type DeviceProfile struct {
	Role       Role       `json:"role"`
	AppName    string     `json:"appName"`
	AppVersion string     `json:"appVersion"`
	Client     ClientInfo `json:"client"`
}

// ClientInfo is coarse, non-authoritative metadata about the remote peer.
// Advisory only; never used for permission decisions.
type ClientInfo struct {
	IP             string `json:"ip,omitempty"`
	Port           string `json:"port,omitempty"`
	UserAgent      string `json:"userAgent,omitempty"`
	Browser        string `json:"browser,omitempty"`
	BrowserVersion string `json:"browserVersion,omitempty"`
	OS             string `json:"os,omitempty"`
	OSVersion      string `json:"osVersion,omitempty"`
	Device         string `json:"device,omitempty"`
	Mobile         bool   `json:"mobile"`
}

// ConnMeta carries the handshake metadata the transport hands to the hub
// with each new socket.
type ConnMeta struct {
	RemoteAddr string
	UserAgent  string
	Path       string
}

// DeviceState is the read-back view of a connection exposed to the rest of
// the server process (e.g. the connected-devices endpoint).
type DeviceState struct {
	ConnectionID string        `json:"connectionId"`
	Profile      DeviceProfile `json:"profile"`
	ConnectedAt  time.Time     `json:"connectedAt"`
	State        any           `json:"state"`
}

// Conn abstracts a WebSocket connection for testability.
type Conn interface {
	ReadMessage() ([]byte, error)
	WriteJSON(v any) error
	Close() error
}
