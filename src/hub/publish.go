package hub

import (
	"github.com/CardinalApps/cardinal-web-server/src/types"
)

// Target selects the candidate recipients of a publish: everyone, all
// connections of one role, or a single connection by ID.
type Target struct {
	role types.Role
	id   string
}

// Everyone targets all registered connections.
func Everyone() Target { return Target{} }

// ToRole targets every connection whose resolved profile has the given role.
func ToRole(role types.Role) Target { return Target{role: role} }

// ToConnection targets exactly one connection by ID. An ID that is no longer
// registered yields zero recipients, which is not an error.
func ToConnection(id string) Target { return Target{id: id} }

// Publish sends message on channel to the connections selected by target,
// skipping any recipient that has not subscribed to the channel.
func (h *Hub) Publish(message any, channel string, target Target) {
	h.deliver(message, channel, target, false)
}

// PublishForced sends message on channel to the connections selected by
// target, ignoring their channel subscriptions. Reserved for hub lifecycle
// announcements and system-level notices.
func (h *Hub) PublishForced(message any, channel string, target Target) {
	h.deliver(message, channel, target, true)
}

// deliver computes the candidate set from target under the registry lock,
// then sends outside it so one slow socket cannot stall the registry. A
// failed send is logged and the loop continues; one bad recipient must not
// abort delivery to the rest of the audience.
func (h *Hub) deliver(message any, channel string, target Target, forced bool) {
	h.mu.RLock()
	var recipients []*Connection
	switch {
	case target.id != "":
		if c, ok := h.conns[target.id]; ok {
			recipients = append(recipients, c)
		}
	case target.role != "":
		for _, c := range h.conns {
			if c.profile.Role == target.role {
				recipients = append(recipients, c)
			}
		}
	default:
		for _, c := range h.conns {
			recipients = append(recipients, c)
		}
	}
	h.mu.RUnlock()

	// Zero eligible recipients happens routinely, e.g. the last client just
	// disconnected. Nothing to do.
	if len(recipients) == 0 {
		return
	}

	for _, c := range recipients {
		if !forced && !c.Subscribed(channel) {
			continue
		}
		if err := c.Send(channel, message); err != nil {
			h.logger.Error().Err(err).
				Str("channel", channel).
				Str("connection_id", c.id).
				Msg("send failed, skipping recipient")
		}
	}
}

// route applies the publish-permission table to one decoded inbound frame.
// This is the security boundary of the hub: a media client must not be able
// to command other clients, and a server UI must not be able to impersonate
// playback state. Anything outside the table is dropped silently; outdated
// clients are expected to hit this.
func (h *Hub) route(channel string, message any, from *Connection) {
	switch from.profile.Role {
	case types.RoleServer:
		if channel == types.ChannelRemoteControl {
			h.relayRemoteControl(message, from)
			return
		}
	case types.RoleMediaClient:
		if channel == types.ChannelStateReport {
			h.relayStateReport(message, from)
			return
		}
	}

	from.logger.Debug().
		Str("channel", channel).
		Str("role", string(from.profile.Role)).
		Msg("publish not permitted, dropped")
}

// relayRemoteControl forwards a server UI command to the client it names.
// The message must carry the target client ID, an instruction, and a
// command; anything less is dropped.
func (h *Hub) relayRemoteControl(message any, from *Connection) {
	m, ok := message.(map[string]any)
	if !ok {
		from.logger.Debug().Msg("remote-control message is not an object")
		return
	}
	clientID, ok := m["client"].(string)
	if !ok || clientID == "" {
		from.logger.Debug().Msg("remote-control message missing client id")
		return
	}
	if _, ok := m["instruction"]; !ok {
		from.logger.Debug().Msg("remote-control message missing instruction")
		return
	}
	if _, ok := m["command"]; !ok {
		from.logger.Debug().Msg("remote-control message missing command")
		return
	}

	from.logger.Debug().Str("target", clientID).Msg("forwarding remote-control command")

	h.deliver(m, types.ChannelRemoteControl, ToConnection(clientID), false)
}

// relayStateReport stamps a media client's state update with its connection
// ID, caches it for read-back, and forwards it to the server UIs. The stamp
// overwrites any client-supplied value; the client does not get to choose
// its identity.
func (h *Hub) relayStateReport(message any, from *Connection) {
	m, ok := message.(map[string]any)
	if !ok {
		m = map[string]any{"value": message}
	}
	m["connectionId"] = from.id

	from.setLastState(m)

	h.deliver(m, types.ChannelStateReport, ToRole(types.RoleServer), false)
}
