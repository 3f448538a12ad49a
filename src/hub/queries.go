package hub

import (
	"sort"

	"github.com/CardinalApps/cardinal-web-server/src/types"
)

// Devices returns the profile and last reported state of every registered
// connection, oldest first. Backs the connected-devices endpoint.
func (h *Hub) Devices() []types.DeviceState {
	h.mu.RLock()
	conns := make([]*Connection, 0, len(h.conns))
	for _, c := range h.conns {
		conns = append(conns, c)
	}
	h.mu.RUnlock()

	sort.Slice(conns, func(i, j int) bool {
		return conns[i].connectedAt.Before(conns[j].connectedAt)
	})

	out := make([]types.DeviceState, 0, len(conns))
	for _, c := range conns {
		out = append(out, deviceState(c))
	}
	return out
}

// Device returns the profile and last reported state of one connection, or
// false if no connection with that ID is registered.
func (h *Hub) Device(id string) (types.DeviceState, bool) {
	h.mu.RLock()
	c, ok := h.conns[id]
	h.mu.RUnlock()
	if !ok {
		return types.DeviceState{}, false
	}
	return deviceState(c), true
}

// ConnectionCount returns the number of registered connections.
func (h *Hub) ConnectionCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.conns)
}

func deviceState(c *Connection) types.DeviceState {
	return types.DeviceState{
		ConnectionID: c.id,
		Profile:      c.profile,
		ConnectedAt:  c.connectedAt,
		State:        c.LastReportedState(),
	}
}
