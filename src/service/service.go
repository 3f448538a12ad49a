// Package service exposes the realtime hub to the rest of the server
// process. HTTP handlers and other collaborators publish through here
// instead of holding connections themselves.
package service

import (
	"fmt"

	"github.com/CardinalApps/cardinal-web-server/src/hub"
	"github.com/CardinalApps/cardinal-web-server/src/types"
	"github.com/rs/zerolog"
)

// Service provides the high-level publish and read-back API over a Hub.
type Service struct {
	hub    *hub.Hub
	logger zerolog.Logger
}

// New creates a Service backed by the given hub.
func New(h *hub.Hub, logger zerolog.Logger) *Service {
	return &Service{hub: h, logger: logger.With().Str("component", "ws-service").Logger()}
}

// Hub returns the underlying hub.
func (s *Service) Hub() *hub.Hub { return s.hub }

// Publish sends a message on a channel to the selected audience,
// subscription-gated per recipient.
func (s *Service) Publish(message any, channel string, target hub.Target) {
	s.logger.Debug().Str("channel", channel).Msg("publish")
	s.hub.Publish(message, channel, target)
}

// PublishForced sends a message on a channel ignoring recipient
// subscriptions. For system-level notices only.
func (s *Service) PublishForced(message any, channel string, target hub.Target) {
	s.logger.Debug().Str("channel", channel).Msg("forced publish")
	s.hub.PublishForced(message, channel, target)
}

// AnnounceFavoriteAdded tells every music client that a favorite was added.
func (s *Service) AnnounceFavoriteAdded(thingID any) {
	s.Publish(thingID, types.ChannelFavoriteAdded, hub.ToRole(types.RoleMediaClient))
}

// AnnounceFavoriteRemoved tells every music client that a favorite was removed.
func (s *Service) AnnounceFavoriteRemoved(thingID any) {
	s.Publish(thingID, types.ChannelFavoriteRemoved, hub.ToRole(types.RoleMediaClient))
}

// ConnectedDevices returns the profile and last reported state of every
// registered connection.
func (s *Service) ConnectedDevices() []types.DeviceState {
	return s.hub.Devices()
}

// ConnectedDevice returns the profile and last reported state of one
// connection.
func (s *Service) ConnectedDevice(connectionID string) (types.DeviceState, error) {
	state, ok := s.hub.Device(connectionID)
	if !ok {
		return types.DeviceState{}, fmt.Errorf("no connection with id %s", connectionID)
	}
	return state, nil
}
