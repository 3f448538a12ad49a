// Package providers wires the realtime core and the favorites store into
// the HTTP surface: the WebSocket upgrade endpoint and the REST API that
// the client apps consume.
package providers

import (
	"errors"

	"github.com/CardinalApps/cardinal-web-server/src/hub"
	"github.com/CardinalApps/cardinal-web-server/src/service"
	"github.com/CardinalApps/cardinal-web-server/src/store"
	"github.com/gofiber/fiber/v3"
	"github.com/rs/zerolog"
)

// Provider bundles the collaborators the HTTP routes depend on.
type Provider struct {
	hub       *hub.Hub
	service   *service.Service
	favorites *store.FavoritesStore // nil when Redis is unavailable
	logger    zerolog.Logger
}

// New creates a Provider. favorites may be nil; the favorites routes then
// answer 503 instead of failing at startup.
func New(h *hub.Hub, svc *service.Service, favorites *store.FavoritesStore, logger zerolog.Logger) *Provider {
	return &Provider{hub: h, service: svc, favorites: favorites, logger: logger}
}

// RegisterRoutes registers the REST API routes via Fiber. The WebSocket
// upgrade itself uses WebSocketHandler, registered at the fasthttp level
// since Fiber v3 does not expose *fasthttp.RequestCtx.
func (p *Provider) RegisterRoutes(app fiber.Router) {
	app.Get("/ws/info", p.handleInfo)

	app.Get("/api/connected-devices", p.handleConnectedDevices)
	app.Get("/api/connected-devices/:connectionId", p.handleConnectedDevice)

	app.Get("/api/favorites", p.handleGetFavorites)
	app.Get("/api/favorites/:type", p.handleGetFavoritesOfType)
	app.Post("/api/favorites", p.handleAddFavorite)
	app.Delete("/api/favorites/:type/:id", p.handleRemoveFavorite)
}

func (p *Provider) handleInfo(c fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"websocket":   true,
		"endpoint":    "/ws",
		"connections": p.hub.ConnectionCount(),
	})
}

// handleConnectedDevices returns every connected device's profile and last
// reported state. Note that this can include the server UI itself, since it
// also connects over WebSockets.
func (p *Provider) handleConnectedDevices(c fiber.Ctx) error {
	return c.JSON(p.service.ConnectedDevices())
}

func (p *Provider) handleConnectedDevice(c fiber.Ctx) error {
	device, err := p.service.ConnectedDevice(c.Params("connectionId"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid connection ID"})
	}
	return c.JSON(device)
}

type favoriteRequest struct {
	ThingID   string `json:"favorite_thing_id"`
	ThingType string `json:"favorite_thing_type"`
}

func (p *Provider) handleAddFavorite(c fiber.Ctx) error {
	if p.favorites == nil {
		return favoritesUnavailable(c)
	}

	var req favoriteRequest
	if err := c.Bind().Body(&req); err != nil || req.ThingID == "" || req.ThingType == "" {
		return c.Status(fiber.StatusBadRequest).
			JSON(fiber.Map{"error": "Request requires favorite_thing_id and favorite_thing_type"})
	}

	fav, err := p.favorites.Add(c.Context(), req.ThingID, req.ThingType)
	if errors.Is(err, store.ErrDuplicate) {
		return c.Status(fiber.StatusConflict).
			JSON(fiber.Map{"error": "Duplicate favorites of the same media type are not allowed"})
	}
	if err != nil {
		p.logger.Error().Err(err).Msg("add favorite failed")
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Could not store favorite"})
	}

	p.service.AnnounceFavoriteAdded(req.ThingID)

	return c.Status(fiber.StatusCreated).JSON(fav)
}

func (p *Provider) handleRemoveFavorite(c fiber.Ctx) error {
	if p.favorites == nil {
		return favoritesUnavailable(c)
	}

	thingType := c.Params("type")
	thingID := c.Params("id")

	removed, err := p.favorites.Remove(c.Context(), thingID, thingType)
	if err != nil {
		p.logger.Error().Err(err).Msg("remove favorite failed")
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Could not remove favorite"})
	}
	if !removed {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "No such favorite"})
	}

	p.service.AnnounceFavoriteRemoved(thingID)

	return c.JSON(fiber.Map{"removed": true})
}

func (p *Provider) handleGetFavorites(c fiber.Ctx) error {
	if p.favorites == nil {
		return favoritesUnavailable(c)
	}

	favs, err := p.favorites.All(c.Context())
	if err != nil {
		p.logger.Error().Err(err).Msg("get favorites failed")
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Could not read favorites"})
	}
	return c.JSON(favs)
}

func (p *Provider) handleGetFavoritesOfType(c fiber.Ctx) error {
	if p.favorites == nil {
		return favoritesUnavailable(c)
	}

	favs, err := p.favorites.OfType(c.Context(), c.Params("type"))
	if err != nil {
		p.logger.Error().Err(err).Msg("get favorites failed")
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Could not read favorites"})
	}
	return c.JSON(favs)
}

func favoritesUnavailable(c fiber.Ctx) error {
	return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{"error": "Favorites store unavailable"})
}
