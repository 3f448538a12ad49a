// Command cardinal-server runs the Cardinal web server: the WebSocket hub
// that keeps the server UI and the media client apps synchronized, and the
// HTTP API they consume.
package main

import (
	"context"
	"os"
	"strings"
	"time"

	"github.com/CardinalApps/cardinal-web-server/config"
	"github.com/CardinalApps/cardinal-web-server/providers"
	"github.com/CardinalApps/cardinal-web-server/src/hub"
	"github.com/CardinalApps/cardinal-web-server/src/service"
	"github.com/CardinalApps/cardinal-web-server/src/store"
	"github.com/gofiber/fiber/v3"
	"github.com/rs/zerolog"
	"github.com/valyala/fasthttp"
)

func main() {
	logger := zerolog.New(os.Stderr).With().Timestamp().Logger()

	cfg := config.FromEnv()

	h := hub.New(logger)
	svc := service.New(h, logger)

	favorites := openFavoritesStore(logger)

	provider := providers.New(h, svc, favorites, logger)

	app := fiber.New()
	provider.RegisterRoutes(app)

	// Fiber v3 does not expose *fasthttp.RequestCtx, so the WebSocket
	// upgrade is routed at the fasthttp level and everything else falls
	// through to the Fiber app.
	wsHandler := provider.WebSocketHandler()
	apiHandler := app.Handler()
	root := func(ctx *fasthttp.RequestCtx) {
		path := string(ctx.Path())
		if path == "/ws" || strings.HasPrefix(path, "/ws/") {
			if path != "/ws/info" {
				wsHandler(ctx)
				return
			}
		}
		apiHandler(ctx)
	}

	server := &fasthttp.Server{Handler: root}

	logger.Info().Str("addr", cfg.Addr()).Msg("cardinal web server listening")
	if err := server.ListenAndServe(cfg.Addr()); err != nil {
		logger.Fatal().Err(err).Msg("server stopped")
	}
}

// openFavoritesStore connects the Redis-backed favorites store. Redis being
// down is not fatal; the server runs without favorites and the API answers
// 503 for them.
func openFavoritesStore(logger zerolog.Logger) *store.FavoritesStore {
	cfg := store.RedisConfigFromEnv()
	favorites := store.NewFavoritesStore(cfg, logger)

	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()

	if err := favorites.Ping(ctx); err != nil {
		logger.Warn().Err(err).Str("redis_addr", cfg.Addr).Msg("redis unavailable, favorites disabled")
		_ = favorites.Close()
		return nil
	}

	logger.Info().Str("redis_addr", cfg.Addr).Msg("favorites store connected")
	return favorites
}
