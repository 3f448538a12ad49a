package providers_test

import (
	"encoding/json"
	"io"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/CardinalApps/cardinal-web-server/providers"
	"github.com/CardinalApps/cardinal-web-server/src/hub"
	"github.com/CardinalApps/cardinal-web-server/src/service"
	"github.com/gofiber/fiber/v3"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestApp(t *testing.T) *fiber.App {
	t.Helper()
	h := hub.New(zerolog.Nop())
	svc := service.New(h, zerolog.Nop())
	p := providers.New(h, svc, nil, zerolog.Nop())

	app := fiber.New()
	p.RegisterRoutes(app)
	return app
}

func TestInfoRoute(t *testing.T) {
	app := newTestApp(t)

	resp, err := app.Test(httptest.NewRequest("GET", "/ws/info", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)

	var body map[string]any
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Equal(t, true, body["websocket"])
	assert.Equal(t, "/ws", body["endpoint"])
	assert.Equal(t, float64(0), body["connections"])
}

func TestConnectedDevicesEmpty(t *testing.T) {
	app := newTestApp(t)

	resp, err := app.Test(httptest.NewRequest("GET", "/api/connected-devices", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)

	data, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.JSONEq(t, "[]", string(data))
}

func TestConnectedDeviceUnknownID(t *testing.T) {
	app := newTestApp(t)

	resp, err := app.Test(httptest.NewRequest("GET", "/api/connected-devices/no-such-id", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
}

// Without a reachable Redis the favorites routes answer 503 rather than
// failing at startup.
func TestFavoritesUnavailableWithoutStore(t *testing.T) {
	app := newTestApp(t)

	post := httptest.NewRequest("POST", "/api/favorites",
		strings.NewReader(`{"favorite_thing_id":"track-1","favorite_thing_type":"track"}`))
	post.Header.Set("Content-Type", "application/json")

	resp, err := app.Test(post)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusServiceUnavailable, resp.StatusCode)

	resp, err = app.Test(httptest.NewRequest("GET", "/api/favorites", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusServiceUnavailable, resp.StatusCode)

	resp, err = app.Test(httptest.NewRequest("DELETE", "/api/favorites/track/track-1", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusServiceUnavailable, resp.StatusCode)
}
