package store

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFavoriteRowSerialization(t *testing.T) {
	fav := Favorite{
		ThingID:   "track-42",
		ThingType: "track",
		AddedAt:   time.Now().UTC().Truncate(time.Second),
	}

	data, err := json.Marshal(fav)
	require.NoError(t, err)

	// Wire field names are part of the client API contract.
	assert.Contains(t, string(data), `"favorite_thing_id":"track-42"`)
	assert.Contains(t, string(data), `"favorite_thing_type":"track"`)

	var decoded Favorite
	require.NoError(t, json.Unmarshal(data, &decoded))
	assert.Equal(t, fav, decoded)
}

func TestKeyLayout(t *testing.T) {
	s := NewFavoritesStore(DefaultRedisConfig(), zerolog.Nop())
	t.Cleanup(func() { _ = s.Close() })

	assert.Equal(t, "cardinal:favorites:track", s.typeKey("track"))
	assert.Equal(t, "cardinal:favorites:album", s.typeKey("album"))
	assert.Equal(t, "cardinal:favorites:types", s.typesKey())
}

func TestDefaultRedisConfig(t *testing.T) {
	cfg := DefaultRedisConfig()
	assert.Equal(t, "localhost:6379", cfg.Addr)
	assert.Equal(t, "cardinal:", cfg.Prefix)
	assert.Equal(t, 0, cfg.DB)
}

func TestRedisConfigFromEnv(t *testing.T) {
	t.Setenv("REDIS_ADDR", "redis.lan:6390")
	t.Setenv("REDIS_PASSWORD", "secret")
	t.Setenv("REDIS_DB", "3")
	t.Setenv("REDIS_KEY_PREFIX", "test:")

	cfg := RedisConfigFromEnv()
	assert.Equal(t, "redis.lan:6390", cfg.Addr)
	assert.Equal(t, "secret", cfg.Password)
	assert.Equal(t, 3, cfg.DB)
	assert.Equal(t, "test:", cfg.Prefix)
}

func TestRedisConfigFromEnvIgnoresBadDB(t *testing.T) {
	t.Setenv("REDIS_DB", "not-a-number")

	cfg := RedisConfigFromEnv()
	assert.Equal(t, 0, cfg.DB)
}
