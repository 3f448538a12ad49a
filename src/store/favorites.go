// Package store persists user favorites in Redis. Favorites are small, flat
// rows keyed by media type and thing ID, so a hash per type plus an index of
// known types covers every query the API needs.
package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
)

// ErrDuplicate is returned when a favorite with the same thing ID already
// exists within the same media type.
var ErrDuplicate = errors.New("favorite already exists")

// Favorite is one favorited thing of one media type.
type Favorite struct {
	ThingID   string    `json:"favorite_thing_id"`
	ThingType string    `json:"favorite_thing_type"`
	AddedAt   time.Time `json:"added_at"`
}

// FavoritesStore reads and writes favorites in Redis.
type FavoritesStore struct {
	client *redis.Client
	prefix string
	logger zerolog.Logger
}

// NewFavoritesStore connects a store to Redis. The connection is verified
// lazily; call Ping to check reachability up front.
func NewFavoritesStore(cfg *RedisConfig, logger zerolog.Logger) *FavoritesStore {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})
	return &FavoritesStore{
		client: client,
		prefix: cfg.Prefix,
		logger: logger.With().Str("component", "favorites-store").Logger(),
	}
}

// Ping verifies that Redis is reachable.
func (s *FavoritesStore) Ping(ctx context.Context) error {
	return s.client.Ping(ctx).Err()
}

// Close releases the Redis connection.
func (s *FavoritesStore) Close() error {
	return s.client.Close()
}

// Add stores a new favorite and returns the stored row. Duplicate IDs within
// the same media type are rejected with ErrDuplicate.
func (s *FavoritesStore) Add(ctx context.Context, thingID, thingType string) (Favorite, error) {
	key := s.typeKey(thingType)

	exists, err := s.client.HExists(ctx, key, thingID).Result()
	if err != nil {
		return Favorite{}, fmt.Errorf("checking favorite %s/%s: %w", thingType, thingID, err)
	}
	if exists {
		return Favorite{}, ErrDuplicate
	}

	fav := Favorite{ThingID: thingID, ThingType: thingType, AddedAt: time.Now().UTC()}
	data, err := json.Marshal(fav)
	if err != nil {
		return Favorite{}, fmt.Errorf("encoding favorite: %w", err)
	}

	pipe := s.client.TxPipeline()
	pipe.HSet(ctx, key, thingID, data)
	pipe.SAdd(ctx, s.typesKey(), thingType)
	if _, err := pipe.Exec(ctx); err != nil {
		return Favorite{}, fmt.Errorf("storing favorite %s/%s: %w", thingType, thingID, err)
	}

	s.logger.Debug().Str("type", thingType).Str("thing_id", thingID).Msg("favorite added")
	return fav, nil
}

// Remove deletes one favorite. Returns false when no such favorite existed.
func (s *FavoritesStore) Remove(ctx context.Context, thingID, thingType string) (bool, error) {
	removed, err := s.client.HDel(ctx, s.typeKey(thingType), thingID).Result()
	if err != nil {
		return false, fmt.Errorf("removing favorite %s/%s: %w", thingType, thingID, err)
	}
	if removed == 0 {
		return false, nil
	}

	s.logger.Debug().Str("type", thingType).Str("thing_id", thingID).Msg("favorite removed")
	return true, nil
}

// OfType returns all favorites of one media type.
func (s *FavoritesStore) OfType(ctx context.Context, thingType string) ([]Favorite, error) {
	rows, err := s.client.HGetAll(ctx, s.typeKey(thingType)).Result()
	if err != nil {
		return nil, fmt.Errorf("reading favorites of type %s: %w", thingType, err)
	}

	out := make([]Favorite, 0, len(rows))
	for id, raw := range rows {
		var fav Favorite
		if err := json.Unmarshal([]byte(raw), &fav); err != nil {
			s.logger.Error().Err(err).Str("thing_id", id).Msg("corrupt favorite row, skipping")
			continue
		}
		out = append(out, fav)
	}
	return out, nil
}

// All returns favorites of every known media type.
func (s *FavoritesStore) All(ctx context.Context) ([]Favorite, error) {
	typs, err := s.client.SMembers(ctx, s.typesKey()).Result()
	if err != nil {
		return nil, fmt.Errorf("reading favorite types: %w", err)
	}

	var out []Favorite
	for _, typ := range typs {
		favs, err := s.OfType(ctx, typ)
		if err != nil {
			return nil, err
		}
		out = append(out, favs...)
	}
	return out, nil
}

func (s *FavoritesStore) typeKey(thingType string) string {
	return s.prefix + "favorites:" + thingType
}

func (s *FavoritesStore) typesKey() string {
	return s.prefix + "favorites:types"
}
