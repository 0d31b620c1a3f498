package location

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/Sumanth-CBRE/Weatherbot/pkg/logx"
)

const geoCachePrefix = "geocode:"

// GeoCache stores geocoder hits in redis keyed by normalized query text.
// Cache failures degrade to a miss; the resolver never depends on redis
// being available.
type GeoCache struct {
	rdb *redis.Client
	ttl time.Duration
}

func NewGeoCache(rdb *redis.Client, ttl time.Duration) *GeoCache {
	return &GeoCache{rdb: rdb, ttl: ttl}
}

func (c *GeoCache) Get(ctx context.Context, key string) (GeoResult, bool) {
	val, err := c.rdb.Get(ctx, geoCachePrefix+key).Result()
	if err != nil {
		if err != redis.Nil {
			logx.Warn().Err(err).Str("key", key).Msg("geocode cache read failed")
		}
		return GeoResult{}, false
	}
	var res GeoResult
	if err := json.Unmarshal([]byte(val), &res); err != nil {
		return GeoResult{}, false
	}
	return res, true
}

func (c *GeoCache) Set(ctx context.Context, key string, res GeoResult) {
	payload, err := json.Marshal(res)
	if err != nil {
		return
	}
	if err := c.rdb.Set(ctx, geoCachePrefix+key, payload, c.ttl).Err(); err != nil {
		logx.Warn().Err(err).Str("key", key).Msg("geocode cache write failed")
	}
}
