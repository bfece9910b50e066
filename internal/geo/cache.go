package geo

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"rideon/internal/types"
)

const placeKeyPrefix = "geo:place:%s"

// CachedResolver keeps resolved coordinates in redis in front of a
// slower resolver. Cache failures are logged and ignored; the wrapped
// resolver always gets a chance.
type CachedResolver struct {
	redis *redis.Client
	next  Resolver
	ttl   time.Duration
	log   *zap.Logger
}

func NewCachedResolver(rdb *redis.Client, next Resolver, ttl time.Duration, log *zap.Logger) *CachedResolver {
	return &CachedResolver{redis: rdb, next: next, ttl: ttl, log: log.With(zap.String("component", "geo_cache"))}
}

func (c *CachedResolver) Resolve(ctx context.Context, place string) (types.Point, error) {
	key := fmt.Sprintf(placeKeyPrefix, normalizePlace(place))

	val, err := c.redis.Get(ctx, key).Result()
	if err == nil {
		var p types.Point
		if _, err := fmt.Sscanf(val, "%f,%f", &p.Lat, &p.Lng); err == nil {
			return p, nil
		}
	} else if err != redis.Nil {
		c.log.Debug("cache read failed", zap.String("place", place), zap.Error(err))
	}

	p, err := c.next.Resolve(ctx, place)
	if err != nil {
		return types.Point{}, err
	}
	if err := c.redis.Set(ctx, key, fmt.Sprintf("%f,%f", p.Lat, p.Lng), c.ttl).Err(); err != nil {
		c.log.Debug("cache write failed", zap.String("place", place), zap.Error(err))
	}
	return p, nil
}
