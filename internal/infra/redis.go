package infra

import "github.com/redis/go-redis/v9"

// NewRedis returns a redis client for the geocoding cache.
func NewRedis(addr string) *redis.Client {
	return redis.NewClient(&redis.Options{Addr: addr})
}
