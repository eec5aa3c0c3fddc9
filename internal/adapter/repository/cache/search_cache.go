package cache

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/lukegrady1/Roomify/internal/platform/logger"
	"github.com/lukegrady1/Roomify/internal/search/domain"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// NewRedisClient connects and pings Redis.
func NewRedisClient(ctx context.Context, addr, password string, db int, log *logger.Logger) (*redis.Client, error) {
	rdb := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if err := rdb.Ping(pingCtx).Err(); err != nil {
		log.Error("Failed to connect to Redis", zap.String("address", addr), zap.Error(err))
		_ = rdb.Close()
		return nil, fmt.Errorf("failed to ping redis at %s: %w", addr, err)
	}
	log.Info("Connected to Redis", zap.String("address", addr))
	return rdb, nil
}

// SearchCache stores serialized search results keyed by canonical query.
type SearchCache struct {
	client *redis.Client
	logger *logger.Logger
}

func NewSearchCache(client *redis.Client, log *logger.Logger) *SearchCache {
	return &SearchCache{client: client, logger: log.Named("SearchCache")}
}

// Get returns domain.ErrNotFound on a miss.
func (c *SearchCache) Get(ctx context.Context, key string) ([]byte, error) {
	val, err := c.client.Get(ctx, key).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, domain.ErrNotFound
		}
		c.logger.Error("Redis GET failed", zap.String("key", key), zap.Error(err))
		return nil, fmt.Errorf("search cache get %q: %w", key, err)
	}
	return val, nil
}

func (c *SearchCache) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	if err := c.client.Set(ctx, key, value, ttl).Err(); err != nil {
		c.logger.Error("Redis SET failed", zap.String("key", key), zap.Error(err))
		return fmt.Errorf("search cache set %q: %w", key, err)
	}
	c.logger.Debug("Search result cached", zap.String("key", key), zap.Duration("ttl", ttl))
	return nil
}
