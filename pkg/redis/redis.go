package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/ikkim/directorio-backend/config"
	"github.com/ikkim/directorio-backend/pkg/logger"
	"github.com/redis/go-redis/v9"
)

var client *redis.Client

// ErrNotFound is returned by GetJSON when the key does not exist.
var ErrNotFound = errors.New("redis: key not found")

// Init initializes Redis connection
func Init(cfg *config.RedisConfig) error {
	logger.Info("Initializing Redis connection", map[string]interface{}{
		"host": cfg.Host,
		"port": cfg.Port,
		"db":   cfg.DB,
	})

	client = redis.NewClient(&redis.Options{
		Addr:     cfg.Addr(),
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		logger.Error("Failed to connect to Redis", err, map[string]interface{}{
			"host": cfg.Host,
			"port": cfg.Port,
		})
		return fmt.Errorf("failed to connect to Redis: %w", err)
	}

	logger.Info("Redis connection established successfully", nil)
	return nil
}

// GetClient returns the Redis client instance
func GetClient() *redis.Client {
	return client
}

// Close closes the Redis connection
func Close() error {
	if client != nil {
		logger.Info("Closing Redis connection", nil)
		return client.Close()
	}
	return nil
}

// SetJSON stores v as JSON under key with the given expiry.
func SetJSON(ctx context.Context, c *redis.Client, key string, v interface{}, expiry time.Duration) error {
	payload, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("failed to encode %s: %w", key, err)
	}
	if err := c.Set(ctx, key, payload, expiry).Err(); err != nil {
		logger.Error("Failed to write redis key", err, map[string]interface{}{
			"key": key,
		})
		return err
	}
	return nil
}

// GetJSON decodes the JSON stored under key into v.
func GetJSON(ctx context.Context, c *redis.Client, key string, v interface{}) error {
	payload, err := c.Get(ctx, key).Bytes()
	if err == redis.Nil {
		return ErrNotFound
	}
	if err != nil {
		logger.Error("Failed to read redis key", err, map[string]interface{}{
			"key": key,
		})
		return err
	}
	if err := json.Unmarshal(payload, v); err != nil {
		return fmt.Errorf("failed to decode %s: %w", key, err)
	}
	return nil
}
