package infrastructure

import (
	"context"
	"errors"
	"time"

	"github.com/architeacher/loaner/internal/config"
	appLogger "github.com/architeacher/loaner/pkg/logger"
	"github.com/redis/go-redis/v9"
)

// compareAndSwapScript replaces KEYS[1] only while it still holds ARGV[1].
var compareAndSwapScript = redis.NewScript(`
	local current = redis.call("GET", KEYS[1])
	if current == false or tonumber(current) ~= tonumber(ARGV[1]) then
		return 0
	end
	redis.call("SET", KEYS[1], ARGV[2], "PX", ARGV[3])
	return 1
`)

type KeydbClient struct {
	client *redis.Client
	logger appLogger.Logger
}

func NewKeyDBClient(cfg config.Cache, logger appLogger.Logger) *KeydbClient {
	return NewKeyDBClientFromRedis(redis.NewClient(&redis.Options{
		Addr:         cfg.Address,
		Password:     cfg.Password,
		DB:           int(cfg.DB),
		PoolSize:     int(cfg.PoolSize),
		DialTimeout:  cfg.DialTimeout,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
		MaxRetries:   int(cfg.MaxRetries),
	}), logger)
}

func NewKeyDBClientFromRedis(client *redis.Client, logger appLogger.Logger) *KeydbClient {
	return &KeydbClient{
		client: client,
		logger: logger,
	}
}

func (c *KeydbClient) Ping(ctx context.Context) error {
	return c.client.Ping(ctx).Err()
}

// Close matches the cleanup signature used at shutdown.
func (c *KeydbClient) Close(context.Context) error {
	return c.client.Close()
}

// GetInt64 returns the stored value and the time it was read. A missing key
// yields a zero value and a zero time.
func (c *KeydbClient) GetInt64(ctx context.Context, key string) (int64, time.Time, error) {
	val, err := c.client.Get(ctx, key).Int64()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return 0, time.Time{}, nil
		}

		return 0, time.Time{}, err
	}

	return val, time.Now(), nil
}

// SetInt64NX sets an int64 value if the key doesn't exist.
func (c *KeydbClient) SetInt64NX(ctx context.Context, key string, value int64, ttl time.Duration) (bool, error) {
	return c.client.SetNX(ctx, key, value, ttl).Result()
}

// CompareAndSwapInt64 atomically updates a value if it matches the expected old value.
func (c *KeydbClient) CompareAndSwapInt64(ctx context.Context, key string, old, new int64, ttl time.Duration) (bool, error) {
	result, err := compareAndSwapScript.Run(ctx, c.client, []string{key}, old, new, ttl.Milliseconds()).Int64()
	if err != nil {
		c.logger.Warn().Err(err).Str("key", key).Msg("keydb compare and swap failed")

		return false, err
	}

	return result == 1, nil
}
