package bookshelf

import (
	"context"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

var _ Persister = (*redisPersister)(nil)

type redisPersister struct {
	logger *zap.Logger
	client *redis.Client
	prefix string
}

// GetRedisClient provides a ready to use redis client.
func GetRedisClient(config *RedisConfig) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:         fmt.Sprintf("%s:%s", config.Host, config.Port),
		DialTimeout:  config.DialTimeout,
		ReadTimeout:  config.ReadTimeout,
		WriteTimeout: config.WriteTimeout,
		PoolSize:     config.PoolSize,
		PoolTimeout:  config.PoolTimeout,
		Password:     config.Password,
		Username:     config.Username,
		DB:           config.DatabaseIndex,
	})

	// test connection.
	if pong, err := client.Ping(context.Background()).Result(); pong != "PONG" || err != nil {
		return client, fmt.Errorf("test connection failed: %v", err)
	}
	return client, nil
}

// NewRedisPersister provides an instance of redis-based blob storage.
// Keys are namespaced with prefix when it is not empty.
func NewRedisPersister(logger *zap.Logger, client *redis.Client, prefix string) Persister {
	return &redisPersister{
		logger: logger,
		client: client,
		prefix: prefix,
	}
}

func (rp *redisPersister) key(k string) string {
	if rp.prefix == "" {
		return k
	}
	return rp.prefix + ":" + k
}

// Get reads the blob stored under key.
func (rp *redisPersister) Get(ctx context.Context, key string) ([]byte, error) {
	data, err := rp.client.Get(ctx, rp.key(key)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, ErrBlobNotFound
	}
	return data, err
}

// Set overwrites the blob stored under key without expiration.
func (rp *redisPersister) Set(ctx context.Context, key string, data []byte) error {
	err := rp.client.Set(ctx, rp.key(key), data, 0).Err()
	if err != nil {
		rp.logger.Error("redis: failed to write blob", zap.String("key", rp.key(key)), zap.Error(err))
	}
	return err
}

// Close releases the redis connections pool.
func (rp *redisPersister) Close() error {
	return rp.client.Close()
}
