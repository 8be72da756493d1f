package storage

import (
	"context"
	"fmt"

	"github.com/redis/go-redis/v9"
	"github.com/rocketscienceinc/connect4-backend/internal/config"
)

// RedisStorage - client shared by the redis-backed session registry.
type RedisStorage struct {
	Connection *redis.Client
}

// NewRedisStorage dials the configured redis and fails unless it answers a ping.
func NewRedisStorage(ctx context.Context, conf config.Redis) (*RedisStorage, error) {
	conn := redis.NewClient(&redis.Options{
		Addr:        conf.GetRedisAddr(),
		Password:    conf.Password,
		DB:          conf.DB,
		DialTimeout: conf.DialTimeout,
	})

	if err := conn.Ping(ctx).Err(); err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("failed to reach redis at %s: %w", conf.GetRedisAddr(), err)
	}

	return &RedisStorage{Connection: conn}, nil
}

func (that *RedisStorage) Close() error {
	return that.Connection.Close()
}
