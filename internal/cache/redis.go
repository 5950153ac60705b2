// Package cache provides the shared Redis client.
package cache

import (
	"context"

	redis "github.com/redis/go-redis/v9"
	"go.uber.org/fx"

	"github.com/inkvoice/inkvoice/internal/config"
)

func NewRedis(lc fx.Lifecycle, cfg config.Config) *redis.Client {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
		DB:       cfg.RedisDB,
	})

	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			return client.Ping(ctx).Err()
		},
		OnStop: func(ctx context.Context) error {
			return client.Close()
		},
	})

	return client
}

var Module = fx.Module("cache",
	fx.Provide(NewRedis),
)
