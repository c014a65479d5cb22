package stream_fx

import (
	"context"

	"github.com/redis/go-redis/v9"
	"go.uber.org/fx"

	"roamly/internal/infra"
	"roamly/internal/stream"
)

var Module = fx.Provide(
	provideRedis, provideHub)

func provideRedis(lc fx.Lifecycle) *redis.Client {
	client := infra.InitRedis()
	lc.Append(fx.Hook{
		OnStop: func(ctx context.Context) error {
			infra.CloseRedis(client)
			return nil
		},
	})
	return client
}

func provideHub(lc fx.Lifecycle, client *redis.Client) *stream.Hub {
	hub := stream.NewHub(client)
	lc.Append(fx.Hook{
		OnStop: func(ctx context.Context) error {
			hub.Close()
			return nil
		},
	})
	return hub
}
