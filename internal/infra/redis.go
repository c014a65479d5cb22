package infra

import (
	"context"
	"log"
	"os"

	"github.com/redis/go-redis/v9"
)

// InitRedis returns nil when REDIS_ADDR is unset. Live update fan-out then
// stays process-local instead of bridging across instances.
func InitRedis() *redis.Client {
	addr := os.Getenv("REDIS_ADDR")
	if addr == "" {
		log.Println("REDIS_ADDR not set, live updates will not bridge across instances")
		return nil
	}

	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: os.Getenv("REDIS_PASSWORD"),
	})

	if err := client.Ping(context.Background()).Err(); err != nil {
		log.Printf("Error connecting to redis: %v", err)
		log.Fatal("Error connecting to redis")
	}

	return client
}

func CloseRedis(client *redis.Client) {
	if client == nil {
		return
	}
	if err := client.Close(); err != nil {
		log.Printf("Error closing redis connection: %v", err)
	}
}
