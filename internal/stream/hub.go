package stream

import (
	"context"
	"log"
	"sync"

	"github.com/redis/go-redis/v9"
)

const channelPrefix = "trips:"
const channelSuffix = ":updates"

// Subscriber receives trip document snapshots as they are written. Updates
// is closed on unsubscribe.
type Subscriber struct {
	TripID  string
	Updates chan []byte
}

// Hub fans trip updates out to watchers. With a redis client it publishes
// through pub/sub so every instance sees every update; without one it
// delivers to local subscribers only.
type Hub struct {
	redis  *redis.Client
	cancel context.CancelFunc

	mu   sync.RWMutex
	subs map[string]map[*Subscriber]struct{}
}

func NewHub(client *redis.Client) *Hub {
	h := &Hub{
		redis: client,
		subs:  make(map[string]map[*Subscriber]struct{}),
	}
	if client != nil {
		ctx, cancel := context.WithCancel(context.Background())
		h.cancel = cancel
		go h.bridgeRedis(ctx)
	}
	return h
}

// Close stops the redis bridge goroutine. Local subscribers keep working.
func (h *Hub) Close() {
	if h.cancel != nil {
		h.cancel()
	}
}

func (h *Hub) Subscribe(tripID string) *Subscriber {
	sub := &Subscriber{
		TripID:  tripID,
		Updates: make(chan []byte, 16),
	}

	h.mu.Lock()
	if h.subs[tripID] == nil {
		h.subs[tripID] = make(map[*Subscriber]struct{})
	}
	h.subs[tripID][sub] = struct{}{}
	h.mu.Unlock()

	return sub
}

func (h *Hub) Unsubscribe(sub *Subscriber) {
	h.mu.Lock()
	set, ok := h.subs[sub.TripID]
	if ok {
		if _, member := set[sub]; member {
			delete(set, sub)
			close(sub.Updates)
		}
		if len(set) == 0 {
			delete(h.subs, sub.TripID)
		}
	}
	h.mu.Unlock()
}

// Publish sends a snapshot to every watcher of the trip. Slow subscribers
// with a full buffer are skipped rather than blocking the writer.
func (h *Hub) Publish(ctx context.Context, tripID string, payload []byte) {
	if h.redis != nil {
		if err := h.redis.Publish(ctx, channelPrefix+tripID+channelSuffix, payload).Err(); err != nil {
			log.Printf("hub: redis publish failed for trip %s: %v", tripID, err)
			h.deliver(tripID, payload)
		}
		return
	}
	h.deliver(tripID, payload)
}

func (h *Hub) deliver(tripID string, payload []byte) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	for sub := range h.subs[tripID] {
		select {
		case sub.Updates <- payload:
		default:
			log.Printf("hub: dropping update for slow watcher of trip %s", tripID)
		}
	}
}

func (h *Hub) bridgeRedis(ctx context.Context) {
	pubsub := h.redis.PSubscribe(ctx, channelPrefix+"*"+channelSuffix)
	defer pubsub.Close()

	ch := pubsub.Channel()
	for {
		select {
		case <-ctx.Done():
			return
		case msg, ok := <-ch:
			if !ok {
				return
			}
			tripID := msg.Channel
			tripID = tripID[len(channelPrefix) : len(tripID)-len(channelSuffix)]
			h.deliver(tripID, []byte(msg.Payload))
		}
	}
}
