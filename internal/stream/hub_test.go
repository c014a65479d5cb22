package stream

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
)

func recvOrFail(t *testing.T, sub *Subscriber) []byte {
	t.Helper()
	select {
	case payload := <-sub.Updates:
		return payload
	case <-time.After(time.Second):
		t.Fatalf("no update received")
		return nil
	}
}

func TestHubDeliversToTripSubscribers(t *testing.T) {
	h := NewHub(nil)
	a := h.Subscribe("trip-1")
	b := h.Subscribe("trip-1")
	other := h.Subscribe("trip-2")

	h.Publish(context.Background(), "trip-1", []byte("update"))

	if string(recvOrFail(t, a)) != "update" {
		t.Fatalf("subscriber a got wrong payload")
	}
	if string(recvOrFail(t, b)) != "update" {
		t.Fatalf("subscriber b got wrong payload")
	}
	select {
	case payload := <-other.Updates:
		t.Fatalf("trip-2 subscriber received trip-1 update: %q", payload)
	case <-time.After(20 * time.Millisecond):
	}
}

func TestHubUnsubscribeClosesChannel(t *testing.T) {
	h := NewHub(nil)
	sub := h.Subscribe("trip-1")

	h.Unsubscribe(sub)

	if _, open := <-sub.Updates; open {
		t.Fatalf("channel still open after unsubscribe")
	}

	// Double unsubscribe must not panic on the closed channel.
	h.Unsubscribe(sub)

	h.Publish(context.Background(), "trip-1", []byte("update"))
}

func TestHubBridgesRedisAcrossInstances(t *testing.T) {
	s := miniredis.RunT(t)
	clientA := redis.NewClient(&redis.Options{Addr: s.Addr()})
	defer clientA.Close()
	clientB := redis.NewClient(&redis.Options{Addr: s.Addr()})
	defer clientB.Close()

	hubA := NewHub(clientA)
	defer hubA.Close()
	hubB := NewHub(clientB)
	defer hubB.Close()

	sub := hubB.Subscribe("trip-1")
	defer hubB.Unsubscribe(sub)

	// Let both bridges finish their pattern subscription.
	time.Sleep(20 * time.Millisecond)

	hubA.Publish(context.Background(), "trip-1", []byte("update"))

	if string(recvOrFail(t, sub)) != "update" {
		t.Fatalf("bridged subscriber got wrong payload")
	}
}

func TestHubCloseStopsBridge(t *testing.T) {
	s := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: s.Addr()})
	defer client.Close()

	h := NewHub(client)
	sub := h.Subscribe("trip-1")
	time.Sleep(20 * time.Millisecond)

	h.Close()
	h.Close()

	// The bridge is gone, so a redis publish no longer reaches subscribers.
	time.Sleep(20 * time.Millisecond)
	if err := client.Publish(context.Background(), "trips:trip-1:updates", "late").Err(); err != nil {
		t.Fatalf("publish error: %v", err)
	}
	select {
	case payload := <-sub.Updates:
		t.Fatalf("closed bridge still delivered: %q", payload)
	case <-time.After(50 * time.Millisecond):
	}

	// Close on a hub without redis is a no-op.
	NewHub(nil).Close()
}

func TestHubSkipsSlowSubscriber(t *testing.T) {
	h := NewHub(nil)
	slow := h.Subscribe("trip-1")

	for i := 0; i < cap(slow.Updates)+5; i++ {
		h.Publish(context.Background(), "trip-1", []byte("update"))
	}

	// The publisher must not have blocked; the buffer holds what fit.
	if got := len(slow.Updates); got != cap(slow.Updates) {
		t.Fatalf("expected full buffer of %d, got %d", cap(slow.Updates), got)
	}
}
