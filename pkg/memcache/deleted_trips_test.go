package mem

import (
	"testing"
	"time"

	"github.com/google/uuid"

	"roamly/internal/models/db_models"
)

func TestParkAndTake(t *testing.T) {
	store := NewDeletedTrips()
	trip := &db_models.Trip{}
	trip.ID = uuid.New()

	store.Park("owner-1", "trip-1", trip, time.Minute)

	got := store.Take("owner-1", "trip-1")
	if got == nil || got.ID != trip.ID {
		t.Fatalf("parked trip not returned")
	}

	if store.Take("owner-1", "trip-1") != nil {
		t.Fatalf("take must be single-use")
	}
}

func TestTakeWrongOwner(t *testing.T) {
	store := NewDeletedTrips()
	store.Park("owner-1", "trip-1", &db_models.Trip{}, time.Minute)

	if store.Take("owner-2", "trip-1") != nil {
		t.Fatalf("another owner's key must not match")
	}
	if store.Take("owner-1", "trip-1") == nil {
		t.Fatalf("original owner's entry should remain")
	}
}

func TestTakeExpired(t *testing.T) {
	store := NewDeletedTrips()
	store.Park("owner-1", "trip-1", &db_models.Trip{}, -time.Second)

	if store.Take("owner-1", "trip-1") != nil {
		t.Fatalf("expired entry returned")
	}
}
