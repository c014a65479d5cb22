package mem

import (
	"sync"
	"time"

	"roamly/internal/models/db_models"
)

// DeletedTripStore parks the full document of a deleted trip so the delete
// stays reversible for the rest of the session. Entries expire; an expired
// trip is gone for good.
type DeletedTripStore interface {
	Park(ownerID, tripID string, trip *db_models.Trip, ttl time.Duration)

	// Take returns the parked trip for (ownerID, tripID) if not expired and
	// removes it (single-use). Returns nil if missing/expired.
	Take(ownerID, tripID string) *db_models.Trip
}

type deletedEntry struct {
	trip      *db_models.Trip
	expiresAt time.Time
}

type DeletedTrips struct {
	mu   sync.Mutex
	data map[string]deletedEntry
}

func NewDeletedTrips() *DeletedTrips {
	return &DeletedTrips{
		data: make(map[string]deletedEntry),
	}
}

func key(ownerID, tripID string) string {
	return ownerID + "/" + tripID
}

func (s *DeletedTrips) Park(ownerID, tripID string, trip *db_models.Trip, ttl time.Duration) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.data[key(ownerID, tripID)] = deletedEntry{
		trip:      trip,
		expiresAt: time.Now().Add(ttl),
	}
}

func (s *DeletedTrips) Take(ownerID, tripID string) *db_models.Trip {
	s.mu.Lock()
	defer s.mu.Unlock()

	k := key(ownerID, tripID)
	e, ok := s.data[k]
	if !ok {
		return nil
	}
	delete(s.data, k)
	if time.Now().After(e.expiresAt) {
		return nil
	}
	return e.trip
}
