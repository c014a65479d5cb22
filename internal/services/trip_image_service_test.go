package services

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"

	"roamly/internal/models/plan_models"
)

type fakePhotoLookup struct {
	mu      sync.Mutex
	queries []string
	handler func(placeName string) (string, error)
}

func (f *fakePhotoLookup) FindPhotoRef(_ context.Context, placeName string, _ string) (string, error) {
	f.mu.Lock()
	f.queries = append(f.queries, placeName)
	f.mu.Unlock()
	return f.handler(placeName)
}

func imagePlanFixture() *plan_models.TripPlan {
	return &plan_models.TripPlan{
		TravelPlan: plan_models.TravelPlan{
			Location: "Lisbon",
			Hotels: []plan_models.Hotel{
				{HotelName: "Hotel Avenida"},
				{HotelName: "Casa do Bairro"},
			},
			Itinerary: map[string]plan_models.DayPlan{
				"day1": {Plan: []plan_models.Place{{PlaceName: "Belem Tower"}, {PlaceName: "Alfama"}}},
				"day2": {Plan: []plan_models.Place{{PlaceName: "Sintra"}}},
			},
		},
	}
}

func TestFetchTripImagesKeysByPosition(t *testing.T) {
	photos := &fakePhotoLookup{
		handler: func(name string) (string, error) {
			return "places/abc/photos/" + strings.ReplaceAll(name, " ", "-"), nil
		},
	}
	svc := NewTripImageService(photos)

	refs := svc.FetchTripImages(context.Background(), imagePlanFixture(), "Lisbon")

	if refs.Destination == "" {
		t.Fatalf("destination ref missing")
	}
	if got := refs.Hotels["0"]; !strings.Contains(got, "Hotel-Avenida") {
		t.Fatalf("hotel 0 ref wrong: %q", got)
	}
	if got := refs.Hotels["1"]; !strings.Contains(got, "Casa-do-Bairro") {
		t.Fatalf("hotel 1 ref wrong: %q", got)
	}
	if got := refs.Places["day1"]["0"]; !strings.Contains(got, "Belem-Tower") {
		t.Fatalf("day1/0 ref wrong: %q", got)
	}
	if got := refs.Places["day1"]["1"]; !strings.Contains(got, "Alfama") {
		t.Fatalf("day1/1 ref wrong: %q", got)
	}
	if got := refs.Places["day2"]["0"]; !strings.Contains(got, "Sintra") {
		t.Fatalf("day2/0 ref wrong: %q", got)
	}
}

func TestFetchTripImagesToleratesPartialFailure(t *testing.T) {
	photos := &fakePhotoLookup{
		handler: func(name string) (string, error) {
			if name == "Alfama" {
				return "", errors.New("lookup blew up")
			}
			if name == "Sintra" {
				return "", nil
			}
			return "places/abc/photos/1", nil
		},
	}
	svc := NewTripImageService(photos)

	refs := svc.FetchTripImages(context.Background(), imagePlanFixture(), "Lisbon")

	if refs == nil {
		t.Fatalf("partial failure must still return refs")
	}
	if _, ok := refs.Places["day1"]["1"]; ok {
		t.Fatalf("failed lookup should leave its key absent")
	}
	if _, ok := refs.Places["day2"]["0"]; ok {
		t.Fatalf("photo-less place should leave its key absent")
	}
	if refs.Places["day1"]["0"] == "" {
		t.Fatalf("successful lookup missing")
	}
}

func TestFetchTripImagesCoversEveryEntity(t *testing.T) {
	photos := &fakePhotoLookup{
		handler: func(string) (string, error) { return "places/abc/photos/1", nil },
	}
	svc := NewTripImageService(photos)

	svc.FetchTripImages(context.Background(), imagePlanFixture(), "Lisbon")

	photos.mu.Lock()
	defer photos.mu.Unlock()
	// destination + 2 hotels + 3 places
	if len(photos.queries) != 6 {
		t.Fatalf("expected 6 lookups, got %d: %v", len(photos.queries), photos.queries)
	}
}
