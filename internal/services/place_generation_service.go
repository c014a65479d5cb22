package services

import (
	"context"
	"encoding/json"
	"log"
	"strconv"
	"strings"
	"sync"

	"golang.org/x/sync/errgroup"

	"roamly/internal/models/plan_models"
	"roamly/internal/models/request_models"
	"roamly/internal/models/response_models"
	"roamly/internal/repositories"
	"roamly/internal/stream"
	"roamly/pkg/utils"
)

const morePlacesCount = 6

type PlaceGenerationServiceInterface interface {
	GenerateMorePlaces(ctx context.Context, ownerID string, tripID string, req *request_models.MorePlacesRequest) (*response_models.TripResponse, error)
}

type placeGenerationService struct {
	ai     utils.AIClientInterface
	repo   repositories.TripRepository
	photos PhotoLookupInterface
	hub    *stream.Hub
}

func NewPlaceGenerationService(
	ai utils.AIClientInterface,
	repo repositories.TripRepository,
	photos PhotoLookupInterface,
	hub *stream.Hub,
) PlaceGenerationServiceInterface {
	return &placeGenerationService{
		ai:     ai,
		repo:   repo,
		photos: photos,
		hub:    hub,
	}
}

// GenerateMorePlaces asks the model for additional places in one category
// and folds them into the existing itinerary round-robin across days. The
// write is synchronous: the caller gets the updated document back.
func (s *placeGenerationService) GenerateMorePlaces(ctx context.Context, ownerID string, tripID string, req *request_models.MorePlacesRequest) (*response_models.TripResponse, error) {
	trip, err := s.repo.FindById(ctx, tripID)
	if err != nil {
		return nil, utils.ErrDatabaseError
	}
	if trip == nil || trip.OwnerID.String() != ownerID {
		return nil, utils.ErrTripNotFound
	}

	var prefs request_models.TripPreferences
	if err := json.Unmarshal(trip.Preferences, &prefs); err != nil {
		return nil, utils.ErrDatabaseError
	}
	var plan plan_models.TripPlan
	if err := json.Unmarshal(trip.TripPlan, &plan); err != nil {
		return nil, utils.ErrDatabaseError
	}

	prompt, err := BuildMorePlacesPrompt(&prefs, req.FilterType, existingPlaceNames(&plan), morePlacesCount)
	if err != nil {
		return nil, err
	}

	raw, err := s.ai.SendPrompt(ctx, prompt)
	if err != nil {
		return nil, utils.CategorizeModelError(err)
	}

	var places []plan_models.Place
	if err := utils.DecodeJSONArray(raw, &places); err != nil {
		return nil, err
	}
	places = sanitizePlaces(places, req.FilterType)
	if len(places) == 0 {
		return nil, utils.NewMalformedResponseError("no usable places in response", raw)
	}

	refs := s.fetchPlacePhotos(ctx, places, prefs.Destination)

	distributePlaces(&plan, places)

	planJSON, err := json.Marshal(&plan)
	if err != nil {
		return nil, utils.ErrDatabaseError
	}
	if err := s.repo.UpdatePlan(ctx, tripID, planJSON); err != nil {
		return nil, utils.ErrDatabaseError
	}
	s.mergeImageRefs(ctx, trip.ImageRefs, refs, tripID, &plan, places)

	updated, err := s.repo.FindById(ctx, tripID)
	if err != nil || updated == nil {
		return nil, utils.ErrDatabaseError
	}

	payload, err := json.Marshal(response_models.FromTrip(updated))
	if err == nil {
		s.hub.Publish(ctx, tripID, payload)
	}

	resp := response_models.FromTrip(updated)
	return &resp, nil
}

func existingPlaceNames(plan *plan_models.TripPlan) []string {
	var names []string
	for _, key := range plan_models.SortedDayKeys(plan.TravelPlan.Itinerary) {
		for _, p := range plan.TravelPlan.Itinerary[key].Plan {
			names = append(names, p.PlaceName)
		}
	}
	return names
}

// sanitizePlaces drops nameless entries and fills the detail defaults so
// added places satisfy the same shape as enhanced ones.
func sanitizePlaces(places []plan_models.Place, category string) []plan_models.Place {
	out := make([]plan_models.Place, 0, len(places))
	for _, p := range places {
		if strings.TrimSpace(p.PlaceName) == "" {
			continue
		}
		if strings.TrimSpace(p.PlaceDetails) == "" {
			p.PlaceDetails = "A recommended " + category + " stop."
		}
		if strings.TrimSpace(p.TicketPricing) == "" {
			p.TicketPricing = "Free"
		}
		if strings.TrimSpace(p.TimeToTravel) == "" {
			p.TimeToTravel = "1-2 hours"
		}
		if p.Rating == 0 {
			p.Rating = 4.0
		}
		if p.Category == "" {
			p.Category = category
		}
		out = append(out, p)
	}
	return out
}

// distributePlaces appends new places round-robin across days in order, so
// no single day absorbs the whole batch.
func distributePlaces(plan *plan_models.TripPlan, places []plan_models.Place) {
	keys := plan_models.SortedDayKeys(plan.TravelPlan.Itinerary)
	if len(keys) == 0 {
		return
	}
	for i, p := range places {
		key := keys[i%len(keys)]
		day := plan.TravelPlan.Itinerary[key]
		day.Plan = append(day.Plan, p)
		plan.TravelPlan.Itinerary[key] = day
	}
}

func (s *placeGenerationService) fetchPlacePhotos(ctx context.Context, places []plan_models.Place, location string) map[string]string {
	refs := make(map[string]string, len(places))

	var mu sync.Mutex
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(maxConcurrentLookups)

	for _, p := range places {
		name := p.PlaceName
		g.Go(func() error {
			ref, err := s.photos.FindPhotoRef(gctx, name, location)
			if err != nil {
				log.Printf("photo lookup failed for %q: %v", name, err)
				return nil
			}
			if ref != "" {
				mu.Lock()
				refs[name] = ref
				mu.Unlock()
			}
			return nil
		})
	}
	_ = g.Wait()

	return refs
}

// mergeImageRefs records refs for the newly appended places under their
// final day/index positions without disturbing existing entries.
func (s *placeGenerationService) mergeImageRefs(ctx context.Context, existing []byte, byName map[string]string, tripID string, plan *plan_models.TripPlan, added []plan_models.Place) {
	if len(byName) == 0 {
		return
	}

	refs := plan_models.NewImageRefs()
	if len(existing) > 0 {
		if err := json.Unmarshal(existing, refs); err != nil {
			log.Printf("trip %s: bad image_refs json, rebuilding: %v", tripID, err)
			refs = plan_models.NewImageRefs()
		}
	}

	addedNames := make(map[string]struct{}, len(added))
	for _, p := range added {
		addedNames[p.PlaceName] = struct{}{}
	}

	for _, key := range plan_models.SortedDayKeys(plan.TravelPlan.Itinerary) {
		for i, p := range plan.TravelPlan.Itinerary[key].Plan {
			if _, isNew := addedNames[p.PlaceName]; !isNew {
				continue
			}
			if ref, ok := byName[p.PlaceName]; ok {
				refs.SetPlaceRef(key, strconv.Itoa(i), ref)
			}
		}
	}

	refsJSON, err := json.Marshal(refs)
	if err != nil {
		log.Printf("trip %s: marshal image refs: %v", tripID, err)
		return
	}
	if err := s.repo.UpdateImageRefs(ctx, tripID, refsJSON); err != nil {
		log.Printf("trip %s: image refs write failed: %v", tripID, err)
	}
}
