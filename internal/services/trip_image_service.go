package services

import (
	"context"
	"errors"
	"log"
	"strconv"
	"sync"

	"golang.org/x/sync/errgroup"

	"roamly/internal/models/plan_models"
	"roamly/pkg/utils"
)

const maxConcurrentLookups = 10

type TripImageServiceInterface interface {
	FetchTripImages(ctx context.Context, plan *plan_models.TripPlan, location string) *plan_models.ImageRefs
}

type tripImageService struct {
	photos PhotoLookupInterface
}

func NewTripImageService(photos PhotoLookupInterface) TripImageServiceInterface {
	return &tripImageService{
		photos: photos,
	}
}

// FetchTripImages resolves photo refs for the destination, every hotel and
// every place, at most maxConcurrentLookups in flight. Individual lookup
// failures are logged and leave that key absent; the partial result is
// always returned. Quota exhaustion cancels the remaining lookups.
func (s *tripImageService) FetchTripImages(ctx context.Context, plan *plan_models.TripPlan, location string) *plan_models.ImageRefs {
	refs := plan_models.NewImageRefs()

	var mu sync.Mutex
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(maxConcurrentLookups)

	g.Go(func() error {
		ref, err := s.photos.FindPhotoRef(gctx, location, "")
		if err != nil {
			return s.lookupFailed(location, err)
		}
		if ref != "" {
			mu.Lock()
			refs.Destination = ref
			mu.Unlock()
		}
		return nil
	})

	for i, hotel := range plan.TravelPlan.Hotels {
		index := strconv.Itoa(i)
		name := hotel.HotelName
		g.Go(func() error {
			ref, err := s.photos.FindPhotoRef(gctx, name, location)
			if err != nil {
				return s.lookupFailed(name, err)
			}
			if ref != "" {
				mu.Lock()
				refs.SetHotelRef(index, ref)
				mu.Unlock()
			}
			return nil
		})
	}

	for _, dayKey := range plan_models.SortedDayKeys(plan.TravelPlan.Itinerary) {
		day := plan.TravelPlan.Itinerary[dayKey]
		for i, place := range day.Plan {
			dayKey := dayKey
			index := strconv.Itoa(i)
			name := place.PlaceName
			g.Go(func() error {
				ref, err := s.photos.FindPhotoRef(gctx, name, location)
				if err != nil {
					return s.lookupFailed(name, err)
				}
				if ref != "" {
					mu.Lock()
					refs.SetPlaceRef(dayKey, index, ref)
					mu.Unlock()
				}
				return nil
			})
		}
	}

	if err := g.Wait(); err != nil {
		log.Printf("image enrichment stopped early: %v", err)
	}

	return refs
}

// lookupFailed swallows everything except quota exhaustion, which aborts
// the whole batch.
func (s *tripImageService) lookupFailed(name string, err error) error {
	if errors.Is(err, utils.ErrQuotaExceeded) {
		return err
	}
	log.Printf("photo lookup failed for %q: %v", name, err)
	return nil
}
