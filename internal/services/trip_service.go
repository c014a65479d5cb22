package services

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"

	"roamly/internal/models/db_models"
	"roamly/internal/models/plan_models"
	"roamly/internal/models/request_models"
	"roamly/internal/models/response_models"
	"roamly/internal/repositories"
	"roamly/internal/stream"
	mem "roamly/pkg/memcache"
	"roamly/pkg/utils"
)

const deletedTripTTL = 30 * time.Minute
const enhancementTimeout = 5 * time.Minute

type TripServiceInterface interface {
	CreateTrip(ctx context.Context, ownerID string, prefs *request_models.TripPreferences) (*response_models.TripResponse, error)
	GetTripByID(ctx context.Context, ownerID string, tripID string) (*response_models.TripResponse, error)
	ListTripsByOwner(ctx context.Context, ownerID string, page int, pageSize int) (*response_models.TripListResponse, error)
	DeleteTrip(ctx context.Context, ownerID string, tripID string) error
	RestoreTrip(ctx context.Context, ownerID string, tripID string) (*response_models.TripResponse, error)
	WatchTrip(ctx context.Context, ownerID string, tripID string) (*stream.Subscriber, func(), error)
}

type tripService struct {
	ai      utils.AIClientInterface
	repo    repositories.TripRepository
	images  TripImageServiceInterface
	hub     *stream.Hub
	deleted mem.DeletedTripStore
}

func NewTripService(
	ai utils.AIClientInterface,
	repo repositories.TripRepository,
	images TripImageServiceInterface,
	hub *stream.Hub,
	deleted mem.DeletedTripStore,
) TripServiceInterface {
	return &tripService{
		ai:      ai,
		repo:    repo,
		images:  images,
		hub:     hub,
		deleted: deleted,
	}
}

// CreateTrip runs the blocking skeleton pass and returns as soon as the
// skeleton document is durable. Detail enhancement and photo enrichment
// continue in the background; their progress is observable through
// WatchTrip, never through this return value.
func (s *tripService) CreateTrip(ctx context.Context, ownerID string, prefs *request_models.TripPreferences) (*response_models.TripResponse, error) {
	ownerUUID, err := uuid.Parse(ownerID)
	if err != nil {
		return nil, utils.ErrInvalidInput
	}

	prompt, err := BuildSkeletonPrompt(prefs)
	if err != nil {
		return nil, err
	}

	raw, err := s.ai.SendPrompt(ctx, prompt)
	if err != nil {
		return nil, utils.CategorizeModelError(err)
	}

	var plan plan_models.TripPlan
	if err := utils.DecodeJSONObject(raw, &plan); err != nil {
		return nil, err
	}
	if err := plan_models.ValidateSkeleton(&plan, prefs.TotalDays); err != nil {
		return nil, utils.NewMalformedResponseError(err.Error(), raw)
	}

	planJSON, err := json.Marshal(&plan)
	if err != nil {
		return nil, fmt.Errorf("marshal plan: %w", err)
	}
	prefsJSON, err := json.Marshal(prefs)
	if err != nil {
		return nil, fmt.Errorf("marshal preferences: %w", err)
	}

	trip := &db_models.Trip{
		OwnerID:     ownerUUID,
		Preferences: prefsJSON,
		TripPlan:    planJSON,
		IsEnhanced:  false,
	}
	if err := s.repo.Insert(ctx, trip); err != nil {
		return nil, utils.ErrDatabaseError
	}

	s.publishSnapshot(ctx, trip)

	go s.runEnhancement(trip.ID.String(), prefs, &plan)

	resp := response_models.FromTrip(trip)
	return &resp, nil
}

// runEnhancement is the detached phase-2 pipeline. It uses its own context
// because the creating request has already returned. Any failure leaves the
// skeleton as the durable result.
func (s *tripService) runEnhancement(tripID string, prefs *request_models.TripPreferences, skeleton *plan_models.TripPlan) {
	defer func() {
		if r := recover(); r != nil {
			log.Printf("trip %s: enhancement panicked: %v", tripID, r)
		}
	}()

	ctx, cancel := context.WithTimeout(context.Background(), enhancementTimeout)
	defer cancel()

	enhanced, err := s.enhanceTrip(ctx, tripID, prefs, skeleton)
	if err != nil {
		log.Printf("trip %s: enhancement failed, keeping skeleton: %v", tripID, err)
		return
	}

	s.enrichImages(ctx, tripID, enhanced, prefs.Destination)
}

// enhanceTrip runs the detail pass and performs the atomic flip to
// is_enhanced=true. The merged plan always retains every skeleton place.
func (s *tripService) enhanceTrip(ctx context.Context, tripID string, prefs *request_models.TripPreferences, skeleton *plan_models.TripPlan) (*plan_models.TripPlan, error) {
	skeletonJSON, err := json.Marshal(skeleton)
	if err != nil {
		return nil, fmt.Errorf("marshal skeleton: %w", err)
	}

	prompt, err := BuildDetailPrompt(prefs, string(skeletonJSON))
	if err != nil {
		return nil, err
	}

	raw, err := s.ai.SendPrompt(ctx, prompt)
	if err != nil {
		return nil, utils.CategorizeModelError(err)
	}

	var enhanced plan_models.TripPlan
	if err := utils.DecodeJSONObject(raw, &enhanced); err != nil {
		return nil, err
	}
	if err := plan_models.ValidateEnhanced(&enhanced); err != nil {
		return nil, utils.NewMalformedResponseError(err.Error(), raw)
	}

	plan_models.MergeSkeleton(&enhanced, skeleton)

	enhancedJSON, err := json.Marshal(&enhanced)
	if err != nil {
		return nil, fmt.Errorf("marshal enhanced plan: %w", err)
	}
	if err := s.repo.UpdateEnhancedPlan(ctx, tripID, enhancedJSON); err != nil {
		return nil, err
	}

	s.publishTrip(ctx, tripID)
	return &enhanced, nil
}

// enrichImages fans out photo lookups and writes whatever partial result
// came back. It only touches the image_refs column.
func (s *tripService) enrichImages(ctx context.Context, tripID string, plan *plan_models.TripPlan, location string) {
	refs := s.images.FetchTripImages(ctx, plan, location)

	refsJSON, err := json.Marshal(refs)
	if err != nil {
		log.Printf("trip %s: marshal image refs: %v", tripID, err)
		return
	}
	if err := s.repo.UpdateImageRefs(ctx, tripID, refsJSON); err != nil {
		log.Printf("trip %s: image refs write failed: %v", tripID, err)
		return
	}

	s.publishTrip(ctx, tripID)
}

func (s *tripService) GetTripByID(ctx context.Context, ownerID string, tripID string) (*response_models.TripResponse, error) {
	trip, err := s.ownedTrip(ctx, ownerID, tripID)
	if err != nil {
		return nil, err
	}

	resp := response_models.FromTrip(trip)
	return &resp, nil
}

func (s *tripService) ListTripsByOwner(ctx context.Context, ownerID string, page int, pageSize int) (*response_models.TripListResponse, error) {
	if page < 1 {
		page = 1
	}
	if pageSize < 1 || pageSize > 100 {
		pageSize = 20
	}

	trips, err := s.repo.ListByOwner(ctx, ownerID, page, pageSize)
	if err != nil {
		return nil, utils.ErrDatabaseError
	}

	return &response_models.TripListResponse{
		Trips:    response_models.FromTrips(trips),
		Page:     page,
		PageSize: pageSize,
	}, nil
}

// DeleteTrip hard-deletes the row but parks the full document so the owner
// can undo within the session.
func (s *tripService) DeleteTrip(ctx context.Context, ownerID string, tripID string) error {
	if _, err := s.ownedTrip(ctx, ownerID, tripID); err != nil {
		return err
	}

	trip, err := s.repo.Delete(ctx, tripID)
	if err != nil {
		return utils.ErrDatabaseError
	}
	if trip == nil {
		return utils.ErrTripNotFound
	}

	s.deleted.Park(ownerID, tripID, trip, deletedTripTTL)
	return nil
}

func (s *tripService) RestoreTrip(ctx context.Context, ownerID string, tripID string) (*response_models.TripResponse, error) {
	trip := s.deleted.Take(ownerID, tripID)
	if trip == nil {
		return nil, utils.ErrNoDeletedTrip
	}

	if err := s.repo.Restore(ctx, trip); err != nil {
		return nil, utils.ErrDatabaseError
	}

	s.publishSnapshot(ctx, trip)

	resp := response_models.FromTrip(trip)
	return &resp, nil
}

// WatchTrip subscribes to document updates. The first state arrives in the
// subscriber channel immediately; the returned cancel func must be called
// when the watcher goes away.
func (s *tripService) WatchTrip(ctx context.Context, ownerID string, tripID string) (*stream.Subscriber, func(), error) {
	// Subscribe before the read: a write landing between the two is then
	// delivered through the subscription instead of lost. The watcher may
	// see the same state twice but never misses one.
	sub := s.hub.Subscribe(tripID)

	trip, err := s.ownedTrip(ctx, ownerID, tripID)
	if err != nil {
		s.hub.Unsubscribe(sub)
		return nil, nil, err
	}

	snapshot, err := json.Marshal(response_models.FromTrip(trip))
	if err != nil {
		s.hub.Unsubscribe(sub)
		return nil, nil, fmt.Errorf("marshal snapshot: %w", err)
	}
	sub.Updates <- snapshot

	cancel := func() {
		s.hub.Unsubscribe(sub)
	}
	return sub, cancel, nil
}

// ownedTrip loads a trip and verifies ownership. A trip owned by someone
// else reads as not found so its existence is not leaked.
func (s *tripService) ownedTrip(ctx context.Context, ownerID string, tripID string) (*db_models.Trip, error) {
	trip, err := s.repo.FindById(ctx, tripID)
	if err != nil {
		return nil, utils.ErrDatabaseError
	}
	if trip == nil || trip.OwnerID.String() != ownerID {
		return nil, utils.ErrTripNotFound
	}
	return trip, nil
}

func (s *tripService) publishSnapshot(ctx context.Context, trip *db_models.Trip) {
	payload, err := json.Marshal(response_models.FromTrip(trip))
	if err != nil {
		log.Printf("trip %s: marshal snapshot: %v", trip.ID, err)
		return
	}
	s.hub.Publish(ctx, trip.ID.String(), payload)
}

// publishTrip re-reads the row so watchers always receive exactly what was
// persisted, not what this process thinks it wrote.
func (s *tripService) publishTrip(ctx context.Context, tripID string) {
	trip, err := s.repo.FindById(ctx, tripID)
	if err != nil || trip == nil {
		log.Printf("trip %s: reload for publish failed: %v", tripID, err)
		return
	}
	s.publishSnapshot(ctx, trip)
}
