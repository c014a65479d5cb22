package response_models

import (
	"encoding/json"
	"log"

	"roamly/internal/models/db_models"
	"roamly/internal/models/plan_models"
	"roamly/internal/models/request_models"
)

type TripResponse struct {
	ID          string                           `json:"id"`
	OwnerID     string                           `json:"owner_id"`
	Preferences *request_models.TripPreferences  `json:"preferences,omitempty"`
	TripPlan    *plan_models.TripPlan            `json:"trip_plan,omitempty"`
	ImageRefs   *plan_models.ImageRefs           `json:"image_refs,omitempty"`
	IsEnhanced  bool                             `json:"is_enhanced"`
	CreatedAt   int64                            `json:"created_at"`
}

type TripListResponse struct {
	Trips    []TripResponse `json:"trips"`
	Page     int            `json:"page"`
	PageSize int            `json:"page_size"`
}

// FromTrip projects a trip row into its API shape. JSONB columns that fail
// to unmarshal are logged and omitted rather than failing the whole read.
func FromTrip(t *db_models.Trip) TripResponse {
	resp := TripResponse{
		ID:         t.ID.String(),
		OwnerID:    t.OwnerID.String(),
		IsEnhanced: t.IsEnhanced,
		CreatedAt:  t.CreatedAt,
	}
	if len(t.Preferences) > 0 {
		var prefs request_models.TripPreferences
		if err := json.Unmarshal(t.Preferences, &prefs); err != nil {
			log.Printf("trip %s: bad preferences json: %v", t.ID, err)
		} else {
			resp.Preferences = &prefs
		}
	}
	if len(t.TripPlan) > 0 {
		var plan plan_models.TripPlan
		if err := json.Unmarshal(t.TripPlan, &plan); err != nil {
			log.Printf("trip %s: bad trip_plan json: %v", t.ID, err)
		} else {
			resp.TripPlan = &plan
		}
	}
	if len(t.ImageRefs) > 0 {
		var refs plan_models.ImageRefs
		if err := json.Unmarshal(t.ImageRefs, &refs); err != nil {
			log.Printf("trip %s: bad image_refs json: %v", t.ID, err)
		} else {
			resp.ImageRefs = &refs
		}
	}
	return resp
}

func FromTrips(rows []db_models.Trip) []TripResponse {
	out := make([]TripResponse, 0, len(rows))
	for i := range rows {
		out = append(out, FromTrip(&rows[i]))
	}
	return out
}
