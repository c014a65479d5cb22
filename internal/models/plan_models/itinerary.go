package plan_models

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
)

// TripPlan is the persisted AI result. The field names are a wire contract:
// downstream consumers address places as
// tripPlan.travelPlan.itinerary.<dayKey>.plan[].placeName.
type TripPlan struct {
	TravelPlan TravelPlan `json:"travelPlan"`
}

type TravelPlan struct {
	Location  string             `json:"location"`
	Duration  string             `json:"duration"`
	Travelers string             `json:"travelers"`
	Budget    string             `json:"budget"`
	Flight    *Flight            `json:"flight,omitempty"`
	Hotels    []Hotel            `json:"hotels,omitempty"`
	Itinerary map[string]DayPlan `json:"itinerary"`
}

type Flight struct {
	Details    string `json:"details"`
	Price      string `json:"price,omitempty"`
	BookingURL string `json:"bookingUrl,omitempty"`
}

type Hotel struct {
	HotelName      string    `json:"hotelName"`
	Address        string    `json:"address,omitempty"`
	Price          string    `json:"price,omitempty"`
	Rating         float64   `json:"rating,omitempty"`
	GeoCoordinates []float64 `json:"geoCoordinates,omitempty"`
	Description    string    `json:"description,omitempty"`
}

type DayPlan struct {
	BestTime string  `json:"bestTime,omitempty"`
	Plan     []Place `json:"plan"`
}

// Place carries both skeleton fields (name, slot, category, cost band) and
// the detail-pass additions. The skeleton phase simply leaves the detail
// fields empty.
type Place struct {
	PlaceName       string    `json:"placeName"`
	TimeSlot        string    `json:"timeSlot,omitempty"`
	Category        string    `json:"category,omitempty"`
	EstimatedCost   string    `json:"estimatedCost,omitempty"`
	PlaceDetails    string    `json:"placeDetails,omitempty"`
	TicketPricing   string    `json:"ticketPricing,omitempty"`
	TimeToTravel    string    `json:"timeToTravel,omitempty"`
	BestTimeToVisit string    `json:"bestTimeToVisit,omitempty"`
	Tip             string    `json:"tip,omitempty"`
	Rating          float64   `json:"rating,omitempty"`
	GeoCoordinates  []float64 `json:"geoCoordinates,omitempty"`
}

// DayKey returns the canonical key for a 1-based day number.
func DayKey(n int) string {
	return "day" + strconv.Itoa(n)
}

func dayNumber(key string) int {
	digits := strings.TrimFunc(key, func(r rune) bool {
		return r < '0' || r > '9'
	})
	n, err := strconv.Atoi(digits)
	if err != nil {
		return 0
	}
	return n
}

// SortedDayKeys returns the itinerary's day keys ordered by day number, so
// "day10" sorts after "day2".
func SortedDayKeys(itinerary map[string]DayPlan) []string {
	keys := make([]string, 0, len(itinerary))
	for k := range itinerary {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool {
		return dayNumber(keys[i]) < dayNumber(keys[j])
	})
	return keys
}

// ValidateSkeleton rejects a parsed plan that is structurally unusable:
// parsing alone is not validation, and a skeleton with missing days or
// nameless places must fail generation rather than be persisted.
func ValidateSkeleton(p *TripPlan, expectedDays int) error {
	tp := &p.TravelPlan
	if strings.TrimSpace(tp.Location) == "" {
		return fmt.Errorf("plan missing location")
	}
	if len(tp.Itinerary) != expectedDays {
		return fmt.Errorf("expected %d day keys, got %d", expectedDays, len(tp.Itinerary))
	}
	for day := 1; day <= expectedDays; day++ {
		key := DayKey(day)
		dp, ok := tp.Itinerary[key]
		if !ok {
			return fmt.Errorf("missing itinerary key %q", key)
		}
		if len(dp.Plan) == 0 {
			return fmt.Errorf("%s has no places", key)
		}
		for i, place := range dp.Plan {
			if strings.TrimSpace(place.PlaceName) == "" {
				return fmt.Errorf("%s place %d has no name", key, i)
			}
		}
	}
	return nil
}

// ValidateEnhanced checks the detail-pass additions are actually present on
// every place: a document flagged enhanced must never lack them.
func ValidateEnhanced(p *TripPlan) error {
	for _, key := range SortedDayKeys(p.TravelPlan.Itinerary) {
		for i, place := range p.TravelPlan.Itinerary[key].Plan {
			if strings.TrimSpace(place.PlaceName) == "" {
				return fmt.Errorf("%s place %d has no name", key, i)
			}
			if strings.TrimSpace(place.PlaceDetails) == "" {
				return fmt.Errorf("%s place %q has no details", key, place.PlaceName)
			}
			if strings.TrimSpace(place.TicketPricing) == "" {
				return fmt.Errorf("%s place %q has no ticket pricing", key, place.PlaceName)
			}
		}
	}
	return nil
}

// MergeSkeleton unions the skeleton into an enhanced plan in place. The
// detail prompt instructs the model to enhance, not regenerate, but a model
// may still drop a day or a place the user has already seen; those are
// restored here, backfilled with enough detail fields to keep the enhanced
// document uniform.
func MergeSkeleton(enhanced, skeleton *TripPlan) {
	if enhanced.TravelPlan.Itinerary == nil {
		enhanced.TravelPlan.Itinerary = make(map[string]DayPlan, len(skeleton.TravelPlan.Itinerary))
	}
	if enhanced.TravelPlan.Location == "" {
		enhanced.TravelPlan.Location = skeleton.TravelPlan.Location
	}

	for key, skelDay := range skeleton.TravelPlan.Itinerary {
		enhDay, ok := enhanced.TravelPlan.Itinerary[key]
		if !ok {
			enhDay = DayPlan{BestTime: skelDay.BestTime}
		}
		for _, skelPlace := range skelDay.Plan {
			if !containsPlace(enhDay.Plan, skelPlace.PlaceName) {
				enhDay.Plan = append(enhDay.Plan, backfillPlace(skelPlace))
			}
		}
		enhanced.TravelPlan.Itinerary[key] = enhDay
	}

	if len(enhanced.TravelPlan.Hotels) == 0 {
		enhanced.TravelPlan.Hotels = skeleton.TravelPlan.Hotels
	}
	if enhanced.TravelPlan.Flight == nil {
		enhanced.TravelPlan.Flight = skeleton.TravelPlan.Flight
	}
}

func containsPlace(plan []Place, name string) bool {
	want := strings.TrimSpace(strings.ToLower(name))
	for _, p := range plan {
		if strings.TrimSpace(strings.ToLower(p.PlaceName)) == want {
			return true
		}
	}
	return false
}

func backfillPlace(p Place) Place {
	if strings.TrimSpace(p.PlaceDetails) == "" {
		p.PlaceDetails = "Suggested stop carried over from your original itinerary."
	}
	if strings.TrimSpace(p.TicketPricing) == "" {
		if p.EstimatedCost != "" {
			p.TicketPricing = p.EstimatedCost
		} else {
			p.TicketPricing = "Free"
		}
	}
	if strings.TrimSpace(p.TimeToTravel) == "" {
		p.TimeToTravel = "1-2 hours"
	}
	return p
}
