package request_models

// TripPreferences is the trip creation payload. It is also persisted
// verbatim on the trip row so regeneration and prompts can reuse it.
type TripPreferences struct {
	Destination            string   `json:"destination" binding:"required"`
	TotalDays              int      `json:"total_days" binding:"required,min=1,max=30"`
	Traveler               string   `json:"traveler" binding:"required"`
	Budget                 string   `json:"budget" binding:"required"`
	DailyBudget            string   `json:"daily_budget,omitempty"`
	ActivityPreferences    []string `json:"activity_preferences,omitempty"`
	ActivityCostPreference string   `json:"activity_cost_preference,omitempty" binding:"omitempty,oneof=free mixed premium"`
	PhotoRef               string   `json:"photo_ref,omitempty"`
	Latitude               float64  `json:"latitude,omitempty"`
	Longitude              float64  `json:"longitude,omitempty"`
}

type MorePlacesRequest struct {
	FilterType  string `json:"filter_type" binding:"required,oneof=attractions restaurants nature shopping entertainment"`
	FilterLabel string `json:"filter_label,omitempty"`
}
