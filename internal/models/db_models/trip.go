package db_models

import (
	"github.com/google/uuid"
	"gorm.io/datatypes"
)

// Trip persists the generated itinerary as JSONB documents. TripPlan and
// ImageRefs live in separate columns so photo enrichment and the
// enhancement flip update disjoint data.
type Trip struct {
	BaseModel
	OwnerID     uuid.UUID      `gorm:"type:uuid;index;not null" json:"owner_id"`
	Preferences datatypes.JSON `gorm:"type:jsonb" json:"preferences"`
	TripPlan    datatypes.JSON `gorm:"type:jsonb" json:"trip_plan"`
	ImageRefs   datatypes.JSON `gorm:"type:jsonb" json:"image_refs"`
	IsEnhanced  bool           `gorm:"default:false" json:"is_enhanced"`
}

func (Trip) TableName() string {
	return "trips"
}
