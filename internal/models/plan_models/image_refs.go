package plan_models

// ImageRefs holds Places photo resource names keyed separately from the
// plan document so image writes never race with the enhancement flip.
// Hotels are keyed by positional index; places by day key then index
// within that day's plan.
type ImageRefs struct {
	Destination string                       `json:"destination,omitempty"`
	Hotels      map[string]string            `json:"hotels,omitempty"`
	Places      map[string]map[string]string `json:"places,omitempty"`
}

func NewImageRefs() *ImageRefs {
	return &ImageRefs{
		Hotels: make(map[string]string),
		Places: make(map[string]map[string]string),
	}
}

// SetPlaceRef records a photo ref for the i-th place of a day.
func (r *ImageRefs) SetPlaceRef(dayKey string, index string, ref string) {
	if r.Places == nil {
		r.Places = make(map[string]map[string]string)
	}
	if r.Places[dayKey] == nil {
		r.Places[dayKey] = make(map[string]string)
	}
	r.Places[dayKey][index] = ref
}

// SetHotelRef records a photo ref for the i-th hotel.
func (r *ImageRefs) SetHotelRef(index string, ref string) {
	if r.Hotels == nil {
		r.Hotels = make(map[string]string)
	}
	r.Hotels[index] = ref
}
