package controllers

import (
	"io"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"roamly/internal/models/request_models"
	"roamly/internal/services"
	"roamly/pkg/utils"
)

type TripController struct {
	tripService  services.TripServiceInterface
	placeService services.PlaceGenerationServiceInterface
}

func NewTripController(
	tripService services.TripServiceInterface,
	placeService services.PlaceGenerationServiceInterface,
) *TripController {
	return &TripController{
		tripService:  tripService,
		placeService: placeService,
	}
}

func currentUserID(c *gin.Context) string {
	if v, ok := c.Get("user_id"); ok {
		if s, ok := v.(string); ok {
			return s
		}
	}
	return ""
}

// CreateTrip godoc
// @Summary Generate a new trip
// @Description Generate a trip itinerary from preferences. Returns the skeleton immediately; detail and images arrive in the background.
// @Tags Trips
// @Accept json
// @Produce json
// @Param request body request_models.TripPreferences true "Trip preferences"
// @Success 200 {object} utils.APIResponse
// @Failure 400 {object} utils.APIResponse
// @Router /trips [post]
func (t *TripController) CreateTrip(c *gin.Context) {
	var req request_models.TripPreferences
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, "Invalid request format")
		return
	}

	trip, err := t.tripService.CreateTrip(c.Request.Context(), currentUserID(c), &req)
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}

	utils.RespondSuccess(c, trip, "Trip generated")
}

// ListTrips godoc
// @Summary List trips
// @Description List the authenticated user's trips, newest first
// @Tags Trips
// @Produce json
// @Param page query int false "Page number"
// @Param page_size query int false "Page size"
// @Success 200 {object} utils.APIResponse
// @Router /trips [get]
func (t *TripController) ListTrips(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(c.DefaultQuery("page_size", "20"))

	trips, err := t.tripService.ListTripsByOwner(c.Request.Context(), currentUserID(c), page, pageSize)
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}

	utils.RespondSuccess(c, trips, "")
}

// GetTrip godoc
// @Summary Get a trip
// @Description Fetch a single trip document
// @Tags Trips
// @Produce json
// @Param tripId path string true "Trip ID"
// @Success 200 {object} utils.APIResponse
// @Failure 404 {object} utils.APIResponse
// @Router /trips/{tripId} [get]
func (t *TripController) GetTrip(c *gin.Context) {
	trip, err := t.tripService.GetTripByID(c.Request.Context(), currentUserID(c), c.Param("tripId"))
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}

	utils.RespondSuccess(c, trip, "")
}

// WatchTrip godoc
// @Summary Watch a trip for live updates
// @Description Server-sent event stream of trip document snapshots. Emits the current state immediately, then one event per background write.
// @Tags Trips
// @Produce text/event-stream
// @Param tripId path string true "Trip ID"
// @Success 200 {object} utils.APIResponse
// @Failure 404 {object} utils.APIResponse
// @Router /trips/{tripId}/watch [get]
func (t *TripController) WatchTrip(c *gin.Context) {
	sub, cancel, err := t.tripService.WatchTrip(c.Request.Context(), currentUserID(c), c.Param("tripId"))
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}
	defer cancel()

	clientGone := c.Request.Context().Done()
	c.Stream(func(w io.Writer) bool {
		select {
		case payload, ok := <-sub.Updates:
			if !ok {
				return false
			}
			c.SSEvent("trip", string(payload))
			return true
		case <-clientGone:
			return false
		}
	})
}

// GenerateMorePlaces godoc
// @Summary Add more places to a trip
// @Description Generate additional places in a category and fold them into the itinerary
// @Tags Trips
// @Accept json
// @Produce json
// @Param tripId path string true "Trip ID"
// @Param request body request_models.MorePlacesRequest true "Place filter"
// @Success 200 {object} utils.APIResponse
// @Failure 404 {object} utils.APIResponse
// @Router /trips/{tripId}/places [post]
func (t *TripController) GenerateMorePlaces(c *gin.Context) {
	var req request_models.MorePlacesRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, "Invalid request format")
		return
	}

	trip, err := t.placeService.GenerateMorePlaces(c.Request.Context(), currentUserID(c), c.Param("tripId"), &req)
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}

	utils.RespondSuccess(c, trip, "Places added")
}

// DeleteTrip godoc
// @Summary Delete a trip
// @Description Delete a trip. The trip can be restored for a short period afterwards.
// @Tags Trips
// @Produce json
// @Param tripId path string true "Trip ID"
// @Success 200 {object} utils.APIResponse
// @Failure 404 {object} utils.APIResponse
// @Router /trips/{tripId} [delete]
func (t *TripController) DeleteTrip(c *gin.Context) {
	if err := t.tripService.DeleteTrip(c.Request.Context(), currentUserID(c), c.Param("tripId")); err != nil {
		utils.HandleServiceError(c, err)
		return
	}

	utils.RespondSuccess(c, nil, "Trip deleted")
}

// RestoreTrip godoc
// @Summary Restore a deleted trip
// @Description Restore a recently deleted trip with its original id and content
// @Tags Trips
// @Produce json
// @Param tripId path string true "Trip ID"
// @Success 200 {object} utils.APIResponse
// @Failure 404 {object} utils.APIResponse
// @Router /trips/{tripId}/restore [post]
func (t *TripController) RestoreTrip(c *gin.Context) {
	trip, err := t.tripService.RestoreTrip(c.Request.Context(), currentUserID(c), c.Param("tripId"))
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}

	utils.RespondSuccess(c, trip, "Trip restored")
}

// PhotoURL godoc
// @Summary Resolve a photo ref to a media URL
// @Description Turn a photo resource name from image_refs into a fetchable URL
// @Tags Trips
// @Produce json
// @Param ref query string true "Photo resource name"
// @Param max_width query int false "Maximum image width in pixels"
// @Success 200 {object} utils.APIResponse
// @Failure 400 {object} utils.APIResponse
// @Router /trips/photos [get]
func (t *TripController) PhotoURL(c *gin.Context) {
	ref := c.Query("ref")
	if ref == "" {
		utils.RespondError(c, http.StatusBadRequest, "ref is required")
		return
	}
	maxWidth, err := strconv.Atoi(c.DefaultQuery("max_width", "800"))
	if err != nil || maxWidth < 1 {
		maxWidth = 800
	}

	utils.RespondSuccess(c, gin.H{"url": services.FormPhotoURL(ref, maxWidth)}, "")
}
