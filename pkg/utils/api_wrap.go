package utils

import (
	"errors"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
)

type APIResponse struct {
	Status  string      `json:"status"`
	Code    int         `json:"code"`
	Message string      `json:"message,omitempty"`
	TraceID string      `json:"trace_id,omitempty"`
	Data    interface{} `json:"data,omitempty"`
}

func traceID(c *gin.Context) string {
	if v, ok := c.Get("trace_id"); ok {
		if s, ok := v.(string); ok {
			return s
		}
	}
	return ""
}

func RespondSuccess(c *gin.Context, data interface{}, message string) {
	c.JSON(http.StatusOK, APIResponse{
		Status:  "success",
		Code:    http.StatusOK,
		Message: message,
		TraceID: traceID(c),
		Data:    data,
	})
}

func RespondError(c *gin.Context, code int, message string) {
	c.JSON(code, APIResponse{
		Status:  "error",
		Code:    code,
		Message: message,
		TraceID: traceID(c),
	})
}

// HandleServiceError maps service errors to status codes and guidance text.
// Generation failures get category-specific guidance so the user knows
// whether to wait, fix configuration, or just retry.
func HandleServiceError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, ErrQuotaExceeded):
		RespondError(c, http.StatusTooManyRequests, "API quota exceeded. Please try again later.")
	case errors.Is(err, ErrInvalidAPIKey):
		log.Printf("model key rejected: %v", err)
		RespondError(c, http.StatusInternalServerError, "Invalid API key. Please check configuration.")
	case errors.Is(err, ErrModelUnavailable):
		RespondError(c, http.StatusServiceUnavailable, "AI model temporarily unavailable. Please try again.")
	case errors.Is(err, ErrMalformedResponse):
		log.Printf("malformed model output: %v", err)
		RespondError(c, http.StatusBadGateway, "Received invalid response from AI. Please try again.")
	case errors.Is(err, ErrModelExhausted):
		log.Printf("model fallback exhausted: %v", err)
		RespondError(c, http.StatusBadGateway, "Failed to generate trip. Please check your internet connection and try again.")
	case errors.Is(err, ErrTripNotFound):
		RespondError(c, http.StatusNotFound, "Trip not found")
	case errors.Is(err, ErrNoDeletedTrip):
		RespondError(c, http.StatusNotFound, "No recently deleted trip to restore")
	case errors.Is(err, ErrAccountNotFound):
		RespondError(c, http.StatusNotFound, "Account not found")
	case errors.Is(err, ErrEmailAlreadyExists):
		RespondError(c, http.StatusConflict, "Email already registered")
	case errors.Is(err, ErrInvalidCredentials):
		RespondError(c, http.StatusUnauthorized, "Invalid email or password")
	case errors.Is(err, ErrInvalidInput):
		RespondError(c, http.StatusBadRequest, "Invalid request")
	case errors.Is(err, ErrDatabaseError):
		log.Printf("database error: %v", err)
		RespondError(c, http.StatusInternalServerError, "Internal server error")
	default:
		log.Printf("unknown error: %v", err)
		RespondError(c, http.StatusInternalServerError, "Internal server error")
	}
}
