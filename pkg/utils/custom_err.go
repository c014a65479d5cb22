package utils

import (
	"errors"
	"fmt"
	"strings"
)

var (
	ErrModelExhausted    = errors.New("all candidate models failed")
	ErrMalformedResponse = errors.New("model response is not valid JSON")
	ErrQuotaExceeded     = errors.New("model quota exceeded")
	ErrInvalidAPIKey     = errors.New("model API key rejected")
	ErrModelUnavailable  = errors.New("model temporarily unavailable")

	ErrTripNotFound       = errors.New("trip not found")
	ErrNoDeletedTrip      = errors.New("no recently deleted trip to restore")
	ErrAccountNotFound    = errors.New("account not found")
	ErrEmailAlreadyExists = errors.New("email already registered")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrInvalidInput       = errors.New("invalid input")
	ErrDatabaseError      = errors.New("database error")
)

// MalformedResponseError carries the parse failure plus the edges of the
// candidate text so a truncated or prose-wrapped response can be diagnosed
// from logs without dumping the whole payload.
type MalformedResponseError struct {
	Reason string
	Head   string
	Tail   string
}

func (e *MalformedResponseError) Error() string {
	return fmt.Sprintf("malformed model response: %s (head=%q tail=%q)", e.Reason, e.Head, e.Tail)
}

func (e *MalformedResponseError) Unwrap() error {
	return ErrMalformedResponse
}

func NewMalformedResponseError(reason, candidate string) *MalformedResponseError {
	const edge = 100
	head := candidate
	if len(head) > edge {
		head = head[:edge]
	}
	tail := candidate
	if len(tail) > edge {
		tail = tail[len(tail)-edge:]
	}
	return &MalformedResponseError{Reason: reason, Head: head, Tail: tail}
}

// CategorizeModelError maps a raw provider error onto the sentinel that
// drives the user-facing guidance text. Unrecognized causes pass through
// untouched.
func CategorizeModelError(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, ErrMalformedResponse) {
		return err
	}
	msg := strings.ToLower(err.Error())
	switch {
	case strings.Contains(msg, "quota") || strings.Contains(msg, "resource_exhausted") || strings.Contains(msg, "429"):
		return fmt.Errorf("%w: %v", ErrQuotaExceeded, err)
	case strings.Contains(msg, "api key") || strings.Contains(msg, "api_key") || strings.Contains(msg, "unauthenticated"):
		return fmt.Errorf("%w: %v", ErrInvalidAPIKey, err)
	case strings.Contains(msg, "not found") || strings.Contains(msg, "404"):
		return fmt.Errorf("%w: %v", ErrModelUnavailable, err)
	default:
		return err
	}
}
