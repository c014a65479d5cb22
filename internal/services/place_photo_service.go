package services

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/url"
	"os"
	"regexp"
	"strings"

	"google.golang.org/api/option"
	places "google.golang.org/api/places/v1"

	"roamly/pkg/utils"
)

type PhotoLookupInterface interface {
	FindPhotoRef(ctx context.Context, placeName string, location string) (string, error)
}

type placePhotoService struct {
	svc *places.Service
}

func NewPlacePhotoService(ctx context.Context) (PhotoLookupInterface, error) {
	apiKey := os.Getenv("GOOGLE_MAPS_API_KEY")
	if apiKey == "" {
		return nil, errors.New("GOOGLE_MAPS_API_KEY is not set")
	}

	svc, err := places.NewService(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("create places service: %w", err)
	}

	return &placePhotoService{svc: svc}, nil
}

var unsafeNameChars = regexp.MustCompile(`[^\w\s\-()&]`)
var parenthetical = regexp.MustCompile(`\s+\(.*?\)`)

// searchStrategies orders text queries from most to least specific. Later
// entries trade precision for recall when the model invented a slightly
// wrong place name.
func searchStrategies(placeName string, location string) []string {
	cleaned := strings.TrimSpace(unsafeNameChars.ReplaceAllString(placeName, ""))
	candidates := []string{
		cleaned,
		strings.TrimSpace(parenthetical.ReplaceAllString(cleaned, "")),
		cleaned + " " + location,
		cleaned + " tourist attraction",
		cleaned + " landmark",
		location + " " + cleaned,
	}

	out := make([]string, 0, len(candidates))
	seen := make(map[string]struct{}, len(candidates))
	for _, q := range candidates {
		q = strings.TrimSpace(q)
		if q == "" {
			continue
		}
		if _, dup := seen[q]; dup {
			continue
		}
		seen[q] = struct{}{}
		out = append(out, q)
	}
	return out
}

// FindPhotoRef resolves a photo resource name for a place using a ladder of
// text queries. A place with no photo returns "" with a nil error; only
// quota exhaustion aborts the ladder early so remaining lookups in the same
// batch are not burned.
func (p *placePhotoService) FindPhotoRef(ctx context.Context, placeName string, location string) (string, error) {
	for _, query := range searchStrategies(placeName, location) {
		call := p.svc.Places.SearchText(&places.GoogleMapsPlacesV1SearchTextRequest{
			TextQuery:      query,
			MaxResultCount: 5,
			LanguageCode:   "en",
		})
		call.Header().Set("X-Goog-FieldMask", "places.id,places.displayName,places.photos")

		resp, err := call.Context(ctx).Do()
		if err != nil {
			if errors.Is(utils.CategorizeModelError(err), utils.ErrQuotaExceeded) {
				return "", utils.ErrQuotaExceeded
			}
			log.Printf("places: query %q failed: %v", query, err)
			continue
		}

		for _, place := range resp.Places {
			if len(place.Photos) > 0 {
				return place.Photos[0].Name, nil
			}
		}
	}

	return "", nil
}

// FormPhotoURL turns a photo resource name into a fetchable media URL.
func FormPhotoURL(photoRef string, maxWidthPx int) string {
	if photoRef == "" {
		return ""
	}
	return fmt.Sprintf(
		"https://places.googleapis.com/v1/%s/media?maxWidthPx=%d&key=%s",
		photoRef,
		maxWidthPx,
		url.QueryEscape(os.Getenv("GOOGLE_MAPS_API_KEY")),
	)
}
