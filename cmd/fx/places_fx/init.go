package places_fx

import (
	"context"
	"log"

	"go.uber.org/fx"

	"roamly/internal/services"
)

var Module = fx.Provide(providePhotoLookup)

func providePhotoLookup() services.PhotoLookupInterface {
	svc, err := services.NewPlacePhotoService(context.Background())
	if err != nil {
		log.Fatalf("Failed to create places client: %v", err)
	}
	return svc
}
