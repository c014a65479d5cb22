package trip_fx

import (
	"go.uber.org/fx"
	"gorm.io/gorm"

	"roamly/internal/repositories"
	"roamly/internal/services"
	"roamly/internal/stream"
	mem "roamly/pkg/memcache"
	"roamly/pkg/utils"
)

var Module = fx.Provide(
	provideTripRepo,
	provideDeletedTrips,
	provideImageService,
	provideTripService,
	providePlaceGenerationService,
)

func provideTripRepo(db *gorm.DB) repositories.TripRepository {
	return repositories.NewTripRepository(db)
}

func provideDeletedTrips() mem.DeletedTripStore {
	return mem.NewDeletedTrips()
}

func provideImageService(photos services.PhotoLookupInterface) services.TripImageServiceInterface {
	return services.NewTripImageService(photos)
}

func provideTripService(
	ai utils.AIClientInterface,
	tripRepo repositories.TripRepository,
	images services.TripImageServiceInterface,
	hub *stream.Hub,
	deleted mem.DeletedTripStore,
) services.TripServiceInterface {
	return services.NewTripService(ai, tripRepo, images, hub, deleted)
}

func providePlaceGenerationService(
	ai utils.AIClientInterface,
	tripRepo repositories.TripRepository,
	photos services.PhotoLookupInterface,
	hub *stream.Hub,
) services.PlaceGenerationServiceInterface {
	return services.NewPlaceGenerationService(ai, tripRepo, photos, hub)
}
