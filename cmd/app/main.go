package main

import (
	"context"
	"log"
	"os"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"go.uber.org/fx"

	"roamly/cmd/fx/account_fx"
	"roamly/cmd/fx/ai_fx"
	"roamly/cmd/fx/controllers_fx"
	"roamly/cmd/fx/db_fx"
	"roamly/cmd/fx/places_fx"
	"roamly/cmd/fx/stream_fx"
	"roamly/cmd/fx/trip_fx"
	"roamly/internal/api/controllers"
	"roamly/pkg/middleware"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment variables")
	}

	app := fx.New(
		db_fx.Module,
		stream_fx.Module,
		ai_fx.Module,
		places_fx.Module,
		trip_fx.Module,
		account_fx.Module,
		controllers_fx.Module,

		fx.Provide(ProvideRouter),
		fx.Invoke(db_fx.MigrateDatabase),
		fx.Invoke(StartServer),
	)

	app.Run()
}

func StartServer(lc fx.Lifecycle, engine *gin.Engine) {
	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			go func() {
				port := os.Getenv("PORT")
				if port == "" {
					port = "8080"
				}
				log.Printf("Starting HTTP server at :%s", port)
				if err := engine.Run(":" + port); err != nil {
					log.Fatalf("Failed to start server: %v", err)
				}
			}()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			log.Println("Stopping HTTP server")
			return nil
		},
	})
}

func ProvideRouter(
	tripController *controllers.TripController,
	accountController *controllers.AccountController) *gin.Engine {

	r := gin.Default()
	r.Use(gin.Recovery())
	r.Use(middleware.CORSMiddleware())
	r.Use(middleware.TraceIDMiddleware())

	RegisterRoutes(r, tripController, accountController)

	return r
}

func RegisterRoutes(r *gin.Engine,
	tripController *controllers.TripController,
	accountController *controllers.AccountController) {

	accountGroup := r.Group("/accounts")
	accountGroup.POST("/register", accountController.Register)
	accountGroup.POST("/login", accountController.Login)

	tripGroup := r.Group("/trips")
	tripGroup.Use(middleware.JWTAuthMiddleware())
	tripGroup.POST("", tripController.CreateTrip)
	tripGroup.GET("", tripController.ListTrips)
	tripGroup.GET("/photos", tripController.PhotoURL)
	tripGroup.GET("/:tripId", tripController.GetTrip)
	tripGroup.GET("/:tripId/watch", tripController.WatchTrip)
	tripGroup.POST("/:tripId/places", tripController.GenerateMorePlaces)
	tripGroup.DELETE("/:tripId", tripController.DeleteTrip)
	tripGroup.POST("/:tripId/restore", tripController.RestoreTrip)
}
