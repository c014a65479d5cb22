package db_fx

import (
	"log"

	"go.uber.org/fx"
	"gorm.io/gorm"

	"roamly/internal/infra"
	"roamly/internal/models/db_models"
)

var Module = fx.Provide(
	provideDB)

func provideDB() *gorm.DB {
	return infra.InitPostgresql()
}

func MigrateDatabase(db *gorm.DB) {
	if err := db.AutoMigrate(&db_models.Account{}, &db_models.Trip{}); err != nil {
		log.Fatalf("Failed to migrate database: %v", err)
	}
}
