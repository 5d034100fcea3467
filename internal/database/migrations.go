package database

import (
	"gamecatalog/internal/models"

	logger "github.com/Bparsons0904/goLogger"
)

// ModelsToMigrate is the full schema managed by GORM.
var ModelsToMigrate = []any{
	&models.Game{},
}

// MigrateModels runs GORM AutoMigrate for all models
func (db *DB) MigrateModels() error {
	log := logger.New("database").Function("MigrateModels")
	log.Info("Starting database migration")

	for _, model := range ModelsToMigrate {
		if err := db.SQL.AutoMigrate(model); err != nil {
			return log.Err("Failed to migrate model", err, "model", model)
		}
	}

	log.Info("Database migration completed successfully")
	return nil
}
