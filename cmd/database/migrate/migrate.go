package migration

import (
	"brrrr-analyzer/entities"
	"fmt"

	"github.com/gofiber/fiber/v2/log"
	"gorm.io/gorm"
)

func Migrate(db *gorm.DB) error {
	if err := db.Exec(`CREATE EXTENSION IF NOT EXISTS "uuid-ossp";`).Error; err != nil {
		return fmt.Errorf("create uuid-ossp extension: %w", err)
	}

	models := []struct {
		name  string
		model interface{}
	}{
		{"property", &entities.Property{}},
		{"property photo", &entities.PropertyPhoto{}},
		{"analysis result", &entities.AnalysisResult{}},
		{"scrape run", &entities.ScrapeRun{}},
	}
	for _, m := range models {
		if err := db.AutoMigrate(m.model); err != nil {
			log.Errorf("Error migrating %s table: %v", m.name, err)
			return err
		}
	}

	log.Info("Database migration complete")
	return nil
}
