package main

import (
	"brrrr-analyzer/cmd/config"
	migration "brrrr-analyzer/cmd/database/migrate"
	"brrrr-analyzer/cmd/database/seed"
	"brrrr-analyzer/internal/utils"
	"brrrr-analyzer/pkg/property"
	"context"
	"flag"

	"github.com/gofiber/fiber/v2/log"
)

func main() {
	migrate := flag.Bool("migrate", false, "run database migrations before starting")
	seedData := flag.Bool("seed", false, "insert demo properties before starting")
	configPath := flag.String("config", "config.yaml", "path to config file")
	flag.Parse()

	utils.LoadConfigFrom(*configPath)
	log.SetLevel(logLevel(utils.GetConfig("LOG_LEVEL")))

	db, err := config.ConnectDB()
	if err != nil {
		log.Fatalf("%v", err)
	}

	if *migrate {
		if err := migration.Migrate(db); err != nil {
			log.Fatalf("migration failed: %v", err)
		}
	}

	if *seedData {
		n, err := seed.Seed(context.Background(), property.NewPropertyRepository(db))
		if err != nil {
			log.Fatalf("seeding failed: %v", err)
		}
		log.Infow("seeding complete", "inserted", n)
	}

	app, err := config.NewApp(db)
	if err != nil {
		log.Fatalf("failed to build app: %v", err)
	}

	if err := app.Listen(":" + utils.GetConfig("APP_PORT")); err != nil {
		log.Fatalf("server stopped: %v", err)
	}
}

func logLevel(level string) log.Level {
	switch level {
	case "trace":
		return log.LevelTrace
	case "debug":
		return log.LevelDebug
	case "warn":
		return log.LevelWarn
	case "error":
		return log.LevelError
	default:
		return log.LevelInfo
	}
}
