package config

import (
	"brrrr-analyzer/internal/api/handlers"
	"brrrr-analyzer/internal/api/routes"
	"brrrr-analyzer/internal/middleware"
	"brrrr-analyzer/internal/utils"
	"brrrr-analyzer/internal/utils/mailing"
	"brrrr-analyzer/internal/utils/storage"
	"brrrr-analyzer/pkg/analysis"
	"brrrr-analyzer/pkg/property"
	"brrrr-analyzer/pkg/scrape"
	"brrrr-analyzer/pkg/source"
	"context"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/log"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"gorm.io/gorm"
)

func NewApp(db *gorm.DB) (*fiber.App, error) {
	utils.InitValidator()
	app := fiber.New(fiber.Config{
		EnablePrintRoutes: true,
	})
	middlewares := middleware.NewMiddleware(utils.GetConfig("CORS_ORIGINS"))
	validator := utils.Validate

	// setting up logging and limiter
	if err := os.MkdirAll("./logs", os.ModePerm); err != nil {
		return nil, fmt.Errorf("error creating logs directory: %w", err)
	}
	file, err := os.OpenFile(
		"./logs/app.log",
		os.O_RDWR|os.O_CREATE|os.O_APPEND,
		0666,
	)
	if err != nil {
		return nil, fmt.Errorf("error opening log file: %w", err)
	}
	app.Use(logger.New(logger.Config{
		TimeFormat: "2006-01-02 15:04:05",
		TimeZone:   "UTC",
		Output:     file,
	}))

	app.Use(limiter.New(limiter.Config{
		Max:        20,
		Expiration: 1 * time.Second,
	}))

	// utils
	candidateSource, err := newCandidateSource()
	if err != nil {
		return nil, err
	}
	archiver, err := newArchiver()
	if err != nil {
		return nil, err
	}
	notifier := newNotifier()

	// Repository
	propertyRepository := property.NewPropertyRepository(db)
	analysisRepository := analysis.NewAnalysisRepository(db)
	scrapeRepository := scrape.NewScrapeRepository(db)

	// Service
	propertyService := property.NewPropertyService(propertyRepository)
	analysisService := analysis.NewAnalysisService(analysisRepository, propertyRepository)
	scrapeService := scrape.NewScrapeService(
		scrape.NewRunLedger(scrapeRepository),
		scrape.NewIngestor(propertyRepository),
		candidateSource,
		archiver,
		notifier,
	)

	// Handler
	scrapeHandler := handlers.NewScrapeHandler(scrapeService, validator)
	propertyHandler := handlers.NewPropertyHandler(propertyService, analysisService)

	// routes
	routesConfig := routes.Config{
		App:             app,
		ScrapeHandler:   scrapeHandler,
		PropertyHandler: propertyHandler,
		Middleware:      middlewares,
	}
	routesConfig.Setup()
	return app, nil
}

func newCandidateSource() (source.CandidateSource, error) {
	seconds, err := strconv.Atoi(utils.GetConfig("SCRAPER_TIMEOUT_SECONDS"))
	if err != nil || seconds < 1 {
		seconds = 20
	}
	return source.NewCandidateSource(
		utils.GetConfig("SCRAPER_MODE"),
		utils.GetConfig("SCRAPER_BASE_URL"),
		time.Duration(seconds)*time.Second,
	)
}

func newArchiver() (scrape.Archiver, error) {
	switch mode := utils.GetConfig("ARCHIVE_MODE"); mode {
	case "", scrape.ArchiveModeNone:
		return scrape.NewNoopArchiver(), nil
	case scrape.ArchiveModeCSV:
		return scrape.NewCSVArchiver(utils.GetConfig("ARCHIVE_DIR")), nil
	case scrape.ArchiveModeS3:
		s3, err := storage.NewAwsS3(context.Background())
		if err != nil {
			return nil, err
		}
		return scrape.NewS3Archiver(s3), nil
	default:
		return nil, fmt.Errorf("unknown archive mode %q", mode)
	}
}

func newNotifier() scrape.Notifier {
	to := utils.GetConfig("NOTIFY_EMAIL")
	if to == "" {
		return scrape.NewNoopNotifier()
	}

	mailConfig := mailing.LoadMailConfig()
	mailer, err := mailing.NewMailer(mailConfig)
	if err != nil {
		log.Warnw("run notifications disabled", "error", err)
		return scrape.NewNoopNotifier()
	}
	return scrape.NewMailNotifier(mailer, to, mailConfig.AppURL)
}
