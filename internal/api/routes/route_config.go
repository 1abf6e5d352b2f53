package routes

import (
	"brrrr-analyzer/internal/api/handlers"
	"brrrr-analyzer/internal/middleware"

	"github.com/gofiber/fiber/v2"
)

type Config struct {
	App             *fiber.App
	ScrapeHandler   handlers.ScrapeHandler
	PropertyHandler handlers.PropertyHandler
	Middleware      middleware.Middleware
}

func (c *Config) Setup() {
	c.App.Use(c.Middleware.RecoverMiddleware())
	c.App.Use(c.Middleware.CORSMiddleware())
	c.GuestRoute()
	c.Scrape()
	c.Properties()
}

func (c *Config) GuestRoute() {
	c.App.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok"})
	})
}

func (c *Config) Scrape() {
	scrape := c.App.Group("/scrape")
	{
		scrape.Post("/run", c.ScrapeHandler.RunScrape)
		scrape.Get("/runs", c.ScrapeHandler.ListRuns)
		scrape.Get("/runs/:id", c.ScrapeHandler.GetRun)
	}
}

func (c *Config) Properties() {
	properties := c.App.Group("/properties")
	{
		properties.Get("", c.PropertyHandler.GetProperties)
		properties.Get("/:id", c.PropertyHandler.GetPropertyDetail)
		properties.Post("/:id/analyze", c.PropertyHandler.AnalyzeProperty)
		properties.Delete("/:id", c.PropertyHandler.DeleteProperty)
	}
}
