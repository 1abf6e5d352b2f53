package handlers

import (
	"brrrr-analyzer/domain"
	"brrrr-analyzer/internal/api/presenters"
	"brrrr-analyzer/pkg/scrape"
	"errors"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/log"
)

type (
	ScrapeHandler interface {
		RunScrape(c *fiber.Ctx) error
		ListRuns(c *fiber.Ctx) error
		GetRun(c *fiber.Ctx) error
	}

	scrapeHandler struct {
		scrapeService scrape.ScrapeService
		validator     *validator.Validate
	}
)

func NewScrapeHandler(scrapeService scrape.ScrapeService, validator *validator.Validate) ScrapeHandler {
	return &scrapeHandler{
		scrapeService: scrapeService,
		validator:     validator,
	}
}

func (h *scrapeHandler) RunScrape(c *fiber.Ctx) error {
	req := new(domain.RunScrapeRequest)

	if len(c.Body()) > 0 {
		if err := c.BodyParser(req); err != nil {
			if errors.Is(err, domain.ErrInvalidArgument) {
				return presenters.ErrorResponse(c, fiber.StatusBadRequest, err.Error(), nil)
			}
			return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedBodyRequest, err)
		}
	}

	if err := h.validator.Struct(req); err != nil {
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.ErrQueryRequired.Error(), nil)
	}

	res, err := h.scrapeService.RunScrape(c.UserContext(), *req)
	if err != nil {
		var fatal *domain.FatalRunError
		switch {
		case errors.Is(err, domain.ErrInvalidArgument):
			return presenters.ErrorResponse(c, fiber.StatusBadRequest, err.Error(), nil)
		case errors.As(err, &fatal) && fatal.RunID != "":
			return presenters.ErrorResponseWithDetails(c, fiber.StatusInternalServerError, domain.MessageFailedRunScrape, fiber.Map{
				"run_id": fatal.RunID,
			})
		default:
			log.Errorw("scrape run request failed", "error", err)
			return presenters.ErrorResponse(c, fiber.StatusInternalServerError, domain.MessageFailedRunScrape, err)
		}
	}

	return presenters.SuccessResponse(c, res, fiber.StatusOK)
}

func (h *scrapeHandler) ListRuns(c *fiber.Ctx) error {
	res, err := h.scrapeService.ListRuns(c.UserContext())
	if err != nil {
		log.Errorw("list scrape runs failed", "error", err)
		return presenters.ErrorResponse(c, fiber.StatusInternalServerError, domain.MessageFailedGetRuns, err)
	}

	return presenters.SuccessResponse(c, res, fiber.StatusOK)
}

func (h *scrapeHandler) GetRun(c *fiber.Ctx) error {
	res, err := h.scrapeService.GetRun(c.UserContext(), c.Params("id"))
	if err != nil {
		status := presenters.StatusFor(err)
		if status == fiber.StatusNotFound {
			return presenters.ErrorResponse(c, status, "scrape run not found", nil)
		}
		log.Errorw("get scrape run failed", "run_id", c.Params("id"), "error", err)
		return presenters.ErrorResponse(c, status, domain.MessageFailedGetRun, err)
	}

	return presenters.SuccessResponse(c, res, fiber.StatusOK)
}
