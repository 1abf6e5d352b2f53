package handlers

import (
	"brrrr-analyzer/domain"
	"brrrr-analyzer/internal/api/presenters"
	"brrrr-analyzer/pkg/analysis"
	"brrrr-analyzer/pkg/property"
	"fmt"
	"strconv"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/log"
)

type (
	PropertyHandler interface {
		GetProperties(c *fiber.Ctx) error
		GetPropertyDetail(c *fiber.Ctx) error
		AnalyzeProperty(c *fiber.Ctx) error
		DeleteProperty(c *fiber.Ctx) error
	}

	propertyHandler struct {
		propertyService property.PropertyService
		analysisService analysis.AnalysisService
	}
)

func NewPropertyHandler(propertyService property.PropertyService, analysisService analysis.AnalysisService) PropertyHandler {
	return &propertyHandler{
		propertyService: propertyService,
		analysisService: analysisService,
	}
}

func (h *propertyHandler) GetProperties(c *fiber.Ctx) error {
	filter, err := parsePropertyFilter(c)
	if err != nil {
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, err.Error(), nil)
	}

	res, err := h.propertyService.ListProperties(c.UserContext(), filter)
	if err != nil {
		log.Errorw("list properties failed", "error", err)
		return presenters.ErrorResponse(c, fiber.StatusInternalServerError, domain.MessageFailedGetProperties, err)
	}

	return presenters.SuccessResponse(c, res, fiber.StatusOK)
}

func (h *propertyHandler) GetPropertyDetail(c *fiber.Ctx) error {
	res, err := h.propertyService.GetPropertyDetail(c.UserContext(), c.Params("id"))
	if err != nil {
		return h.fail(c, err, domain.MessageFailedGetProperty)
	}

	return presenters.SuccessResponse(c, res, fiber.StatusOK)
}

func (h *propertyHandler) AnalyzeProperty(c *fiber.Ctx) error {
	res, err := h.analysisService.AnalyzeProperty(c.UserContext(), c.Params("id"))
	if err != nil {
		return h.fail(c, err, domain.MessageFailedAnalyzeProperty)
	}

	return presenters.SuccessResponse(c, res, fiber.StatusOK)
}

func (h *propertyHandler) DeleteProperty(c *fiber.Ctx) error {
	if err := h.propertyService.DeleteProperty(c.UserContext(), c.Params("id")); err != nil {
		return h.fail(c, err, domain.MessageFailedDeleteProperty)
	}

	return presenters.SuccessResponse(c, fiber.Map{"message": domain.MessageSuccessDeleteProperty}, fiber.StatusOK)
}

func (h *propertyHandler) fail(c *fiber.Ctx, err error, message string) error {
	status := presenters.StatusFor(err)
	if status == fiber.StatusNotFound {
		return presenters.ErrorResponse(c, status, "property not found", nil)
	}
	log.Errorw(message, "property_id", c.Params("id"), "error", err)
	return presenters.ErrorResponse(c, status, message, err)
}

func parsePropertyFilter(c *fiber.Ctx) (domain.PropertyFilter, error) {
	var (
		filter domain.PropertyFilter
		err    error
	)

	if filter.Page, err = queryInt(c, "page", domain.DefaultPage); err != nil {
		return filter, err
	}
	if filter.PageSize, err = queryInt(c, "page_size", domain.DefaultPageSize); err != nil {
		return filter, err
	}
	if filter.MinBeds, err = queryInt(c, "min_beds", 0); err != nil {
		return filter, err
	}
	if filter.MinPrice, err = queryFloat(c, "min_price"); err != nil {
		return filter, err
	}
	if filter.MaxPrice, err = queryFloat(c, "max_price"); err != nil {
		return filter, err
	}
	filter.Q = strings.TrimSpace(c.Query("q"))

	return property.NormalizeFilter(filter), nil
}

func queryInt(c *fiber.Ctx, name string, def int) (int, error) {
	raw := strings.TrimSpace(c.Query(name))
	if raw == "" {
		return def, nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("%w: '%s' must be an integer", domain.ErrInvalidArgument, name)
	}
	return v, nil
}

func queryFloat(c *fiber.Ctx, name string) (*float64, error) {
	raw := strings.TrimSpace(c.Query(name))
	if raw == "" {
		return nil, nil
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return nil, fmt.Errorf("%w: '%s' must be a number", domain.ErrInvalidArgument, name)
	}
	return &v, nil
}
