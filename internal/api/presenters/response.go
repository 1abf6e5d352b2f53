package presenters

import (
	"brrrr-analyzer/domain"
	"errors"

	"github.com/gofiber/fiber/v2"
)

type (
	ErrorBody struct {
		Error ErrorDetail `json:"error"`
	}

	ErrorDetail struct {
		Code    string `json:"code"`
		Message string `json:"message"`
		Details any    `json:"details,omitempty"`
	}
)

func SuccessResponse(c *fiber.Ctx, data any, statusCode int) error {
	return c.Status(statusCode).JSON(data)
}

// ErrorResponse writes the error envelope. Details are only echoed for client
// errors; server errors keep their cause out of the body.
func ErrorResponse(c *fiber.Ctx, statusCode int, message string, err error) error {
	body := ErrorBody{Error: ErrorDetail{
		Code:    codeFor(statusCode),
		Message: message,
	}}
	if err != nil && statusCode < fiber.StatusInternalServerError {
		body.Error.Details = err.Error()
	}
	return c.Status(statusCode).JSON(body)
}

func ErrorResponseWithDetails(c *fiber.Ctx, statusCode int, message string, details any) error {
	return c.Status(statusCode).JSON(ErrorBody{Error: ErrorDetail{
		Code:    codeFor(statusCode),
		Message: message,
		Details: details,
	}})
}

// StatusFor maps the domain error taxonomy onto HTTP status codes.
func StatusFor(err error) int {
	switch {
	case errors.Is(err, domain.ErrInvalidArgument):
		return fiber.StatusBadRequest
	case errors.Is(err, domain.ErrNotFound):
		return fiber.StatusNotFound
	default:
		return fiber.StatusInternalServerError
	}
}

func codeFor(statusCode int) string {
	switch {
	case statusCode == fiber.StatusNotFound:
		return domain.CodeNotFound
	case statusCode >= fiber.StatusBadRequest && statusCode < fiber.StatusInternalServerError:
		return domain.CodeInvalidArgument
	default:
		return domain.CodeInternal
	}
}
