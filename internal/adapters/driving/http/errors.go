package http

import (
	"errors"

	"github.com/gofiber/fiber/v3"

	"github.com/custodia-labs/membox/internal/core/domain"
	"github.com/custodia-labs/membox/internal/logger"
)

// statusFor maps an error to the HTTP status returned to clients.
func statusFor(err error) int {
	var fe *fiber.Error
	switch {
	case errors.As(err, &fe):
		return fe.Code
	case errors.Is(err, domain.ErrMalformedQuery), errors.Is(err, domain.ErrInvalidInput):
		return fiber.StatusBadRequest
	case errors.Is(err, domain.ErrNotFound):
		return fiber.StatusNotFound
	case errors.Is(err, domain.ErrEmptyEmbeddingSpace):
		return fiber.StatusConflict
	case errors.Is(err, domain.ErrExtractionFailed), errors.Is(err, domain.ErrUnsupportedType):
		return fiber.StatusUnprocessableEntity
	default:
		return fiber.StatusInternalServerError
	}
}

// errorHandler renders every handler error as {"error": msg}.
func errorHandler(c fiber.Ctx, err error) error {
	status := statusFor(err)
	msg := err.Error()
	var fe *fiber.Error
	if errors.As(err, &fe) {
		msg = fe.Message
	}
	if status >= fiber.StatusInternalServerError {
		logger.Error("%s %s: %v", c.Method(), c.Path(), err)
	}
	return c.Status(status).JSON(fiber.Map{"error": msg})
}
