package utils

import (
	"errors"

	"elearn/logger"
	"elearn/middleware"
	progressService "elearn/services/progress"

	"github.com/gofiber/fiber/v2"
)

// ServiceError maps a progress service error onto the response envelope.
// Unexpected errors are logged and answered with a generic 500.
func ServiceError(c *fiber.Ctx, err error, failure string) error {
	switch {
	case errors.Is(err, progressService.ErrInvalidInput):
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, err.Error(), nil)
	case errors.Is(err, progressService.ErrNotFound):
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, err.Error(), nil)
	case errors.Is(err, progressService.ErrConflict):
		return middleware.JsonResponse(c, fiber.StatusConflict, false, "Progress was updated concurrently, please retry!", nil)
	}
	logger.Log.Error(failure, "method", c.Method(), "path", c.Path(), "error", err)
	return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, failure, nil)
}
