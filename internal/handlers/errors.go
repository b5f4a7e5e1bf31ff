package handlers

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"github.com/Keerthana-MS/medibook-backend/internal/services"
	"github.com/Keerthana-MS/medibook-backend/internal/storage"
)

// domainError maps a service/store error to the matching HTTP response.
// Unknown errors become a 500 without leaking internals.
func domainError(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, storage.ErrPatientNotFound),
		errors.Is(err, storage.ErrDoctorNotFound),
		errors.Is(err, storage.ErrAppointmentNotFound):
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": err.Error(),
		})
	case errors.Is(err, storage.ErrSlotConflict),
		errors.Is(err, storage.ErrAlreadyCancelled),
		errors.Is(err, storage.ErrDuplicateContact):
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{
			"error": err.Error(),
		})
	case errors.Is(err, services.ErrUnauthorized):
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"error": err.Error(),
		})
	case errors.Is(err, services.ErrValidation):
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": err.Error(),
		})
	case errors.Is(err, storage.ErrStorageUnavailable):
		return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{
			"error": "Storage temporarily unavailable",
		})
	default:
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Internal server error",
		})
	}
}

// paramID parses a numeric path parameter
func paramID(c *fiber.Ctx, name string) (uint, error) {
	id, err := c.ParamsInt(name)
	if err != nil || id <= 0 {
		return 0, errors.New("invalid id")
	}
	return uint(id), nil
}
