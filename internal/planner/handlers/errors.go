package handlers

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"strconv"

	"github.com/gofiber/fiber/v3"

	"tile-planner/internal/planner/catalog"
	"tile-planner/internal/planner/models"
	"tile-planner/internal/planner/service"
)

// fail writes err as a JSON error body with the status its kind maps to.
func fail(c fiber.Ctx, err error) error {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, service.ErrSessionNotFound):
		status = http.StatusNotFound
	case errors.Is(err, models.ErrOutOfRange), errors.Is(err, catalog.ErrInvalidColor):
		status = http.StatusBadRequest
	case errors.Is(err, models.ErrCapacityExceeded):
		status = http.StatusConflict
	default:
		log.Printf("[PLANNER] %s %s: %v", c.Method(), c.Path(), err)
	}
	return c.Status(status).JSON(fiber.Map{"error": err.Error()})
}

func badRequest(c fiber.Ctx, msg string) error {
	return c.Status(http.StatusBadRequest).JSON(fiber.Map{"error": msg})
}

// decodeBody unmarshals the request body into v. An empty body leaves v as is
// unless required.
func decodeBody(c fiber.Ctx, v any, required bool) error {
	if len(c.Body()) == 0 {
		if required {
			return errors.New("body required")
		}
		return nil
	}
	if err := json.Unmarshal(c.Body(), v); err != nil {
		return errors.New("invalid json")
	}
	return nil
}

func intParam(c fiber.Ctx, name string) (int, error) {
	n, err := strconv.Atoi(c.Params(name))
	if err != nil {
		return 0, errors.New(name + " must be an integer")
	}
	return n, nil
}
