package handlers

import (
	"strconv"

	"github.com/gofiber/fiber/v3"

	"tile-planner/internal/planner/catalog"
	"tile-planner/internal/planner/units"
)

// ============================================================
// Reference data
// ============================================================

func (h *PlannerHandler) Catalog(c fiber.Ctx) error {
	return c.JSON(fiber.Map{"colors": catalog.All()})
}

// Layout returns the current room template and the geometry derived from it.
func (h *PlannerHandler) Layout(c fiber.Ctx) error {
	tmpl := h.sessions.Template()
	geo := h.sessions.Geometry()
	return c.JSON(fiber.Map{
		"template": tmpl,
		"geometry": geo,
		"labels": fiber.Map{
			"width":  units.FormatLength(geo.Room.Width),
			"height": units.FormatLength(geo.Room.Height),
		},
	})
}

func (h *PlannerHandler) FormatLength(c fiber.Ctx) error {
	cm, err := strconv.ParseFloat(c.Query("cm"), 64)
	if err != nil {
		return badRequest(c, "cm must be a number")
	}
	return c.JSON(fiber.Map{
		"cm":            cm,
		"drawing_units": units.ToDrawingUnits(cm),
		"label":         units.FormatCentimeters(cm),
	})
}
