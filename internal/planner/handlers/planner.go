package handlers

import (
	"log"
	"net/http"

	"github.com/gofiber/fiber/v3"

	"tile-planner/internal/common/middleware"
	"tile-planner/internal/planner/editor"
	"tile-planner/internal/planner/palette"
	"tile-planner/internal/planner/render"
	"tile-planner/internal/planner/service"
)

// ============================================================
// Planner Handler
// ============================================================

type PlannerHandler struct {
	sessions *service.SessionManager
	renderer *render.Renderer
}

func NewPlannerHandler(sessions *service.SessionManager, renderer *render.Renderer) *PlannerHandler {
	return &PlannerHandler{
		sessions: sessions,
		renderer: renderer,
	}
}

// Register mounts every planner route on r.
func (h *PlannerHandler) Register(r fiber.Router) {
	r.Get("/docs", SwaggerUI)
	r.Get("/docs/openapi.yaml", OpenAPISpec)

	r.Get("/catalog", h.Catalog)
	r.Get("/layout", h.Layout)
	r.Get("/units/format", h.FormatLength)

	r.Post("/sessions", h.CreateSession)
	r.Get("/sessions", h.ListSessions)
	r.Get("/sessions/:id", h.GetSession)
	r.Delete("/sessions/:id", h.DeleteSession)
	r.Post("/sessions/:id/reset", h.NewProject)

	r.Post("/sessions/:id/palette", h.AddColor)
	r.Put("/sessions/:id/palette/:index", h.UpdateColor)
	r.Delete("/sessions/:id/palette/:index", h.RemoveColor)
	r.Delete("/sessions/:id/palette", h.ResetPalette)
	r.Put("/sessions/:id/active", h.SetActive)

	r.Get("/sessions/:id/cells/:row/:col", h.GetCell)
	r.Post("/sessions/:id/cells/:row/:col", h.PaintCell)
	r.Delete("/sessions/:id/cells", h.ClearGrid)

	r.Put("/sessions/:id/mode", h.SetMode)
	r.Post("/sessions/:id/pointer", h.Pointer)
	r.Get("/sessions/:id/walls", h.GetWalls)
	r.Delete("/sessions/:id/walls", h.ClearWalls)
	r.Get("/sessions/:id/preview", h.GetPreview)
	r.Put("/sessions/:id/joint", h.SetJointColor)
	r.Get("/sessions/:id/svg", h.RenderSVG)
}

// ============================================================
// Sessions
// ============================================================

func (h *PlannerHandler) CreateSession(c fiber.Ctx) error {
	id, err := h.sessions.Create(c.Context())
	if err != nil {
		return fail(c, err)
	}
	c.Locals(middleware.LocalSession, id)
	var state editor.State
	err = h.sessions.View(c.Context(), id, func(s *editor.Session) error {
		state = s.State()
		return nil
	})
	if err != nil {
		return fail(c, err)
	}
	return c.Status(http.StatusCreated).JSON(fiber.Map{
		"id":    id,
		"state": state,
	})
}

func (h *PlannerHandler) ListSessions(c fiber.Ctx) error {
	list, err := h.sessions.List(c.Context())
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(list)
}

func (h *PlannerHandler) GetSession(c fiber.Ctx) error {
	return h.view(c, func(s *editor.Session) (any, error) {
		return s.State(), nil
	})
}

func (h *PlannerHandler) DeleteSession(c fiber.Ctx) error {
	if err := h.sessions.Delete(c.Context(), sessionParam(c)); err != nil {
		return fail(c, err)
	}
	return c.SendStatus(http.StatusNoContent)
}

// NewProject clears palette, grid and walls.
func (h *PlannerHandler) NewProject(c fiber.Ctx) error {
	log.Printf("[PLANNER] new project for session %s", sessionParam(c))
	return h.update(c, func(s *editor.Session) (any, error) {
		s.NewProject()
		return s.State(), nil
	})
}

// ============================================================
// Palette
// ============================================================

type colorRequest struct {
	Color string `json:"color"`
}

type activeRequest struct {
	Index *int `json:"index"`
}

func (h *PlannerHandler) AddColor(c fiber.Ctx) error {
	var req colorRequest
	if err := decodeBody(c, &req, true); err != nil {
		return badRequest(c, err.Error())
	}

	var index int
	var colors []string
	err := h.sessions.With(c.Context(), sessionParam(c), func(s *editor.Session) error {
		var err error
		index, err = s.AddColor(req.Color)
		colors = s.Colors()
		return err
	})
	if err != nil {
		return fail(c, err)
	}
	return c.Status(http.StatusCreated).JSON(fiber.Map{
		"index":   index,
		"palette": colors,
	})
}

func (h *PlannerHandler) UpdateColor(c fiber.Ctx) error {
	index, err := intParam(c, "index")
	if err != nil {
		return badRequest(c, err.Error())
	}
	var req colorRequest
	if err := decodeBody(c, &req, true); err != nil {
		return badRequest(c, err.Error())
	}
	return h.update(c, func(s *editor.Session) (any, error) {
		if err := s.UpdateColor(index, req.Color); err != nil {
			return nil, err
		}
		return fiber.Map{"palette": s.Colors()}, nil
	})
}

func (h *PlannerHandler) RemoveColor(c fiber.Ctx) error {
	index, err := intParam(c, "index")
	if err != nil {
		return badRequest(c, err.Error())
	}
	return h.update(c, func(s *editor.Session) (any, error) {
		if err := s.RemoveColor(index); err != nil {
			return nil, err
		}
		return s.State(), nil
	})
}

func (h *PlannerHandler) ResetPalette(c fiber.Ctx) error {
	return h.update(c, func(s *editor.Session) (any, error) {
		s.ResetPalette()
		return s.State(), nil
	})
}

// SetActive selects a palette entry; a null index clears the selection.
func (h *PlannerHandler) SetActive(c fiber.Ctx) error {
	var req activeRequest
	if err := decodeBody(c, &req, true); err != nil {
		return badRequest(c, err.Error())
	}
	return h.update(c, func(s *editor.Session) (any, error) {
		if req.Index == nil {
			s.ClearActive()
		} else if err := s.SetActive(*req.Index); err != nil {
			return nil, err
		}
		return fiber.Map{"active": activeIndex(s)}, nil
	})
}

// ============================================================
// Cells
// ============================================================

type paintRequest struct {
	Index *int `json:"index"`
	Clear bool `json:"clear"`
}

func (h *PlannerHandler) GetCell(c fiber.Ctx) error {
	row, col, err := cellParams(c)
	if err != nil {
		return badRequest(c, err.Error())
	}
	return h.view(c, func(s *editor.Session) (any, error) {
		index, err := s.Cell(row, col)
		if err != nil {
			return nil, err
		}
		resp := fiber.Map{"row": row, "col": col, "index": nil, "color": nil}
		if index >= 0 {
			resp["index"] = index
			resp["color"] = s.Colors()[index]
		}
		return resp, nil
	})
}

// PaintCell paints with the active color, or with an explicit index, or clears
// the cell when asked to.
func (h *PlannerHandler) PaintCell(c fiber.Ctx) error {
	row, col, err := cellParams(c)
	if err != nil {
		return badRequest(c, err.Error())
	}
	var req paintRequest
	if err := decodeBody(c, &req, false); err != nil {
		return badRequest(c, err.Error())
	}
	return h.update(c, func(s *editor.Session) (any, error) {
		switch {
		case req.Clear:
			if err := s.PaintCellWith(row, col, palette.None); err != nil {
				return nil, err
			}
			return fiber.Map{"painted": true}, nil
		case req.Index != nil:
			if err := s.PaintCellWith(row, col, *req.Index); err != nil {
				return nil, err
			}
			return fiber.Map{"painted": true}, nil
		}
		painted, err := s.PaintCell(row, col)
		if err != nil {
			return nil, err
		}
		return fiber.Map{"painted": painted}, nil
	})
}

func (h *PlannerHandler) ClearGrid(c fiber.Ctx) error {
	return h.update(c, func(s *editor.Session) (any, error) {
		s.ClearGrid()
		return fiber.Map{"cleared": true}, nil
	})
}

// ============================================================
// Helpers
// ============================================================

// update runs fn as a persisted mutation and writes its result as JSON.
func (h *PlannerHandler) update(c fiber.Ctx, fn func(*editor.Session) (any, error)) error {
	var out any
	err := h.sessions.With(c.Context(), sessionParam(c), func(s *editor.Session) error {
		var err error
		out, err = fn(s)
		return err
	})
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(out)
}

// view runs fn read-only and writes its result as JSON.
func (h *PlannerHandler) view(c fiber.Ctx, fn func(*editor.Session) (any, error)) error {
	var out any
	err := h.sessions.View(c.Context(), sessionParam(c), func(s *editor.Session) error {
		var err error
		out, err = fn(s)
		return err
	})
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(out)
}

// sessionParam returns the :id parameter and records it for the request log.
func sessionParam(c fiber.Ctx) string {
	id := c.Params("id")
	c.Locals(middleware.LocalSession, id)
	return id
}

func cellParams(c fiber.Ctx) (int, int, error) {
	row, err := intParam(c, "row")
	if err != nil {
		return 0, 0, err
	}
	col, err := intParam(c, "col")
	if err != nil {
		return 0, 0, err
	}
	return row, col, nil
}

func activeIndex(s *editor.Session) *int {
	if a, ok := s.ActiveIndex(); ok {
		return &a
	}
	return nil
}
