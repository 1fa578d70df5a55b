package handlers

import (
	"log"

	"github.com/gofiber/fiber/v3"

	"tile-planner/internal/planner/editor"
	"tile-planner/internal/planner/models"
	"tile-planner/internal/planner/viewport"
)

// ============================================================
// Mode, pointer events and walls
// ============================================================

type modeRequest struct {
	Mode string `json:"mode"`
}

// pointerRequest carries either model coordinates, or client coordinates plus
// the on-screen surface they were measured on.
type pointerRequest struct {
	Type    string            `json:"type"`
	X       float64           `json:"x"`
	Y       float64           `json:"y"`
	Buttons uint8             `json:"buttons"`
	Surface *viewport.Surface `json:"surface"`
	Stretch bool              `json:"stretch"`
}

func (h *PlannerHandler) SetMode(c fiber.Ctx) error {
	var req modeRequest
	if err := decodeBody(c, &req, true); err != nil {
		return badRequest(c, err.Error())
	}
	mode, err := editor.ParseMode(req.Mode)
	if err != nil {
		return badRequest(c, err.Error())
	}
	return h.update(c, func(s *editor.Session) (any, error) {
		s.SetMode(mode)
		return fiber.Map{"mode": s.Mode()}, nil
	})
}

func (h *PlannerHandler) Pointer(c fiber.Ctx) error {
	var req pointerRequest
	if err := decodeBody(c, &req, true); err != nil {
		return badRequest(c, err.Error())
	}
	kind, err := editor.ParsePointerKind(req.Type)
	if err != nil {
		return badRequest(c, err.Error())
	}

	pos := models.Point{X: req.X, Y: req.Y}
	if req.Surface != nil {
		tr := viewport.New(h.sessions.Geometry().ViewBox, *req.Surface)
		if req.Stretch {
			tr.Align = viewport.AlignNone
		}
		if pos, err = tr.ToModel(req.X, req.Y); err != nil {
			return badRequest(c, err.Error())
		}
	}

	ev := editor.PointerEvent{Kind: kind, Position: pos, Buttons: editor.Buttons(req.Buttons)}
	return h.update(c, func(s *editor.Session) (any, error) {
		out, err := s.Dispatch(ev)
		if err != nil {
			return nil, err
		}
		if out.Committed != nil {
			log.Printf("[PLANNER] session %s committed wall %+v", sessionParam(c), *out.Committed)
		}
		return fiber.Map{
			"mode":     s.Mode(),
			"position": pos,
			"outcome":  out,
		}, nil
	})
}

func (h *PlannerHandler) GetWalls(c fiber.Ctx) error {
	return h.view(c, func(s *editor.Session) (any, error) {
		return fiber.Map{"walls": s.Walls()}, nil
	})
}

func (h *PlannerHandler) ClearWalls(c fiber.Ctx) error {
	return h.update(c, func(s *editor.Session) (any, error) {
		s.ClearWalls()
		return fiber.Map{"walls": s.Walls()}, nil
	})
}

func (h *PlannerHandler) GetPreview(c fiber.Ctx) error {
	return h.view(c, func(s *editor.Session) (any, error) {
		resp := fiber.Map{"drafting": s.Drafting(), "preview": nil}
		if p, ok := s.Preview(); ok {
			resp["preview"] = p
		}
		return resp, nil
	})
}

func (h *PlannerHandler) SetJointColor(c fiber.Ctx) error {
	var req colorRequest
	if err := decodeBody(c, &req, true); err != nil {
		return badRequest(c, err.Error())
	}
	return h.update(c, func(s *editor.Session) (any, error) {
		if err := s.SetJointColor(req.Color); err != nil {
			return nil, err
		}
		return fiber.Map{"joint_color": s.JointColor()}, nil
	})
}

// ============================================================
// Render
// ============================================================

func (h *PlannerHandler) RenderSVG(c fiber.Ctx) error {
	geo := h.sessions.Geometry()
	var svg string
	err := h.sessions.View(c.Context(), sessionParam(c), func(s *editor.Session) error {
		var err error
		svg, err = h.renderer.Render(s, geo)
		return err
	})
	if err != nil {
		return fail(c, err)
	}

	c.Set("Content-Type", "image/svg+xml")
	return c.SendString(svg)
}
