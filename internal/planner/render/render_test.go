package render

import (
	"strings"
	"testing"

	"tile-planner/internal/planner/editor"
	"tile-planner/internal/planner/layout"
	"tile-planner/internal/planner/models"
)

func TestRenderSession(t *testing.T) {
	s := editor.New(editor.Options{Width: 4, Height: 3, PaletteMax: 4, WallThickness: 2})
	if _, err := s.AddColor("#ff0000"); err != nil {
		t.Fatal(err)
	}
	if _, err := s.PaintCell(1, 2); err != nil {
		t.Fatal(err)
	}
	s.SetMode(editor.ModeWall)
	s.Dispatch(editor.PointerEvent{Kind: editor.PointerDown, Position: models.Point{X: 0, Y: 20}})
	s.Dispatch(editor.PointerEvent{Kind: editor.PointerUp, Position: models.Point{X: 30, Y: 20}})
	s.Dispatch(editor.PointerEvent{Kind: editor.PointerDown, Position: models.Point{X: 5, Y: 5}})
	s.Dispatch(editor.PointerEvent{Kind: editor.PointerMove, Position: models.Point{X: 5, Y: 25}})

	svg, err := New().Render(s, layout.Derive(layout.DefaultTemplate()))
	if err != nil {
		t.Fatal(err)
	}

	wants := []string{
		`<svg xmlns="http://www.w3.org/2000/svg" viewBox=`,
		`<clipPath id="interior">`,
		`stroke="#050400" stroke-width="0.3"`,
		`<rect id="cell-1-2" x="20" y="10" width="10" height="10" fill="#ff0000" />`,
		`<rect id="cell-0-0" x="0" y="0" width="10" height="10" fill="#ffffff" />`,
		`<rect id="authored-0" x="0" y="19" width="30" height="2"`,
		`<rect id="preview" x="4" y="5" width="2" height="20"`,
		`stroke-dasharray`,
		`id="stair"`,
		`id="bench-2"`,
		`id="wall-3"`,
		`>3.15m</text>`,
		`>4.30m</text>`,
	}
	for _, w := range wants {
		if !strings.Contains(svg, w) {
			t.Errorf("svg is missing %q", w)
		}
	}
	if n := strings.Count(svg, `id="cell-`); n != 12 {
		t.Errorf("cells rendered = %d, want 12", n)
	}
	if !strings.HasSuffix(svg, "</svg>") {
		t.Error("document not closed")
	}
}

func TestRenderJointColorAndLabels(t *testing.T) {
	s := editor.New(editor.Options{Width: 1, Height: 1, PaletteMax: 1})
	if err := s.SetJointColor("WHITE"); err != nil {
		t.Fatal(err)
	}
	r := New()
	r.Labels = false
	svg, err := r.Render(s, layout.Derive(layout.DefaultTemplate()))
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(svg, `stroke="#ffffff"`) {
		t.Error("joint color not applied")
	}
	if strings.Contains(svg, "<text") {
		t.Error("labels rendered while disabled")
	}
	if strings.Contains(svg, `id="preview"`) {
		t.Error("preview rendered without a gesture")
	}
}

func TestRenderRejectsEmptyViewBox(t *testing.T) {
	s := editor.New(editor.Options{Width: 1, Height: 1, PaletteMax: 1})
	if _, err := New().Render(s, layout.Geometry{}); err == nil {
		t.Error("empty geometry rendered")
	}
	if _, err := New().Render(nil, layout.Derive(layout.DefaultTemplate())); err == nil {
		t.Error("nil document rendered")
	}
}
