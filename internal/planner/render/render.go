// Package render draws a session over its room layout as a standalone SVG document.
package render

import (
	"fmt"
	"strconv"
	"strings"

	"tile-planner/internal/planner/catalog"
	"tile-planner/internal/planner/layout"
	"tile-planner/internal/planner/models"
	"tile-planner/internal/planner/units"
)

// Document is the read side of an editing session.
type Document interface {
	Colors() []string
	GridSize() (width, height int)
	EachCell(fn func(row, col, index int))
	Walls() []models.Wall
	Preview() (models.Wall, bool)
	JointColor() string
}

const (
	wallFill     = "#3a3a3a"
	previewColor = "#1f77b4"
	fixtureFill  = "#e8e4dc"
	labelColor   = "#555"
	clipID       = "interior"
)

// ============================================================
// Renderer
// ============================================================

type Renderer struct {
	// Labels toggles the room dimension labels.
	Labels bool
}

func New() *Renderer {
	return &Renderer{Labels: true}
}

// Render builds the SVG for doc drawn inside geo.
func (r *Renderer) Render(doc Document, geo layout.Geometry) (string, error) {
	if doc == nil {
		return "", fmt.Errorf("document is nil")
	}
	vb := geo.ViewBox
	if vb.Width <= 0 || vb.Height <= 0 {
		return "", fmt.Errorf("view box %gx%g is empty", vb.Width, vb.Height)
	}

	var elements []string
	elements = append(elements, r.renderCells(doc)...)
	elements = append(elements, r.renderFixtures(geo)...)
	elements = append(elements, r.renderWalls("wall", geo.Walls, wallFill)...)
	elements = append(elements, r.renderWalls("authored", doc.Walls(), wallFill)...)
	elements = append(elements, r.renderPreview(doc)...)
	if r.Labels {
		elements = append(elements, r.renderLabels(geo)...)
	}

	var builder strings.Builder
	builder.WriteString(`<?xml version="1.0" encoding="UTF-8"?>` + "\n")
	builder.WriteString(fmt.Sprintf(`<svg xmlns="http://www.w3.org/2000/svg" viewBox="%s %s %s %s" preserveAspectRatio="xMidYMid meet">`,
		formatFloat(vb.X), formatFloat(vb.Y), formatFloat(vb.Width), formatFloat(vb.Height)))
	builder.WriteString("\n")
	builder.WriteString(fmt.Sprintf(`  <defs><clipPath id="%s">%s</clipPath></defs>`, clipID, rect("", geo.Interior, "")))
	builder.WriteString("\n")

	for _, elem := range elements {
		builder.WriteString("  ")
		builder.WriteString(elem)
		builder.WriteString("\n")
	}

	builder.WriteString(`</svg>`)
	return builder.String(), nil
}

// ============================================================
// Element renderers
// ============================================================

func (r *Renderer) renderCells(doc Document) []string {
	colors := doc.Colors()
	joint := doc.JointColor()
	if joint == "" {
		joint = catalog.Black
	}
	width, height := doc.GridSize()

	out := make([]string, 0, width*height+2)
	out = append(out, fmt.Sprintf(`<g id="tiles" clip-path="url(#%s)" stroke="%s" stroke-width="%s">`,
		clipID, joint, formatFloat(units.JointWidth)))
	doc.EachCell(func(row, col, index int) {
		fill := catalog.White
		if index >= 0 && index < len(colors) {
			fill = colors[index]
		}
		cell := models.Rect{
			X:      float64(col) * units.CellSize,
			Y:      float64(row) * units.CellSize,
			Width:  units.CellSize,
			Height: units.CellSize,
		}
		out = append(out, "  "+rect(fmt.Sprintf("cell-%d-%d", row, col), cell, fmt.Sprintf(`fill="%s"`, fill)))
	})
	out = append(out, `</g>`)
	return out
}

func (r *Renderer) renderFixtures(geo layout.Geometry) []string {
	var out []string
	for _, f := range geo.Fixtures {
		out = append(out, rect(f.ID, f.Rect, fmt.Sprintf(`class="%s" fill="%s" stroke="#000" stroke-width="0.5"`, f.Kind, fixtureFill)))
	}
	return out
}

func (r *Renderer) renderWalls(prefix string, ws []models.Wall, fill string) []string {
	var out []string
	for i, w := range ws {
		out = append(out, rect(prefix+"-"+strconv.Itoa(i), w.Rect(), fmt.Sprintf(`fill="%s"`, fill)))
	}
	return out
}

func (r *Renderer) renderPreview(doc Document) []string {
	w, ok := doc.Preview()
	if !ok {
		return nil
	}
	return []string{rect("preview", w.Rect(),
		fmt.Sprintf(`fill="none" stroke="%s" stroke-width="0.5" stroke-dasharray="2 1"`, previewColor))}
}

func (r *Renderer) renderLabels(geo layout.Geometry) []string {
	room := geo.Room
	gap := geo.WallThickness/2 + 4
	top := room.Y - gap
	left := room.X - gap
	return []string{
		fmt.Sprintf(`<text id="label-width" x="%s" y="%s" text-anchor="middle" font-size="8" fill="%s">%s</text>`,
			formatFloat(room.X+room.Width/2), formatFloat(top), labelColor, units.FormatLength(room.Width)),
		fmt.Sprintf(`<text id="label-height" x="%s" y="%s" text-anchor="middle" font-size="8" fill="%s" transform="rotate(-90 %s %s)">%s</text>`,
			formatFloat(left), formatFloat(room.Y+room.Height/2), labelColor,
			formatFloat(left), formatFloat(room.Y+room.Height/2), units.FormatLength(room.Height)),
	}
}

// ============================================================
// Helpers
// ============================================================

func rect(id string, r models.Rect, attrs string) string {
	var b strings.Builder
	b.WriteString(`<rect`)
	if id != "" {
		b.WriteString(` id="` + id + `"`)
	}
	b.WriteString(fmt.Sprintf(` x="%s" y="%s" width="%s" height="%s"`,
		formatFloat(r.X), formatFloat(r.Y), formatFloat(r.Width), formatFloat(r.Height)))
	if attrs != "" {
		b.WriteString(" " + attrs)
	}
	b.WriteString(` />`)
	return b.String()
}

func formatFloat(val float64) string {
	return strconv.FormatFloat(val, 'f', -1, 64)
}
