// Package viewport maps pointer positions on the editing surface to model space.
//
// The surface shows the region of model space named by a view box, scaled the way
// an SVG element with the same viewBox and preserveAspectRatio would scale it.
package viewport

import (
	"fmt"
	"math"

	"tile-planner/internal/planner/models"
	"tile-planner/internal/planner/units"
)

// Surface is the on-screen rectangle of the editing surface, in client pixels.
type Surface struct {
	Left   float64 `json:"left"`
	Top    float64 `json:"top"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

type Align int

const (
	// AlignMeet scales uniformly and centers, like preserveAspectRatio="xMidYMid meet".
	AlignMeet Align = iota
	// AlignNone stretches each axis independently, like preserveAspectRatio="none".
	AlignNone
)

type Transform struct {
	ViewBox models.ViewBox
	Surface Surface
	Align   Align
}

func New(vb models.ViewBox, s Surface) Transform {
	return Transform{ViewBox: vb, Surface: s, Align: AlignMeet}
}

// scale returns model-to-surface factors and the surface offset of the view box origin.
func (t Transform) scale() (sx, sy, ox, oy float64, err error) {
	vb, s := t.ViewBox, t.Surface
	if vb.Width <= 0 || vb.Height <= 0 {
		return 0, 0, 0, 0, fmt.Errorf("view box %gx%g is empty", vb.Width, vb.Height)
	}
	if s.Width <= 0 || s.Height <= 0 {
		return 0, 0, 0, 0, fmt.Errorf("surface %gx%g is empty", s.Width, s.Height)
	}

	sx = s.Width / vb.Width
	sy = s.Height / vb.Height
	ox, oy = s.Left, s.Top
	if t.Align == AlignMeet {
		k := math.Min(sx, sy)
		sx, sy = k, k
		ox += (s.Width - vb.Width*k) / 2
		oy += (s.Height - vb.Height*k) / 2
	}
	return sx, sy, ox, oy, nil
}

// ToModel converts a client position to model coordinates.
func (t Transform) ToModel(clientX, clientY float64) (models.Point, error) {
	sx, sy, ox, oy, err := t.scale()
	if err != nil {
		return models.Point{}, err
	}
	return models.Point{
		X: (clientX-ox)/sx + t.ViewBox.X,
		Y: (clientY-oy)/sy + t.ViewBox.Y,
	}, nil
}

// ToSurface converts a model point to client coordinates.
func (t Transform) ToSurface(p models.Point) (float64, float64, error) {
	sx, sy, ox, oy, err := t.scale()
	if err != nil {
		return 0, 0, err
	}
	return (p.X-t.ViewBox.X)*sx + ox, (p.Y-t.ViewBox.Y)*sy + oy, nil
}

// CellAt hit-tests a model point against a width x height grid of units.CellSize
// cells anchored at the origin.
func CellAt(p models.Point, width, height int) (row, col int, ok bool) {
	// compared as floats so NaN and huge values miss instead of overflowing int
	if !(p.X >= 0 && p.Y >= 0) {
		return 0, 0, false
	}
	if p.X >= float64(width)*units.CellSize || p.Y >= float64(height)*units.CellSize {
		return 0, 0, false
	}
	col = int(math.Floor(p.X / units.CellSize))
	row = int(math.Floor(p.Y / units.CellSize))
	return row, col, true
}
