package models

import (
	"errors"
	"math"
)

// ============================================================
// Errors
// ============================================================

var (
	// ErrOutOfRange is returned for a row, column or palette index outside its bounds.
	ErrOutOfRange = errors.New("out of range")
	// ErrCapacityExceeded is returned when the palette is already at its maximum size.
	ErrCapacityExceeded = errors.New("capacity exceeded")
	// ErrDegenerateGesture is returned when a wall gesture ends where it started.
	ErrDegenerateGesture = errors.New("degenerate gesture")
)

// ============================================================
// Geometry primitives
// ============================================================

type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Rect is an axis-aligned rectangle given by its top-left corner and size.
type Rect struct {
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

func (r Rect) MaxX() float64 { return r.X + r.Width }
func (r Rect) MaxY() float64 { return r.Y + r.Height }

// Contains reports whether p lies inside r, edges included.
func (r Rect) Contains(p Point) bool {
	return p.X >= r.X && p.X <= r.MaxX() && p.Y >= r.Y && p.Y <= r.MaxY()
}

// Inset shrinks r by d on every side. A negative d grows it.
func (r Rect) Inset(d float64) Rect {
	return Rect{X: r.X + d, Y: r.Y + d, Width: r.Width - 2*d, Height: r.Height - 2*d}
}

// ============================================================
// Walls
// ============================================================

// Wall is an axis-aligned wall segment stored as two opposite corners of its rectangle.
type Wall struct {
	X1        float64 `json:"x1"`
	Y1        float64 `json:"y1"`
	X2        float64 `json:"x2"`
	Y2        float64 `json:"y2"`
	Thickness float64 `json:"thickness"`
}

// Rect normalizes the corners with min/max on each axis.
func (w Wall) Rect() Rect {
	x := math.Min(w.X1, w.X2)
	y := math.Min(w.Y1, w.Y2)
	return Rect{
		X:      x,
		Y:      y,
		Width:  math.Max(w.X1, w.X2) - x,
		Height: math.Max(w.Y1, w.Y2) - y,
	}
}

// Horizontal reports whether the long axis of the wall runs along x.
func (w Wall) Horizontal() bool {
	r := w.Rect()
	return r.Width >= r.Height
}

// Length is the extent of the wall along its long axis.
func (w Wall) Length() float64 {
	r := w.Rect()
	return math.Max(r.Width, r.Height)
}

// ============================================================
// View box
// ============================================================

// ViewBox is the region of model space shown by the editing surface.
type ViewBox struct {
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

func (v ViewBox) Rect() Rect {
	return Rect{X: v.X, Y: v.Y, Width: v.Width, Height: v.Height}
}
