// Package walls holds authored walls and the gesture that draws them.
package walls

import (
	"math"

	"tile-planner/internal/planner/models"
)

// ============================================================
// Wall Model
// ============================================================

// Model is the append-only list of authored walls.
type Model struct {
	walls []models.Wall
}

func NewModel() *Model {
	return &Model{}
}

func (m *Model) Append(w models.Wall) {
	m.walls = append(m.walls, w)
}

func (m *Model) Clear() {
	m.walls = nil
}

func (m *Model) Len() int {
	return len(m.walls)
}

// All returns a copy of the walls in commit order.
func (m *Model) All() []models.Wall {
	out := make([]models.Wall, len(m.walls))
	copy(out, m.walls)
	return out
}

// Restore replaces the walls with persisted ones, dropping zero-sized records.
func (m *Model) Restore(ws []models.Wall) {
	m.walls = m.walls[:0]
	for _, w := range ws {
		r := w.Rect()
		if r.Width == 0 && r.Height == 0 {
			continue
		}
		m.walls = append(m.walls, w)
	}
}

// ============================================================
// Orthogonal snapping
// ============================================================

// SnapOrthogonal resolves the gesture a -> b onto its dominant axis. A horizontal
// wall spans [min x, max x] and is centered on a.Y; a vertical one spans
// [min y, max y] and is centered on a.X. Ties go horizontal.
func SnapOrthogonal(a, b models.Point, thickness float64) models.Wall {
	dx := math.Abs(b.X - a.X)
	dy := math.Abs(b.Y - a.Y)
	half := thickness / 2

	if dx >= dy {
		return models.Wall{
			X1:        math.Min(a.X, b.X),
			Y1:        a.Y - half,
			X2:        math.Max(a.X, b.X),
			Y2:        a.Y + half,
			Thickness: thickness,
		}
	}
	return models.Wall{
		X1:        a.X - half,
		Y1:        math.Min(a.Y, b.Y),
		X2:        a.X + half,
		Y2:        math.Max(a.Y, b.Y),
		Thickness: thickness,
	}
}
