package walls

import (
	"errors"
	"fmt"
	"math"

	"tile-planner/internal/planner/models"
)

// MinGestureSpan is the largest pointer travel, per axis, still treated as a click.
const MinGestureSpan = 1.0

var ErrNotDrawing = errors.New("no wall gesture in progress")

type State int

const (
	Idle State = iota
	Drawing
)

func (s State) String() string {
	switch s {
	case Idle:
		return "idle"
	case Drawing:
		return "drawing"
	default:
		return "unknown"
	}
}

// Drafter runs the draw-wall gesture: Begin on pointer down, Move while the pointer
// travels, End on pointer up. Committed walls go to the model.
type Drafter struct {
	model     *Model
	thickness float64

	state      State
	start      models.Point
	preview    models.Wall
	hasPreview bool
}

func NewDrafter(model *Model, thickness float64) *Drafter {
	return &Drafter{model: model, thickness: thickness}
}

func (d *Drafter) State() State           { return d.state }
func (d *Drafter) Thickness() float64     { return d.thickness }
func (d *Drafter) SetThickness(t float64) { d.thickness = t }

// Start returns the anchor of the gesture in progress.
func (d *Drafter) Start() (models.Point, bool) {
	return d.start, d.state == Drawing
}

// Preview returns the wall the gesture would commit right now.
func (d *Drafter) Preview() (models.Wall, bool) {
	return d.preview, d.hasPreview
}

// Begin anchors a new gesture at p. A gesture already in progress is abandoned.
func (d *Drafter) Begin(p models.Point) {
	d.state = Drawing
	d.start = p
	d.clearPreview()
}

// Move recomputes the preview. It is ignored when idle.
func (d *Drafter) Move(p models.Point) (models.Wall, bool) {
	if d.state != Drawing {
		return models.Wall{}, false
	}
	d.preview = SnapOrthogonal(d.start, p, d.thickness)
	d.hasPreview = true
	return d.preview, true
}

// End finishes the gesture at p and commits the snapped wall. A gesture that
// moved no more than MinGestureSpan on both axes commits nothing and returns
// models.ErrDegenerateGesture.
func (d *Drafter) End(p models.Point) (models.Wall, error) {
	if d.state != Drawing {
		return models.Wall{}, ErrNotDrawing
	}
	start := d.start
	d.state = Idle
	d.clearPreview()

	if math.Abs(p.X-start.X) <= MinGestureSpan && math.Abs(p.Y-start.Y) <= MinGestureSpan {
		return models.Wall{}, fmt.Errorf("wall from (%g,%g) to (%g,%g): %w", start.X, start.Y, p.X, p.Y, models.ErrDegenerateGesture)
	}

	w := SnapOrthogonal(start, p, d.thickness)
	d.model.Append(w)
	return w, nil
}

// Cancel drops the gesture in progress without committing.
func (d *Drafter) Cancel() {
	d.state = Idle
	d.clearPreview()
}

func (d *Drafter) clearPreview() {
	d.preview = models.Wall{}
	d.hasPreview = false
}
