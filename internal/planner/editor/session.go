// Package editor ties the palette, grid and wall model of one document together
// and routes pointer events to tile painting or wall drafting.
package editor

import (
	"errors"
	"fmt"

	"tile-planner/internal/planner/catalog"
	"tile-planner/internal/planner/grid"
	"tile-planner/internal/planner/models"
	"tile-planner/internal/planner/palette"
	"tile-planner/internal/planner/units"
	"tile-planner/internal/planner/viewport"
	"tile-planner/internal/planner/walls"
)

// ============================================================
// Session
// ============================================================

type Mode string

const (
	ModePaint Mode = "paint"
	ModeWall  Mode = "wall"
)

func ParseMode(s string) (Mode, error) {
	switch Mode(s) {
	case ModePaint, ModeWall:
		return Mode(s), nil
	}
	return "", fmt.Errorf("unknown mode %q", s)
}

// DefaultWallThickness is used for authored walls when none is configured.
var DefaultWallThickness = units.ToDrawingUnits(12)

type Options struct {
	Width         int
	Height        int
	PaletteMax    int
	WallThickness float64
}

// Session is one editing document. It is not safe for concurrent use.
type Session struct {
	palette *palette.Store
	grid    *grid.Grid
	walls   *walls.Model
	drafter *walls.Drafter
	mode    Mode
	joint   string
	dirty   map[Key]bool
}

func New(opts Options) *Session {
	if opts.WallThickness <= 0 {
		opts.WallThickness = DefaultWallThickness
	}
	g := grid.New(opts.Width, opts.Height)
	wm := walls.NewModel()
	return &Session{
		palette: palette.New(opts.PaletteMax, g),
		grid:    g,
		walls:   wm,
		drafter: walls.NewDrafter(wm, opts.WallThickness),
		mode:    ModePaint,
		joint:   catalog.Black,
		dirty:   make(map[Key]bool),
	}
}

func (s *Session) Mode() Mode { return s.mode }

// SetMode switches between painting and wall drawing. A wall gesture in
// progress is dropped.
func (s *Session) SetMode(m Mode) {
	if m != ModeWall {
		s.drafter.Cancel()
	}
	s.mode = m
}

// ============================================================
// Palette
// ============================================================

func (s *Session) Colors() []string         { return s.palette.Colors() }
func (s *Session) PaletteMax() int          { return s.palette.Max() }
func (s *Session) ActiveIndex() (int, bool) { return s.palette.Active() }

// AddColor appends a color and selects it.
func (s *Session) AddColor(color string) (int, error) {
	hex, err := catalog.Normalize(color)
	if err != nil {
		return palette.None, err
	}
	idx, ok := s.palette.Add(hex)
	if !ok {
		return palette.None, fmt.Errorf("add %s to palette of %d: %w", hex, s.palette.Max(), models.ErrCapacityExceeded)
	}
	s.touch(KeyPalette, KeyActive)
	return idx, nil
}

func (s *Session) UpdateColor(index int, color string) error {
	hex, err := catalog.Normalize(color)
	if err != nil {
		return err
	}
	if err := s.palette.Update(index, hex); err != nil {
		return err
	}
	s.touch(KeyPalette)
	return nil
}

// RemoveColor drops a palette entry. Cells painted with it become uncolored and
// cells painted with later entries keep their color.
func (s *Session) RemoveColor(index int) error {
	if err := s.palette.Remove(index); err != nil {
		return err
	}
	s.touch(KeyPalette, KeyActive, KeyGrid)
	return nil
}

// ResetPalette empties the palette, which also uncolors every cell.
func (s *Session) ResetPalette() {
	s.palette.Reset()
	s.touch(KeyPalette, KeyActive, KeyGrid)
}

func (s *Session) SetActive(index int) error {
	if err := s.palette.SetActive(index); err != nil {
		return err
	}
	s.touch(KeyActive)
	return nil
}

func (s *Session) ClearActive() {
	s.palette.ClearActive()
	s.touch(KeyActive)
}

// ============================================================
// Grid
// ============================================================

func (s *Session) GridSize() (width, height int) { return s.grid.Width(), s.grid.Height() }

func (s *Session) Cell(row, col int) (int, error) { return s.grid.At(row, col) }

func (s *Session) Cells() []int { return s.grid.Cells() }

func (s *Session) EachCell(fn func(row, col, index int)) { s.grid.Each(fn) }

// PaintCell paints with the active color. It reports false and does nothing when
// no color is selected.
func (s *Session) PaintCell(row, col int) (bool, error) {
	active, ok := s.palette.Active()
	if !ok {
		return false, nil
	}
	if err := s.PaintCellWith(row, col, active); err != nil {
		return false, err
	}
	return true, nil
}

// PaintCellWith sets a cell to index, or uncolors it when index is palette.None.
func (s *Session) PaintCellWith(row, col, index int) error {
	if index != palette.None && !s.palette.Valid(index) {
		return fmt.Errorf("paint with palette index %d of %d: %w", index, s.palette.Len(), models.ErrOutOfRange)
	}
	prev, err := s.grid.At(row, col)
	if err != nil {
		return err
	}
	if prev == index {
		return nil
	}
	if err := s.grid.Paint(row, col, index); err != nil {
		return err
	}
	s.touch(KeyGrid)
	return nil
}

func (s *Session) ClearGrid() {
	s.grid.Clear()
	s.touch(KeyGrid)
}

// ============================================================
// Walls
// ============================================================

func (s *Session) Walls() []models.Wall { return s.walls.All() }

func (s *Session) Preview() (models.Wall, bool) { return s.drafter.Preview() }

func (s *Session) Drafting() bool { return s.drafter.State() == walls.Drawing }

func (s *Session) ClearWalls() {
	s.drafter.Cancel()
	s.walls.Clear()
	s.touch(KeyWalls)
}

// ============================================================
// Joint color
// ============================================================

func (s *Session) JointColor() string { return s.joint }

func (s *Session) SetJointColor(color string) error {
	hex, err := catalog.Normalize(color)
	if err != nil {
		return err
	}
	s.joint = hex
	s.touch(KeyJoint)
	return nil
}

// NewProject resets palette, grid and walls. The joint color and mode survive.
func (s *Session) NewProject() {
	s.palette.Reset()
	s.grid.Clear()
	s.ClearWalls()
	s.touch(KeyPalette, KeyActive, KeyGrid)
}

// ============================================================
// Pointer events
// ============================================================

type PointerKind string

const (
	PointerDown  PointerKind = "down"
	PointerMove  PointerKind = "move"
	PointerEnter PointerKind = "enter"
	PointerUp    PointerKind = "up"
)

func ParsePointerKind(s string) (PointerKind, error) {
	switch k := PointerKind(s); k {
	case PointerDown, PointerMove, PointerEnter, PointerUp:
		return k, nil
	}
	return "", fmt.Errorf("unknown pointer event %q", s)
}

// Buttons is the pressed-button bitmask, DOM numbering.
type Buttons uint8

const (
	ButtonPrimary   Buttons = 1 << 0
	ButtonSecondary Buttons = 1 << 1
	ButtonMiddle    Buttons = 1 << 2
)

// PointerEvent carries a position already converted to model space.
type PointerEvent struct {
	Kind     PointerKind
	Position models.Point
	Buttons  Buttons
}

// Outcome reports what an event changed.
type Outcome struct {
	Painted   bool         `json:"painted"`
	Row       int          `json:"row"`
	Col       int          `json:"col"`
	Preview   *models.Wall `json:"preview,omitempty"`
	Committed *models.Wall `json:"committed,omitempty"`
	Discarded bool         `json:"discarded,omitempty"`
}

// Dispatch applies one pointer event according to the current mode.
func (s *Session) Dispatch(ev PointerEvent) (Outcome, error) {
	if s.mode == ModeWall {
		return s.dispatchWall(ev), nil
	}
	return s.dispatchPaint(ev)
}

func (s *Session) dispatchPaint(ev PointerEvent) (Outcome, error) {
	switch ev.Kind {
	case PointerDown:
	case PointerEnter, PointerMove:
		if ev.Buttons&ButtonPrimary == 0 {
			return Outcome{}, nil
		}
	default:
		return Outcome{}, nil
	}

	w, h := s.GridSize()
	row, col, hit := viewport.CellAt(ev.Position, w, h)
	if !hit {
		return Outcome{}, nil
	}
	if ev.Kind != PointerDown {
		// drag-paint skips cells that already carry the color
		active, ok := s.palette.Active()
		if cur, _ := s.grid.At(row, col); ok && cur == active {
			return Outcome{Row: row, Col: col}, nil
		}
	}
	painted, err := s.PaintCell(row, col)
	if err != nil {
		return Outcome{}, err
	}
	return Outcome{Painted: painted, Row: row, Col: col}, nil
}

func (s *Session) dispatchWall(ev PointerEvent) Outcome {
	switch ev.Kind {
	case PointerDown:
		s.drafter.Begin(ev.Position)
	case PointerMove:
		if p, ok := s.drafter.Move(ev.Position); ok {
			return Outcome{Preview: &p}
		}
	case PointerUp:
		w, err := s.drafter.End(ev.Position)
		switch {
		case err == nil:
			s.touch(KeyWalls)
			return Outcome{Committed: &w}
		case errors.Is(err, models.ErrDegenerateGesture):
			return Outcome{Discarded: true}
		}
	}
	return Outcome{}
}

func (s *Session) touch(keys ...Key) {
	for _, k := range keys {
		s.dirty[k] = true
	}
}
