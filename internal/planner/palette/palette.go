// Package palette implements the bounded, ordered list of colors that grid cells
// refer to by index.
//
// Indices are always contiguous. Removing an entry shifts every higher index down by
// one; observers are told so they can shift the references they hold the same way.
package palette

import (
	"fmt"

	"tile-planner/internal/planner/models"
)

// DefaultMax is the palette capacity used when none is configured.
const DefaultMax = 8

// None marks an absent index.
const None = -1

// Observer holds references into the palette and must follow its reindexing.
type Observer interface {
	PaletteIndexRemoved(index int)
	PaletteCleared()
}

type Store struct {
	colors    []string
	active    int
	max       int
	observers []Observer
}

// New returns an empty store. A non-positive max falls back to DefaultMax.
func New(max int, observers ...Observer) *Store {
	if max <= 0 {
		max = DefaultMax
	}
	return &Store{
		colors:    make([]string, 0, max),
		active:    None,
		max:       max,
		observers: observers,
	}
}

func (s *Store) Subscribe(o Observer) {
	s.observers = append(s.observers, o)
}

func (s *Store) Len() int   { return len(s.colors) }
func (s *Store) Max() int   { return s.max }
func (s *Store) Full() bool { return len(s.colors) >= s.max }

// Colors returns a copy of the palette in index order.
func (s *Store) Colors() []string {
	out := make([]string, len(s.colors))
	copy(out, s.colors)
	return out
}

func (s *Store) Color(index int) (string, bool) {
	if !s.Valid(index) {
		return "", false
	}
	return s.colors[index], true
}

// Valid reports whether index addresses an existing entry.
func (s *Store) Valid(index int) bool {
	return index >= 0 && index < len(s.colors)
}

// Add appends color and makes it active. It reports false, changing nothing,
// when the palette is full.
func (s *Store) Add(color string) (int, bool) {
	if s.Full() {
		return None, false
	}
	s.colors = append(s.colors, color)
	s.active = len(s.colors) - 1
	return s.active, true
}

// Update recolors an entry in place. Cells keep their index.
func (s *Store) Update(index int, color string) error {
	if !s.Valid(index) {
		return fmt.Errorf("update palette index %d of %d: %w", index, len(s.colors), models.ErrOutOfRange)
	}
	s.colors[index] = color
	return nil
}

// Remove deletes an entry and shifts the ones after it down by one.
func (s *Store) Remove(index int) error {
	if !s.Valid(index) {
		return fmt.Errorf("remove palette index %d of %d: %w", index, len(s.colors), models.ErrOutOfRange)
	}
	s.colors = append(s.colors[:index], s.colors[index+1:]...)
	s.active = Shift(s.active, index)
	for _, o := range s.observers {
		o.PaletteIndexRemoved(index)
	}
	return nil
}

// Reset empties the palette and clears the active index.
func (s *Store) Reset() {
	s.colors = s.colors[:0]
	s.active = None
	for _, o := range s.observers {
		o.PaletteCleared()
	}
}

func (s *Store) Active() (int, bool) {
	return s.active, s.active != None
}

func (s *Store) SetActive(index int) error {
	if !s.Valid(index) {
		return fmt.Errorf("select palette index %d of %d: %w", index, len(s.colors), models.ErrOutOfRange)
	}
	s.active = index
	return nil
}

func (s *Store) ClearActive() {
	s.active = None
}

// Restore replaces the contents with persisted values. Colors past the capacity
// are dropped and an active index that no longer fits is cleared. Observers are
// not notified.
func (s *Store) Restore(colors []string, active int) {
	if len(colors) > s.max {
		colors = colors[:s.max]
	}
	s.colors = append(s.colors[:0], colors...)
	s.active = None
	if s.Valid(active) {
		s.active = active
	}
}

// Shift applies the removal rule to a single reference: the removed index becomes
// None, higher indices move down by one, lower ones are untouched.
func Shift(ref, removed int) int {
	switch {
	case ref == removed:
		return None
	case ref > removed:
		return ref - 1
	default:
		return ref
	}
}
