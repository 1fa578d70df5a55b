package editor

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"sort"

	"tile-planner/internal/planner/catalog"
	"tile-planner/internal/planner/grid"
	"tile-planner/internal/planner/models"
	"tile-planner/internal/planner/palette"
)

// ============================================================
// Persistence
// ============================================================

// Key names one persisted record.
type Key string

const (
	KeyPalette Key = "palette"
	KeyActive  Key = "activeIndex"
	KeyWalls   Key = "walls"
	KeyJoint   Key = "jointColor"
	KeyGrid    Key = "grid"
)

// Keys lists every persisted record in load order.
var Keys = []Key{KeyPalette, KeyActive, KeyGrid, KeyWalls, KeyJoint}

// Store is the key-value store a session is read from once and written to after
// every change.
type Store interface {
	Get(ctx context.Context, key string) ([]byte, bool, error)
	Put(ctx context.Context, key string, value []byte) error
}

// Dirty returns the keys changed since the last Flush, sorted.
func (s *Session) Dirty() []Key {
	out := make([]Key, 0, len(s.dirty))
	for k := range s.dirty {
		out = append(out, k)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

// MarkAllDirty schedules every record for the next Flush.
func (s *Session) MarkAllDirty() {
	s.touch(Keys...)
}

// Encode serializes one record.
func (s *Session) Encode(key Key) ([]byte, error) {
	switch key {
	case KeyPalette:
		return json.Marshal(s.palette.Colors())
	case KeyActive:
		if a, ok := s.palette.Active(); ok {
			return json.Marshal(a)
		}
		return []byte("null"), nil
	case KeyWalls:
		return json.Marshal(s.walls.All())
	case KeyJoint:
		return json.Marshal(s.joint)
	case KeyGrid:
		cells := s.grid.Cells()
		out := make([]*int, len(cells))
		for i, v := range cells {
			if v != grid.None {
				out[i] = &v
			}
		}
		return json.Marshal(out)
	}
	return nil, fmt.Errorf("unknown key %q", key)
}

// Flush writes the dirty records to st. Records written successfully are no
// longer dirty, even if a later one fails.
func (s *Session) Flush(ctx context.Context, st Store) error {
	for _, k := range s.Dirty() {
		data, err := s.Encode(k)
		if err != nil {
			return fmt.Errorf("encode %s: %w", k, err)
		}
		if err := st.Put(ctx, string(k), data); err != nil {
			return fmt.Errorf("put %s: %w", k, err)
		}
		delete(s.dirty, k)
	}
	return nil
}

// Load reads every record from st. Missing or unreadable values fall back to
// their defaults; only store failures are returned.
func (s *Session) Load(ctx context.Context, st Store) error {
	raw := make(map[Key][]byte, len(Keys))
	for _, k := range Keys {
		data, ok, err := st.Get(ctx, string(k))
		if err != nil {
			return fmt.Errorf("get %s: %w", k, err)
		}
		if ok {
			raw[k] = data
		}
	}

	var colors []string
	var dropped []int
	if decode(raw, KeyPalette, &colors) {
		colors, dropped = normalizeAll(colors)
	}
	active := palette.None
	var a *int
	if decode(raw, KeyActive, &a) && a != nil {
		active = reindex(*a, dropped)
	}
	s.palette.Restore(colors, active)

	s.grid.Clear()
	var cells []*int
	if decode(raw, KeyGrid, &cells) {
		flat := make([]int, len(cells))
		for i, c := range cells {
			flat[i] = grid.None
			if c != nil && *c >= 0 {
				flat[i] = reindex(*c, dropped)
			}
		}
		if err := s.grid.Restore(flat, s.palette.Len()); err != nil {
			log.Printf("[EDITOR] ignoring stored grid: %v", err)
		}
	}

	var ws []models.Wall
	decode(raw, KeyWalls, &ws)
	s.walls.Restore(ws)

	s.joint = catalog.Black
	var joint string
	if decode(raw, KeyJoint, &joint) {
		if hex, err := catalog.Normalize(joint); err == nil {
			s.joint = hex
		} else {
			log.Printf("[EDITOR] ignoring stored joint color: %v", err)
		}
	}

	s.drafter.Cancel()
	s.dirty = make(map[Key]bool)
	return nil
}

func decode(raw map[Key][]byte, k Key, v any) bool {
	data, ok := raw[k]
	if !ok {
		return false
	}
	if err := json.Unmarshal(data, v); err != nil {
		log.Printf("[EDITOR] ignoring stored %s: %v", k, err)
		return false
	}
	return true
}

// normalizeAll drops unreadable colors and returns the indices it dropped, in
// ascending order.
func normalizeAll(colors []string) ([]string, []int) {
	out := make([]string, 0, len(colors))
	var dropped []int
	for i, c := range colors {
		hex, err := catalog.Normalize(c)
		if err != nil {
			log.Printf("[EDITOR] dropping stored color %q: %v", c, err)
			dropped = append(dropped, i)
			continue
		}
		out = append(out, hex)
	}
	return out, dropped
}

// reindex applies the palette removal rule for every dropped index, highest
// first, so a stored reference keeps pointing at the same color.
func reindex(ref int, dropped []int) int {
	for i := len(dropped) - 1; i >= 0 && ref != palette.None; i-- {
		ref = palette.Shift(ref, dropped[i])
	}
	return ref
}
