package editor

import "tile-planner/internal/planner/models"

// State is a read-only snapshot of a session, shaped for JSON.
type State struct {
	Mode       Mode          `json:"mode"`
	Palette    []string      `json:"palette"`
	PaletteMax int           `json:"palette_max"`
	Active     *int          `json:"active"`
	JointColor string        `json:"joint_color"`
	Width      int           `json:"width"`
	Height     int           `json:"height"`
	Cells      []*int        `json:"cells"`
	Walls      []models.Wall `json:"walls"`
	Drafting   bool          `json:"drafting"`
	Preview    *models.Wall  `json:"preview"`
}

func (s *Session) State() State {
	w, h := s.GridSize()
	st := State{
		Mode:       s.mode,
		Palette:    s.Colors(),
		PaletteMax: s.PaletteMax(),
		JointColor: s.joint,
		Width:      w,
		Height:     h,
		Walls:      s.Walls(),
		Drafting:   s.Drafting(),
	}
	if a, ok := s.ActiveIndex(); ok {
		st.Active = &a
	}
	cells := s.Cells()
	st.Cells = make([]*int, len(cells))
	for i, v := range cells {
		if v >= 0 {
			st.Cells[i] = &v
		}
	}
	if p, ok := s.Preview(); ok {
		st.Preview = &p
	}
	return st
}
