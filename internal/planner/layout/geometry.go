package layout

import (
	"strconv"

	"tile-planner/internal/planner/models"
	"tile-planner/internal/planner/units"
	"tile-planner/internal/planner/walls"
)

// Fixture kinds.
const (
	KindStair  = "stair"
	KindCloset = "closet"
	KindBench  = "bench"
)

type Fixture struct {
	ID   string      `json:"id"`
	Kind string      `json:"kind"`
	Rect models.Rect `json:"rect"`
}

// Geometry is everything derived from a Template, in drawing units with the
// room's top-left corner at the origin.
type Geometry struct {
	Room          models.Rect    `json:"room"`
	Interior      models.Rect    `json:"interior"`
	WallThickness float64        `json:"wall_thickness"`
	Walls         []models.Wall  `json:"walls"`
	Fixtures      []Fixture      `json:"fixtures"`
	ViewBox       models.ViewBox `json:"view_box"`
}

// Derive computes the room geometry. It keeps no state; call it whenever the
// geometry is needed.
func Derive(t Template) Geometry {
	w := units.ToDrawingUnits(t.WidthCm)
	h := units.ToDrawingUnits(t.HeightCm)
	thickness := units.ToDrawingUnits(t.WallThicknessCm)
	room := models.Rect{X: 0, Y: 0, Width: w, Height: h}

	// walls straddle the boundary line, so the usable interior is the nominal room
	g := Geometry{
		Room:          room,
		Interior:      room,
		WallThickness: thickness,
		ViewBox:       viewBox(room, thickness/2+units.ToDrawingUnits(t.MarginCm)),
	}
	g.Walls = append(g.Walls, perimeter(room, thickness)...)
	g.Walls = append(g.Walls, partitions(t, thickness)...)
	g.Fixtures = fixtures(t)
	return g
}

// Fixture returns the first fixture with the given id.
func (g Geometry) Fixture(id string) (Fixture, bool) {
	for _, f := range g.Fixtures {
		if f.ID == id {
			return f, true
		}
	}
	return Fixture{}, false
}

func perimeter(room models.Rect, thickness float64) []models.Wall {
	half := thickness / 2
	left, top, right, bottom := room.X, room.Y, room.MaxX(), room.MaxY()
	return []models.Wall{
		walls.SnapOrthogonal(models.Point{X: left - half, Y: top}, models.Point{X: right + half, Y: top}, thickness),
		walls.SnapOrthogonal(models.Point{X: left - half, Y: bottom}, models.Point{X: right + half, Y: bottom}, thickness),
		walls.SnapOrthogonal(models.Point{X: left, Y: top - half}, models.Point{X: left, Y: bottom + half}, thickness),
		walls.SnapOrthogonal(models.Point{X: right, Y: top - half}, models.Point{X: right, Y: bottom + half}, thickness),
	}
}

func partitions(t Template, thickness float64) []models.Wall {
	var out []models.Wall
	for _, p := range t.Partitions {
		from := cmPoint(p.FromXCm, p.FromYCm)
		to := cmPoint(p.ToXCm, p.ToYCm)
		out = append(out, walls.SnapOrthogonal(from, to, thickness))
	}
	if t.Closet.Enclosed && t.Closet.DepthCm > 0 && t.Closet.WidthCm > 0 {
		// closet front, facing into the room
		x := t.WidthCm - t.Closet.DepthCm
		out = append(out, walls.SnapOrthogonal(cmPoint(x, 0), cmPoint(x, t.Closet.WidthCm), thickness))
	}
	return out
}

func fixtures(t Template) []Fixture {
	var out []Fixture
	if t.Stair.WidthCm > 0 && t.Stair.LengthCm > 0 {
		out = append(out, Fixture{
			ID:   "stair",
			Kind: KindStair,
			Rect: cmRect(0, 0, t.Stair.WidthCm, t.Stair.LengthCm),
		})
	}
	if t.Closet.DepthCm > 0 && t.Closet.WidthCm > 0 {
		out = append(out, Fixture{
			ID:   "closet",
			Kind: KindCloset,
			Rect: cmRect(t.WidthCm-t.Closet.DepthCm, 0, t.Closet.DepthCm, t.Closet.WidthCm),
		})
	}
	start := 0.0
	for i, b := range t.Benches {
		x := start + b.GapCm
		id := KindBench
		if i > 0 {
			id = KindBench + "-" + strconv.Itoa(i+1)
		}
		out = append(out, Fixture{
			ID:   id,
			Kind: KindBench,
			Rect: cmRect(x, t.HeightCm-b.DepthCm, b.LengthCm, b.DepthCm),
		})
		// the next bench is measured from where this one ends
		start = x + b.LengthCm
	}
	return out
}

func viewBox(room models.Rect, pad float64) models.ViewBox {
	r := room.Inset(-pad)
	return models.ViewBox{X: r.X, Y: r.Y, Width: r.Width, Height: r.Height}
}

func cmPoint(x, y float64) models.Point {
	return models.Point{X: units.ToDrawingUnits(x), Y: units.ToDrawingUnits(y)}
}

func cmRect(x, y, w, h float64) models.Rect {
	return models.Rect{
		X:      units.ToDrawingUnits(x),
		Y:      units.ToDrawingUnits(y),
		Width:  units.ToDrawingUnits(w),
		Height: units.ToDrawingUnits(h),
	}
}
