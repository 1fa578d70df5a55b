package layout

import (
	"math"
	"os"
	"path/filepath"
	"reflect"
	"testing"

	"tile-planner/internal/planner/models"
	"tile-planner/internal/planner/units"
)

func near(a, b float64) bool { return math.Abs(a-b) < 1e-9 }

func TestDeriveRoom(t *testing.T) {
	tmpl := DefaultTemplate()
	g := Derive(tmpl)

	if !near(g.Room.Width, units.ToDrawingUnits(315)) || !near(g.Room.Height, units.ToDrawingUnits(430)) {
		t.Fatalf("room = %+v", g.Room)
	}
	if g.Interior != g.Room {
		t.Errorf("interior %+v != room %+v", g.Interior, g.Room)
	}
	if got := units.FormatLength(g.Room.Width); got != "3.15m" {
		t.Errorf("room width label = %q", got)
	}
}

func TestPerimeterWallsStraddleBoundary(t *testing.T) {
	g := Derive(DefaultTemplate())
	half := g.WallThickness / 2
	room := g.Room

	want := []models.Rect{
		{X: -half, Y: -half, Width: room.Width + 2*half, Height: 2 * half},
		{X: -half, Y: room.Height - half, Width: room.Width + 2*half, Height: 2 * half},
		{X: -half, Y: -half, Width: 2 * half, Height: room.Height + 2*half},
		{X: room.Width - half, Y: -half, Width: 2 * half, Height: room.Height + 2*half},
	}
	for i, w := range want {
		got := g.Walls[i].Rect()
		if !near(got.X, w.X) || !near(got.Y, w.Y) || !near(got.Width, w.Width) || !near(got.Height, w.Height) {
			t.Errorf("perimeter wall %d = %+v, want %+v", i, got, w)
		}
	}
}

func TestPartitionsAndClosetFront(t *testing.T) {
	tmpl := DefaultTemplate()
	g := Derive(tmpl)
	// 4 perimeter + stair side wall + closet front
	if len(g.Walls) != 6 {
		t.Fatalf("walls = %d, want 6", len(g.Walls))
	}
	stairSide := g.Walls[4]
	if stairSide.Horizontal() || !near(stairSide.Length(), units.ToDrawingUnits(260)) {
		t.Errorf("stair side wall = %+v", stairSide)
	}
	front := g.Walls[5].Rect()
	if !near(front.X+front.Width/2, units.ToDrawingUnits(315-60)) {
		t.Errorf("closet front centered at x=%v", front.X+front.Width/2)
	}

	tmpl.Closet.Enclosed = false
	if n := len(Derive(tmpl).Walls); n != 5 {
		t.Errorf("open closet walls = %d, want 5", n)
	}
}

func TestFixturesAreChained(t *testing.T) {
	g := Derive(DefaultTemplate())

	stair, ok := g.Fixture("stair")
	if !ok || stair.Rect.X != 0 || stair.Rect.Y != 0 {
		t.Errorf("stair = %+v, %v", stair, ok)
	}
	closet, ok := g.Fixture("closet")
	if !ok || !near(closet.Rect.MaxX(), g.Room.MaxX()) || closet.Rect.Y != 0 {
		t.Errorf("closet = %+v, %v", closet, ok)
	}

	first, ok1 := g.Fixture("bench")
	second, ok2 := g.Fixture("bench-2")
	if !ok1 || !ok2 {
		t.Fatalf("benches missing: %+v", g.Fixtures)
	}
	if !near(first.Rect.X, units.ToDrawingUnits(20)) {
		t.Errorf("first bench x = %v", first.Rect.X)
	}
	if !near(second.Rect.X, first.Rect.MaxX()) {
		t.Errorf("second bench starts at %v, first ends at %v", second.Rect.X, first.Rect.MaxX())
	}
	if !near(first.Rect.MaxY(), g.Room.MaxY()) || !near(second.Rect.MaxY(), g.Room.MaxY()) {
		t.Error("benches are not against the bottom wall")
	}
}

func TestViewBoxPadsRoom(t *testing.T) {
	tmpl := DefaultTemplate()
	g := Derive(tmpl)
	pad := g.WallThickness/2 + units.ToDrawingUnits(tmpl.MarginCm)
	if !near(g.ViewBox.X, -pad) || !near(g.ViewBox.Width, g.Room.Width+2*pad) {
		t.Errorf("viewBox = %+v, pad = %v", g.ViewBox, pad)
	}
}

func TestDeriveIsPure(t *testing.T) {
	a := Derive(DefaultTemplate())
	b := Derive(DefaultTemplate())
	if !reflect.DeepEqual(a, b) {
		t.Error("Derive is not deterministic")
	}
}

func TestLoadTemplate(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "room.yaml")
	data := []byte(`
name: studio
width_cm: 400
benches:
  - length_cm: 100
    depth_cm: 45
`)
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatal(err)
	}
	tmpl, err := LoadTemplate(path)
	if err != nil {
		t.Fatal(err)
	}
	if tmpl.Name != "studio" || tmpl.WidthCm != 400 {
		t.Errorf("template = %+v", tmpl)
	}
	if tmpl.HeightCm != 430 {
		t.Errorf("height should keep its default, got %v", tmpl.HeightCm)
	}
	if len(tmpl.Benches) != 1 {
		t.Errorf("benches = %+v", tmpl.Benches)
	}

	if _, err := LoadTemplate(filepath.Join(dir, "missing.yaml")); err == nil {
		t.Error("missing file loaded")
	}
	bad := filepath.Join(dir, "bad.yaml")
	if err := os.WriteFile(bad, []byte("width_cm: -3\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := LoadTemplate(bad); err == nil {
		t.Error("negative width accepted")
	}
}

func TestValidate(t *testing.T) {
	if err := DefaultTemplate().Validate(); err != nil {
		t.Fatalf("default template: %v", err)
	}
	tests := []struct {
		name string
		edit func(*Template)
	}{
		{"zero thickness", func(t *Template) { t.WallThicknessCm = 0 }},
		{"benches too long", func(t *Template) { t.Benches[1].LengthCm = 500 }},
		{"diagonal partition", func(t *Template) { t.Partitions[0].ToXCm = 120 }},
		{"partition outside", func(t *Template) { t.Partitions[0].ToYCm = 900 }},
		{"stair hits closet", func(t *Template) { t.Stair.WidthCm = 300 }},
	}
	for _, tt := range tests {
		tmpl := DefaultTemplate()
		tt.edit(&tmpl)
		if err := tmpl.Validate(); err == nil {
			t.Errorf("%s: accepted", tt.name)
		}
	}
}

func TestShippedTemplateMatchesDefault(t *testing.T) {
	tmpl, err := LoadTemplate(filepath.Join("..", "..", "..", "configs", "room.yaml"))
	if err != nil {
		t.Fatal(err)
	}
	if !reflect.DeepEqual(tmpl, DefaultTemplate()) {
		t.Errorf("configs/room.yaml = %+v\nwant %+v", tmpl, DefaultTemplate())
	}
}
