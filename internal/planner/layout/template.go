// Package layout derives the fixed room geometry from centimeter measurements.
package layout

import (
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// ============================================================
// Template
// ============================================================

// Template describes the room in centimeters. Every derived rectangle is a pure
// function of these numbers.
type Template struct {
	Name            string      `yaml:"name" json:"name"`
	WidthCm         float64     `yaml:"width_cm" json:"width_cm"`
	HeightCm        float64     `yaml:"height_cm" json:"height_cm"`
	WallThicknessCm float64     `yaml:"wall_thickness_cm" json:"wall_thickness_cm"`
	MarginCm        float64     `yaml:"margin_cm" json:"margin_cm"`
	Partitions      []Partition `yaml:"partitions" json:"partitions"`
	Stair           Stair       `yaml:"stair" json:"stair"`
	Closet          Closet      `yaml:"closet" json:"closet"`
	Benches         []Bench     `yaml:"benches" json:"benches"`
}

// Partition is an interior wall between two points given in centimeters from the
// room's top-left corner.
type Partition struct {
	FromXCm float64 `yaml:"from_x_cm" json:"from_x_cm"`
	FromYCm float64 `yaml:"from_y_cm" json:"from_y_cm"`
	ToXCm   float64 `yaml:"to_x_cm" json:"to_x_cm"`
	ToYCm   float64 `yaml:"to_y_cm" json:"to_y_cm"`
}

// Stair sits in the top-left corner, running down from the top wall.
type Stair struct {
	WidthCm  float64 `yaml:"width_cm" json:"width_cm"`
	LengthCm float64 `yaml:"length_cm" json:"length_cm"`
}

// Closet sits in the top-right corner against the right wall.
type Closet struct {
	DepthCm  float64 `yaml:"depth_cm" json:"depth_cm"`
	WidthCm  float64 `yaml:"width_cm" json:"width_cm"`
	Enclosed bool    `yaml:"enclosed" json:"enclosed"`
}

// Bench runs along the bottom wall. The first bench starts GapCm from the left
// edge; each following one starts GapCm after the previous bench ends.
type Bench struct {
	LengthCm float64 `yaml:"length_cm" json:"length_cm"`
	DepthCm  float64 `yaml:"depth_cm" json:"depth_cm"`
	GapCm    float64 `yaml:"gap_cm" json:"gap_cm"`
}

// DefaultTemplate is the hall the planner ships with.
func DefaultTemplate() Template {
	return Template{
		Name:            "hall",
		WidthCm:         315,
		HeightCm:        430,
		WallThicknessCm: 12,
		MarginCm:        30,
		Partitions: []Partition{
			// stair side wall
			{FromXCm: 90, FromYCm: 0, ToXCm: 90, ToYCm: 260},
		},
		Stair:  Stair{WidthCm: 90, LengthCm: 260},
		Closet: Closet{DepthCm: 60, WidthCm: 120, Enclosed: true},
		Benches: []Bench{
			{LengthCm: 140, DepthCm: 40, GapCm: 20},
			{LengthCm: 110, DepthCm: 40},
		},
	}
}

// LoadTemplate reads a YAML template. Fields missing from the file keep their
// DefaultTemplate values.
func LoadTemplate(path string) (Template, error) {
	t := DefaultTemplate()
	data, err := os.ReadFile(path)
	if err != nil {
		return Template{}, fmt.Errorf("layout: read %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, &t); err != nil {
		return Template{}, fmt.Errorf("layout: unmarshal %s: %w", path, err)
	}
	if err := t.Validate(); err != nil {
		return Template{}, fmt.Errorf("layout: %s: %w", path, err)
	}
	return t, nil
}

// Validate checks that every fixture fits inside the room.
func (t Template) Validate() error {
	var errs []error
	if t.WidthCm <= 0 || t.HeightCm <= 0 {
		errs = append(errs, fmt.Errorf("room size %gx%g must be positive", t.WidthCm, t.HeightCm))
	}
	if t.WallThicknessCm <= 0 {
		errs = append(errs, fmt.Errorf("wall thickness %g must be positive", t.WallThicknessCm))
	}
	if t.MarginCm < 0 {
		errs = append(errs, fmt.Errorf("margin %g must not be negative", t.MarginCm))
	}
	if t.Stair.WidthCm < 0 || t.Stair.LengthCm < 0 || t.Stair.WidthCm > t.WidthCm || t.Stair.LengthCm > t.HeightCm {
		errs = append(errs, fmt.Errorf("stair %gx%g does not fit the room", t.Stair.WidthCm, t.Stair.LengthCm))
	}
	if t.Closet.DepthCm < 0 || t.Closet.WidthCm < 0 || t.Closet.WidthCm > t.HeightCm {
		errs = append(errs, fmt.Errorf("closet %gx%g does not fit the room", t.Closet.DepthCm, t.Closet.WidthCm))
	}
	if t.Stair.WidthCm+t.Closet.DepthCm > t.WidthCm {
		errs = append(errs, fmt.Errorf("stair and closet overlap: %g + %g > %g", t.Stair.WidthCm, t.Closet.DepthCm, t.WidthCm))
	}
	end := 0.0
	for i, b := range t.Benches {
		if b.LengthCm <= 0 || b.DepthCm <= 0 || b.GapCm < 0 {
			errs = append(errs, fmt.Errorf("bench %d has invalid size %gx%g gap %g", i, b.LengthCm, b.DepthCm, b.GapCm))
			continue
		}
		end += b.GapCm + b.LengthCm
		if b.DepthCm > t.HeightCm {
			errs = append(errs, fmt.Errorf("bench %d depth %g exceeds room height", i, b.DepthCm))
		}
	}
	if end > t.WidthCm {
		errs = append(errs, fmt.Errorf("benches end at %gcm, past the room width %gcm", end, t.WidthCm))
	}
	for i, p := range t.Partitions {
		if p.FromXCm != p.ToXCm && p.FromYCm != p.ToYCm {
			errs = append(errs, fmt.Errorf("partition %d is not axis-aligned", i))
		}
		for _, c := range [][2]float64{{p.FromXCm, p.FromYCm}, {p.ToXCm, p.ToYCm}} {
			if c[0] < 0 || c[0] > t.WidthCm || c[1] < 0 || c[1] > t.HeightCm {
				errs = append(errs, fmt.Errorf("partition %d point (%g,%g) is outside the room", i, c[0], c[1]))
			}
		}
	}
	return errors.Join(errs...)
}
