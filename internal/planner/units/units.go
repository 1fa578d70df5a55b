// Package units converts between real-world centimeters and drawing units.
//
// One grid cell is CellSize drawing units on screen and CellCm centimeters on the
// floor, joint included. That ratio is the only conversion factor in the planner.
package units

import (
	"fmt"
	"math"
)

const (
	// CellSize is the edge of one grid cell in drawing units.
	CellSize = 10.0
	// CellCm is the edge of one tile plus its joint, in centimeters.
	CellCm = 11.55
	// JointWidth is the stroke drawn between cells, in drawing units.
	JointWidth = 0.3
)

// ToDrawingUnits converts centimeters to drawing units.
func ToDrawingUnits(cm float64) float64 {
	return cm / CellCm * CellSize
}

// ToCentimeters converts drawing units back to centimeters.
func ToCentimeters(du float64) float64 {
	return du / CellSize * CellCm
}

// FormatLength renders a drawing-unit length as "3.15m" or "55cm".
func FormatLength(du float64) string {
	return FormatCentimeters(ToCentimeters(du))
}

// FormatCentimeters renders a centimeter length, switching to meters at 100cm.
func FormatCentimeters(cm float64) string {
	// drop float noise left by the cm -> du -> cm round trip
	cm = math.Round(cm*1e6) / 1e6
	if cm >= 100 {
		return fmt.Sprintf("%.2fm", cm/100)
	}
	return fmt.Sprintf("%dcm", int(math.Round(cm)))
}
