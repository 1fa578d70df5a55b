// Package catalog holds the fixed table of tile colors and normalizes color strings.
package catalog

import (
	"errors"
	"fmt"
	"image/color"
	"strings"

	"github.com/mazznoer/csscolorparser"
	"golang.org/x/image/colornames"
)

// Color is one entry of the tile color catalog.
type Color struct {
	Name string `json:"name"`
	Hex  string `json:"hex"`
	Code int    `json:"code"`
}

// ErrInvalidColor is returned for strings that name no color.
var ErrInvalidColor = errors.New("invalid color")

// Black is the default joint color.
const Black = "#050400"

// White is used for cells that carry no palette color.
const White = "#ffffff"

var colors = []Color{
	{Name: "RED", Hex: "#c43a34", Code: 1},
	{Name: "LOBSTER", Hex: "#c75732", Code: 2},
	{Name: "CORAL", Hex: "#c17858", Code: 3},
	{Name: "BORDEAUX", Hex: "#6d2a36", Code: 4},
	{Name: "PURPLE", Hex: "#361040", Code: 5},
	{Name: "VIOLET", Hex: "#543145", Code: 6},
	{Name: "ROSE", Hex: "#f7e0d0", Code: 7},
	{Name: "STRAWBERRY", Hex: "#ce978a", Code: 8},
	{Name: "BLUSH", Hex: "#dba589", Code: 9},
	{Name: "NUDE", Hex: "#ddb08f", Code: 10},
	{Name: "POWDER", Hex: "#e9d1b8", Code: 11},
	{Name: "TERRA", Hex: "#cba782", Code: 12},
	{Name: "TOBACCO", Hex: "#966240", Code: 13},
	{Name: "CURRY", Hex: "#c9aa6a", Code: 14},
	{Name: "KHAKI", Hex: "#90833c", Code: 15},
	{Name: "LEMON", Hex: "#feef8d", Code: 16},
	{Name: "VANILLA", Hex: "#f3e8bc", Code: 17},
	{Name: "SAND", Hex: "#ddccab", Code: 18},
	{Name: "NUT", Hex: "#dbc7ab", Code: 19},
	{Name: "ALMOND", Hex: "#f2ebe0", Code: 20},
	{Name: "WHITE", Hex: "#ffffff", Code: 21},
	{Name: "PEARL", Hex: "#dedad3", Code: 22},
	{Name: "GREY", Hex: "#b9b09c", Code: 23},
	{Name: "MUD", Hex: "#b1a893", Code: 24},
	{Name: "BLACK", Hex: "#050400", Code: 25},
	{Name: "ANTRAX", Hex: "#3e3d40", Code: 26},
	{Name: "NOTTE", Hex: "#465057", Code: 27},
	{Name: "OCEAN", Hex: "#003769", Code: 28},
	{Name: "TUAREG", Hex: "#79a5d1", Code: 29},
	{Name: "POOL", Hex: "#7fa8c5", Code: 30},
	{Name: "CERULEAN", Hex: "#8294a4", Code: 31},
	{Name: "CLOUD", Hex: "#90a2a6", Code: 32},
	{Name: "SKY", Hex: "#a7b2ab", Code: 33},
	{Name: "CELADON", Hex: "#9fab9f", Code: 34},
	{Name: "MUSK", Hex: "#8b9485", Code: 35},
	{Name: "SALVIA", Hex: "#d2d4c5", Code: 36},
	{Name: "MILITARY", Hex: "#5b6555", Code: 37},
	{Name: "FROG", Hex: "#819e79", Code: 38},
	{Name: "PEACOCK", Hex: "#0b4a48", Code: 39},
	{Name: "MARINE", Hex: "#7fbdb2", Code: 40},
	{Name: "MINT", Hex: "#b4d2bc", Code: 41},
}

var byName = func() map[string]Color {
	m := make(map[string]Color, len(colors))
	for _, c := range colors {
		m[c.Name] = c
	}
	return m
}()

// All returns the catalog in code order.
func All() []Color {
	out := make([]Color, len(colors))
	copy(out, colors)
	return out
}

// Lookup finds a catalog color by name, case-insensitively.
func Lookup(name string) (Color, bool) {
	c, ok := byName[strings.ToUpper(strings.TrimSpace(name))]
	return c, ok
}

// Normalize turns a catalog name, a CSS color name or any CSS color notation
// into lowercase "#rrggbb". Alpha is dropped.
func Normalize(s string) (string, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return "", fmt.Errorf("empty string: %w", ErrInvalidColor)
	}
	if c, ok := Lookup(s); ok {
		return c.Hex, nil
	}
	if rgba, ok := colornames.Map[strings.ToLower(s)]; ok {
		return hex(rgba), nil
	}
	parsed, err := csscolorparser.Parse(s)
	if err != nil {
		return "", fmt.Errorf("%w %q: %v", ErrInvalidColor, s, err)
	}
	r, g, b, _ := parsed.RGBA255()
	return hex(color.RGBA{R: r, G: g, B: b, A: 0xff}), nil
}

func hex(c color.RGBA) string {
	return fmt.Sprintf("#%02x%02x%02x", c.R, c.G, c.B)
}
