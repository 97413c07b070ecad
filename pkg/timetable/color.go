package timetable

import (
	"errors"
	"sort"
	"strings"
)

// ErrInvalidInput is returned when colors cannot be assigned from an empty palette.
var ErrInvalidInput = errors.New("invalid input: palette must not be empty")

// Color is a hex color string such as "#f87171".
type Color string

// ColorAssignment maps a course id to its timetable color.
type ColorAssignment map[string]Color

// AssignColors gives the i-th distinct course id (by first appearance) the
// color palette[i mod len(palette)]. The mapping depends only on the order of
// courseIDs and on the palette, so callers wanting stability across sessions
// should pass a stable order (see SortedIDs).
func AssignColors(courseIDs []string, palette []Color) (ColorAssignment, error) {
	if len(palette) == 0 {
		return nil, ErrInvalidInput
	}

	out := make(ColorAssignment, len(courseIDs))
	next := 0
	for _, id := range courseIDs {
		if _, ok := out[id]; ok {
			continue
		}
		out[id] = palette[next%len(palette)]
		next++
	}
	return out, nil
}

// SortedIDs returns the distinct ids in ascending order.
func SortedIDs(courseIDs []string) []string {
	seen := make(map[string]bool, len(courseIDs))
	out := make([]string, 0, len(courseIDs))
	for _, id := range courseIDs {
		if !seen[id] {
			seen[id] = true
			out = append(out, id)
		}
	}
	sort.Strings(out)
	return out
}

// DefaultPalette is the name of the palette used when none is configured.
const DefaultPalette = "harmony"

// Palettes holds the built-in timetable palettes by name.
var Palettes = map[string][]Color{
	"harmony": {
		"#845EC2", "#D65DB1", "#FF6F91", "#FF9671", "#FFC75F",
		"#F9F871", "#008F7A", "#0089BA", "#2C73D2", "#C34A36",
	},
	"pastel": {
		"#FFADAD", "#FFD6A5", "#FDFFB6", "#CAFFBF", "#9BF6FF",
		"#A0C4FF", "#BDB2FF", "#FFC6FF",
	},
	"ocean": {
		"#03045E", "#023E8A", "#0077B6", "#0096C7", "#00B4D8",
		"#48CAE4", "#90E0EF",
	},
	"mono": {
		"#F8F9FA", "#DEE2E6", "#ADB5BD", "#6C757D", "#343A40",
	},
}

// PaletteByName looks a palette up case-insensitively, falling back to the
// default palette for an unknown or empty name.
func PaletteByName(name string) []Color {
	if p, ok := Palettes[strings.ToLower(strings.TrimSpace(name))]; ok {
		return p
	}
	return Palettes[DefaultPalette]
}

// PaletteNames lists the built-in palette names in order.
func PaletteNames() []string {
	names := make([]string, 0, len(Palettes))
	for n := range Palettes {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}
