package timetable

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAssignColors_Deterministic(t *testing.T) {
	ids := []string{"11210CS 135500", "11210EE 200000", "11210MATH100100"}
	palette := Palettes[DefaultPalette]

	first, err := AssignColors(ids, palette)
	require.NoError(t, err)
	second, err := AssignColors(ids, palette)
	require.NoError(t, err)

	assert.Equal(t, first, second)
	assert.Equal(t, palette[0], first[ids[0]])
	assert.Equal(t, palette[1], first[ids[1]])
	assert.Equal(t, palette[2], first[ids[2]])
}

func TestAssignColors_Wraps(t *testing.T) {
	palette := []Color{"#a", "#b", "#c"}
	ids := []string{"1", "2", "3", "4", "5"}

	got, err := AssignColors(ids, palette)
	require.NoError(t, err)
	assert.Equal(t, got["1"], got["4"])
	assert.Equal(t, got["2"], got["5"])
	assert.Equal(t, Color("#c"), got["3"])
}

func TestAssignColors_Positional(t *testing.T) {
	palette := []Color{"#a", "#b"}

	forward, err := AssignColors([]string{"X", "Y"}, palette)
	require.NoError(t, err)
	reversed, err := AssignColors([]string{"Y", "X"}, palette)
	require.NoError(t, err)

	assert.Equal(t, Color("#a"), forward["X"])
	assert.Equal(t, Color("#b"), reversed["X"])
}

func TestAssignColors_DuplicatesUseFirstAppearance(t *testing.T) {
	got, err := AssignColors([]string{"X", "Y", "X", "Z"}, []Color{"#a", "#b", "#c"})
	require.NoError(t, err)
	assert.Equal(t, ColorAssignment{"X": "#a", "Y": "#b", "Z": "#c"}, got)
}

func TestAssignColors_EmptyPalette(t *testing.T) {
	for _, palette := range [][]Color{nil, {}} {
		got, err := AssignColors([]string{"C1"}, palette)
		assert.ErrorIs(t, err, ErrInvalidInput)
		assert.Nil(t, got)
	}
}

func TestSortedIDs(t *testing.T) {
	assert.Equal(t, []string{"a", "b", "c"}, SortedIDs([]string{"c", "a", "b", "a"}))
}

func TestPaletteByName(t *testing.T) {
	assert.Equal(t, Palettes["pastel"], PaletteByName(" Pastel "))
	assert.Equal(t, Palettes[DefaultPalette], PaletteByName("nope"))
	assert.Contains(t, PaletteNames(), "ocean")
}
