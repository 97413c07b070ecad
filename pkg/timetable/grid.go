package timetable

import (
	"sort"

	"github.com/Komeii/courseweb/pkg/timecode"
)

// Session is one course with all of its weekly meeting intervals.
type Session struct {
	CourseID  string
	Intervals []timecode.Interval
}

// Cell is one (day, slot) position of the weekly grid.
type Cell struct {
	Day       timecode.Day
	Slot      int
	Occupants []string
}

// Overlapping reports whether more than one course occupies the cell.
func (c Cell) Overlapping() bool {
	return len(c.Occupants) > 1
}

// Grid records which courses occupy each (day, slot) cell of a week. It never
// rejects a placement: overlaps are kept as data for the caller to judge.
type Grid struct {
	cells [timecode.DaysPerWeek][timecode.SlotsPerDay]map[string]struct{}
}

// BuildGrid places every interval of every session into a fresh grid.
// The result does not depend on the order of sessions.
func BuildGrid(sessions []Session) *Grid {
	g := &Grid{}
	for _, s := range sessions {
		for _, iv := range s.Intervals {
			g.place(s.CourseID, iv)
		}
	}
	return g
}

func (g *Grid) place(courseID string, iv timecode.Interval) {
	if !iv.Day.Valid() {
		return
	}
	for slot := iv.StartSlot; slot <= iv.EndSlot; slot++ {
		if slot < 0 || slot >= timecode.SlotsPerDay {
			continue
		}
		set := g.cells[iv.Day][slot]
		if set == nil {
			set = make(map[string]struct{})
			g.cells[iv.Day][slot] = set
		}
		set[courseID] = struct{}{}
	}
}

// Occupants returns the sorted course ids in a cell. Out-of-range positions
// are empty.
func (g *Grid) Occupants(day timecode.Day, slot int) []string {
	if !day.Valid() || slot < 0 || slot >= timecode.SlotsPerDay {
		return nil
	}
	return sortedKeys(g.cells[day][slot])
}

// Cells returns every occupied cell in day-then-slot order.
func (g *Grid) Cells() []Cell {
	var out []Cell
	for d := timecode.Monday; d <= timecode.Sunday; d++ {
		for slot := 0; slot < timecode.SlotsPerDay; slot++ {
			if len(g.cells[d][slot]) == 0 {
				continue
			}
			out = append(out, Cell{Day: d, Slot: slot, Occupants: sortedKeys(g.cells[d][slot])})
		}
	}
	return out
}

// HasConflict is true iff some cell holds two or more distinct courses.
func (g *Grid) HasConflict() bool {
	for d := range g.cells {
		for slot := range g.cells[d] {
			if len(g.cells[d][slot]) > 1 {
				return true
			}
		}
	}
	return false
}

// Conflicts returns the overlapping cells in day-then-slot order.
func (g *Grid) Conflicts() []Cell {
	var out []Cell
	for _, c := range g.Cells() {
		if c.Overlapping() {
			out = append(out, c)
		}
	}
	return out
}

// Pair is an unordered pair of overlapping courses, A < B.
type Pair struct {
	A, B string
}

// ConflictingPairs lists each pair of courses that share at least one cell.
func (g *Grid) ConflictingPairs() []Pair {
	seen := make(map[Pair]bool)
	var out []Pair

	for _, c := range g.Conflicts() {
		for i := 0; i < len(c.Occupants); i++ {
			for j := i + 1; j < len(c.Occupants); j++ {
				p := Pair{A: c.Occupants[i], B: c.Occupants[j]}
				if !seen[p] {
					seen[p] = true
					out = append(out, p)
				}
			}
		}
	}

	sort.Slice(out, func(i, j int) bool {
		if out[i].A != out[j].A {
			return out[i].A < out[j].A
		}
		return out[i].B < out[j].B
	})
	return out
}

// LastUsedSlot returns the highest occupied slot, or -1 for an empty grid.
func (g *Grid) LastUsedSlot() int {
	last := -1
	for d := range g.cells {
		for slot := range g.cells[d] {
			if len(g.cells[d][slot]) > 0 && slot > last {
				last = slot
			}
		}
	}
	return last
}

func sortedKeys(set map[string]struct{}) []string {
	if len(set) == 0 {
		return nil
	}
	keys := make([]string, 0, len(set))
	for k := range set {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
