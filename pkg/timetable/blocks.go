package timetable

import (
	"sort"

	"github.com/Komeii/courseweb/pkg/timecode"
)

// Block is one renderable timetable entry: a course meeting on a day across
// a span of slots.
type Block struct {
	CourseID  string
	Day       timecode.Day
	StartSlot int
	EndSlot   int
	Venue     string
	Color     Color
}

// Blocks turns sessions into renderable blocks, one per interval, colored
// from the assignment. Blocks are ordered by day, start slot, then course.
func Blocks(sessions []Session, colors ColorAssignment) []Block {
	var out []Block
	for _, s := range sessions {
		for _, iv := range s.Intervals {
			out = append(out, Block{
				CourseID:  s.CourseID,
				Day:       iv.Day,
				StartSlot: iv.StartSlot,
				EndSlot:   iv.EndSlot,
				Venue:     iv.Venue,
				Color:     colors[s.CourseID],
			})
		}
	}

	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Day != out[j].Day {
			return out[i].Day < out[j].Day
		}
		if out[i].StartSlot != out[j].StartSlot {
			return out[i].StartSlot < out[j].StartSlot
		}
		return out[i].CourseID < out[j].CourseID
	})
	return out
}

// CourseIDs returns the session ids in the order given.
func CourseIDs(sessions []Session) []string {
	ids := make([]string, 0, len(sessions))
	for _, s := range sessions {
		ids = append(ids, s.CourseID)
	}
	return ids
}

// Build is the usual pipeline for a course set: grid, colors in the given
// session order, and blocks.
func Build(sessions []Session, palette []Color) (*Grid, ColorAssignment, []Block, error) {
	colors, err := AssignColors(CourseIDs(sessions), palette)
	if err != nil {
		return nil, nil, nil, err
	}
	return BuildGrid(sessions), colors, Blocks(sessions, colors), nil
}
