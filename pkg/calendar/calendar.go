package calendar

import (
	"sort"
	"time"

	"github.com/Komeii/courseweb/pkg/timecode"
	"github.com/Komeii/courseweb/pkg/timetable"
)

// Mode is the span a calendar view covers.
type Mode int

const (
	ModeWeek Mode = iota
	ModeMonth
)

// Week returns the seven dates of the Monday-start week containing date,
// each at midnight in date's location.
func Week(date time.Time) []time.Time {
	monday := startOfWeek(date)
	dates := make([]time.Time, 7)
	for i := range dates {
		dates[i] = monday.AddDate(0, 0, i)
	}
	return dates
}

// MonthForDisplay returns whole Monday-start weeks covering date's month,
// so the grid starts on the Monday on or before the 1st and ends on the
// Sunday on or after the last day.
func MonthForDisplay(date time.Time) []time.Time {
	first := time.Date(date.Year(), date.Month(), 1, 0, 0, 0, 0, date.Location())
	last := first.AddDate(0, 1, -1)

	var dates []time.Time
	for d := startOfWeek(first); !d.After(last) || timecode.FromWeekday(d.Weekday()) != timecode.Monday; d = d.AddDate(0, 0, 1) {
		dates = append(dates, d)
	}
	return dates
}

// Dates returns the display dates for mode around date.
func Dates(mode Mode, date time.Time) []time.Time {
	if mode == ModeMonth {
		return MonthForDisplay(date)
	}
	return Week(date)
}

// Move shifts date by n weeks or n months, depending on mode.
func Move(mode Mode, date time.Time, n int) time.Time {
	if mode == ModeMonth {
		first := time.Date(date.Year(), date.Month(), 1, 0, 0, 0, 0, date.Location())
		return first.AddDate(0, n, 0)
	}
	return date.AddDate(0, 0, 7*n)
}

// Center is the date a multi-week range is anchored on.
func Center(dates []time.Time) time.Time {
	if len(dates) == 0 {
		return time.Time{}
	}
	return dates[len(dates)/2]
}

func startOfWeek(date time.Time) time.Time {
	midnight := time.Date(date.Year(), date.Month(), date.Day(), 0, 0, 0, 0, date.Location())
	return midnight.AddDate(0, 0, -int(timecode.FromWeekday(date.Weekday())))
}

// Entry is a timetable block placed on a real date.
type Entry struct {
	Date     time.Time
	Start    time.Time
	End      time.Time
	CourseID string
	Venue    string
	Color    timetable.Color
}

// Agenda places every block on each displayed date whose weekday matches,
// ordered by start time then course id. Dates for which active returns
// false are left empty; a nil active keeps every date.
func Agenda(dates []time.Time, blocks []timetable.Block, clock timecode.Clock, active func(time.Time) bool) []Entry {
	var entries []Entry
	for _, date := range dates {
		if active != nil && !active(date) {
			continue
		}
		day := timecode.FromWeekday(date.Weekday())
		for _, b := range blocks {
			if b.Day != day {
				continue
			}
			start, end := clock.Span(timecode.Interval{Day: b.Day, StartSlot: b.StartSlot, EndSlot: b.EndSlot}, date)
			entries = append(entries, Entry{
				Date:     date,
				Start:    start,
				End:      end,
				CourseID: b.CourseID,
				Venue:    b.Venue,
				Color:    b.Color,
			})
		}
	}

	sort.SliceStable(entries, func(i, j int) bool {
		if !entries[i].Start.Equal(entries[j].Start) {
			return entries[i].Start.Before(entries[j].Start)
		}
		return entries[i].CourseID < entries[j].CourseID
	})
	return entries
}

// ByDate groups entries by calendar day, keyed "2006-01-02".
func ByDate(entries []Entry) map[string][]Entry {
	out := make(map[string][]Entry)
	for _, e := range entries {
		key := e.Date.Format(time.DateOnly)
		out[key] = append(out[key], e)
	}
	return out
}
