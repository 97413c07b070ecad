package bus

import (
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/Komeii/courseweb/pkg/timecode"
)

var (
	// ErrMissingSlot means a schedule row has no time for the resolved stop.
	ErrMissingSlot = errors.New("schedule row has no time for stop")
	ErrBadTime     = errors.New("unrecognized time of day")
)

// Row is one validated bus_schedule record: a single run of a route, with
// one time-of-day per stop in the route path.
type Row struct {
	ID        int
	RouteCode string
	Schedule  []string
	Vehicle   string
	Days      string
}

// ScheduleItem is a row joined with its route and resolved against a stop
// and a reference date.
type ScheduleItem struct {
	ID           int
	RouteCode    string
	StopIndex    int
	ScheduleText []string
	Vehicle      string
	Route        Route
	Arrival      time.Time
}

// ArrivalFor combines the time of day in row.Schedule[stopIndex] with the
// calendar date of now, as a wall-clock reading in now's location.
func ArrivalFor(row Row, stopIndex int, now time.Time) (time.Time, error) {
	if stopIndex < 0 || stopIndex >= len(row.Schedule) {
		return time.Time{}, fmt.Errorf("%w: row %d has %d entries, need index %d", ErrMissingSlot, row.ID, len(row.Schedule), stopIndex)
	}

	text := strings.TrimSpace(row.Schedule[stopIndex])
	if text == "" {
		return time.Time{}, fmt.Errorf("%w: row %d index %d is empty", ErrMissingSlot, row.ID, stopIndex)
	}

	clock, err := parseClock(text)
	if err != nil {
		return time.Time{}, fmt.Errorf("row %d: %w", row.ID, err)
	}

	return timecode.OnDate(now, clock), nil
}

func parseClock(text string) (time.Duration, error) {
	for _, layout := range []string{"15:04", "15:04:05"} {
		if t, err := time.Parse(layout, text); err == nil {
			return time.Duration(t.Hour())*time.Hour + time.Duration(t.Minute())*time.Minute + time.Duration(t.Second())*time.Second, nil
		}
	}
	return 0, fmt.Errorf("%w: %q", ErrBadTime, text)
}

// ComputeArrivals resolves every row of every route passing stopID into a
// ScheduleItem for the date of now, sorted ascending by arrival. Rows that
// lack a time for the stop are skipped.
func ComputeArrivals(topo *Topology, rows []Row, stopID string, now time.Time) []ScheduleItem {
	byCode := make(map[string]RouteStop)
	for _, rs := range topo.RoutesThrough(stopID) {
		byCode[rs.Route.Code] = rs
	}

	var items []ScheduleItem
	for _, row := range rows {
		rs, ok := byCode[row.RouteCode]
		if !ok {
			continue
		}

		arrival, err := ArrivalFor(row, rs.StopIndex, now)
		if err != nil {
			continue
		}

		items = append(items, ScheduleItem{
			ID:           row.ID,
			RouteCode:    row.RouteCode,
			StopIndex:    rs.StopIndex,
			ScheduleText: row.Schedule,
			Vehicle:      row.Vehicle,
			Route:        rs.Route,
			Arrival:      arrival,
		})
	}

	sort.SliceStable(items, func(i, j int) bool {
		if !items[i].Arrival.Equal(items[j].Arrival) {
			return items[i].Arrival.Before(items[j].Arrival)
		}
		return items[i].ID < items[j].ID
	})
	return items
}

// FilterUpcoming keeps the items arriving strictly after now, preserving order.
func FilterUpcoming(items []ScheduleItem, now time.Time) []ScheduleItem {
	var out []ScheduleItem
	for _, it := range items {
		if it.Arrival.After(now) {
			out = append(out, it)
		}
	}
	return out
}

// FilterServiceDay drops rows that do not run on now's weekday. Rows with
// an empty, "all" or unrecognized days value always run.
func FilterServiceDay(rows []Row, now time.Time) []Row {
	weekend := now.Weekday() == time.Saturday || now.Weekday() == time.Sunday

	var out []Row
	for _, r := range rows {
		switch strings.ToLower(strings.TrimSpace(r.Days)) {
		case "weekday":
			if weekend {
				continue
			}
		case "weekend":
			if !weekend {
				continue
			}
		}
		out = append(out, r)
	}
	return out
}
