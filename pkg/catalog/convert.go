package catalog

import (
	"errors"
	"log/slog"

	"github.com/Komeii/courseweb/pkg/bus"
	"github.com/Komeii/courseweb/pkg/timecode"
	"github.com/Komeii/courseweb/pkg/timetable"
)

// Sessions decodes the time codes of every course row. times[i] meets at
// venues[i]. A malformed code is logged and that course contributes no
// intervals, so one bad row never hides the rest of the timetable.
func Sessions(rows []CourseRow, logger *slog.Logger) []timetable.Session {
	if logger == nil {
		logger = slog.Default()
	}
	sessions := make([]timetable.Session, 0, len(rows))
	for _, row := range rows {
		sessions = append(sessions, timetable.Session{
			CourseID:  row.RawID,
			Intervals: intervalsFor(row, logger),
		})
	}
	return sessions
}

func intervalsFor(row CourseRow, logger *slog.Logger) []timecode.Interval {
	var out []timecode.Interval
	for i, raw := range row.Times {
		venue := ""
		if i < len(row.Venues) {
			venue = row.Venues[i]
		}

		ivs, err := timecode.ParseWithVenue(raw, venue)
		if err != nil {
			var perr *timecode.ParseError
			if errors.As(err, &perr) {
				logger.Warn("skipping malformed time code", "course", row.RawID, "raw", perr.Raw, "offset", perr.Offset, "err", perr.Err)
			} else {
				logger.Warn("skipping malformed time code", "course", row.RawID, "err", err)
			}
			return nil
		}
		out = append(out, ivs...)
	}
	return out
}

// BusRows converts backend rows to the scheduler's row type.
func BusRows(rows []BusRow) []bus.Row {
	out := make([]bus.Row, 0, len(rows))
	for _, r := range rows {
		out = append(out, bus.Row{
			ID:        r.ID,
			RouteCode: r.RouteName,
			Schedule:  r.Schedule,
			Vehicle:   r.Vehicle,
			Days:      r.Days,
		})
	}
	return out
}
