package exporter

import (
	"fmt"
	"io"
	"time"

	ics "github.com/arran4/golang-ical"
	"github.com/google/uuid"

	"github.com/Komeii/courseweb/pkg/timecode"
	"github.com/Komeii/courseweb/pkg/timetable"
)

// uidNamespace scopes event UIDs so re-exports update rather than duplicate
// events in calendar apps.
var uidNamespace = uuid.NewSHA1(uuid.NameSpaceURL, []byte("https://github.com/Komeii/courseweb/ics"))

// CourseInfo is what an event shows about its course.
type CourseInfo struct {
	Name    string
	Teacher string
}

// Range bounds the exported recurrences. Events start on the first matching
// weekday on or after From and repeat weekly until Until.
type Range struct {
	From     time.Time
	Until    time.Time
	Clock    timecode.Clock
	Location *time.Location
}

// GenerateICS writes one weekly recurring event per timetable block to w.
func GenerateICS(blocks []timetable.Block, courses map[string]CourseInfo, r Range, w io.Writer) error {
	if r.Location == nil {
		r.Location = time.Local
	}
	if r.Until.Before(r.From) {
		return fmt.Errorf("export range ends before it starts")
	}

	cal := ics.NewCalendar()
	cal.SetMethod(ics.MethodPublish)
	cal.SetProductId("-//courseweb//timetable//EN")

	now := time.Now()
	from := r.From.In(r.Location)
	from = time.Date(from.Year(), from.Month(), from.Day(), 0, 0, 0, 0, r.Location)
	until := r.Until.UTC().Format("20060102T150405Z")

	for _, b := range blocks {
		first := firstOn(from, b.Day)
		if first.After(r.Until) {
			continue
		}
		start, end := r.Clock.Span(timecode.Interval{Day: b.Day, StartSlot: b.StartSlot, EndSlot: b.EndSlot}, first)

		key := fmt.Sprintf("%s|%d|%d|%d|%s", b.CourseID, b.Day, b.StartSlot, b.EndSlot, from.Format(time.DateOnly))
		event := cal.AddEvent(uuid.NewSHA1(uidNamespace, []byte(key)).String())
		event.SetCreatedTime(now)
		event.SetDtStampTime(now)
		event.SetModifiedAt(now)
		event.SetStartAt(start)
		event.SetEndAt(end)
		event.SetProperty(ics.ComponentPropertyRrule, "FREQ=WEEKLY;UNTIL="+until)

		info := courses[b.CourseID]
		summary := info.Name
		if summary == "" {
			summary = b.CourseID
		}
		event.SetSummary(summary)
		if b.Venue != "" {
			event.SetLocation(b.Venue)
		}

		description := fmt.Sprintf("Course: %s\nPeriods: %s", b.CourseID, timecode.Interval{Day: b.Day, StartSlot: b.StartSlot, EndSlot: b.EndSlot})
		if info.Teacher != "" {
			description += "\nTeacher: " + info.Teacher
		}
		event.SetDescription(description)
	}

	return cal.SerializeTo(w)
}

// firstOn returns the first date on or after from that falls on day.
func firstOn(from time.Time, day timecode.Day) time.Time {
	offset := (int(day) - int(timecode.FromWeekday(from.Weekday())) + 7) % 7
	return from.AddDate(0, 0, offset)
}
