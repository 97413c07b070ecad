package timecode

import (
	"fmt"
	"time"
)

// Clock maps slot numbers onto wall-clock offsets from midnight.
type Clock struct {
	FirstStart time.Duration
	Period     time.Duration
	Break      time.Duration
}

// DefaultClock puts slot 1 at 08:00-08:50, matching the registrar's first period.
var DefaultClock = Clock{
	FirstStart: 7 * time.Hour,
	Period:     50 * time.Minute,
	Break:      10 * time.Minute,
}

// SlotStart returns the offset from midnight at which a slot begins.
func (c Clock) SlotStart(slot int) time.Duration {
	return c.FirstStart + time.Duration(slot)*(c.Period+c.Break)
}

// SlotEnd returns the offset from midnight at which a slot ends.
func (c Clock) SlotEnd(slot int) time.Duration {
	return c.SlotStart(slot) + c.Period
}

// Span returns the start and end of an interval on the given date, in the
// date's location. Times are wall-clock readings, so a DST change earlier
// that day does not shift them.
func (c Clock) Span(iv Interval, date time.Time) (time.Time, time.Time) {
	return OnDate(date, c.SlotStart(iv.StartSlot)), OnDate(date, c.SlotEnd(iv.EndSlot))
}

// OnDate places a time of day, given as an offset from midnight, on date's
// calendar day as the matching wall-clock reading in date's location.
func OnDate(date time.Time, clock time.Duration) time.Time {
	h := int(clock / time.Hour)
	m := int((clock % time.Hour) / time.Minute)
	s := int((clock % time.Minute) / time.Second)
	return time.Date(date.Year(), date.Month(), date.Day(), h, m, s, 0, date.Location())
}

// Label formats a slot as "08:00-08:50".
func (c Clock) Label(slot int) string {
	return fmt.Sprintf("%s-%s", hhmm(c.SlotStart(slot)), hhmm(c.SlotEnd(slot)))
}

func hhmm(d time.Duration) string {
	h := int(d / time.Hour)
	m := int((d % time.Hour) / time.Minute)
	return fmt.Sprintf("%02d:%02d", h, m)
}
