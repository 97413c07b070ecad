package timecode

import "time"

// Day is a day of the week with Monday = 0.
type Day int

const (
	Monday Day = iota
	Tuesday
	Wednesday
	Thursday
	Friday
	Saturday
	Sunday
)

var dayNames = [DaysPerWeek]string{"Monday", "Tuesday", "Wednesday", "Thursday", "Friday", "Saturday", "Sunday"}

// Registrar codes: R is Thursday, U is Sunday.
var letterDays = map[rune]Day{
	'M': Monday,
	'T': Tuesday,
	'W': Wednesday,
	'R': Thursday,
	'F': Friday,
	'S': Saturday,
	'U': Sunday,
}

// String returns the three-letter English abbreviation.
func (d Day) String() string {
	if !d.Valid() {
		return "Day(?)"
	}
	return dayNames[d][:3]
}

// Name returns the full English day name.
func (d Day) Name() string {
	if !d.Valid() {
		return ""
	}
	return dayNames[d]
}

func (d Day) Valid() bool {
	return d >= Monday && d <= Sunday
}

// Weekday converts to the standard library's Sunday-based weekday.
func (d Day) Weekday() time.Weekday {
	return time.Weekday((int(d) + 1) % 7)
}

// FromWeekday converts a Sunday-based weekday to a Monday-based Day.
func FromWeekday(w time.Weekday) Day {
	return Day((int(w) + 6) % 7)
}
