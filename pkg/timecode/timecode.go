package timecode

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"unicode"
)

// SlotsPerDay is the number of addressable periods in a day (slots 0..13).
const SlotsPerDay = 14

// DaysPerWeek is the number of columns in a weekly timetable.
const DaysPerWeek = 7

var (
	ErrUnknownDay = errors.New("unknown day token")
	ErrBadPeriod  = errors.New("invalid period range")
)

// ParseError describes a malformed raw time code.
type ParseError struct {
	Raw    string
	Offset int
	Err    error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("time code %q at offset %d: %v", e.Raw, e.Offset, e.Err)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}

// Interval is one weekly meeting block. StartSlot <= EndSlot always holds for
// values produced by Parse.
type Interval struct {
	Day       Day
	StartSlot int
	EndSlot   int
	Venue     string
}

// String renders the interval as e.g. "Mon 3-4".
func (iv Interval) String() string {
	if iv.StartSlot == iv.EndSlot {
		return fmt.Sprintf("%s %d", iv.Day, iv.StartSlot)
	}
	return fmt.Sprintf("%s %d-%d", iv.Day, iv.StartSlot, iv.EndSlot)
}

// Slots returns the number of periods covered.
func (iv Interval) Slots() int {
	return iv.EndSlot - iv.StartSlot + 1
}

// Overlaps reports whether both intervals share at least one (day, slot) cell.
func (iv Interval) Overlaps(o Interval) bool {
	return iv.Day == o.Day && iv.StartSlot <= o.EndSlot && o.StartSlot <= iv.EndSlot
}

// Parse turns a raw time code such as "M3-4 R5" or "Tue2,Thu2-3" into
// intervals, in order of appearance. An empty code means the course has no
// fixed meeting time and yields no intervals.
func Parse(raw string) ([]Interval, error) {
	return ParseWithVenue(raw, "")
}

// ParseWithVenue is Parse with the venue attached to every interval.
func ParseWithVenue(raw, venue string) ([]Interval, error) {
	p := parser{raw: raw}
	var out []Interval

	for {
		p.skipSeparators()
		if p.done() {
			break
		}

		iv, err := p.group()
		if err != nil {
			return nil, err
		}
		iv.Venue = venue
		out = append(out, iv)
	}

	return out, nil
}

type parser struct {
	raw string
	pos int
}

func (p *parser) done() bool {
	return p.pos >= len(p.raw)
}

func (p *parser) fail(offset int, err error) error {
	return &ParseError{Raw: p.raw, Offset: offset, Err: err}
}

func (p *parser) skipSeparators() {
	for !p.done() {
		c := p.raw[p.pos]
		if c == ',' || c == ';' || unicode.IsSpace(rune(c)) {
			p.pos++
			continue
		}
		return
	}
}

func (p *parser) group() (Interval, error) {
	dayStart := p.pos
	for !p.done() && isLetter(p.raw[p.pos]) {
		p.pos++
	}
	token := p.raw[dayStart:p.pos]
	if token == "" {
		return Interval{}, p.fail(dayStart, ErrUnknownDay)
	}

	day, ok := lookupDay(token)
	if !ok {
		return Interval{}, p.fail(dayStart, fmt.Errorf("%w: %q", ErrUnknownDay, token))
	}

	start, err := p.period()
	if err != nil {
		return Interval{}, err
	}
	end := start

	if !p.done() && p.raw[p.pos] == '-' {
		p.pos++
		end, err = p.period()
		if err != nil {
			return Interval{}, err
		}
	}

	if start > end {
		return Interval{}, p.fail(dayStart, fmt.Errorf("%w: %d > %d", ErrBadPeriod, start, end))
	}

	return Interval{Day: day, StartSlot: start, EndSlot: end}, nil
}

func (p *parser) period() (int, error) {
	begin := p.pos
	for !p.done() && isDigit(p.raw[p.pos]) {
		p.pos++
	}
	if begin == p.pos {
		return 0, p.fail(begin, ErrBadPeriod)
	}

	n, err := strconv.Atoi(p.raw[begin:p.pos])
	if err != nil || n < 0 || n >= SlotsPerDay {
		return 0, p.fail(begin, fmt.Errorf("%w: period %s out of range 0-%d", ErrBadPeriod, p.raw[begin:p.pos], SlotsPerDay-1))
	}
	return n, nil
}

func isLetter(c byte) bool {
	return (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
}

func isDigit(c byte) bool {
	return c >= '0' && c <= '9'
}

// lookupDay accepts single-letter registrar codes and English names.
func lookupDay(token string) (Day, bool) {
	if len(token) == 1 {
		d, ok := letterDays[unicode.ToUpper(rune(token[0]))]
		return d, ok
	}

	lower := strings.ToLower(token)
	for d := Monday; d <= Sunday; d++ {
		full := strings.ToLower(dayNames[d])
		if lower == full || lower == full[:3] {
			return d, true
		}
	}
	return 0, false
}
