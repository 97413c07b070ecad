package semester

import (
	"bytes"
	_ "embed"
	"errors"
	"fmt"
	"io"
	"os"
	"sort"
	"strconv"
	"strings"
	"time"

	"golang.org/x/text/language"
	"gopkg.in/yaml.v3"

	"github.com/Komeii/courseweb/pkg/config"
)

//go:embed semesters.yaml
var defaultSemestersYAML []byte

// rocOffset converts AD years to the Minguo years used in semester codes.
const rocOffset = 1911

var ErrBadCode = errors.New("invalid semester code")

// Date is a calendar day in YAML tables, written as 2006-01-02.
type Date struct {
	time.Time
}

func (d *Date) UnmarshalYAML(value *yaml.Node) error {
	t, err := time.Parse(time.DateOnly, value.Value)
	if err != nil {
		return fmt.Errorf("invalid date %q: %w", value.Value, err)
	}
	d.Time = t
	return nil
}

// Semester is one teaching period. Begins and Ends are whole days.
type Semester struct {
	Year   int  `yaml:"year"`
	Term   int  `yaml:"term"`
	Begins Date `yaml:"begins"`
	Ends   Date `yaml:"ends"`
}

// Table is every known semester, sorted by start date.
type Table []Semester

// DefaultTable returns the built-in semester table.
func DefaultTable() (Table, error) {
	return LoadTable(bytes.NewReader(defaultSemestersYAML))
}

// LoadTableFile reads a semester table from a YAML file.
func LoadTableFile(path string) (Table, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open semester file: %w", err)
	}
	defer f.Close()

	return LoadTable(f)
}

// LoadTable decodes and checks a YAML semester table.
func LoadTable(r io.Reader) (Table, error) {
	var t Table
	if err := yaml.NewDecoder(r).Decode(&t); err != nil {
		return nil, fmt.Errorf("failed to decode semester YAML: %w", err)
	}

	for _, s := range t {
		if s.Term != 1 && s.Term != 2 {
			return nil, fmt.Errorf("semester %d has invalid term %d", s.Year, s.Term)
		}
		if s.Ends.Before(s.Begins.Time) {
			return nil, fmt.Errorf("semester %s ends before it begins", s.Code())
		}
	}

	sort.Slice(t, func(i, j int) bool { return t[i].Begins.Before(t[j].Begins.Time) })
	return t, nil
}

// Current returns the semester in session on now's calendar day.
func (t Table) Current(now time.Time) (Semester, bool) {
	day := civil(now)
	for _, s := range t {
		if !day.Before(s.Begins.Time) && !day.After(s.Ends.Time) {
			return s, true
		}
	}
	return Semester{}, false
}

// Upcoming returns the semester in session at now, or else the next one to
// begin.
func (t Table) Upcoming(now time.Time) (Semester, bool) {
	if s, ok := t.Current(now); ok {
		return s, true
	}
	day := civil(now)
	for _, s := range t {
		if s.Begins.After(day) {
			return s, true
		}
	}
	return Semester{}, false
}

// Lookup finds a semester by its code, e.g. "11210".
func (t Table) Lookup(code string) (Semester, bool) {
	for _, s := range t {
		if s.Code() == code {
			return s, true
		}
	}
	return Semester{}, false
}

// Week is the 1-based teaching week of now, counted in whole weeks from the
// first day.
func (s Semester) Week(now time.Time) int {
	days := int(civil(now).Sub(s.Begins.Time).Hours() / 24)
	if days < 0 {
		return 0
	}
	return days/7 + 1
}

// Code is the registrar code: Minguo year, term, then a zero.
func (s Semester) Code() string {
	return fmt.Sprintf("%d%d0", s.Year-rocOffset, s.Term)
}

// LastDay is the end of the final teaching day, in loc.
func (s Semester) LastDay(loc *time.Location) time.Time {
	e := s.Ends.Time
	return time.Date(e.Year(), e.Month(), e.Day(), 23, 59, 59, 0, loc)
}

// FirstDay is midnight of the first teaching day, in loc.
func (s Semester) FirstDay(loc *time.Location) time.Time {
	b := s.Begins.Time
	return time.Date(b.Year(), b.Month(), b.Day(), 0, 0, 0, 0, loc)
}

// Label renders the header indicator, e.g. "AC2023 Sem 1, Week 3" or
// "112-1 學期, 第3周".
func (s Semester) Label(now time.Time, lang language.Tag) string {
	if config.IsChinese(lang) {
		return fmt.Sprintf("%d-%d 學期, 第%d周", s.Year-rocOffset, s.Term, s.Week(now))
	}
	return fmt.Sprintf("AC%d Sem %d, Week %d", s.Year, s.Term, s.Week(now))
}

// NoActiveLabel is shown outside every teaching period.
func NoActiveLabel(lang language.Tag) string {
	if config.IsChinese(lang) {
		return "非學期期間"
	}
	return "No Active Semester"
}

// Pretty turns a semester code such as "11210" into "112-1".
func Pretty(code string) (string, error) {
	year, term, err := ParseCode(code)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%d-%d", year-rocOffset, term), nil
}

// ParseCode splits a semester code into its AD year and term.
func ParseCode(code string) (year, term int, err error) {
	code = strings.TrimSpace(code)
	if len(code) < 4 {
		return 0, 0, fmt.Errorf("%w: %q", ErrBadCode, code)
	}

	roc, err := strconv.Atoi(code[:3])
	if err != nil {
		return 0, 0, fmt.Errorf("%w: %q", ErrBadCode, code)
	}
	term = int(code[3] - '0')
	if term != 1 && term != 2 && term != 3 {
		return 0, 0, fmt.Errorf("%w: %q has term %c", ErrBadCode, code, code[3])
	}
	return roc + rocOffset, term, nil
}

// civil drops the clock and location of t, keeping its calendar day.
func civil(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
