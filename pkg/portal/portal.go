package portal

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"time"

	"golang.org/x/text/language"

	"github.com/Komeii/courseweb/pkg/bus"
	"github.com/Komeii/courseweb/pkg/calendar"
	"github.com/Komeii/courseweb/pkg/catalog"
	"github.com/Komeii/courseweb/pkg/config"
	"github.com/Komeii/courseweb/pkg/exporter"
	"github.com/Komeii/courseweb/pkg/semester"
	"github.com/Komeii/courseweb/pkg/timecode"
	"github.com/Komeii/courseweb/pkg/timetable"
)

// ErrNoBackend means neither a PostgREST URL nor a database URL is configured.
var ErrNoBackend = errors.New("no backend configured: set COURSEWEB_BACKEND_URL or COURSEWEB_DATABASE_URL (a .env file works too)")

// Portal wires the user's settings, the catalog source and the static tables
// together for the CLI and the TUI.
type Portal struct {
	Config    *config.AppConfig
	Source    catalog.Source
	Topology  *bus.Topology
	Semesters semester.Table
	Clock     timecode.Clock
	Logger    *slog.Logger

	db   *sql.DB
	lang language.Tag
}

// Open loads settings and static tables and connects to the configured
// backend. A missing backend is not an error until rows are requested.
func Open(ctx context.Context, logger *slog.Logger) (*Portal, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}

	backend, err := config.LoadBackend()
	if err != nil {
		return nil, err
	}

	p, err := New(cfg, nil, logger)
	if err != nil {
		return nil, err
	}

	switch {
	case backend.DatabaseURL != "":
		db, err := catalog.OpenSQL(ctx, backend.DatabaseURL)
		if err != nil {
			return nil, err
		}
		p.db = db
		p.Source = catalog.NewSQLSource(db, p.Logger)
		p.Logger.Debug("using direct database source")
	case backend.URL != "":
		p.Source = catalog.NewClient(backend.URL, backend.APIKey, p.Logger)
		p.Logger.Debug("using PostgREST source", "url", backend.URL)
	}

	return p, nil
}

// New builds a Portal around an explicit source. Custom topology and
// semester files named in cfg replace the built-in tables.
func New(cfg *config.AppConfig, src catalog.Source, logger *slog.Logger) (*Portal, error) {
	if logger == nil {
		logger = slog.Default()
	}
	if cfg == nil {
		cfg = &config.AppConfig{}
	}

	var topo *bus.Topology
	var err error
	if cfg.TopologyFile != "" {
		topo, err = bus.LoadTopologyFile(cfg.TopologyFile)
	} else {
		topo, err = bus.DefaultTopology()
	}
	if err != nil {
		return nil, err
	}

	var table semester.Table
	if cfg.SemesterFile != "" {
		table, err = semester.LoadTableFile(cfg.SemesterFile)
	} else {
		table, err = semester.DefaultTable()
	}
	if err != nil {
		return nil, err
	}

	return &Portal{
		Config:    cfg,
		Source:    src,
		Topology:  topo,
		Semesters: table,
		Clock:     timecode.DefaultClock,
		Logger:    logger,
	}, nil
}

// Close releases the database connection, if any.
func (p *Portal) Close() error {
	if p.db != nil {
		return p.db.Close()
	}
	return nil
}

// Lang is the display language: the session override if set, else the
// saved setting.
func (p *Portal) Lang() language.Tag {
	if p.lang != language.Und {
		return p.lang
	}
	return p.Config.LanguageTag()
}

// Chinese reports whether names should be shown in Chinese.
func (p *Portal) Chinese() bool {
	return config.IsChinese(p.Lang())
}

// SetLanguage overrides the saved language without persisting it.
func (p *Portal) SetLanguage(s string) error {
	tag, err := language.Parse(s)
	if err != nil {
		return fmt.Errorf("unknown language %q: %w", s, err)
	}
	p.lang = tag
	return nil
}

// SetNoCache bypasses the disk cache when the source is the HTTP client.
func (p *Portal) SetNoCache(v bool) {
	if c, ok := p.Source.(*catalog.Client); ok {
		c.NoCache = v
	}
}

func (p *Portal) source() (catalog.Source, error) {
	if p.Source == nil {
		return nil, ErrNoBackend
	}
	return p.Source, nil
}

// Timetable is a course set run through the grid and color engines.
type Timetable struct {
	Courses   []catalog.CourseRow
	Sessions  []timetable.Session
	Grid      *timetable.Grid
	Colors    timetable.ColorAssignment
	Blocks    []timetable.Block
	Conflicts []timetable.Pair
	// Missing lists requested ids the backend did not return.
	Missing []string
}

// Course returns the row for id.
func (t *Timetable) Course(id string) (catalog.CourseRow, bool) {
	for _, c := range t.Courses {
		if c.RawID == id {
			return c, true
		}
	}
	return catalog.CourseRow{}, false
}

// Timetable fetches the given courses and lays them out. Colors follow the
// order of ids, so a saved selection keeps its colors between runs.
// Overlapping courses are reported in Conflicts, never rejected.
func (p *Portal) Timetable(ctx context.Context, ids []string) (*Timetable, error) {
	src, err := p.source()
	if err != nil {
		return nil, err
	}

	rows, err := src.FetchCourses(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch courses: %w", err)
	}

	return p.Layout(rows, ids)
}

// Layout runs already fetched rows through the engines.
func (p *Portal) Layout(rows []catalog.CourseRow, requested []string) (*Timetable, error) {
	sessions := catalog.Sessions(rows, p.Logger)
	grid, colors, blocks, err := timetable.Build(sessions, timetable.PaletteByName(p.Config.Palette))
	if err != nil {
		return nil, err
	}

	got := make(map[string]bool, len(rows))
	for _, r := range rows {
		got[r.RawID] = true
	}
	var missing []string
	for _, id := range requested {
		if !got[id] {
			missing = append(missing, id)
		}
	}

	return &Timetable{
		Courses:   rows,
		Sessions:  sessions,
		Grid:      grid,
		Colors:    colors,
		Blocks:    blocks,
		Conflicts: grid.ConflictingPairs(),
		Missing:   missing,
	}, nil
}

// Arrivals returns the upcoming runs at stopID for now's service day,
// soonest first.
func (p *Portal) Arrivals(ctx context.Context, stopID string, now time.Time) ([]bus.ScheduleItem, error) {
	routes := p.Topology.RoutesThrough(stopID)
	if len(routes) == 0 {
		return nil, fmt.Errorf("no route passes stop %q", stopID)
	}

	src, err := p.source()
	if err != nil {
		return nil, err
	}

	rows, err := src.FetchBusSchedules(ctx, bus.RouteCodes(routes))
	if err != nil {
		return nil, fmt.Errorf("failed to fetch bus schedules: %w", err)
	}

	busRows := bus.FilterServiceDay(catalog.BusRows(rows), now)
	items := bus.ComputeArrivals(p.Topology, busRows, stopID, now)
	p.Logger.Debug("computed arrivals", "stop", stopID, "rows", len(busRows), "items", len(items))

	return bus.FilterUpcoming(items, now), nil
}

// CurrentSemester returns the semester in session at now.
func (p *Portal) CurrentSemester(now time.Time) (semester.Semester, bool) {
	return p.Semesters.Current(now)
}

// InSemester reports whether date is a teaching day of some semester.
func (p *Portal) InSemester(date time.Time) bool {
	_, ok := p.Semesters.Current(date)
	return ok
}

// Agenda places the timetable on the given dates, leaving out days outside
// every semester.
func (p *Portal) Agenda(tt *Timetable, dates []time.Time) []calendar.Entry {
	return calendar.Agenda(dates, tt.Blocks, p.Clock, p.InSemester)
}

// ExportICS writes the timetable as weekly events from the start of the
// current or next semester until its last day, and returns that semester.
func (p *Portal) ExportICS(tt *Timetable, now time.Time, loc *time.Location, w io.Writer) (semester.Semester, error) {
	sem, ok := p.Semesters.Upcoming(now)
	if !ok {
		return semester.Semester{}, fmt.Errorf("no current or upcoming semester in the semester table")
	}

	courses := make(map[string]exporter.CourseInfo, len(tt.Courses))
	for _, c := range tt.Courses {
		courses[c.RawID] = exporter.CourseInfo{
			Name:    c.DisplayName(p.Chinese()),
			Teacher: c.Teachers(p.Chinese()),
		}
	}

	err := exporter.GenerateICS(tt.Blocks, courses, exporter.Range{
		From:     sem.FirstDay(loc),
		Until:    sem.LastDay(loc),
		Clock:    p.Clock,
		Location: loc,
	}, w)
	return sem, err
}
