package portal

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Komeii/courseweb/pkg/catalog"
	"github.com/Komeii/courseweb/pkg/config"
	"github.com/Komeii/courseweb/pkg/timetable"
)

type fakeSource struct {
	courses []catalog.CourseRow
	bus     []catalog.BusRow
	asked   []string
}

func (f *fakeSource) FetchCourses(ctx context.Context, ids []string) ([]catalog.CourseRow, error) {
	byID := make(map[string]catalog.CourseRow)
	for _, c := range f.courses {
		byID[c.RawID] = c
	}
	var out []catalog.CourseRow
	for _, id := range ids {
		if c, ok := byID[id]; ok {
			out = append(out, c)
		}
	}
	return out, nil
}

func (f *fakeSource) SearchCourses(ctx context.Context, query string) ([]catalog.CourseRow, error) {
	return f.courses, nil
}

func (f *fakeSource) FetchBusSchedules(ctx context.Context, routeCodes []string) ([]catalog.BusRow, error) {
	f.asked = routeCodes
	return f.bus, nil
}

func TestTimetable_ReportsConflicts(t *testing.T) {
	src := &fakeSource{courses: []catalog.CourseRow{
		{RawID: "A", Times: []string{"M3-4"}},
		{RawID: "B", Times: []string{"M4"}},
		{RawID: "C", Times: []string{"Q9"}},
	}}
	p, err := New(&config.AppConfig{Palette: "mono"}, src, nil)
	require.NoError(t, err)

	tt, err := p.Timetable(context.Background(), []string{"B", "A", "C", "Z"})
	require.NoError(t, err)

	assert.Equal(t, []timetable.Pair{{A: "A", B: "B"}}, tt.Conflicts)
	assert.Equal(t, []string{"Z"}, tt.Missing)
	assert.Equal(t, timetable.Palettes["mono"][0], tt.Colors["B"], "colors follow the requested order")
	assert.Equal(t, timetable.Palettes["mono"][1], tt.Colors["A"])
	assert.Empty(t, tt.Sessions[2].Intervals, "malformed codes degrade to no intervals")
	assert.Len(t, tt.Blocks, 2)

	c, ok := tt.Course("A")
	require.True(t, ok)
	assert.Equal(t, "A", c.RawID)
}

func TestArrivals(t *testing.T) {
	src := &fakeSource{bus: []catalog.BusRow{
		{ID: 1, RouteName: "GU", Schedule: []string{"07:50", "07:52", "07:55"}, Days: "weekday"},
		{ID: 2, RouteName: "RU", Schedule: []string{"08:10", "08:12", "08:15"}, Days: "weekday"},
		{ID: 3, RouteName: "GU", Schedule: []string{"08:20", "08:22", "08:25"}, Days: "weekend"},
		{ID: 4, RouteName: "GUS", Schedule: []string{"08:30", "08:33"}},
	}}
	p, err := New(nil, src, nil)
	require.NoError(t, err)

	// Monday
	now := time.Date(2024, 3, 4, 8, 0, 0, 0, time.UTC)
	items, err := p.Arrivals(context.Background(), "A3U", now)
	require.NoError(t, err)

	assert.Equal(t, []string{"GU", "GUS", "RU", "RUS"}, src.asked)
	require.Len(t, items, 2)
	assert.Equal(t, 2, items[0].ID)
	assert.Equal(t, time.Date(2024, 3, 4, 8, 15, 0, 0, time.UTC), items[0].Arrival)
	assert.Equal(t, 4, items[1].ID)

	_, err = p.Arrivals(context.Background(), "ZZZ", now)
	assert.Error(t, err)
}

func TestNoBackend(t *testing.T) {
	p, err := New(nil, nil, nil)
	require.NoError(t, err)

	_, err = p.Timetable(context.Background(), []string{"A"})
	assert.True(t, errors.Is(err, ErrNoBackend))

	_, err = p.Arrivals(context.Background(), "A1U", time.Now())
	assert.ErrorIs(t, err, ErrNoBackend)
}

func TestAgendaAndExport(t *testing.T) {
	src := &fakeSource{courses: []catalog.CourseRow{
		{RawID: "A", NameEN: "Algorithms", Times: []string{"T3-4"}, Venues: []string{"DELTA103"}},
	}}
	p, err := New(nil, src, nil)
	require.NoError(t, err)

	tt, err := p.Timetable(context.Background(), []string{"A"})
	require.NoError(t, err)

	// The week of 2024-01-08 ends the autumn term on Friday 2024-01-12.
	week := []time.Time{
		time.Date(2024, 1, 9, 0, 0, 0, 0, time.UTC),
		time.Date(2024, 1, 16, 0, 0, 0, 0, time.UTC),
	}
	entries := p.Agenda(tt, week)
	require.Len(t, entries, 1, "teaching breaks have no classes")
	assert.Equal(t, time.Date(2024, 1, 9, 10, 0, 0, 0, time.UTC), entries[0].Start)

	var buf bytes.Buffer
	sem, err := p.ExportICS(tt, time.Date(2024, 1, 20, 0, 0, 0, 0, time.UTC), time.UTC, &buf)
	require.NoError(t, err)
	assert.Equal(t, "11220", sem.Code())
	assert.True(t, strings.Contains(buf.String(), "SUMMARY:Algorithms"))
	assert.Contains(t, buf.String(), "DTSTART:20240220T100000Z")
	assert.Contains(t, buf.String(), "UNTIL=20240621T235959Z")
}

func TestSetLanguage(t *testing.T) {
	p, err := New(&config.AppConfig{Language: "en"}, nil, nil)
	require.NoError(t, err)
	assert.Equal(t, "en", p.Lang().String())

	require.NoError(t, p.SetLanguage("zh-TW"))
	assert.Equal(t, "zh-TW", p.Lang().String())
	assert.Equal(t, "en", p.Config.Language, "override is not written to settings")

	assert.Error(t, p.SetLanguage("not a tag!"))
}
