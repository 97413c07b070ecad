package bus

import (
	"strings"
	"testing"
	"time"
	_ "time/tzdata"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/text/language"
)

const testTopologyYAML = `
stops:
  - code: S3
    name_zh: 測試站
    name_en: test stop
routes:
  - code: A1U
    title_zh: 測試線
    title_en: Test Line
    path: [S1, S2, S3]
  - code: B2D
    title_zh: 下山線
    title_en: Downhill Line
    path: [S3, S9]
  - code: C3
    title_zh: 不經過
    title_en: Elsewhere
    path: [S7, S8]
`

func testTopology(t *testing.T) *Topology {
	t.Helper()
	topo, err := LoadTopology(strings.NewReader(testTopologyYAML))
	require.NoError(t, err)
	return topo
}

func at(hour, min, sec int) time.Time {
	return time.Date(2024, 3, 4, hour, min, sec, 0, time.UTC)
}

func TestRoutesThrough(t *testing.T) {
	topo := testTopology(t)

	rs := topo.RoutesThrough("S3")
	require.Len(t, rs, 2)
	assert.Equal(t, "A1U", rs[0].Route.Code)
	assert.Equal(t, 2, rs[0].StopIndex)
	assert.Equal(t, "B2D", rs[1].Route.Code)
	assert.Equal(t, 0, rs[1].StopIndex)
	assert.Equal(t, []string{"A1U", "B2D"}, RouteCodes(rs))

	assert.Empty(t, topo.RoutesThrough("nowhere"))
}

func TestComputeArrivals_ResolvesStopColumn(t *testing.T) {
	topo := testTopology(t)
	rows := []Row{
		{ID: 1, RouteCode: "A1U", Schedule: []string{"08:00", "08:10", "08:20"}, Vehicle: "bus-1"},
	}
	now := at(8, 5, 0)

	items := ComputeArrivals(topo, rows, "S3", now)
	require.Len(t, items, 1)
	assert.Equal(t, at(8, 20, 0), items[0].Arrival)
	assert.Equal(t, 2, items[0].StopIndex)
	assert.Equal(t, "Test Line", items[0].Route.TitleEN)

	upcoming := FilterUpcoming(items, now)
	require.Len(t, upcoming, 1)
	assert.Equal(t, 1, upcoming[0].ID)
}

func TestFilterUpcoming_ExcludesPassed(t *testing.T) {
	topo := testTopology(t)
	rows := []Row{
		{ID: 1, RouteCode: "B2D", Schedule: []string{"08:00", "08:05"}},
		{ID: 2, RouteCode: "B2D", Schedule: []string{"08:05", "08:10"}},
		{ID: 3, RouteCode: "B2D", Schedule: []string{"08:30", "08:40"}},
	}
	now := at(8, 5, 0)

	items := ComputeArrivals(topo, rows, "S3", now)
	require.Len(t, items, 3)

	upcoming := FilterUpcoming(items, now)
	require.Len(t, upcoming, 1, "arrivals equal to now are not upcoming")
	assert.Equal(t, 3, upcoming[0].ID)
}

func TestComputeArrivals_SortedAndSkipsMissing(t *testing.T) {
	topo := testTopology(t)
	rows := []Row{
		{ID: 10, RouteCode: "A1U", Schedule: []string{"09:00", "09:10", "09:20"}},
		{ID: 11, RouteCode: "A1U", Schedule: []string{"07:00", "07:10"}},         // too short
		{ID: 12, RouteCode: "A1U", Schedule: []string{"07:30", "07:40", "  "}},  // empty text
		{ID: 13, RouteCode: "A1U", Schedule: []string{"06:00", "06:10", "soon"}}, // unparseable
		{ID: 14, RouteCode: "B2D", Schedule: []string{"08:45:30", "09:00"}},
		{ID: 15, RouteCode: "C3", Schedule: []string{"08:00", "08:10"}},
		{ID: 16, RouteCode: "B2D", Schedule: []string{"8:45:30"}},
	}

	items := ComputeArrivals(topo, rows, "S3", at(6, 0, 0))
	require.Len(t, items, 3)
	assert.Equal(t, 14, items[0].ID)
	assert.Equal(t, 16, items[1].ID, "ties keep ascending id order")
	assert.Equal(t, 10, items[2].ID)
	assert.Equal(t, at(8, 45, 30), items[0].Arrival)
}

func TestArrivalFor_MissingSlot(t *testing.T) {
	_, err := ArrivalFor(Row{ID: 1, Schedule: []string{"08:00"}}, 3, at(0, 0, 0))
	assert.ErrorIs(t, err, ErrMissingSlot)

	_, err = ArrivalFor(Row{ID: 1, Schedule: []string{""}}, 0, at(0, 0, 0))
	assert.ErrorIs(t, err, ErrMissingSlot)

	_, err = ArrivalFor(Row{ID: 1, Schedule: []string{"25:99"}}, 0, at(0, 0, 0))
	assert.ErrorIs(t, err, ErrBadTime)
}

func TestComputeArrivals_FollowsReferenceDate(t *testing.T) {
	topo := testTopology(t)
	rows := []Row{{ID: 1, RouteCode: "B2D", Schedule: []string{"00:10"}}}
	loc := time.FixedZone("CST", 8*3600)

	day1 := ComputeArrivals(topo, rows, "S3", time.Date(2024, 3, 4, 23, 59, 0, 0, loc))
	day2 := ComputeArrivals(topo, rows, "S3", time.Date(2024, 3, 5, 0, 0, 30, 0, loc))

	require.Len(t, day1, 1)
	require.Len(t, day2, 1)
	assert.Equal(t, time.Date(2024, 3, 4, 0, 10, 0, 0, loc), day1[0].Arrival)
	assert.Equal(t, time.Date(2024, 3, 5, 0, 10, 0, 0, loc), day2[0].Arrival)
}

func TestFilterServiceDay(t *testing.T) {
	rows := []Row{
		{ID: 1, Days: "weekday"},
		{ID: 2, Days: "weekend"},
		{ID: 3, Days: ""},
		{ID: 4, Days: "All"},
	}

	monday := FilterServiceDay(rows, time.Date(2024, 3, 4, 9, 0, 0, 0, time.UTC))
	saturday := FilterServiceDay(rows, time.Date(2024, 3, 9, 9, 0, 0, 0, time.UTC))

	ids := func(rs []Row) []int {
		var out []int
		for _, r := range rs {
			out = append(out, r.ID)
		}
		return out
	}
	assert.Equal(t, []int{1, 3, 4}, ids(monday))
	assert.Equal(t, []int{2, 3, 4}, ids(saturday))
}

func TestSummarize(t *testing.T) {
	topo := testTopology(t)
	rows := []Row{
		{ID: 1, RouteCode: "A1U", Schedule: []string{"", "", "08:20"}},
		{ID: 2, RouteCode: "B2D", Schedule: []string{"08:10"}},
		{ID: 3, RouteCode: "A1U", Schedule: []string{"", "", "08:40"}},
		{ID: 4, RouteCode: "A1U", Schedule: []string{"", "", "09:00"}},
	}

	summary := Summarize(ComputeArrivals(topo, rows, "S3", at(8, 0, 0)), 2)
	require.Len(t, summary, 2)
	assert.Equal(t, "B2D", summary[0].RouteCode)
	assert.Equal(t, "A1U", summary[1].RouteCode)
	assert.Len(t, summary[1].Arrivals, 2)

	assert.Empty(t, Summarize(nil, 3))
}

func TestDefaultTopology(t *testing.T) {
	topo, err := DefaultTopology()
	require.NoError(t, err)

	rs := topo.RoutesThrough("A3U")
	assert.Equal(t, []string{"GU", "GUS", "RU", "RUS"}, RouteCodes(rs))
	assert.Equal(t, 2, rs[0].StopIndex)

	stop, ok := topo.StopFor("A5D")
	require.True(t, ok)
	assert.Equal(t, "台積館", stop.NameZH)
	assert.True(t, Uphill("A3U"))
	assert.False(t, Uphill("A3D"))

	route, ok := topo.Route("RD")
	require.True(t, ok)
	assert.Equal(t, "red", route.Line())
	assert.Equal(t, "紅線 往綜二館", RouteTitle(route, language.TraditionalChinese))
}

func TestLoadTopology_Invalid(t *testing.T) {
	_, err := LoadTopology(strings.NewReader("routes:\n  - code: X\n    path: []\n"))
	assert.Error(t, err)

	_, err = LoadTopology(strings.NewReader("routes:\n  - code: X\n    path: [A]\n  - code: X\n    path: [B]\n"))
	assert.Error(t, err)

	_, err = LoadTopology(strings.NewReader("routes: {"))
	assert.Error(t, err)
}

func TestArrivalFor_DSTChangeDay(t *testing.T) {
	ny, err := time.LoadLocation("America/New_York")
	require.NoError(t, err)

	// Clocks jump from 02:00 to 03:00 on 2024-03-10.
	spring := time.Date(2024, 3, 10, 6, 0, 0, 0, ny)
	got, err := ArrivalFor(Row{ID: 1, Schedule: []string{"08:00"}}, 0, spring)
	require.NoError(t, err)
	assert.Equal(t, 8, got.Hour())
	assert.Equal(t, 0, got.Minute())
	assert.True(t, got.Equal(time.Date(2024, 3, 10, 8, 0, 0, 0, ny)))

	fall := time.Date(2024, 11, 3, 6, 0, 0, 0, ny)
	got, err = ArrivalFor(Row{ID: 1, Schedule: []string{"17:45:30"}}, 0, fall)
	require.NoError(t, err)
	assert.Equal(t, "17:45:30", got.Format("15:04:05"))
}
