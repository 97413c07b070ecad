package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/Komeii/courseweb/pkg/bus"
	"github.com/Komeii/courseweb/pkg/calendar"
	"github.com/Komeii/courseweb/pkg/config"
	"github.com/Komeii/courseweb/pkg/portal"
	"github.com/Komeii/courseweb/pkg/timecode"
	"github.com/Komeii/courseweb/pkg/timetable"
)

const (
	cellWidth  = 12
	labelWidth = 15
)

var (
	headerStyle   = lipgloss.NewStyle().Bold(true)
	mutedStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("240"))
	conflictStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("231")).Background(lipgloss.Color("196")).Bold(true)
	timeStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("205")).Bold(true)
	lineColors    = map[string]lipgloss.Color{"green": "42", "red": "196"}
)

// truncate cuts s to at most width terminal cells.
func truncate(s string, width int) string {
	if lipgloss.Width(s) <= width {
		return s
	}
	runes := []rune(s)
	for len(runes) > 0 && lipgloss.Width(string(runes))+1 > width {
		runes = runes[:len(runes)-1]
	}
	return string(runes) + "…"
}

func cell(text string, style lipgloss.Style) string {
	return style.Width(cellWidth).MaxWidth(cellWidth).Render(truncate(text, cellWidth-1))
}

// shownDays is Monday to Friday, plus the weekend when anything meets then.
func shownDays(g *timetable.Grid) []timecode.Day {
	days := []timecode.Day{timecode.Monday, timecode.Tuesday, timecode.Wednesday, timecode.Thursday, timecode.Friday}
	for _, weekend := range []timecode.Day{timecode.Saturday, timecode.Sunday} {
		for slot := 0; slot < timecode.SlotsPerDay; slot++ {
			if len(g.Occupants(weekend, slot)) > 0 {
				days = append(days, weekend)
				break
			}
		}
	}
	return days
}

// RenderGrid draws the weekly timetable with one colored cell per occupied
// slot. Cells shared by several courses are drawn in the conflict style.
func RenderGrid(tt *portal.Timetable, clock timecode.Clock, lang language.Tag) string {
	days := shownDays(tt.Grid)

	first, last := 1, 9
	for _, c := range tt.Grid.Cells() {
		first = min(first, c.Slot)
	}
	last = max(last, tt.Grid.LastUsedSlot())

	names := make(map[string]string, len(tt.Courses))
	for _, c := range tt.Courses {
		names[c.RawID] = c.DisplayName(config.IsChinese(lang))
	}
	label := func(id string) string {
		if n := names[id]; n != "" {
			return n
		}
		return id
	}

	var b strings.Builder

	header := []string{lipgloss.NewStyle().Width(labelWidth).Render("")}
	for _, d := range days {
		name := d.String()
		if config.IsChinese(lang) {
			name = "週" + []string{"一", "二", "三", "四", "五", "六", "日"}[d]
		}
		header = append(header, cell(name, headerStyle))
	}
	b.WriteString(lipgloss.JoinHorizontal(lipgloss.Top, header...))
	b.WriteString("\n")

	for slot := first; slot <= last; slot++ {
		row := []string{mutedStyle.Width(labelWidth).Render(fmt.Sprintf("%2d %s", slot, clock.Label(slot)))}
		for _, d := range days {
			occ := tt.Grid.Occupants(d, slot)
			switch len(occ) {
			case 0:
				row = append(row, cell("·", mutedStyle))
			case 1:
				style := lipgloss.NewStyle().Foreground(lipgloss.Color("0")).Background(lipgloss.Color(string(tt.Colors[occ[0]])))
				row = append(row, cell(label(occ[0]), style))
			default:
				row = append(row, cell("! "+strings.Join(occ, "/"), conflictStyle))
			}
		}
		b.WriteString(lipgloss.JoinHorizontal(lipgloss.Top, row...))
		b.WriteString("\n")
	}

	return b.String()
}

// RenderLegend lists every course with its color swatch, credits and meetings.
func RenderLegend(tt *portal.Timetable, lang language.Tag) string {
	var b strings.Builder
	total := 0
	for _, s := range tt.Sessions {
		c, _ := tt.Course(s.CourseID)
		total += c.Credits

		swatch := lipgloss.NewStyle().Foreground(lipgloss.Color(string(tt.Colors[s.CourseID]))).Render("██")
		var meets []string
		for _, iv := range s.Intervals {
			m := iv.String()
			if iv.Venue != "" {
				m += " @ " + iv.Venue
			}
			meets = append(meets, m)
		}
		when := strings.Join(meets, ", ")
		if when == "" {
			when = mutedStyle.Render("no fixed time")
		}
		fmt.Fprintf(&b, "%s %s %s (%d) %s\n", swatch, s.CourseID, c.DisplayName(config.IsChinese(lang)), c.Credits, when)
	}
	fmt.Fprintf(&b, "Total credits: %d\n", total)
	return b.String()
}

// RenderConflicts describes overlapping pairs, or returns "" when there are none.
func RenderConflicts(tt *portal.Timetable) string {
	if len(tt.Conflicts) == 0 {
		return ""
	}
	var b strings.Builder
	b.WriteString(errorStyle.Render(fmt.Sprintf("⚠️ %d overlapping course pair(s):", len(tt.Conflicts))))
	b.WriteString("\n")
	for _, p := range tt.Conflicts {
		fmt.Fprintf(&b, "  • %s ↔ %s\n", p.A, p.B)
	}
	return b.String()
}

// RenderArrivals prints the next runs per route at a stop.
func RenderArrivals(topo *bus.Topology, stopID string, summary []bus.RouteSummary, now time.Time, lang language.Tag) string {
	var b strings.Builder

	stopName := stopID
	if s, ok := topo.StopFor(stopID); ok {
		if config.IsChinese(lang) {
			stopName = s.NameZH
		} else {
			stopName = cases.Title(language.English).String(s.NameEN)
		}
	}
	direction := "downhill"
	if bus.Uphill(stopID) {
		direction = "uphill"
	}
	b.WriteString(accentStyle.Render(fmt.Sprintf("--- 🚌 %s (%s, %s) ---", stopName, stopID, direction)))
	b.WriteString("\n")

	if len(summary) == 0 {
		if config.IsChinese(lang) {
			b.WriteString("今日已無班次。\n")
		} else {
			b.WriteString("No more buses today.\n")
		}
		return b.String()
	}

	for _, route := range summary {
		style := lipgloss.NewStyle().Bold(true).Foreground(lineColors[route.Route.Line()])
		fmt.Fprintf(&b, "\n%s %s\n", style.Render(route.RouteCode), bus.RouteTitle(route.Route, lang))
		for _, it := range route.Arrivals {
			vehicle := ""
			if it.Vehicle != "" {
				vehicle = mutedStyle.Render(" " + it.Vehicle)
			}
			fmt.Fprintf(&b, "  • [%s]%s\n", timeStyle.Render(bus.DisplayTime(it.Arrival, now, lang)), vehicle)
		}
	}
	return b.String()
}

// RenderStops lists every directional stop with its names.
func RenderStops(topo *bus.Topology) string {
	var b strings.Builder
	title := cases.Title(language.English)
	for _, id := range topo.StopIDs() {
		s, ok := topo.StopFor(id)
		if !ok {
			fmt.Fprintf(&b, "%-4s\n", id)
			continue
		}
		arrow := "↓"
		if bus.Uphill(id) {
			arrow = "↑"
		}
		fmt.Fprintf(&b, "%-4s %s %s / %s  %s\n", id, arrow, s.NameZH, title.String(s.NameEN), mutedStyle.Render(strings.Join(bus.RouteCodes(topo.RoutesThrough(id)), " ")))
	}
	return b.String()
}

// RenderAgenda prints dated entries grouped by day.
func RenderAgenda(entries []calendar.Entry, names map[string]string) string {
	if len(entries) == 0 {
		return mutedStyle.Render("Nothing scheduled.") + "\n"
	}

	var b strings.Builder
	var current string
	for _, e := range entries {
		day := e.Date.Format("Mon 2006-01-02")
		if day != current {
			current = day
			b.WriteString(headerStyle.Render(day))
			b.WriteString("\n")
		}
		name := names[e.CourseID]
		if name == "" {
			name = e.CourseID
		}
		swatch := lipgloss.NewStyle().Foreground(lipgloss.Color(string(e.Color))).Render("█")
		line := fmt.Sprintf("  %s %s-%s %s", swatch, e.Start.Format("15:04"), e.End.Format("15:04"), name)
		if e.Venue != "" {
			line += mutedStyle.Render(" @ " + e.Venue)
		}
		b.WriteString(line + "\n")
	}
	return b.String()
}

// RenderMonth draws whole weeks with the number of classes on each day.
// Days outside month are muted.
func RenderMonth(dates []time.Time, entries []calendar.Entry, month time.Month) string {
	counts := make(map[string]int)
	for key, es := range calendar.ByDate(entries) {
		counts[key] = len(es)
	}

	var b strings.Builder
	var header []string
	for d := timecode.Monday; d <= timecode.Sunday; d++ {
		header = append(header, cell(d.String(), headerStyle))
	}
	b.WriteString(lipgloss.JoinHorizontal(lipgloss.Top, header...) + "\n")

	for i := 0; i < len(dates); i += 7 {
		var row []string
		for _, d := range dates[i:min(i+7, len(dates))] {
			text := fmt.Sprintf("%2d", d.Day())
			if n := counts[d.Format(time.DateOnly)]; n > 0 {
				text += fmt.Sprintf(" •%d", n)
			}
			style := lipgloss.NewStyle()
			if d.Month() != month {
				style = mutedStyle
			}
			row = append(row, cell(text, style))
		}
		b.WriteString(lipgloss.JoinHorizontal(lipgloss.Top, row...) + "\n")
	}
	return b.String()
}
