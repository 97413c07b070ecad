package tui

import (
	"context"
	"fmt"
	"time"

	"github.com/Komeii/courseweb/pkg/calendar"
	"github.com/Komeii/courseweb/pkg/portal"
	"github.com/Komeii/courseweb/pkg/semester"
)

// SemesterLine is the header indicator for now.
func SemesterLine(p *portal.Portal, now time.Time) string {
	if s, ok := p.CurrentSemester(now); ok {
		return s.Label(now, p.Lang())
	}
	return semester.NoActiveLabel(p.Lang())
}

// CourseNames maps course ids to display names in the configured language.
func CourseNames(p *portal.Portal, tt *portal.Timetable) map[string]string {
	names := make(map[string]string, len(tt.Courses))
	for _, c := range tt.Courses {
		names[c.RawID] = c.DisplayName(p.Chinese())
	}
	return names
}

// RunWeekTUI prints this week's classes from the saved selection.
func RunWeekTUI(ctx context.Context, p *portal.Portal) error {
	if len(p.Config.SavedCourses) == 0 {
		fmt.Println(errorStyle.Render("Your course selection is empty. Use Search Courses to add some!"))
		return nil
	}

	tt, err := FetchTimetable(ctx, p, p.Config.SavedCourses)
	if err != nil {
		return err
	}

	now := time.Now()
	fmt.Println(accentStyle.Render(fmt.Sprintf("\n--- 🗓️ %s ---", SemesterLine(p, now))))
	fmt.Print(RenderAgenda(p.Agenda(tt, calendar.Week(now)), CourseNames(p, tt)))
	fmt.Println()
	return nil
}
