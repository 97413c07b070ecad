package cmd

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/Komeii/courseweb/pkg/calendar"
	"github.com/Komeii/courseweb/pkg/tui"
)

var calendarCmd = &cobra.Command{
	Use:   "calendar",
	Short: "Show your classes on this week's (or month's) dates",
	Long: `Place your saved selection on real dates. Days outside the semester are left
empty. Use --offset to move by weeks (or months with --month).`,
	RunE: func(cmd *cobra.Command, args []string) error {
		p, err := openPortal(cmd)
		if err != nil {
			return err
		}
		defer p.Close()

		if len(p.Config.SavedCourses) == 0 {
			return fmt.Errorf("your course selection is empty; try 'courseweb cds add <id>'")
		}

		mode := calendar.ModeWeek
		if month, _ := cmd.Flags().GetBool("month"); month {
			mode = calendar.ModeMonth
		}
		offset, _ := cmd.Flags().GetInt("offset")

		now := time.Now()
		anchor := calendar.Move(mode, now, offset)
		dates := calendar.Dates(mode, anchor)

		tt, err := tui.FetchTimetable(cmd.Context(), p, p.Config.SavedCourses)
		if err != nil {
			return err
		}
		entries := p.Agenda(tt, dates)

		fmt.Println(tui.AccentStyle().Render(fmt.Sprintf("--- 🗓️ %s ---", tui.SemesterLine(p, calendar.Center(dates)))))
		if mode == calendar.ModeMonth {
			fmt.Println(anchor.Format("January 2006"))
			fmt.Print(tui.RenderMonth(dates, entries, anchor.Month()))
			fmt.Println()
		}
		fmt.Print(tui.RenderAgenda(entries, tui.CourseNames(p, tt)))
		return nil
	},
}

func init() {
	rootCmd.AddCommand(calendarCmd)
	calendarCmd.Flags().BoolP("month", "m", false, "Show the whole month")
	calendarCmd.Flags().IntP("offset", "o", 0, "Weeks (or months) to move from today")
}
