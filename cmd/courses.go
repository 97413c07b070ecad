package cmd

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/huh/spinner"
	"github.com/spf13/cobra"

	"github.com/Komeii/courseweb/pkg/catalog"
	"github.com/Komeii/courseweb/pkg/config"
	"github.com/Komeii/courseweb/pkg/portal"
	"github.com/Komeii/courseweb/pkg/scraper"
	"github.com/Komeii/courseweb/pkg/tui"
)

var coursesCmd = &cobra.Command{
	Use:   "courses",
	Short: "Search the course catalog or import a registrar listing",
}

var coursesSearchCmd = &cobra.Command{
	Use:   "search <query>",
	Short: "Search courses by number or name",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		p, err := openPortal(cmd)
		if err != nil {
			return err
		}
		defer p.Close()

		if p.Source == nil {
			return portal.ErrNoBackend
		}

		query := strings.Join(args, " ")
		var rows []catalog.CourseRow
		_ = spinner.New().
			Title(fmt.Sprintf("Searching for '%s'...", query)).
			Action(func() {
				rows, err = p.Source.SearchCourses(cmd.Context(), query)
			}).
			Run()
		if err != nil {
			return fmt.Errorf("could not search courses: %w", err)
		}

		if len(rows) == 0 {
			fmt.Printf("No courses found for '%s'\n", query)
			return nil
		}
		for _, r := range rows {
			fmt.Println(tui.CourseLine(r, p.Chinese()))
		}
		return nil
	},
}

var coursesImportCmd = &cobra.Command{
	Use:   "import <file or url>",
	Short: "Import courses from a registrar HTML listing",
	Long: `Parse a course listing page saved from the registrar (or fetched from its URL)
and print the courses in it. With --save the courses are added to your selection,
with --timetable they are laid out as a weekly grid without contacting the backend.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		p, err := openPortal(cmd)
		if err != nil {
			return err
		}
		defer p.Close()

		var rows []catalog.CourseRow
		_ = spinner.New().
			Title(fmt.Sprintf("Reading %s...", args[0])).
			Action(func() {
				rows, err = scraper.NewClient().FetchListing(cmd.Context(), args[0])
			}).
			Run()
		if err != nil {
			return fmt.Errorf("failed to import listing: %w", err)
		}

		rows, err = catalog.ValidateCourses(rows)
		if err != nil {
			p.Logger.Warn("dropped invalid listing rows", "err", err)
		}

		for _, r := range rows {
			fmt.Println(tui.CourseLine(r, p.Chinese()))
		}
		fmt.Printf("\nImported %d course(s)\n", len(rows))

		if show, _ := cmd.Flags().GetBool("timetable"); show {
			ids := make([]string, len(rows))
			for i, r := range rows {
				ids[i] = r.RawID
			}
			tt, err := p.Layout(rows, ids)
			if err != nil {
				return err
			}
			tui.PrintTimetable(p, tt)
		}

		if save, _ := cmd.Flags().GetBool("save"); save {
			added := 0
			for _, r := range rows {
				if p.Config.AddCourse(r.RawID) {
					added++
				}
			}
			if err := config.Save(p.Config); err != nil {
				return err
			}
			fmt.Printf("✅ Added %d course(s) to your selection\n", added)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(coursesCmd)
	coursesCmd.AddCommand(coursesSearchCmd, coursesImportCmd)
	coursesImportCmd.Flags().Bool("save", false, "Add the imported courses to your selection")
	coursesImportCmd.Flags().Bool("timetable", false, "Print the imported courses as a weekly grid")
}
