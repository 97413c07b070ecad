package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/Komeii/courseweb/pkg/config"
	"github.com/Komeii/courseweb/pkg/tui"
)

var cdsCmd = &cobra.Command{
	Use:   "cds",
	Short: "Manage your course selection",
	Long:  "Keep a local list of the courses you plan to take and check it for time conflicts.",
}

var cdsAddCmd = &cobra.Command{
	Use:   "add <course id>...",
	Short: "Add courses to your selection",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load()
		if err != nil {
			return err
		}

		for _, id := range args {
			if cfg.AddCourse(id) {
				fmt.Printf("✅ Added %s\n", id)
			} else {
				fmt.Printf("%s is already in your selection\n", id)
			}
		}
		return config.Save(cfg)
	},
}

var cdsRemoveCmd = &cobra.Command{
	Use:     "remove <course id>...",
	Aliases: []string{"rm"},
	Short:   "Remove courses from your selection",
	Args:    cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load()
		if err != nil {
			return err
		}

		for _, id := range args {
			if cfg.RemoveCourse(id) {
				fmt.Printf("🗑️ Removed %s\n", id)
			} else {
				fmt.Printf("%s was not in your selection\n", id)
			}
		}
		return config.Save(cfg)
	},
}

var cdsListCmd = &cobra.Command{
	Use:     "list",
	Aliases: []string{"ls"},
	Short:   "List your selection",
	RunE: func(cmd *cobra.Command, args []string) error {
		p, err := openPortal(cmd)
		if err != nil {
			return err
		}
		defer p.Close()

		if len(p.Config.SavedCourses) == 0 {
			fmt.Println("Your course selection is empty.")
			return nil
		}

		offline, _ := cmd.Flags().GetBool("offline")
		if offline || p.Source == nil {
			for _, id := range p.Config.SavedCourses {
				fmt.Println(id)
			}
			return nil
		}

		rows, err := p.Source.FetchCourses(cmd.Context(), p.Config.SavedCourses)
		if err != nil {
			return fmt.Errorf("failed to fetch courses: %w", err)
		}

		total := 0
		for _, r := range rows {
			fmt.Println(tui.CourseLine(r, p.Chinese()))
			total += r.Credits
		}
		fmt.Printf("\n%d course(s), %d credits\n", len(rows), total)
		return nil
	},
}

var cdsCheckCmd = &cobra.Command{
	Use:   "check",
	Short: "Render your selection and warn about overlapping courses",
	RunE: func(cmd *cobra.Command, args []string) error {
		p, err := openPortal(cmd)
		if err != nil {
			return err
		}
		defer p.Close()

		if len(p.Config.SavedCourses) == 0 {
			fmt.Println("Your course selection is empty.")
			return nil
		}

		tt, err := tui.FetchTimetable(cmd.Context(), p, p.Config.SavedCourses)
		if err != nil {
			return err
		}

		tui.PrintTimetable(p, tt)
		if len(tt.Conflicts) == 0 {
			fmt.Println(tui.AccentStyle().Render("\n✅ No overlapping courses."))
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(cdsCmd)
	cdsCmd.AddCommand(cdsAddCmd, cdsRemoveCmd, cdsListCmd, cdsCheckCmd)
	cdsListCmd.Flags().Bool("offline", false, "Only print the saved ids")
}
