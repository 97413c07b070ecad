package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/Komeii/courseweb/pkg/tui"
)

var timetableCmd = &cobra.Command{
	Use:   "timetable [course ids...]",
	Short: "Print a weekly timetable",
	Long: `Fetch the given courses (or your saved selection when none are given) and print
them as a weekly grid. Overlapping courses are flagged but still shown.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		p, err := openPortal(cmd)
		if err != nil {
			return err
		}
		defer p.Close()

		refresh, _ := cmd.Flags().GetBool("refresh")
		p.SetNoCache(refresh)

		ids := args
		if len(ids) == 0 {
			ids = p.Config.SavedCourses
		}
		if len(ids) == 0 {
			return fmt.Errorf("no course ids given and no saved selection; try 'courseweb cds add <id>'")
		}

		tt, err := tui.FetchTimetable(cmd.Context(), p, ids)
		if err != nil {
			return err
		}

		tui.PrintTimetable(p, tt)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(timetableCmd)
	timetableCmd.Flags().BoolP("refresh", "r", false, "Ignore cached course data")
}
