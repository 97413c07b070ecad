package cmd

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/Komeii/courseweb/pkg/tui"
)

var exportCmd = &cobra.Command{
	Use:   "export [course ids...]",
	Short: "Directly export a timetable to an ICS file",
	Long: `Export the given courses (or your saved selection) as weekly recurring events
running until the end of the current or next semester.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		output, _ := cmd.Flags().GetString("output")

		p, err := openPortal(cmd)
		if err != nil {
			return err
		}
		defer p.Close()

		ids := args
		if len(ids) == 0 {
			ids = p.Config.SavedCourses
		}
		if len(ids) == 0 {
			return fmt.Errorf("no course ids given and no saved selection")
		}

		tt, err := tui.FetchTimetable(cmd.Context(), p, ids)
		if err != nil {
			return err
		}
		if len(tt.Blocks) == 0 {
			return fmt.Errorf("none of the courses has a weekly meeting time")
		}
		if warn := tui.RenderConflicts(tt); warn != "" {
			fmt.Print(warn)
		}

		file, err := os.Create(output)
		if err != nil {
			return fmt.Errorf("failed to create output file: %w", err)
		}
		defer file.Close()

		sem, err := p.ExportICS(tt, time.Now(), time.Local, file)
		if err != nil {
			return fmt.Errorf("failed to generate ICS: %w", err)
		}

		fmt.Printf("Successfully exported %d weekly events (%s) to %s\n", len(tt.Blocks), sem.Code(), output)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(exportCmd)
	exportCmd.Flags().StringP("output", "o", "timetable.ics", "Output file path")
}
