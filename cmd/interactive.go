package cmd

import (
	"github.com/spf13/cobra"

	"github.com/Komeii/courseweb/pkg/tui"
)

var interactiveCmd = &cobra.Command{
	Use:   "interactive",
	Short: "Launch the interactive TUI",
	Long:  `Launch the Text User Interface to search courses, manage your timetable and check the campus shuttles interactively.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		p, err := openPortal(cmd)
		if err != nil {
			return err
		}
		defer p.Close()

		return tui.RunTUI(cmd.Context(), p)
	},
}

func init() {
	rootCmd.AddCommand(interactiveCmd)
}
