package cmd

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/Komeii/courseweb/pkg/semester"
	"github.com/Komeii/courseweb/pkg/tui"
)

var semesterCmd = &cobra.Command{
	Use:   "semester [code]",
	Short: "Show the current semester and teaching week",
	Long: `Without arguments, print the semester in session and its teaching week.
With a semester code (e.g. 11210) print that semester's dates.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		p, err := openPortal(cmd)
		if err != nil {
			return err
		}
		defer p.Close()

		if len(args) == 1 {
			pretty, err := semester.Pretty(args[0])
			if err != nil {
				return err
			}
			s, ok := p.Semesters.Lookup(args[0])
			if !ok {
				return fmt.Errorf("semester %s is not in the semester table", pretty)
			}
			printSemester(s)
			return nil
		}

		now := time.Now()
		fmt.Println(tui.SemesterLine(p, now))
		if s, ok := p.Semesters.Upcoming(now); ok {
			printSemester(s)
		}
		return nil
	},
}

func printSemester(s semester.Semester) {
	pretty, _ := semester.Pretty(s.Code())
	fmt.Printf("%s (%s): %s to %s\n", pretty, s.Code(), s.Begins.Format(time.DateOnly), s.Ends.Format(time.DateOnly))
}

func init() {
	rootCmd.AddCommand(semesterCmd)
}
