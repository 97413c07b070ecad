package cmd

import (
	"fmt"
	"time"

	"github.com/charmbracelet/huh/spinner"
	"github.com/spf13/cobra"

	"github.com/Komeii/courseweb/pkg/tui"
)

var busCmd = &cobra.Command{
	Use:   "bus [stop]",
	Short: "Show the next campus shuttles at a stop",
	Long: `Show the next campus shuttle arrivals at a directional stop (e.g. A3U for
uphill, A3D for downhill). Without a stop the saved default stop is used.
Run 'courseweb bus stops' to list the stop codes.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		p, err := openPortal(cmd)
		if err != nil {
			return err
		}
		defer p.Close()

		stopID := p.Config.DefaultStop
		if len(args) == 1 {
			stopID = args[0]
		}
		if stopID == "" {
			return fmt.Errorf("no stop given and no default stop saved; run 'courseweb bus stops' to pick one")
		}
		if len(p.Topology.RoutesThrough(stopID)) == 0 {
			return fmt.Errorf("unknown stop %q; run 'courseweb bus stops' to list stops", stopID)
		}

		watch, _ := cmd.Flags().GetBool("watch")
		if !watch {
			_ = spinner.New().
				Title("Fetching shuttle schedules...").
				Action(func() {
					err = tui.PrintArrivals(cmd.Context(), p, stopID, time.Now())
				}).
				Run()
			return err
		}

		interval, _ := cmd.Flags().GetDuration("interval")
		ticker := time.NewTicker(interval)
		defer ticker.Stop()

		ctx := cmd.Context()
		for {
			// Clear the screen and redraw from a fresh "now" on every tick.
			fmt.Print("\033[H\033[2J")
			if err := tui.PrintArrivals(ctx, p, stopID, time.Now()); err != nil {
				p.Logger.Warn("refresh failed", "stop", stopID, "err", err)
				fmt.Println(tui.ErrorStyle().Render(err.Error()))
			}
			fmt.Printf("\nRefreshing every %s. Press Ctrl+C to stop.\n", interval)

			select {
			case <-ctx.Done():
				return nil
			case <-ticker.C:
			}
		}
	},
}

var busStopsCmd = &cobra.Command{
	Use:   "stops",
	Short: "List the shuttle stops and the routes through them",
	RunE: func(cmd *cobra.Command, args []string) error {
		p, err := openPortal(cmd)
		if err != nil {
			return err
		}
		defer p.Close()

		fmt.Print(tui.RenderStops(p.Topology))
		return nil
	},
}

func init() {
	rootCmd.AddCommand(busCmd)
	busCmd.AddCommand(busStopsCmd)
	busCmd.Flags().BoolP("watch", "w", false, "Keep the board open and refresh it")
	busCmd.Flags().Duration("interval", 30*time.Second, "Refresh interval for --watch")
}
