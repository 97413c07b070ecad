package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/Komeii/courseweb/pkg/catalog"
	"github.com/Komeii/courseweb/pkg/config"
	"github.com/Komeii/courseweb/pkg/timetable"
	"github.com/Komeii/courseweb/pkg/tui"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage courseweb configuration",
	Long:  "View or edit your local configuration settings (language, default stop, palette).",
	RunE: func(cmd *cobra.Command, args []string) error {
		p, err := openPortal(cmd)
		if err != nil {
			return err
		}
		defer p.Close()
		cfg := p.Config

		if clearCache, _ := cmd.Flags().GetBool("clear-cache"); clearCache {
			if err := catalog.ClearCache(); err != nil {
				return err
			}
			fmt.Println("✅ Cache cleared")
			return nil
		}

		if show, _ := cmd.Flags().GetBool("show"); show {
			fmt.Print(tui.DescribeConfig(cfg))
			return nil
		}

		changed := false
		if cmd.Flags().Changed("set-stop") {
			stop, _ := cmd.Flags().GetString("set-stop")
			if len(p.Topology.RoutesThrough(stop)) == 0 {
				return fmt.Errorf("unknown stop %q; run 'courseweb bus stops' to list stops", stop)
			}
			cfg.DefaultStop = stop
			changed = true
		}
		if cmd.Flags().Changed("set-lang") {
			lang, _ := cmd.Flags().GetString("set-lang")
			cfg.Language = lang
			changed = true
		}
		if cmd.Flags().Changed("set-palette") {
			name, _ := cmd.Flags().GetString("set-palette")
			if _, ok := timetable.Palettes[name]; !ok {
				return fmt.Errorf("unknown palette %q (have %v)", name, timetable.PaletteNames())
			}
			cfg.Palette = name
			changed = true
		}

		if changed {
			if err := config.Save(cfg); err != nil {
				return err
			}
			fmt.Println("✅ Configuration saved")
			fmt.Print(tui.DescribeConfig(cfg))
			return nil
		}

		// If no flags are given, launch the interactive TUI flow
		return tui.RunConfigTUI(p)
	},
}

func init() {
	rootCmd.AddCommand(configCmd)
	configCmd.Flags().String("set-stop", "", "Set the default bus stop (e.g. A3U)")
	configCmd.Flags().String("set-lang", "", "Set the display language (en or zh-TW)")
	configCmd.Flags().String("set-palette", "", "Set the course color palette")
	configCmd.Flags().Bool("show", false, "Print the current configuration")
	configCmd.Flags().Bool("clear-cache", false, "Delete cached backend rows")
}
