package cmd

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"

	"github.com/spf13/cobra"

	"github.com/Komeii/courseweb/pkg/portal"
)

var (
	verbose  bool
	langFlag string
)

var rootCmd = &cobra.Command{
	Use:   "courseweb",
	Short: "A CLI and TUI for NTHU course timetables and campus shuttles",
	Long: `courseweb is an application for students at National Tsing Hua University
to build their weekly timetable, spot overlapping courses, check when the next
campus shuttle arrives and export their classes to an .ics file.`,
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Println(err)
		stop()
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Write debug logs to stderr")
	rootCmd.PersistentFlags().StringVar(&langFlag, "lang", "", "Display language for this run (en or zh-TW)")
}

func newLogger() *slog.Logger {
	level := slog.LevelWarn
	if verbose {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
}

// openPortal loads settings and connects to the backend. Callers close it.
func openPortal(cmd *cobra.Command) (*portal.Portal, error) {
	p, err := portal.Open(cmd.Context(), newLogger())
	if err != nil {
		return nil, err
	}
	if langFlag != "" {
		if err := p.SetLanguage(langFlag); err != nil {
			p.Close()
			return nil, err
		}
	}
	return p, nil
}
