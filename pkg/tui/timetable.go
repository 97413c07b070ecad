package tui

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/huh/spinner"

	"github.com/Komeii/courseweb/pkg/config"
	"github.com/Komeii/courseweb/pkg/portal"
)

// PrintTimetable writes the grid, the legend and any conflicts to stdout.
func PrintTimetable(p *portal.Portal, tt *portal.Timetable) {
	lang := p.Lang()
	fmt.Println()
	fmt.Print(RenderGrid(tt, p.Clock, lang))
	fmt.Println()
	fmt.Print(RenderLegend(tt, lang))
	if warn := RenderConflicts(tt); warn != "" {
		fmt.Println()
		fmt.Print(warn)
	}
	if len(tt.Missing) > 0 {
		fmt.Println(errorStyle.Render("Not found: " + strings.Join(tt.Missing, ", ")))
	}
}

// FetchTimetable loads ids behind a spinner.
func FetchTimetable(ctx context.Context, p *portal.Portal, ids []string) (*portal.Timetable, error) {
	var tt *portal.Timetable
	var err error

	_ = spinner.New().
		Title(fmt.Sprintf("Fetching %d course(s)...", len(ids))).
		Action(func() {
			tt, err = p.Timetable(ctx, ids)
		}).
		Run()

	return tt, err
}

// RunTimetableTUI shows the saved course selection and lets the user prune
// it or export it.
func RunTimetableTUI(ctx context.Context, p *portal.Portal) error {
	cfg := p.Config
	if len(cfg.SavedCourses) == 0 {
		fmt.Println(errorStyle.Render("Your course selection is empty. Use Search Courses to add some!"))
		return nil
	}

	tt, err := FetchTimetable(ctx, p, cfg.SavedCourses)
	if err != nil {
		return err
	}
	PrintTimetable(p, tt)

	var action string
	form := huh.NewForm(
		huh.NewGroup(
			huh.NewSelect[string]().
				Title("Next").
				Options(
					huh.NewOption("Remove courses", "remove"),
					huh.NewOption("Export to .ics", "export"),
					huh.NewOption("Back to Main Menu", "back"),
				).
				Value(&action),
		),
	).WithTheme(GetTheme())

	if err := form.Run(); err != nil {
		return err
	}

	switch action {
	case "remove":
		return runPruneSelectionTUI(p, tt)
	case "export":
		return runExportTUI(p, tt)
	}
	return nil
}

func runPruneSelectionTUI(p *portal.Portal, tt *portal.Timetable) error {
	cfg := p.Config

	var options []huh.Option[string]
	for _, id := range cfg.SavedCourses {
		label := id
		if c, ok := tt.Course(id); ok {
			label = fmt.Sprintf("%s %s", id, c.DisplayName(p.Chinese()))
		}
		options = append(options, huh.NewOption(label, id).Selected(true))
	}

	var keep []string
	form := huh.NewForm(
		huh.NewGroup(
			huh.NewMultiSelect[string]().
				Title("Keep these courses").
				Description("Space = toggle, Enter = confirm").
				Options(options...).
				Value(&keep).
				Height(12),
		),
	).WithTheme(GetTheme())

	if err := form.Run(); err != nil {
		return err
	}

	removed := len(cfg.SavedCourses) - len(keep)
	cfg.SavedCourses = keep
	if err := config.Save(cfg); err != nil {
		return err
	}

	fmt.Println(accentStyle.Render(fmt.Sprintf("\n✅ Removed %d course(s), %d left.\n", removed, len(keep))))
	return nil
}

func runExportTUI(p *portal.Portal, tt *portal.Timetable) error {
	outputFile := "timetable.ics"

	form := huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Output file name").
				Value(&outputFile).
				Validate(func(s string) error {
					if s == "" {
						return fmt.Errorf("file name cannot be empty")
					}
					return nil
				}),
		),
	).WithTheme(GetTheme())

	if err := form.Run(); err != nil {
		return err
	}

	if !strings.HasSuffix(outputFile, ".ics") {
		outputFile += ".ics"
	}

	file, err := os.Create(outputFile)
	if err != nil {
		return fmt.Errorf("failed to create output file: %w", err)
	}
	defer file.Close()

	sem, err := p.ExportICS(tt, time.Now(), time.Local, file)
	if err != nil {
		return fmt.Errorf("failed to generate ICS: %w", err)
	}

	fmt.Println(accentStyle.Render(fmt.Sprintf("\nSuccess! Exported %d weekly events for %s to %s", len(tt.Blocks), sem.Label(time.Now(), p.Lang()), outputFile)))
	return nil
}
