package tui

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/huh/spinner"

	"github.com/Komeii/courseweb/pkg/catalog"
	"github.com/Komeii/courseweb/pkg/config"
	"github.com/Komeii/courseweb/pkg/portal"
)

// CourseLine is a one-line summary used in search results.
func CourseLine(c catalog.CourseRow, zhNames bool) string {
	times := strings.Join(c.Times, " ")
	if times == "" {
		times = "-"
	}
	return fmt.Sprintf("%s  %s  (%d cr)  %s  %s", c.RawID, c.DisplayName(zhNames), c.Credits, times, c.Teachers(zhNames))
}

// RunSearchTUI searches the catalog and adds picked courses to the selection.
func RunSearchTUI(ctx context.Context, p *portal.Portal) error {
	var query string

	inputForm := huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Search courses").
				Description("Matches course numbers and Chinese or English names.").
				Placeholder("e.g. 微積分 or CS 1355").
				Value(&query),
		),
	).WithTheme(GetTheme())

	if err := inputForm.Run(); err != nil {
		return err
	}

	if strings.TrimSpace(query) == "" {
		fmt.Println("Operation cancelled: No query provided.")
		return nil
	}

	if p.Source == nil {
		return portal.ErrNoBackend
	}

	var rows []catalog.CourseRow
	var fetchErr error

	_ = spinner.New().
		Title(fmt.Sprintf("Searching for '%s'...", query)).
		Action(func() {
			rows, fetchErr = p.Source.SearchCourses(ctx, query)
		}).
		Run()

	if fetchErr != nil {
		return fmt.Errorf("could not search courses: %w", fetchErr)
	}

	if len(rows) == 0 {
		fmt.Println(errorStyle.Render(fmt.Sprintf("❌ No courses found for '%s'", query)))
		return nil
	}

	cfg := p.Config
	saved := make(map[string]bool)
	for _, id := range cfg.SavedCourses {
		saved[id] = true
	}

	var options []huh.Option[string]
	for _, r := range rows {
		opt := huh.NewOption(CourseLine(r, p.Chinese()), r.RawID)
		if saved[r.RawID] {
			opt = opt.Selected(true)
		}
		options = append(options, opt)
	}

	var picked []string
	form := huh.NewForm(
		huh.NewGroup(
			huh.NewMultiSelect[string]().
				Title("Add to your selection").
				Description("Space = toggle, Enter = confirm. Start typing to filter.").
				Options(options...).
				Value(&picked).
				Filterable(true).
				Height(12),
		),
	).WithTheme(GetTheme())

	if err := form.Run(); err != nil {
		return err
	}

	added := 0
	for _, id := range picked {
		if cfg.AddCourse(id) {
			added++
		}
	}
	if err := config.Save(cfg); err != nil {
		return err
	}

	fmt.Println(accentStyle.Render(fmt.Sprintf("\n✅ Added %d course(s). Your selection now has %d.\n", added, len(cfg.SavedCourses))))
	return nil
}
