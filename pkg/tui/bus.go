package tui

import (
	"context"
	"fmt"
	"time"

	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/huh/spinner"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/Komeii/courseweb/pkg/bus"
	"github.com/Komeii/courseweb/pkg/config"
	"github.com/Komeii/courseweb/pkg/portal"
)

// arrivalsPerRoute is how many upcoming runs are listed for each route.
const arrivalsPerRoute = 3

// stopOptions lists every directional stop as a select option.
func stopOptions(topo *bus.Topology, lang language.Tag) []huh.Option[string] {
	title := cases.Title(language.English)
	var opts []huh.Option[string]
	for _, id := range topo.StopIDs() {
		label := id
		if s, ok := topo.StopFor(id); ok {
			name := title.String(s.NameEN)
			if config.IsChinese(lang) {
				name = s.NameZH
			}
			arrow := "↓"
			if bus.Uphill(id) {
				arrow = "↑"
			}
			label = fmt.Sprintf("%s %s %s", arrow, name, id)
		}
		opts = append(opts, huh.NewOption(label, id))
	}
	return opts
}

// ArrivalsBoard fetches the next runs at stopID and renders them, at most
// arrivalsPerRoute per route.
func ArrivalsBoard(ctx context.Context, p *portal.Portal, stopID string, now time.Time) (string, error) {
	items, err := p.Arrivals(ctx, stopID, now)
	if err != nil {
		return "", err
	}
	return RenderArrivals(p.Topology, stopID, bus.Summarize(items, arrivalsPerRoute), now, p.Lang()), nil
}

// PrintArrivals writes the arrivals board for stopID to stdout.
func PrintArrivals(ctx context.Context, p *portal.Portal, stopID string, now time.Time) error {
	board, err := ArrivalsBoard(ctx, p, stopID, now)
	if err != nil {
		return err
	}
	fmt.Print(board)
	return nil
}

// RunBusTUI asks for a stop and shows the next shuttles there.
func RunBusTUI(ctx context.Context, p *portal.Portal) error {
	stopID := p.Config.DefaultStop

	form := huh.NewForm(
		huh.NewGroup(
			huh.NewSelect[string]().
				Title("Which stop are you at?").
				Options(stopOptions(p.Topology, p.Lang())...).
				Value(&stopID),
		),
	).WithTheme(GetTheme())

	if err := form.Run(); err != nil {
		return err
	}

	var err error
	_ = spinner.New().
		Title("Fetching shuttle schedules...").
		Action(func() {
			err = PrintArrivals(ctx, p, stopID, time.Now())
		}).
		Run()

	if err != nil {
		return fmt.Errorf("could not fetch arrivals: %w", err)
	}
	fmt.Println()
	return nil
}
