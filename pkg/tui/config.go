package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"

	"github.com/Komeii/courseweb/pkg/config"
	"github.com/Komeii/courseweb/pkg/portal"
	"github.com/Komeii/courseweb/pkg/timetable"
)

// RunConfigTUI launches the interactive experience for managing configurations
func RunConfigTUI(p *portal.Portal) error {
	for {
		cfg := p.Config
		var action string

		initialForm := huh.NewForm(
			huh.NewGroup(
				huh.NewSelect[string]().
					Title("Configuration Settings").
					Options(
						huh.NewOption("Set Accent Color (Theme)", "theme"),
						huh.NewOption("Set Course Palette", "palette"),
						huh.NewOption("Set Language", "language"),
						huh.NewOption("Set Default Bus Stop", "stop"),
						huh.NewOption("View Current Config", "view"),
						huh.NewOption("Back to Main Menu", "back"),
					).
					Value(&action),
			),
		).WithTheme(GetTheme())

		if err := initialForm.Run(); err != nil {
			return err
		}

		var err error
		switch action {
		case "back":
			return nil
		case "theme":
			err = runSetThemeTUI(cfg)
		case "palette":
			err = runSetPaletteTUI(cfg)
		case "language":
			err = runSetLanguageTUI(cfg)
		case "stop":
			err = runSetDefaultStopTUI(p)
		case "view":
			fmt.Println(accentStyle.Render("\n--- Current Configuration (~/.courseweb.json) ---"))
			fmt.Print(DescribeConfig(cfg))
			fmt.Println()
		}

		if err != nil {
			return err
		}
	}
}

// DescribeConfig renders cfg for display, filling in defaults for unset keys.
func DescribeConfig(cfg *config.AppConfig) string {
	orNotSet := func(s string) string {
		if s == "" {
			return "Not set"
		}
		return s
	}

	palette := cfg.Palette
	if palette == "" {
		palette = timetable.DefaultPalette + " (default)"
	}
	accent := cfg.AccentColor
	if accent == "" {
		accent = defaultAccent + " (default)"
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Language: %s\n", cfg.LanguageTag())
	fmt.Fprintf(&b, "Default Stop: %s\n", orNotSet(cfg.DefaultStop))
	fmt.Fprintf(&b, "Saved Courses: %d\n", len(cfg.SavedCourses))
	fmt.Fprintf(&b, "Palette: %s\n", palette)
	fmt.Fprintf(&b, "Accent Color: %s\n", accent)
	fmt.Fprintf(&b, "Topology File: %s\n", orNotSet(cfg.TopologyFile))
	fmt.Fprintf(&b, "Semester File: %s\n", orNotSet(cfg.SemesterFile))
	return b.String()
}

func runSetPaletteTUI(cfg *config.AppConfig) error {
	selected := cfg.Palette

	var options []huh.Option[string]
	for _, name := range timetable.PaletteNames() {
		var swatch strings.Builder
		for _, c := range timetable.PaletteByName(name) {
			swatch.WriteString(colorBlock(string(c)))
		}
		options = append(options, huh.NewOption(fmt.Sprintf("%s %s", swatch.String(), name), name))
	}

	form := huh.NewForm(
		huh.NewGroup(
			huh.NewSelect[string]().
				Title("Choose the palette used to color courses").
				Options(options...).
				Value(&selected),
		),
	).WithTheme(GetTheme())

	if err := form.Run(); err != nil {
		return err
	}

	cfg.Palette = selected
	if err := config.Save(cfg); err != nil {
		return err
	}

	fmt.Println(accentStyle.Render(fmt.Sprintf("\n✅ Course palette changed to: %s\n", selected)))
	return nil
}

func runSetLanguageTUI(cfg *config.AppConfig) error {
	selected := cfg.Language

	form := huh.NewForm(
		huh.NewGroup(
			huh.NewSelect[string]().
				Title("Display language").
				Options(
					huh.NewOption("繁體中文", "zh-TW"),
					huh.NewOption("English", "en"),
				).
				Value(&selected),
		),
	).WithTheme(GetTheme())

	if err := form.Run(); err != nil {
		return err
	}

	cfg.Language = selected
	if err := config.Save(cfg); err != nil {
		return err
	}

	fmt.Println(accentStyle.Render(fmt.Sprintf("\n✅ Language changed to: %s\n", selected)))
	return nil
}

func runSetDefaultStopTUI(p *portal.Portal) error {
	cfg := p.Config
	selected := cfg.DefaultStop

	form := huh.NewForm(
		huh.NewGroup(
			huh.NewSelect[string]().
				Title("Select the stop you check most often").
				Description("Used by the bus command when no stop is given.").
				Options(stopOptions(p.Topology, p.Lang())...).
				Value(&selected),
		),
	).WithTheme(GetTheme())

	if err := form.Run(); err != nil {
		return err
	}

	cfg.DefaultStop = selected
	if err := config.Save(cfg); err != nil {
		return err
	}

	fmt.Println(accentStyle.Render(fmt.Sprintf("\n✅ Default stop changed to: %s\n", selected)))
	return nil
}

func colorBlock(color string) string {
	return lipgloss.NewStyle().Foreground(lipgloss.Color(color)).Render("██")
}

// ValidHex reports whether s looks like "#RRGGBB".
func ValidHex(s string) error {
	if len(s) != 7 || !strings.HasPrefix(s, "#") {
		return fmt.Errorf("must be a valid 6-character hex code starting with #")
	}
	for _, r := range s[1:] {
		if !strings.ContainsRune("0123456789abcdefABCDEF", r) {
			return fmt.Errorf("%q is not a hex digit", r)
		}
	}
	return nil
}

func runSetThemeTUI(cfg *config.AppConfig) error {
	var input string

	inputForm := huh.NewForm(
		huh.NewGroup(
			huh.NewSelect[string]().
				Title("Choose an Accent Color for courseweb").
				Description("Select a curated Charm style or choose Custom to enter your own Hex.").
				Options(
					huh.NewOption(fmt.Sprintf("%s Tsing Hua Purple", colorBlock("99")), "99"),
					huh.NewOption(fmt.Sprintf("%s Sakura Pink", colorBlock("205")), "205"),
					huh.NewOption(fmt.Sprintf("%s Ocean Blue", colorBlock("86")), "86"),
					huh.NewOption(fmt.Sprintf("%s Matrix Green", colorBlock("42")), "42"),
					huh.NewOption("✨ Custom Hex Code", "custom"),
				).
				Value(&input),
		),
	).WithTheme(GetTheme())

	if err := inputForm.Run(); err != nil {
		return err
	}

	if input == "custom" {
		var hexInput string
		hexForm := huh.NewForm(
			huh.NewGroup(
				huh.NewInput().
					Title("Enter a Hex Color Code").
					Description("Include the `#` symbol. Example: #FF00FF").
					Placeholder("#").
					Value(&hexInput).
					Validate(ValidHex),
			),
		).WithTheme(GetTheme())

		if err := hexForm.Run(); err != nil {
			return err
		}
		cfg.AccentColor = hexInput
	} else {
		cfg.AccentColor = input
	}

	if err := config.Save(cfg); err != nil {
		return err
	}

	fmt.Println(accentStyle.Render("\n✅ Beautiful! The theme color is now saved.\n"))
	return nil
}
