package main

import (
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"charm.land/lipgloss/v2"
	"charm.land/lipgloss/v2/table"
	"github.com/charmbracelet/colorprofile"
	"github.com/spf13/cobra"

	"github.com/Gaurav-Gosain/navi/internal/effects"
	"github.com/Gaurav-Gosain/navi/internal/kv"
	"github.com/Gaurav-Gosain/navi/internal/theme"
)

// openStore opens the persisted state the desktop reads on start.
func openStore() (*kv.FileStore, error) {
	fs, err := kv.Open()
	if err != nil {
		return nil, fmt.Errorf("could not open state store: %w", err)
	}
	return fs, nil
}

func newThemeCmd() *cobra.Command {
	themeCmd := &cobra.Command{
		Use:   "theme",
		Short: "Inspect and change the desktop palette",
		Long: `Inspect and change the desktop palette

Changes are written to the state store and picked up by running desktops.`,
	}

	themeShowCmd := &cobra.Command{
		Use:   "show",
		Short: "Show the active palette",
		RunE: func(cmd *cobra.Command, args []string) error {
			fs, err := openStore()
			if err != nil {
				return err
			}
			defer func() { _ = fs.Close() }()

			w := colorprofile.NewWriter(os.Stdout, os.Environ())
			return printTheme(w, theme.Open(fs).Get(), w.Profile)
		},
	}

	var hue, saturation, lightness float64
	themeSetCmd := &cobra.Command{
		Use:   "set [preset]",
		Short: "Set the palette from a preset or from HSL values",
		Long: `Set the palette from a bubbletint preset or from HSL values

With a preset name the palette is taken from that color scheme. Without one
the palette is derived from --hue, --saturation and --lightness.`,
		Example: `  navi theme set dracula
  navi theme set --hue 280 --saturation 90 --lightness 55`,
		Args: cobra.MaximumNArgs(1),
		ValidArgsFunction: func(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
			return theme.Presets, cobra.ShellCompDirectiveNoFileComp
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			var t theme.Theme
			if len(args) == 1 {
				var ok bool
				t, ok = theme.FromTint(args[0])
				if !ok {
					return fmt.Errorf("unknown preset %q (available: %s)", args[0], strings.Join(theme.Presets, ", "))
				}
			} else {
				if saturation < 0 || saturation > 100 || lightness < 0 || lightness > 100 {
					return fmt.Errorf("saturation and lightness must be between 0 and 100")
				}
				t = theme.FromHSL(hue, saturation, lightness)
			}

			fs, err := openStore()
			if err != nil {
				return err
			}
			defer func() { _ = fs.Close() }()

			if err := theme.Open(fs).Set(t); err != nil {
				return err
			}
			w := colorprofile.NewWriter(os.Stdout, os.Environ())
			return printTheme(w, t, w.Profile)
		},
	}
	themeSetCmd.Flags().Float64Var(&hue, "hue", 135, "Hue in degrees")
	themeSetCmd.Flags().Float64Var(&saturation, "saturation", 100, "Saturation in percent")
	themeSetCmd.Flags().Float64Var(&lightness, "lightness", 50, "Lightness in percent")

	themeResetCmd := &cobra.Command{
		Use:   "reset",
		Short: "Restore the default palette",
		RunE: func(cmd *cobra.Command, args []string) error {
			fs, err := openStore()
			if err != nil {
				return err
			}
			defer func() { _ = fs.Close() }()

			if err := theme.Open(fs).Reset(); err != nil {
				return err
			}
			fmt.Println("Palette reset to defaults")
			return nil
		},
	}

	themeListCmd := &cobra.Command{
		Use:   "list",
		Short: "List palette presets",
		Run: func(cmd *cobra.Command, args []string) {
			for _, p := range theme.Presets {
				fmt.Println(p)
			}
		},
	}

	themeCmd.AddCommand(themeShowCmd, themeSetCmd, themeResetCmd, themeListCmd)
	return themeCmd
}

// printTheme draws one swatch per palette color.
func printTheme(w io.Writer, t theme.Theme, profile colorprofile.Profile) error {
	rows := []struct {
		name  string
		value string
	}{
		{"primary", t.Primary},
		{"secondary", t.Secondary},
		{"accent", t.Accent},
		{"background", t.Background},
		{"text", t.Text},
	}

	label := lipgloss.NewStyle().Width(12)
	var sb strings.Builder
	for _, r := range rows {
		swatch := lipgloss.NewStyle().Background(theme.Parse(r.value)).Render("      ")
		fmt.Fprintf(&sb, "%s%s  %s\n", label.Render(r.name), swatch, r.value)
	}
	fmt.Fprintf(&sb, "\ncolor profile: %s\n", profile)
	_, err := io.WriteString(w, sb.String())
	return err
}

func newTrailCmd() *cobra.Command {
	trailCmd := &cobra.Command{
		Use:   "trail",
		Short: "Inspect and change the mouse trail",
	}

	trailShowCmd := &cobra.Command{
		Use:   "show",
		Short: "Show the mouse trail settings",
		RunE: func(cmd *cobra.Command, args []string) error {
			fs, err := openStore()
			if err != nil {
				return err
			}
			defer func() { _ = fs.Close() }()

			fmt.Println(renderTrailConfig(effects.OpenTrailStore(fs, nil).Get()))
			return nil
		},
	}

	trailPresetCmd := &cobra.Command{
		Use:   "preset <name>",
		Short: "Apply a trail preset",
		Long:  "Apply a trail preset. Run without arguments to list the presets.",
		Args:  cobra.MaximumNArgs(1),
		ValidArgsFunction: func(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
			return presetNames(), cobra.ShellCompDirectiveNoFileComp
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 0 {
				for _, name := range presetNames() {
					fmt.Println(name)
				}
				return nil
			}
			preset, ok := effects.FindPreset(args[0])
			if !ok {
				return fmt.Errorf("unknown preset %q (available: %s)", args[0], strings.Join(presetNames(), ", "))
			}

			fs, err := openStore()
			if err != nil {
				return err
			}
			defer func() { _ = fs.Close() }()

			store := effects.OpenTrailStore(fs, nil)
			if err := store.Update(func(c effects.TrailConfig) effects.TrailConfig {
				return c.WithPreset(preset)
			}); err != nil {
				return err
			}
			fmt.Printf("Applied %s\n\n", preset.Name)
			fmt.Println(renderTrailConfig(store.Get()))
			return nil
		},
	}

	trailResetCmd := &cobra.Command{
		Use:   "reset",
		Short: "Restore the default trail settings",
		RunE: func(cmd *cobra.Command, args []string) error {
			fs, err := openStore()
			if err != nil {
				return err
			}
			defer func() { _ = fs.Close() }()

			if err := effects.OpenTrailStore(fs, nil).Reset(); err != nil {
				return err
			}
			fmt.Println("Trail settings reset to defaults")
			return nil
		},
	}

	trailCmd.AddCommand(trailShowCmd, trailPresetCmd, trailResetCmd)
	return trailCmd
}

func presetNames() []string {
	names := make([]string, len(effects.Presets))
	for i, p := range effects.Presets {
		names[i] = p.Name
	}
	return names
}

// renderTrailConfig renders the settings as a two column table.
func renderTrailConfig(c effects.TrailConfig) string {
	enabled := "off"
	if c.Enabled {
		enabled = "on"
	}
	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(lipgloss.Color("8"))).
		Headers("Setting", "Value").
		Rows(
			[]string{"enabled", enabled},
			[]string{"type", string(c.Type)},
			[]string{"length", strconv.Itoa(c.Length)},
			[]string{"size", strconv.Itoa(c.Size)},
			[]string{"opacity", strconv.FormatFloat(c.Opacity, 'f', 1, 64)},
			[]string{"speed", strconv.Itoa(c.Speed)},
			[]string{"color", c.Color},
			[]string{"fade speed", strconv.Itoa(c.FadeSpeed)},
			[]string{"particles", strconv.Itoa(c.ParticleCount)},
		).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("12")).Padding(0, 1)
			}
			return lipgloss.NewStyle().Padding(0, 1)
		})
	return t.Render()
}
