package app

import (
	"image/color"

	"charm.land/lipgloss/v2"
	"charm.land/lipgloss/v2/table"

	"github.com/Gaurav-Gosain/navi/internal/config"
)

// HelpSections returns the keybinding sections shown by the help overlay.
func (d *Desktop) HelpSections() []config.KeybindingSection {
	return config.GetKeybindings(d.Keybinds)
}

// MoveHelpSection switches the help overlay to another tab.
func (d *Desktop) MoveHelpSection(delta int) {
	n := len(d.HelpSections())
	if n == 0 {
		return
	}
	d.HelpSection = ((d.HelpSection+delta)%n + n) % n
}

func (d *Desktop) renderHelp() string {
	sections := d.HelpSections()
	if len(sections) == 0 {
		return ""
	}
	active := min(max(d.HelpSection, 0), len(sections)-1)
	rows := 0
	for _, s := range sections {
		rows = max(rows, len(s.Bindings))
	}

	t := d.Theme()
	title := lipgloss.NewStyle().Foreground(t.SecondaryColor()).Bold(true)
	dim := lipgloss.NewStyle().Foreground(t.Dim(0.5))

	lines := []string{
		title.Render("NAVI KEYBINDINGS"),
		"",
		renderSectionTabs(sections, active, t.BackgroundColor(), t.PrimaryColor(), t.Dim(0.5)),
		renderSectionTable(sections[active], rows, t.PrimaryColor(), t.Dim(0.5)),
		dim.Render("←/→ switch section  [ESC] CLOSE"),
	}
	return d.dialog(lines)
}

func renderSectionTabs(sections []config.KeybindingSection, activeIdx int, activeFg, activeBg, idleFg color.Color) string {
	tabs := make([]string, 0, len(sections))
	for i, s := range sections {
		style := lipgloss.NewStyle().Foreground(idleFg).Padding(0, 1)
		if i == activeIdx {
			style = lipgloss.NewStyle().
				Bold(true).
				Foreground(activeFg).
				Background(activeBg).
				Padding(0, 1)
		}
		tabs = append(tabs, style.Render(s.Title))
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, tabs...)
}

// renderSectionTable renders one section padded to a fixed row count so the
// overlay keeps its size when switching tabs.
func renderSectionTable(section config.KeybindingSection, fixedRows int, accent, border color.Color) string {
	rows := make([][]string, 0, fixedRows)
	for _, b := range section.Bindings {
		rows = append(rows, []string{b.Key, b.Description})
	}
	for len(rows) < fixedRows {
		rows = append(rows, []string{"", ""})
	}

	headerStyle := lipgloss.NewStyle().
		Bold(true).
		Foreground(accent).
		Padding(0, 1)
	cellStyle := lipgloss.NewStyle().Padding(0, 1)

	return table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(border)).
		Headers("Keys", "Action").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return headerStyle
			}
			if col == 0 {
				return cellStyle.Foreground(accent)
			}
			return cellStyle
		}).
		Render()
}
