package main

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"strings"

	"charm.land/lipgloss/v2"
	"charm.land/lipgloss/v2/table"
	"github.com/spf13/cobra"

	"github.com/Gaurav-Gosain/navi/internal/config"
)

func newConfigCmd() *cobra.Command {
	configCmd := &cobra.Command{
		Use:   "config",
		Short: "Work with the navi config file",
		Long: `Work with the navi config file

The file is TOML and lives under the XDG config directory.`,
	}

	configPathCmd := &cobra.Command{
		Use:   "path",
		Short: "Show where the config file lives",
		RunE: func(cmd *cobra.Command, args []string) error {
			path, err := configPath()
			if err != nil {
				return err
			}
			_, err = fmt.Fprintln(cmd.OutOrStdout(), path)
			return err
		},
	}

	configEditCmd := &cobra.Command{
		Use:   "edit",
		Short: "Open the config file in an editor",
		Long: `Open the config file in an editor

$VISUAL wins over $EDITOR. With neither set, the first of vim, vi, nano
and emacs found on PATH is used. A missing file is written with the
default settings first.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			path, err := configPath()
			if err != nil {
				return err
			}
			return editConfig(path, cmd.OutOrStdout())
		},
	}

	var yes bool
	configResetCmd := &cobra.Command{
		Use:   "reset",
		Short: "Replace the config file with the default settings",
		Long: `Replace the config file with the default settings

An existing file is only overwritten after you confirm, or with --yes.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			path, err := configPath()
			if err != nil {
				return err
			}
			return resetConfig(path, yes, cmd.InOrStdin(), cmd.OutOrStdout())
		},
	}
	configResetCmd.Flags().BoolVarP(&yes, "yes", "y", false, "Overwrite without asking")

	configCmd.AddCommand(configPathCmd, configEditCmd, configResetCmd)
	return configCmd
}

func newKeybindsCmd() *cobra.Command {
	keybindsCmd := &cobra.Command{
		Use:     "keybinds",
		Aliases: []string{"keys", "kb"},
		Short:   "Inspect key bindings",
	}

	keybindsListCmd := &cobra.Command{
		Use:   "list",
		Short: "Print the bindings in effect, grouped by section",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.LoadUserConfig()
			if err != nil {
				fmt.Fprintf(cmd.ErrOrStderr(), "config unreadable (%v), showing the default bindings\n", err)
				cfg = config.DefaultConfig()
			}
			return printKeybindings(cmd.OutOrStdout(), config.NewKeybindRegistry(cfg))
		},
	}

	keybindsCmd.AddCommand(keybindsListCmd)
	return keybindsCmd
}

func configPath() (string, error) {
	path, err := config.GetConfigPath()
	if err != nil {
		return "", fmt.Errorf("locate config file: %w", err)
	}
	return path, nil
}

// editorCommand picks the program `navi config edit` launches.
func editorCommand() (string, error) {
	for _, env := range []string{"VISUAL", "EDITOR"} {
		if v := strings.TrimSpace(os.Getenv(env)); v != "" {
			return v, nil
		}
	}
	for _, name := range []string{"vim", "vi", "nano", "emacs"} {
		if _, err := exec.LookPath(name); err == nil {
			return name, nil
		}
	}
	return "", errors.New("no editor on PATH; set $VISUAL or $EDITOR")
}

func editConfig(path string, out io.Writer) error {
	if _, err := os.Stat(path); errors.Is(err, os.ErrNotExist) {
		fmt.Fprintf(out, "writing default config to %s\n", path)
		if _, err := config.LoadUserConfigFrom(path); err != nil {
			return fmt.Errorf("write default config: %w", err)
		}
	}

	editor, err := editorCommand()
	if err != nil {
		return err
	}
	c := exec.Command(editor, path)
	c.Stdin, c.Stdout, c.Stderr = os.Stdin, os.Stdout, os.Stderr
	if err := c.Run(); err != nil {
		return fmt.Errorf("run %s: %w", editor, err)
	}
	return nil
}

// resetConfig writes the default settings to path. An existing file needs a
// "y" or "yes" answer on in unless yes is set.
func resetConfig(path string, yes bool, in io.Reader, out io.Writer) error {
	if _, err := os.Stat(path); err == nil && !yes {
		fmt.Fprintf(out, "Overwrite %s with the default settings? [y/N] ", path)
		answer, _ := bufio.NewReader(in).ReadString('\n')
		switch strings.ToLower(strings.TrimSpace(answer)) {
		case "y", "yes":
		default:
			fmt.Fprintln(out, "left unchanged")
			return nil
		}
	}

	if err := config.SaveUserConfig(config.DefaultConfig(), path); err != nil {
		return err
	}
	fmt.Fprintf(out, "default settings written to %s\n", path)
	return nil
}

func printKeybindings(w io.Writer, registry *config.KeybindRegistry) error {
	if _, err := io.WriteString(w, renderKeybindings(registry)); err != nil {
		return err
	}
	conflicts := registry.Conflicts()
	if len(conflicts) == 0 {
		return nil
	}
	warn := lipgloss.NewStyle().Foreground(lipgloss.Color("11"))
	for key, actions := range conflicts {
		line := fmt.Sprintf("%s is bound to %s; only the first takes effect", key, strings.Join(actions, " and "))
		fmt.Fprintln(w, warn.Render(line))
	}
	return nil
}

// renderKeybindings draws a titled table for every binding section.
func renderKeybindings(registry *config.KeybindRegistry) string {
	var (
		title  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("14"))
		header = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("12")).Padding(0, 1)
		cell   = lipgloss.NewStyle().Padding(0, 1)
		border = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
	)

	var sb strings.Builder
	for _, section := range config.GetKeybindings(registry) {
		if len(section.Bindings) == 0 {
			continue
		}
		t := table.New().
			Border(lipgloss.RoundedBorder()).
			BorderStyle(border).
			Headers("Keys", "Action").
			StyleFunc(func(row, col int) lipgloss.Style {
				if row == table.HeaderRow {
					return header
				}
				return cell
			})
		for _, b := range section.Bindings {
			t.Row(b.Key, b.Description)
		}
		fmt.Fprintf(&sb, "%s\n%s\n\n", title.Render(section.Title), t.Render())
	}
	return sb.String()
}
