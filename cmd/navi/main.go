// Package main implements navi, a Copland-style desktop that runs in the
// terminal: a login gate, a boot screen and a desktop of simulated programs,
// served locally, over SSH or in the browser.
package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/charmbracelet/fang"
	"github.com/spf13/cobra"
)

// Version information (set by goreleaser)
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
	builtBy = "unknown"
)

// Global flags
var (
	debugMode    bool
	cpuProfile   string
	borderStyle  string
	bootDuration time.Duration
	asciiOnly    bool
	noEffects    bool
	bell         bool
	noBell       bool
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "navi",
		Short: "Copland OS desktop in your terminal",
		Long: `navi - Copland OS Enterprise

A desktop simulation for the terminal. Log in, watch it boot, then open
program windows, drag them around, tune the colors and trail the mouse.
Any non-empty credentials are accepted.`,
		Example: `  # Run navi
  navi

  # Skip most of the boot screen
  navi --boot-duration 500ms

  # Serve navi over SSH
  navi ssh --port 2222

  # Serve navi in the browser
  navi web --port 7681

  # Change the theme from the command line
  navi theme set dracula`,
		Version: version,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runLocal()
		},
		SilenceUsage: true,
	}

	flags := rootCmd.PersistentFlags()
	flags.BoolVar(&debugMode, "debug", false, "Enable debug logging")
	flags.StringVar(&cpuProfile, "cpuprofile", "", "Write CPU profile to file")
	flags.StringVar(&borderStyle, "border-style", "", "Window border style: rounded, normal, thick, double, hidden")
	flags.DurationVar(&bootDuration, "boot-duration", 0, "How long the boot screen lasts (e.g. 3s)")
	flags.BoolVar(&asciiOnly, "ascii-only", false, "Use ASCII characters only")
	flags.BoolVar(&noEffects, "no-effects", false, "Disable the trail, glitch and particle effects")
	flags.BoolVar(&bell, "bell", false, "Ring the terminal bell for audio cues")
	flags.BoolVar(&noBell, "no-bell", false, "Never ring the terminal bell")
	rootCmd.MarkFlagsMutuallyExclusive("bell", "no-bell")

	// SSH command variables
	var sshPort, sshHost, sshKeyPath string

	sshCmd := &cobra.Command{
		Use:   "ssh",
		Short: "Run navi as SSH server",
		Long: `Run navi as an SSH server

Every connection gets its own desktop. Theme and trail changes made by a
visitor last for that connection only. The server will generate a host key
automatically if not specified.`,
		Example: `  # Start SSH server on default port
  navi ssh

  # Start on custom port
  navi ssh --port 2222

  # Specify custom host key
  navi ssh --key-path /path/to/host_key`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSSHServer(sshHost, sshPort, sshKeyPath)
		},
	}

	sshCmd.Flags().StringVar(&sshPort, "port", "2222", "SSH server port")
	sshCmd.Flags().StringVar(&sshHost, "host", "localhost", "SSH server host")
	sshCmd.Flags().StringVar(&sshKeyPath, "key-path", "", "Path to SSH host key (auto-generated if not specified)")

	// Web command variables
	var (
		webPort, webHost string
		webReadOnly      bool
		webMaxConns      int
	)

	webCmd := &cobra.Command{
		Use:   "web",
		Short: "Serve navi in the browser",
		Long: `Serve navi in the browser

Powered by sip (github.com/Gaurav-Gosain/sip). Every browser tab gets its
own desktop.`,
		Example: `  # Start web server on default port (7681)
  navi web

  # Bind to all interfaces for remote access
  navi web --host 0.0.0.0

  # Start in read-only mode (view only)
  navi web --read-only`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runWebServer(webHost, webPort, webReadOnly, webMaxConns)
		},
	}

	webCmd.Flags().StringVar(&webPort, "port", "7681", "Web server port")
	webCmd.Flags().StringVar(&webHost, "host", "localhost", "Web server host")
	webCmd.Flags().BoolVar(&webReadOnly, "read-only", false, "Disable input from clients (view only)")
	webCmd.Flags().IntVar(&webMaxConns, "max-connections", 0, "Maximum concurrent connections (0 = unlimited)")

	// Add subcommands to root
	rootCmd.AddCommand(sshCmd, webCmd, newConfigCmd(), newKeybindsCmd(), newThemeCmd(), newTrailCmd())

	// Execute with fang
	if err := fang.Execute(
		context.Background(),
		rootCmd,
		fang.WithVersion(fmt.Sprintf("%s\nCommit: %s\nBuilt: %s\nBy: %s", version, commit, date, builtBy)),
	); err != nil {
		os.Exit(1)
	}
}
