package server

import (
	"context"
	"os"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"
	"charm.land/log/v2"
	"github.com/Gaurav-Gosain/sip"
	"github.com/charmbracelet/colorprofile"

	"github.com/Gaurav-Gosain/navi/internal/app"
	"github.com/Gaurav-Gosain/navi/internal/audio"
	"github.com/Gaurav-Gosain/navi/internal/config"
	"github.com/Gaurav-Gosain/navi/internal/input"
)

// WebServerConfig holds configuration for the browser server.
type WebServerConfig struct {
	Host           string
	Port           string
	ReadOnly       bool
	MaxConnections int
	Debug          bool
	// Config is shared by every session. Defaults to config.DefaultConfig.
	Config *config.UserConfig
}

// StartWebServer serves navi in the browser through sip until ctx is done.
func StartWebServer(ctx context.Context, cfg *WebServerConfig) error {
	if cfg.Config == nil {
		cfg.Config = config.DefaultConfig()
	}

	// Stdout is not a TTY here, so lipgloss would strip every color.
	lipgloss.Writer.Profile = colorprofile.TrueColor
	_ = os.Setenv("TERM", "xterm-256color")
	_ = os.Setenv("COLORTERM", "truecolor")

	app.SetInputHandler(input.HandleInput)

	sipConfig := sip.DefaultConfig()
	sipConfig.Host = cfg.Host
	sipConfig.Port = cfg.Port
	sipConfig.ReadOnly = cfg.ReadOnly
	sipConfig.MaxConnections = cfg.MaxConnections
	sipConfig.Debug = cfg.Debug

	log.Info("starting web server", "host", cfg.Host, "port", cfg.Port, "read_only", cfg.ReadOnly)
	server := sip.NewServer(sipConfig)
	return server.Serve(ctx, func(sess sip.Session) (tea.Model, []tea.ProgramOption) {
		pty := sess.Pty()
		d := newDesktop(ctx, cfg.Config, audio.Nop{}, pty.Width, pty.Height)
		log.Debug("web desktop created", "cols", pty.Width, "rows", pty.Height)
		return d, []tea.ProgramOption{
			tea.WithFPS(config.NormalFPS),
			tea.WithFilter(app.FilterMouseMotion),
			tea.WithColorProfile(colorprofile.TrueColor),
		}
	})
}
