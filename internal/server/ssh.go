// Package server runs navi desktops for remote visitors over SSH and the web.
// Every connection gets its own desktop backed by an in-memory store, so one
// visitor's theme and trail settings never leak into another's.
package server

import (
	"context"
	"errors"
	"fmt"
	"net"
	"os"
	"path/filepath"
	"sync"
	"time"

	tea "charm.land/bubbletea/v2"
	"charm.land/log/v2"
	"charm.land/wish/v2"
	"charm.land/wish/v2/activeterm"
	"charm.land/wish/v2/bubbletea"
	"charm.land/wish/v2/logging"
	"github.com/charmbracelet/ssh"

	"github.com/Gaurav-Gosain/navi/internal/app"
	"github.com/Gaurav-Gosain/navi/internal/audio"
	"github.com/Gaurav-Gosain/navi/internal/config"
	"github.com/Gaurav-Gosain/navi/internal/input"
	"github.com/Gaurav-Gosain/navi/internal/kv"
	"github.com/Gaurav-Gosain/navi/internal/wm"
)

// SSHServerConfig holds configuration for the SSH server.
type SSHServerConfig struct {
	Host    string
	Port    string
	KeyPath string
	// Config is shared by every session. Defaults to config.DefaultConfig.
	Config *config.UserConfig
}

// hostKeyPath returns the configured key path or ~/.ssh/navi_host_key.
func (c *SSHServerConfig) hostKeyPath() (string, error) {
	if c.KeyPath != "" {
		return c.KeyPath, nil
	}
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get user home directory: %w", err)
	}
	return filepath.Join(homeDir, ".ssh", "navi_host_key"), nil
}

// sshServer tracks the desktop of every live session so it can be closed
// once the session ends.
type sshServer struct {
	cfg *SSHServerConfig

	mu       sync.Mutex
	desktops map[string]*app.Desktop
}

// StartSSHServer initializes and runs the SSH server until ctx is done.
func StartSSHServer(ctx context.Context, cfg *SSHServerConfig) error {
	if cfg.Config == nil {
		cfg.Config = config.DefaultConfig()
	}
	hostKeyPath, err := cfg.hostKeyPath()
	if err != nil {
		return err
	}

	app.SetInputHandler(input.HandleInput)
	s := &sshServer{cfg: cfg, desktops: make(map[string]*app.Desktop)}

	// Middleware runs last to first: logging wraps everything and
	// bubbletea is innermost.
	server, err := wish.NewServer(
		wish.WithAddress(net.JoinHostPort(cfg.Host, cfg.Port)),
		wish.WithHostKeyPath(hostKeyPath),
		wish.WithMiddleware(
			bubbletea.Middleware(s.teaHandler),
			s.releaseMiddleware,
			activeterm.Middleware(),
			logging.Middleware(),
		),
	)
	if err != nil {
		return fmt.Errorf("failed to create SSH server: %w", err)
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info("starting SSH server", "addr", server.Addr)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, ssh.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	log.Info("shutting down SSH server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return server.Shutdown(shutdownCtx)
}

// teaHandler creates a navi desktop for each SSH session.
func (s *sshServer) teaHandler(sess ssh.Session) (tea.Model, []tea.ProgramOption) {
	pty, _, _ := sess.Pty()

	var emitter audio.Emitter = audio.Nop{}
	if s.cfg.Config.Audio.Bell {
		emitter = audio.NewBell(sess)
	}

	d := newDesktop(sess.Context(), s.cfg.Config, emitter, pty.Window.Width, pty.Window.Height)
	s.mu.Lock()
	s.desktops[sess.Context().SessionID()] = d
	s.mu.Unlock()

	log.Debug("ssh desktop created", "user", sess.User(), "remote", sess.RemoteAddr(), "size", fmt.Sprintf("%dx%d", pty.Window.Width, pty.Window.Height))
	return d, []tea.ProgramOption{
		tea.WithFPS(config.NormalFPS),
		tea.WithFilter(app.FilterMouseMotion),
	}
}

// releaseMiddleware closes the session's desktop after the program exits.
func (s *sshServer) releaseMiddleware(next ssh.Handler) ssh.Handler {
	return func(sess ssh.Session) {
		next(sess)
		id := sess.Context().SessionID()
		s.mu.Lock()
		d, ok := s.desktops[id]
		delete(s.desktops, id)
		live := len(s.desktops)
		s.mu.Unlock()
		if ok {
			d.Close()
			log.Debug("ssh desktop closed", "user", sess.User(), "live", live)
		}
	}
}

// newDesktop builds a desktop for one remote visitor.
func newDesktop(ctx context.Context, cfg *config.UserConfig, emitter audio.Emitter, width, height int) *app.Desktop {
	return app.New(app.Options{
		Config:   cfg,
		Store:    kv.NewMemStore(),
		Emitter:  emitter,
		Context:  ctx,
		Viewport: wm.Size{Width: width, Height: height},
	})
}
