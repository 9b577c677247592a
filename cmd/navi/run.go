package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"runtime/pprof"
	"syscall"

	tea "charm.land/bubbletea/v2"
	"charm.land/log/v2"
	"github.com/adrg/xdg"
	"golang.org/x/term"

	"github.com/Gaurav-Gosain/navi/internal/app"
	"github.com/Gaurav-Gosain/navi/internal/audio"
	"github.com/Gaurav-Gosain/navi/internal/config"
	"github.com/Gaurav-Gosain/navi/internal/input"
	"github.com/Gaurav-Gosain/navi/internal/kv"
	"github.com/Gaurav-Gosain/navi/internal/server"
)

// loadConfig reads the user config and folds the command line flags in.
func loadConfig() *config.UserConfig {
	userConfig, err := config.LoadUserConfig()
	if err != nil {
		log.Warn("failed to load config, using defaults", "err", err)
		userConfig = config.DefaultConfig()
	}
	config.ApplyOverrides(userConfig, config.Overrides{
		BorderStyle:  borderStyle,
		BootDuration: bootDuration,
		ASCIIOnly:    asciiOnly,
		NoEffects:    noEffects,
		Bell:         bell,
		NoBell:       noBell,
	})
	return userConfig
}

// setupLocalLogging keeps log output off the alt screen: debug logs go to
// xdg.StateHome/navi/navi.log, everything else is discarded.
func setupLocalLogging() (io.Closer, error) {
	if !debugMode {
		log.SetOutput(io.Discard)
		return nil, nil
	}
	path, err := xdg.StateFile(filepath.Join("navi", "navi.log"))
	if err != nil {
		return nil, fmt.Errorf("could not resolve log path: %w", err)
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, fmt.Errorf("could not open log file: %w", err)
	}
	log.SetOutput(f)
	log.SetLevel(log.DebugLevel)
	log.SetReportTimestamp(true)
	return f, nil
}

// setupServerLogging logs to stderr, at debug level with --debug.
func setupServerLogging() {
	log.SetOutput(os.Stderr)
	log.SetReportTimestamp(true)
	if debugMode {
		log.SetLevel(log.DebugLevel)
	}
}

func runLocal() error {
	if !term.IsTerminal(int(os.Stdout.Fd())) || !term.IsTerminal(int(os.Stdin.Fd())) {
		return errors.New("navi needs an interactive terminal; try `navi ssh` or `navi web` to serve it")
	}

	logFile, err := setupLocalLogging()
	if err != nil {
		return err
	}
	if logFile != nil {
		defer func() { _ = logFile.Close() }()
	}

	userConfig := loadConfig()
	if debugMode {
		configPath, _ := config.GetConfigPath()
		log.Debug("configuration", "path", configPath)
	}

	if cpuProfile != "" {
		f, err := os.Create(cpuProfile)
		if err != nil {
			return fmt.Errorf("could not create CPU profile: %w", err)
		}
		defer func() {
			if closeErr := f.Close(); closeErr != nil {
				log.Warn("failed to close CPU profile file", "err", closeErr)
			}
		}()

		if err := pprof.StartCPUProfile(f); err != nil {
			return fmt.Errorf("could not start CPU profile: %w", err)
		}
		defer pprof.StopCPUProfile()
	}

	// Theme and trail settings persist between runs and are shared with the
	// `navi theme` and `navi trail` commands.
	var store kv.Store
	fileStore, err := kv.Open()
	if err != nil {
		log.Warn("settings will not persist", "err", err)
		store = kv.NewMemStore()
	} else {
		defer func() { _ = fileStore.Close() }()
		store = fileStore
	}

	var emitter audio.Emitter = audio.Nop{}
	if userConfig.Audio.Bell {
		emitter = audio.NewBell(os.Stdout)
	}

	app.SetInputHandler(input.HandleInput)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	desktop := app.New(app.Options{
		Config:  userConfig,
		Store:   store,
		Emitter: emitter,
		Context: ctx,
	})

	p := tea.NewProgram(
		desktop,
		tea.WithFPS(config.NormalFPS),
		tea.WithoutSignalHandler(),
		tea.WithFilter(app.FilterMouseMotion),
	)

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(sigChan)
	go func() {
		select {
		case <-sigChan:
			p.Send(tea.QuitMsg{})
		case <-ctx.Done():
		}
	}()

	_, err = p.Run()
	desktop.Close()
	if err != nil {
		return fmt.Errorf("program error: %w", err)
	}
	return nil
}

// serverContext is cancelled on SIGINT or SIGTERM.
func serverContext() (context.Context, context.CancelFunc) {
	return signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
}

func runSSHServer(sshHost, sshPort, sshKeyPath string) error {
	setupServerLogging()
	ctx, cancel := serverContext()
	defer cancel()

	cfg := &server.SSHServerConfig{
		Host:    sshHost,
		Port:    sshPort,
		KeyPath: sshKeyPath,
		Config:  loadConfig(),
	}
	if err := server.StartSSHServer(ctx, cfg); err != nil {
		return fmt.Errorf("SSH server error: %w", err)
	}
	return nil
}

func runWebServer(webHost, webPort string, readOnly bool, maxConnections int) error {
	setupServerLogging()
	ctx, cancel := serverContext()
	defer cancel()

	cfg := &server.WebServerConfig{
		Host:           webHost,
		Port:           webPort,
		ReadOnly:       readOnly,
		MaxConnections: maxConnections,
		Debug:          debugMode,
		Config:         loadConfig(),
	}
	if err := server.StartWebServer(ctx, cfg); err != nil {
		return fmt.Errorf("web server error: %w", err)
	}
	return nil
}
