package config

import (
	"errors"
	"fmt"
	"io/fs"
	"maps"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/adrg/xdg"
	"github.com/pelletier/go-toml/v2"
)

// UserConfig is the user editable configuration stored as TOML.
type UserConfig struct {
	Keybindings KeybindingsConfig `toml:"keybindings"`
	Appearance  AppearanceConfig  `toml:"appearance"`
	Session     SessionConfig     `toml:"session"`
	Audio       AudioConfig       `toml:"audio"`
}

// KeybindingsConfig maps actions to the keys that trigger them, grouped the
// way the help overlay shows them.
type KeybindingsConfig struct {
	Programs map[string][]string `toml:"programs"`
	Windows  map[string][]string `toml:"windows"`
	System   map[string][]string `toml:"system"`
}

// AppearanceConfig holds visual settings.
type AppearanceConfig struct {
	// BorderStyle is one of rounded, normal, thick, double, hidden.
	BorderStyle string `toml:"border_style"`
	HideClock   bool   `toml:"hide_clock"`
	HideStats   bool   `toml:"hide_stats"`
	ASCIIOnly   bool   `toml:"ascii_only"`
	NoEffects   bool   `toml:"no_effects"`
}

// SessionConfig holds login and boot settings.
type SessionConfig struct {
	// BootDuration is a Go duration string such as "3s".
	BootDuration string `toml:"boot_duration"`
}

// AudioConfig holds the audio cue settings.
type AudioConfig struct {
	// Bell rings the terminal bell for boot, select and error cues.
	Bell bool `toml:"bell"`
}

// BorderStyles lists the accepted border style names.
var BorderStyles = []string{"rounded", "normal", "thick", "double", "hidden"}

// DefaultConfig returns the built-in configuration.
func DefaultConfig() *UserConfig {
	return &UserConfig{
		Keybindings: KeybindingsConfig{
			Programs: map[string][]string{
				ActionOpenTerminal: {"ctrl+shift+t", "alt+t"},
				ActionOpenMemory:   {"ctrl+shift+m", "alt+m"},
				ActionOpenNetwork:  {"ctrl+shift+n", "alt+n"},
				ActionOpenSystem:   {"ctrl+shift+s", "alt+s"},
				ActionOpenAudio:    {"ctrl+shift+a", "alt+a"},
				ActionOpenWired:    {"ctrl+shift+w", "alt+w"},
			},
			Windows: map[string][]string{
				ActionCloseWindow:    {"alt+x"},
				ActionMinimizeWindow: {"alt+z"},
				ActionNextWindow:     {"alt+tab"},
			},
			System: map[string][]string{
				ActionGlitch:        {"ctrl+shift+g", "alt+g"},
				ActionThemePicker:   {"alt+c"},
				ActionTrailSettings: {"alt+p"},
				ActionStartMenu:     {"alt+o"},
				ActionToggleHelp:    {"f1"},
				ActionQuit:          {"ctrl+q"},
			},
		},
		Appearance: AppearanceConfig{
			BorderStyle: "rounded",
		},
		Session: SessionConfig{
			BootDuration: DefaultBootDuration.String(),
		},
		Audio: AudioConfig{
			Bell: false,
		},
	}
}

// GetConfigPath returns the config file location, creating its directory.
func GetConfigPath() (string, error) {
	path, err := xdg.ConfigFile(filepath.Join("navi", "config.toml"))
	if err != nil {
		return "", fmt.Errorf("resolve config path: %w", err)
	}
	return path, nil
}

// LoadUserConfig reads the config file, writing the defaults there first if
// it does not exist yet.
func LoadUserConfig() (*UserConfig, error) {
	path, err := GetConfigPath()
	if err != nil {
		return nil, err
	}
	return LoadUserConfigFrom(path)
}

// LoadUserConfigFrom reads the config file at path. Actions missing from the
// file keep their default keys.
func LoadUserConfigFrom(path string) (*UserConfig, error) {
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		cfg := DefaultConfig()
		if err := SaveUserConfig(cfg, path); err != nil {
			return cfg, err
		}
		return cfg, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}

	var cfg UserConfig
	if err := toml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	cfg.fillDefaults()
	return &cfg, nil
}

func (c *UserConfig) fillDefaults() {
	def := DefaultConfig()
	merge := func(dst *map[string][]string, src map[string][]string) {
		if *dst == nil {
			*dst = make(map[string][]string, len(src))
		}
		for action, keys := range src {
			if _, ok := (*dst)[action]; !ok {
				(*dst)[action] = keys
			}
		}
	}
	merge(&c.Keybindings.Programs, def.Keybindings.Programs)
	merge(&c.Keybindings.Windows, def.Keybindings.Windows)
	merge(&c.Keybindings.System, def.Keybindings.System)

	if !validBorderStyle(c.Appearance.BorderStyle) {
		c.Appearance.BorderStyle = def.Appearance.BorderStyle
	}
	if c.Session.BootDuration == "" {
		c.Session.BootDuration = def.Session.BootDuration
	}
}

func validBorderStyle(s string) bool {
	for _, b := range BorderStyles {
		if s == b {
			return true
		}
	}
	return false
}

// SaveUserConfig writes cfg to path with an explanatory header.
func SaveUserConfig(cfg *UserConfig, path string) error {
	data, err := toml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("marshal config: %w", err)
	}

	var sb strings.Builder
	sb.WriteString("# navi configuration file\n")
	sb.WriteString("# Keybindings map an action to a list of keys, e.g.\n")
	sb.WriteString("#   open_terminal = [\"ctrl+shift+t\", \"alt+t\"]\n")
	sb.WriteString("# Run `navi keybinds list` to see every action.\n\n")
	sb.Write(data)

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create config dir: %w", err)
	}
	if err := os.WriteFile(path, []byte(sb.String()), 0o644); err != nil {
		return fmt.Errorf("write config file: %w", err)
	}
	return nil
}

// BootDuration returns the configured boot duration. An unparseable or
// negative value yields the default.
func (c *UserConfig) BootDuration() time.Duration {
	d, err := time.ParseDuration(c.Session.BootDuration)
	if err != nil || d < 0 {
		return DefaultBootDuration
	}
	return d
}

// AllKeybindings returns every action binding across the sections.
func (c *UserConfig) AllKeybindings() map[string][]string {
	all := make(map[string][]string)
	maps.Copy(all, c.Keybindings.Programs)
	maps.Copy(all, c.Keybindings.Windows)
	maps.Copy(all, c.Keybindings.System)
	return all
}

// Overrides carries command line flags that win over the config file. Zero
// values leave the file setting alone.
type Overrides struct {
	BorderStyle  string
	BootDuration time.Duration
	ASCIIOnly    bool
	NoEffects    bool
	Bell         bool
	NoBell       bool
}

// ApplyOverrides folds command line flags into cfg.
func ApplyOverrides(cfg *UserConfig, o Overrides) {
	if o.BorderStyle != "" && validBorderStyle(o.BorderStyle) {
		cfg.Appearance.BorderStyle = o.BorderStyle
	}
	if o.BootDuration > 0 {
		cfg.Session.BootDuration = o.BootDuration.String()
	}
	if o.ASCIIOnly {
		cfg.Appearance.ASCIIOnly = true
	}
	if o.NoEffects {
		cfg.Appearance.NoEffects = true
	}
	if o.Bell {
		cfg.Audio.Bell = true
	}
	if o.NoBell {
		cfg.Audio.Bell = false
	}
}
