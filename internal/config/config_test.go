package config_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/Gaurav-Gosain/navi/internal/config"
	"github.com/google/go-cmp/cmp"
)

// =============================================================================
// Default Configuration Tests
// =============================================================================

func TestDefaultConfig(t *testing.T) {
	cfg := config.DefaultConfig()

	if cfg == nil {
		t.Fatal("DefaultConfig returned nil")
	}
	if cfg.Appearance.BorderStyle == "" {
		t.Error("Expected default border style to be set")
	}
	if cfg.BootDuration() != config.DefaultBootDuration {
		t.Errorf("BootDuration = %v, want %v", cfg.BootDuration(), config.DefaultBootDuration)
	}
}

func TestDefaultKeybindings(t *testing.T) {
	cfg := config.DefaultConfig()

	requiredActions := []string{
		config.ActionOpenTerminal,
		config.ActionOpenMemory,
		config.ActionOpenNetwork,
		config.ActionOpenSystem,
		config.ActionOpenAudio,
		config.ActionOpenWired,
		config.ActionGlitch,
		config.ActionQuit,
	}

	all := cfg.AllKeybindings()
	for _, action := range requiredActions {
		keys, ok := all[action]
		if !ok {
			t.Errorf("Expected %s keybinding to exist", action)
			continue
		}
		if len(keys) == 0 {
			t.Errorf("Expected %s to have at least one key bound", action)
		}
	}
}

func TestDefaultKeybindingsHaveNoConflicts(t *testing.T) {
	registry := config.NewKeybindRegistry(config.DefaultConfig())
	if c := registry.Conflicts(); len(c) != 0 {
		t.Errorf("default keybindings conflict: %v", c)
	}
}

// =============================================================================
// User Config File Tests
// =============================================================================

func TestLoadUserConfigCreatesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "navi", "config.toml")

	cfg, err := config.LoadUserConfigFrom(path)
	if err != nil {
		t.Fatalf("LoadUserConfigFrom: %v", err)
	}
	if diff := cmp.Diff(config.DefaultConfig(), cfg); diff != "" {
		t.Errorf("fresh config (-want +got):\n%s", diff)
	}
	if _, err := os.Stat(path); err != nil {
		t.Errorf("config file not written: %v", err)
	}

	again, err := config.LoadUserConfigFrom(path)
	if err != nil {
		t.Fatalf("reload: %v", err)
	}
	if diff := cmp.Diff(cfg, again); diff != "" {
		t.Errorf("reloaded config (-want +got):\n%s", diff)
	}
}

func TestLoadUserConfigMergesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	data := `
[keybindings.programs]
open_terminal = ["ctrl+alt+t"]

[appearance]
border_style = "zigzag"
ascii_only = true

[session]
boot_duration = "1500ms"
`
	if err := os.WriteFile(path, []byte(data), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := config.LoadUserConfigFrom(path)
	if err != nil {
		t.Fatalf("LoadUserConfigFrom: %v", err)
	}
	if diff := cmp.Diff([]string{"ctrl+alt+t"}, cfg.Keybindings.Programs[config.ActionOpenTerminal]); diff != "" {
		t.Errorf("custom binding (-want +got):\n%s", diff)
	}
	if len(cfg.Keybindings.Programs[config.ActionOpenMemory]) == 0 {
		t.Error("missing action did not fall back to its default keys")
	}
	if len(cfg.Keybindings.System[config.ActionQuit]) == 0 {
		t.Error("missing section did not fall back to defaults")
	}
	if cfg.Appearance.BorderStyle != "rounded" {
		t.Errorf("invalid border style kept: %q", cfg.Appearance.BorderStyle)
	}
	if !cfg.Appearance.ASCIIOnly {
		t.Error("ascii_only not read")
	}
	if cfg.BootDuration() != 1500*time.Millisecond {
		t.Errorf("BootDuration = %v", cfg.BootDuration())
	}
}

func TestLoadUserConfigRejectsBadTOML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(path, []byte("[keybindings\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := config.LoadUserConfigFrom(path); err == nil {
		t.Error("expected a parse error")
	}
}

func TestBootDurationFallback(t *testing.T) {
	cfg := config.DefaultConfig()
	for _, v := range []string{"soon", "-1s", ""} {
		cfg.Session.BootDuration = v
		if got := cfg.BootDuration(); got != config.DefaultBootDuration {
			t.Errorf("BootDuration(%q) = %v, want default", v, got)
		}
	}
}

func TestApplyOverrides(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.Audio.Bell = true
	config.ApplyOverrides(cfg, config.Overrides{
		BorderStyle:  "double",
		BootDuration: time.Second,
		NoEffects:    true,
		NoBell:       true,
	})

	if cfg.Appearance.BorderStyle != "double" {
		t.Errorf("border = %q", cfg.Appearance.BorderStyle)
	}
	if cfg.BootDuration() != time.Second {
		t.Errorf("boot = %v", cfg.BootDuration())
	}
	if !cfg.Appearance.NoEffects || cfg.Audio.Bell {
		t.Errorf("flags not applied: %+v %+v", cfg.Appearance, cfg.Audio)
	}

	config.ApplyOverrides(cfg, config.Overrides{BorderStyle: "wavy"})
	if cfg.Appearance.BorderStyle != "double" {
		t.Error("invalid override replaced the border style")
	}
}

// =============================================================================
// KeybindRegistry Tests
// =============================================================================

func TestKeybindRegistry_GetKeys(t *testing.T) {
	registry := config.NewKeybindRegistry(config.DefaultConfig())

	keys := registry.GetKeys(config.ActionOpenTerminal)
	if diff := cmp.Diff([]string{"ctrl+shift+t", "alt+t"}, keys); diff != "" {
		t.Errorf("open_terminal keys (-want +got):\n%s", diff)
	}
}

func TestKeybindRegistry_GetAction(t *testing.T) {
	registry := config.NewKeybindRegistry(config.DefaultConfig())

	tests := []struct {
		key  string
		want string
	}{
		{"ctrl+shift+t", config.ActionOpenTerminal},
		{"shift+ctrl+t", config.ActionOpenTerminal},
		{"Alt+W", config.ActionOpenWired},
		{"opt+g", config.ActionGlitch},
		{"ctrl+q", config.ActionQuit},
		{"f1", config.ActionToggleHelp},
		{"ctrl+shift+alt+super+hyper+x", ""},
		{"t", ""},
	}
	for _, tc := range tests {
		t.Run(tc.key, func(t *testing.T) {
			if got := registry.GetAction(tc.key); got != tc.want {
				t.Errorf("GetAction(%q) = %q, want %q", tc.key, got, tc.want)
			}
		})
	}
}

func TestKeybindRegistry_GetKeysForDisplay(t *testing.T) {
	registry := config.NewKeybindRegistry(config.DefaultConfig())

	if got := registry.GetKeysForDisplay(config.ActionOpenTerminal); got != "Ctrl+Shift+T, Alt+T" {
		t.Errorf("display = %q", got)
	}
	if got := registry.GetKeysForDisplay(config.ActionToggleHelp); got != "F1" {
		t.Errorf("display = %q", got)
	}
	if got := registry.GetKeysForDisplay("nonexistent_action"); got != "" {
		t.Errorf("display for unknown action = %q", got)
	}
}

func TestKeybindRegistry_Conflicts(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.Keybindings.Windows[config.ActionCloseWindow] = []string{"alt+t"}

	registry := config.NewKeybindRegistry(cfg)
	if len(registry.Conflicts()) != 1 {
		t.Fatalf("conflicts = %v, want one", registry.Conflicts())
	}
	// close_window sorts before open_terminal and keeps the key.
	if got := registry.GetAction("alt+t"); got != config.ActionCloseWindow {
		t.Errorf("GetAction(alt+t) = %q", got)
	}
}

// =============================================================================
// Key Normalizer Tests
// =============================================================================

func TestKeyNormalizer(t *testing.T) {
	normalizer := config.NewKeyNormalizer()

	tests := []struct {
		input    string
		expected string
	}{
		{"ctrl+a", "ctrl+a"},
		{"Ctrl+A", "ctrl+a"},
		{"CTRL+A", "ctrl+a"},
		{"return", "enter"},
		{"escape", "esc"},
		{"shift+alt+ctrl+x", "ctrl+alt+shift+x"},
		{"cmd+k", "super+k"},
		{"ctrl++", "ctrl++"},
	}

	for _, tc := range tests {
		t.Run(tc.input, func(t *testing.T) {
			got := normalizer.NormalizeKey(tc.input)
			if len(got) == 0 {
				t.Fatalf("NormalizeKey(%q) returned empty slice", tc.input)
			}
			found := false
			for _, k := range got {
				if k == tc.expected {
					found = true
					break
				}
			}
			if !found {
				t.Errorf("NormalizeKey(%q) = %v, want to contain %q", tc.input, got, tc.expected)
			}
		})
	}
}

func TestKeyNormalizer_ValidateKey(t *testing.T) {
	normalizer := config.NewKeyNormalizer()

	tests := []struct {
		input   string
		isValid bool
	}{
		{"ctrl+a", true},
		{"n", true},
		{"enter", true},
		{"option+tab", true},
		{"f1", true},
		{"", false},
		{"turbo+x", false},
	}

	for _, tc := range tests {
		t.Run(tc.input, func(t *testing.T) {
			valid, _ := normalizer.ValidateKey(tc.input)
			if valid != tc.isValid {
				t.Errorf("ValidateKey(%q) = %v, want %v", tc.input, valid, tc.isValid)
			}
		})
	}
}

// =============================================================================
// Help and Descriptions
// =============================================================================

func TestActionDescriptions(t *testing.T) {
	for _, section := range config.ActionSections {
		for _, action := range section.Actions {
			if config.ActionDescriptions[action] == "" {
				t.Errorf("Expected description for action %q", action)
			}
		}
	}
}

func TestGetKeybindings(t *testing.T) {
	sections := config.GetKeybindings(nil)
	if len(sections) != len(config.ActionSections)+1 {
		t.Fatalf("sections = %d", len(sections))
	}
	if sections[0].Title != "PROGRAMS" || len(sections[0].Bindings) != 6 {
		t.Errorf("first section = %+v", sections[0])
	}
}

func TestEffectDurations(t *testing.T) {
	config.EffectsEnabled = true
	if config.GetGlitchPulseDuration() == 0 || config.GetSwitchPulseDuration() == 0 {
		t.Error("Expected non-zero pulse durations when effects are enabled")
	}
	if config.GetSwitchPulseDuration() >= config.GetGlitchPulseDuration() {
		t.Error("Switch pulse should be shorter than the glitch pulse")
	}

	config.EffectsEnabled = false
	if config.GetGlitchPulseDuration() != 0 || config.GetSwitchPulseDuration() != 0 {
		t.Error("Expected zero durations when effects are disabled")
	}
	config.EffectsEnabled = true
}

func TestCellGeometry(t *testing.T) {
	g := config.CellGeometry()
	if g.MinSize.Width > g.DefaultSize.Width || g.MinSize.Height > g.DefaultSize.Height {
		t.Errorf("default size %+v below floor %+v", g.DefaultSize, g.MinSize)
	}
	if g.InitialZ >= config.ZIndexTrail {
		t.Error("window stacking starts above the overlay layers")
	}
}

// =============================================================================
// Benchmarks
// =============================================================================

func BenchmarkKeybindRegistry_GetAction(b *testing.B) {
	registry := config.NewKeybindRegistry(config.DefaultConfig())

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_ = registry.GetAction("alt+t")
	}
}

func BenchmarkNormalizeKey(b *testing.B) {
	normalizer := config.NewKeyNormalizer()
	keys := []string{"ctrl+a", "Ctrl+Shift+B", "alt+1", "return"}

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_ = normalizer.NormalizeKey(keys[i%len(keys)])
	}
}
