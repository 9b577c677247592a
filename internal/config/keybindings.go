package config

import (
	"slices"
	"strings"
)

// Action names. Program actions follow the "open_<program>" pattern the
// session understands.
const (
	ActionOpenTerminal = "open_terminal"
	ActionOpenMemory   = "open_memory"
	ActionOpenNetwork  = "open_network"
	ActionOpenSystem   = "open_system"
	ActionOpenAudio    = "open_audio"
	ActionOpenWired    = "open_wired"

	ActionCloseWindow    = "close_window"
	ActionMinimizeWindow = "minimize_window"
	ActionNextWindow     = "next_window"

	ActionGlitch        = "glitch"
	ActionThemePicker   = "theme_picker"
	ActionTrailSettings = "trail_settings"
	ActionStartMenu     = "start_menu"
	ActionToggleHelp    = "toggle_help"
	ActionQuit          = "quit"
)

// ActionDescriptions maps every action to its help text.
var ActionDescriptions = map[string]string{
	ActionOpenTerminal:   "Open terminal",
	ActionOpenMemory:     "Open memory bank",
	ActionOpenNetwork:    "Open network scanner",
	ActionOpenSystem:     "Open system monitor",
	ActionOpenAudio:      "Open audio console",
	ActionOpenWired:      "Browse the wired",
	ActionCloseWindow:    "Close focused window",
	ActionMinimizeWindow: "Minimize focused window",
	ActionNextWindow:     "Cycle window focus",
	ActionGlitch:         "Glitch pulse",
	ActionThemePicker:    "Theme configuration",
	ActionTrailSettings:  "Trail settings",
	ActionStartMenu:      "Toggle start menu",
	ActionToggleHelp:     "Toggle help",
	ActionQuit:           "Quit",
}

// Keybinding represents a single keybinding entry
type Keybinding struct {
	Key         string
	Description string
}

// KeybindingSection represents a section of related keybindings
type KeybindingSection struct {
	Title    string
	Bindings []Keybinding
}

// ActionSections groups actions for the help overlay and `navi keybinds list`.
var ActionSections = []struct {
	Title   string
	Actions []string
}{
	{"Programs", []string{ActionOpenTerminal, ActionOpenWired, ActionOpenMemory, ActionOpenNetwork, ActionOpenSystem, ActionOpenAudio}},
	{"Windows", []string{ActionCloseWindow, ActionMinimizeWindow, ActionNextWindow}},
	{"System", []string{ActionGlitch, ActionThemePicker, ActionTrailSettings, ActionStartMenu, ActionToggleHelp, ActionQuit}},
}

// GetKeybindings returns all keybinding sections for the help overlay.
func GetKeybindings(registry *KeybindRegistry) []KeybindingSection {
	if registry == nil {
		registry = NewKeybindRegistry(DefaultConfig())
	}
	var sections []KeybindingSection
	for _, s := range ActionSections {
		section := KeybindingSection{Title: strings.ToUpper(s.Title)}
		for _, action := range s.Actions {
			if keys := registry.GetKeysForDisplay(action); keys != "" {
				section.Bindings = append(section.Bindings, Keybinding{keys, ActionDescriptions[action]})
			}
		}
		if len(section.Bindings) > 0 {
			sections = append(sections, section)
		}
	}
	return append(sections, KeybindingSection{
		Title: "MOUSE",
		Bindings: []Keybinding{
			{"Drag title bar", "Move window"},
			{"Drag ◢ corner", "Resize window"},
			{"Click taskbar button", "Focus / minimize / restore"},
			{"Click START", "Open start menu"},
		},
	})
}

// KeybindRegistry resolves keys to actions and back.
type KeybindRegistry struct {
	normalizer   *KeyNormalizer
	actionToKeys map[string][]string
	keyToAction  map[string]string
	conflicts    map[string][]string
}

// NewKeybindRegistry builds a registry from the keybindings in cfg. When a
// key is bound to more than one action the first action in sorted order wins
// and the clash is reported by Conflicts.
func NewKeybindRegistry(cfg *UserConfig) *KeybindRegistry {
	r := &KeybindRegistry{
		normalizer:   NewKeyNormalizer(),
		actionToKeys: make(map[string][]string),
		keyToAction:  make(map[string]string),
		conflicts:    make(map[string][]string),
	}

	all := cfg.AllKeybindings()
	actions := make([]string, 0, len(all))
	for action := range all {
		actions = append(actions, action)
	}
	slices.Sort(actions)

	for _, action := range actions {
		for _, key := range all[action] {
			canon := r.normalizer.Canonical(key)
			if canon == "" {
				continue
			}
			r.actionToKeys[action] = append(r.actionToKeys[action], canon)
			if owner, taken := r.keyToAction[canon]; taken && owner != action {
				r.conflicts[canon] = append(r.conflicts[canon], action)
				continue
			}
			r.keyToAction[canon] = action
		}
	}
	return r
}

// GetKeys returns the keys bound to action.
func (r *KeybindRegistry) GetKeys(action string) []string {
	return slices.Clone(r.actionToKeys[action])
}

// GetAction returns the action bound to key, or "" when unbound.
func (r *KeybindRegistry) GetAction(key string) string {
	for _, k := range r.normalizer.NormalizeKey(key) {
		if action, ok := r.keyToAction[k]; ok {
			return action
		}
	}
	return ""
}

// GetKeysForDisplay returns the keys for action formatted for humans.
func (r *KeybindRegistry) GetKeysForDisplay(action string) string {
	keys := r.actionToKeys[action]
	out := make([]string, len(keys))
	for i, k := range keys {
		out[i] = DisplayKey(k)
	}
	return strings.Join(out, ", ")
}

// Conflicts returns keys bound to several actions, with the actions that lost.
func (r *KeybindRegistry) Conflicts() map[string][]string {
	return r.conflicts
}

// DisplayKey turns "ctrl+shift+t" into "Ctrl+Shift+T".
func DisplayKey(key string) string {
	parts := strings.Split(key, "+")
	for i, p := range parts {
		switch {
		case len(p) == 1:
			parts[i] = strings.ToUpper(p)
		case isFunctionKey(p):
			parts[i] = strings.ToUpper(p)
		default:
			parts[i] = strings.ToUpper(p[:1]) + p[1:]
		}
	}
	return strings.Join(parts, "+")
}

func isFunctionKey(p string) bool {
	if len(p) < 2 || len(p) > 3 || p[0] != 'f' {
		return false
	}
	for _, c := range p[1:] {
		if c < '0' || c > '9' {
			return false
		}
	}
	return true
}

// KeyNormalizer maps the many spellings of a key to the form Bubble Tea
// reports in KeyPressMsg.String.
type KeyNormalizer struct {
	aliases   map[string]string
	modifiers map[string]int
}

// NewKeyNormalizer creates a normalizer with the default alias table.
func NewKeyNormalizer() *KeyNormalizer {
	return &KeyNormalizer{
		aliases: map[string]string{
			"return":  "enter",
			"escape":  "esc",
			"control": "ctrl",
			"opt":     "alt",
			"option":  "alt",
			"cmd":     "super",
			"command": "super",
			"win":     "super",
			"del":     "delete",
			"spc":     "space",
			" ":       "space",
		},
		modifiers: map[string]int{"ctrl": 0, "alt": 1, "shift": 2, "meta": 3, "hyper": 4, "super": 5},
	}
}

func (n *KeyNormalizer) split(key string) ([]string, string) {
	key = strings.ToLower(strings.TrimSpace(key))
	if key == "" {
		return nil, ""
	}
	// "ctrl++" binds the plus key itself.
	if strings.HasSuffix(key, "++") {
		mods := strings.Split(strings.TrimSuffix(key, "++"), "+")
		return mods, "+"
	}
	parts := strings.Split(key, "+")
	return parts[:len(parts)-1], parts[len(parts)-1]
}

// Canonical returns the single canonical form of key: aliases resolved and
// modifiers in ctrl, alt, shift, meta, hyper, super order. It returns "" for
// an empty key.
func (n *KeyNormalizer) Canonical(key string) string {
	mods, base := n.split(key)
	if base == "" {
		return ""
	}
	if a, ok := n.aliases[base]; ok {
		base = a
	}
	resolved := make([]string, 0, len(mods))
	for _, m := range mods {
		if a, ok := n.aliases[m]; ok {
			m = a
		}
		if !slices.Contains(resolved, m) {
			resolved = append(resolved, m)
		}
	}
	slices.SortStableFunc(resolved, func(a, b string) int {
		return n.rank(a) - n.rank(b)
	})
	return strings.Join(append(resolved, base), "+")
}

func (n *KeyNormalizer) rank(mod string) int {
	if r, ok := n.modifiers[mod]; ok {
		return r
	}
	return len(n.modifiers)
}

// NormalizeKey returns the spellings key may be matched under: the
// lowercased input followed by its canonical form.
func (n *KeyNormalizer) NormalizeKey(key string) []string {
	lower := strings.ToLower(strings.TrimSpace(key))
	if lower == "" {
		return nil
	}
	out := []string{lower}
	if canon := n.Canonical(key); canon != lower {
		out = append(out, canon)
	}
	return out
}

// ValidateKey reports whether key can be bound, with a reason when not.
func (n *KeyNormalizer) ValidateKey(key string) (bool, string) {
	mods, base := n.split(key)
	if base == "" {
		return false, "empty key"
	}
	for _, m := range mods {
		if a, ok := n.aliases[m]; ok {
			m = a
		}
		if _, ok := n.modifiers[m]; !ok {
			return false, "unknown modifier " + m
		}
	}
	return true, ""
}
