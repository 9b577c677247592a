// Package app provides the navi desktop model: the login gate, the boot
// screen and the window desktop with its taskbar and overlays.
package app

import (
	"context"
	"math/rand/v2"
	"slices"
	"strings"
	"sync"
	"time"

	tea "charm.land/bubbletea/v2"
	"charm.land/log/v2"

	"github.com/Gaurav-Gosain/navi/internal/audio"
	"github.com/Gaurav-Gosain/navi/internal/bus"
	"github.com/Gaurav-Gosain/navi/internal/config"
	"github.com/Gaurav-Gosain/navi/internal/effects"
	"github.com/Gaurav-Gosain/navi/internal/kv"
	"github.com/Gaurav-Gosain/navi/internal/programs"
	"github.com/Gaurav-Gosain/navi/internal/session"
	"github.com/Gaurav-Gosain/navi/internal/theme"
	"github.com/Gaurav-Gosain/navi/internal/ticker"
	"github.com/Gaurav-Gosain/navi/internal/wm"
)

// Timer ids owned by the desktop itself. Panel timers are prefixed with
// their window id instead.
const (
	taskStats   = "desktop/stats"
	taskNoise   = "desktop/login-noise"
	taskBoot    = "desktop/boot"
	taskEffects = "desktop/effects"
	taskGlitch  = "desktop/glitch"
)

// Watcher is implemented by stores that can report writes made outside this
// desktop, such as kv.FileStore.
type Watcher interface {
	Watch(ctx context.Context, fn func(key string)) error
}

// storeFeed forwards watcher notifications to the update loop. Sends after
// close are dropped, so a late callback from the watcher goroutine is safe.
type storeFeed struct {
	mu     sync.Mutex
	closed bool
	ch     chan string
}

func newStoreFeed() *storeFeed {
	return &storeFeed{ch: make(chan string, 8)}
}

func (f *storeFeed) send(key string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.closed {
		return
	}
	select {
	case f.ch <- key:
	default:
	}
}

func (f *storeFeed) close() {
	f.mu.Lock()
	defer f.mu.Unlock()
	if !f.closed {
		f.closed = true
		close(f.ch)
	}
}

// Options configures a Desktop.
type Options struct {
	Config  *config.UserConfig
	Store   kv.Store
	Emitter audio.Emitter
	Bus     *bus.Bus
	Now     func() time.Time
	Rand    *rand.Rand
	// Context bounds the store watcher. Defaults to context.Background.
	Context context.Context
	// Viewport is the initial terminal size in cells.
	Viewport wm.Size
}

// Desktop is the top level Bubble Tea model.
type Desktop struct {
	Width  int
	Height int

	Config   *config.UserConfig
	Keybinds *config.KeybindRegistry
	Session  *session.Session
	Themes   *theme.Store
	Trails   *effects.TrailStore
	Bus      *bus.Bus
	Emitter  audio.Emitter

	Trail     *effects.Trail
	Particles *effects.Particles
	Glitch    *effects.Glitch

	Login LoginForm
	Stats HostStats

	// Overlays. At most one of Picker and TrailPanel is open at a time.
	StartMenuOpen bool
	MenuSelection int
	Picker        *ThemePicker
	TrailPanel    *TrailSettings
	ShowHelp      bool
	HelpSection   int

	// Pointer is the last reported mouse position.
	Pointer wm.Point

	panels map[string]programs.Panel
	env    programs.Env

	pending      []wm.Program
	pendingPulse float64
	pendingFor   time.Duration

	statsTask   *ticker.Task
	noiseTask   *ticker.Task
	bootTask    *ticker.Task
	effectsTask *ticker.Task
	loginNoise  string

	store       kv.Store
	storeEvents <-chan string
	storeFeed   *storeFeed
	ctx         context.Context
	cancel      context.CancelFunc
	unsubscribe []func()

	rng *rand.Rand
	now func() time.Time
}

// New creates a desktop at the login gate.
func New(opts Options) *Desktop {
	if opts.Config == nil {
		opts.Config = config.DefaultConfig()
	}
	if opts.Store == nil {
		opts.Store = kv.NewMemStore()
	}
	if opts.Emitter == nil {
		opts.Emitter = audio.Nop{}
	}
	if opts.Bus == nil {
		opts.Bus = bus.New()
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	if opts.Rand == nil {
		opts.Rand = rand.New(rand.NewPCG(uint64(time.Now().UnixNano()), 0x6465736b))
	}
	if opts.Context == nil {
		opts.Context = context.Background()
	}
	if opts.Viewport == (wm.Size{}) {
		opts.Viewport = wm.Size{Width: 80, Height: 24}
	}

	ctx, cancel := context.WithCancel(opts.Context)
	cfg := opts.Config
	trails := effects.OpenTrailStore(opts.Store, opts.Bus)

	d := &Desktop{
		Width:    opts.Viewport.Width,
		Height:   opts.Viewport.Height,
		Config:   cfg,
		Keybinds: config.NewKeybindRegistry(cfg),
		Session: session.New(session.Config{
			BootDuration: cfg.BootDuration(),
			Geometry:     config.CellGeometry(),
			Viewport:     desktopArea(opts.Viewport),
		}),
		Themes:      theme.Open(opts.Store, theme.WithBus(opts.Bus)),
		Trails:      trails,
		Bus:         opts.Bus,
		Emitter:     opts.Emitter,
		Trail:       effects.NewTrail(trails.Get(), opts.Bus),
		Glitch:      effects.NewGlitch(taskGlitch),
		panels:      make(map[string]programs.Panel),
		statsTask:   ticker.New(taskStats, config.HostStatsInterval),
		noiseTask:   ticker.New(taskNoise, config.LoginNoiseInterval),
		bootTask:    ticker.New(taskBoot, config.EffectsInterval),
		effectsTask: ticker.New(taskEffects, config.EffectsInterval),
		store:       opts.Store,
		ctx:         ctx,
		cancel:      cancel,
		rng:         opts.Rand,
		now:         opts.Now,
	}
	d.env = programs.Env{
		Host:  desktopHost{d},
		Theme: d.Themes.Get,
		Rand:  opts.Rand,
		Now:   opts.Now,
	}
	d.Login.Focus = FieldUsername

	d.unsubscribe = append(d.unsubscribe,
		d.Bus.Subscribe(bus.Glitch, func(p any) {
			if intensity, ok := p.(float64); ok {
				d.queuePulse(intensity, config.GetGlitchPulseDuration())
			}
		}),
		d.Bus.Subscribe(bus.ThemeChanged, func(any) {
			d.queuePulse(config.SwitchPulseIntensity, config.GetSwitchPulseDuration())
		}),
	)

	if w, ok := opts.Store.(Watcher); ok {
		feed := newStoreFeed()
		if err := w.Watch(ctx, feed.send); err != nil {
			log.Warn("settings watcher unavailable", "err", err)
		} else {
			d.storeFeed = feed
			d.storeEvents = feed.ch
		}
	}
	return d
}

// desktopArea is the part of the screen windows live in.
func desktopArea(screen wm.Size) wm.Size {
	return wm.Size{Width: screen.Width, Height: max(screen.Height-config.TaskbarHeight, 0)}
}

// Theme returns the active palette.
func (d *Desktop) Theme() theme.Theme {
	return d.Themes.Get()
}

// Manager returns the window manager, or nil before the desktop is up.
func (d *Desktop) Manager() *wm.Manager {
	return d.Session.Manager()
}

// Panel returns the panel mounted in window id.
func (d *Desktop) Panel(id string) (programs.Panel, bool) {
	p, ok := d.panels[id]
	return p, ok
}

// Now returns the desktop clock.
func (d *Desktop) Now() time.Time {
	return d.now()
}

// effectsEnabled reports whether cosmetic effects should run.
func (d *Desktop) effectsEnabled() bool {
	return config.EffectsEnabled && !d.Config.Appearance.NoEffects
}

// Resize records a new terminal size.
func (d *Desktop) Resize(width, height int) {
	d.Width, d.Height = width, height
	area := desktopArea(wm.Size{Width: width, Height: height})
	d.Session.SetViewport(area)
	if d.Particles != nil {
		d.Particles.Resize(area.Width, area.Height)
	}
}

// Submit tries the credentials in the login form. A rejected login bumps the
// attempt counter; an accepted one starts the boot screen.
func (d *Desktop) Submit() tea.Cmd {
	err := d.Session.Login(d.Login.Username, d.Login.Password, d.now())
	if err != nil {
		d.Emitter.Play(audio.CueError)
		d.Login.Denied = true
		log.Debug("login rejected", "attempts", d.Session.Attempts(), "err", err)
		return nil
	}

	d.Emitter.Play(audio.CueSelect)
	d.Emitter.Play(audio.CueBoot)
	d.noiseTask.Stop()
	log.Info("login accepted", "user", d.Session.User(), "special", d.Session.Special())

	if d.Session.Advance(d.now()) {
		return d.enterDesktop()
	}
	return d.bootTask.Start()
}

func (d *Desktop) enterDesktop() tea.Cmd {
	d.bootTask.Stop()
	log.Debug("desktop ready", "viewport", d.Manager().Viewport())

	cmds := []tea.Cmd{d.effectsTask.Start()}
	if !d.Config.Appearance.HideStats {
		cmds = append(cmds, d.statsTask.Start(), SampleHostStats())
	}
	if d.Session.Special() && d.effectsEnabled() {
		area := desktopArea(wm.Size{Width: d.Width, Height: d.Height})
		d.Particles = effects.NewParticles(area.Width, area.Height, d.now())
	}
	return tea.Batch(cmds...)
}

// TriggerAction runs a session level action such as "open_terminal" or
// "glitch". It reports false when the session did not handle it.
func (d *Desktop) TriggerAction(action string) (tea.Cmd, bool) {
	res, ok := d.Session.Trigger(action)
	if !ok {
		return nil, false
	}
	var cmd tea.Cmd
	if res.Opened != nil {
		cmd = d.mount(*res.Opened)
	}
	if res.Glitch {
		d.Bus.Publish(bus.Glitch, config.GlitchPulseIntensity)
	}
	return cmd, true
}

// OpenProgram opens a new window running p.
func (d *Desktop) OpenProgram(p wm.Program) tea.Cmd {
	cmd, _ := d.TriggerAction(session.OpenAction(p))
	return cmd
}

func (d *Desktop) mount(w wm.Window) tea.Cmd {
	panel := programs.New(w.Program, w.ID, d.env)
	d.panels[w.ID] = panel
	d.Emitter.Play(audio.CueSwitch)
	d.queuePulse(config.SwitchPulseIntensity, config.GetSwitchPulseDuration())
	log.Debug("window opened", "id", w.ID, "program", w.Program)
	return panel.Init()
}

// CloseWindow closes the window and stops its panel.
func (d *Desktop) CloseWindow(id string) {
	mgr := d.Manager()
	if mgr == nil {
		return
	}
	if p, ok := d.panels[id]; ok {
		p.Close()
		delete(d.panels, id)
	}
	mgr.Close(id)
	log.Debug("window closed", "id", id)
}

// MinimizeWindow toggles the minimized flag of a window.
func (d *Desktop) MinimizeWindow(id string) {
	if mgr := d.Manager(); mgr != nil {
		mgr.ToggleMinimize(id)
	}
}

// FocusWindow raises a window above the others.
func (d *Desktop) FocusWindow(id string) {
	if mgr := d.Manager(); mgr != nil {
		mgr.Focus(id)
	}
}

// Focused returns the window receiving keyboard input.
func (d *Desktop) Focused() (wm.Window, bool) {
	mgr := d.Manager()
	if mgr == nil {
		return wm.Window{}, false
	}
	return mgr.Focused()
}

// ActivateWindow is the taskbar button action: a minimized window is
// restored and focused, the topmost window is minimized, and any other window
// is focused.
func (d *Desktop) ActivateWindow(id string) {
	mgr := d.Manager()
	if mgr == nil {
		return
	}
	w, ok := mgr.Get(id)
	if !ok {
		return
	}
	switch {
	case w.Minimized:
		mgr.ToggleMinimize(id)
		mgr.Focus(id)
	case d.isTopmost(id):
		mgr.ToggleMinimize(id)
	default:
		mgr.Focus(id)
	}
	d.Emitter.Play(audio.CueSelect)
}

func (d *Desktop) isTopmost(id string) bool {
	top, ok := d.Focused()
	return ok && top.ID == id
}

// CycleFocus raises the lowest visible window, or restores the oldest
// minimized one when nothing is visible.
func (d *Desktop) CycleFocus() {
	mgr := d.Manager()
	if mgr == nil {
		return
	}
	stack := mgr.Stack()
	if len(stack) > 1 {
		mgr.Focus(stack[0].ID)
		return
	}
	if len(stack) == 0 {
		for _, w := range mgr.Windows() {
			if w.Minimized {
				mgr.ToggleMinimize(w.ID)
				mgr.Focus(w.ID)
				return
			}
		}
	}
}

// UpdatePanel delivers msg to the panel in window id.
func (d *Desktop) UpdatePanel(id string, msg tea.Msg) tea.Cmd {
	p, ok := d.panels[id]
	if !ok {
		return nil
	}
	next, cmd := p.Update(msg)
	d.panels[id] = next
	return cmd
}

// OpenThemePicker shows the theme picker, closing the other overlays.
func (d *Desktop) OpenThemePicker() {
	d.closeOverlays()
	d.Picker = NewThemePicker()
	d.Emitter.Play(audio.CueSelect)
}

// OpenTrailSettings shows the trail settings overlay.
func (d *Desktop) OpenTrailSettings() {
	d.closeOverlays()
	d.TrailPanel = NewTrailSettings()
	d.Emitter.Play(audio.CueSelect)
}

// ToggleHelp shows or hides the keybinding overlay.
func (d *Desktop) ToggleHelp() {
	open := !d.ShowHelp
	d.closeOverlays()
	d.ShowHelp = open
}

// ToggleStartMenu opens or closes the start menu.
func (d *Desktop) ToggleStartMenu() {
	d.StartMenuOpen = !d.StartMenuOpen
	d.Emitter.Play(audio.CueSelect)
}

// CloseOverlay closes the topmost overlay. It reports whether one was open.
func (d *Desktop) CloseOverlay() bool {
	open := d.OverlayOpen() || d.StartMenuOpen
	d.closeOverlays()
	d.StartMenuOpen = false
	return open
}

// OverlayOpen reports whether a modal overlay is showing.
func (d *Desktop) OverlayOpen() bool {
	return d.Picker != nil || d.TrailPanel != nil || d.ShowHelp
}

func (d *Desktop) closeOverlays() {
	d.Picker = nil
	d.TrailPanel = nil
	d.ShowHelp = false
}

// TrackPointer records the mouse position and feeds the trail.
func (d *Desktop) TrackPointer(p wm.Point) {
	d.Pointer = p
	if d.Session.Phase() == session.PhaseDesktop && d.effectsEnabled() && d.Trail.Enabled() {
		d.Trail.Add(p.X, p.Y, d.now())
	}
}

// WantsMotion reports whether plain mouse motion is worth delivering: only
// while a drag or resize is running or the trail is drawing.
func (d *Desktop) WantsMotion() bool {
	if mgr := d.Manager(); mgr != nil && mgr.Pointer().Active() {
		return true
	}
	return d.Session.Phase() == session.PhaseDesktop && d.effectsEnabled() && d.Trail.Enabled()
}

func (d *Desktop) queuePulse(intensity float64, dur time.Duration) {
	if !d.effectsEnabled() || dur <= 0 {
		return
	}
	if intensity >= d.pendingPulse {
		d.pendingPulse = intensity
		d.pendingFor = dur
	}
}

// drain opens programs requested by panels and fires queued glitch pulses.
// Panels ask for windows from inside their own Update, so the work is
// deferred until the message has been fully handled.
func (d *Desktop) drain() tea.Cmd {
	var cmds []tea.Cmd
	for len(d.pending) > 0 {
		p := d.pending[0]
		d.pending = d.pending[1:]
		cmds = append(cmds, d.OpenProgram(p))
	}
	if d.pendingPulse > 0 {
		cmds = append(cmds, d.Glitch.Trigger(d.pendingPulse, d.pendingFor))
		d.pendingPulse, d.pendingFor = 0, 0
	}
	return tea.Batch(cmds...)
}

// routeTick delivers a timer tick to the panel that owns it.
func (d *Desktop) routeTick(msg ticker.TickMsg) tea.Cmd {
	owner, _, ok := strings.Cut(msg.ID, "/")
	if !ok {
		return nil
	}
	return d.UpdatePanel(owner, msg)
}

// WindowIDs returns the ids of every open window in opening order.
func (d *Desktop) WindowIDs() []string {
	mgr := d.Manager()
	if mgr == nil {
		return nil
	}
	ids := make([]string, 0, mgr.Len())
	for _, w := range mgr.Windows() {
		ids = append(ids, w.ID)
	}
	return ids
}

// Close stops every timer and watcher owned by the desktop and its panels.
func (d *Desktop) Close() {
	ids := make([]string, 0, len(d.panels))
	for id := range d.panels {
		ids = append(ids, id)
	}
	slices.Sort(ids)
	for _, id := range ids {
		d.panels[id].Close()
		delete(d.panels, id)
	}
	ticker.Group{d.statsTask, d.noiseTask, d.bootTask, d.effectsTask}.Stop()
	d.Glitch.Stop()
	d.Trail.Close()
	for _, fn := range d.unsubscribe {
		fn()
	}
	d.unsubscribe = nil
	d.cancel()
	if d.storeFeed != nil {
		// Wakes a pending ListenForStoreChanges with a nil message.
		d.storeFeed.close()
	}
}

// desktopHost is the desktop as seen by panels.
type desktopHost struct {
	d *Desktop
}

func (h desktopHost) Open(p wm.Program) {
	h.d.pending = append(h.d.pending, p)
}

func (h desktopHost) OpenThemePicker() {
	h.d.OpenThemePicker()
}

func (h desktopHost) Play(c audio.Cue) {
	h.d.Emitter.Play(c)
}
