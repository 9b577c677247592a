package programs

import (
	"fmt"
	"strings"
	"time"

	tea "charm.land/bubbletea/v2"

	"github.com/Gaurav-Gosain/navi/internal/audio"
	"github.com/Gaurav-Gosain/navi/internal/config"
	"github.com/Gaurav-Gosain/navi/internal/ticker"
	"github.com/Gaurav-Gosain/navi/internal/wm"
)

// Track is one entry in the audio console playlist.
type Track struct {
	Title    string
	Artist   string
	Duration time.Duration
	Waveform []float64
	Playing  bool
}

var trackList = []struct {
	title, artist string
	duration      time.Duration
}{
	{"DUVET", "bôa", 3*time.Minute + 24*time.Second},
	{"Present Day", "Serial Experiments Lain OST", 2*time.Minute + 17*time.Second},
	{"Cyberia Mix", "J.J.", 4*time.Minute + 42*time.Second},
	{"Lain's Theme", "Reichi Nakaido", 3*time.Minute + 56*time.Second},
	{"Close World", "Tokyopill", 5*time.Minute + 13*time.Second},
	{"Knights of Eastern Calculus", "Unknown", 6*time.Minute + 28*time.Second},
}

const (
	waveformLength = 50
	visualizerBars = 20
	volumeStep     = 5
	defaultVolume  = 75
	trackListTop   = 4
)

var sparks = []rune("▁▂▃▄▅▆▇█")

// AudioConsole is a playlist with a fake visualizer. Nothing is decoded or
// played; "playing" only advances a position counter.
type AudioConsole struct {
	env        Env
	tracks     []Track
	cursor     int
	selected   int
	volume     int
	visualizer []float64
	position   time.Duration
	visual     *ticker.Task
}

// NewAudioConsole returns a console with six tracks and volume at 75.
func NewAudioConsole(id string, env Env) *AudioConsole {
	env = env.withDefaults()
	a := &AudioConsole{
		env:        env,
		selected:   -1,
		volume:     defaultVolume,
		visualizer: make([]float64, visualizerBars),
		visual:     ticker.New(id+"/visualizer", config.VisualizerInterval),
	}
	for _, t := range trackList {
		wave := make([]float64, waveformLength)
		for i := range wave {
			wave[i] = env.Rand.Float64()
		}
		a.tracks = append(a.tracks, Track{
			Title:    t.title,
			Artist:   t.artist,
			Duration: t.duration,
			Waveform: wave,
		})
	}
	return a
}

func (a *AudioConsole) Init() tea.Cmd {
	return a.visual.Start()
}

func (a *AudioConsole) Close() {
	a.visual.Stop()
}

// Tracks returns the playlist.
func (a *AudioConsole) Tracks() []Track {
	return a.tracks
}

// Volume returns the volume in percent.
func (a *AudioConsole) Volume() int {
	return a.volume
}

// Position returns how far into the playing track the console is.
func (a *AudioConsole) Position() time.Duration {
	return a.position
}

// SetVolume clamps v to 0-100.
func (a *AudioConsole) SetVolume(v int) {
	a.volume = min(max(v, 0), 100)
	a.env.Host.Play(audio.CueKey)
}

// Toggle starts track i, stopping whatever was playing, or stops it when it
// is the one playing.
func (a *AudioConsole) Toggle(i int) {
	if i < 0 || i >= len(a.tracks) {
		return
	}
	a.env.Host.Play(audio.CueSelect)
	wasPlaying := a.tracks[i].Playing
	for j := range a.tracks {
		a.tracks[j].Playing = j == i && !wasPlaying
	}
	a.position = 0
	a.selected = i
	a.cursor = i
}

func (a *AudioConsole) playing() (int, bool) {
	for i, t := range a.tracks {
		if t.Playing {
			return i, true
		}
	}
	return 0, false
}

func (a *AudioConsole) tick() {
	for i := range a.visualizer {
		a.visualizer[i] = a.env.Rand.Float64() * 100
	}
	i, ok := a.playing()
	if !ok {
		return
	}
	a.position += a.visual.Interval()
	if a.position >= a.tracks[i].Duration {
		a.tracks[i].Playing = false
		a.position = 0
	}
}

func (a *AudioConsole) Update(msg tea.Msg) (Panel, tea.Cmd) {
	if ok, cmd := a.visual.Handle(msg); ok {
		a.tick()
		return a, cmd
	}

	switch msg := msg.(type) {
	case ClickMsg:
		if i, ok := rowAt(msg.Y, trackListTop, len(a.tracks)); ok {
			a.Toggle(i)
		}
	case tea.KeyPressMsg:
		switch msg.String() {
		case "up", "k":
			a.cursor = max(a.cursor-1, 0)
		case "down", "j":
			a.cursor = min(a.cursor+1, len(a.tracks)-1)
		case "enter", "space":
			a.Toggle(a.cursor)
		case "left", "-":
			a.SetVolume(a.volume - volumeStep)
		case "right", "+", "=":
			a.SetVolume(a.volume + volumeStep)
		case "esc":
			a.env.Host.Open(wm.ProgramTerminal)
		}
	}
	return a, nil
}

func spark(values []float64, scale float64) string {
	var b strings.Builder
	for _, v := range values {
		i := int(v / scale * float64(len(sparks)-1))
		b.WriteRune(sparks[min(max(i, 0), len(sparks)-1)])
	}
	return b.String()
}

func formatTime(d time.Duration) string {
	secs := int(d.Seconds())
	return fmt.Sprintf("%d:%02d", secs/60, secs%60)
}

func (a *AudioConsole) View(width, height int) string {
	s := newStyles(a.env.Theme())
	lo, hi := audio.VolumeSweep(a.volume)

	out := []string{
		programHeader(s, "AUDIO_CONSOLE.EXE", width),
		s.accent.Render(spark(a.visualizer, 100)),
		s.dim.Render("VOL: ") + s.text.Render(bar(20, float64(a.volume))) +
			s.dim.Render(fmt.Sprintf(" %d%%  sweep %.0f-%.0f Hz", a.volume, lo, hi)),
		s.header.Render("PLAYLIST"),
	}
	for i, t := range a.tracks {
		mark := "  "
		if t.Playing {
			mark = "▶ "
		}
		line := fmt.Sprintf("%s%-28s %-28s %s", mark, t.Title, t.Artist, formatTime(t.Duration))
		if i == a.selected {
			line = s.selected.Render(line)
		} else {
			line = s.text.Render(line)
		}
		prefix := " "
		if i == a.cursor {
			prefix = s.accent.Render(">")
		}
		out = append(out, prefix+line)
	}
	out = append(out, "")

	if a.selected < 0 {
		out = append(out, s.dim.Render("SELECT A TRACK TO PLAY"))
		return clip(out, width, height)
	}
	t := a.tracks[a.selected]
	state := "STOPPED"
	if t.Playing {
		state = "PLAYING"
	}
	out = append(out,
		s.header.Render(fmt.Sprintf("NOW %s: %s - %s", state, t.Title, t.Artist)),
		s.text.Render(spark(t.Waveform, 1)),
		s.dim.Render(fmt.Sprintf("%s / %s", formatTime(a.position), formatTime(t.Duration))),
	)
	return clip(out, width, height)
}
