package theme

import (
	"errors"
	"image/color"
	"testing"

	"charm.land/lipgloss/v2"
	"github.com/Gaurav-Gosain/navi/internal/bus"
	"github.com/Gaurav-Gosain/navi/internal/kv"
	"github.com/google/go-cmp/cmp"
)

func TestOpenFallsBackToDefault(t *testing.T) {
	partial := Default()
	partial.Primary = "#fff"

	tests := []struct {
		name  string
		setup func(*kv.MemStore)
		want  Theme
	}{
		{"missing", func(*kv.MemStore) {}, Default()},
		{"malformed", func(m *kv.MemStore) { m.SetRaw(StorageKey, []byte("{nope")) }, Default()},
		{"wrong shape", func(m *kv.MemStore) { m.SetRaw(StorageKey, []byte(`[1,2,3]`)) }, Default()},
		{"null", func(m *kv.MemStore) { m.SetRaw(StorageKey, []byte(`null`)) }, Default()},
		{"empty object", func(m *kv.MemStore) { m.SetRaw(StorageKey, []byte(`{}`)) }, Default()},
		{"blank color", func(m *kv.MemStore) { m.SetRaw(StorageKey, []byte(`{"primary":""}`)) }, Default()},
		{"bad color", func(m *kv.MemStore) { m.SetRaw(StorageKey, []byte(`{"text":"plaid"}`)) }, Default()},
		{"partial", func(m *kv.MemStore) { m.SetRaw(StorageKey, []byte(`{"primary":"#fff"}`)) }, partial},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mem := kv.NewMemStore()
			tt.setup(mem)
			got := Open(mem).Get()
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("Open (-want +got):\n%s", diff)
			}
			if _, ok := Hex(got.Background); !ok {
				t.Errorf("background %q does not parse", got.Background)
			}
		})
	}
}

func TestRoundTrip(t *testing.T) {
	fs, err := kv.NewFileStore(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}

	want := FromHSL(280, 90, 60)
	if err := Open(fs).Set(want); err != nil {
		t.Fatalf("Set: %v", err)
	}
	if diff := cmp.Diff(want, Open(fs).Get()); diff != "" {
		t.Errorf("re-opened store (-want +got):\n%s", diff)
	}
}

func TestSetNotifiesInOrder(t *testing.T) {
	s := Open(kv.NewMemStore())
	var calls []string
	s.Subscribe(func(th Theme) { calls = append(calls, "a:"+th.Primary) })
	id := s.Subscribe(func(th Theme) { calls = append(calls, "b:"+th.Primary) })
	s.Subscribe(func(th Theme) { calls = append(calls, "c:"+th.Primary) })

	next := Default()
	next.Primary = "#ff00ff"
	s.Set(next)
	s.Unsubscribe(id)
	s.Unsubscribe(id)
	s.Reset()

	want := []string{"a:#ff00ff", "b:#ff00ff", "c:#ff00ff", "a:#00ff41", "c:#00ff41"}
	if diff := cmp.Diff(want, calls); diff != "" {
		t.Errorf("listener calls (-want +got):\n%s", diff)
	}
}

func TestSetPublishesOnBus(t *testing.T) {
	b := bus.New()
	var got []Theme
	b.Subscribe(bus.ThemeChanged, func(p any) { got = append(got, p.(Theme)) })

	s := Open(kv.NewMemStore(), WithBus(b))
	s.Set(FromHSL(0, 100, 50))

	if len(got) != 1 || got[0].Primary != "hsl(0, 100%, 50%)" {
		t.Errorf("bus payloads = %+v", got)
	}
}

type failingStore struct{ *kv.MemStore }

var errDiskFull = errors.New("disk full")

func (failingStore) Save(string, any) error { return errDiskFull }

func TestSetKeepsPaletteWhenPersistFails(t *testing.T) {
	s := Open(failingStore{kv.NewMemStore()})
	next := FromHSL(200, 50, 50)

	err := s.Set(next)
	if !errors.Is(err, errDiskFull) {
		t.Errorf("Set error = %v, want wrapped errDiskFull", err)
	}
	if s.Get() != next {
		t.Error("palette not applied after persist failure")
	}
}

func TestReload(t *testing.T) {
	mem := kv.NewMemStore()
	s := Open(mem)
	notified := 0
	s.Subscribe(func(Theme) { notified++ })

	if s.Reload() {
		t.Error("Reload reported a change when nothing changed")
	}

	other := FromHSL(30, 100, 50)
	Open(mem).Set(other)
	if !s.Reload() {
		t.Fatal("Reload missed an external change")
	}
	if s.Get() != other || notified != 1 {
		t.Errorf("after reload: theme=%+v notified=%d", s.Get(), notified)
	}
}

func TestFromHSL(t *testing.T) {
	got := FromHSL(120, 100, 50)
	want := Theme{
		Primary:      "hsl(120, 100%, 50%)",
		Secondary:    "hsl(180, 80%, 40%)",
		Accent:       "hsl(300, 100%, 60%)",
		Background:   "#000000",
		Text:         "hsl(120, 100%, 50%)",
		PrimaryRGB:   "0, 255, 0",
		SecondaryRGB: "20, 184, 184",
		AccentRGB:    "255, 51, 255",
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("FromHSL (-want +got):\n%s", diff)
	}
}

func TestFromHSLCapsAccentLightness(t *testing.T) {
	got := FromHSL(10, 100, 90)
	if got.Accent != "hsl(190, 100%, 90%)" {
		t.Errorf("accent = %q, want lightness capped at 90", got.Accent)
	}
	if got.AccentRGB != "255, 255, 255" {
		t.Errorf("accent rgb = %q, want white for lightness over 100", got.AccentRGB)
	}
}

func TestParse(t *testing.T) {
	tests := []struct {
		in   string
		want string
		ok   bool
	}{
		{"#00ff41", "#00ff41", true},
		{"#0F4", "#00ff44", true},
		{" #FF0040 ", "#ff0040", true},
		{"rgb(1, 2, 3)", "#010203", true},
		{"hsl(120, 100%, 50%)", "#00ff00", true},
		{"hsl(0, 0%, 100%)", "#ffffff", true},
		{"chartreuse", "", false},
		{"#12345", "", false},
		{"#00ff41zz", "", false},
		{"#ggg", "", false},
		{"rgb(300, -4, 16)", "#ff0010", true},
		{"hsl(1, 2)", "", false},
		{"", "", false},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, ok := Hex(tt.in)
			if got != tt.want || ok != tt.ok {
				t.Errorf("Hex(%q) = %q, %v; want %q, %v", tt.in, got, ok, tt.want, tt.ok)
			}
			c := Parse(tt.in)
			if !tt.ok {
				if _, isNo := c.(lipgloss.NoColor); !isNo {
					t.Errorf("Parse(%q) = %v, want NoColor", tt.in, c)
				}
				return
			}
			if s := ColorToString(c); s != tt.want {
				t.Errorf("Parse(%q) renders as %s, want %s", tt.in, s, tt.want)
			}
		})
	}
}

func TestColorToString(t *testing.T) {
	if got := ColorToString(nil); got != "#000000" {
		t.Errorf("nil = %q", got)
	}
	if got := ColorToString(color.RGBA{R: 0xab, G: 0xcd, B: 0xef, A: 0xff}); got != "#abcdef" {
		t.Errorf("rgba = %q", got)
	}
}

func TestDefaultAccessors(t *testing.T) {
	d := Default()
	if got := ColorToString(d.PrimaryColor()); got != "#00ff41" {
		t.Errorf("primary = %s", got)
	}
	if got := ColorToString(d.Dim(1)); got != "#000000" {
		t.Errorf("fully dimmed = %s, want background", got)
	}
	if got := ColorToString(d.Dim(0)); got != "#00ff41" {
		t.Errorf("undimmed = %s, want primary", got)
	}
	if got := ColorToString(d.Dim(0.5)); got != "#008021" {
		t.Errorf("half dimmed = %s, want #008021", got)
	}
}
