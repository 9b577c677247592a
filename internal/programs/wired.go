package programs

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	tea "charm.land/bubbletea/v2"

	"github.com/Gaurav-Gosain/navi/internal/audio"
	"github.com/Gaurav-Gosain/navi/internal/ticker"
)

// HomeURL is where the browser starts.
const HomeURL = "wired://home"

// SiteKind affects how a result is drawn.
type SiteKind string

const (
	SiteNormal     SiteKind = "normal"
	SiteWired      SiteKind = "wired"
	SiteClassified SiteKind = "classified"
)

// Site is a page in the fake Wired.
type Site struct {
	Title       string
	URL         string
	Description string
	Kind        SiteKind
}

var wiredSites = []Site{
	{"The Wired - Main Protocol", "wired://protocol", "Central hub for all Wired communications. Everyone is connected here.", SiteWired},
	{"Knights of Eastern Calculus", "wired://knights", "Mysterious organization operating within the Wired's deeper layers.", SiteClassified},
	{"Cyberia Club - Virtual Space", "wired://cyberia", "Digital nightclub where reality and virtuality merge seamlessly.", SiteWired},
	{"Tachibana Labs Research", "wired://tachibana", "Advanced neural interface research and development facility.", SiteNormal},
	{"NAVI Operating System", "wired://navi", "Next-generation neural interface operating system documentation.", SiteNormal},
	{"[CLASSIFIED] - Access Denied", "wired://classified", "████████████████████████████████████████████████", SiteClassified},
}

const (
	minSearchDelay  = time.Second
	maxSearchJitter = 2 * time.Second
	resultListTop   = 5
)

// WiredBrowser searches the fixed site list after a simulated delay and
// keeps a back/forward history of visited addresses.
type WiredBrowser struct {
	env     Env
	query   string
	pending string
	url     string
	results []Site
	loading bool
	history []string
	index   int
	cursor  int
	search  *ticker.Task
}

// NewWiredBrowser returns a browser on the home page.
func NewWiredBrowser(id string, env Env) *WiredBrowser {
	return &WiredBrowser{
		env:     env.withDefaults(),
		url:     HomeURL,
		results: homeResults(),
		history: []string{HomeURL},
		cursor:  -1,
		search:  ticker.Once(id+"/search", minSearchDelay),
	}
}

func homeResults() []Site {
	return append([]Site(nil), wiredSites[:4]...)
}

func (b *WiredBrowser) Init() tea.Cmd { return nil }

func (b *WiredBrowser) Close() {
	b.search.Stop()
}

// URL returns the current address.
func (b *WiredBrowser) URL() string { return b.url }

// Results returns the listed results.
func (b *WiredBrowser) Results() []Site { return b.results }

// Loading reports whether a search is in flight.
func (b *WiredBrowser) Loading() bool { return b.loading }

// SetQuery replaces the search box contents.
func (b *WiredBrowser) SetQuery(q string) {
	b.query = q
	b.cursor = -1
}

// Search starts a search for the current query. Blank queries and searches
// while one is loading are ignored.
func (b *WiredBrowser) Search() tea.Cmd {
	q := strings.TrimSpace(b.query)
	if q == "" || b.loading {
		return nil
	}
	b.loading = true
	b.pending = b.query
	b.env.Host.Play(audio.CueScan)
	jitter := time.Duration(b.env.Rand.Int64N(int64(maxSearchJitter)))
	b.search.SetInterval(minSearchDelay + jitter)
	return b.search.Start()
}

func (b *WiredBrowser) finishSearch() {
	q := strings.ToLower(b.pending)
	var found []Site
	for _, s := range wiredSites {
		if strings.Contains(strings.ToLower(s.Title), q) || strings.Contains(strings.ToLower(s.Description), q) {
			found = append(found, s)
		}
	}
	addr := "wired://search?q=" + url.QueryEscape(b.pending)
	summary := Site{
		Title:       fmt.Sprintf("Search results for %q", b.pending),
		URL:         addr,
		Description: fmt.Sprintf("Found %d results in the Wired.", len(found)+b.env.Rand.IntN(10)),
		Kind:        SiteNormal,
	}
	b.results = append([]Site{summary}, found...)
	b.loading = false
	b.cursor = -1
	b.navigate(addr)
}

// navigate drops any forward history and visits addr.
func (b *WiredBrowser) navigate(addr string) {
	b.history = append(b.history[:b.index+1], addr)
	b.index = len(b.history) - 1
	b.url = addr
}

// Open visits result i.
func (b *WiredBrowser) Open(i int) {
	if i < 0 || i >= len(b.results) {
		return
	}
	b.env.Host.Play(audio.CueSelect)
	b.navigate(b.results[i].URL)
}

// CanBack reports whether there is history behind the current page.
func (b *WiredBrowser) CanBack() bool { return b.index > 0 }

// CanForward reports whether there is history ahead of the current page.
func (b *WiredBrowser) CanForward() bool { return b.index < len(b.history)-1 }

// Back moves one step back in history.
func (b *WiredBrowser) Back() {
	if !b.CanBack() {
		return
	}
	b.index--
	b.visit(b.history[b.index])
}

// Forward moves one step forward in history.
func (b *WiredBrowser) Forward() {
	if !b.CanForward() {
		return
	}
	b.index++
	b.visit(b.history[b.index])
}

func (b *WiredBrowser) visit(addr string) {
	b.env.Host.Play(audio.CueKey)
	b.url = addr
	if addr == HomeURL {
		b.results = homeResults()
	}
}

// Home returns to the home page and clears the search.
func (b *WiredBrowser) Home() {
	b.env.Host.Play(audio.CueSelect)
	b.query = ""
	b.cursor = -1
	b.results = homeResults()
	if b.url != HomeURL {
		b.navigate(HomeURL)
	}
}

// Refresh repeats the last search, if there is a query.
func (b *WiredBrowser) Refresh() tea.Cmd {
	b.env.Host.Play(audio.CueScan)
	return b.Search()
}

func (b *WiredBrowser) Update(msg tea.Msg) (Panel, tea.Cmd) {
	if ok, _ := b.search.Handle(msg); ok {
		b.finishSearch()
		return b, nil
	}

	switch msg := msg.(type) {
	case ClickMsg:
		return b, b.click(msg)
	case tea.KeyPressMsg:
		switch msg.String() {
		case "enter":
			if b.cursor >= 0 {
				b.Open(b.cursor)
				return b, nil
			}
			return b, b.Search()
		case "up":
			b.cursor = max(b.cursor-1, -1)
		case "down":
			b.cursor = min(b.cursor+1, len(b.results)-1)
		case "alt+left":
			b.Back()
		case "alt+right":
			b.Forward()
		case "alt+h":
			b.Home()
		case "ctrl+r":
			return b, b.Refresh()
		case "esc":
			b.cursor = -1
		case "backspace":
			if r := []rune(b.query); len(r) > 0 {
				b.SetQuery(string(r[:len(r)-1]))
			}
		default:
			if msg.Text != "" && msg.Mod&(tea.ModCtrl|tea.ModAlt) == 0 {
				b.SetQuery(b.query + msg.Text)
			}
		}
	}
	return b, nil
}

func (b *WiredBrowser) click(msg ClickMsg) tea.Cmd {
	if msg.Y == 0 {
		switch {
		case msg.X < 3:
			b.Back()
		case msg.X < 7:
			b.Forward()
		case msg.X < 11:
			return b.Refresh()
		case msg.X < 15:
			b.Home()
		}
		return nil
	}
	if msg.Y >= resultListTop {
		b.Open((msg.Y - resultListTop) / 2)
	}
	return nil
}

func (b *WiredBrowser) View(width, height int) string {
	s := newStyles(b.env.Theme())

	nav := func(label string, on bool) string {
		if on {
			return s.header.Render(label)
		}
		return s.dim.Render(label)
	}
	status := ""
	if b.loading {
		status = s.accent.Render("SEARCHING THE WIRED...")
	}

	out := []string{
		nav("[◀]", b.CanBack()) + " " + nav("[▶]", b.CanForward()) + " " +
			nav("[⟳]", true) + " " + nav("[⌂]", true) + "  " + s.text.Render(b.url),
		"",
		s.header.Render("Browse the Wired"),
		s.dim.Render("search: ") + s.text.Render(b.query) + s.text.Render("█"),
		status,
	}

	if page, ok := b.page(); ok {
		out = append(out, s.header.Render(page.Title))
		if page.Kind == SiteClassified {
			out = append(out, s.warn.Render("ACCESS DENIED"))
		}
		out = append(out, wrap(page.Description, width)...)
		return clip(out, width, height)
	}

	for i, r := range b.results {
		var title string
		switch {
		case i == b.cursor:
			title = s.selected.Render(r.Title) + "  " + s.dim.Render(r.URL)
		case r.Kind == SiteClassified:
			title = s.warn.Render(r.Title) + "  " + s.dim.Render(r.URL)
		case r.Kind == SiteWired:
			title = s.accent.Render(r.Title) + "  " + s.dim.Render(r.URL)
		default:
			title = s.text.Render(r.Title) + "  " + s.dim.Render(r.URL)
		}
		out = append(out, title, s.dim.Render("  "+r.Description))
	}
	return clip(out, width, height)
}

// page returns the site at the current address when it is not the home page
// or a search page.
func (b *WiredBrowser) page() (Site, bool) {
	for _, s := range wiredSites {
		if s.URL == b.url {
			return s, true
		}
	}
	return Site{}, false
}
