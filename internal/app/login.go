package app

import (
	"fmt"
	"strings"

	"charm.land/lipgloss/v2"
	"github.com/charmbracelet/x/ansi"

	"github.com/Gaurav-Gosain/navi/internal/audio"
	"github.com/Gaurav-Gosain/navi/internal/wm"
)

// Field is a focusable control on the login screen.
type Field int

const (
	FieldUsername Field = iota
	FieldPassword
	FieldShowPassword
	FieldSubmit
	fieldCount
)

// LoginForm is the state of the login screen inputs.
type LoginForm struct {
	Username     string
	Password     string
	ShowPassword bool
	Focus        Field
	// Denied is set once a login has been rejected.
	Denied bool
}

// maxCredentialLen bounds what the inputs accept.
const maxCredentialLen = 64

// Type appends text to the focused input.
func (d *Desktop) Type(text string) {
	f := &d.Login
	switch f.Focus {
	case FieldUsername:
		if ansi.StringWidth(f.Username)+ansi.StringWidth(text) <= maxCredentialLen {
			f.Username += text
		}
	case FieldPassword:
		if ansi.StringWidth(f.Password)+ansi.StringWidth(text) <= maxCredentialLen {
			f.Password += text
		}
	default:
		return
	}
	d.Emitter.Play(audio.CueKey)
}

// Backspace removes the last character of the focused input.
func (d *Desktop) Backspace() {
	f := &d.Login
	switch f.Focus {
	case FieldUsername:
		f.Username = dropLast(f.Username)
	case FieldPassword:
		f.Password = dropLast(f.Password)
	}
}

func dropLast(s string) string {
	r := []rune(s)
	if len(r) == 0 {
		return s
	}
	return string(r[:len(r)-1])
}

// MoveFocus cycles the focused control by delta.
func (d *Desktop) MoveFocus(delta int) {
	n := int(fieldCount)
	d.Login.Focus = Field(((int(d.Login.Focus)+delta)%n + n) % n)
}

// ToggleShowPassword flips password masking.
func (d *Desktop) ToggleShowPassword() {
	d.Login.ShowPassword = !d.Login.ShowPassword
}

// Activate runs the focused control: enter in the username field moves to
// the password, anywhere else it submits.
func (d *Desktop) Activate() (submit bool) {
	switch d.Login.Focus {
	case FieldUsername:
		d.Login.Focus = FieldPassword
		return false
	case FieldShowPassword:
		d.ToggleShowPassword()
		return false
	}
	return true
}

const (
	loginBoxWidth = 60
	inputWidth    = 30
)

var coplandLogo = []string{
	"███╗   ██╗ █████╗ ██╗   ██╗██╗",
	"████╗  ██║██╔══██╗██║   ██║██║",
	"██╔██╗ ██║███████║██║   ██║██║",
	"██║╚██╗██║██╔══██║╚██╗ ██╔╝██║",
	"██║ ╚████║██║  ██║ ╚████╔╝ ██║",
	"╚═╝  ╚═══╝╚═╝  ╚═╝  ╚═══╝  ╚═╝",
}

// loginLayout locates the clickable rows of the login box on screen.
type loginLayout struct {
	origin   wm.Point
	rows     map[Field]int
	showX    int
	showEndX int
}

// loginRows is the row of each control inside the login box.
var loginRows = map[Field]int{
	FieldUsername:     len(coplandLogo) + 4,
	FieldPassword:     len(coplandLogo) + 7,
	FieldShowPassword: len(coplandLogo) + 7,
	FieldSubmit:       len(coplandLogo) + 9,
}

func (d *Desktop) loginLayout(lines int) loginLayout {
	x := max((d.Width-loginBoxWidth)/2, 0)
	y := max((d.Height-lines)/2, 0)
	showX := x + 2 + inputWidth + 3
	return loginLayout{
		origin:   wm.Point{X: x, Y: y},
		rows:     loginRows,
		showX:    showX,
		showEndX: showX + len("[SHOW]"),
	}
}

// LoginFieldAt returns the control under a screen position.
func (d *Desktop) LoginFieldAt(p wm.Point) (Field, bool) {
	l := d.loginLayout(len(d.loginLines()))
	row := p.Y - l.origin.Y
	if p.X < l.origin.X || p.X >= l.origin.X+loginBoxWidth {
		return 0, false
	}
	switch row {
	case l.rows[FieldUsername]:
		return FieldUsername, true
	case l.rows[FieldPassword]:
		if p.X >= l.showX && p.X < l.showEndX {
			return FieldShowPassword, true
		}
		return FieldPassword, true
	case l.rows[FieldSubmit]:
		return FieldSubmit, true
	}
	return 0, false
}

func (d *Desktop) loginLines() []string {
	t := d.Theme()
	primary := lipgloss.NewStyle().Foreground(t.PrimaryColor())
	secondary := lipgloss.NewStyle().Foreground(t.SecondaryColor())
	accent := lipgloss.NewStyle().Foreground(t.AccentColor()).Bold(true)
	dim := lipgloss.NewStyle().Foreground(t.Dim(0.5))

	center := func(s string) string {
		return lipgloss.PlaceHorizontal(loginBoxWidth, lipgloss.Center, s)
	}
	focusMark := func(f Field) string {
		if d.Login.Focus == f {
			return accent.Render("▶")
		}
		return " "
	}
	input := func(f Field, value, placeholder string) string {
		style := primary.Underline(true)
		if value == "" {
			value = dim.Render(placeholder)
		}
		if d.Login.Focus == f {
			value += "█"
		}
		value = ansi.Truncate(value, inputWidth, "…")
		return focusMark(f) + " " + style.Render(value) + strings.Repeat(" ", inputWidth-ansi.StringWidth(value))
	}

	password := d.Login.Password
	if !d.Login.ShowPassword {
		password = strings.Repeat("•", len([]rune(password)))
	}
	show := "[SHOW]"
	if d.Login.ShowPassword {
		show = "[HIDE]"
	}
	if d.Login.Focus == FieldShowPassword {
		show = accent.Render(show)
	} else {
		show = secondary.Render(show)
	}
	submit := "[ INITIALIZE CONNECTION ]"
	if d.Login.Focus == FieldSubmit {
		submit = accent.Reverse(true).Render(submit)
	} else {
		submit = primary.Render(submit)
	}

	var lines []string
	for _, l := range coplandLogo {
		lines = append(lines, center(primary.Bold(true).Render(l)))
	}
	lines = append(lines,
		center(secondary.Render("COPLAND OPERATING SYSTEM")),
		center(dim.Render(d.loginNoise)),
		"",
		secondary.Render("  USERNAME:"),
		" "+input(FieldUsername, d.Login.Username, "Enter username..."),
		"",
		secondary.Render("  PASSWORD:"),
		" "+input(FieldPassword, password, "Enter password...")+"  "+show,
		"",
		center(submit),
		"",
	)
	if d.Session.Attempts() > 0 {
		lines = append(lines,
			center(accent.Render("ACCESS DENIED - INVALID CREDENTIALS")),
			center(accent.Render(fmt.Sprintf("FAILED ATTEMPTS: %d", d.Session.Attempts()))),
		)
		if d.Session.Warning() {
			lines = append(lines, center(accent.Blink(true).Render("SECURITY PROTOCOL ACTIVATED")))
		}
		lines = append(lines, "")
	}
	lines = append(lines,
		dim.Render("  SYSTEM INFORMATION"),
		dim.Render("  • Any valid credentials will grant access"),
		dim.Render("  • Special authentication available for authorized users"),
		dim.Render("  • Neural interface compatibility required"),
		"",
		center(primary.Render("● WIRED CONNECTION: ACTIVE")),
	)
	return lines
}

func (d *Desktop) renderLogin() string {
	lines := d.loginLines()
	l := d.loginLayout(len(lines))
	return d.placeBlock(lines, l.origin)
}

var bootBanner = []string{
	"███╗   ██╗ █████╗ ██╗   ██╗██╗     ██████╗ ███████╗",
	"████╗  ██║██╔══██╗██║   ██║██║    ██╔═══██╗██╔════╝",
	"██╔██╗ ██║███████║██║   ██║██║    ██║   ██║███████╗",
	"██║╚██╗██║██╔══██║╚██╗ ██╔╝██║    ██║   ██║╚════██║",
	"██║ ╚████║██║  ██║ ╚████╔╝ ██║    ╚██████╔╝███████║",
	"╚═╝  ╚═══╝╚═╝  ╚═╝  ╚═══╝  ╚═╝     ╚═════╝ ╚══════╝",
}

const bootBarWidth = 40

func (d *Desktop) bootLines() []string {
	t := d.Theme()
	primary := lipgloss.NewStyle().Foreground(t.PrimaryColor())
	accent := lipgloss.NewStyle().Foreground(t.AccentColor()).Bold(true)

	progress := d.Session.BootProgress(d.now())
	filled := int(progress * bootBarWidth)
	bar := "[" + strings.Repeat("█", filled) + strings.Repeat("░", bootBarWidth-filled) + "]"

	var lines []string
	for _, l := range bootBanner {
		lines = append(lines, primary.Bold(true).Render(l))
	}
	lines = append(lines,
		"",
		primary.Render(bar)+primary.Render(fmt.Sprintf(" %3.0f%%", progress*100)),
		"",
		primary.Render("INITIALIZING NAVI PROTOCOLS..."),
		primary.Render("LOADING NEURAL INTERFACE..."),
		primary.Render("CONNECTING TO THE WIRED..."),
	)
	if d.Session.Special() {
		lines = append(lines, accent.Render("WELCOME BACK, LAIN..."))
	}
	return lines
}

func (d *Desktop) renderBoot() string {
	lines := d.bootLines()
	width := 0
	for _, l := range lines {
		width = max(width, ansi.StringWidth(l))
	}
	for i, l := range lines {
		lines[i] = lipgloss.PlaceHorizontal(width, lipgloss.Center, l)
	}
	origin := wm.Point{X: max((d.Width-width)/2, 0), Y: max((d.Height-len(lines))/2, 0)}
	return d.placeBlock(lines, origin)
}

// placeBlock draws lines at origin on an otherwise empty screen.
func (d *Desktop) placeBlock(lines []string, origin wm.Point) string {
	canvas := lipgloss.NewCanvas(max(d.Width, 1), max(d.Height, 1))
	canvas.Compose(lipgloss.NewLayer(strings.Join(lines, "\n")).X(origin.X).Y(origin.Y))
	return canvas.Render()
}
