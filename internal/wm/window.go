package wm

// Point is a position in viewport units (pixels or terminal cells).
type Point struct {
	X int
	Y int
}

// Add returns p translated by d.
func (p Point) Add(d Point) Point {
	return Point{X: p.X + d.X, Y: p.Y + d.Y}
}

// Sub returns the offset from q to p.
func (p Point) Sub(q Point) Point {
	return Point{X: p.X - q.X, Y: p.Y - q.Y}
}

// Size is a width/height pair in viewport units.
type Size struct {
	Width  int
	Height int
}

// Window describes one open program instance.
type Window struct {
	ID        string
	Program   Program
	Title     string
	Position  Point
	Size      Size
	Minimized bool
	Z         int64
}

// Contains reports whether the point lies inside the window frame.
func (w Window) Contains(p Point) bool {
	return p.X >= w.Position.X && p.X < w.Position.X+w.Size.Width &&
		p.Y >= w.Position.Y && p.Y < w.Position.Y+w.Size.Height
}

// Geometry holds the placement and sizing rules of a Manager.
type Geometry struct {
	// MinSize is the floor applied by Resize.
	MinSize Size
	// DefaultSize is the size of a freshly opened window.
	DefaultSize Size
	// CascadeOrigin is where the first window opens.
	CascadeOrigin Point
	// CascadeStep is the diagonal offset between successive windows.
	CascadeStep Point
	// MinVisible is the part of a window that must stay inside the viewport.
	MinVisible Size
	// InitialZ is the first stacking value.
	InitialZ int64
}

// DefaultGeometry returns the pixel geometry of the browser desktop.
func DefaultGeometry() Geometry {
	return Geometry{
		MinSize:       Size{Width: 400, Height: 300},
		DefaultSize:   Size{Width: 800, Height: 600},
		CascadeOrigin: Point{X: 50, Y: 50},
		CascadeStep:   Point{X: 30, Y: 30},
		MinVisible:    Size{Width: 200, Height: 100},
		InitialZ:      1000,
	}
}

// DefaultViewport is used until SetViewport is called.
var DefaultViewport = Size{Width: 1920, Height: 1080}

// clampPosition keeps p inside [0, vw-minW] x [0, vh-minH]; the upper bound
// never drops below zero.
func (g Geometry) clampPosition(p Point, viewport Size) Point {
	maxX := max(viewport.Width-g.MinVisible.Width, 0)
	maxY := max(viewport.Height-g.MinVisible.Height, 0)
	return Point{
		X: min(max(p.X, 0), maxX),
		Y: min(max(p.Y, 0), maxY),
	}
}

func (g Geometry) clampSize(s Size) Size {
	return Size{
		Width:  max(s.Width, g.MinSize.Width),
		Height: max(s.Height, g.MinSize.Height),
	}
}

// cascadeFits reports whether p is reachable without clamping.
func (g Geometry) cascadeFits(p Point, viewport Size) bool {
	return g.clampPosition(p, viewport) == p
}
