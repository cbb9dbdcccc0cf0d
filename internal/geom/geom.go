// Package geom holds the world/screen coordinate model shared by every
// canvas component. The viewport transform defined here is the single
// source of truth: screen = world*scale + offset.
package geom

const (
	MinScale = 0.1
	MaxScale = 5.0
)

type Vec struct {
	X float64
	Y float64
}

func (v Vec) Add(o Vec) Vec { return Vec{v.X + o.X, v.Y + o.Y} }

func (v Vec) Sub(o Vec) Vec { return Vec{v.X - o.X, v.Y - o.Y} }

func (v Vec) Scale(s float64) Vec { return Vec{v.X * s, v.Y * s} }

type Rect struct {
	X float64
	Y float64
	W float64
	H float64
}

func (r Rect) Contains(p Vec) bool {
	return p.X >= r.X && p.X <= r.X+r.W && p.Y >= r.Y && p.Y <= r.Y+r.H
}

func (r Rect) Center() Vec {
	return Vec{r.X + r.W/2, r.Y + r.H/2}
}

// Viewport is the pan/zoom state of the canvas.
type Viewport struct {
	Scale  float64
	Offset Vec
}

func NewViewport() Viewport {
	return Viewport{Scale: 1}
}

func (v Viewport) ScreenToWorld(s Vec) Vec {
	return Vec{(s.X - v.Offset.X) / v.Scale, (s.Y - v.Offset.Y) / v.Scale}
}

func (v Viewport) WorldToScreen(w Vec) Vec {
	return Vec{w.X*v.Scale + v.Offset.X, w.Y*v.Scale + v.Offset.Y}
}

// WorldRectToScreen maps a world rectangle to screen space.
func (v Viewport) WorldRectToScreen(r Rect) Rect {
	tl := v.WorldToScreen(Vec{r.X, r.Y})
	return Rect{tl.X, tl.Y, r.W * v.Scale, r.H * v.Scale}
}

// ZoomAt sets the scale to newScale (clamped) while keeping the world
// point currently under the screen anchor fixed under that anchor.
func (v *Viewport) ZoomAt(anchor Vec, newScale float64) {
	newScale = ClampScale(newScale)
	under := v.ScreenToWorld(anchor)
	v.Scale = newScale
	v.Offset = anchor.Sub(under.Scale(newScale))
}

// PanTo recomputes the offset so that the world anchor sits under the
// given screen point at the current scale.
func (v *Viewport) PanTo(worldAnchor, screen Vec) {
	v.Offset = screen.Sub(worldAnchor.Scale(v.Scale))
}

// CenterOn places the world point at the center of a viewport of the
// given screen size without changing the scale.
func (v *Viewport) CenterOn(world Vec, screenW, screenH float64) {
	v.Offset = Vec{screenW/2 - world.X*v.Scale, screenH/2 - world.Y*v.Scale}
}

func ClampScale(s float64) float64 {
	if s < MinScale {
		return MinScale
	}
	if s > MaxScale {
		return MaxScale
	}
	return s
}

func Clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
