// Package minimap projects the board into the fixed overview panel:
// card markers, the current viewport rectangle, and the inverse
// mapping used for click-to-jump navigation.
package minimap

import (
	"math"

	"driftboard/internal/card"
	"driftboard/internal/geom"
)

const (
	Width  = 200
	Height = 140
	// MarkerMin keeps tiny cards visible as at least a 2px dot.
	MarkerMin = 2
)

// Projection maps world coordinates into the minimap panel. The world
// bounds cover all cards plus the current viewport, padded so content
// never touches the panel edge, and are fit with a uniform scale
// centered on both axes.
type Projection struct {
	World geom.Rect
	Scale float64
	off   geom.Vec
}

// Project computes the projection for the given cards and the world
// corners of the current viewport. With no cards a fixed area around
// the origin is used so an empty board still shows a stable overview.
func Project(cards []card.Card, viewTL, viewBR geom.Vec) Projection {
	minX, minY := viewTL.X, viewTL.Y
	maxX, maxY := viewBR.X, viewBR.Y
	if len(cards) == 0 {
		minX = math.Min(minX, -100)
		minY = math.Min(minY, -100)
		maxX = math.Max(maxX, 100)
		maxY = math.Max(maxY, 100)
	}
	for _, c := range cards {
		minX = math.Min(minX, c.X)
		minY = math.Min(minY, c.Y)
		maxX = math.Max(maxX, c.X+c.W)
		maxY = math.Max(maxY, c.Y+c.H)
	}

	padX := (maxX-minX)*0.05 + 40
	padY := (maxY-minY)*0.05 + 40
	world := geom.Rect{
		X: minX - padX,
		Y: minY - padY,
		W: (maxX - minX) + 2*padX,
		H: (maxY - minY) + 2*padY,
	}

	scale := math.Min(Width/world.W, Height/world.H)
	return Projection{
		World: world,
		Scale: scale,
		off: geom.Vec{
			X: (Width - world.W*scale) / 2,
			Y: (Height - world.H*scale) / 2,
		},
	}
}

// ToMini maps a world point to minimap panel coordinates.
func (p Projection) ToMini(w geom.Vec) geom.Vec {
	return geom.Vec{
		X: (w.X-p.World.X)*p.Scale + p.off.X,
		Y: (w.Y-p.World.Y)*p.Scale + p.off.Y,
	}
}

// ToWorld maps a minimap panel point back to world coordinates.
func (p Projection) ToWorld(m geom.Vec) geom.Vec {
	return geom.Vec{
		X: (m.X-p.off.X)/p.Scale + p.World.X,
		Y: (m.Y-p.off.Y)/p.Scale + p.World.Y,
	}
}

// Marker returns the panel rectangle for a card, floored so small
// cards stay visible.
func (p Projection) Marker(c card.Card) geom.Rect {
	tl := p.ToMini(geom.Vec{X: c.X, Y: c.Y})
	w := math.Max(c.W*p.Scale, MarkerMin)
	h := math.Max(c.H*p.Scale, MarkerMin)
	return geom.Rect{X: tl.X, Y: tl.Y, W: w, H: h}
}

// ViewRect returns the panel rectangle covering the given viewport
// corners.
func (p Projection) ViewRect(viewTL, viewBR geom.Vec) geom.Rect {
	tl := p.ToMini(viewTL)
	br := p.ToMini(viewBR)
	return geom.Rect{X: tl.X, Y: tl.Y, W: br.X - tl.X, H: br.Y - tl.Y}
}
