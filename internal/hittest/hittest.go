// Package hittest resolves pointer positions against card geometry.
// Handles are tested before card bodies, and within each category cards
// are tested from topmost to bottommost so the first match follows the
// visual stacking order.
package hittest

import (
	"driftboard/internal/card"
	"driftboard/internal/geom"
)

// Handle names one of the eight resize anchors of a card.
type Handle string

const (
	HandleNone Handle = ""

	HandleNW Handle = "nw"
	HandleNE Handle = "ne"
	HandleSE Handle = "se"
	HandleSW Handle = "sw"
	HandleN  Handle = "n"
	HandleE  Handle = "e"
	HandleS  Handle = "s"
	HandleW  Handle = "w"
)

// Tolerance is the half-extent, in screen pixels, of the square hit
// area around each handle. It does not scale with zoom.
const Tolerance = 8

// Handles in the order they are probed.
var Handles = [8]Handle{HandleNW, HandleNE, HandleSE, HandleSW, HandleN, HandleE, HandleS, HandleW}

// Point returns the handle's anchor within the given screen rectangle.
func (h Handle) Point(r geom.Rect) geom.Vec {
	switch h {
	case HandleNW:
		return geom.Vec{X: r.X, Y: r.Y}
	case HandleNE:
		return geom.Vec{X: r.X + r.W, Y: r.Y}
	case HandleSE:
		return geom.Vec{X: r.X + r.W, Y: r.Y + r.H}
	case HandleSW:
		return geom.Vec{X: r.X, Y: r.Y + r.H}
	case HandleN:
		return geom.Vec{X: r.X + r.W/2, Y: r.Y}
	case HandleE:
		return geom.Vec{X: r.X + r.W, Y: r.Y + r.H/2}
	case HandleS:
		return geom.Vec{X: r.X + r.W/2, Y: r.Y + r.H}
	default:
		return geom.Vec{X: r.X, Y: r.Y + r.H/2}
	}
}

// Resize applies the pointer delta since gesture start to the card
// rectangle the handle controls. Width and height are clamped to the
// minimum floor and the position is clamped so the opposite edge never
// crosses inward past it.
func (h Handle) Resize(init geom.Rect, dx, dy float64) geom.Rect {
	r := init
	switch h {
	case HandleNW:
		r.X += dx
		r.Y += dy
		r.W -= dx
		r.H -= dy
	case HandleNE:
		r.Y += dy
		r.W += dx
		r.H -= dy
	case HandleSE:
		r.W += dx
		r.H += dy
	case HandleSW:
		r.X += dx
		r.W -= dx
		r.H += dy
	case HandleN:
		r.Y += dy
		r.H -= dy
	case HandleS:
		r.H += dy
	case HandleE:
		r.W += dx
	case HandleW:
		r.X += dx
		r.W -= dx
	}
	if r.W < card.MinSize {
		r.W = card.MinSize
	}
	if r.H < card.MinSize {
		r.H = card.MinSize
	}
	switch h {
	case HandleNW, HandleSW, HandleW:
		if limit := init.X + init.W - card.MinSize; r.X > limit {
			r.X = limit
		}
	}
	switch h {
	case HandleNW, HandleNE, HandleN:
		if limit := init.Y + init.H - card.MinSize; r.Y > limit {
			r.Y = limit
		}
	}
	return r
}

// CardAt returns the topmost card whose world-space bounding box
// contains the point.
func CardAt(cards []card.Card, world geom.Vec) (card.Card, bool) {
	for i := len(cards) - 1; i >= 0; i-- {
		if cards[i].Rect().Contains(world) {
			return cards[i], true
		}
	}
	return card.Card{}, false
}

// HandleAt returns the topmost card owning a handle within tolerance of
// the screen point.
func HandleAt(cards []card.Card, vp geom.Viewport, screen geom.Vec) (card.Card, Handle, bool) {
	for i := len(cards) - 1; i >= 0; i-- {
		sr := vp.WorldRectToScreen(cards[i].Rect())
		for _, h := range Handles {
			p := h.Point(sr)
			if screen.X >= p.X-Tolerance && screen.X <= p.X+Tolerance &&
				screen.Y >= p.Y-Tolerance && screen.Y <= p.Y+Tolerance {
				return cards[i], h, true
			}
		}
	}
	return card.Card{}, "", false
}

// HoverAt reports the topmost card under the world point together with
// the handle under the screen point on that card, if any. Drives hover
// highlights and the cursor shape.
func HoverAt(cards []card.Card, vp geom.Viewport, screen geom.Vec) (hoverID string, handle Handle, ok bool) {
	world := vp.ScreenToWorld(screen)
	for i := len(cards) - 1; i >= 0; i-- {
		c := cards[i]
		if !c.Rect().Contains(world) {
			continue
		}
		sr := vp.WorldRectToScreen(c.Rect())
		for _, h := range Handles {
			p := h.Point(sr)
			if screen.X >= p.X-Tolerance && screen.X <= p.X+Tolerance &&
				screen.Y >= p.Y-Tolerance && screen.Y <= p.Y+Tolerance {
				return c.ID, h, true
			}
		}
		return c.ID, HandleNone, true
	}
	return "", HandleNone, false
}
