package hittest

import (
	"testing"

	"driftboard/internal/card"
	"driftboard/internal/geom"
)

func stack() []card.Card {
	bottom := card.NewText("bottom", "b", geom.Vec{X: 0, Y: 0})
	top := card.NewText("top", "t", geom.Vec{X: 100, Y: 40})
	return []card.Card{bottom, top}
}

func TestCardAtTopmostWins(t *testing.T) {
	cards := stack()
	// (150, 60) is inside both cards; the later entry is stacked above.
	c, ok := CardAt(cards, geom.Vec{X: 150, Y: 60})
	if !ok || c.ID != "top" {
		t.Fatalf("expected topmost card, got %+v ok=%v", c, ok)
	}

	c, ok = CardAt(cards, geom.Vec{X: 10, Y: 10})
	if !ok || c.ID != "bottom" {
		t.Fatalf("expected bottom card, got %+v", c)
	}

	if _, ok := CardAt(cards, geom.Vec{X: -500, Y: -500}); ok {
		t.Fatalf("empty space should not hit")
	}
}

func TestHandleAtTolerance(t *testing.T) {
	cards := []card.Card{card.NewText("a", "t", geom.Vec{X: 100, Y: 100})}
	vp := geom.Viewport{Scale: 1}

	// se corner sits at (300, 200) on screen.
	c, h, ok := HandleAt(cards, vp, geom.Vec{X: 300 + Tolerance, Y: 200 - Tolerance})
	if !ok || c.ID != "a" || h != HandleSE {
		t.Fatalf("got %v %v %v", c.ID, h, ok)
	}
	if _, _, ok := HandleAt(cards, vp, geom.Vec{X: 300 + Tolerance + 1, Y: 200}); ok {
		t.Fatalf("point outside tolerance should miss")
	}
}

func TestHandleToleranceIndependentOfZoom(t *testing.T) {
	cards := []card.Card{card.NewText("a", "t", geom.Vec{X: 0, Y: 0})}
	for _, scale := range []float64{0.1, 1, 5} {
		vp := geom.Viewport{Scale: scale}
		corner := vp.WorldToScreen(geom.Vec{X: 200, Y: 100})
		probe := geom.Vec{X: corner.X + Tolerance - 0.5, Y: corner.Y}
		if _, h, ok := HandleAt(cards, vp, probe); !ok || h != HandleSE {
			t.Fatalf("scale %v: se handle missed at %v", scale, probe)
		}
	}
}

func TestHandlesBeforeBodies(t *testing.T) {
	// The nw handle of the upper card overlaps the lower card's body.
	lower := card.NewText("lower", "t", geom.Vec{X: 0, Y: 0})
	upper := card.NewText("upper", "t", geom.Vec{X: 190, Y: 50})
	cards := []card.Card{lower, upper}
	vp := geom.Viewport{Scale: 1}

	probe := geom.Vec{X: 192, Y: 55}
	c, h, ok := HandleAt(cards, vp, probe)
	if !ok || c.ID != "upper" || h != HandleNW {
		t.Fatalf("expected upper nw handle, got %v %v %v", c.ID, h, ok)
	}
}

func TestResizeSE(t *testing.T) {
	init := geom.Rect{X: 0, Y: 0, W: 200, H: 100}
	r := HandleSE.Resize(init, 40, 20)
	if r.W != 240 || r.H != 120 || r.X != 0 || r.Y != 0 {
		t.Fatalf("unexpected rect %+v", r)
	}
}

func TestResizeNWMovesOrigin(t *testing.T) {
	init := geom.Rect{X: 100, Y: 100, W: 200, H: 200}
	r := HandleNW.Resize(init, 30, -10)
	if r.X != 130 || r.Y != 90 || r.W != 170 || r.H != 210 {
		t.Fatalf("unexpected rect %+v", r)
	}
}

func TestResizeClampsToFloor(t *testing.T) {
	init := geom.Rect{X: 100, Y: 100, W: 200, H: 100}
	for _, h := range Handles {
		for _, d := range []geom.Vec{{X: 1000, Y: 1000}, {X: -1000, Y: -1000}, {X: -1000, Y: 1000}} {
			r := h.Resize(init, d.X, d.Y)
			if r.W < card.MinSize || r.H < card.MinSize {
				t.Fatalf("handle %s delta %v produced %+v", h, d, r)
			}
		}
	}
}

func TestResizeWestClampKeepsOppositeEdge(t *testing.T) {
	init := geom.Rect{X: 100, Y: 100, W: 200, H: 100}
	r := HandleW.Resize(init, 500, 0)
	if r.X != init.X+init.W-card.MinSize {
		t.Fatalf("x not clamped against east edge: %+v", r)
	}
	if r.W != card.MinSize {
		t.Fatalf("width not at floor: %+v", r)
	}
}

func TestResizeNorthClampKeepsOppositeEdge(t *testing.T) {
	init := geom.Rect{X: 50, Y: 60, W: 100, H: 100}
	r := HandleN.Resize(init, 0, 900)
	if r.Y != init.Y+init.H-card.MinSize || r.H != card.MinSize {
		t.Fatalf("unexpected rect %+v", r)
	}
	if r.X != init.X || r.W != init.W {
		t.Fatalf("north handle changed horizontal axis: %+v", r)
	}
}

func TestHoverAtReportsHandleOnlyInsideBody(t *testing.T) {
	cards := []card.Card{card.NewText("a", "t", geom.Vec{X: 0, Y: 0})}
	vp := geom.Viewport{Scale: 1}

	id, h, ok := HoverAt(cards, vp, geom.Vec{X: 199, Y: 99})
	if !ok || id != "a" || h != HandleSE {
		t.Fatalf("got %q %q %v", id, h, ok)
	}

	id, h, ok = HoverAt(cards, vp, geom.Vec{X: 100, Y: 50})
	if !ok || id != "a" || h != "" {
		t.Fatalf("body hover got %q %q %v", id, h, ok)
	}

	if _, _, ok := HoverAt(cards, vp, geom.Vec{X: 500, Y: 500}); ok {
		t.Fatalf("empty space should not hover")
	}
}
