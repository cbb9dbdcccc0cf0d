package app

import (
	"fmt"
	"image"
	"image/color"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/text"
	"golang.org/x/image/font"

	"driftboard/internal/card"
	"driftboard/internal/geom"
	"driftboard/internal/hittest"
	"driftboard/internal/imagecache"
	"driftboard/internal/render"
	"driftboard/internal/textwrap"
	"driftboard/internal/ui"
)

const handleDrawSize = 8.0

func (a *App) Draw(screen *ebiten.Image) {
	w, h := screen.Bounds().Dx(), screen.Bounds().Dy()
	if a.frameBuffer == nil || a.frameBuffer.W != w || a.frameBuffer.H != h {
		a.frameBuffer = render.NewFrameBuffer(w, h)
		a.canvas = ebiten.NewImage(w, h)
	}

	ui.DrawBackdrop(a.frameBuffer, a.vp, a.theme)
	a.canvas.WritePixels(a.frameBuffer.Pixels)
	screen.DrawImage(a.canvas, nil)

	for _, c := range a.store.Cards() {
		a.drawCard(screen, c)
	}

	layout := ui.ComputeLayout(w, h, a.theme, 1)
	a.drawMiniMap(screen, layout)
	a.drawZoomBadge(screen, layout)
	a.drawGuide(screen, layout)
	a.drawMenu(screen)
	a.drawEditor(screen)
	a.drawToasts(screen, layout)
}

func fillRectOnScreen(screen *ebiten.Image, r geom.Rect, c color.RGBA) {
	ebitenutil.DrawRect(screen, r.X, r.Y, r.W, r.H, c)
}

func strokeRectOnScreen(screen *ebiten.Image, r geom.Rect, line float64, c color.RGBA) {
	fillRectOnScreen(screen, geom.Rect{X: r.X, Y: r.Y, W: r.W, H: line}, c)
	fillRectOnScreen(screen, geom.Rect{X: r.X, Y: r.Y + r.H - line, W: r.W, H: line}, c)
	fillRectOnScreen(screen, geom.Rect{X: r.X, Y: r.Y, W: line, H: r.H}, c)
	fillRectOnScreen(screen, geom.Rect{X: r.X + r.W - line, Y: r.Y, W: line, H: r.H}, c)
}

func (a *App) drawCard(screen *ebiten.Image, c card.Card) {
	sr := a.vp.WorldRectToScreen(c.Rect())
	if sr.X+sr.W < 0 || sr.Y+sr.H < 0 || sr.X > float64(a.screenW) || sr.Y > float64(a.screenH) {
		return
	}

	shadow := geom.Rect{X: sr.X + 3, Y: sr.Y + 3, W: sr.W, H: sr.H}
	fillRectOnScreen(screen, shadow, a.theme.CardShadow)
	fillRectOnScreen(screen, sr, a.theme.Card)

	switch c.Kind {
	case card.KindImage:
		a.drawImageContent(screen, c, sr)
	case card.KindText:
		a.drawTextContent(screen, c, sr)
	}

	selected := a.store.IsSelected(c.ID)
	borderColor := a.theme.CardBorder
	borderW := 1.0
	if selected {
		borderColor = a.theme.CardSelected
		borderW = 2
	}
	strokeRectOnScreen(screen, sr, borderW, borderColor)

	if a.showsHandles(c) {
		for _, hd := range hittest.Handles {
			p := hd.Point(sr)
			hr := geom.Rect{
				X: p.X - handleDrawSize/2,
				Y: p.Y - handleDrawSize/2,
				W: handleDrawSize,
				H: handleDrawSize,
			}
			fillRectOnScreen(screen, hr, a.theme.Handle)
			strokeRectOnScreen(screen, hr, 1, a.theme.HandleBorder)
		}
	}
}

// showsHandles reports whether a card gets its resize handles: when it
// is selected, hovered, or mid drag/resize.
func (a *App) showsHandles(c card.Card) bool {
	if a.store.IsSelected(c.ID) {
		return true
	}
	hoverID, _ := a.machine.Hover()
	return hoverID == c.ID || a.machine.ActiveCard() == c.ID
}

func (a *App) drawImageContent(screen *ebiten.Image, c card.Card, sr geom.Rect) {
	img, state := a.cache.Get(c.Src)
	switch state {
	case imagecache.StateReady:
		gpu, ok := a.gpuImages[c.Src]
		if !ok {
			gpu = ebiten.NewImageFromImage(img)
			a.gpuImages[c.Src] = gpu
		}
		b := gpu.Bounds()
		if b.Dx() == 0 || b.Dy() == 0 {
			return
		}
		op := &ebiten.DrawImageOptions{}
		op.GeoM.Scale(sr.W/float64(b.Dx()), sr.H/float64(b.Dy()))
		op.GeoM.Translate(sr.X, sr.Y)
		op.Filter = ebiten.FilterLinear
		screen.DrawImage(gpu, op)
	case imagecache.StateLoading, imagecache.StateMissing:
		a.drawCenteredLabel(screen, sr, "Loading image...")
	case imagecache.StateFailed:
		a.drawCenteredLabel(screen, sr, "Image unavailable")
	}
}

func (a *App) drawCenteredLabel(screen *ebiten.Image, sr geom.Rect, label string) {
	face := a.fonts.face(12, false, 1)
	lw := measureString(face, label)
	x := int(sr.X + (sr.W-lw)/2)
	y := int(sr.Y + sr.H/2)
	text.Draw(screen, label, face, x, y, a.theme.MutedText)
}

func (a *App) drawTextContent(screen *ebiten.Image, c card.Card, sr geom.Rect) {
	scale := a.vp.Scale
	face := a.fonts.face(cardFontSize, false, scale)
	pad := cardPadding * scale
	lineH := cardLineHeight * scale
	budget := (c.W - 2*cardPadding) * scale

	lines := textwrap.Wrap(c.Text, budget, func(s string) float64 {
		return measureString(face, s)
	})
	content := textwrap.ContentHeight(lines, lineH)
	viewport := sr.H - 2*pad
	if viewport <= 0 {
		return
	}

	clipRect := image.Rect(
		int(sr.X+pad), int(sr.Y+pad),
		int(sr.X+sr.W-pad), int(sr.Y+sr.H-pad),
	)
	clip, ok := screen.SubImage(clipRect).(*ebiten.Image)
	if !ok {
		return
	}

	win, _ := textwrap.Window(c.ScrollY, content, viewport, lineH)
	ascent := faceAscent(face)
	y := sr.Y + pad - win.YOffset + ascent
	for i := win.StartLine; i < len(lines); i++ {
		if y-ascent > sr.Y+sr.H-pad {
			break
		}
		text.Draw(clip, lines[i], face, int(sr.X+pad), int(y), a.theme.Text)
		y += lineH
	}

	if content > viewport {
		trackW := 4 * scale
		track := geom.Rect{
			X: sr.X + sr.W - pad/2 - trackW,
			Y: sr.Y + pad,
			W: trackW,
			H: viewport,
		}
		fillRectOnScreen(screen, track, a.theme.Scrollbar)
		if ty, th, ok := textwrap.ThumbMetrics(c.ScrollY, content, viewport, viewport, 20*scale); ok {
			thumb := geom.Rect{X: track.X, Y: track.Y + ty, W: trackW, H: th}
			fillRectOnScreen(screen, thumb, a.theme.ScrollThumb)
		}
	}
}

func faceAscent(f font.Face) float64 {
	m := f.Metrics()
	return float64(m.Ascent) / 64
}

func (a *App) drawMiniMap(screen *ebiten.Image, layout ui.Layout) {
	r := layout.MiniMap
	fillRectOnScreen(screen, r, a.theme.Panel)
	strokeRectOnScreen(screen, r, 1, a.theme.PanelBorder)

	proj := a.minimapProjection()
	for _, c := range a.store.Cards() {
		m := proj.Marker(c)
		fillRectOnScreen(screen, geom.Rect{X: r.X + m.X, Y: r.Y + m.Y, W: m.W, H: m.H}, a.theme.MiniCard)
	}
	tl := a.vp.ScreenToWorld(geom.Vec{})
	br := a.vp.ScreenToWorld(geom.Vec{X: float64(a.screenW), Y: float64(a.screenH)})
	vr := proj.ViewRect(tl, br)
	strokeRectOnScreen(screen, geom.Rect{X: r.X + vr.X, Y: r.Y + vr.Y, W: vr.W, H: vr.H}, 1, a.theme.MiniView)
}

func (a *App) drawZoomBadge(screen *ebiten.Image, layout ui.Layout) {
	r := layout.ZoomBadge
	fillRectOnScreen(screen, r, a.theme.Panel)
	strokeRectOnScreen(screen, r, 1, a.theme.PanelBorder)
	face := a.fonts.face(12, false, 1)
	label := fmt.Sprintf("%d%%", int(a.vp.Scale*100+0.5))
	lw := measureString(face, label)
	text.Draw(screen, label, face, int(r.X+(r.W-lw)/2), int(r.Y+r.H/2+4), a.theme.Text)
}

var guideLines = []string{
	"Double-click empty space: new note",
	"Click empty space: paste clipboard",
	"Drag a card to move, edges to resize",
	"Double-click a note: copy its text",
	"Space + drag or touch-drag: pan",
	"Ctrl + wheel or pinch: zoom",
	"Wheel over a note: scroll text",
	"Delete: remove selected",
}

func (a *App) drawGuide(screen *ebiten.Image, layout ui.Layout) {
	face := a.fonts.face(11, false, 1)
	if !a.guideOpen {
		r := layout.GuideTab
		fillRectOnScreen(screen, r, a.theme.Panel)
		strokeRectOnScreen(screen, r, 1, a.theme.PanelBorder)
		text.Draw(screen, "?", a.fonts.face(13, true, 1), int(r.X+r.W/2-4), int(r.Y+r.H/2+5), a.theme.Accent)
		return
	}
	r := layout.Guide
	fillRectOnScreen(screen, r, a.theme.Panel)
	strokeRectOnScreen(screen, r, 1, a.theme.PanelBorder)
	title := a.fonts.face(12, true, 1)
	text.Draw(screen, "Driftboard", title, int(r.X+10), int(r.Y+18), a.theme.Text)
	y := int(r.Y + 36)
	for _, line := range guideLines {
		text.Draw(screen, line, face, int(r.X+10), y, a.theme.MutedText)
		y += 15
	}
	who := "Local board (not signed in)"
	if a.client.Ready() {
		who = a.userEmail
		if who == "" {
			who = "Signed in"
		}
	}
	text.Draw(screen, who, face, int(r.X+10), int(r.Y+r.H-8), a.theme.Accent)
}

func (a *App) drawMenu(screen *ebiten.Image) {
	if a.menu == nil {
		return
	}
	face := a.fonts.face(12, false, 1)
	m := a.menu
	fillRectOnScreen(screen, m.rect(), a.theme.MenuBg)
	strokeRectOnScreen(screen, m.rect(), 1, a.theme.PanelBorder)
	for i, it := range m.items {
		ir := m.itemRect(i)
		if ir.Contains(a.lastCursor) {
			fillRectOnScreen(screen, ir, a.theme.MenuHover)
		}
		text.Draw(screen, it.label, face, int(ir.X+12), int(ir.Y+ir.H/2+4), a.theme.Text)
	}
}

func (a *App) drawEditor(screen *ebiten.Image) {
	if a.editor == nil {
		return
	}
	ed := a.editor
	anchor := a.vp.WorldToScreen(ed.world)
	w := card.DefaultTextWidth * a.vp.Scale
	if w < 220 {
		w = 220
	}
	face := a.fonts.face(cardFontSize, false, 1)
	lines := textwrap.Wrap(ed.input, w-20, func(s string) float64 {
		return measureString(face, s)
	})
	h := float64(len(lines))*16 + 44
	if h < 100 {
		h = 100
	}
	r := geom.Rect{X: anchor.X, Y: anchor.Y, W: w, H: h}
	r.X = geom.Clamp(r.X, 0, float64(a.screenW)-r.W)
	r.Y = geom.Clamp(r.Y, 0, float64(a.screenH)-r.H)

	fillRectOnScreen(screen, geom.Rect{X: r.X + 3, Y: r.Y + 3, W: r.W, H: r.H}, a.theme.CardShadow)
	fillRectOnScreen(screen, r, a.theme.EditorBg)
	strokeRectOnScreen(screen, r, 2, a.theme.Accent)

	y := int(r.Y + 20)
	for _, line := range lines {
		text.Draw(screen, line, face, int(r.X+10), y, a.theme.Text)
		y += 16
	}
	hint := "Ctrl+Enter to save, Esc to cancel"
	text.Draw(screen, hint, a.fonts.face(10, false, 1), int(r.X+10), int(r.Y+r.H-8), a.theme.MutedText)
}

func (a *App) drawToasts(screen *ebiten.Image, layout ui.Layout) {
	face := a.fonts.face(12, false, 1)
	y := layout.Toast.Y
	for _, t := range a.toasts {
		w := measureString(face, t.text) + 24
		r := geom.Rect{X: layout.Toast.X - w/2, Y: y, W: w, H: 28}
		fillRectOnScreen(screen, r, a.theme.ToastBg)
		text.Draw(screen, t.text, face, int(r.X+12), int(r.Y+18), a.theme.ToastText)
		y += 34
	}
}

func cursorForHandle(h hittest.Handle) ebiten.CursorShapeType {
	switch h {
	case hittest.HandleNW, hittest.HandleSE:
		return ebiten.CursorShapeNWSEResize
	case hittest.HandleNE, hittest.HandleSW:
		return ebiten.CursorShapeNESWResize
	case hittest.HandleN, hittest.HandleS:
		return ebiten.CursorShapeNSResize
	default:
		return ebiten.CursorShapeEWResize
	}
}
