package ui

import (
	"driftboard/internal/geom"
	"driftboard/internal/minimap"
	"driftboard/internal/render"
)

// Layout places the fixed overlay chrome: the minimap panel, the zoom
// badge next to it, the collapsible guide, and the toast anchor. All
// values are in screen pixels at the given display scale.
type Layout struct {
	MiniMap   geom.Rect
	ZoomBadge geom.Rect
	Guide     geom.Rect
	GuideTab  geom.Rect
	Toast     geom.Vec // top-center anchor, toasts grow downward
}

func ComputeLayout(w, h int, theme Theme, scale float64) Layout {
	if scale <= 0 {
		scale = 1
	}
	dp := func(v float64) float64 { return v * scale }

	margin := dp(float64(theme.MiniMapMargin))
	mmW := dp(minimap.Width)
	mmH := dp(minimap.Height)
	mm := geom.Rect{
		X: float64(w) - mmW - margin,
		Y: float64(h) - mmH - margin,
		W: mmW,
		H: mmH,
	}

	badgeW, badgeH := dp(74), dp(28)
	badge := geom.Rect{
		X: margin,
		Y: float64(h) - badgeH - margin,
		W: badgeW,
		H: badgeH,
	}

	guideW, guideH := dp(250), dp(176)
	guide := geom.Rect{X: margin, Y: margin, W: guideW, H: guideH}
	tab := geom.Rect{X: margin, Y: margin, W: dp(34), H: dp(28)}

	return Layout{
		MiniMap:   mm,
		ZoomBadge: badge,
		Guide:     guide,
		GuideTab:  tab,
		Toast:     geom.Vec{X: float64(w) / 2, Y: margin},
	}
}

// DrawBackdrop clears the framebuffer to the canvas color and draws the
// world grid at the viewport's scale and phase.
func DrawBackdrop(fb *render.FrameBuffer, vp geom.Viewport, theme Theme) {
	fb.Clear(theme.Canvas)
	fb.DrawGrid(50*vp.Scale, vp.Offset.X, vp.Offset.Y, theme.Grid)
}
