// Package gesture unifies mouse and touch pointers into the canvas
// interactions: drag, resize, pan, pinch-zoom, click/paste, long-press
// edit, hover tracking and the context menu. The machine owns no I/O;
// every externally visible effect goes through Hooks so the whole state
// machine is testable with a fake clock.
package gesture

import (
	"math"
	"time"

	"driftboard/internal/card"
	"driftboard/internal/geom"
	"driftboard/internal/hittest"
)

type State int

const (
	StateIdle State = iota
	StatePanning
	StateDragging
	StateResizing
	StatePinching
)

type PointerKind int

const (
	Mouse PointerKind = iota
	Touch
)

const (
	// MoveThreshold is the screen-pixel distance past which a gesture
	// counts as "moved" and no longer produces a click.
	MoveThreshold = 2
	// LongPressDelay opens the editor for a touch held on a text card.
	LongPressDelay = 500 * time.Millisecond
	// PasteDelay defers the empty-canvas paste so a following
	// double-click can cancel it.
	PasteDelay = 220 * time.Millisecond
	// DoubleClickWindow is the max gap between two clicks that form a
	// double-click.
	DoubleClickWindow = 300 * time.Millisecond
	// DoubleClickSlop is the max pointer travel between those clicks.
	DoubleClickSlop = 6
)

// Hooks are the effects the machine can trigger. Nil hooks are skipped.
type Hooks struct {
	// Save schedules a debounced persist of the card.
	Save func(card.Card)
	// OpenEditor shows the text editor at the world position; editID is
	// empty in create mode.
	OpenEditor func(world geom.Vec, editID string)
	// PasteAt attempts a clipboard paste onto empty canvas.
	PasteAt func(world geom.Vec)
	// CopyCard copies a text card's content; screen is where to show
	// the confirmation.
	CopyCard func(c card.Card, screen geom.Vec)
	// ShowMenu opens the context menu for the card at the screen point.
	ShowMenu func(screen geom.Vec, c card.Card)
	// HideMenu closes the context menu.
	HideMenu func()
	// TextMetrics reports content and viewport heights of a text card's
	// wrapped content, in screen pixels at the current scale. Used for
	// wheel scrolling.
	TextMetrics func(c card.Card) (content, viewport float64)
}

type pointer struct {
	pos  geom.Vec
	kind PointerKind
}

type dragState struct {
	id   string
	grab geom.Vec // world point minus card origin at gesture start
}

type resizeState struct {
	id         string
	handle     hittest.Handle
	initRect   geom.Rect
	startWorld geom.Vec
}

type pinchState struct {
	initialDistance float64
	initialScale    float64
	centerWorld     geom.Vec
}

type longPress struct {
	pointerID int
	cardID    string
	deadline  time.Time
}

type pendingPaste struct {
	world    geom.Vec
	deadline time.Time
}

type Machine struct {
	store *card.Store
	vp    *geom.Viewport
	hooks Hooks
	now   func() time.Time

	bounds   geom.Vec // canvas size in screen pixels
	pointers map[int]pointer
	last     geom.Vec
	haveLast bool
	start    geom.Vec
	moved    bool

	state      State
	spaceHeld  bool
	editorOpen bool

	drag       *dragState
	resize     *resizeState
	panAnchor  geom.Vec
	panPointer int
	pinch      *pinchState
	pinched    bool // a pinch happened at some point in this gesture

	hoverID     string
	hoverHandle hittest.Handle

	long         *longPress
	paste        *pendingPaste
	lastClickAt  time.Time
	lastClickPos geom.Vec
}

func New(store *card.Store, vp *geom.Viewport, hooks Hooks, now func() time.Time) *Machine {
	if now == nil {
		now = time.Now
	}
	return &Machine{
		store:      store,
		vp:         vp,
		hooks:      hooks,
		now:        now,
		pointers:   map[int]pointer{},
		panPointer: -1,
	}
}

func (m *Machine) State() State { return m.state }

// Hover returns the card and handle currently under an idle pointer.
func (m *Machine) Hover() (string, hittest.Handle) { return m.hoverID, m.hoverHandle }

// ActiveCard returns the card being dragged or resized, if any.
func (m *Machine) ActiveCard() string {
	if m.drag != nil {
		return m.drag.id
	}
	if m.resize != nil {
		return m.resize.id
	}
	return ""
}

// ResizeHandle returns the handle driving an active resize, or the
// hovered handle; used for the cursor shape.
func (m *Machine) ResizeHandle() hittest.Handle {
	if m.resize != nil {
		return m.resize.handle
	}
	return m.hoverHandle
}

func (m *Machine) SpaceHeld() bool { return m.spaceHeld }

// SetBounds tells the machine the canvas size, used to validate the
// remembered wheel anchor.
func (m *Machine) SetBounds(w, h float64) { m.bounds = geom.Vec{X: w, Y: h} }

// SetSpace arms or disarms space-to-pan. Ignored while the editor is
// open; releasing space always ends an active pan.
func (m *Machine) SetSpace(held bool) {
	if held && m.editorOpen {
		return
	}
	m.spaceHeld = held
	if !held && m.state == StatePanning {
		m.state = StateIdle
		m.panPointer = -1
	}
}

func (m *Machine) SetEditorOpen(open bool) { m.editorOpen = open }

func (m *Machine) touchPoints() []geom.Vec {
	pts := make([]geom.Vec, 0, 2)
	for _, p := range m.pointers {
		if p.kind == Touch {
			pts = append(pts, p.pos)
		}
	}
	return pts
}

func (m *Machine) cancelLongPress(pointerID int) {
	if m.long != nil && (pointerID < 0 || m.long.pointerID == pointerID) {
		m.long = nil
	}
}

// CancelPendingPaste drops a scheduled empty-canvas paste.
func (m *Machine) CancelPendingPaste() { m.paste = nil }

func (m *Machine) PointerDown(id int, kind PointerKind, screen geom.Vec) {
	m.CancelPendingPaste()
	if m.hooks.HideMenu != nil {
		m.hooks.HideMenu()
	}
	m.cancelLongPress(-1)

	if len(m.pointers) == 0 {
		m.pinched = false
	}
	m.start = screen
	m.last = screen
	m.haveLast = true
	m.moved = false
	m.pointers[id] = pointer{pos: screen, kind: kind}

	if pts := m.touchPoints(); len(pts) >= 2 {
		d := dist(pts[0], pts[1])
		if d == 0 {
			d = 1
		}
		center := geom.Vec{X: (pts[0].X + pts[1].X) / 2, Y: (pts[0].Y + pts[1].Y) / 2}
		m.pinch = &pinchState{
			initialDistance: d,
			initialScale:    m.vp.Scale,
			centerWorld:     m.vp.ScreenToWorld(center),
		}
		m.pinched = true
		m.drag = nil
		m.resize = nil
		m.panPointer = -1
		m.state = StatePinching
		return
	}
	m.pinch = nil

	if m.spaceHeld {
		m.state = StatePanning
		m.panPointer = id
		m.panAnchor = m.vp.ScreenToWorld(screen)
		return
	}

	world := m.vp.ScreenToWorld(screen)
	cards := m.store.Cards()

	if c, h, ok := hittest.HandleAt(cards, *m.vp, screen); ok {
		m.resize = &resizeState{id: c.ID, handle: h, initRect: c.Rect(), startWorld: world}
		m.state = StateResizing
		return
	}

	if c, ok := hittest.CardAt(cards, world); ok {
		m.drag = &dragState{id: c.ID, grab: world.Sub(geom.Vec{X: c.X, Y: c.Y})}
		m.state = StateDragging
		if kind == Touch && c.Kind == card.KindText {
			m.long = &longPress{pointerID: id, cardID: c.ID, deadline: m.now().Add(LongPressDelay)}
		}
		return
	}

	// Empty background: clear selection; touch pans immediately.
	m.store.ClearSelection()
	if kind == Touch {
		m.state = StatePanning
		m.panPointer = id
		m.panAnchor = world
	}
}

func (m *Machine) PointerMove(id int, kind PointerKind, screen geom.Vec) {
	if p, ok := m.pointers[id]; ok {
		p.pos = screen
		m.pointers[id] = p
	}

	if !m.moved {
		if math.Abs(screen.X-m.start.X) > MoveThreshold || math.Abs(screen.Y-m.start.Y) > MoveThreshold {
			m.moved = true
			m.cancelLongPress(id)
		}
	}

	if m.pinch != nil {
		if pts := m.touchPoints(); len(pts) >= 2 {
			d := dist(pts[0], pts[1])
			if d == 0 {
				d = 1
			}
			newScale := geom.ClampScale(m.pinch.initialScale * d / m.pinch.initialDistance)
			center := geom.Vec{X: (pts[0].X + pts[1].X) / 2, Y: (pts[0].Y + pts[1].Y) / 2}
			m.vp.Scale = newScale
			m.vp.Offset = center.Sub(m.pinch.centerWorld.Scale(newScale))
			m.last = screen
			return
		}
	}

	if m.state == StatePanning {
		if m.panPointer < 0 || m.panPointer == id || kind != Touch {
			m.vp.PanTo(m.panAnchor, screen)
			m.last = screen
		}
		return
	}

	world := m.vp.ScreenToWorld(screen)

	if m.resize != nil {
		r := m.resize.handle.Resize(m.resize.initRect, world.X-m.resize.startWorld.X, world.Y-m.resize.startWorld.Y)
		if c, ok := m.store.Get(m.resize.id); ok {
			c.X, c.Y, c.W, c.H = r.X, r.Y, r.W, r.H
			m.store.Replace(c)
			if m.hooks.Save != nil {
				m.hooks.Save(c)
			}
		}
		m.last = screen
		return
	}

	if m.drag != nil {
		if c, ok := m.store.Get(m.drag.id); ok {
			c.X = world.X - m.drag.grab.X
			c.Y = world.Y - m.drag.grab.Y
			m.store.Replace(c)
			if m.hooks.Save != nil {
				m.hooks.Save(c)
			}
		}
		m.last = screen
		return
	}

	m.hoverID, m.hoverHandle, _ = hittest.HoverAt(m.store.Cards(), *m.vp, screen)
	m.last = screen
}

// PointerUp ends the pointer's gesture and, when nothing moved, emits
// the click semantics (selection toggle, deferred paste, double-click).
func (m *Machine) PointerUp(id int, _ PointerKind, screen geom.Vec) {
	wasPanning := m.state == StatePanning
	m.cancelLongPress(id)
	m.release(id)

	if m.moved || wasPanning || m.pinched || m.spaceHeld || m.editorOpen {
		return
	}

	now := m.now()
	isDouble := now.Sub(m.lastClickAt) <= DoubleClickWindow &&
		math.Abs(screen.X-m.lastClickPos.X) <= DoubleClickSlop &&
		math.Abs(screen.Y-m.lastClickPos.Y) <= DoubleClickSlop
	m.lastClickAt = now
	m.lastClickPos = screen

	world := m.vp.ScreenToWorld(screen)
	clicked, hit := hittest.CardAt(m.store.Cards(), world)

	if isDouble {
		m.CancelPendingPaste()
		if hit {
			if clicked.Kind == card.KindText && m.hooks.CopyCard != nil {
				m.hooks.CopyCard(clicked, screen)
			}
			return
		}
		if m.hooks.OpenEditor != nil {
			m.hooks.OpenEditor(world, "")
		}
		return
	}

	if hit {
		m.store.ToggleSelect(clicked.ID)
		return
	}
	m.paste = &pendingPaste{world: world, deadline: now.Add(PasteDelay)}
}

// PointerCancel ends the gesture without click semantics.
func (m *Machine) PointerCancel(id int) {
	m.cancelLongPress(id)
	m.release(id)
}

func (m *Machine) release(id int) {
	delete(m.pointers, id)
	if m.panPointer == id {
		m.panPointer = -1
	}
	if len(m.touchPoints()) < 2 {
		m.pinch = nil
	}
	m.drag = nil
	m.resize = nil
	if m.state != StatePanning || m.panPointer < 0 {
		m.state = StateIdle
	}
}

// RightClick selects exactly the card under the pointer and opens the
// context menu, or clears both on empty space.
func (m *Machine) RightClick(screen geom.Vec) {
	m.CancelPendingPaste()
	world := m.vp.ScreenToWorld(screen)
	if c, ok := hittest.CardAt(m.store.Cards(), world); ok {
		m.store.SelectOnly(c.ID)
		if m.hooks.ShowMenu != nil {
			m.hooks.ShowMenu(screen, c)
		}
		return
	}
	if m.hooks.HideMenu != nil {
		m.hooks.HideMenu()
	}
	m.store.ClearSelection()
}

// Wheel handles scroll input. With the zoom modifier held it zooms
// around the last known in-bounds pointer position (falling back to
// the event position); otherwise it scrolls the text card under the
// pointer when its content overflows.
func (m *Machine) Wheel(event geom.Vec, deltaY float64, zoomMod bool) {
	anchor := event
	if m.haveLast && m.last.X >= 0 && m.last.Y >= 0 &&
		(m.bounds.X <= 0 || (m.last.X <= m.bounds.X && m.last.Y <= m.bounds.Y)) {
		anchor = m.last
	}

	if zoomMod {
		factor := 1.1
		if deltaY > 0 {
			factor = 0.9
		}
		m.vp.ZoomAt(anchor, m.vp.Scale*factor)
		return
	}

	if m.hooks.TextMetrics == nil {
		return
	}
	world := m.vp.ScreenToWorld(anchor)
	cards := m.store.Cards()
	for i := len(cards) - 1; i >= 0; i-- {
		c := cards[i]
		if c.Kind != card.KindText || !c.Rect().Contains(world) {
			continue
		}
		content, viewport := m.hooks.TextMetrics(c)
		if content > viewport {
			maxScroll := content - viewport
			c.ScrollY = geom.Clamp(c.ScrollY+deltaY, 0, maxScroll)
			m.store.Replace(c)
			if m.hooks.Save != nil {
				m.hooks.Save(c)
			}
		}
		break
	}
}

// Tick fires due timers: the long-press editor and the deferred paste.
// Call once per frame.
func (m *Machine) Tick() {
	now := m.now()

	if m.long != nil && !now.Before(m.long.deadline) {
		lp := m.long
		m.long = nil
		if !m.moved {
			if c, ok := m.store.Get(lp.cardID); ok {
				m.drag = nil
				m.resize = nil
				m.state = StateIdle
				m.store.Select(c.ID)
				if m.hooks.OpenEditor != nil {
					m.hooks.OpenEditor(geom.Vec{X: c.X, Y: c.Y}, c.ID)
				}
			}
		}
	}

	if m.paste != nil && !now.Before(m.paste.deadline) {
		p := m.paste
		m.paste = nil
		if m.hooks.PasteAt != nil {
			m.hooks.PasteAt(p.world)
		}
	}
}

func dist(a, b geom.Vec) float64 {
	dx := b.X - a.X
	dy := b.Y - a.Y
	return math.Sqrt(dx*dx + dy*dy)
}
