// Package app wires the whiteboard together: the ebiten game loop,
// pointer and keyboard input feeding the gesture machine, the card
// store and viewport, and the persistence bridge to the backend.
package app

import (
	"context"
	"fmt"
	"time"

	"github.com/charmbracelet/log"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"

	"driftboard/internal/card"
	"driftboard/internal/config"
	"driftboard/internal/gesture"
	"driftboard/internal/geom"
	"driftboard/internal/imagecache"
	"driftboard/internal/minimap"
	"driftboard/internal/remote"
	"driftboard/internal/render"
	"driftboard/internal/session"
	"driftboard/internal/textwrap"
	"driftboard/internal/ui"
)

// Card text layout constants, in world units; multiplied by the
// viewport scale at draw time.
const (
	cardFontSize   = 14.0
	cardLineHeight = 18.0
	cardPadding    = 10.0
	guideAutoHide  = 5 * time.Second
	wheelScrollPx  = 42.0
)

type App struct {
	theme ui.Theme
	log   *log.Logger
	cfg   config.Config

	store   *card.Store
	vp      geom.Viewport
	machine *gesture.Machine

	ctx    context.Context
	cancel context.CancelFunc
	client *remote.Client
	saver  *remote.Saver
	feed   *remote.Feed
	cache  *imagecache.Cache
	loaded   chan []card.Card
	picked   chan pickedImage
	uploaded chan uploadedImage

	fonts fontBank

	frameBuffer *render.FrameBuffer
	canvas      *ebiten.Image
	gpuImages   map[string]*ebiten.Image

	screenW int
	screenH int

	editor *textEditor
	menu   *contextMenu
	toasts []toast

	guideOpen    bool
	guideAutoAt  time.Time
	guidePinned  bool
	now          func() time.Time
	mouseActive  bool
	miniDrag     bool
	lastCursor   geom.Vec
	touchPos     map[ebiten.TouchID]geom.Vec
	touchScratch []ebiten.TouchID

	pickingFile    bool
	imageClipboard bool
	userEmail      string
}

// New builds the app. sess may be the zero Session for an anonymous
// local board. imageClipboard reports whether the image clipboard
// could be initialized on this platform.
func New(cfg config.Config, logger *log.Logger, sess session.Session, imageClipboard bool) *App {
	if logger == nil {
		logger = log.Default()
	}
	ctx, cancel := context.WithCancel(context.Background())

	a := &App{
		theme:          ui.DefaultTheme(),
		log:            logger,
		cfg:            cfg,
		store:          card.NewStore(),
		vp:             geom.Viewport{Scale: 1},
		ctx:            ctx,
		cancel:         cancel,
		loaded:         make(chan []card.Card, 1),
		picked:         make(chan pickedImage, 1),
		uploaded:       make(chan uploadedImage, 4),
		fonts:          newFontBank(),
		gpuImages:      map[string]*ebiten.Image{},
		guideOpen:      true,
		now:            time.Now,
		touchPos:       map[ebiten.TouchID]geom.Vec{},
		imageClipboard: imageClipboard,
		userEmail:      sess.Email,
	}
	a.guideAutoAt = a.now().Add(guideAutoHide)

	a.client = remote.NewClient(
		cfg.Backend.URL, cfg.Backend.AnonKey, cfg.Backend.Bucket,
		sess.UserID, sess.AccessToken, logger,
	)
	a.saver = remote.NewSaver(remote.SaveDebounce, a.saveNow)
	a.cache = imagecache.New(a.fetchImage)

	a.machine = gesture.New(a.store, &a.vp, gesture.Hooks{
		Save:        a.scheduleSave,
		OpenEditor:  a.openEditor,
		PasteAt:     a.pasteAt,
		CopyCard:    a.copyCard,
		ShowMenu:    a.openMenu,
		HideMenu:    func() { a.menu = nil },
		TextMetrics: a.textMetrics,
	}, nil)

	if a.client.Ready() {
		a.feed = remote.NewFeed(a.client, logger)
		go a.feed.Run(ctx)
		a.startInitialLoad()
		logger.Info("board online", "user", sess.UserID)
	} else {
		logger.Info("no backend configured, board is local only")
	}
	return a
}

func (a *App) Run() error {
	ebiten.SetWindowTitle("Driftboard")
	ebiten.SetWindowSize(1280, 800)
	ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)
	ebiten.SetWindowSizeLimits(800, 500, -1, -1)
	err := ebiten.RunGame(a)
	a.shutdown()
	if err != nil {
		return fmt.Errorf("run game loop: %w", err)
	}
	return nil
}

func (a *App) shutdown() {
	a.cancel()
	a.saver.Close()
	a.cache.Close()
}

func (a *App) Update() error {
	a.drainRemote()
	a.drainPicked()
	a.drainUploads()
	a.pruneToasts()
	if a.guideOpen && !a.guidePinned && a.now().After(a.guideAutoAt) {
		a.guideOpen = false
	}

	a.machine.SetBounds(float64(a.screenW), float64(a.screenH))
	ctrl := ebiten.IsKeyPressed(ebiten.KeyControl) || ebiten.IsKeyPressed(ebiten.KeyMeta)

	if a.editor != nil {
		a.handleEditorInput(ctrl)
		a.machine.Tick()
		return nil
	}

	if inpututil.IsKeyJustPressed(ebiten.KeyEscape) {
		switch {
		case a.menu != nil:
			a.menu = nil
		case a.store.SelectionSize() > 0:
			a.store.ClearSelection()
		default:
			return ebiten.Termination
		}
	}

	a.machine.SetSpace(ebiten.IsKeyPressed(ebiten.KeySpace))

	if inpututil.IsKeyJustPressed(ebiten.KeyDelete) || inpututil.IsKeyJustPressed(ebiten.KeyBackspace) {
		a.deleteSelection()
	}
	if ctrl && inpututil.IsKeyJustPressed(ebiten.KeyV) {
		a.pasteAt(a.vp.ScreenToWorld(a.lastCursor))
	}
	if ctrl && inpututil.IsKeyJustPressed(ebiten.KeyO) {
		a.openImageDialog()
	}

	a.updateMouse(ctrl)
	a.updateTouches()
	a.requestVisibleImages()
	a.machine.Tick()
	return nil
}

func (a *App) updateMouse(ctrl bool) {
	cx, cy := ebiten.CursorPosition()
	cur := geom.Vec{X: float64(cx), Y: float64(cy)}
	a.lastCursor = cur

	if inpututil.IsMouseButtonJustPressed(ebiten.MouseButtonLeft) {
		switch {
		case a.menuClick(cur):
		case a.overlayClick(cur):
		default:
			a.machine.PointerDown(0, gesture.Mouse, cur)
			a.mouseActive = true
		}
	} else if ebiten.IsMouseButtonPressed(ebiten.MouseButtonLeft) {
		switch {
		case a.miniDrag:
			a.minimapJump(cur)
		case a.mouseActive:
			a.machine.PointerMove(0, gesture.Mouse, cur)
		}
	} else if inpututil.IsMouseButtonJustReleased(ebiten.MouseButtonLeft) {
		a.miniDrag = false
		if a.mouseActive {
			a.machine.PointerUp(0, gesture.Mouse, cur)
			a.mouseActive = false
		}
	} else {
		a.machine.PointerMove(0, gesture.Mouse, cur)
	}

	if inpututil.IsMouseButtonJustPressed(ebiten.MouseButtonRight) {
		a.machine.RightClick(cur)
	}

	if _, wy := ebiten.Wheel(); wy != 0 {
		a.machine.Wheel(cur, -wy*wheelScrollPx, ctrl)
	}

	a.updateCursorShape()
}

func (a *App) updateTouches() {
	a.touchScratch = inpututil.AppendJustPressedTouchIDs(a.touchScratch[:0])
	for _, id := range a.touchScratch {
		x, y := ebiten.TouchPosition(id)
		pos := geom.Vec{X: float64(x), Y: float64(y)}
		a.touchPos[id] = pos
		a.machine.PointerDown(int(id)+1, gesture.Touch, pos)
	}

	a.touchScratch = ebiten.AppendTouchIDs(a.touchScratch[:0])
	active := map[ebiten.TouchID]struct{}{}
	for _, id := range a.touchScratch {
		active[id] = struct{}{}
		x, y := ebiten.TouchPosition(id)
		pos := geom.Vec{X: float64(x), Y: float64(y)}
		if prev, ok := a.touchPos[id]; !ok || prev != pos {
			a.touchPos[id] = pos
			a.machine.PointerMove(int(id)+1, gesture.Touch, pos)
		}
	}

	for id, pos := range a.touchPos {
		if _, ok := active[id]; ok {
			continue
		}
		a.machine.PointerUp(int(id)+1, gesture.Touch, pos)
		delete(a.touchPos, id)
	}
}

// requestVisibleImages keeps the cache warm for every image card on
// the board (fetches are deduplicated by the cache) and drops GPU
// textures whose source no longer appears on any card.
func (a *App) requestVisibleImages() {
	live := map[string]struct{}{}
	for _, c := range a.store.Cards() {
		if c.Kind == card.KindImage {
			live[c.Src] = struct{}{}
			a.cache.Request(a.ctx, c.Src)
		}
	}
	for src, gpu := range a.gpuImages {
		if _, ok := live[src]; ok {
			continue
		}
		if gpu != nil {
			gpu.Deallocate()
		}
		delete(a.gpuImages, src)
	}
}

func (a *App) updateCursorShape() {
	shape := ebiten.CursorShapeDefault
	switch {
	case a.machine.State() == gesture.StatePanning || a.machine.SpaceHeld():
		shape = ebiten.CursorShapeMove
	case a.machine.State() == gesture.StateDragging:
		shape = ebiten.CursorShapeMove
	default:
		if h := a.machine.ResizeHandle(); h != "" {
			shape = cursorForHandle(h)
		} else if id, _ := a.machine.Hover(); id != "" {
			shape = ebiten.CursorShapePointer
		}
	}
	if ebiten.CursorShape() != shape {
		ebiten.SetCursorShape(shape)
	}
}

// overlayClick handles presses on fixed chrome before they reach the
// canvas: minimap jumps, the zoom badge reset, and the guide toggle.
func (a *App) overlayClick(p geom.Vec) bool {
	layout := ui.ComputeLayout(a.screenW, a.screenH, a.theme, 1)

	if layout.MiniMap.Contains(p) {
		a.minimapJump(p)
		a.miniDrag = true
		return true
	}
	if layout.ZoomBadge.Contains(p) {
		center := geom.Vec{X: float64(a.screenW) / 2, Y: float64(a.screenH) / 2}
		a.vp.ZoomAt(center, 1)
		return true
	}
	if a.guideOpen && layout.Guide.Contains(p) {
		a.guideOpen = false
		return true
	}
	if !a.guideOpen && layout.GuideTab.Contains(p) {
		a.guideOpen = true
		a.guidePinned = true
		return true
	}
	return false
}

// minimapJump recenters the viewport on the world point under a
// minimap-panel position. While the press is captured it runs on every
// move, so dragging across the panel scrubs the view.
func (a *App) minimapJump(p geom.Vec) {
	layout := ui.ComputeLayout(a.screenW, a.screenH, a.theme, 1)
	proj := a.minimapProjection()
	local := geom.Vec{
		X: geom.Clamp(p.X-layout.MiniMap.X, 0, layout.MiniMap.W),
		Y: geom.Clamp(p.Y-layout.MiniMap.Y, 0, layout.MiniMap.H),
	}
	a.vp.CenterOn(proj.ToWorld(local), float64(a.screenW), float64(a.screenH))
}

func (a *App) minimapProjection() minimap.Projection {
	tl := a.vp.ScreenToWorld(geom.Vec{})
	br := a.vp.ScreenToWorld(geom.Vec{X: float64(a.screenW), Y: float64(a.screenH)})
	return minimap.Project(a.store.Cards(), tl, br)
}

// textMetrics reports a text card's wrapped content height and
// viewport height in screen pixels at the current zoom.
func (a *App) textMetrics(c card.Card) (content, viewport float64) {
	scale := a.vp.Scale
	face := a.fonts.face(cardFontSize, false, scale)
	budget := (c.W - 2*cardPadding) * scale
	lines := textwrap.Wrap(c.Text, budget, func(s string) float64 {
		return measureString(face, s)
	})
	lineH := cardLineHeight * scale
	content = textwrap.ContentHeight(lines, lineH)
	viewport = c.H*scale - 2*cardPadding*scale
	return content, viewport
}

func (a *App) Layout(outsideWidth, outsideHeight int) (int, int) {
	if outsideWidth < 800 {
		outsideWidth = 800
	}
	if outsideHeight < 500 {
		outsideHeight = 500
	}
	a.screenW = outsideWidth
	a.screenH = outsideHeight
	return outsideWidth, outsideHeight
}
