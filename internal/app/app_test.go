package app

import (
	"context"
	"io"
	"math"
	"testing"
	"time"

	"github.com/charmbracelet/log"
	"github.com/hajimehoshi/ebiten/v2"

	"driftboard/internal/card"
	"driftboard/internal/gesture"
	"driftboard/internal/geom"
	"driftboard/internal/imagecache"
	"driftboard/internal/remote"
	"driftboard/internal/ui"
)

// newTestApp builds an app without a window. backendURL may be empty
// for a local-only board.
func newTestApp(t *testing.T, backendURL string) *App {
	t.Helper()
	ctx, cancel := context.WithCancel(context.Background())
	a := &App{
		theme:     ui.DefaultTheme(),
		log:       log.New(io.Discard),
		store:     card.NewStore(),
		vp:        geom.Viewport{Scale: 1},
		ctx:       ctx,
		cancel:    cancel,
		loaded:    make(chan []card.Card, 1),
		picked:    make(chan pickedImage, 1),
		uploaded:  make(chan uploadedImage, 4),
		fonts:     newFontBank(),
		gpuImages: map[string]*ebiten.Image{},
		now:       time.Now,
		touchPos:  map[ebiten.TouchID]geom.Vec{},
		screenW:   1000,
		screenH:   700,
	}
	a.client = remote.NewClient(backendURL, "anon-key", "cards", "user-1", "", a.log)
	a.saver = remote.NewSaver(time.Millisecond, a.saveNow)
	a.cache = imagecache.New(a.fetchImage)
	a.machine = gesture.New(a.store, &a.vp, gesture.Hooks{
		Save:        a.scheduleSave,
		TextMetrics: a.textMetrics,
	}, nil)
	t.Cleanup(a.shutdown)
	return a
}

func TestHandlesShownOnHoverAndDrag(t *testing.T) {
	a := newTestApp(t, "")
	c := card.NewText(card.NewID(), "hi", geom.Vec{X: 100, Y: 100})
	a.store.Add(c)

	if a.showsHandles(c) {
		t.Fatalf("idle unselected card should not show handles")
	}

	a.machine.PointerMove(0, gesture.Mouse, geom.Vec{X: 150, Y: 130})
	if !a.showsHandles(c) {
		t.Fatalf("hovered card should show handles")
	}

	a.machine.PointerMove(0, gesture.Mouse, geom.Vec{X: 600, Y: 600})
	if a.showsHandles(c) {
		t.Fatalf("handles should disappear when the pointer leaves")
	}

	a.machine.PointerDown(0, gesture.Mouse, geom.Vec{X: 150, Y: 130})
	a.machine.PointerMove(0, gesture.Mouse, geom.Vec{X: 170, Y: 140})
	if !a.showsHandles(c) {
		t.Fatalf("card under an active drag should show handles")
	}
	a.machine.PointerUp(0, gesture.Mouse, geom.Vec{X: 170, Y: 140})

	a.store.SelectOnly(c.ID)
	a.machine.PointerMove(0, gesture.Mouse, geom.Vec{X: 600, Y: 600})
	if !a.showsHandles(c) {
		t.Fatalf("selected card should show handles")
	}
}

func TestMinimapPressCapturesAndRecenters(t *testing.T) {
	a := newTestApp(t, "")
	layout := ui.ComputeLayout(a.screenW, a.screenH, a.theme, 1)

	local := geom.Vec{X: 20, Y: 30}
	p := geom.Vec{X: layout.MiniMap.X + local.X, Y: layout.MiniMap.Y + local.Y}
	want := a.minimapProjection().ToWorld(local)

	if !a.overlayClick(p) {
		t.Fatalf("press inside the minimap should be consumed")
	}
	if !a.miniDrag {
		t.Fatalf("minimap press should capture subsequent moves")
	}
	center := a.vp.ScreenToWorld(geom.Vec{X: 500, Y: 350})
	if math.Abs(center.X-want.X) > 1e-6 || math.Abs(center.Y-want.Y) > 1e-6 {
		t.Fatalf("recentered on %+v, want %+v", center, want)
	}

	// Dragging across the panel keeps scrubbing the view.
	local2 := geom.Vec{X: 120, Y: 90}
	p2 := geom.Vec{X: layout.MiniMap.X + local2.X, Y: layout.MiniMap.Y + local2.Y}
	want2 := a.minimapProjection().ToWorld(local2)
	a.minimapJump(p2)
	center2 := a.vp.ScreenToWorld(geom.Vec{X: 500, Y: 350})
	if math.Abs(center2.X-want2.X) > 1e-6 || math.Abs(center2.Y-want2.Y) > 1e-6 {
		t.Fatalf("drag recentered on %+v, want %+v", center2, want2)
	}
}

func TestPasteTrimsText(t *testing.T) {
	a := newTestApp(t, "")

	if !a.addTextCard(geom.Vec{X: 10, Y: 10}, "  hello world \n") {
		t.Fatalf("non-empty text should create a card")
	}
	cards := a.store.Cards()
	if len(cards) != 1 {
		t.Fatalf("got %d cards, want 1", len(cards))
	}
	if cards[0].Text != "hello world" {
		t.Fatalf("pasted text %q, want trimmed %q", cards[0].Text, "hello world")
	}

	if a.addTextCard(geom.Vec{X: 10, Y: 10}, " \n\t ") {
		t.Fatalf("whitespace-only paste should be ignored")
	}
	if len(a.store.Cards()) != 1 {
		t.Fatalf("whitespace-only paste created a card")
	}
}

func TestEditKeepsTextVerbatim(t *testing.T) {
	a := newTestApp(t, "")
	c := card.NewText(card.NewID(), "old", geom.Vec{})
	a.store.Add(c)

	a.editor = &textEditor{editID: c.ID, input: "  kept as typed  "}
	a.machine.SetEditorOpen(true)
	a.commitEditor()
	got, ok := a.store.Get(c.ID)
	if !ok {
		t.Fatalf("card disappeared")
	}
	if got.Text != "  kept as typed  " {
		t.Fatalf("edited text %q, want it verbatim", got.Text)
	}

	// Whitespace-only edit leaves the card unchanged.
	a.editor = &textEditor{editID: c.ID, input: "   "}
	a.commitEditor()
	got, _ = a.store.Get(c.ID)
	if got.Text != "  kept as typed  " {
		t.Fatalf("whitespace-only edit changed the text to %q", got.Text)
	}

	// Creation still trims.
	a.editor = &textEditor{world: geom.Vec{X: 500}, input: "  new card  "}
	a.commitEditor()
	for _, cc := range a.store.Cards() {
		if cc.ID == c.ID {
			continue
		}
		if cc.Text != "new card" {
			t.Fatalf("created text %q, want trimmed %q", cc.Text, "new card")
		}
		return
	}
	t.Fatalf("commit did not create a card")
}

func TestStaleTexturesEvicted(t *testing.T) {
	a := newTestApp(t, "")
	a.gpuImages["user-1/kept.png"] = nil
	a.gpuImages["user-1/gone.png"] = nil
	a.store.Add(card.NewImage(card.NewID(), "user-1/kept.png", geom.Vec{}, 100, 80))

	a.requestVisibleImages()

	if _, ok := a.gpuImages["user-1/kept.png"]; !ok {
		t.Fatalf("texture for a live card was evicted")
	}
	if _, ok := a.gpuImages["user-1/gone.png"]; ok {
		t.Fatalf("texture for a removed card was kept")
	}
}
