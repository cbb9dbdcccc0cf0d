package app

import (
	"os"
	"strings"

	"github.com/atotto/clipboard"
	"github.com/sqweek/dialog"
	imgclip "golang.design/x/clipboard"

	"driftboard/internal/card"
	"driftboard/internal/geom"
)

// pasteAt creates a card from the clipboard at the world point. An
// image wins over text when both are present, matching how browsers
// order clipboard items.
func (a *App) pasteAt(world geom.Vec) {
	if a.imageClipboard {
		if data := imgclip.Read(imgclip.FmtImage); len(data) > 0 {
			a.addImageCard(world, data)
			return
		}
	}
	if s, err := clipboard.ReadAll(); err == nil && a.addTextCard(world, s) {
		return
	}
	a.showToast("Clipboard is empty")
}

// addTextCard creates a text card from pasted text. The text is
// trimmed; whitespace-only input creates nothing.
func (a *App) addTextCard(world geom.Vec, s string) bool {
	s = strings.TrimSpace(s)
	if s == "" {
		return false
	}
	c := card.NewText(card.NewID(), s, world)
	a.store.Add(c)
	a.scheduleSave(c)
	return true
}

// copyCard is the double-click hook.
func (a *App) copyCard(c card.Card, _ geom.Vec) {
	if err := clipboard.WriteAll(c.Text); err != nil {
		a.log.Warn("clipboard write", "err", err)
		return
	}
	a.showToast("Copied to clipboard")
}

func (a *App) copyCardText(id string) {
	if c, ok := a.store.Get(id); ok {
		a.copyCard(c, geom.Vec{})
	}
}

type pickedImage struct {
	data []byte
}

// openImageDialog runs the blocking file picker off the game loop and
// hands the bytes back through a channel drained by Update.
func (a *App) openImageDialog() {
	if a.pickingFile {
		return
	}
	a.pickingFile = true
	go func() {
		path, err := dialog.File().
			Title("Insert image").
			Filter("Images", "png", "jpg", "jpeg", "gif").
			Load()
		if err != nil {
			// Cancelled dialogs are routine, not failures.
			a.picked <- pickedImage{}
			return
		}
		data, err := os.ReadFile(path)
		if err != nil {
			a.log.Error("read image file", "path", path, "err", err)
			a.picked <- pickedImage{}
			return
		}
		a.picked <- pickedImage{data: data}
	}()
}

// drainPicked places a chosen file at the viewport center.
func (a *App) drainPicked() {
	select {
	case p := <-a.picked:
		a.pickingFile = false
		if len(p.data) == 0 {
			return
		}
		center := a.vp.ScreenToWorld(geom.Vec{
			X: float64(a.screenW) / 2,
			Y: float64(a.screenH) / 2,
		})
		a.addImageCard(center, p.data)
	default:
	}
}
