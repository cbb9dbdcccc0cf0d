package app

import (
	"strings"
	"unicode/utf8"

	"github.com/atotto/clipboard"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"

	"driftboard/internal/card"
	"driftboard/internal/geom"
)

const editorMaxLen = 4000

// textEditor is the floating input shown over the canvas. With an
// editID it rewrites that card's text; without one it creates a new
// card at the world anchor on commit.
type textEditor struct {
	editID string
	world  geom.Vec
	input  string
}

func (a *App) openEditor(world geom.Vec, editID string) {
	ed := &textEditor{editID: editID, world: world}
	if editID != "" {
		if c, ok := a.store.Get(editID); ok {
			ed.input = c.Text
			ed.world = geom.Vec{X: c.X, Y: c.Y}
		}
	}
	a.editor = ed
	a.machine.SetEditorOpen(true)
	a.machine.CancelPendingPaste()
}

func (a *App) closeEditor() {
	a.editor = nil
	a.machine.SetEditorOpen(false)
}

// handleEditorInput consumes keyboard input while the editor is open.
func (a *App) handleEditorInput(ctrl bool) {
	ed := a.editor

	if inpututil.IsKeyJustPressed(ebiten.KeyEscape) {
		a.closeEditor()
		return
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyEnter) || inpututil.IsKeyJustPressed(ebiten.KeyKPEnter) {
		if ctrl {
			a.commitEditor()
			return
		}
		if len(ed.input) < editorMaxLen {
			ed.input += "\n"
		}
		return
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyBackspace) {
		if len(ed.input) > 0 {
			_, size := utf8.DecodeLastRuneInString(ed.input)
			if size <= 0 {
				size = 1
			}
			ed.input = ed.input[:len(ed.input)-size]
		}
		return
	}
	if ctrl && inpututil.IsKeyJustPressed(ebiten.KeyV) {
		if clip, err := clipboard.ReadAll(); err == nil && clip != "" {
			ed.input += clip
			if len(ed.input) > editorMaxLen {
				ed.input = ed.input[:editorMaxLen]
			}
		}
		return
	}
	for _, r := range ebiten.AppendInputChars(nil) {
		if r < 0x20 || r == 0x7F || !utf8.ValidRune(r) {
			continue
		}
		if len(ed.input) >= editorMaxLen {
			break
		}
		ed.input += string(r)
	}
}

func (a *App) commitEditor() {
	ed := a.editor
	a.closeEditor()
	if strings.TrimSpace(ed.input) == "" {
		return
	}
	if ed.editID != "" {
		// Edits keep the text verbatim so deliberate leading or
		// trailing whitespace survives a reopen.
		c, ok := a.store.Get(ed.editID)
		if !ok {
			return
		}
		c.Text = ed.input
		a.store.Replace(c)
		a.scheduleSave(c)
		return
	}
	c := card.NewText(card.NewID(), strings.TrimSpace(ed.input), ed.world)
	a.store.Add(c)
	a.scheduleSave(c)
}

func (a *App) editCard(id string) {
	if c, ok := a.store.Get(id); ok {
		a.openEditor(geom.Vec{X: c.X, Y: c.Y}, c.ID)
	}
}
