package app

import (
	"driftboard/internal/card"
	"driftboard/internal/geom"
)

const (
	menuItemH = 28.0
	menuWidth = 140.0
)

type menuItem struct {
	label  string
	action func()
}

type contextMenu struct {
	pos   geom.Vec
	items []menuItem
}

func (m *contextMenu) rect() geom.Rect {
	return geom.Rect{X: m.pos.X, Y: m.pos.Y, W: menuWidth, H: menuItemH * float64(len(m.items))}
}

func (m *contextMenu) itemRect(i int) geom.Rect {
	return geom.Rect{X: m.pos.X, Y: m.pos.Y + menuItemH*float64(i), W: menuWidth, H: menuItemH}
}

func (m *contextMenu) itemAt(p geom.Vec) (menuItem, bool) {
	for i, it := range m.items {
		if m.itemRect(i).Contains(p) {
			return it, true
		}
	}
	return menuItem{}, false
}

func (a *App) openMenu(screen geom.Vec, c card.Card) {
	items := []menuItem{}
	if c.Kind == card.KindText {
		id := c.ID
		items = append(items,
			menuItem{label: "Edit text", action: func() { a.editCard(id) }},
			menuItem{label: "Copy text", action: func() { a.copyCardText(id) }},
		)
	}
	items = append(items, menuItem{label: "Delete", action: a.deleteSelection})

	// Keep the menu on screen.
	pos := screen
	if pos.X+menuWidth > float64(a.screenW) {
		pos.X = float64(a.screenW) - menuWidth
	}
	if pos.Y+menuItemH*float64(len(items)) > float64(a.screenH) {
		pos.Y = float64(a.screenH) - menuItemH*float64(len(items))
	}
	a.menu = &contextMenu{pos: pos, items: items}
}

// menuClick runs the item under p. Returns true when the click was
// consumed by the menu (including a dismissing outside click).
func (a *App) menuClick(p geom.Vec) bool {
	if a.menu == nil {
		return false
	}
	m := a.menu
	if it, ok := m.itemAt(p); ok {
		a.menu = nil
		it.action()
		return true
	}
	a.menu = nil
	return true
}
