package card

import (
	"testing"

	"driftboard/internal/geom"
)

func textCard(id string) Card {
	return NewText(id, "t", geom.Vec{})
}

func TestStoreAddKeepsStackingOrder(t *testing.T) {
	s := NewStore()
	s.Add(textCard("a"))
	s.Add(textCard("b"))
	s.Add(textCard("c"))

	cards := s.Cards()
	if len(cards) != 3 || cards[0].ID != "a" || cards[2].ID != "c" {
		t.Fatalf("unexpected order %v", cards)
	}
}

func TestStoreReplaceKeepsPosition(t *testing.T) {
	s := NewStore()
	s.Add(textCard("a"))
	s.Add(textCard("b"))

	moved := textCard("a")
	moved.X = 77
	snapshot := s.Cards()
	s.Replace(moved)

	if got, _ := s.Get("a"); got.X != 77 {
		t.Fatalf("replace lost mutation: %+v", got)
	}
	if s.Cards()[0].ID != "a" {
		t.Fatalf("replace changed stacking order")
	}
	// Mutations must not write through snapshots held by the renderer.
	if snapshot[0].X == 77 {
		t.Fatalf("replace mutated a previously taken snapshot")
	}
}

func TestStoreUpsertInsertsUnknown(t *testing.T) {
	s := NewStore()
	s.Add(textCard("a"))
	s.Upsert(textCard("b"))
	if s.Len() != 2 {
		t.Fatalf("upsert should insert unknown card")
	}
	upd := textCard("a")
	upd.Text = "changed"
	s.Upsert(upd)
	if got, _ := s.Get("a"); got.Text != "changed" {
		t.Fatalf("upsert should replace known card")
	}
	if s.Len() != 2 {
		t.Fatalf("upsert duplicated a card")
	}
}

func TestStoreRemoveDropsSelection(t *testing.T) {
	s := NewStore()
	s.Add(textCard("a"))
	s.Add(textCard("b"))
	s.Select("a")
	s.Select("b")

	s.Remove("a")

	if s.Len() != 1 || s.IsSelected("a") {
		t.Fatalf("remove left traces of card a")
	}
	if !s.IsSelected("b") {
		t.Fatalf("remove dropped unrelated selection")
	}
}

func TestToggleSelectIsInvolutive(t *testing.T) {
	s := NewStore()
	s.Add(textCard("a"))

	s.ToggleSelect("a")
	if !s.IsSelected("a") {
		t.Fatalf("first toggle should select")
	}
	s.ToggleSelect("a")
	if s.IsSelected("a") || s.SelectionSize() != 0 {
		t.Fatalf("second toggle should restore prior state")
	}
}

func TestSelectOnlyReplacesSelection(t *testing.T) {
	s := NewStore()
	s.Add(textCard("a"))
	s.Add(textCard("b"))
	s.Select("a")

	s.SelectOnly("b")

	if s.IsSelected("a") || !s.IsSelected("b") || s.SelectionSize() != 1 {
		t.Fatalf("unexpected selection %v", s.SelectedIDs())
	}
}

func TestDeleteSelectedScenario(t *testing.T) {
	s := NewStore()
	s.Add(textCard("a"))
	s.Add(textCard("b"))
	s.Add(textCard("c"))
	s.Select("a")
	s.Select("c")

	ids := s.SelectedIDs()
	s.Remove(ids...)

	if s.SelectionSize() != 0 {
		t.Fatalf("selection not emptied")
	}
	if s.Len() != 1 {
		t.Fatalf("expected exactly the selected cards removed, left %d", s.Len())
	}
	if _, ok := s.Get("b"); !ok {
		t.Fatalf("unselected card was removed")
	}
}

func TestSelectedIDsInStackingOrder(t *testing.T) {
	s := NewStore()
	s.Add(textCard("x"))
	s.Add(textCard("y"))
	s.Add(textCard("z"))
	s.Select("z")
	s.Select("x")

	ids := s.SelectedIDs()
	if len(ids) != 2 || ids[0] != "x" || ids[1] != "z" {
		t.Fatalf("unexpected order %v", ids)
	}
}
