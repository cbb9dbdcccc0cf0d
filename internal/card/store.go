package card

// Store is the authoritative in-memory card list plus the selection
// set. Slice index order is the stacking order: the last card draws on
// top. All mutations replace the backing slice so a snapshot taken by
// the renderer stays internally consistent.
//
// The store is confined to the UI goroutine and needs no locking;
// asynchronous completions hand their results back to that goroutine
// before touching it.
type Store struct {
	cards    []Card
	selected map[string]struct{}
}

func NewStore() *Store {
	return &Store{selected: map[string]struct{}{}}
}

// Cards returns the current snapshot in stacking order. Callers must
// not mutate the returned slice.
func (s *Store) Cards() []Card {
	return s.cards
}

func (s *Store) Len() int { return len(s.cards) }

func (s *Store) Get(id string) (Card, bool) {
	for _, c := range s.cards {
		if c.ID == id {
			return c, true
		}
	}
	return Card{}, false
}

// Add appends the card on top of the stack.
func (s *Store) Add(c Card) {
	next := make([]Card, len(s.cards)+1)
	copy(next, s.cards)
	next[len(s.cards)] = c
	s.cards = next
}

// Replace swaps the card with the same ID in place, keeping its
// stacking position. Unknown IDs are ignored.
func (s *Store) Replace(c Card) {
	for i := range s.cards {
		if s.cards[i].ID == c.ID {
			next := make([]Card, len(s.cards))
			copy(next, s.cards)
			next[i] = c
			s.cards = next
			return
		}
	}
}

// Upsert replaces the card by ID or appends it when locally unknown.
// Remote update events use this so an update can also introduce a card.
func (s *Store) Upsert(c Card) {
	if _, ok := s.Get(c.ID); ok {
		s.Replace(c)
		return
	}
	s.Add(c)
}

// Remove drops the given IDs from the list and the selection set.
func (s *Store) Remove(ids ...string) {
	if len(ids) == 0 {
		return
	}
	drop := make(map[string]struct{}, len(ids))
	for _, id := range ids {
		drop[id] = struct{}{}
		delete(s.selected, id)
	}
	next := make([]Card, 0, len(s.cards))
	for _, c := range s.cards {
		if _, gone := drop[c.ID]; !gone {
			next = append(next, c)
		}
	}
	s.cards = next
}

// SetAll replaces the whole collection, e.g. after the initial remote
// load. The selection is cleared.
func (s *Store) SetAll(cards []Card) {
	s.cards = append([]Card(nil), cards...)
	s.selected = map[string]struct{}{}
}

func (s *Store) ToggleSelect(id string) {
	if _, ok := s.selected[id]; ok {
		delete(s.selected, id)
		return
	}
	s.selected[id] = struct{}{}
}

// SelectOnly replaces the selection with the single given card.
func (s *Store) SelectOnly(id string) {
	s.selected = map[string]struct{}{id: {}}
}

func (s *Store) Select(id string) {
	s.selected[id] = struct{}{}
}

func (s *Store) ClearSelection() {
	if len(s.selected) > 0 {
		s.selected = map[string]struct{}{}
	}
}

func (s *Store) IsSelected(id string) bool {
	_, ok := s.selected[id]
	return ok
}

func (s *Store) SelectionSize() int { return len(s.selected) }

// SelectedIDs returns the selection in stacking order.
func (s *Store) SelectedIDs() []string {
	ids := make([]string, 0, len(s.selected))
	for _, c := range s.cards {
		if _, ok := s.selected[c.ID]; ok {
			ids = append(ids, c.ID)
		}
	}
	return ids
}
