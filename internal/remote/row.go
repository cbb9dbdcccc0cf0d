package remote

import "driftboard/internal/card"

// Row is the cards table shape on the wire.
type Row struct {
	ID      string  `json:"id"`
	UserID  string  `json:"user_id"`
	Type    string  `json:"type"`
	Text    string  `json:"text"`
	Src     string  `json:"src"`
	X       float64 `json:"x"`
	Y       float64 `json:"y"`
	Width   float64 `json:"width"`
	Height  float64 `json:"height"`
	ScrollY float64 `json:"scroll_y"`
}

func ToRow(c card.Card, userID string) Row {
	return Row{
		ID:      c.ID,
		UserID:  userID,
		Type:    string(c.Kind),
		Text:    c.Text,
		Src:     c.Src,
		X:       c.X,
		Y:       c.Y,
		Width:   c.W,
		Height:  c.H,
		ScrollY: c.ScrollY,
	}
}

// FromRow converts a table row to a card. Rows without an id are
// reported as not ok and skipped by callers.
func FromRow(r Row) (card.Card, bool) {
	if r.ID == "" {
		return card.Card{}, false
	}
	return card.Card{
		ID:      r.ID,
		Kind:    card.Kind(r.Type),
		Text:    r.Text,
		Src:     r.Src,
		X:       r.X,
		Y:       r.Y,
		W:       r.Width,
		H:       r.Height,
		ScrollY: r.ScrollY,
	}, true
}

func FromRows(rows []Row) []card.Card {
	cards := make([]card.Card, 0, len(rows))
	for _, r := range rows {
		if c, ok := FromRow(r); ok {
			cards = append(cards, c)
		}
	}
	return cards
}
