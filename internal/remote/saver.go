package remote

import (
	"sync"
	"time"

	"driftboard/internal/card"
)

// SaveDebounce coalesces the per-frame writes a drag or resize
// produces into one upsert per card.
const SaveDebounce = 300 * time.Millisecond

// Saver debounces card persists per card id. Schedule may be called
// every frame; the save func runs on a timer goroutine once the card
// goes quiet, so it must not touch UI state.
type Saver struct {
	mu     sync.Mutex
	delay  time.Duration
	timers map[string]*time.Timer
	save   func(card.Card)
	closed bool
}

func NewSaver(delay time.Duration, save func(card.Card)) *Saver {
	if delay <= 0 {
		delay = SaveDebounce
	}
	return &Saver{
		delay:  delay,
		timers: map[string]*time.Timer{},
		save:   save,
	}
}

// Schedule queues the card for saving, replacing any pending save for
// the same id with this newer snapshot.
func (s *Saver) Schedule(c card.Card) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return
	}
	if t, ok := s.timers[c.ID]; ok {
		t.Stop()
	}
	id := c.ID
	s.timers[id] = time.AfterFunc(s.delay, func() {
		s.mu.Lock()
		delete(s.timers, id)
		closed := s.closed
		s.mu.Unlock()
		if !closed {
			s.save(c)
		}
	})
}

// Cancel drops a pending save, used when the card is deleted before
// its debounce fires.
func (s *Saver) Cancel(ids ...string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, id := range ids {
		if t, ok := s.timers[id]; ok {
			t.Stop()
			delete(s.timers, id)
		}
	}
}

// Close stops all pending saves.
func (s *Saver) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.closed = true
	for id, t := range s.timers {
		t.Stop()
		delete(s.timers, id)
	}
}
