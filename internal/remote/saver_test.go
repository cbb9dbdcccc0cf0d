package remote

import (
	"sync"
	"testing"
	"time"

	"driftboard/internal/card"
	"driftboard/internal/geom"
)

type saveLog struct {
	mu    sync.Mutex
	cards []card.Card
}

func (l *saveLog) save(c card.Card) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.cards = append(l.cards, c)
}

func (l *saveLog) snapshot() []card.Card {
	l.mu.Lock()
	defer l.mu.Unlock()
	return append([]card.Card(nil), l.cards...)
}

func waitFor(t *testing.T, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatal("condition not met in time")
}

func TestSaverCoalescesPerCard(t *testing.T) {
	l := &saveLog{}
	s := NewSaver(20*time.Millisecond, l.save)
	defer s.Close()

	c := card.NewText("a", "v", geom.Vec{})
	for i := 0; i < 10; i++ {
		c.X = float64(i)
		s.Schedule(c)
	}
	waitFor(t, func() bool { return len(l.snapshot()) == 1 })
	got := l.snapshot()
	if got[0].X != 9 {
		t.Fatalf("saved X = %v, want latest snapshot 9", got[0].X)
	}

	// A quiet period later, a new burst saves again.
	c.X = 50
	s.Schedule(c)
	waitFor(t, func() bool { return len(l.snapshot()) == 2 })
}

func TestSaverIndependentPerID(t *testing.T) {
	l := &saveLog{}
	s := NewSaver(20*time.Millisecond, l.save)
	defer s.Close()

	s.Schedule(card.NewText("a", "", geom.Vec{}))
	s.Schedule(card.NewText("b", "", geom.Vec{}))
	waitFor(t, func() bool { return len(l.snapshot()) == 2 })
}

func TestSaverCancel(t *testing.T) {
	l := &saveLog{}
	s := NewSaver(20*time.Millisecond, l.save)
	defer s.Close()

	s.Schedule(card.NewText("a", "", geom.Vec{}))
	s.Cancel("a")
	time.Sleep(60 * time.Millisecond)
	if len(l.snapshot()) != 0 {
		t.Fatal("cancelled save still ran")
	}
}

func TestSaverCloseStopsPending(t *testing.T) {
	l := &saveLog{}
	s := NewSaver(20*time.Millisecond, l.save)

	s.Schedule(card.NewText("a", "", geom.Vec{}))
	s.Close()
	time.Sleep(60 * time.Millisecond)
	if len(l.snapshot()) != 0 {
		t.Fatal("save ran after Close")
	}
	// Scheduling after Close is a no-op, not a panic.
	s.Schedule(card.NewText("b", "", geom.Vec{}))
}
