package app

import (
	"context"
	"fmt"
	"time"

	"driftboard/internal/card"
	"driftboard/internal/remote"
)

const requestTimeout = 15 * time.Second

// scheduleSave queues a debounced upsert. On an anonymous board the
// card stays local and nothing is scheduled.
func (a *App) scheduleSave(c card.Card) {
	if !a.client.Ready() {
		return
	}
	a.saver.Schedule(c)
}

// saveNow is the saver callback; it runs on a timer goroutine.
func (a *App) saveNow(c card.Card) {
	ctx, cancel := context.WithTimeout(a.ctx, requestTimeout)
	defer cancel()
	if err := a.client.UpsertCard(ctx, c); err != nil {
		a.log.Error("save card", "id", c.ID, "err", err)
		return
	}
	a.log.Debug("card saved", "id", c.ID)
}

func (a *App) deleteSelection() {
	ids := a.store.SelectedIDs()
	if len(ids) == 0 {
		return
	}
	a.store.Remove(ids...)
	a.saver.Cancel(ids...)
	a.menu = nil
	if len(ids) == 1 {
		a.showToast("Card deleted")
	} else {
		a.showToast(fmt.Sprintf("%d cards deleted", len(ids)))
	}
	if !a.client.Ready() {
		return
	}
	go func() {
		ctx, cancel := context.WithTimeout(a.ctx, requestTimeout)
		defer cancel()
		if err := a.client.DeleteCards(ctx, ids...); err != nil {
			a.log.Error("delete cards", "count", len(ids), "err", err)
		}
	}()
}

// startInitialLoad fetches the saved board in the background; the
// result lands on a channel drained by Update.
func (a *App) startInitialLoad() {
	if !a.client.Ready() {
		return
	}
	go func() {
		ctx, cancel := context.WithTimeout(a.ctx, requestTimeout)
		defer cancel()
		cards, err := a.client.LoadCards(ctx)
		if err != nil {
			a.log.Error("load board", "err", err)
			return
		}
		select {
		case a.loaded <- cards:
		case <-a.ctx.Done():
		}
	}()
}

// drainRemote applies pending load results and realtime events on the
// UI goroutine.
func (a *App) drainRemote() {
	select {
	case cards := <-a.loaded:
		a.store.SetAll(cards)
		a.log.Info("board loaded", "cards", len(cards))
	default:
	}
	if a.feed == nil {
		return
	}
	for {
		select {
		case ev := <-a.feed.Events():
			a.applyEvent(ev)
		default:
			return
		}
	}
}

func (a *App) applyEvent(ev remote.Event) {
	switch ev.Kind {
	case remote.EventInsert, remote.EventUpdate:
		// Never clobber the card under the user's pointer.
		if a.machine.ActiveCard() == ev.Card.ID {
			return
		}
		if a.editor != nil && a.editor.editID == ev.Card.ID {
			return
		}
		a.store.Upsert(ev.Card)
	case remote.EventDelete:
		a.saver.Cancel(ev.ID)
		a.store.Remove(ev.ID)
	}
}
