package app

import "time"

// toastDuration matches the short confirmation flash after copying a
// card's text.
const toastDuration = 900 * time.Millisecond

type toast struct {
	text     string
	deadline time.Time
}

func (a *App) showToast(msg string) {
	a.toasts = append(a.toasts, toast{text: msg, deadline: a.now().Add(toastDuration)})
}

func (a *App) pruneToasts() {
	now := a.now()
	live := a.toasts[:0]
	for _, t := range a.toasts {
		if now.Before(t.deadline) {
			live = append(live, t)
		}
	}
	a.toasts = live
}
