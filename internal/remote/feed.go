package remote

import (
	"context"
	"encoding/json"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/gorilla/websocket"

	"driftboard/internal/card"
)

type EventKind string

const (
	EventInsert EventKind = "INSERT"
	EventUpdate EventKind = "UPDATE"
	EventDelete EventKind = "DELETE"
)

// Event is one change to the cards table made by another session.
// Card is populated for inserts and updates, ID for deletes.
type Event struct {
	Kind EventKind
	Card card.Card
	ID   string
}

const (
	heartbeatEvery = 25 * time.Second
	reconnectAfter = 3 * time.Second
)

// phxMessage is the phoenix channel envelope the realtime socket
// speaks.
type phxMessage struct {
	Topic   string          `json:"topic"`
	Event   string          `json:"event"`
	Payload json.RawMessage `json:"payload"`
	Ref     string          `json:"ref"`
}

// Feed subscribes to the user's card changes over the realtime
// websocket and delivers them on Events. The app drains the channel
// on its own goroutine; the feed reconnects on its own until the
// context ends.
type Feed struct {
	client *Client
	log    *log.Logger
	events chan Event
}

func NewFeed(c *Client, logger *log.Logger) *Feed {
	if logger == nil {
		logger = log.Default()
	}
	return &Feed{client: c, log: logger, events: make(chan Event, 64)}
}

func (f *Feed) Events() <-chan Event { return f.events }

func (f *Feed) socketURL() string {
	u := f.client.baseURL
	u = strings.Replace(u, "https://", "wss://", 1)
	u = strings.Replace(u, "http://", "ws://", 1)
	return u + "/realtime/v1/websocket?apikey=" + f.client.anonKey + "&vsn=1.0.0"
}

// Run connects and reconnects until ctx is cancelled.
func (f *Feed) Run(ctx context.Context) {
	if !f.client.Ready() {
		return
	}
	for {
		if err := f.session(ctx); err != nil && ctx.Err() == nil {
			f.log.Warn("realtime feed disconnected", "err", err)
		}
		select {
		case <-ctx.Done():
			return
		case <-time.After(reconnectAfter):
		}
	}
}

func (f *Feed) session(ctx context.Context) error {
	conn, _, err := websocket.DefaultDialer.DialContext(ctx, f.socketURL(), nil)
	if err != nil {
		return err
	}
	defer conn.Close()

	var wmu sync.Mutex
	writeJSON := func(v any) error {
		wmu.Lock()
		defer wmu.Unlock()
		return conn.WriteJSON(v)
	}

	joinPayload, err := json.Marshal(map[string]any{
		"access_token": f.client.token,
		"config": map[string]any{
			"postgres_changes": []map[string]string{{
				"event":  "*",
				"schema": "public",
				"table":  "cards",
				"filter": "user_id=eq." + f.client.userID,
			}},
		},
	})
	if err != nil {
		return err
	}
	join := phxMessage{
		Topic:   "realtime:cards:" + f.client.userID,
		Event:   "phx_join",
		Payload: joinPayload,
		Ref:     "1",
	}
	if err := writeJSON(join); err != nil {
		return err
	}
	f.log.Debug("realtime feed joined", "topic", join.Topic)

	done := make(chan struct{})
	defer close(done)
	go func() {
		t := time.NewTicker(heartbeatEvery)
		defer t.Stop()
		ref := 1
		for {
			select {
			case <-ctx.Done():
				conn.Close()
				return
			case <-done:
				return
			case <-t.C:
				ref++
				hb := phxMessage{
					Topic:   "phoenix",
					Event:   "heartbeat",
					Payload: json.RawMessage("{}"),
					Ref:     strconv.Itoa(ref),
				}
				if writeJSON(hb) != nil {
					conn.Close()
					return
				}
			}
		}
	}()

	for {
		var msg phxMessage
		if err := conn.ReadJSON(&msg); err != nil {
			return err
		}
		if msg.Event != "postgres_changes" {
			continue
		}
		ev, ok := parseChange(msg.Payload)
		if !ok {
			continue
		}
		select {
		case f.events <- ev:
		case <-ctx.Done():
			return ctx.Err()
		default:
			// A stalled UI must not wedge the socket; drop the
			// oldest pending event instead.
			select {
			case <-f.events:
			default:
			}
			f.events <- ev
		}
	}
}

func parseChange(payload json.RawMessage) (Event, bool) {
	var p struct {
		Data struct {
			Type      string `json:"type"`
			Record    Row    `json:"record"`
			OldRecord Row    `json:"old_record"`
		} `json:"data"`
	}
	if err := json.Unmarshal(payload, &p); err != nil {
		return Event{}, false
	}
	switch EventKind(p.Data.Type) {
	case EventInsert, EventUpdate:
		c, ok := FromRow(p.Data.Record)
		if !ok {
			return Event{}, false
		}
		return Event{Kind: EventKind(p.Data.Type), Card: c}, true
	case EventDelete:
		if p.Data.OldRecord.ID == "" {
			return Event{}, false
		}
		return Event{Kind: EventDelete, ID: p.Data.OldRecord.ID}, true
	}
	return Event{}, false
}
