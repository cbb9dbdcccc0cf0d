package remote

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"driftboard/internal/card"
	"driftboard/internal/geom"
)

func testClient(t *testing.T, h http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)
	return NewClient(srv.URL, "anon-key", "cards", "user-1", "token-1", nil)
}

func TestNotReadyWithoutConfig(t *testing.T) {
	c := NewClient("", "", "cards", "", "", nil)
	if c.Ready() {
		t.Fatal("empty client reports ready")
	}
	if _, err := c.LoadCards(context.Background()); err != ErrNotReady {
		t.Fatalf("err = %v, want ErrNotReady", err)
	}
	if err := c.UpsertCard(context.Background(), card.Card{}); err != ErrNotReady {
		t.Fatalf("err = %v, want ErrNotReady", err)
	}
}

func TestLoadCardsQueryAndDecode(t *testing.T) {
	c := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet || r.URL.Path != "/rest/v1/cards" {
			t.Errorf("unexpected %s %s", r.Method, r.URL.Path)
		}
		q := r.URL.Query()
		if q.Get("user_id") != "eq.user-1" || q.Get("order") != "updated_at.asc" {
			t.Errorf("unexpected query %v", q)
		}
		if r.Header.Get("apikey") != "anon-key" || r.Header.Get("Authorization") != "Bearer token-1" {
			t.Errorf("missing auth headers")
		}
		io.WriteString(w, `[
			{"id":"1","user_id":"user-1","type":"text","text":"hi","x":10,"y":20,"width":200,"height":100,"scroll_y":5},
			{"id":"","type":"text","text":"orphan"},
			{"id":"2","user_id":"user-1","type":"image","src":"u/p.png","x":0,"y":0,"width":400,"height":300}
		]`)
	})

	cards, err := c.LoadCards(context.Background())
	if err != nil {
		t.Fatalf("LoadCards: %v", err)
	}
	if len(cards) != 2 {
		t.Fatalf("got %d cards, want 2 (id-less row skipped)", len(cards))
	}
	if cards[0].ID != "1" || cards[0].Kind != card.KindText || cards[0].ScrollY != 5 {
		t.Fatalf("first card = %+v", cards[0])
	}
	if cards[1].Kind != card.KindImage || cards[1].Src != "u/p.png" {
		t.Fatalf("second card = %+v", cards[1])
	}
}

func TestUpsertCardWire(t *testing.T) {
	var gotPrefer, gotConflict string
	var gotRows []Row
	c := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotPrefer = r.Header.Get("Prefer")
		gotConflict = r.URL.Query().Get("on_conflict")
		json.NewDecoder(r.Body).Decode(&gotRows)
		w.WriteHeader(http.StatusCreated)
	})

	crd := card.NewText("42", "note", geom.Vec{X: 7, Y: 8})
	if err := c.UpsertCard(context.Background(), crd); err != nil {
		t.Fatalf("UpsertCard: %v", err)
	}
	if gotConflict != "id" || !strings.Contains(gotPrefer, "merge-duplicates") {
		t.Fatalf("conflict=%q prefer=%q", gotConflict, gotPrefer)
	}
	if len(gotRows) != 1 || gotRows[0].ID != "42" || gotRows[0].UserID != "user-1" || gotRows[0].Type != "text" {
		t.Fatalf("rows = %+v", gotRows)
	}
}

func TestDeleteCardsWire(t *testing.T) {
	var gotQuery string
	c := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodDelete {
			t.Errorf("method = %s", r.Method)
		}
		gotQuery = r.URL.Query().Get("id")
		w.WriteHeader(http.StatusNoContent)
	})

	if err := c.DeleteCards(context.Background(), "1", "2"); err != nil {
		t.Fatalf("DeleteCards: %v", err)
	}
	if gotQuery != "in.(1,2)" {
		t.Fatalf("id filter = %q, want in.(1,2)", gotQuery)
	}
	// Empty delete never hits the network.
	if err := c.DeleteCards(context.Background()); err != nil {
		t.Fatalf("empty delete: %v", err)
	}
}

func TestUploadObjectWire(t *testing.T) {
	var gotPath, gotType, gotUpsert string
	var gotBody []byte
	c := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotType = r.Header.Get("Content-Type")
		gotUpsert = r.Header.Get("x-upsert")
		gotBody, _ = io.ReadAll(r.Body)
		w.WriteHeader(http.StatusOK)
	})

	err := c.UploadObject(context.Background(), "user-1/img.png", []byte{1, 2, 3}, "image/png")
	if err != nil {
		t.Fatalf("UploadObject: %v", err)
	}
	if gotPath != "/storage/v1/object/cards/user-1/img.png" {
		t.Fatalf("path = %q", gotPath)
	}
	if gotType != "image/png" || gotUpsert != "true" || len(gotBody) != 3 {
		t.Fatalf("type=%q upsert=%q body=%d bytes", gotType, gotUpsert, len(gotBody))
	}
}

func TestSignedURL(t *testing.T) {
	var gotTTL int
	c := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		var body map[string]int
		json.NewDecoder(r.Body).Decode(&body)
		gotTTL = body["expiresIn"]
		io.WriteString(w, `{"signedURL":"/object/sign/cards/user-1/img.png?token=abc"}`)
	})

	u, err := c.SignedURL(context.Background(), "user-1/img.png", SignedURLTTL)
	if err != nil {
		t.Fatalf("SignedURL: %v", err)
	}
	if gotTTL != 86400 {
		t.Fatalf("ttl = %d, want 86400", gotTTL)
	}
	if !strings.HasSuffix(u, "/storage/v1/object/sign/cards/user-1/img.png?token=abc") {
		t.Fatalf("url = %q", u)
	}
	if !strings.HasPrefix(u, "http") {
		t.Fatalf("url %q is not absolute", u)
	}
}

func TestErrorStatusSurfacesBody(t *testing.T) {
	c := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"message":"permission denied"}`, http.StatusForbidden)
	})
	_, err := c.LoadCards(context.Background())
	if err == nil || !strings.Contains(err.Error(), "permission denied") {
		t.Fatalf("err = %v, want body surfaced", err)
	}
}
