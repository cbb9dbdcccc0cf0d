// Package remote talks to the Supabase-compatible backend: the cards
// table over PostgREST, the storage bucket for pasted images, and the
// realtime change feed. Without credentials the board runs
// anonymously and every call returns ErrNotReady.
package remote

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/charmbracelet/log"

	"driftboard/internal/card"
)

// ErrNotReady marks calls made while no backend is configured or no
// user is signed in.
var ErrNotReady = errors.New("remote: backend not configured")

// SignedURLTTL is how long image links stay valid, in seconds.
const SignedURLTTL = 86400

type Client struct {
	baseURL string
	anonKey string
	bucket  string
	userID  string
	token   string
	http    *http.Client
	log     *log.Logger
}

// NewClient builds a client for the given project. baseURL and anonKey
// may be empty; the client then reports not ready. token is the user's
// access token and falls back to the anon key.
func NewClient(baseURL, anonKey, bucket, userID, token string, logger *log.Logger) *Client {
	if token == "" {
		token = anonKey
	}
	if logger == nil {
		logger = log.Default()
	}
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		anonKey: anonKey,
		bucket:  bucket,
		userID:  userID,
		token:   token,
		http:    &http.Client{Timeout: 15 * time.Second},
		log:     logger,
	}
}

func (c *Client) Ready() bool {
	return c.baseURL != "" && c.anonKey != "" && c.userID != ""
}

func (c *Client) UserID() string { return c.userID }

func (c *Client) do(ctx context.Context, method, path string, query url.Values, body []byte, extra http.Header) ([]byte, error) {
	if !c.Ready() {
		return nil, ErrNotReady
	}
	u := c.baseURL + path
	if len(query) > 0 {
		u += "?" + query.Encode()
	}
	var rd io.Reader
	if body != nil {
		rd = bytes.NewReader(body)
	}
	req, err := http.NewRequestWithContext(ctx, method, u, rd)
	if err != nil {
		return nil, err
	}
	req.Header.Set("apikey", c.anonKey)
	req.Header.Set("Authorization", "Bearer "+c.token)
	if body != nil && req.Header.Get("Content-Type") == "" {
		req.Header.Set("Content-Type", "application/json")
	}
	for k, vs := range extra {
		for _, v := range vs {
			req.Header.Set(k, v)
		}
	}
	resp, err := c.http.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("remote: %s %s: %s: %s", method, path, resp.Status, strings.TrimSpace(string(data)))
	}
	return data, nil
}

// LoadCards fetches all of the user's cards ordered oldest change
// first, so newer edits win during replay.
func (c *Client) LoadCards(ctx context.Context) ([]card.Card, error) {
	q := url.Values{}
	q.Set("select", "*")
	q.Set("user_id", "eq."+c.userID)
	q.Set("order", "updated_at.asc")
	data, err := c.do(ctx, http.MethodGet, "/rest/v1/cards", q, nil, nil)
	if err != nil {
		return nil, err
	}
	var rows []Row
	if err := json.Unmarshal(data, &rows); err != nil {
		return nil, fmt.Errorf("remote: decode cards: %w", err)
	}
	return FromRows(rows), nil
}

// UpsertCard writes the card, inserting or replacing on id conflict.
func (c *Client) UpsertCard(ctx context.Context, crd card.Card) error {
	body, err := json.Marshal([]Row{ToRow(crd, c.userID)})
	if err != nil {
		return err
	}
	q := url.Values{}
	q.Set("on_conflict", "id")
	h := http.Header{}
	h.Set("Prefer", "resolution=merge-duplicates,return=minimal")
	_, err = c.do(ctx, http.MethodPost, "/rest/v1/cards", q, body, h)
	return err
}

// DeleteCards removes the given card rows. A no-op for an empty list.
func (c *Client) DeleteCards(ctx context.Context, ids ...string) error {
	if len(ids) == 0 {
		return nil
	}
	q := url.Values{}
	q.Set("id", "in.("+strings.Join(ids, ",")+")")
	q.Set("user_id", "eq."+c.userID)
	_, err := c.do(ctx, http.MethodDelete, "/rest/v1/cards", q, nil, nil)
	return err
}

// UploadObject stores data in the image bucket under path, replacing
// any existing object.
func (c *Client) UploadObject(ctx context.Context, path string, data []byte, contentType string) error {
	h := http.Header{}
	h.Set("Content-Type", contentType)
	h.Set("x-upsert", "true")
	_, err := c.do(ctx, http.MethodPost, "/storage/v1/object/"+c.bucket+"/"+path, nil, data, h)
	return err
}

// SignedURL returns a time-limited download URL for a bucket object.
func (c *Client) SignedURL(ctx context.Context, path string, ttlSeconds int) (string, error) {
	body, err := json.Marshal(map[string]int{"expiresIn": ttlSeconds})
	if err != nil {
		return "", err
	}
	data, err := c.do(ctx, http.MethodPost, "/storage/v1/object/sign/"+c.bucket+"/"+path, nil, body, nil)
	if err != nil {
		return "", err
	}
	var out struct {
		SignedURL string `json:"signedURL"`
	}
	if err := json.Unmarshal(data, &out); err != nil {
		return "", fmt.Errorf("remote: decode signed url: %w", err)
	}
	if out.SignedURL == "" {
		return "", errors.New("remote: empty signed url")
	}
	return c.baseURL + "/storage/v1" + out.SignedURL, nil
}
