// Package imagecache resolves card image sources to decoded pixels.
// Fetches run on their own goroutines; the draw loop polls Get every
// frame, so completion needs no callback into UI state.
package imagecache

import (
	"context"
	"image"
	"sync"
)

type State int

const (
	// StateMissing means the source was never requested.
	StateMissing State = iota
	StateLoading
	StateReady
	StateFailed
)

// FetchFunc downloads and decodes one image source. It runs off the
// UI goroutine.
type FetchFunc func(ctx context.Context, src string) (image.Image, error)

type Cache struct {
	mu       sync.Mutex
	fetch    FetchFunc
	images   map[string]image.Image
	inflight map[string]struct{}
	failed   map[string]error
	closed   bool
}

func New(fetch FetchFunc) *Cache {
	return &Cache{
		fetch:    fetch,
		images:   map[string]image.Image{},
		inflight: map[string]struct{}{},
		failed:   map[string]error{},
	}
}

// Get returns the decoded image for src if ready.
func (c *Cache) Get(src string) (image.Image, State) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if img, ok := c.images[src]; ok {
		return img, StateReady
	}
	if _, ok := c.inflight[src]; ok {
		return nil, StateLoading
	}
	if _, ok := c.failed[src]; ok {
		return nil, StateFailed
	}
	return nil, StateMissing
}

// Err returns the failure for src, if any.
func (c *Cache) Err(src string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.failed[src]
}

// Put stores an already decoded image, used for freshly pasted
// bitmaps so they never round-trip through storage.
func (c *Cache) Put(src string, img image.Image) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return
	}
	c.images[src] = img
	delete(c.failed, src)
}

// Request starts an async fetch for src unless it is already cached,
// loading, or has failed. Safe to call every frame.
func (c *Cache) Request(ctx context.Context, src string) {
	if src == "" {
		return
	}
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return
	}
	if _, ok := c.images[src]; ok {
		c.mu.Unlock()
		return
	}
	if _, ok := c.inflight[src]; ok {
		c.mu.Unlock()
		return
	}
	if _, ok := c.failed[src]; ok {
		c.mu.Unlock()
		return
	}
	c.inflight[src] = struct{}{}
	c.mu.Unlock()

	go func() {
		img, err := c.fetch(ctx, src)
		c.mu.Lock()
		defer c.mu.Unlock()
		delete(c.inflight, src)
		if c.closed {
			return
		}
		if err != nil {
			c.failed[src] = err
			return
		}
		c.images[src] = img
	}()
}

// Forget drops a failed entry so a later Request retries it.
func (c *Cache) Forget(src string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.failed, src)
	delete(c.images, src)
}

// Close stops accepting results; pending fetches are discarded on
// completion.
func (c *Cache) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.closed = true
	c.images = map[string]image.Image{}
	c.failed = map[string]error{}
}
