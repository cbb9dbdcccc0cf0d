// Package card defines the whiteboard's content unit and the in-memory
// collection that owns it.
package card

import (
	"errors"
	"strconv"
	"sync/atomic"
	"time"

	"driftboard/internal/geom"
)

type Kind string

const (
	KindText  Kind = "text"
	KindImage Kind = "image"
)

const (
	// MinSize is the floor for card width and height in world units.
	MinSize = 60

	DefaultTextWidth  = 200
	DefaultTextHeight = 100
)

// Card is a positioned, sized content unit on the canvas. Exactly one of
// Text (for KindText) and Src (for KindImage) is populated; use the
// constructors to keep that invariant.
type Card struct {
	ID   string
	Kind Kind

	X float64
	Y float64
	W float64
	H float64

	// Text holds the multi-paragraph content of a text card.
	Text string
	// Src is either a remote storage path or a local transient
	// reference for an image card.
	Src string
	// ScrollY is the vertical scroll into wrapped text content. It is
	// re-clamped against the content height on every frame.
	ScrollY float64
}

func NewText(id, text string, pos geom.Vec) Card {
	return Card{
		ID:   id,
		Kind: KindText,
		Text: text,
		X:    pos.X,
		Y:    pos.Y,
		W:    DefaultTextWidth,
		H:    DefaultTextHeight,
	}
}

func NewImage(id, src string, pos geom.Vec, w, h float64) Card {
	if w < MinSize {
		w = MinSize
	}
	if h < MinSize {
		h = MinSize
	}
	return Card{ID: id, Kind: KindImage, Src: src, X: pos.X, Y: pos.Y, W: w, H: h}
}

var (
	errNoID       = errors.New("card: missing id")
	errKind       = errors.New("card: unknown kind")
	errFieldMix   = errors.New("card: content field does not match kind")
	errUnderFloor = errors.New("card: size below minimum")
)

// Validate checks the tagged-variant invariant and the size floor.
func (c Card) Validate() error {
	if c.ID == "" {
		return errNoID
	}
	switch c.Kind {
	case KindText:
		if c.Src != "" {
			return errFieldMix
		}
	case KindImage:
		if c.Src == "" || c.Text != "" {
			return errFieldMix
		}
	default:
		return errKind
	}
	if c.W < MinSize || c.H < MinSize {
		return errUnderFloor
	}
	return nil
}

func (c Card) Rect() geom.Rect {
	return geom.Rect{X: c.X, Y: c.Y, W: c.W, H: c.H}
}

var idCounter atomic.Int64

// NewID returns a locally generated identifier, unique within this
// process and monotonically-increasing-enough across runs (millisecond
// timestamp with a counter suffix for same-millisecond creations).
func NewID() string {
	ms := time.Now().UnixMilli()
	n := idCounter.Add(1)
	return strconv.FormatInt(ms*1000+n%1000, 10)
}
