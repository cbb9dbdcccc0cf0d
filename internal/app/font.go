package app

import (
	"math"

	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/font/gofont/gobold"
	"golang.org/x/image/font/gofont/goregular"
	"golang.org/x/image/font/opentype"
)

const maxCachedFaces = 64

type fontKey struct {
	size  int
	bold  bool
	scale int
}

type fontBank struct {
	regular *opentype.Font
	bold    *opentype.Font
	cache   map[fontKey]font.Face
}

func newFontBank() fontBank {
	bank := fontBank{cache: map[fontKey]font.Face{}}
	reg, err := opentype.Parse(goregular.TTF)
	if err != nil {
		return bank
	}
	bol, err := opentype.Parse(gobold.TTF)
	if err != nil {
		return bank
	}
	bank.regular = reg
	bank.bold = bol
	return bank
}

// face returns a cached face at size scaled by the zoom factor. Card
// text renders at the viewport scale so glyphs stay sharp at any zoom.
func (b *fontBank) face(size float64, bold bool, scale float64) font.Face {
	px := size * scale
	if px < 1 {
		px = 1
	}
	key := fontKey{
		size:  int(math.Round(px * 100)),
		bold:  bold,
		scale: 0,
	}
	if f, ok := b.cache[key]; ok {
		return f
	}
	// Continuous pinch zoom can mint a face per frame; reset the cache
	// instead of growing it for the life of the session.
	if len(b.cache) >= maxCachedFaces {
		b.cache = map[fontKey]font.Face{}
	}
	base := b.regular
	if bold {
		base = b.bold
	}
	if base == nil {
		return basicfont.Face7x13
	}
	face, err := opentype.NewFace(base, &opentype.FaceOptions{
		Size:    px,
		DPI:     72,
		Hinting: font.HintingFull,
	})
	if err != nil {
		return basicfont.Face7x13
	}
	b.cache[key] = face
	return face
}

func measureString(face font.Face, s string) float64 {
	if face == nil || s == "" {
		return 0
	}
	adv := font.MeasureString(face, s)
	return float64(adv) / 64
}
