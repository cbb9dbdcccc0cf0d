package render

import (
	"image/color"
	"testing"
)

func pixelAt(fb *FrameBuffer, x, y int) color.RGBA {
	i := (y*fb.W + x) * 4
	return color.RGBA{fb.Pixels[i], fb.Pixels[i+1], fb.Pixels[i+2], fb.Pixels[i+3]}
}

func TestClearFillsEveryPixel(t *testing.T) {
	fb := NewFrameBuffer(4, 3)
	c := color.RGBA{10, 20, 30, 255}
	fb.Clear(c)
	for y := 0; y < fb.H; y++ {
		for x := 0; x < fb.W; x++ {
			if pixelAt(fb, x, y) != c {
				t.Fatalf("pixel (%d,%d) = %v, want %v", x, y, pixelAt(fb, x, y), c)
			}
		}
	}
}

func TestFillRectClipsToBounds(t *testing.T) {
	fb := NewFrameBuffer(10, 10)
	c := color.RGBA{255, 0, 0, 255}
	fb.FillRect(-5, -5, 8, 8, c)
	if pixelAt(fb, 2, 2) != c {
		t.Fatal("in-bounds part of clipped rect not filled")
	}
	if pixelAt(fb, 3, 3) == c {
		t.Fatal("fill leaked past the rect")
	}
	// Fully off-screen rects must not panic or write.
	fb.FillRect(20, 20, 5, 5, c)
	fb.FillRect(5, 5, -1, 3, c)
}

func TestStrokeRectLeavesInteriorUntouched(t *testing.T) {
	fb := NewFrameBuffer(10, 10)
	bg := color.RGBA{0, 0, 0, 255}
	fg := color.RGBA{0, 255, 0, 255}
	fb.Clear(bg)
	fb.StrokeRect(1, 1, 8, 8, 1, fg)
	if pixelAt(fb, 1, 1) != fg || pixelAt(fb, 8, 8) != fg {
		t.Fatal("stroke corners missing")
	}
	if pixelAt(fb, 4, 4) != bg {
		t.Fatal("stroke filled the interior")
	}
}

func TestDrawGridPhase(t *testing.T) {
	fb := NewFrameBuffer(20, 20)
	bg := color.RGBA{255, 255, 255, 255}
	grid := color.RGBA{200, 200, 200, 255}
	fb.Clear(bg)
	// Step 10 with offset (-3,-3): first lines at 7, then 17.
	fb.DrawGrid(10, -3, -3, grid)
	for _, x := range []int{7, 17} {
		if pixelAt(fb, x, 1) != grid {
			t.Fatalf("vertical line missing at x=%d", x)
		}
	}
	if pixelAt(fb, 8, 1) == grid || pixelAt(fb, 6, 1) == grid {
		t.Fatal("vertical line at wrong phase")
	}
	if pixelAt(fb, 1, 7) != grid {
		t.Fatal("horizontal line missing at y=7")
	}
}

func TestDrawGridDegenerateStep(t *testing.T) {
	fb := NewFrameBuffer(8, 8)
	bg := color.RGBA{9, 9, 9, 255}
	fb.Clear(bg)
	fb.DrawGrid(0.5, 0, 0, color.RGBA{1, 2, 3, 255})
	if pixelAt(fb, 0, 0) != bg {
		t.Fatal("degenerate step still drew")
	}
}
