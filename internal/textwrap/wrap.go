// Package textwrap wraps card text into lines that fit a width budget.
// It is pure with respect to the injected measurement function so the
// same text, width and font always produce the same line set.
package textwrap

import "strings"

// MeasureFunc reports the rendered width of s in the same unit as the
// wrap budget.
type MeasureFunc func(s string) float64

// Wrap splits text into lines no wider than maxWidth.
//
// Paragraphs are separated by newlines (CRLF and CR normalized); an
// empty paragraph yields one blank line. Words are accumulated greedily
// onto the current line. A single word wider than the budget is split
// character by character. Runs of spaces survive as literal space
// characters, each subject to the same overflow check.
func Wrap(text string, maxWidth float64, measure MeasureFunc) []string {
	normalized := strings.NewReplacer("\r\n", "\n", "\r", "\n").Replace(text)
	lines := make([]string, 0, 8)

	for _, p := range strings.Split(normalized, "\n") {
		if p == "" {
			lines = append(lines, "")
			continue
		}
		words := strings.Split(p, " ")
		current := ""
		for i, word := range words {
			if word == "" {
				test := current + " "
				if measure(test) <= maxWidth {
					current = test
				} else {
					lines = append(lines, current)
					current = ""
				}
				if i == len(words)-1 && current != "" {
					lines = append(lines, current)
					current = ""
				}
				continue
			}
			tentative := word
			if current != "" {
				tentative = current + " " + word
			}
			if measure(tentative) <= maxWidth {
				current = tentative
			} else {
				if current != "" {
					lines = append(lines, current)
					current = ""
				}
				chunk := ""
				for _, ch := range word {
					test := chunk + string(ch)
					if measure(test) <= maxWidth {
						chunk = test
					} else {
						if chunk != "" {
							lines = append(lines, chunk)
						}
						chunk = string(ch)
					}
				}
				current = chunk
			}
			if i == len(words)-1 {
				lines = append(lines, current)
				current = ""
			}
		}
		if current != "" {
			lines = append(lines, current)
		}
	}
	return lines
}

// ContentHeight is the total height of the wrapped lines.
func ContentHeight(lines []string, lineHeight float64) float64 {
	return float64(len(lines)) * lineHeight
}

// ScrollWindow describes the visible slice of wrapped lines for a
// scroll offset: the first line index to draw and the fractional pixel
// remainder to shift the first line up by.
type ScrollWindow struct {
	StartLine int
	YOffset   float64
}

// Window clamps scrollY into [0, max(0, content-viewport)] and returns
// the visible window along with the clamped offset.
func Window(scrollY, contentHeight, viewportHeight, lineHeight float64) (ScrollWindow, float64) {
	maxScroll := contentHeight - viewportHeight
	if maxScroll < 0 {
		maxScroll = 0
	}
	if scrollY < 0 {
		scrollY = 0
	}
	if scrollY > maxScroll {
		scrollY = maxScroll
	}
	if lineHeight <= 0 {
		return ScrollWindow{}, scrollY
	}
	start := int(scrollY / lineHeight)
	return ScrollWindow{
		StartLine: start,
		YOffset:   scrollY - float64(start)*lineHeight,
	}, scrollY
}

// ThumbMetrics computes the scrollbar thumb for a track of trackHeight.
// The thumb never shrinks below minThumb. Returns false when the
// content fits and no scrollbar should be drawn.
func ThumbMetrics(scrollY, contentHeight, viewportHeight, trackHeight, minThumb float64) (thumbY, thumbH float64, ok bool) {
	if contentHeight <= viewportHeight || trackHeight <= 0 {
		return 0, 0, false
	}
	thumbH = trackHeight * viewportHeight / contentHeight
	if thumbH < minThumb {
		thumbH = minThumb
	}
	maxScroll := contentHeight - viewportHeight
	thumbY = (trackHeight - thumbH) * (scrollY / maxScroll)
	return thumbY, thumbH, true
}
