// Package vision locates target-colored pixels in captured screen frames.
package vision

import (
	"image"
	"image/color"
)

// DefaultTolerance absorbs anti-aliasing and compression noise around the
// scripted target color.
const DefaultTolerance = 10

// Matcher finds pixels matching a target color within a per-channel
// tolerance. Every call scans a fresh frame; nothing is cached between
// calls because the game world is continuously changing.
type Matcher struct {
	// Tolerance is the maximum per-channel absolute difference for a
	// pixel to count as a match.
	Tolerance uint8
}

// NewMatcher creates a matcher with the given per-channel tolerance.
func NewMatcher(tolerance uint8) *Matcher {
	return &Matcher{Tolerance: tolerance}
}

// Find returns the first pixel matching target in row-major scan order
// (top to bottom, left to right). First-match is the fixed representative
// selection rule: downstream click targeting depends on it being
// deterministic for a given frame. The second return is false when no
// pixel matches. The frame is never mutated.
func (m *Matcher) Find(img image.Image, target color.RGBA) (image.Point, bool) {
	if img == nil {
		return image.Point{}, false
	}
	b := img.Bounds()
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			if m.matches(img.At(x, y), target) {
				return image.Pt(x, y), true
			}
		}
	}
	return image.Point{}, false
}

// FindAll returns every matching pixel in row-major scan order. Intended
// for diagnostics; Find is the engine's selection rule.
func (m *Matcher) FindAll(img image.Image, target color.RGBA) []image.Point {
	if img == nil {
		return nil
	}
	var matches []image.Point
	b := img.Bounds()
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			if m.matches(img.At(x, y), target) {
				matches = append(matches, image.Pt(x, y))
			}
		}
	}
	return matches
}

// matches reports whether all three channels of c are within tolerance of
// target. Alpha is ignored: the script speaks 3-byte RGB.
func (m *Matcher) matches(c color.Color, target color.RGBA) bool {
	r, g, b, _ := c.RGBA()
	tol := uint32(m.Tolerance)
	return absDiff(r>>8, uint32(target.R)) <= tol &&
		absDiff(g>>8, uint32(target.G)) <= tol &&
		absDiff(b>>8, uint32(target.B)) <= tol
}

func absDiff(a, b uint32) uint32 {
	if a > b {
		return a - b
	}
	return b - a
}
