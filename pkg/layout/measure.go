// Package layout performs the two-pass chart layout: bar geometry from the
// time scale, then label placement from measured text extents, plus
// dependency arrow routing.
package layout

import (
	"fmt"
	"sync"

	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/goregular"
	"golang.org/x/image/font/opentype"
)

// TextMeasurer reports the rendered width of text in chart units.
type TextMeasurer interface {
	Measure(text string) float64
}

// MeasureFunc adapts a function to TextMeasurer.
type MeasureFunc func(string) float64

// Measure calls f.
func (f MeasureFunc) Measure(text string) float64 { return f(text) }

// FaceMeasurer measures text with a real font face, so placement matches
// what the SVG and PNG renderers draw.
type FaceMeasurer struct {
	mu   sync.Mutex
	face font.Face
	size float64
}

// NewFaceMeasurer loads the bundled Go Regular font at size points (72 DPI,
// so one point is one pixel).
func NewFaceMeasurer(size float64) (*FaceMeasurer, error) {
	if size <= 0 {
		return nil, fmt.Errorf("font size must be positive, got %v", size)
	}
	f, err := opentype.Parse(goregular.TTF)
	if err != nil {
		return nil, fmt.Errorf("parse font: %w", err)
	}
	face, err := opentype.NewFace(f, &opentype.FaceOptions{
		Size:    size,
		DPI:     72,
		Hinting: font.HintingNone,
	})
	if err != nil {
		return nil, fmt.Errorf("create face: %w", err)
	}
	return &FaceMeasurer{face: face, size: size}, nil
}

// Face exposes the underlying face for renderers drawing with the same
// metrics.
func (m *FaceMeasurer) Face() font.Face { return m.face }

// Size is the font size in points.
func (m *FaceMeasurer) Size() float64 { return m.size }

// Measure returns the advance width of text in pixels.
func (m *FaceMeasurer) Measure(text string) float64 {
	m.mu.Lock()
	defer m.mu.Unlock()
	adv := font.MeasureString(m.face, text)
	return float64(adv) / 64
}
