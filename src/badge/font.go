// Package badge renders build-status SVG badges with measured text widths.
package badge

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"golang.org/x/image/font/opentype"
	"golang.org/x/image/font/sfnt"
)

// FontMetrics holds measured glyph widths and, for custom fonts, the raw
// font bytes for SVG embedding.
type FontMetrics struct {
	name     string           // font family name
	size     float64          // point size
	data     []byte           // raw TTF/OTF bytes, nil for the fallback font
	advances map[rune]float64 // glyph advances for printable ASCII
	fallback float64          // average width for unmapped runes
}

// TextWidth returns the pixel width of s using measured glyph advances.
func (m *FontMetrics) TextWidth(s string) float64 {
	var w float64
	for _, r := range s {
		if adv, ok := m.advances[r]; ok {
			w += adv
		} else {
			w += m.fallback
		}
	}
	return w
}

// FontData returns the raw font bytes, or nil for the fallback font.
func (m *FontMetrics) FontData() []byte { return m.data }

// FontName returns the font family name.
func (m *FontMetrics) FontName() string { return m.name }

// FontSize returns the configured point size.
func (m *FontMetrics) FontSize() float64 { return m.size }

// LoadFont parses a TTF/OTF and measures glyph advances at the given size.
func LoadFont(name string, data []byte, size float64) (*FontMetrics, error) {
	f, err := sfnt.Parse(data)
	if err != nil {
		return nil, fmt.Errorf("parsing font %s: %w", name, err)
	}

	face, err := opentype.NewFace(f, &opentype.FaceOptions{
		Size: size,
		DPI:  72,
	})
	if err != nil {
		return nil, fmt.Errorf("creating face for %s: %w", name, err)
	}
	defer face.Close()

	advances := make(map[rune]float64, 95)
	var total float64
	var count int

	for r := rune(32); r <= 126; r++ {
		adv, ok := face.GlyphAdvance(r)
		if !ok {
			continue
		}
		px := float64(adv) / 64.0 // fixed.Int26_6 → float64
		advances[r] = px
		total += px
		count++
	}

	var fallback float64
	if count > 0 {
		fallback = total / float64(count)
	} else {
		fallback = size * 0.6
	}

	familyName := name
	buf := &sfnt.Buffer{}
	if n, err := f.Name(buf, sfnt.NameIDFamily); err == nil && n != "" {
		familyName = n
	}

	return &FontMetrics{
		name:     familyName,
		size:     size,
		data:     data,
		advances: advances,
		fallback: fallback,
	}, nil
}

// LoadFontFile loads a TTF/OTF from a filesystem path.
func LoadFontFile(path string, size float64) (*FontMetrics, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading font file %s: %w", path, err)
	}
	name := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	return LoadFont(name, data, size)
}

// DefaultMetrics returns approximate Verdana-family metrics for use when
// no font file is supplied. The badge then references the viewer's local
// Verdana instead of embedding one, matching shields.io defaults.
func DefaultMetrics(size float64) *FontMetrics {
	// Relative advance widths for Verdana at 1pt, scaled by size.
	narrow := "iljI.,:;'|!"
	wide := "mwMW@"

	advances := make(map[rune]float64, 95)
	for r := rune(32); r <= 126; r++ {
		switch {
		case strings.ContainsRune(narrow, r):
			advances[r] = 0.35 * size
		case strings.ContainsRune(wide, r):
			advances[r] = 0.95 * size
		case r >= 'A' && r <= 'Z':
			advances[r] = 0.72 * size
		case r >= '0' && r <= '9':
			advances[r] = 0.64 * size
		default:
			advances[r] = 0.58 * size
		}
	}

	return &FontMetrics{
		name:     "Verdana",
		size:     size,
		advances: advances,
		fallback: 0.62 * size,
	}
}
