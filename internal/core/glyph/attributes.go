// Package glyph decodes SignWriting glyph codes and measures the distance
// between two placed glyphs.
package glyph

import (
	"github.com/baditaflorin/go_sign_similarity/internal/core/domain"
	"github.com/baditaflorin/go_sign_similarity/internal/ports"
)

// Category is a named, half-open range of shape values.
type Category struct {
	Name string
	Low  int
	High int
}

// Contains reports whether shape falls inside the category range.
func (c Category) Contains(shape int) bool {
	return shape >= c.Low && shape < c.High
}

// Categories lists the shape buckets in lookup order.
var Categories = []Category{
	{Name: "hand_shapes", Low: 0x100, High: 0x205},
	{Name: "contact_symbols", Low: 0x205, High: 0x221},
	{Name: "movement_paths", Low: 0x221, High: 0x2FF},
	{Name: "head_movement", Low: 0x2FF, High: 0x30A},
	{Name: "facial_expressions", Low: 0x30A, High: 0x36A},
	{Name: "etc", Low: 0x36A, High: 0x38C},
}

// CategoryOf returns the index of the first category containing shape.
// The boolean is false when no category matches.
func CategoryOf(shape int) (int, bool) {
	for i, c := range Categories {
		if c.Contains(shape) {
			return i, true
		}
	}
	return -1, false
}

// Decode reads the fixed offsets of a glyph code such as "S15a11".
// It does not validate the code; a short code decodes to zero values.
func Decode(code string) domain.Attributes {
	if len(code) < 6 {
		return domain.Attributes{}
	}
	shape := hexValue(code[1])<<8 | hexValue(code[2])<<4 | hexValue(code[3])
	facing := hexValue(code[4])
	angle := hexValue(code[5])
	return domain.Attributes{
		Shape:    shape,
		Facing:   facing,
		Angle:    angle,
		Parallel: facing > 2,
	}
}

func hexValue(b byte) int {
	switch {
	case b >= '0' && b <= '9':
		return int(b - '0')
	case b >= 'a' && b <= 'f':
		return int(b-'a') + 10
	case b >= 'A' && b <= 'F':
		return int(b-'A') + 10
	}
	return 0
}

// Extractor memoizes Decode by glyph code.
type Extractor struct {
	cache ports.Cache[string, domain.Attributes]
}

// NewExtractor creates an extractor backed by cache. A nil cache disables memoization.
func NewExtractor(cache ports.Cache[string, domain.Attributes]) *Extractor {
	return &Extractor{cache: cache}
}

// Attributes returns the decoded attributes of code.
func (e *Extractor) Attributes(code string) domain.Attributes {
	if e == nil || e.cache == nil {
		return Decode(code)
	}
	if attrs, ok := e.cache.Get(code); ok {
		return attrs
	}
	attrs := Decode(code)
	e.cache.Add(code, attrs)
	return attrs
}
