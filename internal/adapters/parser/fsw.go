// Package parser turns canonical FSW sign strings into domain signs.
package parser

import (
	"regexp"
	"strconv"

	"github.com/baditaflorin/go_sign_similarity/internal/core/domain"
	"github.com/baditaflorin/go_sign_similarity/internal/core/glyph"
	"github.com/baditaflorin/go_sign_similarity/internal/ports"
)

var (
	boxPattern   = regexp.MustCompile(`([BLMR])(\d{3})x(\d{3})`)
	glyphPattern = regexp.MustCompile(`(S[123][0-9a-f]{2}[0-5][0-9a-f])(\d{3})x(\d{3})`)
)

// DefaultBox is used when a sign string carries no box marker.
var DefaultBox = domain.Box{Kind: 'M', Position: domain.Position{X: 500, Y: 500}}

// FSWParser parses Formal SignWriting signs. Parsed signs are memoized in an
// optional cache; callers must treat returned glyph slices as read-only.
type FSWParser struct {
	extractor *glyph.Extractor
	cache     ports.Cache[string, domain.Sign]
}

// NewFSWParser creates a parser. Both arguments may be nil.
func NewFSWParser(extractor *glyph.Extractor, cache ports.Cache[string, domain.Sign]) *FSWParser {
	return &FSWParser{extractor: extractor, cache: cache}
}

// Parse returns the sign encoded by fsw. Text that matches no glyph yields a
// sign with zero glyphs.
func (p *FSWParser) Parse(fsw string) domain.Sign {
	if p.cache != nil {
		if sign, ok := p.cache.Get(fsw); ok {
			return sign
		}
	}

	sign := p.parse(fsw)
	if p.cache != nil {
		p.cache.Add(fsw, sign)
	}
	return sign
}

func (p *FSWParser) parse(fsw string) domain.Sign {
	sign := domain.Sign{Box: DefaultBox}
	if m := boxPattern.FindStringSubmatch(fsw); m != nil {
		sign.Box = domain.Box{Kind: m[1][0], Position: position(m[2], m[3])}
	}

	matches := glyphPattern.FindAllStringSubmatch(fsw, -1)
	if len(matches) == 0 {
		return sign
	}
	sign.Glyphs = make([]domain.Glyph, 0, len(matches))
	for _, m := range matches {
		sign.Glyphs = append(sign.Glyphs, domain.Glyph{
			Code:       m[1],
			Attributes: p.extractor.Attributes(m[1]),
			Position:   position(m[2], m[3]),
		})
	}
	return sign
}

// position converts two three-digit decimals; the pattern guarantees digits.
func position(x, y string) domain.Position {
	px, _ := strconv.Atoi(x)
	py, _ := strconv.Atoi(y)
	return domain.Position{X: px, Y: py}
}
