package normalizer

import (
	"strconv"
	"strings"
)

// SWU code point ranges.
const (
	swuPrefix    = 0x1D800 // A
	swuBoxFirst  = 0x1D801 // B
	swuBoxLast   = 0x1D804 // R
	swuNumFirst  = 0x1D80C // 250
	swuNumLast   = 0x1D9FF // 749
	swuNumOffset = 250

	swuSymbolFirst = 0x40001
	swuSymbolLast  = 0x4F480 // S38b5f
)

const hexDigits = "0123456789abcdef"

// SWUConverter rewrites SignWriting in Unicode (SWU) as Formal SignWriting (FSW).
type SWUConverter struct{}

// NewSWUConverter creates a new converter.
func NewSWUConverter() *SWUConverter {
	return &SWUConverter{}
}

// Contains reports whether text holds any SWU code point.
func (c *SWUConverter) Contains(text string) bool {
	for _, r := range text {
		if isSWU(r) {
			return true
		}
	}
	return false
}

// Convert returns text with every SWU code point replaced by its FSW form.
// Coordinates are paired as "XXXxYYY" and adjacent signs are separated by a
// space. Runes outside the SWU ranges are copied unchanged.
func (c *SWUConverter) Convert(text string) string {
	var sb strings.Builder
	sb.Grow(len(text) * 2)

	var (
		secondCoordinate bool
		inPrefix         bool
		last             rune
	)

	separate := func() {
		if sb.Len() > 0 && last != ' ' {
			sb.WriteByte(' ')
		}
	}

	for _, r := range text {
		switch {
		case r == swuPrefix:
			separate()
			sb.WriteByte('A')
			inPrefix = true
			secondCoordinate = false
		case r >= swuBoxFirst && r <= swuBoxLast:
			if !inPrefix {
				separate()
			}
			sb.WriteByte("ABLMR"[r-swuPrefix])
			inPrefix = false
			secondCoordinate = false
		case r >= swuNumFirst && r <= swuNumLast:
			if secondCoordinate {
				sb.WriteByte('x')
			}
			sb.WriteString(strconv.Itoa(int(r-swuNumFirst) + swuNumOffset))
			secondCoordinate = !secondCoordinate
		case r >= swuSymbolFirst && r <= swuSymbolLast:
			sb.WriteString(symbolKey(r))
			secondCoordinate = false
		default:
			sb.WriteRune(r)
			secondCoordinate = false
		}
		last = r
	}
	return sb.String()
}

func symbolKey(r rune) string {
	k := int(r - swuSymbolFirst)
	base := k/96 + 0x100
	fill := (k % 96) / 16
	rotation := k % 16
	return "S" + strconv.FormatInt(int64(base), 16) + string(hexDigits[fill]) + string(hexDigits[rotation])
}

func isSWU(r rune) bool {
	return (r >= swuPrefix && r <= swuNumLast) || (r >= swuSymbolFirst && r <= swuSymbolLast)
}
