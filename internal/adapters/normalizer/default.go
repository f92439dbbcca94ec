package normalizer

import (
	"regexp"
	"strings"

	"golang.org/x/text/unicode/norm"

	"github.com/baditaflorin/go_sign_similarity/internal/ports"
)

// sortingPrefix matches the optional "A" symbol sequence that precedes a box.
var sortingPrefix = regexp.MustCompile(`A(?:S[123][0-9a-f]{2}[0-5][0-9a-f])+`)

// NotationNormalizer converts notation text into canonical FSW and splits it
// into per-sign strings.
type NotationNormalizer struct {
	converter *SWUConverter
}

// NewNotationNormalizer creates a new notation normalizer.
func NewNotationNormalizer() ports.NotationNormalizer {
	return &NotationNormalizer{converter: NewSWUConverter()}
}

// Normalize applies NFC, converts SWU code points to FSW, drops sorting
// prefixes and collapses whitespace to single spaces.
func (n *NotationNormalizer) Normalize(text string) string {
	if text == "" {
		return ""
	}
	text = norm.NFC.String(text)
	if n.converter.Contains(text) {
		text = n.converter.Convert(text)
	}
	text = sortingPrefix.ReplaceAllString(text, "")
	return strings.Join(strings.Fields(text), " ")
}

// Split returns the normalized signs of text in order.
func (n *NotationNormalizer) Split(text string) []string {
	return strings.Fields(n.Normalize(text))
}
