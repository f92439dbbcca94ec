package ports

import "github.com/baditaflorin/go_sign_similarity/internal/core/domain"

// NotationNormalizer converts notation text into the canonical encoding and
// splits it into per-sign strings.
type NotationNormalizer interface {
	Normalize(text string) string
	Split(text string) []string
}

// SignParser turns one canonical sign string into a Sign.
type SignParser interface {
	Parse(sign string) domain.Sign
}
