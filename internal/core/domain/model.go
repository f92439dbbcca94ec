package domain

// Attributes are the decoded shape and orientation fields of a glyph code.
type Attributes struct {
	Shape    int
	Facing   int
	Angle    int
	Parallel bool
}

// Position is a glyph or box coordinate.
type Position struct {
	X int
	Y int
}

// Glyph is one placed symbol of a sign.
type Glyph struct {
	Code       string
	Attributes Attributes
	Position   Position
}

// Box is the bounding-box marker that opens every sign.
type Box struct {
	Kind     byte
	Position Position
}

// Sign is an ordered collection of glyphs. A sign without glyphs is valid
// and represents empty or unparseable input.
type Sign struct {
	Box    Box
	Glyphs []Glyph
}

// Empty reports whether the sign carries no glyphs.
func (s Sign) Empty() bool {
	return len(s.Glyphs) == 0
}

// Result holds the outcome of a single similarity computation.
type Result struct {
	Name            string
	Score           float64
	Passed          bool
	HypothesisSigns int
	ReferenceSigns  int
	Threshold       float64
	Details         map[string]interface{}
}
