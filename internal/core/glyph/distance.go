package glyph

import (
	"errors"
	"math"

	"github.com/baditaflorin/go_sign_similarity/internal/core/domain"
)

// Weights scale each attribute delta of the glyph distance.
type Weights struct {
	Shape           float64
	Facing          float64
	Angle           float64
	Parallel        float64
	Position        float64
	CategoryPenalty float64
}

// Default distance weights. The category penalty is added once per category
// boundary crossed; it does not dominate, since a wide shape span inside one
// category costs more.
const (
	DefaultShapeWeight     = 5.0
	DefaultFacingWeight    = 5.0 / 3
	DefaultAngleWeight     = 5.0 / 24
	DefaultParallelWeight  = 5.0
	DefaultPositionWeight  = 1.0 / 10
	DefaultCategoryPenalty = 100.0

	// DefaultNormalizationExponent reshapes normalized distances towards the low end.
	DefaultNormalizationExponent = 1 / 2.5
)

// DefaultWeights returns the default distance weights.
func DefaultWeights() Weights {
	return Weights{
		Shape:           DefaultShapeWeight,
		Facing:          DefaultFacingWeight,
		Angle:           DefaultAngleWeight,
		Parallel:        DefaultParallelWeight,
		Position:        DefaultPositionWeight,
		CategoryPenalty: DefaultCategoryPenalty,
	}
}

// Validate checks that no weight is negative and the category penalty is set.
func (w Weights) Validate() error {
	if w.Shape < 0 || w.Facing < 0 || w.Angle < 0 || w.Parallel < 0 || w.Position < 0 {
		return errors.New("distance weights must not be negative")
	}
	if w.CategoryPenalty <= 0 {
		return errors.New("category penalty must be greater than 0")
	}
	return nil
}

// Attribute and coordinate extremes of placed glyphs.
const (
	maxFacingDelta = 5
	maxAngleDelta  = 15
	maxCoordDelta  = 749 - 250
)

// DominantCategoryPenalty returns the largest distance two glyphs of the same
// category can have under w. A CategoryPenalty above it makes every
// cross-category pair farther apart than any same-category pair.
func DominantCategoryPenalty(w Weights) float64 {
	var span int
	for _, c := range Categories {
		span = max(span, c.High-1-c.Low)
	}
	attributes := math.Sqrt(
		math.Pow(w.Shape*float64(span), 2) +
			math.Pow(w.Facing*maxFacingDelta, 2) +
			math.Pow(w.Angle*maxAngleDelta, 2) +
			math.Pow(w.Parallel, 2),
	)
	return attributes + w.Position*math.Hypot(maxCoordDelta, maxCoordDelta)
}

// The extreme pair used to derive the normalization constant.
var (
	minExtreme = domain.Glyph{Code: "S10000", Attributes: Decode("S10000"), Position: domain.Position{X: 250, Y: 250}}
	maxExtreme = domain.Glyph{Code: "S38b07", Attributes: Decode("S38b07"), Position: domain.Position{X: 750, Y: 750}}
)

// Measurer computes raw and normalized glyph distances. It is immutable after
// construction and safe for concurrent use.
type Measurer struct {
	weights     Weights
	exponent    float64
	maxDistance float64
}

// NewMeasurer creates a measurer and precomputes its maximum distance.
func NewMeasurer(weights Weights, exponent float64) (*Measurer, error) {
	if err := weights.Validate(); err != nil {
		return nil, err
	}
	if exponent <= 0 {
		return nil, errors.New("normalization exponent must be greater than 0")
	}
	m := &Measurer{weights: weights, exponent: exponent}
	m.maxDistance = m.raw(minExtreme, maxExtreme)
	if m.maxDistance <= 0 || math.IsInf(m.maxDistance, 0) {
		return nil, errors.New("weights yield a degenerate maximum distance")
	}
	return m, nil
}

// MaxDistance returns the normalization constant.
func (m *Measurer) MaxDistance() float64 {
	return m.maxDistance
}

// Distance returns the weighted distance between a and b. A glyph whose shape
// has no category is at the maximum distance from anything.
func (m *Measurer) Distance(a, b domain.Glyph) float64 {
	if _, ok := CategoryOf(a.Attributes.Shape); !ok {
		return m.maxDistance
	}
	if _, ok := CategoryOf(b.Attributes.Shape); !ok {
		return m.maxDistance
	}
	return m.raw(a, b)
}

// Normalized returns (Distance / MaxDistance) ^ exponent. The value is not
// clamped and may slightly exceed 1.
func (m *Measurer) Normalized(a, b domain.Glyph) float64 {
	return math.Pow(m.Distance(a, b)/m.maxDistance, m.exponent)
}

func (m *Measurer) raw(a, b domain.Glyph) float64 {
	w := m.weights
	x, y := a.Attributes, b.Attributes

	shape := w.Shape * math.Abs(float64(x.Shape-y.Shape))
	facing := w.Facing * math.Abs(float64(x.Facing-y.Facing))
	angle := w.Angle * math.Abs(float64(x.Angle-y.Angle))
	var parallel float64
	if x.Parallel != y.Parallel {
		parallel = w.Parallel
	}
	attributes := math.Sqrt(shape*shape + facing*facing + angle*angle + parallel*parallel)

	positional := w.Position * math.Hypot(
		float64(a.Position.X-b.Position.X),
		float64(a.Position.Y-b.Position.Y),
	)

	ca, _ := CategoryOf(x.Shape)
	cb, _ := CategoryOf(y.Shape)
	penalty := w.CategoryPenalty * math.Abs(float64(ca-cb))

	return attributes + positional + penalty
}
