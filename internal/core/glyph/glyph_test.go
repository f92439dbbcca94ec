package glyph

import (
	"math"
	"testing"

	"github.com/baditaflorin/go_sign_similarity/internal/core/domain"
)

type mapCache map[string]domain.Attributes

func (m mapCache) Get(key string) (domain.Attributes, bool) {
	v, ok := m[key]
	return v, ok
}

func (m mapCache) Add(key string, value domain.Attributes) { m[key] = value }
func (m mapCache) Len() int                                { return len(m) }
func (m mapCache) Purge()                                  { clear(m) }

func glyphAt(code string, x, y int) domain.Glyph {
	return domain.Glyph{Code: code, Attributes: Decode(code), Position: domain.Position{X: x, Y: y}}
}

func TestDecode(t *testing.T) {
	tests := []struct {
		code string
		want domain.Attributes
	}{
		{"S10000", domain.Attributes{Shape: 0x100, Facing: 0, Angle: 0, Parallel: false}},
		{"S15a11", domain.Attributes{Shape: 0x15a, Facing: 1, Angle: 1, Parallel: false}},
		{"S3770b", domain.Attributes{Shape: 0x377, Facing: 0, Angle: 11, Parallel: false}},
		{"S22f3f", domain.Attributes{Shape: 0x22f, Facing: 3, Angle: 15, Parallel: true}},
		{"S1", domain.Attributes{}},
	}

	for _, tc := range tests {
		t.Run(tc.code, func(t *testing.T) {
			if got := Decode(tc.code); got != tc.want {
				t.Errorf("Decode(%q) = %+v, want %+v", tc.code, got, tc.want)
			}
		})
	}
}

func TestCategoryOf(t *testing.T) {
	tests := []struct {
		shape int
		want  int
		ok    bool
	}{
		{0x100, 0, true},
		{0x204, 0, true},
		{0x205, 1, true},
		{0x2ff, 3, true},
		{0x38b, 5, true},
		{0x38c, -1, false},
		{0x0ff, -1, false},
	}

	for _, tc := range tests {
		got, ok := CategoryOf(tc.shape)
		if got != tc.want || ok != tc.ok {
			t.Errorf("CategoryOf(%#x) = (%d, %v), want (%d, %v)", tc.shape, got, ok, tc.want, tc.ok)
		}
	}
}

func TestExtractorMemoizes(t *testing.T) {
	cache := mapCache{}
	e := NewExtractor(cache)

	first := e.Attributes("S20e00")
	second := e.Attributes("S20e00")
	if first != second {
		t.Fatalf("expected identical attributes, got %+v and %+v", first, second)
	}
	if cache.Len() != 1 {
		t.Errorf("expected 1 cached entry, got %d", cache.Len())
	}

	var unbacked *Extractor
	if got := unbacked.Attributes("S20e00"); got != first {
		t.Errorf("nil extractor should decode directly, got %+v", got)
	}
}

func TestMeasurerMaxDistance(t *testing.T) {
	m, err := NewMeasurer(DefaultWeights(), DefaultNormalizationExponent)
	if err != nil {
		t.Fatalf("NewMeasurer: %v", err)
	}
	if math.Abs(m.MaxDistance()-3825.711004806213) > 1e-9 {
		t.Errorf("MaxDistance = %v", m.MaxDistance())
	}
	if got := m.Normalized(minExtreme, maxExtreme); math.Abs(got-1) > 1e-12 {
		t.Errorf("normalized extreme pair = %v, want 1", got)
	}
}

func TestMeasurerDistance(t *testing.T) {
	m, err := NewMeasurer(DefaultWeights(), DefaultNormalizationExponent)
	if err != nil {
		t.Fatalf("NewMeasurer: %v", err)
	}

	a := glyphAt("S15a11", 493, 494)

	t.Run("identity", func(t *testing.T) {
		if d := m.Distance(a, a); d != 0 {
			t.Errorf("distance to self = %v", d)
		}
		if n := m.Normalized(a, a); n != 0 {
			t.Errorf("normalized distance to self = %v", n)
		}
	})

	t.Run("symmetric", func(t *testing.T) {
		b := glyphAt("S22f13", 469, 517)
		if m.Distance(a, b) != m.Distance(b, a) {
			t.Errorf("distance is not symmetric")
		}
	})

	t.Run("attribute ordering", func(t *testing.T) {
		shape := m.Distance(a, glyphAt("S15b11", 493, 494))
		facing := m.Distance(a, glyphAt("S15a21", 493, 494))
		angle := m.Distance(a, glyphAt("S15a12", 493, 494))
		if !(shape > facing && facing > angle && angle > 0) {
			t.Errorf("expected shape > facing > angle > 0, got %v %v %v", shape, facing, angle)
		}
	})

	t.Run("parallel flip", func(t *testing.T) {
		// facing 2 -> 3 crosses the parallel boundary
		d := m.Distance(glyphAt("S15a21", 0, 0), glyphAt("S15a31", 0, 0))
		want := math.Sqrt(math.Pow(DefaultFacingWeight, 2) + math.Pow(DefaultParallelWeight, 2))
		if math.Abs(d-want) > 1e-12 {
			t.Errorf("distance = %v, want %v", d, want)
		}
	})

	t.Run("position", func(t *testing.T) {
		d := m.Distance(glyphAt("S15a11", 0, 0), glyphAt("S15a11", 30, 40))
		if math.Abs(d-5) > 1e-12 {
			t.Errorf("distance = %v, want 5", d)
		}
	})

	t.Run("category penalty per boundary", func(t *testing.T) {
		// 0x204 is the last hand shape, 0x205 the first contact symbol
		within := m.Distance(glyphAt("S20300", 500, 500), glyphAt("S20400", 500, 500))
		across := m.Distance(glyphAt("S20400", 500, 500), glyphAt("S20500", 500, 500))
		if math.Abs(within-DefaultShapeWeight) > 1e-12 {
			t.Errorf("within-category distance = %v, want %v", within, DefaultShapeWeight)
		}
		if math.Abs(across-within-DefaultCategoryPenalty) > 1e-12 {
			t.Errorf("crossing one boundary added %v, want %v", across-within, DefaultCategoryPenalty)
		}

		// hand shape to movement path crosses two boundaries
		twoSteps := m.Distance(glyphAt("S20400", 500, 500), glyphAt("S22100", 500, 500))
		if want := 29*DefaultShapeWeight + 2*DefaultCategoryPenalty; math.Abs(twoSteps-want) > 1e-12 {
			t.Errorf("two-boundary distance = %v, want %v", twoSteps, want)
		}
	})

	t.Run("wide shape span outweighs one boundary", func(t *testing.T) {
		span := m.Distance(glyphAt("S10000", 500, 500), glyphAt("S20400", 500, 500))
		across := m.Distance(glyphAt("S20400", 500, 500), glyphAt("S20500", 500, 500))
		if span != 260*DefaultShapeWeight || span <= across {
			t.Errorf("span = %v, across = %v", span, across)
		}
	})

	t.Run("unknown category", func(t *testing.T) {
		unknown := glyphAt("S38c00", 508, 462)
		known := glyphAt("S10000", 508, 462)
		if d := m.Distance(unknown, known); d != m.MaxDistance() {
			t.Errorf("distance = %v, want max %v", d, m.MaxDistance())
		}
		if d := m.Distance(known, unknown); d != m.MaxDistance() {
			t.Errorf("distance = %v, want max %v", d, m.MaxDistance())
		}
		if n := m.Normalized(unknown, known); n != 1 {
			t.Errorf("normalized = %v, want 1", n)
		}
	})
}

func TestDominantCategoryPenalty(t *testing.T) {
	w := DefaultWeights()
	bound := DominantCategoryPenalty(w)
	if bound <= DefaultCategoryPenalty {
		t.Fatalf("bound %v should exceed the default penalty", bound)
	}

	w.CategoryPenalty = bound + 1
	m, err := NewMeasurer(w, DefaultNormalizationExponent)
	if err != nil {
		t.Fatalf("NewMeasurer: %v", err)
	}

	// widest same-category pair: both ends of the hand shapes, opposite corners
	same := m.Distance(glyphAt("S10000", 250, 250), glyphAt("S2045f", 749, 749))
	if same > bound+1e-9 {
		t.Errorf("same-category distance %v exceeds bound %v", same, bound)
	}

	cross := m.Distance(glyphAt("S20400", 500, 500), glyphAt("S20500", 500, 500))
	if cross <= same {
		t.Errorf("cross-category distance %v not above same-category %v", cross, same)
	}
}

func TestNewMeasurerValidation(t *testing.T) {
	w := DefaultWeights()
	w.Shape = -1
	if _, err := NewMeasurer(w, DefaultNormalizationExponent); err == nil {
		t.Error("expected error for negative weight")
	}

	w = DefaultWeights()
	w.CategoryPenalty = 0
	if _, err := NewMeasurer(w, DefaultNormalizationExponent); err == nil {
		t.Error("expected error for zero category penalty")
	}

	if _, err := NewMeasurer(DefaultWeights(), 0); err == nil {
		t.Error("expected error for zero exponent")
	}
}
