// sign_similarity_test.go
package signsimilarity

import (
	"context"
	"math"
	"testing"
)

func TestComputeWithDefaults(t *testing.T) {
	tests := []struct {
		name     string
		hyp      string
		ref      string
		expected bool // whether the result should pass the default threshold
	}{
		{
			name:     "Identical signs",
			hyp:      "M530x538S17600508x462S15a11493x494S20e00488x510S22f03469x517",
			ref:      "M530x538S17600508x462S15a11493x494S20e00488x510S22f03469x517",
			expected: true,
		},
		{
			name:     "Different shapes",
			hyp:      "M530x538S17600508x462S15a11493x494S20e00488x510S22f03469x517",
			ref:      "M530x538S17600508x462S12a11493x494S20e00488x510S22f13469x517",
			expected: true,
		},
		{
			name:     "Most glyphs missing",
			hyp:      "M530x538S17600508x462S15a11493x494S20e00488x510S22f03469x517",
			ref:      "M530x538S17600508x462",
			expected: false,
		},
		{
			name: "Empty hypothesis",
			hyp:  "",
			ref:  "M530x538S17600508x462",
			// An absent sign never passes.
			expected: false,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			result := ComputeWithDefaults(tc.hyp, tc.ref)
			if result.Passed != tc.expected {
				t.Errorf("expected passed=%v, got %v, score: %v", tc.expected, result.Passed, result.Score)
			}
		})
	}
}

func TestNewWithOptions(t *testing.T) {
	weights := DefaultWeights()
	weights.Position = 0

	ss, err := New(WithoutLogging(), WithWeights(weights), WithThreshold(0.99))
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	defer ss.Close()

	// Without the position term only glyph placement differs, so the signs match.
	result := ss.Compute(context.Background(), "M500x500S10000480x480", "M500x500S10000490x480")
	if math.Abs(result.Score-1) > 1e-12 || !result.Passed {
		t.Errorf("expected a perfect match, got %+v", result)
	}

	if _, err := New(WithoutLogging(), WithThreshold(2)); err == nil {
		t.Error("expected invalid threshold to fail")
	}
}
