package similarity

import (
	"context"
	"math"
	"math/rand"
	"strings"
	"testing"

	"github.com/baditaflorin/go_sign_similarity/internal/adapters/logger"
	"github.com/baditaflorin/go_sign_similarity/internal/adapters/normalizer"
	"github.com/baditaflorin/go_sign_similarity/internal/adapters/parser"
	"github.com/baditaflorin/go_sign_similarity/internal/core/domain"
	"github.com/baditaflorin/go_sign_similarity/internal/core/glyph"
)

const (
	tolerance = 1e-9

	hypothesis = "M530x538S37602508x462S15a11493x494S20e00488x510S22f03469x517"
	reference  = "M519x534S37900497x466S3770b497x485S15a51491x501S22f03481x513"
	jumbled    = "M530x538S22f03469x517S37602508x462S20e00488x510S15a11493x494"

	sign1 = "M530x538S17600508x462S15a11493x494S20e00488x510S22f03469x517"
	sign2 = "M530x538S17600508x462S12a11493x494S20e00488x510S22f13469x517"
	short = "M530x538S17600508x462"

	swuHypothesis = "𝠃𝤤𝤬񎱃𝤎𝣠񂇒𝣿𝤀񆕁𝣺𝤐񇆤𝣧𝤗"
	swuReference  = "𝠃𝤙𝤨񎵡𝤃𝣤񎲬𝤃𝣷񂈒𝣽𝤇񇆤𝣳𝤓"
)

func newCalculator(t testing.TB, config SimilarityConfig) *Calculator {
	t.Helper()
	c, err := NewCalculator(config, logger.NewNop(), normalizer.NewNotationNormalizer(), parser.NewFSWParser(nil, nil), nil)
	if err != nil {
		t.Fatalf("NewCalculator: %v", err)
	}
	return c
}

// rotationHeavyConfig weighs the rotation digit above the fill digit.
func rotationHeavyConfig() SimilarityConfig {
	config := DefaultConfig()
	config.Weights.Facing = 5.0 / 24
	config.Weights.Angle = 5.0 / 3
	return config
}

func assertScore(t *testing.T, got, want float64) {
	t.Helper()
	if math.Abs(got-want) > tolerance {
		t.Errorf("score = %.16f, want %.16f", got, want)
	}
}

func TestScoreScenarios(t *testing.T) {
	c := newCalculator(t, DefaultConfig())

	tests := []struct {
		name       string
		hypothesis string
		reference  string
		want       float64
	}{
		{"different signs", hypothesis, reference, 0.5557001288803375},
		{"jumbled glyphs", hypothesis, jumbled, 1},
		{"different shapes", sign1, sign2, 0.8210067817002714},
		{"missing glyphs", sign1, short, 0.28648399691022},
		{"repeated hypothesis sign", sign1 + " " + sign1, sign2, 0.8210067817002714 / 2},
		{"swapped sign order", sign1 + " " + sign2, sign2 + " " + sign1, 1},
		{"swu encoding", swuHypothesis, swuReference, 0.5557001288803375},
		{"mixed encodings", swuHypothesis, reference, 0.5557001288803375},
		{"unknown category", "M530x538S38c00508x462", "M530x538S10000508x462", 0},
		{"malformed against itself", "M<s><s>M<s>p483", "M<s><s>M<s>p483", 0},
		{"box only against itself", short[:8], short[:8], 0},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assertScore(t, c.Score(tc.hypothesis, tc.reference), tc.want)
		})
	}
}

func TestScoreRotationHeavyWeights(t *testing.T) {
	c := newCalculator(t, rotationHeavyConfig())

	assertScore(t, c.Score(hypothesis, reference), 0.5509574768254414)
	assertScore(t, c.Score(sign1, sign2), 0.8326259781509948)
	assertScore(t, c.Score(sign1+" "+sign1, sign2), 0.8326259781509948/2)
	assertScore(t, c.Score(swuHypothesis, swuReference), 0.5509574768254414)
}

func TestScoreUnknownCategoryIsExactlyZero(t *testing.T) {
	c := newCalculator(t, DefaultConfig())
	if got := c.Score("M530x538S38c00508x462", "M530x538S10000508x462"); got != 0 {
		t.Errorf("score = %v, want exactly 0", got)
	}
}

func TestScoreAbsentInput(t *testing.T) {
	c := newCalculator(t, DefaultConfig())

	for _, pair := range [][2]string{{"", hypothesis}, {hypothesis, ""}, {"", ""}, {"   ", hypothesis}} {
		if got := c.Score(pair[0], pair[1]); got != 0 {
			t.Errorf("Score(%q, %q) = %v, want 0", pair[0], pair[1], got)
		}
	}
}

func TestScoreSymmetricAndInRange(t *testing.T) {
	c := newCalculator(t, DefaultConfig())
	corpus := []string{hypothesis, reference, jumbled, sign1, sign2, short, sign1 + " " + sign2, swuReference, "M530x538S38c00508x462"}

	for _, a := range corpus {
		for _, b := range corpus {
			ab := c.Score(a, b)
			ba := c.Score(b, a)
			if math.Abs(ab-ba) > 1e-12 {
				t.Errorf("Score(%q, %q) = %v but reversed = %v", a, b, ab, ba)
			}
			if ab < 0 || ab > 1+1e-12 {
				t.Errorf("Score(%q, %q) = %v out of range", a, b, ab)
			}
		}
	}
}

func shuffleGlyphs(rng *rand.Rand, fsw string) string {
	sign := parser.NewFSWParser(nil, nil).Parse(fsw)
	rng.Shuffle(len(sign.Glyphs), func(i, j int) {
		sign.Glyphs[i], sign.Glyphs[j] = sign.Glyphs[j], sign.Glyphs[i]
	})
	var sb strings.Builder
	sb.WriteString(fsw[:8])
	for _, g := range sign.Glyphs {
		sb.WriteString(g.Code)
		sb.WriteString(fsw3(g.Position.X))
		sb.WriteByte('x')
		sb.WriteString(fsw3(g.Position.Y))
	}
	return sb.String()
}

func fsw3(v int) string {
	return string([]byte{byte('0' + v/100), byte('0' + v/10%10), byte('0' + v%10)})
}

func TestGlyphOrderInvariance(t *testing.T) {
	c := newCalculator(t, DefaultConfig())
	rng := rand.New(rand.NewSource(42))

	for _, pair := range [][2]string{{hypothesis, reference}, {sign1, sign2}, {sign1, short}} {
		want := c.Score(pair[0], pair[1])
		for i := 0; i < 10; i++ {
			got := c.Score(shuffleGlyphs(rng, pair[0]), shuffleGlyphs(rng, pair[1]))
			assertScore(t, got, want)
		}
	}
}

func TestSignOrderInvariance(t *testing.T) {
	c := newCalculator(t, DefaultConfig())
	hyps := []string{hypothesis, sign1, short}
	refs := []string{reference, sign2}

	want := c.Score(strings.Join(hyps, " "), strings.Join(refs, " "))
	if want <= 0 || want >= 1 {
		t.Fatalf("unexpected baseline %v", want)
	}

	rng := rand.New(rand.NewSource(3))
	for i := 0; i < 10; i++ {
		h := append([]string(nil), hyps...)
		r := append([]string(nil), refs...)
		rng.Shuffle(len(h), func(i, j int) { h[i], h[j] = h[j], h[i] })
		rng.Shuffle(len(r), func(i, j int) { r[i], r[j] = r[j], r[i] })
		assertScore(t, c.Score(strings.Join(h, " "), strings.Join(r, " ")), want)
	}
}

func TestErrorRateEmptySigns(t *testing.T) {
	c := newCalculator(t, DefaultConfig())
	p := parser.NewFSWParser(nil, nil)
	full := p.Parse(sign1)
	empty := domain.Sign{}

	for _, pair := range [][2]domain.Sign{{full, empty}, {empty, full}, {empty, empty}} {
		if got := c.ErrorRate(pair[0], pair[1]); got != 1 {
			t.Errorf("ErrorRate = %v, want 1", got)
		}
		if got := c.ScoreSign(pair[0], pair[1]); got != 0 {
			t.Errorf("ScoreSign = %v, want 0", got)
		}
	}
}

func TestScoreSequencePadding(t *testing.T) {
	c := newCalculator(t, DefaultConfig())
	p := parser.NewFSWParser(nil, nil)
	a, b := p.Parse(sign1), p.Parse(sign2)

	single := c.ScoreSign(a, b)
	assertScore(t, c.ScoreSequence([]domain.Sign{a, a}, []domain.Sign{b}), single/2)
	assertScore(t, c.ScoreSequence([]domain.Sign{b}, []domain.Sign{a, a, a}), single/3)
	if got := c.ScoreSequence(nil, nil); got != 0 {
		t.Errorf("empty sequences = %v", got)
	}
}

func TestLengthBlend(t *testing.T) {
	tests := []struct {
		hyp, ref int
		want     float64
	}{
		{4, 4, 0},
		{4, 1, 3.0 / 5},
		{1, 4, 3.0 / 5},
		{0, 3, 3.0 / 4},
	}
	for _, tc := range tests {
		if got := LengthRatio(tc.hyp, tc.ref); math.Abs(got-tc.want) > 1e-15 {
			t.Errorf("LengthRatio(%d, %d) = %v, want %v", tc.hyp, tc.ref, got, tc.want)
		}
	}

	if got := LengthWeight(0, DefaultLengthExponent); got != 0 {
		t.Errorf("LengthWeight(0) = %v", got)
	}
	if got := LengthWeight(1, DefaultLengthExponent); got != 1 {
		t.Errorf("LengthWeight(1) = %v", got)
	}
	if got := BlendErrorRate(0, 0.3); got != 0.3 {
		t.Errorf("BlendErrorRate(0, 0.3) = %v", got)
	}
	if got := BlendErrorRate(1, 0.3); got != 1 {
		t.Errorf("BlendErrorRate(1, 0.3) = %v", got)
	}
}

func TestCompute(t *testing.T) {
	c := newCalculator(t, DefaultConfig())

	result := c.Compute(context.Background(), sign1, sign2)
	if result.Name != MetricName {
		t.Errorf("Name = %q", result.Name)
	}
	assertScore(t, result.Score, 0.8210067817002714)
	if !result.Passed {
		t.Errorf("expected pass at threshold %v", result.Threshold)
	}
	if result.HypothesisSigns != 1 || result.ReferenceSigns != 1 {
		t.Errorf("unexpected sign counts %d %d", result.HypothesisSigns, result.ReferenceSigns)
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	result = c.Compute(ctx, sign1, sign2)
	if result.Score != 0 || result.Passed || result.Details["error"] == nil {
		t.Errorf("expected cancelled result, got %+v", result)
	}
}

func TestConfigValidate(t *testing.T) {
	mutations := map[string]func(*SimilarityConfig){
		"negative weight":     func(c *SimilarityConfig) { c.Weights.Position = -0.1 },
		"zero penalty":        func(c *SimilarityConfig) { c.Weights.CategoryPenalty = 0 },
		"zero normalization":  func(c *SimilarityConfig) { c.NormalizationExponent = 0 },
		"zero length power":   func(c *SimilarityConfig) { c.LengthExponent = 0 },
		"threshold too large": func(c *SimilarityConfig) { c.Threshold = 1.5 },
	}

	for name, mutate := range mutations {
		t.Run(name, func(t *testing.T) {
			config := DefaultConfig()
			mutate(&config)
			if err := config.Validate(); err == nil {
				t.Error("expected validation error")
			}
		})
	}

	if err := DefaultConfig().Validate(); err != nil {
		t.Errorf("default config invalid: %v", err)
	}
	if DefaultConfig().Weights != glyph.DefaultWeights() {
		t.Error("default config does not use default weights")
	}
}

func TestConfigFingerprint(t *testing.T) {
	base := DefaultConfig()
	if base.Fingerprint() != DefaultConfig().Fingerprint() {
		t.Fatal("fingerprint is not deterministic")
	}

	threshold := base
	threshold.Threshold = 0.9
	if threshold.Fingerprint() != base.Fingerprint() {
		t.Error("threshold changed the fingerprint")
	}

	changes := map[string]func(*SimilarityConfig){
		"position weight":        func(c *SimilarityConfig) { c.Weights.Position = 5 },
		"category penalty":       func(c *SimilarityConfig) { c.Weights.CategoryPenalty = 50 },
		"normalization exponent": func(c *SimilarityConfig) { c.NormalizationExponent = 0.5 },
		"length exponent":        func(c *SimilarityConfig) { c.LengthExponent = 2 },
	}
	for name, change := range changes {
		t.Run(name, func(t *testing.T) {
			config := DefaultConfig()
			change(&config)
			if config.Fingerprint() == base.Fingerprint() {
				t.Errorf("fingerprint unchanged")
			}
		})
	}

	calc := newCalculator(t, base)
	if calc.Fingerprint() != base.Fingerprint() {
		t.Errorf("calculator fingerprint = %q", calc.Fingerprint())
	}
}
