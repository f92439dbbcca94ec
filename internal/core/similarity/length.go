package similarity

import "math"

// LengthRatio measures the glyph-count mismatch of two signs. The extra one in
// the denominator stands for the bounding box every sign carries.
func LengthRatio(hypothesis, reference int) float64 {
	diff := hypothesis - reference
	if diff < 0 {
		diff = -diff
	}
	return float64(diff) / float64(max(hypothesis, reference)+1)
}

// LengthWeight maps a length ratio to the share of the error rate it owns.
func LengthWeight(ratio, exponent float64) float64 {
	return math.Pow(ratio, exponent)
}

// BlendErrorRate combines the length weight with the mean matched cost.
func BlendErrorRate(lengthWeight, meanCost float64) float64 {
	return lengthWeight + meanCost*(1-lengthWeight)
}
