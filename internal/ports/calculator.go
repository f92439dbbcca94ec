package ports

// SimilarityCalculator defines the interface for scoring a hypothesis notation
// string against a reference notation string.
type SimilarityCalculator interface {
	Name() string
	Symmetric() bool
	Score(hypothesis, reference string) float64
}

// Fingerprinter is implemented by calculators whose scores depend on tunable
// parameters. Score caches are partitioned by the fingerprint.
type Fingerprinter interface {
	Fingerprint() string
}
