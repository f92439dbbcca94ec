package warmup

import (
	"context"
	"fmt"
	"runtime"
	"strings"
	"sync"
	"time"

	"github.com/baditaflorin/go_sign_similarity/internal/ports"
)

// WarmupConfig defines configuration for warming up the caches
type WarmupConfig struct {
	// Number of concurrent warmup routines to run
	Concurrency int
	// Number of iterations per routine
	Iterations int
	// Number of sample signs generated for warmup
	SampleSigns int
	// Warmup duration (0 means no time limit)
	Duration time.Duration
	// Whether to perform GC after warmup
	ForceGC bool
}

// DefaultWarmupConfig returns the default warmup configuration
func DefaultWarmupConfig() WarmupConfig {
	return WarmupConfig{
		Concurrency: runtime.NumCPU(),
		Iterations:  100,
		SampleSigns: 32,
		Duration:    2 * time.Second,
		ForceGC:     false,
	}
}

// Manager handles cache warmup operations
type Manager struct {
	logger      ports.Logger
	calculators []ports.SimilarityCalculator
	normalizers []ports.NotationNormalizer
	samples     []string
	config      WarmupConfig
}

// NewManager creates a new warmup manager
func NewManager(logger ports.Logger, config WarmupConfig) *Manager {
	if config.Concurrency < 1 {
		config.Concurrency = 1
	}
	return &Manager{
		logger:  logger,
		config:  config,
		samples: GenerateSampleSigns(config.SampleSigns),
	}
}

// RegisterCalculator adds a calculator to be warmed up
func (wm *Manager) RegisterCalculator(calc ports.SimilarityCalculator) {
	wm.calculators = append(wm.calculators, calc)
}

// RegisterNormalizer adds a normalizer to be warmed up
func (wm *Manager) RegisterNormalizer(norm ports.NotationNormalizer) {
	wm.normalizers = append(wm.normalizers, norm)
}

// AddSamples adds notation strings that are known to appear in real input,
// such as the signs of a corpus about to be scored.
func (wm *Manager) AddSamples(samples ...string) {
	wm.samples = append(wm.samples, samples...)
}

// WarmUp runs the warmup process for all registered components
func (wm *Manager) WarmUp(ctx context.Context) {
	startTime := time.Now()
	wm.logger.Info("Starting cache warmup",
		"components", len(wm.calculators)+len(wm.normalizers),
		"samples", len(wm.samples),
		"concurrency", wm.config.Concurrency,
		"iterations", wm.config.Iterations,
	)

	var warmupCtx context.Context
	var cancel context.CancelFunc
	if wm.config.Duration > 0 {
		warmupCtx, cancel = context.WithTimeout(ctx, wm.config.Duration)
		defer cancel()
	} else {
		warmupCtx = ctx
	}

	wm.warmUpNormalizers(warmupCtx)
	wm.warmUpCalculators(warmupCtx)

	if wm.config.ForceGC {
		wm.logger.Debug("Forcing garbage collection after warmup")
		runtime.GC()
	}

	wm.logger.Info("Cache warmup completed",
		"duration", time.Since(startTime),
	)
}

func (wm *Manager) warmUpNormalizers(ctx context.Context) {
	if len(wm.normalizers) == 0 || len(wm.samples) == 0 {
		return
	}

	wm.logger.Debug("Warming up normalizers", "count", len(wm.normalizers))

	text := strings.Join(wm.samples, " ")
	for _, normalizer := range wm.normalizers {
		if ctx.Err() != nil {
			return
		}
		_ = normalizer.Split(text)
	}
}

// warmUpCalculators scores every sample against its neighbours. Routines
// start at different offsets so the first pass populates distinct entries.
func (wm *Manager) warmUpCalculators(ctx context.Context) {
	if len(wm.calculators) == 0 || len(wm.samples) == 0 {
		return
	}

	wm.logger.Debug("Warming up calculators", "count", len(wm.calculators))

	n := len(wm.samples)
	var wg sync.WaitGroup
	for i := 0; i < wm.config.Concurrency; i++ {
		wg.Add(1)
		go func(routineID int) {
			defer wg.Done()

			for j := 0; j < wm.config.Iterations; j++ {
				select {
				case <-ctx.Done():
					return
				default:
				}

				hyp := wm.samples[(routineID+j)%n]
				ref := wm.samples[(routineID+2*j+1)%n]
				for _, calculator := range wm.calculators {
					_ = calculator.Score(hyp, ref)
				}
			}
		}(i)
	}

	wg.Wait()
}

// sampleGlyphs spans every glyph category with varied fill and rotation.
var sampleGlyphs = []string{
	"S10000", "S14c20", "S15a11", "S17600", "S1f502",
	"S20500", "S20e00", "S2170a", "S22f03", "S26505",
	"S2ff00", "S30a00", "S33e00", "S36d00", "S37602", "S38800",
}

// GenerateSampleSigns builds count deterministic FSW signs of one to four
// glyphs each.
func GenerateSampleSigns(count int) []string {
	signs := make([]string, 0, count)
	for i := 0; i < count; i++ {
		glyphs := 1 + i%4
		var sb strings.Builder
		fmt.Fprintf(&sb, "M%dx%d", 518+glyphs*3, 518+glyphs*4)
		for g := 0; g < glyphs; g++ {
			code := sampleGlyphs[(i*3+g*5)%len(sampleGlyphs)]
			fmt.Fprintf(&sb, "%s%dx%d", code, 482+g*7+i%5, 483+g*9)
		}
		signs = append(signs, sb.String())
	}
	return signs
}
