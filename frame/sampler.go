package frame

import (
	"errors"
	"fmt"
	"math"

	"github.com/gammazero/deque"
)

// DefaultNumSamples is the sample count used when WithMaxSamples is not given.
const DefaultNumSamples uint32 = 64

var (
	ErrInvalidSampleCount  = errors.New("sampler needs at least one sample")
	ErrInvalidSampleSource = errors.New("unknown sample source")
)

// SampleSource selects which elapsed time a sampler turns into a frame rate.
type SampleSource uint8

const (
	// SampleWallTime measures real frame pacing. Default.
	SampleWallTime SampleSource = iota
	// SampleGameTime measures simulated frames per second; it differs from
	// wall time whenever the multiplier is not 1 or a non-variable step is used.
	SampleGameTime
)

func (s SampleSource) String() string {
	switch s {
	case SampleWallTime:
		return "wall"
	case SampleGameTime:
		return "game"
	default:
		return fmt.Sprintf("SampleSource(%d)", uint8(s))
	}
}

// FrameRateSampler keeps a running frame rate estimate over successive
// GameTime snapshots.
type FrameRateSampler interface {
	// Tick feeds the frame into the estimate.
	Tick(t GameTime)
	AverageFrameRate() float64
	// IsSaturated reports whether enough frames were seen for the
	// estimate to be past its startup transient.
	IsSaturated() bool
	MaxSamples() uint32
	Source() SampleSource
	// Reset forgets every sample, e.g. after the loop was paused.
	Reset()
}

type (
	samplerConfig struct {
		maxSamples uint32
		source     SampleSource
	}

	SamplerInitializer = func(*samplerConfig)
)

func WithMaxSamples(maxSamples uint32) SamplerInitializer {
	return func(cfg *samplerConfig) {
		cfg.maxSamples = maxSamples
	}
}

func WithSampleSource(source SampleSource) SamplerInitializer {
	return func(cfg *samplerConfig) {
		cfg.source = source
	}
}

func newSamplerConfig(initializers []SamplerInitializer) (samplerConfig, error) {
	cfg := samplerConfig{
		maxSamples: DefaultNumSamples,
		source:     SampleWallTime,
	}

	for _, init := range initializers {
		init(&cfg)
	}

	if cfg.maxSamples == 0 {
		return cfg, ErrInvalidSampleCount
	}

	if cfg.source != SampleWallTime && cfg.source != SampleGameTime {
		return cfg, fmt.Errorf("%w: %s", ErrInvalidSampleSource, cfg.source)
	}

	return cfg, nil
}

// sampleRate returns the instantaneous frame rate of the frame. Frames
// with no elapsed time carry no rate and are skipped; time running
// backwards is measured by its magnitude.
func sampleRate(t GameTime, source SampleSource) (float64, bool) {
	elapsed := t.elapsed(source)
	if elapsed == 0 {
		return 0, false
	}

	return 1 / math.Abs(elapsed.Seconds()), true
}

// RunningAverageSampler averages frame rates without storing them.
//
// Until MaxSamples frames were seen the average is the plain mean of all
// of them. After that the sample count stays at MaxSamples and the same
// (avg*(n-1) + next) / n update becomes an exponential filter, so the
// estimate keeps following recent frames. Large outliers linger for a
// while.
type RunningAverageSampler struct {
	maxSamples     uint32
	currentSamples uint32
	currentAverage float64
	source         SampleSource
}

func NewRunningAverageSampler(initializers ...SamplerInitializer) (*RunningAverageSampler, error) {
	cfg, err := newSamplerConfig(initializers)
	if err != nil {
		return nil, err
	}

	return &RunningAverageSampler{
		maxSamples: cfg.maxSamples,
		source:     cfg.source,
	}, nil
}

func (s *RunningAverageSampler) Tick(t GameTime) {
	rate, ok := sampleRate(t, s.source)
	if !ok {
		return
	}

	if !s.IsSaturated() {
		s.currentSamples++
	}

	n := float64(s.currentSamples)
	s.currentAverage = (s.currentAverage*(n-1) + rate) / n
}

func (s *RunningAverageSampler) AverageFrameRate() float64 {
	return s.currentAverage
}

func (s *RunningAverageSampler) IsSaturated() bool {
	return s.currentSamples == s.maxSamples
}

func (s *RunningAverageSampler) MaxSamples() uint32 {
	return s.maxSamples
}

func (s *RunningAverageSampler) Source() SampleSource {
	return s.source
}

func (s *RunningAverageSampler) Reset() {
	s.currentSamples = 0
	s.currentAverage = 0
}

// LinearAverageSampler is the arithmetic mean of the last MaxSamples
// frame rates. The oldest rate is dropped first.
type LinearAverageSampler struct {
	pastData   deque.Deque[float64]
	maxSamples uint32
	source     SampleSource
}

func NewLinearAverageSampler(initializers ...SamplerInitializer) (*LinearAverageSampler, error) {
	cfg, err := newSamplerConfig(initializers)
	if err != nil {
		return nil, err
	}

	return &LinearAverageSampler{
		maxSamples: cfg.maxSamples,
		source:     cfg.source,
	}, nil
}

func (s *LinearAverageSampler) Tick(t GameTime) {
	rate, ok := sampleRate(t, s.source)
	if !ok {
		return
	}

	if s.IsSaturated() {
		s.pastData.PopFront()
	}

	s.pastData.PushBack(rate)
}

// AverageFrameRate is 0 until the first sample arrives.
func (s *LinearAverageSampler) AverageFrameRate() float64 {
	held := s.pastData.Len()
	if held == 0 {
		return 0
	}

	sum := 0.0
	for i := 0; i < held; i++ {
		sum += s.pastData.At(i)
	}

	return sum / float64(held)
}

func (s *LinearAverageSampler) IsSaturated() bool {
	return s.pastData.Len() == int(s.maxSamples)
}

func (s *LinearAverageSampler) MaxSamples() uint32 {
	return s.maxSamples
}

func (s *LinearAverageSampler) Source() SampleSource {
	return s.source
}

func (s *LinearAverageSampler) Reset() {
	s.pastData.Clear()
}
