// Package config describes a frame loop in YAML and builds it.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/go-glx/gametime/frame"
)

const (
	SamplerLinear  = "linear"
	SamplerRunning = "running"

	StepVariable = "variable"
	StepFixed    = "fixed"
	StepConstant = "constant"
	StepNull     = "null"

	DefaultTargetFrameRate = 60.0
)

// Config is a loop description:
//
//	targetFrameRate: 60
//	slowThreshold: 0.95
//	multiplier: 1
//	startFrame: 0
//	sampler:
//	  kind: linear      # linear | running
//	  maxSamples: 64
//	  source: wall      # wall | game
//	step:
//	  kind: fixed       # variable | fixed | constant | null
//	  constant: 16ms    # constant only
//	errorBehavior: log  # exit | log | ignore
//	tasks:
//	  garbageCollect: true
type Config struct {
	TargetFrameRate float64  `yaml:"targetFrameRate"`
	SlowThreshold   float64  `yaml:"slowThreshold"`
	Multiplier      *float64 `yaml:"multiplier"`
	StartFrame      uint64   `yaml:"startFrame"`
	Sampler         Sampler  `yaml:"sampler"`
	Step            Step     `yaml:"step"`
	ErrorBehavior   string   `yaml:"errorBehavior"`
	Tasks           Tasks    `yaml:"tasks"`
}

type Sampler struct {
	Kind       string `yaml:"kind"`
	MaxSamples uint32 `yaml:"maxSamples"`
	Source     string `yaml:"source"`
}

type Step struct {
	Kind     string        `yaml:"kind"`
	Constant time.Duration `yaml:"constant"`
}

type Tasks struct {
	GarbageCollect bool `yaml:"garbageCollect"`
}

// Default is the configuration used for every field a file leaves out.
func Default() *Config {
	multiplier := 1.0

	return &Config{
		TargetFrameRate: DefaultTargetFrameRate,
		SlowThreshold:   frame.DefaultSlowThreshold,
		Multiplier:      &multiplier,
		Sampler: Sampler{
			Kind:       SamplerLinear,
			MaxSamples: frame.DefaultNumSamples,
			Source:     frame.SampleWallTime.String(),
		},
		Step: Step{
			Kind: StepVariable,
		},
		ErrorBehavior: "exit",
	}
}

// Load reads configuration from a file path.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	return Parse(data)
}

// Parse reads YAML on top of Default and validates the result. Unknown
// fields are rejected.
func Parse(data []byte) (*Config, error) {
	cfg := Default()

	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)

	if err := decoder.Decode(cfg); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("failed to decode config: %w", err)
	}

	if cfg.Multiplier == nil {
		// explicit "multiplier: null"
		multiplier := 1.0
		cfg.Multiplier = &multiplier
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Validate checks the configuration for errors.
func (c *Config) Validate() error {
	if !(c.TargetFrameRate > 0) || math.IsInf(c.TargetFrameRate, 0) {
		return fmt.Errorf("targetFrameRate %v: %w", c.TargetFrameRate, frame.ErrInvalidFrameRate)
	}

	if !(c.SlowThreshold > 0 && c.SlowThreshold <= 1) {
		return fmt.Errorf("slowThreshold %v: %w", c.SlowThreshold, frame.ErrInvalidSlowThreshold)
	}

	if c.Multiplier != nil && (math.IsNaN(*c.Multiplier) || math.IsInf(*c.Multiplier, 0)) {
		return fmt.Errorf("multiplier must be finite, got %v", *c.Multiplier)
	}

	if c.Sampler.Kind != SamplerLinear && c.Sampler.Kind != SamplerRunning {
		return fmt.Errorf("sampler.kind must be %q or %q, got %q", SamplerLinear, SamplerRunning, c.Sampler.Kind)
	}

	if c.Sampler.MaxSamples == 0 {
		return fmt.Errorf("sampler.maxSamples: %w", frame.ErrInvalidSampleCount)
	}

	if _, err := ParseSampleSource(c.Sampler.Source); err != nil {
		return fmt.Errorf("sampler.source: %w", err)
	}

	switch c.Step.Kind {
	case StepVariable, StepFixed, StepNull:
	case StepConstant:
		if c.Step.Constant == 0 {
			return fmt.Errorf("step.constant is required for a %q step", StepConstant)
		}
	default:
		return fmt.Errorf("step.kind must be one of variable, fixed, constant, null, got %q", c.Step.Kind)
	}

	if _, err := ParseErrBehavior(c.ErrorBehavior); err != nil {
		return fmt.Errorf("errorBehavior: %w", err)
	}

	return nil
}

func ParseSampleSource(s string) (frame.SampleSource, error) {
	switch s {
	case frame.SampleWallTime.String():
		return frame.SampleWallTime, nil
	case frame.SampleGameTime.String():
		return frame.SampleGameTime, nil
	default:
		return 0, fmt.Errorf("%w: %q", frame.ErrInvalidSampleSource, s)
	}
}

var ErrUnknownErrBehavior = errors.New("unknown error behavior")

func ParseErrBehavior(s string) (frame.ErrBehavior, error) {
	switch s {
	case "exit":
		return frame.ErrBehaviorExit, nil
	case "log":
		return frame.ErrBehaviorLog, nil
	case "ignore":
		return frame.ErrBehaviorIgnore, nil
	default:
		return 0, fmt.Errorf("%w: %q", ErrUnknownErrBehavior, s)
	}
}
