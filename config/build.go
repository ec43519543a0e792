package config

import (
	"fmt"

	"github.com/go-glx/gametime/frame"
)

// Loop is everything needed to run a configured frame loop.
type Loop struct {
	Clock   *frame.GameClock
	Counter *frame.FrameCounter
	Runner  *frame.Runner
	Step    frame.TimeStep
}

// Build assembles the loop. clockOpts and runnerOpts are applied after
// the configured ones, so callers can swap the wall clock, add observers
// or override the logger.
func (c *Config) Build(clockOpts []frame.ClockInitializer, runnerOpts ...frame.RunnerInitializer) (*Loop, error) {
	if err := c.Validate(); err != nil {
		return nil, err
	}

	multiplier := 1.0
	if c.Multiplier != nil {
		multiplier = *c.Multiplier
	}

	clock := frame.NewGameClock(append([]frame.ClockInitializer{
		frame.WithStartFrame(c.StartFrame),
		frame.WithMultiplier(multiplier),
	}, clockOpts...)...)

	sampler, err := c.NewSampler()
	if err != nil {
		return nil, err
	}

	counter, err := frame.NewFrameCounter(c.TargetFrameRate, sampler)
	if err != nil {
		return nil, fmt.Errorf("failed to create frame counter: %w", err)
	}

	if err := counter.SetSlowThreshold(c.SlowThreshold); err != nil {
		return nil, fmt.Errorf("failed to create frame counter: %w", err)
	}

	behavior, err := ParseErrBehavior(c.ErrorBehavior)
	if err != nil {
		return nil, err
	}

	opts := []frame.RunnerInitializer{
		frame.WithFrameErrorHandleBehavior(behavior),
	}

	if c.Tasks.GarbageCollect {
		opts = append(opts, frame.WithTask(frame.NewDefaultTaskGarbageCollect()))
	}

	return &Loop{
		Clock:   clock,
		Counter: counter,
		Runner:  frame.NewRunner(clock, counter, append(opts, runnerOpts...)...),
		Step:    c.NewStep(counter),
	}, nil
}

// NewSampler creates the configured frame rate sampler.
func (c *Config) NewSampler() (frame.FrameRateSampler, error) {
	source, err := ParseSampleSource(c.Sampler.Source)
	if err != nil {
		return nil, err
	}

	opts := []frame.SamplerInitializer{
		frame.WithMaxSamples(c.Sampler.MaxSamples),
		frame.WithSampleSource(source),
	}

	if c.Sampler.Kind == SamplerRunning {
		sampler, err := frame.NewRunningAverageSampler(opts...)
		if err != nil {
			return nil, fmt.Errorf("failed to create sampler: %w", err)
		}
		return sampler, nil
	}

	sampler, err := frame.NewLinearAverageSampler(opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create sampler: %w", err)
	}
	return sampler, nil
}

// NewStep creates the configured time step. A fixed step reads its period
// from period.
func (c *Config) NewStep(period frame.TargetPeriod) frame.TimeStep {
	switch c.Step.Kind {
	case StepFixed:
		return frame.NewFixedStep(period)
	case StepConstant:
		return frame.NewConstantStep(c.Step.Constant)
	case StepNull:
		return frame.NullStep()
	default:
		return frame.VariableStep{}
	}
}
