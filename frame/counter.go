package frame

import (
	"errors"
	"fmt"
	"math"
	"time"
)

// DefaultSlowThreshold flags a loop as slow once a frame takes about 5%
// longer than the target period.
const DefaultSlowThreshold = 0.95

var (
	ErrInvalidFrameRate     = errors.New("target frame rate must be a positive finite number")
	ErrInvalidSlowThreshold = errors.New("slow threshold must be in (0, 1]")
	ErrNoSampler            = errors.New("frame counter needs a sampler")
)

type (
	// TargetPeriod is the read-only view of a counter needed by FixedStep
	// and by the pacing sleep.
	TargetPeriod interface {
		TargetTimePerFrame() time.Duration
	}

	// FrameCount tracks the frame rate of a loop against a target.
	FrameCount interface {
		TargetPeriod

		TargetFrameRate() float64
		// RemainingFrameTime is negative once the frame overran its budget.
		RemainingFrameTime(t GameTime) time.Duration
		Tick(t GameTime)
		AverageFrameRate() float64
		IsRunningSlow(t GameTime) bool
	}

	FrameCounter struct {
		targetFrameRate float64
		targetPeriod    time.Duration
		slowThreshold   float64
		sampler         FrameRateSampler
	}
)

func NewFrameCounter(targetFrameRate float64, sampler FrameRateSampler) (*FrameCounter, error) {
	if sampler == nil {
		return nil, ErrNoSampler
	}

	period, err := periodOf(targetFrameRate)
	if err != nil {
		return nil, err
	}

	return &FrameCounter{
		targetFrameRate: targetFrameRate,
		targetPeriod:    period,
		slowThreshold:   DefaultSlowThreshold,
		sampler:         sampler,
	}, nil
}

func periodOf(frameRate float64) (time.Duration, error) {
	if !(frameRate > 0) || math.IsInf(frameRate, 1) {
		return 0, fmt.Errorf("%w: %v", ErrInvalidFrameRate, frameRate)
	}

	period, err := FromSeconds(1 / frameRate)
	if err != nil {
		return 0, fmt.Errorf("%w: %v: %w", ErrInvalidFrameRate, frameRate, err)
	}

	if period <= 0 {
		return 0, fmt.Errorf("%w: %v is above one frame per nanosecond", ErrInvalidFrameRate, frameRate)
	}

	return period, nil
}

func (c *FrameCounter) TargetFrameRate() float64 {
	return c.targetFrameRate
}

func (c *FrameCounter) SetTargetFrameRate(targetFrameRate float64) error {
	period, err := periodOf(targetFrameRate)
	if err != nil {
		return err
	}

	c.targetFrameRate = targetFrameRate
	c.targetPeriod = period
	return nil
}

// SlowThreshold is compared against target period / frame wall time.
func (c *FrameCounter) SlowThreshold() float64 {
	return c.slowThreshold
}

func (c *FrameCounter) SetSlowThreshold(threshold float64) error {
	if !(threshold > 0 && threshold <= 1) {
		return fmt.Errorf("%w: %v", ErrInvalidSlowThreshold, threshold)
	}

	c.slowThreshold = threshold
	return nil
}

func (c *FrameCounter) TargetTimePerFrame() time.Duration {
	return c.targetPeriod
}

func (c *FrameCounter) RemainingFrameTime(t GameTime) time.Duration {
	return c.targetPeriod - t.ElapsedTimeSinceFrameStart()
}

func (c *FrameCounter) Tick(t GameTime) {
	c.sampler.Tick(t)
}

func (c *FrameCounter) AverageFrameRate() float64 {
	return c.sampler.AverageFrameRate()
}

// IsRunningSlow always judges by wall time, pacing is about real time.
func (c *FrameCounter) IsRunningSlow(t GameTime) bool {
	ratio := c.targetPeriod.Seconds() / t.ElapsedWallTime().Seconds()
	return ratio <= c.slowThreshold
}

func (c *FrameCounter) IsSaturated() bool {
	return c.sampler.IsSaturated()
}

func (c *FrameCounter) Sampler() FrameRateSampler {
	return c.sampler
}

func (c *FrameCounter) Reset() {
	c.sampler.Reset()
}
