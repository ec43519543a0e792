package frame

import "time"

// TimeStep computes the game time delta of a frame from its elapsed wall
// time. The clock multiplier is applied afterwards by GameClock.
type TimeStep interface {
	ComputeGameTime(elapsedWallTime time.Duration) time.Duration
}

// TimeStepFunc adapts a plain function to TimeStep.
type TimeStepFunc func(elapsedWallTime time.Duration) time.Duration

func (f TimeStepFunc) ComputeGameTime(elapsedWallTime time.Duration) time.Duration {
	return f(elapsedWallTime)
}

// VariableStep advances game time one to one with wall time.
type VariableStep struct{}

func (VariableStep) ComputeGameTime(elapsedWallTime time.Duration) time.Duration {
	return elapsedWallTime
}

// ConstantStep advances game time by the same amount every frame,
// whatever the wall time did. Useful for deterministic simulations.
type ConstantStep struct {
	step time.Duration
}

func NewConstantStep(step time.Duration) ConstantStep {
	return ConstantStep{step: step}
}

// NullStep never advances game time.
func NullStep() ConstantStep {
	return ConstantStep{}
}

func (s ConstantStep) Step() time.Duration {
	return s.step
}

func (s ConstantStep) ComputeGameTime(time.Duration) time.Duration {
	return s.step
}

// FixedStep advances game time by exactly one target frame period per
// tick. It only reads the period, so the counter behind it may be ticked
// by the runner in the same frame.
type FixedStep struct {
	period TargetPeriod
}

func NewFixedStep(period TargetPeriod) FixedStep {
	return FixedStep{period: period}
}

func (s FixedStep) ComputeGameTime(time.Duration) time.Duration {
	return s.period.TargetTimePerFrame()
}
