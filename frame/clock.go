// Package frame keeps game time apart from wall time in a real-time loop.
//
// A GameClock is ticked once per frame with a TimeStep policy and returns a
// GameTime snapshot. A FrameCounter samples those snapshots to estimate the
// frame rate, and a Runner glues both together with pacing sleeps.
package frame

import (
	"fmt"
	"time"

	"github.com/jonboulle/clockwork"
)

type (
	// GameClock tracks frames, wall time and game time for a single loop.
	// It is not safe for concurrent use: exactly one goroutine ticks it.
	GameClock struct {
		wallClock clockwork.Clock

		startWallTime time.Time
		frameWallTime time.Time // start of the current frame
		totalGameTime time.Duration
		currentFrame  uint64
		multiplier    float64
	}

	// SleepFunc performs the actual pacing wait.
	SleepFunc = func(time.Duration)
)

func NewGameClock(initializers ...ClockInitializer) *GameClock {
	c := &GameClock{
		wallClock:  clockwork.NewRealClock(),
		multiplier: 1,
	}

	for _, init := range initializers {
		init(c)
	}

	if c.startWallTime.IsZero() {
		c.startWallTime = c.wallClock.Now()
	}

	c.frameWallTime = c.startWallTime
	return c
}

// Tick marks the start of a new frame at the current wall time.
func (c *GameClock) Tick(step TimeStep) (GameTime, error) {
	return c.TickWithWallTime(step, c.wallClock.Now())
}

// TickWithWallTime marks the start of a new frame at frameStart, which
// lets tests and replays drive the clock deterministically. frameStart
// should not be earlier than the previous frame start.
//
// On error the clock is left as it was before the call.
func (c *GameClock) TickWithWallTime(step TimeStep, frameStart time.Time) (GameTime, error) {
	elapsedWallTime := frameStart.Sub(c.frameWallTime)

	elapsedGameTime, err := ScaleDuration(step.ComputeGameTime(elapsedWallTime), c.multiplier)
	if err != nil {
		return GameTime{}, fmt.Errorf("tick frame %d: %w", c.currentFrame+1, err)
	}

	totalGameTime, err := AddDuration(c.totalGameTime, elapsedGameTime)
	if err != nil {
		return GameTime{}, fmt.Errorf("tick frame %d: %w", c.currentFrame+1, err)
	}

	c.totalGameTime = totalGameTime
	c.currentFrame++
	c.frameWallTime = frameStart

	return GameTime{
		frameNumber:     c.currentFrame,
		frameWallTime:   frameStart,
		frameGameTime:   totalGameTime,
		elapsedGameTime: elapsedGameTime,
		elapsedWallTime: elapsedWallTime,
		wallClock:       c.wallClock,
	}, nil
}

// CurrentFrameNumber is 0 (or the configured start frame) before the
// first tick and grows by one on every tick.
func (c *GameClock) CurrentFrameNumber() uint64 {
	return c.currentFrame
}

func (c *GameClock) StartWallTime() time.Time {
	return c.startWallTime
}

// FrameWallTime is the wall time at which the current frame started.
func (c *GameClock) FrameWallTime() time.Time {
	return c.frameWallTime
}

// FrameElapsedTime is the wall time spent in the current frame so far.
func (c *GameClock) FrameElapsedTime() time.Duration {
	return c.wallClock.Since(c.frameWallTime)
}

func (c *GameClock) TotalGameTime() time.Duration {
	return c.totalGameTime
}

// Multiplier is the rate at which game time advances relative to the
// time step. Zero freezes game time, negative values run it backwards.
func (c *GameClock) Multiplier() float64 {
	return c.multiplier
}

func (c *GameClock) SetMultiplier(multiplier float64) {
	c.multiplier = multiplier
}

// WallClock is the source of wall time used by the clock.
func (c *GameClock) WallClock() clockwork.Clock {
	return c.wallClock
}

// SleepRemainingVia asks sleep to wait out what is left of the target
// frame period. A frame that already overran its budget is not paced at
// all: sleep is not called and false is returned.
func (c *GameClock) SleepRemainingVia(period TargetPeriod, sleep SleepFunc) (time.Duration, bool) {
	remaining := period.TargetTimePerFrame() - c.FrameElapsedTime()
	if remaining < 0 {
		return remaining, false
	}

	sleep(remaining)
	return remaining, true
}

// SleepRemaining is SleepRemainingVia with the wall clock's own Sleep.
func (c *GameClock) SleepRemaining(period TargetPeriod) (time.Duration, bool) {
	return c.SleepRemainingVia(period, c.wallClock.Sleep)
}
