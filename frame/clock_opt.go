package frame

import (
	"time"

	"github.com/jonboulle/clockwork"
)

type (
	ClockInitializer = func(*GameClock)
)

// WithWallClock replaces the real wall clock, typically with a
// clockwork fake clock in tests.
func WithWallClock(wallClock clockwork.Clock) ClockInitializer {
	return func(c *GameClock) {
		c.wallClock = wallClock
	}
}

func WithStartWallTime(t time.Time) ClockInitializer {
	return func(c *GameClock) {
		c.startWallTime = t
	}
}

func WithStartFrame(frame uint64) ClockInitializer {
	return func(c *GameClock) {
		c.currentFrame = frame
	}
}

func WithStartGameTime(d time.Duration) ClockInitializer {
	return func(c *GameClock) {
		c.totalGameTime = d
	}
}

func WithMultiplier(multiplier float64) ClockInitializer {
	return func(c *GameClock) {
		c.multiplier = multiplier
	}
}
