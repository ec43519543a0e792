package frame

import (
	"time"

	"github.com/jonboulle/clockwork"
)

// GameTime is the timing picture of a single frame, as returned by
// GameClock.Tick. It is a plain value: holding on to it after the next
// tick is safe.
type GameTime struct {
	frameNumber     uint64
	frameWallTime   time.Time
	frameGameTime   time.Duration
	elapsedGameTime time.Duration
	elapsedWallTime time.Duration

	// source for ElapsedTimeSinceFrameStart
	wallClock clockwork.Clock
}

// NewGameTime builds a GameTime without a GameClock, mostly for tests.
// A nil wallClock falls back to the real clock.
func NewGameTime(
	wallClock clockwork.Clock,
	frameNumber uint64,
	frameWallTime time.Time,
	frameGameTime time.Duration,
	elapsedGameTime time.Duration,
	elapsedWallTime time.Duration,
) GameTime {
	if wallClock == nil {
		wallClock = clockwork.NewRealClock()
	}

	return GameTime{
		frameNumber:     frameNumber,
		frameWallTime:   frameWallTime,
		frameGameTime:   frameGameTime,
		elapsedGameTime: elapsedGameTime,
		elapsedWallTime: elapsedWallTime,
		wallClock:       wallClock,
	}
}

// FrameNumber is the index of the frame, 1 for the first tick of a clock
// started at frame 0.
func (t GameTime) FrameNumber() uint64 {
	return t.frameNumber
}

// FrameWallTime is the wall time at which the frame started.
func (t GameTime) FrameWallTime() time.Time {
	return t.frameWallTime
}

// FrameGameTime is the total game time as of this frame.
func (t GameTime) FrameGameTime() time.Duration {
	return t.frameGameTime
}

func (t GameTime) ElapsedGameTime() time.Duration {
	return t.elapsedGameTime
}

func (t GameTime) ElapsedWallTime() time.Duration {
	return t.elapsedWallTime
}

// ElapsedTimeSinceFrameStart is computed from the current wall time on
// every call, which makes it usable for intra-frame profiling.
func (t GameTime) ElapsedTimeSinceFrameStart() time.Duration {
	if t.wallClock == nil {
		return time.Since(t.frameWallTime)
	}

	return t.wallClock.Since(t.frameWallTime)
}

// InstantaneousFrameRate is the frame rate implied by this frame alone.
// A zero-length frame yields +Inf.
func (t GameTime) InstantaneousFrameRate(source SampleSource) float64 {
	return 1 / t.elapsed(source).Seconds()
}

func (t GameTime) elapsed(source SampleSource) time.Duration {
	if source == SampleGameTime {
		return t.elapsedGameTime
	}

	return t.elapsedWallTime
}
