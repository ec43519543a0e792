package frame

import (
	"fmt"
	"testing"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/require"
)

var testStartTime = time.Date(2000, 01, 01, 12, 0, 0, 0, time.UTC)

func testNewClock(initializers ...ClockInitializer) (*clockwork.FakeClock, *GameClock) {
	wallClock := clockwork.NewFakeClockAt(testStartTime)
	initializers = append([]ClockInitializer{WithWallClock(wallClock)}, initializers...)

	return wallClock, NewGameClock(initializers...)
}

func testNewCounter(t *testing.T, targetFrameRate float64, sampler FrameRateSampler) *FrameCounter {
	t.Helper()

	counter, err := NewFrameCounter(targetFrameRate, sampler)
	require.NoError(t, err)

	return counter
}

func testLinearSampler(t *testing.T, initializers ...SamplerInitializer) *LinearAverageSampler {
	t.Helper()

	sampler, err := NewLinearAverageSampler(initializers...)
	require.NoError(t, err)

	return sampler
}

func testRunningSampler(t *testing.T, initializers ...SamplerInitializer) *RunningAverageSampler {
	t.Helper()

	sampler, err := NewRunningAverageSampler(initializers...)
	require.NoError(t, err)

	return sampler
}

// testFrameTime is a frame with the same elapsed wall and game time
func testFrameTime(number uint64, elapsed time.Duration) GameTime {
	return NewGameTime(
		clockwork.NewFakeClockAt(testStartTime),
		number,
		testStartTime,
		elapsed*time.Duration(number),
		elapsed,
		elapsed,
	)
}

type testLogger struct {
	errors []error
	debug  []string
}

func (l *testLogger) Error(err error) {
	l.errors = append(l.errors, err)
}

func (l *testLogger) Debug(msg string, args ...any) {
	l.debug = append(l.debug, fmt.Sprint(append([]any{msg}, args...)...))
}
