package frame

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLinearAverageSampler_SteadyRate(t *testing.T) {
	sampler := testLinearSampler(t, WithMaxSamples(10))
	counter := testNewCounter(t, 20, sampler)

	for i := uint64(1); i <= 10; i++ {
		frameTime := testFrameTime(i, time.Millisecond*100)
		counter.Tick(frameTime)

		assert.True(t, counter.IsRunningSlow(frameTime))
		assert.Equal(t, i == 10, counter.IsSaturated())
	}

	assert.Equal(t, 10.0, counter.AverageFrameRate())
}

func TestLinearAverageSampler_Window(t *testing.T) {
	sampler := testLinearSampler(t, WithMaxSamples(3))
	assert.Equal(t, uint32(3), sampler.MaxSamples())
	assert.Zero(t, sampler.AverageFrameRate())

	// rates: 4, 2, 8, 4
	elapsed := []time.Duration{
		time.Millisecond * 250,
		time.Millisecond * 500,
		time.Millisecond * 125,
		time.Millisecond * 250,
	}

	for i, dt := range elapsed {
		sampler.Tick(testFrameTime(uint64(i+1), dt))
	}

	assert.True(t, sampler.IsSaturated())
	assert.InDelta(t, 14.0/3.0, sampler.AverageFrameRate(), 1e-9)

	sampler.Reset()
	assert.False(t, sampler.IsSaturated())
	assert.Zero(t, sampler.AverageFrameRate())
}

func TestRunningAverageSampler(t *testing.T) {
	sampler := testRunningSampler(t, WithMaxSamples(4))

	tests := []struct {
		elapsed   time.Duration
		want      float64
		saturated bool
	}{
		// plain mean until four samples
		{elapsed: time.Millisecond * 250, want: 4},
		{elapsed: time.Millisecond * 500, want: 3},
		{elapsed: time.Millisecond * 125, want: 14.0 / 3.0},
		{elapsed: time.Millisecond * 500, want: 4, saturated: true},
		// exponential filter afterwards
		{elapsed: time.Millisecond * 125, want: 5, saturated: true},
		{elapsed: time.Millisecond * 250, want: 4.75, saturated: true},
	}

	for i, tt := range tests {
		sampler.Tick(testFrameTime(uint64(i+1), tt.elapsed))

		assert.InDelta(t, tt.want, sampler.AverageFrameRate(), 1e-9, "frame %d", i+1)
		assert.Equal(t, tt.saturated, sampler.IsSaturated(), "frame %d", i+1)
	}

	sampler.Reset()
	assert.False(t, sampler.IsSaturated())
	assert.Zero(t, sampler.AverageFrameRate())
}

func TestSamplers_Source(t *testing.T) {
	// simulation at half speed: 100ms of wall time is 50ms of game time
	frameTime := NewGameTime(nil, 1, testStartTime, time.Millisecond*50, time.Millisecond*50, time.Millisecond*100)

	samplers := map[string]func(*testing.T, ...SamplerInitializer) FrameRateSampler{
		"linear": func(t *testing.T, opts ...SamplerInitializer) FrameRateSampler {
			return testLinearSampler(t, opts...)
		},
		"running": func(t *testing.T, opts ...SamplerInitializer) FrameRateSampler {
			return testRunningSampler(t, opts...)
		},
	}

	for name, newSampler := range samplers {
		t.Run(name, func(t *testing.T) {
			wall := newSampler(t)
			assert.Equal(t, SampleWallTime, wall.Source())
			assert.Equal(t, DefaultNumSamples, wall.MaxSamples())

			wall.Tick(frameTime)
			assert.Equal(t, 10.0, wall.AverageFrameRate())

			game := newSampler(t, WithSampleSource(SampleGameTime))
			game.Tick(frameTime)
			assert.Equal(t, 20.0, game.AverageFrameRate())
		})
	}
}

func TestSamplers_SkipsEmptyFrames(t *testing.T) {
	sampler := testLinearSampler(t, WithMaxSamples(1))

	sampler.Tick(testFrameTime(1, 0))
	assert.False(t, sampler.IsSaturated())
	assert.Zero(t, sampler.AverageFrameRate())

	running := testRunningSampler(t, WithMaxSamples(1))
	running.Tick(testFrameTime(1, 0))
	assert.False(t, running.IsSaturated())
	assert.Zero(t, running.AverageFrameRate())
}

func TestSamplers_BackwardsGameTime(t *testing.T) {
	frameTime := NewGameTime(nil, 1, testStartTime, -time.Millisecond*250, -time.Millisecond*250, time.Millisecond*250)

	sampler := testLinearSampler(t, WithSampleSource(SampleGameTime))
	sampler.Tick(frameTime)

	assert.Equal(t, 4.0, sampler.AverageFrameRate())
}

func TestSamplers_InvalidConfig(t *testing.T) {
	_, err := NewLinearAverageSampler(WithMaxSamples(0))
	assert.ErrorIs(t, err, ErrInvalidSampleCount)

	_, err = NewRunningAverageSampler(WithMaxSamples(0))
	assert.ErrorIs(t, err, ErrInvalidSampleCount)

	_, err = NewRunningAverageSampler(WithSampleSource(SampleSource(7)))
	require.ErrorIs(t, err, ErrInvalidSampleSource)
	assert.Contains(t, err.Error(), "SampleSource(7)")
}

func TestSampleSource_String(t *testing.T) {
	assert.Equal(t, "wall", SampleWallTime.String())
	assert.Equal(t, "game", SampleGameTime.String())
}

func TestGameTime_InstantaneousFrameRate(t *testing.T) {
	frameTime := NewGameTime(nil, 1, testStartTime, time.Second, time.Millisecond*25, time.Millisecond*100)

	assert.Equal(t, 10.0, frameTime.InstantaneousFrameRate(SampleWallTime))
	assert.Equal(t, 40.0, frameTime.InstantaneousFrameRate(SampleGameTime))
}
