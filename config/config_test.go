package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/go-glx/gametime/frame"
)

const testConfigYAML = `
targetFrameRate: 30
slowThreshold: 0.9
multiplier: 0.5
startFrame: 100
sampler:
  kind: running
  maxSamples: 16
  source: game
step:
  kind: constant
  constant: 16ms
errorBehavior: log
tasks:
  garbageCollect: true
`

func TestParse(t *testing.T) {
	cfg, err := Parse([]byte(testConfigYAML))
	require.NoError(t, err)

	assert.Equal(t, 30.0, cfg.TargetFrameRate)
	assert.Equal(t, 0.9, cfg.SlowThreshold)
	require.NotNil(t, cfg.Multiplier)
	assert.Equal(t, 0.5, *cfg.Multiplier)
	assert.Equal(t, uint64(100), cfg.StartFrame)
	assert.Equal(t, Sampler{Kind: SamplerRunning, MaxSamples: 16, Source: "game"}, cfg.Sampler)
	assert.Equal(t, Step{Kind: StepConstant, Constant: time.Millisecond * 16}, cfg.Step)
	assert.Equal(t, "log", cfg.ErrorBehavior)
	assert.True(t, cfg.Tasks.GarbageCollect)
}

func TestParse_Defaults(t *testing.T) {
	for _, data := range []string{"", "targetFrameRate: 60\n"} {
		cfg, err := Parse([]byte(data))
		require.NoError(t, err)
		assert.Equal(t, Default(), cfg)
	}
}

func TestParse_ZeroMultiplier(t *testing.T) {
	cfg, err := Parse([]byte("multiplier: 0\n"))
	require.NoError(t, err)
	assert.Zero(t, *cfg.Multiplier)

	cfg, err = Parse([]byte("multiplier: null\n"))
	require.NoError(t, err)
	assert.Equal(t, 1.0, *cfg.Multiplier)
}

func TestParse_Invalid(t *testing.T) {
	tests := []struct {
		name    string
		yaml    string
		wantErr error
		wantMsg string
	}{
		{name: "unknown field", yaml: "targetFps: 60\n", wantMsg: "failed to decode config"},
		{name: "zero rate", yaml: "targetFrameRate: 0\n", wantErr: frame.ErrInvalidFrameRate, wantMsg: "targetFrameRate"},
		{name: "infinite rate", yaml: "targetFrameRate: .inf\n", wantErr: frame.ErrInvalidFrameRate},
		{name: "threshold", yaml: "slowThreshold: 1.5\n", wantErr: frame.ErrInvalidSlowThreshold, wantMsg: "slowThreshold"},
		{name: "multiplier", yaml: "multiplier: .nan\n", wantMsg: "multiplier must be finite"},
		{name: "sampler kind", yaml: "sampler:\n  kind: median\n", wantMsg: "sampler.kind"},
		{name: "sampler size", yaml: "sampler:\n  maxSamples: 0\n", wantErr: frame.ErrInvalidSampleCount},
		{name: "sampler source", yaml: "sampler:\n  source: cpu\n", wantErr: frame.ErrInvalidSampleSource, wantMsg: "sampler.source"},
		{name: "step kind", yaml: "step:\n  kind: smooth\n", wantMsg: "step.kind"},
		{name: "constant without step", yaml: "step:\n  kind: constant\n", wantMsg: "step.constant"},
		{name: "bad duration", yaml: "step:\n  kind: constant\n  constant: soon\n", wantMsg: "failed to decode config"},
		{name: "error behavior", yaml: "errorBehavior: panic\n", wantErr: ErrUnknownErrBehavior},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse([]byte(tt.yaml))
			require.Error(t, err)

			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
			}
			if tt.wantMsg != "" {
				assert.Contains(t, err.Error(), tt.wantMsg)
			}
		})
	}
}

func TestLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "loop.yaml")
	require.NoError(t, os.WriteFile(path, []byte(testConfigYAML), 0o600))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 30.0, cfg.TargetFrameRate)

	_, err = Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestBuild(t *testing.T) {
	cfg, err := Parse([]byte(testConfigYAML))
	require.NoError(t, err)

	wallClock := clockwork.NewFakeClock()
	loop, err := cfg.Build(
		[]frame.ClockInitializer{frame.WithWallClock(wallClock)},
		frame.WithSleep(wallClock.Advance),
	)
	require.NoError(t, err)

	assert.Equal(t, uint64(100), loop.Clock.CurrentFrameNumber())
	assert.Equal(t, 0.5, loop.Clock.Multiplier())
	assert.Equal(t, 30.0, loop.Counter.TargetFrameRate())
	assert.Equal(t, 0.9, loop.Counter.SlowThreshold())
	assert.Equal(t, frame.SampleGameTime, loop.Counter.Sampler().Source())
	assert.Equal(t, uint32(16), loop.Counter.Sampler().MaxSamples())
	assert.IsType(t, &frame.RunningAverageSampler{}, loop.Counter.Sampler())
	assert.Equal(t, frame.NewConstantStep(time.Millisecond*16), loop.Step)

	var got frame.GameTime
	require.NoError(t, loop.Runner.DoFrame(loop.Step, func(t frame.GameTime) error {
		got = t
		wallClock.Advance(time.Millisecond)
		return nil
	}))

	assert.Equal(t, uint64(101), got.FrameNumber())
	assert.Equal(t, time.Millisecond*8, got.ElapsedGameTime())
}

func TestBuild_Steps(t *testing.T) {
	tests := []struct {
		kind string
		want time.Duration
	}{
		{kind: StepVariable, want: time.Millisecond * 40},
		{kind: StepFixed, want: time.Millisecond * 50},
		{kind: StepNull, want: 0},
	}

	for _, tt := range tests {
		t.Run(tt.kind, func(t *testing.T) {
			cfg := Default()
			cfg.TargetFrameRate = 20
			cfg.Step.Kind = tt.kind

			loop, err := cfg.Build([]frame.ClockInitializer{frame.WithWallClock(clockwork.NewFakeClock())})
			require.NoError(t, err)

			assert.Equal(t, tt.want, loop.Step.ComputeGameTime(time.Millisecond*40))
			assert.IsType(t, &frame.LinearAverageSampler{}, loop.Counter.Sampler())
		})
	}
}

func TestBuild_Invalid(t *testing.T) {
	cfg := Default()
	cfg.Sampler.Kind = "median"

	_, err := cfg.Build(nil)
	assert.Error(t, err)
}
