package replay

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/jonboulle/clockwork"

	"github.com/go-glx/gametime/frame"
)

var ErrDiverged = errors.New("replay diverged from recording")

// NewClock returns a clock positioned where the recording started.
func NewClock(header Header, initializers ...frame.ClockInitializer) *frame.GameClock {
	start := time.Unix(0, header.StartWallTime).UTC()

	initializers = append([]frame.ClockInitializer{
		frame.WithWallClock(clockwork.NewFakeClockAt(start)),
		frame.WithStartWallTime(start),
		frame.WithStartFrame(header.StartFrame),
		frame.WithMultiplier(header.Multiplier),
	}, initializers...)

	return frame.NewGameClock(initializers...)
}

// NewRunner is frame.NewRunner without pacing: replayed frames run back
// to back, and Play moves the clock from one recorded frame start to the
// next.
func NewRunner(clock *frame.GameClock, counter frame.FrameCount, initializers ...frame.RunnerInitializer) *frame.Runner {
	initializers = append(initializers, frame.WithSleep(func(time.Duration) {}))
	return frame.NewRunner(clock, counter, initializers...)
}

// Play feeds every record of r to runner as a frame starting at the
// recorded wall time and ticked with the recorded multiplier, and returns
// the number of frames played. The runner should come from NewRunner on a
// clock from NewClock, whose fake wall clock Play advances to each frame
// start.
//
// Play stops with ErrDiverged as soon as a frame number or elapsed game
// time does not match the recording.
func Play(ctx context.Context, r *Reader, runner *frame.Runner, step frame.TimeStep, fn frame.FrameFn) (int, error) {
	played := 0
	clock := runner.Clock()
	fake, _ := clock.WallClock().(*clockwork.FakeClock)

	for {
		if err := ctx.Err(); err != nil {
			return played, err
		}

		rec, err := r.Next()
		if errors.Is(err, io.EOF) {
			return played, nil
		}
		if err != nil {
			return played, err
		}

		frameStart := time.Unix(0, rec.WallTime).UTC()
		if fake != nil && frameStart.After(fake.Now()) {
			fake.Advance(frameStart.Sub(fake.Now()))
		}

		clock.SetMultiplier(rec.Multiplier)

		err = runner.DoFrameAt(step, frameStart, func(t frame.GameTime) error {
			if t.FrameNumber() != rec.Frame {
				return fmt.Errorf("%w: frame %d replayed as %d", ErrDiverged, rec.Frame, t.FrameNumber())
			}

			if int64(t.ElapsedGameTime()) != rec.ElapsedGame {
				return fmt.Errorf("%w: frame %d elapsed game time %s, recorded %s",
					ErrDiverged, rec.Frame, t.ElapsedGameTime(), time.Duration(rec.ElapsedGame))
			}

			return fn(t)
		})
		if err != nil {
			return played, err
		}

		played++
	}
}
