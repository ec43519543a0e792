package frame

import "time"

type Timings struct {
	StartAt  time.Time
	Duration time.Duration
}

// Stats describes one finished frame, handed to every Observer.
type Stats struct {
	FrameNumber     uint64
	FrameWallTime   time.Time
	FrameGameTime   time.Duration
	ElapsedWallTime time.Duration
	ElapsedGameTime time.Duration

	TargetFPS   float64
	AverageFPS  float64
	RunningSlow bool

	FrameTimeLimit time.Duration
	FrameFreeTime  time.Duration // budget left after fn and tasks, negative on overrun
	ThrottleTime   time.Duration // pacing sleep, zero when the frame overran

	Frame Timings
	Tasks Timings
}

// TaskStats is the run history of one idle task.
type TaskStats struct {
	Name        string
	Runs        uint64
	AvgDuration time.Duration
}

type (
	Observer interface {
		ObserveFrame(stats Stats)
	}

	ObserverFunc func(stats Stats)

	// TickObserver sees every frame the runner ticks, including frames
	// whose frame function failed and which therefore never reach an
	// Observer.
	TickObserver interface {
		ObserveTick(t GameTime)
	}

	TickObserverFunc func(t GameTime)
)

func (f ObserverFunc) ObserveFrame(stats Stats) {
	f(stats)
}

func (f TickObserverFunc) ObserveTick(t GameTime) {
	f(t)
}
