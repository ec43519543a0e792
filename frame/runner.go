package frame

import (
	"context"
	"fmt"
	"time"

	"github.com/go-glx/gametime/frame/internal/schedule"
)

type ErrBehavior uint8

const (
	// ErrBehaviorExit stops Run with the frame error.
	ErrBehaviorExit ErrBehavior = iota
	// ErrBehaviorLog logs the frame error and keeps running. A failed
	// frame is not paced, so the next frame starts right away.
	ErrBehaviorLog
	// ErrBehaviorIgnore keeps running silently, without pacing the failed
	// frame either.
	ErrBehaviorIgnore
)

type (
	// Runner drives one frame at a time: tick the clock, feed the counter,
	// run the caller's frame function, use leftover time for idle tasks and
	// sleep out the rest of the target period.
	//
	// Like GameClock, a Runner belongs to the goroutine running the loop.
	Runner struct {
		logger           Logger
		frameErrBehavior ErrBehavior
		sleep            SleepFunc

		clock     *GameClock
		counter   FrameCount
		tasks     []*Task
		scheduler *schedule.Scheduler
		observers []Observer

		tickObservers []TickObserver

		// state
		stats   Stats
		wasSlow bool
	}

	FrameFn = func(t GameTime) error
)

func NewRunner(clock *GameClock, counter FrameCount, initializers ...RunnerInitializer) *Runner {
	r := &Runner{
		logger:           NewSlogLogger(nil),
		frameErrBehavior: ErrBehaviorExit,
		sleep:            clock.WallClock().Sleep,
		clock:            clock,
		counter:          counter,
	}

	for _, init := range initializers {
		init(r)
	}

	if len(r.tasks) > 0 {
		r.scheduler = newTaskScheduler(clock.WallClock(), r.tasks)
	}

	return r
}

func (r *Runner) Clock() *GameClock {
	return r.clock
}

func (r *Runner) Counter() FrameCount {
	return r.counter
}

// AddObserver is WithObserver for a runner that already exists.
func (r *Runner) AddObserver(observer Observer) {
	r.observers = append(r.observers, observer)
}

// AddTickObserver is WithTickObserver for a runner that already exists.
func (r *Runner) AddTickObserver(observer TickObserver) {
	r.tickObservers = append(r.tickObservers, observer)
}

// Stats of the last completed frame.
func (r *Runner) Stats() Stats {
	return r.stats
}

// TaskStats lists the idle tasks, most urgent first as of the last frame.
func (r *Runner) TaskStats() []TaskStats {
	if r.scheduler == nil {
		return nil
	}

	tasks := r.scheduler.Tasks()
	list := make([]TaskStats, 0, len(tasks))
	for _, task := range tasks {
		list = append(list, TaskStats{
			Name:        task.Name(),
			Runs:        task.Runs(),
			AvgDuration: task.AvgDuration(),
		})
	}

	return list
}

// Tick starts a new frame and feeds it to the counter, without running
// any frame logic or pacing.
func (r *Runner) Tick(step TimeStep) (GameTime, error) {
	return r.TickWithWallTime(step, r.clock.WallClock().Now())
}

func (r *Runner) TickWithWallTime(step TimeStep, frameStart time.Time) (GameTime, error) {
	frameTime, err := r.clock.TickWithWallTime(step, frameStart)
	if err != nil {
		return GameTime{}, err
	}

	r.counter.Tick(frameTime)

	for _, observer := range r.tickObservers {
		observer.ObserveTick(frameTime)
	}

	return frameTime, nil
}

// DoFrame performs one complete frame with fn. An error from fn is
// returned as is, and the frame then ends without idle tasks or pacing.
func (r *Runner) DoFrame(step TimeStep, fn FrameFn) error {
	frameTime, err := r.Tick(step)
	if err != nil {
		return err
	}

	return r.finishFrame(frameTime, fn)
}

// DoFrameAt is DoFrame for a frame that started at frameStart.
func (r *Runner) DoFrameAt(step TimeStep, frameStart time.Time, fn FrameFn) error {
	frameTime, err := r.TickWithWallTime(step, frameStart)
	if err != nil {
		return err
	}

	return r.finishFrame(frameTime, fn)
}

// Run calls DoFrame until ctx is done. Clock errors always stop the loop;
// frame errors are handled according to the configured ErrBehavior.
//
// Failed frames skip the pacing sleep. With ErrBehaviorLog or
// ErrBehaviorIgnore a frame function that keeps failing makes Run spin
// at full speed; such a function should sleep itself or fail with
// ErrBehaviorExit instead.
func (r *Runner) Run(ctx context.Context, step TimeStep, fn FrameFn) error {
	for {
		select {
		case <-ctx.Done():
			return nil
		default:
		}

		frameTime, err := r.Tick(step)
		if err != nil {
			return err
		}

		if err := r.finishFrame(frameTime, fn); err != nil {
			if next := r.handleError(frameTime, err); next != nil {
				return next
			}
		}
	}
}

func (r *Runner) finishFrame(frameTime GameTime, fn FrameFn) error {
	wallClock := r.clock.WallClock()
	stats := Stats{
		FrameNumber:     frameTime.FrameNumber(),
		FrameWallTime:   frameTime.FrameWallTime(),
		FrameGameTime:   frameTime.FrameGameTime(),
		ElapsedWallTime: frameTime.ElapsedWallTime(),
		ElapsedGameTime: frameTime.ElapsedGameTime(),
		TargetFPS:       r.counter.TargetFrameRate(),
		AverageFPS:      r.counter.AverageFrameRate(),
		RunningSlow:     r.counter.IsRunningSlow(frameTime),
		FrameTimeLimit:  r.counter.TargetTimePerFrame(),
	}

	stats.Frame.StartAt = wallClock.Now()
	if err := fn(frameTime); err != nil {
		return err
	}
	stats.Frame.Duration = wallClock.Since(stats.Frame.StartAt)

	if r.scheduler != nil {
		if capacity := r.counter.RemainingFrameTime(frameTime); capacity > 0 {
			stats.Tasks.StartAt = wallClock.Now()
			r.scheduler.Execute(capacity)
			stats.Tasks.Duration = wallClock.Since(stats.Tasks.StartAt)
		}
	}

	remaining, slept := r.clock.SleepRemainingVia(r.counter, r.sleep)
	stats.FrameFreeTime = remaining
	if slept {
		stats.ThrottleTime = remaining
	}

	r.stats = stats
	r.trackSlow(stats)

	for _, observer := range r.observers {
		observer.ObserveFrame(stats)
	}

	return nil
}

func (r *Runner) trackSlow(stats Stats) {
	if stats.RunningSlow == r.wasSlow {
		return
	}

	r.wasSlow = stats.RunningSlow

	if stats.RunningSlow {
		r.logger.Debug("frame loop running slow",
			"frame", stats.FrameNumber,
			"elapsed", stats.ElapsedWallTime,
			"limit", stats.FrameTimeLimit,
			"avg_fps", stats.AverageFPS,
		)
		return
	}

	r.logger.Debug("frame loop back on target",
		"frame", stats.FrameNumber,
		"avg_fps", stats.AverageFPS,
	)
}

func (r *Runner) handleError(frameTime GameTime, err error) error {
	err = fmt.Errorf("error on %d frame: %w", frameTime.FrameNumber(), err)

	if r.frameErrBehavior == ErrBehaviorExit {
		return err
	}

	if r.frameErrBehavior == ErrBehaviorLog {
		r.logger.Error(err)
		return nil
	}

	return nil
}
