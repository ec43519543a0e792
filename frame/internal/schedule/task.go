package schedule

import "time"

type (
	Task struct {
		name             string
		priority         Priority      // schedule priority against other tasks
		runAtLeastOnceIn time.Duration // overdue after this, runs regardless of capacity
		runAtMostOnceIn  time.Duration // cooldown between runs
		taskFn           taskFn

		// stats
		currentPriority float32 // -1; [0..1.25]; +2
		lastRunAt       time.Time
		avgDuration     time.Duration
		runsCount       uint64
	}

	taskFn = func()
)

func NewTask(
	name string,
	fn taskFn,
	priority Priority,
	runAtLeastOnceIn time.Duration,
	runAtMostOnceIn time.Duration,
) *Task {
	return &Task{
		name:             name,
		priority:         priority,
		runAtLeastOnceIn: runAtLeastOnceIn,
		runAtMostOnceIn:  runAtMostOnceIn,
		taskFn:           fn,
	}
}

func (t *Task) Name() string {
	return t.name
}

// AvgDuration is the mean run time over all runs so far.
func (t *Task) AvgDuration() time.Duration {
	return t.avgDuration
}

func (t *Task) Runs() uint64 {
	return t.runsCount
}
