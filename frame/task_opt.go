package frame

import "time"

type (
	TaskInitializer = func(*Task)
)

func WithTaskName(name string) TaskInitializer {
	return func(task *Task) {
		task.name = name
	}
}

// WithMinInterval is the cooldown between two runs, counted in wall time.
func WithMinInterval(d time.Duration) TaskInitializer {
	return func(task *Task) {
		task.minInterval = d
	}
}

// WithMaxInterval marks the task overdue once it did not run for d.
func WithMaxInterval(d time.Duration) TaskInitializer {
	return func(task *Task) {
		task.maxInterval = d
	}
}

func WithPriority(p TaskPriority) TaskInitializer {
	return func(task *Task) {
		task.priority = p
	}
}
