package frame

import "time"

type TaskPriority uint

const (
	TaskPriorityLow TaskPriority = iota
	TaskPriorityNormal
	TaskPriorityHigh
)

// Task is idle work the runner fits into the frame budget left over after
// the frame function, before the pacing sleep. Frames that overran their
// budget run no tasks at all.
//
// A task is picked when its average run time fits the remaining frame
// time, at most once per min interval. After max interval without a run
// it becomes overdue and takes the spare budget first, whatever its cost.
// A task that never ran is overdue.
type Task struct {
	name        string
	fn          func()
	priority    TaskPriority
	minInterval time.Duration
	maxInterval time.Duration
}

func NewTask(fn func(), initializers ...TaskInitializer) *Task {
	task := &Task{
		name:        "task",
		fn:          fn,
		priority:    TaskPriorityNormal,
		minInterval: time.Second,
		maxInterval: time.Minute,
	}

	for _, init := range initializers {
		init(task)
	}

	return task
}

func (t *Task) Name() string {
	return t.name
}
