package frame

import (
	"runtime"
	"time"
)

// NewDefaultTaskGarbageCollect collects garbage in spare frame time, so
// GC pauses land in the pacing sleep instead of in the middle of a frame.
// It runs at most every 100ms and becomes overdue after 5s on a loop that
// never has time to spare.
func NewDefaultTaskGarbageCollect() *Task {
	return NewTask(
		func() {
			runtime.GC()
			runtime.Gosched()
		},
		WithTaskName("gc"),
		WithPriority(TaskPriorityLow),
		WithMinInterval(time.Millisecond*100),
		WithMaxInterval(time.Second*5),
	)
}
