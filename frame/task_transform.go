package frame

import (
	"github.com/jonboulle/clockwork"

	"github.com/go-glx/gametime/frame/internal/schedule"
)

// newTaskScheduler measures task runs on the runner's wall clock, so the
// same clock decides both the remaining frame time and what fits into it.
func newTaskScheduler(wallClock clockwork.Clock, tasks []*Task) *schedule.Scheduler {
	scheduled := make([]*schedule.Task, 0, len(tasks))
	for _, task := range tasks {
		scheduled = append(scheduled, schedule.NewTask(
			task.name,
			task.fn,
			schedulePriority(task.priority),
			task.maxInterval,
			task.minInterval,
		))
	}

	return schedule.NewScheduler(schedule.NewPrioritize(wallClock), scheduled...)
}

func schedulePriority(p TaskPriority) schedule.Priority {
	switch p {
	case TaskPriorityLow:
		return schedule.PriorityLow
	case TaskPriorityHigh:
		return schedule.PriorityHigh
	default:
		return schedule.PriorityNormal
	}
}
