package schedule

import (
	"sort"
	"time"
)

// Scheduler runs idle tasks inside whatever time is left of a frame.
type Scheduler struct {
	prioritize *Prioritize
	tasks      []*Task
}

func NewScheduler(prioritize *Prioritize, tasks ...*Task) *Scheduler {
	return &Scheduler{
		prioritize: prioritize,
		tasks:      tasks,
	}
}

func (s *Scheduler) Tasks() []*Task {
	return s.tasks
}

// Execute runs tasks by priority while capacity lasts and returns the
// time spent. Overdue tasks run even when there is no capacity left.
func (s *Scheduler) Execute(capacity time.Duration) time.Duration {
	spent := time.Duration(0)

	for _, task := range s.tasks {
		task.currentPriority = s.prioritize.calculateTaskPriority(task)
	}

	sort.SliceStable(s.tasks, func(i, j int) bool {
		return s.tasks[i].currentPriority > s.tasks[j].currentPriority
	})

	for _, task := range s.tasks {
		if task.currentPriority == runPriorityNotNeed {
			continue
		}

		if task.currentPriority == runPriorityCritical {
			took := s.run(task)
			capacity -= took
			spent += took
			continue
		}

		if capacity <= 0 {
			break
		}

		if task.avgDuration <= 0 {
			// unknown duration, may not fit, so it is the last one this frame
			spent += s.run(task)
			break
		}

		if task.avgDuration > capacity {
			continue
		}

		took := s.run(task)
		capacity -= took
		spent += took
	}

	return spent
}

// run executes the task and returns its duration
func (s *Scheduler) run(task *Task) time.Duration {
	clock := s.prioritize.clock

	task.lastRunAt = clock.Now()
	task.taskFn()
	duration := clock.Since(task.lastRunAt)

	task.avgDuration = ((task.avgDuration * time.Duration(task.runsCount)) + duration) /
		(time.Duration(task.runsCount) + 1)

	task.runsCount++
	return duration
}
