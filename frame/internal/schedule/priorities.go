package schedule

import "github.com/jonboulle/clockwork"

const (
	PriorityLow Priority = iota
	PriorityNormal
	PriorityHigh
)

type (
	Priority uint8
)

const (
	runPriorityNotNeed  = -1
	runPriorityCritical = 2
)

var priorityAsMultiplier = map[Priority]float32{
	PriorityLow:    0.75,
	PriorityNormal: 1.00,
	PriorityHigh:   1.25,
}

type (
	Prioritize struct {
		clock clockwork.Clock
	}
)

func NewPrioritize(clock clockwork.Clock) *Prioritize {
	return &Prioritize{
		clock: clock,
	}
}

// returns one of:
//
//	-1           task ran too recently, skip it
//	[0 .. 1.25]  share of the runAtLeastOnceIn window already used,
//	             weighted by the task priority
//	 2           task is overdue, run it without a capacity check
func (p *Prioritize) calculateTaskPriority(task *Task) float32 {
	sinceLast := p.clock.Since(task.lastRunAt)

	if sinceLast < task.runAtMostOnceIn {
		return runPriorityNotNeed
	}

	if sinceLast >= task.runAtLeastOnceIn {
		return runPriorityCritical
	}

	// lastRun 9.1s, now 10s, runAtLeastOnceIn 1s: 900ms/1s = 0.9 of the window
	windowUsed := float64(sinceLast) / float64(task.runAtLeastOnceIn)

	return float32(windowUsed) * priorityAsMultiplier[task.priority]
}
