package schedule

import (
	"testing"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/assert"
)

func testCreateTask(lastRun time.Time, mods ...func(*Task)) *Task {
	task := &Task{
		priority:         PriorityNormal,
		runAtLeastOnceIn: time.Second * 10,
		runAtMostOnceIn:  time.Millisecond * 100,
		lastRunAt:        lastRun,
		avgDuration:      time.Millisecond * 10,
		runsCount:        10,
	}

	for _, mod := range mods {
		mod(task)
	}

	return task
}

func Test_scheduler_Execute(t *testing.T) {
	const taskApple = "apple"
	const taskBanana = "banana"
	const taskOrange = "orange"

	currentTime := testMakeTime(30, 0)

	executed50msAgo := currentTime.Add(-(time.Millisecond * 50))
	executed500msAgo := currentTime.Add(-(time.Millisecond * 500))
	executed1sAgo := currentTime.Add(-(time.Second))
	executed10sAgo := currentTime.Add(-(time.Second * 10))

	avgTime10ms := time.Millisecond * 10
	avgTime15ms := time.Millisecond * 15

	tests := []struct {
		name          string
		tasks         map[string]*Task
		capacity      time.Duration
		expected      []string
		expectedSpent time.Duration
	}{
		{
			name: "by priority 2/3",
			tasks: map[string]*Task{
				taskBanana: testCreateTask(executed1sAgo),
				taskOrange: testCreateTask(executed1sAgo, func(task *Task) {
					task.priority = PriorityHigh
				}),
				taskApple: testCreateTask(executed500msAgo),
			},
			capacity: time.Millisecond * 21,
			expected: []string{
				taskOrange, // high priority
				taskBanana, // older than apple
				// 1ms left, apple needs 10ms
			},
			expectedSpent: time.Millisecond * 20,
		},
		{
			name: "long overdue 1/3",
			tasks: map[string]*Task{
				taskBanana: testCreateTask(executed10sAgo, func(task *Task) {
					task.priority = PriorityLow
					task.avgDuration = avgTime15ms
				}),
				taskOrange: testCreateTask(executed1sAgo, func(task *Task) {
					task.priority = PriorityHigh
					task.avgDuration = avgTime10ms
				}),
				taskApple: testCreateTask(executed500msAgo, func(task *Task) {
					task.avgDuration = avgTime10ms
				}),
			},
			capacity: time.Millisecond * 22,
			expected: []string{
				taskBanana, // overdue, 7ms left afterwards
			},
			expectedSpent: time.Millisecond * 15,
		},
		{
			name: "overdue runs without capacity",
			tasks: map[string]*Task{
				taskBanana: testCreateTask(executed10sAgo),
				taskApple:  testCreateTask(executed1sAgo),
			},
			capacity:      0,
			expected:      []string{taskBanana},
			expectedSpent: time.Millisecond * 10,
		},
		{
			name: "two low priority, but fast runs 2/3",
			tasks: map[string]*Task{
				taskApple: testCreateTask(executed1sAgo, func(task *Task) {
					task.avgDuration = avgTime10ms
					task.priority = PriorityHigh
				}),
				taskBanana: testCreateTask(executed500msAgo, func(task *Task) {
					// 11ms left when its turn comes, needs 15ms
					task.avgDuration = avgTime15ms
					task.priority = PriorityHigh
				}),
				taskOrange: testCreateTask(executed500msAgo, func(task *Task) {
					task.avgDuration = avgTime10ms
					task.priority = PriorityLow
				}),
			},
			capacity: time.Millisecond * 21,
			expected: []string{
				taskApple,
				taskOrange,
			},
			expectedSpent: time.Millisecond * 20,
		},
		{
			name: "unknown duration runs last",
			tasks: map[string]*Task{
				taskApple: testCreateTask(executed1sAgo, func(task *Task) {
					task.priority = PriorityHigh
					task.avgDuration = 0
					task.runsCount = 0
				}),
				taskBanana: testCreateTask(executed1sAgo),
			},
			capacity:      time.Millisecond * 100,
			expected:      []string{taskApple},
			expectedSpent: 0,
		},
		{
			name: "nothing to run, because too often",
			tasks: map[string]*Task{
				taskApple: testCreateTask(executed50msAgo),
				taskBanana: testCreateTask(executed50msAgo, func(task *Task) {
					task.priority = PriorityHigh
				}),
				taskOrange: testCreateTask(executed50msAgo, func(task *Task) {
					task.priority = PriorityLow
				}),
			},
			capacity: time.Millisecond * 100,
			expected: []string{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			clock := clockwork.NewFakeClockAt(currentTime)
			actualResults := make([]string, 0)

			s := NewScheduler(
				NewPrioritize(clock),
				testPrepareTasksToRun(clock, tt.tasks, &actualResults)...,
			)
			spent := s.Execute(tt.capacity)

			assert.Equal(t, tt.expected, actualResults, "executed tasks not match")
			assert.Equal(t, tt.expectedSpent, spent)
		})
	}
}

func Test_scheduler_runUpdatesStats(t *testing.T) {
	clock := clockwork.NewFakeClockAt(testMakeTime(0, 0))
	durations := []time.Duration{time.Millisecond * 10, time.Millisecond * 20, time.Millisecond * 30}
	call := 0

	task := NewTask("stats", func() {
		clock.Advance(durations[call])
		call++
	}, PriorityNormal, time.Second, 0)

	s := NewScheduler(NewPrioritize(clock), task)

	for range durations {
		s.Execute(time.Second)
	}

	assert.Equal(t, uint64(3), task.Runs())
	assert.Equal(t, time.Millisecond*20, task.AvgDuration())
	assert.Equal(t, "stats", task.Name())
}

// tasks "take" their avgDuration by advancing the fake clock
func testPrepareTasksToRun(clock *clockwork.FakeClock, tasks map[string]*Task, resultBuffer *[]string) []*Task {
	prepared := make([]*Task, 0, len(tasks))

	for name, task := range tasks {
		name, task := name, task
		took := task.avgDuration
		task.name = name
		task.taskFn = func() {
			clock.Advance(took)
			*resultBuffer = append(*resultBuffer, name)
		}

		prepared = append(prepared, task)
	}

	return prepared
}
