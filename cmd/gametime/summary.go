package main

import (
	"fmt"
	"io"
	"time"

	"github.com/olekukonko/tablewriter"

	"github.com/go-glx/gametime/frame"
)

// summary aggregates the whole run for the final table.
type summary struct {
	frames    int
	slow      int
	overruns  int
	workTotal time.Duration
	workMax   time.Duration
	sleep     time.Duration
	last      frame.Stats
	tasks     []frame.TaskStats
}

func newSummary() *summary {
	return &summary{}
}

func (s *summary) ObserveFrame(stats frame.Stats) {
	s.frames++
	if stats.RunningSlow {
		s.slow++
	}
	if stats.FrameFreeTime < 0 {
		s.overruns++
	}

	s.workTotal += stats.Frame.Duration
	s.workMax = max(s.workMax, stats.Frame.Duration)
	s.sleep += stats.ThrottleTime
	s.last = stats
}

func (s *summary) setTasks(tasks []frame.TaskStats) {
	s.tasks = tasks
}

func (s *summary) Render(w io.Writer) error {
	avgWork := time.Duration(0)
	if s.frames > 0 {
		avgWork = s.workTotal / time.Duration(s.frames)
	}

	table := tablewriter.NewWriter(w)
	table.Append([]string{"Metric", "Value"})
	table.Append([]string{"Frames", fmt.Sprintf("%d", s.frames)})
	table.Append([]string{"Last frame", fmt.Sprintf("%d", s.last.FrameNumber)})
	table.Append([]string{"Game time", s.last.FrameGameTime.String()})
	table.Append([]string{"Target FPS", fmt.Sprintf("%.2f", s.last.TargetFPS)})
	table.Append([]string{"Average FPS", fmt.Sprintf("%.2f", s.last.AverageFPS)})
	table.Append([]string{"Slow frames", fmt.Sprintf("%d", s.slow)})
	table.Append([]string{"Overrun frames", fmt.Sprintf("%d", s.overruns)})
	table.Append([]string{"Avg work", avgWork.String()})
	table.Append([]string{"Max work", s.workMax.String()})
	table.Append([]string{"Total sleep", s.sleep.String()})

	for _, task := range s.tasks {
		table.Append([]string{
			fmt.Sprintf("Task %s", task.Name),
			fmt.Sprintf("%d runs, avg %s", task.Runs, task.AvgDuration),
		})
	}

	return table.Render()
}
