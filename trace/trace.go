// Package trace draws a PNG timeline of frame loop activity.
package trace

import (
	"errors"
	"sync"
	"time"

	"github.com/go-glx/gametime/frame"
)

var ErrNoFrames = errors.New("trace has no frames")

type BlockType uint8

const (
	BlockFrame BlockType = iota
	BlockTask
	BlockThrottle
)

func (t BlockType) String() string {
	switch t {
	case BlockFrame:
		return "frame"
	case BlockTask:
		return "task"
	case BlockThrottle:
		return "throttle"
	default:
		return "unknown"
	}
}

// Block is one span of wall time on the timeline.
type Block struct {
	Type    BlockType
	Frame   uint64
	StartAt time.Time
	EndAt   time.Time
}

func (b Block) Duration() time.Duration {
	return b.EndAt.Sub(b.StartAt)
}

type (
	// Recorder is a frame.Observer that keeps the timeline of the last
	// frames for rendering.
	Recorder struct {
		mu sync.Mutex

		title       string
		maxFrames   int
		pxPerSecond float64

		frameLimit time.Duration
		targetFPS  float64
		frames     []frame.Stats
	}

	RecorderInitializer = func(*Recorder)
)

func WithTitle(title string) RecorderInitializer {
	return func(r *Recorder) {
		r.title = title
	}
}

// WithMaxFrames keeps only the newest n frames, 0 keeps everything.
func WithMaxFrames(n int) RecorderInitializer {
	return func(r *Recorder) {
		r.maxFrames = n
	}
}

func WithPxPerSecond(px float64) RecorderInitializer {
	return func(r *Recorder) {
		r.pxPerSecond = px
	}
}

func NewRecorder(initializers ...RecorderInitializer) *Recorder {
	r := &Recorder{
		title:       "frame trace",
		maxFrames:   600,
		pxPerSecond: 2000,
	}

	for _, init := range initializers {
		init(r)
	}

	return r
}

func (r *Recorder) ObserveFrame(stats frame.Stats) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.frameLimit = stats.FrameTimeLimit
	r.targetFPS = stats.TargetFPS
	r.frames = append(r.frames, stats)

	if r.maxFrames > 0 && len(r.frames) > r.maxFrames {
		r.frames = r.frames[len(r.frames)-r.maxFrames:]
	}
}

func (r *Recorder) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()

	return len(r.frames)
}

// Blocks returns the recorded timeline ordered by frame, with frame,
// task and throttle spans of each frame in that order.
func (r *Recorder) Blocks() []Block {
	r.mu.Lock()
	defer r.mu.Unlock()

	return blocksOf(r.frames)
}

func blocksOf(frames []frame.Stats) []Block {
	list := make([]Block, 0, len(frames)*3)

	for _, stats := range frames {
		if stats.Frame.StartAt.IsZero() {
			continue
		}

		frameEnd := stats.Frame.StartAt.Add(stats.Frame.Duration)
		list = append(list, Block{
			Type:    BlockFrame,
			Frame:   stats.FrameNumber,
			StartAt: stats.Frame.StartAt,
			EndAt:   frameEnd,
		})

		idleStart := frameEnd
		if !stats.Tasks.StartAt.IsZero() {
			idleStart = stats.Tasks.StartAt.Add(stats.Tasks.Duration)
			list = append(list, Block{
				Type:    BlockTask,
				Frame:   stats.FrameNumber,
				StartAt: stats.Tasks.StartAt,
				EndAt:   idleStart,
			})
		}

		if stats.ThrottleTime > 0 {
			list = append(list, Block{
				Type:    BlockThrottle,
				Frame:   stats.FrameNumber,
				StartAt: idleStart,
				EndAt:   idleStart.Add(stats.ThrottleTime),
			})
		}
	}

	return list
}
