// Package metrics exports frame loop statistics to Prometheus.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"

	"github.com/go-glx/gametime/frame"
)

// FrameMetrics is a frame.Observer and a prometheus.Collector. All series
// carry a "loop" label so several loops can share a registry.
type FrameMetrics struct {
	loop string

	// Rate metrics
	targetFPS   *prometheus.GaugeVec
	averageFPS  *prometheus.GaugeVec
	runningSlow *prometheus.GaugeVec
	frameNumber *prometheus.GaugeVec
	gameTime    *prometheus.GaugeVec

	// Frame metrics
	framesTotal   *prometheus.CounterVec
	slowFrames    *prometheus.CounterVec
	overrunFrames *prometheus.CounterVec
	frameDuration *prometheus.HistogramVec
	taskDuration  *prometheus.HistogramVec
	throttleTime  *prometheus.HistogramVec
}

func NewFrameMetrics(loop string) *FrameMetrics {
	labels := []string{"loop"}
	buckets := prometheus.ExponentialBuckets(0.0005, 2, 12)

	return &FrameMetrics{
		loop: loop,
		targetFPS: prometheus.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "gametime_target_fps",
				Help: "Target frame rate of the loop",
			},
			labels,
		),
		averageFPS: prometheus.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "gametime_average_fps",
				Help: "Sampled average frame rate of the loop",
			},
			labels,
		),
		runningSlow: prometheus.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "gametime_running_slow",
				Help: "Whether the last frame ran slower than the target (1=slow, 0=on target)",
			},
			labels,
		),
		frameNumber: prometheus.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "gametime_frame_number",
				Help: "Number of the last finished frame",
			},
			labels,
		),
		gameTime: prometheus.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "gametime_game_time_seconds",
				Help: "Total game time as of the last finished frame",
			},
			labels,
		),
		framesTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "gametime_frames_total",
				Help: "Total number of finished frames",
			},
			labels,
		),
		slowFrames: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "gametime_slow_frames_total",
				Help: "Total number of frames flagged as running slow",
			},
			labels,
		),
		overrunFrames: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "gametime_overrun_frames_total",
				Help: "Total number of frames that exceeded the target period",
			},
			labels,
		),
		frameDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "gametime_frame_duration_seconds",
				Help:    "Wall time spent in the frame function",
				Buckets: buckets,
			},
			labels,
		),
		taskDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "gametime_task_duration_seconds",
				Help:    "Wall time spent in idle tasks per frame",
				Buckets: buckets,
			},
			labels,
		),
		throttleTime: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "gametime_throttle_seconds",
				Help:    "Pacing sleep at the end of each frame",
				Buckets: buckets,
			},
			labels,
		),
	}
}

// ObserveFrame implements frame.Observer.
func (m *FrameMetrics) ObserveFrame(stats frame.Stats) {
	m.targetFPS.WithLabelValues(m.loop).Set(stats.TargetFPS)
	m.averageFPS.WithLabelValues(m.loop).Set(stats.AverageFPS)
	m.runningSlow.WithLabelValues(m.loop).Set(boolValue(stats.RunningSlow))
	m.frameNumber.WithLabelValues(m.loop).Set(float64(stats.FrameNumber))
	m.gameTime.WithLabelValues(m.loop).Set(stats.FrameGameTime.Seconds())

	m.framesTotal.WithLabelValues(m.loop).Inc()
	if stats.RunningSlow {
		m.slowFrames.WithLabelValues(m.loop).Inc()
	}
	if stats.FrameFreeTime < 0 {
		m.overrunFrames.WithLabelValues(m.loop).Inc()
	}

	m.frameDuration.WithLabelValues(m.loop).Observe(stats.Frame.Duration.Seconds())
	if !stats.Tasks.StartAt.IsZero() {
		m.taskDuration.WithLabelValues(m.loop).Observe(stats.Tasks.Duration.Seconds())
	}
	m.throttleTime.WithLabelValues(m.loop).Observe(stats.ThrottleTime.Seconds())
}

// Describe implements prometheus.Collector.
func (m *FrameMetrics) Describe(ch chan<- *prometheus.Desc) {
	m.targetFPS.Describe(ch)
	m.averageFPS.Describe(ch)
	m.runningSlow.Describe(ch)
	m.frameNumber.Describe(ch)
	m.gameTime.Describe(ch)
	m.framesTotal.Describe(ch)
	m.slowFrames.Describe(ch)
	m.overrunFrames.Describe(ch)
	m.frameDuration.Describe(ch)
	m.taskDuration.Describe(ch)
	m.throttleTime.Describe(ch)
}

// Collect implements prometheus.Collector.
func (m *FrameMetrics) Collect(ch chan<- prometheus.Metric) {
	m.targetFPS.Collect(ch)
	m.averageFPS.Collect(ch)
	m.runningSlow.Collect(ch)
	m.frameNumber.Collect(ch)
	m.gameTime.Collect(ch)
	m.framesTotal.Collect(ch)
	m.slowFrames.Collect(ch)
	m.overrunFrames.Collect(ch)
	m.frameDuration.Collect(ch)
	m.taskDuration.Collect(ch)
	m.throttleTime.Collect(ch)
}

func boolValue(b bool) float64 {
	if b {
		return 1
	}

	return 0
}
