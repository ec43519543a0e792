package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"time"

	"github.com/gdamore/tcell/v2"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/urfave/cli"

	"github.com/go-glx/gametime/frame"
	"github.com/go-glx/gametime/hud"
	"github.com/go-glx/gametime/metrics"
	"github.com/go-glx/gametime/replay"
	"github.com/go-glx/gametime/trace"
)

const spikeEvery = 30

func runLoop(c *cli.Context) error {
	var logOut io.Writer
	if c.Bool("hud") {
		// the terminal belongs to the HUD
		logOut = io.Discard
	}

	if err := setupLogger(c.String("log-level"), logOut); err != nil {
		return err
	}

	cfg, err := loadConfig(c)
	if err != nil {
		return err
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt)
	defer cancel()

	summary := newSummary()
	runnerOpts := []frame.RunnerInitializer{
		frame.WithLogger(frame.NewSlogLogger(slog.Default())),
		frame.WithObserver(summary),
	}

	if addr := c.String("metrics-addr"); addr != "" {
		frameMetrics := metrics.NewFrameMetrics("main")
		stop, err := serveMetrics(addr, frameMetrics)
		if err != nil {
			return err
		}
		defer stop()

		runnerOpts = append(runnerOpts, frame.WithObserver(frameMetrics))
	}

	var recorder *trace.Recorder
	if c.String("trace-png") != "" {
		recorder = trace.NewRecorder(trace.WithTitle("gametime"))
		runnerOpts = append(runnerOpts, frame.WithObserver(recorder))
	}

	if c.Bool("hud") {
		screen, err := tcell.NewScreen()
		if err != nil {
			return fmt.Errorf("failed to create screen: %w", err)
		}
		if err := screen.Init(); err != nil {
			return fmt.Errorf("failed to init screen: %w", err)
		}
		defer screen.Fini()

		go hud.WatchQuit(ctx, screen, cancel)
		runnerOpts = append(runnerOpts, frame.WithObserver(hud.NewHUD(screen, hud.WithRedrawEvery(2))))
	}

	loop, err := cfg.Build(nil, runnerOpts...)
	if err != nil {
		return err
	}

	// the writer is attached after Build, it needs the clock for its header
	var writer *replay.Writer
	if path := c.String("record"); path != "" {
		file, err := os.Create(path)
		if err != nil {
			return fmt.Errorf("failed to create replay file: %w", err)
		}
		defer file.Close()

		if writer, err = replay.NewWriter(file, loop.Clock, loop.Counter); err != nil {
			return err
		}
		loop.Runner.AddTickObserver(writer)
	}

	slog.Info("Running frame loop",
		"target_fps", cfg.TargetFrameRate,
		"step", cfg.Step.Kind,
		"sampler", cfg.Sampler.Kind,
		"frames", c.Int("frames"),
	)

	maxFrames := uint64(max(c.Int("frames"), 0))
	work := c.Duration("work")
	spike := c.Duration("spike")
	wallClock := loop.Clock.WallClock()

	err = loop.Runner.Run(ctx, loop.Step, func(t frame.GameTime) error {
		d := work
		if spike > 0 && t.FrameNumber()%spikeEvery == 0 {
			d += spike
		}
		if d > 0 {
			wallClock.Sleep(d)
		}

		if maxFrames > 0 && t.FrameNumber()-cfg.StartFrame >= maxFrames {
			cancel()
		}
		return nil
	})

	if writer != nil {
		if closeErr := writer.Close(); closeErr != nil {
			err = errors.Join(err, closeErr)
		} else {
			slog.Info("Replay recorded", "path", c.String("record"), "frames", writer.Len())
		}
	}

	if recorder != nil && recorder.Len() > 0 {
		if traceErr := recorder.SavePNG(c.String("trace-png")); traceErr != nil {
			err = errors.Join(err, traceErr)
		} else {
			slog.Info("Trace saved", "path", c.String("trace-png"))
		}
	}

	if err != nil {
		return err
	}

	summary.setTasks(loop.Runner.TaskStats())
	return summary.Render(os.Stdout)
}

// serveMetrics exposes collector on addr until the returned stop is called.
func serveMetrics(addr string, collector prometheus.Collector) (func(), error) {
	registry := prometheus.NewRegistry()
	if err := registry.Register(collector); err != nil {
		return nil, fmt.Errorf("failed to register metrics: %w", err)
	}

	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(registry, promhttp.HandlerOpts{}))

	server := &http.Server{
		Addr:              addr,
		Handler:           mux,
		ReadHeaderTimeout: time.Second * 5,
	}

	go func() {
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("Metrics server failed", "addr", addr, "error", err)
		}
	}()

	slog.Info("Serving metrics", "addr", addr)

	return func() {
		ctx, cancel := context.WithTimeout(context.Background(), time.Second)
		defer cancel()
		_ = server.Shutdown(ctx)
	}, nil
}
