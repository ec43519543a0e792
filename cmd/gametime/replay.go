package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"

	"github.com/urfave/cli"

	"github.com/go-glx/gametime/config"
	"github.com/go-glx/gametime/frame"
	"github.com/go-glx/gametime/replay"
	"github.com/go-glx/gametime/trace"
)

func runReplay(c *cli.Context) error {
	if err := setupLogger(c.String("log-level"), nil); err != nil {
		return err
	}

	path := c.Args().First()
	if path == "" {
		cli.ShowCommandHelp(c, "replay")
		return errors.New("no replay file provided")
	}

	file, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("failed to open replay file: %w", err)
	}
	defer file.Close()

	reader, err := replay.NewReader(file)
	if err != nil {
		return err
	}
	defer reader.Close()

	header := reader.Header()

	cfg := config.Default()
	cfg.TargetFrameRate = header.TargetFPS
	cfg.Sampler.Kind = c.String("sampler")
	cfg.Step.Kind = c.String("step")
	cfg.Step.Constant = c.Duration("constant")
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid replay config: %w", err)
	}

	sampler, err := cfg.NewSampler()
	if err != nil {
		return err
	}

	counter, err := frame.NewFrameCounter(header.TargetFPS, sampler)
	if err != nil {
		return err
	}

	summary := newSummary()
	opts := []frame.RunnerInitializer{
		frame.WithLogger(frame.NewSlogLogger(slog.Default())),
		frame.WithObserver(summary),
	}

	var recorder *trace.Recorder
	if c.String("trace-png") != "" {
		recorder = trace.NewRecorder(trace.WithTitle("replay"), trace.WithMaxFrames(0))
		opts = append(opts, frame.WithObserver(recorder))
	}

	runner := replay.NewRunner(replay.NewClock(header), counter, opts...)

	played, err := replay.Play(context.Background(), reader, runner, cfg.NewStep(counter), func(frame.GameTime) error {
		return nil
	})
	if err != nil {
		return fmt.Errorf("replay stopped after %d frames: %w", played, err)
	}

	slog.Info("Replay finished", "path", path, "frames", played, "multiplier", header.Multiplier)

	if recorder != nil && recorder.Len() > 0 {
		if err := recorder.SavePNG(c.String("trace-png")); err != nil {
			return err
		}
	}

	return summary.Render(os.Stdout)
}
