package main

import (
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/urfave/cli"

	"github.com/go-glx/gametime/config"
)

var logFlag = cli.StringFlag{
	Name:  "log-level",
	Usage: "Log level: debug, info, warn, error",
	Value: "info",
}

var runFlags = []cli.Flag{
	cli.StringFlag{
		Name:  "config",
		Usage: "Path to a YAML loop config, flags below override it",
	},
	cli.Float64Flag{
		Name:  "target-fps",
		Usage: "Target frame rate",
		Value: config.DefaultTargetFrameRate,
	},
	cli.StringFlag{
		Name:  "sampler",
		Usage: "Frame rate sampler: linear or running",
		Value: config.SamplerLinear,
	},
	cli.IntFlag{
		Name:  "samples",
		Usage: "Number of frames the sampler averages over",
		Value: 64,
	},
	cli.StringFlag{
		Name:  "source",
		Usage: "Time the sampler measures: wall or game",
		Value: "wall",
	},
	cli.StringFlag{
		Name:  "step",
		Usage: "Time step: variable, fixed, constant or null",
		Value: config.StepVariable,
	},
	cli.DurationFlag{
		Name:  "constant",
		Usage: "Game time per frame for the constant step",
	},
	cli.Float64Flag{
		Name:  "multiplier",
		Usage: "Game time speed relative to the step",
		Value: 1,
	},
	cli.IntFlag{
		Name:  "frames",
		Usage: "Stop after this many frames (0 = until interrupted)",
		Value: 300,
	},
	cli.DurationFlag{
		Name:  "work",
		Usage: "Simulated work per frame",
	},
	cli.DurationFlag{
		Name:  "spike",
		Usage: "Extra work added to every 30th frame",
	},
	cli.BoolFlag{
		Name:  "hud",
		Usage: "Show live statistics in the terminal (q to quit)",
	},
	cli.StringFlag{
		Name:  "trace-png",
		Usage: "Write a PNG timeline of the last frames to this path",
	},
	cli.StringFlag{
		Name:  "record",
		Usage: "Record frame timings to this replay file",
	},
	cli.StringFlag{
		Name:  "metrics-addr",
		Usage: "Serve Prometheus metrics on this address, e.g. :9100",
	},
	logFlag,
}

var replayFlags = []cli.Flag{
	cli.StringFlag{
		Name:  "sampler",
		Usage: "Frame rate sampler: linear or running",
		Value: config.SamplerLinear,
	},
	cli.StringFlag{
		Name:  "step",
		Usage: "Time step the recording was made with: variable, fixed, constant or null",
		Value: config.StepVariable,
	},
	cli.DurationFlag{
		Name:  "constant",
		Usage: "Game time per frame for the constant step",
	},
	cli.StringFlag{
		Name:  "trace-png",
		Usage: "Write a PNG timeline of the replayed frames to this path",
	},
	logFlag,
}

// loadConfig reads --config if given and applies every flag the user set
// on top of it.
func loadConfig(c *cli.Context) (*config.Config, error) {
	cfg := config.Default()
	if path := c.String("config"); path != "" {
		var err error
		if cfg, err = config.Load(path); err != nil {
			return nil, err
		}
	}

	if c.IsSet("target-fps") {
		cfg.TargetFrameRate = c.Float64("target-fps")
	}
	if c.IsSet("sampler") {
		cfg.Sampler.Kind = c.String("sampler")
	}
	if c.IsSet("samples") {
		samples := c.Int("samples")
		if samples < 0 {
			return nil, fmt.Errorf("samples must not be negative, got %d", samples)
		}
		cfg.Sampler.MaxSamples = uint32(samples)
	}
	if c.IsSet("source") {
		cfg.Sampler.Source = c.String("source")
	}
	if c.IsSet("step") {
		cfg.Step.Kind = c.String("step")
	}
	if c.IsSet("constant") {
		cfg.Step.Constant = c.Duration("constant")
	}
	if c.IsSet("multiplier") {
		multiplier := c.Float64("multiplier")
		cfg.Multiplier = &multiplier
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid loop config: %w", err)
	}

	return cfg, nil
}

func setupLogger(level string, w io.Writer) error {
	var lvl slog.Level
	if err := lvl.UnmarshalText([]byte(level)); err != nil {
		return fmt.Errorf("invalid log level %q: %w", level, err)
	}

	if w == nil {
		w = os.Stderr
	}

	slog.SetDefault(slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{
		Level: lvl,
	})))

	return nil
}
