package main

import (
	"log/slog"
	"os"

	"github.com/urfave/cli"
)

func main() {
	app := cli.NewApp()
	app.Name = "gametime"
	app.Description = "Runs a paced frame loop with simulated work and reports its timing"
	app.Usage = "gametime [options]"
	app.Version = "1.0.0"
	app.Flags = runFlags
	app.Action = runLoop
	app.Commands = []cli.Command{
		{
			Name:      "replay",
			Usage:     "Play back a recorded loop and verify its game time",
			ArgsUsage: "<replay file>",
			Flags:     replayFlags,
			Action:    runReplay,
		},
	}

	err := app.Run(os.Args)
	if err != nil {
		slog.Error("Error running frame loop", "error", err)
		os.Exit(1)
	}
}
