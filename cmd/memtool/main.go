// Command memtool checks and exercises memory match game configurations.
//
//	memtool validate [--dir configs]
//	memtool simulate --config classic --mode moves --games 100 --strategy perfect
//
// validate prints a report for every config file and exits non-zero when
// any file is invalid. simulate plays whole games against the engine on a
// manual clock, so timed games run instantly and are reproducible from a seed.
package main

import (
	"context"
	"fmt"
	"os"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/urfave/cli/v3"
)

func newApp() *cli.Command {
	return &cli.Command{
		Name:  "memtool",
		Usage: "validate and simulate memory match game configurations",
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:  "debug",
				Usage: "enable debug logging",
			},
		},
		Before: func(ctx context.Context, cmd *cli.Command) (context.Context, error) {
			log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})
			zerolog.SetGlobalLevel(zerolog.InfoLevel)
			if cmd.Bool("debug") {
				zerolog.SetGlobalLevel(zerolog.DebugLevel)
			}
			return ctx, nil
		},
		Commands: []*cli.Command{
			validateCommand(),
			simulateCommand(),
		},
	}
}

func main() {
	if err := newApp().Run(context.Background(), os.Args); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
