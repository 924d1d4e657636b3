// lazybench drives a lazy list set with a concurrent workload and verifies it.
package main

import (
	"os"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/urfave/cli/v2"

	"github.com/metailurini/lazyset/cmd/lazybench/run"
)

var version = "dev"

func init() {
	log.Logger = log.Logger.Level(zerolog.InfoLevel)
	zerolog.SetGlobalLevel(zerolog.InfoLevel)
}

var app = &cli.App{
	Name:    "lazybench",
	Usage:   "Concurrent workload runner for the lazy list set.",
	Version: version,
	Flags: []cli.Flag{
		&cli.BoolFlag{
			Name:       "debug",
			EnvVars:    []string{"DEBUG"},
			Value:      false,
			HasBeenSet: true,
			Action: func(_ *cli.Context, s bool) error {
				if s {
					log.Logger = log.Logger.Level(zerolog.DebugLevel)
					zerolog.SetGlobalLevel(zerolog.DebugLevel)
				}
				return nil
			},
		},
		&cli.BoolFlag{
			Name:       "trace",
			EnvVars:    []string{"TRACE"},
			Value:      false,
			HasBeenSet: true,
			Action: func(_ *cli.Context, s bool) error {
				if s {
					log.Logger = log.Logger.Level(zerolog.TraceLevel)
					zerolog.SetGlobalLevel(zerolog.TraceLevel)
				}
				return nil
			},
		},
		&cli.BoolFlag{
			Name:       "log-json",
			EnvVars:    []string{"LOG_JSON"},
			Value:      false,
			HasBeenSet: true,
			Action: func(_ *cli.Context, s bool) error {
				if !s {
					log.Logger = log.Logger.Output(zerolog.ConsoleWriter{Out: os.Stderr})
				}
				return nil
			},
		},
	},
	Commands: []*cli.Command{
		run.Command,
	},
}

func main() {
	// Flags may come from a .env file next to the binary; it is optional.
	_ = godotenv.Load(".env")

	log.Logger = log.Logger.With().Caller().Logger()
	if err := app.Run(os.Args); err != nil {
		log.Fatal().Err(err).Msg("application finished")
	}
}
