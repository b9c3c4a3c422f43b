package main

import (
	"context"
	"os"
	"os/signal"

	"github.com/andrebq/authd/cmd/authd/migrate"
	"github.com/andrebq/authd/cmd/authd/serve"
	"github.com/andrebq/authd/cmd/authd/users"
	"github.com/andrebq/authd/internal/config"
	"github.com/andrebq/authd/internal/logutil"
	"github.com/rs/zerolog/log"
	"github.com/urfave/cli/v2"
)

func main() {
	cfg, err := config.FromEnv()
	if err != nil {
		log.Fatal().Err(err).Msg("Invalid environment")
	}
	app := &cli.App{
		Name:  "authd",
		Usage: "User registration, sessions and password resets over HTTP",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:        "log-level",
				Usage:       "Minimum level of log entries (debug, info, warn, error)",
				Value:       cfg.LogLevel,
				Destination: &cfg.LogLevel,
			},
			&cli.BoolFlag{
				Name:        "log-pretty",
				Usage:       "Human friendly log output instead of JSON lines",
				Value:       cfg.LogPretty,
				Destination: &cfg.LogPretty,
			},
		},
		Before: func(ctx *cli.Context) error {
			return logutil.Setup(cfg.LogLevel, cfg.LogPretty)
		},
		Commands: []*cli.Command{
			serve.Cmd(&cfg),
			migrate.Cmd(&cfg),
			users.Cmd(&cfg),
		},
	}
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt)
	defer cancel()
	err = app.RunContext(ctx, os.Args)
	if err != nil {
		log.Error().Err(err).Msg("Application failed")
		os.Exit(1)
	}
}
