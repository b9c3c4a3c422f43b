package serve

import (
	"github.com/andrebq/authd/auth"
	"github.com/andrebq/authd/auth/api"
	"github.com/andrebq/authd/internal/cmdflags"
	"github.com/andrebq/authd/internal/config"
	"github.com/andrebq/authd/internal/httpserver"
	"github.com/andrebq/authd/internal/logutil"
	"github.com/andrebq/authd/internal/sessioncache"
	"github.com/urfave/cli/v2"
)

func Cmd(cfg *config.Config) *cli.Command {
	var noCache bool
	return &cli.Command{
		Name:  "serve",
		Usage: "Start the authentication HTTP api",
		Flags: append(cmdflags.Store(cfg),
			&cli.StringFlag{
				Name:        "bind",
				Usage:       "Address to bind the HTTP api",
				Value:       cfg.Bind,
				Destination: &cfg.Bind,
			},
			&cli.BoolFlag{
				Name:        "insecure-cookie",
				Usage:       "Send the session cookie over plain HTTP (only for local testing)",
				Value:       cfg.InsecureCookie,
				Destination: &cfg.InsecureCookie,
			},
			&cli.DurationFlag{
				Name:        "session-cache-ttl",
				Usage:       "How long a session lookup is cached in memory",
				Value:       cfg.SessionCacheTTL,
				Destination: &cfg.SessionCacheTTL,
			},
			&cli.IntFlag{
				Name:        "session-cache-max-mb",
				Usage:       "Upper bound for the session cache size in megabytes",
				Value:       cfg.SessionCacheMaxMB,
				Destination: &cfg.SessionCacheMaxMB,
			},
			&cli.BoolFlag{
				Name:        "no-session-cache",
				Usage:       "Resolve every session directly from the store",
				Destination: &noCache,
			},
		),
		Action: func(ctx *cli.Context) error {
			log := logutil.GetOrDefault(ctx.Context)
			var opts []auth.Option
			if !noCache {
				cache, err := sessioncache.New(ctx.Context, cfg.SessionCacheTTL, cfg.SessionCacheMaxMB)
				if err != nil {
					return err
				}
				defer cache.Close()
				opts = append(opts, auth.WithSessionCache(cache))
			}
			manager, store, err := cmdflags.OpenManager(ctx.Context, cfg, opts...)
			if err != nil {
				return err
			}
			defer store.Close()
			if cfg.InsecureCookie {
				log.Warn().Msg("Session cookie will be sent over plain HTTP")
			}
			handler := api.AsHandler(ctx.Context, manager, api.Options{InsecureCookie: cfg.InsecureCookie})
			return httpserver.Serve(ctx.Context, cfg.Bind, handler)
		},
	}
}
