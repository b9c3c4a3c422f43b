package migrate

import (
	"github.com/andrebq/authd/internal/cmdflags"
	"github.com/andrebq/authd/internal/config"
	"github.com/andrebq/authd/internal/logutil"
	"github.com/urfave/cli/v2"
)

func Cmd(cfg *config.Config) *cli.Command {
	return &cli.Command{
		Name:  "migrate",
		Usage: "Create or upgrade the users table",
		Flags: []cli.Flag{
			cmdflags.StoreDriver(cfg),
			cmdflags.StoreDSN(cfg),
		},
		Action: func(ctx *cli.Context) error {
			store, err := cmdflags.OpenStore(ctx.Context, cfg)
			if err != nil {
				return err
			}
			defer store.Close()
			count, err := store.Count(ctx.Context)
			if err != nil {
				return err
			}
			log := logutil.GetOrDefault(ctx.Context)
			log.Info().Str("driver", cfg.StoreDriver).Int64("users", count).Msg("Store is up to date")
			return nil
		},
	}
}
