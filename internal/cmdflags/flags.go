package cmdflags

import (
	"github.com/andrebq/authd/internal/config"
	"github.com/urfave/cli/v2"
)

func StoreDriver(cfg *config.Config) cli.Flag {
	return &cli.StringFlag{
		Name:        "store-driver",
		Usage:       "Database driver for the user store (sqlite3 or pgx)",
		Value:       cfg.StoreDriver,
		Destination: &cfg.StoreDriver,
	}
}

func StoreDSN(cfg *config.Config) cli.Flag {
	return &cli.StringFlag{
		Name:        "store-dsn",
		Aliases:     []string{"dsn"},
		Usage:       "Directory holding the sqlite database or postgres connection string",
		Value:       cfg.StoreDSN,
		Destination: &cfg.StoreDSN,
	}
}

func Hasher(cfg *config.Config) cli.Flag {
	return &cli.StringFlag{
		Name:        "hasher",
		Usage:       "Password hashing algorithm for new passwords (bcrypt or argon2id)",
		Value:       cfg.Hasher,
		Destination: &cfg.Hasher,
	}
}

func HasherCost(cfg *config.Config) cli.Flag {
	return &cli.IntFlag{
		Name:        "hasher-cost",
		Usage:       "Work factor for the hasher (bcrypt cost or argon2id passes), zero picks the default",
		Value:       cfg.HasherCost,
		Destination: &cfg.HasherCost,
	}
}

// Store returns the flags needed to open the user store and hash passwords.
func Store(cfg *config.Config) []cli.Flag {
	return []cli.Flag{
		StoreDriver(cfg),
		StoreDSN(cfg),
		Hasher(cfg),
		HasherCost(cfg),
	}
}
