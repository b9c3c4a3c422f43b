package cmdflags

import (
	"context"

	"github.com/andrebq/authd/auth"
	"github.com/andrebq/authd/credential"
	"github.com/andrebq/authd/internal/config"
	"github.com/andrebq/authd/internal/ident"
	"github.com/andrebq/authd/userstore"
)

// OpenStore opens the user store described by cfg.
func OpenStore(ctx context.Context, cfg *config.Config) (*userstore.Store, error) {
	driver, err := userstore.ParseDriver(cfg.StoreDriver)
	if err != nil {
		return nil, err
	}
	return userstore.Open(ctx, driver, cfg.StoreDSN)
}

// OpenManager opens the user store and builds an auth.Manager on top of it.
// Closing the returned store is up to the caller.
func OpenManager(ctx context.Context, cfg *config.Config, opts ...auth.Option) (*auth.Manager, *userstore.Store, error) {
	hasher, err := credential.New(cfg.Hasher, cfg.HasherCost)
	if err != nil {
		return nil, nil, err
	}
	store, err := OpenStore(ctx, cfg)
	if err != nil {
		return nil, nil, err
	}
	return auth.New(store, hasher, ident.UUID{}, opts...), store, nil
}
