package main

import (
	"context"

	"github.com/rotisserie/eris"

	"github.com/lodeline/orescore/internal/store"
)

// initStore opens the run store configured by store.driver. Callers own
// the returned store and must Close it.
func initStore(ctx context.Context) (store.Store, error) {
	switch cfg.Store.Driver {
	case "sqlite", "":
		return store.NewSQLite(cfg.Store.DatabaseURL)
	case "postgres":
		return store.NewPostgres(ctx, cfg.Store.DatabaseURL)
	default:
		return nil, eris.Errorf("store: unknown driver %q (want sqlite or postgres)", cfg.Store.Driver)
	}
}
