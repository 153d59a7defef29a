package main

import (
	"context"

	"github.com/rotisserie/eris"

	"github.com/sells-group/fuelprices-cli/internal/cache"
	"github.com/sells-group/fuelprices-cli/internal/config"
	"github.com/sells-group/fuelprices-cli/internal/fetcher"
	"github.com/sells-group/fuelprices-cli/internal/gateway"
	"github.com/sells-group/fuelprices-cli/internal/match"
	"github.com/sells-group/fuelprices-cli/internal/parser"
	"github.com/sells-group/fuelprices-cli/internal/store"
)

func initStore(ctx context.Context, c config.StoreConfig) (store.Store, error) {
	var (
		st  store.Store
		err error
	)
	switch c.Driver {
	case "sqlite":
		st, err = store.NewSQLite(c.Path)
	case "postgres":
		st, err = store.NewPostgres(ctx, c.DatabaseURL, &store.PoolConfig{
			MaxConns: c.MaxConns,
			MinConns: c.MinConns,
		})
	default:
		return nil, eris.Errorf("unsupported store driver: %s", c.Driver)
	}
	if err != nil {
		return nil, err
	}
	if err := st.Migrate(ctx); err != nil {
		st.Close() //nolint:errcheck
		return nil, err
	}
	return st, nil
}

func initGateway(c *config.Config) *gateway.Gateway {
	f := fetcher.NewHTTPFetcher(fetcher.HTTPOptions{
		UserAgent:  c.Fetch.UserAgent,
		Timeout:    c.Fetch.Timeout(),
		MaxRetries: c.Fetch.MaxRetries,
		RatePerSec: c.Fetch.RatePerSec,
	})
	return gateway.New(f, cache.NewFileCache(c.Cache.Dir), gateway.Options{
		BaseURL:       c.Fetch.BaseURL,
		DiscoverLinks: c.Fetch.DiscoverLinks,
	})
}

func initParsers(c config.MatchConfig) (*parser.Set, error) {
	if c.AliasesPath == "" {
		return parser.NewSet(match.Defaults()), nil
	}
	aliases, err := match.LoadAliases(c.AliasesPath)
	if err != nil {
		return nil, err
	}
	tables, err := match.NewTables(aliases)
	if err != nil {
		return nil, err
	}
	return parser.NewSet(tables), nil
}
