package main

import (
	"context"
	"errors"
	"strings"

	"github.com/premkumarpatil-1304/primetradeai-assesment/internal/data"
	"github.com/premkumarpatil-1304/primetradeai-assesment/internal/data/mongostore"
	"github.com/premkumarpatil-1304/primetradeai-assesment/internal/data/sqlstore"
)

// openStore picks a backend from the DSN scheme. The DSN itself never makes
// it into an error message since it may carry credentials.
func openStore(ctx context.Context, cfg config) (data.Store, error) {
	dsn := strings.TrimSpace(cfg.DB.DSN)
	switch {
	case strings.HasPrefix(dsn, "mongodb://"), strings.HasPrefix(dsn, "mongodb+srv://"):
		s, err := mongostore.Open(ctx, dsn, cfg.DB.Name)
		if err != nil {
			return nil, err
		}
		return s, nil
	case strings.HasPrefix(dsn, "sqlite://"), strings.HasPrefix(dsn, "file:"):
		path := strings.TrimPrefix(strings.TrimPrefix(dsn, "sqlite://"), "file:")
		s, err := sqlstore.OpenSQLite(path)
		if err != nil {
			return nil, err
		}
		return s, nil
	case strings.HasPrefix(dsn, "postgres://"), strings.HasPrefix(dsn, "postgresql://"), strings.Contains(dsn, "="):
		s, err := sqlstore.OpenPostgres(dsn, cfg.DB.Name, sqlstore.PoolConfig{
			MaxOpenConns: cfg.DB.MaxOpenConns,
			MaxIdleConns: cfg.DB.MaxIdleConns,
			MaxIdleTime:  cfg.DB.MaxIdleTime,
		})
		if err != nil {
			return nil, err
		}
		return s, nil
	default:
		return nil, errors.New("unsupported database dsn: expected mongodb://, postgres:// or sqlite://")
	}
}
