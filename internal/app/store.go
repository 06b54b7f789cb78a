package app

import (
	"fmt"

	"couplecall/config"
	"couplecall/internal/usecase"
	"couplecall/internal/usecase/repo"
	"couplecall/migrations"
	"couplecall/pkg/mysql"
	"couplecall/pkg/postgres"
	"couplecall/pkg/sqlite"
)

// newCallRepo opens the configured call store. The returned func releases it.
func newCallRepo(cfg *config.Config) (usecase.CallRepo, func(), error) {
	switch cfg.Store.Driver {
	case "sqlite":
		db, err := sqlite.New(cfg.Store.SQLitePath)
		if err != nil {
			return nil, nil, fmt.Errorf("app - newCallRepo - sqlite.New: %w", err)
		}

		r, err := repo.NewCallSQLite(db)
		if err != nil {
			db.Close()

			return nil, nil, err
		}

		return r, db.Close, nil

	case "postgres":
		if err := postgres.Migrate(cfg.PG.URL, migrations.FS); err != nil {
			return nil, nil, fmt.Errorf("app - newCallRepo - postgres.Migrate: %w", err)
		}

		pg, err := postgres.New(cfg.PG.URL, postgres.MaxPoolSize(cfg.PG.PoolMax))
		if err != nil {
			return nil, nil, fmt.Errorf("app - newCallRepo - postgres.New: %w", err)
		}

		return repo.NewCallPostgres(pg), pg.Close, nil

	case "mysql":
		db, err := mysql.New(cfg.MySQL.DSN, mysql.MaxOpenConns(cfg.MySQL.MaxOpenConns))
		if err != nil {
			return nil, nil, fmt.Errorf("app - newCallRepo - mysql.New: %w", err)
		}

		r, err := repo.NewCallMySQL(db)
		if err != nil {
			db.Close()

			return nil, nil, err
		}

		return r, db.Close, nil

	default:
		return repo.NewCallMemory(), func() {}, nil
	}
}
