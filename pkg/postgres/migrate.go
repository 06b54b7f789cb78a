package postgres

import (
	"errors"
	"fmt"
	"io/fs"
	"log"
	"time"

	"github.com/golang-migrate/migrate/v4"
	// migrate tools
	_ "github.com/golang-migrate/migrate/v4/database/postgres"
	"github.com/golang-migrate/migrate/v4/source/iofs"
)

const (
	_defaultMigrateAttempts = 20
	_defaultMigrateTimeout  = time.Second
)

// Migrate applies every pending up migration found at the root of migrations.
func Migrate(url string, migrations fs.FS) error {
	source, err := iofs.New(migrations, ".")
	if err != nil {
		return fmt.Errorf("postgres - Migrate - iofs.New: %w", err)
	}

	var (
		attempts = _defaultMigrateAttempts
		m        *migrate.Migrate
	)

	for attempts > 0 {
		m, err = migrate.NewWithSourceInstance("iofs", source, url)
		if err == nil {
			break
		}

		log.Printf("Migrate: postgres is trying to connect, attempts left: %d", attempts)
		time.Sleep(_defaultMigrateTimeout)
		attempts--
	}

	if err != nil {
		return fmt.Errorf("postgres - Migrate - connect: %w", err)
	}
	defer m.Close()

	err = m.Up()
	if err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("postgres - Migrate - up: %w", err)
	}

	if errors.Is(err, migrate.ErrNoChange) {
		log.Printf("Migrate: no change")

		return nil
	}

	log.Printf("Migrate: up success")

	return nil
}
