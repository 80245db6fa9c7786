package postgresql

import (
	"embed"
	"errors"
	"fmt"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/postgres"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	"go.uber.org/zap"
)

//go:embed migrations/*.sql
var migrations embed.FS

func Migrate(databaseUrl string, log *zap.Logger) error {
	d, err := iofs.New(migrations, "migrations")
	if err != nil {
		return fmt.Errorf("failed to find embedded migrations folder: %w", err)
	}
	m, err := migrate.NewWithSourceInstance("iofs", d, databaseUrl)
	if err != nil {
		return fmt.Errorf("could not connect to db for migrations: %w", err)
	}
	defer m.Close()

	m.Log = &migrationLogger{log: log}
	version, dirty, err := m.Version()
	if err != nil && !errors.Is(err, migrate.ErrNilVersion) {
		return fmt.Errorf("could not get current database migration version: %w", err)
	}
	log.Info("current database version", zap.Uint("version", version), zap.Bool("dirty", dirty))

	err = m.Up()
	if err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("failed to apply database migrations: %w", err)
	}

	return nil
}

type migrationLogger struct {
	log *zap.Logger
}

func (l *migrationLogger) Printf(format string, v ...interface{}) {
	l.log.Sugar().Infof("Applied migration "+format, v...)
}

// Verbose should return true when verbose logging output is wanted
func (l *migrationLogger) Verbose() bool {
	return false
}
