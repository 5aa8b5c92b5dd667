package store

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"strconv"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/mysql"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	"gitlab.com/dirk.krummacker/contact-book/internal/config"
)

// Migrate applies or rolls back the schema migrations found at the root of migrationsFS.
// Supported commands are "up", "down", "version" and "force N".
func Migrate(log *slog.Logger, cfg config.MySQLConfig, migrationsFS fs.FS, command string, args []string) error {
	switch command {
	case "up", "down", "version", "force":
	default:
		return fmt.Errorf("unknown migrate command: %s (use: up, down, version, force)", command)
	}
	var version int
	if command == "force" {
		if len(args) == 0 {
			return errors.New("force requires a version number argument")
		}
		v, err := strconv.Atoi(args[0])
		if err != nil {
			return fmt.Errorf("invalid version: %w", err)
		}
		version = v
	}
	if log == nil {
		log = slog.Default()
	}

	source, err := iofs.New(migrationsFS, ".")
	if err != nil {
		return fmt.Errorf("migration source: %w", err)
	}
	m, err := migrate.NewWithSourceInstance("iofs", source, cfg.MigrateURL())
	if err != nil {
		return fmt.Errorf("migrate init: %w", err)
	}
	defer m.Close()
	m.Log = &migrateLogger{logger: log}

	switch command {
	case "up":
		if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
			return fmt.Errorf("migrate up: %w", err)
		}
		ver, dirty, _ := m.Version()
		log.Info("migration complete", slog.Uint64("version", uint64(ver)), slog.Bool("dirty", dirty))
	case "down":
		if err := m.Down(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
			return fmt.Errorf("migrate down: %w", err)
		}
		log.Info("all migrations rolled back")
	case "version":
		ver, dirty, err := m.Version()
		if err != nil {
			return fmt.Errorf("migrate version: %w", err)
		}
		log.Info("current version", slog.Uint64("version", uint64(ver)), slog.Bool("dirty", dirty))
	case "force":
		if err := m.Force(version); err != nil {
			return fmt.Errorf("migrate force: %w", err)
		}
		log.Info("forced version", slog.Int("version", version))
	}
	return nil
}

// migrateLogger forwards golang-migrate's messages to slog.
type migrateLogger struct {
	logger *slog.Logger
}

func (l *migrateLogger) Printf(format string, v ...interface{}) {
	l.logger.Info(fmt.Sprintf(format, v...))
}

func (l *migrateLogger) Verbose() bool {
	return false
}
