// Package main runs schema migrations against the configured database,
// grounded on golang-migrate's CLI-over-library pattern.
package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"

	"ticketaggregator/internal/platform/config"
	"ticketaggregator/internal/platform/logging"
)

func main() {
	flag.Parse()
	args := flag.Args()

	if len(args) < 1 {
		fmt.Println("Usage: migrate <command>")
		fmt.Println("Commands:")
		fmt.Println("  up       Apply all pending migrations")
		fmt.Println("  down     Rollback the last migration")
		fmt.Println("  drop     Drop all tables (DANGEROUS)")
		fmt.Println("  version  Show current migration version")
		os.Exit(1)
	}

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}
	logger := logging.Setup(cfg.LogLevel, cfg.LogFormat)

	m, err := migrate.New("file://migrations", cfg.DatabaseURL)
	if err != nil {
		logger.Error("failed to create migrator", "error", err)
		os.Exit(1)
	}
	defer m.Close()

	switch args[0] {
	case "up":
		logger.Info("applying migrations")
		if err := m.Up(); err != nil && err != migrate.ErrNoChange {
			logger.Error("migration failed", "error", err)
			os.Exit(1)
		}
		logger.Info("migrations applied")

	case "down":
		logger.Info("rolling back last migration")
		if err := m.Steps(-1); err != nil {
			logger.Error("rollback failed", "error", err)
			os.Exit(1)
		}
		logger.Info("rollback completed")

	case "drop":
		logger.Warn("dropping all tables")
		if err := m.Drop(); err != nil {
			logger.Error("drop failed", "error", err)
			os.Exit(1)
		}
		logger.Info("all tables dropped")

	case "version":
		version, dirty, err := m.Version()
		if err != nil {
			logger.Error("failed to get version", "error", err)
			os.Exit(1)
		}
		fmt.Printf("version: %d, dirty: %v\n", version, dirty)

	default:
		fmt.Fprintf(os.Stderr, "unknown command: %s\n", args[0])
		os.Exit(1)
	}
}
