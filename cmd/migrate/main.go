// Command migrate manages the database schema.
//
// Usage:
//
//	migrate up            apply pending migrations
//	migrate down [--all]  roll back one migration, or all of them
//	migrate version       print the current schema version
package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os"

	"ai-governance/internal/config"
	"ai-governance/internal/database"
	"ai-governance/internal/logger"

	"go.uber.org/zap"
)

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}
	if err := logger.Initialize(cfg.Logger); err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer logger.Sync()

	if err := run(context.Background(), cfg, os.Args[1], os.Args[2:]); err != nil {
		logger.Get().Error("Migration failed", zap.Error(err))
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg *config.Config, command string, args []string) error {
	db, err := database.NewDB(ctx, cfg)
	if err != nil {
		return err
	}
	defer db.Close()

	m, err := database.NewMigrator(db)
	if err != nil {
		return err
	}

	switch command {
	case "up":
		err = m.Up(ctx)
	case "down":
		if len(args) > 0 && args[0] == "--all" {
			err = m.Down(ctx)
		} else {
			err = m.Steps(ctx, -1)
		}
	case "version":
		version, dirty, err := m.Version(ctx)
		if err != nil {
			return err
		}
		fmt.Printf("version %d (dirty: %t)\n", version, dirty)
		return nil
	default:
		printUsage()
		return fmt.Errorf("unknown command %q", command)
	}

	if errors.Is(err, database.ErrNoChange) {
		fmt.Println("no change")
		return nil
	}
	if err != nil {
		return err
	}

	version, _, err := m.Version(ctx)
	if err != nil {
		return err
	}
	logger.Get().Info("Migration finished", zap.String("command", command), zap.Uint("version", version))
	return nil
}

func printUsage() {
	fmt.Fprint(os.Stderr, `Usage:
  migrate up            Apply pending migrations
  migrate down [--all]  Roll back the last migration, or every migration
  migrate version       Print the current schema version
`)
}
