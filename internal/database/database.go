package database

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"ai-governance/internal/config"
	"ai-governance/internal/logger"

	"github.com/jmoiron/sqlx"
	_ "github.com/sijms/go-ora/v2" // registers "oracle"
	"go.uber.org/zap"
	_ "modernc.org/sqlite" // registers "sqlite"
)

func init() {
	// go-ora takes :name placeholders, modernc takes ?.
	sqlx.BindDriver("oracle", sqlx.NAMED)
	sqlx.BindDriver("sqlite", sqlx.QUESTION)
}

// NewDB opens and pings the configured database.
func NewDB(ctx context.Context, cfg *config.Config) (*sqlx.DB, error) {
	driver := cfg.DB.Driver
	if driver == "sqlite" && cfg.DB.Path != "" {
		if dir := filepath.Dir(cfg.DB.Path); dir != "." {
			if err := os.MkdirAll(dir, 0o700); err != nil {
				return nil, fmt.Errorf("create sqlite directory: %w", err)
			}
		}
	}

	db, err := sqlx.ConnectContext(ctx, driver, cfg.GetDSN())
	if err != nil {
		return nil, fmt.Errorf("failed to connect to %s database: %w", driver, err)
	}

	if driver == "sqlite" {
		// A single writer avoids SQLITE_BUSY between pooled connections.
		db.SetMaxOpenConns(1)
	}

	logger.Get().Info("Connected to database", zap.String("driver", driver))
	return db, nil
}

// OpenSQLite opens a SQLite file with the repository pragmas. Used by tests and local tools.
func OpenSQLite(ctx context.Context, path string) (*sqlx.DB, error) {
	cfg := &config.Config{DB: config.DBConfig{Driver: "sqlite", Path: path}}
	return NewDB(ctx, cfg)
}
