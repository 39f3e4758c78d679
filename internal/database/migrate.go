package database

import (
	"context"
	"database/sql"
	"embed"
	"errors"
	"fmt"
	"io/fs"
	"sort"
	"strconv"
	"strings"

	"ai-governance/internal/logger"

	"github.com/golang-migrate/migrate/v4"
	migratesqlite "github.com/golang-migrate/migrate/v4/database/sqlite"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	"github.com/jmoiron/sqlx"
	"go.uber.org/zap"
)

//go:embed migrations/oracle/*.sql migrations/sqlite/*.sql
var migrationFS embed.FS

// ErrNoChange is returned when there is nothing to migrate.
var ErrNoChange = migrate.ErrNoChange

// Migrator applies the embedded schema migrations.
type Migrator interface {
	// Up applies every pending migration.
	Up(ctx context.Context) error
	// Steps applies n migrations, or rolls back -n when n is negative.
	Steps(ctx context.Context, n int) error
	// Down rolls back every applied migration.
	Down(ctx context.Context) error
	// Version returns the current version, 0 when nothing is applied.
	Version(ctx context.Context) (uint, bool, error)
}

// NewMigrator picks the migration backend for the connection's driver.
func NewMigrator(db *sqlx.DB) (Migrator, error) {
	switch db.DriverName() {
	case "sqlite":
		return newSQLiteMigrator(db.DB)
	case "oracle", "godror":
		return &oracleMigrator{db: db.DB, dir: "migrations/oracle"}, nil
	default:
		return nil, fmt.Errorf("no migrations for driver %q", db.DriverName())
	}
}

// RunMigrations brings the schema up to date. No pending migrations is not an error.
func RunMigrations(ctx context.Context, db *sqlx.DB) error {
	m, err := NewMigrator(db)
	if err != nil {
		return err
	}
	if err := m.Up(ctx); err != nil && !errors.Is(err, ErrNoChange) {
		return fmt.Errorf("could not run migrations: %w", err)
	}
	version, _, err := m.Version(ctx)
	if err != nil {
		return err
	}
	logger.Get().Info("Migrations completed successfully", zap.Uint("version", version))
	return nil
}

// sqliteMigrator delegates to golang-migrate. The migrate instance is never
// closed because that would close the shared *sql.DB.
type sqliteMigrator struct {
	m *migrate.Migrate
}

func newSQLiteMigrator(db *sql.DB) (*sqliteMigrator, error) {
	src, err := iofs.New(migrationFS, "migrations/sqlite")
	if err != nil {
		return nil, fmt.Errorf("could not open embedded migrations: %w", err)
	}
	driver, err := migratesqlite.WithInstance(db, &migratesqlite.Config{})
	if err != nil {
		return nil, fmt.Errorf("could not create sqlite migration driver: %w", err)
	}
	m, err := migrate.NewWithInstance("iofs", src, "sqlite", driver)
	if err != nil {
		return nil, fmt.Errorf("could not create migrator: %w", err)
	}
	return &sqliteMigrator{m: m}, nil
}

func (s *sqliteMigrator) Up(context.Context) error { return s.m.Up() }

func (s *sqliteMigrator) Down(context.Context) error { return s.m.Down() }

func (s *sqliteMigrator) Steps(_ context.Context, n int) error { return s.m.Steps(n) }

func (s *sqliteMigrator) Version(context.Context) (uint, bool, error) {
	v, dirty, err := s.m.Version()
	if errors.Is(err, migrate.ErrNilVersion) {
		return 0, false, nil
	}
	return v, dirty, err
}

// oracleMigrator runs the embedded files in version order, one statement at a
// time, and records progress in SCHEMA_MIGRATIONS the way golang-migrate does.
type oracleMigrator struct {
	db  *sql.DB
	dir string
}

type migrationFile struct {
	version uint
	name    string
}

func (o *oracleMigrator) files(suffix string) ([]migrationFile, error) {
	entries, err := fs.ReadDir(migrationFS, o.dir)
	if err != nil {
		return nil, fmt.Errorf("could not read migrations directory: %w", err)
	}
	var out []migrationFile
	for _, e := range entries {
		if !strings.HasSuffix(e.Name(), suffix) {
			continue
		}
		prefix, _, ok := strings.Cut(e.Name(), "_")
		if !ok {
			continue
		}
		v, err := strconv.ParseUint(prefix, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("invalid migration file name %s: %w", e.Name(), err)
		}
		out = append(out, migrationFile{version: uint(v), name: e.Name()})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].version < out[j].version })
	return out, nil
}

func (o *oracleMigrator) ensureVersionTable(ctx context.Context) error {
	var n int
	err := o.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM USER_TABLES WHERE TABLE_NAME = 'SCHEMA_MIGRATIONS'`).Scan(&n)
	if err != nil {
		return fmt.Errorf("could not check schema_migrations: %w", err)
	}
	if n > 0 {
		return nil
	}
	_, err = o.db.ExecContext(ctx, `CREATE TABLE SCHEMA_MIGRATIONS (VERSION NUMBER(19) NOT NULL, DIRTY NUMBER(1) NOT NULL)`)
	if err != nil {
		return fmt.Errorf("could not create schema_migrations: %w", err)
	}
	return nil
}

func (o *oracleMigrator) Version(ctx context.Context) (uint, bool, error) {
	if err := o.ensureVersionTable(ctx); err != nil {
		return 0, false, err
	}
	var version int64
	var dirty bool
	err := o.db.QueryRowContext(ctx, `SELECT VERSION, DIRTY FROM SCHEMA_MIGRATIONS FETCH FIRST 1 ROWS ONLY`).Scan(&version, &dirty)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, false, nil
	}
	if err != nil {
		return 0, false, fmt.Errorf("could not read schema version: %w", err)
	}
	return uint(version), dirty, nil
}

func (o *oracleMigrator) setVersion(ctx context.Context, version uint, dirty bool) error {
	if _, err := o.db.ExecContext(ctx, `DELETE FROM SCHEMA_MIGRATIONS`); err != nil {
		return err
	}
	if version == 0 && !dirty {
		return nil
	}
	d := 0
	if dirty {
		d = 1
	}
	_, err := o.db.ExecContext(ctx, `INSERT INTO SCHEMA_MIGRATIONS (VERSION, DIRTY) VALUES (:1, :2)`, int64(version), d)
	return err
}

func (o *oracleMigrator) apply(ctx context.Context, f migrationFile, target uint) error {
	content, err := fs.ReadFile(migrationFS, o.dir+"/"+f.name)
	if err != nil {
		return fmt.Errorf("could not read migration file %s: %w", f.name, err)
	}
	if err := o.setVersion(ctx, f.version, true); err != nil {
		return err
	}
	for _, stmt := range splitStatements(string(content)) {
		if _, err := o.db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("could not execute migration %s: %w", f.name, err)
		}
	}
	if err := o.setVersion(ctx, target, false); err != nil {
		return err
	}
	logger.Get().Info("Executed migration", zap.String("file", f.name))
	return nil
}

func (o *oracleMigrator) Up(ctx context.Context) error {
	return o.Steps(ctx, 1<<30)
}

func (o *oracleMigrator) Down(ctx context.Context) error {
	return o.Steps(ctx, -(1 << 30))
}

func (o *oracleMigrator) Steps(ctx context.Context, n int) error {
	current, dirty, err := o.Version(ctx)
	if err != nil {
		return err
	}
	if dirty {
		return fmt.Errorf("database is dirty at version %d, fix it manually", current)
	}

	if n >= 0 {
		ups, err := o.files(".up.sql")
		if err != nil {
			return err
		}
		applied := 0
		for _, f := range ups {
			if f.version <= current || applied >= n {
				continue
			}
			if err := o.apply(ctx, f, f.version); err != nil {
				return err
			}
			applied++
		}
		if applied == 0 {
			return ErrNoChange
		}
		return nil
	}

	downs, err := o.files(".down.sql")
	if err != nil {
		return err
	}
	rolled := 0
	for i := len(downs) - 1; i >= 0 && rolled < -n; i-- {
		f := downs[i]
		if f.version > current {
			continue
		}
		prev := uint(0)
		if i > 0 {
			prev = downs[i-1].version
		}
		if err := o.apply(ctx, f, prev); err != nil {
			return err
		}
		rolled++
	}
	if rolled == 0 {
		return ErrNoChange
	}
	return nil
}

// splitStatements splits a script on terminating semicolons. Oracle executes
// one statement per call and rejects the trailing semicolon.
func splitStatements(script string) []string {
	var stmts []string
	for _, part := range strings.Split(script, ";") {
		if stmt := strings.TrimSpace(part); stmt != "" {
			stmts = append(stmts, stmt)
		}
	}
	return stmts
}
