package database

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSQLiteMigrations(t *testing.T) {
	ctx := context.Background()
	db, err := OpenSQLite(ctx, filepath.Join(t.TempDir(), "aigov.db"))
	require.NoError(t, err)
	defer db.Close()

	require.NoError(t, RunMigrations(ctx, db))
	// Running again is a no-op.
	require.NoError(t, RunMigrations(ctx, db))

	m, err := NewMigrator(db)
	require.NoError(t, err)
	version, dirty, err := m.Version(ctx)
	require.NoError(t, err)
	assert.Equal(t, uint(2), version)
	assert.False(t, dirty)

	for _, table := range []string{"USERS", "FAILED_LOGINS", "PASSWORD_RESETS", "ASSESSMENTS", "ASSESSMENT_RESULTS"} {
		var name string
		err := db.GetContext(ctx, &name, `SELECT name FROM sqlite_master WHERE type = 'table' AND name = ?`, table)
		require.NoError(t, err, table)
	}

	require.NoError(t, m.Steps(ctx, -1))
	version, _, err = m.Version(ctx)
	require.NoError(t, err)
	assert.Equal(t, uint(1), version)

	require.NoError(t, m.Down(ctx))
	version, _, err = m.Version(ctx)
	require.NoError(t, err)
	assert.Equal(t, uint(0), version)

	err = m.Down(ctx)
	assert.True(t, errors.Is(err, ErrNoChange))
}

func TestSQLiteBindsQuestionMarks(t *testing.T) {
	ctx := context.Background()
	db, err := OpenSQLite(ctx, filepath.Join(t.TempDir(), "bind.db"))
	require.NoError(t, err)
	defer db.Close()

	q, args, err := db.BindNamed(`SELECT :a, :b`, map[string]interface{}{"a": 1, "b": 2})
	require.NoError(t, err)
	assert.Equal(t, `SELECT ?, ?`, q)
	assert.Equal(t, []interface{}{1, 2}, args)
}

func TestSplitStatements(t *testing.T) {
	stmts := splitStatements("CREATE TABLE A (X NUMBER);\n\n CREATE INDEX I ON A (X);\n")
	assert.Equal(t, []string{"CREATE TABLE A (X NUMBER)", "CREATE INDEX I ON A (X)"}, stmts)
}

func TestOracleMigrationFilesAreOrdered(t *testing.T) {
	o := &oracleMigrator{dir: "migrations/oracle"}
	ups, err := o.files(".up.sql")
	require.NoError(t, err)
	require.Len(t, ups, 2)
	assert.Equal(t, uint(1), ups[0].version)
	assert.Equal(t, uint(2), ups[1].version)

	downs, err := o.files(".down.sql")
	require.NoError(t, err)
	assert.Len(t, downs, 2)
}
