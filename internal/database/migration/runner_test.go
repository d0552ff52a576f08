package migration

import (
	"context"
	"errors"
	"testing"
	"testing/fstest"

	"user-service/internal/database/dbtest"
	"user-service/migrations"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_OrdersAndFilters(t *testing.T) {
	fsys := fstest.MapFS{
		"V2__second.sql": {Data: []byte("SELECT 2;")},
		"V1__first.sql":  {Data: []byte("SELECT 1;\n")},
		"README.md":      {Data: []byte("ignored")},
	}

	migs, err := Load(fsys)
	require.NoError(t, err)
	require.Len(t, migs, 2)
	assert.Equal(t, int64(1), migs[0].Version)
	assert.Equal(t, "first", migs[0].Name)
	assert.Equal(t, "SELECT 1;", migs[0].SQL)
	assert.Len(t, migs[0].Checksum, 64)
	assert.Equal(t, int64(2), migs[1].Version)
}

func TestLoad_DuplicateVersion(t *testing.T) {
	fsys := fstest.MapFS{
		"V1__a.sql": {Data: []byte("SELECT 1;")},
		"V1__b.sql": {Data: []byte("SELECT 2;")},
	}

	_, err := Load(fsys)
	assert.ErrorContains(t, err, "duplicate migration version")
}

func TestLoad_EmptyFile(t *testing.T) {
	_, err := Load(fstest.MapFS{"V1__a.sql": {Data: []byte("  \n")}})
	assert.ErrorContains(t, err, "empty migration file")
}

func TestLoad_EmbeddedMigrations(t *testing.T) {
	migs, err := Load(migrations.FS)
	require.NoError(t, err)
	require.Len(t, migs, 2)
	assert.Equal(t, "create_users", migs[0].Name)
	assert.Equal(t, "create_profiles", migs[1].Name)
}

func TestRunner_AppliesPendingInOneTx(t *testing.T) {
	fsys := fstest.MapFS{
		"V1__first.sql":  {Data: []byte("SELECT 1;")},
		"V2__second.sql": {Data: []byte("SELECT 2;")},
	}
	migs, err := Load(fsys)
	require.NoError(t, err)

	db := &dbtest.FakeDB{
		QueryFn: func(query string, _ []any) ([][]any, error) {
			return [][]any{{int64(1), migs[0].Checksum}}, nil
		},
	}

	require.NoError(t, Runner{FS: fsys}.Run(context.Background(), db))
	assert.Equal(t, 1, db.Commits())

	var statements []string
	for _, c := range db.Calls() {
		assert.True(t, c.InTx)
		statements = append(statements, c.Query)
	}
	assert.Contains(t, statements[0], "pg_advisory_xact_lock")
	assert.Contains(t, statements, "SELECT 2;")
	assert.NotContains(t, statements, "SELECT 1;")
}

func TestRunner_ChecksumMismatch(t *testing.T) {
	fsys := fstest.MapFS{"V1__first.sql": {Data: []byte("SELECT 1;")}}
	db := &dbtest.FakeDB{
		QueryFn: func(string, []any) ([][]any, error) {
			return [][]any{{int64(1), "deadbeef"}}, nil
		},
	}

	err := Runner{FS: fsys}.Run(context.Background(), db)
	assert.ErrorContains(t, err, "checksum mismatch")
	assert.Equal(t, 0, db.Commits())
	assert.Equal(t, 1, db.Rollbacks())
}

func TestRunner_ApplyFailureRollsBack(t *testing.T) {
	fsys := fstest.MapFS{"V1__first.sql": {Data: []byte("SELECT 1;")}}
	db := &dbtest.FakeDB{
		ExecFn: func(query string, _ []any) (int64, error) {
			if query == "SELECT 1;" {
				return 0, errors.New("syntax error")
			}
			return 0, nil
		},
	}

	err := Runner{FS: fsys}.Run(context.Background(), db)
	assert.ErrorContains(t, err, "apply migration failed: version=1")
	assert.Equal(t, 1, db.Rollbacks())
}
