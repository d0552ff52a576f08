package postgres

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"user-service/internal/config"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDSN(t *testing.T) {
	dsn := DSN(config.DatabaseConfig{
		DBHost:     " db ",
		DBPort:     "5432",
		DBUser:     "app",
		DBPassword: "pw",
		DBName:     "users",
		DBSSLMode:  "disable",
	})
	assert.Equal(t, "host=db port=5432 user=app password=pw dbname=users sslmode=disable", dsn)
}

func TestIsUniqueViolation(t *testing.T) {
	pgErr := &pgconn.PgError{Code: "23505", ConstraintName: "profiles_username_key"}
	wrapped := fmt.Errorf("upsert profile: %w", pgErr)

	assert.True(t, IsUniqueViolation(wrapped, ""))
	assert.True(t, IsUniqueViolation(wrapped, "profiles_username_key"))
	assert.False(t, IsUniqueViolation(wrapped, "other"))
	assert.False(t, IsUniqueViolation(&pgconn.PgError{Code: "23503"}, ""))
	assert.False(t, IsUniqueViolation(errors.New("plain"), ""))
}

type stubQuerier struct {
	tag   pgconn.CommandTag
	err   error
	query string
	args  []any
}

func (s *stubQuerier) Exec(_ context.Context, sql string, args ...any) (pgconn.CommandTag, error) {
	s.query, s.args = sql, args
	return s.tag, s.err
}

func (s *stubQuerier) Query(_ context.Context, sql string, args ...any) (pgx.Rows, error) {
	s.query, s.args = sql, args
	return nil, s.err
}

func (s *stubQuerier) QueryRow(context.Context, string, ...any) pgx.Row { return nil }

func TestConn_ExecReportsRowsAffected(t *testing.T) {
	q := &stubQuerier{tag: pgconn.NewCommandTag("UPDATE 3")}
	n, err := conn{q: q}.Exec(context.Background(), "UPDATE users SET first_name = $1", "Ada")

	require.NoError(t, err)
	assert.Equal(t, int64(3), n)
	assert.Equal(t, []any{"Ada"}, q.args)
}

func TestConn_PropagatesErrors(t *testing.T) {
	boom := errors.New("conn reset")
	c := conn{q: &stubQuerier{tag: pgconn.NewCommandTag("UPDATE 1"), err: boom}}

	n, err := c.Exec(context.Background(), "UPDATE users SET is_deleted = true")
	assert.ErrorIs(t, err, boom)
	assert.Zero(t, n)

	rows, err := c.Query(context.Background(), "SELECT 1")
	assert.ErrorIs(t, err, boom)
	assert.Nil(t, rows)
}
