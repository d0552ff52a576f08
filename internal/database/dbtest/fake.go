// Package dbtest provides an in-memory database.DB whose responses are scripted per
// test.
package dbtest

import (
	"context"
	"errors"
	"fmt"
	"reflect"
	"sync"

	"user-service/internal/database"

	"github.com/jackc/pgx/v5"
)

// ErrNoRows is what an unscripted QueryRow returns, matching the pgx driver.
var ErrNoRows = pgx.ErrNoRows

type Call struct {
	Query string
	Args  []any
	InTx  bool
}

// FakeDB records every statement. Responses come from the *Fn hooks; a nil hook
// yields an empty result.
type FakeDB struct {
	ExecFn     func(query string, args []any) (int64, error)
	QueryFn    func(query string, args []any) ([][]any, error)
	QueryRowFn func(query string, args []any) ([]any, error)
	BeginErr   error
	CommitErr  error

	mu         sync.Mutex
	calls      []Call
	commits    int
	rollbacks  int
	pingErr    error
	closeCalls int
}

func (f *FakeDB) Calls() []Call {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]Call(nil), f.calls...)
}

func (f *FakeDB) Commits() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.commits
}

func (f *FakeDB) Rollbacks() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.rollbacks
}

func (f *FakeDB) Closed() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.closeCalls > 0
}

func (f *FakeDB) SetPingErr(err error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.pingErr = err
}

func (f *FakeDB) record(query string, args []any, inTx bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, Call{Query: query, Args: args, InTx: inTx})
}

func (f *FakeDB) Ping(context.Context) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.pingErr
}

func (f *FakeDB) Close() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.closeCalls++
	return nil
}

func (f *FakeDB) Exec(_ context.Context, query string, args ...any) (int64, error) {
	return f.exec(query, args, false)
}

func (f *FakeDB) Query(_ context.Context, query string, args ...any) (database.Rows, error) {
	return f.query(query, args, false)
}

func (f *FakeDB) QueryRow(_ context.Context, query string, args ...any) database.Row {
	return f.queryRow(query, args, false)
}

func (f *FakeDB) Begin(context.Context) (database.Tx, error) {
	if f.BeginErr != nil {
		return nil, f.BeginErr
	}
	return &fakeTx{db: f}, nil
}

func (f *FakeDB) exec(query string, args []any, inTx bool) (int64, error) {
	f.record(query, args, inTx)
	if f.ExecFn == nil {
		return 0, nil
	}
	return f.ExecFn(query, args)
}

func (f *FakeDB) query(query string, args []any, inTx bool) (database.Rows, error) {
	f.record(query, args, inTx)
	if f.QueryFn == nil {
		return &Rows{}, nil
	}
	data, err := f.QueryFn(query, args)
	if err != nil {
		return nil, err
	}
	return &Rows{Data: data}, nil
}

func (f *FakeDB) queryRow(query string, args []any, inTx bool) database.Row {
	f.record(query, args, inTx)
	if f.QueryRowFn == nil {
		return row{err: ErrNoRows}
	}
	values, err := f.QueryRowFn(query, args)
	return row{values: values, err: err}
}

type fakeTx struct {
	db   *FakeDB
	done bool
}

func (t *fakeTx) Exec(_ context.Context, query string, args ...any) (int64, error) {
	return t.db.exec(query, args, true)
}

func (t *fakeTx) Query(_ context.Context, query string, args ...any) (database.Rows, error) {
	return t.db.query(query, args, true)
}

func (t *fakeTx) QueryRow(_ context.Context, query string, args ...any) database.Row {
	return t.db.queryRow(query, args, true)
}

func (t *fakeTx) Commit(context.Context) error {
	if t.done {
		return errors.New("tx already closed")
	}
	t.done = true
	if t.db.CommitErr != nil {
		return t.db.CommitErr
	}
	t.db.mu.Lock()
	t.db.commits++
	t.db.mu.Unlock()
	return nil
}

func (t *fakeTx) Rollback(context.Context) error {
	if t.done {
		return nil
	}
	t.done = true
	t.db.mu.Lock()
	t.db.rollbacks++
	t.db.mu.Unlock()
	return nil
}

// Rows iterates over Data, assigning each value to the matching Scan destination.
type Rows struct {
	Data [][]any
	pos  int
}

func (r *Rows) Close() {}

func (r *Rows) Next() bool {
	if r.pos >= len(r.Data) {
		return false
	}
	r.pos++
	return true
}

func (r *Rows) Scan(dest ...any) error {
	if r.pos == 0 || r.pos > len(r.Data) {
		return errors.New("scan called without a current row")
	}
	return assign(r.Data[r.pos-1], dest)
}

func (r *Rows) Err() error { return nil }

type row struct {
	values []any
	err    error
}

func (r row) Scan(dest ...any) error {
	if r.err != nil {
		return r.err
	}
	return assign(r.values, dest)
}

func assign(values []any, dest []any) error {
	if len(values) != len(dest) {
		return fmt.Errorf("scan: %d values into %d destinations", len(values), len(dest))
	}
	for i, d := range dest {
		dv := reflect.ValueOf(d)
		if dv.Kind() != reflect.Pointer || dv.IsNil() {
			return fmt.Errorf("scan: destination %d is not a pointer", i)
		}
		target := dv.Elem()
		if values[i] == nil {
			target.Set(reflect.Zero(target.Type()))
			continue
		}
		v := reflect.ValueOf(values[i])
		if !v.Type().AssignableTo(target.Type()) {
			return fmt.Errorf("scan: value %d of type %s not assignable to %s", i, v.Type(), target.Type())
		}
		target.Set(v)
	}
	return nil
}
