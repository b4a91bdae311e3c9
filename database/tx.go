package database

import (
	"context"
	"database/sql"
	"fmt"
	"sync"

	"github.com/sirupsen/logrus"

	"github.com/insidehealthgt/hms/audit"
)

type ctxKey struct{}

// UnitOfWork is the scope of a single business transaction. It carries the
// SQL transaction, callbacks to run once the transaction has committed, and
// values that live exactly as long as the unit of work.
type UnitOfWork struct {
	tx *sql.Tx

	mu     sync.Mutex
	hooks  []func(ctx context.Context)
	values map[any]any
	done   bool
}

// Tx returns the underlying SQL transaction
func (u *UnitOfWork) Tx() *sql.Tx {
	return u.tx
}

// AfterCommit registers fn to run after a successful commit. Callbacks run in
// registration order and never run if the unit of work rolls back.
func (u *UnitOfWork) AfterCommit(fn func(ctx context.Context)) {
	u.mu.Lock()
	defer u.mu.Unlock()
	if u.done {
		return
	}
	u.hooks = append(u.hooks, fn)
}

// Value returns the value stored under key, or nil
func (u *UnitOfWork) Value(key any) any {
	u.mu.Lock()
	defer u.mu.Unlock()
	return u.values[key]
}

// SetValue stores a value for the rest of the unit of work. A nil value
// removes the key.
func (u *UnitOfWork) SetValue(key, value any) {
	u.mu.Lock()
	defer u.mu.Unlock()
	if value == nil {
		delete(u.values, key)
		return
	}
	if u.values == nil {
		u.values = make(map[any]any)
	}
	u.values[key] = value
}

// finish closes the unit of work and hands back the hooks to run (if committed)
func (u *UnitOfWork) finish() []func(ctx context.Context) {
	u.mu.Lock()
	defer u.mu.Unlock()
	u.done = true
	hooks := u.hooks
	u.hooks = nil
	u.values = nil
	return hooks
}

// WithUnitOfWork stores a unit of work in context for downstream repositories
func WithUnitOfWork(ctx context.Context, uow *UnitOfWork) context.Context {
	if uow == nil {
		return ctx
	}
	return context.WithValue(ctx, ctxKey{}, uow)
}

// FromContext extracts the unit of work from context if present
func FromContext(ctx context.Context) (*UnitOfWork, bool) {
	uow, ok := ctx.Value(ctxKey{}).(*UnitOfWork)
	return uow, ok && uow != nil
}

// Locate finds the unit of work for the audit interceptor
func Locate(ctx context.Context) (audit.UnitOfWork, bool) {
	uow, ok := FromContext(ctx)
	if !ok {
		return nil, false
	}
	return uow, true
}

// Executor is the query surface shared by *sql.DB and *sql.Tx
type Executor interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// Conn returns the transaction bound to ctx, falling back to db
func Conn(ctx context.Context, db *sql.DB) Executor {
	if uow, ok := FromContext(ctx); ok {
		return uow.tx
	}
	return db
}

// TxOption configures a TxManager
type TxOption func(*TxManager)

// WithAsyncHooks runs after-commit callbacks on a background goroutine so the
// caller does not wait for them. Callbacks of one unit of work still run in
// order.
func WithAsyncHooks() TxOption {
	return func(m *TxManager) {
		m.async = true
	}
}

// TxManager runs business operations inside units of work
type TxManager struct {
	db    *sql.DB
	log   logrus.FieldLogger
	async bool
	wg    sync.WaitGroup
}

// NewTxManager creates a new transaction manager
func NewTxManager(db *sql.DB, log logrus.FieldLogger, opts ...TxOption) *TxManager {
	m := &TxManager{db: db, log: log}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// RunInTx executes fn inside a unit of work. fn's context carries the unit of
// work; an existing unit of work in ctx is joined instead of nesting. The
// transaction commits when fn returns nil and rolls back otherwise. After a
// commit, the registered callbacks run with a context detached from the
// transaction.
func (m *TxManager) RunInTx(ctx context.Context, fn func(ctx context.Context) error) (err error) {
	if _, ok := FromContext(ctx); ok {
		return fn(ctx)
	}

	tx, err := m.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}

	uow := &UnitOfWork{tx: tx}
	defer func() {
		if p := recover(); p != nil {
			tx.Rollback()
			uow.finish()
			panic(p)
		}
	}()

	if err := fn(WithUnitOfWork(ctx, uow)); err != nil {
		uow.finish()
		if rbErr := tx.Rollback(); rbErr != nil {
			m.log.WithError(rbErr).Warn("failed to roll back transaction")
		}
		return err
	}

	hooks := uow.finish()
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	m.dispatch(context.WithoutCancel(ctx), hooks)
	return nil
}

// Wait blocks until all in-flight asynchronous callbacks have finished
func (m *TxManager) Wait() {
	m.wg.Wait()
}

func (m *TxManager) dispatch(ctx context.Context, hooks []func(ctx context.Context)) {
	if len(hooks) == 0 {
		return
	}

	if !m.async {
		m.runHooks(ctx, hooks)
		return
	}

	m.wg.Add(1)
	go func() {
		defer m.wg.Done()
		m.runHooks(ctx, hooks)
	}()
}

func (m *TxManager) runHooks(ctx context.Context, hooks []func(ctx context.Context)) {
	for _, hook := range hooks {
		m.runHook(ctx, hook)
	}
}

// runHook isolates one callback so a panic cannot stop the ones after it
func (m *TxManager) runHook(ctx context.Context, hook func(ctx context.Context)) {
	defer func() {
		if p := recover(); p != nil {
			m.log.WithField("panic", p).Error("after-commit callback panicked")
		}
	}()
	hook(ctx)
}
