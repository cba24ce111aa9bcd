package db

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"ordering-be/internal/logger"

	"go.uber.org/zap"
)

// DBTX is the subset of *sql.DB and *sql.Tx used by repositories.
type DBTX interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

type txKey struct{}

// Conn returns the transaction bound to ctx, or fallback when there is none.
func Conn(ctx context.Context, fallback *sql.DB) DBTX {
	if tx, ok := ctx.Value(txKey{}).(*sql.Tx); ok {
		return tx
	}
	return fallback
}

type hooksKey struct{}

type commitHooks struct {
	fns []func()
}

// AfterCommit defers fn until the transaction bound to ctx commits. It is
// dropped on rollback. Outside a transaction fn runs immediately.
func AfterCommit(ctx context.Context, fn func()) {
	if h, ok := ctx.Value(hooksKey{}).(*commitHooks); ok {
		h.fns = append(h.fns, fn)
		return
	}
	fn()
}

// WithCommitHooks starts collecting AfterCommit callbacks on ctx. The
// returned flush runs them in registration order and must only be called
// once the unit of work committed.
func WithCommitHooks(ctx context.Context) (context.Context, func()) {
	h := &commitHooks{}
	return context.WithValue(ctx, hooksKey{}, h), func() {
		for _, fn := range h.fns {
			fn()
		}
		h.fns = nil
	}
}

func inTx(ctx context.Context) bool {
	_, ok := ctx.Value(txKey{}).(*sql.Tx)
	return ok
}

// TxManager scopes a unit of work to one storage transaction. Calls made
// while a transaction is already bound to the context join it.
type TxManager interface {
	WithinTx(ctx context.Context, fn func(ctx context.Context) error) error
	WithinReadOnlyTx(ctx context.Context, fn func(ctx context.Context) error) error
}

type txManager struct {
	db        *sql.DB
	isolation sql.IsolationLevel
}

func NewTxManager(db *sql.DB, isolation sql.IsolationLevel) TxManager {
	return &txManager{db: db, isolation: isolation}
}

func (m *txManager) WithinTx(ctx context.Context, fn func(ctx context.Context) error) error {
	return m.run(ctx, &sql.TxOptions{Isolation: m.isolation}, fn)
}

func (m *txManager) WithinReadOnlyTx(ctx context.Context, fn func(ctx context.Context) error) error {
	return m.run(ctx, &sql.TxOptions{ReadOnly: true}, fn)
}

func (m *txManager) run(ctx context.Context, opts *sql.TxOptions, fn func(ctx context.Context) error) error {
	if inTx(ctx) {
		return fn(ctx)
	}

	log := logger.FromCtx(ctx).With(
		zap.String("layer", "db"),
		zap.Bool("read_only", opts.ReadOnly),
	)

	tx, err := m.db.BeginTx(ctx, opts)
	if err != nil {
		log.Error("failed to begin transaction", zap.Error(err))
		return fmt.Errorf("begin transaction: %w", err)
	}

	committed := false
	defer func() {
		if committed {
			return
		}
		if rbErr := tx.Rollback(); rbErr != nil && !errors.Is(rbErr, sql.ErrTxDone) {
			log.Error("transaction rollback failed", zap.Error(rbErr))
			return
		}
		log.Debug("transaction rolled back")
	}()

	ctx, flush := WithCommitHooks(context.WithValue(ctx, txKey{}, tx))
	if err := fn(ctx); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		log.Error("failed to commit transaction", zap.Error(err))
		return fmt.Errorf("commit transaction: %w", err)
	}
	committed = true
	flush()

	return nil
}
