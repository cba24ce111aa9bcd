// Package dbtest provides storage doubles for service tests.
package dbtest

import (
	"context"

	"ordering-be/internal/db"
)

// TxManager runs units of work inline without a database. BeginErr, when
// set, is returned instead of running the callback. Like the real manager,
// nested calls join the outermost one and db.AfterCommit callbacks run only
// when the outermost callback succeeds.
type TxManager struct {
	Calls         int
	ReadOnlyCalls int
	BeginErr      error

	depth int
}

func (m *TxManager) WithinTx(ctx context.Context, fn func(ctx context.Context) error) error {
	m.Calls++
	return m.run(ctx, fn)
}

func (m *TxManager) WithinReadOnlyTx(ctx context.Context, fn func(ctx context.Context) error) error {
	m.ReadOnlyCalls++
	return m.run(ctx, fn)
}

func (m *TxManager) run(ctx context.Context, fn func(ctx context.Context) error) error {
	if m.BeginErr != nil {
		return m.BeginErr
	}
	if m.depth > 0 {
		return fn(ctx)
	}

	m.depth++
	defer func() { m.depth-- }()

	ctx, flush := db.WithCommitHooks(ctx)
	if err := fn(ctx); err != nil {
		return err
	}
	flush()
	return nil
}
