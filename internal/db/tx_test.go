package db

import (
	"context"
	"database/sql"
	"errors"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConn(t *testing.T) {
	database, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer database.Close()

	t.Run("Falls back to pool", func(t *testing.T) {
		assert.Equal(t, DBTX(database), Conn(context.Background(), database))
	})

	t.Run("Returns bound transaction", func(t *testing.T) {
		mock.ExpectBegin()
		mock.ExpectRollback()

		tx, err := database.Begin()
		require.NoError(t, err)

		ctx := context.WithValue(context.Background(), txKey{}, tx)
		assert.Equal(t, DBTX(tx), Conn(ctx, database))

		require.NoError(t, tx.Rollback())
	})

	require.NoError(t, mock.ExpectationsWereMet())
}

func TestTxManager_WithinTx(t *testing.T) {
	t.Run("Commit", func(t *testing.T) {
		database, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer database.Close()

		mock.ExpectBegin()
		mock.ExpectExec("UPDATE products").WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectCommit()

		tm := NewTxManager(database, sql.LevelReadCommitted)
		err = tm.WithinTx(context.Background(), func(ctx context.Context) error {
			_, err := Conn(ctx, database).ExecContext(ctx, "UPDATE products SET stock_quantity = 1")
			return err
		})

		assert.NoError(t, err)
		require.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("Rollback on error", func(t *testing.T) {
		database, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer database.Close()

		mock.ExpectBegin()
		mock.ExpectRollback()

		boom := errors.New("boom")
		tm := NewTxManager(database, sql.LevelReadCommitted)
		err = tm.WithinTx(context.Background(), func(ctx context.Context) error {
			return boom
		})

		assert.ErrorIs(t, err, boom)
		require.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("Rollback on panic", func(t *testing.T) {
		database, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer database.Close()

		mock.ExpectBegin()
		mock.ExpectRollback()

		tm := NewTxManager(database, sql.LevelReadCommitted)
		assert.Panics(t, func() {
			_ = tm.WithinTx(context.Background(), func(ctx context.Context) error {
				panic("unexpected")
			})
		})

		require.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("Nested calls join the outer transaction", func(t *testing.T) {
		database, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer database.Close()

		mock.ExpectBegin()
		mock.ExpectExec("UPDATE products").WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectExec("INSERT INTO orders").WillReturnResult(sqlmock.NewResult(1, 1))
		mock.ExpectCommit()

		tm := NewTxManager(database, sql.LevelReadCommitted)
		err = tm.WithinTx(context.Background(), func(ctx context.Context) error {
			if err := tm.WithinTx(ctx, func(inner context.Context) error {
				_, err := Conn(inner, database).ExecContext(inner, "UPDATE products SET stock_quantity = 1")
				return err
			}); err != nil {
				return err
			}
			_, err := Conn(ctx, database).ExecContext(ctx, "INSERT INTO orders (id) VALUES (1)")
			return err
		})

		assert.NoError(t, err)
		require.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("Begin failure", func(t *testing.T) {
		database, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer database.Close()

		mock.ExpectBegin().WillReturnError(errors.New("connection refused"))

		tm := NewTxManager(database, sql.LevelReadCommitted)
		called := false
		err = tm.WithinTx(context.Background(), func(ctx context.Context) error {
			called = true
			return nil
		})

		assert.Error(t, err)
		assert.Contains(t, err.Error(), "begin transaction")
		assert.False(t, called)
	})

	t.Run("Commit failure", func(t *testing.T) {
		database, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer database.Close()

		mock.ExpectBegin()
		mock.ExpectCommit().WillReturnError(errors.New("serialization failure"))

		tm := NewTxManager(database, sql.LevelReadCommitted)
		err = tm.WithinTx(context.Background(), func(ctx context.Context) error { return nil })

		assert.Error(t, err)
		assert.Contains(t, err.Error(), "commit transaction")
	})
}

func TestTxManager_WithinReadOnlyTx(t *testing.T) {
	database, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer database.Close()

	mock.ExpectBegin()
	mock.ExpectQuery("SELECT 1").WillReturnRows(sqlmock.NewRows([]string{"n"}).AddRow(1))
	mock.ExpectCommit()

	tm := NewTxManager(database, sql.LevelReadCommitted)
	err = tm.WithinReadOnlyTx(context.Background(), func(ctx context.Context) error {
		var n int
		return Conn(ctx, database).QueryRowContext(ctx, "SELECT 1").Scan(&n)
	})

	assert.NoError(t, err)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestAfterCommit(t *testing.T) {
	t.Run("Runs immediately outside a transaction", func(t *testing.T) {
		ran := false
		AfterCommit(context.Background(), func() { ran = true })
		assert.True(t, ran)
	})

	t.Run("Waits for the outer commit", func(t *testing.T) {
		database, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer database.Close()

		mock.ExpectBegin()
		mock.ExpectCommit()

		var events []string
		tm := NewTxManager(database, sql.LevelReadCommitted)
		err = tm.WithinTx(context.Background(), func(ctx context.Context) error {
			if err := tm.WithinTx(ctx, func(inner context.Context) error {
				AfterCommit(inner, func() { events = append(events, "inner") })
				return nil
			}); err != nil {
				return err
			}
			AfterCommit(ctx, func() { events = append(events, "outer") })
			events = append(events, "body done")
			return nil
		})

		require.NoError(t, err)
		assert.Equal(t, []string{"body done", "inner", "outer"}, events)
		require.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("Dropped on rollback", func(t *testing.T) {
		database, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer database.Close()

		mock.ExpectBegin()
		mock.ExpectRollback()

		ran := false
		tm := NewTxManager(database, sql.LevelReadCommitted)
		err = tm.WithinTx(context.Background(), func(ctx context.Context) error {
			AfterCommit(ctx, func() { ran = true })
			return errors.New("second line failed")
		})

		assert.Error(t, err)
		assert.False(t, ran)
		require.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("Dropped on commit failure", func(t *testing.T) {
		database, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer database.Close()

		mock.ExpectBegin()
		mock.ExpectCommit().WillReturnError(errors.New("connection lost"))

		ran := false
		tm := NewTxManager(database, sql.LevelReadCommitted)
		err = tm.WithinTx(context.Background(), func(ctx context.Context) error {
			AfterCommit(ctx, func() { ran = true })
			return nil
		})

		assert.Error(t, err)
		assert.False(t, ran)
	})
}
