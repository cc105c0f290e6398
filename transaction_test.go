package sqlchain_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	sqlchain "github.com/biyonik/go-sqlchain"
)

func countUsers(t *testing.T, db *sqlchain.DB) int64 {
	t.Helper()
	n, err := db.Select().From("users").Count()
	require.NoError(t, err)
	return n
}

func TestTransaction_Commit(t *testing.T) {
	db := openTestDB(t)

	tx, err := db.Begin()
	require.NoError(t, err)

	_, err = tx.InsertInto("users", "name", "email").Values("frank", "frank@example.com").Execute()
	require.NoError(t, err)

	n, err := tx.Select().From("users").Count()
	require.NoError(t, err)
	assert.Equal(t, int64(6), n)

	require.NoError(t, tx.Commit())
	assert.True(t, tx.IsClosed())
	assert.Equal(t, int64(6), countUsers(t, db))

	assert.ErrorIs(t, tx.Commit(), sqlchain.ErrTxClosed)
	assert.NoError(t, tx.Rollback())
}

func TestTransaction_Rollback(t *testing.T) {
	db := openTestDB(t)

	tx, err := db.Begin()
	require.NoError(t, err)

	_, err = tx.DeleteFrom("users").Execute()
	require.NoError(t, err)

	require.NoError(t, tx.Rollback())
	require.NoError(t, tx.Rollback())
	assert.Equal(t, int64(5), countUsers(t, db))

	_, err = tx.Select().From("users").Count()
	assert.ErrorIs(t, err, sqlchain.ErrTxClosed)
}

func TestDB_Transaction(t *testing.T) {
	db := openTestDB(t)
	ctx := context.Background()

	err := db.Transaction(ctx, func(tx *sqlchain.Transaction) error {
		_, err := tx.Update("users").Set("status", "archived").Where("role", "=", "member").Execute()
		return err
	})
	require.NoError(t, err)

	archived, err := db.Select().From("users").Where("status", "=", "archived").Count()
	require.NoError(t, err)
	assert.Equal(t, int64(3), archived)

	boom := errors.New("boom")
	err = db.Transaction(ctx, func(tx *sqlchain.Transaction) error {
		if _, err := tx.DeleteFrom("users").Execute(); err != nil {
			return err
		}
		return boom
	})
	assert.ErrorIs(t, err, boom)
	assert.Equal(t, int64(5), countUsers(t, db))
}

func TestDB_TransactionRollsBackOnPanic(t *testing.T) {
	db := openTestDB(t)

	assert.PanicsWithValue(t, "kaboom", func() {
		_ = db.Transaction(context.Background(), func(tx *sqlchain.Transaction) error {
			_, _ = tx.DeleteFrom("users").Execute()
			panic("kaboom")
		})
	})
	assert.Equal(t, int64(5), countUsers(t, db))
}

func TestTransaction_Savepoints(t *testing.T) {
	db := openTestDB(t)
	ctx := context.Background()

	tx, err := db.Begin()
	require.NoError(t, err)
	defer tx.Rollback()

	_, err = tx.DeleteFrom("users").Where("name", "=", "alice").Execute()
	require.NoError(t, err)

	require.NoError(t, tx.Savepoint(ctx, "before_bob"))
	_, err = tx.DeleteFrom("users").Where("name", "=", "bob").Execute()
	require.NoError(t, err)
	require.NoError(t, tx.RollbackTo(ctx, "before_bob"))
	require.NoError(t, tx.ReleaseSavepoint(ctx, "before_bob"))

	require.NoError(t, tx.Commit())
	assert.Equal(t, int64(4), countUsers(t, db))

	var names []string
	require.NoError(t, db.Select("name").From("users").Where("name", "=", "bob").FetchAll(&names))
	assert.Equal(t, []string{"bob"}, names)
}

func TestTransaction_SavepointNameValidated(t *testing.T) {
	db := openTestDB(t)

	tx, err := db.Begin()
	require.NoError(t, err)
	defer tx.Rollback()

	err = tx.Savepoint(context.Background(), "sp; DROP TABLE users")
	assert.ErrorIs(t, err, sqlchain.ErrInvalidIdentifier)

	err = tx.Savepoint(context.Background(), "schema.sp")
	assert.ErrorIs(t, err, sqlchain.ErrInvalidIdentifier)
}

func TestTransaction_Nested(t *testing.T) {
	db := openTestDB(t)
	ctx := context.Background()

	err := db.Transaction(ctx, func(tx *sqlchain.Transaction) error {
		if _, err := tx.Update("users").Set("age", 99).Where("name", "=", "alice").Execute(); err != nil {
			return err
		}

		nestedErr := tx.Nested(ctx, func(tx *sqlchain.Transaction) error {
			if _, err := tx.DeleteFrom("users").Execute(); err != nil {
				return err
			}
			return errors.New("undo the delete")
		})
		assert.EqualError(t, nestedErr, "undo the delete")
		assert.False(t, tx.IsClosed())

		return tx.Nested(ctx, func(tx *sqlchain.Transaction) error {
			_, err := tx.InsertInto("users", "name", "email").Values("frank", "frank@example.com").Execute()
			return err
		})
	})
	require.NoError(t, err)

	assert.Equal(t, int64(6), countUsers(t, db))

	var age int
	require.NoError(t, db.Select("age").From("users").Where("name", "=", "alice").FetchColumn(&age))
	assert.Equal(t, 99, age)
}

func TestTransaction_RawExecutor(t *testing.T) {
	db := openTestDB(t)
	ctx := context.Background()

	tx, err := db.Begin()
	require.NoError(t, err)

	_, err = tx.ExecContext(ctx, "UPDATE users SET age = age + 1")
	require.NoError(t, err)

	var age int
	require.NoError(t, tx.QueryRowContext(ctx, "SELECT age FROM users WHERE name = ?", "bob").Scan(&age))
	assert.Equal(t, 28, age)

	require.NoError(t, tx.Commit())

	_, err = tx.ExecContext(ctx, "DELETE FROM users")
	assert.ErrorIs(t, err, sqlchain.ErrTxClosed)
}
