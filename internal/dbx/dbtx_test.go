package dbx

import (
	"context"
	"database/sql"
	"errors"
	"testing"

	"github.com/stretchr/testify/require"
	_ "modernc.org/sqlite"
)

// setupDB models the two denormalised tables so the tests exercise the same
// "both or neither" shape the proposal service relies on.
func setupDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := sql.Open("sqlite", "file:"+t.Name()+"?mode=memory&cache=shared")
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	_, err = db.Exec(`CREATE TABLE proposals (id TEXT PRIMARY KEY, recipient TEXT);
		CREATE TABLE sent_proposals (id TEXT PRIMARY KEY, recipient TEXT);`)
	require.NoError(t, err)
	return db
}

func count(t *testing.T, db *sql.DB, table string) int {
	t.Helper()
	var n int
	require.NoError(t, db.QueryRow(`SELECT COUNT(*) FROM `+table).Scan(&n))
	return n
}

func insertBoth(ctx context.Context, tx DBTX) error {
	if _, err := tx.ExecContext(ctx, `INSERT INTO proposals VALUES ('p1', 'Juliet')`); err != nil {
		return err
	}
	_, err := tx.ExecContext(ctx, `INSERT INTO sent_proposals VALUES ('p1', 'Juliet')`)
	return err
}

func TestWithTx_CommitsOnSuccess(t *testing.T) {
	db := setupDB(t)

	err := WithTx(context.Background(), db, nil, insertBoth)
	require.NoError(t, err)

	require.Equal(t, 1, count(t, db, "proposals"))
	require.Equal(t, 1, count(t, db, "sent_proposals"))
}

func TestWithTx_RollbackOnError(t *testing.T) {
	db := setupDB(t)

	err := WithTx(context.Background(), db, nil, func(ctx context.Context, tx DBTX) error {
		require.NoError(t, insertBoth(ctx, tx))
		return errors.New("mirror write failed")
	})
	require.Error(t, err)

	require.Equal(t, 0, count(t, db, "proposals"), "public record must not be orphaned")
	require.Equal(t, 0, count(t, db, "sent_proposals"))
}

func TestWithTx_RollbackOnPanic(t *testing.T) {
	db := setupDB(t)

	defer func() {
		require.NotNil(t, recover(), "panic must propagate")
		require.Equal(t, 0, count(t, db, "proposals"))
	}()

	_ = WithTx(context.Background(), db, nil, func(ctx context.Context, tx DBTX) error {
		_, _ = tx.ExecContext(ctx, `INSERT INTO proposals VALUES ('p1', 'Juliet')`)
		panic("kaput")
	})
}

func TestWithTx_BeginError(t *testing.T) {
	db := setupDB(t)
	require.NoError(t, db.Close())

	err := WithTx(context.Background(), db, nil, func(ctx context.Context, tx DBTX) error {
		return nil
	})
	require.Error(t, err)
}
