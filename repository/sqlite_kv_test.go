package repository

import (
	"context"
	"errors"
	"regexp"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/require"
)

func newMockKV(t *testing.T) (KeyValueStore, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return NewSQLiteKeyValueStore(db), mock
}

func TestSQLiteKV_GetExisting(t *testing.T) {
	store, mock := newMockKV(t)

	mock.ExpectQuery(regexp.QuoteMeta(`SELECT value FROM kv_store WHERE key = ?`)).
		WithArgs("language").
		WillReturnRows(sqlmock.NewRows([]string{"value"}).AddRow("tr"))

	v, ok, err := store.Get(context.Background(), "language")
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, "tr", v)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestSQLiteKV_GetMissingIsNotAnError(t *testing.T) {
	store, mock := newMockKV(t)

	mock.ExpectQuery("SELECT value FROM kv_store").
		WithArgs("viewMode").
		WillReturnRows(sqlmock.NewRows([]string{"value"}))

	v, ok, err := store.Get(context.Background(), "viewMode")
	require.NoError(t, err)
	require.False(t, ok)
	require.Empty(t, v)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestSQLiteKV_GetWrapsDriverError(t *testing.T) {
	store, mock := newMockKV(t)
	boom := errors.New("disk I/O error")

	mock.ExpectQuery("SELECT value FROM kv_store").WillReturnError(boom)

	_, _, err := store.Get(context.Background(), "employees")
	require.ErrorIs(t, err, boom)
	require.Contains(t, err.Error(), `"employees"`)
}

func TestSQLiteKV_SetUpserts(t *testing.T) {
	store, mock := newMockKV(t)

	mock.ExpectExec("INSERT INTO kv_store .* ON CONFLICT\\(key\\) DO UPDATE").
		WithArgs("employees", "[]").
		WillReturnResult(sqlmock.NewResult(0, 1))

	require.NoError(t, store.Set(context.Background(), "employees", "[]"))
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestSQLiteKV_Delete(t *testing.T) {
	store, mock := newMockKV(t)

	mock.ExpectExec(regexp.QuoteMeta(`DELETE FROM kv_store WHERE key = ?`)).
		WithArgs("language").
		WillReturnResult(sqlmock.NewResult(0, 0))

	require.NoError(t, store.Delete(context.Background(), "language"))
	require.NoError(t, mock.ExpectationsWereMet())
}
