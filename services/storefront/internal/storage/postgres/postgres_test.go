package postgres

import (
	"context"
	"errors"
	"testing"

	"github.com/jackc/pgx/v5"
	pgxmock "github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newStateTestFixture(t *testing.T) (*Storage, pgxmock.PgxPoolIface) {
	t.Helper()
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	return New(mock), mock
}

func TestStorage_EnsureSchema(t *testing.T) {
	s, mock := newStateTestFixture(t)
	defer mock.Close()

	mock.ExpectExec("CREATE TABLE IF NOT EXISTS storefront_state").
		WillReturnResult(pgxmock.NewResult("CREATE TABLE", 0))

	require.NoError(t, s.EnsureSchema(context.Background()))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestStorage_Save(t *testing.T) {
	s, mock := newStateTestFixture(t)
	defer mock.Close()

	payload := []byte(`{"items":[]}`)
	mock.ExpectExec("INSERT INTO storefront_state").
		WithArgs("session:a:cart-storage", payload).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))

	require.NoError(t, s.Save(context.Background(), "session:a:cart-storage", payload))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestStorage_Save_Error(t *testing.T) {
	s, mock := newStateTestFixture(t)
	defer mock.Close()

	mock.ExpectExec("INSERT INTO storefront_state").
		WithArgs("cart-storage", []byte(`{}`)).
		WillReturnError(errors.New("connection reset"))

	err := s.Save(context.Background(), "cart-storage", []byte(`{}`))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "upsert state cart-storage")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestStorage_Load_Found(t *testing.T) {
	s, mock := newStateTestFixture(t)
	defer mock.Close()

	mock.ExpectQuery("SELECT value FROM storefront_state").
		WithArgs("wishlist-storage").
		WillReturnRows(pgxmock.NewRows([]string{"value"}).AddRow([]byte(`{"items":[{"productId":"7"}]}`)))

	got, found, err := s.Load(context.Background(), "wishlist-storage")
	require.NoError(t, err)
	assert.True(t, found)
	assert.JSONEq(t, `{"items":[{"productId":"7"}]}`, string(got))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestStorage_Load_Missing(t *testing.T) {
	s, mock := newStateTestFixture(t)
	defer mock.Close()

	mock.ExpectQuery("SELECT value FROM storefront_state").
		WithArgs("cart-storage").
		WillReturnError(pgx.ErrNoRows)

	got, found, err := s.Load(context.Background(), "cart-storage")
	require.NoError(t, err)
	assert.False(t, found)
	assert.Nil(t, got)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestStorage_Load_Error(t *testing.T) {
	s, mock := newStateTestFixture(t)
	defer mock.Close()

	mock.ExpectQuery("SELECT value FROM storefront_state").
		WithArgs("cart-storage").
		WillReturnError(errors.New("timeout"))

	_, _, err := s.Load(context.Background(), "cart-storage")
	require.Error(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestStorage_Ping(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()
	s := New(mock)

	mock.ExpectPing()
	assert.NoError(t, s.Ping(context.Background()))
	assert.NoError(t, mock.ExpectationsWereMet())
}
