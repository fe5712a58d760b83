package postgres

import (
	"context"
	"database/sql/driver"
	"errors"
	"fmt"
	"io"
	"net"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/edunexia/edunexia-api/internal/auth/domain"
	"github.com/edunexia/edunexia-api/internal/auth/store"
	"github.com/lib/pq"
	"github.com/stretchr/testify/require"
)

func newMockStore(t *testing.T) (*Store, sqlmock.Sqlmock) {
	t.Helper()

	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	st, err := NewStoreFromDB(db)
	require.NoError(t, err)
	return st, mock
}

var accountRowColumns = []string{
	"id", "username", "email", "password_hash", "display_name", "role",
	"google_id", "active", "created_at", "updated_at",
}

func TestCreateReturnsID(t *testing.T) {
	st, mock := newMockStore(t)

	mock.ExpectQuery("INSERT INTO accounts").
		WithArgs(sqlmock.AnyArg(), "amy@example.com", sqlmock.AnyArg(), "Amy", "student",
			sqlmock.AnyArg(), true, sqlmock.AnyArg(), sqlmock.AnyArg()).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(int64(42)))

	a, err := st.Accounts().Create(context.Background(), domain.Account{
		Username:     "amy",
		Email:        " Amy@Example.com ",
		PasswordHash: "hash",
		DisplayName:  "Amy",
		Role:         domain.RoleStudent,
		Active:       true,
	})
	require.NoError(t, err)
	require.Equal(t, int64(42), a.ID)
	require.Equal(t, "amy@example.com", a.Email)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestCreateMapsUniqueViolation(t *testing.T) {
	st, mock := newMockStore(t)

	mock.ExpectQuery("INSERT INTO accounts").
		WillReturnError(&pq.Error{Code: "23505", Constraint: "accounts_email_lower_idx"})

	_, err := st.Accounts().Create(context.Background(), domain.Account{
		Email: "dup@example.com", PasswordHash: "hash", Role: domain.RoleStudent,
	})
	require.ErrorIs(t, err, store.ErrAlreadyExists)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestCreateRejectsInvalidBeforeQuery(t *testing.T) {
	st, mock := newMockStore(t)

	_, err := st.Accounts().Create(context.Background(), domain.Account{Email: "a@example.com"})
	require.ErrorIs(t, err, domain.ErrInvalidInput)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestFindByEmailScansNullableColumns(t *testing.T) {
	st, mock := newMockStore(t)

	now := time.Date(2025, 1, 2, 3, 4, 5, 0, time.UTC)
	mock.ExpectQuery(`WHERE lower\(email\) = lower\(\$1\)`).
		WithArgs("fed@example.com").
		WillReturnRows(sqlmock.NewRows(accountRowColumns).
			AddRow(int64(7), nil, "fed@example.com", nil, "Fed", "teacher", "g-7", true, now, now))

	a, err := st.Accounts().FindByEmail(context.Background(), "FED@example.com")
	require.NoError(t, err)
	require.Equal(t, int64(7), a.ID)
	require.Empty(t, a.Username)
	require.False(t, a.HasPassword())
	require.Equal(t, "g-7", a.GoogleID)
	require.Equal(t, domain.RoleTeacher, a.Role)
	require.Equal(t, now, a.CreatedAt)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestFindByIDNotFound(t *testing.T) {
	st, mock := newMockStore(t)

	mock.ExpectQuery("WHERE id = ").
		WithArgs(int64(9)).
		WillReturnRows(sqlmock.NewRows(accountRowColumns))

	_, err := st.Accounts().FindByID(context.Background(), 9)
	require.ErrorIs(t, err, store.ErrNotFound)
}

func TestLinkGoogleIDAlreadyLinked(t *testing.T) {
	st, mock := newMockStore(t)

	mock.ExpectExec("UPDATE accounts SET google_id").
		WithArgs("g-1", sqlmock.AnyArg(), int64(3)).
		WillReturnResult(sqlmock.NewResult(0, 0))

	err := st.Accounts().LinkGoogleID(context.Background(), 3, "g-1")
	require.ErrorIs(t, err, store.ErrNotFound)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestFindByIDUnreachable(t *testing.T) {
	st, mock := newMockStore(t)

	mock.ExpectQuery("WHERE id = ").
		WithArgs(int64(3)).
		WillReturnError(&net.OpError{Op: "dial", Net: "tcp", Err: errors.New("connect: connection refused")})

	_, err := st.Accounts().FindByID(context.Background(), 3)
	require.ErrorIs(t, err, store.ErrUnavailable)
	require.ErrorIs(t, err, domain.ErrStoreUnavailable)
}

func TestUnreachableServer(t *testing.T) {
	// Port 1 is never a postgres server; the dial fails straight away.
	st, err := NewStore("postgres://u:p@127.0.0.1:1/db?sslmode=disable&connect_timeout=2")
	require.NoError(t, err)
	t.Cleanup(func() { _ = st.Close() })

	_, err = st.Accounts().FindByID(context.Background(), 1)
	require.ErrorIs(t, err, store.ErrUnavailable)

	require.ErrorIs(t, st.Ping(context.Background()), store.ErrUnavailable)
}

func TestWithTxRollsBackOnError(t *testing.T) {
	st, mock := newMockStore(t)

	mock.ExpectBegin()
	mock.ExpectExec("UPDATE accounts SET active").
		WithArgs(false, sqlmock.AnyArg(), int64(5)).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectRollback()

	err := st.WithTx(context.Background(), func(tx store.Tx) error {
		require.NoError(t, tx.Accounts().SetActive(context.Background(), 5, false))
		return domain.ErrConflict
	})
	require.ErrorIs(t, err, domain.ErrConflict)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestMapError(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want error
	}{
		{"unique", &pq.Error{Code: "23505"}, store.ErrAlreadyExists},
		{"check", &pq.Error{Code: "23514"}, domain.ErrInvalidInput},
		{"connection", &pq.Error{Code: "08006"}, store.ErrUnavailable},
		{"admin shutdown", &pq.Error{Code: "57P01"}, store.ErrUnavailable},
		{"serialization", &pq.Error{Code: "40001"}, store.ErrUnavailable},
		{"bad conn", driver.ErrBadConn, store.ErrUnavailable},
		{"dial refused", &net.OpError{Op: "dial", Net: "tcp", Err: errors.New("connect: connection refused")}, store.ErrUnavailable},
		{"deadline", fmt.Errorf("query: %w", context.DeadlineExceeded), store.ErrUnavailable},
		{"connection dropped", io.ErrUnexpectedEOF, store.ErrUnavailable},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.ErrorIs(t, mapError(tt.err), tt.want)
		})
	}

	require.NoError(t, mapError(nil))
	other := &pq.Error{Code: "42601"}
	require.Equal(t, error(other), mapError(other))
}
