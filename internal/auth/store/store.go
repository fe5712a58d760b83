package store

import (
	"context"
	"errors"

	"github.com/edunexia/edunexia-api/internal/auth/domain"
)

var (
	ErrNotFound      = errors.New("store: not found")
	ErrAlreadyExists = errors.New("store: already exists")

	// ErrUnavailable marks transient failures (lost connection, locked
	// database). It wraps domain.ErrStoreUnavailable so services can
	// surface it without importing this package's errors.
	ErrUnavailable = domain.ErrStoreUnavailable
)

// Store is the root data access interface. Concrete drivers (sqlite, postgres)
// implement this. It exposes sub-repositories to keep concerns tidy and
// testable, and so a Tx-scoped store cannot open a nested transaction.
type Store interface {
	Accounts() Accounts

	ApplyMigrations() error

	// Tx starts a read/write transaction and returns a Tx-scoped Store.
	// The caller MUST call Commit() or Rollback() on the returned Tx.
	Tx(ctx context.Context) (Tx, error)

	// WithTx executes a function within a transaction.
	// If fn returns an error, the transaction is rolled back.
	// If fn returns nil, the transaction is committed.
	WithTx(ctx context.Context, fn func(tx Tx) error) error

	// Close releases any underlying resources.
	Close() error

	// Ping verifies the database connection is still alive.
	Ping(ctx context.Context) error
}

// Tx is a transactional store. It embeds the same repos but adds Commit/Rollback.
type Tx interface {
	Store
	Commit() error
	Rollback() error
}

type Accounts interface {
	// FindByID returns an account by its numeric id.
	FindByID(ctx context.Context, id int64) (domain.Account, error)

	// FindByUsername is used by password login.
	FindByUsername(ctx context.Context, username string) (domain.Account, error)

	// FindByEmail matches case-insensitively.
	FindByEmail(ctx context.Context, email string) (domain.Account, error)

	// FindByGoogleID returns the account linked to a Google subject.
	FindByGoogleID(ctx context.Context, googleID string) (domain.Account, error)

	// Create inserts a new account and returns it with id and timestamps
	// populated. Returns ErrAlreadyExists on any uniqueness violation.
	Create(ctx context.Context, a domain.Account) (domain.Account, error)

	// LinkGoogleID attaches a Google subject to an account that has none.
	// Returns ErrNotFound if the account is missing or already linked.
	LinkGoogleID(ctx context.Context, id int64, googleID string) error

	// SetActive flips the active flag and bumps updated_at.
	SetActive(ctx context.Context, id int64, active bool) error
}
