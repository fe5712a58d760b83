package service

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/edunexia/edunexia-api/internal/auth/domain"
	"github.com/edunexia/edunexia-api/internal/auth/store"
	"github.com/edunexia/edunexia-api/internal/auth/store/drivers/sqlite"
	"github.com/edunexia/edunexia-api/pkg/cryptox"
	"github.com/stretchr/testify/require"
)

const testSecret = "test-secret-key-with-enough-entropy"

func newTestStore(t *testing.T) *sqlite.Store {
	t.Helper()

	st, err := sqlite.NewStore(":memory:")
	require.NoError(t, err)
	require.NoError(t, st.ApplyMigrations())
	t.Cleanup(func() { _ = st.Close() })
	return st
}

func newTestTokens(t *testing.T) *TokenService {
	t.Helper()

	tokens, err := NewTokenService("HS256", []byte(testSecret), 7*24*time.Hour)
	require.NoError(t, err)
	return tokens
}

func createPasswordAccount(t *testing.T, st store.Store, username, email, password string) domain.Account {
	t.Helper()

	hash, err := cryptox.HashPassword(password)
	require.NoError(t, err)

	a, err := st.Accounts().Create(context.Background(), domain.Account{
		Username:     username,
		Email:        email,
		PasswordHash: hash,
		DisplayName:  username,
		Role:         domain.RoleStudent,
		Active:       true,
	})
	require.NoError(t, err)
	return a
}

func countAccounts(t *testing.T, st *sqlite.Store, emails ...string) int {
	t.Helper()

	n := 0
	for _, e := range emails {
		if _, err := st.Accounts().FindByEmail(context.Background(), e); err == nil {
			n++
		}
	}
	return n
}

// fakeProvider is an in-memory IdentityProvider.
type fakeProvider struct {
	clientID    string
	exchangeErr error
	profileErr  error
	profile     domain.ProviderProfile

	mu            sync.Mutex
	gotRedirect   string
	exchangeCalls atomic.Int32
}

func (f *fakeProvider) Configured() bool { return f.clientID != "" }

func (f *fakeProvider) AuthCodeURL(redirectURI string) string {
	return "https://provider.test/auth?client_id=" + f.clientID + "&redirect_uri=" + redirectURI
}

func (f *fakeProvider) Exchange(_ context.Context, code, redirectURI string) (string, error) {
	f.exchangeCalls.Add(1)
	f.mu.Lock()
	f.gotRedirect = redirectURI
	f.mu.Unlock()
	if f.exchangeErr != nil {
		return "", f.exchangeErr
	}
	return "provider-token-for-" + code, nil
}

func (f *fakeProvider) Profile(context.Context, string) (domain.ProviderProfile, error) {
	if f.profileErr != nil {
		return domain.ProviderProfile{}, f.profileErr
	}
	return f.profile, nil
}

// flakyStore fails the first failures account lookups by id with
// store.ErrUnavailable.
type flakyStore struct {
	store.Store
	failures atomic.Int32
}

func (s *flakyStore) Accounts() store.Accounts {
	return &flakyAccounts{Accounts: s.Store.Accounts(), s: s}
}

type flakyAccounts struct {
	store.Accounts
	s *flakyStore
}

func (a *flakyAccounts) FindByID(ctx context.Context, id int64) (domain.Account, error) {
	if a.s.failures.Add(-1) >= 0 {
		return domain.Account{}, store.ErrUnavailable
	}
	return a.Accounts.FindByID(ctx, id)
}

// spyStore counts account writes and can make the next Create or
// LinkGoogleID lose a race. afterConflict runs once, outside the failed
// transaction, to commit what the winning request wrote.
type spyStore struct {
	store.Store

	failCreates   atomic.Int32
	failLinks     atomic.Int32
	afterConflict func()

	txs     atomic.Int32
	creates atomic.Int32
	links   atomic.Int32
}

func (s *spyStore) writes() int32 { return s.creates.Load() + s.links.Load() }

func (s *spyStore) Accounts() store.Accounts {
	return &spyAccounts{Accounts: s.Store.Accounts(), s: s}
}

func (s *spyStore) WithTx(ctx context.Context, fn func(tx store.Tx) error) error {
	s.txs.Add(1)
	err := s.Store.WithTx(ctx, func(tx store.Tx) error {
		return fn(&spyTx{innerTx: tx, s: s})
	})
	if errors.Is(err, store.ErrAlreadyExists) && s.afterConflict != nil {
		winner := s.afterConflict
		s.afterConflict = nil
		winner()
	}
	return err
}

// innerTx names the embedded field so it does not shadow store.Tx's Tx method.
type innerTx = store.Tx

type spyTx struct {
	innerTx
	s *spyStore
}

func (t *spyTx) Accounts() store.Accounts {
	return &spyAccounts{Accounts: t.innerTx.Accounts(), s: t.s}
}

type spyAccounts struct {
	store.Accounts
	s *spyStore
}

func (a *spyAccounts) Create(ctx context.Context, acc domain.Account) (domain.Account, error) {
	a.s.creates.Add(1)
	if a.s.failCreates.Add(-1) >= 0 {
		return domain.Account{}, store.ErrAlreadyExists
	}
	return a.Accounts.Create(ctx, acc)
}

func (a *spyAccounts) LinkGoogleID(ctx context.Context, id int64, googleID string) error {
	a.s.links.Add(1)
	if a.s.failLinks.Add(-1) >= 0 {
		return store.ErrNotFound
	}
	return a.Accounts.LinkGoogleID(ctx, id, googleID)
}
