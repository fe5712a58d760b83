package service

import (
	"context"
	"testing"

	"github.com/edunexia/edunexia-api/internal/auth/domain"
	"github.com/stretchr/testify/require"
)

func newCredentialService(t *testing.T) *CredentialService {
	t.Helper()
	return &CredentialService{Store: newTestStore(t), Tokens: newTestTokens(t)}
}

func TestRegisterThenAuthenticate(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	svc := newCredentialService(t)

	pairs := []struct{ username, email, password string }{
		{"alice", "alice@example.com", "correct horse battery"},
		{"bob_2", "Bob@Example.com", "p@ssw0rd!!"},
		{"carol.x", "carol@example.org", "üñíçødé-pass"},
	}
	for _, p := range pairs {
		reg, err := svc.Register(ctx, domain.Registration{
			Username: p.username, Email: p.email, Password: p.password, DisplayName: "Name " + p.username,
		})
		require.NoError(t, err)
		require.Equal(t, domain.RoleStudent, reg.Account.Role)
		require.True(t, reg.Account.Active)
		require.Equal(t, domain.NormalizeEmail(p.email), reg.Account.Email)
		require.NotEqual(t, p.password, reg.Account.PasswordHash)

		sess, err := svc.Authenticate(ctx, p.username, p.password)
		require.NoError(t, err)
		require.Equal(t, reg.Account.ID, sess.Account.ID)

		claim, err := svc.Tokens.Verify(sess.Credential.AccessToken)
		require.NoError(t, err)
		require.Equal(t, reg.Account.ID, claim.Subject)
	}
}

func TestRegisterConflicts(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	svc := newCredentialService(t)

	_, err := svc.Register(ctx, domain.Registration{
		Username: "first", Email: "A@x.com", Password: "password-1",
	})
	require.NoError(t, err)

	t.Run("email differs only in case", func(t *testing.T) {
		_, err := svc.Register(ctx, domain.Registration{
			Username: "second", Email: "a@x.com", Password: "password-2",
		})
		require.ErrorIs(t, err, domain.ErrConflict)
	})

	t.Run("same username", func(t *testing.T) {
		_, err := svc.Register(ctx, domain.Registration{
			Username: "first", Email: "other@x.com", Password: "password-3",
		})
		require.ErrorIs(t, err, domain.ErrConflict)
	})
}

func TestRegisterValidation(t *testing.T) {
	t.Parallel()
	svc := newCredentialService(t)

	_, err := svc.Register(context.Background(), domain.Registration{
		Username: "a", Email: "not-an-email", Password: "short",
	})
	require.ErrorIs(t, err, domain.ErrInvalidInput)

	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	require.Contains(t, verr.Fields, "username")
	require.Contains(t, verr.Fields, "email")
	require.Contains(t, verr.Fields, "password")
	require.NotContains(t, verr.Fields, "full_name")

	_, err = svc.Register(context.Background(), domain.Registration{
		Username: "has space", Email: "ok@example.com", Password: "long-enough",
	})
	require.ErrorAs(t, err, &verr)
	require.Contains(t, verr.Fields, "username")
}

func TestAuthenticateFailures(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	svc := newCredentialService(t)

	createPasswordAccount(t, svc.Store, "dave", "dave@example.com", "dave-password")

	fed, err := svc.Store.Accounts().Create(ctx, domain.Account{
		Email: "fed@example.com", Role: domain.RoleStudent, GoogleID: "g-fed", Active: true,
	})
	require.NoError(t, err)
	require.False(t, fed.HasPassword())

	_, err = svc.Store.Accounts().Create(ctx, domain.Account{
		Username: "legacy", Email: "legacy@example.com", Role: domain.RoleStudent, Active: true,
		PasswordHash: "$2b$12$R9h/cIPz0gi.URNNX3kh2OPST9/PgBkqquzi.Ss7KIUgO2t0jWMUW",
	})
	require.NoError(t, err)

	tests := []struct {
		name, username, password string
	}{
		{"unknown user", "nobody", "whatever-pass"},
		{"wrong password", "dave", "not-daves-password"},
		{"empty password", "dave", ""},
		{"empty username", "", "dave-password"},
		{"unreadable stored hash", "legacy", "legacy-password"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.Authenticate(ctx, tt.username, tt.password)
			require.ErrorIs(t, err, domain.ErrInvalidCredentials)
		})
	}
}

func TestAuthenticateInactive(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	svc := newCredentialService(t)

	a := createPasswordAccount(t, svc.Store, "erin", "erin@example.com", "erin-password")
	accounts := &AccountService{Store: svc.Store}
	require.NoError(t, accounts.SetActive(ctx, a.ID, false))

	_, err := svc.Authenticate(ctx, "erin", "erin-password")
	require.ErrorIs(t, err, domain.ErrForbidden)

	// A wrong password still reads as bad credentials.
	_, err = svc.Authenticate(ctx, "erin", "wrong-password")
	require.ErrorIs(t, err, domain.ErrInvalidCredentials)
}
