package service

import (
	"context"
	"errors"
	"log/slog"

	"github.com/edunexia/edunexia-api/internal/auth/domain"
	"github.com/edunexia/edunexia-api/internal/auth/store"
	"github.com/edunexia/edunexia-api/pkg/slogx"
)

// ErrAccountNotFound is returned when an account id does not exist.
var ErrAccountNotFound = errors.New("account_not_found")

type AccountService struct {
	Store store.Store
}

// Get fetches an account by id.
func (s *AccountService) Get(ctx context.Context, id int64) (domain.Account, error) {
	a, err := store.Retry(ctx, func() (domain.Account, error) {
		return s.Store.Accounts().FindByID(ctx, id)
	})
	if errors.Is(err, store.ErrNotFound) {
		return domain.Account{}, ErrAccountNotFound
	}
	return a, err
}

// SetActive activates or deactivates an account. Deactivated accounts keep
// their data but are refused by the guard and by sign-in.
func (s *AccountService) SetActive(ctx context.Context, id int64, active bool) error {
	_, err := store.Retry(ctx, func() (struct{}, error) {
		return struct{}{}, s.Store.Accounts().SetActive(ctx, id, active)
	})
	if errors.Is(err, store.ErrNotFound) {
		return ErrAccountNotFound
	}
	if err != nil {
		return err
	}

	slogx.FromContext(ctx).Info("account active flag changed",
		slog.Int64("account_id", id),
		slog.Bool("active", active),
	)
	return nil
}
