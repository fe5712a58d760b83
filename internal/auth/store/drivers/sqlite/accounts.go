package sqlite

import (
	"context"
	"database/sql"
	"time"

	"github.com/edunexia/edunexia-api/internal/auth/domain"
	"github.com/edunexia/edunexia-api/internal/auth/store"
)

const accountColumns = `id, username, email, password_hash, display_name, role,
	google_id, active, created_at, updated_at`

type accountsRepo struct {
	db dbtx
}

func (r *accountsRepo) FindByID(ctx context.Context, id int64) (domain.Account, error) {
	return r.findOne(ctx, `SELECT `+accountColumns+` FROM accounts WHERE id = ?`, id)
}

func (r *accountsRepo) FindByUsername(ctx context.Context, username string) (domain.Account, error) {
	return r.findOne(ctx, `SELECT `+accountColumns+` FROM accounts WHERE username = ?`, username)
}

func (r *accountsRepo) FindByEmail(ctx context.Context, email string) (domain.Account, error) {
	// email is declared COLLATE NOCASE
	return r.findOne(ctx, `SELECT `+accountColumns+` FROM accounts WHERE email = ?`,
		domain.NormalizeEmail(email))
}

func (r *accountsRepo) FindByGoogleID(ctx context.Context, googleID string) (domain.Account, error) {
	return r.findOne(ctx, `SELECT `+accountColumns+` FROM accounts WHERE google_id = ?`, googleID)
}

func (r *accountsRepo) Create(ctx context.Context, a domain.Account) (domain.Account, error) {
	a.Email = domain.NormalizeEmail(a.Email)
	if err := a.Validate(); err != nil {
		return domain.Account{}, err
	}

	now := time.Now().UTC()
	row := r.db.QueryRowContext(ctx, `
		INSERT INTO accounts (username, email, password_hash, display_name, role,
			google_id, active, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
		RETURNING id`,
		mapStringNull(a.Username),
		a.Email,
		mapStringNull(a.PasswordHash),
		a.DisplayName,
		string(a.Role),
		mapStringNull(a.GoogleID),
		a.Active,
		now,
		now,
	)
	if err := row.Scan(&a.ID); err != nil {
		return domain.Account{}, mapError(err)
	}

	a.CreatedAt = now
	a.UpdatedAt = now
	return a, nil
}

func (r *accountsRepo) LinkGoogleID(ctx context.Context, id int64, googleID string) error {
	res, err := r.db.ExecContext(ctx, `
		UPDATE accounts SET google_id = ?, updated_at = ?
		WHERE id = ? AND google_id IS NULL`,
		googleID, time.Now().UTC(), id,
	)
	return affectedOne(res, err)
}

func (r *accountsRepo) SetActive(ctx context.Context, id int64, active bool) error {
	res, err := r.db.ExecContext(ctx, `
		UPDATE accounts SET active = ?, updated_at = ? WHERE id = ?`,
		active, time.Now().UTC(), id,
	)
	return affectedOne(res, err)
}

func (r *accountsRepo) findOne(ctx context.Context, query string, arg any) (domain.Account, error) {
	var a domain.Account
	var username, passwordHash, googleID sql.NullString
	var role string

	err := r.db.QueryRowContext(ctx, query, arg).Scan(
		&a.ID,
		&username,
		&a.Email,
		&passwordHash,
		&a.DisplayName,
		&role,
		&googleID,
		&a.Active,
		&a.CreatedAt,
		&a.UpdatedAt,
	)
	if err != nil {
		return domain.Account{}, mapNotFound(err)
	}

	a.Username = mapNullString(username)
	a.PasswordHash = mapNullString(passwordHash)
	a.GoogleID = mapNullString(googleID)
	a.Role = domain.Role(role)
	return a, nil
}

func affectedOne(res sql.Result, err error) error {
	if err != nil {
		return mapError(err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return mapError(err)
	}
	if n == 0 {
		return store.ErrNotFound
	}
	return nil
}
