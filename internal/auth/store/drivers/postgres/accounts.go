package postgres

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
	return r.findOne(ctx, `SELECT `+accountColumns+` FROM accounts WHERE id = $1`, id)
}

func (r *accountsRepo) FindByUsername(ctx context.Context, username string) (domain.Account, error) {
	return r.findOne(ctx, `SELECT `+accountColumns+` FROM accounts WHERE username = $1`, username)
}

func (r *accountsRepo) FindByEmail(ctx context.Context, email string) (domain.Account, error) {
	return r.findOne(ctx, `SELECT `+accountColumns+` FROM accounts WHERE lower(email) = lower($1)`,
		domain.NormalizeEmail(email))
}

func (r *accountsRepo) FindByGoogleID(ctx context.Context, googleID string) (domain.Account, error) {
	return r.findOne(ctx, `SELECT `+accountColumns+` FROM accounts WHERE google_id = $1`, googleID)
}

func (r *accountsRepo) Create(ctx context.Context, a domain.Account) (domain.Account, error) {
	a.Email = domain.NormalizeEmail(a.Email)
	if err := a.Validate(); err != nil {
		return domain.Account{}, err
	}

	now := time.Now().UTC()
	err := r.db.QueryRowContext(ctx, `
		INSERT INTO accounts (username, email, password_hash, display_name, role,
			google_id, active, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING id`,
		nullString(a.Username),
		a.Email,
		nullString(a.PasswordHash),
		a.DisplayName,
		string(a.Role),
		nullString(a.GoogleID),
		a.Active,
		now,
		now,
	).Scan(&a.ID)
	if err != nil {
		return domain.Account{}, mapError(err)
	}

	a.CreatedAt = now
	a.UpdatedAt = now
	return a, nil
}

func (r *accountsRepo) LinkGoogleID(ctx context.Context, id int64, googleID string) error {
	res, err := r.db.ExecContext(ctx, `
		UPDATE accounts SET google_id = $1, updated_at = $2
		WHERE id = $3 AND google_id IS NULL`,
		googleID, time.Now().UTC(), id,
	)
	return affectedOne(res, err)
}

func (r *accountsRepo) SetActive(ctx context.Context, id int64, active bool) error {
	res, err := r.db.ExecContext(ctx, `
		UPDATE accounts SET active = $1, updated_at = $2 WHERE id = $3`,
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
		return domain.Account{}, mapError(err)
	}

	a.Username = username.String
	a.PasswordHash = passwordHash.String
	a.GoogleID = googleID.String
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

func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}
