package users

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/jackc/pgx/v5/pgconn"
)

const uniqueViolation = "23505"

type PGRepo struct {
	DB *sql.DB
}

const userColumns = `id, email, full_name, picture_url, password_hash, email_verified_at,
  verification_token_hash, verification_expires_at, created_at, updated_at, last_login_at`

func (r *PGRepo) Create(ctx context.Context, user User) error {
	const query = `
INSERT INTO users (id, email, full_name, picture_url, password_hash, verification_token_hash, verification_expires_at, created_at, updated_at)
VALUES ($1, $2, $3, $4, $5, $6, $7, now(), now())`
	_, err := r.DB.ExecContext(ctx, query,
		user.ID,
		user.Email,
		nullableString(user.FullName),
		nullableString(user.PictureURL),
		nullableString(user.PasswordHash),
		nullableString(user.VerificationTokenHash),
		nullableTime(user.VerificationExpiresAt),
	)
	return mapWriteError(err)
}

func (r *PGRepo) Upsert(ctx context.Context, user User) error {
	const query = `
INSERT INTO users (id, email, full_name, picture_url, email_verified_at, created_at, updated_at)
VALUES ($1, $2, $3, $4, $5, now(), now())
ON CONFLICT (id) DO UPDATE SET
  email = EXCLUDED.email,
  full_name = EXCLUDED.full_name,
  picture_url = EXCLUDED.picture_url,
  email_verified_at = COALESCE(users.email_verified_at, EXCLUDED.email_verified_at),
  updated_at = now()`
	_, err := r.DB.ExecContext(ctx, query,
		user.ID,
		user.Email,
		nullableString(user.FullName),
		nullableString(user.PictureURL),
		nullableTime(user.EmailVerifiedAt),
	)
	return mapWriteError(err)
}

func (r *PGRepo) GetByID(ctx context.Context, userID string) (User, error) {
	return r.getOne(ctx, `SELECT `+userColumns+` FROM users WHERE id = $1 LIMIT 1`, userID)
}

func (r *PGRepo) GetByEmail(ctx context.Context, email string) (User, error) {
	return r.getOne(ctx, `SELECT `+userColumns+` FROM users WHERE lower(email) = lower($1) LIMIT 1`, email)
}

func (r *PGRepo) GetByVerificationHash(ctx context.Context, tokenHash string) (User, error) {
	if tokenHash == "" {
		return User{}, ErrNotFound
	}
	return r.getOne(ctx, `SELECT `+userColumns+` FROM users WHERE verification_token_hash = $1 LIMIT 1`, tokenHash)
}

func (r *PGRepo) MarkVerified(ctx context.Context, userID string, at time.Time) error {
	const query = `
UPDATE users
SET email_verified_at = $2, verification_token_hash = NULL, verification_expires_at = NULL, updated_at = now()
WHERE id = $1`
	return r.execOne(ctx, query, userID, at)
}

func (r *PGRepo) TouchLogin(ctx context.Context, userID string, at time.Time) error {
	const query = `UPDATE users SET last_login_at = $2, updated_at = now() WHERE id = $1`
	return r.execOne(ctx, query, userID, at)
}

func (r *PGRepo) execOne(ctx context.Context, query string, args ...any) error {
	res, err := r.DB.ExecContext(ctx, query, args...)
	if err != nil {
		return err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *PGRepo) getOne(ctx context.Context, query string, arg string) (User, error) {
	var user User
	var fullName, pictureURL, passwordHash, tokenHash sql.NullString
	var verifiedAt, expiresAt, updatedAt, lastLogin sql.NullTime
	err := r.DB.QueryRowContext(ctx, query, arg).Scan(
		&user.ID,
		&user.Email,
		&fullName,
		&pictureURL,
		&passwordHash,
		&verifiedAt,
		&tokenHash,
		&expiresAt,
		&user.CreatedAt,
		&updatedAt,
		&lastLogin,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return User{}, ErrNotFound
		}
		return User{}, err
	}
	user.FullName = fullName.String
	user.PictureURL = pictureURL.String
	user.PasswordHash = passwordHash.String
	user.VerificationTokenHash = tokenHash.String
	user.EmailVerifiedAt = timePtr(verifiedAt)
	user.VerificationExpiresAt = timePtr(expiresAt)
	user.LastLoginAt = timePtr(lastLogin)
	if updatedAt.Valid {
		user.UpdatedAt = updatedAt.Time
	} else {
		user.UpdatedAt = user.CreatedAt
	}
	return user, nil
}

func mapWriteError(err error) error {
	if err == nil {
		return nil
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
		return ErrEmailTaken
	}
	return err
}

func nullableString(value string) any {
	if value == "" {
		return nil
	}
	return value
}

func nullableTime(value *time.Time) any {
	if value == nil {
		return nil
	}
	return *value
}

func timePtr(value sql.NullTime) *time.Time {
	if !value.Valid {
		return nil
	}
	t := value.Time
	return &t
}

var _ Repo = (*PGRepo)(nil)
