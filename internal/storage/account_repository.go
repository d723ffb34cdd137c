package storage

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/evorgs/calendar-backend/internal/storage/models"
)

// AccountRepository provides data access for accounts, bearer tokens and
// one-time codes.
type AccountRepository struct {
	BaseRepository
}

// NewAccountRepository creates a new account repository.
func NewAccountRepository(db *DB) *AccountRepository {
	return &AccountRepository{
		BaseRepository: NewBaseRepository(db),
	}
}

// Create inserts a new account.
func (r *AccountRepository) Create(ctx context.Context, a *models.Account) error {
	a.ID = GenerateID()
	a.CreatedAt = r.Now()
	a.UpdatedAt = r.Now()

	_, err := r.DB().ExecContext(ctx, `
		INSERT INTO accounts (id, role, email, name, password_hash, verified, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`, a.ID, string(a.Role), a.Email, a.Name, a.PasswordHash, a.Verified, a.CreatedAt, a.UpdatedAt)

	if err != nil {
		return fmt.Errorf("inserting account: %w", err)
	}

	return nil
}

// GetByEmail retrieves an account by role and email.
func (r *AccountRepository) GetByEmail(ctx context.Context, role models.Role, email string) (*models.Account, error) {
	return r.get(ctx, `
		SELECT id, role, email, name, password_hash, verified, created_at, updated_at
		FROM accounts WHERE role = ? AND email = ?
	`, string(role), email)
}

// GetByID retrieves an account by its ID.
func (r *AccountRepository) GetByID(ctx context.Context, id string) (*models.Account, error) {
	return r.get(ctx, `
		SELECT id, role, email, name, password_hash, verified, created_at, updated_at
		FROM accounts WHERE id = ?
	`, id)
}

func (r *AccountRepository) get(ctx context.Context, query string, args ...any) (*models.Account, error) {
	a := &models.Account{}
	var role string

	err := r.DB().QueryRowContext(ctx, query, args...).Scan(
		&a.ID, &role, &a.Email, &a.Name, &a.PasswordHash, &a.Verified, &a.CreatedAt, &a.UpdatedAt,
	)

	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("querying account: %w", err)
	}

	a.Role = models.Role(role)
	return a, nil
}

// SetVerified marks an account as verified.
func (r *AccountRepository) SetVerified(ctx context.Context, id string) error {
	_, err := r.DB().ExecContext(ctx, `
		UPDATE accounts SET verified = 1, updated_at = ? WHERE id = ?
	`, r.Now(), id)
	if err != nil {
		return fmt.Errorf("marking account verified: %w", err)
	}
	return nil
}

// SetPasswordHash replaces an account's password hash.
func (r *AccountRepository) SetPasswordHash(ctx context.Context, id, hash string) error {
	_, err := r.DB().ExecContext(ctx, `
		UPDATE accounts SET password_hash = ?, updated_at = ? WHERE id = ?
	`, hash, r.Now(), id)
	if err != nil {
		return fmt.Errorf("updating password hash: %w", err)
	}
	return nil
}

// SaveToken stores a bearer token digest.
func (r *AccountRepository) SaveToken(ctx context.Context, t *models.AuthToken) error {
	t.CreatedAt = r.Now()

	_, err := r.DB().ExecContext(ctx, `
		INSERT INTO auth_tokens (token_hash, account_id, role, expires_at, created_at)
		VALUES (?, ?, ?, ?, ?)
	`, t.TokenHash, t.AccountID, string(t.Role), t.ExpiresAt, t.CreatedAt)

	if err != nil {
		return fmt.Errorf("inserting token: %w", err)
	}

	return nil
}

// GetToken retrieves a token record by its digest.
func (r *AccountRepository) GetToken(ctx context.Context, tokenHash string) (*models.AuthToken, error) {
	t := &models.AuthToken{}
	var role string

	err := r.DB().QueryRowContext(ctx, `
		SELECT token_hash, account_id, role, expires_at, created_at
		FROM auth_tokens WHERE token_hash = ?
	`, tokenHash).Scan(&t.TokenHash, &t.AccountID, &role, &t.ExpiresAt, &t.CreatedAt)

	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("querying token: %w", err)
	}

	t.Role = models.Role(role)
	return t, nil
}

// DeleteExpiredTokens removes tokens past their expiry.
func (r *AccountRepository) DeleteExpiredTokens(ctx context.Context, now time.Time) error {
	_, err := r.DB().ExecContext(ctx, "DELETE FROM auth_tokens WHERE expires_at < ?", now)
	if err != nil {
		return fmt.Errorf("deleting expired tokens: %w", err)
	}
	return nil
}

// SaveOTP stores a one-time code, replacing any previous code for the
// same account and purpose.
func (r *AccountRepository) SaveOTP(ctx context.Context, otp *models.OTPCode) error {
	otp.CreatedAt = r.Now()

	_, err := r.DB().ExecContext(ctx, `
		INSERT INTO otp_codes (account_id, purpose, code, expires_at, created_at)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT (account_id, purpose) DO UPDATE SET
			code = excluded.code, expires_at = excluded.expires_at, created_at = excluded.created_at
	`, otp.AccountID, otp.Purpose, otp.Code, otp.ExpiresAt, otp.CreatedAt)

	if err != nil {
		return fmt.Errorf("inserting otp: %w", err)
	}

	return nil
}

// ConsumeOTP validates and deletes a one-time code. Returns false when
// the code does not match or has expired.
func (r *AccountRepository) ConsumeOTP(ctx context.Context, accountID, purpose, code string, now time.Time) (bool, error) {
	var stored string
	var expiresAt time.Time

	err := r.DB().QueryRowContext(ctx, `
		SELECT code, expires_at FROM otp_codes WHERE account_id = ? AND purpose = ?
	`, accountID, purpose).Scan(&stored, &expiresAt)

	if err == sql.ErrNoRows {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("querying otp: %w", err)
	}

	if stored != code || now.After(expiresAt) {
		return false, nil
	}

	_, err = r.DB().ExecContext(ctx, `
		DELETE FROM otp_codes WHERE account_id = ? AND purpose = ?
	`, accountID, purpose)
	if err != nil {
		return false, fmt.Errorf("deleting otp: %w", err)
	}

	return true, nil
}
