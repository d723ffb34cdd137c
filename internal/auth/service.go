package auth

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/evorgs/calendar-backend/internal/storage"
	"github.com/evorgs/calendar-backend/internal/storage/models"
)

// Sentinel errors. Handlers collapse all of these into a single
// human-readable error surface; callers never see which check failed
// beyond the message.
var (
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrEmailTaken         = errors.New("an account with this email already exists")
	ErrNotVerified        = errors.New("account is not verified")
	ErrInvalidOTP         = errors.New("invalid or expired code")
	ErrInvalidToken       = errors.New("invalid or expired token")
)

// Principal is an authenticated caller. Exactly one implementation
// exists per role, so handlers can switch on the concrete type instead
// of re-checking a runtime role tag.
type Principal interface {
	AccountID() string
	Role() models.Role
	principal()
}

// User is an authenticated end user.
type User struct{ Account models.Account }

// Vendor is an authenticated vendor.
type Vendor struct{ Account models.Account }

// Admin is an authenticated administrator.
type Admin struct{ Account models.Account }

func (p User) AccountID() string   { return p.Account.ID }
func (p User) Role() models.Role   { return models.RoleUser }
func (p User) principal()          {}
func (p Vendor) AccountID() string { return p.Account.ID }
func (p Vendor) Role() models.Role { return models.RoleVendor }
func (p Vendor) principal()        {}
func (p Admin) AccountID() string  { return p.Account.ID }
func (p Admin) Role() models.Role  { return models.RoleAdmin }
func (p Admin) principal()         {}

// Notifier delivers one-time codes out of band. The webhook notifier
// implements this; tests inject a capture.
type Notifier interface {
	Notify(ctx context.Context, level, title, message, recipient string)
}

// Service implements registration, login and token resolution.
type Service struct {
	accounts *storage.AccountRepository
	notifier Notifier
	tokenTTL time.Duration
	otpTTL   time.Duration
	now      func() time.Time
}

// NewService creates an auth service. notifier may be nil, in which case
// one-time codes are only logged.
func NewService(accounts *storage.AccountRepository, notifier Notifier) *Service {
	return &Service{
		accounts: accounts,
		notifier: notifier,
		tokenTTL: 24 * time.Hour,
		otpTTL:   10 * time.Minute,
		now:      time.Now,
	}
}

// Register creates an unverified account and issues a verification code.
func (s *Service) Register(ctx context.Context, role models.Role, email, name, password string) (*models.Account, error) {
	if !role.Valid() {
		return nil, fmt.Errorf("unknown role %q", role)
	}
	if email == "" || password == "" {
		return nil, ErrInvalidCredentials
	}

	existing, err := s.accounts.GetByEmail(ctx, role, email)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, ErrEmailTaken
	}

	hash, err := HashPassword(password)
	if err != nil {
		return nil, err
	}

	account := &models.Account{
		Role:         role,
		Email:        email,
		Name:         name,
		PasswordHash: hash,
	}
	if err := s.accounts.Create(ctx, account); err != nil {
		return nil, err
	}

	if err := s.issueOTP(ctx, account, models.OTPPurposeVerify); err != nil {
		return nil, err
	}

	return account, nil
}

// VerifyOTP consumes a registration code and marks the account verified.
func (s *Service) VerifyOTP(ctx context.Context, role models.Role, email, code string) error {
	account, err := s.accounts.GetByEmail(ctx, role, email)
	if err != nil {
		return err
	}
	if account == nil {
		return ErrInvalidOTP
	}

	ok, err := s.accounts.ConsumeOTP(ctx, account.ID, models.OTPPurposeVerify, code, s.now())
	if err != nil {
		return err
	}
	if !ok {
		return ErrInvalidOTP
	}

	return s.accounts.SetVerified(ctx, account.ID)
}

// Login checks credentials and returns a fresh bearer token.
func (s *Service) Login(ctx context.Context, role models.Role, email, password string) (string, *models.Account, error) {
	account, err := s.accounts.GetByEmail(ctx, role, email)
	if err != nil {
		return "", nil, err
	}
	if account == nil {
		return "", nil, ErrInvalidCredentials
	}

	ok, err := VerifyPassword(password, account.PasswordHash)
	if err != nil || !ok {
		return "", nil, ErrInvalidCredentials
	}
	if !account.Verified {
		return "", nil, ErrNotVerified
	}

	plaintext, digest, err := NewToken()
	if err != nil {
		return "", nil, err
	}

	token := &models.AuthToken{
		TokenHash: digest,
		AccountID: account.ID,
		Role:      account.Role,
		ExpiresAt: s.now().Add(s.tokenTTL),
	}
	if err := s.accounts.SaveToken(ctx, token); err != nil {
		return "", nil, err
	}

	return plaintext, account, nil
}

// RequestPasswordReset issues a reset code for an existing account.
// Unknown emails succeed silently so the endpoint does not leak which
// addresses are registered.
func (s *Service) RequestPasswordReset(ctx context.Context, role models.Role, email string) error {
	account, err := s.accounts.GetByEmail(ctx, role, email)
	if err != nil {
		return err
	}
	if account == nil {
		return nil
	}

	return s.issueOTP(ctx, account, models.OTPPurposeReset)
}

// ResetPassword consumes a reset code and replaces the password.
func (s *Service) ResetPassword(ctx context.Context, role models.Role, email, code, newPassword string) error {
	account, err := s.accounts.GetByEmail(ctx, role, email)
	if err != nil {
		return err
	}
	if account == nil {
		return ErrInvalidOTP
	}

	ok, err := s.accounts.ConsumeOTP(ctx, account.ID, models.OTPPurposeReset, code, s.now())
	if err != nil {
		return err
	}
	if !ok {
		return ErrInvalidOTP
	}

	hash, err := HashPassword(newPassword)
	if err != nil {
		return err
	}

	return s.accounts.SetPasswordHash(ctx, account.ID, hash)
}

// Authenticate resolves a bearer token to a role-typed principal.
func (s *Service) Authenticate(ctx context.Context, plaintext string) (Principal, error) {
	token, err := s.accounts.GetToken(ctx, HashToken(plaintext))
	if err != nil {
		return nil, err
	}
	if token == nil || token.Expired(s.now()) {
		return nil, ErrInvalidToken
	}

	account, err := s.accounts.GetByID(ctx, token.AccountID)
	if err != nil {
		return nil, err
	}
	if account == nil {
		return nil, ErrInvalidToken
	}

	switch account.Role {
	case models.RoleUser:
		return User{Account: *account}, nil
	case models.RoleVendor:
		return Vendor{Account: *account}, nil
	case models.RoleAdmin:
		return Admin{Account: *account}, nil
	}
	return nil, ErrInvalidToken
}

// PurgeExpiredTokens removes tokens past expiry. Called periodically
// from the scheduler.
func (s *Service) PurgeExpiredTokens(ctx context.Context) {
	if err := s.accounts.DeleteExpiredTokens(ctx, s.now()); err != nil {
		log.Printf("Failed to purge expired tokens: %v", err)
	}
}

func (s *Service) issueOTP(ctx context.Context, account *models.Account, purpose string) error {
	code, err := NewOTP()
	if err != nil {
		return err
	}

	otp := &models.OTPCode{
		AccountID: account.ID,
		Purpose:   purpose,
		Code:      code,
		ExpiresAt: s.now().Add(s.otpTTL),
	}
	if err := s.accounts.SaveOTP(ctx, otp); err != nil {
		return err
	}

	if s.notifier != nil {
		title := "Verification code"
		if purpose == models.OTPPurposeReset {
			title = "Password reset code"
		}
		s.notifier.Notify(ctx, "info", title, "Your code is "+code, account.Email)
	} else {
		log.Printf("OTP for %s (%s): %s", account.Email, purpose, code)
	}

	return nil
}
