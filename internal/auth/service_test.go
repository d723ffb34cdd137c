package auth

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"github.com/evorgs/calendar-backend/internal/storage"
	"github.com/evorgs/calendar-backend/internal/storage/models"
)

func newTestService(t *testing.T) (*Service, *storage.DB) {
	t.Helper()

	db, err := storage.NewDB(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("opening test database: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	if err := storage.RunMigrations(db); err != nil {
		t.Fatalf("running migrations: %v", err)
	}

	return NewService(storage.NewAccountRepository(db), nil), db
}

func otpFor(t *testing.T, db *storage.DB, accountID, purpose string) string {
	t.Helper()

	var code string
	err := db.QueryRowContext(context.Background(),
		"SELECT code FROM otp_codes WHERE account_id = ? AND purpose = ?", accountID, purpose,
	).Scan(&code)
	if err != nil {
		t.Fatalf("reading otp code: %v", err)
	}
	return code
}

func TestRegisterVerifyLogin(t *testing.T) {
	svc, db := newTestService(t)
	ctx := context.Background()

	account, err := svc.Register(ctx, models.RoleUser, "jane@example.com", "Jane", "s3cret-pass")
	if err != nil {
		t.Fatalf("Register: %v", err)
	}
	if account.Verified {
		t.Error("fresh account should not be verified")
	}

	// Login is refused until the account is verified.
	if _, _, err := svc.Login(ctx, models.RoleUser, "jane@example.com", "s3cret-pass"); !errors.Is(err, ErrNotVerified) {
		t.Fatalf("Login before verify: err = %v, want ErrNotVerified", err)
	}

	if err := svc.VerifyOTP(ctx, models.RoleUser, "jane@example.com", "000000"); !errors.Is(err, ErrInvalidOTP) {
		t.Fatalf("VerifyOTP with wrong code: err = %v, want ErrInvalidOTP", err)
	}

	code := otpFor(t, db, account.ID, models.OTPPurposeVerify)
	if err := svc.VerifyOTP(ctx, models.RoleUser, "jane@example.com", code); err != nil {
		t.Fatalf("VerifyOTP: %v", err)
	}

	// A code is single use.
	if err := svc.VerifyOTP(ctx, models.RoleUser, "jane@example.com", code); !errors.Is(err, ErrInvalidOTP) {
		t.Fatalf("VerifyOTP reuse: err = %v, want ErrInvalidOTP", err)
	}

	token, got, err := svc.Login(ctx, models.RoleUser, "jane@example.com", "s3cret-pass")
	if err != nil {
		t.Fatalf("Login: %v", err)
	}
	if token == "" {
		t.Fatal("login returned an empty token")
	}
	if got.ID != account.ID {
		t.Errorf("login account id = %q, want %q", got.ID, account.ID)
	}

	principal, err := svc.Authenticate(ctx, token)
	if err != nil {
		t.Fatalf("Authenticate: %v", err)
	}
	if _, ok := principal.(User); !ok {
		t.Errorf("principal = %T, want User", principal)
	}
	if principal.AccountID() != account.ID {
		t.Errorf("principal account id = %q, want %q", principal.AccountID(), account.ID)
	}

	if _, err := svc.Authenticate(ctx, "not-a-token"); !errors.Is(err, ErrInvalidToken) {
		t.Errorf("Authenticate with garbage: err = %v, want ErrInvalidToken", err)
	}
}

func TestRegisterDuplicateEmail(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	if _, err := svc.Register(ctx, models.RoleVendor, "shop@example.com", "Shop", "pass-one"); err != nil {
		t.Fatalf("Register: %v", err)
	}
	if _, err := svc.Register(ctx, models.RoleVendor, "shop@example.com", "Shop", "pass-two"); !errors.Is(err, ErrEmailTaken) {
		t.Fatalf("duplicate register: err = %v, want ErrEmailTaken", err)
	}

	// The same email under a different role is a separate account.
	if _, err := svc.Register(ctx, models.RoleUser, "shop@example.com", "Shopper", "pass-three"); err != nil {
		t.Errorf("register same email as user: %v", err)
	}
}

func TestPasswordReset(t *testing.T) {
	svc, db := newTestService(t)
	ctx := context.Background()

	account, err := svc.Register(ctx, models.RoleUser, "jane@example.com", "Jane", "old-pass")
	if err != nil {
		t.Fatalf("Register: %v", err)
	}
	code := otpFor(t, db, account.ID, models.OTPPurposeVerify)
	if err := svc.VerifyOTP(ctx, models.RoleUser, "jane@example.com", code); err != nil {
		t.Fatalf("VerifyOTP: %v", err)
	}

	// Unknown emails succeed silently.
	if err := svc.RequestPasswordReset(ctx, models.RoleUser, "nobody@example.com"); err != nil {
		t.Errorf("reset for unknown email: %v", err)
	}

	if err := svc.RequestPasswordReset(ctx, models.RoleUser, "jane@example.com"); err != nil {
		t.Fatalf("RequestPasswordReset: %v", err)
	}
	reset := otpFor(t, db, account.ID, models.OTPPurposeReset)

	if err := svc.ResetPassword(ctx, models.RoleUser, "jane@example.com", reset, "new-pass"); err != nil {
		t.Fatalf("ResetPassword: %v", err)
	}

	if _, _, err := svc.Login(ctx, models.RoleUser, "jane@example.com", "old-pass"); !errors.Is(err, ErrInvalidCredentials) {
		t.Errorf("login with old password: err = %v, want ErrInvalidCredentials", err)
	}
	if _, _, err := svc.Login(ctx, models.RoleUser, "jane@example.com", "new-pass"); err != nil {
		t.Errorf("login with new password: %v", err)
	}
}

func TestAuthenticateRoleTypes(t *testing.T) {
	svc, db := newTestService(t)
	ctx := context.Background()

	tests := []struct {
		role models.Role
	}{
		{models.RoleUser},
		{models.RoleVendor},
		{models.RoleAdmin},
	}

	for _, tt := range tests {
		t.Run(string(tt.role), func(t *testing.T) {
			email := string(tt.role) + "@example.com"
			account, err := svc.Register(ctx, tt.role, email, "Test", "pass-word")
			if err != nil {
				t.Fatalf("Register: %v", err)
			}
			code := otpFor(t, db, account.ID, models.OTPPurposeVerify)
			if err := svc.VerifyOTP(ctx, tt.role, email, code); err != nil {
				t.Fatalf("VerifyOTP: %v", err)
			}
			token, _, err := svc.Login(ctx, tt.role, email, "pass-word")
			if err != nil {
				t.Fatalf("Login: %v", err)
			}

			principal, err := svc.Authenticate(ctx, token)
			if err != nil {
				t.Fatalf("Authenticate: %v", err)
			}
			if principal.Role() != tt.role {
				t.Errorf("principal role = %q, want %q", principal.Role(), tt.role)
			}
		})
	}
}
