package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/evorgs/calendar-backend/internal/api/middleware"
	"github.com/evorgs/calendar-backend/internal/auth"
	"github.com/evorgs/calendar-backend/internal/storage/models"
)

// Auth request/response types. Every auth operation is scoped to a
// role: the same email can hold separate user, vendor and admin accounts.

type RegisterRequest struct {
	Role     string `json:"role"`
	Email    string `json:"email"`
	Name     string `json:"name"`
	Password string `json:"password"`
}

type LoginRequest struct {
	Role     string `json:"role"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

type VerifyOTPRequest struct {
	Role  string `json:"role"`
	Email string `json:"email"`
	Code  string `json:"code"`
}

type ResetPasswordRequest struct {
	Role        string `json:"role"`
	Email       string `json:"email"`
	Code        string `json:"code"`
	NewPassword string `json:"new_password"`
}

type AccountResponse struct {
	ID       string `json:"id"`
	Role     string `json:"role"`
	Email    string `json:"email"`
	Name     string `json:"name"`
	Verified bool   `json:"verified"`
}

func accountResponse(a *models.Account) AccountResponse {
	return AccountResponse{
		ID:       a.ID,
		Role:     string(a.Role),
		Email:    a.Email,
		Name:     a.Name,
		Verified: a.Verified,
	}
}

func parseRole(raw string) (models.Role, bool) {
	role := models.Role(raw)
	return role, role.Valid()
}

// Register creates a new unverified account and sends a verification code.
func Register(svc *auth.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req RegisterRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			middleware.WriteError(w, http.StatusBadRequest, middleware.ErrBadRequest, "Invalid request body")
			return
		}

		role, ok := parseRole(req.Role)
		if !ok {
			middleware.WriteError(w, http.StatusBadRequest, middleware.ErrValidation, "Role must be user, vendor or admin")
			return
		}
		if req.Email == "" || req.Password == "" {
			middleware.WriteError(w, http.StatusBadRequest, middleware.ErrValidation, "Email and password are required")
			return
		}

		account, err := svc.Register(r.Context(), role, req.Email, req.Name, req.Password)
		if err != nil {
			if errors.Is(err, auth.ErrEmailTaken) {
				middleware.WriteError(w, http.StatusConflict, middleware.ErrConflict, err.Error())
				return
			}
			middleware.WriteError(w, http.StatusInternalServerError, middleware.ErrInternalError, "Failed to register account")
			return
		}

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusCreated)
		json.NewEncoder(w).Encode(accountResponse(account))
	}
}

// VerifyOTP confirms the emailed verification code and activates the account.
func VerifyOTP(svc *auth.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req VerifyOTPRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			middleware.WriteError(w, http.StatusBadRequest, middleware.ErrBadRequest, "Invalid request body")
			return
		}

		role, ok := parseRole(req.Role)
		if !ok {
			middleware.WriteError(w, http.StatusBadRequest, middleware.ErrValidation, "Role must be user, vendor or admin")
			return
		}

		if err := svc.VerifyOTP(r.Context(), role, req.Email, req.Code); err != nil {
			middleware.WriteError(w, http.StatusUnauthorized, middleware.ErrUnauthorized, "Invalid or expired code")
			return
		}

		w.WriteHeader(http.StatusNoContent)
	}
}

// Login exchanges credentials for a bearer token.
func Login(svc *auth.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req LoginRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			middleware.WriteError(w, http.StatusBadRequest, middleware.ErrBadRequest, "Invalid request body")
			return
		}

		role, ok := parseRole(req.Role)
		if !ok {
			middleware.WriteError(w, http.StatusBadRequest, middleware.ErrValidation, "Role must be user, vendor or admin")
			return
		}

		token, account, err := svc.Login(r.Context(), role, req.Email, req.Password)
		if err != nil {
			if errors.Is(err, auth.ErrNotVerified) {
				middleware.WriteError(w, http.StatusForbidden, middleware.ErrForbidden, "Account is not verified")
				return
			}
			middleware.WriteError(w, http.StatusUnauthorized, middleware.ErrUnauthorized, "Invalid email or password")
			return
		}

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]any{
			"token":   token,
			"account": accountResponse(account),
		})
	}
}

// RequestPasswordReset sends a reset code. The response is the same
// whether or not the email exists.
func RequestPasswordReset(svc *auth.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req LoginRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			middleware.WriteError(w, http.StatusBadRequest, middleware.ErrBadRequest, "Invalid request body")
			return
		}

		role, ok := parseRole(req.Role)
		if !ok {
			middleware.WriteError(w, http.StatusBadRequest, middleware.ErrValidation, "Role must be user, vendor or admin")
			return
		}

		svc.RequestPasswordReset(r.Context(), role, req.Email)

		w.WriteHeader(http.StatusNoContent)
	}
}

// ResetPassword sets a new password after validating the reset code.
func ResetPassword(svc *auth.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req ResetPasswordRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			middleware.WriteError(w, http.StatusBadRequest, middleware.ErrBadRequest, "Invalid request body")
			return
		}

		role, ok := parseRole(req.Role)
		if !ok {
			middleware.WriteError(w, http.StatusBadRequest, middleware.ErrValidation, "Role must be user, vendor or admin")
			return
		}
		if req.NewPassword == "" {
			middleware.WriteError(w, http.StatusBadRequest, middleware.ErrValidation, "New password is required")
			return
		}

		if err := svc.ResetPassword(r.Context(), role, req.Email, req.Code, req.NewPassword); err != nil {
			middleware.WriteError(w, http.StatusUnauthorized, middleware.ErrUnauthorized, "Invalid or expired code")
			return
		}

		w.WriteHeader(http.StatusNoContent)
	}
}

// Me returns the authenticated principal's role and account id.
func Me() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		principal, ok := middleware.PrincipalFrom(r.Context())
		if !ok {
			middleware.WriteError(w, http.StatusUnauthorized, middleware.ErrUnauthorized, "Authentication required")
			return
		}

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]string{
			"account_id": principal.AccountID(),
			"role":       string(principal.Role()),
		})
	}
}
