package services

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
)

type AuthEndpoints struct {
	authService *AuthService
}

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type RegisterRequest struct {
	Email    string `json:"email"`
	FullName string `json:"full_name"`
	Password string `json:"password"`
}

func NewAuthEndpoints(authService *AuthService) *AuthEndpoints {
	return &AuthEndpoints{
		authService: authService,
	}
}

func (e *AuthEndpoints) RegisterHandler(w http.ResponseWriter, r *http.Request) {
	var req RegisterRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	if _, err := e.authService.Register(r.Context(), req.Email, req.FullName, req.Password); err != nil {
		var fieldErrs FieldErrors
		if errors.As(err, &fieldErrs) {
			writeFieldErrors(w, fieldErrs)
			return
		}
		slog.Error("Registration failed", "error", err, "email", req.Email)
		writeError(w, http.StatusBadRequest, "Registration failed")
		return
	}

	// Authenticate with the submitted credentials so registration ends in a
	// logged-in session, exactly like a login.
	user, err := e.authService.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		slog.Error("Post-registration login failed", "error", err, "email", req.Email)
		writeError(w, http.StatusUnauthorized, "Invalid credentials")
		return
	}

	accessToken, refreshToken, err := e.authService.IssueTokens(user)
	if err != nil {
		slog.Error("Failed to issue tokens", "error", err, "user_id", user.ID)
		writeError(w, http.StatusInternalServerError, "Failed to issue tokens")
		return
	}
	e.authService.SetAuthCookies(w, r, accessToken, refreshToken)

	writeJSON(w, http.StatusCreated, map[string]interface{}{
		"user": map[string]interface{}{
			"id":        user.ID,
			"email":     user.Email,
			"full_name": user.FullName,
		},
		"message": "Registration successful",
	})
}

func (e *AuthEndpoints) LoginHandler(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	user, err := e.authService.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		slog.Warn("Login failed", "email", req.Email)
		writeError(w, http.StatusUnauthorized, "Invalid credentials")
		return
	}

	accessToken, refreshToken, err := e.authService.IssueTokens(user)
	if err != nil {
		slog.Error("Failed to issue tokens", "error", err, "user_id", user.ID)
		writeError(w, http.StatusInternalServerError, "Failed to issue tokens")
		return
	}
	e.authService.SetAuthCookies(w, r, accessToken, refreshToken)

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"user": map[string]interface{}{
			"id":        user.ID,
			"email":     user.Email,
			"full_name": user.FullName,
		},
		"message": "Login successful",
	})
}

func (e *AuthEndpoints) LogoutHandler(w http.ResponseWriter, r *http.Request) {
	refreshToken := e.authService.GetTokenFromCookie(r, "refresh_token")
	if refreshToken == "" {
		writeError(w, http.StatusBadRequest, "Refresh token is required")
		return
	}

	if err := e.authService.RevokeRefreshToken(r.Context(), refreshToken); err != nil {
		slog.Error("Token revocation failed", "error", err)
		// Cookies are cleared regardless of the revocation outcome.
		e.authService.ClearAuthCookies(w, r)
		writeError(w, http.StatusBadRequest, "Invalid refresh token")
		return
	}

	e.authService.ClearAuthCookies(w, r)
	writeJSON(w, http.StatusResetContent, map[string]interface{}{
		"message": "Logout successful",
	})
}

func (e *AuthEndpoints) RefreshHandler(w http.ResponseWriter, r *http.Request) {
	refreshToken := e.authService.GetTokenFromCookie(r, "refresh_token")
	if refreshToken == "" {
		writeError(w, http.StatusUnauthorized, "Refresh token not found in cookies")
		return
	}

	accessToken, user, err := e.authService.Refresh(r.Context(), refreshToken)
	if err != nil {
		slog.Warn("Token refresh failed", "error", err)
		// Drop the stale access cookie so the client falls back to login.
		http.SetCookie(w, &http.Cookie{
			Name:     "access_token",
			Value:    "",
			Path:     "/",
			HttpOnly: true,
			SameSite: http.SameSiteLaxMode,
			MaxAge:   -1,
		})
		writeError(w, http.StatusBadRequest, "Invalid refresh token")
		return
	}

	e.authService.SetAccessCookie(w, r, accessToken)

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"message": "Access token refreshed",
	})

	slog.Info("Token refreshed", "user_id", user.ID)
}

func (e *AuthEndpoints) MeHandler(w http.ResponseWriter, r *http.Request) {
	user, ok := UserFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "Not authenticated")
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"id":        user.ID,
		"email":     user.Email,
		"full_name": user.FullName,
	})
}
