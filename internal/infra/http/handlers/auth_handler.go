package handlers

import (
	"errors"
	"net/http"
	"time"

	"github.com/xavierca1/clientbook/internal/infra/auth"
	"github.com/xavierca1/clientbook/internal/logger"
	"github.com/xavierca1/clientbook/internal/usecase"
)

type AuthHandler struct {
	auth        auth.Authenticator
	rateLimiter *RateLimiter
}

func NewAuthHandler(a auth.Authenticator) *AuthHandler {
	return &AuthHandler{
		auth:        a,
		rateLimiter: NewRateLimiter(10, time.Minute), // 10 attempts/min per IP
	}
}

func (h *AuthHandler) Close() {
	h.rateLimiter.Stop()
}

func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	clientIP := getClientIP(r)
	if !h.rateLimiter.Allow(clientIP) {
		writeError(w, http.StatusTooManyRequests, "too many login attempts, try again later")
		return
	}

	var creds auth.Credentials
	if !decodeJSON(w, r, &creds) {
		return
	}
	if errs := usecase.Validate(creds); len(errs) > 0 {
		writeJSON(w, http.StatusBadRequest, ErrorResponse{Error: "validation failed", Code: usecase.CodeValidation, Fields: errs})
		return
	}

	session, err := h.auth.Authenticate(r.Context(), creds)
	if err != nil {
		if errors.Is(err, auth.ErrInvalidCredentials) {
			logger.Log.WithField("ip", clientIP).Warn("🔒 failed login")
			writeError(w, http.StatusUnauthorized, "invalid username or password")
			return
		}
		logger.Log.WithError(err).Error("❌ could not open session")
		writeError(w, http.StatusInternalServerError, "could not open session")
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"token":      session.Token,
		"expires_at": session.ExpiresAt,
	})
}
