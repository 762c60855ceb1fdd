// internal/middleware/auth.go
package middleware

import (
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/baharkarakas/imagify-backend/internal/api/httpx"
	"github.com/baharkarakas/imagify-backend/internal/apperr"
	"github.com/baharkarakas/imagify-backend/internal/auth"
)

// Reasons reported when the gate rejects a request.
const (
	ReasonNoToken        = "no-token"
	ReasonInvalidToken   = "invalid-token"
	ReasonExpiredToken   = "expired-token"
	ReasonMalformedToken = "malformed-token"
)

type AuthMiddleware struct {
	TM  *auth.TokenManager
	Log *slog.Logger
}

func NewAuthMiddleware(tm *auth.TokenManager, log *slog.Logger) *AuthMiddleware {
	return &AuthMiddleware{TM: tm, Log: log}
}

type authErr struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
	Code    string `json:"code"`
	Reason  string `json:"reason"`
}

func (m *AuthMiddleware) reject(w http.ResponseWriter, r *http.Request, e *apperr.Error, reason string) {
	m.Log.Debug("auth rejected", "path", r.URL.Path, "reason", reason, "request_id", RequestIDFrom(r.Context()))
	httpx.WriteJSON(w, http.StatusUnauthorized, authErr{Message: e.Message, Code: e.Code, Reason: reason})
}

// tokenFrom reads the `token` header, falling back to `Authorization: Bearer`.
func tokenFrom(r *http.Request) string {
	if t := strings.TrimSpace(r.Header.Get("token")); t != "" {
		return t
	}
	ah := r.Header.Get("Authorization")
	if len(ah) > 7 && strings.EqualFold(ah[:7], "bearer ") {
		return strings.TrimSpace(ah[7:])
	}
	return ""
}

// Auth resolves the token to a user id and stores it in the request context.
// The request body is never consulted.
func (m *AuthMiddleware) Auth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token := tokenFrom(r)
		if token == "" {
			m.reject(w, r, apperr.ErrNoToken, ReasonNoToken)
			return
		}

		uid, err := m.TM.Verify(token)
		switch {
		case errors.Is(err, apperr.ErrExpiredToken):
			m.reject(w, r, apperr.ErrExpiredToken, ReasonExpiredToken)
			return
		case errors.Is(err, apperr.ErrMalformedToken):
			m.reject(w, r, apperr.ErrMalformedToken, ReasonMalformedToken)
			return
		case err != nil:
			m.reject(w, r, apperr.ErrInvalidToken, ReasonInvalidToken)
			return
		}

		next.ServeHTTP(w, r.WithContext(WithUserID(r.Context(), uid)))
	})
}
