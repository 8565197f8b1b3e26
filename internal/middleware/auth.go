// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package middleware

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/olegiv/intake-go/internal/auth"
)

// ContextKey is a type for context keys to avoid collisions.
type ContextKey string

// ContextKeyClaims holds the *auth.Claims of an authorized admin request.
const ContextKeyClaims ContextKey = "claims"

// SessionValidator validates admin session tokens.
type SessionValidator interface {
	ValidateSession(token string) (*auth.Claims, error)
}

// RequireAdmin rejects requests that do not carry a valid admin session cookie.
// On success the token's claims are stored in the request context.
func RequireAdmin(v SessionValidator, logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			claims, err := v.ValidateSession(auth.TokenFromRequest(r))
			if err != nil {
				status, msg := AuthErrorStatus(err)
				logger.Debug("admin access denied",
					"path", r.URL.Path,
					"status", status,
					"reason", err.Error())
				WriteJSONError(w, status, msg, nil)
				return
			}

			ctx := context.WithValue(r.Context(), ContextKeyClaims, claims)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// ClaimsFromContext returns the claims stored by RequireAdmin, or nil.
func ClaimsFromContext(ctx context.Context) *auth.Claims {
	claims, _ := ctx.Value(ContextKeyClaims).(*auth.Claims)
	return claims
}

// AuthErrorStatus maps a session validation error to its HTTP status and message.
func AuthErrorStatus(err error) (int, string) {
	switch {
	case errors.Is(err, auth.ErrTokenMissing):
		return http.StatusUnauthorized, "Access denied. No token provided."
	case errors.Is(err, auth.ErrTokenExpired):
		return http.StatusUnauthorized, "Token expired. Please login again."
	case errors.Is(err, auth.ErrInsufficientRole):
		return http.StatusForbidden, "Access denied. Admin privileges required."
	default:
		return http.StatusUnauthorized, "Invalid token."
	}
}
