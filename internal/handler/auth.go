// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package handler

import (
	"errors"
	"log/slog"
	"net/http"

	chimw "github.com/go-chi/chi/v5/middleware"

	"github.com/olegiv/intake-go/internal/auth"
	"github.com/olegiv/intake-go/internal/middleware"
	"github.com/olegiv/intake-go/internal/model"
)

// AuthHandler handles admin login, logout and session checks.
type AuthHandler struct {
	auth   *auth.Authenticator
	logger *slog.Logger
	errs   errorResponder
}

// NewAuthHandler creates a new AuthHandler.
func NewAuthHandler(a *auth.Authenticator, logger *slog.Logger, exposeDetails bool) *AuthHandler {
	return &AuthHandler{
		auth:   a,
		logger: logger,
		errs:   errorResponder{logger: logger, exposeDetails: exposeDetails},
	}
}

type loginRequest struct {
	Password string `json:"password"`
}

type sessionUser struct {
	Role      string `json:"role"`
	IssuedAt  int64  `json:"iat,omitempty"`
	ExpiresAt int64  `json:"exp,omitempty"`
}

// Login handles POST /api/auth/login.
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeDecodeError(w, err)
		return
	}

	session, err := h.auth.IssueSession(req.Password)
	switch {
	case err == nil:
	case errors.Is(err, auth.ErrPasswordRequired):
		middleware.WriteJSONError(w, http.StatusBadRequest, "Validation failed", []model.FieldError{
			{Field: "password", Message: "Password is required"},
		})
		return
	case errors.Is(err, auth.ErrInvalidCredentials):
		h.logger.Warn("failed admin login",
			"remote_ip", r.RemoteAddr,
			"request_id", chimw.GetReqID(r.Context()))
		writeJSONError(w, http.StatusUnauthorized, "Invalid password.")
		return
	default:
		h.errs.respond(w, r, err)
		return
	}

	http.SetCookie(w, h.auth.SessionCookie(session))
	h.logger.Info("admin logged in", "remote_ip", r.RemoteAddr)

	writeJSONSuccess(w, http.StatusOK, map[string]any{
		"message": "Login successful",
		"user":    sessionUser{Role: session.Claims.Role},
	})
}

// Logout handles POST /api/auth/logout.
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	http.SetCookie(w, h.auth.RevokeSession())

	// The token itself stays valid until it expires; log when it was issued.
	if claims := middleware.ClaimsFromContext(r.Context()); claims != nil && claims.IssuedAt != nil {
		h.logger.Info("admin logged out",
			"session_issued_at", claims.IssuedAt.Time.UTC(),
			"remote_ip", r.RemoteAddr)
	}

	writeJSONSuccess(w, http.StatusOK, map[string]any{
		"message": "Logout successful",
	})
}

// Verify handles GET /api/auth/verify. It always answers 200 and reports
// whether the caller holds a valid admin session.
func (h *AuthHandler) Verify(w http.ResponseWriter, r *http.Request) {
	status := h.auth.CheckSessionStatus(auth.TokenFromRequest(r))

	var user *sessionUser
	if status.Authenticated {
		user = &sessionUser{Role: status.Claims.Role}
		if status.Claims.IssuedAt != nil {
			user.IssuedAt = status.Claims.IssuedAt.Unix()
		}
		if status.Claims.ExpiresAt != nil {
			user.ExpiresAt = status.Claims.ExpiresAt.Unix()
		}
	}

	writeJSONSuccess(w, http.StatusOK, map[string]any{
		"authenticated": status.Authenticated,
		"user":          user,
	})
}
