// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package handler

import (
	"bytes"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/olegiv/intake-go/internal/auth"
	"github.com/olegiv/intake-go/internal/middleware"
	"github.com/olegiv/intake-go/internal/testutil"
)

func login(h *AuthHandler, body any) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, "/api/auth/login", jsonBody(body))
	rec := httptest.NewRecorder()
	h.Login(rec, req)
	return rec
}

func sessionCookie(rec *httptest.ResponseRecorder) *http.Cookie {
	for _, c := range rec.Result().Cookies() {
		if c.Name == auth.CookieName {
			return c
		}
	}
	return nil
}

func TestLogin_Success(t *testing.T) {
	h := NewAuthHandler(newTestAuthenticator(t), testutil.TestLoggerSilent(), false)

	rec := login(h, map[string]string{"password": testPassword})
	require.Equal(t, http.StatusOK, rec.Code)
	raw := rec.Body.String()

	body := decodeBody(t, rec)
	assert.Equal(t, true, body["success"])
	assert.Equal(t, "Login successful", body["message"])
	assert.Equal(t, map[string]any{"role": "admin"}, body["user"])

	c := sessionCookie(rec)
	require.NotNil(t, c)
	assert.NotEmpty(t, c.Value)
	assert.True(t, c.HttpOnly)
	assert.Equal(t, http.SameSiteStrictMode, c.SameSite)
	assert.Equal(t, 3600, c.MaxAge)
	assert.NotContains(t, raw, c.Value, "token must only travel in the cookie")
}

func TestLogin_WrongPassword(t *testing.T) {
	h := NewAuthHandler(newTestAuthenticator(t), testutil.TestLoggerSilent(), false)

	rec := login(h, map[string]string{"password": "nope"})
	require.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, "Invalid password.", decodeBody(t, rec)["error"])
	assert.Nil(t, sessionCookie(rec))
}

func TestLogin_MissingPassword(t *testing.T) {
	h := NewAuthHandler(newTestAuthenticator(t), testutil.TestLoggerSilent(), false)

	for _, body := range []any{map[string]string{}, map[string]string{"password": ""}} {
		rec := login(h, body)
		require.Equal(t, http.StatusBadRequest, rec.Code)

		decoded := decodeBody(t, rec)
		assert.Equal(t, "Validation failed", decoded["error"])
		details := decoded["details"].([]any)
		require.Len(t, details, 1)
		assert.Equal(t, "password", details[0].(map[string]any)["field"])
	}

	// An empty body is treated like an empty object.
	req := httptest.NewRequest(http.MethodPost, "/api/auth/login", strings.NewReader(""))
	rec := httptest.NewRecorder()
	h.Login(rec, req)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestLogout(t *testing.T) {
	h := NewAuthHandler(newTestAuthenticator(t), testutil.TestLoggerSilent(), false)

	rec := httptest.NewRecorder()
	h.Logout(rec, httptest.NewRequest(http.MethodPost, "/api/auth/logout", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	body := decodeBody(t, rec)
	assert.Equal(t, true, body["success"])
	assert.Equal(t, "Logout successful", body["message"])

	c := sessionCookie(rec)
	require.NotNil(t, c)
	assert.Empty(t, c.Value)
	assert.Negative(t, c.MaxAge)
}

func TestLogout_LogsSessionIssueTime(t *testing.T) {
	a := newTestAuthenticator(t)
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, nil))
	h := NewAuthHandler(a, logger, false)

	session, err := a.IssueSession(testPassword)
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodPost, "/api/auth/logout", nil)
	req.AddCookie(a.SessionCookie(session))
	rec := httptest.NewRecorder()
	middleware.RequireAdmin(a, logger)(http.HandlerFunc(h.Logout)).ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	out := buf.String()
	assert.Contains(t, out, "admin logged out")
	assert.Contains(t, out, "session_issued_at="+session.Claims.IssuedAt.Time.UTC().Format("2006-01-02T15:04:05"))
}

func TestVerify(t *testing.T) {
	a := newTestAuthenticator(t)
	h := NewAuthHandler(a, testutil.TestLoggerSilent(), false)

	// Anonymous and garbage tokens are both a plain "not authenticated".
	for _, token := range []string{"", "garbage"} {
		req := httptest.NewRequest(http.MethodGet, "/api/auth/verify", nil)
		if token != "" {
			req.AddCookie(&http.Cookie{Name: auth.CookieName, Value: token})
		}
		rec := httptest.NewRecorder()
		h.Verify(rec, req)

		require.Equal(t, http.StatusOK, rec.Code)
		body := decodeBody(t, rec)
		assert.Equal(t, false, body["authenticated"])
		assert.Nil(t, body["user"])
	}

	session, err := a.IssueSession(testPassword)
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodGet, "/api/auth/verify", nil)
	req.AddCookie(a.SessionCookie(session))
	rec := httptest.NewRecorder()
	h.Verify(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	body := decodeBody(t, rec)
	assert.Equal(t, true, body["authenticated"])

	user := body["user"].(map[string]any)
	assert.Equal(t, "admin", user["role"])
	assert.EqualValues(t, session.Claims.IssuedAt.Unix(), user["iat"])
	assert.EqualValues(t, session.ExpiresAt.Unix(), user["exp"])
}
