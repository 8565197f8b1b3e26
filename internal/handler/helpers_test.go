// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package handler

import (
	"context"
	"encoding/json"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/olegiv/intake-go/internal/auth"
	"github.com/olegiv/intake-go/internal/model"
)

const testPassword = "correct horse battery staple"

func newTestAuthenticator(t *testing.T) *auth.Authenticator {
	t.Helper()
	verifier, err := auth.NewPasswordVerifier(testPassword, "")
	require.NoError(t, err)

	a, err := auth.NewAuthenticator(auth.AuthenticatorConfig{
		Secret:   []byte("handler-test-secret-0123456789-AB"),
		Password: verifier,
		TTL:      time.Hour,
	})
	require.NoError(t, err)
	return a
}

func jsonBody(v any) *strings.Reader {
	b, _ := json.Marshal(v)
	return strings.NewReader(string(b))
}

func decodeBody(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var body map[string]any
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&body), "body: %s", rec.Body.String())
	return body
}

// stubService returns fixed results.
type stubService struct {
	submitErr error
	list      []model.Applicant
	listErr   error
}

func (s stubService) Submit(_ context.Context, c model.Candidate) (model.Applicant, error) {
	if s.submitErr != nil {
		return model.Applicant{}, s.submitErr
	}
	return model.Applicant{ID: "stub", Name: c.Name, Email: c.Email}, nil
}

func (s stubService) ListAll(context.Context) ([]model.Applicant, error) {
	return s.list, s.listErr
}
