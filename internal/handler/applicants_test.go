// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package handler

import (
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/olegiv/intake-go/internal/service"
	"github.com/olegiv/intake-go/internal/testutil"
)

func newApplicantsHandler(t *testing.T) *ApplicantsHandler {
	t.Helper()
	db := testutil.TestDB(t)
	svc := service.NewApplicantService(db, service.ApplicantServiceOptions{Logger: testutil.TestLoggerSilent()})
	return NewApplicantsHandler(svc, testutil.TestLoggerSilent(), false)
}

func validRegistration(email string) map[string]string {
	return map[string]string{
		"name":    "Meera Nair",
		"email":   email,
		"phone":   "+14155550100",
		"role":    "intern",
		"message": "Looking forward to supporting your programs.",
	}
}

func register(h *ApplicantsHandler, body any) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, "/api/register", jsonBody(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	h.Register(rec, req)
	return rec
}

func TestRegister_Created(t *testing.T) {
	h := newApplicantsHandler(t)

	rec := register(h, validRegistration("Meera@Example.org"))
	require.Equal(t, http.StatusCreated, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))

	body := decodeBody(t, rec)
	assert.Equal(t, true, body["success"])
	assert.Equal(t, "Application submitted successfully!", body["message"])

	data, ok := body["data"].(map[string]any)
	require.True(t, ok)
	assert.NotEmpty(t, data["id"])
	assert.Equal(t, "meera@example.org", data["email"])
	assert.Equal(t, "intern", data["role"])
	assert.NotEmpty(t, data["createdAt"])
	assert.NotContains(t, data, "phone")
	assert.NotContains(t, data, "message")
}

func TestRegister_Duplicate(t *testing.T) {
	h := newApplicantsHandler(t)

	require.Equal(t, http.StatusCreated, register(h, validRegistration("A@B.com")).Code)

	rec := register(h, validRegistration("a@b.com"))
	require.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "An applicant with this email already exists", decodeBody(t, rec)["error"])
}

func TestRegister_ValidationDetails(t *testing.T) {
	h := newApplicantsHandler(t)

	rec := register(h, map[string]string{"email": "nope", "role": "manager"})
	require.Equal(t, http.StatusBadRequest, rec.Code)

	body := decodeBody(t, rec)
	assert.Equal(t, "Validation failed", body["error"])

	details, ok := body["details"].([]any)
	require.True(t, ok)

	var fields []string
	for _, d := range details {
		fields = append(fields, d.(map[string]any)["field"].(string))
	}
	assert.Equal(t, []string{"name", "email", "phone", "role", "message"}, fields)
}

func TestRegister_MalformedBody(t *testing.T) {
	h := newApplicantsHandler(t)

	for _, raw := range []string{"{not json", `{"name": 42}`, `[]`} {
		req := httptest.NewRequest(http.MethodPost, "/api/register", strings.NewReader(raw))
		rec := httptest.NewRecorder()
		h.Register(rec, req)

		assert.Equal(t, http.StatusBadRequest, rec.Code, raw)
		assert.Equal(t, "Invalid request body", decodeBody(t, rec)["error"], raw)
	}
}

func TestRegister_UnknownFieldsIgnored(t *testing.T) {
	h := newApplicantsHandler(t)

	body := map[string]any{}
	for k, v := range validRegistration("extra@example.org") {
		body[k] = v
	}
	body["isAdmin"] = true

	assert.Equal(t, http.StatusCreated, register(h, body).Code)
}

func TestRegister_BodyTooLarge(t *testing.T) {
	h := newApplicantsHandler(t)

	huge := fmt.Sprintf(`{"message": %q}`, strings.Repeat("x", maxBodyBytes+1))
	req := httptest.NewRequest(http.MethodPost, "/api/register", strings.NewReader(huge))
	rec := httptest.NewRecorder()
	h.Register(rec, req)

	assert.Equal(t, http.StatusRequestEntityTooLarge, rec.Code)
}

func TestRegister_StorageUnavailable(t *testing.T) {
	h := NewApplicantsHandler(stubService{
		submitErr: fmt.Errorf("creating applicant: %w", service.ErrStorageUnavailable),
	}, testutil.TestLoggerSilent(), false)

	rec := register(h, validRegistration("x@example.org"))
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
}

func TestRegister_InternalErrorDetails(t *testing.T) {
	tests := []struct {
		name        string
		expose      bool
		wantDetails bool
	}{
		{"production hides details", false, false},
		{"development shows details", true, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := NewApplicantsHandler(stubService{submitErr: errors.New("disk on fire")},
				testutil.TestLoggerSilent(), tt.expose)

			rec := register(h, validRegistration("x@example.org"))
			require.Equal(t, http.StatusInternalServerError, rec.Code)

			body := decodeBody(t, rec)
			assert.Equal(t, "Something went wrong!", body["error"])
			if tt.wantDetails {
				assert.Equal(t, "disk on fire", body["details"])
			} else {
				assert.NotContains(t, body, "details")
			}
		})
	}
}

func TestList(t *testing.T) {
	h := newApplicantsHandler(t)

	rec := httptest.NewRecorder()
	h.List(rec, httptest.NewRequest(http.MethodGet, "/api/applicants", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	body := decodeBody(t, rec)
	assert.Equal(t, true, body["success"])
	assert.EqualValues(t, 0, body["count"])
	assert.Equal(t, []any{}, body["data"])

	require.Equal(t, http.StatusCreated, register(h, validRegistration("first@example.org")).Code)
	require.Equal(t, http.StatusCreated, register(h, validRegistration("second@example.org")).Code)

	rec = httptest.NewRecorder()
	h.List(rec, httptest.NewRequest(http.MethodGet, "/api/applicants", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	body = decodeBody(t, rec)
	assert.EqualValues(t, 2, body["count"])
	data := body["data"].([]any)
	require.Len(t, data, 2)

	first := data[0].(map[string]any)
	for _, key := range []string{"id", "name", "email", "phone", "role", "message", "createdAt", "updatedAt"} {
		assert.Contains(t, first, key)
	}
}

func TestList_StorageUnavailable(t *testing.T) {
	h := NewApplicantsHandler(stubService{listErr: service.ErrStorageUnavailable}, testutil.TestLoggerSilent(), false)

	rec := httptest.NewRecorder()
	h.List(rec, httptest.NewRequest(http.MethodGet, "/api/applicants", nil))
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
}
