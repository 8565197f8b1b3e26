// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package handler

import (
	"errors"
	"log/slog"
	"net/http"

	chimw "github.com/go-chi/chi/v5/middleware"

	"github.com/olegiv/intake-go/internal/middleware"
	"github.com/olegiv/intake-go/internal/model"
	"github.com/olegiv/intake-go/internal/service"
	"github.com/olegiv/intake-go/internal/store"
)

// errorResponder translates domain errors into HTTP responses.
type errorResponder struct {
	logger *slog.Logger
	// exposeDetails includes internal error text in 500 responses.
	exposeDetails bool
}

func (e errorResponder) respond(w http.ResponseWriter, r *http.Request, err error) {
	var verrs model.ValidationErrors
	switch {
	case errors.As(err, &verrs):
		middleware.WriteJSONError(w, http.StatusBadRequest, "Validation failed", []model.FieldError(verrs))
	case errors.Is(err, store.ErrDuplicateEmail):
		writeJSONError(w, http.StatusBadRequest, "An applicant with this email already exists")
	case errors.Is(err, service.ErrStorageUnavailable):
		e.logger.Error("storage unavailable",
			"error", err,
			"path", r.URL.Path,
			"request_id", chimw.GetReqID(r.Context()))
		writeJSONError(w, http.StatusServiceUnavailable, "Service temporarily unavailable")
	default:
		e.logger.Error("request failed",
			"error", err,
			"path", r.URL.Path,
			"request_id", chimw.GetReqID(r.Context()))
		var details any
		if e.exposeDetails {
			details = err.Error()
		}
		middleware.WriteJSONError(w, http.StatusInternalServerError, "Something went wrong!", details)
	}
}
