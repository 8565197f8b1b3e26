// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package handler

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/olegiv/intake-go/internal/model"
)

// ApplicantService is the intake store as seen by the HTTP layer.
type ApplicantService interface {
	Submit(ctx context.Context, c model.Candidate) (model.Applicant, error)
	ListAll(ctx context.Context) ([]model.Applicant, error)
}

// ApplicantsHandler handles registration and the admin applicant listing.
type ApplicantsHandler struct {
	svc    ApplicantService
	logger *slog.Logger
	errs   errorResponder
}

// NewApplicantsHandler creates a new ApplicantsHandler.
func NewApplicantsHandler(svc ApplicantService, logger *slog.Logger, exposeDetails bool) *ApplicantsHandler {
	return &ApplicantsHandler{
		svc:    svc,
		logger: logger,
		errs:   errorResponder{logger: logger, exposeDetails: exposeDetails},
	}
}

// registrationSummary is the public view of a new applicant.
type registrationSummary struct {
	ID        string     `json:"id"`
	Name      string     `json:"name"`
	Email     string     `json:"email"`
	Role      model.Role `json:"role"`
	CreatedAt time.Time  `json:"createdAt"`
}

// Register handles POST /api/register.
func (h *ApplicantsHandler) Register(w http.ResponseWriter, r *http.Request) {
	var c model.Candidate
	if err := decodeJSON(w, r, &c); err != nil {
		writeDecodeError(w, err)
		return
	}

	a, err := h.svc.Submit(r.Context(), c)
	if err != nil {
		h.errs.respond(w, r, err)
		return
	}

	h.logger.Info("applicant registered", "applicant_id", a.ID, "role", a.Role)

	writeJSONSuccess(w, http.StatusCreated, map[string]any{
		"message": "Application submitted successfully!",
		"data": registrationSummary{
			ID:        a.ID,
			Name:      a.Name,
			Email:     a.Email,
			Role:      a.Role,
			CreatedAt: a.CreatedAt,
		},
	})
}

// List handles GET /api/applicants.
func (h *ApplicantsHandler) List(w http.ResponseWriter, r *http.Request) {
	list, err := h.svc.ListAll(r.Context())
	if err != nil {
		h.errs.respond(w, r, err)
		return
	}

	writeJSONSuccess(w, http.StatusOK, map[string]any{
		"count": len(list),
		"data":  list,
	})
}
