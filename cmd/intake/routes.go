// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package main

import (
	"database/sql"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"github.com/olegiv/intake-go/internal/auth"
	"github.com/olegiv/intake-go/internal/config"
	"github.com/olegiv/intake-go/internal/handler"
	"github.com/olegiv/intake-go/internal/middleware"
)

type routerDeps struct {
	cfg        *config.Config
	logger     *slog.Logger
	db         *sql.DB
	auth       *auth.Authenticator
	applicants handler.ApplicantService
}

// newRouter wires every route and the global middleware chain.
func newRouter(d routerDeps) http.Handler {
	exposeDetails := !d.cfg.IsProduction()

	applicantsHandler := handler.NewApplicantsHandler(d.applicants, d.logger, exposeDetails)
	authHandler := handler.NewAuthHandler(d.auth, d.logger, exposeDetails)
	healthHandler := handler.NewHealthHandler(d.db)
	requireAdmin := middleware.RequireAdmin(d.auth, d.logger)

	r := chi.NewRouter()

	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(middleware.RequestLogger(d.logger))
	r.Use(middleware.Recoverer(d.logger, exposeDetails))
	r.Use(middleware.Timeout(d.cfg.RequestTimeout))
	r.Use(middleware.SecurityHeaders(middleware.DefaultSecurityHeadersConfig(d.cfg.IsProduction())))
	r.Use(middleware.CORS(middleware.CORSConfig{AllowedOrigins: d.cfg.AllowedOrigins, Logger: d.logger}))

	r.Get(handler.RouteHealth, healthHandler.Health)

	r.Route(handler.RouteAPI, func(r chi.Router) {
		r.Post(handler.RouteRegister, applicantsHandler.Register)
		r.With(requireAdmin).Get(handler.RouteApplicants, applicantsHandler.List)

		r.Route(handler.RouteAuth, func(r chi.Router) {
			r.Post(handler.RouteLogin, authHandler.Login)
			r.With(requireAdmin).Post(handler.RouteLogout, authHandler.Logout)
			r.Get(handler.RouteVerify, authHandler.Verify)
		})
	})

	r.NotFound(handler.NotFound)
	r.MethodNotAllowed(handler.MethodNotAllowed)

	return r
}
