// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package handler

// Route pattern constants for chi router registration.
const (
	RouteAPI        = "/api"
	RouteRegister   = "/register"
	RouteApplicants = "/applicants"
	RouteAuth       = "/auth"
	RouteLogin      = "/login"
	RouteLogout     = "/logout"
	RouteVerify     = "/verify"
	RouteHealth     = "/health"
)

// maxBodyBytes bounds every JSON request body.
const maxBodyBytes = 1 << 20
