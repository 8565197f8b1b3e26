// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package middleware

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
)

// ErrCORSRejected is reported for requests from origins outside the allow-list.
var ErrCORSRejected = errors.New("origin not allowed by CORS")

// CORSConfig configures the CORS middleware.
type CORSConfig struct {
	// AllowedOrigins are matched exactly, ignoring case and a trailing slash.
	AllowedOrigins []string
	MaxAge         int
	// Logger records rejected origins. Nil uses slog.Default.
	Logger *slog.Logger
}

// CORS enforces an origin allow-list. Requests without an Origin header pass
// through untouched. Requests from a listed origin get credentialed CORS
// headers, and a preflight from one is answered with 204. Any other origin
// is refused with 403.
func CORS(cfg CORSConfig) func(http.Handler) http.Handler {
	allowed := make(map[string]bool, len(cfg.AllowedOrigins))
	for _, o := range cfg.AllowedOrigins {
		allowed[normalizeOrigin(o)] = true
	}

	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	maxAge := cfg.MaxAge
	if maxAge <= 0 {
		maxAge = 600
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Add("Vary", "Origin")

			origin := r.Header.Get("Origin")
			if origin == "" {
				next.ServeHTTP(w, r)
				return
			}

			if !allowed[normalizeOrigin(origin)] {
				logger.Warn("cross-origin request refused",
					"error", ErrCORSRejected,
					"origin", origin,
					"method", r.Method,
					"path", r.URL.Path)
				WriteJSONError(w, http.StatusForbidden, "Not allowed by CORS", nil)
				return
			}

			w.Header().Set("Access-Control-Allow-Origin", origin)
			w.Header().Set("Access-Control-Allow-Credentials", "true")

			if r.Method == http.MethodOptions && r.Header.Get("Access-Control-Request-Method") != "" {
				w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
				w.Header().Set("Access-Control-Allow-Headers", "Content-Type, X-Requested-With")
				w.Header().Set("Access-Control-Max-Age", strconv.Itoa(maxAge))
				w.WriteHeader(http.StatusNoContent)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

func normalizeOrigin(origin string) string {
	return strings.ToLower(strings.TrimSuffix(strings.TrimSpace(origin), "/"))
}
