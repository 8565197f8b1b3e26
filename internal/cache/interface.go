// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package cache keeps the serialized applicant list between reads. The
// service stores a single key, written on a read miss and deleted after
// every successful registration.
package cache

import (
	"context"
	"time"
)

// Cache is a byte store with per-entry expiry, safe for concurrent use.
// Callers treat every error as a miss and fall back to the database.
type Cache interface {
	// Get returns ErrCacheMiss when key is absent or has expired.
	Get(ctx context.Context, key string) ([]byte, error)

	// Set stores value under key for ttl, or for the backend default when ttl is 0.
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error

	Delete(ctx context.Context, key string) error

	Close() error
}

// Error is a constant cache error.
type Error string

func (e Error) Error() string {
	return string(e)
}

const (
	// ErrCacheMiss means the list must be read from the database.
	ErrCacheMiss Error = "cache miss"

	// ErrCacheClosed is returned by every operation after Close.
	ErrCacheClosed Error = "cache closed"
)
