// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package service provides the applicant intake business logic.
package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync/atomic"
	"time"

	"github.com/google/uuid"

	"github.com/olegiv/intake-go/internal/cache"
	"github.com/olegiv/intake-go/internal/model"
	"github.com/olegiv/intake-go/internal/store"
)

// ErrStorageUnavailable is returned when the database cannot be reached in time.
var ErrStorageUnavailable = errors.New("storage unavailable")

// DefaultStorageTimeout bounds every storage call when no timeout is configured.
const DefaultStorageTimeout = 5 * time.Second

const applicantListKey = "applicants:list"

// ApplicantServiceOptions configures an ApplicantService.
type ApplicantServiceOptions struct {
	// Cache holds the applicant list. Nil disables caching.
	Cache          cache.Cache
	CacheTTL       time.Duration
	StorageTimeout time.Duration
	Logger         *slog.Logger
}

// ApplicantService accepts registrations and lists them for review.
type ApplicantService struct {
	queries   *store.Queries
	listCache *cache.TypedCache[[]model.Applicant]
	timeout   time.Duration
	logger    *slog.Logger
	now       func() time.Time
	newID     func() string

	// listGen counts completed inserts. ListAll only keeps a cached list
	// when no insert completed while it was reading.
	listGen atomic.Uint64
}

// NewApplicantService creates a new ApplicantService.
func NewApplicantService(db *sql.DB, opts ApplicantServiceOptions) *ApplicantService {
	if opts.StorageTimeout <= 0 {
		opts.StorageTimeout = DefaultStorageTimeout
	}
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}

	s := &ApplicantService{
		queries: store.New(db),
		timeout: opts.StorageTimeout,
		logger:  opts.Logger,
		now:     time.Now,
		newID:   uuid.NewString,
	}
	if opts.Cache != nil && opts.CacheTTL > 0 {
		s.listCache = cache.NewTypedCache[[]model.Applicant](opts.Cache, opts.CacheTTL)
	}
	return s
}

// Submit validates and stores a registration. It returns model.ValidationErrors
// listing every violated field, store.ErrDuplicateEmail when the normalized
// email is taken, or ErrStorageUnavailable.
func (s *ApplicantService) Submit(ctx context.Context, c model.Candidate) (model.Applicant, error) {
	c = c.Normalize()
	if errs := c.Validate(); errs != nil {
		return model.Applicant{}, errs
	}

	now := s.now().UTC()

	sctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	row, err := s.queries.CreateApplicant(sctx, store.CreateApplicantParams{
		ID:        s.newID(),
		Name:      c.Name,
		Email:     c.Email,
		Phone:     c.Phone,
		Role:      c.Role,
		Message:   c.Message,
		CreatedAt: now,
		UpdatedAt: now,
	})
	if err != nil {
		if errors.Is(err, store.ErrDuplicateEmail) {
			return model.Applicant{}, err
		}
		return model.Applicant{}, storageError("creating applicant", err)
	}

	s.listGen.Add(1)
	s.invalidateList(ctx)

	return applicantFromRow(row), nil
}

// ListAll returns every applicant, newest first. The result is never nil.
func (s *ApplicantService) ListAll(ctx context.Context) ([]model.Applicant, error) {
	if s.listCache != nil {
		list, ok, err := s.listCache.Get(ctx, applicantListKey)
		if err != nil {
			s.logger.Warn("applicant list cache read failed", "error", err)
		}
		if ok && list != nil {
			return list, nil
		}
	}

	gen := s.listGen.Load()

	sctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	rows, err := s.queries.ListApplicants(sctx)
	if err != nil {
		return nil, storageError("listing applicants", err)
	}

	list := make([]model.Applicant, 0, len(rows))
	for _, row := range rows {
		list = append(list, applicantFromRow(row))
	}

	s.storeList(ctx, gen, list)

	return list, nil
}

// storeList caches list, read while the insert generation was gen. An insert
// completing after the read bumps the generation and deletes the key; if
// that delete ran before our Set, the generation check afterwards catches
// it and drops the stale entry.
func (s *ApplicantService) storeList(ctx context.Context, gen uint64, list []model.Applicant) {
	if s.listCache == nil || s.listGen.Load() != gen {
		return
	}
	if err := s.listCache.Set(ctx, applicantListKey, list); err != nil {
		s.logger.Warn("applicant list cache write failed", "error", err)
		return
	}
	if s.listGen.Load() != gen {
		s.invalidateList(ctx)
	}
}

func (s *ApplicantService) invalidateList(ctx context.Context) {
	if s.listCache == nil {
		return
	}
	if err := s.listCache.Delete(ctx, applicantListKey); err != nil {
		s.logger.Warn("applicant list cache invalidation failed", "error", err)
	}
}

func applicantFromRow(row store.ApplicantRow) model.Applicant {
	return model.Applicant{
		ID:        row.ID,
		Name:      row.Name,
		Email:     row.Email,
		Phone:     row.Phone,
		Role:      model.Role(row.Role),
		Message:   row.Message,
		CreatedAt: row.CreatedAt,
		UpdatedAt: row.UpdatedAt,
	}
}

// storageError wraps err, adding ErrStorageUnavailable to the chain when the
// database timed out, is locked or has been closed.
func storageError(op string, err error) error {
	if isUnavailable(err) {
		return fmt.Errorf("%s: %w: %w", op, ErrStorageUnavailable, err)
	}
	return fmt.Errorf("%s: %w", op, err)
}

func isUnavailable(err error) bool {
	if errors.Is(err, context.DeadlineExceeded) ||
		errors.Is(err, context.Canceled) ||
		errors.Is(err, sql.ErrConnDone) {
		return true
	}

	msg := err.Error()
	return strings.Contains(msg, "database is closed") ||
		strings.Contains(msg, "database is locked") ||
		strings.Contains(msg, "unable to open database")
}
