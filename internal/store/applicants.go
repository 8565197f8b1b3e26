// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package store

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"
)

// ErrDuplicateEmail is returned when an applicant with the same email exists.
var ErrDuplicateEmail = errors.New("applicant email already registered")

// timeLayout is fixed-width so stored timestamps sort lexicographically.
const timeLayout = "2006-01-02T15:04:05.000000000Z07:00"

// ApplicantRow is a row of the applicants table.
type ApplicantRow struct {
	ID        string
	Name      string
	Email     string
	Phone     string
	Role      string
	Message   string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// CreateApplicantParams holds the columns of a new applicant.
type CreateApplicantParams struct {
	ID        string
	Name      string
	Email     string
	Phone     string
	Role      string
	Message   string
	CreatedAt time.Time
	UpdatedAt time.Time
}

const createApplicant = `
INSERT INTO applicants (id, name, email, phone, role, message, created_at, updated_at)
VALUES (?, ?, ?, ?, ?, ?, ?, ?)
RETURNING id, name, email, phone, role, message, created_at, updated_at`

// CreateApplicant inserts a new applicant. The UNIQUE constraint on email
// decides races between concurrent inserts of the same address.
func (q *Queries) CreateApplicant(ctx context.Context, arg CreateApplicantParams) (ApplicantRow, error) {
	row := q.db.QueryRowContext(ctx, createApplicant,
		arg.ID,
		arg.Name,
		arg.Email,
		arg.Phone,
		arg.Role,
		arg.Message,
		arg.CreatedAt.UTC().Format(timeLayout),
		arg.UpdatedAt.UTC().Format(timeLayout),
	)

	i, err := scanApplicant(row)
	if err != nil {
		if isUniqueViolation(err) {
			return ApplicantRow{}, ErrDuplicateEmail
		}
		return ApplicantRow{}, err
	}
	return i, nil
}

const listApplicants = `
SELECT id, name, email, phone, role, message, created_at, updated_at
FROM applicants
ORDER BY created_at DESC, rowid DESC`

// ListApplicants returns all applicants, newest first.
func (q *Queries) ListApplicants(ctx context.Context) ([]ApplicantRow, error) {
	rows, err := q.db.QueryContext(ctx, listApplicants)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	items := []ApplicantRow{}
	for rows.Next() {
		i, err := scanApplicant(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, i)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}

const countApplicants = `SELECT COUNT(*) FROM applicants`

// CountApplicants returns the number of stored applicants.
func (q *Queries) CountApplicants(ctx context.Context) (int64, error) {
	var count int64
	err := q.db.QueryRowContext(ctx, countApplicants).Scan(&count)
	return count, err
}

type scanner interface {
	Scan(dest ...any) error
}

func scanApplicant(s scanner) (ApplicantRow, error) {
	var (
		i                    ApplicantRow
		createdAt, updatedAt string
	)
	if err := s.Scan(
		&i.ID,
		&i.Name,
		&i.Email,
		&i.Phone,
		&i.Role,
		&i.Message,
		&createdAt,
		&updatedAt,
	); err != nil {
		return ApplicantRow{}, err
	}

	var err error
	if i.CreatedAt, err = time.Parse(timeLayout, createdAt); err != nil {
		return ApplicantRow{}, fmt.Errorf("parsing created_at: %w", err)
	}
	if i.UpdatedAt, err = time.Parse(timeLayout, updatedAt); err != nil {
		return ApplicantRow{}, fmt.Errorf("parsing updated_at: %w", err)
	}
	return i, nil
}

// isUniqueViolation reports whether err is SQLite's UNIQUE constraint failure
// on the email column.
func isUniqueViolation(err error) bool {
	return strings.Contains(err.Error(), "UNIQUE constraint failed: applicants.email")
}
