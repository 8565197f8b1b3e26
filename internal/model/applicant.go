// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package model contains domain models and validation rules for the application.
package model

import (
	"html"
	"regexp"
	"strings"
	"time"
	"unicode"
	"unicode/utf8"

	"github.com/microcosm-cc/bluemonday"
	"golang.org/x/text/unicode/norm"
)

// Role is the position an applicant registers for.
type Role string

// Applicant roles
const (
	RoleIntern    Role = "intern"
	RoleVolunteer Role = "volunteer"
)

// ValidRoles returns all valid applicant roles.
func ValidRoles() []Role {
	return []Role{RoleIntern, RoleVolunteer}
}

// IsValidRole checks if a role is valid.
func IsValidRole(role Role) bool {
	for _, r := range ValidRoles() {
		if r == role {
			return true
		}
	}
	return false
}

// Field length limits
const (
	NameMinLength    = 2
	MessageMinLength = 10
	MessageMaxLength = 500
	EmailMaxLength   = 254
)

var (
	emailPattern = regexp.MustCompile(`^[a-z0-9._%+\-]+@[a-z0-9\-]+(\.[a-z0-9\-]+)*\.[a-z]{2,}$`)
	phonePattern = regexp.MustCompile(`^\+?[1-9][0-9]{0,15}$`)

	// textSanitizer strips every HTML element from free-text input.
	textSanitizer = bluemonday.StrictPolicy()
	angleStripper = strings.NewReplacer("<", "", ">", "")
)

// Candidate is an unvalidated registration submission.
type Candidate struct {
	Name    string `json:"name"`
	Email   string `json:"email"`
	Phone   string `json:"phone"`
	Role    string `json:"role"`
	Message string `json:"message"`
}

// Applicant is a persisted registration.
type Applicant struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Phone     string    `json:"phone"`
	Role      Role      `json:"role"`
	Message   string    `json:"message"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// FieldError is a single constraint violation.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// ValidationErrors lists every violated field constraint of a submission.
type ValidationErrors []FieldError

func (v ValidationErrors) Error() string {
	msgs := make([]string, len(v))
	for i, fe := range v {
		msgs[i] = fe.Field + ": " + fe.Message
	}
	return "validation failed: " + strings.Join(msgs, "; ")
}

// Has reports whether field has a violation.
func (v ValidationErrors) Has(field string) bool {
	for _, fe := range v {
		if fe.Field == field {
			return true
		}
	}
	return false
}

// NormalizeEmail returns the uniqueness key of an email address.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// NormalizePhone removes all whitespace from a phone number.
func NormalizePhone(phone string) string {
	return strings.Map(func(r rune) rune {
		if unicode.IsSpace(r) {
			return -1
		}
		return r
	}, phone)
}

// SanitizeText strips markup from free text, NFC-normalizes it and trims it.
func SanitizeText(s string) string {
	s = html.UnescapeString(textSanitizer.Sanitize(s))
	s = angleStripper.Replace(s)
	return strings.TrimSpace(norm.NFC.String(s))
}

// Normalize returns the candidate with every field in its stored form.
func (c Candidate) Normalize() Candidate {
	return Candidate{
		Name:    SanitizeText(c.Name),
		Email:   NormalizeEmail(c.Email),
		Phone:   NormalizePhone(c.Phone),
		Role:    strings.ToLower(strings.TrimSpace(c.Role)),
		Message: SanitizeText(c.Message),
	}
}

// Validate checks every field of a normalized candidate and returns all
// violations in field order, or nil if the candidate is valid.
func (c Candidate) Validate() ValidationErrors {
	var errs ValidationErrors
	add := func(field, msg string) {
		errs = append(errs, FieldError{Field: field, Message: msg})
	}

	switch n := utf8.RuneCountInString(c.Name); {
	case n == 0:
		add("name", "Name is required")
	case n < NameMinLength:
		add("name", "Name must be at least 2 characters long")
	}

	switch {
	case c.Email == "":
		add("email", "Email is required")
	case len(c.Email) > EmailMaxLength || !emailPattern.MatchString(c.Email):
		add("email", "Please enter a valid email")
	}

	switch {
	case c.Phone == "":
		add("phone", "Phone number is required")
	case !phonePattern.MatchString(c.Phone):
		add("phone", "Please enter a valid phone number")
	}

	switch {
	case c.Role == "":
		add("role", "Role is required")
	case !IsValidRole(Role(c.Role)):
		add("role", "Role must be either intern or volunteer")
	}

	switch n := utf8.RuneCountInString(c.Message); {
	case n == 0:
		add("message", "Message is required")
	case n < MessageMinLength || n > MessageMaxLength:
		add("message", "Message must be between 10 and 500 characters")
	}

	return errs
}
