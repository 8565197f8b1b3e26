// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package auth

import (
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// CookieName is the name of the cookie carrying the admin session token.
const CookieName = "adminToken"

// RoleAdmin is the only role a session token may carry.
const RoleAdmin = "admin"

// DefaultSessionTTL is used when AuthenticatorConfig.TTL is zero.
const DefaultSessionTTL = 24 * time.Hour

// Authentication errors.
var (
	ErrPasswordRequired   = errors.New("password is required")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrTokenMissing       = errors.New("session token missing")
	ErrTokenExpired       = errors.New("session token expired")
	ErrTokenInvalid       = errors.New("session token invalid")
	ErrInsufficientRole   = errors.New("insufficient role")
)

// Claims are the contents of a signed session token.
type Claims struct {
	Role string `json:"role"`
	jwt.RegisteredClaims
}

// Session is the result of a successful login.
type Session struct {
	Token     string
	Claims    Claims
	ExpiresAt time.Time
}

// Status is the non-failing answer to "is this caller logged in".
type Status struct {
	Authenticated bool
	Claims        *Claims
}

// PasswordChecker verifies a candidate admin password.
type PasswordChecker interface {
	Verify(password string) bool
}

// AuthenticatorConfig holds the immutable inputs of an Authenticator.
type AuthenticatorConfig struct {
	Secret   []byte
	Password PasswordChecker
	TTL      time.Duration
	Secure   bool // Secure cookie attribute, on in production
	SameSite http.SameSite
	Now      func() time.Time // defaults to time.Now
}

// Authenticator issues and validates stateless admin session tokens.
// Tokens are HS256 JWTs; nothing is stored server-side, so a token stays
// valid until it expires even after the cookie is cleared.
type Authenticator struct {
	secret   []byte
	password PasswordChecker
	ttl      time.Duration
	secure   bool
	sameSite http.SameSite
	now      func() time.Time
	parser   *jwt.Parser
}

// NewAuthenticator creates an Authenticator.
func NewAuthenticator(cfg AuthenticatorConfig) (*Authenticator, error) {
	if len(cfg.Secret) == 0 {
		return nil, errors.New("signing secret is empty")
	}
	if cfg.Password == nil {
		return nil, errors.New("password checker is nil")
	}
	if cfg.TTL <= 0 {
		cfg.TTL = DefaultSessionTTL
	}
	if cfg.SameSite == 0 {
		cfg.SameSite = http.SameSiteStrictMode
	}
	if cfg.Now == nil {
		cfg.Now = time.Now
	}

	a := &Authenticator{
		secret:   cfg.Secret,
		password: cfg.Password,
		ttl:      cfg.TTL,
		secure:   cfg.Secure,
		sameSite: cfg.SameSite,
		now:      cfg.Now,
	}
	a.parser = jwt.NewParser(
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(a.now),
	)
	return a, nil
}

// TTL returns the session lifetime.
func (a *Authenticator) TTL() time.Duration {
	return a.ttl
}

// IssueSession checks password against the admin secret and signs a new token.
func (a *Authenticator) IssueSession(password string) (*Session, error) {
	if password == "" {
		return nil, ErrPasswordRequired
	}
	if !a.password.Verify(password) {
		return nil, ErrInvalidCredentials
	}

	now := a.now()
	claims := Claims{
		Role: RoleAdmin,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(a.ttl)),
		},
	}

	token, err := a.sign(claims)
	if err != nil {
		return nil, err
	}

	return &Session{
		Token:     token,
		Claims:    claims,
		ExpiresAt: claims.ExpiresAt.Time,
	}, nil
}

func (a *Authenticator) sign(claims Claims) (string, error) {
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(a.secret)
	if err != nil {
		return "", fmt.Errorf("signing session token: %w", err)
	}
	return token, nil
}

// ValidateSession verifies the signature, expiry and role of token.
func (a *Authenticator) ValidateSession(token string) (*Claims, error) {
	if token == "" {
		return nil, ErrTokenMissing
	}

	claims := &Claims{}
	_, err := a.parser.ParseWithClaims(token, claims, func(*jwt.Token) (any, error) {
		return a.secret, nil
	})
	switch {
	case err == nil:
	case errors.Is(err, jwt.ErrTokenExpired):
		return nil, ErrTokenExpired
	default:
		return nil, fmt.Errorf("%w: %v", ErrTokenInvalid, err)
	}

	if claims.Role != RoleAdmin {
		return nil, ErrInsufficientRole
	}
	return claims, nil
}

// CheckSessionStatus is ValidateSession without the error: anonymous callers
// get Authenticated=false.
func (a *Authenticator) CheckSessionStatus(token string) Status {
	claims, err := a.ValidateSession(token)
	if err != nil {
		return Status{}
	}
	return Status{Authenticated: true, Claims: claims}
}

// SessionCookie returns the Set-Cookie directive for s.
func (a *Authenticator) SessionCookie(s *Session) *http.Cookie {
	return &http.Cookie{
		Name:     CookieName,
		Value:    s.Token,
		Path:     "/",
		Expires:  s.ExpiresAt,
		MaxAge:   int(a.ttl / time.Second),
		HttpOnly: true,
		Secure:   a.secure,
		SameSite: a.sameSite,
	}
}

// RevokeSession returns a directive that clears the session cookie.
// There is no server-side state to invalidate.
func (a *Authenticator) RevokeSession() *http.Cookie {
	return &http.Cookie{
		Name:     CookieName,
		Value:    "",
		Path:     "/",
		Expires:  time.Unix(0, 0),
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   a.secure,
		SameSite: a.sameSite,
	}
}

// TokenFromRequest returns the session token carried by r, or "".
func TokenFromRequest(r *http.Request) string {
	c, err := r.Cookie(CookieName)
	if err != nil {
		return ""
	}
	return c.Value
}
