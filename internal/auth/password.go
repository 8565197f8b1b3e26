// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package auth implements the admin session flow: password verification,
// signed session tokens, and the cookie directives that carry them.
package auth

import (
	"crypto/rand"
	"crypto/subtle"
	"encoding/base64"
	"errors"
	"fmt"
	"strings"

	"golang.org/x/crypto/argon2"
)

// Argon2 parameters (OWASP recommended second choice: m=19456, t=2, p=1)
const (
	Argon2Time    = 2
	Argon2Memory  = 19 * 1024
	Argon2Threads = 1
	Argon2KeyLen  = 32
	Argon2SaltLen = 16
)

// Upper bounds for parameters read from a configured hash. Each login
// recomputes the hash, so these cap the per-request cost.
const (
	maxArgon2Memory = 256 * 1024 // KiB
	maxArgon2Time   = 16
)

var errInvalidHash = errors.New("invalid hash format")

// HashPassword creates an Argon2id hash of the password.
// Returns encoded hash in format: $argon2id$v=19$m=19456,t=2,p=1$salt$hash
func HashPassword(password string) (string, error) {
	salt := make([]byte, Argon2SaltLen)
	if _, err := rand.Read(salt); err != nil {
		return "", fmt.Errorf("generating salt: %w", err)
	}

	hash := argon2.IDKey([]byte(password), salt, Argon2Time, Argon2Memory, Argon2Threads, Argon2KeyLen)

	return fmt.Sprintf("$argon2id$v=%d$m=%d,t=%d,p=%d$%s$%s",
		argon2.Version, Argon2Memory, Argon2Time, Argon2Threads,
		base64.RawStdEncoding.EncodeToString(salt),
		base64.RawStdEncoding.EncodeToString(hash)), nil
}

// argonParams is a decoded Argon2id hash.
type argonParams struct {
	memory  uint32
	time    uint32
	threads uint8
	salt    []byte
	hash    []byte
}

func decodeHash(encodedHash string) (*argonParams, error) {
	parts := strings.Split(encodedHash, "$")
	if len(parts) != 6 {
		return nil, errInvalidHash
	}
	if parts[1] != "argon2id" {
		return nil, fmt.Errorf("unsupported hash type: %s", parts[1])
	}

	var version int
	if _, err := fmt.Sscanf(parts[2], "v=%d", &version); err != nil {
		return nil, fmt.Errorf("parsing version: %w", err)
	}
	if version != argon2.Version {
		return nil, fmt.Errorf("unsupported argon2 version: %d", version)
	}

	p := &argonParams{}
	if _, err := fmt.Sscanf(parts[3], "m=%d,t=%d,p=%d", &p.memory, &p.time, &p.threads); err != nil {
		return nil, fmt.Errorf("parsing parameters: %w", err)
	}
	if err := p.validate(); err != nil {
		return nil, err
	}

	var err error
	if p.salt, err = base64.RawStdEncoding.DecodeString(parts[4]); err != nil {
		return nil, fmt.Errorf("decoding salt: %w", err)
	}
	if p.hash, err = base64.RawStdEncoding.DecodeString(parts[5]); err != nil {
		return nil, fmt.Errorf("decoding hash: %w", err)
	}
	if len(p.hash) == 0 {
		return nil, errInvalidHash
	}

	return p, nil
}

// validate rejects parameters argon2.IDKey cannot run with, and costs above
// the configured ceiling.
func (p *argonParams) validate() error {
	switch {
	case p.threads < 1:
		return fmt.Errorf("argon2 parallelism must be at least 1, got %d", p.threads)
	case p.time < 1 || p.time > maxArgon2Time:
		return fmt.Errorf("argon2 time must be between 1 and %d, got %d", maxArgon2Time, p.time)
	case p.memory < 8*uint32(p.threads):
		return fmt.Errorf("argon2 memory must be at least %d KiB, got %d", 8*uint32(p.threads), p.memory)
	case p.memory > maxArgon2Memory:
		return fmt.Errorf("argon2 memory must be at most %d KiB, got %d", maxArgon2Memory, p.memory)
	}
	return nil
}

// CheckPassword verifies a password against an Argon2id hash.
// Uses constant-time comparison to prevent timing attacks.
func CheckPassword(password, encodedHash string) (bool, error) {
	p, err := decodeHash(encodedHash)
	if err != nil {
		return false, err
	}

	hash := argon2.IDKey([]byte(password), p.salt, p.time, p.memory, p.threads, uint32(len(p.hash)))
	return subtle.ConstantTimeCompare(hash, p.hash) == 1, nil
}

// PasswordVerifier checks candidate passwords against the single admin secret.
type PasswordVerifier struct {
	encodedHash string
}

// NewPasswordVerifier builds a verifier from either an Argon2id hash or a
// plaintext secret. The plaintext secret is hashed once and then discarded,
// so every comparison runs through the same constant-time path.
func NewPasswordVerifier(plaintext, encodedHash string) (*PasswordVerifier, error) {
	if encodedHash != "" {
		if _, err := decodeHash(encodedHash); err != nil {
			return nil, fmt.Errorf("admin password hash: %w", err)
		}
		return &PasswordVerifier{encodedHash: encodedHash}, nil
	}
	if plaintext == "" {
		return nil, errors.New("admin password is empty")
	}

	hash, err := HashPassword(plaintext)
	if err != nil {
		return nil, fmt.Errorf("hashing admin password: %w", err)
	}
	return &PasswordVerifier{encodedHash: hash}, nil
}

// Verify reports whether password matches the admin secret.
func (v *PasswordVerifier) Verify(password string) bool {
	ok, err := CheckPassword(password, v.encodedHash)
	return err == nil && ok
}
