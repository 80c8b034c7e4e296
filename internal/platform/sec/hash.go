// Copyright (c) 2026 Folio. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package sec

import (
	"crypto/sha256"
	"crypto/subtle"
	"encoding/hex"
	"errors"
	"fmt"
	"regexp"

	"golang.org/x/crypto/bcrypt"
)

// PasswordMaxBytes is the longest input bcrypt accepts.
const PasswordMaxBytes = 72

var (
	// ErrEmptyPassword is returned when hashing an empty password.
	ErrEmptyPassword = errors.New("sec: password must not be empty")

	// ErrPasswordTooLong is returned when the password exceeds [PasswordMaxBytes].
	ErrPasswordTooLong = errors.New("sec: password exceeds 72 bytes")
)

// legacyDigestRegex matches unsalted SHA-256 digests rendered as lowercase hex.
var legacyDigestRegex = regexp.MustCompile(`^[0-9a-f]{64}$`)

// HashPassword hashes a plain-text password using the bcrypt algorithm.
//
// bcrypt salts every hash, so two calls with the same input produce different
// strings; [CheckPasswordHash] is the only supported comparison.
func HashPassword(plainTextPassword string) (string, error) {
	if plainTextPassword == "" {
		return "", ErrEmptyPassword
	}
	if len(plainTextPassword) > PasswordMaxBytes {
		return "", ErrPasswordTooLong
	}

	hashedBytes, err := bcrypt.GenerateFromPassword([]byte(plainTextPassword), bcrypt.DefaultCost)
	if err != nil {
		return "", fmt.Errorf("sec: failed to hash password: %w", err)
	}
	return string(hashedBytes), nil
}

// CheckPasswordHash compares a plain-text password with its hashed version.
//
// Hashes written before bcrypt was adopted are plain SHA-256 hex digests;
// those are still accepted and compared in constant time.
func CheckPasswordHash(plainTextPassword, existingHash string) bool {
	if plainTextPassword == "" || existingHash == "" {
		return false
	}

	if IsLegacyDigest(existingHash) {
		candidate := LegacyDigest(plainTextPassword)
		return subtle.ConstantTimeCompare([]byte(candidate), []byte(existingHash)) == 1
	}

	err := bcrypt.CompareHashAndPassword([]byte(existingHash), []byte(plainTextPassword))
	return err == nil
}

// LegacyDigest returns the unsalted SHA-256 digest of the password's UTF-8
// bytes as lowercase hex. Only used to verify hashes stored by older releases.
func LegacyDigest(plainTextPassword string) string {
	sum := sha256.Sum256([]byte(plainTextPassword))
	return hex.EncodeToString(sum[:])
}

// IsLegacyDigest reports whether hash is an unsalted SHA-256 digest that
// should be replaced by a bcrypt hash on the next successful verification.
func IsLegacyDigest(hash string) bool {
	return legacyDigestRegex.MatchString(hash)
}
