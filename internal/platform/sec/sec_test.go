// Copyright (c) 2026 Folio. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package sec_test

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taibuivan/folio/internal/platform/sec"
)

/*
TestHashPassword_RoundTrip checks verify(s, hash(s)) for a range of inputs.
*/
func TestHashPassword_RoundTrip(t *testing.T) {
	passwords := []string{"a", "sunset-2024", "pässwörd ✓", "   spaced   "}

	for _, password := range passwords {
		t.Run(password, func(t *testing.T) {
			hash, err := sec.HashPassword(password)
			require.NoError(t, err)

			assert.NotEqual(t, password, hash)
			assert.True(t, sec.CheckPasswordHash(password, hash))
			assert.False(t, sec.CheckPasswordHash(password+"x", hash))
		})
	}
}

/*
TestHashPassword_DistinctInputs ensures different passwords never cross-verify.
*/
func TestHashPassword_DistinctInputs(t *testing.T) {
	first, err := sec.HashPassword("client-one")
	require.NoError(t, err)
	second, err := sec.HashPassword("client-two")
	require.NoError(t, err)

	assert.NotEqual(t, first, second)
	assert.False(t, sec.CheckPasswordHash("client-one", second))
	assert.False(t, sec.CheckPasswordHash("client-two", first))
}

/*
TestHashPassword_Empty fails fast instead of producing a hash.
*/
func TestHashPassword_Empty(t *testing.T) {
	_, err := sec.HashPassword("")
	assert.ErrorIs(t, err, sec.ErrEmptyPassword)
	assert.False(t, sec.CheckPasswordHash("", "anything"))
}

/*
TestHashPassword_TooLong rejects inputs bcrypt cannot hash.
*/
func TestHashPassword_TooLong(t *testing.T) {
	_, err := sec.HashPassword(strings.Repeat("a", sec.PasswordMaxBytes+1))
	assert.ErrorIs(t, err, sec.ErrPasswordTooLong)

	hash, err := sec.HashPassword(strings.Repeat("a", sec.PasswordMaxBytes))
	require.NoError(t, err)
	assert.True(t, sec.CheckPasswordHash(strings.Repeat("a", sec.PasswordMaxBytes), hash))
}

/*
TestCheckPasswordHash_Legacy accepts unsalted SHA-256 hex digests.
*/
func TestCheckPasswordHash_Legacy(t *testing.T) {
	digest := sec.LegacyDigest("gallery")

	// Deterministic lowercase hex
	assert.Equal(t, digest, sec.LegacyDigest("gallery"))
	assert.Len(t, digest, 64)
	assert.True(t, sec.IsLegacyDigest(digest))

	assert.True(t, sec.CheckPasswordHash("gallery", digest))
	assert.False(t, sec.CheckPasswordHash("Gallery", digest))

	bcryptHash, err := sec.HashPassword("gallery")
	require.NoError(t, err)
	assert.False(t, sec.IsLegacyDigest(bcryptHash))
}

/*
TestTokenService_GrantRoundTrip signs and verifies a collection grant.
*/
func TestTokenService_GrantRoundTrip(t *testing.T) {
	service, err := sec.NewTokenService("secret", "folio.test")
	require.NoError(t, err)

	token, claims, err := service.IssueGrant("collection-1", time.Hour)
	require.NoError(t, err)
	assert.NotEmpty(t, claims.ID)

	verified, err := service.VerifyGrant(token)
	require.NoError(t, err)
	assert.Equal(t, "collection-1", verified.CollectionID)
	assert.Equal(t, claims.ID, verified.ID)
}

/*
TestTokenService_RejectsForeignAndExpired covers tampering and expiry.
*/
func TestTokenService_RejectsForeignAndExpired(t *testing.T) {
	service, err := sec.NewTokenService("secret", "folio.test")
	require.NoError(t, err)
	other, err := sec.NewTokenService("other-secret", "folio.test")
	require.NoError(t, err)

	foreign, _, err := other.IssueGrant("collection-1", time.Hour)
	require.NoError(t, err)
	_, err = service.VerifyGrant(foreign)
	assert.Error(t, err)

	expired, _, err := service.IssueGrant("collection-1", -time.Minute)
	require.NoError(t, err)
	_, err = service.VerifyGrant(expired)
	assert.Error(t, err)

	_, err = sec.NewTokenService("", "folio.test")
	assert.Error(t, err)
}
