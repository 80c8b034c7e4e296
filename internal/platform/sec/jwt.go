// Copyright (c) 2026 Folio. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// Package sec provides cryptographic primitives: password hashing and the
// signing of collection access grants.
//
// # Architecture
//
// This package isolates security-sensitive code from the domain logic. The
// access service depends on it through the [TokenService] type.
package sec

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/taibuivan/folio/pkg/uuid"
)

// GrantClaims is the payload of a collection access grant.
//
// The token id (jti) doubles as the revocation handle kept in redis.
type GrantClaims struct {
	jwt.RegisteredClaims

	// CollectionID scopes the grant to a single collection.
	CollectionID string `json:"cid"`
}

// TokenService signs and verifies access grants with HMAC-SHA256.
type TokenService struct {
	secret []byte
	issuer string
	now    func() time.Time
}

// NewTokenService creates a new TokenService from a shared secret.
func NewTokenService(secret, issuer string) (*TokenService, error) {
	if secret == "" {
		return nil, errors.New("sec: grant secret must not be empty")
	}

	return &TokenService{
		secret: []byte(secret),
		issuer: issuer,
		now:    time.Now,
	}, nil
}

// IssueGrant creates a signed grant for one collection.
func (service *TokenService) IssueGrant(collectionID string, timeToLive time.Duration) (string, *GrantClaims, error) {
	currentTime := service.now()
	claims := &GrantClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.New(),
			Subject:   collectionID,
			Issuer:    service.issuer,
			IssuedAt:  jwt.NewNumericDate(currentTime),
			ExpiresAt: jwt.NewNumericDate(currentTime.Add(timeToLive)),
		},
		CollectionID: collectionID,
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signedToken, err := token.SignedString(service.secret)
	if err != nil {
		return "", nil, fmt.Errorf("sec: failed to sign grant: %w", err)
	}

	return signedToken, claims, nil
}

// VerifyGrant checks the signature, issuer and expiry of a grant token.
func (service *TokenService) VerifyGrant(tokenString string) (*GrantClaims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &GrantClaims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("sec: unexpected signing method: %v", token.Header["alg"])
		}
		return service.secret, nil
	},
		jwt.WithIssuer(service.issuer),
		jwt.WithTimeFunc(service.now),
	)

	if err != nil {
		return nil, fmt.Errorf("sec: invalid grant: %w", err)
	}

	claims, ok := token.Claims.(*GrantClaims)
	if !ok || !token.Valid || claims.CollectionID == "" || claims.ID == "" {
		return nil, fmt.Errorf("sec: invalid grant claims")
	}

	return claims, nil
}
