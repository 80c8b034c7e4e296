// Copyright (c) 2026 Folio. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package access implements the password gate of protected collections.

A visitor who knows a collection's password exchanges it for a grant: a
signed, expiring token scoped to that one collection. Public reads present the
grant in the X-Collection-Grant header.

Architecture:

  - Service: Unlock, Authorize and RevokeAll.
  - GrantStore: registry of live grant ids (redis in production), so that a
    password change revokes every grant issued before it.
  - Handler: the rate limited unlock endpoint.
*/
package access

import (
	"context"
	"time"
)

// # Contracts & Types

// GrantStore records which grants are still live.
type GrantStore interface {

	// Save registers a grant id under its collection until ttl elapses.
	Save(context context.Context, grantID, collectionID string, ttl time.Duration) error

	// Lookup returns the collection of a live grant and whether it exists.
	Lookup(context context.Context, grantID string) (string, bool, error)

	// RevokeAll forgets every grant of a collection.
	RevokeAll(context context.Context, collectionID string) error
}

// Grant is the result of a successful unlock.
type Grant struct {
	Token        string    `json:"token"`
	CollectionID string    `json:"collection_id"`
	ExpiresAt    time.Time `json:"expires_at"`
}

// UnlockInput is the body of an unlock request.
type UnlockInput struct {
	Password *string `json:"password"`
}

// FieldPassword is the validation field of the unlock password.
const FieldPassword = "password"
