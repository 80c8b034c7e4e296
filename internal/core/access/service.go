// Copyright (c) 2026 Folio. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package access

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/taibuivan/folio/internal/core/collection"
	"github.com/taibuivan/folio/internal/platform/apperr"
	"github.com/taibuivan/folio/internal/platform/sec"
	"github.com/taibuivan/folio/internal/platform/validate"
	"github.com/taibuivan/folio/pkg/uuid"
)

// Service issues and checks collection access grants.
type Service struct {
	collections collection.Repository
	grants      GrantStore
	tokens      *sec.TokenService
	ttl         time.Duration
	logger      *slog.Logger
}

// NewService constructs an access [Service].
func NewService(collections collection.Repository, grants GrantStore, tokens *sec.TokenService, ttl time.Duration, logger *slog.Logger) *Service {
	return &Service{
		collections: collections,
		grants:      grants,
		tokens:      tokens,
		ttl:         ttl,
		logger:      logger,
	}
}

// # Unlock

/*
Unlock verifies a collection password and issues a grant.

Description: A stored legacy SHA-256 digest is replaced by a bcrypt hash
after the first successful verification.

Parameters:
  - context: context.Context
  - ref: string (collection id or slug)
  - password: string

Returns:
  - *Grant: Token and expiry
  - error: Validation, NotFound, Unprocessable (not protected) or
    Unauthorized (wrong password)
*/
func (service *Service) Unlock(context context.Context, ref string, password string) (*Grant, error) {
	if strings.TrimSpace(password) == "" {
		return nil, validate.RequiredError(FieldPassword, "This field is required")
	}

	target, err := service.find(context, ref)
	if err != nil {
		return nil, err
	}

	if !target.IsPasswordProtected {
		return nil, apperr.Unprocessable("This collection is not password protected")
	}

	if target.PasswordHash == nil || *target.PasswordHash == "" {
		return nil, apperr.Forbidden("This collection cannot be unlocked")
	}

	if !sec.CheckPasswordHash(password, *target.PasswordHash) {
		service.logger.Warn("collection_unlock_failed", slog.String("collection_id", target.ID))
		return nil, apperr.Unauthorized("Incorrect password")
	}

	if sec.IsLegacyDigest(*target.PasswordHash) {
		service.upgradeHash(context, target, password)
	}

	token, claims, err := service.tokens.IssueGrant(target.ID, service.ttl)
	if err != nil {
		return nil, apperr.Internal(err)
	}

	if err := service.grants.Save(context, claims.ID, target.ID, service.ttl); err != nil {
		return nil, fmt.Errorf("access: save grant: %w", err)
	}

	service.logger.Info("collection_unlocked",
		slog.String("collection_id", target.ID),
		slog.String("grant_id", claims.ID),
	)

	return &Grant{
		Token:        token,
		CollectionID: target.ID,
		ExpiresAt:    claims.ExpiresAt.Time,
	}, nil
}

// # Authorization

/*
Authorize lets a public read of a protected collection through.

Parameters:
  - context: context.Context
  - target: *collection.Collection
  - token: string (grant token, may be empty)

Returns:
  - error: Unauthorized when the grant is missing, invalid, expired or
    revoked; Forbidden when it belongs to another collection
*/
func (service *Service) Authorize(context context.Context, target *collection.Collection, token string) error {
	if token == "" {
		return apperr.Unauthorized("This collection is password protected")
	}

	claims, err := service.tokens.VerifyGrant(token)
	if err != nil {
		return apperr.Unauthorized("Access grant is invalid or expired")
	}

	if claims.CollectionID != target.ID {
		return apperr.Forbidden("Access grant belongs to another collection")
	}

	collectionID, live, err := service.grants.Lookup(context, claims.ID)
	if err != nil {
		return fmt.Errorf("access: lookup grant: %w", err)
	}

	if !live || collectionID != target.ID {
		return apperr.Unauthorized("Access grant has been revoked")
	}

	return nil
}

// RevokeAll invalidates every outstanding grant of a collection.
func (service *Service) RevokeAll(context context.Context, collectionID string) error {
	if err := service.grants.RevokeAll(context, collectionID); err != nil {
		return fmt.Errorf("access: revoke grants: %w", err)
	}

	service.logger.Info("collection_grants_revoked", slog.String("collection_id", collectionID))
	return nil
}

// # Internal Helpers

func (service *Service) find(context context.Context, ref string) (*collection.Collection, error) {
	if uuid.IsValid(ref) {
		return service.collections.FindByID(context, ref)
	}
	return service.collections.FindBySlug(context, ref)
}

// upgradeHash is best effort; the unlock succeeds even when the rewrite fails.
func (service *Service) upgradeHash(context context.Context, target *collection.Collection, password string) {
	hash, err := sec.HashPassword(password)
	if err != nil {
		service.logger.Error("collection_hash_upgrade_failed", slog.String("collection_id", target.ID), slog.Any("error", err))
		return
	}

	upgraded := *target
	upgraded.PasswordHash = &hash
	upgraded.UpdatedAt = time.Now().UTC()

	if err := service.collections.Update(context, &upgraded); err != nil {
		service.logger.Error("collection_hash_upgrade_failed", slog.String("collection_id", target.ID), slog.Any("error", err))
		return
	}

	service.logger.Info("collection_hash_upgraded", slog.String("collection_id", target.ID))
}
