// Copyright (c) 2026 Folio. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package collection

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/taibuivan/folio/internal/core/content"
	"github.com/taibuivan/folio/internal/platform/apperr"
	"github.com/taibuivan/folio/internal/platform/sec"
	"github.com/taibuivan/folio/internal/platform/validate"
	"github.com/taibuivan/folio/pkg/pointer"
	"github.com/taibuivan/folio/pkg/slug"
	"github.com/taibuivan/folio/pkg/uuid"
)

// AccessGate authorizes public reads of password-protected collections.
type AccessGate interface {

	// Authorize accepts a grant token for the collection, or returns
	// apperr.Unauthorized.
	Authorize(context context.Context, collection *Collection, token string) error

	// RevokeAll invalidates every grant issued for the collection.
	RevokeAll(context context.Context, collectionID string) error
}

// # Service Layer

// Service orchestrates collection lifecycle, assembly and reads.
type Service struct {
	repository Repository
	contents   content.Repository
	ingestor   *content.Ingestor
	resolver   *Resolver
	gate       AccessGate
	logger     *slog.Logger
	now        func() time.Time
}

/*
NewService constructs a [Service].

Parameters:
  - repository: Repository (collections and placements)
  - contents: content.Repository (content lookups and deletes)
  - ingestor: *content.Ingestor (new content submissions)
  - gate: AccessGate (nil denies every public read of a protected collection)
  - logger: *slog.Logger
*/
func NewService(repository Repository, contents content.Repository, ingestor *content.Ingestor, gate AccessGate, logger *slog.Logger) *Service {
	return &Service{
		repository: repository,
		contents:   contents,
		ingestor:   ingestor,
		resolver:   NewResolver(repository),
		gate:       gate,
		logger:     logger,
		now:        time.Now,
	}
}

// # Collection Lookups

// Get fetches a collection by UUID or slug.
func (service *Service) Get(context context.Context, ref string) (*Collection, error) {
	if uuid.IsValid(ref) {
		return service.repository.FindByID(context, ref)
	}
	return service.repository.FindBySlug(context, ref)
}

// List returns a filtered page of collections and the total match count.
func (service *Service) List(context context.Context, filter Filter, limit, offset int) ([]*Collection, int, error) {
	return service.repository.List(context, filter, limit, offset)
}

// # Collection Management

/*
Create validates and persists a new collection.

Description: Type defaults are applied to unset fields first. The slug is
derived from the requested slug, or the title when none is given, and made
unique by the [Resolver]. When a concurrent writer claims the same slug
between resolution and insert, resolution is retried.

Parameters:
  - context: context.Context
  - input: CreateInput

Returns:
  - *Collection: The persisted collection
  - error: VALIDATION_ERROR, or an infrastructure failure
*/
func (service *Service) Create(context context.Context, input CreateInput) (*Collection, error) {
	input = ApplyDefaults(input)
	title := strings.TrimSpace(input.Title)

	validator := &validate.Validator{}
	validator.Required(FieldType, input.Type).OneOf(FieldType, input.Type,
		string(TypeBlog),
		string(TypePortfolio),
		string(TypeArtGallery),
		string(TypeClientGallery),
	)
	validator.Required(FieldTitle, title).
		MinLen(FieldTitle, title, TitleMinLength).
		MaxLen(FieldTitle, title, TitleMaxLength)
	validator.OptionalMaxLen(FieldSlug, input.Slug, SlugMaxLength).
		OptionalMaxLen(FieldDescription, input.Description, DescriptionMaxLength).
		OptionalMaxLen(FieldLocation, input.Location, LocationMaxLength).
		OptionalRange(FieldPriority, input.Priority, PriorityMin, PriorityMax).
		OptionalRange(FieldContentPerPage, input.ContentPerPage, PageSizeMin, PageSizeMax)

	if input.Password != nil {
		validator.Required(FieldPassword, *input.Password).
			MaxBytes(FieldPassword, *input.Password, sec.PasswordMaxBytes)
	}

	candidate := slug.From(title)
	if requested, ok := explicitSlug(validator, input.Slug); ok {
		candidate = requested
	}

	if err := validator.Err(); err != nil {
		return nil, err
	}

	now := service.now().UTC()
	collection := &Collection{
		ID:             uuid.New(),
		Type:           Type(input.Type),
		Title:          title,
		Description:    trimOptional(input.Description),
		Location:       trimOptional(input.Location),
		Visible:        *input.Visible,
		Priority:       input.Priority,
		ContentPerPage: *input.ContentPerPage,
		CreatedAt:      now,
		UpdatedAt:      now,
	}

	if input.Password != nil {
		hash, err := hashPassword(*input.Password)
		if err != nil {
			return nil, err
		}
		collection.PasswordHash = &hash
		collection.IsPasswordProtected = true
	}

	err := service.claimSlug(context, collection, candidate, func() error {
		return service.repository.Create(context, collection)
	})
	if err != nil {
		return nil, err
	}

	service.logger.Info("collection_created",
		slog.String("collection_id", collection.ID),
		slog.String("slug", collection.Slug),
		slog.String("type", string(collection.Type)),
	)

	return collection, nil
}

/*
Update applies a partial update to a collection.

Description: Only non-nil fields change. The slug is re-resolved only when
a new slug is requested; a title change alone keeps the existing slug, and
a blank slug counts as absent.

Parameters:
  - context: context.Context
  - id: string
  - input: UpdateInput

Returns:
  - *Collection: The updated collection
  - error: NOT_FOUND, VALIDATION_ERROR, or an infrastructure failure
*/
func (service *Service) Update(context context.Context, id string, input UpdateInput) (*Collection, error) {
	collection, err := service.repository.FindByID(context, id)
	if err != nil {
		return nil, err
	}

	validator := &validate.Validator{}
	if input.Type != nil {
		validator.OneOf(FieldType, *input.Type,
			string(TypeBlog),
			string(TypePortfolio),
			string(TypeArtGallery),
			string(TypeClientGallery),
		)
	}
	if input.Title != nil {
		title := strings.TrimSpace(*input.Title)
		validator.Required(FieldTitle, title).
			MinLen(FieldTitle, title, TitleMinLength).
			MaxLen(FieldTitle, title, TitleMaxLength)
	}
	validator.OptionalMaxLen(FieldSlug, input.Slug, SlugMaxLength).
		OptionalMaxLen(FieldDescription, input.Description, DescriptionMaxLength).
		OptionalMaxLen(FieldLocation, input.Location, LocationMaxLength).
		OptionalRange(FieldPriority, input.Priority, PriorityMin, PriorityMax).
		OptionalRange(FieldContentPerPage, input.ContentPerPage, PageSizeMin, PageSizeMax)

	requested, hasSlug := explicitSlug(validator, input.Slug)

	if err := validator.Err(); err != nil {
		return nil, err
	}

	if input.Type != nil {
		collection.Type = Type(*input.Type)
	}
	if input.Title != nil {
		collection.Title = strings.TrimSpace(*input.Title)
	}
	if input.Description != nil {
		collection.Description = trimOptional(input.Description)
	}
	if input.Location != nil {
		collection.Location = trimOptional(input.Location)
	}
	if input.Visible != nil {
		collection.Visible = *input.Visible
	}
	if input.Priority != nil {
		collection.Priority = input.Priority
	}
	if input.ContentPerPage != nil {
		collection.ContentPerPage = *input.ContentPerPage
	}
	collection.UpdatedAt = service.now().UTC()

	write := func() error {
		return service.repository.Update(context, collection)
	}

	if hasSlug && requested != collection.Slug {
		err = service.claimSlug(context, collection, requested, write)
	} else {
		err = write()
	}
	if err != nil {
		return nil, err
	}

	service.logger.Info("collection_updated",
		slog.String("collection_id", collection.ID),
		slog.String("slug", collection.Slug),
	)

	return collection, nil
}

/*
Delete removes a collection with its placements and orphaned content.

Description: Content still placed in another collection survives.
Outstanding access grants are revoked afterwards; a revocation failure is
logged, not returned, since the collection is already gone.
*/
func (service *Service) Delete(context context.Context, id string) error {
	orphans, err := service.repository.Delete(context, id)
	if err != nil {
		return err
	}

	service.revokeGrants(context, id)

	service.logger.Info("collection_deleted",
		slog.String("collection_id", id),
		slog.Int("content_deleted", len(orphans)),
	)
	return nil
}

// # Password Protection

/*
SetPassword protects a collection with a new password.

Description: The password is stored as a bcrypt hash. Grants issued under
a previous password are revoked.

Parameters:
  - context: context.Context
  - id: string
  - password: string (plaintext, must not be blank)

Returns:
  - error: NOT_FOUND, VALIDATION_ERROR, or an infrastructure failure
*/
func (service *Service) SetPassword(context context.Context, id string, password string) error {
	validator := &validate.Validator{}
	validator.Required(FieldPassword, password).
		MaxBytes(FieldPassword, password, sec.PasswordMaxBytes)
	if err := validator.Err(); err != nil {
		return err
	}

	collection, err := service.repository.FindByID(context, id)
	if err != nil {
		return err
	}

	hash, err := hashPassword(password)
	if err != nil {
		return err
	}

	collection.PasswordHash = &hash
	collection.IsPasswordProtected = true
	collection.UpdatedAt = service.now().UTC()

	if err := service.repository.Update(context, collection); err != nil {
		return err
	}

	service.revokeGrants(context, id)
	service.logger.Info("collection_password_set", slog.String("collection_id", id))
	return nil
}

// ClearPassword removes password protection and revokes outstanding grants.
func (service *Service) ClearPassword(context context.Context, id string) error {
	collection, err := service.repository.FindByID(context, id)
	if err != nil {
		return err
	}

	collection.PasswordHash = nil
	collection.IsPasswordProtected = false
	collection.UpdatedAt = service.now().UTC()

	if err := service.repository.Update(context, collection); err != nil {
		return err
	}

	service.revokeGrants(context, id)
	service.logger.Info("collection_password_cleared", slog.String("collection_id", id))
	return nil
}

// # Internal Helpers

// claimSlug resolves a unique slug for candidate and runs write, retrying
// with a fresh resolution when write loses a slug race. Every lost race
// means another writer committed, so only cancellation ends the loop early.
func (service *Service) claimSlug(context context.Context, collection *Collection, candidate string, write func() error) error {
	for attempt := 1; ; attempt++ {
		if err := context.Err(); err != nil {
			return err
		}

		resolved, err := service.resolver.Resolve(context, candidate, collection.ID)
		if err != nil {
			return err
		}
		collection.Slug = resolved

		err = write()
		if !errors.Is(err, ErrSlugTaken) {
			return err
		}

		service.logger.Warn("collection_slug_race",
			slog.String("collection_id", collection.ID),
			slog.String("slug", resolved),
			slog.Int("attempt", attempt),
		)
	}
}

// explicitSlug normalizes a requested slug. A nil or blank request is
// reported as absent; one that normalizes below [SlugMinLength] fails
// validation instead of falling back.
func explicitSlug(validator *validate.Validator, requested *string) (string, bool) {
	if requested == nil || strings.TrimSpace(*requested) == "" {
		return "", false
	}

	normalized := slug.From(*requested)
	if len(normalized) < SlugMinLength {
		validator.Custom(FieldSlug, true, fmt.Sprintf("Must contain at least %d letters or digits", SlugMinLength))
		return "", false
	}
	validator.Slug(FieldSlug, normalized)
	return normalized, true
}

// hashPassword maps user-caused hashing failures to validation errors.
func hashPassword(password string) (string, error) {
	hash, err := sec.HashPassword(password)
	switch {
	case errors.Is(err, sec.ErrPasswordTooLong):
		return "", validate.RequiredError(FieldPassword, fmt.Sprintf("Maximum %d bytes", sec.PasswordMaxBytes))
	case err != nil:
		return "", apperr.Internal(err)
	}
	return hash, nil
}

// authorize applies the password gate to non-owner reads.
func (service *Service) authorize(context context.Context, collection *Collection, access Access) error {
	if access.IncludeHidden || !collection.IsPasswordProtected {
		return nil
	}
	if service.gate == nil {
		return apperr.Forbidden("This collection is password protected")
	}
	return service.gate.Authorize(context, collection, access.Grant)
}

func (service *Service) revokeGrants(context context.Context, collectionID string) {
	if service.gate == nil {
		return
	}
	if err := service.gate.RevokeAll(context, collectionID); err != nil {
		service.logger.Error("collection_grant_revoke_failed",
			slog.String("collection_id", collectionID),
			slog.Any("error", err),
		)
	}
}

// trimOptional trims value and maps blank strings to nil.
func trimOptional(value *string) *string {
	if value == nil {
		return nil
	}
	trimmed := strings.TrimSpace(*value)
	if trimmed == "" {
		return nil
	}
	return pointer.To(trimmed)
}
