// Copyright (c) 2026 Folio. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package access_test

import (
	"context"
	"io"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taibuivan/folio/internal/core/access"
	"github.com/taibuivan/folio/internal/core/collection"
	"github.com/taibuivan/folio/internal/core/content"
	"github.com/taibuivan/folio/internal/platform/apperr"
	"github.com/taibuivan/folio/internal/platform/sec"
	"github.com/taibuivan/folio/internal/storage/memory"
	"github.com/taibuivan/folio/pkg/pointer"
)

// # Test Doubles

type memoryGrants struct {
	mu     sync.Mutex
	grants map[string]string
}

func newMemoryGrants() *memoryGrants {
	return &memoryGrants{grants: make(map[string]string)}
}

func (store *memoryGrants) Save(_ context.Context, grantID, collectionID string, _ time.Duration) error {
	store.mu.Lock()
	defer store.mu.Unlock()
	store.grants[grantID] = collectionID
	return nil
}

func (store *memoryGrants) Lookup(_ context.Context, grantID string) (string, bool, error) {
	store.mu.Lock()
	defer store.mu.Unlock()
	collectionID, ok := store.grants[grantID]
	return collectionID, ok, nil
}

func (store *memoryGrants) RevokeAll(_ context.Context, collectionID string) error {
	store.mu.Lock()
	defer store.mu.Unlock()
	for grantID, owner := range store.grants {
		if owner == collectionID {
			delete(store.grants, grantID)
		}
	}
	return nil
}

type noBlobs struct{}

func (noBlobs) Store(context.Context, content.Upload, content.Kind) (*content.StoredObject, error) {
	return nil, content.ErrNotProduced
}

type fixture struct {
	store       *memory.Store
	access      *access.Service
	collections *collection.Service
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	tokens, err := sec.NewTokenService("test-secret", "folio.test")
	require.NoError(t, err)

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	store := memory.New()
	gate := access.NewService(store.Collections(), newMemoryGrants(), tokens, time.Hour, logger)
	ingestor := content.NewIngestor(store.Contents(), noBlobs{}, logger)

	return &fixture{
		store:       store,
		access:      gate,
		collections: collection.NewService(store.Collections(), store.Contents(), ingestor, gate, logger),
	}
}

func (fixture *fixture) protected(t *testing.T, title, password string) *collection.Collection {
	t.Helper()

	created, err := fixture.collections.Create(context.Background(), collection.CreateInput{
		Type:     string(collection.TypeClientGallery),
		Title:    title,
		Password: pointer.To(password),
	})
	require.NoError(t, err)
	return created
}

// # Tests

/* TestUnlock_Outcomes covers the error paths of an unlock attempt. */
func TestUnlock_Outcomes(t *testing.T) {
	fixture := newFixture(t)
	gallery := fixture.protected(t, "Wedding", "s3cret")

	open, err := fixture.collections.Create(context.Background(), collection.CreateInput{
		Type:  string(collection.TypeBlog),
		Title: "Open Notes",
	})
	require.NoError(t, err)

	tests := []struct {
		name     string
		ref      string
		password string
		wantCode string
	}{
		{name: "wrong password", ref: gallery.ID, password: "guess", wantCode: apperr.CodeUnauthorized},
		{name: "blank password", ref: gallery.ID, password: "  ", wantCode: apperr.CodeValidation},
		{name: "not protected", ref: open.Slug, password: "anything", wantCode: apperr.CodeUnprocessable},
		{name: "unknown collection", ref: "no-such-slug", password: "s3cret", wantCode: apperr.CodeNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := fixture.access.Unlock(context.Background(), tt.ref, tt.password)
			assert.True(t, apperr.HasCode(err, tt.wantCode), "got %v", err)
		})
	}
}

/* TestUnlock_GrantOpensPublicReads checks a grant lets GetPage through for its own collection only. */
func TestUnlock_GrantOpensPublicReads(t *testing.T) {
	fixture := newFixture(t)
	gallery := fixture.protected(t, "Wedding", "s3cret")
	other := fixture.protected(t, "Engagement", "other")

	grant, err := fixture.access.Unlock(context.Background(), gallery.Slug, "s3cret")
	require.NoError(t, err)
	assert.Equal(t, gallery.ID, grant.CollectionID)
	assert.True(t, grant.ExpiresAt.After(time.Now()))

	_, err = fixture.collections.GetPage(context.Background(), gallery.ID, collection.PageRequest{Page: 1, Access: collection.Access{Grant: grant.Token}})
	assert.NoError(t, err)

	_, err = fixture.collections.GetPage(context.Background(), gallery.ID, collection.PageRequest{Page: 1})
	assert.True(t, apperr.HasCode(err, apperr.CodeUnauthorized))

	_, err = fixture.collections.GetPage(context.Background(), other.ID, collection.PageRequest{Page: 1, Access: collection.Access{Grant: grant.Token}})
	assert.True(t, apperr.HasCode(err, apperr.CodeForbidden))

	_, err = fixture.collections.GetPage(context.Background(), gallery.ID, collection.PageRequest{Page: 1, Access: collection.Access{Grant: "not-a-token"}})
	assert.True(t, apperr.HasCode(err, apperr.CodeUnauthorized))
}

/* TestSetPassword_RevokesGrants verifies a password change invalidates earlier grants. */
func TestSetPassword_RevokesGrants(t *testing.T) {
	fixture := newFixture(t)
	gallery := fixture.protected(t, "Wedding", "s3cret")

	grant, err := fixture.access.Unlock(context.Background(), gallery.ID, "s3cret")
	require.NoError(t, err)

	require.NoError(t, fixture.collections.SetPassword(context.Background(), gallery.ID, "rotated"))

	err = fixture.access.Authorize(context.Background(), gallery, grant.Token)
	assert.True(t, apperr.HasCode(err, apperr.CodeUnauthorized))

	_, err = fixture.access.Unlock(context.Background(), gallery.ID, "s3cret")
	assert.True(t, apperr.HasCode(err, apperr.CodeUnauthorized))

	_, err = fixture.access.Unlock(context.Background(), gallery.ID, "rotated")
	assert.NoError(t, err)
}

/* TestUnlock_UpgradesLegacyDigest checks a SHA-256 digest is verified then replaced by bcrypt. */
func TestUnlock_UpgradesLegacyDigest(t *testing.T) {
	fixture := newFixture(t)
	gallery := fixture.protected(t, "Archive", "placeholder")

	legacy := sec.LegacyDigest("old-password")
	gallery.PasswordHash = &legacy
	require.NoError(t, fixture.store.Collections().Update(context.Background(), gallery))

	_, err := fixture.access.Unlock(context.Background(), gallery.ID, "old-password")
	require.NoError(t, err)

	stored, err := fixture.store.Collections().FindByID(context.Background(), gallery.ID)
	require.NoError(t, err)
	require.NotNil(t, stored.PasswordHash)
	assert.False(t, sec.IsLegacyDigest(*stored.PasswordHash))
	assert.True(t, sec.CheckPasswordHash("old-password", *stored.PasswordHash))
}
