// Copyright (c) 2026 Folio. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package content_test

import (
	"bytes"
	"context"
	"errors"
	"image"
	"image/png"
	"io"
	"log/slog"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taibuivan/folio/internal/core/content"
	"github.com/taibuivan/folio/internal/platform/apperr"
	"github.com/taibuivan/folio/pkg/pointer"
)

// # Fakes

type fakeRepository struct {
	items map[string]*content.Content
}

func newFakeRepository() *fakeRepository {
	return &fakeRepository{items: map[string]*content.Content{}}
}

func (repository *fakeRepository) FindByID(_ context.Context, id string) (*content.Content, error) {
	item, ok := repository.items[id]
	if !ok {
		return nil, apperr.NotFound("Content")
	}
	return item, nil
}

func (repository *fakeRepository) FindByIDs(_ context.Context, ids []string) (map[string]*content.Content, error) {
	found := map[string]*content.Content{}
	for _, id := range ids {
		if item, ok := repository.items[id]; ok {
			found[id] = item
		}
	}
	return found, nil
}

func (repository *fakeRepository) Create(_ context.Context, item *content.Content) error {
	repository.items[item.ID] = item
	return nil
}

func (repository *fakeRepository) Update(_ context.Context, item *content.Content) error {
	repository.items[item.ID] = item
	return nil
}

func (repository *fakeRepository) Delete(_ context.Context, id string) error {
	delete(repository.items, id)
	return nil
}

type fakeBlobStore struct {
	err   error
	calls int
}

func (store *fakeBlobStore) Store(_ context.Context, upload content.Upload, kind content.Kind) (*content.StoredObject, error) {
	store.calls++
	if store.err != nil {
		return nil, store.err
	}
	return &content.StoredObject{
		Key: string(kind) + "/" + upload.Filename,
		URL: "https://cdn.folio.test/" + string(kind) + "/" + upload.Filename,
	}, nil
}

func newIngestor(blobs content.BlobStore) (*content.Ingestor, *fakeRepository) {
	repository := newFakeRepository()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return content.NewIngestor(repository, blobs, logger), repository
}

func pngBytes(t *testing.T, width, height int) []byte {
	t.Helper()
	var buffer bytes.Buffer
	require.NoError(t, png.Encode(&buffer, image.NewRGBA(image.Rect(0, 0, width, height))))
	return buffer.Bytes()
}

// # Tests

/*
TestIngestor_CreateText applies the default format and persists the item.
*/
func TestIngestor_CreateText(t *testing.T) {
	ingestor, repository := newIngestor(&fakeBlobStore{})

	item, err := ingestor.Create(context.Background(), content.CreateRequest{
		Kind:    "text",
		Caption: pointer.To("  Morning  "),
		Text:    &content.TextInput{Body: "First light over the bay."},
	})
	require.NoError(t, err)

	text, ok := item.Text()
	require.True(t, ok)
	assert.Equal(t, content.FormatPlain, text.Format)
	assert.Equal(t, "Morning", *item.Caption)
	assert.Contains(t, repository.items, item.ID)
}

/*
TestIngestor_CreateCode defaults the language.
*/
func TestIngestor_CreateCode(t *testing.T) {
	ingestor, _ := newIngestor(&fakeBlobStore{})

	item, err := ingestor.Create(context.Background(), content.CreateRequest{
		Kind: "code",
		Code: &content.CodeInput{Body: "SELECT 1;"},
	})
	require.NoError(t, err)

	code, ok := item.Code()
	require.True(t, ok)
	assert.Equal(t, content.DefaultLanguage, code.Language)
}

/*
TestIngestor_CreateValidation rejects blank bodies and oversize fields.
*/
func TestIngestor_CreateValidation(t *testing.T) {
	tests := []struct {
		name    string
		request content.CreateRequest
		field   string
	}{
		{"blank_text", content.CreateRequest{Kind: "text", Text: &content.TextInput{Body: "   "}}, content.FieldBody},
		{"text_too_long", content.CreateRequest{Kind: "text", Text: &content.TextInput{Body: strings.Repeat("a", content.MaxTextLength+1)}}, content.FieldBody},
		{"bad_format", content.CreateRequest{Kind: "text", Text: &content.TextInput{Body: "x", Format: "rtf"}}, content.FieldFormat},
		{"empty_code", content.CreateRequest{Kind: "code", Code: &content.CodeInput{Body: ""}}, content.FieldBody},
		{"language_too_long", content.CreateRequest{Kind: "code", Code: &content.CodeInput{Body: "x", Language: strings.Repeat("l", 51)}}, content.FieldLanguage},
		{"missing_payload", content.CreateRequest{Kind: "text"}, "text"},
		{"foreign_payload", content.CreateRequest{Kind: "text", Text: &content.TextInput{Body: "x"}, Code: &content.CodeInput{Body: "y"}}, "code"},
		{"caption_too_long", content.CreateRequest{Kind: "text", Caption: pointer.To(strings.Repeat("c", 256)), Text: &content.TextInput{Body: "x"}}, content.FieldCaption},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ingestor, repository := newIngestor(&fakeBlobStore{})

			_, err := ingestor.Create(context.Background(), tt.request)
			appError := apperr.As(err)
			require.NotNil(t, appError)
			assert.Equal(t, apperr.CodeValidation, appError.Code)
			require.NotEmpty(t, appError.Details)
			assert.Equal(t, tt.field, appError.Details[0].Field)
			assert.Empty(t, repository.items)
		})
	}
}

/*
TestIngestor_UnknownKind is a configuration defect.
*/
func TestIngestor_UnknownKind(t *testing.T) {
	ingestor, _ := newIngestor(&fakeBlobStore{})

	_, err := ingestor.Create(context.Background(), content.CreateRequest{Kind: "video"})
	assert.True(t, apperr.HasCode(err, apperr.CodeConfiguration))
}

/*
TestIngestor_CreateImage reads dimensions from the uploaded header.
*/
func TestIngestor_CreateImage(t *testing.T) {
	blobs := &fakeBlobStore{}
	ingestor, _ := newIngestor(blobs)
	data := pngBytes(t, 4, 3)

	item, err := ingestor.Create(context.Background(), content.CreateRequest{
		Kind: "image",
		Image: &content.ImageInput{
			Upload: content.Upload{Filename: "dawn.png", Data: data},
			Camera: pointer.To("X100V"),
		},
	})
	require.NoError(t, err)

	img, ok := item.Image()
	require.True(t, ok)
	assert.Equal(t, "https://cdn.folio.test/image/dawn.png", img.WebURL)
	assert.Equal(t, 4, img.Width)
	assert.Equal(t, 3, img.Height)
	assert.Equal(t, int64(len(data)), img.FileSize)
	assert.Equal(t, 1, blobs.calls)
}

/*
TestIngestor_UploadFailure produces nothing and persists nothing.
*/
func TestIngestor_UploadFailure(t *testing.T) {
	blobs := &fakeBlobStore{err: errors.New("bucket unreachable")}
	ingestor, repository := newIngestor(blobs)

	item, err := ingestor.Create(context.Background(), content.CreateRequest{
		Kind: "gif",
		Gif:  &content.GifInput{Upload: content.Upload{Filename: "loop.gif", Data: []byte("GIF89a")}},
	})

	assert.Nil(t, item)
	assert.ErrorIs(t, err, content.ErrNotProduced)
	assert.Empty(t, repository.items)
}

/*
TestIngestor_MissingUpload is rejected before the blob store is called.
*/
func TestIngestor_MissingUpload(t *testing.T) {
	blobs := &fakeBlobStore{}
	ingestor, _ := newIngestor(blobs)

	_, err := ingestor.Create(context.Background(), content.CreateRequest{
		Kind:  "image",
		Image: &content.ImageInput{},
	})

	assert.True(t, apperr.HasCode(err, apperr.CodeValidation))
	assert.Zero(t, blobs.calls)
}

/*
TestIngestor_Update only touches the stored variant.
*/
func TestIngestor_Update(t *testing.T) {
	ingestor, _ := newIngestor(&fakeBlobStore{})
	ctx := context.Background()

	item, err := ingestor.Create(ctx, content.CreateRequest{Kind: "text", Text: &content.TextInput{Body: "draft"}})
	require.NoError(t, err)

	updated, err := ingestor.Update(ctx, item.ID, content.UpdateRequest{
		Caption: pointer.To("Final"),
		Text:    &content.TextPatch{Body: pointer.To("published"), Format: pointer.To("markdown")},
	})
	require.NoError(t, err)

	text, _ := updated.Text()
	assert.Equal(t, "published", text.Body)
	assert.Equal(t, content.FormatMarkdown, text.Format)
	assert.Equal(t, "Final", *updated.Caption)

	// A code section on a text item is refused
	_, err = ingestor.Update(ctx, item.ID, content.UpdateRequest{Code: &content.CodePatch{Language: pointer.To("go")}})
	assert.True(t, apperr.HasCode(err, apperr.CodeValidation))

	// Blanking the body is refused
	_, err = ingestor.Update(ctx, item.ID, content.UpdateRequest{Text: &content.TextPatch{Body: pointer.To(" ")}})
	assert.True(t, apperr.HasCode(err, apperr.CodeValidation))

	_, err = ingestor.Update(ctx, "missing", content.UpdateRequest{})
	assert.True(t, apperr.HasCode(err, apperr.CodeNotFound))
}
