// Copyright (c) 2026 Folio. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package content

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"image"
	"log/slog"
	"strings"
	"time"

	// Decoders registered for image.DecodeConfig.
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"

	"github.com/taibuivan/folio/internal/platform/apperr"
	"github.com/taibuivan/folio/internal/platform/validate"
	"github.com/taibuivan/folio/pkg/uuid"
)

// ErrNotProduced marks a creation that stopped before any record was written,
// because the blob store did not accept the upload. Callers may retry.
var ErrNotProduced = errors.New("content: no content produced")

// # Blob Storage

// Upload is a binary asset submitted for an image or gif.
type Upload struct {
	Filename    string
	ContentType string
	Data        []byte
}

// StoredObject describes an asset accepted by the blob store.
type StoredObject struct {
	Key          string
	URL          string
	ThumbnailURL *string
	ContentType  string
	Size         int64
}

// BlobStore persists binary assets and derives their public URLs.
type BlobStore interface {
	Store(context context.Context, upload Upload, kind Kind) (*StoredObject, error)
}

// # Requests

// TextInput is the payload of a text submission.
type TextInput struct {
	Body   string `json:"body"`
	Format string `json:"format"`
}

// CodeInput is the payload of a code submission.
type CodeInput struct {
	Body     string  `json:"body"`
	Language string  `json:"language"`
	Filename *string `json:"filename"`
}

// ImageInput is an image upload plus optional photographic metadata.
type ImageInput struct {
	Upload       Upload
	Camera       *string
	Lens         *string
	FocalLength  *string
	FStop        *string
	ShutterSpeed *string
	ISO          *int
	Location     *string
	CapturedAt   *time.Time
}

// GifInput is a gif upload plus optional attribution.
type GifInput struct {
	Upload Upload
	Author *string
}

// CreateRequest selects a variant by Kind and carries its payload. Exactly
// the payload matching Kind must be set.
type CreateRequest struct {
	Kind        string
	Caption     *string
	Description *string
	Text        *TextInput
	Code        *CodeInput
	Image       *ImageInput
	Gif         *GifInput
}

// UpdateRequest changes an item through its own update path. Only the
// section matching the stored kind may be set.
type UpdateRequest struct {
	Caption     *string     `json:"caption"`
	Description *string     `json:"description"`
	Text        *TextPatch  `json:"text"`
	Code        *CodePatch  `json:"code"`
	Image       *ImagePatch `json:"image"`
	Gif         *GifPatch   `json:"gif"`
}

// TextPatch updates a text block.
type TextPatch struct {
	Body   *string `json:"body"`
	Format *string `json:"format"`
}

// CodePatch updates a code snippet.
type CodePatch struct {
	Body     *string `json:"body"`
	Language *string `json:"language"`
	Filename *string `json:"filename"`
}

// ImagePatch updates photographic metadata; the asset itself is immutable.
type ImagePatch struct {
	Camera       *string    `json:"camera"`
	Lens         *string    `json:"lens"`
	FocalLength  *string    `json:"focal_length"`
	FStop        *string    `json:"f_stop"`
	ShutterSpeed *string    `json:"shutter_speed"`
	ISO          *int       `json:"iso"`
	Location     *string    `json:"location"`
	CapturedAt   *time.Time `json:"captured_at"`
}

// GifPatch updates gif attribution.
type GifPatch struct {
	Author *string `json:"author"`
}

// # Ingestor

// Ingestor validates submissions, stores binary assets and persists the
// resulting content records.
type Ingestor struct {
	repository Repository
	blobs      BlobStore
	logger     *slog.Logger
	now        func() time.Time
}

// NewIngestor constructs an [Ingestor].
func NewIngestor(repository Repository, blobs BlobStore, logger *slog.Logger) *Ingestor {
	return &Ingestor{
		repository: repository,
		blobs:      blobs,
		logger:     logger,
		now:        time.Now,
	}
}

/*
Create validates a submission and persists the matching variant.

Description: Text and code are validated and written directly. Images and
gifs are first handed to the blob store; the record is written only after
the store reports success. A failed upload returns an error wrapping
[ErrNotProduced] and writes nothing.

Parameters:
  - context: context.Context
  - request: CreateRequest

Returns:
  - *Content: The persisted item
  - error: CONFIGURATION_ERROR (unknown kind), VALIDATION_ERROR, or
    an infrastructure failure
*/
func (ingestor *Ingestor) Create(context context.Context, request CreateRequest) (*Content, error) {
	kind, err := ParseKind(request.Kind)
	if err != nil {
		return nil, err
	}

	validator := &validate.Validator{}
	validateCommon(validator, request.Caption, request.Description)
	validatePayloadShape(validator, kind, request)

	if validator.HasErrors() {
		return nil, validator.Err()
	}

	var payload Payload
	switch kind {
	case KindText:
		payload, err = buildText(request.Text)
	case KindCode:
		payload, err = buildCode(request.Code)
	case KindImage:
		payload, err = ingestor.buildImage(context, request.Image)
	case KindGif:
		payload, err = ingestor.buildGif(context, request.Gif)
	}
	if err != nil {
		return nil, err
	}

	currentTime := ingestor.now().UTC()
	item := &Content{
		ID:          uuid.New(),
		Kind:        kind,
		Caption:     normalizeOptional(request.Caption),
		Description: normalizeOptional(request.Description),
		Payload:     payload,
		CreatedAt:   currentTime,
		UpdatedAt:   currentTime,
	}

	if err := ingestor.repository.Create(context, item); err != nil {
		return nil, err
	}

	ingestor.logger.InfoContext(context, "content_created",
		slog.String("content_id", item.ID),
		slog.String("kind", string(kind)),
	)

	return item, nil
}

/*
Update applies a partial change to an existing item.

Description: Sections for a different variant than the stored one are
rejected with VALIDATION_ERROR; the kind of an item never changes.
*/
func (ingestor *Ingestor) Update(context context.Context, id string, request UpdateRequest) (*Content, error) {
	item, err := ingestor.repository.FindByID(context, id)
	if err != nil {
		return nil, err
	}

	validator := &validate.Validator{}
	validateCommon(validator, request.Caption, request.Description)

	sections := map[Kind]bool{
		KindText:  request.Text != nil,
		KindCode:  request.Code != nil,
		KindImage: request.Image != nil,
		KindGif:   request.Gif != nil,
	}
	for kind, present := range sections {
		validator.Custom(string(kind), present && kind != item.Kind, fmt.Sprintf("Content %s is a %s", item.ID, item.Kind))
	}

	if validator.HasErrors() {
		return nil, validator.Err()
	}

	switch payload := item.Payload.(type) {
	case *Text:
		if request.Text != nil {
			err = applyTextPatch(payload, request.Text)
		}
	case *Code:
		if request.Code != nil {
			err = applyCodePatch(payload, request.Code)
		}
	case *Image:
		if request.Image != nil {
			err = applyImagePatch(payload, request.Image)
		}
	case *Gif:
		if request.Gif != nil {
			err = applyGifPatch(payload, request.Gif)
		}
	}
	if err != nil {
		return nil, err
	}

	if request.Caption != nil {
		item.Caption = normalizeOptional(request.Caption)
	}
	if request.Description != nil {
		item.Description = normalizeOptional(request.Description)
	}
	item.UpdatedAt = ingestor.now().UTC()

	if err := ingestor.repository.Update(context, item); err != nil {
		return nil, err
	}

	ingestor.logger.InfoContext(context, "content_updated", slog.String("content_id", item.ID))
	return item, nil
}

// # Variant Builders

func buildText(input *TextInput) (*Text, error) {
	format := TextFormat(input.Format)
	if format == "" {
		format = FormatPlain
	}

	validator := &validate.Validator{}
	validator.Required(FieldBody, input.Body).
		MaxLen(FieldBody, input.Body, MaxTextLength).
		Custom(FieldFormat, !format.IsValid(), "Must be one of: plain, markdown, html")

	if err := validator.Err(); err != nil {
		return nil, err
	}

	return &Text{Body: input.Body, Format: format}, nil
}

func buildCode(input *CodeInput) (*Code, error) {
	language := strings.TrimSpace(input.Language)
	if language == "" {
		language = DefaultLanguage
	}

	validator := &validate.Validator{}
	validator.Required(FieldBody, input.Body).
		MaxLen(FieldBody, input.Body, MaxCodeLength).
		MaxLen(FieldLanguage, language, MaxLanguageLength).
		OptionalMaxLen(FieldFilename, input.Filename, MaxFilenameLength)

	if err := validator.Err(); err != nil {
		return nil, err
	}

	return &Code{Body: input.Body, Language: language, Filename: normalizeOptional(input.Filename)}, nil
}

func (ingestor *Ingestor) buildImage(context context.Context, input *ImageInput) (*Image, error) {
	validator := &validate.Validator{}
	validateImageMetadata(validator, input.Location, input.ISO, input.Camera, input.Lens, input.FocalLength, input.FStop, input.ShutterSpeed)
	if err := validator.Err(); err != nil {
		return nil, err
	}

	stored, err := ingestor.store(context, input.Upload, KindImage)
	if err != nil {
		return nil, err
	}

	width, height := dimensions(input.Upload.Data)
	return &Image{
		WebURL:       stored.URL,
		ThumbnailURL: stored.ThumbnailURL,
		Width:        width,
		Height:       height,
		FileSize:     stored.Size,
		Camera:       input.Camera,
		Lens:         input.Lens,
		FocalLength:  input.FocalLength,
		FStop:        input.FStop,
		ShutterSpeed: input.ShutterSpeed,
		ISO:          input.ISO,
		Location:     input.Location,
		CapturedAt:   input.CapturedAt,
	}, nil
}

func (ingestor *Ingestor) buildGif(context context.Context, input *GifInput) (*Gif, error) {
	validator := &validate.Validator{}
	validator.OptionalMaxLen(FieldAuthor, input.Author, MaxAuthorLength)
	if err := validator.Err(); err != nil {
		return nil, err
	}

	stored, err := ingestor.store(context, input.Upload, KindGif)
	if err != nil {
		return nil, err
	}

	width, height := dimensions(input.Upload.Data)
	return &Gif{
		URL:          stored.URL,
		ThumbnailURL: stored.ThumbnailURL,
		Width:        width,
		Height:       height,
		Author:       normalizeOptional(input.Author),
	}, nil
}

// store hands an asset to the blob store. Failures wrap [ErrNotProduced].
func (ingestor *Ingestor) store(context context.Context, upload Upload, kind Kind) (*StoredObject, error) {
	if len(upload.Data) == 0 {
		return nil, validate.RequiredError(FieldFile, "This field is required")
	}

	stored, err := ingestor.blobs.Store(context, upload, kind)
	if err != nil {
		ingestor.logger.WarnContext(context, "content_upload_failed",
			slog.String("kind", string(kind)),
			slog.String("filename", upload.Filename),
			slog.Any("error", err),
		)
		return nil, apperr.Internal(fmt.Errorf("%w: %w", ErrNotProduced, err))
	}

	if stored.Size == 0 {
		stored.Size = int64(len(upload.Data))
	}
	return stored, nil
}

// # Patches

func applyTextPatch(text *Text, patch *TextPatch) error {
	next := TextInput{Body: text.Body, Format: string(text.Format)}
	if patch.Body != nil {
		next.Body = *patch.Body
	}
	if patch.Format != nil {
		next.Format = *patch.Format
	}

	updated, err := buildText(&next)
	if err != nil {
		return err
	}
	*text = *updated
	return nil
}

func applyCodePatch(code *Code, patch *CodePatch) error {
	next := CodeInput{Body: code.Body, Language: code.Language, Filename: code.Filename}
	if patch.Body != nil {
		next.Body = *patch.Body
	}
	if patch.Language != nil {
		next.Language = *patch.Language
	}
	if patch.Filename != nil {
		next.Filename = patch.Filename
	}

	updated, err := buildCode(&next)
	if err != nil {
		return err
	}
	*code = *updated
	return nil
}

func applyImagePatch(image *Image, patch *ImagePatch) error {
	validator := &validate.Validator{}
	validateImageMetadata(validator, patch.Location, patch.ISO, patch.Camera, patch.Lens, patch.FocalLength, patch.FStop, patch.ShutterSpeed)
	if err := validator.Err(); err != nil {
		return err
	}

	assign := func(target **string, value *string) {
		if value != nil {
			*target = normalizeOptional(value)
		}
	}
	assign(&image.Camera, patch.Camera)
	assign(&image.Lens, patch.Lens)
	assign(&image.FocalLength, patch.FocalLength)
	assign(&image.FStop, patch.FStop)
	assign(&image.ShutterSpeed, patch.ShutterSpeed)
	assign(&image.Location, patch.Location)

	if patch.ISO != nil {
		image.ISO = patch.ISO
	}
	if patch.CapturedAt != nil {
		image.CapturedAt = patch.CapturedAt
	}
	return nil
}

func applyGifPatch(gif *Gif, patch *GifPatch) error {
	validator := &validate.Validator{}
	validator.OptionalMaxLen(FieldAuthor, patch.Author, MaxAuthorLength)
	if err := validator.Err(); err != nil {
		return err
	}

	if patch.Author != nil {
		gif.Author = normalizeOptional(patch.Author)
	}
	return nil
}

// # Helpers

func validateCommon(validator *validate.Validator, caption, description *string) {
	validator.OptionalMaxLen(FieldCaption, caption, MaxCaptionLength).
		OptionalMaxLen(FieldDescription, description, MaxDescriptionLength)
}

func validateImageMetadata(validator *validate.Validator, location *string, iso *int, metadata ...*string) {
	validator.OptionalMaxLen(FieldLocation, location, MaxCaptionLength)
	validator.Custom(FieldISO, iso != nil && *iso <= 0, "Must be positive")
	for _, value := range metadata {
		validator.OptionalMaxLen("metadata", value, MaxMetadataLength)
	}
}

// validatePayloadShape requires the payload section for kind and no other.
func validatePayloadShape(validator *validate.Validator, kind Kind, request CreateRequest) {
	sections := []struct {
		kind    Kind
		present bool
	}{
		{KindText, request.Text != nil},
		{KindCode, request.Code != nil},
		{KindImage, request.Image != nil},
		{KindGif, request.Gif != nil},
	}

	for _, section := range sections {
		switch {
		case section.kind == kind && !section.present:
			validator.Custom(string(section.kind), true, "This field is required")
		case section.kind != kind && section.present:
			validator.Custom(string(section.kind), true, fmt.Sprintf("Not allowed for %s content", kind))
		}
	}
}

// normalizeOptional maps blank optional strings to absent.
func normalizeOptional(value *string) *string {
	if value == nil {
		return nil
	}
	trimmed := strings.TrimSpace(*value)
	if trimmed == "" {
		return nil
	}
	return &trimmed
}

// dimensions reads width and height from the image header, or zeros when
// the format has no registered decoder.
func dimensions(data []byte) (int, int) {
	config, _, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return 0, 0
	}
	return config.Width, config.Height
}
