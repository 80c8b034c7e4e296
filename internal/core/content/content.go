// Copyright (c) 2026 Folio. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package content defines the polymorphic content items placed in collections.

A [Content] carries the fields every kind shares and exactly one [Payload]
variant ([*Image], [*Text], [*Code] or [*Gif]). The kind tag is explicit and
is the only thing dispatch looks at; an unrecognised tag is a configuration
defect, never a user error.

Content is collection-agnostic: ordering, visibility and caption overrides
live on the composition link owned by the collection package.
*/
package content

import (
	"time"

	"github.com/taibuivan/folio/internal/platform/apperr"
)

// # Kinds

// Kind is the explicit tag selecting a content variant.
type Kind string

const (
	KindImage Kind = "image"
	KindText  Kind = "text"
	KindCode  Kind = "code"
	KindGif   Kind = "gif"
)

// Kinds lists every supported kind in display order.
var Kinds = []Kind{KindImage, KindText, KindCode, KindGif}

// IsValid reports whether k is a recognised [Kind].
func (k Kind) IsValid() bool {
	switch k {
	case KindImage, KindText, KindCode, KindGif:
		return true
	}
	return false
}

// ParseKind converts a stored or requested tag into a [Kind].
//
// Unknown tags fail with CONFIGURATION_ERROR ("unknown content type").
func ParseKind(tag string) (Kind, error) {
	kind := Kind(tag)
	if !kind.IsValid() {
		return "", apperr.Configuration("unknown content type: " + tag)
	}
	return kind, nil
}

// TextFormat tells renderers how to interpret a text body.
type TextFormat string

const (
	FormatPlain    TextFormat = "plain"
	FormatMarkdown TextFormat = "markdown"
	FormatHTML     TextFormat = "html"
)

// IsValid reports whether f is a recognised [TextFormat].
func (f TextFormat) IsValid() bool {
	switch f {
	case FormatPlain, FormatMarkdown, FormatHTML:
		return true
	}
	return false
}

// # Limits

const (
	MaxCaptionLength     = 255
	MaxDescriptionLength = 500
	MaxTextLength        = 10_000
	MaxCodeLength        = 50_000
	MaxLanguageLength    = 50
	MaxFilenameLength    = 255
	MaxAuthorLength      = 255
	MaxMetadataLength    = 100

	// DefaultLanguage is applied to code snippets submitted without one.
	DefaultLanguage = "plaintext"
)

// # Field Names

const (
	FieldKind        = "kind"
	FieldCaption     = "caption"
	FieldDescription = "description"
	FieldBody        = "body"
	FieldFormat      = "format"
	FieldLanguage    = "language"
	FieldFilename    = "filename"
	FieldFile        = "file"
	FieldAuthor      = "author"
	FieldLocation    = "location"
	FieldISO         = "iso"
)

// # Entities

// Content is a single item that can be placed into collections.
type Content struct {
	ID          string    `json:"id"`
	Kind        Kind      `json:"kind"`
	Caption     *string   `json:"caption,omitempty"`
	Description *string   `json:"description,omitempty"`
	Payload     Payload   `json:"payload"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// Payload is the kind-specific part of a [Content]. The set of
// implementations is closed: [*Image], [*Text], [*Code] and [*Gif].
type Payload interface {
	Kind() Kind
	payload()
}

// Image is an uploaded photograph or illustration.
type Image struct {
	WebURL       string     `json:"web_url"`
	ThumbnailURL *string    `json:"thumbnail_url,omitempty"`
	Width        int        `json:"width"`
	Height       int        `json:"height"`
	FileSize     int64      `json:"file_size"`
	Camera       *string    `json:"camera,omitempty"`
	Lens         *string    `json:"lens,omitempty"`
	FocalLength  *string    `json:"focal_length,omitempty"`
	FStop        *string    `json:"f_stop,omitempty"`
	ShutterSpeed *string    `json:"shutter_speed,omitempty"`
	ISO          *int       `json:"iso,omitempty"`
	Location     *string    `json:"location,omitempty"`
	CapturedAt   *time.Time `json:"captured_at,omitempty"`
}

// Text is a block of prose.
type Text struct {
	Body   string     `json:"body"`
	Format TextFormat `json:"format"`
}

// Code is a source snippet.
type Code struct {
	Body     string  `json:"body"`
	Language string  `json:"language"`
	Filename *string `json:"filename,omitempty"`
}

// Gif is an animated image.
type Gif struct {
	URL          string  `json:"url"`
	ThumbnailURL *string `json:"thumbnail_url,omitempty"`
	Width        int     `json:"width"`
	Height       int     `json:"height"`
	Author       *string `json:"author,omitempty"`
}

func (*Image) Kind() Kind { return KindImage }
func (*Text) Kind() Kind  { return KindText }
func (*Code) Kind() Kind  { return KindCode }
func (*Gif) Kind() Kind   { return KindGif }

func (*Image) payload() {}
func (*Text) payload()  {}
func (*Code) payload()  {}
func (*Gif) payload()   {}

// Image returns the image payload, if this is an image.
func (c *Content) Image() (*Image, bool) {
	image, ok := c.Payload.(*Image)
	return image, ok
}

// Text returns the text payload, if this is a text block.
func (c *Content) Text() (*Text, bool) {
	text, ok := c.Payload.(*Text)
	return text, ok
}

// Code returns the code payload, if this is a code snippet.
func (c *Content) Code() (*Code, bool) {
	code, ok := c.Payload.(*Code)
	return code, ok
}

// Gif returns the gif payload, if this is a gif.
func (c *Content) Gif() (*Gif, bool) {
	gif, ok := c.Payload.(*Gif)
	return gif, ok
}
