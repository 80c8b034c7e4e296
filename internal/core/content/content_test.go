// Copyright (c) 2026 Folio. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package content_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taibuivan/folio/internal/core/content"
	"github.com/taibuivan/folio/internal/platform/apperr"
	"github.com/taibuivan/folio/pkg/pointer"
)

/*
TestParseKind dispatches on the explicit tag only.
*/
func TestParseKind(t *testing.T) {
	for _, kind := range content.Kinds {
		parsed, err := content.ParseKind(string(kind))
		require.NoError(t, err)
		assert.Equal(t, kind, parsed)
	}

	for _, tag := range []string{"", "video", "IMAGE", "Text"} {
		_, err := content.ParseKind(tag)
		assert.True(t, apperr.HasCode(err, apperr.CodeConfiguration), tag)
	}
}

/*
TestRecord_RoundTrip encodes and decodes every variant.
*/
func TestRecord_RoundTrip(t *testing.T) {
	createdAt := time.Date(2025, 6, 1, 8, 30, 0, 0, time.UTC)

	items := []*content.Content{
		{ID: "img", Kind: content.KindImage, Payload: &content.Image{
			WebURL: "https://cdn/folio/image/a.jpg", Width: 1200, Height: 800, FileSize: 2048,
			Camera: pointer.To("X100V"), ISO: pointer.To(400),
		}},
		{ID: "txt", Kind: content.KindText, Caption: pointer.To("intro"), Payload: &content.Text{
			Body: "# Hello", Format: content.FormatMarkdown,
		}},
		{ID: "code", Kind: content.KindCode, Payload: &content.Code{
			Body: "fmt.Println(1)", Language: "go", Filename: pointer.To("main.go"),
		}},
		{ID: "gif", Kind: content.KindGif, Description: pointer.To("loop"), Payload: &content.Gif{
			URL: "https://cdn/folio/gif/b.gif", Width: 320, Height: 240, Author: pointer.To("studio"),
		}},
	}

	for _, item := range items {
		t.Run(string(item.Kind), func(t *testing.T) {
			item.CreatedAt, item.UpdatedAt = createdAt, createdAt

			record, err := content.ToRecord(item)
			require.NoError(t, err)
			assert.Equal(t, string(item.Kind), record.Kind)

			decoded, err := content.FromRecord(record)
			require.NoError(t, err)
			assert.Equal(t, item, decoded)
		})
	}
}

/*
TestFromRecord_UnknownKind fails loudly instead of guessing.
*/
func TestFromRecord_UnknownKind(t *testing.T) {
	_, err := content.FromRecord(content.Record{ID: "x", Kind: "video", Payload: []byte(`{}`)})
	assert.True(t, apperr.HasCode(err, apperr.CodeConfiguration))
}

/*
TestToRecord_KindMismatch rejects a tag that disagrees with the payload.
*/
func TestToRecord_KindMismatch(t *testing.T) {
	_, err := content.ToRecord(&content.Content{ID: "x", Kind: content.KindCode, Payload: &content.Text{Body: "a"}})
	assert.True(t, apperr.HasCode(err, apperr.CodeConfiguration))

	_, err = content.ToRecord(&content.Content{ID: "y", Kind: content.KindText})
	assert.True(t, apperr.HasCode(err, apperr.CodeConfiguration))
}

/*
TestContent_Accessors exposes only the variant that is present.
*/
func TestContent_Accessors(t *testing.T) {
	item := &content.Content{Kind: content.KindCode, Payload: &content.Code{Body: "x", Language: "go"}}

	code, ok := item.Code()
	require.True(t, ok)
	assert.Equal(t, "go", code.Language)

	_, ok = item.Text()
	assert.False(t, ok)
	_, ok = item.Image()
	assert.False(t, ok)
	_, ok = item.Gif()
	assert.False(t, ok)
}
