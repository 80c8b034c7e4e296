// Copyright (c) 2026 Folio. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package blob_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/taibuivan/folio/internal/platform/blob"
)

/* TestObjectKey verifies the prefix and extension rules of generated keys. */
func TestObjectKey(t *testing.T) {
	tests := []struct {
		name        string
		filename    string
		contentType string
		wantSuffix  string
	}{
		{name: "extension from filename", filename: "Sunset.JPG", contentType: "image/jpeg", wantSuffix: ".jpg"},
		{name: "extension from content type", filename: "sunset", contentType: "image/png", wantSuffix: ".png"},
		{name: "unknown type has no extension", filename: "blob", contentType: "application/pdf", wantSuffix: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			key := blob.ObjectKey("image", tt.filename, tt.contentType)
			assert.True(t, strings.HasPrefix(key, "image/"))
			assert.True(t, strings.HasSuffix(key, tt.wantSuffix))

			// prefix + "/" + 36-char uuid + extension
			assert.Len(t, key, len("image/")+36+len(tt.wantSuffix))
		})
	}

	assert.NotEqual(t, blob.ObjectKey("gif", "a.gif", ""), blob.ObjectKey("gif", "a.gif", ""))
}

/* TestObjectURL checks trailing slashes on the base are collapsed. */
func TestObjectURL(t *testing.T) {
	assert.Equal(t, "https://cdn.folio.app/media/image/a.jpg", blob.ObjectURL("https://cdn.folio.app/", "media", "image/a.jpg"))
	assert.Equal(t, "http://localhost:9000/media/gif/b.gif", blob.ObjectURL("http://localhost:9000", "media", "gif/b.gif"))
}

/* TestDetectContentType keeps declared types and sniffs generic ones. */
func TestDetectContentType(t *testing.T) {
	gif := []byte("GIF89a\x01\x00\x01\x00")

	assert.Equal(t, "image/webp", blob.DetectContentType("image/webp", gif))
	assert.Equal(t, "image/gif", blob.DetectContentType("", gif))
	assert.Equal(t, "image/gif", blob.DetectContentType("application/octet-stream", gif))
}
